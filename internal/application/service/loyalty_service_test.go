package service

import (
	"testing"

	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func TestPlanRedemption(t *testing.T) {
	whole := NewLoyaltyService(nil, nil, testLoyaltyConfig())

	cfg := testLoyaltyConfig()
	cfg.RedeemValue = decimal.RequireFromString("0.4")
	fractional := NewLoyaltyService(nil, nil, cfg)

	tests := []struct {
		name   string
		svc    *LoyaltyService
		points int64
		total  int64
		want   Redemption
	}{
		{name: "within total", svc: whole, points: 10, total: 5000, want: Redemption{Points: 10, Discount: 1000}},
		{name: "capped at total", svc: whole, points: 10, total: 250, want: Redemption{Points: 3, Discount: 250}},
		{name: "nothing requested", svc: whole, points: 0, total: 250, want: Redemption{}},
		{name: "nothing due", svc: whole, points: 5, total: 0, want: Redemption{}},
		{name: "worth less than a cent", svc: fractional, points: 1, total: 1000, want: Redemption{}},
		{name: "fractional value rounds", svc: fractional, points: 5, total: 1000, want: Redemption{Points: 5, Discount: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.svc.PlanRedemption(tt.points, tt.total); got != tt.want {
				t.Errorf("PlanRedemption(%d, %d) = %+v, want %+v", tt.points, tt.total, got, tt.want)
			}
		})
	}
}

func TestRedeemWorthlessPointsLeavesBalance(t *testing.T) {
	env := newTestEnv(t, 0)
	cfg := testLoyaltyConfig()
	cfg.RedeemValue = decimal.RequireFromString("0.4")
	loyalty := NewLoyaltyService(env.repos.Customers, env.repos.Loyalty, cfg)
	c := env.customer(t, enum.MembershipBronze, 10)

	r, err := loyalty.Redeem(env.ctx, c, 1, 1000, "TXN-1")
	if err != nil {
		t.Fatalf("Redeem() error = %v", err)
	}
	if r.Points != 0 || r.Discount != 0 {
		t.Errorf("redemption = %+v, want none", r)
	}
	if balance, _ := loyalty.Balance(env.ctx, c.ID); balance != 10 {
		t.Errorf("balance = %d, want 10", balance)
	}
}
