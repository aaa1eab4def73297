package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/config"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// LoyaltyService handles points balances, redemption and accrual
type LoyaltyService struct {
	customerRepo repository.CustomerRepository
	loyaltyRepo  repository.LoyaltyTransactionRepository
	cfg          config.LoyaltyConfig
}

// NewLoyaltyService creates a new loyalty service
func NewLoyaltyService(
	customerRepo repository.CustomerRepository,
	loyaltyRepo repository.LoyaltyTransactionRepository,
	cfg config.LoyaltyConfig,
) *LoyaltyService {
	return &LoyaltyService{
		customerRepo: customerRepo,
		loyaltyRepo:  loyaltyRepo,
		cfg:          cfg,
	}
}

// Redemption is the outcome of redeeming points against a sale
type Redemption struct {
	Points   int64
	Discount int64 // cents
}

// Enabled reports whether the programme is switched on
func (s *LoyaltyService) Enabled() bool {
	return s.cfg.Enabled
}

// Balance returns the customer's current points balance
func (s *LoyaltyService) Balance(ctx context.Context, customerID uuid.UUID) (int64, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return 0, err
	}
	if customer == nil {
		return 0, apperror.NewNotFoundError("Customer")
	}
	return customer.LoyaltyPoints, nil
}

// PointsToCurrency converts points to their redemption value in cents
func (s *LoyaltyService) PointsToCurrency(points int64) int64 {
	return decimal.NewFromInt(points).Mul(s.cfg.RedeemValue).Round(0).IntPart()
}

// PlanRedemption caps a points request at the amount due. When the points are
// worth more than the total the point count is reduced proportionally, rounding up.
// Points worth less than a cent are not redeemed.
func (s *LoyaltyService) PlanRedemption(points, total int64) Redemption {
	if points <= 0 || total <= 0 || !s.cfg.RedeemValue.IsPositive() {
		return Redemption{}
	}
	discount := s.PointsToCurrency(points)
	if discount <= 0 {
		return Redemption{}
	}
	if discount <= total {
		return Redemption{Points: points, Discount: discount}
	}
	needed := decimal.NewFromInt(total).Div(s.cfg.RedeemValue).Ceil().IntPart()
	if needed > points {
		needed = points
	}
	return Redemption{Points: needed, Discount: total}
}

// Redeem debits points from the customer for a sale. The debit only succeeds
// when the balance still covers it at write time.
func (s *LoyaltyService) Redeem(ctx context.Context, customer *entity.Customer, points, total int64, ref string) (Redemption, error) {
	if points <= 0 {
		return Redemption{}, nil
	}
	if !s.cfg.Enabled {
		return Redemption{}, apperror.NewBadRequestError("Loyalty programme is disabled")
	}
	if customer == nil || customer.IsWalkIn {
		return Redemption{}, apperror.NewBadRequestError("Walk-in customers cannot redeem points")
	}

	r := s.PlanRedemption(points, total)
	if r.Points == 0 {
		return r, nil
	}

	ok, err := s.customerRepo.AtomicDebitPoints(ctx, customer.ID, r.Points)
	if err != nil {
		return Redemption{}, err
	}
	if !ok {
		return Redemption{}, apperror.ErrInsufficientPoints
	}

	if err := s.loyaltyRepo.Create(ctx, &entity.LoyaltyTransaction{
		CustomerID:     customer.ID,
		Points:         -r.Points,
		Memo:           fmt.Sprintf("Redeemed for %s discount", decimal.New(r.Discount, -2).StringFixed(2)),
		TransactionRef: ref,
	}); err != nil {
		return Redemption{}, err
	}
	return r, nil
}

// EarnedPoints is floor(paid × earn rate × tier multiplier)
func (s *LoyaltyService) EarnedPoints(customer *entity.Customer, paid int64) int64 {
	if !s.cfg.Enabled || customer == nil || customer.IsWalkIn || paid <= 0 {
		return 0
	}
	multiplier, ok := s.cfg.TierMultipliers[customer.MembershipTier.String()]
	if !ok {
		multiplier = decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(paid).Mul(s.cfg.EarnRate).Mul(multiplier).Floor().IntPart()
}

// Accrue credits points earned on a paid amount and journals them
func (s *LoyaltyService) Accrue(ctx context.Context, customer *entity.Customer, paid int64, ref string) (int64, error) {
	points := s.EarnedPoints(customer, paid)
	if points == 0 {
		return 0, nil
	}
	if err := s.customerRepo.CreditPoints(ctx, customer.ID, points); err != nil {
		return 0, err
	}
	if err := s.loyaltyRepo.Create(ctx, &entity.LoyaltyTransaction{
		CustomerID:     customer.ID,
		Points:         points,
		Memo:           "Earned on purchase",
		TransactionRef: ref,
	}); err != nil {
		return 0, err
	}
	return points, nil
}

// History lists a customer's points journal, newest first
func (s *LoyaltyService) History(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.LoyaltyTransaction], error) {
	params = pageParams(params)
	items, total, err := s.loyaltyRepo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}
