package service

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/config"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/memory"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/session"
	"github.com/sangkips/tillpoint-api/pkg/identifier"
	"github.com/shopspring/decimal"
)

type testEnv struct {
	ctx      context.Context
	store    *memory.Store
	repos    memory.Repositories
	sessions *session.MemoryStore

	inventory *InventoryService
	loyalty   *LoyaltyService
	voids     *VoidService
	carts     *CartService
	held      *HeldService
	sales     *SaleService
	tills     *TillService

	cashier *Session
	admin   *Session
	walkIn  *entity.Customer
}

func testLoyaltyConfig() config.LoyaltyConfig {
	return config.LoyaltyConfig{
		Enabled:     true,
		RedeemValue: decimal.NewFromInt(100),
		EarnRate:    decimal.RequireFromString("0.0001"),
		TierMultipliers: map[string]decimal.Decimal{
			"bronze":   decimal.NewFromInt(1),
			"silver":   decimal.RequireFromString("1.25"),
			"gold":     decimal.RequireFromString("1.5"),
			"platinum": decimal.NewFromInt(2),
		},
	}
}

func newTestEnv(t *testing.T, taxRate int64) *testEnv {
	t.Helper()

	store := memory.NewStore()
	repos := store.Repositories()
	sessions := session.NewMemoryStore()

	ids := identifier.NewGeneratorWithSeed(identifier.Config{
		TransactionFormat: identifier.TxPrefixRandom,
		TransactionPrefix: "TXN",
		RandomLength:      8,
		ReceiptFormat:     identifier.ReceiptPrefixNumber,
		ReceiptPrefix:     "RCP",
		Separator:         "-",
		ReceiptPadding:    6,
	}, rand.New(rand.NewPCG(1, 2)), time.Now)

	rate := decimal.NewFromInt(taxRate)
	inventory := NewInventoryService(repos.Products, repos.Composites)
	loyalty := NewLoyaltyService(repos.Customers, repos.Loyalty, testLoyaltyConfig())
	voids := NewVoidService(repos.Voids)
	carts := NewCartService(store, repos.Cart, inventory, voids, rate)
	held := NewHeldService(store, repos.Held, repos.Cart, inventory, carts, voids)
	sales := NewSaleService(store, repos.Cart, repos.Sales, repos.Customers, repos.Tills,
		inventory, loyalty, carts, ids, config.POSConfig{StoreName: "Test Store", Currency: "KES", TaxRate: rate, ReprintLimit: 2})
	tills := NewTillService(store, repos.Tills, repos.TillSessions, repos.CashDrops, repos.TillClosings,
		repos.Sales, repos.Cart, repos.Held, sessions, config.TillConfig{
			ConfirmationPhrase: "CLOSE TILL",
			ReauthTTL:          5 * time.Minute,
			Tolerance:          1,
		})

	env := &testEnv{
		ctx:       context.Background(),
		store:     store,
		repos:     repos,
		sessions:  sessions,
		inventory: inventory,
		loyalty:   loyalty,
		voids:     voids,
		carts:     carts,
		held:      held,
		sales:     sales,
		tills:     tills,
		cashier: &Session{
			OwnerID:     uuid.New(),
			Name:        "Jane Cashier",
			Roles:       []string{entity.RoleCashier},
			Permissions: []string{entity.PermissionProcessSales, entity.PermissionCloseTill},
		},
		admin: &Session{
			OwnerID: uuid.New(),
			Name:    "Admin",
			Roles:   []string{entity.RoleAdmin},
		},
	}

	env.walkIn = &entity.Customer{Name: "Walk-in Customer", IsWalkIn: true, MembershipTier: enum.MembershipBronze}
	if err := repos.Customers.Create(env.ctx, env.walkIn); err != nil {
		t.Fatalf("create walk-in: %v", err)
	}
	return env
}

func (e *testEnv) product(t *testing.T, name string, price int64, qty int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:           name,
		Code:           uuid.NewString()[:8],
		SellingPrice:   price,
		Quantity:       qty,
		TrackInventory: true,
		IsActive:       true,
	}
	if err := e.repos.Products.Create(e.ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (e *testEnv) composite(t *testing.T, base *entity.Product, name string, perUnit int, price int64) *entity.CompositeUnit {
	t.Helper()
	u := &entity.CompositeUnit{
		Name:                name,
		Code:                uuid.NewString()[:8],
		BaseProductID:       base.ID,
		BaseQuantityPerUnit: perUnit,
		SellingPrice:        price,
		IsActive:            true,
	}
	if err := e.repos.Composites.Create(e.ctx, u); err != nil {
		t.Fatalf("create composite: %v", err)
	}
	return u
}

func (e *testEnv) customer(t *testing.T, tier enum.MembershipTier, points int64) *entity.Customer {
	t.Helper()
	c := &entity.Customer{Name: "Loyal " + tier.String(), MembershipTier: tier, LoyaltyPoints: points}
	if err := e.repos.Customers.Create(e.ctx, c); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return c
}

func (e *testEnv) till(t *testing.T, code string) *entity.Till {
	t.Helper()
	till := &entity.Till{Code: code, Name: "Till " + code, Status: enum.TillStatusClosed}
	if err := e.repos.Tills.Create(e.ctx, till); err != nil {
		t.Fatalf("create till: %v", err)
	}
	return till
}

// openTill opens a fresh till for sess and selects it
func (e *testEnv) openTill(t *testing.T, sess *Session, code string) *entity.Till {
	t.Helper()
	till := e.till(t, code)
	if _, err := e.tills.Open(e.ctx, sess, till.ID, 0); err != nil {
		t.Fatalf("open till %s: %v", code, err)
	}
	sess.TillID = &till.ID
	return till
}

func (e *testEnv) add(t *testing.T, sess *Session, p *entity.Product, qty int) {
	t.Helper()
	id := p.ID
	if _, err := e.carts.AddLine(e.ctx, sess, &AddLineInput{ProductID: &id, Quantity: qty}); err != nil {
		t.Fatalf("add %s x%d: %v", p.Name, qty, err)
	}
}

func (e *testEnv) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := e.repos.Products.GetByID(e.ctx, id)
	if err != nil || p == nil {
		t.Fatalf("get product: %v", err)
	}
	return p.Quantity
}

func cash(amount int64) []PaymentInput {
	return []PaymentInput{{Method: enum.PaymentMethodCash, Amount: amount}}
}
