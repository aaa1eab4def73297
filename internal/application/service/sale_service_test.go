package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

func TestCommitConservesStockAndClearsCart(t *testing.T) {
	env := newTestEnv(t, 16)
	env.openTill(t, env.cashier, "T1")
	bread := env.product(t, "Bread", 6000, 10)
	milk := env.product(t, "Milk", 5500, 10)
	env.add(t, env.cashier, bread, 2)
	env.add(t, env.cashier, milk, 3)

	// subtotal 28500, tax 4560
	out, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: cash(33060)})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if got := env.stock(t, bread.ID); got != 8 {
		t.Errorf("bread stock = %d, want 8", got)
	}
	if got := env.stock(t, milk.ID); got != 7 {
		t.Errorf("milk stock = %d, want 7", got)
	}

	sale := out.Sale
	if sale.Subtotal != 28500 || sale.TaxAmount != 4560 || sale.TotalAmount != 33060 || sale.AmountPaid != 33060 {
		t.Errorf("sale totals = %d/%d/%d paid %d", sale.Subtotal, sale.TaxAmount, sale.TotalAmount, sale.AmountPaid)
	}
	if len(sale.Items) != 2 || len(sale.Payments) != 1 {
		t.Fatalf("items=%d payments=%d", len(sale.Items), len(sale.Payments))
	}
	var itemsTotal int64
	for _, item := range sale.Items {
		if item.LineTotal != item.UnitPrice*int64(item.Quantity) {
			t.Errorf("item %s line total %d != %d x %d", item.Name, item.LineTotal, item.UnitPrice, item.Quantity)
		}
		itemsTotal += item.LineTotal
	}
	if itemsTotal != sale.Subtotal {
		t.Errorf("items sum to %d, subtotal %d", itemsTotal, sale.Subtotal)
	}

	if sale.ReceiptNo == nil || *sale.ReceiptNo != "RCP-000001" {
		t.Errorf("receipt no = %v, want RCP-000001", sale.ReceiptNo)
	}
	if out.Receipt.ReceiptNo != "RCP-000001" || out.Receipt.Cashier != "Jane Cashier" || len(out.Receipt.Items) != 2 {
		t.Errorf("receipt = %+v", out.Receipt)
	}

	cart, _ := env.carts.GetCart(env.ctx, env.cashier)
	if len(cart.Lines) != 0 {
		t.Errorf("cart has %d lines after commit", len(cart.Lines))
	}
}

func TestCommitReceiptNumbersFollowSequence(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")
	p := env.product(t, "Gum", 50, 100)

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		env.add(t, env.cashier, p, 1)
		out, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: cash(50)})
		if err != nil {
			t.Fatal(err)
		}
		no := *out.Sale.ReceiptNo
		if seen[no] {
			t.Fatalf("duplicate receipt number %s", no)
		}
		seen[no] = true
		if out.Sale.TransactionID == "" {
			t.Error("empty transaction id")
		}
	}
	if !seen["RCP-000003"] {
		t.Errorf("receipts = %v, want RCP-000001..3", seen)
	}
}

func TestCommitInsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")
	plenty := env.product(t, "Water", 100, 10)
	scarce := env.product(t, "Cake", 900, 2)
	env.add(t, env.cashier, plenty, 3)
	env.add(t, env.cashier, scarce, 2)

	// Another till sells the last cake before this checkout
	if ok, err := env.repos.Products.AtomicDecrementQuantity(env.ctx, scarce.ID, 1); err != nil || !ok {
		t.Fatalf("decrement: ok=%v err=%v", ok, err)
	}

	_, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: cash(2100)})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("Commit() error = %v, want InsufficientStock", err)
	}

	if got := env.stock(t, plenty.ID); got != 10 {
		t.Errorf("water stock = %d, want 10 after rollback", got)
	}
	if got := env.stock(t, scarce.ID); got != 1 {
		t.Errorf("cake stock = %d, want 1", got)
	}
	cart, _ := env.carts.GetCart(env.ctx, env.cashier)
	if len(cart.Lines) != 2 {
		t.Errorf("cart lines = %d, want 2 kept", len(cart.Lines))
	}
	sales, _ := env.sales.ListSales(env.ctx, &repository.SaleFilter{})
	if sales.Pagination.Total != 0 {
		t.Errorf("sales = %d, want 0", sales.Pagination.Total)
	}
}

func TestCommitPaymentMismatchRollsBack(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")
	p := env.product(t, "Pen", 250, 10)
	env.add(t, env.cashier, p, 2)

	tests := []struct {
		name     string
		payments []PaymentInput
	}{
		{name: "underpaid", payments: cash(400)},
		{name: "overpaid", payments: cash(600)},
		{name: "split short", payments: []PaymentInput{
			{Method: enum.PaymentMethodCash, Amount: 200},
			{Method: enum.PaymentMethodCard, Amount: 200},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: tt.payments})
			if !errors.Is(err, apperror.ErrPaymentMismatch) {
				t.Fatalf("error = %v, want PaymentMismatch", err)
			}
			if got := env.stock(t, p.ID); got != 10 {
				t.Errorf("stock = %d, want 10", got)
			}
		})
	}
}

func TestCommitRejectsEmptyCartAndBadPayments(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")

	_, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: cash(100)})
	if !errors.Is(err, apperror.ErrInvalidCart) {
		t.Errorf("empty cart error = %v, want InvalidCart", err)
	}

	_, err = env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{})
	if err == nil {
		t.Error("expected error for missing payments")
	}

	_, err = env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: []PaymentInput{{Method: "barter", Amount: 1}}})
	if err == nil {
		t.Error("expected error for unknown payment method")
	}
}

func TestCommitSplitPaymentAndChange(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")
	p := env.product(t, "Shoes", 4500, 5)
	env.add(t, env.cashier, p, 1)

	tendered := int64(3000)
	out, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{
		Payments: []PaymentInput{
			{Method: enum.PaymentMethodCash, Amount: 2000},
			{Method: enum.PaymentMethodMobile, Amount: 2500, Reference: "QWE123"},
		},
		CashTendered: &tendered,
	})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if out.Sale.ChangeDue != 1000 || out.Sale.CashTendered != 3000 {
		t.Errorf("change = %d tendered = %d, want 1000 and 3000", out.Sale.ChangeDue, out.Sale.CashTendered)
	}
	var sum int64
	for _, pay := range out.Sale.Payments {
		sum += pay.Amount
	}
	if sum != out.Sale.AmountDue() {
		t.Errorf("payments %d != amount due %d", sum, out.Sale.AmountDue())
	}
}

func TestCommitCompositeDeductsBaseProduct(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")
	eggs := env.product(t, "Egg", 20, 40)
	tray := env.composite(t, eggs, "Egg tray", 12, 220)
	trayID := tray.ID

	if _, err := env.carts.AddLine(env.ctx, env.cashier, &AddLineInput{CompositeUnitID: &trayID, Quantity: 3}); err != nil {
		t.Fatal(err)
	}
	out, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: cash(660)})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if got := env.stock(t, eggs.ID); got != 4 {
		t.Errorf("egg stock = %d, want 4", got)
	}
	if item := out.Sale.Items[0]; !item.IsComposite || item.BaseQuantityDeducted != 36 {
		t.Errorf("item = %+v, want composite with 36 deducted", item)
	}
}

func TestConcurrentCommitsNeverOversell(t *testing.T) {
	env := newTestEnv(t, 0)
	const cashiers = 6
	p := env.product(t, "Console", 30000, cashiers-1)

	sessions := make([]*Session, cashiers)
	for i := range sessions {
		sessions[i] = &Session{OwnerID: uuid.New(), Name: "cashier"}
		env.openTill(t, sessions[i], fmt.Sprintf("C%d", i))
		env.add(t, sessions[i], p, 1)
	}

	var wg sync.WaitGroup
	errs := make([]error, cashiers)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.sales.Commit(env.ctx, sessions[i], &CheckoutInput{Payments: cash(30000)})
		}(i)
	}
	wg.Wait()

	succeeded, failed := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperror.ErrInsufficientStock):
			failed++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != cashiers-1 || failed != 1 {
		t.Errorf("succeeded=%d failed=%d, want %d and 1", succeeded, failed, cashiers-1)
	}
	if got := env.stock(t, p.ID); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

func TestCommitLoyaltyRedemptionAndAccrual(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")
	p := env.product(t, "Blender", 50000, 5)
	gold := env.customer(t, enum.MembershipGold, 100)
	env.add(t, env.cashier, p, 1)

	// 100 points at 100 cents each = 10000 off; 40000 paid earns floor(40000 x 0.0001 x 1.5) = 6
	out, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{
		Payments:     cash(40000),
		CustomerID:   &gold.ID,
		RedeemPoints: 100,
	})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	sale := out.Sale
	if sale.LoyaltyDiscount != 10000 || sale.PointsRedeemed != 100 || sale.PointsEarned != 6 {
		t.Errorf("discount=%d redeemed=%d earned=%d", sale.LoyaltyDiscount, sale.PointsRedeemed, sale.PointsEarned)
	}
	balance, _ := env.loyalty.Balance(env.ctx, gold.ID)
	if balance != 6 {
		t.Errorf("balance = %d, want 6", balance)
	}
	if out.Receipt.Loyalty == nil || out.Receipt.Loyalty.Balance != 6 {
		t.Errorf("receipt loyalty = %+v", out.Receipt.Loyalty)
	}

	history, err := env.loyalty.History(env.ctx, gold.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(history.Items) != 2 {
		t.Errorf("loyalty journal entries = %d, want 2", len(history.Items))
	}
}

func TestCommitRedemptionCappedAtTotal(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")
	p := env.product(t, "Candy", 250, 5)
	c := env.customer(t, enum.MembershipBronze, 10)
	env.add(t, env.cashier, p, 1)

	// 10 points are worth 1000 but only 250 is due: 3 points cover it
	out, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{
		Payments:     cash(0),
		CustomerID:   &c.ID,
		RedeemPoints: 10,
	})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if out.Sale.LoyaltyDiscount != 250 || out.Sale.PointsRedeemed != 3 || out.Sale.PointsEarned != 0 {
		t.Errorf("discount=%d redeemed=%d earned=%d", out.Sale.LoyaltyDiscount, out.Sale.PointsRedeemed, out.Sale.PointsEarned)
	}
	balance, _ := env.loyalty.Balance(env.ctx, c.ID)
	if balance != 7 {
		t.Errorf("balance = %d, want 7", balance)
	}
}

func TestCommitRedemptionBeyondBalanceRollsBack(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")
	p := env.product(t, "Lamp", 5000, 5)
	c := env.customer(t, enum.MembershipSilver, 5)
	env.add(t, env.cashier, p, 1)

	_, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{
		Payments:     cash(4000),
		CustomerID:   &c.ID,
		RedeemPoints: 10,
	})
	if !errors.Is(err, apperror.ErrInsufficientPoints) {
		t.Fatalf("error = %v, want InsufficientPoints", err)
	}
	if got := env.stock(t, p.ID); got != 5 {
		t.Errorf("stock = %d, want 5", got)
	}
	if balance, _ := env.loyalty.Balance(env.ctx, c.ID); balance != 5 {
		t.Errorf("balance = %d, want 5", balance)
	}
}

func TestWalkInCustomerEarnsNothing(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")
	p := env.product(t, "TV", 1000000, 5)
	env.add(t, env.cashier, p, 1)

	out, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: cash(1000000)})
	if err != nil {
		t.Fatal(err)
	}
	if out.Sale.PointsEarned != 0 || out.Sale.CustomerName != env.walkIn.Name {
		t.Errorf("walk-in sale = earned %d customer %q", out.Sale.PointsEarned, out.Sale.CustomerName)
	}
}

func TestReprintLimit(t *testing.T) {
	env := newTestEnv(t, 0)
	env.openTill(t, env.cashier, "T1")
	p := env.product(t, "Book", 1200, 5)
	env.add(t, env.cashier, p, 1)
	out, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: cash(1200)})
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 2; i++ {
		receipt, err := env.sales.Reprint(env.ctx, env.cashier, out.Sale.ID)
		if err != nil {
			t.Fatalf("reprint %d: %v", i, err)
		}
		if !receipt.Reprint || receipt.ReprintCount != i {
			t.Errorf("reprint %d receipt = reprint %v count %d", i, receipt.Reprint, receipt.ReprintCount)
		}
	}
	if _, err := env.sales.Reprint(env.ctx, env.cashier, out.Sale.ID); !errors.Is(err, apperror.ErrReprintLimitReached) {
		t.Errorf("third reprint error = %v, want ReprintLimitReached", err)
	}
	if _, err := env.sales.Reprint(env.ctx, env.cashier, 999); !apperror.HasReason(err, apperror.ReasonNotFound) {
		t.Errorf("unknown sale error = %v, want not found", err)
	}
}

func TestCommitRequiresOpenTill(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Soap", 150, 10)
	env.add(t, env.cashier, p, 1)

	if _, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: cash(150)}); !errors.Is(err, apperror.ErrNoTillSelected) {
		t.Errorf("no till error = %v, want NoTillSelected", err)
	}

	closed := env.till(t, "T9")
	if _, err := env.tills.SelectTill(env.ctx, env.cashier, closed.ID); err != nil {
		t.Fatal(err)
	}
	env.cashier.TillID = &closed.ID
	if _, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: cash(150)}); !errors.Is(err, apperror.ErrTillClosed) {
		t.Errorf("closed till error = %v, want TillClosed", err)
	}

	other := &Session{OwnerID: uuid.New(), Name: "other"}
	busy := env.openTill(t, other, "T2")
	env.cashier.TillID = &busy.ID
	if _, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: cash(150)}); !errors.Is(err, apperror.ErrTillBusy) {
		t.Errorf("busy till error = %v, want TillBusy", err)
	}

	if got := env.stock(t, p.ID); got != 10 {
		t.Errorf("stock = %d, want 10", got)
	}
	sales, _ := env.sales.ListSales(env.ctx, &repository.SaleFilter{})
	if sales.Pagination.Total != 0 {
		t.Errorf("sales = %d, want 0", sales.Pagination.Total)
	}
	cart, _ := env.carts.GetCart(env.ctx, env.cashier)
	if len(cart.Lines) != 1 {
		t.Errorf("cart lines = %d, want 1 kept", len(cart.Lines))
	}
}

func TestCommitCreditsOpenTill(t *testing.T) {
	env := newTestEnv(t, 0)
	till := env.openTill(t, env.cashier, "T1")
	p := env.product(t, "Kettle", 3000, 5)
	env.add(t, env.cashier, p, 1)

	out, err := env.sales.Commit(env.ctx, env.cashier, &CheckoutInput{Payments: []PaymentInput{
		{Method: enum.PaymentMethodCash, Amount: 1000},
		{Method: enum.PaymentMethodCard, Amount: 2000},
	}})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if out.Sale.TillID == nil || *out.Sale.TillID != till.ID {
		t.Errorf("sale till = %v, want %s", out.Sale.TillID, till.ID)
	}
	got, _ := env.tills.GetTill(env.ctx, till.ID)
	if got.CurrentBalance != 1000 {
		t.Errorf("drawer balance = %d, want 1000 cash", got.CurrentBalance)
	}
}

func TestAdminCommitsOnAnotherCashiersTill(t *testing.T) {
	env := newTestEnv(t, 0)
	till := env.openTill(t, env.cashier, "T1")
	p := env.product(t, "Mug", 400, 5)
	env.admin.TillID = &till.ID
	env.add(t, env.admin, p, 1)

	out, err := env.sales.Commit(env.ctx, env.admin, &CheckoutInput{Payments: cash(400)})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if out.Sale.TillID == nil || *out.Sale.TillID != till.ID {
		t.Errorf("sale till = %v, want %s", out.Sale.TillID, till.ID)
	}
}
