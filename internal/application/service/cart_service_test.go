package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

func TestComputeTotals(t *testing.T) {
	lines := []entity.CartLine{
		{UnitPrice: 1000, Quantity: 2},
		{UnitPrice: 550, Quantity: 1},
	}

	tests := []struct {
		name     string
		rate     string
		subtotal int64
		tax      int64
		total    int64
	}{
		{name: "no tax", rate: "0", subtotal: 2550, tax: 0, total: 2550},
		{name: "sixteen percent", rate: "16", subtotal: 2550, tax: 408, total: 2958},
		{name: "rounds half away from zero", rate: "7.5", subtotal: 2550, tax: 191, total: 2741},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entity.ComputeTotals(lines, decimal.RequireFromString(tt.rate))
			if got.Subtotal != tt.subtotal || got.TaxAmount != tt.tax || got.Total != tt.total {
				t.Errorf("ComputeTotals() = %d/%d/%d, want %d/%d/%d",
					got.Subtotal, got.TaxAmount, got.Total, tt.subtotal, tt.tax, tt.total)
			}
			if got.ItemCount != 3 {
				t.Errorf("ItemCount = %d, want 3", got.ItemCount)
			}
		})
	}
}

func TestAddLineValidatesQuantity(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Soap", 100, 5000)
	id := p.ID

	for _, qty := range []int{0, -1, 1000} {
		_, err := env.carts.AddLine(env.ctx, env.cashier, &AddLineInput{ProductID: &id, Quantity: qty})
		if !errors.Is(err, apperror.ErrInvalidQuantity) {
			t.Errorf("AddLine(qty=%d) error = %v, want InvalidQuantity", qty, err)
		}
	}

	missing := uuid.New()
	_, err := env.carts.AddLine(env.ctx, env.cashier, &AddLineInput{ProductID: &missing, Quantity: 1})
	if !apperror.HasReason(err, apperror.ReasonNotFound) {
		t.Errorf("AddLine(unknown product) error = %v, want not found", err)
	}
}

func TestAddLineMergesAndRevalidatesStock(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Rice 1kg", 250, 5)

	env.add(t, env.cashier, p, 3)
	cart, err := env.carts.GetCart(env.ctx, env.cashier)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 3 {
		t.Fatalf("cart = %+v, want one line of 3", cart.Lines)
	}

	env.add(t, env.cashier, p, 2)
	cart, _ = env.carts.GetCart(env.ctx, env.cashier)
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 5 {
		t.Fatalf("after merge = %+v, want one line of 5", cart.Lines)
	}

	id := p.ID
	_, err = env.carts.AddLine(env.ctx, env.cashier, &AddLineInput{ProductID: &id, Quantity: 1})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("AddLine beyond stock error = %v, want InsufficientStock", err)
	}
	cart, _ = env.carts.GetCart(env.ctx, env.cashier)
	if cart.Lines[0].Quantity != 5 {
		t.Errorf("failed merge changed quantity to %d", cart.Lines[0].Quantity)
	}
}

func TestAddLineSkipsStockForUntrackedProducts(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Gift wrap", 50, 0)
	p.TrackInventory = false
	if err := env.repos.Products.Update(env.ctx, p); err != nil {
		t.Fatal(err)
	}

	env.add(t, env.cashier, p, 10)
}

func TestAddCompositeLineChecksBaseStock(t *testing.T) {
	env := newTestEnv(t, 0)
	eggs := env.product(t, "Egg", 20, 30)
	tray := env.composite(t, eggs, "Egg tray", 12, 220)
	trayID := tray.ID

	cart, err := env.carts.AddLine(env.ctx, env.cashier, &AddLineInput{CompositeUnitID: &trayID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddLine(2 trays) error = %v", err)
	}
	line := cart.Lines[0]
	if !line.IsComposite || line.UnitPrice != 220 || line.ProductID == nil || *line.ProductID != eggs.ID {
		t.Errorf("composite line = %+v", line)
	}

	_, err = env.carts.AddLine(env.ctx, env.cashier, &AddLineInput{CompositeUnitID: &trayID, Quantity: 1})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Errorf("third tray error = %v, want InsufficientStock (36 > 30)", err)
	}
}

func TestUpdateLine(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Juice", 120, 4)
	env.add(t, env.cashier, p, 2)
	cart, _ := env.carts.GetCart(env.ctx, env.cashier)
	lineID := cart.Lines[0].ID

	t.Run("unknown line", func(t *testing.T) {
		_, err := env.carts.UpdateLine(env.ctx, env.cashier, uuid.New(), 1)
		if !errors.Is(err, apperror.ErrLineNotFound) {
			t.Errorf("error = %v, want LineNotFound", err)
		}
	})

	t.Run("increase beyond stock", func(t *testing.T) {
		_, err := env.carts.UpdateLine(env.ctx, env.cashier, lineID, 3)
		if !errors.Is(err, apperror.ErrInsufficientStock) {
			t.Errorf("error = %v, want InsufficientStock", err)
		}
	})

	t.Run("increase", func(t *testing.T) {
		out, err := env.carts.UpdateLine(env.ctx, env.cashier, lineID, 2)
		if err != nil {
			t.Fatal(err)
		}
		if out.Lines[0].Quantity != 4 {
			t.Errorf("quantity = %d, want 4", out.Lines[0].Quantity)
		}
	})

	t.Run("to zero removes", func(t *testing.T) {
		out, err := env.carts.UpdateLine(env.ctx, env.cashier, lineID, -4)
		if err != nil {
			t.Fatal(err)
		}
		if len(out.Lines) != 0 {
			t.Errorf("lines = %d, want 0", len(out.Lines))
		}
	})
}

func TestCartsAreIsolatedPerOwner(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Tea", 80, 100)
	other := &Session{OwnerID: uuid.New()}

	env.add(t, env.cashier, p, 1)
	env.add(t, other, p, 2)

	if err := env.carts.Clear(env.ctx, other); err != nil {
		t.Fatal(err)
	}
	mine, _ := env.carts.GetCart(env.ctx, env.cashier)
	theirs, _ := env.carts.GetCart(env.ctx, other)
	if len(mine.Lines) != 1 || len(theirs.Lines) != 0 {
		t.Errorf("mine=%d theirs=%d, want 1 and 0", len(mine.Lines), len(theirs.Lines))
	}
}

func TestVoidLineAndCartRecordVoids(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Bread", 60, 10)
	q := env.product(t, "Milk", 55, 10)
	env.add(t, env.cashier, p, 2)
	env.add(t, env.cashier, q, 1)
	cart, _ := env.carts.GetCart(env.ctx, env.cashier)

	if _, err := env.carts.VoidLine(env.ctx, env.cashier, cart.Lines[0].ID, " "); !errors.Is(err, apperror.ErrReasonRequired) {
		t.Fatalf("VoidLine without reason error = %v", err)
	}
	out, err := env.carts.VoidLine(env.ctx, env.cashier, cart.Lines[0].ID, "scanned twice")
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Lines) != 1 {
		t.Fatalf("lines after void = %d, want 1", len(out.Lines))
	}

	if err := env.carts.VoidCart(env.ctx, env.cashier, "customer left"); err != nil {
		t.Fatal(err)
	}
	if err := env.carts.VoidCart(env.ctx, env.cashier, "again"); !errors.Is(err, apperror.ErrEmptyCart) {
		t.Errorf("VoidCart on empty cart error = %v, want EmptyCart", err)
	}

	records, err := env.voids.ListVoids(env.ctx, &repository.VoidFilter{OwnerID: &env.cashier.OwnerID})
	if err != nil {
		t.Fatal(err)
	}
	if len(records.Items) != 2 {
		t.Fatalf("void records = %d, want 2", len(records.Items))
	}
	if records.Items[0].VoidType != enum.VoidTypeCart || records.Items[1].VoidType != enum.VoidTypeProduct {
		t.Errorf("void types = %s, %s", records.Items[0].VoidType, records.Items[1].VoidType)
	}
	if records.Items[1].TotalAmount != 120 || records.Items[0].TotalAmount != 55 {
		t.Errorf("void totals = %d, %d", records.Items[1].TotalAmount, records.Items[0].TotalAmount)
	}
}
