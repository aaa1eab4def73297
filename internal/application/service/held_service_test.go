package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

func TestHoldValidation(t *testing.T) {
	env := newTestEnv(t, 0)

	_, err := env.held.Hold(env.ctx, env.cashier, &HoldInput{Reason: "phone call"})
	if !errors.Is(err, apperror.ErrEmptyCart) {
		t.Fatalf("Hold(empty cart) error = %v, want EmptyCart", err)
	}

	p := env.product(t, "Cereal", 450, 10)
	env.add(t, env.cashier, p, 1)
	_, err = env.held.Hold(env.ctx, env.cashier, &HoldInput{Reason: "  "})
	if !errors.Is(err, apperror.ErrReasonRequired) {
		t.Fatalf("Hold(blank reason) error = %v, want ReasonRequired", err)
	}

	cart, _ := env.carts.GetCart(env.ctx, env.cashier)
	if len(cart.Lines) != 1 {
		t.Errorf("failed hold touched the cart: %d lines", len(cart.Lines))
	}
}

func TestHoldResumeRepricesLines(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Coffee", 10, 50)
	env.add(t, env.cashier, p, 3)

	held, err := env.held.Hold(env.ctx, env.cashier, &HoldInput{Reason: "forgot wallet", CustomerReference: "blue jacket"})
	if err != nil {
		t.Fatalf("Hold() error = %v", err)
	}
	if held.Status != enum.HeldStatusHeld || held.Snapshot.Total != 30 || len(held.Snapshot.Lines) != 1 {
		t.Fatalf("held = %+v", held)
	}
	cart, _ := env.carts.GetCart(env.ctx, env.cashier)
	if len(cart.Lines) != 0 {
		t.Fatalf("cart after hold has %d lines, want 0", len(cart.Lines))
	}

	p.SellingPrice = 15
	if err := env.repos.Products.Update(env.ctx, p); err != nil {
		t.Fatal(err)
	}

	resumed, err := env.held.Resume(env.ctx, env.cashier, held.ID)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if len(resumed.Lines) != 1 || resumed.Lines[0].UnitPrice != 15 || resumed.Totals.Total != 45 {
		t.Errorf("resumed cart = %+v totals %+v, want unit price 15 total 45", resumed.Lines, resumed.Totals)
	}

	got, _ := env.held.Get(env.ctx, held.ID)
	if got.Status != enum.HeldStatusResumed || got.ResumedAt == nil {
		t.Errorf("status = %s resumed_at = %v", got.Status, got.ResumedAt)
	}
	if got.Snapshot.Total != 30 {
		t.Errorf("snapshot total changed to %d", got.Snapshot.Total)
	}
}

func TestResumePreconditions(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Sugar", 200, 50)
	env.add(t, env.cashier, p, 1)
	held, err := env.held.Hold(env.ctx, env.cashier, &HoldInput{Reason: "price check"})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("cart not empty", func(t *testing.T) {
		env.add(t, env.cashier, p, 1)
		defer env.carts.Clear(env.ctx, env.cashier)

		_, err := env.held.Resume(env.ctx, env.cashier, held.ID)
		if !errors.Is(err, apperror.ErrCartNotEmpty) {
			t.Errorf("error = %v, want CartNotEmpty", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := env.held.Resume(env.ctx, env.cashier, uuid.New())
		if !apperror.HasReason(err, apperror.ReasonNotFound) {
			t.Errorf("error = %v, want not found", err)
		}
	})

	t.Run("already resumed", func(t *testing.T) {
		if _, err := env.held.Resume(env.ctx, env.cashier, held.ID); err != nil {
			t.Fatal(err)
		}
		if err := env.carts.Clear(env.ctx, env.cashier); err != nil {
			t.Fatal(err)
		}
		_, err := env.held.Resume(env.ctx, env.cashier, held.ID)
		if !errors.Is(err, apperror.ErrAlreadyProcessed) {
			t.Errorf("error = %v, want AlreadyProcessed", err)
		}
		_, err = env.held.Void(env.ctx, env.cashier, held.ID, "late void")
		if !errors.Is(err, apperror.ErrAlreadyProcessed) {
			t.Errorf("Void after resume error = %v, want AlreadyProcessed", err)
		}
	})
}

func TestConcurrentResumeSucceedsOnce(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Flour", 150, 50)
	env.add(t, env.cashier, p, 2)
	held, err := env.held.Hold(env.ctx, env.cashier, &HoldInput{Reason: "queue"})
	if err != nil {
		t.Fatal(err)
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.held.Resume(env.ctx, &Session{OwnerID: uuid.New()}, held.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperror.ErrAlreadyProcessed):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("successful resumes = %d, want 1", succeeded)
	}
}

func TestVoidHeldRecordsRepricedTotal(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Oil", 100, 50)
	env.add(t, env.cashier, p, 2)
	held, err := env.held.Hold(env.ctx, env.cashier, &HoldInput{Reason: "abandoned"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.held.Void(env.ctx, env.cashier, held.ID, ""); !errors.Is(err, apperror.ErrReasonRequired) {
		t.Fatalf("Void(no reason) error = %v", err)
	}

	p.SellingPrice = 130
	if err := env.repos.Products.Update(env.ctx, p); err != nil {
		t.Fatal(err)
	}

	voided, err := env.held.Void(env.ctx, env.cashier, held.ID, "customer never returned")
	if err != nil {
		t.Fatalf("Void() error = %v", err)
	}
	if voided.Status != enum.HeldStatusDeleted || voided.DeletedAt == nil {
		t.Errorf("voided = %+v", voided)
	}

	records, err := env.voids.ListVoids(env.ctx, &repository.VoidFilter{VoidType: enum.VoidTypeHeldTransaction})
	if err != nil {
		t.Fatal(err)
	}
	if len(records.Items) != 1 || records.Items[0].TotalAmount != 260 {
		t.Fatalf("held void records = %+v, want one with total 260", records.Items)
	}

	list, _ := env.held.List(env.ctx, &HeldListFilter{})
	if len(list) != 0 {
		t.Errorf("held list = %d entries, want 0", len(list))
	}
}

func TestListHeldFilters(t *testing.T) {
	env := newTestEnv(t, 0)
	p := env.product(t, "Salt", 30, 100)
	tillA, tillB := uuid.New(), uuid.New()

	a := &Session{OwnerID: env.cashier.OwnerID, TillID: &tillA}
	b := &Session{OwnerID: uuid.New(), TillID: &tillB}
	for _, sess := range []*Session{a, a, b} {
		env.add(t, sess, p, 1)
		if _, err := env.held.Hold(env.ctx, sess, &HoldInput{Reason: "later"}); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := env.held.List(env.ctx, &HeldListFilter{})
	onA, _ := env.held.List(env.ctx, &HeldListFilter{TillID: &tillA})
	byB, _ := env.held.List(env.ctx, &HeldListFilter{OwnerID: &b.OwnerID})
	if len(all) != 3 || len(onA) != 2 || len(byB) != 1 {
		t.Errorf("all=%d onA=%d byB=%d, want 3, 2, 1", len(all), len(onA), len(byB))
	}
}
