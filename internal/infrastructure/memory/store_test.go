package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
)

func TestWithinTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()

	product := &entity.Product{Name: "Milk", Code: "MILK", Quantity: 10, TrackInventory: true}
	if err := repos.Products.Create(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		if ok, err := repos.Products.AtomicDecrementQuantity(ctx, product.ID, 4); err != nil || !ok {
			t.Fatalf("decrement inside tx: ok=%v err=%v", ok, err)
		}
		if err := repos.Cart.Create(ctx, &entity.CartLine{OwnerID: uuid.New(), Name: "x", Quantity: 1}); err != nil {
			t.Fatalf("create line: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTransaction() error = %v, want boom", err)
	}

	got, _ := repos.Products.GetByID(ctx, product.ID)
	if got.Quantity != 10 {
		t.Errorf("quantity after rollback = %d, want 10", got.Quantity)
	}
	if n := len(store.st.cart); n != 0 {
		t.Errorf("cart lines after rollback = %d, want 0", n)
	}
}

func TestWithinTransactionCommits(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		return repos.Tills.Create(ctx, &entity.Till{Code: "T1", Name: "Front", Status: enum.TillStatusClosed})
	})
	if err != nil {
		t.Fatalf("WithinTransaction() error = %v", err)
	}
	tills, _ := repos.Tills.List(ctx)
	if len(tills) != 1 {
		t.Fatalf("tills = %d, want 1", len(tills))
	}
}

func TestAtomicDecrementNeverOversells(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()

	product := &entity.Product{Name: "Bread", Code: "BRD", Quantity: 5, TrackInventory: true}
	if err := repos.Products.Create(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repos.Products.AtomicDecrementQuantity(ctx, product.ID, 1)
			if err != nil {
				t.Errorf("decrement: %v", err)
				return
			}
			if ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, _ := repos.Products.GetByID(ctx, product.ID)
	if succeeded != 5 || got.Quantity != 0 {
		t.Fatalf("succeeded=%d quantity=%d, want 5 and 0", succeeded, got.Quantity)
	}
}

func TestHeldTransitionIsOneShot(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()

	held := &entity.HeldTransaction{OwnerID: uuid.New(), Reason: "customer stepped away", Status: enum.HeldStatusHeld}
	if err := repos.Held.Create(ctx, held); err != nil {
		t.Fatalf("create held: %v", err)
	}

	now := store.now()
	ok, err := repos.Held.Transition(ctx, held.ID, enum.HeldStatusHeld, enum.HeldStatusResumed, now)
	if err != nil || !ok {
		t.Fatalf("first transition ok=%v err=%v", ok, err)
	}
	ok, err = repos.Held.Transition(ctx, held.ID, enum.HeldStatusHeld, enum.HeldStatusDeleted, now)
	if err != nil || ok {
		t.Fatalf("second transition ok=%v err=%v, want false", ok, err)
	}
}
