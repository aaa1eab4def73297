package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryStoreCloseReauthExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.SetClock(func() time.Time { return now })

	user := uuid.New()
	if err := store.GrantCloseReauth(ctx, user, 5*time.Minute); err != nil {
		t.Fatal(err)
	}
	if ok, _ := store.HasCloseReauth(ctx, user); !ok {
		t.Fatalf("expected fresh grant to be valid")
	}

	now = now.Add(6 * time.Minute)
	if ok, _ := store.HasCloseReauth(ctx, user); ok {
		t.Fatalf("expected grant to expire after ttl")
	}
}

func TestMemoryStoreDestroyClearsEverything(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	user, till := uuid.New(), uuid.New()

	_ = store.SetSelectedTill(ctx, user, till)
	_ = store.SetForceReauth(ctx, user)
	_ = store.GrantCloseReauth(ctx, user, time.Hour)

	if err := store.Destroy(ctx, user); err != nil {
		t.Fatal(err)
	}

	if got, _ := store.GetSelectedTill(ctx, user); got != nil {
		t.Errorf("selected till = %v, want nil", got)
	}
	if ok, _ := store.IsForceReauth(ctx, user); ok {
		t.Errorf("force reauth still set")
	}
	if ok, _ := store.HasCloseReauth(ctx, user); ok {
		t.Errorf("close reauth still granted")
	}
}
