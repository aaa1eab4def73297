package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
)

// HeldTransactionRepository defines the interface for parked carts
type HeldTransactionRepository interface {
	Create(ctx context.Context, held *entity.HeldTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldTransaction, error)
	// Transition moves the record from one status to another only if it is still in
	// the from status. Returns (false, nil) when another caller got there first.
	Transition(ctx context.Context, id uuid.UUID, from, to enum.HeldStatus, at time.Time) (bool, error)
	// List returns matching records, newest first
	List(ctx context.Context, filter HeldFilter) ([]entity.HeldTransaction, error)
	Count(ctx context.Context, filter HeldFilter) (int64, error)
}

// HeldFilter narrows held transaction queries. Nil fields are not filtered.
type HeldFilter struct {
	Status  enum.HeldStatus
	TillID  *uuid.UUID
	OwnerID *uuid.UUID
}
