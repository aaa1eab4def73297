package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer and points balance operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetWalkIn(ctx context.Context) (*entity.Customer, error)
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// AtomicDebitPoints subtracts points only if the balance covers them.
	// Returns (false, nil) when the balance is insufficient.
	AtomicDebitPoints(ctx context.Context, id uuid.UUID, points int64) (bool, error)
	CreditPoints(ctx context.Context, id uuid.UUID, points int64) error
}

// LoyaltyTransactionRepository defines the interface for the points journal
type LoyaltyTransactionRepository interface {
	Create(ctx context.Context, txn *entity.LoyaltyTransaction) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.LoyaltyTransaction, int64, error)
}
