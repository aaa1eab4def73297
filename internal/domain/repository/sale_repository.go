package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// SaleRepository defines the interface for committed sales
type SaleRepository interface {
	// Create inserts the sale header and assigns its sequence ID
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItems(ctx context.Context, items []entity.SaleItem) error
	CreatePayments(ctx context.Context, payments []entity.SalePayment) error
	// SetIdentifiers stores the transaction ID and receipt number derived after insert
	SetIdentifiers(ctx context.Context, id int64, transactionID, receiptNo string) error
	UpdateLoyalty(ctx context.Context, id int64, pointsEarned int64) error
	// GetByID loads the sale with items and payments
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	List(ctx context.Context, filter *SaleFilter) ([]entity.Sale, int64, error)
	// SumTotalsByTill sums total_amount for the till within [from, to)
	SumTotalsByTill(ctx context.Context, tillID uuid.UUID, from, to time.Time) (int64, error)
	// IncrementReprint bumps reprint_count if it is below limit.
	// Returns (false, nil) when the limit has been reached.
	IncrementReprint(ctx context.Context, id int64, limit int) (bool, error)
}

// SaleFilter contains filtering parameters for sale queries
type SaleFilter struct {
	Pagination *pagination.PaginationParams
	TillID     *uuid.UUID
	OwnerID    *uuid.UUID
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
}
