package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// TillRepository defines the interface for till data operations
type TillRepository interface {
	Create(ctx context.Context, till *entity.Till) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Till, error)
	// GetByIDForUpdate locks the till row for the rest of the transaction
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Till, error)
	Update(ctx context.Context, till *entity.Till) error
	List(ctx context.Context) ([]entity.Till, error)
}

// TillSessionRepository defines the interface for till open/close cycles
type TillSessionRepository interface {
	Create(ctx context.Context, session *entity.TillSession) error
	GetOpen(ctx context.Context, tillID uuid.UUID) (*entity.TillSession, error)
	// LatestOpenedBetween returns the most recent session opened within [from, to)
	LatestOpenedBetween(ctx context.Context, tillID uuid.UUID, from, to time.Time) (*entity.TillSession, error)
	Close(ctx context.Context, id uuid.UUID, at time.Time) error
}

// CashDropRepository defines the interface for cash removed from a till
type CashDropRepository interface {
	Create(ctx context.Context, drop *entity.CashDrop) error
	// SumByTill sums drop amounts for the till within [from, to)
	SumByTill(ctx context.Context, tillID uuid.UUID, from, to time.Time) (int64, error)
	ListByTill(ctx context.Context, tillID uuid.UUID, from, to time.Time) ([]entity.CashDrop, error)
}

// TillClosingRepository defines the interface for reconciliation records
type TillClosingRepository interface {
	Create(ctx context.Context, closing *entity.TillClosing) error
	ListByTill(ctx context.Context, tillID uuid.UUID, params *pagination.PaginationParams) ([]entity.TillClosing, int64, error)
}
