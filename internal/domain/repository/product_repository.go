package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// ProductRepository defines the interface for catalog and stock operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	// AtomicDecrementQuantity atomically decrements stock only if sufficient.
	// Returns (true, nil) if successful, (false, nil) if insufficient stock, (false, err) on error.
	AtomicDecrementQuantity(ctx context.Context, id uuid.UUID, amount int) (bool, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	LowStock   bool
	ActiveOnly bool
}

// CompositeUnitRepository defines the interface for bill-of-materials units
type CompositeUnitRepository interface {
	Create(ctx context.Context, unit *entity.CompositeUnit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CompositeUnit, error)
	ListByBaseProduct(ctx context.Context, productID uuid.UUID) ([]entity.CompositeUnit, error)
}
