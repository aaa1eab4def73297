package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
)

// CartRepository defines the interface for per-owner cart lines
type CartRepository interface {
	// ListByOwner returns the owner's lines in insertion order
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.CartLine, error)
	GetLine(ctx context.Context, ownerID, lineID uuid.UUID) (*entity.CartLine, error)
	// FindMatching returns the line for the same product/composite pair, if any
	FindMatching(ctx context.Context, ownerID uuid.UUID, productID, compositeUnitID *uuid.UUID) (*entity.CartLine, error)
	Create(ctx context.Context, line *entity.CartLine) error
	CreateBatch(ctx context.Context, lines []entity.CartLine) error
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	Delete(ctx context.Context, ownerID, lineID uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
