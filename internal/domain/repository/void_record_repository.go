package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// VoidRecordRepository defines the interface for the append-only void audit log
type VoidRecordRepository interface {
	Create(ctx context.Context, record *entity.VoidRecord) error
	List(ctx context.Context, filter *VoidFilter) ([]entity.VoidRecord, int64, error)
}

// VoidFilter contains filtering parameters for void record queries
type VoidFilter struct {
	Pagination *pagination.PaginationParams
	VoidType   enum.VoidType
	OwnerID    *uuid.UUID
	TillID     *uuid.UUID
	From       *time.Time
	To         *time.Time
}
