package repository

import (
	"context"

	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type voidRecordRepository struct {
	db *gorm.DB
}

// NewVoidRecordRepository creates a new void record repository
func NewVoidRecordRepository(db *gorm.DB) domainRepo.VoidRecordRepository {
	return &voidRecordRepository{db: db}
}

func (r *voidRecordRepository) Create(ctx context.Context, record *entity.VoidRecord) error {
	return conn(ctx, r.db).Create(record).Error
}

func (r *voidRecordRepository) List(ctx context.Context, filter *domainRepo.VoidFilter) ([]entity.VoidRecord, int64, error) {
	var records []entity.VoidRecord
	var total int64

	query := conn(ctx, r.db).Model(&entity.VoidRecord{})
	if filter.VoidType != "" {
		query = query.Where("void_type = ?", filter.VoidType)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.TillID != nil {
		query = query.Where("till_id = ?", *filter.TillID)
	}
	if filter.From != nil {
		query = query.Where("voided_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("voided_at < ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	filter.Pagination.Validate()
	err := query.Offset(filter.Pagination.Offset()).Limit(filter.Pagination.PerPage).
		Order("voided_at DESC").
		Find(&records).Error

	return records, total, err
}
