package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart line repository
func NewCartRepository(db *gorm.DB) domainRepo.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.CartLine, error) {
	var lines []entity.CartLine
	err := conn(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *cartRepository) GetLine(ctx context.Context, ownerID, lineID uuid.UUID) (*entity.CartLine, error) {
	var line entity.CartLine
	err := conn(ctx, r.db).First(&line, "id = ? AND owner_id = ?", lineID, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &line, err
}

func (r *cartRepository) FindMatching(ctx context.Context, ownerID uuid.UUID, productID, compositeUnitID *uuid.UUID) (*entity.CartLine, error) {
	query := conn(ctx, r.db).Where("owner_id = ?", ownerID)
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	} else {
		query = query.Where("product_id IS NULL")
	}
	if compositeUnitID != nil {
		query = query.Where("composite_unit_id = ?", *compositeUnitID)
	} else {
		query = query.Where("composite_unit_id IS NULL")
	}

	var line entity.CartLine
	err := query.First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &line, err
}

func (r *cartRepository) Create(ctx context.Context, line *entity.CartLine) error {
	return conn(ctx, r.db).Create(line).Error
}

func (r *cartRepository) CreateBatch(ctx context.Context, lines []entity.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&lines).Error
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return conn(ctx, r.db).Model(&entity.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

func (r *cartRepository) Delete(ctx context.Context, ownerID, lineID uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.CartLine{}, "id = ? AND owner_id = ?", lineID, ownerID).Error
}

func (r *cartRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.CartLine{}, "owner_id = ?", ownerID).Error
}

func (r *cartRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.CartLine{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}
