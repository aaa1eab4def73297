package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type heldTransactionRepository struct {
	db *gorm.DB
}

// NewHeldTransactionRepository creates a new held transaction repository
func NewHeldTransactionRepository(db *gorm.DB) domainRepo.HeldTransactionRepository {
	return &heldTransactionRepository{db: db}
}

func (r *heldTransactionRepository) Create(ctx context.Context, held *entity.HeldTransaction) error {
	return conn(ctx, r.db).Create(held).Error
}

func (r *heldTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldTransaction, error) {
	var held entity.HeldTransaction
	err := conn(ctx, r.db).First(&held, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &held, err
}

// Transition uses: UPDATE held_transactions SET status = to WHERE id = ? AND status = from
func (r *heldTransactionRepository) Transition(ctx context.Context, id uuid.UUID, from, to enum.HeldStatus, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case enum.HeldStatusResumed:
		updates["resumed_at"] = at
	case enum.HeldStatusDeleted:
		updates["deleted_at"] = at
	}

	result := conn(ctx, r.db).Model(&entity.HeldTransaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *heldTransactionRepository) List(ctx context.Context, filter domainRepo.HeldFilter) ([]entity.HeldTransaction, error) {
	var held []entity.HeldTransaction
	err := r.filtered(ctx, filter).
		Order("held_at DESC").
		Find(&held).Error
	return held, err
}

func (r *heldTransactionRepository) Count(ctx context.Context, filter domainRepo.HeldFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *heldTransactionRepository) filtered(ctx context.Context, filter domainRepo.HeldFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&entity.HeldTransaction{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TillID != nil {
		query = query.Where("till_id = ?", *filter.TillID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	return query
}
