package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
	"gorm.io/gorm"
)

type tillRepository struct {
	db *gorm.DB
}

// NewTillRepository creates a new till repository
func NewTillRepository(db *gorm.DB) domainRepo.TillRepository {
	return &tillRepository{db: db}
}

func (r *tillRepository) Create(ctx context.Context, till *entity.Till) error {
	return conn(ctx, r.db).Create(till).Error
}

func (r *tillRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Till, error) {
	var till entity.Till
	err := conn(ctx, r.db).First(&till, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &till, err
}

func (r *tillRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Till, error) {
	var till entity.Till
	err := forUpdate(conn(ctx, r.db)).First(&till, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &till, err
}

func (r *tillRepository) Update(ctx context.Context, till *entity.Till) error {
	return conn(ctx, r.db).Save(till).Error
}

func (r *tillRepository) List(ctx context.Context) ([]entity.Till, error) {
	var tills []entity.Till
	err := conn(ctx, r.db).Order("code ASC").Find(&tills).Error
	return tills, err
}

type tillSessionRepository struct {
	db *gorm.DB
}

// NewTillSessionRepository creates a new till session repository
func NewTillSessionRepository(db *gorm.DB) domainRepo.TillSessionRepository {
	return &tillSessionRepository{db: db}
}

func (r *tillSessionRepository) Create(ctx context.Context, session *entity.TillSession) error {
	return conn(ctx, r.db).Create(session).Error
}

func (r *tillSessionRepository) GetOpen(ctx context.Context, tillID uuid.UUID) (*entity.TillSession, error) {
	var session entity.TillSession
	err := conn(ctx, r.db).
		Where("till_id = ? AND closed_at IS NULL", tillID).
		Order("opened_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *tillSessionRepository) LatestOpenedBetween(ctx context.Context, tillID uuid.UUID, from, to time.Time) (*entity.TillSession, error) {
	var session entity.TillSession
	err := conn(ctx, r.db).
		Where("till_id = ? AND opened_at >= ? AND opened_at < ?", tillID, from, to).
		Order("opened_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *tillSessionRepository) Close(ctx context.Context, id uuid.UUID, at time.Time) error {
	return conn(ctx, r.db).Model(&entity.TillSession{}).
		Where("id = ? AND closed_at IS NULL", id).
		Update("closed_at", at).Error
}

type cashDropRepository struct {
	db *gorm.DB
}

// NewCashDropRepository creates a new cash drop repository
func NewCashDropRepository(db *gorm.DB) domainRepo.CashDropRepository {
	return &cashDropRepository{db: db}
}

func (r *cashDropRepository) Create(ctx context.Context, drop *entity.CashDrop) error {
	return conn(ctx, r.db).Create(drop).Error
}

func (r *cashDropRepository) SumByTill(ctx context.Context, tillID uuid.UUID, from, to time.Time) (int64, error) {
	var sum int64
	err := conn(ctx, r.db).Model(&entity.CashDrop{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("till_id = ? AND created_at >= ? AND created_at < ?", tillID, from, to).
		Scan(&sum).Error
	return sum, err
}

func (r *cashDropRepository) ListByTill(ctx context.Context, tillID uuid.UUID, from, to time.Time) ([]entity.CashDrop, error) {
	var drops []entity.CashDrop
	err := conn(ctx, r.db).
		Where("till_id = ? AND created_at >= ? AND created_at < ?", tillID, from, to).
		Order("created_at ASC").
		Find(&drops).Error
	return drops, err
}

type tillClosingRepository struct {
	db *gorm.DB
}

// NewTillClosingRepository creates a new till closing repository
func NewTillClosingRepository(db *gorm.DB) domainRepo.TillClosingRepository {
	return &tillClosingRepository{db: db}
}

func (r *tillClosingRepository) Create(ctx context.Context, closing *entity.TillClosing) error {
	return conn(ctx, r.db).Create(closing).Error
}

func (r *tillClosingRepository) ListByTill(ctx context.Context, tillID uuid.UUID, params *pagination.PaginationParams) ([]entity.TillClosing, int64, error) {
	var closings []entity.TillClosing
	var total int64

	query := conn(ctx, r.db).Model(&entity.TillClosing{}).Where("till_id = ?", tillID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("closed_at DESC").
		Find(&closings).Error

	return closings, total, err
}
