package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(sale).Error
}

func (r *saleRepository) CreateItems(ctx context.Context, items []entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&items).Error
}

func (r *saleRepository) CreatePayments(ctx context.Context, payments []entity.SalePayment) error {
	if len(payments) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&payments).Error
}

func (r *saleRepository) SetIdentifiers(ctx context.Context, id int64, transactionID, receiptNo string) error {
	return conn(ctx, r.db).Model(&entity.Sale{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transaction_id": transactionID,
			"receipt_no":     receiptNo,
		}).Error
}

func (r *saleRepository) UpdateLoyalty(ctx context.Context, id int64, pointsEarned int64) error {
	return conn(ctx, r.db).Model(&entity.Sale{}).
		Where("id = ?", id).
		Update("points_earned", pointsEarned).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	var sale entity.Sale
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, filter *domainRepo.SaleFilter) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := conn(ctx, r.db).Model(&entity.Sale{})
	if filter.TillID != nil {
		query = query.Where("till_id = ?", *filter.TillID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	filter.Pagination.Validate()
	err := query.Offset(filter.Pagination.Offset()).Limit(filter.Pagination.PerPage).
		Order("id DESC").
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) SumTotalsByTill(ctx context.Context, tillID uuid.UUID, from, to time.Time) (int64, error) {
	var sum int64
	err := conn(ctx, r.db).Model(&entity.Sale{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("till_id = ? AND created_at >= ? AND created_at < ?", tillID, from, to).
		Scan(&sum).Error
	return sum, err
}

// IncrementReprint uses: UPDATE sales SET reprint_count = reprint_count + 1 WHERE id = ? AND reprint_count < limit
func (r *saleRepository) IncrementReprint(ctx context.Context, id int64, limit int) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Sale{}).
		Where("id = ? AND reprint_count < ?", id, limit).
		Update("reprint_count", gorm.Expr("reprint_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
