package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetWalkIn(ctx context.Context) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).Where("is_walk_in = ?", true).Order("created_at ASC").First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := conn(ctx, r.db).Model(&entity.Customer{})

	if search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

// AtomicDebitPoints uses: UPDATE customers SET loyalty_points = loyalty_points - n WHERE id = ? AND loyalty_points >= n
func (r *customerRepository) AtomicDebitPoints(ctx context.Context, id uuid.UUID, points int64) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ? AND loyalty_points >= ?", id, points).
		Update("loyalty_points", gorm.Expr("loyalty_points - ?", points))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *customerRepository) CreditPoints(ctx context.Context, id uuid.UUID, points int64) error {
	return conn(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ?", id).
		Update("loyalty_points", gorm.Expr("loyalty_points + ?", points)).Error
}

type loyaltyTransactionRepository struct {
	db *gorm.DB
}

// NewLoyaltyTransactionRepository creates a new loyalty transaction repository
func NewLoyaltyTransactionRepository(db *gorm.DB) domainRepo.LoyaltyTransactionRepository {
	return &loyaltyTransactionRepository{db: db}
}

func (r *loyaltyTransactionRepository) Create(ctx context.Context, txn *entity.LoyaltyTransaction) error {
	return conn(ctx, r.db).Create(txn).Error
}

func (r *loyaltyTransactionRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.LoyaltyTransaction, int64, error) {
	var txns []entity.LoyaltyTransaction
	var total int64

	query := conn(ctx, r.db).Model(&entity.LoyaltyTransaction{}).Where("customer_id = ?", customerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&txns).Error

	return txns, total, err
}
