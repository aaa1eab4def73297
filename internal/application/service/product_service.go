package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// ProductService serves catalog lookups for the till screen
type ProductService struct {
	productRepo   repository.ProductRepository
	compositeRepo repository.CompositeUnitRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	compositeRepo repository.CompositeUnitRepository,
) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		compositeRepo: compositeRepo,
	}
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByCode retrieves a product by its scan code
func (s *ProductService) GetProductByCode(ctx context.Context, code string) (*entity.Product, error) {
	product, err := s.productRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	params.Pagination = pageParams(params.Pagination)
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListCompositeUnits returns the composite units sold from a base product
func (s *ProductService) ListCompositeUnits(ctx context.Context, productID uuid.UUID) ([]entity.CompositeUnit, error) {
	if _, err := s.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}
	units, err := s.compositeRepo.ListByBaseProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if units == nil {
		units = []entity.CompositeUnit{}
	}
	return units, nil
}
