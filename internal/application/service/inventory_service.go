package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// InventoryService resolves sellable items against the catalog and keeps stock
// from going negative.
type InventoryService struct {
	productRepo   repository.ProductRepository
	compositeRepo repository.CompositeUnitRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	productRepo repository.ProductRepository,
	compositeRepo repository.CompositeUnitRepository,
) *InventoryService {
	return &InventoryService{
		productRepo:   productRepo,
		compositeRepo: compositeRepo,
	}
}

// CatalogItem is a product or composite unit as currently priced in the catalog.
// Product is the stock-carrying product: the base product for composite units.
type CatalogItem struct {
	ProductID       *uuid.UUID
	CompositeUnitID *uuid.UUID
	Name            string
	UnitPrice       int64
	IsComposite     bool
	PerUnit         int
	Product         *entity.Product
}

// BaseQuantity is the number of stock units qty of this item consumes
func (c *CatalogItem) BaseQuantity(qty int) int {
	return qty * c.PerUnit
}

// Decomposition is the base product consumption of a composite quantity
type Decomposition struct {
	Unit         *entity.CompositeUnit
	BaseProduct  *entity.Product
	BaseQuantity int
}

// Resolve looks up the catalog item for a product or composite unit reference.
// A composite reference wins when both are given.
func (s *InventoryService) Resolve(ctx context.Context, productID, compositeUnitID *uuid.UUID) (*CatalogItem, error) {
	if compositeUnitID != nil {
		d, err := s.Decompose(ctx, *compositeUnitID, 1)
		if err != nil {
			return nil, err
		}
		baseID := d.BaseProduct.ID
		unitID := d.Unit.ID
		return &CatalogItem{
			ProductID:       &baseID,
			CompositeUnitID: &unitID,
			Name:            d.Unit.Name,
			UnitPrice:       d.Unit.SellingPrice,
			IsComposite:     true,
			PerUnit:         d.Unit.BaseQuantityPerUnit,
			Product:         d.BaseProduct,
		}, nil
	}
	if productID == nil {
		return nil, apperror.NewBadRequestError("A product or composite unit is required")
	}

	product, err := s.productRepo.GetByID(ctx, *productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, apperror.NewNotFoundError("Product")
	}
	id := product.ID
	return &CatalogItem{
		ProductID: &id,
		Name:      product.Name,
		UnitPrice: product.SellingPrice,
		PerUnit:   1,
		Product:   product,
	}, nil
}

// Decompose returns the base product and quantity consumed by qty of a composite unit
func (s *InventoryService) Decompose(ctx context.Context, compositeUnitID uuid.UUID, qty int) (*Decomposition, error) {
	unit, err := s.compositeRepo.GetByID(ctx, compositeUnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil || !unit.IsActive {
		return nil, apperror.NewNotFoundError("Composite unit")
	}

	base := unit.BaseProduct
	if base == nil {
		base, err = s.productRepo.GetByID(ctx, unit.BaseProductID)
		if err != nil {
			return nil, err
		}
	}
	if base == nil {
		return nil, apperror.NewNotFoundError("Base product")
	}

	return &Decomposition{
		Unit:         unit,
		BaseProduct:  base,
		BaseQuantity: qty * unit.BaseQuantityPerUnit,
	}, nil
}

// CheckAvailability fails with InsufficientStock when qty of the item cannot be
// served from current stock. Items that do not track inventory always pass.
func (s *InventoryService) CheckAvailability(item *CatalogItem, qty int) error {
	if !item.Product.TrackInventory {
		return nil
	}
	if item.Product.Quantity < item.BaseQuantity(qty) {
		return apperror.NewInsufficientStockError(item.Name, qty, item.Product.Quantity/item.PerUnit)
	}
	return nil
}

// Deduct removes the stock a committed cart line consumes using a conditional
// decrement. It returns the base quantity actually deducted.
func (s *InventoryService) Deduct(ctx context.Context, line *entity.CartLine) (int, error) {
	var (
		product *entity.Product
		name    = line.Name
		base    = line.Quantity
		perUnit = 1
	)

	if line.IsComposite {
		d, err := s.Decompose(ctx, *line.CompositeUnitID, line.Quantity)
		if err != nil {
			return 0, err
		}
		product, base, perUnit = d.BaseProduct, d.BaseQuantity, d.Unit.BaseQuantityPerUnit
	} else {
		p, err := s.productRepo.GetByID(ctx, *line.ProductID)
		if err != nil {
			return 0, err
		}
		if p == nil {
			return 0, apperror.NewNotFoundError("Product " + line.Name)
		}
		product = p
	}

	if !product.TrackInventory {
		return 0, nil
	}

	ok, err := s.productRepo.AtomicDecrementQuantity(ctx, product.ID, base)
	if err != nil {
		return 0, err
	}
	if !ok {
		available := 0
		if current, err := s.productRepo.GetByID(ctx, product.ID); err == nil && current != nil {
			available = current.Quantity / perUnit
		}
		return 0, apperror.NewInsufficientStockError(name, line.Quantity, available)
	}
	return base, nil
}
