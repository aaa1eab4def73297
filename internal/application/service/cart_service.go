package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CartService manages each cashier's active cart
type CartService struct {
	transactor repository.Transactor
	cartRepo   repository.CartRepository
	inventory  *InventoryService
	voids      *VoidService
	taxRate    decimal.Decimal
}

// NewCartService creates a new cart service
func NewCartService(
	transactor repository.Transactor,
	cartRepo repository.CartRepository,
	inventory *InventoryService,
	voids *VoidService,
	taxRate decimal.Decimal,
) *CartService {
	return &CartService{
		transactor: transactor,
		cartRepo:   cartRepo,
		inventory:  inventory,
		voids:      voids,
		taxRate:    taxRate,
	}
}

// CartOutput is the cart as shown to the cashier
type CartOutput struct {
	Lines  []entity.CartLine `json:"lines"`
	Totals entity.CartTotals `json:"totals"`
}

// AddLineInput represents a product or composite unit to add
type AddLineInput struct {
	ProductID       *uuid.UUID
	CompositeUnitID *uuid.UUID
	Quantity        int
}

// AddLine adds an item to the cart, merging with an existing line for the same item
func (s *CartService) AddLine(ctx context.Context, sess *Session, input *AddLineInput) (*CartOutput, error) {
	if input.Quantity < 1 || input.Quantity > entity.MaxLineQuantity {
		return nil, apperror.ErrInvalidQuantity
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := s.inventory.Resolve(ctx, input.ProductID, input.CompositeUnitID)
		if err != nil {
			return err
		}

		existing, err := s.cartRepo.FindMatching(ctx, sess.OwnerID, item.ProductID, item.CompositeUnitID)
		if err != nil {
			return err
		}

		if existing != nil {
			combined := existing.Quantity + input.Quantity
			if combined > entity.MaxLineQuantity {
				return apperror.ErrInvalidQuantity
			}
			if err := s.inventory.CheckAvailability(item, combined); err != nil {
				return err
			}
			return s.cartRepo.UpdateQuantity(ctx, existing.ID, combined)
		}

		if err := s.inventory.CheckAvailability(item, input.Quantity); err != nil {
			return err
		}
		return s.cartRepo.Create(ctx, &entity.CartLine{
			OwnerID:         sess.OwnerID,
			ProductID:       item.ProductID,
			CompositeUnitID: item.CompositeUnitID,
			Name:            item.Name,
			UnitPrice:       item.UnitPrice,
			Quantity:        input.Quantity,
			IsComposite:     item.IsComposite,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, sess)
}

// UpdateLine changes a line's quantity by delta. A resulting quantity of zero
// or less removes the line.
func (s *CartService) UpdateLine(ctx context.Context, sess *Session, lineID uuid.UUID, delta int) (*CartOutput, error) {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		line, err := s.cartRepo.GetLine(ctx, sess.OwnerID, lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return apperror.ErrLineNotFound
		}

		quantity := line.Quantity + delta
		if quantity <= 0 {
			return s.cartRepo.Delete(ctx, sess.OwnerID, lineID)
		}
		if quantity > entity.MaxLineQuantity {
			return apperror.ErrInvalidQuantity
		}

		item, err := s.inventory.Resolve(ctx, line.ProductID, line.CompositeUnitID)
		if err != nil {
			return err
		}
		if err := s.inventory.CheckAvailability(item, quantity); err != nil {
			return err
		}
		return s.cartRepo.UpdateQuantity(ctx, lineID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, sess)
}

// RemoveLine removes a line. Removing an unknown line is not an error.
func (s *CartService) RemoveLine(ctx context.Context, sess *Session, lineID uuid.UUID) (*CartOutput, error) {
	if err := s.cartRepo.Delete(ctx, sess.OwnerID, lineID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, sess)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, sess *Session) error {
	return s.cartRepo.DeleteByOwner(ctx, sess.OwnerID)
}

// ComputeTotals applies the configured tax rate to lines
func (s *CartService) ComputeTotals(lines []entity.CartLine) entity.CartTotals {
	return entity.ComputeTotals(lines, s.taxRate)
}

// GetCart returns the cart lines with their totals
func (s *CartService) GetCart(ctx context.Context, sess *Session) (*CartOutput, error) {
	lines, err := s.cartRepo.ListByOwner(ctx, sess.OwnerID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []entity.CartLine{}
	}
	return &CartOutput{
		Lines:  lines,
		Totals: s.ComputeTotals(lines),
	}, nil
}

// VoidLine removes a line and records it in the void log
func (s *CartService) VoidLine(ctx context.Context, sess *Session, lineID uuid.UUID, reason string) (*CartOutput, error) {
	if isBlank(reason) {
		return nil, apperror.ErrReasonRequired
	}

	line, err := s.cartRepo.GetLine(ctx, sess.OwnerID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, apperror.ErrLineNotFound
	}
	if err := s.cartRepo.Delete(ctx, sess.OwnerID, lineID); err != nil {
		return nil, err
	}

	var ref *string
	if line.CompositeUnitID != nil {
		ref = stringRef(line.CompositeUnitID.String())
	} else if line.ProductID != nil {
		ref = stringRef(line.ProductID.String())
	}
	s.voids.RecordBestEffort(ctx, &RecordVoidInput{
		OwnerID:     sess.OwnerID,
		TillID:      sess.TillID,
		VoidType:    enum.VoidTypeProduct,
		SubjectRef:  ref,
		SubjectName: line.Name,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		TotalAmount: line.LineTotal(),
		Reason:      reason,
	})

	return s.GetCart(ctx, sess)
}

// VoidCart clears the whole cart and records it in the void log
func (s *CartService) VoidCart(ctx context.Context, sess *Session, reason string) error {
	if isBlank(reason) {
		return apperror.ErrReasonRequired
	}

	lines, err := s.cartRepo.ListByOwner(ctx, sess.OwnerID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return apperror.ErrEmptyCart
	}
	if err := s.cartRepo.DeleteByOwner(ctx, sess.OwnerID); err != nil {
		return err
	}

	totals := s.ComputeTotals(lines)
	s.voids.RecordBestEffort(ctx, &RecordVoidInput{
		OwnerID:     sess.OwnerID,
		TillID:      sess.TillID,
		VoidType:    enum.VoidTypeCart,
		SubjectName: fmt.Sprintf("Cart (%d lines)", len(lines)),
		Quantity:    totals.ItemCount,
		TotalAmount: totals.Total,
		Reason:      reason,
	})
	return nil
}
