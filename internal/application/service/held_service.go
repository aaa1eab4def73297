package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// HeldService parks carts and brings them back. A held record moves to
// resumed or deleted exactly once.
type HeldService struct {
	transactor repository.Transactor
	heldRepo   repository.HeldTransactionRepository
	cartRepo   repository.CartRepository
	inventory  *InventoryService
	carts      *CartService
	voids      *VoidService
	now        func() time.Time
}

// NewHeldService creates a new held transaction service
func NewHeldService(
	transactor repository.Transactor,
	heldRepo repository.HeldTransactionRepository,
	cartRepo repository.CartRepository,
	inventory *InventoryService,
	carts *CartService,
	voids *VoidService,
) *HeldService {
	return &HeldService{
		transactor: transactor,
		heldRepo:   heldRepo,
		cartRepo:   cartRepo,
		inventory:  inventory,
		carts:      carts,
		voids:      voids,
		now:        time.Now,
	}
}

// HoldInput represents the hold request
type HoldInput struct {
	Reason            string
	CustomerReference string
}

// Hold snapshots the active cart into a held record and empties the cart
func (s *HeldService) Hold(ctx context.Context, sess *Session, input *HoldInput) (*entity.HeldTransaction, error) {
	var held *entity.HeldTransaction

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		lines, err := s.cartRepo.ListByOwner(ctx, sess.OwnerID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperror.ErrEmptyCart
		}
		if isBlank(input.Reason) {
			return apperror.ErrReasonRequired
		}

		totals := s.carts.ComputeTotals(lines)
		snapshot := entity.HeldSnapshot{
			Lines:     make([]entity.HeldLine, 0, len(lines)),
			Subtotal:  totals.Subtotal,
			TaxAmount: totals.TaxAmount,
			Total:     totals.Total,
			TaxRate:   totals.TaxRate.String(),
		}
		for _, l := range lines {
			snapshot.Lines = append(snapshot.Lines, entity.HeldLine{
				ProductID:       l.ProductID,
				CompositeUnitID: l.CompositeUnitID,
				Name:            l.Name,
				UnitPrice:       l.UnitPrice,
				Quantity:        l.Quantity,
				IsComposite:     l.IsComposite,
			})
		}

		held = &entity.HeldTransaction{
			OwnerID:           sess.OwnerID,
			TillID:            sess.TillID,
			Snapshot:          snapshot,
			Reason:            strings.TrimSpace(input.Reason),
			CustomerReference: strings.TrimSpace(input.CustomerReference),
			Status:            enum.HeldStatusHeld,
			HeldAt:            s.now(),
		}
		if err := s.heldRepo.Create(ctx, held); err != nil {
			return err
		}
		return s.cartRepo.DeleteByOwner(ctx, sess.OwnerID)
	})
	if err != nil {
		return nil, err
	}
	return held, nil
}

// Resume loads a held record back into an empty cart at current catalog prices
func (s *HeldService) Resume(ctx context.Context, sess *Session, heldID uuid.UUID) (*CartOutput, error) {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		count, err := s.cartRepo.CountByOwner(ctx, sess.OwnerID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperror.ErrCartNotEmpty
		}

		held, err := s.getHeld(ctx, heldID)
		if err != nil {
			return err
		}

		lines, err := s.reprice(ctx, held.Snapshot.Lines)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].OwnerID = sess.OwnerID
		}
		if err := s.cartRepo.CreateBatch(ctx, lines); err != nil {
			return err
		}

		ok, err := s.heldRepo.Transition(ctx, heldID, enum.HeldStatusHeld, enum.HeldStatusResumed, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return apperror.ErrAlreadyProcessed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.carts.GetCart(ctx, sess)
}

// Void deletes a held record and logs it with its re-priced total
func (s *HeldService) Void(ctx context.Context, sess *Session, heldID uuid.UUID, reason string) (*entity.HeldTransaction, error) {
	if isBlank(reason) {
		return nil, apperror.ErrReasonRequired
	}

	var (
		held   *entity.HeldTransaction
		totals entity.CartTotals
	)
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		held, err = s.getHeld(ctx, heldID)
		if err != nil {
			return err
		}

		ok, err := s.heldRepo.Transition(ctx, heldID, enum.HeldStatusHeld, enum.HeldStatusDeleted, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return apperror.ErrAlreadyProcessed
		}

		lines, err := s.reprice(ctx, held.Snapshot.Lines)
		if err != nil {
			return err
		}
		totals = s.carts.ComputeTotals(lines)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.voids.RecordBestEffort(ctx, &RecordVoidInput{
		OwnerID:     sess.OwnerID,
		TillID:      held.TillID,
		VoidType:    enum.VoidTypeHeldTransaction,
		SubjectRef:  stringRef(held.ID.String()),
		SubjectName: "Held transaction: " + held.Reason,
		Quantity:    totals.ItemCount,
		TotalAmount: totals.Total,
		Reason:      reason,
	})

	return s.heldRepo.GetByID(ctx, heldID)
}

// HeldListFilter narrows the held list
type HeldListFilter struct {
	TillID  *uuid.UUID
	OwnerID *uuid.UUID
}

// List returns records still on hold, newest first
func (s *HeldService) List(ctx context.Context, filter *HeldListFilter) ([]entity.HeldTransaction, error) {
	held, err := s.heldRepo.List(ctx, repository.HeldFilter{
		Status:  enum.HeldStatusHeld,
		TillID:  filter.TillID,
		OwnerID: filter.OwnerID,
	})
	if err != nil {
		return nil, err
	}
	if held == nil {
		held = []entity.HeldTransaction{}
	}
	return held, nil
}

// Get returns a held record in any status
func (s *HeldService) Get(ctx context.Context, heldID uuid.UUID) (*entity.HeldTransaction, error) {
	held, err := s.heldRepo.GetByID(ctx, heldID)
	if err != nil {
		return nil, err
	}
	if held == nil {
		return nil, apperror.NewNotFoundError("Held transaction")
	}
	return held, nil
}

func (s *HeldService) getHeld(ctx context.Context, heldID uuid.UUID) (*entity.HeldTransaction, error) {
	held, err := s.Get(ctx, heldID)
	if err != nil {
		return nil, err
	}
	if held.Status != enum.HeldStatusHeld {
		return nil, apperror.ErrAlreadyProcessed
	}
	return held, nil
}

// reprice rebuilds cart lines from a snapshot at current catalog prices.
// Items no longer in the catalog keep their snapshot price.
func (s *HeldService) reprice(ctx context.Context, held []entity.HeldLine) ([]entity.CartLine, error) {
	lines := make([]entity.CartLine, 0, len(held))
	for _, h := range held {
		line := entity.CartLine{
			ProductID:       h.ProductID,
			CompositeUnitID: h.CompositeUnitID,
			Name:            h.Name,
			UnitPrice:       h.UnitPrice,
			Quantity:        h.Quantity,
			IsComposite:     h.IsComposite,
		}

		item, err := s.inventory.Resolve(ctx, h.ProductID, h.CompositeUnitID)
		switch {
		case err == nil:
			line.Name = item.Name
			line.UnitPrice = item.UnitPrice
		case apperror.HasReason(err, apperror.ReasonNotFound):
		default:
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
