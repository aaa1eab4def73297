package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/config"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// TillService opens, reconciles and closes tills
type TillService struct {
	transactor  repository.Transactor
	tillRepo    repository.TillRepository
	tillSession repository.TillSessionRepository
	dropRepo    repository.CashDropRepository
	closingRepo repository.TillClosingRepository
	saleRepo    repository.SaleRepository
	cartRepo    repository.CartRepository
	heldRepo    repository.HeldTransactionRepository
	sessions    repository.SessionStore
	cfg         config.TillConfig
	now         func() time.Time
}

// NewTillService creates a new till service
func NewTillService(
	transactor repository.Transactor,
	tillRepo repository.TillRepository,
	tillSession repository.TillSessionRepository,
	dropRepo repository.CashDropRepository,
	closingRepo repository.TillClosingRepository,
	saleRepo repository.SaleRepository,
	cartRepo repository.CartRepository,
	heldRepo repository.HeldTransactionRepository,
	sessions repository.SessionStore,
	cfg config.TillConfig,
) *TillService {
	return &TillService{
		transactor:  transactor,
		tillRepo:    tillRepo,
		tillSession: tillSession,
		dropRepo:    dropRepo,
		closingRepo: closingRepo,
		saleRepo:    saleRepo,
		cartRepo:    cartRepo,
		heldRepo:    heldRepo,
		sessions:    sessions,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Open assigns a till to the caller with an opening float and selects it.
// Opening a till the caller already holds is a no-op.
func (s *TillService) Open(ctx context.Context, sess *Session, tillID uuid.UUID, openingFloat int64) (*entity.Till, error) {
	if openingFloat < 0 {
		return nil, apperror.NewBadRequestError("Opening float cannot be negative")
	}

	var till *entity.Till
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		till, err = s.tillRepo.GetByIDForUpdate(ctx, tillID)
		if err != nil {
			return err
		}
		if till == nil {
			return apperror.ErrTillNotFound
		}
		if till.Status == enum.TillStatusOpen {
			if till.IsOpenFor(sess.OwnerID) {
				return nil
			}
			return apperror.ErrTillBusy
		}

		now := s.now()
		owner := sess.OwnerID
		till.Status = enum.TillStatusOpen
		till.AssignedOwnerID = &owner
		till.CurrentBalance = openingFloat
		till.OpenedAt = &now
		if err := s.tillRepo.Update(ctx, till); err != nil {
			return err
		}
		return s.tillSession.Create(ctx, &entity.TillSession{
			TillID:       till.ID,
			OwnerID:      sess.OwnerID,
			OpeningFloat: openingFloat,
			OpenedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SetSelectedTill(ctx, sess.OwnerID, till.ID); err != nil {
		return nil, err
	}
	return till, nil
}

// SelectTill makes a till the caller's working till without opening it
func (s *TillService) SelectTill(ctx context.Context, sess *Session, tillID uuid.UUID) (*entity.Till, error) {
	till, err := s.tillRepo.GetByID(ctx, tillID)
	if err != nil {
		return nil, err
	}
	if till == nil {
		return nil, apperror.ErrTillNotFound
	}
	if till.Status == enum.TillStatusOpen && !till.IsOpenFor(sess.OwnerID) && !sess.IsAdmin() {
		return nil, apperror.ErrTillBusy
	}
	if err := s.sessions.SetSelectedTill(ctx, sess.OwnerID, till.ID); err != nil {
		return nil, err
	}
	return till, nil
}

// ExpectedBalance is the till's expected takings for one day, in cents
type ExpectedBalance struct {
	OpeningFloat int64 `json:"opening_float"`
	TotalSales   int64 `json:"total_sales"`
	TotalDrops   int64 `json:"total_drops"`
	Expected     int64 `json:"expected"`
}

// ComputeExpectedBalance is the opening float of the latest session opened that
// day plus the day's sales minus the day's cash drops.
func (s *TillService) ComputeExpectedBalance(ctx context.Context, tillID uuid.UUID, date time.Time) (*ExpectedBalance, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)

	var float int64
	session, err := s.tillSession.LatestOpenedBetween(ctx, tillID, from, to)
	if err != nil {
		return nil, err
	}
	if session != nil {
		float = session.OpeningFloat
	}
	return s.expectedWithin(ctx, tillID, float, from, to)
}

// expectedWithin is the float plus sales minus drops recorded within [from, to)
func (s *TillService) expectedWithin(ctx context.Context, tillID uuid.UUID, float int64, from, to time.Time) (*ExpectedBalance, error) {
	out := ExpectedBalance{OpeningFloat: float}
	var err error
	if out.TotalSales, err = s.saleRepo.SumTotalsByTill(ctx, tillID, from, to); err != nil {
		return nil, err
	}
	if out.TotalDrops, err = s.dropRepo.SumByTill(ctx, tillID, from, to); err != nil {
		return nil, err
	}
	out.Expected = out.OpeningFloat + out.TotalSales - out.TotalDrops
	return &out, nil
}

// sessionExpected reconciles one open/close cycle: the session's float plus
// what it took in up to closedAt.
func (s *TillService) sessionExpected(ctx context.Context, till *entity.Till, open *entity.TillSession, closedAt time.Time) (*ExpectedBalance, error) {
	to := closedAt.Add(time.Nanosecond)
	if open != nil {
		return s.expectedWithin(ctx, till.ID, open.OpeningFloat, open.OpenedAt, to)
	}
	// no session row, fall back to the till's own open time
	from := closedAt
	if till.OpenedAt != nil {
		from = *till.OpenedAt
	}
	return s.expectedWithin(ctx, till.ID, 0, from, to)
}

// CountedAmounts are the physically counted buckets, in cents
type CountedAmounts struct {
	Cash             int64
	Voucher          int64
	Loyalty          int64
	Other            int64
	OtherDescription string
}

// Total sums every bucket
func (c CountedAmounts) Total() int64 {
	return c.Cash + c.Voucher + c.Loyalty + c.Other
}

// Reconciliation compares counted amounts with the expected balance
type Reconciliation struct {
	ExpectedCash    int64
	TotalCounted    int64
	Difference      int64
	CashDifference  int64
	CashShortage    int64
	VoucherShortage int64
	OtherShortage   int64
	ShortageType    enum.ShortageType
}

// Reconcile classifies a count. A cash shortage beyond tolerance outranks a
// negative voucher count, which outranks a negative other count, which
// outranks an excess beyond tolerance.
func Reconcile(expected int64, counted CountedAmounts, tolerance int64) Reconciliation {
	r := Reconciliation{
		ExpectedCash: expected,
		TotalCounted: counted.Total(),
	}
	r.Difference = r.TotalCounted - expected
	r.CashDifference = counted.Cash - r.ExpectedCash

	if r.CashDifference < -tolerance {
		r.CashShortage = -r.CashDifference
	}
	if counted.Voucher < 0 {
		r.VoucherShortage = -counted.Voucher
	}
	if counted.Other < 0 {
		r.OtherShortage = -counted.Other
	}

	switch {
	case r.CashShortage > 0:
		r.ShortageType = enum.ShortageCash
	case r.VoucherShortage > 0:
		r.ShortageType = enum.ShortageVoucher
	case r.OtherShortage > 0:
		r.ShortageType = enum.ShortageOther
	case r.Difference > tolerance:
		r.ShortageType = enum.ShortageExcess
	default:
		r.ShortageType = enum.ShortageExact
	}
	return r
}

// CloseTillInput represents the close request
type CloseTillInput struct {
	Counted          CountedAmounts
	Notes            string
	Confirmation     string
	PhysicalCountAck bool
}

// Close reconciles and closes the caller's selected till. Discrepancies are
// recorded, never blocking.
func (s *TillService) Close(ctx context.Context, sess *Session, input *CloseTillInput) (*entity.TillClosing, error) {
	till, err := s.checkClose(ctx, sess, input)
	if err != nil {
		return nil, err
	}

	var closing *entity.TillClosing
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.tillRepo.GetByIDForUpdate(ctx, till.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperror.ErrTillNotFound
		}
		if locked.Status != enum.TillStatusOpen {
			return apperror.ErrTillClosed
		}

		open, err := s.tillSession.GetOpen(ctx, locked.ID)
		if err != nil {
			return err
		}
		closedAt := s.now()
		expected, err := s.sessionExpected(ctx, locked, open, closedAt)
		if err != nil {
			return err
		}
		r := Reconcile(expected.Expected, input.Counted, s.cfg.Tolerance)

		closing = &entity.TillClosing{
			TillID:              locked.ID,
			OwnerID:             sess.OwnerID,
			OpeningAmount:       expected.OpeningFloat,
			TotalSales:          expected.TotalSales,
			TotalDrops:          expected.TotalDrops,
			ExpectedBalance:     expected.Expected,
			ExpectedCashBalance: r.ExpectedCash,
			CountedCash:         input.Counted.Cash,
			CountedVoucher:      input.Counted.Voucher,
			CountedLoyalty:      input.Counted.Loyalty,
			CountedOther:        input.Counted.Other,
			OtherDescription:    strings.TrimSpace(input.Counted.OtherDescription),
			TotalCounted:        r.TotalCounted,
			Difference:          r.Difference,
			CashDifference:      r.CashDifference,
			CashShortage:        r.CashShortage,
			VoucherShortage:     r.VoucherShortage,
			OtherShortage:       r.OtherShortage,
			ShortageType:        r.ShortageType,
			Notes:               strings.TrimSpace(input.Notes),
			ClosedAt:            closedAt,
		}
		if err := s.closingRepo.Create(ctx, closing); err != nil {
			return err
		}

		if open != nil {
			if err := s.tillSession.Close(ctx, open.ID, closing.ClosedAt); err != nil {
				return err
			}
		}

		locked.Status = enum.TillStatusClosed
		locked.CurrentBalance = 0
		locked.AssignedOwnerID = nil
		locked.OpenedAt = nil
		return s.tillRepo.Update(ctx, locked)
	})
	if err != nil {
		return nil, err
	}

	if !sess.IsAdmin() {
		if err := s.sessions.RevokeCloseReauth(ctx, sess.OwnerID); err != nil {
			log.Printf("[till] failed to revoke close re-auth for %s: %v", sess.OwnerID, err)
		}
		if err := s.sessions.SetForceReauth(ctx, sess.OwnerID); err != nil {
			log.Printf("[till] failed to force re-auth for %s: %v", sess.OwnerID, err)
		}
	}
	if err := s.sessions.ClearSelectedTill(ctx, sess.OwnerID); err != nil {
		log.Printf("[till] failed to clear till selection for %s: %v", sess.OwnerID, err)
	}

	log.Printf("[till] %s closed by %s: expected %d counted %d (%s)",
		till.Code, sess.OwnerID, closing.ExpectedBalance, closing.TotalCounted, closing.ShortageType)
	return closing, nil
}

// checkClose runs the close preconditions in their fixed order
func (s *TillService) checkClose(ctx context.Context, sess *Session, input *CloseTillInput) (*entity.Till, error) {
	if sess.TillID == nil {
		return nil, apperror.ErrNoTillSelected
	}

	till, err := s.tillRepo.GetByID(ctx, *sess.TillID)
	if err != nil {
		return nil, err
	}
	if till == nil {
		return nil, apperror.ErrTillNotFound
	}

	if !sess.HasPermission(entity.PermissionCloseTill) {
		return nil, apperror.ErrAccessDenied
	}
	if till.AssignedOwnerID != nil && *till.AssignedOwnerID != sess.OwnerID && !sess.IsAdmin() {
		return nil, apperror.ErrAccessDenied
	}

	if input.Confirmation != s.cfg.ConfirmationPhrase {
		return nil, apperror.ErrConfirmationMismatch
	}
	if !input.PhysicalCountAck {
		return nil, apperror.ErrMissingPhysicalCountAck
	}

	lines, err := s.cartRepo.CountByOwner(ctx, sess.OwnerID)
	if err != nil {
		return nil, err
	}
	if lines > 0 {
		return nil, apperror.ErrCartNotEmpty
	}

	held, err := s.heldRepo.Count(ctx, repository.HeldFilter{Status: enum.HeldStatusHeld, OwnerID: &sess.OwnerID})
	if err != nil {
		return nil, err
	}
	if held > 0 {
		return nil, apperror.ErrHeldTransactionsPending
	}

	if !sess.IsAdmin() {
		ok, err := s.sessions.HasCloseReauth(ctx, sess.OwnerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.ErrReauthRequired
		}
	}

	if till.Status != enum.TillStatusOpen {
		return nil, apperror.ErrTillClosed
	}
	return till, nil
}

// CashDropInput represents cash removed from the drawer
type CashDropInput struct {
	Amount int64
	Reason string
}

// RecordCashDrop removes cash from the caller's open till
func (s *TillService) RecordCashDrop(ctx context.Context, sess *Session, input *CashDropInput) (*entity.CashDrop, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Drop amount must be positive")
	}
	if sess.TillID == nil {
		return nil, apperror.ErrNoTillSelected
	}

	var drop *entity.CashDrop
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		till, err := s.tillRepo.GetByIDForUpdate(ctx, *sess.TillID)
		if err != nil {
			return err
		}
		if till == nil {
			return apperror.ErrTillNotFound
		}
		if !till.IsOpenFor(sess.OwnerID) {
			return apperror.ErrTillClosed
		}

		drop = &entity.CashDrop{
			TillID:  till.ID,
			OwnerID: sess.OwnerID,
			Amount:  input.Amount,
			Reason:  strings.TrimSpace(input.Reason),
		}
		if err := s.dropRepo.Create(ctx, drop); err != nil {
			return err
		}
		till.CurrentBalance -= input.Amount
		return s.tillRepo.Update(ctx, till)
	})
	if err != nil {
		return nil, err
	}
	return drop, nil
}

// CreateTillInput represents a new cash drawer
type CreateTillInput struct {
	Code string
	Name string
}

// CreateTill registers a closed till. Codes are unique.
func (s *TillService) CreateTill(ctx context.Context, input *CreateTillInput) (*entity.Till, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, apperror.NewBadRequestError("Till code and name are required")
	}

	tills, err := s.tillRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tills {
		if t.Code == code {
			return nil, apperror.NewConflictError("Till code already exists")
		}
	}

	till := &entity.Till{Code: code, Name: name, Status: enum.TillStatusClosed}
	if err := s.tillRepo.Create(ctx, till); err != nil {
		return nil, err
	}
	return till, nil
}

// ListTills lists every till
func (s *TillService) ListTills(ctx context.Context) ([]entity.Till, error) {
	return s.tillRepo.List(ctx)
}

// GetTill retrieves a till by ID
func (s *TillService) GetTill(ctx context.Context, id uuid.UUID) (*entity.Till, error) {
	till, err := s.tillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if till == nil {
		return nil, apperror.ErrTillNotFound
	}
	return till, nil
}

// ListClosings lists a till's reconciliation history, newest first
func (s *TillService) ListClosings(ctx context.Context, tillID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.TillClosing], error) {
	params = pageParams(params)
	closings, total, err := s.closingRepo.ListByTill(ctx, tillID, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(closings, pag), nil
}
