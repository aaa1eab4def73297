package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/config"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/sangkips/tillpoint-api/pkg/identifier"
	"github.com/sangkips/tillpoint-api/pkg/money"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// SaleService turns carts into committed sales
type SaleService struct {
	transactor   repository.Transactor
	cartRepo     repository.CartRepository
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	tillRepo     repository.TillRepository
	inventory    *InventoryService
	loyalty      *LoyaltyService
	carts        *CartService
	ids          *identifier.Generator
	pos          config.POSConfig
}

// NewSaleService creates a new sale service
func NewSaleService(
	transactor repository.Transactor,
	cartRepo repository.CartRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	tillRepo repository.TillRepository,
	inventory *InventoryService,
	loyalty *LoyaltyService,
	carts *CartService,
	ids *identifier.Generator,
	pos config.POSConfig,
) *SaleService {
	return &SaleService{
		transactor:   transactor,
		cartRepo:     cartRepo,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		tillRepo:     tillRepo,
		inventory:    inventory,
		loyalty:      loyalty,
		carts:        carts,
		ids:          ids,
		pos:          pos,
	}
}

// PaymentInput is one tender of a split payment, amount in cents
type PaymentInput struct {
	Method    enum.PaymentMethod
	Amount    int64
	Reference string
}

// CheckoutInput represents the checkout request
type CheckoutInput struct {
	Payments     []PaymentInput
	CustomerID   *uuid.UUID
	RedeemPoints int64
	Notes        string
	// CashTendered is the cash handed over when it exceeds the cash payment
	CashTendered *int64
}

// CheckoutOutput is the committed sale and its receipt
type CheckoutOutput struct {
	Sale    *entity.Sale    `json:"sale"`
	Receipt *entity.Receipt `json:"receipt"`
}

// Commit checks out the caller's cart on their open till. Stock, loyalty
// points, the sale, the till balance and the cleared cart are written in one
// transaction; any failure leaves all of them untouched.
func (s *SaleService) Commit(ctx context.Context, sess *Session, input *CheckoutInput) (*CheckoutOutput, error) {
	if err := validatePayments(input.Payments); err != nil {
		return nil, err
	}
	if input.RedeemPoints < 0 {
		return nil, apperror.NewBadRequestError("Redeem points cannot be negative")
	}
	if sess.TillID == nil {
		return nil, apperror.ErrNoTillSelected
	}

	var (
		saleID   int64
		customer *entity.Customer
	)

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		till, err := s.lockTill(ctx, sess)
		if err != nil {
			return err
		}

		lines, err := s.cartRepo.ListByOwner(ctx, sess.OwnerID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperror.ErrInvalidCart
		}
		for i := range lines {
			if !lines[i].IsValid() {
				return apperror.ErrInvalidCart
			}
		}

		customer, err = s.resolveCustomer(ctx, input.CustomerID)
		if err != nil {
			return err
		}

		// Inventory first so a stock failure rolls back before anything else is written
		deducted := make([]int, len(lines))
		for i := range lines {
			n, err := s.inventory.Deduct(ctx, &lines[i])
			if err != nil {
				return err
			}
			deducted[i] = n
		}

		totals := s.carts.ComputeTotals(lines)
		transactionID := s.ids.NextTransactionID()

		redemption, err := s.loyalty.Redeem(ctx, customer, input.RedeemPoints, totals.Total, transactionID)
		if err != nil {
			return err
		}

		due := totals.Total - redemption.Discount
		var paid, cash int64
		for _, p := range input.Payments {
			paid += p.Amount
			if p.Method == enum.PaymentMethodCash {
				cash += p.Amount
			}
		}
		if paid != due {
			return apperror.NewPaymentMismatchError(paid, due)
		}

		tendered := cash
		if input.CashTendered != nil {
			if *input.CashTendered < cash {
				return apperror.NewBadRequestError("Cash tendered is less than the cash payment")
			}
			tendered = *input.CashTendered
		}

		sale := &entity.Sale{
			TransactionID:   transactionID,
			OwnerID:         sess.OwnerID,
			TillID:          &till.ID,
			Subtotal:        totals.Subtotal,
			TaxAmount:       totals.TaxAmount,
			TotalAmount:     totals.Total,
			LoyaltyDiscount: redemption.Discount,
			PointsRedeemed:  redemption.Points,
			AmountPaid:      paid,
			CashTendered:    tendered,
			ChangeDue:       tendered - cash,
			Notes:           strings.TrimSpace(input.Notes),
		}
		if customer != nil {
			sale.CustomerID = &customer.ID
			sale.CustomerName = customer.Name
		}
		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		saleID = sale.ID

		items := make([]entity.SaleItem, 0, len(lines))
		for i, l := range lines {
			items = append(items, entity.SaleItem{
				SaleID:               sale.ID,
				ProductID:            l.ProductID,
				CompositeUnitID:      l.CompositeUnitID,
				Name:                 l.Name,
				Quantity:             l.Quantity,
				UnitPrice:            l.UnitPrice,
				LineTotal:            l.LineTotal(),
				IsComposite:          l.IsComposite,
				BaseQuantityDeducted: deducted[i],
			})
		}
		if err := s.saleRepo.CreateItems(ctx, items); err != nil {
			return err
		}

		payments := make([]entity.SalePayment, 0, len(input.Payments))
		for _, p := range input.Payments {
			payments = append(payments, entity.SalePayment{
				SaleID:    sale.ID,
				Method:    p.Method,
				Amount:    p.Amount,
				Reference: strings.TrimSpace(p.Reference),
			})
		}
		if err := s.saleRepo.CreatePayments(ctx, payments); err != nil {
			return err
		}

		earned, err := s.loyalty.Accrue(ctx, customer, paid, transactionID)
		if err != nil {
			return err
		}
		if earned > 0 {
			if err := s.saleRepo.UpdateLoyalty(ctx, sale.ID, earned); err != nil {
				return err
			}
		}

		receiptNo := s.ids.ReceiptNumber(sale.ID, sale.CreatedAt)
		if err := s.saleRepo.SetIdentifiers(ctx, sale.ID, transactionID, receiptNo); err != nil {
			return err
		}

		if cash != 0 {
			till.CurrentBalance += cash
			if err := s.tillRepo.Update(ctx, till); err != nil {
				return err
			}
		}

		return s.cartRepo.DeleteByOwner(ctx, sess.OwnerID)
	})
	if err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	receipt, err := s.buildReceipt(ctx, sale, sess.Name, false)
	if err != nil {
		return nil, err
	}
	return &CheckoutOutput{Sale: sale, Receipt: receipt}, nil
}

func validatePayments(payments []PaymentInput) error {
	if len(payments) == 0 {
		return apperror.NewBadRequestError("At least one payment is required")
	}
	for _, p := range payments {
		if !p.Method.IsValid() {
			return apperror.NewBadRequestError("Invalid payment method: " + p.Method.String())
		}
		if p.Amount < 0 {
			return apperror.NewBadRequestError("Payment amounts cannot be negative")
		}
	}
	return nil
}

// resolveCustomer loads the named customer, falling back to the walk-in customer
func (s *SaleService) resolveCustomer(ctx context.Context, id *uuid.UUID) (*entity.Customer, error) {
	if id == nil {
		return s.customerRepo.GetWalkIn(ctx)
	}
	customer, err := s.customerRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// lockTill locks the caller's selected till. Sales only ring up on a till the
// caller opened; admins may also ring up on a till open for someone else.
func (s *SaleService) lockTill(ctx context.Context, sess *Session) (*entity.Till, error) {
	till, err := s.tillRepo.GetByIDForUpdate(ctx, *sess.TillID)
	if err != nil {
		return nil, err
	}
	if till == nil {
		return nil, apperror.ErrTillNotFound
	}
	if till.Status != enum.TillStatusOpen {
		return nil, apperror.ErrTillClosed
	}
	if !till.IsOpenFor(sess.OwnerID) && !sess.IsAdmin() {
		return nil, apperror.ErrTillBusy
	}
	return till, nil
}

// GetSale retrieves a sale with its items and payments
func (s *SaleService) GetSale(ctx context.Context, id int64) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering, newest first
func (s *SaleService) ListSales(ctx context.Context, filter *repository.SaleFilter) (*pagination.PaginatedResult[entity.Sale], error) {
	filter.Pagination = pageParams(filter.Pagination)
	sales, total, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(filter.Pagination.Page, filter.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// Reprint returns the receipt again, counting reprints up to the configured limit
func (s *SaleService) Reprint(ctx context.Context, sess *Session, id int64) (*entity.Receipt, error) {
	if _, err := s.GetSale(ctx, id); err != nil {
		return nil, err
	}

	ok, err := s.saleRepo.IncrementReprint(ctx, id, s.pos.ReprintLimit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrReprintLimitReached
	}

	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildReceipt(ctx, sale, sess.Name, true)
}

// buildReceipt projects a sale into the structured receipt handed to printers
func (s *SaleService) buildReceipt(ctx context.Context, sale *entity.Sale, cashier string, reprint bool) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: s.pos.StoreName,
			Currency:  s.pos.Currency,
		},
		SaleID:        sale.ID,
		TransactionID: sale.TransactionID,
		Date:          sale.CreatedAt.Format(time.RFC3339),
		Cashier:       cashier,
		Customer:      sale.CustomerName,
		Items:         make([]entity.ReceiptItem, 0, len(sale.Items)),
		Payments:      make([]entity.ReceiptPayment, 0, len(sale.Payments)),
		SubTotal:      money.Float(sale.Subtotal),
		Tax:           money.Float(sale.TaxAmount),
		Total:         money.Float(sale.TotalAmount),
		AmountDue:     money.Float(sale.AmountDue()),
		Paid:          money.Float(sale.AmountPaid),
		Change:        money.Float(sale.ChangeDue),
		Reprint:       reprint,
		ReprintCount:  sale.ReprintCount,
	}
	if sale.ReceiptNo != nil {
		receipt.ReceiptNo = *sale.ReceiptNo
	}
	for _, item := range sale.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: money.Float(item.UnitPrice),
			Total:     money.Float(item.LineTotal),
		})
	}
	for _, p := range sale.Payments {
		receipt.Payments = append(receipt.Payments, entity.ReceiptPayment{
			Method:    p.Method.String(),
			Amount:    money.Float(p.Amount),
			Reference: p.Reference,
		})
	}

	if sale.PointsRedeemed > 0 || sale.PointsEarned > 0 {
		loyalty := &entity.ReceiptLoyalty{
			PointsRedeemed: sale.PointsRedeemed,
			Discount:       money.Float(sale.LoyaltyDiscount),
			PointsEarned:   sale.PointsEarned,
		}
		if sale.CustomerID != nil {
			balance, err := s.loyalty.Balance(ctx, *sale.CustomerID)
			if err != nil && !apperror.HasReason(err, apperror.ReasonNotFound) {
				return nil, err
			}
			loyalty.Balance = balance
		}
		receipt.Loyalty = loyalty
	}
	return receipt, nil
}
