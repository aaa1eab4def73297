package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCartLineRequest adds a product or a composite unit to the cart
type AddCartLineRequest struct {
	ProductID       *uuid.UUID `json:"product_id"`
	CompositeUnitID *uuid.UUID `json:"composite_unit_id"`
	Quantity        int        `json:"quantity"`
}

// UpdateCartLineRequest changes a line's quantity by Delta
type UpdateCartLineRequest struct {
	Delta int `json:"delta"`
}

// ReasonRequest carries the mandatory reason for voids
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// HoldRequest parks the current cart
type HoldRequest struct {
	Reason            string `json:"reason"`
	CustomerReference string `json:"customer_reference" binding:"max=255"`
}

// PaymentRequest is one tender. Amounts are decimal currency units.
type PaymentRequest struct {
	Method    string          `json:"method" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" binding:"max=255"`
}

// CheckoutRequest commits the cart as a sale
type CheckoutRequest struct {
	Payments     []PaymentRequest `json:"payments" binding:"required,min=1,dive"`
	CustomerID   *uuid.UUID       `json:"customer_id"`
	RedeemPoints int64            `json:"redeem_points" binding:"min=0"`
	CashTendered *decimal.Decimal `json:"cash_tendered"`
	Notes        string           `json:"notes"`
}

// SaleFilterRequest represents sale history filters
type SaleFilterRequest struct {
	TillID     string `form:"till_id"`
	CustomerID string `form:"customer_id"`
	From       string `form:"from"` // YYYY-MM-DD
	To         string `form:"to"`   // YYYY-MM-DD, inclusive
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// OpenTillRequest opens a till with its starting float
type OpenTillRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float"`
}

// CashDropRequest removes cash from the open till
type CashDropRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" binding:"max=255"`
}

// CloseTillRequest reconciles and closes the selected till
type CloseTillRequest struct {
	CountedCash      decimal.Decimal `json:"counted_cash"`
	CountedVoucher   decimal.Decimal `json:"counted_voucher"`
	CountedLoyalty   decimal.Decimal `json:"counted_loyalty"`
	CountedOther     decimal.Decimal `json:"counted_other"`
	OtherDescription string          `json:"other_description" binding:"max=255"`
	Notes            string          `json:"notes"`
	Confirmation     string          `json:"confirmation"`
	PhysicalCountAck bool            `json:"physical_count_ack"`
}

// VoidFilterRequest represents void audit filters
type VoidFilterRequest struct {
	VoidType string `form:"void_type"`
	TillID   string `form:"till_id"`
	OwnerID  string `form:"owner_id"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}

// CreateTillRequest registers a new cash drawer
type CreateTillRequest struct {
	Code string `json:"code" binding:"required,max=50"`
	Name string `json:"name" binding:"required,max=255"`
}
