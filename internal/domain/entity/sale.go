package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/pkg/money"
)

// Sale is a committed checkout. The auto-increment ID is the receipt sequence.
type Sale struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID   string     `gorm:"size:64;not null;index" json:"transaction_id"`
	ReceiptNo       *string    `gorm:"size:100;uniqueIndex" json:"receipt_no"`
	OwnerID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	TillID          *uuid.UUID `gorm:"type:uuid;index:idx_sales_till_created" json:"till_id,omitempty"`
	CustomerID      *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName    string     `gorm:"size:255" json:"customer_name,omitempty"`
	Subtotal        int64      `gorm:"not null" json:"-"` // Stored in cents
	TaxAmount       int64      `gorm:"not null" json:"-"`
	TotalAmount     int64      `gorm:"not null" json:"-"`
	LoyaltyDiscount int64      `gorm:"default:0" json:"-"`
	PointsRedeemed  int64      `gorm:"default:0" json:"points_redeemed"`
	PointsEarned    int64      `gorm:"default:0" json:"points_earned"`
	AmountPaid      int64      `gorm:"not null" json:"-"`
	CashTendered    int64      `gorm:"default:0" json:"-"`
	ChangeDue       int64      `gorm:"default:0" json:"-"`
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`
	ReprintCount    int        `gorm:"default:0" json:"reprint_count"`
	CreatedAt       time.Time  `gorm:"index:idx_sales_till_created" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relationships
	Items    []SaleItem    `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	Payments []SalePayment `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// AmountDue is what the payments must cover after the loyalty discount
func (s *Sale) AmountDue() int64 {
	return s.TotalAmount - s.LoyaltyDiscount
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal        float64 `json:"subtotal"`
		TaxAmount       float64 `json:"tax_amount"`
		TotalAmount     float64 `json:"total_amount"`
		LoyaltyDiscount float64 `json:"loyalty_discount"`
		AmountPaid      float64 `json:"amount_paid"`
		CashTendered    float64 `json:"cash_tendered"`
		ChangeDue       float64 `json:"change_due"`
	}{
		Alias:           Alias(s),
		Subtotal:        money.Float(s.Subtotal),
		TaxAmount:       money.Float(s.TaxAmount),
		TotalAmount:     money.Float(s.TotalAmount),
		LoyaltyDiscount: money.Float(s.LoyaltyDiscount),
		AmountPaid:      money.Float(s.AmountPaid),
		CashTendered:    money.Float(s.CashTendered),
		ChangeDue:       money.Float(s.ChangeDue),
	})
}

// SaleItem is a sold line. ProductID is nullable so history survives catalog removal.
type SaleItem struct {
	ID                   int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID               int64      `gorm:"not null;index" json:"sale_id"`
	ProductID            *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	CompositeUnitID      *uuid.UUID `gorm:"type:uuid" json:"composite_unit_id,omitempty"`
	Name                 string     `gorm:"size:255;not null" json:"name"`
	Quantity             int        `gorm:"not null" json:"quantity"`
	UnitPrice            int64      `gorm:"not null" json:"-"`
	LineTotal            int64      `gorm:"not null" json:"-"`
	IsComposite          bool       `gorm:"default:false" json:"is_composite"`
	BaseQuantityDeducted int        `gorm:"default:0" json:"base_quantity_deducted"`
	CreatedAt            time.Time  `json:"created_at"`
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// MarshalJSON custom marshaler to convert cents to decimal
func (i SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(i),
		UnitPrice: money.Float(i.UnitPrice),
		LineTotal: money.Float(i.LineTotal),
	})
}

// SalePayment is one tender of a split payment
type SalePayment struct {
	ID        int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID    int64              `gorm:"not null;index" json:"sale_id"`
	Method    enum.PaymentMethod `gorm:"size:20;not null" json:"method"`
	Amount    int64              `gorm:"not null" json:"-"`
	Reference string             `gorm:"size:255" json:"reference,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// TableName returns the table name for the SalePayment model
func (SalePayment) TableName() string {
	return "sale_payments"
}

// MarshalJSON custom marshaler to convert cents to decimal
func (p SalePayment) MarshalJSON() ([]byte, error) {
	type Alias SalePayment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: money.Float(p.Amount),
	})
}
