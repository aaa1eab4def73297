package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxLineQuantity is the largest quantity a single cart line may hold
const MaxLineQuantity = 999

// CartLine is one line of a cashier's active cart. The ID is the stable line
// reference used for updates and removals.
type CartLine struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	ProductID       *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	CompositeUnitID *uuid.UUID `gorm:"type:uuid" json:"composite_unit_id,omitempty"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	UnitPrice       int64      `gorm:"not null;check:unit_price >= 0" json:"-"` // Stored in cents
	Quantity        int        `gorm:"not null;check:quantity > 0" json:"quantity"`
	IsComposite     bool       `gorm:"default:false" json:"is_composite"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new cart line
func (l *CartLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CartLine model
func (CartLine) TableName() string {
	return "cart_lines"
}

// LineTotal is unit price times quantity, in cents
func (l *CartLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Matches reports whether the line is for the same catalog subject
func (l *CartLine) Matches(productID, compositeUnitID *uuid.UUID) bool {
	return sameRef(l.ProductID, productID) && sameRef(l.CompositeUnitID, compositeUnitID)
}

// IsValid reports whether the line can be committed
func (l *CartLine) IsValid() bool {
	if l.Quantity <= 0 || l.UnitPrice < 0 {
		return false
	}
	if l.IsComposite {
		return l.CompositeUnitID != nil
	}
	return l.ProductID != nil
}

// MarshalJSON renders money fields as decimals
func (l CartLine) MarshalJSON() ([]byte, error) {
	type Alias CartLine
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(l),
		UnitPrice: money.Float(l.UnitPrice),
		LineTotal: money.Float(l.LineTotal()),
	})
}

func sameRef(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// CartTotals are the computed totals of a set of lines, in cents
type CartTotals struct {
	Subtotal  int64           `json:"-"`
	TaxAmount int64           `json:"-"`
	Total     int64           `json:"-"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	ItemCount int             `json:"item_count"`
}

// ComputeTotals sums the lines and applies a percentage tax rounded to the cent.
func ComputeTotals(lines []CartLine, taxRate decimal.Decimal) CartTotals {
	var subtotal int64
	var count int
	for i := range lines {
		subtotal += lines[i].LineTotal()
		count += lines[i].Quantity
	}
	tax := money.Percent(subtotal, taxRate)
	return CartTotals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal + tax,
		TaxRate:   taxRate,
		ItemCount: count,
	}
}

// MarshalJSON renders money fields as decimals
func (t CartTotals) MarshalJSON() ([]byte, error) {
	type Alias CartTotals
	return json.Marshal(&struct {
		Alias
		Subtotal  float64 `json:"subtotal"`
		TaxAmount float64 `json:"tax_amount"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(t),
		Subtotal:  money.Float(t.Subtotal),
		TaxAmount: money.Float(t.TaxAmount),
		Total:     money.Float(t.Total),
	})
}
