package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/pkg/money"
	"gorm.io/gorm"
)

// Till is a physical cash drawer. At most one user holds an open till.
type Till struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Code            string          `gorm:"size:50;unique;not null" json:"code"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Status          enum.TillStatus `gorm:"size:20;not null;default:'closed'" json:"status"`
	CurrentBalance  int64           `gorm:"default:0" json:"-"` // Stored in cents
	AssignedOwnerID *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_owner_id,omitempty"`
	OpenedAt        *time.Time      `json:"opened_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new till
func (t *Till) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Till model
func (Till) TableName() string {
	return "tills"
}

// IsOpenFor reports whether the till is open and assigned to the user
func (t *Till) IsOpenFor(ownerID uuid.UUID) bool {
	return t.Status == enum.TillStatusOpen && t.AssignedOwnerID != nil && *t.AssignedOwnerID == ownerID
}

// MarshalJSON custom marshaler to convert cents to decimal
func (t Till) MarshalJSON() ([]byte, error) {
	type Alias Till
	return json.Marshal(&struct {
		Alias
		CurrentBalance float64 `json:"current_balance"`
	}{
		Alias:          Alias(t),
		CurrentBalance: money.Float(t.CurrentBalance),
	})
}

// TillSession is one open/close cycle of a till and carries its opening float
type TillSession struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TillID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_till_sessions_till_opened" json:"till_id"`
	OwnerID      uuid.UUID  `gorm:"type:uuid;not null" json:"owner_id"`
	OpeningFloat int64      `gorm:"not null;check:opening_float >= 0" json:"opening_float"`
	OpenedAt     time.Time  `gorm:"not null;index:idx_till_sessions_till_opened" json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}

// BeforeCreate generates a UUID before creating a new till session
func (s *TillSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TillSession model
func (TillSession) TableName() string {
	return "till_sessions"
}

// CashDrop is cash removed from an open till during trading
type CashDrop struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TillID    uuid.UUID `gorm:"type:uuid;not null;index:idx_cash_drops_till_created" json:"till_id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null" json:"owner_id"`
	Amount    int64     `gorm:"not null;check:amount > 0" json:"-"`
	Reason    string    `gorm:"size:255" json:"reason"`
	CreatedAt time.Time `gorm:"index:idx_cash_drops_till_created" json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new cash drop
func (d *CashDrop) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashDrop model
func (CashDrop) TableName() string {
	return "cash_drops"
}

// MarshalJSON custom marshaler to convert cents to decimal
func (d CashDrop) MarshalJSON() ([]byte, error) {
	type Alias CashDrop
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(d),
		Amount: money.Float(d.Amount),
	})
}

// TillClosing is the append-only reconciliation record written when a till closes.
// All amounts are in cents.
type TillClosing struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TillID              uuid.UUID         `gorm:"type:uuid;not null;index" json:"till_id"`
	OwnerID             uuid.UUID         `gorm:"type:uuid;not null" json:"owner_id"`
	OpeningAmount       int64             `json:"opening_amount"`
	TotalSales          int64             `json:"total_sales"`
	TotalDrops          int64             `json:"total_drops"`
	ExpectedBalance     int64             `json:"expected_balance"`
	ExpectedCashBalance int64             `json:"expected_cash_balance"`
	CountedCash         int64             `json:"counted_cash"`
	CountedVoucher      int64             `json:"counted_voucher"`
	CountedLoyalty      int64             `json:"counted_loyalty"`
	CountedOther        int64             `json:"counted_other"`
	OtherDescription    string            `gorm:"size:255" json:"other_description,omitempty"`
	TotalCounted        int64             `json:"total_counted"`
	Difference          int64             `json:"difference"`
	CashDifference      int64             `json:"cash_difference"`
	CashShortage        int64             `json:"cash_shortage"`
	VoucherShortage     int64             `json:"voucher_shortage"`
	OtherShortage       int64             `json:"other_shortage"`
	ShortageType        enum.ShortageType `gorm:"size:20;not null" json:"shortage_type"`
	Notes               string            `gorm:"type:text" json:"notes,omitempty"`
	ClosedAt            time.Time         `gorm:"not null;index" json:"closed_at"`
}

// BeforeCreate generates a UUID before creating a new till closing
func (c *TillClosing) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TillClosing model
func (TillClosing) TableName() string {
	return "till_closings"
}
