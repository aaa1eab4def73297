package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"gorm.io/gorm"
)

// HeldLine is a cart line as captured when the cart was parked
type HeldLine struct {
	ProductID       *uuid.UUID `json:"product_id,omitempty"`
	CompositeUnitID *uuid.UUID `json:"composite_unit_id,omitempty"`
	Name            string     `json:"name"`
	UnitPrice       int64      `json:"unit_price"`
	Quantity        int        `json:"quantity"`
	IsComposite     bool       `json:"is_composite"`
}

// HeldSnapshot is the frozen content of a parked cart. Stored as JSON.
type HeldSnapshot struct {
	Lines     []HeldLine `json:"lines"`
	Subtotal  int64      `json:"subtotal"`
	TaxAmount int64      `json:"tax_amount"`
	Total     int64      `json:"total"`
	TaxRate   string     `json:"tax_rate"`
}

func (s HeldSnapshot) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *HeldSnapshot) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = HeldSnapshot{}
		return nil
	case string:
		return json.Unmarshal([]byte(v), s)
	case []byte:
		return json.Unmarshal(v, s)
	}
	return errors.New("unsupported held snapshot value")
}

// HeldTransaction is a parked cart. Status moves held→resumed or held→deleted
// exactly once; both are terminal.
type HeldTransaction struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	TillID            *uuid.UUID      `gorm:"type:uuid;index" json:"till_id,omitempty"`
	Snapshot          HeldSnapshot    `gorm:"type:jsonb;not null" json:"snapshot"`
	Reason            string          `gorm:"size:255;not null" json:"reason"`
	CustomerReference string          `gorm:"size:255" json:"customer_reference,omitempty"`
	Status            enum.HeldStatus `gorm:"size:20;not null;default:'held';index" json:"status"`
	HeldAt            time.Time       `gorm:"not null" json:"held_at"`
	ResumedAt         *time.Time      `json:"resumed_at,omitempty"`
	DeletedAt         *time.Time      `json:"deleted_at,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new held transaction
func (h *HeldTransaction) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the HeldTransaction model
func (HeldTransaction) TableName() string {
	return "held_transactions"
}
