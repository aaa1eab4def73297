package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/pkg/money"
	"gorm.io/gorm"
)

// VoidRecord is an append-only audit entry for a voided line, cart or held transaction
type VoidRecord struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"owner_id"`
	TillID      *uuid.UUID    `gorm:"type:uuid;index" json:"till_id,omitempty"`
	VoidType    enum.VoidType `gorm:"size:30;not null;index" json:"void_type"`
	SubjectRef  *string       `gorm:"size:100" json:"subject_ref,omitempty"`
	SubjectName string        `gorm:"size:255" json:"subject_name"`
	Quantity    int           `json:"quantity"`
	UnitPrice   int64         `json:"-"` // Stored in cents
	TotalAmount int64         `json:"-"`
	Reason      string        `gorm:"size:255;not null" json:"reason"`
	VoidedAt    time.Time     `gorm:"not null;index" json:"voided_at"`
}

// BeforeCreate generates a UUID before creating a new void record
func (v *VoidRecord) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the VoidRecord model
func (VoidRecord) TableName() string {
	return "void_records"
}

// MarshalJSON custom marshaler to convert cents to decimal
func (v VoidRecord) MarshalJSON() ([]byte, error) {
	type Alias VoidRecord
	return json.Marshal(&struct {
		Alias
		UnitPrice   float64 `json:"unit_price"`
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(v),
		UnitPrice:   money.Float(v.UnitPrice),
		TotalAmount: money.Float(v.TotalAmount),
	})
}
