package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores the response a terminal received for a keyed POS
// request so a retry after a dropped connection replays it instead of
// ringing the sale up twice.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_scope"`
	Route        string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_scope"` // "POST /api/v1/checkout"
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_scope"`
	RequestHash  string    `gorm:"size:64"`
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// LiveAt reports whether the entry can still be replayed at t
func (i *IdempotencyKey) LiveAt(t time.Time) bool {
	return t.Before(i.ExpiresAt)
}
