package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer represents a loyalty customer. The walk-in customer stands in for
// anonymous sales and never earns points.
type Customer struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Name           string              `gorm:"size:255;not null" json:"name"`
	Email          *string             `gorm:"size:255" json:"email,omitempty"`
	Phone          *string             `gorm:"size:50;index" json:"phone,omitempty"`
	IsWalkIn       bool                `gorm:"default:false" json:"is_walk_in"`
	MembershipTier enum.MembershipTier `gorm:"size:20;default:'bronze'" json:"membership_tier"`
	LoyaltyPoints  int64               `gorm:"default:0;check:loyalty_points >= 0" json:"loyalty_points"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	DeletedAt      gorm.DeletedAt      `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// LoyaltyTransaction is an append-only points movement. Points are negative for redemptions.
type LoyaltyTransaction struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Points         int64     `gorm:"not null" json:"points"`
	Memo           string    `gorm:"size:255" json:"memo"`
	TransactionRef string    `gorm:"size:100;index" json:"transaction_ref"`
	CreatedAt      time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new loyalty transaction
func (l *LoyaltyTransaction) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LoyaltyTransaction model
func (LoyaltyTransaction) TableName() string {
	return "loyalty_transactions"
}
