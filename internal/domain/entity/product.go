package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/pkg/money"
	"gorm.io/gorm"
)

// Product is a sellable catalog item. Stock is held in base units.
type Product struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Code           string         `gorm:"size:100;unique;not null" json:"code"`
	Quantity       int            `gorm:"default:0" json:"quantity"`
	QuantityAlert  int            `gorm:"default:0" json:"quantity_alert"`
	SellingPrice   int64          `gorm:"default:0" json:"-"` // Stored in cents
	TrackInventory bool           `gorm:"default:true" json:"track_inventory"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// MarshalJSON renders the selling price as a decimal
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(p),
		SellingPrice: money.Float(p.SellingPrice),
	})
}

// CompositeUnit is a sellable pack that consumes BaseQuantityPerUnit of its base
// product per unit sold, e.g. a carton of 24 cans.
type CompositeUnit struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name                string         `gorm:"size:255;not null" json:"name"`
	Code                string         `gorm:"size:100;unique;not null" json:"code"`
	BaseProductID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"base_product_id"`
	BaseQuantityPerUnit int            `gorm:"not null;check:base_quantity_per_unit > 0" json:"base_quantity_per_unit"`
	SellingPrice        int64          `gorm:"default:0" json:"-"` // Stored in cents
	IsActive            bool           `gorm:"default:true" json:"is_active"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	BaseProduct *Product `gorm:"foreignKey:BaseProductID" json:"base_product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new composite unit
func (c *CompositeUnit) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CompositeUnit model
func (CompositeUnit) TableName() string {
	return "composite_units"
}

// MarshalJSON renders the selling price as a decimal
func (c CompositeUnit) MarshalJSON() ([]byte, error) {
	type Alias CompositeUnit
	return json.Marshal(&struct {
		Alias
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(c),
		SellingPrice: money.Float(c.SellingPrice),
	})
}
