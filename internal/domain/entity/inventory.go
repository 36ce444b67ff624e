package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is the stock record for one SKU
type InventoryItem struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	SKU             string            `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	Name            string            `gorm:"size:255;not null" json:"name"`
	Category        enum.ItemCategory `gorm:"size:20;not null" json:"category"`
	UnitPrice       decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	QuantityInStock int               `gorm:"not null;default:0" json:"quantity_in_stock"`
	MinStockLevel   int               `gorm:"not null;default:0" json:"min_stock_level"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new inventory item
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryItem model
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLowStock reports whether the item is at or below its reorder level.
func (i *InventoryItem) IsLowStock() bool {
	return i.QuantityInStock <= i.MinStockLevel
}
