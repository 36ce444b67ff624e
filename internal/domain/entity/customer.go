package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer is a shop customer with a loyalty balance
type Customer struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name          string           `gorm:"size:255;not null" json:"name"`
	Email         *string          `gorm:"size:255" json:"email,omitempty"`
	Phone         *string          `gorm:"size:50" json:"phone,omitempty"`
	LoyaltyPoints int64            `gorm:"not null;default:0" json:"loyalty_points"`
	LoyaltyTier   enum.LoyaltyTier `gorm:"size:20;not null;default:'none'" json:"loyalty_tier"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
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
