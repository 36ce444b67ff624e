package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreSettings holds the receipt header and footer for one location
type StoreSettings struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	LocationID        string    `gorm:"size:64;not null;uniqueIndex" json:"location_id"`
	StoreName         string    `gorm:"size:255;not null" json:"store_name"`
	Address           string    `gorm:"size:255" json:"address"`
	Phone             string    `gorm:"size:50" json:"phone"`
	TaxID             string    `gorm:"size:50" json:"tax_id"`
	FooterMessage     string    `gorm:"size:255" json:"footer_message"`
	PromoMessage      string    `gorm:"size:255" json:"promo_message"`
	DigitalReceiptURL string    `gorm:"size:255" json:"digital_receipt_url"`
	PaperWidth        int       `gorm:"not null;default:32" json:"paper_width"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *StoreSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}
