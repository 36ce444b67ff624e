package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one sale. Line items are written once at commit and never edited.
type Transaction struct {
	ID              uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNo       string                 `gorm:"size:32;uniqueIndex;not null" json:"receipt_no"`
	ClientReference *string                `gorm:"size:64;uniqueIndex" json:"client_reference,omitempty"`
	CustomerID      *uuid.UUID             `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	EmployeeID      uuid.UUID              `gorm:"type:uuid;not null;index" json:"employee_id"`
	CashierName     string                 `gorm:"size:255" json:"cashier_name,omitempty"`
	Subtotal        decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DiscountAmount  decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	TaxAmount       decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	TotalAmount     decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod   enum.PaymentMethod     `gorm:"size:20;not null" json:"payment_method"`
	CashReceived    *decimal.Decimal       `gorm:"type:decimal(12,2)" json:"cash_received,omitempty"`
	ChangeAmount    *decimal.Decimal       `gorm:"type:decimal(12,2)" json:"change_amount,omitempty"`
	Status          enum.TransactionStatus `gorm:"size:20;not null;index" json:"status"`
	LocationID      *string                `gorm:"size:64;index" json:"location_id,omitempty"`
	RegisterID      *string                `gorm:"size:64;index" json:"register_id,omitempty"`
	ShiftID         *string                `gorm:"size:64" json:"shift_id,omitempty"`
	DrawerSessionID *uuid.UUID             `gorm:"type:uuid;index" json:"drawer_session_id,omitempty"`
	CreatedAt       time.Time              `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`

	// Relationships
	Customer *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// IsCash reports whether the sale was paid in cash.
func (t *Transaction) IsCash() bool {
	return t.PaymentMethod == enum.PaymentMethodCash
}

// TransactionItem is one SKU line of a transaction
type TransactionItem struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"transaction_id"`
	InventoryItemID uuid.UUID         `gorm:"type:uuid;not null;index" json:"inventory_item_id"`
	Name            string            `gorm:"size:255;not null" json:"name"`
	SKU             string            `gorm:"size:100;not null" json:"sku"`
	Quantity        int               `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice      decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Category        enum.ItemCategory `gorm:"size:20;not null" json:"category"`
	Position        int               `gorm:"not null;default:0" json:"-"`
}

// BeforeCreate generates a UUID before creating a new transaction item
func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}
