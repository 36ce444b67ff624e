package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptHeader holds the store/business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptCustomer is the optional customer block.
type ReceiptCustomer struct {
	Name          string `json:"name"`
	Tier          string `json:"tier,omitempty"`
	LoyaltyPoints int64  `json:"loyalty_points"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is composed from a committed transaction at commit or reprint time.
type Receipt struct {
	Header            ReceiptHeader    `json:"header"`
	ReceiptNo         string           `json:"receipt_no"`
	Timestamp         time.Time        `json:"timestamp"`
	Cashier           string           `json:"cashier,omitempty"`
	Customer          *ReceiptCustomer `json:"customer,omitempty"`
	Items             []ReceiptItem    `json:"items"`
	Subtotal          decimal.Decimal  `json:"subtotal"`
	Discount          decimal.Decimal  `json:"discount"`
	Tax               decimal.Decimal  `json:"tax"`
	Total             decimal.Decimal  `json:"total"`
	PaymentMethod     string           `json:"payment_method"`
	CashReceived      *decimal.Decimal `json:"cash_received,omitempty"`
	Change            *decimal.Decimal `json:"change,omitempty"`
	PointsEarned      int64            `json:"points_earned,omitempty"`
	Status            string           `json:"status"`
	Footer            string           `json:"footer,omitempty"`
	Promo             string           `json:"promo,omitempty"`
	DigitalReceiptURL string           `json:"digital_receipt_url,omitempty"`
	Width             int              `json:"width"`
}
