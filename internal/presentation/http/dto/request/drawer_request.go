package request

import "github.com/shopspring/decimal"

// OpenDrawerRequest opens a cash drawer session.
type OpenDrawerRequest struct {
	RegisterID    string          `json:"register_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// CloseDrawerRequest records the counted cash.
type CloseDrawerRequest struct {
	ClosingAmount decimal.Decimal `json:"closing_amount"`
}

// UpdateSettingsRequest is the receipt settings of a location.
type UpdateSettingsRequest struct {
	LocationID        string `json:"location_id"`
	StoreName         string `json:"store_name" binding:"required,max=255"`
	Address           string `json:"address" binding:"max=255"`
	Phone             string `json:"phone" binding:"max=50"`
	TaxID             string `json:"tax_id" binding:"max=50"`
	FooterMessage     string `json:"footer_message" binding:"max=255"`
	PromoMessage      string `json:"promo_message" binding:"max=255"`
	DigitalReceiptURL string `json:"digital_receipt_url" binding:"omitempty,url"`
	PaperWidth        int    `json:"paper_width"`
}
