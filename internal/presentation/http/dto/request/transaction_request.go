package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionItemRequest is one line of a checkout request.
type TransactionItemRequest struct {
	InventoryItemID string           `json:"inventory_item_id" binding:"required,uuid"`
	Quantity        int              `json:"quantity" binding:"required,min=1"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
}

// CreateTransactionRequest is the checkout request body.
type CreateTransactionRequest struct {
	ClientReference string                   `json:"client_reference" binding:"max=64"`
	CustomerID      *string                  `json:"customer_id" binding:"omitempty,uuid"`
	Items           []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount        decimal.Decimal          `json:"discount"`
	Tax             decimal.Decimal          `json:"tax"`
	PaymentMethod   string                   `json:"payment_method" binding:"required,oneof=cash card digital"`
	CashReceived    *decimal.Decimal         `json:"cash_received"`
	LocationID      string                   `json:"location_id"`
	RegisterID      string                   `json:"register_id"`
	ShiftID         string                   `json:"shift_id"`
	CapturedAt      *time.Time               `json:"captured_at"`
	// Print queues the receipt after a successful commit. Defaults to true.
	Print *bool `json:"print"`
}

// RefundItemRequest selects a quantity of one sold item.
type RefundItemRequest struct {
	InventoryItemID string `json:"inventory_item_id" binding:"required,uuid"`
	Quantity        int    `json:"quantity" binding:"required,min=1"`
}

// RefundTransactionRequest refunds the listed items, or the whole sale when empty.
type RefundTransactionRequest struct {
	Items []RefundItemRequest `json:"items" binding:"omitempty,dive"`
}

// ListTransactionsRequest holds the query filters of the transaction list.
type ListTransactionsRequest struct {
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Status     string `form:"status" binding:"omitempty,oneof=completed voided refunded"`
	RegisterID string `form:"register_id"`
	From       string `form:"from"`
	To         string `form:"to"`
}
