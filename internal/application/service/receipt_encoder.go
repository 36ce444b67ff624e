package service

import (
	"fmt"
	"strings"

	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/sangkips/repairpos/pkg/printer"
	"github.com/shopspring/decimal"
)

const receiptTimeLayout = "2006-01-02 15:04"

// ReceiptData is everything a receipt is composed from.
type ReceiptData struct {
	Transaction  *entity.Transaction
	Store        *entity.StoreSettings
	Customer     *entity.Customer
	PointsEarned int64
	Cashier      string
}

// BuildReceipt composes the printable receipt of a committed transaction.
func BuildReceipt(data ReceiptData) *entity.Receipt {
	tx := data.Transaction
	store := data.Store
	if store == nil {
		store = &entity.StoreSettings{}
	}

	r := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: store.StoreName,
			Address:   store.Address,
			Phone:     store.Phone,
			TaxID:     store.TaxID,
		},
		ReceiptNo:     tx.ReceiptNo,
		Timestamp:     tx.CreatedAt,
		Cashier:       data.Cashier,
		Subtotal:      tx.Subtotal,
		Discount:      tx.DiscountAmount,
		Tax:           tx.TaxAmount,
		Total:         tx.TotalAmount,
		PaymentMethod: tx.PaymentMethod.String(),
		PointsEarned:  data.PointsEarned,
		Status:        tx.Status.String(),
		Footer:        store.FooterMessage,
		Promo:         store.PromoMessage,
		Width:         store.PaperWidth,
	}
	if r.Cashier == "" {
		r.Cashier = tx.CashierName
	}
	if r.Width <= 0 {
		r.Width = printer.DefaultWidth
	}

	if tx.IsCash() {
		r.CashReceived = tx.CashReceived
		r.Change = tx.ChangeAmount
	}

	customer := data.Customer
	if customer == nil {
		customer = tx.Customer
	}
	if customer != nil {
		r.Customer = &entity.ReceiptCustomer{
			Name:          customer.Name,
			Tier:          customer.LoyaltyTier.String(),
			LoyaltyPoints: customer.LoyaltyPoints,
		}
	}

	if store.DigitalReceiptURL != "" && tx.ReceiptNo != "" {
		r.DigitalReceiptURL = strings.TrimRight(store.DigitalReceiptURL, "/") + "/" + tx.ReceiptNo
	}

	r.Items = make([]entity.ReceiptItem, 0, len(tx.Items))
	for _, item := range tx.Items {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.TotalPrice,
		})
	}
	return r
}

// EncodeReceipt converts a Receipt into ESC/POS bytes. The output depends only on r.
func EncodeReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(r.Width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Date:", r.Timestamp.Format(receiptTimeLayout))
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}

	if r.Customer != nil {
		doc.KeyValue("Customer:", r.Customer.Name)
		if r.Customer.Tier != "" && r.Customer.Tier != enum.LoyaltyTierNone.String() {
			doc.KeyValue("Tier:", strings.ToUpper(r.Customer.Tier))
		}
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.Text(printer.Truncate(item.Name, doc.Width()))
		doc.ItemLine(item.SKU, item.Quantity, money(item.UnitPrice), money(item.Total))
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", money(r.Subtotal))
	if !r.Discount.IsZero() {
		doc.KeyValue("Discount:", "-"+money(r.Discount))
	}
	doc.KeyValue("Tax:", money(r.Tax))
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)

	// Payment
	doc.KeyValue("Payment:", strings.ToUpper(r.PaymentMethod))
	if r.CashReceived != nil {
		doc.KeyValue("Cash:", money(*r.CashReceived))
	}
	if r.Change != nil {
		doc.KeyValue("Change:", money(*r.Change))
	}

	if r.PointsEarned > 0 {
		doc.KeyValue("Points earned:", fmt.Sprintf("%d", r.PointsEarned))
	}

	if r.Status == enum.TransactionStatusVoided.String() || r.Status == enum.TransactionStatusRefunded.String() {
		doc.SetAlign(printer.AlignCenter).
			SetBold(true).
			TextF("*** %s ***", strings.ToUpper(r.Status)).
			SetBold(false).
			SetAlign(printer.AlignLeft)
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter)
	if r.Footer != "" {
		doc.Text(r.Footer)
	}
	if r.Promo != "" {
		doc.Text(r.Promo)
	}

	if r.DigitalReceiptURL != "" {
		doc.LineFeed().
			QRCode(r.DigitalReceiptURL, 6, printer.QRCorrectionM).
			LineFeed()
	}

	doc.SetAlign(printer.AlignLeft).
		FeedLines(3).
		Cut()

	return doc.Bytes()
}

// EncodeDrawerReport prints the closing (Z) report of a drawer session.
func EncodeDrawerReport(session *entity.CashDrawerSession, store *entity.StoreSettings) []byte {
	width := printer.DefaultWidth
	name := ""
	if store != nil {
		name = store.StoreName
		if store.PaperWidth > 0 {
			width = store.PaperWidth
		}
	}
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(name).
		Text("DRAWER REPORT").
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Register:", session.RegisterID).
		KeyValue("Opened:", session.OpenedAt.Format(receiptTimeLayout))
	if session.ClosedAt != nil {
		doc.KeyValue("Closed:", session.ClosedAt.Format(receiptTimeLayout))
	}

	doc.Separator('-').
		KeyValue("Opening:", money(session.OpeningAmount)).
		KeyValue("Expected:", money(session.ExpectedAmount))
	if session.ClosingAmount != nil {
		doc.KeyValue("Counted:", money(*session.ClosingAmount))
	}
	if session.Difference != nil {
		doc.SetBold(true).
			KeyValue("Difference:", money(*session.Difference)).
			SetBold(false)
	}

	doc.FeedLines(3).
		Cut()
	return doc.Bytes()
}

// EncodeTestPage prints the store header and a sample line at the configured width.
func EncodeTestPage(store *entity.StoreSettings) []byte {
	width := printer.DefaultWidth
	if store != nil && store.PaperWidth > 0 {
		width = store.PaperWidth
	}
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text("PRINTER TEST").
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if store != nil && store.StoreName != "" {
		doc.Text(store.StoreName)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		Text("Test Item").
		ItemLine("TEST-001", 2, money(decimal.NewFromInt(5)), money(decimal.NewFromInt(10))).
		Separator('-').
		KeyValue("Width:", fmt.Sprintf("%d", width)).
		FeedLines(3).
		Cut()
	return doc.Bytes()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
