package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/sangkips/repairpos/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screenSale() *entity.Transaction {
	cash := dec("100.00")
	change := dec("2.14")
	return &entity.Transaction{
		ReceiptNo:     "RCP-AB12CD34",
		CashierName:   "Sam",
		Subtotal:      dec("89.99"),
		TaxAmount:     dec("7.87"),
		TotalAmount:   dec("97.86"),
		PaymentMethod: enum.PaymentMethodCash,
		CashReceived:  &cash,
		ChangeAmount:  &change,
		Status:        enum.TransactionStatusCompleted,
		CreatedAt:     time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Items: []entity.TransactionItem{{
			Name:       "iPhone 14 Screen",
			SKU:        "SCRN-IP14",
			Quantity:   1,
			UnitPrice:  dec("89.99"),
			TotalPrice: dec("89.99"),
		}},
	}
}

func shopSettings() *entity.StoreSettings {
	return &entity.StoreSettings{
		StoreName:     "Fix-It Phones",
		Address:       "12 Main St",
		Phone:         "555-0100",
		TaxID:         "TX-99",
		FooterMessage: "Thank you!",
		PaperWidth:    32,
	}
}

func hasLine(out []byte, line string) bool {
	return bytes.Contains(out, []byte(line+"\n"))
}

func TestBuildReceipt(t *testing.T) {
	store := shopSettings()
	store.DigitalReceiptURL = "https://r.example.com/"
	store.PaperWidth = 0

	r := BuildReceipt(ReceiptData{Transaction: screenSale(), Store: store, PointsEarned: 9})

	assert.Equal(t, "Fix-It Phones", r.Header.StoreName)
	assert.Equal(t, "Sam", r.Cashier)
	assert.Equal(t, printer.DefaultWidth, r.Width)
	assert.Equal(t, "https://r.example.com/RCP-AB12CD34", r.DigitalReceiptURL)
	require.Len(t, r.Items, 1)
	assert.Equal(t, "SCRN-IP14", r.Items[0].SKU)
	require.NotNil(t, r.Change)
	assert.Equal(t, "2.14", r.Change.StringFixed(2))

	card := screenSale()
	card.PaymentMethod = enum.PaymentMethodCard
	r = BuildReceipt(ReceiptData{Transaction: card})
	assert.Nil(t, r.CashReceived)
	assert.Nil(t, r.Change)
	assert.Empty(t, r.DigitalReceiptURL)
}

func TestEncodeReceiptLayout(t *testing.T) {
	r := BuildReceipt(ReceiptData{Transaction: screenSale(), Store: shopSettings(), PointsEarned: 9})
	out := EncodeReceipt(r)

	assert.True(t, bytes.HasPrefix(out, []byte{printer.ESC, '@'}))
	assert.True(t, bytes.HasSuffix(out, []byte{printer.LF, printer.LF, printer.LF, printer.GS, 'V', 0}))

	header := []byte{printer.ESC, 'a', printer.AlignCenter, printer.ESC, 'E', 1, printer.GS, '!', printer.FontDouble}
	assert.True(t, bytes.Contains(out, append(header, []byte("Fix-It Phones\n")...)))

	assert.True(t, hasLine(out, "Tax ID: TX-99"))
	assert.True(t, hasLine(out, printer.PadLine("Receipt:", "RCP-AB12CD34", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Date:", "2024-03-01 10:30", 32)))
	assert.True(t, hasLine(out, "iPhone 14 Screen"))
	assert.True(t, hasLine(out, printer.PadLine("SCRN-IP14", "1 x 89.99 = 89.99", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Tax:", "7.87", 32)))
	assert.True(t, hasLine(out, printer.PadLine("TOTAL:", "97.86", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Payment:", "CASH", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Change:", "2.14", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Points earned:", "9", 32)))
	assert.True(t, hasLine(out, "Thank you!"))
	assert.False(t, bytes.Contains(out, []byte("Discount:")))
	assert.False(t, bytes.Contains(out, []byte{printer.GS, '(', 'k'}), "no QR without a receipt URL")

	assert.Equal(t, out, EncodeReceipt(r), "encoding is deterministic")
}

func TestEncodeReceiptCashOnlyChangesCashLines(t *testing.T) {
	base := BuildReceipt(ReceiptData{Transaction: screenSale(), Store: shopSettings()})

	tx := screenSale()
	cash := dec("120.00")
	change := dec("22.14")
	tx.CashReceived = &cash
	tx.ChangeAmount = &change
	other := BuildReceipt(ReceiptData{Transaction: tx, Store: shopSettings()})

	a := strings.Split(string(EncodeReceipt(base)), "\n")
	b := strings.Split(string(EncodeReceipt(other)), "\n")
	require.Equal(t, len(a), len(b))

	var changed []string
	for i := range a {
		if a[i] != b[i] {
			changed = append(changed, strings.SplitN(b[i], ":", 2)[0])
		}
	}
	assert.Equal(t, []string{"Cash", "Change"}, changed)
}

func TestEncodeReceiptOptionalBlocks(t *testing.T) {
	tx := screenSale()
	tx.PaymentMethod = enum.PaymentMethodCard
	tx.DiscountAmount = dec("5.00")
	tx.Status = enum.TransactionStatusVoided

	store := shopSettings()
	store.DigitalReceiptURL = "https://r.example.com"
	store.PromoMessage = "10% off cases"

	r := BuildReceipt(ReceiptData{
		Transaction: tx,
		Store:       store,
		Customer:    &entity.Customer{Name: "Dana", LoyaltyTier: enum.LoyaltyTierGold},
	})
	out := EncodeReceipt(r)

	assert.True(t, hasLine(out, printer.PadLine("Customer:", "Dana", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Tier:", "GOLD", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Discount:", "-5.00", 32)))
	assert.True(t, bytes.Contains(out, []byte("*** VOIDED ***\n")))
	assert.True(t, hasLine(out, "10% off cases"))
	assert.False(t, bytes.Contains(out, []byte("Cash:")))
	assert.False(t, bytes.Contains(out, []byte("Points earned:")))

	url := "https://r.example.com/RCP-AB12CD34"
	n := len(url) + 3
	store180 := append([]byte{printer.GS, '(', 'k', byte(n % 256), byte(n / 256), 49, 80, 48}, url...)
	assert.True(t, bytes.Contains(out, store180))
	assert.True(t, bytes.Contains(out, []byte{printer.GS, '(', 'k', 3, 0, 49, 67, 6}), "module size 6")
	assert.True(t, bytes.Contains(out, []byte{printer.GS, '(', 'k', 3, 0, 49, 81, 48}), "print symbol")
}

func TestEncodeDrawerReport(t *testing.T) {
	closing := dec("142.86")
	diff := dec("-5.00")
	closedAt := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	session := &entity.CashDrawerSession{
		RegisterID:     "reg-1",
		OpeningAmount:  dec("50.00"),
		ExpectedAmount: dec("147.86"),
		ClosingAmount:  &closing,
		Difference:     &diff,
		OpenedAt:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		ClosedAt:       &closedAt,
	}

	out := EncodeDrawerReport(session, shopSettings())
	assert.True(t, hasLine(out, "DRAWER REPORT"))
	assert.True(t, hasLine(out, printer.PadLine("Register:", "reg-1", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Closed:", "2024-03-01 18:00", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Expected:", "147.86", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Counted:", "142.86", 32)))
	assert.True(t, hasLine(out, printer.PadLine("Difference:", "-5.00", 32)))
}

func TestEncodeTestPageUsesPaperWidth(t *testing.T) {
	store := shopSettings()
	store.PaperWidth = 48

	out := EncodeTestPage(store)
	assert.True(t, hasLine(out, "PRINTER TEST"))
	assert.True(t, hasLine(out, printer.PadLine("Width:", "48", 48)))
	assert.True(t, hasLine(out, strings.Repeat("-", 48)))

	assert.True(t, hasLine(EncodeTestPage(nil), printer.PadLine("Width:", "32", 32)))
}
