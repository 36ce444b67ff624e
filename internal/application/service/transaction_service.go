package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/sangkips/repairpos/pkg/pagination"
	"github.com/sangkips/repairpos/pkg/utils"
	"github.com/shopspring/decimal"
)

var log = logging.MustGetLogger("service")

// Routing keys of the events published by the services.
const (
	EventTransactionCompleted = "transaction.completed"
	EventTransactionVoided    = "transaction.voided"
	EventTransactionRefunded  = "transaction.refunded"
	EventDrawerClosed         = "drawer.closed"
)

// EventPublisher delivers domain events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// StoreInfoProvider resolves the receipt header of a location.
type StoreInfoProvider interface {
	StoreInfo(ctx context.Context, locationID string) (*entity.StoreSettings, error)
}

// CashRecorder finds a register's open drawer session and moves its expected amount.
type CashRecorder interface {
	Current(ctx context.Context, registerID string) (*entity.CashDrawerSession, error)
	RecordCash(ctx context.Context, sessionID uuid.UUID, delta decimal.Decimal) (bool, error)
}

// TransactionService runs the sale lifecycle: commit, void and refund.
type TransactionService struct {
	txRepo        repository.TransactionRepository
	inventoryRepo repository.InventoryRepository
	customerRepo  repository.CustomerRepository
	drawer        CashRecorder
	store         StoreInfoProvider
	events        EventPublisher
}

// NewTransactionService creates a new transaction service. drawer, store and
// events may be nil.
func NewTransactionService(
	txRepo repository.TransactionRepository,
	inventoryRepo repository.InventoryRepository,
	customerRepo repository.CustomerRepository,
	drawer CashRecorder,
	store StoreInfoProvider,
	events EventPublisher,
) *TransactionService {
	return &TransactionService{
		txRepo:        txRepo,
		inventoryRepo: inventoryRepo,
		customerRepo:  customerRepo,
		drawer:        drawer,
		store:         store,
		events:        events,
	}
}

// CommitItemInput is one requested line. UnitPrice defaults to the inventory price.
type CommitItemInput struct {
	InventoryItemID uuid.UUID        `json:"inventory_item_id"`
	Quantity        int              `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
}

// CommitInput is a sale to commit. It is also the payload stored in the offline queue.
type CommitInput struct {
	ClientReference string             `json:"client_reference,omitempty"`
	EmployeeID      uuid.UUID          `json:"employee_id"`
	CashierName     string             `json:"cashier_name,omitempty"`
	CustomerID      *uuid.UUID         `json:"customer_id,omitempty"`
	Items           []CommitItemInput  `json:"items"`
	Discount        decimal.Decimal    `json:"discount"`
	Tax             decimal.Decimal    `json:"tax"`
	PaymentMethod   enum.PaymentMethod `json:"payment_method"`
	CashReceived    *decimal.Decimal   `json:"cash_received,omitempty"`
	LocationID      string             `json:"location_id,omitempty"`
	RegisterID      string             `json:"register_id,omitempty"`
	ShiftID         string             `json:"shift_id,omitempty"`
	// CapturedAt is when the sale happened at the register. Offline sales keep it on replay.
	CapturedAt *time.Time `json:"captured_at,omitempty"`
}

// CommitResult is a committed sale and its receipt.
type CommitResult struct {
	Transaction  *entity.Transaction `json:"transaction"`
	Receipt      *entity.Receipt     `json:"receipt"`
	PointsEarned int64               `json:"points_earned"`
	// Duplicate is set when the client reference was already committed and nothing was applied.
	Duplicate bool `json:"duplicate"`
}

// TransactionEvent is the body of the sale events.
type TransactionEvent struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	ReceiptNo     string          `json:"receipt_no"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	LocationID    *string         `json:"location_id,omitempty"`
	RegisterID    *string         `json:"register_id,omitempty"`
	PointsEarned  int64           `json:"points_earned,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// CalculatePoints returns the loyalty points earned on total: one base point per
// full 10 currency units, multiplied by the tier multiplier and floored again.
func CalculatePoints(total decimal.Decimal, tier enum.LoyaltyTier) int64 {
	if !total.IsPositive() {
		return 0
	}
	base := total.Div(decimal.NewFromInt(10)).Floor()
	return base.Mul(tier.Multiplier()).Floor().IntPart()
}

func validateCommit(input *CommitInput) []apperror.FieldError {
	var errs []apperror.FieldError

	if input.EmployeeID == uuid.Nil {
		errs = append(errs, apperror.FieldError{Field: "employee_id", Message: "Employee is required"})
	}
	if len(input.Items) == 0 {
		errs = append(errs, apperror.FieldError{Field: "items", Message: "At least one item is required"})
	}
	for i, item := range input.Items {
		if item.InventoryItemID == uuid.Nil {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].inventory_item_id", i), Message: "Inventory item is required"})
		}
		if item.Quantity <= 0 {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "Quantity must be greater than zero"})
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].unit_price", i), Message: "Unit price cannot be negative"})
		}
	}
	if input.Discount.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "discount", Message: "Discount cannot be negative"})
	}
	if input.Tax.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "tax", Message: "Tax cannot be negative"})
	}
	if !input.PaymentMethod.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "payment_method", Message: "Payment method must be cash, card or digital"})
	}
	if input.CashReceived != nil && input.CashReceived.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "cash_received", Message: "Cash received cannot be negative"})
	}
	return errs
}

// undoAction reverses one applied commit step.
type undoAction struct {
	name string
	fn   func(ctx context.Context) error
}

// saga records undo actions as commit steps succeed and replays them in reverse on failure.
type saga struct {
	undo []undoAction
}

func (s *saga) push(name string, fn func(ctx context.Context) error) {
	s.undo = append(s.undo, undoAction{name: name, fn: fn})
}

// fail compensates every recorded step and returns the tagged error.
func (s *saga) fail(ctx context.Context, step apperror.CommitStep, err error) error {
	txErr := apperror.NewTransactionError(step, err)

	// Compensation must finish even if the caller has gone away.
	ctx = context.WithoutCancel(ctx)
	for i := len(s.undo) - 1; i >= 0; i-- {
		action := s.undo[i]
		if uerr := action.fn(ctx); uerr != nil {
			log.Errorf("compensation %q failed after %s step error: %v", action.name, step, uerr)
			txErr.CompensationErrs = append(txErr.CompensationErrs, fmt.Errorf("%s: %w", action.name, uerr))
		}
	}
	return txErr
}

// Commit validates and applies a sale. Steps run in order header, items,
// inventory, loyalty, drawer; a failing step compensates the steps before it.
func (s *TransactionService) Commit(ctx context.Context, input *CommitInput) (*CommitResult, error) {
	if errs := validateCommit(input); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if input.ClientReference != "" {
		existing, err := s.txRepo.GetByClientReference(ctx, input.ClientReference)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Infof("client reference %s already committed as %s", input.ClientReference, existing.ReceiptNo)
			return s.duplicateResult(ctx, existing)
		}
	}

	var customer *entity.Customer
	if input.CustomerID != nil {
		c, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		customer = c
	}

	tx, items, err := s.price(ctx, input)
	if err != nil {
		return nil, err
	}

	var sg saga

	if s.drawer != nil && tx.IsCash() && input.RegisterID != "" {
		session, err := s.drawer.Current(ctx, input.RegisterID)
		switch {
		case err == nil:
			tx.DrawerSessionID = &session.ID
		case apperror.IsNotFound(err):
			log.Warningf("cash sale %s on register %s has no open drawer session", tx.ReceiptNo, input.RegisterID)
		default:
			return nil, sg.fail(ctx, apperror.StepDrawer, err)
		}
	}

	// header
	if err := s.txRepo.Create(ctx, tx); err != nil {
		if input.ClientReference != "" {
			// A concurrent replay of the same sale may have won the insert.
			if existing, lookupErr := s.txRepo.GetByClientReference(ctx, input.ClientReference); lookupErr == nil && existing != nil {
				return s.duplicateResult(ctx, existing)
			}
		}
		return nil, sg.fail(ctx, apperror.StepHeader, err)
	}
	txID := tx.ID
	sg.push("delete transaction", func(ctx context.Context) error {
		return s.txRepo.Delete(ctx, txID)
	})

	// items
	if err := s.txRepo.CreateItems(ctx, txID, items); err != nil {
		return nil, sg.fail(ctx, apperror.StepItems, err)
	}
	tx.Items = items

	// inventory
	for _, item := range items {
		itemID, want := item.InventoryItemID, item.Quantity
		newQty, applied, err := s.inventoryRepo.AdjustStock(ctx, itemID, -want)
		if err != nil {
			return nil, sg.fail(ctx, apperror.StepInventory, fmt.Errorf("decrement %s: %w", item.SKU, err))
		}
		if -applied != want {
			log.Warningf("stock for %s clamped at zero: sold %d, only %d taken", item.SKU, want, -applied)
		}
		if newQty == 0 {
			log.Infof("%s is out of stock", item.SKU)
		}
		if applied != 0 {
			sku := item.SKU
			sg.push("restore stock "+sku, func(ctx context.Context) error {
				_, _, err := s.inventoryRepo.AdjustStock(ctx, itemID, -applied)
				return err
			})
		}
	}

	// loyalty
	var points int64
	if customer != nil {
		points = CalculatePoints(tx.TotalAmount, customer.LoyaltyTier)
		if points > 0 {
			customerID := customer.ID
			balance, err := s.customerRepo.AdjustPoints(ctx, customerID, points)
			if err != nil {
				return nil, sg.fail(ctx, apperror.StepLoyalty, err)
			}
			sg.push("reverse loyalty credit", func(ctx context.Context) error {
				_, err := s.customerRepo.AdjustPoints(ctx, customerID, -points)
				return err
			})
			customer.LoyaltyPoints = balance
		}
	}

	// drawer
	if tx.DrawerSessionID != nil {
		sessionID, amount := *tx.DrawerSessionID, tx.TotalAmount
		recorded, err := s.drawer.RecordCash(ctx, sessionID, amount)
		if err != nil {
			return nil, sg.fail(ctx, apperror.StepDrawer, err)
		}
		if recorded {
			sg.push("reverse drawer cash", func(ctx context.Context) error {
				_, err := s.drawer.RecordCash(ctx, sessionID, amount.Neg())
				return err
			})
		} else {
			log.Warningf("drawer session %s closed before cash sale %s was counted", sessionID, tx.ReceiptNo)
		}
	}

	tx.Customer = customer
	log.Infof("committed %s: total %s via %s", tx.ReceiptNo, tx.TotalAmount.StringFixed(2), tx.PaymentMethod)

	s.publish(ctx, EventTransactionCompleted, tx, tx.TotalAmount, points)

	return &CommitResult{
		Transaction:  tx,
		Receipt:      s.buildReceipt(ctx, tx, points),
		PointsEarned: points,
	}, nil
}

// price resolves every line against the inventory and computes the totals.
func (s *TransactionService) price(ctx context.Context, input *CommitInput) (*entity.Transaction, []entity.TransactionItem, error) {
	ids := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		ids[i] = item.InventoryItemID
	}

	records, err := s.inventoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	recordMap := make(map[uuid.UUID]*entity.InventoryItem, len(records))
	for i := range records {
		recordMap[records[i].ID] = &records[i]
	}

	subtotal := decimal.Zero
	items := make([]entity.TransactionItem, 0, len(input.Items))
	for _, line := range input.Items {
		record, ok := recordMap[line.InventoryItemID]
		if !ok {
			return nil, nil, apperror.NewNotFoundError("Inventory item")
		}

		unit := record.UnitPrice
		if line.UnitPrice != nil {
			unit = *line.UnitPrice
		}
		unit = unit.Round(2)
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)

		items = append(items, entity.TransactionItem{
			InventoryItemID: record.ID,
			Name:            record.Name,
			SKU:             record.SKU,
			Quantity:        line.Quantity,
			UnitPrice:       unit,
			TotalPrice:      lineTotal,
			Category:        record.Category,
		})
	}

	discount := input.Discount.Round(2)
	tax := input.Tax.Round(2)
	if discount.GreaterThan(subtotal) {
		return nil, nil, apperror.NewFieldError("discount", "Discount cannot exceed the subtotal")
	}
	total := subtotal.Sub(discount).Add(tax)

	tx := &entity.Transaction{
		ReceiptNo:      utils.GenerateReceiptNo(),
		EmployeeID:     input.EmployeeID,
		CustomerID:     input.CustomerID,
		CashierName:    input.CashierName,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		TotalAmount:    total,
		PaymentMethod:  input.PaymentMethod,
		Status:         enum.TransactionStatusCompleted,
		LocationID:     optional(input.LocationID),
		RegisterID:     optional(input.RegisterID),
		ShiftID:        optional(input.ShiftID),
	}
	if input.ClientReference != "" {
		ref := input.ClientReference
		tx.ClientReference = &ref
	}
	if input.CapturedAt != nil {
		tx.CreatedAt = input.CapturedAt.UTC()
	}

	if tx.IsCash() {
		if input.CashReceived == nil {
			return nil, nil, apperror.NewFieldError("cash_received", "Cash received is required for cash payments")
		}
		received := input.CashReceived.Round(2)
		if received.LessThan(total) {
			return nil, nil, apperror.NewFieldError("cash_received", fmt.Sprintf("Cash received %s is less than the total %s", received.StringFixed(2), total.StringFixed(2)))
		}
		change := received.Sub(total)
		tx.CashReceived = &received
		tx.ChangeAmount = &change
	}

	return tx, items, nil
}

func (s *TransactionService) duplicateResult(ctx context.Context, tx *entity.Transaction) (*CommitResult, error) {
	var points int64
	if tx.Customer != nil {
		points = CalculatePoints(tx.TotalAmount, tx.Customer.LoyaltyTier)
	}
	return &CommitResult{
		Transaction:  tx,
		Receipt:      s.buildReceipt(ctx, tx, points),
		PointsEarned: points,
		Duplicate:    true,
	}, nil
}

// GetTransaction retrieves a transaction with its items
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	tx, err := s.txRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return tx, nil
}

// ListTransactions lists transactions with filtering
func (s *TransactionService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	params.Pagination = pagination.Normalize(params.Pagination)

	transactions, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPage(transactions, params.Pagination, total), nil
}

// Receipt rebuilds the receipt of a stored transaction for reprinting.
func (s *TransactionService) Receipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	tx, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	var points int64
	if tx.Customer != nil {
		points = CalculatePoints(tx.TotalAmount, tx.Customer.LoyaltyTier)
	}
	return s.buildReceipt(ctx, tx, points), nil
}

// Void reverses a completed sale and restores its stock. A sale can be voided
// or refunded once; later calls get a Conflict error and change nothing.
func (s *TransactionService) Void(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	tx, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, tx, enum.TransactionStatusVoided); err != nil {
		return nil, err
	}

	restock := make(map[uuid.UUID]int, len(tx.Items))
	for _, item := range tx.Items {
		restock[item.InventoryItemID] += item.Quantity
	}
	s.restoreStock(ctx, tx, restock)
	s.returnCash(ctx, tx, tx.TotalAmount)

	log.Infof("voided %s", tx.ReceiptNo)
	s.publish(ctx, EventTransactionVoided, tx, tx.TotalAmount, 0)
	return tx, nil
}

// RefundItemInput selects a quantity of one item to refund.
type RefundItemInput struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	Quantity        int       `json:"quantity"`
}

// RefundResult is a refunded sale and the amount returned to the customer.
type RefundResult struct {
	Transaction *entity.Transaction `json:"transaction"`
	Amount      decimal.Decimal     `json:"amount"`
}

// Refund marks a completed sale refunded and restocks the selected items, or
// all items when none are given.
func (s *TransactionService) Refund(ctx context.Context, id uuid.UUID, items []RefundItemInput) (*RefundResult, error) {
	tx, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	sold := make(map[uuid.UUID]int, len(tx.Items))
	for _, item := range tx.Items {
		sold[item.InventoryItemID] += item.Quantity
	}

	restock := make(map[uuid.UUID]int)
	amount := tx.TotalAmount
	if len(items) > 0 {
		var errs []apperror.FieldError
		for i, item := range items {
			restock[item.InventoryItemID] += item.Quantity
			qty, ok := sold[item.InventoryItemID]
			switch {
			case !ok:
				errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].inventory_item_id", i), Message: "Item is not part of this transaction"})
			case item.Quantity <= 0:
				errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "Quantity must be greater than zero"})
			case restock[item.InventoryItemID] > qty:
				errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: fmt.Sprintf("Cannot refund more than the %d sold", qty)})
			}
		}
		if len(errs) > 0 {
			return nil, apperror.NewValidationError(errs)
		}

		if !sameQuantities(restock, sold) {
			amount = refundAmount(tx.Items, restock)
		}
	} else {
		restock = sold
	}

	if err := s.transition(ctx, tx, enum.TransactionStatusRefunded); err != nil {
		return nil, err
	}

	s.restoreStock(ctx, tx, restock)
	s.returnCash(ctx, tx, amount)

	log.Infof("refunded %s: %s returned", tx.ReceiptNo, amount.StringFixed(2))
	s.publish(ctx, EventTransactionRefunded, tx, amount, 0)
	return &RefundResult{Transaction: tx, Amount: amount}, nil
}

func (s *TransactionService) transition(ctx context.Context, tx *entity.Transaction, to enum.TransactionStatus) error {
	moved, err := s.txRepo.TransitionStatus(ctx, tx.ID, enum.TransactionStatusCompleted, to)
	if err != nil {
		return err
	}
	if !moved {
		current := tx.Status
		if latest, err := s.txRepo.GetByID(ctx, tx.ID); err == nil && latest != nil {
			current = latest.Status
		}
		return apperror.NewConflictError(fmt.Sprintf("Transaction %s cannot be %s: it is %s", tx.ReceiptNo, to, current))
	}
	tx.Status = to
	return nil
}

// restoreStock is best effort per item so one dangling reference cannot block a reversal.
func (s *TransactionService) restoreStock(ctx context.Context, tx *entity.Transaction, restock map[uuid.UUID]int) {
	for itemID, qty := range restock {
		if qty <= 0 {
			continue
		}
		if _, _, err := s.inventoryRepo.AdjustStock(ctx, itemID, qty); err != nil {
			if apperror.IsNotFound(err) {
				log.Warningf("skipping restock of missing item %s for %s", itemID, tx.ReceiptNo)
				continue
			}
			log.Errorf("failed to restock %d of item %s for %s: %v", qty, itemID, tx.ReceiptNo, err)
		}
	}
}

// returnCash only moves the session the sale was counted in. Once that
// session is closed its count is final and later shifts are left alone.
func (s *TransactionService) returnCash(ctx context.Context, tx *entity.Transaction, amount decimal.Decimal) {
	if s.drawer == nil || !tx.IsCash() || tx.DrawerSessionID == nil || amount.IsZero() {
		return
	}
	sessionID := *tx.DrawerSessionID
	recorded, err := s.drawer.RecordCash(ctx, sessionID, amount.Neg())
	if err != nil {
		log.Errorf("failed to take %s out of drawer session %s for %s: %v", amount.StringFixed(2), sessionID, tx.ReceiptNo, err)
		return
	}
	if !recorded {
		log.Warningf("drawer session %s of %s is closed; %s returned outside the drawer count", sessionID, tx.ReceiptNo, amount.StringFixed(2))
	}
}

func (s *TransactionService) buildReceipt(ctx context.Context, tx *entity.Transaction, points int64) *entity.Receipt {
	var store *entity.StoreSettings
	if s.store != nil {
		location := ""
		if tx.LocationID != nil {
			location = *tx.LocationID
		}
		info, err := s.store.StoreInfo(ctx, location)
		if err != nil {
			log.Warningf("using blank receipt header for %s: %v", tx.ReceiptNo, err)
		} else {
			store = info
		}
	}
	return BuildReceipt(ReceiptData{
		Transaction:  tx,
		Store:        store,
		Customer:     tx.Customer,
		PointsEarned: points,
	})
}

func (s *TransactionService) publish(ctx context.Context, routingKey string, tx *entity.Transaction, amount decimal.Decimal, points int64) {
	if s.events == nil {
		return
	}
	event := TransactionEvent{
		TransactionID: tx.ID,
		ReceiptNo:     tx.ReceiptNo,
		Status:        tx.Status.String(),
		Total:         tx.TotalAmount,
		Amount:        amount,
		PaymentMethod: tx.PaymentMethod.String(),
		EmployeeID:    tx.EmployeeID,
		CustomerID:    tx.CustomerID,
		LocationID:    tx.LocationID,
		RegisterID:    tx.RegisterID,
		PointsEarned:  points,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, routingKey, event); err != nil {
		log.Warningf("failed to publish %s for %s: %v", routingKey, tx.ReceiptNo, err)
	}
}

// refundAmount prices the refunded quantities line by line, in sale order, so
// a product sold on several lines at different prices is taken from the first
// lines first.
func refundAmount(lines []entity.TransactionItem, restock map[uuid.UUID]int) decimal.Decimal {
	remaining := make(map[uuid.UUID]int, len(restock))
	for itemID, qty := range restock {
		remaining[itemID] = qty
	}
	amount := decimal.Zero
	for _, item := range lines {
		take := remaining[item.InventoryItemID]
		if take <= 0 {
			continue
		}
		if take > item.Quantity {
			take = item.Quantity
		}
		remaining[item.InventoryItemID] -= take
		amount = amount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(take))))
	}
	return amount
}

func sameQuantities(a, b map[uuid.UUID]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
