package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/sangkips/repairpos/pkg/pagination"
	"github.com/shopspring/decimal"
)

var errInjected = errors.New("injected failure")

// --- transactions ---

type fakeTxRepo struct {
	mu          sync.Mutex
	txs         map[uuid.UUID]*entity.Transaction
	items       map[uuid.UUID][]entity.TransactionItem
	customers   *fakeCustomerRepo
	failCreate  error
	failItems   error
	deleteCalls int
}

func newFakeTxRepo(customers *fakeCustomerRepo) *fakeTxRepo {
	return &fakeTxRepo{
		txs:       make(map[uuid.UUID]*entity.Transaction),
		items:     make(map[uuid.UUID][]entity.TransactionItem),
		customers: customers,
	}
}

func (r *fakeTxRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if tx.ClientReference != nil {
		for _, existing := range r.txs {
			if existing.ClientReference != nil && *existing.ClientReference == *tx.ClientReference {
				return errors.New("UNIQUE constraint failed: transactions.client_reference")
			}
		}
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	}
	stored := *tx
	stored.Items = nil
	stored.Customer = nil
	r.txs[tx.ID] = &stored
	return nil
}

func (r *fakeTxRepo) CreateItems(ctx context.Context, transactionID uuid.UUID, items []entity.TransactionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failItems != nil {
		return r.failItems
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].TransactionID = transactionID
		items[i].Position = i
	}
	r.items[transactionID] = append([]entity.TransactionItem(nil), items...)
	return nil
}

func (r *fakeTxRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	delete(r.txs, id)
	delete(r.items, id)
	return nil
}

func (r *fakeTxRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeTxRepo) load(tx *entity.Transaction) *entity.Transaction {
	cp := *tx
	cp.Items = append([]entity.TransactionItem(nil), r.items[tx.ID]...)
	if cp.CustomerID != nil && r.customers != nil {
		if c, _ := r.customers.GetByID(context.Background(), *cp.CustomerID); c != nil {
			cp.Customer = c
		}
	}
	return &cp
}

func (r *fakeTxRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, nil
	}
	return r.load(tx), nil
}

func (r *fakeTxRepo) GetByClientReference(ctx context.Context, ref string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.ClientReference != nil && *tx.ClientReference == ref {
			return r.load(tx), nil
		}
	}
	return nil, nil
}

func (r *fakeTxRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enum.TransactionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok || tx.Status != from {
		return false, nil
	}
	tx.Status = to
	return true, nil
}

func (r *fakeTxRepo) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Transaction
	for _, tx := range r.txs {
		if params.Status != "" && tx.Status != params.Status {
			continue
		}
		out = append(out, *tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceiptNo < out[j].ReceiptNo })
	return out, int64(len(out)), nil
}

func (r *fakeTxRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.txs)
}

// --- inventory ---

type fakeInventoryRepo struct {
	mu            sync.Mutex
	items         map[uuid.UUID]*entity.InventoryItem
	failDecrement map[uuid.UUID]error
	failRestore   error
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		items:         make(map[uuid.UUID]*entity.InventoryItem),
		failDecrement: make(map[uuid.UUID]error),
	}
}

func (r *fakeInventoryRepo) add(sku string, price string, qty int) *entity.InventoryItem {
	item := &entity.InventoryItem{
		ID:              uuid.New(),
		SKU:             sku,
		Name:            "Item " + sku,
		Category:        enum.ItemCategoryRepair,
		UnitPrice:       decimal.RequireFromString(price),
		QuantityInStock: qty,
		MinStockLevel:   1,
	}
	r.mu.Lock()
	r.items[item.ID] = item
	r.mu.Unlock()
	return item
}

func (r *fakeInventoryRepo) qty(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].QuantityInStock
}

func (r *fakeInventoryRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeInventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *fakeInventoryRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.InventoryItem
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.SKU == sku {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInventoryRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.InventoryItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.InventoryItem
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInventoryRepo) GetLowStock(ctx context.Context) ([]entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.InventoryItem
	for _, item := range r.items {
		if item.IsLowStock() {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if delta < 0 {
		if err := r.failDecrement[id]; err != nil {
			return 0, 0, err
		}
	} else if r.failRestore != nil {
		return 0, 0, r.failRestore
	}
	item, ok := r.items[id]
	if !ok {
		return 0, 0, apperror.NewNotFoundError("Inventory item")
	}
	newQty := item.QuantityInStock + delta
	if newQty < 0 {
		newQty = 0
	}
	applied := newQty - item.QuantityInStock
	item.QuantityInStock = newQty
	return newQty, applied, nil
}

// --- customers ---

type fakeCustomerRepo struct {
	mu         sync.Mutex
	customers  map[uuid.UUID]*entity.Customer
	failAdjust error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) add(name string, tier enum.LoyaltyTier) *entity.Customer {
	c := &entity.Customer{ID: uuid.New(), Name: name, LoyaltyTier: tier}
	r.mu.Lock()
	r.customers[c.ID] = c
	r.mu.Unlock()
	return c
}

func (r *fakeCustomerRepo) points(id uuid.UUID) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customers[id].LoyaltyPoints
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Customer
	for _, c := range r.customers {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) AdjustPoints(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdjust != nil {
		return 0, r.failAdjust
	}
	c, ok := r.customers[id]
	if !ok {
		return 0, apperror.NewNotFoundError("Customer")
	}
	c.LoyaltyPoints += delta
	return c.LoyaltyPoints, nil
}

// --- cash drawer ---

type fakeDrawerRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.CashDrawerSession
	failAdd  error
}

func newFakeDrawerRepo() *fakeDrawerRepo {
	return &fakeDrawerRepo{sessions: make(map[uuid.UUID]*entity.CashDrawerSession)}
}

func (r *fakeDrawerRepo) Create(ctx context.Context, session *entity.CashDrawerSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.RegisterID == session.RegisterID && s.IsOpen() {
			return apperror.NewConflictError("already open")
		}
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	register := session.RegisterID
	session.OpenRegister = &register
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeDrawerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashDrawerSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeDrawerRepo) GetOpenByRegister(ctx context.Context, registerID string) (*entity.CashDrawerSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.RegisterID == registerID && s.IsOpen() {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDrawerRepo) AddExpected(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd != nil {
		return false, r.failAdd
	}
	s, ok := r.sessions[id]
	if !ok || !s.IsOpen() {
		return false, nil
	}
	s.ExpectedAmount = s.ExpectedAmount.Add(delta)
	return true, nil
}

func (r *fakeDrawerRepo) Close(ctx context.Context, id uuid.UUID, closing decimal.Decimal, closedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || !s.IsOpen() {
		return false, nil
	}
	diff := closing.Sub(s.ExpectedAmount)
	s.Status = enum.DrawerStatusClosed
	s.ClosingAmount = &closing
	s.Difference = &diff
	s.ClosedAt = &closedAt
	s.OpenRegister = nil
	return true, nil
}

// --- settings ---

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]*entity.StoreSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]*entity.StoreSettings)}
}

func (r *fakeSettingsRepo) GetByLocation(ctx context.Context, locationID string) (*entity.StoreSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[locationID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettingsRepo) Create(ctx context.Context, settings *entity.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if settings.ID == uuid.Nil {
		settings.ID = uuid.New()
	}
	cp := *settings
	r.settings[settings.LocationID] = &cp
	return nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, settings *entity.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *settings
	r.settings[settings.LocationID] = &cp
	return nil
}

// --- offline queue ---

type fakeQueue struct {
	mu         sync.Mutex
	entries    []entity.OfflineEntry
	seq        int64
	failRemove int
}

func (q *fakeQueue) Enqueue(ctx context.Context, entry *entity.OfflineEntry) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		if e.LocalID == entry.LocalID {
			return apperror.NewStorageError("enqueue", errors.New("duplicate local id"))
		}
	}
	q.seq++
	entry.Seq = q.seq
	q.entries = append(q.entries, *entry)
	return nil
}

func (q *fakeQueue) List(ctx context.Context) ([]entity.OfflineEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]entity.OfflineEntry(nil), q.entries...), nil
}

func (q *fakeQueue) Count(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries), nil
}

func (q *fakeQueue) update(localID string, fn func(e *entity.OfflineEntry)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.entries {
		if q.entries[i].LocalID == localID {
			fn(&q.entries[i])
			return nil
		}
	}
	return apperror.NewNotFoundError("Offline entry")
}

func (q *fakeQueue) MarkSyncing(ctx context.Context, localID string) error {
	return q.update(localID, func(e *entity.OfflineEntry) { e.Status = entity.OfflineEntrySyncing })
}

func (q *fakeQueue) MarkFailed(ctx context.Context, localID string, reason string) error {
	return q.update(localID, func(e *entity.OfflineEntry) {
		e.Status = entity.OfflineEntrySyncFailed
		e.Attempts++
		e.LastError = reason
	})
}

func (q *fakeQueue) MarkRejected(ctx context.Context, localID string, reason string) error {
	return q.update(localID, func(e *entity.OfflineEntry) {
		e.Status = entity.OfflineEntryRejected
		e.Attempts++
		e.LastError = reason
	})
}

func (q *fakeQueue) Remove(ctx context.Context, localID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failRemove > 0 {
		q.failRemove--
		return apperror.NewStorageError("remove", errInjected)
	}
	for i := range q.entries {
		if q.entries[i].LocalID == localID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFoundError("Offline entry")
}

// --- events, connectivity, printing ---

type publishedEvent struct {
	key   string
	event interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: routingKey, event: event})
	return nil
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var keys []string
	for _, e := range p.events {
		keys = append(keys, e.key)
	}
	return keys
}

type fakeConnectivity struct {
	mu     sync.Mutex
	online bool
}

func (c *fakeConnectivity) IsOnline(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *fakeConnectivity) set(online bool) {
	c.mu.Lock()
	c.online = online
	c.mu.Unlock()
}

type fakeReportPrinter struct {
	mu      sync.Mutex
	reports [][]byte
}

func (p *fakeReportPrinter) PrintReport(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, data)
	return nil
}
