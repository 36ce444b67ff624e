package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/enum"
	domainRepo "github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/sangkips/repairpos/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.InventoryItem{},
		&entity.Customer{},
		&entity.Transaction{},
		&entity.TransactionItem{},
		&entity.CashDrawerSession{},
		&entity.StoreSettings{},
		&entity.IdempotencyKey{},
	))
	return db
}

func seedItem(t *testing.T, repo domainRepo.InventoryRepository, sku string, qty int) *entity.InventoryItem {
	t.Helper()
	item := &entity.InventoryItem{
		SKU:             sku,
		Name:            "Item " + sku,
		Category:        enum.ItemCategoryAccessory,
		UnitPrice:       decimal.NewFromInt(10),
		QuantityInStock: qty,
		MinStockLevel:   2,
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestAdjustStockClampsAtZero(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository(newTestDB(t))
	item := seedItem(t, repo, "CASE-01", 3)

	qty, applied, err := repo.AdjustStock(ctx, item.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)
	assert.Equal(t, -2, applied)

	qty, applied, err = repo.AdjustStock(ctx, item.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
	assert.Equal(t, -1, applied, "only the remaining unit is taken")

	qty, applied, err = repo.AdjustStock(ctx, item.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
	assert.Equal(t, 0, applied)

	qty, applied, err = repo.AdjustStock(ctx, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, qty)
	assert.Equal(t, 4, applied)

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.QuantityInStock)
}

func TestAdjustStockUnknownItem(t *testing.T) {
	repo := NewInventoryRepository(newTestDB(t))

	_, _, err := repo.AdjustStock(context.Background(), uuid.New(), -1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestInventoryListAndLowStock(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository(newTestDB(t))
	seedItem(t, repo, "SCRN-IP14", 10)
	seedItem(t, repo, "BATT-S22", 1)
	seedItem(t, repo, "CABLE-USB", 2)

	low, err := repo.GetLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "BATT-S22", low[0].SKU)

	items, total, err := repo.List(ctx, pagination.DefaultPagination(), "scrn")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "SCRN-IP14", items[0].SKU)

	found, err := repo.GetBySKU(ctx, "CABLE-USB")
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := repo.GetBySKU(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAdjustPoints(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(newTestDB(t))
	customer := &entity.Customer{Name: "Ada", LoyaltyPoints: 5, LoyaltyTier: enum.LoyaltyTierSilver}
	require.NoError(t, repo.Create(ctx, customer))

	balance, err := repo.AdjustPoints(ctx, customer.ID, 13)
	require.NoError(t, err)
	assert.Equal(t, int64(18), balance)

	balance, err = repo.AdjustPoints(ctx, customer.ID, -13)
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)

	_, err = repo.AdjustPoints(ctx, uuid.New(), 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListCustomers(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(newTestDB(t))
	phone := "0712345678"
	require.NoError(t, repo.Create(ctx, &entity.Customer{Name: "Grace Hopper", Phone: &phone, LoyaltyTier: enum.LoyaltyTierGold}))
	require.NoError(t, repo.Create(ctx, &entity.Customer{Name: "Alan Turing", LoyaltyTier: enum.LoyaltyTierNone}))

	all, total, err := repo.List(ctx, &pagination.PaginationParams{Page: 1, PerPage: 10}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)
	assert.Equal(t, "Alan Turing", all[0].Name)

	byPhone, total, err := repo.List(ctx, &pagination.PaginationParams{Page: 1, PerPage: 10}, "345")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Grace Hopper", byPhone[0].Name)
}

func TestTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestDB(t))
	ref := "local_abc"

	tx := &entity.Transaction{
		ReceiptNo:       "RCP-0000AAAA",
		ClientReference: &ref,
		EmployeeID:      uuid.New(),
		Subtotal:        decimal.NewFromInt(20),
		DiscountAmount:  decimal.Zero,
		TaxAmount:       decimal.NewFromInt(2),
		TotalAmount:     decimal.NewFromInt(22),
		PaymentMethod:   enum.PaymentMethodCard,
		Status:          enum.TransactionStatusCompleted,
	}
	require.NoError(t, repo.Create(ctx, tx))
	require.NotEqual(t, uuid.Nil, tx.ID)

	items := []entity.TransactionItem{
		{InventoryItemID: uuid.New(), Name: "Second", SKU: "B", Quantity: 1, UnitPrice: decimal.NewFromInt(5), TotalPrice: decimal.NewFromInt(5), Category: enum.ItemCategoryAccessory},
		{InventoryItemID: uuid.New(), Name: "First", SKU: "A", Quantity: 3, UnitPrice: decimal.NewFromInt(5), TotalPrice: decimal.NewFromInt(15), Category: enum.ItemCategoryRepair},
	}
	require.NoError(t, repo.CreateItems(ctx, tx.ID, items))

	loaded, err := repo.GetByClientReference(ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "B", loaded.Items[0].SKU, "items keep insertion order")
	assert.Equal(t, "A", loaded.Items[1].SKU)

	moved, err := repo.TransitionStatus(ctx, tx.ID, enum.TransactionStatusCompleted, enum.TransactionStatusVoided)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.TransitionStatus(ctx, tx.ID, enum.TransactionStatusCompleted, enum.TransactionStatusRefunded)
	require.NoError(t, err)
	assert.False(t, moved, "a reversed sale cannot transition again")

	list, total, err := repo.List(ctx, &domainRepo.TransactionFilterParams{Status: enum.TransactionStatusVoided})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, tx.ID))
	gone, err := repo.GetWithItems(ctx, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCashDrawerOneOpenSessionPerRegister(t *testing.T) {
	ctx := context.Background()
	repo := NewCashDrawerRepository(newTestDB(t))

	open := func() (*entity.CashDrawerSession, error) {
		s := &entity.CashDrawerSession{
			RegisterID:     "reg-1",
			EmployeeID:     uuid.New(),
			OpeningAmount:  decimal.NewFromInt(100),
			ExpectedAmount: decimal.NewFromInt(100),
			Status:         enum.DrawerStatusOpen,
			OpenedAt:       time.Now(),
		}
		return s, repo.Create(ctx, s)
	}

	first, err := open()
	require.NoError(t, err)

	_, err = open()
	assert.True(t, apperror.IsConflict(err))

	added, err := repo.AddExpected(ctx, first.ID, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddExpected(ctx, uuid.New(), decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.False(t, added)

	closed, err := repo.Close(ctx, first.ID, decimal.NewFromInt(145), time.Now())
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = repo.Close(ctx, first.ID, decimal.NewFromInt(145), time.Now())
	require.NoError(t, err)
	assert.False(t, closed)

	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.DrawerStatusClosed, stored.Status)
	assert.Nil(t, stored.OpenRegister)
	require.NotNil(t, stored.Difference)
	assert.True(t, stored.Difference.Equal(decimal.NewFromInt(-5)), "difference is %s", stored.Difference)

	added, err = repo.AddExpected(ctx, first.ID, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.False(t, added, "closed session takes no cash")

	// the register can open again once the previous session is closed
	_, err = open()
	assert.NoError(t, err)
}

func TestIdempotencyKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewIdempotencyRepository(newTestDB(t))
	employeeID := uuid.New()

	missing, err := repo.GetByKey(ctx, "sale-1", employeeID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key:          "sale-1",
		EmployeeID:   employeeID,
		Endpoint:     "POST /api/v1/transactions",
		ResponseCode: 201,
		ResponseBody: `{"success":true}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))
	expired, err := repo.GetByKey(ctx, "sale-1", employeeID)
	require.NoError(t, err)
	assert.Nil(t, expired, "expired keys are not replayed")

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key:          "sale-1",
		EmployeeID:   employeeID,
		Endpoint:     "POST /api/v1/transactions",
		ResponseCode: 202,
		ResponseBody: `{"success":true,"queued":true}`,
		ExpiresAt:    time.Now().Add(time.Hour),
	}))
	live, err := repo.GetByKey(ctx, "sale-1", employeeID)
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, 202, live.ResponseCode)

	other, err := repo.GetByKey(ctx, "sale-1", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, repo.DeleteExpired(ctx))
	live, err = repo.GetByKey(ctx, "sale-1", employeeID)
	require.NoError(t, err)
	assert.NotNil(t, live)
}
