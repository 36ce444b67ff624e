package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	domainRepo "github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/sangkips/repairpos/pkg/pagination"
	"gorm.io/gorm"
)

// maxStockCASAttempts bounds retries when another writer changes the row between read and update.
const maxStockCASAttempts = 5

// ErrStockContention is returned when AdjustStock keeps losing the compare-and-swap race.
var ErrStockContention = errors.New("inventory: too much contention on stock record")

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) domainRepo.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *entity.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

// GetByIDs retrieves multiple items by their IDs in a single query
func (r *inventoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error) {
	if len(ids) == 0 {
		return []entity.InventoryItem{}, nil
	}
	var items []entity.InventoryItem
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *inventoryRepository) GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *inventoryRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.InventoryItem, int64, error) {
	var items []entity.InventoryItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.InventoryItem{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.
		Order("name ASC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&items).Error

	return items, total, err
}

func (r *inventoryRepository) GetLowStock(ctx context.Context) ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := r.db.WithContext(ctx).
		Where("quantity_in_stock <= min_stock_level").
		Order("quantity_in_stock ASC").
		Find(&items).Error
	return items, err
}

// AdjustStock applies delta with a per-row compare-and-swap:
//
//	UPDATE inventory_items SET quantity_in_stock = :new WHERE id = :id AND quantity_in_stock = :seen
//
// The new value is clamped at zero, and the applied delta is reported so a
// compensating call can restore exactly what was taken.
func (r *inventoryRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, int, error) {
	for attempt := 0; attempt < maxStockCASAttempts; attempt++ {
		var item entity.InventoryItem
		err := r.db.WithContext(ctx).
			Select("id", "quantity_in_stock").
			First(&item, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, apperror.NewNotFoundError("Inventory item")
		}
		if err != nil {
			return 0, 0, err
		}

		newQty := item.QuantityInStock + delta
		if newQty < 0 {
			newQty = 0
		}
		if newQty == item.QuantityInStock {
			return newQty, 0, nil
		}

		result := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
			Where("id = ? AND quantity_in_stock = ?", id, item.QuantityInStock).
			Update("quantity_in_stock", newQty)
		if result.Error != nil {
			return 0, 0, result.Error
		}
		if result.RowsAffected > 0 {
			return newQty, newQty - item.QuantityInStock, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %s", ErrStockContention, id)
}
