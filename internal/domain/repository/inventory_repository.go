package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/pkg/pagination"
)

// InventoryRepository is the stock ledger
type InventoryRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error)
	// GetByIDs retrieves multiple items in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error)
	GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error)
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.InventoryItem, int64, error)
	GetLowStock(ctx context.Context) ([]entity.InventoryItem, error)
	// AdjustStock atomically adds delta to the item's quantity, clamping at zero.
	// It returns the new quantity and the delta actually applied, which differs
	// from delta when the clamp engaged. A missing item yields a NotFound error.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (newQty int, applied int, err error)
}
