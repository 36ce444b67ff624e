package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/sangkips/repairpos/pkg/pagination"
)

// InventoryService exposes the stock records read by the register
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventoryRepo repository.InventoryRepository) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo}
}

// GetItem retrieves an inventory item by ID
func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Inventory item")
	}
	return item, nil
}

// GetItemBySKU retrieves an inventory item by SKU
func (s *InventoryService) GetItemBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	item, err := s.inventoryRepo.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Inventory item")
	}
	return item, nil
}

// ListItems lists inventory items matching search by name or SKU
func (s *InventoryService) ListItems(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.InventoryItem], error) {
	params = pagination.Normalize(params)

	items, total, err := s.inventoryRepo.List(ctx, params, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	return pagination.NewPage(items, params, total), nil
}

// LowStock lists the items at or below their reorder level
func (s *InventoryService) LowStock(ctx context.Context) ([]entity.InventoryItem, error) {
	items, err := s.inventoryRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.InventoryItem{}
	}
	return items, nil
}
