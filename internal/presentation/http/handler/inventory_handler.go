package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/repairpos/internal/application/service"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
	"github.com/sangkips/repairpos/pkg/pagination"
)

// InventoryHandler handles inventory lookups
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// ListItems lists inventory items, optionally filtered by ?search= or looked up by ?sku=
func (h *InventoryHandler) ListItems(c *gin.Context) {
	if sku := c.Query("sku"); sku != "" {
		item, err := h.inventoryService.GetItemBySKU(c.Request.Context(), sku)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Inventory item retrieved successfully", item)
		return
	}

	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.inventoryService.ListItems(c.Request.Context(), &params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Inventory retrieved successfully", result)
}

// LowStock lists items at or below their reorder level
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventoryService.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock items retrieved successfully", items)
}

// GetItem retrieves an inventory item by ID
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid inventory item ID")
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory item retrieved successfully", item)
}
