package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/repairpos/internal/application/service"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
)

// OfflineHandler exposes the offline sale queue
type OfflineHandler struct {
	syncService *service.SyncService
}

// NewOfflineHandler creates a new offline handler
func NewOfflineHandler(syncService *service.SyncService) *OfflineHandler {
	return &OfflineHandler{syncService: syncService}
}

// GetQueue lists the sales waiting to sync
func (h *OfflineHandler) GetQueue(c *gin.Context) {
	ctx := c.Request.Context()
	entries, err := h.syncService.Pending(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Offline queue retrieved", response.OfflineQueueResponse{
		Online:  h.syncService.IsOnline(ctx),
		Depth:   len(entries),
		Entries: entries,
	})
}

// Sync replays the queue now
func (h *OfflineHandler) Sync(c *gin.Context) {
	ctx := c.Request.Context()
	if !h.syncService.IsOnline(ctx) {
		response.ErrorWithCode(c, http.StatusServiceUnavailable, "Store database is unreachable, try again later")
		return
	}

	result, err := h.syncService.SyncAll(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sync completed", result)
}
