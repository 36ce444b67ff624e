package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/repairpos/internal/application/service"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
)

// HealthHandler reports service health
type HealthHandler struct {
	serviceName string
	syncService *service.SyncService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(serviceName string, syncService *service.SyncService) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, syncService: syncService}
}

// Health reports whether the store database is reachable and how many sales are queued.
// The service keeps taking sales while offline, so it answers 200 either way.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	online := h.syncService.IsOnline(ctx)
	status := "ok"
	if !online {
		status = "degraded"
	}

	depth, err := h.syncService.Depth(ctx)
	if err != nil {
		log.Errorf("health check could not read the offline queue: %v", err)
		status = "degraded"
	}

	c.JSON(http.StatusOK, response.HealthResponse{
		Status:     status,
		Service:    h.serviceName,
		Online:     online,
		QueueDepth: depth,
	})
}
