package response

import (
	"github.com/sangkips/repairpos/internal/application/service"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/pkg/printer"
)

// CheckoutResponse is returned for a sale committed online.
type CheckoutResponse struct {
	*service.CommitResult
	PrintJob   *printer.Job `json:"print_job,omitempty"`
	PrintError string       `json:"print_error,omitempty"`
}

// OfflineAcceptedResponse is returned for a sale queued while offline.
type OfflineAcceptedResponse struct {
	LocalID    string `json:"local_id"`
	Seq        int64  `json:"seq"`
	QueueDepth int    `json:"queue_depth"`
}

// OfflineQueueResponse lists the queued sales.
type OfflineQueueResponse struct {
	Online  bool                  `json:"online"`
	Depth   int                   `json:"depth"`
	Entries []entity.OfflineEntry `json:"entries"`
}

// HealthResponse is the unauthenticated health report.
type HealthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Online     bool   `json:"online"`
	QueueDepth int    `json:"queue_depth"`
}
