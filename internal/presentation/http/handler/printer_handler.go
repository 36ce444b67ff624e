package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/repairpos/internal/application/service"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/request"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the printer connection and queue status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status, err := h.printerService.GetStatus()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printer status retrieved", status)
}

// GetJobs lists queued jobs and the recent history.
func (h *PrinterHandler) GetJobs(c *gin.Context) {
	response.OK(c, "Print jobs retrieved", h.printerService.Jobs())
}

// TestPrint queues a test page.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	var req request.TestPrintRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request: "+err.Error())
			return
		}
	}
	if req.LocationID == "" {
		req.LocationID = GetLocationID(c)
	}

	job, err := h.printerService.TestPrint(c.Request.Context(), req.LocationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, "Test page queued", job)
}
