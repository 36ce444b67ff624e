package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/repairpos/internal/application/service"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/request"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
)

// SettingsHandler handles the receipt settings of a location
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves the settings of the caller's location
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.StoreInfo(c.Request.Context(), GetLocationID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings creates or replaces the settings of a location
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	if req.LocationID == "" {
		req.LocationID = GetLocationID(c)
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		LocationID:        req.LocationID,
		StoreName:         req.StoreName,
		Address:           req.Address,
		Phone:             req.Phone,
		TaxID:             req.TaxID,
		FooterMessage:     req.FooterMessage,
		PromoMessage:      req.PromoMessage,
		DigitalReceiptURL: req.DigitalReceiptURL,
		PaperWidth:        req.PaperWidth,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
