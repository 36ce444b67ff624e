package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/repairpos/internal/application/service"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/request"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
)

// DrawerHandler handles cash drawer sessions
type DrawerHandler struct {
	drawerService *service.CashDrawerService
}

// NewDrawerHandler creates a new drawer handler
func NewDrawerHandler(drawerService *service.CashDrawerService) *DrawerHandler {
	return &DrawerHandler{drawerService: drawerService}
}

// OpenDrawer starts a drawer session on a register
func (h *DrawerHandler) OpenDrawer(c *gin.Context) {
	var req request.OpenDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.RegisterID == "" {
		req.RegisterID = GetRegisterID(c)
	}

	session, err := h.drawerService.Open(c.Request.Context(), &service.OpenDrawerInput{
		RegisterID:    req.RegisterID,
		EmployeeID:    GetEmployeeID(c),
		OpeningAmount: req.OpeningAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Drawer opened successfully", session)
}

// GetCurrent returns the open session of the register
func (h *DrawerHandler) GetCurrent(c *gin.Context) {
	register := GetRegisterID(c)
	if register == "" {
		response.BadRequest(c, "register_id is required")
		return
	}

	session, err := h.drawerService.Current(c.Request.Context(), register)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Drawer session retrieved successfully", session)
}

// CloseDrawer records the counted cash and closes the session
func (h *DrawerHandler) CloseDrawer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid drawer session ID")
		return
	}

	var req request.CloseDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.drawerService.Close(c.Request.Context(), id, req.ClosingAmount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Drawer closed successfully", session)
}
