package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/repairpos/internal/application/service"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/request"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
	"github.com/sangkips/repairpos/pkg/pagination"
)

// CustomerHandler handles loyalty customer HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers, filtered by ?search= on name, email or phone
func (h *CustomerHandler) List(c *gin.Context) {
	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), &params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Create handles enrolling a customer in the loyalty program
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		LoyaltyTier: req.LoyaltyTier,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	log.Infof("customer %s enrolled by %s", customer.ID, GetEmployeeID(c))
	response.Created(c, "Customer created successfully", customer)
}

// Get handles retrieving a customer with the loyalty balance
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}
