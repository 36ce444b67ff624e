package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/op/go-logging"
	"github.com/sangkips/repairpos/internal/presentation/http/middleware"
)

var log = logging.MustGetLogger("handler")

// GetEmployeeID extracts the authenticated employee ID from the Gin context
func GetEmployeeID(c *gin.Context) uuid.UUID {
	return middleware.GetEmployeeID(c)
}

// GetEmployeeName extracts the employee's display name from the Gin context
func GetEmployeeName(c *gin.Context) string {
	return c.GetString(middleware.EmployeeNameKey)
}

// GetLocationID returns the location of the token, or the default location
func GetLocationID(c *gin.Context) string {
	if location := c.Query("location_id"); location != "" {
		return location
	}
	return c.GetString(middleware.LocationIDKey)
}

// GetRegisterID returns the register named in the query, or the one in the token
func GetRegisterID(c *gin.Context) string {
	if register := c.Query("register_id"); register != "" {
		return register
	}
	return c.GetString(middleware.RegisterIDKey)
}

// parseID parses the :id path parameter
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
