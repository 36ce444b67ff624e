package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
	"github.com/sangkips/repairpos/pkg/utils"
)

// Context keys set by AuthMiddleware.
const (
	EmployeeIDKey    = "employee_id"
	EmployeeNameKey  = "employee_name"
	EmployeeRolesKey = "employee_roles"
	LocationIDKey    = "location_id"
	RegisterIDKey    = "register_id"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			log.Debugf("rejected token: %v", err)
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(EmployeeIDKey, claims.EmployeeID)
		c.Set(EmployeeNameKey, claims.Name)
		c.Set(EmployeeRolesKey, claims.Roles)
		c.Set(LocationIDKey, claims.LocationID)
		c.Set(RegisterIDKey, claims.RegisterID)

		c.Next()
	}
}

// GetEmployeeID returns the authenticated employee, or uuid.Nil
func GetEmployeeID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(EmployeeIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles, exists := c.Get(EmployeeRolesKey)
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		userRolesList, ok := userRoles.([]string)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, userRole := range userRolesList {
			for _, requiredRole := range roles {
				if userRole == requiredRole {
					c.Next()
					return
				}
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
