package request

import "github.com/sangkips/repairpos/internal/domain/enum"

// CreateCustomerRequest enrols a loyalty customer.
type CreateCustomerRequest struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	Phone       *string          `json:"phone" binding:"omitempty,max=50"`
	LoyaltyTier enum.LoyaltyTier `json:"loyalty_tier"`
}
