package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/sangkips/repairpos/pkg/pagination"
)

// CustomerService handles loyalty customer lookups and enrolment
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name        string
	Email       *string
	Phone       *string
	LoyaltyTier enum.LoyaltyTier
}

// CreateCustomer enrols a customer with a zero balance. The tier defaults to none.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	var errs []apperror.FieldError
	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if input.Email != nil && *input.Email != "" {
		if _, err := mail.ParseAddress(*input.Email); err != nil {
			errs = append(errs, apperror.FieldError{Field: "email", Message: "Email is invalid"})
		}
	}
	if input.LoyaltyTier == "" {
		input.LoyaltyTier = enum.LoyaltyTierNone
	}
	if !input.LoyaltyTier.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "loyalty_tier", Message: "Loyalty tier must be none, bronze, silver or gold"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	customer := &entity.Customer{
		Name:        name,
		Email:       input.Email,
		Phone:       input.Phone,
		LoyaltyTier: input.LoyaltyTier,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers matching search by name, email or phone
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	params = pagination.Normalize(params)

	customers, total, err := s.customerRepo.List(ctx, params, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	return pagination.NewPage(customers, params, total), nil
}
