package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/pkg/pagination"
)

// CustomerRepository reads customers and owns the loyalty ledger
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// AdjustPoints atomically adds delta to the loyalty balance and returns the new balance.
	AdjustPoints(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
}
