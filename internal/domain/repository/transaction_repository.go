package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/sangkips/repairpos/pkg/pagination"
)

// TransactionRepository persists sale headers and their line items
type TransactionRepository interface {
	// Create inserts the header only; line items are written by CreateItems.
	Create(ctx context.Context, tx *entity.Transaction) error
	CreateItems(ctx context.Context, transactionID uuid.UUID, items []entity.TransactionItem) error
	// Delete removes a header and its items. Used to compensate a failed commit.
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// GetWithItems loads the header, its items and the customer.
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetByClientReference(ctx context.Context, ref string) (*entity.Transaction, error)
	// TransitionStatus moves a transaction from one status to another only if it is
	// currently in from. It returns false when no row matched.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enum.TransactionStatus) (bool, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     enum.TransactionStatus
	RegisterID string
	EmployeeID *uuid.UUID
	From       *time.Time
	To         *time.Time
}
