package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CashDrawerRepository persists cash drawer sessions
type CashDrawerRepository interface {
	// Create inserts an open session. A second open session for the same
	// register is rejected with a Conflict error.
	Create(ctx context.Context, session *entity.CashDrawerSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashDrawerSession, error)
	GetOpenByRegister(ctx context.Context, registerID string) (*entity.CashDrawerSession, error)
	// AddExpected atomically adds delta to the expected amount of the session.
	// It returns false when the session is not open.
	AddExpected(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (bool, error)
	// Close records the counted amount, computes the difference against the
	// expected amount and closes the session. It returns false if the session
	// was not open.
	Close(ctx context.Context, id uuid.UUID, closing decimal.Decimal, closedAt time.Time) (bool, error)
}
