package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/enum"
	domainRepo "github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type cashDrawerRepository struct {
	db *gorm.DB
}

// NewCashDrawerRepository creates a new cash drawer session repository
func NewCashDrawerRepository(db *gorm.DB) domainRepo.CashDrawerRepository {
	return &cashDrawerRepository{db: db}
}

func (r *cashDrawerRepository) Create(ctx context.Context, session *entity.CashDrawerSession) error {
	register := session.RegisterID
	session.OpenRegister = &register

	err := r.db.WithContext(ctx).Create(session).Error
	if isUniqueViolation(err) {
		return apperror.NewConflictError("Register " + register + " already has an open drawer session")
	}
	return err
}

func (r *cashDrawerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashDrawerSession, error) {
	var session entity.CashDrawerSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashDrawerRepository) GetOpenByRegister(ctx context.Context, registerID string) (*entity.CashDrawerSession, error) {
	var session entity.CashDrawerSession
	err := r.db.WithContext(ctx).
		Where("register_id = ? AND status = ?", registerID, enum.DrawerStatusOpen).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashDrawerRepository) AddExpected(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.CashDrawerSession{}).
		Where("id = ? AND status = ?", id, enum.DrawerStatusOpen).
		Update("expected_amount", gorm.Expr("expected_amount + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Close computes the difference in the same statement that flips the status, so
// a cash movement racing the close is either counted or rejected, never lost.
func (r *cashDrawerRepository) Close(ctx context.Context, id uuid.UUID, closing decimal.Decimal, closedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.CashDrawerSession{}).
		Where("id = ? AND status = ?", id, enum.DrawerStatusOpen).
		Updates(map[string]interface{}{
			"status":         enum.DrawerStatusClosed,
			"closing_amount": closing,
			"difference":     gorm.Expr("? - expected_amount", closing),
			"closed_at":      closedAt,
			"open_register":  nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
