package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"
	"github.com/sangkips/repairpos/internal/domain/entity"
	domainRepo "github.com/sangkips/repairpos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var log = logging.MustGetLogger("repository")

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

// GetByKey returns the live record of key for the employee, or nil.
func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, employeeID uuid.UUID) (*entity.IdempotencyKey, error) {
	var record entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND employee_id = ? AND expires_at > ?", key, employeeID, time.Now()).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create stores the response of key. An expired record with the same key is overwritten.
func (r *idempotencyRepository) Create(ctx context.Context, record *entity.IdempotencyKey) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"endpoint", "request_hash", "response_code", "response_body", "expires_at",
			}),
		}).
		Create(record).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&entity.IdempotencyKey{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Debugf("deleted %d expired idempotency keys", result.RowsAffected)
	}
	return nil
}
