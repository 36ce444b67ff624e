package repository

import (
	"context"
	"errors"

	"github.com/sangkips/repairpos/internal/domain/entity"
	domainRepo "github.com/sangkips/repairpos/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetByLocation retrieves the settings of a location
func (r *settingsRepository) GetByLocation(ctx context.Context, locationID string) (*entity.StoreSettings, error) {
	var settings entity.StoreSettings
	err := r.db.WithContext(ctx).Where("location_id = ?", locationID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &settings, err
}

// Create creates new store settings
func (r *settingsRepository) Create(ctx context.Context, settings *entity.StoreSettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

// Update updates existing store settings
func (r *settingsRepository) Update(ctx context.Context, settings *entity.StoreSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
