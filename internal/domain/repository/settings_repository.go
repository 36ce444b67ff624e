package repository

import (
	"context"

	"github.com/sangkips/repairpos/internal/domain/entity"
)

// SettingsRepository defines the interface for store settings data access
type SettingsRepository interface {
	GetByLocation(ctx context.Context, locationID string) (*entity.StoreSettings, error)
	Create(ctx context.Context, settings *entity.StoreSettings) error
	Update(ctx context.Context, settings *entity.StoreSettings) error
}
