package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/config"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/sangkips/repairpos/pkg/printer"
)

// DefaultLocation is used when a request carries no location.
const DefaultLocation = "default"

// SettingsService handles the receipt settings of each location
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	defaults     config.StoreConfig
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, defaults config.StoreConfig) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

func (s *SettingsService) defaultSettings(locationID string) *entity.StoreSettings {
	width := s.defaults.PaperWidth
	if width <= 0 {
		width = printer.DefaultWidth
	}
	return &entity.StoreSettings{
		LocationID:        locationID,
		StoreName:         s.defaults.Name,
		Address:           s.defaults.Address,
		Phone:             s.defaults.Phone,
		TaxID:             s.defaults.TaxID,
		FooterMessage:     s.defaults.Footer,
		DigitalReceiptURL: s.defaults.DigitalReceiptURL,
		PaperWidth:        width,
	}
}

// StoreInfo returns the saved settings of a location, or the configured defaults.
func (s *SettingsService) StoreInfo(ctx context.Context, locationID string) (*entity.StoreSettings, error) {
	if locationID == "" {
		locationID = DefaultLocation
	}
	settings, err := s.settingsRepo.GetByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return s.defaultSettings(locationID), nil
	}
	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	LocationID        string
	StoreName         string
	Address           string
	Phone             string
	TaxID             string
	FooterMessage     string
	PromoMessage      string
	DigitalReceiptURL string
	PaperWidth        int
}

// UpdateSettings creates or replaces the settings of a location
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	if input.StoreName == "" {
		return nil, apperror.NewFieldError("store_name", "Store name is required")
	}
	if input.PaperWidth == 0 {
		input.PaperWidth = printer.DefaultWidth
	}
	if input.PaperWidth < 24 || input.PaperWidth > 64 {
		return nil, apperror.NewFieldError("paper_width", "Paper width must be between 24 and 64 characters")
	}
	if input.LocationID == "" {
		input.LocationID = DefaultLocation
	}

	settings, err := s.settingsRepo.GetByLocation(ctx, input.LocationID)
	if err != nil {
		return nil, err
	}

	// If no settings exist, create new
	if settings == nil {
		settings = &entity.StoreSettings{
			LocationID: input.LocationID,
		}
	}

	settings.StoreName = input.StoreName
	settings.Address = input.Address
	settings.Phone = input.Phone
	settings.TaxID = input.TaxID
	settings.FooterMessage = input.FooterMessage
	settings.PromoMessage = input.PromoMessage
	settings.DigitalReceiptURL = input.DigitalReceiptURL
	settings.PaperWidth = input.PaperWidth

	if settings.ID == uuid.Nil {
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	} else {
		if err := s.settingsRepo.Update(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}
