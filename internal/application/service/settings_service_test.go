package service

import (
	"context"
	"testing"

	"github.com/sangkips/repairpos/internal/config"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFallBackToConfig(t *testing.T) {
	svc := NewSettingsService(newFakeSettingsRepo(), config.StoreConfig{
		Name:   "Fix-It Phones",
		Phone:  "555-0100",
		Footer: "See you soon",
	})

	info, err := svc.StoreInfo(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocation, info.LocationID)
	assert.Equal(t, "Fix-It Phones", info.StoreName)
	assert.Equal(t, "See you soon", info.FooterMessage)
	assert.Equal(t, 32, info.PaperWidth)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(newFakeSettingsRepo(), config.StoreConfig{Name: "Fix-It Phones"})

	tests := []struct {
		name  string
		input UpdateSettingsInput
		field string
	}{
		{"missing name", UpdateSettingsInput{}, "store_name"},
		{"narrow paper", UpdateSettingsInput{StoreName: "A", PaperWidth: 20}, "paper_width"},
		{"wide paper", UpdateSettingsInput{StoreName: "A", PaperWidth: 80}, "paper_width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateSettings(ctx, &tt.input)
			require.True(t, apperror.IsValidation(err))
			assert.Equal(t, tt.field, apperror.GetAppError(err).Errors[0].Field)
		})
	}

	created, err := svc.UpdateSettings(ctx, &UpdateSettingsInput{LocationID: "north", StoreName: "North Branch", PaperWidth: 48})
	require.NoError(t, err)

	updated, err := svc.UpdateSettings(ctx, &UpdateSettingsInput{LocationID: "north", StoreName: "North Branch", PromoMessage: "Free screen protector"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 32, updated.PaperWidth)

	info, err := svc.StoreInfo(ctx, "north")
	require.NoError(t, err)
	assert.Equal(t, "Free screen protector", info.PromoMessage)

	info, err = svc.StoreInfo(ctx, "south")
	require.NoError(t, err)
	assert.Equal(t, "Fix-It Phones", info.StoreName)
}
