package repository

import (
	"context"
	"fmt"

	"github.com/Fi44er/points_bot/internal/models"
)

// GetSettings loads the singleton, creating it from defaults on first use.
func (r *Repository) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings := models.DefaultSettings()
	err := r.db.WithContext(ctx).
		Where("id = ?", models.SettingsID).
		FirstOrCreate(&settings).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

func (r *Repository) UpdateSettings(ctx context.Context, fields map[string]interface{}) error {
	if _, err := r.GetSettings(ctx); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).
		Model(&models.Settings{}).
		Where("id = ?", models.SettingsID).
		Updates(fields).
		Error
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
