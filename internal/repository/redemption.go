package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Fi44er/points_bot/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateRedemption(ctx context.Context, redemption *models.Redemption) error {
	if err := r.db.WithContext(ctx).Create(redemption).Error; err != nil {
		return fmt.Errorf("failed to create redemption: %w", err)
	}
	return nil
}

func (r *Repository) GetRedemption(ctx context.Context, id string) (*models.Redemption, error) {
	var redemption models.Redemption
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&redemption).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get redemption by id %s: %w", id, err)
	}
	return &redemption, nil
}

func (r *Repository) ListRedemptionsByUser(ctx context.Context, userID string) ([]models.Redemption, error) {
	var redemptions []models.Redemption
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&redemptions).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user redemptions: %w", err)
	}
	return redemptions, nil
}

func (r *Repository) ListRedemptions(ctx context.Context) ([]models.Redemption, error) {
	var redemptions []models.Redemption
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&redemptions).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}
	return redemptions, nil
}

// TransitionRedemption moves a pending redemption to status. It reports false
// when the row is missing or no longer pending.
func (r *Repository) TransitionRedemption(ctx context.Context, id string, status models.Status, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Redemption{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update redemption status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) CountPendingRedemptions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Redemption{}).
		Where("status = ?", models.StatusPending).
		Count(&count).
		Error
	return count, err
}
