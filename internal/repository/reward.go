package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/points_bot/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateReward(ctx context.Context, reward *models.Reward) error {
	return r.db.WithContext(ctx).Create(reward).Error
}

func (r *Repository) GetReward(ctx context.Context, id string) (*models.Reward, error) {
	var reward models.Reward
	err := r.db.WithContext(ctx).First(&reward, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reward %s: %w", id, err)
	}
	return &reward, nil
}

// ListRewards returns the catalogue ordered by cost, or every reward newest
// first for the admin view.
func (r *Repository) ListRewards(ctx context.Context, activeOnly bool) ([]models.Reward, error) {
	var rewards []models.Reward
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("active = ?", true).Order("points_cost ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	if err := q.Find(&rewards).Error; err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	return rewards, nil
}

func (r *Repository) UpdateReward(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Reward{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update reward: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteReward(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Delete(&models.Reward{}, "id = ?", id)
	if tx.Error != nil {
		r.logger.Errorf("failed to delete reward %s: %v", id, tx.Error)
		return fmt.Errorf("failed to delete reward: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	r.logger.Infof("Reward %s deleted", id)
	return nil
}
