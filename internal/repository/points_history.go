package repository

import (
	"context"
	"fmt"

	"github.com/Fi44er/points_bot/internal/models"
)

func (r *Repository) AppendPointsHistory(ctx context.Context, entry *models.PointsHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append points history: %w", err)
	}
	return nil
}

func (r *Repository) ListPointsHistory(ctx context.Context, userID string) ([]models.PointsHistory, error) {
	var entries []models.PointsHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list points history: %w", err)
	}
	return entries, nil
}

func (r *Repository) SumPointsByType(ctx context.Context, typ models.HistoryType) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.PointsHistory{}).
		Where("type = ?", typ).
		Select("COALESCE(SUM(points),0)").
		Scan(&sum).
		Error
	return sum, err
}
