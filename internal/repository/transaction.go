package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Fi44er/points_bot/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tx).
		Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

func (r *Repository) ListTransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&txs).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user transactions: %w", err)
	}
	return txs, nil
}

// ListTransactions returns the newest transactions first. limit <= 0 means all.
func (r *Repository) ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// TransitionTransaction moves a pending transaction to status. It reports
// false when the row is missing or no longer pending.
func (r *Repository) TransitionTransaction(ctx context.Context, id string, status models.Status, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_at": at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update transaction status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) CountTransactionsByStatus(ctx context.Context) (map[models.Status]int64, error) {
	var rows []struct {
		Status models.Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *Repository) SumApprovedAmount(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("status = ?", models.StatusApproved).
		Select("COALESCE(SUM(amount),0)").
		Scan(&sum).
		Error
	return sum, err
}
