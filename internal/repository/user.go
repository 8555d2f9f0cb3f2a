package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/points_bot/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &user, nil
}

func (r *Repository) GetUserByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "chat_id = ?", chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by chat id %d: %w", chatID, err)
	}
	return &user, nil
}

func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND role = ?", username, models.RoleAdmin).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin %s: %w", username, err)
	}
	return &user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) UpdateUserPassword(ctx context.Context, id, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password", hash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementCredits adds delta to the stored balance in a single UPDATE.
func (r *Repository) IncrementCredits(ctx context.Context, userID string, delta int64) error {
	return r.increment(ctx, "credits", "id = ?", userID, delta)
}

func (r *Repository) IncrementCreditsByChatID(ctx context.Context, chatID, delta int64) error {
	return r.increment(ctx, "credits", "chat_id = ?", chatID, delta)
}

func (r *Repository) IncrementPoints(ctx context.Context, userID string, delta int64) error {
	return r.increment(ctx, "points", "id = ?", userID, delta)
}

func (r *Repository) increment(ctx context.Context, column, where string, key any, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where(where, key).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		r.logger.Errorf("failed to increment %s for %v: %v", column, key, res.Error)
		return fmt.Errorf("failed to increment %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %v: %w", key, ErrNotFound)
	}
	return nil
}

// DeductPoints subtracts amount only when the balance covers it. It reports
// false when the guard rejected the update.
func (r *Repository) DeductPoints(ctx context.Context, userID string, amount int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND points >= ?", userID, amount).
		UpdateColumn("points", gorm.Expr("points - ?", amount))
	if res.Error != nil {
		return false, fmt.Errorf("failed to deduct points: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
