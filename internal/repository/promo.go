package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/points_bot/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreatePromo(ctx context.Context, promo *models.PromoCode) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

// GetPromoByCode looks up a code regardless of its active flag. Codes are
// stored upper-cased.
func (r *Repository) GetPromoByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.WithContext(ctx).First(&promo, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get promo %s: %w", code, err)
	}
	return &promo, nil
}

func (r *Repository) ListPromos(ctx context.Context) ([]models.PromoCode, error) {
	var promos []models.PromoCode
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&promos).Error; err != nil {
		return nil, fmt.Errorf("failed to list promos: %w", err)
	}
	return promos, nil
}

func (r *Repository) SetPromoActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("id = ?", id).
		UpdateColumn("active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to toggle promo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeletePromo(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.PromoCode{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete promo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
