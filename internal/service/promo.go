package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/internal/repository"
)

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *Service) ListPromos(ctx context.Context) ([]models.PromoCode, error) {
	return s.repo.ListPromos(ctx)
}

func (s *Service) CreatePromo(ctx context.Context, code string, discount float64, active bool) (*models.PromoCode, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, invalid("code", "is required")
	}
	if discount <= 0 || discount > 100 {
		return nil, invalid("discount", "must be between 0 and 100")
	}

	existing, err := s.repo.GetPromoByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPromoExists
	}

	promo := &models.PromoCode{Code: code, Discount: discount, Active: active, CreatedAt: s.now()}
	if err := s.repo.CreatePromo(ctx, promo); err != nil {
		return nil, err
	}
	s.logger.Infof("Promo %s created with %.2f%% discount", promo.Code, promo.Discount)
	return promo, nil
}

func (s *Service) SetPromoActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetPromoActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPromoNotFound
		}
		return err
	}
	return nil
}

func (s *Service) DeletePromo(ctx context.Context, id string) error {
	if err := s.repo.DeletePromo(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPromoNotFound
		}
		return err
	}
	return nil
}

// ValidatePromo returns the promo a purchase would get for code. Inactive
// codes are reported as missing.
func (s *Service) ValidatePromo(ctx context.Context, code string) (*models.PromoCode, error) {
	promo, err := s.repo.GetPromoByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, err
	}
	if promo == nil || !promo.Active {
		return nil, ErrPromoNotFound
	}
	return promo, nil
}
