package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/utils"
)

// CalculatePointsEarned applies the tier table to a purchase. The higher tier
// is checked first so it is never shadowed by the lower one.
func CalculatePointsEarned(credits int64, cfg models.PointsConfig) int64 {
	switch {
	case credits >= cfg.Threshold1.MinCredits:
		return utils.FloorInt(float64(credits) * cfg.Threshold1.PointsPerCredit)
	case credits >= cfg.Threshold2.MinCredits:
		return utils.FloorInt(float64(credits) * cfg.Threshold2.PointsPerCredit)
	default:
		return 0
	}
}

func (s *Service) GetPointsConfig(ctx context.Context) (models.PointsConfig, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return models.PointsConfig{}, err
	}
	return settings.PointsConfig(), nil
}

// UpdatePointsConfig only affects approvals made after it returns.
func (s *Service) UpdatePointsConfig(ctx context.Context, cfg models.PointsConfig) error {
	if err := cfg.Validate(); err != nil {
		return invalid("pointsConfig", err.Error())
	}
	var settings models.Settings
	settings.SetPointsConfig(cfg)
	err := s.repo.UpdateSettings(ctx, map[string]interface{}{
		"tier1_min_credits": settings.Tier1MinCredits,
		"tier1_rate":        settings.Tier1Rate,
		"tier2_min_credits": settings.Tier2MinCredits,
		"tier2_rate":        settings.Tier2Rate,
	})
	if err != nil {
		return fmt.Errorf("failed to update points config: %w", err)
	}
	s.logger.Infof("Points config updated: tier1=%d@%.4f tier2=%d@%.4f",
		cfg.Threshold1.MinCredits, cfg.Threshold1.PointsPerCredit,
		cfg.Threshold2.MinCredits, cfg.Threshold2.PointsPerCredit)
	return nil
}

func (s *Service) PointsBalance(ctx context.Context, userID string) (int64, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Points, nil
}

func (s *Service) PointsHistory(ctx context.Context, userID string) ([]models.PointsHistory, error) {
	return s.repo.ListPointsHistory(ctx, userID)
}

// appendHistory writes one ledger row. Points must already carry its sign.
func appendHistory(ctx context.Context, repo Repository, entry *models.PointsHistory) error {
	if entry.Points == 0 {
		return errors.New("points history entry with zero delta")
	}
	if err := repo.AppendPointsHistory(ctx, entry); err != nil {
		return fmt.Errorf("failed to append points history: %w", err)
	}
	return nil
}
