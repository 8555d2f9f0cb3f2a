package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/internal/repository"
)

type RewardInput struct {
	Name        string
	Description string
	Type        models.RewardType
	PointsCost  int64
	Value       float64
	Active      *bool
}

// RewardPatch holds the editable reward fields. The type of an existing reward
// never changes.
type RewardPatch struct {
	Name        *string
	Description *string
	PointsCost  *int64
	Value       *float64
	Active      *bool
}

func (s *Service) ListRewards(ctx context.Context, activeOnly bool) ([]models.Reward, error) {
	return s.repo.ListRewards(ctx, activeOnly)
}

func (s *Service) GetReward(ctx context.Context, id string) (*models.Reward, error) {
	reward, err := s.repo.GetReward(ctx, id)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}
	return reward, nil
}

func (s *Service) CreateReward(ctx context.Context, in RewardInput) (*models.Reward, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if !in.Type.Valid() {
		return nil, invalid("type", "is not a known reward type")
	}
	if in.PointsCost <= 0 {
		return nil, invalid("pointsCost", "must be positive")
	}
	if in.Value < 0 {
		return nil, invalid("value", "must not be negative")
	}

	reward := &models.Reward{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		PointsCost:  in.PointsCost,
		Value:       in.Value,
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateReward(ctx, reward); err != nil {
		return nil, err
	}
	s.logger.Infof("Reward %s (%s) created", reward.ID, reward.Type)
	return reward, nil
}

func (s *Service) UpdateReward(ctx context.Context, id string, patch RewardPatch) (*models.Reward, error) {
	fields := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("name", "must not be empty")
		}
		fields["name"] = name
	}
	if patch.Description != nil {
		fields["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.PointsCost != nil {
		if *patch.PointsCost <= 0 {
			return nil, invalid("pointsCost", "must be positive")
		}
		fields["points_cost"] = *patch.PointsCost
	}
	if patch.Value != nil {
		if *patch.Value < 0 {
			return nil, invalid("value", "must not be negative")
		}
		fields["value"] = *patch.Value
	}
	if patch.Active != nil {
		fields["active"] = *patch.Active
	}

	if err := s.repo.UpdateReward(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	return s.GetReward(ctx, id)
}

// DeleteReward removes the catalogue entry. Redemptions keep their snapshot.
func (s *Service) DeleteReward(ctx context.Context, id string) error {
	if err := s.repo.DeleteReward(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRewardNotFound
		}
		return err
	}
	return nil
}
