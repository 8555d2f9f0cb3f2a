package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/internal/repository"
)

type CreateRedemptionInput struct {
	UserID   string
	RewardID string
	Form     models.FormData
}

// CreateRedemption escrows the reward cost from the user's points and records
// a pending redemption. The deduction is guarded by the stored balance, so two
// concurrent redemptions can never spend the same points.
func (s *Service) CreateRedemption(ctx context.Context, in CreateRedemptionInput) (*models.Redemption, error) {
	var (
		red   *models.Redemption
		claim models.RewardClaim
	)
	err := s.repo.InTransaction(ctx, func(repo Repository) error {
		reward, err := repo.GetReward(ctx, in.RewardID)
		if err != nil {
			return err
		}
		if reward == nil {
			return ErrRewardNotFound
		}
		if !reward.Active {
			return ErrRewardInactive
		}

		user, err := repo.GetUser(ctx, in.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		if user.Points < reward.PointsCost {
			return ErrInsufficientPoints
		}

		claim, err = models.NewRewardClaim(reward.Type, in.Form)
		if err != nil {
			var ce *models.ClaimError
			if errors.As(err, &ce) {
				return invalid(ce.Field, ce.Reason)
			}
			return err
		}
		if ref, ok := claim.(models.ReferralClaim); ok {
			if err := checkReferral(ctx, repo, user, ref); err != nil {
				return err
			}
		}

		ok, err := repo.DeductPoints(ctx, user.ID, reward.PointsCost)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientPoints
		}

		red = &models.Redemption{
			UserID:      user.ID,
			Username:    user.DisplayName(),
			RewardID:    reward.ID,
			RewardName:  reward.Name,
			RewardType:  reward.Type,
			RewardValue: reward.Value,
			PointsUsed:  reward.PointsCost,
			FormData:    claim.Form(),
			Status:      models.StatusPending,
			CreatedAt:   s.now(),
		}
		if user.ChatID != nil {
			red.ChatID = *user.ChatID
		}
		if err := repo.CreateRedemption(ctx, red); err != nil {
			return err
		}
		if red.PointsUsed == 0 {
			return nil
		}
		return appendHistory(ctx, repo, &models.PointsHistory{
			UserID:       user.ID,
			Points:       -red.PointsUsed,
			Type:         models.HistorySpent,
			Description:  "Redeemed: " + reward.Name,
			RedemptionID: &red.ID,
			CreatedAt:    s.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Redemption %s created: user=%s reward=%s points=%d", red.ID, red.UserID, red.RewardID, red.PointsUsed)

	s.notifyAsync(Notification{
		Message:      redemptionMessage(red, claim),
		EntityID:     red.ID,
		IsRedemption: true,
	})
	return red, nil
}

func checkReferral(ctx context.Context, repo Repository, requester *models.User, ref models.ReferralClaim) error {
	if requester.ChatID != nil && *requester.ChatID == ref.ReferralChatID {
		return invalid("referralChatId", "cannot refer yourself")
	}
	target, err := repo.GetUserByChatID(ctx, ref.ReferralChatID)
	if err != nil {
		return err
	}
	if target == nil {
		return invalid("referralChatId", "does not belong to a registered user")
	}
	if target.ID == requester.ID {
		return invalid("referralChatId", "cannot refer yourself")
	}
	return nil
}

func (s *Service) ApproveRedemption(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.ObserveDecision("redemption", "approve", outcome(err)) }()

	err = s.repo.InTransaction(ctx, func(repo Repository) error {
		red, err := s.claimRedemption(ctx, repo, id, models.StatusApproved)
		if err != nil {
			return err
		}
		claim, err := red.Claim()
		if err != nil {
			return fmt.Errorf("redemption %s has an unusable claim: %w", id, err)
		}
		return applyReward(ctx, repo, red, claim)
	})
	if err != nil {
		s.logger.Warnf("Approve redemption %s: %v", id, err)
		return err
	}
	s.logger.Infof("Redemption %s approved", id)
	return nil
}

// applyReward performs the balance effect of an approved claim. Cash,
// password reset and custom rewards are fulfilled outside the system.
func applyReward(ctx context.Context, repo Repository, red *models.Redemption, claim models.RewardClaim) error {
	switch c := claim.(type) {
	case models.CreditsClaim:
		if err := repo.IncrementCredits(ctx, red.UserID, rewardCredits(red.RewardValue)); err != nil {
			return userNotFound(err)
		}
	case models.ReferralClaim:
		err := repo.IncrementCreditsByChatID(ctx, c.ReferralChatID, rewardCredits(red.RewardValue))
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("referral chat %d: %w", c.ReferralChatID, ErrReferralUnavailable)
		}
		if err != nil {
			return err
		}
	case models.PasswordResetClaim, models.CashClaim, models.CustomClaim:
	default:
		return fmt.Errorf("unhandled reward claim %T", claim)
	}
	return nil
}

func rewardCredits(value float64) int64 {
	return int64(math.Round(value))
}

// DeclineRedemption refunds the escrowed points.
func (s *Service) DeclineRedemption(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.ObserveDecision("redemption", "decline", outcome(err)) }()

	err = s.repo.InTransaction(ctx, func(repo Repository) error {
		red, err := s.claimRedemption(ctx, repo, id, models.StatusDeclined)
		if err != nil {
			return err
		}
		if red.PointsUsed == 0 {
			return nil
		}
		if err := repo.IncrementPoints(ctx, red.UserID, red.PointsUsed); err != nil {
			return userNotFound(err)
		}
		return appendHistory(ctx, repo, &models.PointsHistory{
			UserID:       red.UserID,
			Points:       red.PointsUsed,
			Type:         models.HistoryRefunded,
			Description:  "Refunded from declined redemption: " + red.RewardName,
			RedemptionID: &red.ID,
			CreatedAt:    s.now(),
		})
	})
	if err != nil {
		s.logger.Warnf("Decline redemption %s: %v", id, err)
		return err
	}
	s.logger.Infof("Redemption %s declined, points refunded", id)
	return nil
}

func (s *Service) claimRedemption(ctx context.Context, repo Repository, id string, status models.Status) (*models.Redemption, error) {
	applied, err := repo.TransitionRedemption(ctx, id, status, s.now())
	if err != nil {
		return nil, err
	}
	red, err := repo.GetRedemption(ctx, id)
	if err != nil {
		return nil, err
	}
	if red == nil {
		return nil, ErrRedemptionNotFound
	}
	if !applied {
		return nil, fmt.Errorf("redemption %s is %s: %w", id, red.Status, ErrAlreadyProcessed)
	}
	return red, nil
}

func (s *Service) GetRedemption(ctx context.Context, id string) (*models.Redemption, error) {
	red, err := s.repo.GetRedemption(ctx, id)
	if err != nil {
		return nil, err
	}
	if red == nil {
		return nil, ErrRedemptionNotFound
	}
	return red, nil
}

func (s *Service) ListUserRedemptions(ctx context.Context, userID string) ([]models.Redemption, error) {
	return s.repo.ListRedemptionsByUser(ctx, userID)
}

func (s *Service) ListRedemptions(ctx context.Context) ([]models.Redemption, error) {
	return s.repo.ListRedemptions(ctx)
}
