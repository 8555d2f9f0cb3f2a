package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/utils"
)

// MinPurchaseCredits is the smallest purchase a user may request.
const MinPurchaseCredits = 100

type CreateTransactionInput struct {
	UserID    string
	Credits   int64
	PromoCode string
	Receipt   string
	Note      string
}

// CalculatePrice returns credits*rate reduced by discount percent, rounded to
// cents.
func CalculatePrice(credits int64, pricePerCredit, discount float64) float64 {
	price := float64(credits) * pricePerCredit
	if discount > 0 {
		price = price * (100 - discount) / 100
	}
	return utils.RoundTo(price, 2)
}

func (s *Service) CreateTransaction(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error) {
	if in.Credits < MinPurchaseCredits {
		return nil, invalid("credits", fmt.Sprintf("must be at least %d", MinPurchaseCredits))
	}
	if strings.TrimSpace(in.Receipt) == "" {
		return nil, invalid("receipt", "is required")
	}

	user, err := s.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.MaxPurchase != nil && *settings.MaxPurchase > 0 && in.Credits > *settings.MaxPurchase {
		return nil, invalid("credits", fmt.Sprintf("must not exceed %d", *settings.MaxPurchase))
	}

	tx := &models.Transaction{
		UserID:    user.ID,
		Username:  user.DisplayName(),
		Credits:   in.Credits,
		Receipt:   in.Receipt,
		Note:      strings.TrimSpace(in.Note),
		Status:    models.StatusPending,
		CreatedAt: s.now(),
	}
	if user.ChatID != nil {
		tx.ChatID = *user.ChatID
	}

	discount := 0.0
	if code := normalizeCode(in.PromoCode); code != "" {
		promo, err := s.repo.GetPromoByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if promo != nil && promo.Active {
			discount = promo.Discount
			tx.PromoCode = promo.Code
		} else {
			s.logger.Debugf("Promo code %s is unknown or inactive, charging full price", code)
		}
	}
	tx.Amount = CalculatePrice(in.Credits, settings.PricePerCredit, discount)

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.Infof("Transaction %s created: user=%s credits=%d amount=%.2f", tx.ID, user.ID, tx.Credits, tx.Amount)

	s.notifyAsync(Notification{
		Message:  transactionMessage(tx),
		EntityID: tx.ID,
		Media:    decodeReceipt(tx.Receipt),
	})
	return tx, nil
}

func (s *Service) ApproveTransaction(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.ObserveDecision("transaction", "approve", outcome(err)) }()

	var earned int64
	err = s.repo.InTransaction(ctx, func(repo Repository) error {
		tx, err := s.claimTransaction(ctx, repo, id, models.StatusApproved)
		if err != nil {
			return err
		}

		if err := repo.IncrementCredits(ctx, tx.UserID, tx.Credits); err != nil {
			return userNotFound(err)
		}

		settings, err := repo.GetSettings(ctx)
		if err != nil {
			return err
		}
		earned = CalculatePointsEarned(tx.Credits, settings.PointsConfig())
		if earned <= 0 {
			return nil
		}
		if err := repo.IncrementPoints(ctx, tx.UserID, earned); err != nil {
			return userNotFound(err)
		}
		return appendHistory(ctx, repo, &models.PointsHistory{
			UserID:        tx.UserID,
			Points:        earned,
			Type:          models.HistoryEarned,
			Description:   fmt.Sprintf("Earned from %d credit purchase", tx.Credits),
			TransactionID: &tx.ID,
			CreatedAt:     s.now(),
		})
	})
	if err != nil {
		s.logger.Warnf("Approve transaction %s: %v", id, err)
		return err
	}
	s.logger.Infof("Transaction %s approved, %d points awarded", id, earned)
	return nil
}

func (s *Service) DeclineTransaction(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.ObserveDecision("transaction", "decline", outcome(err)) }()

	err = s.repo.InTransaction(ctx, func(repo Repository) error {
		_, err := s.claimTransaction(ctx, repo, id, models.StatusDeclined)
		return err
	})
	if err != nil {
		s.logger.Warnf("Decline transaction %s: %v", id, err)
		return err
	}
	s.logger.Infof("Transaction %s declined", id)
	return nil
}

// claimTransaction moves a pending transaction to status with one conditional
// UPDATE. Only the caller whose update matched may apply side effects.
func (s *Service) claimTransaction(ctx context.Context, repo Repository, id string, status models.Status) (*models.Transaction, error) {
	applied, err := repo.TransitionTransaction(ctx, id, status, s.now())
	if err != nil {
		return nil, err
	}
	tx, err := repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	if !applied {
		return nil, fmt.Errorf("transaction %s is %s: %w", id, tx.Status, ErrAlreadyProcessed)
	}
	return tx, nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}

func (s *Service) ListUserTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	return s.repo.ListTransactionsByUser(ctx, userID)
}

func (s *Service) ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	return s.repo.ListTransactions(ctx, limit)
}
