package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fi44er/points_bot/internal/models"
)

func (s *Service) GetSettings(ctx context.Context) (*models.Settings, error) {
	return s.repo.GetSettings(ctx)
}

// TelegramCredentials returns the bot token and admin chat the notifier and
// the webhook handler should use right now.
func (s *Service) TelegramCredentials(ctx context.Context) (string, int64, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return "", 0, err
	}
	return settings.BotToken, settings.ChatID, nil
}

func (s *Service) UpdateTelegramSettings(ctx context.Context, botToken string, chatID int64) error {
	botToken = strings.TrimSpace(botToken)
	if botToken == "" {
		return invalid("botToken", "is required")
	}
	if chatID == 0 {
		return invalid("chatId", "is required")
	}
	if err := s.repo.UpdateSettings(ctx, map[string]interface{}{
		"bot_token": botToken,
		"chat_id":   chatID,
	}); err != nil {
		return err
	}
	s.logger.Infof("Telegram settings updated, admin chat %d", chatID)
	return nil
}

// UpdatePricing sets the price per credit and the optional purchase cap. A nil
// maxPurchase removes the cap.
func (s *Service) UpdatePricing(ctx context.Context, pricePerCredit float64, maxPurchase *int64) error {
	if pricePerCredit <= 0 {
		return invalid("pricePerCredit", "must be positive")
	}
	if maxPurchase != nil && *maxPurchase < MinPurchaseCredits {
		return invalid("maxPurchase", fmt.Sprintf("must be at least %d", MinPurchaseCredits))
	}
	if err := s.repo.UpdateSettings(ctx, map[string]interface{}{
		"price_per_credit": pricePerCredit,
		"max_purchase":     maxPurchase,
	}); err != nil {
		return err
	}
	s.logger.Infof("Pricing updated: %.2f per credit", pricePerCredit)
	return nil
}

// UpdateAccountDetails sets the bank account users transfer money to.
func (s *Service) UpdateAccountDetails(ctx context.Context, bank models.BankDetails) error {
	bank.BankName = strings.TrimSpace(bank.BankName)
	bank.AccountNumber = strings.TrimSpace(bank.AccountNumber)
	bank.AccountName = strings.TrimSpace(bank.AccountName)
	if bank.BankName == "" || bank.AccountNumber == "" || bank.AccountName == "" {
		return invalid("account", "bank name, account number and account name are required")
	}
	return s.repo.UpdateSettings(ctx, map[string]interface{}{
		"bank_name":      bank.BankName,
		"account_number": bank.AccountNumber,
		"account_name":   bank.AccountName,
	})
}
