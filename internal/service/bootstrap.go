package service

import (
	"context"
	"fmt"

	"github.com/Fi44er/points_bot/config"
	"github.com/Fi44er/points_bot/internal/auth"
	"github.com/Fi44er/points_bot/internal/models"
)

// Bootstrap seeds the settings singleton from the environment and makes sure
// the configured admin account exists with the configured password.
func (s *Service) Bootstrap(ctx context.Context, cfg *config.Config) error {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if settings.BotToken == "" && cfg.TelegramBotToken != "" {
		fields["bot_token"] = cfg.TelegramBotToken
	}
	if settings.ChatID == 0 && cfg.AdminChatID != 0 {
		fields["chat_id"] = cfg.AdminChatID
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateSettings(ctx, fields); err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
		s.logger.Info("Telegram settings seeded from configuration")
	}

	if cfg.AdminPassword == "" {
		s.logger.Warn("ADMIN_PASSWORD is not set, admin login is disabled")
		return nil
	}
	return s.ensureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
}

func (s *Service) ensureAdmin(ctx context.Context, username, password string) error {
	admin, err := s.repo.GetAdminByUsername(ctx, username)
	if err != nil {
		return err
	}
	if admin != nil && auth.CheckPassword(admin.Password, password) {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if admin != nil {
		s.logger.Infof("Admin %s password rotated", username)
		return s.repo.UpdateUserPassword(ctx, admin.ID, hash)
	}

	admin = &models.User{Username: username, Password: hash, Role: models.RoleAdmin, CreatedAt: s.now()}
	if err := s.repo.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	s.logger.Infof("Admin %s created", username)
	return nil
}
