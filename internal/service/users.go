package service

import (
	"context"
	"strings"

	"github.com/Fi44er/points_bot/internal/auth"
	"github.com/Fi44er/points_bot/internal/models"
)

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// LoginByChatID authenticates a user who registered through the bot.
func (s *Service) LoginByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	user, err := s.repo.GetUserByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) AdminLogin(ctx context.Context, username, password string) (*models.User, error) {
	admin, err := s.repo.GetAdminByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if admin == nil || !auth.CheckPassword(admin.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// RegisterChatUser returns the user bound to chatID, creating it on first
// contact with the bot.
func (s *Service) RegisterChatUser(ctx context.Context, chatID int64, username string) (*models.User, bool, error) {
	user, err := s.repo.GetUserByChatID(ctx, chatID)
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		return user, false, nil
	}

	user = &models.User{
		ChatID:    &chatID,
		Username:  strings.TrimPrefix(username, "@"),
		Role:      models.RoleUser,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// A concurrent /start may have won the unique chat_id index.
		existing, getErr := s.repo.GetUserByChatID(ctx, chatID)
		if getErr == nil && existing != nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	s.logger.Infof("User %s registered from chat %d", user.ID, chatID)
	return user, true, nil
}
