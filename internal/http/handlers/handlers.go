// Package handlers implements the REST endpoints. Handlers bind and validate
// input, delegate to the service layer and translate the result.
package handlers

import (
	"context"

	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/internal/service"
)

// Service is everything the REST surface needs from the engines.
type Service interface {
	service.ApprovalPort

	LoginByChatID(ctx context.Context, chatID int64) (*models.User, error)
	AdminLogin(ctx context.Context, username, password string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)

	GetSettings(ctx context.Context) (*models.Settings, error)
	GetPointsConfig(ctx context.Context) (models.PointsConfig, error)
	ValidatePromo(ctx context.Context, code string) (*models.PromoCode, error)

	CreateTransaction(ctx context.Context, in service.CreateTransactionInput) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListUserTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error)

	PointsBalance(ctx context.Context, userID string) (int64, error)
	PointsHistory(ctx context.Context, userID string) ([]models.PointsHistory, error)
	ListRewards(ctx context.Context, activeOnly bool) ([]models.Reward, error)
	CreateRedemption(ctx context.Context, in service.CreateRedemptionInput) (*models.Redemption, error)
	GetRedemption(ctx context.Context, id string) (*models.Redemption, error)
	ListUserRedemptions(ctx context.Context, userID string) ([]models.Redemption, error)
	ListRedemptions(ctx context.Context) ([]models.Redemption, error)

	GetStats(ctx context.Context) (*service.Stats, error)
	CreateReward(ctx context.Context, in service.RewardInput) (*models.Reward, error)
	UpdateReward(ctx context.Context, id string, patch service.RewardPatch) (*models.Reward, error)
	DeleteReward(ctx context.Context, id string) error
	ListPromos(ctx context.Context) ([]models.PromoCode, error)
	CreatePromo(ctx context.Context, code string, discount float64, active bool) (*models.PromoCode, error)
	SetPromoActive(ctx context.Context, id string, active bool) error
	DeletePromo(ctx context.Context, id string) error
	UpdatePointsConfig(ctx context.Context, cfg models.PointsConfig) error
	UpdateTelegramSettings(ctx context.Context, botToken string, chatID int64) error
	UpdatePricing(ctx context.Context, pricePerCredit float64, maxPurchase *int64) error
	UpdateAccountDetails(ctx context.Context, bank models.BankDetails) error
}

type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type Handlers struct {
	svc    Service
	tokens TokenIssuer
}

func New(svc Service, tokens TokenIssuer) *Handlers {
	return &Handlers{svc: svc, tokens: tokens}
}
