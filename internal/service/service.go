package service

import (
	"context"
	"sync"
	"time"

	"github.com/Fi44er/points_bot/internal/metrics"
	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/utils"
)

const defaultNotifyTimeout = 15 * time.Second

type Service struct {
	repo          Repository
	notifier      Notifier
	logger        *utils.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
	notifyTimeout time.Duration
	inflight      sync.WaitGroup
}

// Repository is the ledger store. Balance changes go through the Increment*
// and DeductPoints methods only, never through a read-modify-write.
type Repository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByChatID(ctx context.Context, chatID int64) (*models.User, error)
	GetAdminByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserPassword(ctx context.Context, id, hash string) error
	IncrementCredits(ctx context.Context, userID string, delta int64) error
	IncrementCreditsByChatID(ctx context.Context, chatID, delta int64) error
	IncrementPoints(ctx context.Context, userID string, delta int64) error
	DeductPoints(ctx context.Context, userID string, amount int64) (bool, error)

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error)
	ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error)
	TransitionTransaction(ctx context.Context, id string, status models.Status, at time.Time) (bool, error)
	CountTransactionsByStatus(ctx context.Context) (map[models.Status]int64, error)
	SumApprovedAmount(ctx context.Context) (float64, error)

	CreateRedemption(ctx context.Context, redemption *models.Redemption) error
	GetRedemption(ctx context.Context, id string) (*models.Redemption, error)
	ListRedemptionsByUser(ctx context.Context, userID string) ([]models.Redemption, error)
	ListRedemptions(ctx context.Context) ([]models.Redemption, error)
	TransitionRedemption(ctx context.Context, id string, status models.Status, at time.Time) (bool, error)
	CountPendingRedemptions(ctx context.Context) (int64, error)

	CreateReward(ctx context.Context, reward *models.Reward) error
	GetReward(ctx context.Context, id string) (*models.Reward, error)
	ListRewards(ctx context.Context, activeOnly bool) ([]models.Reward, error)
	UpdateReward(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteReward(ctx context.Context, id string) error

	CreatePromo(ctx context.Context, promo *models.PromoCode) error
	GetPromoByCode(ctx context.Context, code string) (*models.PromoCode, error)
	ListPromos(ctx context.Context) ([]models.PromoCode, error)
	SetPromoActive(ctx context.Context, id string, active bool) error
	DeletePromo(ctx context.Context, id string) error

	AppendPointsHistory(ctx context.Context, entry *models.PointsHistory) error
	ListPointsHistory(ctx context.Context, userID string) ([]models.PointsHistory, error)
	SumPointsByType(ctx context.Context, typ models.HistoryType) (int64, error)

	GetSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, fields map[string]interface{}) error

	// InTransaction runs fn against a repository bound to one database
	// transaction. An error from fn rolls everything back.
	InTransaction(ctx context.Context, fn func(repo Repository) error) error
}

// NewService wires the engines. A nil notifier disables notifications.
func NewService(repo Repository, notifier Notifier, logger *utils.Logger, m *metrics.Metrics) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &Service{
		repo:          repo,
		notifier:      notifier,
		logger:        logger,
		metrics:       m,
		now:           time.Now,
		notifyTimeout: defaultNotifyTimeout,
	}
}

// Wait blocks until every notification started so far has finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}
