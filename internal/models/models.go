package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

type User struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ChatID   *int64 `gorm:"uniqueIndex" json:"chatId,omitempty"`
	Username string `gorm:"index" json:"username"`
	Password string `json:"-"`
	Role     Role   `gorm:"type:varchar(16);default:user" json:"role"`
	Credits  int64  `gorm:"not null;default:0" json:"credits"`
	Points   int64  `gorm:"not null;default:0" json:"points"`

	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// DisplayName falls back to the chat id for users without a Telegram username.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.ChatID != nil {
		return "User_" + strconv.FormatInt(*u.ChatID, 10)
	}
	return "User"
}

type Transaction struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string     `gorm:"index;type:varchar(36)" json:"userId"`
	Username    string     `json:"username"`
	ChatID      int64      `json:"chatId"`
	Credits     int64      `json:"credits"`
	Amount      float64    `json:"amount"`
	PromoCode   string     `json:"promoCode,omitempty"`
	Receipt     string     `gorm:"type:text" json:"receipt,omitempty"`
	Note        string     `json:"note,omitempty"`
	Status      Status     `gorm:"index;type:varchar(16)" json:"status"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type Reward struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        RewardType `gorm:"type:varchar(32)" json:"type"`
	PointsCost  int64      `json:"pointsCost"`
	Value       float64    `json:"value"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (r *Reward) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type Redemption struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string     `gorm:"index;type:varchar(36)" json:"userId"`
	Username    string     `json:"username"`
	ChatID      int64      `json:"chatId"`
	RewardID    string     `gorm:"type:varchar(36)" json:"rewardId"`
	RewardName  string     `json:"rewardName"`
	RewardType  RewardType `gorm:"type:varchar(32)" json:"rewardType"`
	RewardValue float64    `json:"rewardValue"`
	PointsUsed  int64      `json:"pointsUsed"`
	FormData    FormData   `gorm:"serializer:json;type:text" json:"formData"`
	Status      Status     `gorm:"index;type:varchar(16)" json:"status"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (r *Redemption) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Claim rebuilds the reward variant from the stored snapshot.
func (r *Redemption) Claim() (RewardClaim, error) {
	return NewRewardClaim(r.RewardType, r.FormData)
}

type HistoryType string

const (
	HistoryEarned   HistoryType = "earned"
	HistorySpent    HistoryType = "spent"
	HistoryRefunded HistoryType = "refunded"
)

// PointsHistory is append-only. Points is signed so that the sum of a user's
// rows equals their balance.
type PointsHistory struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        string      `gorm:"index;type:varchar(36)" json:"userId"`
	Points        int64       `json:"points"`
	Type          HistoryType `gorm:"index;type:varchar(16)" json:"type"`
	Description   string      `json:"description"`
	TransactionID *string     `gorm:"type:varchar(36)" json:"transactionId,omitempty"`
	RedemptionID  *string     `gorm:"type:varchar(36)" json:"redemptionId,omitempty"`
	CreatedAt     time.Time   `gorm:"index" json:"createdAt"`
}

func (PointsHistory) TableName() string {
	return "points_history"
}

type PromoCode struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Code      string    `gorm:"uniqueIndex;type:varchar(64)" json:"code"`
	Discount  float64   `json:"discount"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *PromoCode) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

const SettingsID = 1

// Settings is the configuration singleton editable from the admin panel.
type Settings struct {
	ID             uint    `gorm:"primaryKey" json:"-"`
	BotToken       string  `json:"botToken"`
	ChatID         int64   `json:"chatId"`
	PricePerCredit float64 `json:"pricePerCredit"`
	MaxPurchase    *int64  `json:"maxPurchase"`
	BankName       string  `json:"bankName"`
	AccountNumber  string  `json:"accountNumber"`
	AccountName    string  `json:"accountName"`

	Tier1MinCredits int64   `json:"-"`
	Tier1Rate       float64 `json:"-"`
	Tier2MinCredits int64   `json:"-"`
	Tier2Rate       float64 `json:"-"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func DefaultSettings() Settings {
	cfg := DefaultPointsConfig()
	s := Settings{
		ID:             SettingsID,
		PricePerCredit: 800.0 / 20,
	}
	s.SetPointsConfig(cfg)
	return s
}

func (s *Settings) PointsConfig() PointsConfig {
	return PointsConfig{
		Threshold1: PointsTier{MinCredits: s.Tier1MinCredits, PointsPerCredit: s.Tier1Rate},
		Threshold2: PointsTier{MinCredits: s.Tier2MinCredits, PointsPerCredit: s.Tier2Rate},
	}
}

func (s *Settings) SetPointsConfig(cfg PointsConfig) {
	s.Tier1MinCredits = cfg.Threshold1.MinCredits
	s.Tier1Rate = cfg.Threshold1.PointsPerCredit
	s.Tier2MinCredits = cfg.Threshold2.MinCredits
	s.Tier2Rate = cfg.Threshold2.PointsPerCredit
}
