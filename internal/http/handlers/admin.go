package handlers

import (
	"context"
	"net/http"

	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/internal/service"
	"github.com/gin-gonic/gin"
)

const recentTransactions = 10

type CreateRewardRequest struct {
	Name        string            `json:"name" binding:"required,max=120"`
	Description string            `json:"description" binding:"max=1000"`
	Type        models.RewardType `json:"type" binding:"required,rewardtype"`
	PointsCost  int64             `json:"pointsCost" binding:"required,gt=0"`
	Value       float64           `json:"value" binding:"gte=0"`
	Active      *bool             `json:"active"`
}

type UpdateRewardRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=120"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	PointsCost  *int64   `json:"pointsCost" binding:"omitempty,gt=0"`
	Value       *float64 `json:"value" binding:"omitempty,gte=0"`
	Active      *bool    `json:"active"`
}

type CreatePromoRequest struct {
	Code     string  `json:"code" binding:"required,max=64"`
	Discount float64 `json:"discount" binding:"required,gt=0,lte=100"`
	Active   *bool   `json:"active"`
}

type TogglePromoRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type TelegramSettingsRequest struct {
	BotToken string `json:"botToken" binding:"required"`
	ChatID   int64  `json:"chatId" binding:"required"`
}

type PricingRequest struct {
	PricePerCredit float64 `json:"pricePerCredit" binding:"required,gt=0"`
	MaxPurchase    *int64  `json:"maxPurchase"`
}

// AdminConfig is the full settings view, including the bot token.
type AdminConfig struct {
	*models.Settings
	Points models.PointsConfig `json:"pointsConfig"`
}

func (h *Handlers) Stats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, stats)
}

func (h *Handlers) RecentTransactions(c *gin.Context) {
	h.listTransactions(c, recentTransactions)
}

func (h *Handlers) AllTransactions(c *gin.Context) {
	h.listTransactions(c, 0)
}

func (h *Handlers) listTransactions(c *gin.Context, limit int) {
	txs, err := h.svc.ListTransactions(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"transactions": txs})
}

func (h *Handlers) Transaction(c *gin.Context) {
	tx, err := h.svc.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"transaction": tx})
}

func (h *Handlers) ApproveTransaction(c *gin.Context) {
	h.decide(c, h.svc.ApproveTransaction, models.StatusApproved)
}

func (h *Handlers) DeclineTransaction(c *gin.Context) {
	h.decide(c, h.svc.DeclineTransaction, models.StatusDeclined)
}

func (h *Handlers) Redemptions(c *gin.Context) {
	reds, err := h.svc.ListRedemptions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"redemptions": reds})
}

func (h *Handlers) Redemption(c *gin.Context) {
	red, err := h.svc.GetRedemption(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"redemption": red})
}

func (h *Handlers) ApproveRedemption(c *gin.Context) {
	h.decide(c, h.svc.ApproveRedemption, models.StatusApproved)
}

func (h *Handlers) DeclineRedemption(c *gin.Context) {
	h.decide(c, h.svc.DeclineRedemption, models.StatusDeclined)
}

// decide runs one ApprovalPort method for the :id path parameter.
func (h *Handlers) decide(c *gin.Context, fn func(ctx context.Context, id string) error, status models.Status) {
	id := c.Param("id")
	if err := fn(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"success": true, "id": id, "status": status})
}

func (h *Handlers) AllRewards(c *gin.Context) {
	rewards, err := h.svc.ListRewards(c.Request.Context(), false)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"rewards": rewards})
}

func (h *Handlers) CreateReward(c *gin.Context) {
	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}
	reward, err := h.svc.CreateReward(c.Request.Context(), service.RewardInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		PointsCost:  req.PointsCost,
		Value:       req.Value,
		Active:      req.Active,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reward": reward})
}

func (h *Handlers) UpdateReward(c *gin.Context) {
	var req UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}
	reward, err := h.svc.UpdateReward(c.Request.Context(), c.Param("id"), service.RewardPatch{
		Name:        req.Name,
		Description: req.Description,
		PointsCost:  req.PointsCost,
		Value:       req.Value,
		Active:      req.Active,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"reward": reward})
}

func (h *Handlers) DeleteReward(c *gin.Context) {
	if err := h.svc.DeleteReward(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"success": true})
}

func (h *Handlers) Promos(c *gin.Context) {
	promos, err := h.svc.ListPromos(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"promos": promos})
}

func (h *Handlers) CreatePromo(c *gin.Context) {
	var req CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}
	active := req.Active == nil || *req.Active
	promo, err := h.svc.CreatePromo(c.Request.Context(), req.Code, req.Discount, active)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"promo": promo})
}

func (h *Handlers) TogglePromo(c *gin.Context) {
	var req TogglePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "active is required")
		return
	}
	if err := h.svc.SetPromoActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"success": true, "active": *req.Active})
}

func (h *Handlers) DeletePromo(c *gin.Context) {
	if err := h.svc.DeletePromo(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"success": true})
}

func (h *Handlers) AdminConfig(c *gin.Context) {
	settings, err := h.svc.GetSettings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, AdminConfig{Settings: settings, Points: settings.PointsConfig()})
}

func (h *Handlers) UpdateTelegramConfig(c *gin.Context) {
	var req TelegramSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "botToken and chatId are required")
		return
	}
	h.updated(c, h.svc.UpdateTelegramSettings(c.Request.Context(), req.BotToken, req.ChatID))
}

func (h *Handlers) UpdatePricingConfig(c *gin.Context) {
	var req PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "pricePerCredit must be positive")
		return
	}
	h.updated(c, h.svc.UpdatePricing(c.Request.Context(), req.PricePerCredit, req.MaxPurchase))
}

func (h *Handlers) UpdateAccountConfig(c *gin.Context) {
	var req models.BankDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid account details")
		return
	}
	h.updated(c, h.svc.UpdateAccountDetails(c.Request.Context(), req))
}

func (h *Handlers) UpdatePointsConfig(c *gin.Context) {
	var req models.PointsConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid points config")
		return
	}
	h.updated(c, h.svc.UpdatePointsConfig(c.Request.Context(), req))
}

func (h *Handlers) updated(c *gin.Context, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"success": true})
}
