package handlers

import (
	"net/http"

	"github.com/Fi44er/points_bot/internal/http/middleware"
	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/internal/service"
	"github.com/gin-gonic/gin"
)

type RedeemRequest struct {
	RewardID string          `json:"rewardId" binding:"required"`
	FormData models.FormData `json:"formData"`
}

func (h *Handlers) PointsBalance(c *gin.Context) {
	points, err := h.svc.PointsBalance(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"points": points})
}

func (h *Handlers) PointsConfig(c *gin.Context) {
	cfg, err := h.svc.GetPointsConfig(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, cfg)
}

// Rewards lists the active catalogue, cheapest first.
func (h *Handlers) Rewards(c *gin.Context) {
	rewards, err := h.svc.ListRewards(c.Request.Context(), true)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"rewards": rewards})
}

func (h *Handlers) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rewardId is required")
		return
	}
	red, err := h.svc.CreateRedemption(c.Request.Context(), service.CreateRedemptionInput{
		UserID:   middleware.UserIDFrom(c),
		RewardID: req.RewardID,
		Form:     req.FormData,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{
		"success":      true,
		"message":      "🎉 Redemption request submitted! Your request is being processed.",
		"redemptionId": red.ID,
	})
}

func (h *Handlers) PointsHistory(c *gin.Context) {
	history, err := h.svc.PointsHistory(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"history": history})
}

func (h *Handlers) UserRedemptions(c *gin.Context) {
	reds, err := h.svc.ListUserRedemptions(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"redemptions": reds})
}
