package handlers

import (
	"errors"
	"net/http"

	"github.com/Fi44er/points_bot/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeInternal           = "internal_error"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
	ErrCodeValidation         = "validation_failed"
	ErrCodeAlreadyProcessed   = "already_processed"
	ErrCodeInsufficientPoints = "insufficient_points"
	ErrCodeRewardInactive     = "reward_inactive"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeReferralGone       = "referral_unavailable"
)

// writeError maps engine errors onto the envelope. AlreadyProcessed gets its
// own code so clients can show it as "already handled".
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReferralUnavailable):
		fail(c, http.StatusConflict, ErrCodeReferralGone, "referred user no longer exists, decline the redemption")
	case errors.Is(err, service.ErrValidation):
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, service.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyProcessed):
		fail(c, http.StatusConflict, ErrCodeAlreadyProcessed, "already processed")
	case errors.Is(err, service.ErrInsufficientPoints):
		fail(c, http.StatusBadRequest, ErrCodeInsufficientPoints, "insufficient points")
	case errors.Is(err, service.ErrRewardInactive):
		fail(c, http.StatusBadRequest, ErrCodeRewardInactive, "reward is not available")
	case errors.Is(err, service.ErrPromoExists):
		fail(c, http.StatusConflict, ErrCodeConflict, "promo code already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid credentials")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
