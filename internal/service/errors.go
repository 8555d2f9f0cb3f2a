package service

import (
	"errors"
	"fmt"

	"github.com/Fi44er/points_bot/internal/repository"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrRedemptionNotFound  = fmt.Errorf("redemption %w", ErrNotFound)
	ErrRewardNotFound      = fmt.Errorf("reward %w", ErrNotFound)
	ErrPromoNotFound       = fmt.Errorf("promo code %w", ErrNotFound)

	// ErrAlreadyProcessed is the expected result of the losing side of a
	// concurrent approve/decline.
	ErrAlreadyProcessed   = errors.New("already processed")
	ErrRewardInactive     = errors.New("reward is not active")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrPromoExists        = errors.New("promo code already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	// ErrReferralUnavailable means the referred account was removed after the
	// redemption was filed; the redemption can only be declined.
	ErrReferralUnavailable = errors.New("referred user no longer exists")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// userNotFound maps a repository miss on a user row to ErrUserNotFound.
func userNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// outcome is the metrics label for the result of a decision.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAlreadyProcessed):
		return "already_processed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
