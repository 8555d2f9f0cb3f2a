package handlers

import (
	"sync"

	"github.com/Fi44er/points_bot/internal/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request DTOs to
// gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("rewardtype", func(fl validator.FieldLevel) bool {
			return models.RewardType(fl.Field().String()).Valid()
		})
	})
}
