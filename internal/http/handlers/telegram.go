package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/Fi44er/points_bot/internal/http/middleware"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const telegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// TelegramWebhook feeds inbound updates to the bot. Telegram retries anything
// other than 200, so processing problems are logged and still answered 200.
type TelegramWebhook struct {
	updates UpdateHandler
	secret  string
}

func NewTelegramWebhook(updates UpdateHandler, secret string) *TelegramWebhook {
	return &TelegramWebhook{updates: updates, secret: secret}
}

func (h *TelegramWebhook) Handle(c *gin.Context) {
	if h.secret != "" {
		got := c.GetHeader(telegramSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid webhook secret")
			return
		}
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		middleware.LoggerFrom(c).Warnf("Malformed telegram update: %v", err)
		c.Status(http.StatusOK)
		return
	}

	h.updates.HandleUpdate(c.Request.Context(), update)
	c.Status(http.StatusOK)
}
