package bot

import (
	"context"
	"html"

	"github.com/Fi44er/points_bot/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type messageHandler func(ctx context.Context, client Client, update tgbotapi.Update, user *models.User, created bool)

// withUserCheck resolves or registers the sender before running handler.
func (b *Bot) withUserCheck(client Client, handler messageHandler) func(context.Context, tgbotapi.Update) {
	return func(ctx context.Context, update tgbotapi.Update) {
		chatID := update.Message.Chat.ID
		username := ""
		if update.Message.From != nil {
			username = update.Message.From.UserName
		}

		user, created, err := b.users.RegisterChatUser(ctx, chatID, username)
		if err != nil {
			b.logger.Errorf("Failed to register chat %d: %v", chatID, err)
			b.sendMessage(client, chatID, "An error occurred. Please try again later.", nil)
			return
		}

		handler(ctx, client, update, user, created)
	}
}

func (b *Bot) sendMessage(client Client, chatID int64, text string, replyMarkup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	if _, err := client.Send(msg); err != nil {
		b.logger.Errorf("Failed to send message: %v", err)
	}
}

func (b *Bot) answerCallback(client Client, callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := client.Request(callback); err != nil {
		b.logger.Errorf("Failed to answer callback: %v", err)
	}
}

func escape(s string) string {
	return html.EscapeString(s)
}
