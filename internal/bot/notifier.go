package bot

import (
	"context"
	"fmt"

	"github.com/Fi44er/points_bot/internal/service"
	"github.com/Fi44er/points_bot/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier posts admin notifications to the configured Telegram chat.
type Notifier struct {
	provider *ClientProvider
	logger   *utils.Logger
}

func NewNotifier(provider *ClientProvider, logger *utils.Logger) *Notifier {
	return &Notifier{provider: provider, logger: logger}
}

var _ service.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(ctx context.Context, msg service.Notification) error {
	client, chatID, err := n.provider.Client(ctx)
	if err != nil {
		return err
	}
	if chatID == 0 {
		return fmt.Errorf("admin chat is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var markup interface{}
	if msg.EntityID != "" {
		markup = ActionKeyboard(msg.EntityID, msg.IsRedemption)
	}

	if len(msg.Media) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "receipt.jpg", Bytes: msg.Media})
		photo.Caption = msg.Message
		photo.ParseMode = tgbotapi.ModeHTML
		if markup != nil {
			photo.ReplyMarkup = markup
		}
		if _, err := client.Send(photo); err != nil {
			return fmt.Errorf("send photo: %w", err)
		}
	} else {
		text := tgbotapi.NewMessage(chatID, msg.Message)
		text.ParseMode = tgbotapi.ModeHTML
		if markup != nil {
			text.ReplyMarkup = markup
		}
		if _, err := client.Send(text); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}

	n.logger.Debugf("Notification for %s sent to chat %d", msg.EntityID, chatID)
	return nil
}

// ActionKeyboard is the approve/decline button pair for one entity.
func ActionKeyboard(entityID string, redemption bool) tgbotapi.InlineKeyboardMarkup {
	approve := CallbackData{Action: ActionApprove, ID: entityID, Redemption: redemption}
	decline := CallbackData{Action: ActionDecline, ID: entityID, Redemption: redemption}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", approve.String()),
			tgbotapi.NewInlineKeyboardButtonData("❌ Decline", decline.String()),
		),
	)
}
