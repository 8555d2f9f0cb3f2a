package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/internal/service"
	"github.com/Fi44er/points_bot/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UserRegistry binds Telegram chats to user accounts.
type UserRegistry interface {
	RegisterChatUser(ctx context.Context, chatID int64, username string) (*models.User, bool, error)
}

type Bot struct {
	provider  *ClientProvider
	approvals service.ApprovalPort
	users     UserRegistry
	dedup     Deduper
	logger    *utils.Logger
}

func NewBot(
	provider *ClientProvider,
	approvals service.ApprovalPort,
	users UserRegistry,
	dedup Deduper,
	logger *utils.Logger,
) *Bot {
	return &Bot{
		provider:  provider,
		approvals: approvals,
		users:     users,
		dedup:     dedup,
		logger:    logger,
	}
}

// Start long-polls api until ctx is done or the update stream closes.
func (b *Bot) Start(ctx context.Context, api Updater) error {
	b.logger.Info("Starting bot in polling mode...")
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		b.logger.Warnf("Failed to delete webhook: %v", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes one update from either the webhook or polling.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.logger.Debugf("Received update %d", update.UpdateID)

	// Only private chats register users; group chatter (including the admin
	// group) is ignored.
	if msg := update.Message; msg != nil && (msg.Chat == nil || !msg.Chat.IsPrivate()) {
		b.logger.Debugf("Ignoring message from non-private chat in update %d", update.UpdateID)
		return
	}

	// The update is marked as seen only once it can be dispatched, so a
	// redelivery after a settings failure is still processed.
	client, adminChatID, err := b.provider.Client(ctx)
	if err != nil {
		b.logger.Errorf("Telegram client unavailable: %v", err)
		return
	}

	if b.dedup != nil {
		seen, err := b.dedup.Seen(ctx, update.UpdateID)
		if err != nil {
			b.logger.Warnf("Update dedup failed, processing anyway: %v", err)
		} else if seen {
			b.logger.Infof("Skipping duplicate update %d", update.UpdateID)
			return
		}
	}

	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, client, adminChatID, update.CallbackQuery)
	case update.Message != nil:
		b.withUserCheck(client, b.handleMessage)(ctx, update)
	}
}

func (b *Bot) handleMessage(ctx context.Context, client Client, update tgbotapi.Update, user *models.User, created bool) {
	chatID := update.Message.Chat.ID
	switch update.Message.Command() {
	case "start":
		greeting := "👋 Welcome back"
		if created {
			greeting = "👋 Welcome! Your account has been created"
		}
		b.sendMessage(client, chatID, fmt.Sprintf(
			"%s, <b>%s</b>.\n\n💬 Your Chat ID: <code>%d</code>\nUse it to log in on the website.",
			greeting, escape(user.DisplayName()), chatID,
		), nil)
	case "id":
		b.sendMessage(client, chatID, fmt.Sprintf("💬 Your Chat ID: <code>%d</code>", chatID), nil)
	default:
		b.sendMessage(client, chatID, "Send /start to get your Chat ID.", nil)
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, client Client, adminChatID int64, cq *tgbotapi.CallbackQuery) {
	if !isAdmin(cq, adminChatID) {
		b.answerCallback(client, cq.ID, "This action is only available to the administrator.")
		return
	}

	data, err := ParseCallbackData(cq.Data)
	if err != nil {
		b.logger.Warnf("Ignoring callback %q: %v", cq.Data, err)
		b.answerCallback(client, cq.ID, "Unknown action")
		return
	}

	entity := "Transaction"
	if data.Redemption {
		entity = "Redemption"
	}

	err = b.decide(ctx, data)
	switch {
	case err == nil:
		b.markDecided(client, cq, data.Action)
		b.answerCallback(client, cq.ID, fmt.Sprintf("%s %sd successfully", entity, data.Action))
	case errors.Is(err, service.ErrAlreadyProcessed):
		b.clearKeyboard(client, cq)
		b.answerCallback(client, cq.ID, fmt.Sprintf("%s was already processed", entity))
	case errors.Is(err, service.ErrReferralUnavailable):
		b.answerCallback(client, cq.ID, "Referred user no longer exists, decline this redemption")
	case errors.Is(err, service.ErrNotFound):
		b.clearKeyboard(client, cq)
		b.answerCallback(client, cq.ID, fmt.Sprintf("%s not found", entity))
	default:
		b.logger.Errorf("Callback %s failed: %v", cq.Data, err)
		b.answerCallback(client, cq.ID, "❌ Failed to process the request, try again")
	}
}

func (b *Bot) decide(ctx context.Context, data CallbackData) error {
	switch {
	case data.Redemption && data.Action == ActionApprove:
		return b.approvals.ApproveRedemption(ctx, data.ID)
	case data.Redemption:
		return b.approvals.DeclineRedemption(ctx, data.ID)
	case data.Action == ActionApprove:
		return b.approvals.ApproveTransaction(ctx, data.ID)
	default:
		return b.approvals.DeclineTransaction(ctx, data.ID)
	}
}

// markDecided appends the decision to the notification and drops its buttons.
func (b *Bot) markDecided(client Client, cq *tgbotapi.CallbackQuery, action Action) {
	if cq.Message == nil {
		return
	}
	suffix := "\n\n✅ <b>APPROVED</b>"
	if action == ActionDecline {
		suffix = "\n\n❌ <b>DECLINED</b>"
	}

	msg := cq.Message
	var edit tgbotapi.Chattable
	if len(msg.Photo) > 0 {
		e := tgbotapi.NewEditMessageCaption(msg.Chat.ID, msg.MessageID, escape(msg.Caption)+suffix)
		e.ParseMode = tgbotapi.ModeHTML
		edit = e
	} else {
		e := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, escape(msg.Text)+suffix)
		e.ParseMode = tgbotapi.ModeHTML
		edit = e
	}
	if _, err := client.Request(edit); err != nil {
		b.logger.Errorf("Failed to edit message %d: %v", msg.MessageID, err)
	}
}

func (b *Bot) clearKeyboard(client Client, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(cq.Message.Chat.ID, cq.Message.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := client.Request(edit); err != nil {
		b.logger.Errorf("Failed to clear keyboard on message %d: %v", cq.Message.MessageID, err)
	}
}

func isAdmin(cq *tgbotapi.CallbackQuery, adminChatID int64) bool {
	if cq.From != nil && cq.From.ID == adminChatID {
		return true
	}
	return cq.Message != nil && cq.Message.Chat != nil && cq.Message.Chat.ID == adminChatID
}
