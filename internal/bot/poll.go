package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Updater is the long-polling surface of *tgbotapi.BotAPI.
type Updater interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UpdaterFactory func(token string) (Updater, error)

func NewBotAPIUpdater(token string) (Updater, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return api, nil
}

type pollSession struct {
	token  string
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *pollSession) running() bool {
	if s == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *pollSession) stop() {
	if s == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Poll keeps one long-polling session alive for the bot token stored in
// settings. Credentials are re-read every interval: a changed token restarts
// the session, and a failed connect or a dropped session is retried on the
// next tick. Poll never fails; it returns when ctx is done.
func (b *Bot) Poll(ctx context.Context, creds CredentialsSource, connect UpdaterFactory, interval time.Duration) {
	if connect == nil {
		connect = NewBotAPIUpdater
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var session *pollSession
	defer func() { session.stop() }()

	for {
		session = b.refreshPolling(ctx, creds, connect, session)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (b *Bot) refreshPolling(ctx context.Context, creds CredentialsSource, connect UpdaterFactory, session *pollSession) *pollSession {
	token, _, err := creds.TelegramCredentials(ctx)
	if err != nil {
		b.logger.Warnf("Polling: failed to read bot credentials: %v", err)
		return session
	}
	if session.running() && session.token == token {
		return session
	}

	if session.running() {
		b.logger.Info("Polling: bot token changed, restarting session")
	}
	session.stop()

	if token == "" {
		b.logger.Debug("Polling: bot token is not configured")
		return nil
	}

	api, err := connect(token)
	if err != nil {
		b.logger.Warnf("Polling: failed to connect to Telegram, will retry: %v", err)
		return nil
	}

	sctx, cancel := context.WithCancel(ctx)
	next := &pollSession{token: token, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(next.done)
		if err := b.Start(sctx, api); err != nil {
			b.logger.Errorf("Polling session ended: %v", err)
		}
	}()
	return next
}
