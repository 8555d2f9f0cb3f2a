package bot

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrNotConfigured = errors.New("telegram bot token is not configured")

// Client is the subset of *tgbotapi.BotAPI the bot needs.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type ClientFactory func(token string) (Client, error)

func NewBotAPIClient(token string) (Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return api, nil
}

// CredentialsSource yields the current bot token and admin chat. They live in
// the settings table and may change at runtime.
type CredentialsSource interface {
	TelegramCredentials(ctx context.Context) (string, int64, error)
}

// ClientProvider caches one client per token.
type ClientProvider struct {
	creds   CredentialsSource
	factory ClientFactory

	mu     sync.Mutex
	token  string
	client Client
}

func NewClientProvider(creds CredentialsSource, factory ClientFactory) *ClientProvider {
	if factory == nil {
		factory = NewBotAPIClient
	}
	return &ClientProvider{creds: creds, factory: factory}
}

// Client returns a client for the current token along with the admin chat id.
func (p *ClientProvider) Client(ctx context.Context) (Client, int64, error) {
	token, chatID, err := p.creds.TelegramCredentials(ctx)
	if err != nil {
		return nil, 0, err
	}
	if token == "" {
		return nil, 0, ErrNotConfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil && p.token == token {
		return p.client, chatID, nil
	}
	client, err := p.factory(token)
	if err != nil {
		return nil, 0, err
	}
	p.token, p.client = token, client
	return client, chatID, nil
}
