package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeUpdater struct {
	mu      sync.Mutex
	ch      chan tgbotapi.Update
	polling bool
	stopped bool
}

func (u *fakeUpdater) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (u *fakeUpdater) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.polling = true
	return u.ch
}

func (u *fakeUpdater) StopReceivingUpdates() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.stopped = true
}

func (u *fakeUpdater) state() (polling, stopped bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.polling, u.stopped
}

type mutableCreds struct {
	mu    sync.Mutex
	token string
}

func (c *mutableCreds) set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *mutableCreds) TelegramCredentials(context.Context) (string, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, adminChat, nil
}

type fakeConnector struct {
	mu       sync.Mutex
	attempts map[string]int
	updaters map[string]*fakeUpdater
}

func (f *fakeConnector) connect(token string) (Updater, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[token]++
	if token == "bad" {
		return nil, errors.New("Unauthorized")
	}
	u := &fakeUpdater{ch: make(chan tgbotapi.Update)}
	f.updaters[token] = u
	return u, nil
}

func (f *fakeConnector) attemptsFor(token string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[token]
}

func (f *fakeConnector) updater(token string) *fakeUpdater {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updaters[token]
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPoll_RecoversAndFollowsTokenChanges(t *testing.T) {
	creds := &mutableCreds{}
	conn := &fakeConnector{attempts: map[string]int{}, updaters: map[string]*fakeUpdater{}}
	provider := NewClientProvider(creds, func(string) (Client, error) { return &fakeClient{}, nil })
	b := NewBot(provider, &fakeApprovals{}, &fakeUsers{users: map[int64]*models.User{}}, NewMemoryDeduper(time.Minute), utils.NopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		b.Poll(ctx, creds, conn.connect, 10*time.Millisecond)
	}()

	creds.set("bad")
	waitFor(t, "connect retries with a rejected token", func() bool { return conn.attemptsFor("bad") >= 2 })

	creds.set("good")
	waitFor(t, "polling with the configured token", func() bool {
		u := conn.updater("good")
		if u == nil {
			return false
		}
		polling, _ := u.state()
		return polling
	})

	creds.set("rotated")
	waitFor(t, "session restart after token rotation", func() bool {
		u := conn.updater("rotated")
		if u == nil {
			return false
		}
		polling, _ := u.state()
		return polling
	})
	if _, stopped := conn.updater("good").state(); !stopped {
		t.Fatal("old session still receiving updates")
	}

	cancel()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Poll did not return after cancel")
	}
	if _, stopped := conn.updater("rotated").state(); !stopped {
		t.Fatal("session left running after shutdown")
	}
}
