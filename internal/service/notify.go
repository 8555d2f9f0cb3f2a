package service

import (
	"context"
	"encoding/base64"
	"strings"
)

// Notification is one message for the admin channel. When EntityID is set the
// sink attaches approve and decline actions for it.
type Notification struct {
	Message      string
	EntityID     string
	Media        []byte
	IsRedemption bool
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) error { return nil }

// notifyAsync dispatches n in the background. Failures are logged only, the
// state change that triggered it has already been committed.
func (s *Service) notifyAsync(n Notification) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorf("Notifier panic for %s: %v", n.EntityID, r)
				s.metrics.ObserveNotification("failed")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Errorf("Failed to send notification for %s: %v", n.EntityID, err)
			s.metrics.ObserveNotification("failed")
			return
		}
		s.metrics.ObserveNotification("sent")
	}()
}

// decodeReceipt extracts image bytes from a base64 payload or data URL.
// Anything else yields nil and the notification goes out as text.
func decodeReceipt(receipt string) []byte {
	payload := strings.TrimSpace(receipt)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 || !strings.Contains(payload[:idx], ";base64") {
			return nil
		}
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil
	}
	return data
}
