package notify

import "context"

// Notifier delivers a short push message, used for the daily task digest.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

// NoOpNotifier discards every message.
type NoOpNotifier struct{}

func (NoOpNotifier) Send(ctx context.Context, title, body string) error {
	return nil
}
