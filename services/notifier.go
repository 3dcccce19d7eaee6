package services

import "context"

// Notifier delivers a push message to a single player. Implementations
// absorb and log delivery failures; a lost notification must never fail the
// game-state transition that triggered it.
type Notifier interface {
	Send(ctx context.Context, userID, title, body string, data map[string]string)
}

// NopNotifier drops every message. Used when push delivery is not configured.
type NopNotifier struct{}

func (NopNotifier) Send(ctx context.Context, userID, title, body string, data map[string]string) {}
