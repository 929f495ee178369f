// Copyright (c) 2026 Flightdeck. All rights reserved.
// Author: platform@flightdeck.aero

// Package notify is the boundary to the external messaging service.
//
// The trust engine never delivers messages itself. After a successful
// moderation action the HTTP caller (not the gateway) hands a notice to a
// [Notifier], and the messaging service picks it up from there. Keeping
// delivery out of the gateway keeps its side effects explicit and testable.
package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/flightdeck-aero/flightdeck/internal/platform/constants"
)

// Priority orders delivery in the messaging service's queue.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notifier is the messaging collaborator contract.
type Notifier interface {
	Send(ctx context.Context, recipientUserID, subject, body string, priority Priority) error
}

// RedisNotifier publishes notices onto a Redis stream acting as an outbox.
// The external messaging service consumes the stream; delivery, templating,
// and retries are its problem, not ours.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier constructs a [RedisNotifier] on the shared client.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (notifier *RedisNotifier) Send(ctx context.Context, recipientUserID, subject, body string, priority Priority) error {
	err := notifier.client.XAdd(ctx, &redis.XAddArgs{
		Stream: constants.RedisStreamNotifications,
		Values: map[string]interface{}{
			"recipient_user_id": recipientUserID,
			"subject":           subject,
			"body":              body,
			"priority":          string(priority),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("notify_publish_failed: %w", err)
	}

	return nil
}
