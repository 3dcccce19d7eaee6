package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"studyduel/store"
)

// FCM sends push notifications through Firebase Cloud Messaging. It resolves
// the recipient's delivery token from their user document; a missing token or
// a delivery error is logged and dropped, never returned to the caller.
type FCM struct {
	client *messaging.Client
	users  store.UserStore
	log    *zap.Logger
}

// NewFCM builds the messaging client from a service-account credentials file.
func NewFCM(ctx context.Context, credentialsFile string, users store.UserStore, log *zap.Logger) (*FCM, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %w", err)
	}
	return &FCM{client: client, users: users, log: log}, nil
}

// Send delivers one titled message with a structured payload to the user.
func (f *FCM) Send(ctx context.Context, userID, title, body string, data map[string]string) {
	user, err := f.users.Get(ctx, userID)
	if err != nil {
		f.log.Warn("notification recipient lookup failed",
			zap.String("userId", userID), zap.Error(err))
		return
	}
	if user.FCMToken == "" {
		f.log.Info("user has no fcm token, skipping notification",
			zap.String("userId", userID))
		return
	}

	msg := &messaging.Message{
		Token:        user.FCMToken,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
	}
	if _, err := f.client.Send(ctx, msg); err != nil {
		f.log.Warn("notification delivery failed",
			zap.String("userId", userID), zap.String("title", title), zap.Error(err))
		return
	}
	f.log.Debug("notification sent",
		zap.String("userId", userID), zap.String("title", title))
}
