package notify

import (
	"context"
	"encoding/base64"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/blindroute/blindroute/pkg/events"
	"github.com/blindroute/blindroute/pkg/util"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// FCM truncates long bodies on most devices
const maxNotificationBody = 240

var ErrMissingServiceAccount = errors.New("firebase service account is not configured")

type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type PushManager struct {
	Sender Sender
}

// Setup initialises firebase messaging from a base64 encoded service account
func (m *PushManager) Setup(ctx context.Context, serviceAccount string) error {
	if serviceAccount == "" {
		return ErrMissingServiceAccount
	}

	decodedKey, err := base64.StdEncoding.DecodeString(serviceAccount)
	if err != nil {
		return err
	}

	opts := []option.ClientOption{option.WithCredentialsJSON(decodedKey)}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return err
	}

	fcmClient, err := app.Messaging(ctx)
	if err != nil {
		return err
	}

	m.Sender = fcmClient

	return nil
}

func (m *PushManager) SendPush(ctx context.Context, event events.NavigationEvent) error {
	if event.DeviceToken == "" {
		return nil
	}

	notification, ok := events.GetNotificationData(event)
	if !ok {
		return nil
	}

	_, err := m.Sender.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  util.TrimString(notification.Message, maxNotificationBody),
		},
		Data: map[string]string{
			"type":       string(event.Type),
			"busRouteNm": event.BusRouteNm,
		},
		Token: event.DeviceToken,
	})
	if err != nil {
		return err
	}

	log.Info().Str("type", string(event.Type)).Str("busroute", event.BusRouteNm).Msg("Sent Push Notification")

	return nil
}
