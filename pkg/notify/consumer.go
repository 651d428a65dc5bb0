package notify

import (
	"context"

	"github.com/adjust/rmq/v5"
	"github.com/blindroute/blindroute/pkg/events"
	"github.com/rs/zerolog/log"
)

type NotifyBatchConsumer struct {
	PushManager *PushManager
}

func NewNotifyBatchConsumer(pushManager *PushManager) *NotifyBatchConsumer {
	return &NotifyBatchConsumer{PushManager: pushManager}
}

func (c *NotifyBatchConsumer) Consume(batch rmq.Deliveries) {
	for _, payload := range batch.Payloads() {
		event, err := events.Decode([]byte(payload))
		if err != nil {
			log.Error().Err(err).Msg("Failed to decode navigation event")
			continue
		}

		if err := c.PushManager.SendPush(context.Background(), event); err != nil {
			log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to send push notification")
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack navigation event")
		}
	}
}
