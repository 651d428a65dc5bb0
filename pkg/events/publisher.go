package events

import (
	"encoding/json"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

type Queue interface {
	PublishBytes(payload ...[]byte) error
}

type Publisher struct {
	Queue Queue
}

func NewPublisher(connection rmq.Connection) (*Publisher, error) {
	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, err
	}

	return &Publisher{Queue: queue}, nil
}

func (p *Publisher) Publish(event NavigationEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.Queue.PublishBytes(eventBytes); err != nil {
		return err
	}

	log.Debug().Str("type", string(event.Type)).Str("busroute", event.BusRouteNm).Msg("Published navigation event")

	return nil
}
