package dbwatch

import (
	"encoding/json"
	"fmt"

	"github.com/adjust/rmq/v5"
	"github.com/steeple/steeple/pkg/model"
	"github.com/steeple/steeple/pkg/redis_client"
)

const EventsQueue = "events-queue"

type Publisher interface {
	Publish(event *model.Event) error
}

type QueuePublisher struct {
	EventQueue rmq.Queue
}

func NewQueuePublisher() (*QueuePublisher, error) {
	eventQueue, err := redis_client.QueueConnection.OpenQueue(EventsQueue)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", EventsQueue, err)
	}

	return &QueuePublisher{
		EventQueue: eventQueue,
	}, nil
}

func (p *QueuePublisher) Publish(event *model.Event) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.EventQueue.PublishBytes(eventBytes)
}
