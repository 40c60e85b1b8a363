package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/steeple/steeple/pkg/model"
)

type EventRouter interface {
	Handle(ctx context.Context, event *model.Event) error
}

// EventsBatchConsumer routes each queued event to its handler. Deliveries whose
// handler failed are rejected; the consumer host returns them to the queue for
// another attempt.
type EventsBatchConsumer struct {
	Router EventRouter

	EventTimeout time.Duration
	Concurrency  int
}

func NewEventsBatchConsumer(router EventRouter, eventTimeout time.Duration) *EventsBatchConsumer {
	return &EventsBatchConsumer{
		Router:       router,
		EventTimeout: eventTimeout,
		Concurrency:  5,
	}
}

func (c *EventsBatchConsumer) Consume(batch rmq.Deliveries) {
	p := pool.New().WithMaxGoroutines(c.Concurrency)

	for _, delivery := range batch {
		delivery := delivery

		p.Go(func() {
			c.consumeOne(delivery)
		})
	}

	p.Wait()
}

func (c *EventsBatchConsumer) consumeOne(delivery rmq.Delivery) {
	var event model.Event
	if err := json.Unmarshal([]byte(delivery.Payload()), &event); err != nil {
		// retrying cannot fix the payload
		log.Error().Err(err).Str("payload", delivery.Payload()).Msg("Failed to decode event, dropping it")
		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Msg("Failed to ack undecodable event")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.EventTimeout)
	defer cancel()

	if err := c.Router.Handle(ctx, &event); err != nil {
		log.Error().Err(err).Str("id", event.ID).Str("type", string(event.Type)).Msg("Failed to handle event")
		c.reject(delivery)
		return
	}

	if err := delivery.Ack(); err != nil {
		log.Error().Err(err).Str("id", event.ID).Msg("Failed to ack event")
	}
}

func (c *EventsBatchConsumer) reject(delivery rmq.Delivery) {
	if err := delivery.Reject(); err != nil {
		log.Error().Err(err).Msg("Failed to reject event")
	}
}
