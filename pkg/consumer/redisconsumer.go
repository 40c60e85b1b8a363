package consumer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/steeple/steeple/pkg/redis_client"
)

type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	// Address the stats and health server listens on
	StatsAddress string

	// How often rejected deliveries go back to the ready list. Zero leaves them rejected.
	ReturnRejectedInterval time.Duration

	Consumer rmq.BatchConsumer
}

func (c *RedisConsumer) Setup() error {
	if err := c.startConsumers(); err != nil {
		return err
	}

	go c.startStatsServer()

	return nil
}

func (c *RedisConsumer) startConsumers() error {
	log.Info().Str("queue", c.QueueName).Msg("Starting consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(c.QueueName)
	if err != nil {
		return fmt.Errorf("open queue %s: %w", c.QueueName, err)
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), 1*time.Second); err != nil {
		return fmt.Errorf("start consuming %s: %w", c.QueueName, err)
	}

	for i := 0; i < c.NumberConsumers; i++ {
		tag := fmt.Sprintf("%s-%d", c.QueueName, i)

		if _, err := queue.AddBatchConsumer(tag, int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			return fmt.Errorf("add consumer %s: %w", tag, err)
		}

		log.Info().Msgf("Started %s consumer %d", c.QueueName, i)
	}

	if c.ReturnRejectedInterval > 0 {
		go c.returnRejectedLoop(queue)
	}

	return nil
}

type rejectedReturner interface {
	ReturnRejected(max int64) (int64, error)
}

func (c *RedisConsumer) returnRejectedLoop(queue rejectedReturner) {
	ticker := time.NewTicker(c.ReturnRejectedInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.returnRejected(queue)
	}
}

func (c *RedisConsumer) returnRejected(queue rejectedReturner) int64 {
	returned, err := queue.ReturnRejected(int64(c.NumberConsumers * c.BatchSize))
	if err != nil {
		log.Error().Err(err).Str("queue", c.QueueName).Msg("Failed to return rejected deliveries")
		return 0
	}

	if returned > 0 {
		log.Info().Str("queue", c.QueueName).Int64("count", returned).Msg("Returned rejected deliveries for retry")
	}

	return returned
}

func (c *RedisConsumer) startStatsServer() {
	address := c.StatsAddress
	if address == "" {
		address = ":3333"
	}

	mux := http.NewServeMux()
	endpoint := fmt.Sprintf("/%s/stats", c.QueueName)
	mux.Handle(endpoint, NewStatsHandler(redis_client.QueueConnection))
	mux.Handle("/health", NewHealthHandler(redisHealth, databaseHealth))

	log.Info().Msgf("Stats server listening on http://localhost%s%s", address, endpoint)
	if err := http.ListenAndServe(address, mux); err != nil {
		log.Error().Err(err).Msg("Stats server stopped")
	}
}
