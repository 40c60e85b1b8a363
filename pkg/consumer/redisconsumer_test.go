package consumer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type rejectedQueue struct {
	rejected int64
	max      int64
	err      error
}

func (q *rejectedQueue) ReturnRejected(max int64) (int64, error) {
	q.max = max
	if q.err != nil {
		return 0, q.err
	}

	returned := min(q.rejected, max)
	q.rejected -= returned

	return returned, nil
}

func TestRedisConsumer_ReturnRejected(t *testing.T) {
	consumer := &RedisConsumer{QueueName: "events-queue", NumberConsumers: 5, BatchSize: 20}

	t.Run("returns up to one round of batches", func(t *testing.T) {
		queue := &rejectedQueue{rejected: 130}

		assert.Equal(t, int64(100), consumer.returnRejected(queue))
		assert.Equal(t, int64(100), queue.max)
		assert.Equal(t, int64(30), consumer.returnRejected(queue))
		assert.Equal(t, int64(0), queue.rejected)
	})

	t.Run("redis failure", func(t *testing.T) {
		queue := &rejectedQueue{rejected: 3, err: errors.New("connection reset")}

		assert.Equal(t, int64(0), consumer.returnRejected(queue))
	})
}
