package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/steeple/steeple/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRouter struct {
	mu      sync.Mutex
	handled []string
	failFor map[string]error
}

func (r *recordingRouter) Handle(ctx context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		return errors.New("event handled without a deadline")
	}

	r.handled = append(r.handled, event.ID)
	return r.failFor[event.ID]
}

func eventDelivery(t *testing.T, id string) *rmq.TestDelivery {
	event := model.Event{ID: id, Type: model.EventTypeAnnouncementCreated, DocumentID: id}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	return rmq.NewTestDeliveryString(string(payload))
}

func TestEventsBatchConsumer_Consume(t *testing.T) {
	router := &recordingRouter{failFor: map[string]error{"a2": errors.New("users unavailable")}}
	consumer := NewEventsBatchConsumer(router, time.Minute)

	first := eventDelivery(t, "a1")
	failing := eventDelivery(t, "a2")
	garbage := rmq.NewTestDeliveryString("{not json")

	consumer.Consume(rmq.Deliveries{first, failing, garbage})

	assert.Equal(t, rmq.Acked, first.State)
	assert.Equal(t, rmq.Rejected, failing.State)
	assert.Equal(t, rmq.Acked, garbage.State)
	assert.ElementsMatch(t, []string{"a1", "a2"}, router.handled)
}
