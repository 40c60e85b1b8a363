package events

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/steeple/steeple/pkg/model"
)

type HandlerFunc func(ctx context.Context, event *model.Event) error

// Ledger remembers which events were already notified.
type Ledger interface {
	Seen(ctx context.Context, eventID string) bool
	MarkHandled(ctx context.Context, eventID string)
}

type Router struct {
	Handlers map[model.EventType]HandlerFunc
	Ledger   Ledger
}

func NewRouter(handlers *Handlers, ledger Ledger) *Router {
	return &Router{
		Handlers: map[model.EventType]HandlerFunc{
			model.EventTypeAnnouncementCreated:  handlers.HandleAnnouncementCreated,
			model.EventTypePrayerRequestCreated: handlers.HandlePrayerRequestCreated,
			model.EventTypeChatMessageCreated:   handlers.HandleChatMessageCreated,
		},
		Ledger: ledger,
	}
}

// Handle runs the one handler registered for the event type. Errors come from
// failed database reads; everything else is logged by the handler itself.
func (r *Router) Handle(ctx context.Context, event *model.Event) error {
	handler, ok := r.Handlers[event.Type]
	if !ok {
		log.Warn().Str("type", string(event.Type)).Str("id", event.ID).Msg("No handler for event type")
		return nil
	}

	if r.Ledger != nil && event.ID != "" && r.Ledger.Seen(ctx, event.ID) {
		log.Info().Str("id", event.ID).Msg("Event already handled, skipping")
		return nil
	}

	if err := handler(ctx, event); err != nil {
		return err
	}

	if r.Ledger != nil && event.ID != "" {
		r.Ledger.MarkHandled(ctx, event.ID)
	}

	return nil
}
