package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/steeple/steeple/pkg/model"
	"github.com/steeple/steeple/pkg/tokens"
	"github.com/steeple/steeple/pkg/util"
	"golang.org/x/exp/slices"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, payload *model.NotificationPayload) error
}

type Handlers struct {
	Store      tokens.Store
	Accessor   *tokens.Accessor
	Dispatcher Dispatcher

	Icon string
}

func NewHandlers(store tokens.Store, dispatcher Dispatcher, icon string) *Handlers {
	return &Handlers{
		Store:      store,
		Accessor:   tokens.NewAccessor(store),
		Dispatcher: dispatcher,
		Icon:       icon,
	}
}

func (h *Handlers) HandleAnnouncementCreated(ctx context.Context, event *model.Event) error {
	logger := log.With().Str("type", string(event.Type)).Str("document", event.DocumentID).Logger()

	if !event.HasBody() {
		logger.Info().Msg("No document in event, skipping notification")
		return nil
	}

	var announcement model.Announcement
	if err := event.DecodeBody(&announcement); err != nil {
		logger.Error().Err(err).Msg("Failed to decode announcement")
		return nil
	}

	if announcement.Title == "" {
		logger.Warn().Msg("Announcement has no title, skipping notification")
		return nil
	}

	recipientTokens, err := h.Accessor.GetAllTokens(ctx, announcement.AuthorID)
	if err != nil {
		return fmt.Errorf("get announcement recipients: %w", err)
	}

	if len(recipientTokens) == 0 {
		logger.Info().Msg("No tokens to send announcement to")
		return nil
	}

	payload := BuildAnnouncementPayload(event.DocumentID, &announcement, h.Icon, recipientTokens)
	h.dispatch(ctx, logger, payload)

	return nil
}

func (h *Handlers) HandlePrayerRequestCreated(ctx context.Context, event *model.Event) error {
	logger := log.With().Str("type", string(event.Type)).Str("document", event.DocumentID).Logger()

	if !event.HasBody() {
		logger.Info().Msg("No document in event, skipping notification")
		return nil
	}

	var prayerRequest model.PrayerRequest
	if err := event.DecodeBody(&prayerRequest); err != nil {
		logger.Error().Err(err).Msg("Failed to decode prayer request")
		return nil
	}

	if prayerRequest.AuthorName == "" {
		logger.Warn().Msg("Prayer request has no author name, skipping notification")
		return nil
	}

	recipientTokens, err := h.Accessor.GetAllTokens(ctx, prayerRequest.AuthorID)
	if err != nil {
		return fmt.Errorf("get prayer request recipients: %w", err)
	}

	if len(recipientTokens) == 0 {
		logger.Info().Msg("No tokens to send prayer request to")
		return nil
	}

	payload := BuildPrayerRequestPayload(event.DocumentID, &prayerRequest, h.Icon, recipientTokens)
	h.dispatch(ctx, logger, payload)

	return nil
}

func (h *Handlers) HandleChatMessageCreated(ctx context.Context, event *model.Event) error {
	logger := log.With().
		Str("type", string(event.Type)).
		Str("chat", event.ChatID).
		Str("document", event.DocumentID).
		Logger()

	if !event.HasBody() {
		logger.Info().Msg("No document in event, skipping notification")
		return nil
	}

	var message model.ChatMessage
	if err := event.DecodeBody(&message); err != nil {
		logger.Error().Err(err).Msg("Failed to decode chat message")
		return nil
	}

	if message.SenderID == "" {
		logger.Warn().Msg("Chat message has no sender, skipping notification")
		return nil
	}

	chatID := event.ChatID
	if chatID == "" {
		chatID = message.ChatID
	}
	if chatID == "" {
		logger.Warn().Msg("Chat message has no chat, skipping notification")
		return nil
	}

	chat, err := h.Store.GetChat(ctx, chatID)
	if errors.Is(err, tokens.ErrNotFound) {
		logger.Warn().Msg("Chat does not exist, skipping notification")
		return nil
	} else if err != nil {
		return fmt.Errorf("get chat: %w", err)
	}

	otherIDs := []string{}
	for _, participant := range chat.Participants {
		if participant != message.SenderID && !slices.Contains(otherIDs, participant) {
			otherIDs = append(otherIDs, participant)
		}
	}

	others, err := h.Accessor.GetUsers(ctx, otherIDs)
	if err != nil {
		return fmt.Errorf("get chat participants: %w", err)
	}

	var allTokens []string
	for _, user := range others {
		allTokens = append(allTokens, user.FCMTokens...)
	}

	// a sender logged in on a device shared with a participant must not notify themselves
	senderTokens := []string{}
	sender, err := h.Store.GetUser(ctx, message.SenderID)
	if err != nil && !errors.Is(err, tokens.ErrNotFound) {
		return fmt.Errorf("get chat sender: %w", err)
	}
	if sender != nil {
		senderTokens = sender.FCMTokens
	}

	recipientTokens := util.RemoveDuplicateStrings(allTokens, senderTokens)
	if len(recipientTokens) == 0 {
		logger.Info().Msg("No tokens to send chat message to")
		return nil
	}

	senderName := message.SenderName
	if senderName == "" && sender != nil {
		senderName = sender.DisplayName
	}
	if senderName == "" {
		senderName = "Someone"
	}

	payload := BuildChatMessagePayload(chat, &message, senderName, others, h.Icon, recipientTokens)
	h.dispatch(ctx, logger, payload)

	return nil
}

func (h *Handlers) dispatch(ctx context.Context, logger zerolog.Logger, payload *model.NotificationPayload) {
	if err := h.Dispatcher.Dispatch(ctx, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to dispatch notification")
		return
	}

	logger.Info().Int("tokens", len(payload.Tokens)).Str("tag", payload.Tag).Msg("Dispatched notification")
}
