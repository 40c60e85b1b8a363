package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type Event struct {
	ID         string
	Type       EventType
	DocumentID string
	ChatID     string `json:",omitempty"`
	Timestamp  time.Time

	// Snapshot of the created document. Empty when the trigger carried no
	// document, eg. it fired for a deletion.
	Body json.RawMessage `json:",omitempty"`
}

type EventType string

const (
	EventTypeAnnouncementCreated  EventType = "AnnouncementCreated"
	EventTypePrayerRequestCreated EventType = "PrayerRequestCreated"
	EventTypeChatMessageCreated   EventType = "ChatMessageCreated"
)

// NewEvent builds an event for a created document, encoding the document as the body.
// A nil document produces an event without a body.
func NewEvent(eventType EventType, documentID string, document interface{}) (*Event, error) {
	event := &Event{
		Type:       eventType,
		DocumentID: documentID,
		Timestamp:  time.Now(),
	}
	event.ID = fmt.Sprintf("%s/%s", eventType, documentID)

	if document != nil {
		body, err := json.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", eventType, err)
		}
		event.Body = body
	}

	return event, nil
}

// WithChat attaches the parent chat of a chat message event.
func (e *Event) WithChat(chatID string) *Event {
	e.ChatID = chatID
	e.ID = fmt.Sprintf("%s/%s/%s", e.Type, chatID, e.DocumentID)

	return e
}

func (e *Event) HasBody() bool {
	return len(e.Body) > 0 && string(e.Body) != "null"
}

// DecodeBody unmarshals the document snapshot into v.
func (e *Event) DecodeBody(v interface{}) error {
	if err := json.Unmarshal(e.Body, v); err != nil {
		return fmt.Errorf("decode %s body: %w", e.Type, err)
	}

	return nil
}
