package dbwatch

import (
	"fmt"

	"github.com/steeple/steeple/pkg/database"
	"github.com/steeple/steeple/pkg/model"
)

// Source is a collection whose inserts raise one event type.
type Source struct {
	EventType model.EventType

	FirestoreCollection string
	// Watch every subcollection with this ID, eg. messages under each chat
	CollectionGroup bool

	MongoCollection string
}

var Sources = []Source{
	{
		EventType:           model.EventTypeAnnouncementCreated,
		FirestoreCollection: database.AnnouncementsCollection,
		MongoCollection:     database.AnnouncementsCollection,
	},
	{
		EventType:           model.EventTypePrayerRequestCreated,
		FirestoreCollection: database.PrayerRequestsCollection,
		MongoCollection:     database.MongoPrayerRequestsCollection,
	},
	{
		EventType:           model.EventTypeChatMessageCreated,
		FirestoreCollection: database.MessagesCollection,
		CollectionGroup:     true,
		MongoCollection:     database.MessagesCollection,
	},
}

func (s Source) newDocument() (interface{}, error) {
	switch s.EventType {
	case model.EventTypeAnnouncementCreated:
		return &model.Announcement{}, nil
	case model.EventTypePrayerRequestCreated:
		return &model.PrayerRequest{}, nil
	case model.EventTypeChatMessageCreated:
		return &model.ChatMessage{}, nil
	default:
		return nil, fmt.Errorf("no document type for %s", s.EventType)
	}
}

// BuildEvent decodes a created document into its model and wraps it in an
// event. chatID is the parent chat when the database path carries it.
func (s Source) BuildEvent(documentID string, chatID string, decode func(v interface{}) error) (*model.Event, error) {
	document, err := s.newDocument()
	if err != nil {
		return nil, err
	}

	if err := decode(document); err != nil {
		return nil, fmt.Errorf("decode %s document %s: %w", s.EventType, documentID, err)
	}

	message, isMessage := document.(*model.ChatMessage)
	if isMessage {
		if chatID == "" {
			chatID = message.ChatID
		}
		message.ChatID = chatID
	}

	event, err := model.NewEvent(s.EventType, documentID, document)
	if err != nil {
		return nil, err
	}

	if isMessage {
		event.WithChat(chatID)
	}

	return event, nil
}
