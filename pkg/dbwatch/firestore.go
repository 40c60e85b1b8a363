package dbwatch

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
)

const firestoreCreatedField = "createdAt"

type FirestoreWatch struct {
	Client    *firestore.Client
	Source    Source
	Publisher Publisher

	// Only documents created after this are published
	Since time.Time
}

func NewFirestoreWatch(client *firestore.Client, source Source, publisher Publisher) *FirestoreWatch {
	return &FirestoreWatch{
		Client:    client,
		Source:    source,
		Publisher: publisher,
		Since:     time.Now(),
	}
}

func (w *FirestoreWatch) query() firestore.Query {
	var query firestore.Query
	if w.Source.CollectionGroup {
		query = w.Client.CollectionGroup(w.Source.FirestoreCollection).Query
	} else {
		query = w.Client.Collection(w.Source.FirestoreCollection).Query
	}

	return query.Where(firestoreCreatedField, ">", w.Since)
}

// Run listens until the snapshot iterator fails or ctx is cancelled. Documents
// already created when the listener attached arrive as additions in the first
// snapshot, so a restart replays everything since the last published document.
func (w *FirestoreWatch) Run(ctx context.Context) error {
	log.Info().Str("collection", w.Source.FirestoreCollection).Time("since", w.Since).Msg("Starting dbwatch on firestore collection")

	snapshots := w.query().Snapshots(ctx)
	defer snapshots.Stop()

	for {
		snapshot, err := snapshots.Next()
		if err != nil {
			return err
		}

		for _, change := range snapshot.Changes {
			if change.Kind != firestore.DocumentAdded {
				continue
			}

			w.publish(change.Doc)
		}
	}
}

func (w *FirestoreWatch) publish(document *firestore.DocumentSnapshot) {
	chatID := ""
	if w.Source.CollectionGroup && document.Ref.Parent != nil && document.Ref.Parent.Parent != nil {
		chatID = document.Ref.Parent.Parent.ID
	}

	event, err := w.Source.BuildEvent(document.Ref.ID, chatID, document.DataTo)
	if err != nil {
		log.Error().Err(err).Str("path", document.Ref.Path).Msg("Failed to build event")
		return
	}

	if err := w.Publisher.Publish(event); err != nil {
		log.Error().Err(err).Str("id", event.ID).Msg("Failed to publish event")
		return
	}

	if document.CreateTime.After(w.Since) {
		w.Since = document.CreateTime
	}

	log.Info().Str("id", event.ID).Msg("Published event")
}
