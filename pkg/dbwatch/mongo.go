package dbwatch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoWatch struct {
	Collection *mongo.Collection
	Source     Source
	Publisher  Publisher

	resumeToken bson.Raw
}

func NewMongoWatch(database *mongo.Database, source Source, publisher Publisher) *MongoWatch {
	return &MongoWatch{
		Collection: database.Collection(source.MongoCollection),
		Source:     source,
		Publisher:  publisher,
	}
}

type insertChange struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID interface{} `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument bson.Raw `bson:"fullDocument"`
}

// Run follows the collection's change stream until it fails or ctx is cancelled,
// resuming after the last published insert on the next call.
func (w *MongoWatch) Run(ctx context.Context) error {
	log.Info().Str("collection", w.Source.MongoCollection).Msg("Starting dbwatch on mongo collection")

	matchPipeline := bson.D{
		{
			Key: "$match", Value: bson.D{
				{Key: "operationType", Value: "insert"},
			},
		},
	}

	streamOptions := options.ChangeStream()
	if w.resumeToken != nil {
		streamOptions.SetResumeAfter(w.resumeToken)
	}

	stream, err := w.Collection.Watch(ctx, mongo.Pipeline{matchPipeline}, streamOptions)
	if err != nil {
		return err
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var change insertChange
		if err := stream.Decode(&change); err != nil {
			log.Error().Err(err).Msg("Failed to decode change")
			continue
		}

		if change.OperationType == "insert" {
			w.publish(&change)
		}

		w.resumeToken = stream.ResumeToken()
	}

	return stream.Err()
}

func (w *MongoWatch) publish(change *insertChange) {
	event, err := w.Source.BuildEvent(documentIDString(change.DocumentKey.ID), "", func(v interface{}) error {
		return bson.Unmarshal(change.FullDocument, v)
	})
	if err != nil {
		log.Error().Err(err).Str("collection", w.Source.MongoCollection).Msg("Failed to build event")
		return
	}

	if err := w.Publisher.Publish(event); err != nil {
		log.Error().Err(err).Str("id", event.ID).Msg("Failed to publish event")
		return
	}

	log.Info().Str("id", event.ID).Msg("Published event")
}

func documentIDString(id interface{}) string {
	switch id := id.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
