package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Firestore collection names. Chat messages live in a subcollection of each chat.
const (
	UsersCollection          = "users"
	ChatsCollection          = "chats"
	MessagesCollection       = "messages"
	AnnouncementsCollection  = "announcements"
	PrayerRequestsCollection = "prayerRequests"
)

// MongoDB keeps messages flat with a chatid field, and uses snake_case names.
const (
	MongoPrayerRequestsCollection = "prayer_requests"
)

func createIndexes() {
	createUsersIndexes()
}

func createUsersIndexes() {
	usersCollection := GetCollection(UsersCollection)
	_, err := usersCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "fcmtokens", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
