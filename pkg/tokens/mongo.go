package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/steeple/steeple/pkg/database"
	"github.com/steeple/steeple/pkg/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	Database *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{Database: db}
}

func (s *MongoStore) users() *mongo.Collection {
	return s.Database.Collection(database.UsersCollection)
}

func (s *MongoStore) AllUsers(ctx context.Context) ([]*model.UserRecord, error) {
	return s.findUsers(ctx, bson.M{})
}

func (s *MongoStore) GetUser(ctx context.Context, userID string) (*model.UserRecord, error) {
	var user *model.UserRecord
	err := s.users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("read user %s: %w", userID, err)
	}

	return user, nil
}

func (s *MongoStore) UsersWithAnyToken(ctx context.Context, tokens []string) ([]*model.UserRecord, error) {
	if len(tokens) > MaxTokenQuery {
		return nil, fmt.Errorf("token query accepts at most %d values, got %d", MaxTokenQuery, len(tokens))
	}

	return s.findUsers(ctx, bson.M{"fcmtokens": bson.M{"$in": tokens}})
}

func (s *MongoStore) RemoveTokens(ctx context.Context, userID string, tokens []string) error {
	_, err := s.users().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pullAll": bson.M{"fcmtokens": tokens},
	})
	if err != nil {
		return fmt.Errorf("remove tokens from user %s: %w", userID, err)
	}

	return nil
}

func (s *MongoStore) AddToken(ctx context.Context, userID string, token string) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.users().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"fcmtokens": token},
	}, opts)
	if err != nil {
		return fmt.Errorf("add token to user %s: %w", userID, err)
	}

	return nil
}

func (s *MongoStore) GetChat(ctx context.Context, chatID string) (*model.Chat, error) {
	var chat *model.Chat
	err := s.Database.Collection(database.ChatsCollection).FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("read chat %s: %w", chatID, err)
	}

	return chat, nil
}

func (s *MongoStore) findUsers(ctx context.Context, filter bson.M) ([]*model.UserRecord, error) {
	cursor, err := s.users().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	users := []*model.UserRecord{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return users, nil
}
