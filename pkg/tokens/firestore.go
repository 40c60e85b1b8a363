package tokens

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/steeple/steeple/pkg/database"
	"github.com/steeple/steeple/pkg/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreStore struct {
	Client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{Client: client}
}

func (s *FirestoreStore) users() *firestore.CollectionRef {
	return s.Client.Collection(database.UsersCollection)
}

func (s *FirestoreStore) AllUsers(ctx context.Context) ([]*model.UserRecord, error) {
	snapshots, err := s.users().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	return decodeUsers(snapshots)
}

func (s *FirestoreStore) GetUser(ctx context.Context, userID string) (*model.UserRecord, error) {
	snapshot, err := s.users().Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("read user %s: %w", userID, err)
	}

	return decodeUser(snapshot)
}

func (s *FirestoreStore) UsersWithAnyToken(ctx context.Context, tokens []string) ([]*model.UserRecord, error) {
	if len(tokens) > MaxTokenQuery {
		return nil, fmt.Errorf("array-contains-any accepts at most %d values, got %d", MaxTokenQuery, len(tokens))
	}

	snapshots, err := s.users().Where("fcmTokens", "array-contains-any", tokens).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query users by token: %w", err)
	}

	return decodeUsers(snapshots)
}

func (s *FirestoreStore) RemoveTokens(ctx context.Context, userID string, tokens []string) error {
	_, err := s.users().Doc(userID).Update(ctx, []firestore.Update{
		{Path: "fcmTokens", Value: firestore.ArrayRemove(toInterfaces(tokens)...)},
	})
	if err != nil {
		return fmt.Errorf("remove tokens from user %s: %w", userID, err)
	}

	return nil
}

func (s *FirestoreStore) AddToken(ctx context.Context, userID string, token string) error {
	_, err := s.users().Doc(userID).Set(ctx, map[string]interface{}{
		"fcmTokens": firestore.ArrayUnion(token),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("add token to user %s: %w", userID, err)
	}

	return nil
}

func (s *FirestoreStore) GetChat(ctx context.Context, chatID string) (*model.Chat, error) {
	snapshot, err := s.Client.Collection(database.ChatsCollection).Doc(chatID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("read chat %s: %w", chatID, err)
	}

	var chat model.Chat
	if err := snapshot.DataTo(&chat); err != nil {
		return nil, fmt.Errorf("decode chat %s: %w", chatID, err)
	}
	chat.ID = snapshot.Ref.ID

	return &chat, nil
}

func decodeUsers(snapshots []*firestore.DocumentSnapshot) ([]*model.UserRecord, error) {
	users := make([]*model.UserRecord, 0, len(snapshots))

	for _, snapshot := range snapshots {
		user, err := decodeUser(snapshot)
		if err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	return users, nil
}

func decodeUser(snapshot *firestore.DocumentSnapshot) (*model.UserRecord, error) {
	var user model.UserRecord
	if err := snapshot.DataTo(&user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", snapshot.Ref.ID, err)
	}
	user.ID = snapshot.Ref.ID

	return &user, nil
}

func toInterfaces(values []string) []interface{} {
	list := make([]interface{}, len(values))
	for i, value := range values {
		list[i] = value
	}

	return list
}
