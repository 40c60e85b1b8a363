package tokens

import (
	"context"
	"errors"

	"github.com/steeple/steeple/pkg/database"
	"github.com/steeple/steeple/pkg/model"
)

// MaxTokenQuery is the most values a single array-contains-any / in query accepts.
const MaxTokenQuery = 30

var ErrNotFound = errors.New("document not found")

// Store is the slice of the document database the notification flow reads and writes.
type Store interface {
	AllUsers(ctx context.Context) ([]*model.UserRecord, error)
	GetUser(ctx context.Context, userID string) (*model.UserRecord, error)
	// UsersWithAnyToken returns users holding at least one of tokens. Callers
	// must not pass more than MaxTokenQuery tokens.
	UsersWithAnyToken(ctx context.Context, tokens []string) ([]*model.UserRecord, error)
	RemoveTokens(ctx context.Context, userID string, tokens []string) error
	AddToken(ctx context.Context, userID string, token string) error

	GetChat(ctx context.Context, chatID string) (*model.Chat, error)
}

// ConnectedStore returns the Store for the backend database.Connect opened.
func ConnectedStore() (Store, error) {
	switch {
	case database.MongoGlobalInstance != nil:
		return NewMongoStore(database.MongoGlobalInstance.Database), nil
	case database.FirestoreClient != nil:
		return NewFirestoreStore(database.FirestoreClient), nil
	default:
		return nil, errors.New("database not connected")
	}
}
