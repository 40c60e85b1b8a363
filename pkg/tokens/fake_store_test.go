package tokens

import (
	"context"
	"errors"
	"sync"

	"github.com/steeple/steeple/pkg/model"
	"github.com/steeple/steeple/pkg/util"
)

type fakeStore struct {
	mu    sync.Mutex
	users map[string]*model.UserRecord
	order []string

	allUsersErr  error
	queryErr     error
	removeErrFor map[string]error

	queriedTokens [][]string
}

func newFakeStore(users ...*model.UserRecord) *fakeStore {
	store := &fakeStore{
		users:        map[string]*model.UserRecord{},
		removeErrFor: map[string]error{},
	}
	for _, user := range users {
		store.users[user.ID] = user
		store.order = append(store.order, user.ID)
	}
	return store
}

func (s *fakeStore) AllUsers(ctx context.Context) ([]*model.UserRecord, error) {
	if s.allUsersErr != nil {
		return nil, s.allUsersErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var users []*model.UserRecord
	for _, id := range s.order {
		users = append(users, s.users[id])
	}
	return users, nil
}

func (s *fakeStore) GetUser(ctx context.Context, userID string) (*model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *fakeStore) UsersWithAnyToken(ctx context.Context, tokens []string) ([]*model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queriedTokens = append(s.queriedTokens, tokens)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if len(tokens) > MaxTokenQuery {
		return nil, errors.New("too many tokens")
	}

	var users []*model.UserRecord
	for _, id := range s.order {
		if len(util.IntersectStrings(s.users[id].FCMTokens, tokens)) > 0 {
			users = append(users, s.users[id])
		}
	}
	return users, nil
}

func (s *fakeStore) RemoveTokens(ctx context.Context, userID string, tokens []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.removeErrFor[userID]; err != nil {
		return err
	}

	user := s.users[userID]
	remaining := []string{}
	for _, token := range user.FCMTokens {
		if len(util.IntersectStrings([]string{token}, tokens)) == 0 {
			remaining = append(remaining, token)
		}
	}
	s.users[userID] = &model.UserRecord{ID: user.ID, DisplayName: user.DisplayName, FCMTokens: remaining}
	return nil
}

func (s *fakeStore) AddToken(ctx context.Context, userID string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		user = &model.UserRecord{ID: userID}
		s.users[userID] = user
		s.order = append(s.order, userID)
	}
	user.FCMTokens = util.RemoveDuplicateStrings(append(user.FCMTokens, token), nil)
	return nil
}

func (s *fakeStore) GetChat(ctx context.Context, chatID string) (*model.Chat, error) {
	return nil, ErrNotFound
}

func (s *fakeStore) tokensOf(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.users[userID].FCMTokens
}
