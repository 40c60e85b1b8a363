package tokens

import (
	"context"
	"errors"
	"testing"

	"github.com/steeple/steeple/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessor_GetAllTokens(t *testing.T) {
	store := newFakeStore(
		&model.UserRecord{ID: "alice", FCMTokens: []string{"t1", "t2"}},
		&model.UserRecord{ID: "bob", FCMTokens: []string{"t2", "t3", ""}},
		&model.UserRecord{ID: "carol", FCMTokens: []string{"t4", "t1"}},
		&model.UserRecord{ID: "dave"},
	)
	accessor := NewAccessor(store)

	t.Run("deduplicates across users", func(t *testing.T) {
		tokens, err := accessor.GetAllTokens(context.Background(), "")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"t1", "t2", "t3", "t4"}, tokens)
	})

	t.Run("excludes the given user", func(t *testing.T) {
		tokens, err := accessor.GetAllTokens(context.Background(), "bob")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"t1", "t4"}, tokens)
	})

	t.Run("excluded tokens stay out when shared with another user", func(t *testing.T) {
		tokens, err := accessor.GetAllTokens(context.Background(), "carol")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"t2", "t3"}, tokens)
	})

	t.Run("unknown exclusion excludes nobody", func(t *testing.T) {
		tokens, err := accessor.GetAllTokens(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Len(t, tokens, 4)
	})
}

func TestAccessor_GetAllTokens_ReadFailure(t *testing.T) {
	store := newFakeStore()
	store.allUsersErr = errors.New("unavailable")

	tokens, err := NewAccessor(store).GetAllTokens(context.Background(), "")
	assert.ErrorIs(t, err, store.allUsersErr)
	assert.Nil(t, tokens)
}

func TestAccessor_GetUsers(t *testing.T) {
	store := newFakeStore(
		&model.UserRecord{ID: "alice", DisplayName: "Alice Smith"},
		&model.UserRecord{ID: "bob", DisplayName: "Bob Jones"},
		&model.UserRecord{ID: "carol", DisplayName: "Carol King"},
	)

	users, err := NewAccessor(store).GetUsers(context.Background(), []string{"carol", "ghost", "alice", "bob"})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "carol", users[0].ID)
	assert.Equal(t, "alice", users[1].ID)
	assert.Equal(t, "bob", users[2].ID)
}
