package tokens

import (
	"context"
	"testing"

	"github.com/steeple/steeple/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("all users", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + database.UsersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "alice"},
				{Key: "displayname", Value: "Alice Smith"},
				{Key: "fcmtokens", Value: bson.A{"t1", "t2"}},
			},
			bson.D{
				{Key: "_id", Value: "bob"},
				{Key: "displayname", Value: "Bob Jones"},
			},
		))

		users, err := NewMongoStore(mt.DB).AllUsers(context.Background())
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, "alice", users[0].ID)
		assert.Equal(mt, "Alice Smith", users[0].DisplayName)
		assert.Equal(mt, []string{"t1", "t2"}, users[0].FCMTokens)
		assert.Empty(mt, users[1].FCMTokens)
	})

	mt.Run("missing user", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + database.UsersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		user, err := NewMongoStore(mt.DB).GetUser(context.Background(), "ghost")
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Nil(mt, user)
	})

	mt.Run("remove tokens", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := NewMongoStore(mt.DB).RemoveTokens(context.Background(), "alice", []string{"t1"})
		assert.NoError(mt, err)
	})

	mt.Run("remove tokens write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    2,
			Message: "bad value",
		}))

		err := NewMongoStore(mt.DB).RemoveTokens(context.Background(), "alice", []string{"t1"})
		assert.Error(mt, err)
	})

	mt.Run("token query over the limit", func(mt *mtest.T) {
		tokens := make([]string, MaxTokenQuery+1)

		_, err := NewMongoStore(mt.DB).UsersWithAnyToken(context.Background(), tokens)
		assert.Error(mt, err)
	})
}
