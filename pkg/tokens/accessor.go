package tokens

import (
	"context"
	"errors"

	"github.com/steeple/steeple/pkg/model"
	"github.com/steeple/steeple/pkg/util"
	"github.com/sourcegraph/conc/iter"
)

type Accessor struct {
	Store Store
}

func NewAccessor(store Store) *Accessor {
	return &Accessor{Store: store}
}

// GetAllTokens returns every registered token without duplicates. Tokens held by
// excludeUserID are left out even when another user also holds them. It reads
// the whole users collection.
func (a *Accessor) GetAllTokens(ctx context.Context, excludeUserID string) ([]string, error) {
	users, err := a.Store.AllUsers(ctx)
	if err != nil {
		return nil, err
	}

	var allTokens []string
	var excludedTokens []string
	for _, user := range users {
		if excludeUserID != "" && user.ID == excludeUserID {
			excludedTokens = append(excludedTokens, user.FCMTokens...)
			continue
		}

		allTokens = append(allTokens, user.FCMTokens...)
	}

	return util.RemoveDuplicateStrings(allTokens, excludedTokens), nil
}

// GetUsers loads the given users concurrently, keeping the order of userIDs and
// skipping users that no longer exist.
func (a *Accessor) GetUsers(ctx context.Context, userIDs []string) ([]*model.UserRecord, error) {
	users, err := iter.MapErr(userIDs, func(userID *string) (*model.UserRecord, error) {
		user, err := a.Store.GetUser(ctx, *userID)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return user, err
	})
	if err != nil {
		return nil, err
	}

	util.InPlaceFilter(&users, func(user *model.UserRecord) bool {
		return user != nil
	})

	return users, nil
}
