package tokens

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/steeple/steeple/pkg/util"
)

type Cleaner struct {
	Store Store
}

func NewCleaner(store Store) *Cleaner {
	return &Cleaner{Store: store}
}

// CleanStaleTokens removes the given tokens from every user record holding them.
// Only the first MaxTokenQuery tokens are looked up. Failures are logged, never returned.
func (c *Cleaner) CleanStaleTokens(ctx context.Context, tokens []string) {
	if len(tokens) == 0 {
		return
	}

	if len(tokens) > MaxTokenQuery {
		log.Warn().
			Int("stale", len(tokens)).
			Int("limit", MaxTokenQuery).
			Msg("Too many stale tokens for one lookup, only cleaning the first batch")
		tokens = tokens[:MaxTokenQuery]
	}

	users, err := c.Store.UsersWithAnyToken(ctx, tokens)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up users holding stale tokens")
		return
	}

	p := pool.New().WithErrors().WithContext(ctx)

	for _, user := range users {
		userID := user.ID
		staleTokens := util.IntersectStrings(user.FCMTokens, tokens)
		if len(staleTokens) == 0 {
			continue
		}

		p.Go(func(ctx context.Context) error {
			if err := c.Store.RemoveTokens(ctx, userID, staleTokens); err != nil {
				log.Error().Err(err).Str("user", userID).Msg("Failed to remove stale tokens")
				return err
			}

			log.Info().Str("user", userID).Int("tokens", len(staleTokens)).Msg("Removed stale tokens")
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		log.Warn().Err(err).Msg("Stale token cleanup finished with errors")
	}
}
