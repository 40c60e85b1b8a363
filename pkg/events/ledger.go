package events

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const ledgerExpiration = 72 * time.Hour

type RedisLedger struct {
	Cache *cache.Cache[string]
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ledgerExpiration))

	return &RedisLedger{
		Cache: cache.New[string](redisStore),
	}
}

func (l *RedisLedger) Seen(ctx context.Context, eventID string) bool {
	_, err := l.Cache.Get(ctx, ledgerKey(eventID))

	return err == nil
}

func (l *RedisLedger) MarkHandled(ctx context.Context, eventID string) {
	if err := l.Cache.Set(ctx, ledgerKey(eventID), time.Now().Format(time.RFC3339)); err != nil {
		log.Error().Err(err).Str("id", eventID).Msg("Failed to record handled event")
	}
}

func ledgerKey(eventID string) string {
	return "steeple:handledevent:" + eventID
}
