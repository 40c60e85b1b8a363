package dbwatch

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

type Watch interface {
	Run(ctx context.Context) error
}

// KeepRunning restarts watch with exponential backoff until ctx is cancelled.
func KeepRunning(ctx context.Context, name string, watch Watch) {
	restartBackoff := backoff.NewExponentialBackOff()
	restartBackoff.InitialInterval = time.Second
	restartBackoff.MaxInterval = 2 * time.Minute
	restartBackoff.MaxElapsedTime = 0

	operation := func() error {
		err := watch.Run(ctx)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = errors.New("watch stopped")
		}

		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Error().Err(err).Str("watch", name).Dur("restart_in", wait).Msg("dbwatch stopped, restarting")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(restartBackoff, ctx), notify)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Str("watch", name).Msg("dbwatch gave up")
	}
}
