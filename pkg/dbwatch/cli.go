package dbwatch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/steeple/steeple/pkg/database"
	"github.com/steeple/steeple/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "dbwatch",
		Usage: "Watches the database and raises events",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run dbwatch server",
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}

					publisher, err := NewQueuePublisher()
					if err != nil {
						return err
					}

					log.Info().Str("backend", string(database.SelectedBackend)).Msg("Starting dbwatch server")

					ctx, cancel := context.WithCancel(context.Background())
					defer cancel()

					var watchers conc.WaitGroup
					for _, source := range Sources {
						source := source

						var watch Watch
						switch database.SelectedBackend {
						case database.BackendFirestore:
							watch = NewFirestoreWatch(database.FirestoreClient, source, publisher)
						case database.BackendMongo:
							watch = NewMongoWatch(database.MongoGlobalInstance.Database, source, publisher)
						default:
							return fmt.Errorf("dbwatch does not support backend %q", database.SelectedBackend)
						}

						watchers.Go(func() {
							KeepRunning(ctx, string(source.EventType), watch)
						})
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					cancel()
					watchers.Wait()

					return nil
				},
			},
		},
	}
}
