package notify

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/steeple/steeple/pkg/consumer"
	"github.com/steeple/steeple/pkg/database"
	"github.com/steeple/steeple/pkg/dbwatch"
	"github.com/steeple/steeple/pkg/events"
	"github.com/steeple/steeple/pkg/firebase_client"
	"github.com/steeple/steeple/pkg/model"
	"github.com/steeple/steeple/pkg/push"
	"github.com/steeple/steeple/pkg/redis_client"
	"github.com/steeple/steeple/pkg/tokens"
	"github.com/urfave/cli/v2"
)

var iconFlag = &cli.StringFlag{
	Name:    "icon",
	Value:   "/images/icons/icon-192x192.png",
	Usage:   "Notification icon path, relative to the app URL",
	EnvVars: []string{"STEEPLE_NOTIFICATION_ICON"},
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: "Provides the notification system",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run notify server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "app-url",
						Value:   "https://steeple.church",
						Usage:   "Base URL of the web app for click-through links",
						EnvVars: []string{"STEEPLE_APP_URL"},
					},
					iconFlag,
					&cli.DurationFlag{
						Name:    "event-timeout",
						Value:   60 * time.Second,
						Usage:   "Maximum time spent handling a single event",
						EnvVars: []string{"STEEPLE_EVENT_TIMEOUT"},
					},
					&cli.IntFlag{
						Name:    "consumers",
						Value:   5,
						EnvVars: []string{"STEEPLE_NOTIFY_CONSUMERS"},
					},
					&cli.DurationFlag{
						Name:    "retry-interval",
						Value:   time.Minute,
						Usage:   "How often events that failed on a database read are queued again",
						EnvVars: []string{"STEEPLE_NOTIFY_RETRY_INTERVAL"},
					},
					&cli.StringFlag{
						Name:    "stats-address",
						Value:   ":3333",
						EnvVars: []string{"STEEPLE_NOTIFY_STATS_ADDRESS"},
					},
				},
				Action: func(c *cli.Context) error {
					appURL, err := push.ParseAppURL(c.String("app-url"))
					if err != nil {
						return err
					}

					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := firebase_client.Connect(); err != nil {
						return err
					}

					store, err := tokens.ConnectedStore()
					if err != nil {
						return err
					}

					messagingClient, err := firebase_client.App.Messaging(context.Background())
					if err != nil {
						return err
					}

					dispatcher := push.NewDispatcher(messagingClient, tokens.NewCleaner(store), appURL)
					handlers := events.NewHandlers(store, dispatcher, c.String("icon"))
					router := events.NewRouter(handlers, events.NewRedisLedger(redis_client.Client))

					redisConsumer := consumer.RedisConsumer{
						QueueName:       dbwatch.EventsQueue,
						NumberConsumers: c.Int("consumers"),
						BatchSize:       20,
						Timeout:         2 * time.Second,
						StatsAddress:    c.String("stats-address"),

						ReturnRejectedInterval: c.Duration("retry-interval"),
						Consumer:        NewEventsBatchConsumer(router, c.Duration("event-timeout")),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					log.Info().Msg("Waiting for stale token cleanups")
					dispatcher.Wait()

					return nil
				},
			},
			{
				Name:  "preview",
				Usage: "print the notification an event would send, without sending it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "event",
						Usage:    "YAML event fixture",
						Required: true,
					},
					iconFlag,
				},
				Action: func(c *cli.Context) error {
					event, err := LoadEventFixture(c.String("event"))
					if err != nil {
						return err
					}

					if err := database.Connect(); err != nil {
						return err
					}

					store, err := tokens.ConnectedStore()
					if err != nil {
						return err
					}

					handlers := events.NewHandlers(store, &PrintingDispatcher{Out: os.Stdout}, c.String("icon"))

					return events.NewRouter(handlers, nil).Handle(context.Background(), event)
				},
			},
			{
				Name:  "test-event",
				Usage: "publish a test announcement onto the events queue",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Value: "Test announcement",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					publisher, err := dbwatch.NewQueuePublisher()
					if err != nil {
						return err
					}

					announcement := &model.Announcement{
						Title:            c.String("title"),
						Content:          "Sent from the notify test-event command",
						CreationDateTime: time.Now(),
					}

					event, err := model.NewEvent(model.EventTypeAnnouncementCreated, "test-"+time.Now().Format("20060102150405"), announcement)
					if err != nil {
						return err
					}

					if err := publisher.Publish(event); err != nil {
						return err
					}

					log.Info().Str("id", event.ID).Msg("Published test event")

					return nil
				},
			},
		},
	}
}
