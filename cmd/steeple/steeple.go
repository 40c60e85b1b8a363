package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/steeple/steeple/pkg/api"
	"github.com/steeple/steeple/pkg/dbwatch"
	"github.com/steeple/steeple/pkg/notify"
	"github.com/urfave/cli/v2"
)

func main() {
	if os.Getenv("STEEPLE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("STEEPLE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "steeple",
		Description: "Push notification services for the Steeple church app",

		Commands: []*cli.Command{
			notify.RegisterCLI(),
			dbwatch.RegisterCLI(),
			api.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
