package api

import (
	"context"

	"github.com/steeple/steeple/pkg/database"
	"github.com/steeple/steeple/pkg/firebase_client"
	"github.com/steeple/steeple/pkg/tokens"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the account web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "listen",
						Value:   ":8080",
						Usage:   "listen target for the web server",
						EnvVars: []string{"STEEPLE_API_LISTEN"},
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := firebase_client.Connect(); err != nil {
						return err
					}

					store, err := tokens.ConnectedStore()
					if err != nil {
						return err
					}

					authClient, err := firebase_client.App.Auth(context.Background())
					if err != nil {
						return err
					}

					server := &Server{
						Store:       store,
						Verifier:    authClient,
						HealthCheck: database.Ping,
					}

					return server.Listen(c.String("listen"))
				},
			},
		},
	}
}
