package firebase_client

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/rs/zerolog/log"
	"github.com/steeple/steeple/pkg/util"
	"google.golang.org/api/option"
)

var App *firebase.App

func Connect() error {
	if App != nil {
		return nil
	}

	env := util.GetEnvironmentVariables()

	var opts []option.ClientOption

	if env["STEEPLE_FIREBASE_SERVICE_ACCOUNT"] != "" {
		decodedKey, err := base64.StdEncoding.DecodeString(env["STEEPLE_FIREBASE_SERVICE_ACCOUNT"])
		if err != nil {
			return fmt.Errorf("decode STEEPLE_FIREBASE_SERVICE_ACCOUNT: %w", err)
		}

		opts = append(opts, option.WithCredentialsJSON(decodedKey))
	} else {
		log.Warn().Msg("STEEPLE_FIREBASE_SERVICE_ACCOUNT not set, using application default credentials")
	}

	var config *firebase.Config
	if env["STEEPLE_FIREBASE_PROJECT_ID"] != "" {
		config = &firebase.Config{ProjectID: env["STEEPLE_FIREBASE_PROJECT_ID"]}
	}

	app, err := firebase.NewApp(context.Background(), config, opts...)
	if err != nil {
		return err
	}

	App = app

	log.Info().Msg("Firebase app initialised")

	return nil
}
