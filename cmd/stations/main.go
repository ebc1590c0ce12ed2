package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/polzert/webdemo/internal/config"
	"github.com/polzert/webdemo/internal/handler"
	"github.com/polzert/webdemo/internal/screen"
	"github.com/polzert/webdemo/internal/state"
	"github.com/polzert/webdemo/internal/station"
	"github.com/polzert/webdemo/pkg/http/client"
)

var (
	stationsHandler *handler.StationsHandler
	setupOnce       sync.Once
	lambdaStart     = lambda.Start
)

func init() {
	setupOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		cfg.InitializeLogging()

		log.Info().Str("env", cfg.Environment).Msg("Environment")
		log.Debug().Msg("Debug logs enabled")

		ctx := context.Background()

		httpClient := client.New(client.Options{
			Timeout: cfg.HTTPTimeout,
		})

		store, err := state.NewStore(ctx, cfg.State)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create state store")
		}

		s := screen.New(station.NewWFSFetcher(httpClient), store, screen.WithLocale(cfg.Locale))

		// A warm container keeps its screen; a cold one picks up the last saved text.
		if restored, err := s.RestoreInstanceState(ctx); err != nil {
			log.Warn().Err(err).Msg("Could not restore instance state")
		} else if restored {
			log.Info().Msg("Restored previous station list")
		}

		stationsHandler = handler.NewStationsHandler(s)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Info().Msg("Handling Lambda request")
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
