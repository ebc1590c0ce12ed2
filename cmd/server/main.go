package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/polzert/webdemo/internal/config"
	"github.com/polzert/webdemo/internal/scheduler"
	"github.com/polzert/webdemo/internal/screen"
	"github.com/polzert/webdemo/internal/server"
	"github.com/polzert/webdemo/internal/state"
	"github.com/polzert/webdemo/internal/station"
	"github.com/polzert/webdemo/pkg/http/client"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg.InitializeLogging()
	log.Info().Str("env", cfg.Environment).Msg("Environment")

	ctx := context.Background()

	store, err := state.NewStore(ctx, cfg.State)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create state store")
	}

	httpClient := client.New(client.Options{Timeout: cfg.HTTPTimeout})
	s := screen.New(station.NewWFSFetcher(httpClient), store, screen.WithLocale(cfg.Locale))
	defer s.Close()

	if restored, err := s.RestoreInstanceState(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not restore instance state")
	} else if restored {
		log.Info().Msg("Restored previous station list")
	}

	checkpoint := scheduler.NewCheckpointer(s, cfg.Server.SaveInterval)
	if err := checkpoint.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start checkpoint scheduler")
	}

	srv := server.NewServer(cfg.Server, s)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed to start")
			quit <- syscall.SIGTERM
		}
	}()

	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := checkpoint.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to save instance state on shutdown")
	}
}
