// Command stationlist loads the Vienna stop list once and prints it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/polzert/webdemo/internal/config"
	"github.com/polzert/webdemo/internal/screen"
	"github.com/polzert/webdemo/internal/state"
	"github.com/polzert/webdemo/internal/station"
	"github.com/polzert/webdemo/pkg/http/client"
)

var newFetcher = func(timeout time.Duration) station.TextFetcher {
	return station.NewWFSFetcher(client.New(client.Options{Timeout: timeout}))
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("stationlist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	timeout := fs.Duration("timeout", cfg.HTTPTimeout, "HTTP timeout for the stop list request")
	locale := fs.String("locale", cfg.Locale, "language of the failure message")
	restore := fs.Bool("restore", false, "print the saved stop list instead of loading")
	save := fs.Bool("save", false, "save the loaded stop list to the state bag")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg.InitializeLogging()

	store, err := state.NewStore(ctx, cfg.State)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create state store")
		return 2
	}

	s := screen.New(newFetcher(*timeout), store,
		screen.WithLocale(*locale),
		screen.WithNotifier(screen.NotifierFunc(func(message string) {
			fmt.Fprintln(stderr, message)
		})),
	)
	defer s.Close()

	if *restore {
		found, err := s.RestoreInstanceState(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Could not restore instance state")
			return 1
		}
		if !found {
			fmt.Fprintln(stderr, "no saved stop list")
			return 1
		}
		printText(stdout, s.Text().String())
		return 0
	}

	text, err := s.Load(ctx)
	if *save {
		if saveErr := s.SaveInstanceState(ctx); saveErr != nil {
			log.Error().Err(saveErr).Msg("Failed to save instance state")
		}
	}
	if err != nil {
		if !errors.Is(err, screen.ErrLoadFailed) {
			fmt.Fprintln(stderr, s.GeneralError())
		}
		return 1
	}

	printText(stdout, text.String())
	return 0
}

func printText(w io.Writer, text string) {
	if text == "" {
		return
	}
	fmt.Fprintln(w, text)
}
