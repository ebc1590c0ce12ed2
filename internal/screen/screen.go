// Package screen drives the single stop-list screen: one trigger action, one
// text display and the instance state that carries the text across
// recreation.
//
// All screen state is owned by one event-loop goroutine, the equivalent of a
// UI thread. Fetching and parsing run on background goroutines and post their
// result back to the loop, so the loop never blocks on I/O.
package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/polzert/webdemo/internal/metrics"
	"github.com/polzert/webdemo/internal/models"
	"github.com/polzert/webdemo/internal/state"
	"github.com/polzert/webdemo/internal/station"
)

var (
	// ErrLoadInProgress is returned by Load while another load is running.
	ErrLoadInProgress = errors.New("load already in progress")
	// ErrLoadFailed is returned by Load when no stop list could be obtained.
	ErrLoadFailed = errors.New("loading stop list failed")
	// ErrClosed is returned once the screen has been closed.
	ErrClosed = errors.New("screen closed")
)

type Screen struct {
	fetcher  station.TextFetcher
	store    state.Store
	notifier Notifier
	locale   string

	events    chan func()
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	// Owned by the loop goroutine.
	text   models.DisplayText
	status models.ScreenState
}

type Option func(*Screen)

// WithNotifier sets where the generic failure message is shown.
func WithNotifier(n Notifier) Option {
	return func(s *Screen) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLocale sets the language of the failure message.
func WithLocale(locale string) Option {
	return func(s *Screen) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// New starts a screen. Close must be called to stop its loop goroutine.
func New(fetcher station.TextFetcher, store state.Store, opts ...Option) *Screen {
	s := &Screen{
		fetcher:  fetcher,
		store:    store,
		notifier: LogNotifier{},
		locale:   "en",
		events:   make(chan func()),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		status:   models.StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.run()
	return s
}

func (s *Screen) run() {
	defer close(s.stopped)
	for {
		select {
		case fn := <-s.events:
			fn()
		case <-s.quit:
			return
		}
	}
}

// post runs fn on the loop goroutine. It reports false if the screen is closed.
func (s *Screen) post(fn func()) bool {
	select {
	case s.events <- fn:
		return true
	case <-s.quit:
		return false
	}
}

// Close stops the loop goroutine and waits for it to exit.
func (s *Screen) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.stopped
}

// Text returns the current display text.
func (s *Screen) Text() models.DisplayText {
	reply := make(chan models.DisplayText, 1)
	if !s.post(func() { reply <- s.text }) {
		return ""
	}
	return <-reply
}

// Status returns the current screen state.
func (s *Screen) Status() models.ScreenState {
	reply := make(chan models.ScreenState, 1)
	if !s.post(func() { reply <- s.status }) {
		return models.StateIdle
	}
	return <-reply
}

// GeneralError returns the generic failure message in the screen's locale.
func (s *Screen) GeneralError() string {
	return GeneralError(s.locale)
}

type loadResult struct {
	text models.DisplayText
	err  error
}

// Load is the trigger action. It fetches and parses the stop list in the
// background and applies the result on the loop goroutine, then returns the
// applied text. A trigger while another load is running is ignored and
// reported as ErrLoadInProgress. On failure the display is cleared, the
// generic message is shown through the notifier, and ErrLoadFailed is
// returned.
func (s *Screen) Load(ctx context.Context) (models.DisplayText, error) {
	accepted := make(chan bool, 1)
	if !s.post(func() {
		if s.status == models.StateLoading {
			accepted <- false
			return
		}
		s.status = models.StateLoading
		accepted <- true
	}) {
		return "", ErrClosed
	}

	if !<-accepted {
		metrics.LoadsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		log.Debug().Msg("Ignoring load trigger, load already in progress")
		return "", ErrLoadInProgress
	}

	start := time.Now()
	result := make(chan loadResult, 1)
	go s.load(ctx, result)

	res := <-result
	metrics.LoadDuration.Observe(time.Since(start).Seconds())
	return res.text, res.err
}

// load runs off the loop goroutine.
func (s *Screen) load(ctx context.Context, result chan<- loadResult) {
	body, ok := s.fetcher.Fetch(ctx)
	if !ok {
		metrics.LoadsTotal.WithLabelValues(metrics.OutcomeFetchFailed).Inc()
		s.apply(result, "", 0, ErrLoadFailed)
		return
	}

	names, err := station.ParseStationNames(body)
	if err != nil {
		log.Error().Err(err).Msg("Parsing stop list failed")
		metrics.LoadsTotal.WithLabelValues(metrics.OutcomeParseFailed).Inc()
		s.apply(result, "", 0, fmt.Errorf("%w: %v", ErrLoadFailed, err))
		return
	}

	metrics.LoadsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.apply(result, models.NewDisplayText(names), len(names), nil)
}

// apply hands the outcome to the loop goroutine, which updates the display
// and answers the waiting Load call. count is the number of parsed names,
// which a lone empty name makes differ from the rendered lines.
func (s *Screen) apply(result chan<- loadResult, text models.DisplayText, count int, loadErr error) {
	posted := s.post(func() {
		s.text = text
		s.status = models.StateDisplayed
		metrics.DisplayedStations.Set(float64(count))

		if loadErr != nil {
			s.notifier.Notify(s.GeneralError())
		} else {
			log.Info().Int("station_count", count).Msg("Displayed stop list")
		}
		result <- loadResult{text: text, err: loadErr}
	})
	if !posted {
		result <- loadResult{err: ErrClosed}
	}
}

// SaveInstanceState writes the display text to the state bag.
func (s *Screen) SaveInstanceState(ctx context.Context) error {
	text := s.Text()
	if err := s.store.Save(ctx, state.ResultsKey, text.String()); err != nil {
		return fmt.Errorf("saving instance state: %w", err)
	}
	return nil
}

// RestoreInstanceState sets the display text from the state bag. A missing
// entry leaves the display unchanged. It reports whether a value was found.
func (s *Screen) RestoreInstanceState(ctx context.Context) (bool, error) {
	value, found, err := s.store.Restore(ctx, state.ResultsKey)
	if err != nil {
		return false, fmt.Errorf("restoring instance state: %w", err)
	}
	if !found {
		return false, nil
	}

	done := make(chan struct{})
	if !s.post(func() {
		s.text = models.DisplayText(value)
		if s.status == models.StateIdle {
			s.status = models.StateDisplayed
		}
		metrics.DisplayedStations.Set(float64(len(s.text.Lines())))
		close(done)
	}) {
		return false, ErrClosed
	}
	<-done
	return true, nil
}
