// Package server exposes the stop-list screen over a local HTTP API with
// request logging, Prometheus metrics and throttled load triggers.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/juju/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/polzert/webdemo/internal/api"
	"github.com/polzert/webdemo/internal/config"
	"github.com/polzert/webdemo/internal/metrics"
	"github.com/polzert/webdemo/internal/models"
	"github.com/polzert/webdemo/internal/screen"
)

// Screen is the part of screen.Screen the HTTP API drives.
type Screen interface {
	Load(ctx context.Context) (models.DisplayText, error)
	Text() models.DisplayText
	Status() models.ScreenState
	SaveInstanceState(ctx context.Context) error
	RestoreInstanceState(ctx context.Context) (bool, error)
	GeneralError() string
}

type Server struct {
	server     *http.Server
	router     chi.Router
	screen     Screen
	loadBucket *ratelimit.Bucket
}

// NewServer creates a new server instance
func NewServer(cfg config.ServerConfig, s Screen) *Server {
	router := chi.NewRouter()

	rate := cfg.LoadRatePerSec
	if rate <= 0 {
		rate = 1
	}
	burst := cfg.LoadBurst
	if burst <= 0 {
		burst = 1
	}

	srv := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.ListenAddr,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:     router,
		screen:     s,
		loadBucket: ratelimit.NewBucketWithRate(rate, burst),
	}

	srv.setupMiddleware(cfg.AllowedOrigins)
	srv.setupRoutes()

	return srv
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware(allowedOrigins []string) {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(hlog.NewHandler(log.Logger))
	s.router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(metrics.Middleware)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Post("/load", s.handleLoad)
	s.router.Get("/display", s.handleDisplay)
	s.router.Post("/state/save", s.handleSave)
	s.router.Post("/state/restore", s.handleRestore)
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if s.loadBucket.TakeAvailable(1) == 0 {
		api.WriteError(w, "Too many load requests", http.StatusTooManyRequests)
		return
	}

	// A client hanging up must not cancel the fetch; the HTTP client timeout
	// still bounds it.
	text, err := s.screen.Load(context.WithoutCancel(r.Context()))
	switch {
	case err == nil:
		api.WriteJSON(w, http.StatusOK, api.NewStationsResponse(text))
	case errors.Is(err, screen.ErrLoadInProgress):
		api.WriteError(w, "Load already in progress", http.StatusConflict)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("Load failed")
		api.WriteError(w, s.screen.GeneralError(), http.StatusBadGateway)
	}
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, api.NewStationsResponse(s.screen.Text()))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.screen.SaveInstanceState(r.Context()); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Saving instance state failed")
		api.WriteError(w, "Could not save state", http.StatusInternalServerError)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.NewStateResponse(s.screen.Status(), false))
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	restored, err := s.screen.RestoreInstanceState(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Restoring instance state failed")
		api.WriteError(w, "Could not restore state", http.StatusInternalServerError)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.NewStateResponse(s.screen.Status(), restored))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, api.NewStateResponse(s.screen.Status(), false))
}

// Start starts the server
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("Starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		if err := s.server.Close(); err != nil {
			log.Error().Err(err).Msg("Server close error")
			return err
		}
	}

	log.Info().Msg("Server shutdown complete")
	return nil
}
