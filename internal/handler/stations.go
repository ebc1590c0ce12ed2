package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/polzert/webdemo/internal/api"
	"github.com/polzert/webdemo/internal/models"
	"github.com/polzert/webdemo/internal/screen"
)

// StationScreen is the part of screen.Screen the handler drives.
type StationScreen interface {
	Load(ctx context.Context) (models.DisplayText, error)
	Text() models.DisplayText
	SaveInstanceState(ctx context.Context) error
	GeneralError() string
}

type StationsHandler struct {
	screen StationScreen
}

func NewStationsHandler(s StationScreen) *StationsHandler {
	return &StationsHandler{
		screen: s,
	}
}

// HandleRequest serves GET requests. action=display returns the current text;
// anything else triggers a load and saves the resulting text.
func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod != "" && request.HTTPMethod != http.MethodGet {
		return api.Error("Only GET method is allowed", http.StatusMethodNotAllowed)
	}

	switch action := request.QueryStringParameters["action"]; action {
	case "display":
		return api.Success(api.NewStationsResponse(h.screen.Text()))
	case "", "load":
	default:
		return api.Error("Unknown action", http.StatusBadRequest)
	}

	text, err := h.screen.Load(ctx)
	if errors.Is(err, screen.ErrLoadInProgress) {
		return api.Error("Load already in progress", http.StatusConflict)
	}

	if saveErr := h.screen.SaveInstanceState(ctx); saveErr != nil {
		log.Error().Err(saveErr).Msg("Failed to save instance state")
	}

	if err != nil {
		log.Error().Err(err).Msg("Load failed")
		return api.Error(h.screen.GeneralError(), http.StatusBadGateway)
	}

	return api.Success(api.NewStationsResponse(text))
}
