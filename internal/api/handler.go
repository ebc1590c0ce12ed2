package api

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/polzert/webdemo/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type StationsResponse struct {
	APIResponse
	Text     string   `json:"text"`
	Stations []string `json:"stations"`
	Count    int      `json:"count"`
}

type StateResponse struct {
	APIResponse
	Status   models.ScreenState `json:"status"`
	Restored bool               `json:"restored,omitempty"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewStationsResponse(text models.DisplayText) *StationsResponse {
	lines := text.Lines()
	return &StationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		Text:        text.String(),
		Stations:    lines,
		Count:       len(lines),
	}
}

func NewStateResponse(status models.ScreenState, restored bool) *StateResponse {
	return &StateResponse{
		APIResponse: APIResponse{ResponseType: "state"},
		Status:      status,
		Restored:    restored,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// WriteJSON writes body to an http.ResponseWriter. CORS headers are left to
// the router's middleware.
func WriteJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, statusCode, NewErrorResponse(message))
}
