package station

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/polzert/webdemo/pkg/http/client"
)

// WFSFetcher downloads the stop document from the open-data WFS endpoint.
type WFSFetcher struct {
	httpClient client.Interface
	url        string
}

func NewWFSFetcher(httpClient client.Interface) *WFSFetcher {
	return newWFSFetcher(httpClient, StopsURL)
}

func newWFSFetcher(httpClient client.Interface, url string) *WFSFetcher {
	return &WFSFetcher{
		httpClient: httpClient,
		url:        url,
	}
}

// Fetch returns the whole response body as UTF-8 text. Every failure is
// logged and reported only through ok == false.
func (f *WFSFetcher) Fetch(ctx context.Context) (string, bool) {
	resp, err := f.httpClient.Get(ctx, f.url)
	if err != nil {
		if errors.Is(err, client.ErrInvalidURL) {
			log.Error().Err(err).Str("url", f.url).Msg("Malformed URL")
		} else {
			log.Error().Err(err).Str("url", f.url).Msg("I/O error fetching stop list")
		}
		return "", false
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.Error().Int("status", resp.StatusCode).Str("url", f.url).Msg("Stop list request failed")
		return "", false
	}

	if len(resp.Body) == 0 {
		log.Error().Str("url", f.url).Msg("Stop list response was empty")
		return "", false
	}

	log.Debug().Int("bytes", len(resp.Body)).Msg("Fetched stop list")
	return decodeText(resp.Body), true
}

// decodeText returns body as UTF-8, falling back to ISO-8859-1 when the
// payload is not valid UTF-8.
func decodeText(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		log.Warn().Err(err).Msg("Could not decode ISO-8859-1 body, using raw bytes")
		return string(body)
	}
	return string(decoded)
}
