package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		baseURL     string
		timeout     time.Duration
		wantTimeout time.Duration
	}{
		{
			name:        "default configuration",
			baseURL:     "https://data.example.com",
			timeout:     0,
			wantTimeout: 30 * time.Second,
		},
		{
			name:        "custom configuration",
			baseURL:     "https://data.test.com",
			timeout:     5 * time.Second,
			wantTimeout: 5 * time.Second,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := New(Options{
				BaseURL: tt.baseURL,
				Timeout: tt.timeout,
			})

			assert.Equal(t, tt.baseURL, client.baseURL)
			assert.Equal(t, tt.wantTimeout, client.httpClient.Timeout)
		})
	}
}

func TestRequestFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		useBase  bool
		path     string
		wantURL  string
		wantCode int
	}{
		{
			name:     "absolute URL",
			useBase:  false,
			wantURL:  "/daten/geo?service=WFS",
			wantCode: http.StatusOK,
		},
		{
			name:     "relative path with base URL",
			useBase:  true,
			path:     "/daten/geo?service=WFS",
			wantURL:  "/daten/geo?service=WFS",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tt.wantURL, r.URL.String())
				w.WriteHeader(tt.wantCode)
			}))
			defer server.Close()

			baseURL := ""
			if tt.useBase {
				baseURL = server.URL
			} else {
				tt.path = server.URL + "/daten/geo?service=WFS"
			}

			client := New(Options{
				BaseURL: baseURL,
				Timeout: 5 * time.Second,
			})

			resp, err := client.Get(context.Background(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}

func TestGetReadsBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL})

	resp, err := client.Get(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"features":[]}`, string(resp.Body))
}

func TestInvalidURL(t *testing.T) {
	t.Parallel()

	client := New(Options{})

	_, err := client.Get(context.Background(), "://missing-scheme")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidURL))
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(Options{
		BaseURL: server.URL,
		Timeout: 100 * time.Millisecond,
	})

	_, err := client.Get(context.Background(), "/test")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidURL))
}

func TestGetFuncOverride(t *testing.T) {
	t.Parallel()

	var calls int32
	client := New(Options{})
	client.GetFunc = func(ctx context.Context, path string) (*Response, error) {
		atomic.AddInt32(&calls, 1)
		return &Response{StatusCode: http.StatusTeapot}, nil
	}

	resp, err := client.Get(context.Background(), "/anything")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func BenchmarkHTTPClient(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(Options{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})

	ctx := context.Background()

	b.Run("Sequential Requests", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, err := client.Get(ctx, "/test")
			require.NoError(b, err)
		}
	})
}
