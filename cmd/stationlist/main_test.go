package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/polzert/webdemo/internal/screen"
	"github.com/polzert/webdemo/internal/station"
)

type stubFetcher struct {
	body string
	ok   bool
}

func (f stubFetcher) Fetch(context.Context) (string, bool) {
	return f.body, f.ok
}

func withFetcher(t *testing.T, f station.TextFetcher) {
	t.Helper()

	original := newFetcher
	newFetcher = func(time.Duration) station.TextFetcher { return f }
	t.Cleanup(func() { newFetcher = original })
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		fetcher    stubFetcher
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name: "prints sorted unique names",
			fetcher: stubFetcher{ok: true, body: `{"features":[
				{"properties":{"HTXT":"Stephansplatz"}},
				{"properties":{"HTXT":"Karlsplatz"}},
				{"properties":{"HTXT":"Stephansplatz"}}]}`},
			wantCode:   0,
			wantStdout: "Karlsplatz\nStephansplatz\n",
		},
		{
			name:       "empty feature list prints nothing",
			fetcher:    stubFetcher{ok: true, body: `{"features":[]}`},
			wantCode:   0,
			wantStdout: "",
		},
		{
			name:       "fetch failure",
			fetcher:    stubFetcher{ok: false},
			wantCode:   1,
			wantStderr: screen.GeneralError("en") + "\n",
		},
		{
			name:       "invalid document in German",
			args:       []string{"-locale", "de"},
			fetcher:    stubFetcher{ok: true, body: `not json`},
			wantCode:   1,
			wantStderr: screen.GeneralError("de") + "\n",
		},
		{
			name:     "unknown flag",
			args:     []string{"-bogus"},
			wantCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withFetcher(t, tt.fetcher)

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStdout, stdout.String())
			if tt.wantStderr != "" {
				assert.Equal(t, tt.wantStderr, stderr.String())
			}
		})
	}
}

func TestRunRestoreWithoutSavedState(t *testing.T) {
	withFetcher(t, stubFetcher{ok: true, body: `{"features":[]}`})

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-restore"}, &stdout, &stderr)

	// Each run gets a fresh in-memory bag.
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "no saved stop list")
}
