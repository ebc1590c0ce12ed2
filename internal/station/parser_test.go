package station

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polzert/webdemo/internal/models"
)

// captureLogs redirects the global logger into a buffer for the duration of
// the test. Tests using it must not run in parallel.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	original := log.Logger
	originalLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(originalLevel)
	})
	return &buf
}

func countLevel(buf *bytes.Buffer, level string) int {
	count := 0
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry["level"] == level {
			count++
		}
	}
	return count
}

func TestParseStationNames_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "duplicates are removed and names sorted",
			input: `{"features":[{"properties":{"HTXT":"Stephansplatz"}},{"properties":{"HTXT":"Karlsplatz"}},{"properties":{"HTXT":"Stephansplatz"}}]}`,
			want:  []string{"Karlsplatz", "Stephansplatz"},
		},
		{
			name:  "empty feature array",
			input: `{"features":[]}`,
			want:  []string{},
		},
		{
			name:  "feature without HTXT is skipped",
			input: `{"features":[{"properties":{}},{"properties":{"HTXT":"Rathaus"}}]}`,
			want:  []string{"Rathaus"},
		},
		{
			name:  "missing features",
			input: `{}`,
			want:  []string{},
		},
		{
			name:  "features is not an array",
			input: `{"features":{"HTXT":"Rathaus"}}`,
			want:  []string{},
		},
		{
			name:  "features is null",
			input: `{"features":null}`,
			want:  []string{},
		},
		{
			name:  "missing properties",
			input: `{"features":[{"type":"Feature"},{"properties":{"HTXT":"Praterstern"}}]}`,
			want:  []string{"Praterstern"},
		},
		{
			name:  "null properties",
			input: `{"features":[{"properties":null},{"properties":{"HTXT":"Praterstern"}}]}`,
			want:  []string{"Praterstern"},
		},
		{
			name:  "non-string HTXT values are skipped",
			input: `{"features":[{"properties":{"HTXT":42}},{"properties":{"HTXT":null}},{"properties":{"HTXT":["x"]}},{"properties":{"HTXT":"Schwedenplatz"}}]}`,
			want:  []string{"Schwedenplatz"},
		},
		{
			name:  "non-object features are skipped",
			input: `{"features":[1,"two",null,[],{"properties":{"HTXT":"Westbahnhof"}}]}`,
			want:  []string{"Westbahnhof"},
		},
		{
			name:  "properties of wrong type are skipped",
			input: `{"features":[{"properties":"Karlsplatz"},{"properties":{"HTXT":"Karlsplatz"}}]}`,
			want:  []string{"Karlsplatz"},
		},
		{
			name:  "empty string name is kept",
			input: `{"features":[{"properties":{"HTXT":""}},{"properties":{"HTXT":"Ring"}}]}`,
			want:  []string{"", "Ring"},
		},
		{
			name:  "unicode names keep byte-wise order",
			input: `{"features":[{"properties":{"HTXT":"Österreich"}},{"properties":{"HTXT":"Zieglergasse"}},{"properties":{"HTXT":"Alser Straße"}}]}`,
			want:  []string{"Alser Straße", "Zieglergasse", "Österreich"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseStationNames(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStationNames_NotAnObject(t *testing.T) {
	t.Parallel()

	inputs := []string{
		``,
		`not json`,
		`null`,
		`[]`,
		`[{"properties":{"HTXT":"Rathaus"}}]`,
		`"Rathaus"`,
		`42`,
		`{"features":[`,
	}

	for _, input := range inputs {
		input := input
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			t.Parallel()

			got, err := ParseStationNames(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotJSONObject))
			assert.Nil(t, got)
		})
	}
}

func TestParseStationNames_Laws(t *testing.T) {
	t.Parallel()

	names := []string{"Stephansplatz", "Karlsplatz", "Volkstheater", "Karlsplatz", "Museumsquartier", "Stephansplatz", "Praterstern"}

	fc := models.FeatureCollection{Type: "FeatureCollection"}
	for i, name := range names {
		fc.Features = append(fc.Features, models.NewStopFeature(name, 16.37+float64(i)/100, 48.2))
	}
	fc.Features = append(fc.Features, models.Feature{Type: "Feature"})

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	first, err := ParseStationNames(string(data))
	require.NoError(t, err)

	t.Run("idempotent", func(t *testing.T) {
		second, err := ParseStationNames(string(data))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("sorted", func(t *testing.T) {
		assert.True(t, sort.StringsAreSorted(first))
		for i := 1; i < len(first); i++ {
			assert.LessOrEqual(t, first[i-1], first[i])
		}
	})

	t.Run("deduplicated", func(t *testing.T) {
		seen := make(map[string]int)
		for _, name := range first {
			seen[name]++
		}
		for name, count := range seen {
			assert.Equal(t, 1, count, "name %q appears %d times", name, count)
		}
		assert.Len(t, first, 5)
	})
}

func TestParseStationNames_MissingFeaturesLogsOneWarning(t *testing.T) {
	buf := captureLogs(t)

	got, err := ParseStationNames(`{}`)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, countLevel(buf, "warn"))
	assert.Contains(t, buf.String(), "No features found")
}

func TestParseStationNames_WarningIncludesIndex(t *testing.T) {
	buf := captureLogs(t)

	got, err := ParseStationNames(`{"features":[{"properties":{"HTXT":"Rathaus"}},{"properties":{}},{}]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rathaus"}, got)
	assert.Equal(t, 2, countLevel(buf, "warn"))
	assert.Contains(t, buf.String(), `"index":1`)
	assert.Contains(t, buf.String(), `"index":2`)
}

func BenchmarkParseStationNames(b *testing.B) {
	fc := models.FeatureCollection{Type: "FeatureCollection"}
	for i := 0; i < 5000; i++ {
		fc.Features = append(fc.Features, models.NewStopFeature(fmt.Sprintf("Stop %d", i%1200), 16.3, 48.2))
	}
	data, err := json.Marshal(fc)
	require.NoError(b, err)
	text := string(data)

	originalLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	defer zerolog.SetGlobalLevel(originalLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseStationNames(text); err != nil {
			b.Fatal(err)
		}
	}
}
