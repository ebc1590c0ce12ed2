package station

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/polzert/webdemo/internal/models"
)

// ErrNotJSONObject is returned when the document root is not a JSON object.
var ErrNotJSONObject = errors.New("response is not a JSON object")

var jsonNull = []byte("null")

// ParseStationNames extracts features[].properties.HTXT from a GeoJSON
// document and returns the distinct names in ascending order. Missing or
// mistyped fields only skip the affected feature; the one hard failure is a
// document that is not a JSON object.
func ParseStationNames(text string) ([]string, error) {
	root, ok, err := decodeObject([]byte(text))
	if err != nil || !ok {
		if err == nil {
			err = errors.New("empty or null document")
		}
		return nil, fmt.Errorf("%w: %v", ErrNotJSONObject, err)
	}

	stations := models.NewStationSet()

	var features []json.RawMessage
	raw, found := root["features"]
	if !found || isNull(raw) || json.Unmarshal(raw, &features) != nil {
		log.Warn().Msg("No features found")
		return stations.Sorted(), nil
	}

	for i, feature := range features {
		name, ok := stationName(feature)
		if !ok {
			log.Warn().Int("index", i).Msgf("No name for feature %d", i)
			continue
		}
		stations.Add(name)
	}

	log.Debug().
		Int("feature_count", len(features)).
		Int("station_count", stations.Len()).
		Msg("Parsed stop list")

	return stations.Sorted(), nil
}

// stationName reads properties.HTXT from one feature.
func stationName(feature json.RawMessage) (string, bool) {
	obj, ok, err := decodeObject(feature)
	if err != nil || !ok {
		return "", false
	}

	props, ok, err := decodeObject(obj["properties"])
	if err != nil || !ok {
		return "", false
	}

	raw, found := props["HTXT"]
	if !found || isNull(raw) {
		return "", false
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", false
	}
	return name, true
}

// decodeObject decodes raw as a JSON object. ok is false for absent or null
// input; err is set when raw holds something other than an object.
func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool, error) {
	if len(raw) == 0 || isNull(raw) {
		return nil, false, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false, err
	}
	return obj, true, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}
