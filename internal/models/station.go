package models

import (
	"sort"
	"strings"
)

// FeatureCollection mirrors the GeoJSON document served by the stop endpoint.
// The parser reads the wire format leniently and does not decode into this
// type; it exists for building and serving documents of the same shape.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Geometry   *Geometry      `json:"geometry,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

// NewStopFeature builds a Point feature carrying the stop name under HTXT.
func NewStopFeature(name string, lon, lat float64) Feature {
	return Feature{
		Type: "Feature",
		Geometry: &Geometry{
			Type:        "Point",
			Coordinates: []float64{lon, lat},
		},
		Properties: map[string]any{"HTXT": name},
	}
}

// StationSet collects unique station names.
type StationSet struct {
	names map[string]struct{}
}

func NewStationSet() *StationSet {
	return &StationSet{names: make(map[string]struct{})}
}

func (s *StationSet) Add(name string) {
	s.names[name] = struct{}{}
}

func (s *StationSet) Len() int {
	return len(s.names)
}

// Sorted returns the members in ascending byte-wise order. The result is
// never nil.
func (s *StationSet) Sorted() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DisplayText is the newline-joined station list shown to the user.
type DisplayText string

func NewDisplayText(names []string) DisplayText {
	return DisplayText(strings.Join(names, "\n"))
}

// Lines splits the text back into station names. Empty text has no lines.
func (d DisplayText) Lines() []string {
	if d == "" {
		return []string{}
	}
	return strings.Split(string(d), "\n")
}

func (d DisplayText) String() string {
	return string(d)
}

type ScreenState string

const (
	StateIdle      ScreenState = "idle"
	StateLoading   ScreenState = "loading"
	StateDisplayed ScreenState = "displayed"
)
