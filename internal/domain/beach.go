package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// GeoPosition is one of the four compass sectors.
type GeoPosition string

const (
	North GeoPosition = "N"
	East  GeoPosition = "E"
	South GeoPosition = "S"
	West  GeoPosition = "W"
)

// Valid reports whether p is one of the four known sectors.
func (p GeoPosition) Valid() bool {
	switch p {
	case North, East, South, West:
		return true
	}
	return false
}

// Opposite returns the sector across the compass from p.
func (p GeoPosition) Opposite() GeoPosition {
	switch p {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return ""
}

// ParseGeoPosition accepts a sector letter or name in any case ("e", "East").
func ParseGeoPosition(s string) (GeoPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, nil
	case "e", "east":
		return East, nil
	case "s", "south":
		return South, nil
	case "w", "west":
		return West, nil
	}
	return "", fmt.Errorf("invalid position %q", s)
}

// UnmarshalJSON normalizes the position through ParseGeoPosition so clients
// can send "w" or "west".
func (p *GeoPosition) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("position must be a string: %w", err)
	}
	parsed, err := ParseGeoPosition(s)
	if err != nil {
		return &ValidationError{Field: "position", Reason: err.Error()}
	}
	*p = parsed
	return nil
}

// Beach is a user-registered surf spot. Position is the direction the
// shoreline faces.
type Beach struct {
	ID       int64       `json:"id,omitempty"`
	Name     string      `json:"name"`
	UserID   string      `json:"user,omitempty"`
	Lat      float64     `json:"lat"`
	Lng      float64     `json:"lng"`
	Position GeoPosition `json:"position"`
}

// Validate checks the fields a beach needs before it can be stored or rated.
func (b Beach) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if math.IsNaN(b.Lat) || b.Lat < -90 || b.Lat > 90 {
		return &ValidationError{Field: "lat", Reason: "must be between -90 and 90"}
	}
	if math.IsNaN(b.Lng) || b.Lng < -180 || b.Lng > 180 {
		return &ValidationError{Field: "lng", Reason: "must be between -180 and 180"}
	}
	if !b.Position.Valid() {
		return &ValidationError{Field: "position", Reason: "must be one of N, E, S, W"}
	}
	return nil
}

// ForecastPoint is one hourly marine observation for a coordinate.
// Heights are meters, directions degrees, period seconds.
type ForecastPoint struct {
	Time           string  `json:"time"`
	WaveHeight     float64 `json:"waveHeight"`
	WaveDirection  float64 `json:"waveDirection"`
	SwellDirection float64 `json:"swellDirection"`
	SwellHeight    float64 `json:"swellHeight"`
	SwellPeriod    float64 `json:"swellPeriod"`
	WindDirection  float64 `json:"windDirection"`
}

// BeachForecast is a ForecastPoint tagged with the beach it belongs to and
// its computed rating. It serializes flat.
type BeachForecast struct {
	Lat      float64     `json:"lat"`
	Lng      float64     `json:"lng"`
	Name     string      `json:"name"`
	Position GeoPosition `json:"position"`
	Rating   int         `json:"rating"`
	ForecastPoint
}

// TimeForecast holds every beach's forecast for one timestamp, best rating first.
type TimeForecast struct {
	Time     string          `json:"time"`
	Forecast []BeachForecast `json:"forecast"`
}
