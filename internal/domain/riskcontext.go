package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WeatherWindow is the number of trailing hourly records passed to the model.
const WeatherWindow = 24

// RiskContext is the bounded evidence assembled for one analysis.
type RiskContext struct {
	Location GeoPoint
	Weather  []WeatherRecord
	Fires    []Scored[FirePoint]
	Events   []Scored[HazardEvent]

	FireRadiusKm  float64
	EventRadiusKm float64
}

// NewRiskContext keeps only the last WeatherWindow weather records.
func NewRiskContext(loc GeoPoint, weather []WeatherRecord, fires []Scored[FirePoint], events []Scored[HazardEvent]) RiskContext {
	if len(weather) > WeatherWindow {
		weather = weather[len(weather)-WeatherWindow:]
	}
	return RiskContext{
		Location: loc,
		Weather:  weather,
		Fires:    fires,
		Events:   events,
	}
}

// Render serializes the context as labelled JSON blocks for a prompt.
func (c RiskContext) Render() (string, error) {
	sections := []struct {
		title string
		value any
	}{
		{"Weather (NASA POWER, last 24 hours)", nonNil(c.Weather)},
		{fmt.Sprintf("Active fires (NASA FIRMS, nearest within %g km)", c.FireRadiusKm), nonNil(c.Fires)},
		{fmt.Sprintf("Natural events (NASA EONET, nearest within %g km)", c.EventRadiusKm), nonNil(c.Events)},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Location: latitude %g, longitude %g\n", c.Location.Lat, c.Location.Lon)
	for _, s := range sections {
		data, err := json.MarshalIndent(s.value, "", "  ")
		if err != nil {
			return "", fmt.Errorf("render %s: %w", s.title, err)
		}
		fmt.Fprintf(&b, "\n%s:\n```json\n%s\n```\n", s.title, data)
	}
	return b.String(), nil
}

// nonNil renders empty inputs as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
