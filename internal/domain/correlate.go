package domain

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
)

// Locator extracts a candidate's location. It returns false when the
// candidate has no usable location; such candidates are dropped.
type Locator[T any] func(item T) (GeoPoint, bool)

// Scored pairs a candidate with its distance from the query point.
type Scored[T any] struct {
	Item       T
	DistanceKm float64
}

// MarshalJSON emits the item's own fields with distanceKm added alongside
// them. Items that do not encode as JSON objects are nested under "item".
func (s Scored[T]) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(s.Item)
	if err != nil {
		return nil, fmt.Errorf("marshal scored item: %w", err)
	}
	dist, err := json.Marshal(s.DistanceKm)
	if err != nil {
		return nil, fmt.Errorf("marshal distance: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return json.Marshal(map[string]json.RawMessage{"item": raw, "distanceKm": dist})
	}
	fields["distanceKm"] = dist
	return json.Marshal(fields)
}

// Correlate returns up to maxItems candidates within maxDistanceKm of center
// (inclusive), nearest first. Candidates the locator cannot place, or whose
// coordinates are not a valid point, are skipped. Equal distances keep their
// input order. The input slice is not modified.
//
// The caller is expected to validate center beforehand; see GeoPoint.Validate.
func Correlate[T any](center GeoPoint, items []T, locate Locator[T], maxDistanceKm float64, maxItems int) []Scored[T] {
	out := make([]Scored[T], 0, min(len(items), max(maxItems, 0)))
	if maxItems <= 0 || locate == nil {
		return out
	}

	for _, item := range items {
		loc, ok := locate(item)
		if !ok || loc.Validate() != nil {
			continue
		}
		d := HaversineKm(center, loc)
		if !(d <= maxDistanceKm) {
			continue
		}
		out = append(out, Scored[T]{Item: item, DistanceKm: d})
	}

	slices.SortStableFunc(out, func(a, b Scored[T]) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	if len(out) > maxItems {
		out = out[:maxItems]
	}
	return out
}

// Items strips the distances from a scored slice.
func Items[T any](scored []Scored[T]) []T {
	out := make([]T, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}
