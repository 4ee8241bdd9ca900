// Package village serves the monitored village set and answers proximity
// queries over it.
package village

import (
	"fmt"
	"math"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
)

// Summary counts villages by risk level and alert status.
type Summary struct {
	Total         int                        `json:"total"`
	ByRiskLevel   map[domain.RiskLevel]int   `json:"byRiskLevel"`
	ByAlertStatus map[domain.AlertStatus]int `json:"byAlertStatus"`
}

// Repository is an immutable in-memory village store with a spatial index.
type Repository struct {
	villages []domain.Village
	byID     map[string]int
	index    *index
}

// NewRepository indexes villages. The slice is copied.
func NewRepository(villages []domain.Village) *Repository {
	vs := make([]domain.Village, len(villages))
	copy(vs, villages)

	byID := make(map[string]int, len(vs))
	for i, v := range vs {
		byID[v.ID] = i
	}
	return &Repository{villages: vs, byID: byID, index: newIndex(vs)}
}

// List returns every village in seed order.
func (r *Repository) List() []domain.Village {
	out := make([]domain.Village, len(r.villages))
	copy(out, r.villages)
	return out
}

// Get returns the village with id, or domain.ErrNotFound.
func (r *Repository) Get(id string) (domain.Village, error) {
	i, ok := r.byID[id]
	if !ok {
		return domain.Village{}, fmt.Errorf("village %q: %w", id, domain.ErrNotFound)
	}
	return r.villages[i], nil
}

// Near returns up to limit villages within radiusKm of center, nearest
// first. Villages at equal distance keep their seed order.
func (r *Repository) Near(center domain.GeoPoint, radiusKm float64, limit int) ([]domain.Scored[domain.Village], error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return nil, fmt.Errorf("%w: radius must be a non-negative number of km", domain.ErrInvalidArgument)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidArgument)
	}

	positions := r.index.candidates(center, radiusKm)
	candidates := make([]domain.Village, len(positions))
	for i, p := range positions {
		candidates[i] = r.villages[p]
	}
	return domain.Correlate(center, candidates, domain.VillageLocator, radiusKm, limit), nil
}

// Summary counts villages per risk level and alert status.
func (r *Repository) Summary() Summary {
	s := Summary{
		Total:         len(r.villages),
		ByRiskLevel:   map[domain.RiskLevel]int{},
		ByAlertStatus: map[domain.AlertStatus]int{},
	}
	for _, v := range r.villages {
		s.ByRiskLevel[v.RiskLevel]++
		s.ByAlertStatus[v.AlertStatus]++
	}
	return s
}
