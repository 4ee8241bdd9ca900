package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RiskLevel is the ordinal hazard rating returned by the model.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
)

// RiskLevels lists every level from lowest to highest.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskVeryHigh}

// ParseRiskLevel accepts one of the four level names, exactly as spelled.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for _, l := range RiskLevels {
		if s == string(l) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown risk level %q", ErrInvalidModelOutput, s)
}

// Rank orders levels: Low=0 through Very High=3, unknown=-1.
func (l RiskLevel) Rank() int {
	for i, v := range RiskLevels {
		if v == l {
			return i
		}
	}
	return -1
}

// RiskAssessment is a single hazard's rating and the model's explanation.
type RiskAssessment struct {
	Level     RiskLevel `json:"level"`
	Reasoning string    `json:"reasoning"`
}

// RiskAssessments holds one assessment per hazard.
type RiskAssessments struct {
	Wildfire  RiskAssessment `json:"wildfire"`
	Heatwave  RiskAssessment `json:"heatwave"`
	Flood     RiskAssessment `json:"flood"`
	Landslide RiskAssessment `json:"landslide"`
}

// Validate checks that every hazard carries a known level.
func (r RiskAssessments) Validate() error {
	hazards := []struct {
		name string
		a    RiskAssessment
	}{
		{"wildfire", r.Wildfire},
		{"heatwave", r.Heatwave},
		{"flood", r.Flood},
		{"landslide", r.Landslide},
	}
	for _, h := range hazards {
		if _, err := ParseRiskLevel(string(h.a.Level)); err != nil {
			return fmt.Errorf("%s: %w", h.name, err)
		}
	}
	return nil
}

// Highest returns the most severe level across the four hazards.
func (r RiskAssessments) Highest() RiskLevel {
	best := r.Wildfire.Level
	for _, l := range []RiskLevel{r.Heatwave.Level, r.Flood.Level, r.Landslide.Level} {
		if l.Rank() > best.Rank() {
			best = l
		}
	}
	return best
}

// DecodeAssessments parses a model reply into RiskAssessments. A surrounding
// Markdown code fence is tolerated.
func DecodeAssessments(reply string) (RiskAssessments, error) {
	var out RiskAssessments
	if err := json.Unmarshal([]byte(StripCodeFence(reply)), &out); err != nil {
		return RiskAssessments{}, fmt.Errorf("%w: decode assessments: %w", ErrInvalidModelOutput, err)
	}
	if err := out.Validate(); err != nil {
		return RiskAssessments{}, err
	}
	return out, nil
}

// StripCodeFence removes a leading ```/```json line and a trailing ``` if present.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// RiskReport is the outcome of one risk analysis.
type RiskReport struct {
	ID       string   `json:"id"`
	Location GeoPoint `json:"location"`
	RiskAssessments
	NearbyFires  int       `json:"nearbyFires"`
	NearbyEvents int       `json:"nearbyEvents"`
	Model        string    `json:"model,omitempty"`
	GeneratedAt  time.Time `json:"generatedAt"`
}
