package risk

import (
	"fmt"
	"strings"
)

// FetchPolicy decides what a failed upstream fetch does to an analysis.
type FetchPolicy int

const (
	// PolicyStrict fails the analysis when any source fails.
	PolicyStrict FetchPolicy = iota
	// PolicyDegrade replaces failed fire or event fetches with empty lists.
	// Weather is always required.
	PolicyDegrade
)

// ParseFetchPolicy reads "strict" or "degrade", case-insensitively. Empty means strict.
func ParseFetchPolicy(s string) (FetchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "degrade":
		return PolicyDegrade, nil
	default:
		return PolicyStrict, fmt.Errorf("unknown fetch policy %q", s)
	}
}

func (p FetchPolicy) String() string {
	if p == PolicyDegrade {
		return "degrade"
	}
	return "strict"
}
