package domain

// ModelConfiguration is a bootstrap risk-model configuration drafted by the model.
// Configuration holds a JSON document.
type ModelConfiguration struct {
	Configuration string `json:"configuration"`
}

// ModelSuggestion proposes risk-model improvements from ground truth and metrics.
type ModelSuggestion struct {
	SuggestedUpdates string `json:"suggestedUpdates"`
	Rationale        string `json:"rationale"`
}

// ModelDiff summarizes the differences between two risk-model versions.
type ModelDiff struct {
	Summary string `json:"summary"`
}
