package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
)

// ModelAdvisor runs the model-administration prompts: drafting a new risk
// model configuration, suggesting updates and summarizing version diffs.
type ModelAdvisor struct {
	model Model
}

// NewModelAdvisor creates a ModelAdvisor. A nil model makes every call
// return domain.ErrModelUnavailable.
func NewModelAdvisor(model Model) *ModelAdvisor {
	return &ModelAdvisor{model: model}
}

// QuickstartModel drafts a configuration from a plain-language description.
// The returned configuration is guaranteed to be valid JSON.
func (m *ModelAdvisor) QuickstartModel(ctx context.Context, description string) (domain.ModelConfiguration, error) {
	if err := required("prompt", description); err != nil {
		return domain.ModelConfiguration{}, err
	}
	var raw struct {
		Configuration json.RawMessage `json:"configuration"`
	}
	if err := m.ask(ctx, quickstartSystemPrompt, "Prompt: "+description, &raw); err != nil {
		return domain.ModelConfiguration{}, err
	}

	// Models sometimes inline the configuration as an object instead of a string.
	config := string(raw.Configuration)
	if strings.HasPrefix(config, `"`) {
		if err := json.Unmarshal(raw.Configuration, &config); err != nil {
			return domain.ModelConfiguration{}, fmt.Errorf("%w: %w", domain.ErrInvalidModelOutput, err)
		}
	}
	if config == "" || config == "null" || !json.Valid([]byte(config)) {
		return domain.ModelConfiguration{}, fmt.Errorf("%w: configuration is not valid JSON", domain.ErrInvalidModelOutput)
	}
	return domain.ModelConfiguration{Configuration: config}, nil
}

// SuggestUpdates proposes model changes from ground truth and performance metrics.
func (m *ModelAdvisor) SuggestUpdates(ctx context.Context, groundTruth, metrics, currentModel string) (domain.ModelSuggestion, error) {
	for _, f := range [][2]string{
		{"groundTruthData", groundTruth},
		{"modelPerformanceMetrics", metrics},
		{"currentModelDescription", currentModel},
	} {
		if err := required(f[0], f[1]); err != nil {
			return domain.ModelSuggestion{}, err
		}
	}

	user := fmt.Sprintf("Ground truth data:\n%s\n\nModel performance metrics:\n%s\n\nCurrent model description:\n%s",
		groundTruth, metrics, currentModel)
	var out domain.ModelSuggestion
	if err := m.ask(ctx, suggestSystemPrompt, user, &out); err != nil {
		return domain.ModelSuggestion{}, err
	}
	if out.SuggestedUpdates == "" {
		return domain.ModelSuggestion{}, fmt.Errorf("%w: empty suggestedUpdates", domain.ErrInvalidModelOutput)
	}
	return out, nil
}

// DiffModels summarizes what changed between two model versions.
func (m *ModelAdvisor) DiffModels(ctx context.Context, previous, current string) (domain.ModelDiff, error) {
	if err := required("previousModelVersion", previous); err != nil {
		return domain.ModelDiff{}, err
	}
	if err := required("currentModelVersion", current); err != nil {
		return domain.ModelDiff{}, err
	}

	user := fmt.Sprintf("Previous model version:\n%s\n\nCurrent model version:\n%s", previous, current)
	var out domain.ModelDiff
	if err := m.ask(ctx, diffSystemPrompt, user, &out); err != nil {
		return domain.ModelDiff{}, err
	}
	if out.Summary == "" {
		return domain.ModelDiff{}, fmt.Errorf("%w: empty summary", domain.ErrInvalidModelOutput)
	}
	return out, nil
}

func (m *ModelAdvisor) ask(ctx context.Context, system, user string, out any) error {
	if m.model == nil {
		return fmt.Errorf("%w: no model configured", domain.ErrModelUnavailable)
	}
	reply, err := m.model.Complete(ctx, system, user)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(domain.StripCodeFence(reply)), out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidModelOutput, err)
	}
	return nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidArgument, name)
	}
	return nil
}
