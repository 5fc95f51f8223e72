package routing

import "github.com/Tomas-vilte/MateReview/internal/domain/models"

type ModelSelector struct {
	overrides map[models.AgentKind]string
}

// NewModelSelector creates a selector. Overrides pin a model per agent
// kind and win over the routing heuristics; a nil map keeps routing on.
func NewModelSelector(overrides map[models.AgentKind]string) *ModelSelector {
	return &ModelSelector{overrides: overrides}
}

// SelectModel picks the model for one agent task based on its kind and
// the estimated prompt size
//
// Smart Routing Strategy:
//   - Security findings are the costliest to miss: Pro (maximum scrutiny)
//   - Large scopes (> 15k tokens): 3.0 Flash (better context, avoids hallucinations)
//   - Everything else: Flash (balance cost/quality)
func (m *ModelSelector) SelectModel(kind models.AgentKind, estimatedTokens int) string {
	if override, ok := m.overrides[kind]; ok && override != "" {
		return override
	}

	if kind == models.AgentSecurity {
		return "gemini-3-pro-preview"
	}

	if estimatedTokens > 15000 {
		return "gemini-3-flash-preview"
	}

	return "gemini-2.5-flash"
}

// GetRationale returns the translation key that explains why a model was chosen
func (m *ModelSelector) GetRationale(selectedModel string) string {
	switch selectedModel {
	case "gemini-1.5-flash":
		return "routing.reason_balance"
	case "gemini-3-flash-preview":
		return "routing.reason_large"
	case "gemini-3-pro-preview":
		return "routing.reason_high_quality"
	default:
		return "routing.reason_default"
	}
}

// EstimateTokens approximates the token count of a prompt without a
// backend round-trip. Four bytes per token is close enough for routing
// and pre-flight budget checks on code-heavy text.
func EstimateTokens(text string) int {
	return len(text) / 4
}
