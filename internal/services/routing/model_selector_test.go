package routing

import (
	"testing"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
)

func TestNewModelSelector(t *testing.T) {
	// Act
	selector := NewModelSelector(nil)

	// Assert
	if selector == nil {
		t.Fatal("NewModelSelector() returned nil")
	}
}

func TestModelSelector_SelectModel(t *testing.T) {
	tests := []struct {
		name            string
		kind            models.AgentKind
		estimatedTokens int
		want            string
	}{
		{
			name:            "Security agent should return high quality model",
			kind:            models.AgentSecurity,
			estimatedTokens: 100,
			want:            "gemini-3-pro-preview",
		},
		{
			name:            "Security agent keeps pro model even for large scopes",
			kind:            models.AgentSecurity,
			estimatedTokens: 50000,
			want:            "gemini-3-pro-preview",
		},
		{
			name:            "High token count should return flash-preview model",
			kind:            models.AgentLogic,
			estimatedTokens: 20000,
			want:            "gemini-3-flash-preview",
		},
		{
			name:            "Boundary token count should return flash-preview model",
			kind:            models.AgentReadability,
			estimatedTokens: 15001,
			want:            "gemini-3-flash-preview",
		},
		{
			name:            "Exact boundary token count should return default model",
			kind:            models.AgentPerformance,
			estimatedTokens: 15000,
			want:            "gemini-2.5-flash",
		},
		{
			name:            "Small scope should return default model",
			kind:            models.AgentLogic,
			estimatedTokens: 500,
			want:            "gemini-2.5-flash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			m := NewModelSelector(nil)

			// Act
			got := m.SelectModel(tt.kind, tt.estimatedTokens)

			// Assert
			if got != tt.want {
				t.Errorf("ModelSelector.SelectModel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModelSelector_SelectModel_Overrides(t *testing.T) {
	// Arrange: la config pinnea un modelo para security
	m := NewModelSelector(map[models.AgentKind]string{
		models.AgentSecurity: "gemini-2.5-flash",
	})

	// Act & Assert
	if got := m.SelectModel(models.AgentSecurity, 100); got != "gemini-2.5-flash" {
		t.Errorf("override ignored: got %v", got)
	}
	if got := m.SelectModel(models.AgentLogic, 100); got != "gemini-2.5-flash" {
		t.Errorf("non-overridden kind should keep routing: got %v", got)
	}
	if got := m.SelectModel(models.AgentLogic, 20000); got != "gemini-3-flash-preview" {
		t.Errorf("non-overridden kind should keep routing: got %v", got)
	}
}

func TestModelSelector_GetRationale(t *testing.T) {
	tests := []struct {
		name          string
		selectedModel string
		want          string
	}{
		{
			name:          "High quality model rationale",
			selectedModel: "gemini-3-pro-preview",
			want:          "routing.reason_high_quality",
		},
		{
			name:          "Large context model rationale",
			selectedModel: "gemini-3-flash-preview",
			want:          "routing.reason_large",
		},
		{
			name:          "Balance model rationale",
			selectedModel: "gemini-1.5-flash",
			want:          "routing.reason_balance",
		},
		{
			name:          "Unknown model should return default rationale",
			selectedModel: "unknown-model",
			want:          "routing.reason_default",
		},
		{
			name:          "Default model used in SelectModel should return default rationale",
			selectedModel: "gemini-2.5-flash",
			want:          "routing.reason_default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			m := NewModelSelector(nil)

			// Act
			got := m.GetRationale(tt.selectedModel)

			// Assert
			if got != tt.want {
				t.Errorf("ModelSelector.GetRationale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("abcdefgh"); got != 2 {
		t.Errorf("EstimateTokens() = %d, want 2", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens() = %d, want 0", got)
	}
}
