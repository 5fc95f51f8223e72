package gemini

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
)

// GeminiProviderFactory implementa AIProviderFactory para Gemini
type GeminiProviderFactory struct{}

// NewGeminiProviderFactory crea una nueva factory para Gemini
func NewGeminiProviderFactory() *GeminiProviderFactory {
	return &GeminiProviderFactory{}
}

// CreateAgentClient crea el cliente de agentes de review respaldado por Gemini
func (f *GeminiProviderFactory) CreateAgentClient(
	ctx context.Context,
	cfg *config.Config,
	trans *i18n.Translations,
) (ports.AgentClient, error) {
	return NewReviewAgentClient(ctx, cfg, trans)
}

// ValidateConfig valida la configuración de Gemini
func (f *GeminiProviderFactory) ValidateConfig(cfg *config.Config) error {
	providerCfg, exists := cfg.AIProviders[string(config.AIGemini)]
	if !exists {
		return fmt.Errorf("configuracion de gemini no encontrada")
	}

	if providerCfg.APIKey == "" {
		return fmt.Errorf("gemini API key es requerida")
	}

	return nil
}

// Name retorna el nombre del proveedor
func (f *GeminiProviderFactory) Name() string {
	return "gemini"
}
