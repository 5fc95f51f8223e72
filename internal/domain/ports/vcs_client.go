package ports

import (
	"context"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
)

// VCSClient define los métodos comunes para interactuar con las APIs de los sistemas de control de versiones.
type VCSClient interface {
	// GetPullRequestContext obtiene la metadata del PR (título, descripción, SHAs).
	GetPullRequestContext(ctx context.Context, prNumber int) (*models.PullRequestContext, error)
	// GetPullRequestDiff obtiene el diff unificado crudo del PR.
	GetPullRequestDiff(ctx context.Context, prNumber int) (string, error)
}

// ReviewPublisher es el colaborador externo que renderiza y publica una
// AggregatedReview como comentarios inline. El core entrega la review y no
// asume nada sobre cómo ni dónde se renderiza.
type ReviewPublisher interface {
	PublishReview(ctx context.Context, pr *models.PullRequestContext, review *models.AggregatedReview) error
}
