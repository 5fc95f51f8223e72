package ports

import (
	"context"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
)

// ReviewService es el punto de entrada del pipeline que consumen la CLI y
// el servidor de webhooks.
type ReviewService interface {
	// ReviewDiff corre el pipeline completo sobre un diff crudo: parseo,
	// dispatch paralelo de agentes y agregación. Falla con *errors.PipelineError
	// solo si el diff no parsea o si el deadline global vence sin ningún
	// outcome exitoso; la falla parcial de agentes degrada a una review
	// parcial con los kinds caídos reportados en el summary.
	ReviewDiff(ctx context.Context, rawDiff string, pr *models.PullRequestContext, opts models.ReviewOptions) (*models.AggregatedReview, error)

	// ReviewPullRequest resuelve el PR contra el VCS configurado, trae su
	// diff y corre ReviewDiff con ese contexto.
	ReviewPullRequest(ctx context.Context, prNumber int, opts models.ReviewOptions) (*models.AggregatedReview, *models.PullRequestContext, error)
}
