package ports

import (
	"context"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
)

// AgentClient es el contrato uniforme contra cualquier backend de análisis.
// El orquestador y el agregador dependen solo de esta interfaz; cambiar de
// proveedor es cuestión de configuración, nunca de inspección de tipos.
type AgentClient interface {
	// Analyze corre el análisis del kind indicado sobre el scope y retorna
	// los findings crudos (previos a la validación de posiciones). Las
	// fallas se reportan como *errors.BackendError: las transitorias son
	// elegibles para retry del orquestador, las permanentes cortan la
	// tarea de inmediato.
	Analyze(ctx context.Context, scope models.ReviewScope, kind models.AgentKind) ([]models.Finding, error)
}
