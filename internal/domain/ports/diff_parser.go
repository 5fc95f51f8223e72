package ports

import "github.com/Tomas-vilte/MateReview/internal/domain/models"

// DiffParser construye el DiffModel a partir del texto crudo de un diff
// unificado. Un diff malformado falla con *errors.DiffParseError y es
// terminal para toda la corrida.
type DiffParser interface {
	Parse(raw string) (*models.DiffModel, error)
}
