package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
)

// findingPayload es la forma cruda de un hallazgo tal como lo emite el
// modelo. Es también el payload que se persiste en el cache de respuestas,
// ya normalizado.
type findingPayload struct {
	Line       int    `json:"line"`
	Side       string `json:"side,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Message    string `json:"message,omitempty"`
	Title      string `json:"title,omitempty"`
	Body       string `json:"body,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// findingsEnvelope tolera los envoltorios que los modelos suelen usar
// aunque el contrato pida "findings". Los items van como RawMessage para
// poder saltear entradas individualmente malformadas sin tirar el resto.
type findingsEnvelope struct {
	Findings []json.RawMessage `json:"findings"`
	Issues   []json.RawMessage `json:"issues"`
	Comments []json.RawMessage `json:"comments"`
}

// parseFindings extrae y normaliza los hallazgos del texto del modelo.
// Acepta {"findings": […]}, {"issues": […]}, {"comments": […]} o un array
// pelado; cualquier otra cosa es una respuesta malformada.
func parseFindings(raw string) ([]findingPayload, error) {
	text := ExtractJSON(raw)

	var items []json.RawMessage

	var envelope findingsEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err == nil {
		switch {
		case envelope.Findings != nil:
			items = envelope.Findings
		case envelope.Issues != nil:
			items = envelope.Issues
		case envelope.Comments != nil:
			items = envelope.Comments
		}
	} else if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("la respuesta del modelo no es JSON de hallazgos: %w", err)
	}

	normalized := make([]findingPayload, 0, len(items))
	for _, item := range items {
		var p findingPayload
		if err := json.Unmarshal(item, &p); err != nil {
			continue
		}

		message := p.text()
		if message == "" {
			continue
		}

		normalized = append(normalized, findingPayload{
			Line:       p.Line,
			Side:       normalizeSide(p.Side),
			Severity:   string(foldSeverity(p.Severity)),
			Message:    message,
			Suggestion: strings.TrimSpace(p.Suggestion),
		})
	}

	return normalized, nil
}

// text resuelve el mensaje del hallazgo: "message" manda, y si el modelo
// respondió con el par title/body se concatenan.
func (p findingPayload) text() string {
	if msg := strings.TrimSpace(p.Message); msg != "" {
		return msg
	}

	title := strings.TrimSpace(p.Title)
	body := strings.TrimSpace(p.Body)
	switch {
	case title != "" && body != "":
		return title + "\n\n" + body
	case title != "":
		return title
	default:
		return body
	}
}

// foldSeverity colapsa el vocabulario libre de los modelos a la escala del
// dominio: critical cuenta como error; suggestion y nitpick como info.
// Valores desconocidos caen a info antes que inflar la severidad.
func foldSeverity(raw string) models.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical", "error":
		return models.SeverityError
	case "warning":
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// normalizeSide resuelve el lado del diff; todo lo que no sea "old" ancla
// al lado nuevo, que es donde vive el código resultante.
func normalizeSide(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), string(models.SideOld)) {
		return string(models.SideOld)
	}
	return string(models.SideNew)
}

// toFindings ancla los payloads como findings del archivo analizado.
// Entradas sin línea resoluble se descartan: el dominio no tiene una
// posición "general al archivo" donde colgarlas.
func toFindings(path string, kind models.AgentKind, payloads []findingPayload) []models.Finding {
	findings := make([]models.Finding, 0, len(payloads))
	for _, p := range payloads {
		if p.Line <= 0 {
			continue
		}

		pos := models.DiffPosition{
			Path: path,
			Side: models.Side(normalizeSide(p.Side)),
			Line: p.Line,
		}
		findings = append(findings, models.NewFinding(kind, foldSeverity(p.Severity), pos, p.Message, p.Suggestion))
	}
	return findings
}
