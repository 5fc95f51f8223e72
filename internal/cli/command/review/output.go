package review

import (
	"encoding/json"
	"io"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/ui"
)

type findingJSON struct {
	Path       string   `json:"path"`
	Side       string   `json:"side"`
	Line       int      `json:"line"`
	Severity   string   `json:"severity"`
	Agents     []string `json:"agents"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

type summaryJSON struct {
	Risk          string             `json:"risk"`
	TotalFindings int                `json:"total_findings"`
	BySeverity    map[string]int     `json:"by_severity,omitempty"`
	FailedAgents  map[string]string  `json:"failed_agents,omitempty"`
	FilesReviewed int                `json:"files_reviewed"`
	FilesSkipped  int                `json:"files_skipped,omitempty"`
	Usage         *models.TokenUsage `json:"usage,omitempty"`
}

type reviewJSON struct {
	Findings []findingJSON `json:"findings"`
	Summary  summaryJSON   `json:"summary"`
}

func renderResult(w io.Writer, review *models.AggregatedReview, format string, t *i18n.Translations) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(toReviewJSON(review))
	case formatMarkdown:
		ui.RenderReviewMarkdown(w, review, t)
		return nil
	default:
		ui.RenderReview(w, review, t)
		return nil
	}
}

func toReviewJSON(review *models.AggregatedReview) reviewJSON {
	out := reviewJSON{
		Findings: make([]findingJSON, 0, review.Summary.TotalFindings),
		Summary: summaryJSON{
			Risk:          string(review.Summary.Risk),
			TotalFindings: review.Summary.TotalFindings,
			FilesReviewed: review.Summary.FilesReviewed,
			FilesSkipped:  review.Summary.FilesSkipped,
			Usage:         review.Summary.Usage,
		},
	}

	for _, group := range review.Groups {
		for _, finding := range group.Findings {
			agents := make([]string, len(finding.Agents))
			for i, kind := range finding.Agents {
				agents[i] = string(kind)
			}
			out.Findings = append(out.Findings, findingJSON{
				Path:       group.Position.Path,
				Side:       string(group.Position.Side),
				Line:       group.Position.Line,
				Severity:   string(finding.Severity),
				Agents:     agents,
				Message:    finding.Message,
				Suggestion: finding.Suggestion,
			})
		}
	}

	if len(review.Summary.BySeverity) > 0 {
		out.Summary.BySeverity = make(map[string]int, len(review.Summary.BySeverity))
		for severity, count := range review.Summary.BySeverity {
			out.Summary.BySeverity[string(severity)] = count
		}
	}
	if len(review.Summary.FailedAgents) > 0 {
		out.Summary.FailedAgents = make(map[string]string, len(review.Summary.FailedAgents))
		for kind, failure := range review.Summary.FailedAgents {
			out.Summary.FailedAgents[string(kind)] = string(failure)
		}
	}

	return out
}
