package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/fatih/color"
)

// RenderReview writes the aggregated review to w, grouped by file in the
// order the aggregator produced: path, then line, then severity. The
// summary and the usage footer close the output.
func RenderReview(w io.Writer, review *models.AggregatedReview, t *i18n.Translations) {
	if review == nil {
		return
	}

	_, _ = fmt.Fprintln(w)
	if review.Summary.TotalFindings == 0 {
		PrintSuccess(w, t.GetMessage("review.no_findings", 0, nil))
	} else {
		header := t.GetMessage("review.findings_found", review.Summary.TotalFindings, map[string]interface{}{
			"Count":     review.Summary.TotalFindings,
			"Positions": len(review.Groups),
		})
		_, _ = fmt.Fprintf(w, "%s %s\n", MateEmoji, Accent.Sprint(header))
		renderGroups(w, review.Groups)
	}

	renderSummary(w, &review.Summary, t)

	if review.Summary.Usage != nil {
		_, _ = fmt.Fprintln(w)
		PrintTokenUsage(w, review.Summary.Usage, t)
	}
}

func renderGroups(w io.Writer, groups []models.FindingGroup) {
	lastPath := ""
	for _, group := range groups {
		if group.Position.Path != lastPath {
			lastPath = group.Position.Path
			_, _ = fmt.Fprintf(w, "\n%s\n", Info.Sprint(lastPath))
		}
		for _, finding := range group.Findings {
			_, _ = fmt.Fprintf(w, "  %s %s %s %s\n",
				severityBadge(finding.Severity),
				Dim.Sprintf("L%d (%s)", group.Position.Line, group.Position.Side),
				Dim.Sprint(joinAgents(finding.Agents)),
				finding.Message)
			if finding.Suggestion != "" {
				_, _ = fmt.Fprintf(w, "      %s %s\n", Info.Sprint("💡"), finding.Suggestion)
			}
		}
	}
}

func renderSummary(w io.Writer, summary *models.ReviewSummary, t *i18n.Translations) {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s %s\n", StatsEmoji, Accent.Sprint(t.GetMessage("review.summary_title", 0, nil)))

	risk := riskColor(summary.Risk).Sprint(strings.ToUpper(string(summary.Risk)))
	_, _ = fmt.Fprintf(w, "   %s %s\n", Dim.Sprint(t.GetMessage("review.risk_label", 0, nil)+":"), risk)

	if counts := severityCounts(summary.BySeverity); counts != "" {
		_, _ = fmt.Fprintf(w, "   %s\n", counts)
	}

	reviewed := t.GetMessage("review.files_reviewed", summary.FilesReviewed, map[string]interface{}{
		"Count": summary.FilesReviewed,
	})
	_, _ = fmt.Fprintf(w, "   %s\n", reviewed)

	if summary.FilesSkipped > 0 {
		skipped := t.GetMessage("review.skipped_files", summary.FilesSkipped, map[string]interface{}{
			"Count": summary.FilesSkipped,
		})
		_, _ = fmt.Fprintf(w, "   %s %s\n", InfoEmoji, skipped)
	}

	if len(summary.FailedAgents) > 0 {
		_, _ = fmt.Fprintf(w, "   %s %s\n", WarningEmoji, Warning.Sprint(t.GetMessage("review.failed_agents", 0, nil)))
		for _, kind := range models.AllAgentKinds() {
			if failure, failed := summary.FailedAgents[kind]; failed {
				_, _ = fmt.Fprintf(w, "      %s %s\n", string(kind), Dim.Sprintf("(%s)", failure))
			}
		}
	}
}

func severityBadge(severity models.Severity) string {
	switch severity {
	case models.SeverityError:
		return Error.Sprint("[error]")
	case models.SeverityWarning:
		return Warning.Sprint("[warning]")
	default:
		return Info.Sprint("[info]")
	}
}

func riskColor(risk models.RiskLevel) *color.Color {
	switch risk {
	case models.RiskCritical, models.RiskHigh:
		return Error
	case models.RiskMedium:
		return Warning
	default:
		return Success
	}
}

// severityCounts arma la línea "2 error · 1 warning" en orden de severidad.
func severityCounts(counts map[models.Severity]int) string {
	var parts []string
	for _, severity := range []models.Severity{models.SeverityError, models.SeverityWarning, models.SeverityInfo} {
		if n := counts[severity]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, severity))
		}
	}
	return strings.Join(parts, " | ")
}

func joinAgents(kinds []models.AgentKind) string {
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, string(kind))
	}
	return "[" + strings.Join(names, "+") + "]"
}
