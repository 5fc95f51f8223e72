package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
)

var markdownSeverityEmoji = map[models.Severity]string{
	models.SeverityError:   "🔴",
	models.SeverityWarning: "🟡",
	models.SeverityInfo:    "🔵",
}

// RenderReviewMarkdown writes the review as a standalone markdown document:
// the same summary the publisher posts to the VCS, plus one section per file
// with the findings that would otherwise become inline comments.
func RenderReviewMarkdown(w io.Writer, review *models.AggregatedReview, t *i18n.Translations) {
	if review == nil {
		return
	}
	summary := &review.Summary

	_, _ = fmt.Fprintln(w, t.GetMessage("publish.review_title", 0, map[string]interface{}{
		"Risk": strings.ToUpper(string(summary.Risk)),
	}))
	_, _ = fmt.Fprintln(w)

	if summary.TotalFindings == 0 {
		_, _ = fmt.Fprintln(w, t.GetMessage("publish.no_findings", 0, nil))
	} else {
		_, _ = fmt.Fprintln(w, t.GetMessage("publish.findings_line", summary.TotalFindings, map[string]interface{}{
			"Count": summary.TotalFindings,
			"Files": summary.FilesReviewed,
		}))
		writeMarkdownGroups(w, review.Groups)
	}

	if len(summary.FailedAgents) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.GetMessage("publish.failed_agents_title", 0, nil))
		for _, kind := range models.AllAgentKinds() {
			if failure, failed := summary.FailedAgents[kind]; failed {
				_, _ = fmt.Fprintf(w, "- **%s**: %s\n", kind, failure)
			}
		}
	}

	if summary.FilesSkipped > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.GetMessage("publish.skipped_files_line", summary.FilesSkipped, map[string]interface{}{
			"Count": summary.FilesSkipped,
		}))
	}

	if summary.Usage != nil && summary.Usage.TotalTokens > 0 {
		_, _ = fmt.Fprintf(w, "\n---\n*%s: %d in / %d out", t.GetMessage("ui.token_usage", 0, nil),
			summary.Usage.InputTokens, summary.Usage.OutputTokens)
		if summary.Usage.CostUSD > 0 {
			_, _ = fmt.Fprintf(w, " · $%.4f USD", summary.Usage.CostUSD)
		}
		_, _ = fmt.Fprintln(w, "*")
	}
}

func writeMarkdownGroups(w io.Writer, groups []models.FindingGroup) {
	lastPath := ""
	for _, group := range groups {
		if group.Position.Path != lastPath {
			lastPath = group.Position.Path
			_, _ = fmt.Fprintf(w, "\n### `%s`\n\n", lastPath)
		}
		for _, finding := range group.Findings {
			_, _ = fmt.Fprintf(w, "- %s **L%d** (%s) `%s` %s\n",
				markdownSeverityEmoji[finding.Severity],
				group.Position.Line,
				group.Position.Side,
				strings.Join(agentNames(finding.Agents), ", "),
				finding.Message)
			if finding.Suggestion != "" {
				_, _ = fmt.Fprintf(w, "  - 💡 %s\n", finding.Suggestion)
			}
		}
	}
}

func agentNames(kinds []models.AgentKind) []string {
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}
	return names
}
