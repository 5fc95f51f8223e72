package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/logger"
	"github.com/google/go-github/v80/github"
)

const reviewEventComment = "COMMENT"

var severityEmoji = map[models.Severity]string{
	models.SeverityError:   "🔴",
	models.SeverityWarning: "🟡",
	models.SeverityInfo:    "🔵",
}

// PublishReview postea la review agregada como una única review de GitHub
// con evento COMMENT: un comentario inline por posición más el resumen como
// body. Nunca aprueba ni pide cambios; ese juicio es del reviewer humano.
func (ghc *GitHubClient) PublishReview(ctx context.Context, pr *models.PullRequestContext, review *models.AggregatedReview) error {
	comments := make([]*github.DraftReviewComment, 0, len(review.Groups))
	for i := range review.Groups {
		group := &review.Groups[i]
		comments = append(comments, &github.DraftReviewComment{
			Path: github.Ptr(group.Position.Path),
			Line: github.Ptr(group.Position.Line),
			Side: github.Ptr(commentSide(group.Position.Side)),
			Body: github.Ptr(ghc.formatGroupComment(group)),
		})
	}

	request := &github.PullRequestReviewRequest{
		Event:    github.Ptr(reviewEventComment),
		Body:     github.Ptr(ghc.buildSummaryBody(review)),
		Comments: comments,
	}

	_, resp, err := ghc.prService.CreateReview(ctx, ghc.owner, ghc.repo, pr.Number, request)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%s\n\n%s",
				ghc.trans.GetMessage("error.insufficient_permissions", 0, map[string]interface{}{
					"pr_number": pr.Number,
					"owner":     ghc.owner,
					"repo":      ghc.repo,
				}),
				ghc.trans.GetMessage("error.token_scopes_help", 0, nil))
		}
		return fmt.Errorf("%s: %w", ghc.trans.GetMessage("error.publish_review", 0, map[string]interface{}{
			"pr_number": pr.Number,
		}), err)
	}

	logger.Info(ctx, "review published",
		"pr_number", pr.Number,
		"inline_comments", len(comments),
		"risk", string(review.Summary.Risk))
	return nil
}

func commentSide(side models.Side) string {
	if side == models.SideOld {
		return "LEFT"
	}
	return "RIGHT"
}

// formatGroupComment renderiza los hallazgos fusionados de una posición como
// un único comentario. Sugerencias en conflicto se muestran todas, una por
// hallazgo; elegir entre ellas es del reviewer.
func (ghc *GitHubClient) formatGroupComment(group *models.FindingGroup) string {
	blocks := make([]string, 0, len(group.Findings))

	for i := range group.Findings {
		finding := &group.Findings[i]

		var sb strings.Builder
		fmt.Fprintf(&sb, "**%s %s** — %s\n\n%s",
			severityEmoji[finding.Severity],
			strings.ToUpper(string(finding.Severity)),
			joinKinds(finding.Agents),
			finding.Message)

		if finding.Suggestion != "" {
			sb.WriteString("\n\n")
			sb.WriteString(ghc.trans.GetMessage("publish.suggested_fix", 0, nil))
			sb.WriteString("\n")
			// GitHub solo acepta bloques ```suggestion sobre el lado nuevo;
			// en el lado viejo la sugerencia va como código plano.
			if group.Position.Side == models.SideNew {
				fmt.Fprintf(&sb, "```suggestion\n%s\n```", finding.Suggestion)
			} else {
				fmt.Fprintf(&sb, "```\n%s\n```", finding.Suggestion)
			}
		}

		blocks = append(blocks, sb.String())
	}

	return strings.Join(blocks, "\n\n---\n\n")
}

// buildSummaryBody arma el body markdown de la review: riesgo, conteos por
// severidad, agentes sin cobertura y archivos salteados.
func (ghc *GitHubClient) buildSummaryBody(review *models.AggregatedReview) string {
	summary := &review.Summary
	var sb strings.Builder

	sb.WriteString(ghc.trans.GetMessage("publish.review_title", 0, map[string]interface{}{
		"Risk": strings.ToUpper(string(summary.Risk)),
	}))
	sb.WriteString("\n\n")

	if summary.TotalFindings == 0 {
		sb.WriteString(ghc.trans.GetMessage("publish.no_findings", 0, nil))
	} else {
		sb.WriteString(ghc.trans.GetMessage("publish.findings_line", summary.TotalFindings, map[string]interface{}{
			"Count": summary.TotalFindings,
			"Files": summary.FilesReviewed,
		}))
		sb.WriteString("\n\n")
		sb.WriteString(severityBreakdown(summary))
	}

	if len(summary.FailedAgents) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(ghc.trans.GetMessage("publish.failed_agents_title", 0, nil))
		sb.WriteString("\n")
		for _, kind := range models.AllAgentKinds() {
			if failure, failed := summary.FailedAgents[kind]; failed {
				fmt.Fprintf(&sb, "- **%s**: %s\n", kind, failure)
			}
		}
	}

	if summary.FilesSkipped > 0 {
		sb.WriteString("\n")
		sb.WriteString(ghc.trans.GetMessage("publish.skipped_files_line", summary.FilesSkipped, map[string]interface{}{
			"Count": summary.FilesSkipped,
		}))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func severityBreakdown(summary *models.ReviewSummary) string {
	parts := make([]string, 0, 3)
	for _, severity := range []models.Severity{models.SeverityError, models.SeverityWarning, models.SeverityInfo} {
		parts = append(parts, fmt.Sprintf("%s %d %s", severityEmoji[severity], summary.BySeverity[severity], severity))
	}
	return strings.Join(parts, " | ")
}

func joinKinds(kinds []models.AgentKind) string {
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}
	return strings.Join(names, ", ")
}
