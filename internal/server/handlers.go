package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	domainErrors "github.com/Tomas-vilte/MateReview/internal/domain/errors"
	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/vcs/github"
	"github.com/Tomas-vilte/MateReview/internal/logger"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGitHubWebhook valida la firma del delivery, filtra los eventos
// accionables y dispara la review en background. GitHub espera la
// respuesta en segundos; la review tarda minutos.
func (s *Server) handleGitHubWebhook(w http.ResponseWriter, r *http.Request) {
	event, err := github.ParsePullRequestEvent(r, s.secret)
	if err != nil {
		logger.Warn(r.Context(), "rejected webhook delivery", "error", err)
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}
	if event == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	s.reviews.Add(1)
	go s.reviewFromWebhook(event)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "accepted",
		"repo":   event.Owner + "/" + event.Repo,
		"pr":     event.Number,
	})
}

// reviewFromWebhook corre la review de un evento y publica el resultado.
// Corre desacoplada del request: el contexto propio le da a la corrida el
// run deadline más un margen para traer el diff y publicar.
func (s *Server) reviewFromWebhook(event *github.PullRequestEvent) {
	defer s.reviews.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.RunDeadline+2*time.Minute)
	defer cancel()
	ctx = logger.With(ctx,
		"repo", event.Owner+"/"+event.Repo,
		"pr", event.Number)

	log := logger.FromContext(ctx)
	log.Info("webhook review starting",
		"action", event.Action,
		"sender", event.Sender)

	service, publisher, err := s.services(ctx, event.Owner, event.Repo)
	if err != nil {
		log.Error("could not build review service for repo", "error", err)
		return
	}

	review, pr, err := service.ReviewPullRequest(ctx, event.Number, s.opts)
	if err != nil {
		log.Error("webhook review failed", "error", err)
		return
	}

	if err := publisher.PublishReview(ctx, pr, review); err != nil {
		log.Error("could not publish webhook review", "error", err)
		return
	}

	log.Info("webhook review published",
		"findings", review.Summary.TotalFindings,
		"risk", string(review.Summary.Risk))
}

type reviewRequest struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Number  int    `json:"number"`
	Publish bool   `json:"publish,omitempty"`
}

type findingJSON struct {
	Path       string   `json:"path"`
	Side       string   `json:"side"`
	Line       int      `json:"line"`
	Severity   string   `json:"severity"`
	Agents     []string `json:"agents"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

type usageJSON struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	CacheHits    int     `json:"cache_hits,omitempty"`
}

type reviewResponse struct {
	Repo          string            `json:"repo"`
	Number        int               `json:"number"`
	Risk          string            `json:"risk"`
	TotalFindings int               `json:"total_findings"`
	FilesReviewed int               `json:"files_reviewed"`
	FilesSkipped  int               `json:"files_skipped,omitempty"`
	FailedAgents  map[string]string `json:"failed_agents,omitempty"`
	Findings      []findingJSON     `json:"findings"`
	Published     bool              `json:"published"`
	PublishError  string            `json:"publish_error,omitempty"`
	Usage         *usageJSON        `json:"usage,omitempty"`
}

// handleReview corre una review on-demand y devuelve el resultado en la
// respuesta. A diferencia del webhook es síncrona: el caller pidió el
// resultado y el run deadline acota la espera.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Owner == "" || req.Repo == "" || req.Number <= 0 {
		writeError(w, http.StatusBadRequest, "owner, repo and number are required")
		return
	}

	ctx := logger.With(r.Context(),
		"repo", req.Owner+"/"+req.Repo,
		"pr", req.Number)

	service, publisher, err := s.services(ctx, req.Owner, req.Repo)
	if err != nil {
		logger.Error(ctx, "could not build review service for repo", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	review, pr, err := service.ReviewPullRequest(ctx, req.Number, s.opts)
	if err != nil {
		writeError(w, reviewErrorStatus(err), err.Error())
		return
	}

	resp := buildReviewResponse(pr, review)
	if req.Publish {
		if err := publisher.PublishReview(ctx, pr, review); err != nil {
			logger.Error(ctx, "could not publish review", err)
			resp.PublishError = err.Error()
		} else {
			resp.Published = true
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// reviewErrorStatus traduce la falla del pipeline al status HTTP: diff
// imparseable 422, deadline global 504, el resto (VCS/backend) 502.
func reviewErrorStatus(err error) int {
	var pipelineErr *domainErrors.PipelineError
	if errors.As(err, &pipelineErr) {
		switch pipelineErr.Stage {
		case domainErrors.PipelineStageParse:
			return http.StatusUnprocessableEntity
		case domainErrors.PipelineStageDeadline:
			return http.StatusGatewayTimeout
		}
	}
	return http.StatusBadGateway
}

func buildReviewResponse(pr *models.PullRequestContext, review *models.AggregatedReview) reviewResponse {
	resp := reviewResponse{
		Repo:          pr.Owner + "/" + pr.Repo,
		Number:        pr.Number,
		Risk:          string(review.Summary.Risk),
		TotalFindings: review.Summary.TotalFindings,
		FilesReviewed: review.Summary.FilesReviewed,
		FilesSkipped:  review.Summary.FilesSkipped,
		Findings:      []findingJSON{},
	}

	if len(review.Summary.FailedAgents) > 0 {
		resp.FailedAgents = make(map[string]string, len(review.Summary.FailedAgents))
		for kind, failure := range review.Summary.FailedAgents {
			resp.FailedAgents[string(kind)] = string(failure)
		}
	}

	for _, group := range review.Groups {
		for _, merged := range group.Findings {
			agents := make([]string, 0, len(merged.Agents))
			for _, kind := range merged.Agents {
				agents = append(agents, string(kind))
			}
			resp.Findings = append(resp.Findings, findingJSON{
				Path:       group.Position.Path,
				Side:       string(group.Position.Side),
				Line:       group.Position.Line,
				Severity:   string(merged.Severity),
				Agents:     agents,
				Message:    merged.Message,
				Suggestion: merged.Suggestion,
			})
		}
	}

	if usage := review.Summary.Usage; usage != nil {
		resp.Usage = &usageJSON{
			InputTokens:  usage.InputTokens,
			OutputTokens: usage.OutputTokens,
			CostUSD:      usage.CostUSD,
			CacheHits:    usage.CacheHits,
		}
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Error(context.Background(), "json encode error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer func() {
		_ = r.Body.Close()
	}()
	return json.NewDecoder(r.Body).Decode(v)
}
