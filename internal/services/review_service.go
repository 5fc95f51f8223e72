package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"

	domainErrors "github.com/Tomas-vilte/MateReview/internal/domain/errors"
	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/logger"
	"github.com/Tomas-vilte/MateReview/internal/services/aggregator"
	"github.com/Tomas-vilte/MateReview/internal/services/cost"
	"github.com/Tomas-vilte/MateReview/internal/services/orchestrator"
)

var _ ports.ReviewService = (*ReviewService)(nil)

// ReviewService es el pipeline completo: parseo del diff, dispatch paralelo
// de agentes y agregación. La CLI y el servidor de webhooks entran por acá.
type ReviewService struct {
	parser      ports.DiffParser
	clients     map[models.AgentKind]ports.AgentClient
	vcsClient   ports.VCSClient
	aggregator  *aggregator.Aggregator
	costManager *cost.Manager
	provider    string
	trans       *i18n.Translations
}

func NewReviewService(
	parser ports.DiffParser,
	clients map[models.AgentKind]ports.AgentClient,
	vcsClient ports.VCSClient,
	costManager *cost.Manager,
	provider string,
	trans *i18n.Translations,
) *ReviewService {
	return &ReviewService{
		parser:      parser,
		clients:     clients,
		vcsClient:   vcsClient,
		aggregator:  aggregator.New(),
		costManager: costManager,
		provider:    provider,
		trans:       trans,
	}
}

// ReviewDiff corre el pipeline sobre un diff crudo. Solo dos cosas lo hacen
// fallar: un diff que no parsea o el deadline global vencido sin ni un
// outcome exitoso. Todo lo demás degrada a una review parcial con los kinds
// caídos reportados en el summary.
func (s *ReviewService) ReviewDiff(ctx context.Context, rawDiff string, pr *models.PullRequestContext, opts models.ReviewOptions) (*models.AggregatedReview, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	diff, err := s.parser.Parse(rawDiff)
	if err != nil {
		return nil, domainErrors.NewPipelineError(domainErrors.PipelineStageParse, err)
	}

	reviewable, skipped := filterFiles(diff, opts)
	kinds := opts.EnabledAgents()
	tasks := buildTasks(reviewable, pr, kinds)

	log.Info("review run starting",
		"files", len(diff.Files),
		"reviewable", len(reviewable),
		"skipped", skipped,
		"agents", len(kinds),
		"tasks", len(tasks))

	tracker := cost.NewTracker()
	runCtx := cost.WithTracker(ctx, tracker)

	orch := orchestrator.New(s.clients, orchestrator.Config{
		ConcurrencyBudget: opts.ConcurrencyBudget,
		TaskTimeout:       opts.TaskTimeout,
		RunDeadline:       opts.RunDeadline,
		MaxRetries:        opts.MaxRetries,
		RetryBaseDelay:    opts.RetryBaseDelay,
		RetryMaxDelay:     opts.RetryMaxDelay,
	})
	outcomes := orch.Run(runCtx, tasks)

	successes := 0
	deadlineHit := false
	for _, outcome := range outcomes {
		if !outcome.Failed() {
			successes++
			continue
		}
		if outcome.Failure.Reason == orchestrator.ReasonRunDeadline {
			deadlineHit = true
		}
	}
	if len(tasks) > 0 && successes == 0 && deadlineHit {
		return nil, domainErrors.NewPipelineError(domainErrors.PipelineStageDeadline, context.DeadlineExceeded)
	}

	review := s.aggregator.Aggregate(runCtx, diff, outcomes)
	review.Summary.FilesReviewed = len(reviewable)
	review.Summary.FilesSkipped = skipped

	usage := tracker.Snapshot()
	usage.DurationMs = time.Since(start).Milliseconds()
	review.Summary.Usage = &usage

	log.Info("review run finished",
		"findings", review.Summary.TotalFindings,
		"risk", string(review.Summary.Risk),
		"tasks_failed", review.Summary.TasksFailed,
		"cache_hits", usage.CacheHits,
		"duration", time.Since(start))

	s.saveActivity(ctx, pr, rawDiff, review, usage)

	return review, nil
}

// ReviewPullRequest resuelve el PR contra el VCS configurado, trae contexto
// y diff, y corre ReviewDiff con ese contexto.
func (s *ReviewService) ReviewPullRequest(ctx context.Context, prNumber int, opts models.ReviewOptions) (*models.AggregatedReview, *models.PullRequestContext, error) {
	if s.vcsClient == nil {
		return nil, nil, fmt.Errorf("%s", s.trans.GetMessage("error.no_vcs_client", 0, nil))
	}

	pr, err := s.vcsClient.GetPullRequestContext(ctx, prNumber)
	if err != nil {
		return nil, nil, err
	}

	rawDiff, err := s.vcsClient.GetPullRequestDiff(ctx, prNumber)
	if err != nil {
		return nil, nil, err
	}

	review, err := s.ReviewDiff(ctx, rawDiff, pr, opts)
	if err != nil {
		return nil, nil, err
	}

	return review, pr, nil
}

// saveActivity deja la corrida en el historial local. Es best-effort: un
// historial que no se puede escribir no voltea la review.
func (s *ReviewService) saveActivity(ctx context.Context, pr *models.PullRequestContext, rawDiff string, review *models.AggregatedReview, usage models.TokenUsage) {
	if s.costManager == nil {
		return
	}

	record := cost.ActivityRecord{
		Timestamp:    time.Now(),
		Command:      "review",
		Provider:     s.provider,
		Model:        usage.Model,
		TokensInput:  usage.InputTokens,
		TokensOutput: usage.OutputTokens,
		CostUSD:      usage.CostUSD,
		DurationMs:   usage.DurationMs,
		CacheHits:    usage.CacheHits,
		Findings:     review.Summary.TotalFindings,
		TasksFailed:  review.Summary.TasksFailed,
		Hash:         runHash(pr, rawDiff),
	}
	if err := s.costManager.SaveActivity(record); err != nil {
		logger.FromContext(ctx).Warn("could not save activity record", "error", err)
	}
}

// runHash identifica la corrida en el historial: el head SHA si hay PR, un
// hash del diff para reviews locales.
func runHash(pr *models.PullRequestContext, rawDiff string) string {
	if pr != nil && pr.HeadSHA != "" {
		return pr.HeadSHA
	}
	sum := sha256.Sum256([]byte(rawDiff))
	return hex.EncodeToString(sum[:8])
}

// filterFiles separa los archivos revisables de los que se saltean:
// binarios, renames puros sin hunks, paths que matchean los skip patterns y
// lo que excede los caps de tamaño. El conteo de salteados va al summary.
func filterFiles(diff *models.DiffModel, opts models.ReviewOptions) ([]models.FileChange, int) {
	var reviewable []models.FileChange
	skipped := 0
	totalLines := 0

	for _, file := range diff.Files {
		if file.Binary || len(file.Hunks) == 0 {
			skipped++
			continue
		}
		if matchesSkipPattern(file.Path, opts.SkipPatterns) {
			skipped++
			continue
		}
		if opts.MaxFiles > 0 && len(reviewable) >= opts.MaxFiles {
			skipped++
			continue
		}

		added, removed := file.ChangedLines()
		if opts.MaxLines > 0 && totalLines+added+removed > opts.MaxLines {
			skipped++
			continue
		}

		totalLines += added + removed
		reviewable = append(reviewable, file)
	}

	return reviewable, skipped
}

func matchesSkipPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, filepath.Base(path)); err == nil && ok {
			return true
		}
	}
	return false
}

// buildTasks arma una tarea por (kind habilitado × archivo revisable), en
// el orden del diff. El scope es siempre el archivo completo.
func buildTasks(files []models.FileChange, pr *models.PullRequestContext, kinds []models.AgentKind) []models.AgentTask {
	tasks := make([]models.AgentTask, 0, len(files)*len(kinds))
	for _, file := range files {
		for _, kind := range kinds {
			tasks = append(tasks, models.NewAgentTask(kind, models.ReviewScope{File: file, PR: pr}))
		}
	}
	return tasks
}
