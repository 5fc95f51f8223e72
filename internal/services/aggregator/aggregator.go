package aggregator

import (
	"context"
	"slices"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/logger"
)

// Aggregator merges the raw findings of every agent into a single
// ordered, deduplicated, position-valid review.
type Aggregator struct{}

func New() *Aggregator {
	return &Aggregator{}
}

// Aggregate builds the final review from the full set of task outcomes.
// Failed tasks contribute no findings but are reported in the summary so
// reviewers know their coverage gaps.
func (a *Aggregator) Aggregate(ctx context.Context, diff *models.DiffModel, outcomes map[models.TaskID]models.AgentOutcome) *models.AggregatedReview {
	var findings []models.Finding
	for _, id := range sortedTaskIDs(outcomes) {
		outcome := outcomes[id]
		if outcome.Failed() {
			continue
		}
		findings = append(findings, outcome.Findings...)
	}

	groups := a.AggregateFindings(ctx, diff, findings)

	return &models.AggregatedReview{
		Groups:  groups,
		Summary: buildSummary(groups, outcomes),
	}
}

// AggregateFindings validates, groups, deduplicates and orders raw
// findings. A finding whose position does not exist in the diff is
// dropped, never surfaced: backends hallucinate positions and a review
// anchored to a line nobody changed is worse than silence.
func (a *Aggregator) AggregateFindings(ctx context.Context, diff *models.DiffModel, findings []models.Finding) []models.FindingGroup {
	valid := diff.Positions()

	dropped := 0
	byPosition := make(map[models.DiffPosition][]models.Finding)
	for _, finding := range findings {
		if !valid.Contains(finding.Position) {
			dropped++
			continue
		}
		byPosition[finding.Position] = append(byPosition[finding.Position], finding)
	}
	if dropped > 0 {
		logger.FromContext(ctx).Warn("dropped findings at positions outside the diff",
			"dropped", dropped,
			"kept", len(findings)-dropped)
	}

	groups := make([]models.FindingGroup, 0, len(byPosition))
	for pos, posFindings := range byPosition {
		groups = append(groups, models.FindingGroup{
			Position: pos,
			Findings: mergeByHash(posFindings),
		})
	}

	sortGroups(groups)
	return groups
}

// mergeByHash collapses findings with equal content-hash into one merged
// finding per hash: highest severity wins, contributing kinds accumulate
// as a union. Distinct hashes at the same position stay separate, so
// conflicting suggestions are all retained.
func mergeByHash(findings []models.Finding) []models.MergedFinding {
	// Deterministic contributor order. Kind priority goes first so the
	// representative finding (the one whose kind, message and hash the
	// merge keeps) does not depend on which severities happened to
	// arrive, which keeps re-aggregation idempotent.
	contributors := slices.Clone(findings)
	slices.SortStableFunc(contributors, func(a, b models.Finding) int {
		if d := models.KindPriority(a.Kind) - models.KindPriority(b.Kind); d != 0 {
			return d
		}
		if d := models.SeverityRank(a.Severity) - models.SeverityRank(b.Severity); d != 0 {
			return d
		}
		return strings.Compare(a.Message, b.Message)
	})

	byHash := make(map[string]*models.MergedFinding)
	var order []string

	for _, finding := range contributors {
		merged, seen := byHash[finding.Hash]
		if !seen {
			entry := models.MergedFinding{
				Finding: finding,
				Agents:  []models.AgentKind{finding.Kind},
			}
			byHash[finding.Hash] = &entry
			order = append(order, finding.Hash)
			continue
		}

		merged.Severity = models.MaxSeverity(merged.Severity, finding.Severity)
		if merged.Suggestion == "" {
			merged.Suggestion = finding.Suggestion
		}
		if !slices.Contains(merged.Agents, finding.Kind) {
			merged.Agents = append(merged.Agents, finding.Kind)
		}
	}

	result := make([]models.MergedFinding, 0, len(order))
	for _, hash := range order {
		merged := byHash[hash]
		slices.SortFunc(merged.Agents, func(a, b models.AgentKind) int {
			return models.KindPriority(a) - models.KindPriority(b)
		})
		result = append(result, *merged)
	}

	// Severity desc, then kind priority, hash as final stable tie-break.
	slices.SortStableFunc(result, func(a, b models.MergedFinding) int {
		if d := models.SeverityRank(a.Severity) - models.SeverityRank(b.Severity); d != 0 {
			return d
		}
		if d := models.KindPriority(a.Kind) - models.KindPriority(b.Kind); d != 0 {
			return d
		}
		return strings.Compare(a.Hash, b.Hash)
	})

	return result
}

// sortGroups orders groups by path, then line. At the same line the old
// side goes first: a remark about removed code reads before remarks
// about its replacement.
func sortGroups(groups []models.FindingGroup) {
	slices.SortFunc(groups, func(a, b models.FindingGroup) int {
		if d := strings.Compare(a.Position.Path, b.Position.Path); d != 0 {
			return d
		}
		if d := a.Position.Line - b.Position.Line; d != 0 {
			return d
		}
		return sideRank(a.Position.Side) - sideRank(b.Position.Side)
	})
}

func sideRank(side models.Side) int {
	if side == models.SideOld {
		return 0
	}
	return 1
}

func buildSummary(groups []models.FindingGroup, outcomes map[models.TaskID]models.AgentOutcome) models.ReviewSummary {
	summary := models.ReviewSummary{
		BySeverity:   make(map[models.Severity]int),
		ByKind:       make(map[models.AgentKind]int),
		FailedAgents: make(map[models.AgentKind]models.FailureKind),
	}

	for _, group := range groups {
		for _, merged := range group.Findings {
			summary.TotalFindings++
			summary.BySeverity[merged.Severity]++
			for _, kind := range merged.Agents {
				summary.ByKind[kind]++
			}
		}
	}

	summary.TasksTotal = len(outcomes)
	for _, id := range sortedTaskIDs(outcomes) {
		outcome := outcomes[id]
		if !outcome.Failed() {
			continue
		}
		summary.TasksFailed++
		if _, seen := summary.FailedAgents[outcome.Kind]; !seen {
			summary.FailedAgents[outcome.Kind] = outcome.Failure.Kind
		}
	}

	summary.Risk = ComputeRisk(groups)
	return summary
}

func sortedTaskIDs(outcomes map[models.TaskID]models.AgentOutcome) []models.TaskID {
	ids := make([]models.TaskID, 0, len(outcomes))
	for id := range outcomes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
