package aggregator

import "github.com/Tomas-vilte/MateReview/internal/domain/models"

var severityWeights = map[models.Severity]int{
	models.SeverityError:   10,
	models.SeverityWarning: 3,
	models.SeverityInfo:    1,
}

// Risk thresholds over the total weighted severity.
const (
	riskThresholdLow    = 5
	riskThresholdMedium = 15
	riskThresholdHigh   = 30
)

// ComputeRisk scores the overall change from its merged findings: each
// finding weighs by severity and the accumulated weight maps to a level.
func ComputeRisk(groups []models.FindingGroup) models.RiskLevel {
	total := 0
	for _, group := range groups {
		for _, merged := range group.Findings {
			total += severityWeights[merged.Severity]
		}
	}

	switch {
	case total > riskThresholdHigh:
		return models.RiskCritical
	case total > riskThresholdMedium:
		return models.RiskHigh
	case total > riskThresholdLow:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
