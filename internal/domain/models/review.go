package models

// RiskLevel clasifica el riesgo global de un cambio según sus hallazgos.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type (
	// MergedFinding es un hallazgo sobreviviente de la deduplicación:
	// conserva la severidad más alta entre sus contribuyentes y la unión
	// de los kinds que lo reportaron, en orden de prioridad.
	MergedFinding struct {
		Finding
		Agents []AgentKind
	}

	// FindingGroup agrupa los hallazgos fusionados de una posición.
	// Sugerencias en conflicto (hashes distintos) se conservan todas;
	// resolverlas es decisión de la capa de presentación.
	FindingGroup struct {
		Position DiffPosition
		Findings []MergedFinding
	}

	// ReviewSummary resume la corrida: conteos por severidad y por kind,
	// agentes que fallaron y por qué, cobertura de archivos y costo.
	ReviewSummary struct {
		TotalFindings int
		BySeverity    map[Severity]int
		ByKind        map[AgentKind]int
		FailedAgents  map[AgentKind]FailureKind
		FilesReviewed int
		FilesSkipped  int
		TasksTotal    int
		TasksFailed   int
		Risk          RiskLevel
		Usage         *TokenUsage
	}

	// AggregatedReview es el artefacto final del pipeline: grupos ordenados
	// por posición más el summary. Una vez construido pertenece al caller y
	// no se muta más.
	AggregatedReview struct {
		Groups  []FindingGroup
		Summary ReviewSummary
	}
)

// MaxSeverity retorna la severidad más alta del grupo.
func (g *FindingGroup) MaxSeverity() Severity {
	max := SeverityInfo
	for i := range g.Findings {
		max = MaxSeverity(max, g.Findings[i].Severity)
	}
	return max
}

// Flatten expande la review a findings planos, uno por cada kind
// contribuyente de cada hallazgo fusionado. Reagregar el resultado
// reproduce la misma review (la deduplicación es idempotente).
func (r *AggregatedReview) Flatten() []Finding {
	var findings []Finding
	for _, group := range r.Groups {
		for _, merged := range group.Findings {
			for _, kind := range merged.Agents {
				finding := merged.Finding
				finding.Kind = kind
				findings = append(findings, finding)
			}
		}
	}
	return findings
}
