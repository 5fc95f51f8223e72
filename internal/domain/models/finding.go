package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// AgentKind identifica la dimensión de análisis de un agente.
type AgentKind string

const (
	AgentSecurity    AgentKind = "security"
	AgentLogic       AgentKind = "logic"
	AgentPerformance AgentKind = "performance"
	AgentReadability AgentKind = "readability"
)

// AllAgentKinds retorna los kinds soportados en orden de prioridad fija.
func AllAgentKinds() []AgentKind {
	return []AgentKind{AgentSecurity, AgentLogic, AgentPerformance, AgentReadability}
}

// KindPriority retorna la prioridad del kind para desempates de orden
// (menor es más prioritario). Kinds desconocidos quedan al final.
func KindPriority(kind AgentKind) int {
	switch kind {
	case AgentSecurity:
		return 0
	case AgentLogic:
		return 1
	case AgentPerformance:
		return 2
	case AgentReadability:
		return 3
	default:
		return 4
	}
}

// ParseAgentKind valida un kind recibido desde config o CLI.
func ParseAgentKind(raw string) (AgentKind, bool) {
	kind := AgentKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case AgentSecurity, AgentLogic, AgentPerformance, AgentReadability:
		return kind, true
	}
	return "", false
}

// Severity es la severidad de un hallazgo.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SeverityRank ordena severidades de mayor a menor: error > warning > info.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// MaxSeverity retorna la más alta de las dos.
func MaxSeverity(a, b Severity) Severity {
	if SeverityRank(a) <= SeverityRank(b) {
		return a
	}
	return b
}

// Finding es una observación de un agente anclada a una posición del diff.
// Es inmutable una vez producida; el Hash se calcula en la construcción.
type Finding struct {
	Kind       AgentKind
	Severity   Severity
	Position   DiffPosition
	Message    string
	Suggestion string
	Hash       string
}

// NewFinding construye un Finding con su content-hash estable.
// El hash cubre posición y mensaje normalizado pero no severidad ni kind:
// la misma observación reportada por dos agentes con severidades distintas
// debe colapsar en el mismo hash para que la agregación las fusione.
func NewFinding(kind AgentKind, severity Severity, pos DiffPosition, message, suggestion string) Finding {
	return Finding{
		Kind:       kind,
		Severity:   severity,
		Position:   pos,
		Message:    message,
		Suggestion: suggestion,
		Hash:       contentHash(pos, message),
	}
}

func contentHash(pos DiffPosition, message string) string {
	h := sha256.New()
	h.Write([]byte(pos.Path))
	h.Write([]byte{'|'})
	h.Write([]byte(pos.Side))
	h.Write([]byte{'|'})
	var buf [8]byte
	line := pos.Line
	for i := 0; i < 8; i++ {
		buf[i] = byte(line >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte{'|'})
	h.Write([]byte(NormalizeMessage(message)))
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// NormalizeMessage normaliza un mensaje para el cálculo del hash:
// minúsculas, espacios colapsados y punto final removido.
func NormalizeMessage(message string) string {
	normalized := strings.ToLower(strings.TrimSpace(message))
	normalized = strings.Join(strings.Fields(normalized), " ")
	return strings.TrimSuffix(normalized, ".")
}
