package ai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
)

// Template base de review. Los slots son: especialidad del agente, bloque
// de contexto, focus areas, diff numerado y nota de idioma.
const reviewPromptTemplate = `You are an expert code reviewer specializing in %s analysis.
Analyze the provided code diff and identify real issues.

## Context
%s
## Focus Areas
%s

## Diff
Each line is prefixed with its position: the first column is the line number
in the old version of the file, the second column is the line number in the
new version. A dot means the line does not exist on that side.

%s
## Response Format
Respond ONLY with a JSON object shaped as {"findings": [...]}. Each finding must have:
- "line": the line number exactly as printed in the diff (integer)
- "side": "old" when the remark targets a removed line, "new" otherwise
- "severity": one of "error", "warning", "info"
- "message": short, specific explanation of the issue
- "suggestion": replacement code for the flagged line, or null if none

Rules:
- ONLY flag issues visible in the diff, never imagined problems
- Anchor every finding to a line number printed above
- Be specific about WHY something is an issue
- If no issues are found, return {"findings": []}%s`

// Focus areas por agente. Vienen del catálogo de patrones que cada
// especialidad tiene que barrer; el modelo tiende a dispersarse sin esta
// lista explícita.
const (
	securityFocusAreas = `- SQL injection (string interpolation in queries)
- Cross-site scripting (XSS) via unsanitized user input
- Hardcoded secrets, API keys, passwords, tokens
- Insecure deserialization and unsafe eval/exec
- Missing input validation and sanitization
- Path traversal vulnerabilities
- Unsafe regular expressions (ReDoS)
- Insecure cryptographic practices
- SSRF (Server-Side Request Forgery)
- Missing authentication/authorization checks
- Sensitive data exposure in logs or error messages`

	logicFocusAreas = `- Null/nil dereferences and missing nil checks
- Off-by-one errors in loops and slice indexing
- Unreachable code after return/break/continue
- Faulty conditional logic (wrong operator, missing cases)
- Missing edge case handling (empty input, boundary values)
- Incorrect return types or values
- Variable shadowing or incorrect scope
- Race conditions in concurrent code`

	performanceFocusAreas = `- N+1 query patterns (database calls in loops)
- Unnecessary object or slice allocations
- Inefficient algorithms (quadratic where linear is possible)
- Missing caching opportunities
- Blocking I/O on hot paths
- Unnecessary re-computation
- Large data structures loaded entirely into memory
- Inefficient string concatenation in loops
- Missing pagination for large data sets`

	readabilityFocusAreas = `- Poor or misleading variable/function names
- Excessive function length or cyclomatic complexity
- Missing or outdated doc comments
- Magic numbers or strings that should be constants
- Deep nesting that could be simplified
- Dead or commented-out code
- Inconsistent formatting or style
- Functions doing too many things at once`
)

// FocusAreas retorna la lista de patrones a barrer para un kind.
func FocusAreas(kind models.AgentKind) string {
	switch kind {
	case models.AgentSecurity:
		return securityFocusAreas
	case models.AgentLogic:
		return logicFocusAreas
	case models.AgentPerformance:
		return performanceFocusAreas
	default:
		return readabilityFocusAreas
	}
}

// roleFor describe la especialidad del agente en el preámbulo del prompt.
func roleFor(kind models.AgentKind) string {
	switch kind {
	case models.AgentSecurity:
		return "security vulnerability"
	case models.AgentLogic:
		return "logic and correctness"
	case models.AgentPerformance:
		return "performance"
	default:
		return "readability and code style"
	}
}

// languageNote pide los textos user-facing en el idioma configurado. El
// contrato JSON no cambia: solo message y suggestion se traducen.
func languageNote(lang string) string {
	if lang == "es" {
		return "\n- Write the \"message\" field in Spanish"
	}
	return ""
}

// BuildReviewPrompt arma el prompt completo de un agente sobre un archivo
// del diff: rol, contexto del PR, focus areas del kind, diff numerado y
// contrato de respuesta.
func BuildReviewPrompt(lang string, scope models.ReviewScope, kind models.AgentKind) string {
	return fmt.Sprintf(reviewPromptTemplate,
		roleFor(kind),
		formatScopeContext(scope),
		FocusAreas(kind),
		RenderNumberedDiff(scope.File),
		languageNote(lang),
	)
}

// formatScopeContext arma el bloque de contexto: archivo, tipo de cambio
// y metadata del PR cuando la review viene de uno.
func formatScopeContext(scope models.ReviewScope) string {
	var sb strings.Builder

	file := scope.File
	language := file.Language
	if language == "" {
		language = "unknown"
	}
	added, removed := file.ChangedLines()

	fmt.Fprintf(&sb, "- File: `%s` (%s)\n", file.Path, language)
	fmt.Fprintf(&sb, "- Change: %s, +%d/-%d\n", file.Kind, added, removed)
	if file.Kind == models.ChangeRenamed && file.OldPath != "" {
		fmt.Fprintf(&sb, "- Renamed from: `%s`\n", file.OldPath)
	}

	if pr := scope.PR; pr != nil {
		fmt.Fprintf(&sb, "- PR #%d: %s\n", pr.Number, pr.Title)
		if pr.Description != "" {
			fmt.Fprintf(&sb, "- Description: %s\n", pr.Description)
		}
	}

	return sb.String()
}

// RenderNumberedDiff imprime los hunks del archivo con la numeración de
// ambos lados. El contrato de respuesta referencia estas columnas, así que
// el formato acá y el parseo de posiciones tienen que moverse juntos.
func RenderNumberedDiff(file models.FileChange) string {
	var sb strings.Builder

	for i, hunk := range file.Hunks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)

		for _, line := range hunk.Lines {
			marker := byte(' ')
			oldNum, newNum := ".", "."

			switch line.Kind {
			case models.LineAdded:
				marker = '+'
				newNum = strconv.Itoa(line.NewNumber)
			case models.LineRemoved:
				marker = '-'
				oldNum = strconv.Itoa(line.OldNumber)
			default:
				oldNum = strconv.Itoa(line.OldNumber)
				newNum = strconv.Itoa(line.NewNumber)
			}

			fmt.Fprintf(&sb, "%c%5s %5s  %s\n", marker, oldNum, newNum, line.Content)
		}
	}

	return sb.String()
}
