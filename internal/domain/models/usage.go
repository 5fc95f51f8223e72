package models

type TokenUsage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	CostUSD      float64 `json:"cost_usd,omitempty"`
	Model        string  `json:"model,omitempty"`
	CacheHits    int     `json:"cache_hits,omitempty"`
	DurationMs   int64   `json:"duration_ms,omitempty"`
}

// Add acumula otro uso sobre el receptor. El modelo se conserva solo si
// todas las llamadas usaron el mismo; corridas con routing mixto lo dejan
// vacío.
func (u *TokenUsage) Add(other TokenUsage) {
	if u.InputTokens == 0 && u.OutputTokens == 0 && u.TotalTokens == 0 {
		u.Model = other.Model
	} else if u.Model != other.Model {
		u.Model = ""
	}
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	u.CostUSD += other.CostUSD
	u.CacheHits += other.CacheHits
	u.DurationMs += other.DurationMs
}
