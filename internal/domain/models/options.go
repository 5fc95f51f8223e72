package models

import "time"

// ReviewOptions parametriza una corrida del pipeline. Se arma por
// invocación: el archivo de configuración aporta los defaults y los flags
// de la CLI los pisan. El pipeline no retiene estado entre corridas.
type ReviewOptions struct {
	Agents            []AgentKind
	ConcurrencyBudget int
	TaskTimeout       time.Duration
	RunDeadline       time.Duration
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	MaxFiles          int
	MaxLines          int
	SkipPatterns      []string
}

// EnabledAgents retorna los kinds a correr; sin selección explícita se
// corren los cuatro.
func (o *ReviewOptions) EnabledAgents() []AgentKind {
	if len(o.Agents) == 0 {
		return AllAgentKinds()
	}
	return o.Agents
}
