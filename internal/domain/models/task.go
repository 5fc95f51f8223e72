package models

import (
	"fmt"
	"time"
)

// TaskID es el id de correlación de una tarea. Es determinístico
// (kind:path) porque la identidad de la tarea es (kind × scope) y un id
// reproducible mantiene los logs rastreables entre corridas.
type TaskID string

type (
	// ReviewScope es el alcance que recibe un agente: un archivo completo
	// del diff más el contexto opcional del PR que lo origina.
	ReviewScope struct {
		File FileChange
		PR   *PullRequestContext
	}

	// AgentTask es una unidad de trabajo (kind × scope). Se crea una vez
	// al inicio del pipeline, es inmutable y el orquestador la consume
	// exactamente una vez.
	AgentTask struct {
		ID    TaskID
		Kind  AgentKind
		Scope ReviewScope
	}
)

// NewAgentTask construye la tarea para un kind sobre un archivo.
func NewAgentTask(kind AgentKind, scope ReviewScope) AgentTask {
	return AgentTask{
		ID:    TaskID(fmt.Sprintf("%s:%s", kind, scope.File.Path)),
		Kind:  kind,
		Scope: scope,
	}
}

// FailureKind clasifica la falla terminal de una tarea.
type FailureKind string

const (
	FailureTimeout      FailureKind = "timeout"
	FailureBackendError FailureKind = "backend_error"
	FailureMalformed    FailureKind = "malformed_response"
)

type (
	// TaskFailure es la falla tipada de una tarea agotada. Reason es una
	// descripción corta para el summary, nunca el texto crudo del backend.
	TaskFailure struct {
		Kind   FailureKind
		Reason string
	}

	// AgentMetrics registra el costo operativo de resolver una tarea.
	AgentMetrics struct {
		Attempts int
		Duration time.Duration
	}

	// AgentOutcome es el resultado terminal de una tarea: findings o una
	// falla tipada, nunca ambos. Se produce exactamente uno por AgentTask.
	AgentOutcome struct {
		TaskID   TaskID
		Kind     AgentKind
		Findings []Finding
		Failure  *TaskFailure
		Metrics  AgentMetrics
	}
)

// Failed reporta si la tarea terminó en falla.
func (o *AgentOutcome) Failed() bool {
	return o.Failure != nil
}
