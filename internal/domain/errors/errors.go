package errors

import (
	"errors"
	"fmt"
)

// ConfigError representa un error de configuración
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error [%s]: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("config error [%s]: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError crea un nuevo error de configuración
func NewConfigError(field, message string, err error) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// AIProviderNotFoundError indica que un proveedor de IA no fue encontrado
type AIProviderNotFoundError struct {
	Provider string
}

func (e *AIProviderNotFoundError) Error() string {
	return fmt.Sprintf("Proveedor de IA '%s' no encontrado en el registro", e.Provider)
}

// NewAIProviderNotFoundError crea un nuevo error de proveedor no encontrado
func NewAIProviderNotFoundError(provider string) *AIProviderNotFoundError {
	return &AIProviderNotFoundError{Provider: provider}
}

// AIProviderNotConfiguredError indica que un proveedor de IA no está configurado
type AIProviderNotConfiguredError struct {
	Provider string
	Reason   string
}

func (e *AIProviderNotConfiguredError) Error() string {
	return fmt.Sprintf("Proveedor IA '%s' no configurado: %s", e.Provider, e.Reason)
}

// NewAIProviderNotConfiguredError crea un nuevo error de proveedor no configurado
func NewAIProviderNotConfiguredError(provider, reason string) *AIProviderNotConfiguredError {
	return &AIProviderNotConfiguredError{
		Provider: provider,
		Reason:   reason,
	}
}

// VCSConfigNotFoundError indica que la configuración de VCS no fue encontrada
type VCSConfigNotFoundError struct {
	Provider string
}

func (e *VCSConfigNotFoundError) Error() string {
	return fmt.Sprintf("Configuracion VCS para proveedor '%s' no encontrado", e.Provider)
}

// NewVCSConfigNotFoundError crea un nuevo error de config VCS no encontrada
func NewVCSConfigNotFoundError(provider string) *VCSConfigNotFoundError {
	return &VCSConfigNotFoundError{Provider: provider}
}

// VCSProviderNotSupportedError indica que un proveedor VCS no es soportado
type VCSProviderNotSupportedError struct {
	Provider string
}

func (e *VCSProviderNotSupportedError) Error() string {
	return fmt.Sprintf("Proveedor VCS '%s' no es soportado", e.Provider)
}

// NewVCSProviderNotSupportedError crea un nuevo error de proveedor no soportado
func NewVCSProviderNotSupportedError(provider string) *VCSProviderNotSupportedError {
	return &VCSProviderNotSupportedError{Provider: provider}
}

// DiffParseError indica que el diff de entrada está malformado. Es terminal
// para toda la corrida: no se procesa ningún diff parcial.
type DiffParseError struct {
	Reason string
	Err    error
}

func (e *DiffParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("diff malformado: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("diff malformado: %s", e.Reason)
}

func (e *DiffParseError) Unwrap() error {
	return e.Err
}

// NewDiffParseError crea un nuevo error de parseo de diff
func NewDiffParseError(reason string, err error) *DiffParseError {
	return &DiffParseError{Reason: reason, Err: err}
}

// Razones machine-readable de BackendError; el summary reporta estas
// razones, nunca el texto crudo del backend.
const (
	BackendReasonRateLimit      = "rate_limit"
	BackendReasonNetwork        = "network"
	BackendReasonOverloaded     = "overloaded"
	BackendReasonMalformed      = "malformed_response"
	BackendReasonAuth           = "auth"
	BackendReasonInvalidRequest = "invalid_request"
)

// BackendError representa una falla del backend de análisis. Las fallas
// transitorias (rate limit, red, respuesta malformada pero reintentable)
// son elegibles para retry; las permanentes cortan la tarea de inmediato.
type BackendError struct {
	Transient bool
	Reason    string
	Err       error
}

func (e *BackendError) Error() string {
	kind := "permanente"
	if e.Transient {
		kind = "transitorio"
	}
	if e.Err != nil {
		return fmt.Sprintf("error de backend %s (%s): %v", kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("error de backend %s (%s)", kind, e.Reason)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewTransientBackendError crea un error de backend reintentable
func NewTransientBackendError(reason string, err error) *BackendError {
	return &BackendError{Transient: true, Reason: reason, Err: err}
}

// NewPermanentBackendError crea un error de backend no reintentable
func NewPermanentBackendError(reason string, err error) *BackendError {
	return &BackendError{Transient: false, Reason: reason, Err: err}
}

// IsTransientBackendError reporta si err es un BackendError reintentable.
func IsTransientBackendError(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr) && backendErr.Transient
}

// Etapas en las que el pipeline puede fallar como un todo.
const (
	PipelineStageParse    = "parse"
	PipelineStageDeadline = "deadline"
)

// PipelineError es la única falla que escala al caller del pipeline:
// diff imparseable o deadline global vencido sin ningún outcome exitoso.
// Cualquier otra cosa degrada a una review parcial.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pipeline fallo en etapa '%s': %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("pipeline fallo en etapa '%s'", e.Stage)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError crea un nuevo error de pipeline
func NewPipelineError(stage string, err error) *PipelineError {
	return &PipelineError{Stage: stage, Err: err}
}
