package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		innerErr := errors.New("inner error")
		err := NewConfigError("api_key", "invalid key", innerErr)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "api_key")
		assert.Contains(t, err.Error(), "invalid key")
		assert.Contains(t, err.Error(), "inner error")

		assert.Equal(t, innerErr, errors.Unwrap(err))
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewConfigError("api_key", "missing key", nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "api_key")
		assert.Contains(t, err.Error(), "missing key")
		assert.Nil(t, errors.Unwrap(err))
	})
}

func TestAIProviderNotFoundError(t *testing.T) {
	err := NewAIProviderNotFoundError("openai")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "no encontrado")

	var aiErr *AIProviderNotFoundError
	assert.True(t, errors.As(err, &aiErr))
	assert.Equal(t, "openai", aiErr.Provider)
}

func TestDiffParseError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		innerErr := errors.New("fragment header mismatch")
		err := NewDiffParseError("hunk inválido", innerErr)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "diff malformado")
		assert.Contains(t, err.Error(), "hunk inválido")
		assert.Equal(t, innerErr, errors.Unwrap(err))
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewDiffParseError("diff vacío", nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "diff vacío")
		assert.Nil(t, errors.Unwrap(err))
	})
}

func TestBackendError(t *testing.T) {
	t.Run("transient error is retryable", func(t *testing.T) {
		err := NewTransientBackendError(BackendReasonRateLimit, errors.New("429"))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "transitorio")
		assert.Contains(t, err.Error(), BackendReasonRateLimit)
		assert.True(t, IsTransientBackendError(err))
	})

	t.Run("permanent error is not retryable", func(t *testing.T) {
		err := NewPermanentBackendError(BackendReasonAuth, errors.New("401"))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "permanente")
		assert.False(t, IsTransientBackendError(err))
	})

	t.Run("unrelated errors are not transient", func(t *testing.T) {
		assert.False(t, IsTransientBackendError(errors.New("boom")))
		assert.False(t, IsTransientBackendError(nil))
	})

	t.Run("transient survives wrapping", func(t *testing.T) {
		inner := NewTransientBackendError(BackendReasonNetwork, nil)
		wrapped := errors.Join(errors.New("contexto"), inner)

		assert.True(t, IsTransientBackendError(wrapped))
	})
}

func TestPipelineError(t *testing.T) {
	t.Run("parse stage wraps the diff error", func(t *testing.T) {
		parseErr := NewDiffParseError("hunk inválido", nil)
		err := NewPipelineError(PipelineStageParse, parseErr)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), PipelineStageParse)

		var diffErr *DiffParseError
		assert.True(t, errors.As(err, &diffErr), "El PipelineError deberia permitir recuperar el DiffParseError original")
	})

	t.Run("deadline stage", func(t *testing.T) {
		err := NewPipelineError(PipelineStageDeadline, nil)

		assert.Contains(t, err.Error(), PipelineStageDeadline)
		assert.Nil(t, errors.Unwrap(err))
	})
}
