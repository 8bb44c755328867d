package lotto

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLottoError_Error(t *testing.T) {
	err := NewError(ErrCodeDrawFailure, "trial batch failed")
	assert.Equal(t, "[LOTTO_2005] trial batch failed", err.Error())

	withDetails := err.WithDetails("all workers aborted")
	assert.Equal(t, "[LOTTO_2005] trial batch failed: all workers aborted", withDetails.Error())
}

func TestLottoError_WithDetailsCopies(t *testing.T) {
	// WithDetails must never mutate the shared sentinel.
	detailed := ErrInvalidDrawParameters.WithDetails("size=0, maxNumber=10")

	assert.Empty(t, ErrInvalidDrawParameters.Details)
	assert.Equal(t, "size=0, maxNumber=10", detailed.Details)
	assert.NotSame(t, ErrInvalidDrawParameters, detailed)

	assert.ErrorIs(t, detailed, ErrInvalidDrawParameters)
}

func TestLottoError_WithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrRedisConnectionFailed.WithCause(cause)

	assert.Nil(t, ErrRedisConnectionFailed.Cause)
	assert.ErrorIs(t, err, ErrRedisConnectionFailed)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestLottoError_IsMatchesByCode(t *testing.T) {
	a := NewError(ErrCodeDrawFailure, "one message")
	b := NewError(ErrCodeDrawFailure, "another message")
	c := NewError(ErrCodeDrawTimeout, "one message")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
	assert.NotErrorIs(t, a, errors.New("plain error"))
}

func TestLottoError_WrappedMatching(t *testing.T) {
	inner := ErrInvalidDrawParameters.WithDetails("size=11, maxNumber=10")
	outer := ErrDrawFailure.WithCause(inner)

	assert.ErrorIs(t, outer, ErrDrawFailure)
	assert.ErrorIs(t, outer, ErrInvalidDrawParameters)

	wrapped := fmt.Errorf("extraction: %w", outer)
	assert.ErrorIs(t, wrapped, ErrDrawFailure)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRedisConnectionFailed))
	assert.True(t, IsRetryable(ErrLockAcquisitionFailed))
	assert.False(t, IsRetryable(ErrInvalidDrawParameters))
	assert.False(t, IsRetryable(errors.New("plain error")))
	assert.False(t, IsRetryable(nil))

	t.Run("wrapped retryable errors match", func(t *testing.T) {
		wrapped := fmt.Errorf("lock: %w", ErrLockTimeout)
		assert.True(t, IsRetryable(wrapped))
	})
}

func TestNewInvalidDrawParametersError(t *testing.T) {
	err := NewInvalidDrawParametersError(11, 10)
	require.NotNil(t, err)

	assert.Equal(t, ErrCodeInvalidDrawParameters, err.Code)
	assert.Contains(t, err.Details, "size=11")
	assert.Contains(t, err.Details, "maxNumber=10")
	assert.ErrorIs(t, err, ErrInvalidDrawParameters)
}

func TestErrorSeverities(t *testing.T) {
	assert.Equal(t, SeverityCritical, ErrSystemError.Severity)
	assert.Equal(t, SeverityCritical, ErrConfigInvalid.Severity)
	assert.Equal(t, SeverityMedium, ErrDrawFailure.Severity)
	assert.True(t, ErrDrawTimeout.Retryable)
	assert.False(t, ErrDrawFailure.Retryable)
}
