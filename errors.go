package lotto

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode identifies a failure class across the library
type ErrorCode string

const (
	// System errors (1000-1999)
	ErrCodeSystem          ErrorCode = "LOTTO_1000"
	ErrCodeRedisConnection ErrorCode = "LOTTO_1001"
	ErrCodeConfigInvalid   ErrorCode = "LOTTO_1002"

	// Draw errors (2000-2999)
	ErrCodeInvalidParameters     ErrorCode = "LOTTO_2000"
	ErrCodeInvalidDrawParameters ErrorCode = "LOTTO_2001"
	ErrCodeInvalidFixedNumbers   ErrorCode = "LOTTO_2002"
	ErrCodeInvalidTrialCeiling   ErrorCode = "LOTTO_2003"
	ErrCodeInvalidReducerPolicy  ErrorCode = "LOTTO_2004"
	ErrCodeDrawFailure           ErrorCode = "LOTTO_2005"
	ErrCodeDrawTimeout           ErrorCode = "LOTTO_2006"
	ErrCodeEmptyTrialBatch       ErrorCode = "LOTTO_2007"

	// Lock errors (3000-3999)
	ErrCodeLockAcquisitionFailed ErrorCode = "LOTTO_3000"
	ErrCodeLockTimeout           ErrorCode = "LOTTO_3001"
	ErrCodeLockReleaseFailure    ErrorCode = "LOTTO_3002"

	// Availability errors (5000-5999)
	ErrCodeCircuitBreakerOpen ErrorCode = "LOTTO_5000"
)

// ErrorSeverity classifies how serious a failure is
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
)

// LottoError is the error type surfaced by every component in this library
type LottoError struct {
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   string        `json:"details,omitempty"`
	Severity  ErrorSeverity `json:"severity"`
	Timestamp time.Time     `json:"timestamp"`
	Cause     error         `json:"-"`
	Retryable bool          `json:"retryable"`
}

// Error implements the error interface
func (e *LottoError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *LottoError) Unwrap() error { return e.Cause }

// Is matches two LottoErrors by code, so sentinel instances work with
// errors.Is even after WithDetails or WithCause copies
func (e *LottoError) Is(target error) bool {
	if t, ok := target.(*LottoError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetails returns a copy of the error carrying extra detail text.
// The receiver, typically a shared sentinel, is left untouched.
func (e *LottoError) WithDetails(details string) *LottoError {
	clone := *e
	clone.Details = details
	clone.Timestamp = time.Now()
	return &clone
}

// WithCause returns a copy of the error wrapping the given cause
func (e *LottoError) WithCause(cause error) *LottoError {
	clone := *e
	clone.Cause = cause
	clone.Timestamp = time.Now()
	return &clone
}

// NewError creates a new non-retryable error
func NewError(code ErrorCode, message string) *LottoError {
	return &LottoError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
	}
}

// NewRetryableError creates a new retryable error
func NewRetryableError(code ErrorCode, message string) *LottoError {
	return &LottoError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: true,
	}
}

// NewCriticalError creates a new critical, non-retryable error
func NewCriticalError(code ErrorCode, message string) *LottoError {
	return &LottoError{
		Code:      code,
		Message:   message,
		Severity:  SeverityCritical,
		Timestamp: time.Now(),
	}
}

// Predefined error instances
var (
	// System errors
	ErrSystemError           = NewCriticalError(ErrCodeSystem, "system error occurred")
	ErrRedisConnectionFailed = NewRetryableError(ErrCodeRedisConnection, "Redis connection failed")
	ErrConfigInvalid         = NewCriticalError(ErrCodeConfigInvalid, "configuration is invalid")

	// Draw errors
	ErrInvalidParameters     = NewError(ErrCodeInvalidParameters, "invalid parameters provided")
	ErrInvalidDrawParameters = NewError(ErrCodeInvalidDrawParameters, "invalid draw parameters")
	ErrInvalidFixedNumbers   = NewError(ErrCodeInvalidFixedNumbers, "invalid fixed numbers")
	ErrInvalidTrialCeiling   = NewError(ErrCodeInvalidTrialCeiling, "invalid trial ceiling: must be greater than 0")
	ErrInvalidReducerPolicy  = NewError(ErrCodeInvalidReducerPolicy, "invalid reducer policy")
	ErrDrawFailure           = NewError(ErrCodeDrawFailure, "trial batch failed")
	ErrDrawTimeout           = NewRetryableError(ErrCodeDrawTimeout, "draw timed out before the trial batch completed")
	ErrEmptyTrialBatch       = NewError(ErrCodeEmptyTrialBatch, "trial batch is empty")

	// Lock errors
	ErrLockAcquisitionFailed = NewRetryableError(ErrCodeLockAcquisitionFailed, "failed to acquire session lock")
	ErrLockTimeout           = NewRetryableError(ErrCodeLockTimeout, "session lock acquisition timeout")
	ErrLockReleaseFailure    = NewError(ErrCodeLockReleaseFailure, "failed to release session lock")

	// Availability errors
	ErrCircuitBreakerOpen = NewRetryableError(ErrCodeCircuitBreakerOpen, "circuit breaker is open")
)

// NewInvalidDrawParametersError builds an InvalidDrawParameters error that
// names the offending size and maxNumber
func NewInvalidDrawParametersError(size, maxNumber int) *LottoError {
	return ErrInvalidDrawParameters.WithDetails(
		fmt.Sprintf("size=%d, maxNumber=%d", size, maxNumber))
}

// IsRetryable reports whether the error, or any error it wraps, is marked
// retryable
func IsRetryable(err error) bool {
	var le *LottoError
	if errors.As(err, &le) {
		return le.Retryable
	}
	return false
}
