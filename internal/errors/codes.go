package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error type for chat pipeline operations.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates authentication failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeConfiguration indicates the provider is not configured at all.
	// This is the only provider-side failure that propagates to the caller.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeProviderUnavailable indicates the completion provider call failed.
	// Handled in place by producing a degraded answer, never surfaced raw.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrCodeRetrievalDegraded indicates primary retrieval failed and the
	// fallback strategy was used. Informational, never fatal.
	ErrCodeRetrievalDegraded ErrorCode = "RETRIEVAL_DEGRADED"
	// ErrCodeAccountingFailure indicates a usage-log or cache write failed
	// after a successful generation. Logged and swallowed.
	ErrCodeAccountingFailure ErrorCode = "ACCOUNTING_FAILURE"
	// ErrCodeStorageFailure indicates the persistence layer itself is down.
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// PipelineError represents a structured error for chat pipeline operations.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// GetCode returns the error code.
func (e *PipelineError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeUnauthorized, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeInvalidArgument, Message: msg}
}

// Configuration creates a configuration error.
func Configuration(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeConfiguration, Message: msg}
}

// ProviderUnavailable creates a provider unavailable error.
func ProviderUnavailable(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeProviderUnavailable, Message: msg, Cause: cause}
}

// RetrievalDegraded creates a retrieval degraded error.
func RetrievalDegraded(cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeRetrievalDegraded, Message: "primary retrieval failed", Cause: cause}
}

// AccountingFailure creates an accounting failure error.
func AccountingFailure(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeAccountingFailure, Message: msg, Cause: cause}
}

// StorageFailure creates a storage failure error.
func StorageFailure(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeStorageFailure, Message: msg, Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *PipelineError {
	return &PipelineError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error, anywhere in its chain, carries the code.
func IsCode(err error, code ErrorCode) bool {
	var perr *PipelineError
	if stderrors.As(err, &perr) {
		return perr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error in the chain.
// Returns the provided default code if no PipelineError is found.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var perr *PipelineError
	if stderrors.As(err, &perr) {
		return perr.Code
	}
	return defaultCode
}
