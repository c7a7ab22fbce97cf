package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// AppError is the unified pipeline error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an AppError.
func CodeOf(err error) ErrorCode {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// IsRetryable reports whether err is an AppError marked retryable.
// Unknown error types are treated as non-retryable.
func IsRetryable(err error) bool {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae.Retryable
	}
	return false
}

// --- Pipeline Error Constructors ---

// UnsupportedFormat creates an error for an audio extension outside the allowlist.
func UnsupportedFormat(ext string, supported []string) *AppError {
	return &AppError{
		Code:      ErrCodeUnsupportedFormat,
		Message:   fmt.Sprintf("unsupported audio format %q", ext),
		Retryable: false,
		Details:   map[string]any{"extension": ext, "supported": supported},
	}
}

// Storage creates an error for a failed object storage operation.
func Storage(op string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeStorage,
		Message:   fmt.Sprintf("storage %s failed", op),
		Retryable: false,
		Details:   map[string]any{"operation": op},
		Cause:     cause,
	}
}

// JobSubmission creates an error for a transcription job that could not be started.
func JobSubmission(jobName string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeJobSubmission,
		Message:   fmt.Sprintf("could not start transcription job %q", jobName),
		Retryable: false,
		Details:   map[string]any{"job": jobName},
		Cause:     cause,
	}
}

// TranscriptionTimeout creates an error for a job that outlived the wait bound.
// The remote job is left running; only the local wait is abandoned.
func TranscriptionTimeout(jobName string, waited time.Duration) *AppError {
	return &AppError{
		Code:      ErrCodeTranscriptionTimeout,
		Message:   fmt.Sprintf("transcription job %q still running after %s", jobName, waited),
		Retryable: false,
		Details:   map[string]any{"job": jobName, "waited": waited.String()},
	}
}

// TranscriptionJob creates an error for a job that reported FAILED. The reason
// is the remote service's failure text, verbatim.
func TranscriptionJob(jobName, reason string) *AppError {
	if reason == "" {
		reason = "no failure reason reported"
	}
	return &AppError{
		Code:      ErrCodeTranscriptionJob,
		Message:   fmt.Sprintf("transcription job %q failed: %s", jobName, reason),
		Retryable: false,
		Details:   map[string]any{"job": jobName, "reason": reason},
	}
}

// Throttled creates a retryable error for a rate- or quota-limited upstream call.
func Throttled(service string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeThrottled,
		Message:   fmt.Sprintf("%s throttled the request", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
		Cause:     cause,
	}
}

// Unavailable creates a retryable error for an unreachable upstream service.
func Unavailable(service string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeUnavailable,
		Message:   fmt.Sprintf("%s is unavailable", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
		Cause:     cause,
	}
}

// ModelInvocation creates a terminal error for a rejected model call.
func ModelInvocation(modelID string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeModelInvocation,
		Message:   fmt.Sprintf("model %q rejected the request", modelID),
		Retryable: false,
		Details:   map[string]any{"model": modelID},
		Cause:     cause,
	}
}

// Summarization creates an error for note generation that failed after retries.
func Summarization(cause error) *AppError {
	return &AppError{
		Code:      ErrCodeSummarization,
		Message:   "meeting note generation failed",
		Retryable: false,
		Cause:     cause,
	}
}

// Formatting creates a per-file error for a failed output write.
func Formatting(path string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeFormatting,
		Message:   fmt.Sprintf("could not write %s", path),
		Retryable: false,
		Details:   map[string]any{"path": path},
		Cause:     cause,
	}
}
