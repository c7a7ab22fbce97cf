package errors

// ErrorCode is a machine-readable pipeline error code.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat means the input audio has a file extension the
	// pipeline does not accept.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"

	// ErrCodeStorage means an object storage operation failed.
	ErrCodeStorage ErrorCode = "STORAGE_FAILED"

	// ErrCodeJobSubmission means the transcription job could not be started.
	ErrCodeJobSubmission ErrorCode = "JOB_SUBMISSION_FAILED"

	// ErrCodeTranscriptionTimeout means the transcription job did not reach a
	// terminal status within the configured wait bound.
	ErrCodeTranscriptionTimeout ErrorCode = "TRANSCRIPTION_TIMEOUT"

	// ErrCodeTranscriptionJob means the remote transcription job reported FAILED.
	ErrCodeTranscriptionJob ErrorCode = "TRANSCRIPTION_JOB_FAILED"

	// ErrCodeThrottled means an upstream service rejected the call for rate or
	// quota reasons; the call may be retried after backoff.
	ErrCodeThrottled ErrorCode = "THROTTLED"

	// ErrCodeModelInvocation means the generative model call was rejected for a
	// non-transient reason (validation, access, unknown model).
	ErrCodeModelInvocation ErrorCode = "MODEL_INVOCATION_FAILED"

	// ErrCodeSummarization means note generation failed after retries were
	// exhausted; the transcript is still usable.
	ErrCodeSummarization ErrorCode = "SUMMARIZATION_FAILED"

	// ErrCodeFormatting means writing one output file failed.
	ErrCodeFormatting ErrorCode = "FORMATTING_FAILED"

	// ErrCodeUnavailable means an upstream service could not be reached.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// retryableCodes lists codes where retrying the same call can succeed.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeThrottled:   true,
	ErrCodeUnavailable: true,
}

// IsRetryableCode reports whether a code is considered transient.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
