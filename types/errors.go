package types

// PactError is the library-level error shape carried across package
// boundaries outside of verification, which folds its problems into a
// ProcessedCommand instead.
type PactError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *PactError) Error() string {
	return e.Message
}

// Common error codes
const (
	ErrInvalidCommand     = "INVALID_COMMAND"
	ErrInvalidPayload     = "INVALID_PAYLOAD"
	ErrUnsupportedScheme  = "UNSUPPORTED_SCHEME"
	ErrVerificationFailed = "VERIFICATION_FAILED"
	ErrExecutionFailed    = "EXECUTION_FAILED"
	ErrNoExecutor         = "NO_EXECUTOR"
	ErrConfigError        = "CONFIG_ERROR"
)
