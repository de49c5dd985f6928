package speech

import (
	"errors"
	"fmt"
)

// Common speech errors
var (
	// ErrEngineNotAvailable indicates the selected engine is not installed
	ErrEngineNotAvailable = errors.New("selected speech engine is not available")

	// ErrInvalidEngine indicates an unknown engine was specified
	ErrInvalidEngine = errors.New("invalid speech engine specified")

	// ErrEmptyText indicates there was nothing to say
	ErrEmptyText = errors.New("text cannot be empty")
)

// ErrorCode identifies specific error types.
type ErrorCode string

const (
	ErrorCodeEngineFailure ErrorCode = "ENGINE_FAILURE"
	ErrorCodeEngineTimeout ErrorCode = "ENGINE_TIMEOUT"
	ErrorCodeAudioFailure  ErrorCode = "AUDIO_FAILURE"
	ErrorCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrorCodeCanceled      ErrorCode = "CANCELED"
)

// Error is a speech error with a code and the symbol it concerns.
type Error struct {
	Code    ErrorCode
	Message string
	Symbol  string
	Cause   error
}

// NewError creates a new speech error.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithSymbol records which symbol the error concerns.
func (e *Error) WithSymbol(symbol string) *Error {
	e.Symbol = symbol
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Symbol != "" {
		msg += fmt.Sprintf(" (symbol %q)", e.Symbol)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
