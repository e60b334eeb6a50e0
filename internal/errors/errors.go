package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, preserving an existing code
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode attaches an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Error codes for the conversion engine. SourceRead and SinkWrite are the two
// causes a caller can actually hit; TypeResolution and Coercion are assertion
// codes; resolution and coercion always terminate in a valid fallback, so
// seeing either reported means an engine bug, not bad input.
const (
	CodeSourceRead     = "SOURCE_READ_ERROR"
	CodeSinkWrite      = "SINK_WRITE_ERROR"
	CodeTypeResolution = "TYPE_RESOLUTION_ERROR"
	CodeCoercion       = "COERCION_ERROR"
	CodeCancelled      = "CANCELLED"
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeHistoryStore   = "HISTORY_STORE_ERROR"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInternalError  = "INTERNAL_ERROR"
)

// Common error constructors
func SourceRead(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeSourceRead,
		Message: fmt.Sprintf("failed to read source %s", path),
		Cause:   cause,
	}
}

func SinkWrite(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeSinkWrite,
		Message: fmt.Sprintf("failed to write target %s", path),
		Cause:   cause,
	}
}

func Cancelled(path string) *AppError {
	return New(CodeCancelled, fmt.Sprintf("conversion of %s cancelled", path))
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// IsCancelled reports whether an error carries the cancellation code
func IsCancelled(err error) bool {
	return GetCode(err) == CodeCancelled
}
