// Package apperr provides a structured application-error wrapper with
// codes, layered on top of the domain sentinel errors in domain/core.
package apperr

import "fmt"

// AppError is a coded, wrappable application error.
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

func (e *AppError) Unwrap() error { return e.Cause }

// New creates a new AppError with no cause.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches additional context to err, preserving its error chain for
// errors.Is/errors.As.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{Code: appErr.Code, Message: message, Cause: appErr}
	}
	return &AppError{Code: CodeInternal, Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Predefined error codes, one per §7 failure kind plus a catch-all.
const (
	CodeInputInvalid       = "INPUT_INVALID"
	CodeNotFound           = "NOT_FOUND"
	CodeStateInvalid       = "STATE_INVALID"
	CodeAssessmentExpired  = "ASSESSMENT_EXPIRED"
	CodeEstimationDiverged = "ESTIMATION_DIVERGED"
	CodeRepositoryFailure  = "REPOSITORY_FAILURE"
	CodeInternal           = "INTERNAL_ERROR"
)

// Code returns the AppError code if err is one, otherwise "UNKNOWN".
func Code(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}
