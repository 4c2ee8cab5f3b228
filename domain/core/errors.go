package core

import (
	"errors"
	"fmt"
)

// Sentinel error kinds per the core's failure taxonomy. Callers use
// errors.Is against these; internal/apperr wraps them with context.
var (
	ErrInputInvalid       = errors.New("input invalid")
	ErrNotFound           = errors.New("resource not found")
	ErrStateInvalid       = errors.New("operation incompatible with current state")
	ErrAssessmentExpired  = errors.New("assessment expired")
	ErrEstimationDiverged = errors.New("ability estimation diverged")
	ErrRepositoryFailure  = errors.New("repository failure")

	ErrCandidateNotFound        = fmt.Errorf("%w: candidate", ErrNotFound)
	ErrAssessmentNotFound       = fmt.Errorf("%w: assessment", ErrNotFound)
	ErrItemNotFound             = fmt.Errorf("%w: item", ErrNotFound)
	ErrScaleNotFound            = fmt.Errorf("%w: scale", ErrNotFound)
	ErrPerformanceModelNotFound = fmt.Errorf("%w: performance model", ErrNotFound)
)

// NewNotFoundError reports a missing entity with its kind and id.
func NewNotFoundError(resource, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewInputInvalidError reports a rejected field at an operation boundary.
func NewInputInvalidError(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInputInvalid, field, reason)
}

// NewStateInvalidError reports an operation attempted against an
// incompatible assessment/entity state.
func NewStateInvalidError(operation, state string) error {
	return fmt.Errorf("%w: %s not valid in state %s", ErrStateInvalid, operation, state)
}

// IsNotFound reports whether err (or its wrapped chain) is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInputInvalid reports whether err is a rejected-input error.
func IsInputInvalid(err error) bool { return errors.Is(err, ErrInputInvalid) }

// IsStateInvalid reports whether err is an incompatible-state error.
func IsStateInvalid(err error) bool { return errors.Is(err, ErrStateInvalid) }
