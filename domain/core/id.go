package core

import (
	"strings"

	"github.com/google/uuid"
)

// ID is a domain identifier, time-ordered via UUIDv7.
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered,
// sortable generation. Falls back to v4 if v7 generation fails.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation.
func (id ID) String() string { return string(id) }

// IsEmpty reports whether the ID is unset.
func (id ID) IsEmpty() bool { return id == "" }

// Domain-specific ID types, kept distinct so a CandidateID can't be passed
// where an AssessmentID is expected.
type (
	CandidateID        ID
	ScaleID            ID
	ItemID             ID
	AssessmentID       ID
	ResponseID         ID
	ScaleScoreID       ID
	PerformanceModelID ID
)

func (id CandidateID) String() string        { return ID(id).String() }
func (id ScaleID) String() string             { return ID(id).String() }
func (id ItemID) String() string              { return ID(id).String() }
func (id AssessmentID) String() string        { return ID(id).String() }
func (id ResponseID) String() string          { return ID(id).String() }
func (id ScaleScoreID) String() string        { return ID(id).String() }
func (id PerformanceModelID) String() string  { return ID(id).String() }

// ParseScaleID validates and wraps a raw string as a ScaleID. ScaleID values
// are author-assigned slugs (e.g. "numerical_reasoning"), not UUIDs, so this
// only rejects the empty case.
func ParseScaleID(s string) (ScaleID, error) {
	if strings.TrimSpace(s) == "" {
		return "", NewInputInvalidError("scale_id", "must not be empty")
	}
	return ScaleID(s), nil
}
