// Package assessment defines the Assessment entity and its §4.4/§4.7 state
// machine, plus the Response tagged variant.
package assessment

import (
	"time"

	"assesscore/domain/core"
)

// Type selects which sections an assessment administers.
type Type string

const (
	TypeFull            Type = "full"
	TypeCognitiveOnly    Type = "cognitive_only"
	TypeBehavioralOnly   Type = "behavioral_only"
	TypeInterestsOnly    Type = "interests_only"
)

// Status is the assessment's lifecycle state (§4.4/§4.7).
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusExpired    Status = "expired"
)

// Section is the current section an in-progress assessment is on.
type Section string

const (
	SectionCognitive  Section = "cognitive"
	SectionBehavioral Section = "behavioral"
	SectionInterests  Section = "interests"
	SectionNone       Section = ""
)

// Sections returns the ordered section list for a given assessment Type.
func (t Type) Sections() []Section {
	switch t {
	case TypeCognitiveOnly:
		return []Section{SectionCognitive}
	case TypeBehavioralOnly:
		return []Section{SectionBehavioral}
	case TypeInterestsOnly:
		return []Section{SectionInterests}
	default: // TypeFull
		return []Section{SectionCognitive, SectionBehavioral, SectionInterests}
	}
}

// Assessment is a single examinee's pass through the "total person" test.
type Assessment struct {
	ID              core.AssessmentID
	CandidateID     core.CandidateID
	Type            Type
	Status          Status
	CurrentSection  Section
	CurrentItemIdx  int
	StartedAt       *time.Time
	CompletedAt     *time.Time
	ExpiresAt       time.Time
}

// New creates a not-yet-started assessment with the given expiry.
func New(id core.AssessmentID, candidateID core.CandidateID, typ Type, expiresAt time.Time) (*Assessment, error) {
	a := &Assessment{
		ID:          id,
		CandidateID: candidateID,
		Type:        typ,
		Status:      StatusNotStarted,
		ExpiresAt:   expiresAt,
	}
	if err := a.validateType(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Assessment) validateType() error {
	switch a.Type {
	case TypeFull, TypeCognitiveOnly, TypeBehavioralOnly, TypeInterestsOnly:
		return nil
	default:
		return core.NewInputInvalidError("assessment.type", "unrecognized type")
	}
}

// IsExpired reports whether now is past ExpiresAt. An already-terminal
// assessment (completed) is never "observed" as expired — §5 cancellation
// semantics only apply to in-progress assessments.
func (a *Assessment) IsExpired(now time.Time) bool {
	return a.Status != StatusCompleted && !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}

// Start transitions not_started -> in_progress, idempotently. Calling Start
// again on an already-started assessment is a no-op (§5 idempotency).
func (a *Assessment) Start(now time.Time) error {
	if a.Status == StatusInProgress || a.Status == StatusCompleted {
		return nil
	}
	if a.Status != StatusNotStarted {
		return core.NewStateInvalidError("start", string(a.Status))
	}
	sections := a.Type.Sections()
	if len(sections) == 0 {
		return core.NewInputInvalidError("assessment.type", "has no applicable sections")
	}
	a.Status = StatusInProgress
	a.CurrentSection = sections[0]
	a.CurrentItemIdx = 0
	startedAt := now
	a.StartedAt = &startedAt
	return nil
}

// AdvanceSection moves to the next section in the type's sequence, or
// completes the assessment if none remain.
func (a *Assessment) AdvanceSection(now time.Time) (nextSection Section, completed bool) {
	sections := a.Type.Sections()
	for i, s := range sections {
		if s == a.CurrentSection && i+1 < len(sections) {
			a.CurrentSection = sections[i+1]
			a.CurrentItemIdx = 0
			return a.CurrentSection, false
		}
	}
	a.Status = StatusCompleted
	completedAt := now
	a.CompletedAt = &completedAt
	return SectionNone, true
}

// Expire transitions the assessment to expired. Responses already recorded
// are preserved by the repository; this only flips the status.
func (a *Assessment) Expire() {
	if a.Status == StatusInProgress || a.Status == StatusNotStarted {
		a.Status = StatusExpired
	}
}
