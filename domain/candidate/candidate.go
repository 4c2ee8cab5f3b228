// Package candidate defines the Candidate entity. Demographic/contact
// attributes are opaque to the psychometric core.
package candidate

import "assesscore/domain/core"

// Candidate is an examinee taking one or more assessments.
type Candidate struct {
	ID         core.CandidateID
	Attributes map[string]interface{}
}

// Validate checks the only invariant the core cares about: identity.
func (c Candidate) Validate() error {
	if c.ID.String() == "" {
		return core.NewInputInvalidError("candidate.id", "must not be empty")
	}
	return nil
}
