// Package core implements §6's external interface: a thin facade over the
// session manager, match engine, and interview generator that the
// cmd/server and cmd/cli entrypoints each map 1:1 onto their own surface.
package core

import (
	"context"
	"time"

	"assesscore/app/interview"
	"assesscore/app/match"
	"assesscore/app/session"
	"assesscore/domain/assessment"
	"assesscore/domain/candidate"
	"assesscore/domain/core"
	appinterview "assesscore/domain/interview"
	"assesscore/domain/jobmodel"
	"assesscore/domain/score"
	"assesscore/internal"
	"assesscore/internal/config"
	"assesscore/ports"
)

// Service is the single entry point a transport layer (HTTP or CLI) drives.
// It owns no state of its own beyond its collaborators; every method is a
// thin translation from external inputs to a domain/app call.
type Service struct {
	candidates  ports.CandidateRepository
	assessments ports.AssessmentRepository
	sessions    *session.Manager
	matcher     *match.Engine
	interviews  *interview.Generator
	ttl         time.Duration
	logger      *internal.Logger
}

// NewService wires the facade from its repository ports and the process
// configuration's assessment TTL.
func NewService(
	candidates ports.CandidateRepository,
	assessments ports.AssessmentRepository,
	sessions *session.Manager,
	matcher *match.Engine,
	interviews *interview.Generator,
	cfg *config.Config,
	logger *internal.Logger,
) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{
		candidates:  candidates,
		assessments: assessments,
		sessions:    sessions,
		matcher:     matcher,
		interviews:  interviews,
		ttl:         time.Duration(cfg.AssessmentTTLHours) * time.Hour,
		logger:      logger,
	}
}

// CreateAssessment implements §6's CreateAssessment: allocates a new
// Assessment in not_started state, expiring ttl after creation.
func (s *Service) CreateAssessment(ctx context.Context, candidateID core.CandidateID, typ assessment.Type) (core.AssessmentID, error) {
	if _, err := s.candidates.Get(ctx, candidateID); err != nil {
		return "", err
	}
	id := core.AssessmentID(core.NewID())
	now := time.Now()
	a, err := assessment.New(id, candidateID, typ, now.Add(s.ttl))
	if err != nil {
		return "", err
	}
	if err := s.assessments.Create(ctx, *a); err != nil {
		return "", err
	}
	s.logger.Info("assessment created: id=%s candidate=%s type=%s", id, candidateID, typ)
	return id, nil
}

// CreateCandidate registers a candidate record ahead of assessment
// creation; not one of §6's numbered operations, but required to satisfy
// CreateAssessment's candidate-exists precondition.
func (s *Service) CreateCandidate(ctx context.Context, attributes map[string]interface{}) (core.CandidateID, error) {
	id := core.CandidateID(core.NewID())
	c := candidate.Candidate{ID: id, Attributes: attributes}
	if err := s.candidates.Create(ctx, c); err != nil {
		return "", err
	}
	return id, nil
}

// StartAssessment implements §6's StartAssessment: transitions
// not_started→in_progress and returns the first section.
func (s *Service) StartAssessment(ctx context.Context, assessmentID core.AssessmentID) (assessment.Section, error) {
	return s.sessions.Start(ctx, assessmentID, time.Now())
}

// NextItem implements §6's NextItem.
func (s *Service) NextItem(ctx context.Context, assessmentID core.AssessmentID) (session.NextResult, error) {
	return s.sessions.Next(ctx, assessmentID, time.Now())
}

// RespondItem implements §6's RespondItem.
func (s *Service) RespondItem(ctx context.Context, assessmentID core.AssessmentID, itemID core.ItemID, value assessment.ResponseValue, responseTimeMs int) error {
	return s.sessions.Respond(ctx, assessmentID, itemID, value, time.Duration(responseTimeMs)*time.Millisecond, time.Now())
}

// CompleteAssessment implements §6's CompleteAssessment, returning the
// per-scale scores keyed by scale id.
func (s *Service) CompleteAssessment(ctx context.Context, assessmentID core.AssessmentID) (map[core.ScaleID]score.ScaleScore, error) {
	scores, err := s.sessions.Complete(ctx, assessmentID, time.Now())
	if err != nil {
		return nil, err
	}
	byScale := make(map[core.ScaleID]score.ScaleScore, len(scores))
	for _, sc := range scores {
		byScale[sc.ScaleID] = sc
	}
	return byScale, nil
}

// ComputeMatch implements §6's ComputeMatch.
func (s *Service) ComputeMatch(ctx context.Context, assessmentID core.AssessmentID, modelID core.PerformanceModelID) (jobmodel.JobMatch, error) {
	return s.matcher.ComputeMatch(ctx, assessmentID, modelID)
}

// InterviewQuestions implements §6's InterviewQuestions.
func (s *Service) InterviewQuestions(ctx context.Context, assessmentID core.AssessmentID, modelID core.PerformanceModelID) ([]appinterview.QuestionBlock, error) {
	return s.interviews.Generate(ctx, assessmentID, modelID)
}
