package core

import (
	"context"
	"testing"

	"assesscore/adapters/memory"
	appinterview "assesscore/app/interview"
	"assesscore/app/match"
	"assesscore/app/session"
	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/domain/item"
	"assesscore/domain/jobmodel"
	"assesscore/domain/scale"
	"assesscore/internal/config"
	"assesscore/internal/irt"
)

func newFixtureService(t *testing.T) (*Service, core.CandidateID) {
	t.Helper()

	items := []item.Item{
		{
			ID: core.ItemID("item-1"), ScaleID: "verbal", Text: "q1",
			Format: item.FormatMultipleChoice, CorrectAnswer: "A",
			IRT: item.IRTParams{A: 1, B: 0, C: 0.2}, Domain: scale.DomainCognitive, Active: true,
		},
		{
			ID: core.ItemID("item-2"), ScaleID: "verbal", Text: "q2",
			Format: item.FormatMultipleChoice, CorrectAnswer: "A",
			IRT: item.IRTParams{A: 1, B: 0, C: 0.2}, Domain: scale.DomainCognitive, Active: true,
		},
	}
	scales := []scale.Scale{
		{ID: "verbal", Name: "Verbal Reasoning", Domain: scale.DomainCognitive, Type: scale.TypeCognitive},
	}
	model := jobmodel.PerformanceModel{
		ID:   "role-1",
		Name: "Role One",
		Ranges: []jobmodel.ModelScaleRange{
			{ScaleID: "verbal", TargetMin: 1, TargetMax: 10, Weight: 1},
		},
	}

	candidates := memory.NewCandidateRepository()
	assessments := memory.NewAssessmentRepository()
	itemRepo := memory.NewItemRepository(items)
	scaleRepo := memory.NewScaleRepository(scales)
	scoreRepo := memory.NewScaleScoreRepository()
	modelRepo := memory.NewPerformanceModelRepository([]jobmodel.PerformanceModel{model})

	termination := irt.TerminationConfig{MinItems: 2, MaxItems: 2, TargetSEM: 0.01}
	sessions := session.NewManager(assessments, itemRepo, scaleRepo, scoreRepo, termination, irt.DefaultPrior, config.ScoringConfig{LikertForcedChoiceWeight: 0.7}, nil)
	matcher := match.NewEngine(assessments, scoreRepo, scaleRepo, modelRepo, nil)
	interviews := appinterview.NewGenerator(matcher, scaleRepo, nil)

	cfg := &config.Config{AssessmentTTLHours: 48}
	svc := NewService(candidates, assessments, sessions, matcher, interviews, cfg, nil)

	ctx := context.Background()
	candidateID, err := svc.CreateCandidate(ctx, map[string]interface{}{"name": "test"})
	if err != nil {
		t.Fatalf("CreateCandidate: %v", err)
	}
	return svc, candidateID
}

// TestServiceFullLifecycle drives CreateAssessment through ComputeMatch and
// InterviewQuestions, exercising every §6 operation end to end.
func TestServiceFullLifecycle(t *testing.T) {
	svc, candidateID := newFixtureService(t)
	ctx := context.Background()

	assessmentID, err := svc.CreateAssessment(ctx, candidateID, assessment.TypeCognitiveOnly)
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}

	section, err := svc.StartAssessment(ctx, assessmentID)
	if err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}
	if section != assessment.SectionCognitive {
		t.Fatalf("expected cognitive section first, got %s", section)
	}

	for i := 0; i < 2; i++ {
		res, err := svc.NextItem(ctx, assessmentID)
		if err != nil {
			t.Fatalf("NextItem[%d]: %v", i, err)
		}
		if res.Item == nil {
			t.Fatalf("NextItem[%d]: expected an item, got %+v", i, res)
		}
		mc := assessment.MultipleChoiceResponse{Value: "A"}
		if err := svc.RespondItem(ctx, assessmentID, res.Item.ID, mc, 1500); err != nil {
			t.Fatalf("RespondItem[%d]: %v", i, err)
		}
	}

	scores, err := svc.CompleteAssessment(ctx, assessmentID)
	if err != nil {
		t.Fatalf("CompleteAssessment: %v", err)
	}
	if _, ok := scores["verbal"]; !ok {
		t.Fatalf("expected a verbal score, got %+v", scores)
	}

	m, err := svc.ComputeMatch(ctx, assessmentID, "role-1")
	if err != nil {
		t.Fatalf("ComputeMatch: %v", err)
	}
	if m.Overall < 0 || m.Overall > 100 {
		t.Fatalf("overall fit out of range: %d", m.Overall)
	}

	if _, err := svc.InterviewQuestions(ctx, assessmentID, "role-1"); err != nil {
		t.Fatalf("InterviewQuestions: %v", err)
	}
}

// TestCreateAssessmentRejectsUnknownCandidate verifies the candidate
// existence precondition.
func TestCreateAssessmentRejectsUnknownCandidate(t *testing.T) {
	svc, _ := newFixtureService(t)
	ctx := context.Background()

	if _, err := svc.CreateAssessment(ctx, core.CandidateID(core.NewID()), assessment.TypeFull); err == nil {
		t.Fatal("expected error creating an assessment for an unknown candidate")
	}
}
