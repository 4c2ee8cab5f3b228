package session

import (
	"context"
	"reflect"
	"testing"
	"time"

	"assesscore/adapters/memory"
	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/domain/item"
	"assesscore/domain/scale"
	"assesscore/internal/config"
	"assesscore/internal/irt"
)

const verbalScale = core.ScaleID("verbal")

func newFixtureManager() (*Manager, *memory.AssessmentRepository) {
	items := []item.Item{
		{
			ID: core.ItemID("item-1"), ScaleID: verbalScale, Text: "q1",
			Format: item.FormatMultipleChoice, CorrectAnswer: "A",
			IRT: item.IRTParams{A: 1, B: 0, C: 0.2}, Domain: scale.DomainCognitive, Active: true,
		},
		{
			ID: core.ItemID("item-2"), ScaleID: verbalScale, Text: "q2",
			Format: item.FormatMultipleChoice, CorrectAnswer: "A",
			IRT: item.IRTParams{A: 1, B: 0, C: 0.2}, Domain: scale.DomainCognitive, Active: true,
		},
		{
			ID: core.ItemID("item-3"), ScaleID: verbalScale, Text: "q3",
			Format: item.FormatMultipleChoice, CorrectAnswer: "A",
			IRT: item.IRTParams{A: 1, B: 0, C: 0.2}, Domain: scale.DomainCognitive, Active: true,
		},
	}
	scales := []scale.Scale{
		{ID: verbalScale, Name: "Verbal Reasoning", Domain: scale.DomainCognitive, Type: scale.TypeCognitive},
	}

	assessments := memory.NewAssessmentRepository()
	itemRepo := memory.NewItemRepository(items)
	scaleRepo := memory.NewScaleRepository(scales)
	scoreRepo := memory.NewScaleScoreRepository()

	termination := irt.TerminationConfig{MinItems: 2, MaxItems: 3, TargetSEM: 0.01}
	mgr := NewManager(assessments, itemRepo, scaleRepo, scoreRepo, termination, irt.DefaultPrior, config.ScoringConfig{LikertForcedChoiceWeight: 0.7}, nil)
	return mgr, assessments
}

func mustStart(t *testing.T, mgr *Manager, assessments *memory.AssessmentRepository, now time.Time) core.AssessmentID {
	t.Helper()
	ctx := context.Background()
	id := core.AssessmentID(core.NewID())
	a, err := assessment.New(id, core.CandidateID(core.NewID()), assessment.TypeCognitiveOnly, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("assessment.New: %v", err)
	}
	if err := assessments.Create(ctx, *a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := mgr.Start(ctx, id, now); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return id
}

// TestCognitiveSectionAdministersInExpectedOrderThenCompletes drives a full
// cognitive-only assessment through Next/Respond/Next until the section
// exhausts at maxItems, verifying the deterministic tie-broken item order
// and that Complete yields a single verbal ScaleScore.
func TestCognitiveSectionAdministersInExpectedOrderThenCompletes(t *testing.T) {
	mgr, assessments := newFixtureManager()
	ctx := context.Background()
	now := time.Now()
	id := mustStart(t, mgr, assessments, now)

	wantOrder := []core.ItemID{"item-1", "item-2", "item-3"}
	for i, wantID := range wantOrder {
		res, err := mgr.Next(ctx, id, now)
		if err != nil {
			t.Fatalf("Next[%d]: %v", i, err)
		}
		if res.Item == nil || res.Item.ID != wantID {
			t.Fatalf("Next[%d] = %v, want item %s", i, res, wantID)
		}
		mc := assessment.MultipleChoiceResponse{Value: "A"}
		if err := mgr.Respond(ctx, id, wantID, mc, 2*time.Second, now); err != nil {
			t.Fatalf("Respond[%d]: %v", i, err)
		}
	}

	final, err := mgr.Next(ctx, id, now)
	if err != nil {
		t.Fatalf("final Next: %v", err)
	}
	if !final.AssessmentDone || !final.SectionComplete {
		t.Fatalf("expected assessment done after 3 items, got %+v", final)
	}

	scores, err := mgr.Complete(ctx, id, now)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected 1 scale score, got %d", len(scores))
	}
	s := scores[0]
	if s.ScaleID != verbalScale {
		t.Fatalf("expected scale %s, got %s", verbalScale, s.ScaleID)
	}
	if s.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", s.ItemCount)
	}
	if s.STEN < 1 || s.STEN > 10 {
		t.Fatalf("STEN out of range: %d", s.STEN)
	}

	again, err := mgr.Complete(ctx, id, now)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	if !reflect.DeepEqual(scores, again) {
		t.Fatalf("Complete is not idempotent: %+v != %+v", scores, again)
	}
}

// TestRespondRejectsDuplicateAnswer verifies that answering the same item
// twice is rejected rather than silently overwriting the first response.
func TestRespondRejectsDuplicateAnswer(t *testing.T) {
	mgr, assessments := newFixtureManager()
	ctx := context.Background()
	now := time.Now()
	id := mustStart(t, mgr, assessments, now)

	mc := assessment.MultipleChoiceResponse{Value: "A"}
	if err := mgr.Respond(ctx, id, "item-1", mc, time.Second, now); err != nil {
		t.Fatalf("first Respond: %v", err)
	}
	if err := mgr.Respond(ctx, id, "item-1", mc, time.Second, now); err == nil {
		t.Fatal("expected error responding to an already-answered item")
	}
}

// TestCompleteFinalizesInProgressAssessment verifies the §4.4 complete
// operation: an in-progress assessment is marked completed and scored from
// the responses recorded so far.
func TestCompleteFinalizesInProgressAssessment(t *testing.T) {
	mgr, assessments := newFixtureManager()
	ctx := context.Background()
	now := time.Now()
	id := mustStart(t, mgr, assessments, now)

	mc := assessment.MultipleChoiceResponse{Value: "A"}
	if err := mgr.Respond(ctx, id, "item-1", mc, time.Second, now); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	scores, err := mgr.Complete(ctx, id, now)
	if err != nil {
		t.Fatalf("Complete on an in-progress assessment: %v", err)
	}
	if len(scores) != 1 || scores[0].ScaleID != verbalScale || scores[0].ItemCount != 1 {
		t.Fatalf("expected one verbal score over 1 item, got %+v", scores)
	}
	a, err := assessments.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Status != assessment.StatusCompleted {
		t.Fatalf("expected status completed, got %s", a.Status)
	}
}
