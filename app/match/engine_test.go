package match

import (
	"context"
	"testing"
	"time"

	"assesscore/adapters/memory"
	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/domain/jobmodel"
	"assesscore/domain/scale"
	"assesscore/domain/score"
)

func setupEngine(t *testing.T, scales []scale.Scale, models []jobmodel.PerformanceModel, scores []score.ScaleScore, assessmentID core.AssessmentID) *Engine {
	t.Helper()
	ctx := context.Background()

	assessments := memory.NewAssessmentRepository()
	a, err := assessment.New(assessmentID, core.CandidateID(core.NewID()), assessment.TypeFull, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("assessment.New: %v", err)
	}
	if err := assessments.Create(ctx, *a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := a.Start(time.Now()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	a.Status = assessment.StatusCompleted
	if err := assessments.Update(ctx, *a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	scaleRepo := memory.NewScaleRepository(scales)
	modelRepo := memory.NewPerformanceModelRepository(models)
	scoreRepo := memory.NewScaleScoreRepository()
	if err := scoreRepo.SaveAll(ctx, assessmentID, scores); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	return NewEngine(assessments, scoreRepo, scaleRepo, modelRepo, nil)
}

// TestDistancePenaltyBounds verifies property 7: penalty=1 in-band, 0.80 one
// step out, 0.10 three steps out, 0 at or beyond five steps out.
func TestDistancePenaltyBounds(t *testing.T) {
	cases := []struct {
		sten, lo, hi int
		want         float64
	}{
		{6, 5, 7, 1},
		{4, 5, 7, 0.80},
		{8, 5, 7, 0.80},
		{2, 5, 7, 0.10},
		{0, 5, 7, 0},
		{12, 5, 7, 0},
	}
	for _, c := range cases {
		got := distancePenalty(c.sten, c.lo, c.hi)
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("distancePenalty(%d,[%d,%d]) = %v, want %v", c.sten, c.lo, c.hi, got, c.want)
		}
	}
}

// TestOverallFitWeighting verifies property 8: the 0.4/0.4/0.2 weighting.
func TestOverallFitWeighting(t *testing.T) {
	cases := []struct {
		cognitive, behavioral, interests float64
		want                             int
	}{
		{100, 100, 0, 80},
		{0, 0, 100, 20},
	}
	for _, c := range cases {
		got := clampPercent(int(round(0.4*c.cognitive + 0.4*c.behavioral + 0.2*c.interests)))
		if got != c.want {
			t.Errorf("overall(%v,%v,%v) = %d, want %d", c.cognitive, c.behavioral, c.interests, got, c.want)
		}
	}
}

func round(v float64) float64 {
	if v < 0 {
		return -round(-v)
	}
	return float64(int(v + 0.5))
}

// TestS4PerfectFitNoInterestItems verifies scenario S4: candidate STEN
// (6,6,6) against three scales banded [5,7] weight 1 yields
// cognitive=behavioral=100; with no interest items, interests=33;
// overall ≈ 87.
func TestS4PerfectFitNoInterestItems(t *testing.T) {
	scales := []scale.Scale{
		{ID: "verbal", Name: "Verbal", Domain: scale.DomainCognitive, Type: scale.TypeCognitive},
		{ID: "numerical", Name: "Numerical", Domain: scale.DomainCognitive, Type: scale.TypeCognitive},
		{ID: "conscientiousness", Name: "Conscientiousness", Domain: scale.DomainBehavioral, Type: scale.TypeTrait},
	}
	model := jobmodel.PerformanceModel{
		ID:   "role-1",
		Name: "Role One",
		Ranges: []jobmodel.ModelScaleRange{
			{ScaleID: "verbal", TargetMin: 5, TargetMax: 7, Weight: 1},
			{ScaleID: "numerical", TargetMin: 5, TargetMax: 7, Weight: 1},
			{ScaleID: "conscientiousness", TargetMin: 5, TargetMax: 7, Weight: 1},
		},
	}
	assessmentID := core.AssessmentID(core.NewID())
	scores := []score.ScaleScore{
		{AssessmentID: assessmentID, ScaleID: "verbal", STEN: 6},
		{AssessmentID: assessmentID, ScaleID: "numerical", STEN: 6},
		{AssessmentID: assessmentID, ScaleID: "conscientiousness", STEN: 6},
	}

	e := setupEngine(t, scales, []jobmodel.PerformanceModel{model}, scores, assessmentID)
	match, err := e.ComputeMatch(context.Background(), assessmentID, "role-1")
	if err != nil {
		t.Fatalf("ComputeMatch: %v", err)
	}
	if match.Cognitive != 100 {
		t.Errorf("cognitive = %v, want 100", match.Cognitive)
	}
	if match.Behavioral != 100 {
		t.Errorf("behavioral = %v, want 100", match.Behavioral)
	}
	if match.Interests != 33 {
		t.Errorf("interests = %v, want 33", match.Interests)
	}
	if match.Overall != 87 {
		t.Errorf("overall = %d, want 87", match.Overall)
	}
}

// TestComputeMatchRejectsInProgressAssessment verifies AssessmentNotCompleted.
func TestComputeMatchRejectsInProgressAssessment(t *testing.T) {
	ctx := context.Background()
	assessments := memory.NewAssessmentRepository()
	assessmentID := core.AssessmentID(core.NewID())
	a, err := assessment.New(assessmentID, core.CandidateID(core.NewID()), assessment.TypeFull, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("assessment.New: %v", err)
	}
	if err := a.Start(time.Now()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := assessments.Create(ctx, *a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	e := NewEngine(assessments, memory.NewScaleScoreRepository(), memory.NewScaleRepository(nil), memory.NewPerformanceModelRepository(nil), nil)
	if _, err := e.ComputeMatch(ctx, assessmentID, "role-1"); err == nil {
		t.Fatal("expected error computing match against an in-progress assessment")
	}
}

// TestBatchComputeMatchPreservesOrder verifies BatchComputeMatch returns
// results in the same order as the requested model ids despite concurrent
// execution.
func TestBatchComputeMatchPreservesOrder(t *testing.T) {
	scales := []scale.Scale{
		{ID: "verbal", Name: "Verbal", Domain: scale.DomainCognitive, Type: scale.TypeCognitive},
	}
	assessmentID := core.AssessmentID(core.NewID())
	scores := []score.ScaleScore{
		{AssessmentID: assessmentID, ScaleID: "verbal", STEN: 6},
	}
	models := []jobmodel.PerformanceModel{
		{ID: "role-a", Name: "A", Ranges: []jobmodel.ModelScaleRange{{ScaleID: "verbal", TargetMin: 5, TargetMax: 7, Weight: 1}}},
		{ID: "role-b", Name: "B", Ranges: []jobmodel.ModelScaleRange{{ScaleID: "verbal", TargetMin: 1, TargetMax: 2, Weight: 1}}},
		{ID: "role-c", Name: "C", Ranges: []jobmodel.ModelScaleRange{{ScaleID: "verbal", TargetMin: 9, TargetMax: 10, Weight: 1}}},
	}

	e := setupEngine(t, scales, models, scores, assessmentID)
	results, err := e.BatchComputeMatch(context.Background(), assessmentID, []core.PerformanceModelID{"role-a", "role-b", "role-c"})
	if err != nil {
		t.Fatalf("BatchComputeMatch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].PerformanceModel != "role-a" || results[1].PerformanceModel != "role-b" || results[2].PerformanceModel != "role-c" {
		t.Fatalf("results out of order: %+v", results)
	}
	if results[0].Cognitive != 100 {
		t.Errorf("role-a cognitive = %v, want 100 (in band)", results[0].Cognitive)
	}
	if results[1].Cognitive != 0 {
		t.Errorf("role-b cognitive = %v, want 0 (far out of band)", results[1].Cognitive)
	}
}
