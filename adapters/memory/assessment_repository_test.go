package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"assesscore/domain/assessment"
	"assesscore/domain/core"
)

func TestWithAssessmentLockSerializesConcurrentWriters(t *testing.T) {
	repo := NewAssessmentRepository()
	ctx := context.Background()
	assessmentID := core.AssessmentID("a1")

	counter := 0
	var wg sync.WaitGroup
	const n = 50
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.WithAssessmentLock(ctx, assessmentID, func(ctx context.Context) error {
				current := counter
				current++
				counter = current
				return nil
			})
		}()
	}
	wg.Wait()

	if counter != n {
		t.Fatalf("expected counter=%d after %d serialized increments, got %d (race indicates lock failed)", n, n, counter)
	}
}

func TestListResponsesOrderedByArrival(t *testing.T) {
	repo := NewAssessmentRepository()
	ctx := context.Background()
	assessmentID := core.AssessmentID("a1")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, itemID := range []core.ItemID{"i1", "i2", "i3"} {
		err := repo.AppendResponse(ctx, assessment.Response{
			AssessmentID: assessmentID,
			ItemID:       itemID,
			RespondedAt:  base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	responses, err := repo.ListResponses(ctx, assessmentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}
	want := []core.ItemID{"i1", "i2", "i3"}
	for i, r := range responses {
		if r.ItemID != want[i] {
			t.Fatalf("response order mismatch at %d: got %s, want %s", i, r.ItemID, want[i])
		}
	}
}
