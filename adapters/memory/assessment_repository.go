package memory

import (
	"context"
	"sort"
	"sync"

	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/ports"
)

// AssessmentRepository is an in-memory ports.AssessmentRepository. Each
// assessment gets its own *sync.Mutex, acquired by WithAssessmentLock for
// the duration of the caller's read-modify-write (§5 concurrency model).
type AssessmentRepository struct {
	mu          sync.RWMutex
	assessments map[core.AssessmentID]assessment.Assessment
	responses   map[core.AssessmentID][]assessment.Response
	locks       map[core.AssessmentID]*sync.Mutex
}

// NewAssessmentRepository creates an empty in-memory assessment repository.
func NewAssessmentRepository() *AssessmentRepository {
	return &AssessmentRepository{
		assessments: make(map[core.AssessmentID]assessment.Assessment),
		responses:   make(map[core.AssessmentID][]assessment.Response),
		locks:       make(map[core.AssessmentID]*sync.Mutex),
	}
}

var _ ports.AssessmentRepository = (*AssessmentRepository)(nil)

func (r *AssessmentRepository) Create(_ context.Context, a assessment.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assessments[a.ID] = a
	return nil
}

func (r *AssessmentRepository) Get(_ context.Context, id core.AssessmentID) (assessment.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assessments[id]
	if !ok {
		return assessment.Assessment{}, core.NewNotFoundError("assessment", id.String())
	}
	return a, nil
}

func (r *AssessmentRepository) Update(_ context.Context, a assessment.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assessments[a.ID]; !ok {
		return core.NewNotFoundError("assessment", a.ID.String())
	}
	r.assessments[a.ID] = a
	return nil
}

func (r *AssessmentRepository) AppendResponse(_ context.Context, resp assessment.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[resp.AssessmentID] = append(r.responses[resp.AssessmentID], resp)
	return nil
}

func (r *AssessmentRepository) ListResponses(_ context.Context, assessmentID core.AssessmentID) ([]assessment.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]assessment.Response, len(r.responses[assessmentID]))
	copy(out, r.responses[assessmentID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].RespondedAt.Before(out[j].RespondedAt) })
	return out, nil
}

func (r *AssessmentRepository) HasResponse(_ context.Context, assessmentID core.AssessmentID, itemID core.ItemID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, resp := range r.responses[assessmentID] {
		if resp.ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

// WithAssessmentLock acquires (creating if necessary) the per-assessment
// mutex and runs fn while holding it, serializing concurrent
// respond/next/complete calls on the same assessment.
func (r *AssessmentRepository) WithAssessmentLock(ctx context.Context, assessmentID core.AssessmentID, fn func(ctx context.Context) error) error {
	lock := r.lockFor(assessmentID)
	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

func (r *AssessmentRepository) lockFor(assessmentID core.AssessmentID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[assessmentID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[assessmentID] = lock
	}
	return lock
}
