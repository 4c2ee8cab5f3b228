// Package session implements the §4.4 Assessment Session Manager: the
// start/next/respond/complete state machine that drives an examinee through
// the cognitive, behavioral, and interests sections and triggers final
// scoring once every section is exhausted.
package session

import (
	"context"
	"fmt"
	"sort"
	"time"

	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/domain/item"
	"assesscore/domain/scale"
	"assesscore/domain/score"
	"assesscore/internal"
	"assesscore/internal/apperr"
	"assesscore/internal/config"
	"assesscore/internal/irt"
	"assesscore/internal/scoring"
	"assesscore/internal/scoring/distortion"
	"assesscore/internal/statprim"
	"assesscore/ports"
)

// Manager orchestrates the §4.4 state machine. Every respond/next/complete
// call runs inside ports.AssessmentRepository.WithAssessmentLock (§5), so
// two concurrent callers on the same assessment serialize rather than race
// on currentSection/currentItemIdx/Responses.
type Manager struct {
	assessments ports.AssessmentRepository
	items       ports.ItemRepository
	scales      ports.ScaleRepository
	scores      ports.ScaleScoreRepository
	termination irt.TerminationConfig
	prior       irt.Prior
	scoringCfg  config.ScoringConfig
	logger      *internal.Logger
}

// NewManager wires the session manager's repository ports and the §4.2/4.3
// tuning parameters it needs to select items and score the result.
func NewManager(
	assessments ports.AssessmentRepository,
	items ports.ItemRepository,
	scales ports.ScaleRepository,
	scores ports.ScaleScoreRepository,
	termination irt.TerminationConfig,
	prior irt.Prior,
	scoringCfg config.ScoringConfig,
	logger *internal.Logger,
) *Manager {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Manager{
		assessments: assessments,
		items:       items,
		scales:      scales,
		scores:      scores,
		termination: termination,
		prior:       prior,
		scoringCfg:  scoringCfg,
		logger:      logger,
	}
}

// NextResult reports the outcome of one Next call: either the next item to
// administer, or a section-boundary signal with no item (the caller is
// expected to call Next again to fetch the new section's first item).
type NextResult struct {
	Item            *item.Item
	Section         assessment.Section
	SectionComplete bool
	NextSection     assessment.Section
	AssessmentDone  bool
}

// Start transitions an assessment to in_progress, idempotently (§5). Returns
// the first section it will administer.
func (m *Manager) Start(ctx context.Context, id core.AssessmentID, now time.Time) (assessment.Section, error) {
	var section assessment.Section
	err := m.assessments.WithAssessmentLock(ctx, id, func(ctx context.Context) error {
		a, err := m.assessments.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := m.rejectIfExpired(ctx, &a, now); err != nil {
			return err
		}
		if err := a.Start(now); err != nil {
			return err
		}
		if err := m.assessments.Update(ctx, a); err != nil {
			return err
		}
		section = a.CurrentSection
		m.logger.Info("assessment %s started, section=%s", id, section)
		return nil
	})
	return section, err
}

// Next selects the next item in the assessment's current section, or — if
// the section is exhausted — advances to the next section (finalizing and
// scoring the assessment if none remain), per §4.4.
func (m *Manager) Next(ctx context.Context, id core.AssessmentID, now time.Time) (NextResult, error) {
	var result NextResult
	err := m.assessments.WithAssessmentLock(ctx, id, func(ctx context.Context) error {
		a, err := m.assessments.Get(ctx, id)
		if err != nil {
			return err
		}
		if a.Status != assessment.StatusInProgress {
			return core.NewStateInvalidError("next", string(a.Status))
		}
		if err := m.rejectIfExpired(ctx, &a, now); err != nil {
			return err
		}

		responses, err := m.assessments.ListResponses(ctx, id)
		if err != nil {
			return err
		}

		it, hasMore, err := m.selectNext(ctx, a, responses)
		if err != nil {
			return err
		}
		if hasMore {
			result = NextResult{Item: it, Section: a.CurrentSection}
			return nil
		}

		nextSection, done := a.AdvanceSection(now)
		if err := m.assessments.Update(ctx, a); err != nil {
			return err
		}
		if done {
			if _, err := m.finalize(ctx, a, now); err != nil {
				return err
			}
			m.logger.Info("assessment %s completed", id)
			result = NextResult{SectionComplete: true, AssessmentDone: true}
			return nil
		}
		m.logger.Info("assessment %s advanced to section %s", id, nextSection)
		result = NextResult{SectionComplete: true, NextSection: nextSection}
		return nil
	})
	return result, err
}

// Respond records a single answer, deriving correctness and a θ snapshot
// for cognitive items, then appends it (§4.4). Responding twice to the same
// item is rejected rather than overwritten.
func (m *Manager) Respond(ctx context.Context, id core.AssessmentID, itemID core.ItemID, value assessment.ResponseValue, responseTime time.Duration, now time.Time) error {
	return m.assessments.WithAssessmentLock(ctx, id, func(ctx context.Context) error {
		a, err := m.assessments.Get(ctx, id)
		if err != nil {
			return err
		}
		if a.Status != assessment.StatusInProgress {
			return core.NewStateInvalidError("respond", string(a.Status))
		}
		if err := m.rejectIfExpired(ctx, &a, now); err != nil {
			return err
		}

		it, err := m.items.Get(ctx, itemID)
		if err != nil {
			return err
		}
		if !it.Active {
			return core.NewInputInvalidError("item_id", "item is not active")
		}
		answered, err := m.assessments.HasResponse(ctx, id, itemID)
		if err != nil {
			return err
		}
		if answered {
			return core.NewStateInvalidError("respond", "item already answered")
		}

		resp := assessment.Response{
			ID:           core.ResponseID(core.NewID()),
			AssessmentID: id,
			ItemID:       itemID,
			Value:        value,
			ResponseTime: responseTime,
			RespondedAt:  now,
		}

		if it.IsCognitive() {
			correct := item.NormalizeAnswer(responseToString(value)) == item.NormalizeAnswer(it.CorrectAnswer)
			resp.IsCorrect = &correct

			priorResponses, err := m.assessments.ListResponses(ctx, id)
			if err != nil {
				return err
			}
			theta, err := m.rethetaForScale(ctx, it.ScaleID, priorResponses, resp)
			if err != nil {
				return err
			}
			resp.ThetaSnapshot = &theta
		}

		if err := m.assessments.AppendResponse(ctx, resp); err != nil {
			return err
		}
		m.logger.Debug("assessment %s recorded response to item %s", id, itemID)
		return nil
	})
}

// Complete returns the assessment's final scale scores, computing and
// persisting them on first call and returning the stored set on every
// subsequent call (§5 property 10: idempotent complete). An in-progress
// assessment is marked completed and scored from the responses recorded so
// far.
func (m *Manager) Complete(ctx context.Context, id core.AssessmentID, now time.Time) ([]score.ScaleScore, error) {
	var out []score.ScaleScore
	err := m.assessments.WithAssessmentLock(ctx, id, func(ctx context.Context) error {
		a, err := m.assessments.Get(ctx, id)
		if err != nil {
			return err
		}
		switch a.Status {
		case assessment.StatusCompleted:
			existing, err := m.scores.ListByAssessment(ctx, id)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				out = existing
				return nil
			}
			// Next() advanced status to completed but a crash interrupted
			// SaveAll before this call — finalize is itself idempotent via
			// ScaleScoreRepository.SaveAll's delete-then-insert, so it is
			// safe to simply run it again here.
			out, err = m.finalize(ctx, a, now)
			return err
		case assessment.StatusInProgress:
			if err := m.rejectIfExpired(ctx, &a, now); err != nil {
				return err
			}
			a.Status = assessment.StatusCompleted
			completedAt := now
			a.CompletedAt = &completedAt
			if err := m.assessments.Update(ctx, a); err != nil {
				return err
			}
			out, err = m.finalize(ctx, a, now)
			return err
		default:
			return core.NewStateInvalidError("complete", string(a.Status))
		}
	})
	return out, err
}

func (m *Manager) rejectIfExpired(ctx context.Context, a *assessment.Assessment, now time.Time) error {
	if !a.IsExpired(now) {
		return nil
	}
	a.Expire()
	if err := m.assessments.Update(ctx, *a); err != nil {
		return apperr.Wrap(err, "failed to persist expiry")
	}
	return fmt.Errorf("%w: assessment %s", core.ErrAssessmentExpired, a.ID)
}

// selectNext dispatches to the current section's item-selection strategy:
// IRT max-information selection for cognitive, sequential-unanswered for
// behavioral and interests (§4.4).
func (m *Manager) selectNext(ctx context.Context, a assessment.Assessment, responses []assessment.Response) (*item.Item, bool, error) {
	switch a.CurrentSection {
	case assessment.SectionCognitive:
		return m.cognitiveNext(ctx, responses)
	case assessment.SectionBehavioral:
		return m.sequentialNext(ctx, scale.DomainBehavioral, responses, true)
	case assessment.SectionInterests:
		return m.sequentialNext(ctx, scale.DomainInterests, responses, false)
	default:
		return nil, false, nil
	}
}

// cognitiveNext walks the cognitive sub-scales in stable id order, skipping
// any scale whose CAT termination criterion (§4.2) is already met given the
// responses so far, and returns the max-information item from the first
// scale still needing items.
func (m *Manager) cognitiveNext(ctx context.Context, responses []assessment.Response) (*item.Item, bool, error) {
	scales, err := m.scales.ListByDomain(ctx, scale.DomainCognitive)
	if err != nil {
		return nil, false, err
	}
	sort.Slice(scales, func(i, j int) bool { return scales[i].ID < scales[j].ID })

	candidates, err := m.items.ListActiveByDomain(ctx, scale.DomainCognitive)
	if err != nil {
		return nil, false, err
	}
	itemsByID := indexItems(candidates)

	for _, sc := range scales {
		if sc.IsComposite() {
			continue
		}
		administered := map[core.ItemID]bool{}
		var correctness []int
		var params []item.IRTParams
		for _, r := range responses {
			it, ok := itemsByID[r.ItemID]
			if !ok || it.ScaleID != sc.ID {
				continue
			}
			administered[r.ItemID] = true
			u := 0
			if r.IsCorrect != nil && *r.IsCorrect {
				u = 1
			}
			correctness = append(correctness, u)
			params = append(params, it.IRT)
		}

		theta := m.prior.Mu
		if len(correctness) > 0 {
			theta = irt.EstimateWithFallback(correctness, params, m.prior)
		}
		if irt.ShouldTerminate(theta, params, m.termination) {
			continue
		}

		pool := irt.ExcludeAdministered(scaleCandidates(candidates, sc.ID), administered)
		next, ok := irt.SelectNextItem(theta, pool)
		if ok {
			return &next, true, nil
		}
	}
	return nil, false, nil
}

// sequentialNext returns the first not-yet-answered active item in a
// domain, ordered by (scale id, item order) when orderByScale is set
// (behavioral) and by item order alone otherwise (interests).
func (m *Manager) sequentialNext(ctx context.Context, domain scale.Domain, responses []assessment.Response, orderByScale bool) (*item.Item, bool, error) {
	candidates, err := m.items.ListActiveByDomain(ctx, domain)
	if err != nil {
		return nil, false, err
	}
	sort.Slice(candidates, func(i, j int) bool {
		if orderByScale && candidates[i].ScaleID != candidates[j].ScaleID {
			return candidates[i].ScaleID < candidates[j].ScaleID
		}
		return candidates[i].Order < candidates[j].Order
	})

	answered := make(map[core.ItemID]bool, len(responses))
	for _, r := range responses {
		answered[r.ItemID] = true
	}
	for i := range candidates {
		if !answered[candidates[i].ID] {
			return &candidates[i], true, nil
		}
	}
	return nil, false, nil
}

// rethetaForScale re-estimates θ for itemScale including the about-to-be-
// recorded response, producing the θ snapshot stored on cognitive Responses.
func (m *Manager) rethetaForScale(ctx context.Context, itemScale core.ScaleID, priorResponses []assessment.Response, newResp assessment.Response) (float64, error) {
	scaleItems, err := m.items.ListActiveByScale(ctx, itemScale)
	if err != nil {
		return 0, err
	}
	paramsByID := make(map[core.ItemID]item.IRTParams, len(scaleItems))
	for _, it := range scaleItems {
		paramsByID[it.ID] = it.IRT
	}

	all := make([]assessment.Response, 0, len(priorResponses)+1)
	all = append(all, priorResponses...)
	all = append(all, newResp)

	var correctness []int
	var params []item.IRTParams
	for _, r := range all {
		p, ok := paramsByID[r.ItemID]
		if !ok {
			continue
		}
		u := 0
		if r.IsCorrect != nil && *r.IsCorrect {
			u = 1
		}
		correctness = append(correctness, u)
		params = append(params, p)
	}
	if len(correctness) == 0 {
		return m.prior.Mu, nil
	}
	return irt.EstimateWithFallback(correctness, params, m.prior), nil
}

// finalize computes every scale's ScaleScore from the full response
// history and persists them (§4.3/§4.4 complete). Called both from Next,
// the moment the last section is exhausted, and from Complete as a repair
// path if that first save never landed.
func (m *Manager) finalize(ctx context.Context, a assessment.Assessment, now time.Time) ([]score.ScaleScore, error) {
	responses, err := m.assessments.ListResponses(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]core.ItemID, len(responses))
	for i, r := range responses {
		itemIDs[i] = r.ItemID
	}
	itemsByID, err := m.items.ListByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	scales, err := m.scales.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var results []score.ScaleScore
	var cognitiveScores []score.ScaleScore
	var distortionScaleID core.ScaleID
	hasDistortion := false
	var interestScaleIDs []core.ScaleID

	for _, sc := range scales {
		if sc.IsComposite() {
			continue
		}
		switch {
		case sc.Domain == scale.DomainCognitive:
			s, err := scoring.ScoreCognitive(sc.ID, itemsByID, responses, m.prior)
			if err != nil {
				return nil, err
			}
			if s.ItemCount > 0 {
				results = append(results, stampScore(s, a.ID, now))
				cognitiveScores = append(cognitiveScores, s)
			}
		case sc.Type == scale.TypeDistortion:
			distortionScaleID = sc.ID
			hasDistortion = true
		case sc.Domain == scale.DomainBehavioral:
			s := scoring.ScoreBehavioral(sc.ID, itemsByID, responses, m.scoringCfg)
			if s.ItemCount > 0 {
				results = append(results, stampScore(s, a.ID, now))
			}
		case sc.Domain == scale.DomainInterests:
			interestScaleIDs = append(interestScaleIDs, sc.ID)
		}
	}

	for _, s := range scoring.ScoreInterests(itemsByID, responses, interestScaleIDs) {
		results = append(results, stampScore(s, a.ID, now))
	}

	for _, sc := range scales {
		if !sc.IsComposite() {
			continue
		}
		var itemsPerScale float64
		if len(cognitiveScores) > 0 {
			var totalItems int
			for _, s := range cognitiveScores {
				totalItems += s.ItemCount
			}
			itemsPerScale = float64(totalItems) / float64(len(cognitiveScores))
		}
		s := scoring.ScoreLearningIndex(sc.ID, cognitiveScores, itemsPerScale, 1, 5)
		results = append(results, stampScore(s, a.ID, now))
	}

	if hasDistortion {
		distortionResponses, behavioralStream := distortionStreams(itemsByID, responses, distortionScaleID)
		if len(distortionResponses) > 0 {
			det := distortion.Detect(distortionResponses, behavioralStream)
			results = append(results, stampScore(score.ScaleScore{
				ScaleID:    distortionScaleID,
				Raw:        det.Consistency,
				STEN:       det.STEN,
				Percentile: statprim.StenToPercentile(det.STEN),
				ItemCount:  len(distortionResponses),
			}, a.ID, now))
		}
	}

	if err := m.scores.SaveAll(ctx, a.ID, results); err != nil {
		return nil, err
	}
	m.logger.Info("assessment %s: %d scale scores computed", a.ID, len(results))
	return results, nil
}

func stampScore(s score.ScaleScore, assessmentID core.AssessmentID, now time.Time) score.ScaleScore {
	s.ID = core.ScaleScoreID(core.NewID())
	s.AssessmentID = assessmentID
	s.ComputedAt = now
	return s
}

// distortionStreams walks every Likert behavioral response in administration
// order (by item.Order), splitting out the subset flagged distortion=true
// from the full stream the pattern checks run over (§4.3).
func distortionStreams(itemsByID map[core.ItemID]item.Item, responses []assessment.Response, distortionScaleID core.ScaleID) (distortionResponses []int, fullStream []int) {
	type ordered struct {
		order        int
		value        int
		isDistortion bool
	}
	var all []ordered
	for _, r := range responses {
		it, ok := itemsByID[r.ItemID]
		if !ok || it.Format != item.FormatLikert || it.Domain != scale.DomainBehavioral {
			continue
		}
		lr, ok := r.Value.(assessment.LikertResponse)
		if !ok {
			continue
		}
		all = append(all, ordered{order: it.Order, value: lr.Value, isDistortion: it.ScaleID == distortionScaleID})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].order < all[j].order })

	for _, o := range all {
		fullStream = append(fullStream, o.value)
		if o.isDistortion {
			distortionResponses = append(distortionResponses, o.value)
		}
	}
	return distortionResponses, fullStream
}

func indexItems(items []item.Item) map[core.ItemID]item.Item {
	out := make(map[core.ItemID]item.Item, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out
}

func scaleCandidates(items []item.Item, scaleID core.ScaleID) []item.Item {
	out := make([]item.Item, 0, len(items))
	for _, it := range items {
		if it.ScaleID == scaleID {
			out = append(out, it)
		}
	}
	return out
}

// responseToString renders a cognitive response value (multiple-choice or
// binary) as the string NormalizeAnswer compares against CorrectAnswer.
func responseToString(v assessment.ResponseValue) string {
	switch rv := v.(type) {
	case assessment.MultipleChoiceResponse:
		return rv.Value
	case assessment.BinaryResponse:
		if rv.Value {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
