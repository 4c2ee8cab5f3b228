// Package match implements the §4.5 Job-Match Engine: per-scale distance
// penalty, domain fit (cognitive/behavioral), interests rank-order fit, and
// the overall weighted fit against a PerformanceModel.
package match

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/domain/jobmodel"
	"assesscore/domain/scale"
	"assesscore/domain/score"
	"assesscore/internal"
	"assesscore/internal/scoring"
	"assesscore/internal/scoring/distortion"
	"assesscore/ports"
)

// Engine computes JobMatch results for a completed assessment against one
// or more PerformanceModels.
type Engine struct {
	assessments ports.AssessmentRepository
	scores      ports.ScaleScoreRepository
	scales      ports.ScaleRepository
	models      ports.PerformanceModelRepository
	logger      *internal.Logger
}

// NewEngine wires the match engine's repository ports.
func NewEngine(
	assessments ports.AssessmentRepository,
	scores ports.ScaleScoreRepository,
	scales ports.ScaleRepository,
	models ports.PerformanceModelRepository,
	logger *internal.Logger,
) *Engine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{assessments: assessments, scores: scores, scales: scales, models: models, logger: logger}
}

// ComputeMatch implements §4.5 in full: distance-penalty domain fits for
// cognitive and behavioral, rank-order fit for interests, the 0.4/0.4/0.2
// weighted overall, per-scale deviations, and the distortion validity flag.
// Requires the assessment to be completed; a model with fewer scales than
// the candidate has scores simply contributes fewer terms, not an error.
func (e *Engine) ComputeMatch(ctx context.Context, assessmentID core.AssessmentID, modelID core.PerformanceModelID) (jobmodel.JobMatch, error) {
	a, err := e.assessments.Get(ctx, assessmentID)
	if err != nil {
		return jobmodel.JobMatch{}, err
	}
	if a.Status != assessment.StatusCompleted {
		return jobmodel.JobMatch{}, core.NewStateInvalidError("compute_match", "assessment not completed")
	}

	model, err := e.models.Get(ctx, modelID)
	if err != nil {
		return jobmodel.JobMatch{}, err
	}

	scaleScores, err := e.scores.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return jobmodel.JobMatch{}, err
	}
	scoresByID := make(map[core.ScaleID]score.ScaleScore, len(scaleScores))
	for _, s := range scaleScores {
		scoresByID[s.ScaleID] = s
	}

	allScales, err := e.scales.ListAll(ctx)
	if err != nil {
		return jobmodel.JobMatch{}, err
	}
	domainByScale := make(map[core.ScaleID]scale.Domain, len(allScales))
	typeByScale := make(map[core.ScaleID]scale.Type, len(allScales))
	for _, sc := range allScales {
		domainByScale[sc.ID] = sc.Domain
		typeByScale[sc.ID] = sc.Type
	}

	cognitiveFit := domainFit(model.Ranges, scoresByID, domainByScale, scale.DomainCognitive)
	behavioralFit := domainFit(model.Ranges, scoresByID, domainByScale, scale.DomainBehavioral)
	interestsFitScore := interestsFit(model.Ranges, scoresByID, domainByScale)

	overall := clampPercent(int(math.Round(0.4*cognitiveFit + 0.4*behavioralFit + 0.2*interestsFitScore)))
	deviations, missing := buildDeviations(model.Ranges, scoresByID)

	result := jobmodel.JobMatch{
		AssessmentID:     assessmentID,
		PerformanceModel: modelID,
		Overall:          overall,
		Cognitive:        cognitiveFit,
		Behavioral:       behavioralFit,
		Interests:        interestsFitScore,
		Deviations:       deviations,
		MissingScales:    missing,
		ValidityWarning:  isInvalidDistortion(scoresByID, typeByScale),
	}
	e.logger.Info("match computed: assessment=%s model=%s overall=%d", assessmentID, modelID, overall)
	return result, nil
}

// BatchComputeMatch fans ComputeMatch out across several PerformanceModels
// concurrently via errgroup.Group, preserving the input order in the
// result slice. One failing model fails the whole batch.
func (e *Engine) BatchComputeMatch(ctx context.Context, assessmentID core.AssessmentID, modelIDs []core.PerformanceModelID) ([]jobmodel.JobMatch, error) {
	results := make([]jobmodel.JobMatch, len(modelIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, modelID := range modelIDs {
		i, modelID := i, modelID
		g.Go(func() error {
			m, err := e.ComputeMatch(gctx, assessmentID, modelID)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// domainFit implements the §4.5 "domain fit for cognitive and behavioral":
// accumulate penalty·weight and weight over every ModelScaleRange in domain
// for which the candidate has a ScaleScore, then express as a percentage.
func domainFit(ranges []jobmodel.ModelScaleRange, scoresByID map[core.ScaleID]score.ScaleScore, domainByScale map[core.ScaleID]scale.Domain, domain scale.Domain) float64 {
	var sumPenaltyWeight, sumWeight float64
	for _, r := range ranges {
		if domainByScale[r.ScaleID] != domain {
			continue
		}
		s, ok := scoresByID[r.ScaleID]
		if !ok {
			continue
		}
		penalty := distancePenalty(s.STEN, r.TargetMin, r.TargetMax)
		sumPenaltyWeight += penalty * r.Weight
		sumWeight += r.Weight
	}
	if sumWeight == 0 {
		return 0
	}
	return (sumPenaltyWeight / sumWeight) * 100
}

// distancePenalty implements the §4.5 per-scale penalty:
// d = max(0,L-s) + max(0,s-U); penalty = max(0, 1-(0.15d+0.05d²)).
func distancePenalty(sten, lo, hi int) float64 {
	d := 0
	if lo-sten > 0 {
		d += lo - sten
	}
	if sten-hi > 0 {
		d += sten - hi
	}
	df := float64(d)
	penalty := 1 - (0.15*df + 0.05*df*df)
	if penalty < 0 {
		return 0
	}
	return penalty
}

// interestsFit implements the §4.5 rank-order interests match: candidate
// top-3 interest scales by STEN (§4.3 tiebreak) against the model's top-3
// interest scales by band midpoint, fit = 33.33 + 22.22 per matching rank.
func interestsFit(ranges []jobmodel.ModelScaleRange, scoresByID map[core.ScaleID]score.ScaleScore, domainByScale map[core.ScaleID]scale.Domain) float64 {
	interestScores := make(map[core.ScaleID]score.ScaleScore)
	for id, s := range scoresByID {
		if domainByScale[id] == scale.DomainInterests {
			interestScores[id] = s
		}
	}
	candidateTop3 := scoring.Top3Interests(interestScores)

	type ranked struct {
		id  core.ScaleID
		mid float64
	}
	var modelInterests []ranked
	for _, r := range ranges {
		if domainByScale[r.ScaleID] != scale.DomainInterests {
			continue
		}
		modelInterests = append(modelInterests, ranked{id: r.ScaleID, mid: r.Midpoint()})
	}
	sort.Slice(modelInterests, func(i, j int) bool {
		if modelInterests[i].mid != modelInterests[j].mid {
			return modelInterests[i].mid > modelInterests[j].mid
		}
		return modelInterests[i].id < modelInterests[j].id
	})
	modelTop3 := make([]core.ScaleID, 0, 3)
	for i := 0; i < len(modelInterests) && i < 3; i++ {
		modelTop3 = append(modelTop3, modelInterests[i].id)
	}

	matches := 0
	for i := 0; i < 3; i++ {
		if i < len(candidateTop3) && i < len(modelTop3) && candidateTop3[i] == modelTop3[i] {
			matches++
		}
	}
	return math.Round(33.33 + float64(matches)*22.22)
}

// buildDeviations emits one Deviation per ModelScaleRange the candidate has
// a ScaleScore for, and collects the rest as MissingScales (§4.5).
func buildDeviations(ranges []jobmodel.ModelScaleRange, scoresByID map[core.ScaleID]score.ScaleScore) ([]jobmodel.Deviation, []core.ScaleID) {
	var deviations []jobmodel.Deviation
	var missing []core.ScaleID
	for _, r := range ranges {
		s, ok := scoresByID[r.ScaleID]
		if !ok {
			missing = append(missing, r.ScaleID)
			continue
		}
		d := 0
		direction := jobmodel.DirectionIn
		switch {
		case s.STEN > r.TargetMax:
			d = s.STEN - r.TargetMax
			direction = jobmodel.DirectionHigh
		case s.STEN < r.TargetMin:
			d = r.TargetMin - s.STEN
			direction = jobmodel.DirectionLow
		}
		deviations = append(deviations, jobmodel.Deviation{
			ScaleID:       r.ScaleID,
			CandidateSTEN: s.STEN,
			TargetMin:     r.TargetMin,
			TargetMax:     r.TargetMax,
			Distance:      d,
			Direction:     direction,
		})
	}
	return deviations, missing
}

func isInvalidDistortion(scoresByID map[core.ScaleID]score.ScaleScore, typeByScale map[core.ScaleID]scale.Type) bool {
	for id, s := range scoresByID {
		if typeByScale[id] == scale.TypeDistortion {
			return distortion.Categorize(s.STEN) == distortion.CategoryInvalid
		}
	}
	return false
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
