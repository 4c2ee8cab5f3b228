package irt

import (
	"errors"
	"math"
	"testing"

	"assesscore/domain/core"
	"assesscore/domain/item"
)

func sixItems() []item.IRTParams {
	params := make([]item.IRTParams, 6)
	for i := range params {
		params[i] = item.IRTParams{A: 1.0, B: 0.0, C: 0.25}
	}
	return params
}

func TestMLEDeterminism(t *testing.T) {
	responses := []int{1, 0, 1, 0, 1, 1}
	params := sixItems()

	theta1, err1 := EstimateMLE(responses, params)
	theta2, err2 := EstimateMLE(responses, params)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if math.Abs(theta1-theta2) > 1e-6 {
		t.Fatalf("MLE not deterministic: %v vs %v", theta1, theta2)
	}
}

func TestMLEDirectionality(t *testing.T) {
	base := []int{1, 0, 1, 0, 0, 1}
	params := sixItems()
	thetaBase, err := EstimateMLE(base, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	moreCorrect := append(append([]int{}, base...), 1)
	paramsPlus := append(append([]item.IRTParams{}, params...), item.IRTParams{A: 1, B: 0, C: 0.25})
	thetaMoreCorrect, err := EstimateMLE(moreCorrect, paramsPlus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if thetaMoreCorrect < thetaBase-1e-9 {
		t.Errorf("adding a correct response decreased theta: %v -> %v", thetaBase, thetaMoreCorrect)
	}

	moreIncorrect := append(append([]int{}, base...), 0)
	thetaMoreIncorrect, err := EstimateMLE(moreIncorrect, paramsPlus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if thetaMoreIncorrect > thetaBase+1e-9 {
		t.Errorf("adding an incorrect response increased theta: %v -> %v", thetaBase, thetaMoreIncorrect)
	}
}

func TestMLEDegenerateAllCorrect(t *testing.T) {
	responses := []int{1, 1, 1, 1, 1, 1}
	_, err := EstimateMLE(responses, sixItems())
	if !errors.Is(err, core.ErrEstimationDiverged) {
		t.Fatalf("expected ErrEstimationDiverged, got %v", err)
	}
	theta := EstimateWithFallback(responses, sixItems(), DefaultPrior)
	if theta != thetaMax {
		t.Fatalf("expected sentinel theta=%v, got %v", thetaMax, theta)
	}
}

func TestMLEDegenerateAllIncorrect(t *testing.T) {
	responses := []int{0, 0, 0, 0, 0, 0}
	_, err := EstimateMLE(responses, sixItems())
	if !errors.Is(err, core.ErrEstimationDiverged) {
		t.Fatalf("expected ErrEstimationDiverged, got %v", err)
	}
	theta := EstimateWithFallback(responses, sixItems(), DefaultPrior)
	if theta != thetaMin {
		t.Fatalf("expected sentinel theta=%v, got %v", thetaMin, theta)
	}
}

func TestMAPUsedBelowFiveItems(t *testing.T) {
	responses := []int{1, 0}
	params := sixItems()[:2]
	theta, err := Estimate(responses, params, DefaultPrior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theta < thetaMin || theta > thetaMax {
		t.Fatalf("theta out of range: %v", theta)
	}
}

func TestS3CATTermination(t *testing.T) {
	var administered []item.IRTParams
	var responses []int
	theta := 0.0

	pattern := []int{1, 0}
	for n := 0; n < DefaultTermination.MaxItems; n++ {
		administered = append(administered, item.IRTParams{A: 1, B: 0, C: 0.25})
		responses = append(responses, pattern[n%2])

		var err error
		theta, err = Estimate(responses, administered, DefaultPrior)
		if err != nil {
			var diverged *DivergedError
			if errors.As(err, &diverged) {
				theta = diverged.Sentinel
			}
		}

		if ShouldTerminate(theta, administered, DefaultTermination) {
			n = len(administered)
			if n < DefaultTermination.MinItems || n > DefaultTermination.MaxItems {
				t.Fatalf("terminated with n=%d outside [%d,%d]", n, DefaultTermination.MinItems, DefaultTermination.MaxItems)
			}
			sem := SEM(theta, administered)
			if sem > DefaultTermination.TargetSEM+1e-9 && n < DefaultTermination.MaxItems {
				t.Fatalf("terminated early with SEM=%v > target", sem)
			}
			return
		}
	}

	n := len(administered)
	if n != DefaultTermination.MaxItems {
		t.Fatalf("expected termination by maxItems=%d, got n=%d", DefaultTermination.MaxItems, n)
	}
}
