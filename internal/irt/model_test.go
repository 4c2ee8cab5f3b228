package irt

import (
	"math"
	"testing"

	"assesscore/domain/item"
)

func TestProbabilityAtDifficulty(t *testing.T) {
	// Property 3: P(theta=b; a,b,c) = (1+c)/2 for any a>0.
	for _, a := range []float64{0.5, 1.0, 2.0} {
		p := item.IRTParams{A: a, B: 0.3, C: 0.2}
		got := Probability(0.3, p)
		want := (1 + p.C) / 2
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Probability(b;a=%v,b,c) = %v, want %v", a, got, want)
		}
	}
}

func TestS2IRTSingleItem(t *testing.T) {
	p := item.IRTParams{A: 1.0, B: 0.0, C: 0.25}
	cases := []struct {
		theta float64
		want  float64
	}{
		{0, 0.625},
		{1, 0.798},
		{-1, 0.452},
	}
	for _, c := range cases {
		got := Probability(c.theta, p)
		if math.Abs(got-c.want) > 5e-3 {
			t.Errorf("Probability(theta=%v) = %v, want ~%v", c.theta, got, c.want)
		}
	}
}

func TestInformationNonNegativeAndPeaked(t *testing.T) {
	p := item.IRTParams{A: 1.2, B: 0.0, C: 0.0}
	peak := Information(0.0, p)
	if peak < 0 {
		t.Fatalf("information must be non-negative, got %v", peak)
	}
	for _, theta := range []float64{1, 2, 3, -1, -2, -3} {
		info := Information(theta, p)
		if info < 0 {
			t.Errorf("information negative at theta=%v: %v", theta, info)
		}
		if info > peak {
			t.Errorf("information at theta=%v (%v) exceeds peak at b (%v)", theta, info, peak)
		}
	}
	far := Information(4.0, p)
	near := Information(0.5, p)
	if far > near {
		t.Errorf("information should decrease moving away from b: far=%v near=%v", far, near)
	}
}

func TestThetaToSten(t *testing.T) {
	if got := ThetaToSten(0); got != 6 {
		t.Errorf("ThetaToSten(0) = %d, want 6", got)
	}
	if got := ThetaToSten(-10); got != 1 {
		t.Errorf("ThetaToSten(-10) = %d, want 1 (clamped)", got)
	}
	if got := ThetaToSten(10); got != 10 {
		t.Errorf("ThetaToSten(10) = %d, want 10 (clamped)", got)
	}
}
