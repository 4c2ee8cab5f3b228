// Package item defines the Item entity and its IRT parameters.
package item

import (
	"strings"

	"assesscore/domain/core"
	"assesscore/domain/scale"
)

// Format identifies how an item is presented and how its response is typed.
type Format string

const (
	FormatMultipleChoice Format = "multiple_choice"
	FormatLikert         Format = "likert"
	FormatForcedChoice   Format = "forced_choice"
	FormatBinary         Format = "binary"
)

// IRTParams is the 3-parameter-logistic item model: discrimination a,
// difficulty b, guessing c.
type IRTParams struct {
	A float64 // discrimination, a > 0
	B float64 // difficulty, b ∈ [-4,4]
	C float64 // guessing/pseudo-chance, c ∈ [0,0.35]
}

// Validate checks the 3PL parameter ranges in §3.
func (p IRTParams) Validate() error {
	if p.A <= 0 {
		return core.NewInputInvalidError("irt.a", "must be > 0")
	}
	if p.B < -4 || p.B > 4 {
		return core.NewInputInvalidError("irt.b", "must be in [-4,4]")
	}
	if p.C < 0 || p.C > 0.35 {
		return core.NewInputInvalidError("irt.c", "must be in [0,0.35]")
	}
	return nil
}

// ForcedChoiceOption is one side of a forced-choice pair: the signed
// loadings it contributes to one or more scales when chosen. Interest
// forced-choice pairs (§4.3 ipsative scoring) load exactly one scale per
// option with weight 1; behavioral MFC blocks (§4.3 forced-choice
// integrator) may load several traits per option with arbitrary signed
// weights.
type ForcedChoiceOption struct {
	Loadings map[core.ScaleID]float64
}

// ForcedChoicePairing associates a forced-choice item's two options with
// the scales they load on. Exactly one of OptionA/OptionB is chosen by any
// single response.
type ForcedChoicePairing struct {
	OptionA ForcedChoiceOption
	OptionB ForcedChoiceOption
}

// IsInterestPair reports whether this pairing is the ipsative, exactly-one-
// scale-per-option shape §3 requires for interest items.
func (p ForcedChoicePairing) IsInterestPair() bool {
	return len(p.OptionA.Loadings) == 1 && len(p.OptionB.Loadings) == 1
}

// Item is an authored, immutable-after-authoring assessment item.
type Item struct {
	ID             core.ItemID
	ScaleID        core.ScaleID
	Text           string
	Format         Format
	Options        []string
	CorrectAnswer  string // cognitive only
	IRT            IRTParams
	Domain         scale.Domain
	Distortion     bool
	Active         bool
	Order          int  // sequencing hint for deterministic sections
	ReverseKeyed   bool // behavioral Likert items only
	ForcedChoice   *ForcedChoicePairing
}

// IsCognitive reports whether this item belongs to the cognitive domain.
func (it Item) IsCognitive() bool { return it.Domain == scale.DomainCognitive }

// Validate checks the §3 item invariants: cognitive items have a correct
// answer, behavioral/interest items do not, IRT params are in range, and
// forced-choice items carry a two-scale pairing.
func (it Item) Validate() error {
	if it.ID.String() == "" {
		return core.NewInputInvalidError("item.id", "must not be empty")
	}
	if it.ScaleID.String() == "" {
		return core.NewInputInvalidError("item.scale_id", "must not be empty")
	}
	if strings.TrimSpace(it.Text) == "" {
		return core.NewInputInvalidError("item.text", "must not be empty")
	}
	switch it.Format {
	case FormatMultipleChoice, FormatLikert, FormatForcedChoice, FormatBinary:
	default:
		return core.NewInputInvalidError("item.format", "unrecognized format")
	}
	if it.IsCognitive() {
		if strings.TrimSpace(it.CorrectAnswer) == "" {
			return core.NewInputInvalidError("item.correct_answer", "cognitive items must have a correct answer")
		}
		if err := it.IRT.Validate(); err != nil {
			return err
		}
	} else if it.CorrectAnswer != "" {
		return core.NewInputInvalidError("item.correct_answer", "non-cognitive items must not have a correct answer")
	}
	if it.Format == FormatForcedChoice {
		if it.ForcedChoice == nil {
			return core.NewInputInvalidError("item.forced_choice", "forced-choice items require a two-scale pairing")
		}
		if len(it.ForcedChoice.OptionA.Loadings) == 0 || len(it.ForcedChoice.OptionB.Loadings) == 0 {
			return core.NewInputInvalidError("item.forced_choice", "each option must load at least one scale")
		}
	}
	return nil
}

// NormalizeAnswer trims and lowercases a response string for exact,
// case-insensitive comparison against CorrectAnswer (§4.4 respond).
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
