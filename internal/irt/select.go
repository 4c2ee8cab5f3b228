package irt

import (
	"math"
	"sort"

	"assesscore/domain/core"
	"assesscore/domain/item"
)

// TerminationConfig holds the CAT stopping parameters (§4.2 defaults).
type TerminationConfig struct {
	MinItems  int
	MaxItems  int
	TargetSEM float64
}

// DefaultTermination is the spec's documented default: minItems=5,
// maxItems=20, targetSEM=0.35.
var DefaultTermination = TerminationConfig{MinItems: 5, MaxItems: 20, TargetSEM: 0.35}

// SEM returns the standard error of measurement, 1/√(ΣI(θ)), for the given
// administered items at ability theta. Returns +Inf when no information
// has accumulated (zero items administered).
func SEM(theta float64, administered []item.IRTParams) float64 {
	var totalInfo float64
	for _, p := range administered {
		totalInfo += Information(theta, p)
	}
	if totalInfo <= 0 {
		return math.Inf(1)
	}
	return 1 / math.Sqrt(totalInfo)
}

// ShouldTerminate applies the §4.2 stopping rule: stop when
// itemsAdministered >= maxItems, or itemsAdministered >= minItems and the
// SEM at the current ability estimate is at or below targetSEM.
func ShouldTerminate(theta float64, administered []item.IRTParams, cfg TerminationConfig) bool {
	n := len(administered)
	if n >= cfg.MaxItems {
		return true
	}
	if n < cfg.MinItems {
		return false
	}
	return SEM(theta, administered) <= cfg.TargetSEM
}

// SelectNextItem chooses, from candidates not yet administered, the item
// maximizing information at theta. Ties are broken by item ID (stable
// ordering), per §4.2.
func SelectNextItem(theta float64, candidates []item.Item) (item.Item, bool) {
	active := make([]item.Item, 0, len(candidates))
	for _, it := range candidates {
		if it.Active {
			active = append(active, it)
		}
	}
	if len(active) == 0 {
		return item.Item{}, false
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].ID < active[j].ID
	})

	best := active[0]
	bestInfo := Information(theta, best.IRT)
	for _, it := range active[1:] {
		info := Information(theta, it.IRT)
		if info > bestInfo {
			best = it
			bestInfo = info
		}
	}
	return best, true
}

// ExcludeAdministered filters administered item IDs out of a candidate
// pool, the step SelectNextItem's caller performs before calling it.
func ExcludeAdministered(candidates []item.Item, administeredIDs map[core.ItemID]bool) []item.Item {
	out := make([]item.Item, 0, len(candidates))
	for _, it := range candidates {
		if !administeredIDs[it.ID] {
			out = append(out, it)
		}
	}
	return out
}
