package lifecycle

import (
	"sort"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

// Thresholds are the effective limits applied to one token after stage
// resolution and per-token overrides.
type Thresholds struct {
	MinLiquidity float64
	MaxLiquidity float64
	MaxMcap      float64
}

// ResolveStage picks the lifecycle stage active for a token of the given
// age. Resolution is total: some stage always comes back, even when the
// configuration is inconsistent, so callers never need a nil check.
func ResolveStage(age time.Duration, stages []models.LifecycleStage) models.LifecycleStage {
	if len(stages) == 0 {
		return models.LifecycleStage{}
	}

	ageMinutes := age.Minutes()

	enabled := make([]models.LifecycleStage, 0, len(stages))
	for _, s := range stages {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	if len(enabled) == 0 {
		// Nothing enabled: hand back the first configured stage as-is.
		return stages[0]
	}

	// Stages are stored in user-entry order; sort a copy, never the input.
	sorted := append([]models.LifecycleStage(nil), enabled...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartAgeMinutes > sorted[j].StartAgeMinutes
	})

	for _, s := range sorted {
		if s.StartAgeMinutes <= ageMinutes {
			return s
		}
	}

	// Token is younger than every enabled start age.
	// TODO: this picks the entry-order tail of the enabled list, not the
	// stage with the smallest start age; confirm intent before changing,
	// downstream thresholds are tuned against the current pick.
	return enabled[len(enabled)-1]
}

// MergeThresholds overlays per-token overrides onto the resolved stage.
// Only set pointers win; an explicit zero override is honored.
func MergeThresholds(stage models.LifecycleStage, o *models.StrategyOverride) Thresholds {
	th := Thresholds{
		MinLiquidity: stage.MinLiquidity,
		MaxLiquidity: stage.MaxLiquidity,
		MaxMcap:      stage.MaxMcap,
	}
	if o == nil {
		return th
	}
	if o.MinLiquidity != nil {
		th.MinLiquidity = *o.MinLiquidity
	}
	if o.MaxLiquidity != nil {
		th.MaxLiquidity = *o.MaxLiquidity
	}
	if o.MaxMcap != nil {
		th.MaxMcap = *o.MaxMcap
	}
	return th
}
