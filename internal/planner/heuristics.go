// internal/planner/heuristics.go
package planner

// Heuristics holds the tuned coaching constants the planner uses. They are
// rules of thumb, not physiology, so the server lets operators override them.
type Heuristics struct {
	// Volume progression
	LoadingWeekShare      float64 `mapstructure:"loading_week_share"`       // Share of pre-taper weeks that add load
	GrowthRateLowBase     float64 `mapstructure:"growth_rate_low_base"`     // Weekly growth for small bases
	GrowthRateHighBase    float64 `mapstructure:"growth_rate_high_base"`    // Weekly growth for larger bases
	GrowthRateThresholdKm float64 `mapstructure:"growth_rate_threshold_km"` // Base at which the lower rate applies
	DeloadVolumeFactor    float64 `mapstructure:"deload_volume_factor"`

	// Long runs
	LongRunStartMinKm      float64 `mapstructure:"long_run_start_min_km"`
	LongRunStartFraction   float64 `mapstructure:"long_run_start_fraction"`
	LongRunPeakFraction    float64 `mapstructure:"long_run_peak_fraction"`
	LongRunHardMaxFraction float64 `mapstructure:"long_run_hard_max_fraction"`
	LongRunCapKm           float64 `mapstructure:"long_run_cap_km"`
	LongRunFloorKm         float64 `mapstructure:"long_run_floor_km"`
	DeloadLongRunFactor    float64 `mapstructure:"deload_long_run_factor"`

	// Weekly distribution
	MediumLongFraction float64 `mapstructure:"medium_long_fraction"`
	MinOtherRunKm      float64 `mapstructure:"min_other_run_km"`
}

// DefaultHeuristics returns the constants the plans were originally tuned with.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		LoadingWeekShare:      0.75,
		GrowthRateLowBase:     1.08,
		GrowthRateHighBase:    1.07,
		GrowthRateThresholdKm: 35,
		DeloadVolumeFactor:    0.72,

		LongRunStartMinKm:      14,
		LongRunStartFraction:   0.30,
		LongRunPeakFraction:    0.45,
		LongRunHardMaxFraction: 0.60,
		LongRunCapKm:           35,
		LongRunFloorKm:         8,
		DeloadLongRunFactor:    0.75,

		MediumLongFraction: 0.6,
		MinOtherRunKm:      4,
	}
}

// withDefaults fills zero fields from DefaultHeuristics, so a partially
// populated struct from config stays usable.
func (h Heuristics) withDefaults() Heuristics {
	d := DefaultHeuristics()
	fill := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&h.LoadingWeekShare, d.LoadingWeekShare)
	fill(&h.GrowthRateLowBase, d.GrowthRateLowBase)
	fill(&h.GrowthRateHighBase, d.GrowthRateHighBase)
	fill(&h.GrowthRateThresholdKm, d.GrowthRateThresholdKm)
	fill(&h.DeloadVolumeFactor, d.DeloadVolumeFactor)
	fill(&h.LongRunStartMinKm, d.LongRunStartMinKm)
	fill(&h.LongRunStartFraction, d.LongRunStartFraction)
	fill(&h.LongRunPeakFraction, d.LongRunPeakFraction)
	fill(&h.LongRunHardMaxFraction, d.LongRunHardMaxFraction)
	fill(&h.LongRunCapKm, d.LongRunCapKm)
	fill(&h.LongRunFloorKm, d.LongRunFloorKm)
	fill(&h.DeloadLongRunFactor, d.DeloadLongRunFactor)
	fill(&h.MediumLongFraction, d.MediumLongFraction)
	fill(&h.MinOtherRunKm, d.MinOtherRunKm)
	return h
}
