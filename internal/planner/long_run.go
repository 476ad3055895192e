// internal/planner/long_run.go
package planner

import (
	"math"

	"alcyxob/marathon-trainer/internal/domain"
)

var (
	taperLongRun3 = []float64{0.70, 0.55, 0.35}
	taperLongRun2 = []float64{0.60, 0.35}
)

// minPeakLongRunKm is the race-specific long run a plan should reach.
func minPeakLongRunKm(totalWeeks int, peakWeeklyKm float64) float64 {
	switch {
	case totalWeeks >= 14:
		return 32
	case totalWeeks >= 10:
		if peakWeeklyKm >= 55 {
			return 32
		}
		return 30
	default:
		return 28
	}
}

// LongRunBounds returns the first-week and peak long run distances.
func LongRunBounds(totalWeeks int, peakWeeklyKm float64, h Heuristics) (startKm, peakKm float64) {
	h = h.withDefaults()
	startKm = math.Max(h.LongRunStartMinKm, math.Round(peakWeeklyKm*h.LongRunStartFraction))
	hardMax := math.Round(peakWeeklyKm * h.LongRunHardMaxFraction)
	soft := math.Min(h.LongRunCapKm, math.Round(peakWeeklyKm*h.LongRunPeakFraction))
	peakKm = math.Min(hardMax, math.Max(minPeakLongRunKm(totalWeeks, peakWeeklyKm), soft))
	return startKm, peakKm
}

// LongRunProgression returns one long run distance (km) per plan week.
func LongRunProgression(s PhaseSchedule, peakWeeklyKm float64, h Heuristics) []float64 {
	h = h.withDefaults()
	start, peak := LongRunBounds(s.TotalWeeks, peakWeeklyKm, h)

	buildUp := s.BaseWeeks + s.BuildWeeks
	step := 2.0
	if buildUp > 1 {
		step = (peak - start) / float64(buildUp-1)
	}

	out := make([]float64, 0, s.TotalWeeks)
	baseIdx, buildUpIdx, taperIdx := 0, 0, 0
	for w := 1; w <= s.TotalWeeks; w++ {
		var km float64
		switch s.Phase(w) {
		case domain.PhaseBase:
			baseIdx++
			buildUpIdx++
			km = math.Min(start+float64(baseIdx-1)*step, peak-4)
		case domain.PhaseBuild:
			buildUpIdx++
			km = math.Min(start+float64(buildUpIdx-1)*step, peak)
		case domain.PhasePeak:
			km = peak
		case domain.PhaseTaper:
			taperIdx++
			km = math.Round(peak * taperFactor(taperLongRun3, taperLongRun2, s.TaperWeeks, taperIdx))
		}
		if s.IsDeload(w) {
			km = math.Round(km * h.DeloadLongRunFactor)
		}
		out = append(out, math.Max(h.LongRunFloorKm, math.Round(km)))
	}
	return out
}
