// internal/planner/periodization.go
package planner

import (
	"math"

	"alcyxob/marathon-trainer/internal/domain"
)

const (
	MinPlanWeeks = 8
	MaxPlanWeeks = 16

	peakPhaseWeeks = 2
	deloadCadence  = 3 // every 3rd week: 3 weeks load, 1 week recovery
)

var (
	taperVolume3 = []float64{0.75, 0.60, 0.40}
	taperVolume2 = []float64{0.65, 0.40}
)

// PhaseSchedule is the periodization of a plan. Week numbers are 1-based;
// slices are indexed by week-1.
type PhaseSchedule struct {
	TotalWeeks       int
	BaseWeeks        int
	BuildWeeks       int
	PeakWeeks        int
	TaperWeeks       int
	Phases           []domain.Phase
	Deload           map[int]bool
	VolumeMultiplier []float64
}

// IsDeload reports whether week (1-based) is a recovery week.
func (s PhaseSchedule) IsDeload(week int) bool {
	return s.Deload[week]
}

// Phase returns the phase of week (1-based).
func (s PhaseSchedule) Phase(week int) domain.Phase {
	return s.Phases[week-1]
}

// ClampPlanWeeks bounds a plan length to the supported range.
func ClampPlanWeeks(weeks int) int {
	if weeks < MinPlanWeeks {
		return MinPlanWeeks
	}
	if weeks > MaxPlanWeeks {
		return MaxPlanWeeks
	}
	return weeks
}

// TaperLength returns 3 for plans of 12 weeks or more, else 2.
func TaperLength(totalWeeks int) int {
	if totalWeeks >= 12 {
		return 3
	}
	return 2
}

// Periodize splits totalWeeks into base, build, peak and taper blocks, marks
// deload weeks and computes each week's share of the peak weekly volume.
// totalWeeks is clamped to [MinPlanWeeks, MaxPlanWeeks].
func Periodize(totalWeeks int) PhaseSchedule {
	return periodize(ClampPlanWeeks(totalWeeks), DefaultHeuristics().DeloadVolumeFactor)
}

func periodize(total int, deloadFactor float64) PhaseSchedule {
	taper := TaperLength(total)
	remaining := total - taper - peakPhaseWeeks
	base := int(math.Max(2, math.Ceil(float64(remaining)*0.4)))
	build := remaining - base

	s := PhaseSchedule{
		TotalWeeks:       total,
		BaseWeeks:        base,
		BuildWeeks:       build,
		PeakWeeks:        peakPhaseWeeks,
		TaperWeeks:       taper,
		Phases:           make([]domain.Phase, 0, total),
		Deload:           make(map[int]bool),
		VolumeMultiplier: make([]float64, 0, total),
	}

	for w := 1; w <= total; w++ {
		switch {
		case w <= base:
			s.Phases = append(s.Phases, domain.PhaseBase)
		case w <= base+build:
			s.Phases = append(s.Phases, domain.PhaseBuild)
		case w <= base+build+peakPhaseWeeks:
			s.Phases = append(s.Phases, domain.PhasePeak)
		default:
			s.Phases = append(s.Phases, domain.PhaseTaper)
		}
		if w%deloadCadence == 0 && w <= base+build {
			s.Deload[w] = true
		}
	}

	for w := 1; w <= total; w++ {
		var m float64
		switch s.Phases[w-1] {
		case domain.PhaseBase:
			progress := float64(w-1) / math.Max(float64(base-1), 1)
			m = 0.75 + progress*0.15
		case domain.PhaseBuild:
			progress := float64(w-base-1) / math.Max(float64(build-1), 1)
			m = 0.90 + progress*0.10
		case domain.PhasePeak:
			m = 1.0
		case domain.PhaseTaper:
			m = taperFactor(taperVolume3, taperVolume2, taper, w-(total-taper))
		}
		if s.Deload[w] {
			m *= deloadFactor
		}
		s.VolumeMultiplier = append(s.VolumeMultiplier, m)
	}
	return s
}

// taperFactor picks the factor for the 1-based position within the taper,
// falling back to the last entry.
func taperFactor(three, two []float64, taperWeeks, pos int) float64 {
	factors := two
	if taperWeeks == 3 {
		factors = three
	}
	if pos < 1 || pos > len(factors) {
		return factors[len(factors)-1]
	}
	return factors[pos-1]
}
