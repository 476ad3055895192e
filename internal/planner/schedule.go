// internal/planner/schedule.go
package planner

import (
	"math"

	"alcyxob/marathon-trainer/internal/domain"
)

// Strategy is the weekly workout pattern chosen for a (phase, deload) pair.
type Strategy int

const (
	StrategyBase Strategy = iota
	StrategyBuild
	StrategyPeak
	StrategyTaper
	StrategyDeload
)

func (s Strategy) String() string {
	switch s {
	case StrategyBase:
		return "base"
	case StrategyBuild:
		return "build"
	case StrategyPeak:
		return "peak"
	case StrategyTaper:
		return "taper"
	case StrategyDeload:
		return "deload"
	}
	return "unknown"
}

// SelectStrategy picks the weekly pattern. A deload week overrides its phase.
func SelectStrategy(phase domain.Phase, deload bool) Strategy {
	if deload {
		return StrategyDeload
	}
	switch phase {
	case domain.PhaseBuild:
		return StrategyBuild
	case domain.PhasePeak:
		return StrategyPeak
	case domain.PhaseTaper:
		return StrategyTaper
	default:
		return StrategyBase
	}
}

// Prescription is an unplaced workout: an archetype with its target
// distances. QualityKm is the tempo or marathon pace share where relevant;
// interval archetypes use RepMeters x Repeats.
type Prescription struct {
	Type       domain.WorkoutType
	DistanceKm float64
	QualityKm  float64
	RepMeters  float64
	Repeats    int
	Cruise     bool // tempo-zone interval block instead of VO2max
}

// WeekInput is everything a strategy needs for one week.
type WeekInput struct {
	WeekNumber  int
	TotalWeeks  int
	Phase       domain.Phase
	Deload      bool
	WeekKm      float64
	LongRunKm   float64
	RunsPerWeek int
}

// weekVolumes are the per-run distances derived from the weekly targets.
type weekVolumes struct {
	other      float64 // average distance of a non-long run
	long       float64
	mediumLong float64
}

func deriveVolumes(in WeekInput, h Heuristics) weekVolumes {
	others := in.RunsPerWeek - 1
	if others < 1 {
		others = 1
	}
	return weekVolumes{
		other:      math.Max(h.MinOtherRunKm, math.Round((in.WeekKm-in.LongRunKm)/float64(others))),
		long:       in.LongRunKm,
		mediumLong: math.Round(in.LongRunKm * h.MediumLongFraction),
	}
}

type strategyFunc func(in WeekInput, v weekVolumes) []Prescription

var strategies = map[Strategy]strategyFunc{
	StrategyBase:   baseWeek,
	StrategyBuild:  buildWeek,
	StrategyPeak:   peakWeek,
	StrategyTaper:  taperWeek,
	StrategyDeload: deloadWeek,
}

// ScheduleWeek returns the ordered, undated workouts of one week. The list
// always has exactly RunsPerWeek entries and ends with the long run, except in
// race week.
func ScheduleWeek(in WeekInput, h Heuristics) []Prescription {
	h = h.withDefaults()
	v := deriveVolumes(in, h)
	list := strategies[SelectStrategy(in.Phase, in.Deload)](in, v)
	if len(list) > in.RunsPerWeek {
		list = list[:in.RunsPerWeek]
	}
	return list
}

func easy(km float64) Prescription     { return Prescription{Type: domain.WorkoutEasy, DistanceKm: km} }
func recovery(km float64) Prescription { return Prescription{Type: domain.WorkoutRecovery, DistanceKm: km} }
func longRun(km float64) Prescription  { return Prescription{Type: domain.WorkoutLong, DistanceKm: km} }
func mediumLong(km float64) Prescription {
	return Prescription{Type: domain.WorkoutMediumLong, DistanceKm: km}
}
func tempo(km, tempoKm float64) Prescription {
	return Prescription{Type: domain.WorkoutTempo, DistanceKm: km, QualityKm: tempoKm}
}
func longMP(km, mpKm float64) Prescription {
	return Prescription{Type: domain.WorkoutLongMP, DistanceKm: km, QualityKm: mpKm}
}
func vo2max(km, repMeters float64, repeats int) Prescription {
	return Prescription{Type: domain.WorkoutIntervals, DistanceKm: km, RepMeters: repMeters, Repeats: repeats}
}
func cruise(km, repMeters float64, repeats int) Prescription {
	return Prescription{Type: domain.WorkoutTempo, DistanceKm: km, RepMeters: repMeters, Repeats: repeats, Cruise: true}
}

// Aerobic base: threshold work only, long run stays easy.
func baseWeek(in WeekInput, v weekVolumes) []Prescription {
	var out []Prescription
	if in.RunsPerWeek >= 5 {
		out = append(out, easy(v.other))
	}
	out = append(out, tempo(v.other+1, math.Max(2, math.Round(v.other*0.35))))
	if in.RunsPerWeek >= 4 {
		out = append(out, mediumLong(v.mediumLong))
	}
	return append(out, easy(v.other), longRun(v.long))
}

// Build: Q1 alternates VO2max intervals (even weeks) and cruise intervals,
// long run gains a marathon pace block.
func buildWeek(in WeekInput, v weekVolumes) []Prescription {
	var out []Prescription
	if in.RunsPerWeek >= 5 {
		out = append(out, recovery(math.Max(4, v.other-2)))
	}
	if in.WeekNumber%2 == 0 {
		out = append(out, vo2max(v.other+1, 1000, 5))
	} else {
		out = append(out, cruise(v.other+1, 1600, 4))
	}
	if in.RunsPerWeek >= 4 {
		out = append(out, mediumLong(v.mediumLong))
	}
	return append(out, easy(v.other), longMP(v.long, math.Round(v.long*0.3)))
}

func peakWeek(in WeekInput, v weekVolumes) []Prescription {
	var out []Prescription
	if in.RunsPerWeek >= 5 {
		out = append(out, recovery(math.Max(4, v.other-2)))
	}
	out = append(out, vo2max(v.other+1, 1200, 5))
	if in.RunsPerWeek >= 4 {
		out = append(out, Prescription{Type: domain.WorkoutProgression, DistanceKm: v.other + 2})
	}
	return append(out, easy(v.other), longMP(v.long, math.Round(v.long*0.4)))
}

// Taper keeps short speed touches while volume drops. Race week has no long run.
func taperWeek(in WeekInput, v weekVolumes) []Prescription {
	var out []Prescription
	if in.WeekNumber == in.TotalWeeks {
		out = append(out, easy(math.Max(4, v.other-2)))
		if in.RunsPerWeek >= 4 {
			out = append(out, easy(3))
		}
		out = append(out, tempo(5, 2))
		if in.RunsPerWeek >= 5 {
			out = append(out, recovery(3))
		}
		return append(out, easy(4))
	}

	if in.RunsPerWeek >= 5 {
		out = append(out, recovery(math.Max(3, v.other-3)))
	}
	out = append(out, tempo(v.other, math.Max(2, math.Round(v.other*0.3))))
	if in.RunsPerWeek >= 4 {
		out = append(out, easy(v.other))
	}
	return append(out, easy(v.other), longRun(v.long))
}

func deloadWeek(in WeekInput, v weekVolumes) []Prescription {
	d := math.Max(3, v.other-2)
	var out []Prescription
	if in.RunsPerWeek >= 5 {
		out = append(out, recovery(d))
	}
	out = append(out, tempo(d+1, math.Max(2, math.Round(d*0.25))))
	if in.RunsPerWeek >= 4 {
		out = append(out, easy(d))
	}
	return append(out, easy(d), longRun(v.long))
}
