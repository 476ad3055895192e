// internal/planner/workouts.go
package planner

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"alcyxob/marathon-trainer/internal/domain"
)

// Minimum total distances per archetype (km).
const (
	minEasyKm        = 3
	minRecoveryKm    = 3
	minMediumLongKm  = 6
	minLongKm        = 8
	minLongMPKm      = 10
	minTempoKm       = 5
	minCruiseKm      = 6
	minIntervalKm    = 6
	minRepetitionKm  = 5
	minProgressionKm = 6

	maxMarathonShare = 0.45
)

// Factory builds concrete workouts from prescriptions for one set of zones.
type Factory struct {
	Zones domain.PaceZones
	NewID func() string
}

// NewFactory returns a Factory that assigns random UUIDs.
func NewFactory(zones domain.PaceZones) *Factory {
	return &Factory{Zones: zones, NewID: uuid.NewString}
}

// BuildWorkout builds one prescription with random IDs.
func BuildWorkout(p Prescription, zones domain.PaceZones) domain.Workout {
	return NewFactory(zones).Build(p)
}

// Build dispatches a prescription to its constructor.
func (f *Factory) Build(p Prescription) domain.Workout {
	switch p.Type {
	case domain.WorkoutRecovery:
		return f.RecoveryRun(p.DistanceKm)
	case domain.WorkoutMediumLong:
		return f.MediumLongRun(p.DistanceKm)
	case domain.WorkoutLong:
		return f.LongRun(p.DistanceKm)
	case domain.WorkoutLongMP:
		return f.LongRunMP(p.DistanceKm, p.QualityKm)
	case domain.WorkoutTempo:
		if p.Cruise {
			return f.CruiseIntervals(p.DistanceKm, p.RepMeters/1000, p.Repeats)
		}
		return f.TempoRun(p.DistanceKm, p.QualityKm)
	case domain.WorkoutIntervals:
		return f.IntervalSession(p.DistanceKm, p.RepMeters, p.Repeats)
	case domain.WorkoutRepetition:
		return f.RepetitionSession(p.DistanceKm, p.RepMeters, p.Repeats)
	case domain.WorkoutProgression:
		return f.ProgressionRun(p.DistanceKm)
	case domain.WorkoutRest:
		return f.RestDay()
	default:
		return f.EasyRun(p.DistanceKm)
	}
}

// newWorkout fills the fields common to every archetype and estimates the
// duration from the segments.
func (f *Factory) newWorkout(t domain.WorkoutType, totalKm float64, title, description string, segments []domain.WorkoutSegment) domain.Workout {
	return domain.Workout{
		ID:                   f.NewID(),
		Type:                 t,
		Title:                title,
		Description:          description,
		TotalDistanceKm:      totalKm,
		EstimatedDurationMin: EstimateDuration(segments, f.Zones),
		Segments:             segments,
		Nutrition:            NutritionFor(t, totalKm),
	}
}

// EstimateDuration sums distance x faster zone bound over all segments and
// returns whole minutes. Duration-based segments count as given.
func EstimateDuration(segments []domain.WorkoutSegment, zones domain.PaceZones) int {
	var seconds float64
	for _, s := range segments {
		if s.DistanceKm > 0 {
			seconds += s.DistanceKm * float64(zones.Get(s.Zone).Min)
		} else if s.DurationMin > 0 {
			seconds += s.DurationMin * 60
		}
	}
	return int(math.Round(seconds / 60))
}

func seg(t domain.SegmentType, km float64, zone domain.ZoneName, desc string) domain.WorkoutSegment {
	return domain.WorkoutSegment{Type: t, DistanceKm: km, Zone: zone, Description: desc}
}

// EasyRun is a conversational aerobic run.
func (f *Factory) EasyRun(km float64) domain.Workout {
	d := math.Max(km, minEasyKm)
	return f.newWorkout(domain.WorkoutEasy, d,
		fmt.Sprintf("Easy Run - %.1f km", d),
		"Relaxed run in the easy zone (Daniels E pace). You should be able to hold a conversation throughout.",
		[]domain.WorkoutSegment{
			seg(domain.SegmentWarmup, 1, domain.ZoneRecovery, "1 km warm-up"),
			seg(domain.SegmentMain, math.Max(d-2, 1), domain.ZoneEasy, "Main set at easy pace (E)"),
			seg(domain.SegmentCooldown, 1, domain.ZoneRecovery, "1 km cool-down"),
		})
}

// RecoveryRun is a very light run the day after quality work.
func (f *Factory) RecoveryRun(km float64) domain.Workout {
	d := math.Max(km, minRecoveryKm)
	return f.newWorkout(domain.WorkoutRecovery, d,
		fmt.Sprintf("Recovery Run - %.1f km", d),
		"Very easy regeneration run. Leave the ego at home; this is active recovery.",
		[]domain.WorkoutSegment{
			seg(domain.SegmentWarmup, 1, domain.ZoneRecovery, "1 km very easy shuffle"),
			seg(domain.SegmentMain, math.Max(d-1, 1), domain.ZoneRecovery, "Recovery pace - truly relaxed"),
		})
}

// MediumLongRun sits between an easy run and the long run.
func (f *Factory) MediumLongRun(km float64) domain.Workout {
	d := math.Max(km, minMediumLongKm)
	return f.newWorkout(domain.WorkoutMediumLong, d,
		fmt.Sprintf("Medium-Long Run - %.1f km", d),
		"Longer than a regular easy run: builds aerobic capacity without the fatigue of a full long run.",
		[]domain.WorkoutSegment{
			seg(domain.SegmentWarmup, 1, domain.ZoneRecovery, "1 km warm-up"),
			seg(domain.SegmentMain, math.Max(d-2, 1), domain.ZoneEasy, "Steady easy pace"),
			seg(domain.SegmentCooldown, 1, domain.ZoneRecovery, "1 km cool-down"),
		})
}

// LongRun is a purely aerobic long run.
func (f *Factory) LongRun(km float64) domain.Workout {
	d := math.Max(km, minLongKm)
	var desc string
	switch {
	case d >= 30:
		desc = "Long run - race preparation! Start carb loading 48h before (8-10 g carbohydrate/kg). During the run take 60-90 g carbohydrate per hour from km 5."
	case d >= 24:
		desc = "Long run. Eat a carbohydrate-rich dinner the evening before. After 60 min take 30-60 g carbohydrate per hour (gel or sports drink)."
	default:
		desc = "Long, relaxed run. Focus on time on feet and building the aerobic base."
	}
	return f.newWorkout(domain.WorkoutLong, d,
		fmt.Sprintf("Long Run - %.1f km", d),
		desc,
		[]domain.WorkoutSegment{
			seg(domain.SegmentWarmup, 2, domain.ZoneRecovery, "2 km warm-up"),
			seg(domain.SegmentMain, math.Max(d-3, 1), domain.ZoneEasy, "Easy pace - stay relaxed"),
			seg(domain.SegmentCooldown, 1, domain.ZoneRecovery, "1 km cool-down"),
		})
}

// LongRunMP embeds a marathon pace block, capped at 45% of the run.
func (f *Factory) LongRunMP(km, mpKm float64) domain.Workout {
	d := math.Max(km, minLongMPKm)
	mp := math.Min(mpKm, math.Round(d*maxMarathonShare))
	var desc string
	if d >= 30 {
		desc = fmt.Sprintf("Race simulation! %.0f km at marathon pace. Carb load 48h before and take 60-90 g carbohydrate per hour from km 5, exactly as on race day.", mp)
	} else {
		desc = fmt.Sprintf("%.0f km at marathon pace built into the long run. Eat carbohydrate-rich the evening before; take gels or sports drink after 60 min.", mp)
	}
	return f.newWorkout(domain.WorkoutLongMP, d,
		fmt.Sprintf("MP Long Run - %.0f km (%.0f km @ MP)", d, mp),
		desc,
		[]domain.WorkoutSegment{
			seg(domain.SegmentWarmup, 2, domain.ZoneRecovery, "2 km warm-up"),
			seg(domain.SegmentMain, math.Max(d-mp-3, 2), domain.ZoneEasy, "Easy pace"),
			seg(domain.SegmentMain, mp, domain.ZoneMarathon, fmt.Sprintf("%.0f km @ marathon pace - race simulation", mp)),
			seg(domain.SegmentCooldown, 1, domain.ZoneRecovery, "1 km cool-down"),
		})
}

// TempoRun is a continuous threshold run; the tempo block is clamped to km-3.
func (f *Factory) TempoRun(km, tempoKm float64) domain.Workout {
	d := math.Max(km, minTempoKm)
	t := math.Max(1, math.Min(tempoKm, d-3))
	return f.newWorkout(domain.WorkoutTempo, d,
		fmt.Sprintf("Tempo Run - %.0f km @ T pace", t),
		fmt.Sprintf("Threshold run: %.0f km at lactate threshold. Should feel comfortably hard; short sentences are still possible.", t),
		[]domain.WorkoutSegment{
			seg(domain.SegmentWarmup, 2, domain.ZoneEasy, "2 km warm-up"),
			seg(domain.SegmentMain, t, domain.ZoneTempo, fmt.Sprintf("%.0f km @ threshold pace (T)", t)),
			seg(domain.SegmentCooldown, math.Max(d-t-2, 1), domain.ZoneEasy, "Cool-down"),
		})
}

// CruiseIntervals splits threshold work into repeats with short jog breaks.
func (f *Factory) CruiseIntervals(km, repKm float64, repeats int) domain.Workout {
	d := math.Max(km, minCruiseKm)
	tempoKm := repKm * float64(repeats)
	block := seg(domain.SegmentInterval, tempoKm, domain.ZoneTempo,
		fmt.Sprintf("%dx %.1f km @ T pace, 60s jog recovery", repeats, repKm))
	block.Repeats = repeats
	return f.newWorkout(domain.WorkoutTempo, d,
		fmt.Sprintf("Cruise Intervals - %dx %.1f km @ T pace", repeats, repKm),
		fmt.Sprintf("Cruise intervals: %d repeats of %.1f km with 60s jog recovery. Same stimulus as a continuous tempo with less strain.", repeats, repKm),
		[]domain.WorkoutSegment{
			seg(domain.SegmentWarmup, 2, domain.ZoneEasy, "2 km warm-up"),
			block,
			seg(domain.SegmentCooldown, math.Max(d-tempoKm-2, 1), domain.ZoneEasy, "Cool-down"),
		})
}

// IntervalSession is VO2max work at I pace.
func (f *Factory) IntervalSession(km, repMeters float64, repeats int) domain.Workout {
	d := math.Max(km, minIntervalKm)
	intervalKm := repMeters * float64(repeats) / 1000
	rest := "2 min jog recovery"
	if repMeters >= 1000 {
		rest = "3 min jog recovery (50-90% of the work time)"
	}
	block := seg(domain.SegmentInterval, intervalKm, domain.ZoneInterval,
		fmt.Sprintf("%dx %.0fm @ I pace, %s", repeats, repMeters, rest))
	block.Repeats = repeats
	return f.newWorkout(domain.WorkoutIntervals, d,
		fmt.Sprintf("VO2max Intervals - %dx %.0fm", repeats, repMeters),
		fmt.Sprintf("I pace: %d repeats of %.0fm to raise maximal oxygen uptake. Jog recovery is 50-90%% of the work time.", repeats, repMeters),
		[]domain.WorkoutSegment{
			seg(domain.SegmentWarmup, 2, domain.ZoneEasy, "2 km warm-up + drills + 4 strides"),
			block,
			seg(domain.SegmentCooldown, math.Max(d-intervalKm-2, 1), domain.ZoneEasy, "Cool-down"),
		})
}

// RepetitionSession is short, fast R-pace work with full recovery.
func (f *Factory) RepetitionSession(km, repMeters float64, repeats int) domain.Workout {
	d := math.Max(km, minRepetitionKm)
	repKm := repMeters * float64(repeats) / 1000
	block := seg(domain.SegmentInterval, repKm, domain.ZoneRepetition,
		fmt.Sprintf("%dx %.0fm @ R pace, full recovery (jog = work time)", repeats, repMeters))
	block.Repeats = repeats
	return f.newWorkout(domain.WorkoutRepetition, d,
		fmt.Sprintf("Repetitions - %dx %.0fm", repeats, repMeters),
		fmt.Sprintf("R pace: %dx %.0fm fast with full recovery. Improves running economy and neuromuscular power.", repeats, repMeters),
		[]domain.WorkoutSegment{
			seg(domain.SegmentWarmup, 2, domain.ZoneEasy, "2 km warm-up + drills + strides"),
			block,
			seg(domain.SegmentCooldown, math.Max(d-repKm-2, 1), domain.ZoneEasy, "Cool-down"),
		})
}

// ProgressionRun moves from easy through marathon pace to tempo.
func (f *Factory) ProgressionRun(km float64) domain.Workout {
	d := math.Max(km, minProgressionKm)
	easyKm := math.Round(d * 0.5)
	mpKm := math.Round(d * 0.3)
	tempoKm := math.Max(d-easyKm-mpKm, 1)
	return f.newWorkout(domain.WorkoutProgression, d,
		fmt.Sprintf("Progression Run - %.0f km", d),
		"Start easy and build: easy, then marathon pace, then tempo. Practises the negative split.",
		[]domain.WorkoutSegment{
			seg(domain.SegmentMain, easyKm, domain.ZoneEasy, fmt.Sprintf("%.0f km easy pace", easyKm)),
			seg(domain.SegmentMain, mpKm, domain.ZoneMarathon, fmt.Sprintf("%.0f km marathon pace - lift the tempo", mpKm)),
			seg(domain.SegmentMain, tempoKm, domain.ZoneTempo, fmt.Sprintf("%.0f km threshold pace - finish strong", tempoKm)),
		})
}

// RestDay is a scheduled day off.
func (f *Factory) RestDay() domain.Workout {
	return f.newWorkout(domain.WorkoutRest, 0, "Rest Day",
		"No running today. Sleep, eat well and let the training sink in.", nil)
}
