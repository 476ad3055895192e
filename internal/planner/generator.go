// internal/planner/generator.go
package planner

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"alcyxob/marathon-trainer/internal/domain"
)

const week = 7 * 24 * time.Hour

// Generator assembles training plans. Now and NewID are injectable so plans
// can be generated deterministically.
type Generator struct {
	Now        func() time.Time
	NewID      func() string
	Heuristics Heuristics
}

// NewGenerator returns a Generator using the wall clock and random UUIDs.
func NewGenerator(h Heuristics) *Generator {
	return &Generator{Now: time.Now, NewID: uuid.NewString, Heuristics: h}
}

// GeneratePlan builds a plan for profile with the default heuristics.
func GeneratePlan(profile domain.RunnerProfile) (*domain.TrainingPlan, error) {
	return NewGenerator(DefaultHeuristics()).GeneratePlan(profile)
}

// PlanWeeks returns the number of whole weeks until the race, clamped to the
// supported plan length.
func PlanWeeks(now, raceDate time.Time) int {
	return ClampPlanWeeks(int(math.Floor(float64(raceDate.Sub(now)) / float64(week))))
}

// PeakWeeklyKm projects the base volume through the loading weeks.
func PeakWeeklyKm(baseKm float64, totalWeeks int, h Heuristics) float64 {
	h = h.withDefaults()
	loading := math.Round(float64(totalWeeks-TaperLength(totalWeeks)) * h.LoadingWeekShare)
	growth := h.GrowthRateHighBase
	if baseKm < h.GrowthRateThresholdKm {
		growth = h.GrowthRateLowBase
	}
	return math.Round(baseKm * math.Pow(growth, loading))
}

// WeekStart returns midnight of the Monday of t's week, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// GeneratePlan validates profile and assembles a complete plan.
func (g *Generator) GeneratePlan(profile domain.RunnerProfile) (*domain.TrainingPlan, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	newID := g.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	h := g.Heuristics.withDefaults()

	totalWeeks := PlanWeeks(now, profile.RaceDate)
	zr, err := CalculatePaceZones(profile.RecentRaceMin, profile.RecentRaceKm)
	if err != nil {
		return nil, err
	}
	schedule := periodize(totalWeeks, h.DeloadVolumeFactor)
	peakKm := PeakWeeklyKm(profile.WeeklyKmBase, totalWeeks, h)
	longRuns := LongRunProgression(schedule, peakKm, h)

	runDays := append([]int(nil), profile.RunDays...)
	sort.Ints(runDays)

	factory := &Factory{Zones: zr.Zones, NewID: newID}
	start := WeekStart(now)

	weeks := make([]domain.TrainingWeek, 0, totalWeeks)
	for w := 1; w <= totalWeeks; w++ {
		phase := schedule.Phase(w)
		weekKm := math.Round(peakKm * schedule.VolumeMultiplier[w-1])
		prescriptions := ScheduleWeek(WeekInput{
			WeekNumber:  w,
			TotalWeeks:  totalWeeks,
			Phase:       phase,
			Deload:      schedule.IsDeload(w),
			WeekKm:      weekKm,
			LongRunKm:   longRuns[w-1],
			RunsPerWeek: len(runDays),
		}, h)

		workouts := make([]domain.Workout, 0, len(prescriptions))
		for i, p := range prescriptions {
			day := runDays[i%len(runDays)]
			wo := factory.Build(p)
			wo.WeekNumber = w
			wo.DayOfWeek = day
			wo.Date = start.AddDate(0, 0, (w-1)*7+day)
			wo.Phase = phase
			workouts = append(workouts, wo)
		}

		weeks = append(weeks, domain.TrainingWeek{
			WeekNumber:      w,
			Phase:           phase,
			TotalDistanceKm: weekKm,
			Workouts:        workouts,
			IsDeload:        schedule.IsDeload(w),
		})
	}

	return &domain.TrainingPlan{
		ID:                   newID(),
		Version:              1,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
		StartDate:            start,
		Profile:              profile,
		PaceZones:            zr.Zones,
		VDOT:                 zr.VDOT,
		PredictedMarathonMin: zr.PredictedMarathonMin,
		PeakWeeklyKm:         peakKm,
		Weeks:                weeks,
		TotalWeeks:           totalWeeks,
	}, nil
}
