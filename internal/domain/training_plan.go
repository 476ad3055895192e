// internal/domain/training_plan.go
package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrWorkoutNotInPlan  = errors.New("workout not found in plan")
	ErrInvalidCompletion = errors.New("invalid workout completion")
)

// Phase is a periodization block.
type Phase string

const (
	PhaseBase  Phase = "base"
	PhaseBuild Phase = "build"
	PhasePeak  Phase = "peak"
	PhaseTaper Phase = "taper"
)

// Order returns the position of the phase in a plan (base = 0).
func (p Phase) Order() int {
	switch p {
	case PhaseBase:
		return 0
	case PhaseBuild:
		return 1
	case PhasePeak:
		return 2
	case PhaseTaper:
		return 3
	}
	return -1
}

// TrainingWeek groups the workouts of one plan week.
type TrainingWeek struct {
	WeekNumber      int       `bson:"weekNumber" json:"weekNumber"`
	Phase           Phase     `bson:"phase" json:"phase"`
	TotalDistanceKm float64   `bson:"totalDistanceKm" json:"totalDistanceKm"`
	Workouts        []Workout `bson:"workouts" json:"workouts"`
	IsDeload        bool      `bson:"isDeloadWeek" json:"isDeloadWeek"`
}

// TrainingPlan is the aggregate root of a generated plan. It is stored as one
// document and replaced as a whole on every change.
type TrainingPlan struct {
	ID                   string         `bson:"_id" json:"id"` // UUID
	RunnerID             string         `bson:"runnerId,omitempty" json:"runnerId,omitempty"`
	Version              int            `bson:"version" json:"version"`
	IsActive             bool           `bson:"isActive" json:"isActive"`
	CreatedAt            time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time      `bson:"updatedAt" json:"updatedAt"`
	StartDate            time.Time      `bson:"startDate" json:"startDate"`
	Profile              RunnerProfile  `bson:"profile" json:"profile"`
	PaceZones            PaceZones      `bson:"paceZones" json:"paceZones"`
	VDOT                 float64        `bson:"vdot" json:"vdot"`
	PredictedMarathonMin float64        `bson:"predictedMarathonMin" json:"predictedMarathonMin"`
	PeakWeeklyKm         float64        `bson:"peakWeeklyKm" json:"peakWeeklyKm"`
	Weeks                []TrainingWeek `bson:"weeks" json:"weeks"`
	TotalWeeks           int            `bson:"totalWeeks" json:"totalWeeks"`
}

// Completion carries what the runner reports after a session.
type Completion struct {
	ActualDistanceKm  float64
	ActualDurationMin float64
	Feeling           int // 0 = not given, else 1-5
	Notes             string
}

// Validate rejects negative actuals and feelings outside 1-5.
func (c Completion) Validate() error {
	if c.ActualDistanceKm < 0 || c.ActualDurationMin < 0 {
		return fmt.Errorf("%w: actual distance and duration cannot be negative", ErrInvalidCompletion)
	}
	if c.Feeling != 0 && (c.Feeling < 1 || c.Feeling > 5) {
		return fmt.Errorf("%w: feeling must be between 1 and 5", ErrInvalidCompletion)
	}
	return nil
}

// PaceSecPerKm returns duration*60/distance rounded, or 0 if either is missing.
func (c Completion) PaceSecPerKm() int {
	if c.ActualDistanceKm <= 0 || c.ActualDurationMin <= 0 {
		return 0
	}
	return int(math.Round(c.ActualDurationMin * 60 / c.ActualDistanceKm))
}

// FindWorkout locates a workout by ID and returns its week and slot index.
func (p *TrainingPlan) FindWorkout(workoutID string) (weekIdx, workoutIdx int, found bool) {
	for wi := range p.Weeks {
		for i := range p.Weeks[wi].Workouts {
			if p.Weeks[wi].Workouts[i].ID == workoutID {
				return wi, i, true
			}
		}
	}
	return -1, -1, false
}

// WithWorkoutCompleted returns a new plan in which the given workout is marked
// complete. Only the path from the root to the workout is copied; the
// receiver is left untouched.
func (p *TrainingPlan) WithWorkoutCompleted(workoutID string, c Completion, at time.Time) (*TrainingPlan, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	wi, i, ok := p.FindWorkout(workoutID)
	if !ok {
		return nil, ErrWorkoutNotInPlan
	}

	next := *p
	next.Weeks = append([]TrainingWeek(nil), p.Weeks...)
	week := next.Weeks[wi]
	week.Workouts = append([]Workout(nil), week.Workouts...)

	w := week.Workouts[i].clone()
	completedAt := at.UTC()
	w.Completed = true
	w.CompletedAt = &completedAt
	w.ActualDistanceKm = c.ActualDistanceKm
	w.ActualDurationMin = c.ActualDurationMin
	w.ActualPaceSecPerKm = c.PaceSecPerKm()
	w.Feeling = c.Feeling
	w.Notes = c.Notes

	week.Workouts[i] = w
	next.Weeks[wi] = week
	next.UpdatedAt = at.UTC()
	return &next, nil
}

// CurrentWeek returns the 1-based plan week containing now, clamped to the plan.
func (p *TrainingPlan) CurrentWeek(now time.Time) int {
	if p.TotalWeeks <= 0 {
		return 1
	}
	elapsed := now.Sub(p.StartDate)
	week := int(math.Floor(elapsed.Hours()/(24*7))) + 1
	if week < 1 {
		return 1
	}
	if week > p.TotalWeeks {
		return p.TotalWeeks
	}
	return week
}

// WorkoutFor returns the workout scheduled on now's calendar day, or failing
// that the nearest upcoming workout that is not yet completed.
func (p *TrainingPlan) WorkoutFor(now time.Time) (*Workout, bool) {
	y, m, d := now.UTC().Date()
	for wi := range p.Weeks {
		for i := range p.Weeks[wi].Workouts {
			w := &p.Weeks[wi].Workouts[i]
			wy, wm, wd := w.Date.UTC().Date()
			if wy == y && wm == m && wd == d {
				return w, true
			}
		}
	}

	var next *Workout
	for wi := range p.Weeks {
		for i := range p.Weeks[wi].Workouts {
			w := &p.Weeks[wi].Workouts[i]
			if w.Completed || !w.Date.After(now) {
				continue
			}
			if next == nil || w.Date.Before(next.Date) {
				next = w
			}
		}
	}
	return next, next != nil
}

// WeeklyStats summarizes planned versus completed work for one week.
type WeeklyStats struct {
	WeekNumber        int     `json:"weekNumber"`
	Phase             Phase   `json:"phase"`
	PlannedKm         float64 `json:"plannedKm"`
	ActualKm          float64 `json:"actualKm"`
	CompletedWorkouts int     `json:"completedWorkouts"`
	TotalWorkouts     int     `json:"totalWorkouts"`
	AvgPaceSecPerKm   int     `json:"avgPaceSecPerKm"`
	AvgFeeling        float64 `json:"avgFeeling"`
}

// WeeklyStats computes per-week progress. Average pace is distance weighted.
func (p *TrainingPlan) WeeklyStats() []WeeklyStats {
	stats := make([]WeeklyStats, 0, len(p.Weeks))
	for _, week := range p.Weeks {
		s := WeeklyStats{
			WeekNumber:    week.WeekNumber,
			Phase:         week.Phase,
			PlannedKm:     week.TotalDistanceKm,
			TotalWorkouts: len(week.Workouts),
		}
		var pacedKm, pacedMin float64
		var feelingSum, feelingCount int
		for _, w := range week.Workouts {
			if !w.Completed {
				continue
			}
			s.CompletedWorkouts++
			s.ActualKm += w.ActualDistanceKm
			if w.ActualDistanceKm > 0 && w.ActualDurationMin > 0 {
				pacedKm += w.ActualDistanceKm
				pacedMin += w.ActualDurationMin
			}
			if w.Feeling > 0 {
				feelingSum += w.Feeling
				feelingCount++
			}
		}
		if pacedKm > 0 {
			s.AvgPaceSecPerKm = int(math.Round(pacedMin * 60 / pacedKm))
		}
		if feelingCount > 0 {
			s.AvgFeeling = math.Round(float64(feelingSum)/float64(feelingCount)*10) / 10
		}
		stats = append(stats, s)
	}
	return stats
}
