// internal/domain/workout.go
package domain

import "time"

// WorkoutType is the archetype of a single session.
type WorkoutType string

const (
	WorkoutEasy        WorkoutType = "easy"
	WorkoutLong        WorkoutType = "long"
	WorkoutLongMP      WorkoutType = "long_mp" // Long run with a marathon pace block
	WorkoutMediumLong  WorkoutType = "medium_long"
	WorkoutTempo       WorkoutType = "tempo"
	WorkoutIntervals   WorkoutType = "intervals"
	WorkoutRepetition  WorkoutType = "repetition"
	WorkoutRecovery    WorkoutType = "recovery"
	WorkoutRacePace    WorkoutType = "race_pace"
	WorkoutProgression WorkoutType = "progression"
	WorkoutRest        WorkoutType = "rest"
)

// IsLongRun reports whether the archetype is one of the weekly long runs.
func (t WorkoutType) IsLongRun() bool {
	return t == WorkoutLong || t == WorkoutLongMP
}

// SegmentType is the role of a segment inside a workout.
type SegmentType string

const (
	SegmentWarmup   SegmentType = "warmup"
	SegmentMain     SegmentType = "main"
	SegmentCooldown SegmentType = "cooldown"
	SegmentInterval SegmentType = "interval"
	SegmentRest     SegmentType = "rest"
)

// WorkoutSegment is one leg of a workout. Either DistanceKm or DurationMin is
// authoritative; a segment with neither is open-ended. For interval blocks
// DistanceKm is the total of all repeats.
type WorkoutSegment struct {
	Type        SegmentType `bson:"type" json:"type"`
	DistanceKm  float64     `bson:"distanceKm,omitempty" json:"distanceKm,omitempty"`
	DurationMin float64     `bson:"durationMin,omitempty" json:"durationMin,omitempty"`
	Zone        ZoneName    `bson:"paceZone" json:"paceZone"`
	Repeats     int         `bson:"repeats,omitempty" json:"repeats,omitempty"`
	Description string      `bson:"description" json:"description"`
}

// IsOpen reports whether the segment has no distance or duration target.
func (s WorkoutSegment) IsOpen() bool {
	return s.DistanceKm <= 0 && s.DurationMin <= 0
}

// NutritionTip is fueling advice attached to long runs.
type NutritionTip struct {
	Title     string   `bson:"title" json:"title"`
	Timing    string   `bson:"timing" json:"timing"`
	Details   []string `bson:"details" json:"details"`
	DuringRun string   `bson:"duringRun,omitempty" json:"duringRun,omitempty"`
	AfterRun  string   `bson:"afterRun,omitempty" json:"afterRun,omitempty"`
}

// Workout represents a single planned session within a TrainingWeek.
type Workout struct {
	ID                   string           `bson:"id" json:"id"`
	WeekNumber           int              `bson:"weekNumber" json:"weekNumber"`
	DayOfWeek            int              `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Monday
	Date                 time.Time        `bson:"date" json:"date"`
	Type                 WorkoutType      `bson:"type" json:"type"`
	Phase                Phase            `bson:"phase" json:"phase"`
	Title                string           `bson:"title" json:"title"`
	Description          string           `bson:"description" json:"description"`
	Nutrition            *NutritionTip    `bson:"nutrition,omitempty" json:"nutrition,omitempty"`
	TotalDistanceKm      float64          `bson:"totalDistanceKm" json:"totalDistanceKm"`
	EstimatedDurationMin int              `bson:"estimatedDurationMin" json:"estimatedDurationMin"`
	Segments             []WorkoutSegment `bson:"segments" json:"segments"`

	// Filled in when the runner reports the session.
	Completed          bool       `bson:"completed" json:"completed"`
	CompletedAt        *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	ActualDistanceKm   float64    `bson:"actualDistanceKm,omitempty" json:"actualDistanceKm,omitempty"`
	ActualDurationMin  float64    `bson:"actualDurationMin,omitempty" json:"actualDurationMin,omitempty"`
	ActualPaceSecPerKm int        `bson:"actualPaceSecPerKm,omitempty" json:"actualPaceSecPerKm,omitempty"`
	Feeling            int        `bson:"feeling,omitempty" json:"feeling,omitempty"` // 1-5
	Notes              string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// clone returns a copy of w that shares no slices with it.
func (w Workout) clone() Workout {
	out := w
	if w.Segments != nil {
		out.Segments = append([]WorkoutSegment(nil), w.Segments...)
	}
	if w.CompletedAt != nil {
		at := *w.CompletedAt
		out.CompletedAt = &at
	}
	return out
}
