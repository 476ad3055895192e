// internal/domain/runner.go
package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidProfile is returned when a RunnerProfile cannot be planned for.
var ErrInvalidProfile = errors.New("invalid runner profile")

// ExperienceLevel describes how long the runner has been training.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
)

// Valid reports whether l is one of the known levels.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

const (
	MinRunsPerWeek = 3
	MaxRunsPerWeek = 5
)

// RunnerProfile is everything the planner needs to know about a runner.
// RunDays uses 0 = Monday ... 6 = Sunday.
type RunnerProfile struct {
	Level         ExperienceLevel `bson:"level" json:"level"`
	RaceDate      time.Time       `bson:"raceDate" json:"raceDate"`
	GoalTimeMin   float64         `bson:"goalTimeMin" json:"goalTimeMin"`
	RecentRaceMin float64         `bson:"recentRaceMin" json:"recentRaceMin"` // Fitness probe duration
	RecentRaceKm  float64         `bson:"recentRaceKm" json:"recentRaceKm"`   // Fitness probe distance
	RunsPerWeek   int             `bson:"runsPerWeek" json:"runsPerWeek"`
	RunDays       []int           `bson:"runDays" json:"runDays"`
	WeeklyKmBase  float64         `bson:"weeklyKmBase" json:"weeklyKmBase"`
	HeightCm      float64         `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg      float64         `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
}

// Validate checks the preconditions of plan generation.
func (p RunnerProfile) Validate() error {
	if p.Level != "" && !p.Level.Valid() {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidProfile, p.Level)
	}
	if p.RecentRaceMin <= 0 || p.RecentRaceKm <= 0 {
		return fmt.Errorf("%w: recent performance needs a positive duration and distance", ErrInvalidProfile)
	}
	if p.WeeklyKmBase < 0 {
		return fmt.Errorf("%w: weekly base distance cannot be negative", ErrInvalidProfile)
	}
	if p.GoalTimeMin < 0 {
		return fmt.Errorf("%w: goal time cannot be negative", ErrInvalidProfile)
	}
	if err := validateRunDays(p.RunDays); err != nil {
		return err
	}
	if p.RunsPerWeek != len(p.RunDays) {
		return fmt.Errorf("%w: runsPerWeek (%d) must match the number of run days (%d)",
			ErrInvalidProfile, p.RunsPerWeek, len(p.RunDays))
	}
	if p.RaceDate.IsZero() {
		return fmt.Errorf("%w: race date is required", ErrInvalidProfile)
	}
	return nil
}

func validateRunDays(days []int) error {
	if len(days) < MinRunsPerWeek || len(days) > MaxRunsPerWeek {
		return fmt.Errorf("%w: between %d and %d run days are required, got %d",
			ErrInvalidProfile, MinRunsPerWeek, MaxRunsPerWeek, len(days))
	}
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: run day %d is not a weekday index (0-6)", ErrInvalidProfile, d)
		}
		if seen[d] {
			return fmt.Errorf("%w: run day %d listed twice", ErrInvalidProfile, d)
		}
		seen[d] = true
	}
	return nil
}

// RunnerDefaults are training settings stored on a runner's account. They
// fill the fields a plan request leaves out.
type RunnerDefaults struct {
	Level        ExperienceLevel `bson:"level,omitempty" json:"level,omitempty"`
	WeeklyKmBase float64         `bson:"weeklyKmBase,omitempty" json:"weeklyKmBase,omitempty"`
	RunDays      []int           `bson:"runDays,omitempty" json:"runDays,omitempty"`
}

// Validate checks the fields that are set.
func (d RunnerDefaults) Validate() error {
	if d.Level != "" && !d.Level.Valid() {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidProfile, d.Level)
	}
	if d.WeeklyKmBase < 0 {
		return fmt.Errorf("%w: weekly base distance cannot be negative", ErrInvalidProfile)
	}
	if len(d.RunDays) > 0 {
		return validateRunDays(d.RunDays)
	}
	return nil
}

// ApplyTo returns p with its empty level, base volume and run days taken
// from d. Run days are only taken as a whole, together with RunsPerWeek.
func (d RunnerDefaults) ApplyTo(p RunnerProfile) RunnerProfile {
	if p.Level == "" {
		p.Level = d.Level
	}
	if p.WeeklyKmBase == 0 {
		p.WeeklyKmBase = d.WeeklyKmBase
	}
	if len(p.RunDays) == 0 && len(d.RunDays) > 0 {
		p.RunDays = append([]int(nil), d.RunDays...)
		p.RunsPerWeek = len(p.RunDays)
	}
	return p
}
