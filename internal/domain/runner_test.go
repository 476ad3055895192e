package domain_test

import (
	"errors"
	"testing"
	"time"

	"alcyxob/marathon-trainer/internal/domain"
)

func validProfile() domain.RunnerProfile {
	return domain.RunnerProfile{
		Level:         domain.LevelBeginner,
		RaceDate:      time.Date(2027, 4, 4, 0, 0, 0, 0, time.UTC),
		RecentRaceMin: 28,
		RecentRaceKm:  5,
		RunsPerWeek:   4,
		RunDays:       []int{0, 2, 4, 6},
		WeeklyKmBase:  30,
	}
}

func TestRunnerProfileValidate(t *testing.T) {
	t.Parallel()

	if err := validProfile().Validate(); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*domain.RunnerProfile)
	}{
		{"unknown level", func(p *domain.RunnerProfile) { p.Level = "elite" }},
		{"zero recent race distance", func(p *domain.RunnerProfile) { p.RecentRaceKm = 0 }},
		{"negative goal", func(p *domain.RunnerProfile) { p.GoalTimeMin = -1 }},
		{"six days", func(p *domain.RunnerProfile) { p.RunDays = []int{0, 1, 2, 3, 4, 5}; p.RunsPerWeek = 6 }},
		{"count mismatch", func(p *domain.RunnerProfile) { p.RunsPerWeek = 3 }},
		{"negative day", func(p *domain.RunnerProfile) { p.RunDays = []int{-1, 2, 4, 6} }},
		{"missing race", func(p *domain.RunnerProfile) { p.RaceDate = time.Time{} }},
	}
	for _, tc := range tests {
		p := validProfile()
		tc.mutate(&p)
		if err := p.Validate(); !errors.Is(err, domain.ErrInvalidProfile) {
			t.Fatalf("%s: err = %v, want ErrInvalidProfile", tc.name, err)
		}
	}
}

func TestPaceRangeSpeedBand(t *testing.T) {
	t.Parallel()

	low, high := domain.PaceRange{Min: 250, Max: 400}.SpeedBand()
	if low != 2.5 || high != 4 {
		t.Fatalf("SpeedBand = (%v, %v), want (2.5, 4)", low, high)
	}
	if l, h := (domain.PaceRange{}).SpeedBand(); l != 0 || h != 0 {
		t.Fatalf("zero range = (%v, %v)", l, h)
	}
}

func TestRunnerDefaultsValidate(t *testing.T) {
	t.Parallel()

	valid := []domain.RunnerDefaults{
		{},
		{Level: domain.LevelAdvanced},
		{WeeklyKmBase: 40, RunDays: []int{1, 3, 5}},
	}
	for _, d := range valid {
		if err := d.Validate(); err != nil {
			t.Fatalf("%+v rejected: %v", d, err)
		}
	}

	invalid := []domain.RunnerDefaults{
		{Level: "elite"},
		{WeeklyKmBase: -5},
		{RunDays: []int{1, 3}},
		{RunDays: []int{1, 3, 3}},
		{RunDays: []int{1, 3, 7}},
	}
	for _, d := range invalid {
		if err := d.Validate(); !errors.Is(err, domain.ErrInvalidProfile) {
			t.Fatalf("%+v: err = %v, want ErrInvalidProfile", d, err)
		}
	}
}

func TestRunnerDefaultsApplyTo(t *testing.T) {
	t.Parallel()

	d := domain.RunnerDefaults{Level: domain.LevelAdvanced, WeeklyKmBase: 45, RunDays: []int{0, 2, 4, 6}}

	p := d.ApplyTo(domain.RunnerProfile{RecentRaceMin: 50, RecentRaceKm: 10})
	if p.Level != domain.LevelAdvanced || p.WeeklyKmBase != 45 || p.RunsPerWeek != 4 || len(p.RunDays) != 4 {
		t.Fatalf("defaults not applied: %+v", p)
	}
	p.RunDays[0] = 5
	if d.RunDays[0] != 0 {
		t.Fatalf("applied run days alias the stored defaults")
	}

	explicit := validProfile()
	d.RunDays = []int{1, 3, 5}
	if got := d.ApplyTo(explicit); got.Level != explicit.Level || got.WeeklyKmBase != 30 || got.RunsPerWeek != 4 || got.RunDays[0] != 0 {
		t.Fatalf("explicit fields overwritten: %+v", got)
	}
}
