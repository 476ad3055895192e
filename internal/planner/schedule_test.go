package planner_test

import (
	"testing"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/planner"
)

func TestSelectStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phase  domain.Phase
		deload bool
		want   planner.Strategy
	}{
		{domain.PhaseBase, false, planner.StrategyBase},
		{domain.PhaseBuild, false, planner.StrategyBuild},
		{domain.PhasePeak, false, planner.StrategyPeak},
		{domain.PhaseTaper, false, planner.StrategyTaper},
		{domain.PhaseBase, true, planner.StrategyDeload},
		{domain.PhaseBuild, true, planner.StrategyDeload},
	}
	for _, tc := range tests {
		if got := planner.SelectStrategy(tc.phase, tc.deload); got != tc.want {
			t.Fatalf("SelectStrategy(%s, %v) = %s, want %s", tc.phase, tc.deload, got, tc.want)
		}
	}
}

func TestScheduleWeekSizeAndLongRunLast(t *testing.T) {
	t.Parallel()

	h := planner.DefaultHeuristics()
	cases := []struct {
		name   string
		week   int
		phase  domain.Phase
		deload bool
	}{
		{"base", 1, domain.PhaseBase, false},
		{"deload", 3, domain.PhaseBase, true},
		{"build odd", 5, domain.PhaseBuild, false},
		{"build even", 4, domain.PhaseBuild, false},
		{"peak", 8, domain.PhasePeak, false},
		{"taper", 10, domain.PhaseTaper, false},
	}
	for _, tc := range cases {
		for runs := domain.MinRunsPerWeek; runs <= domain.MaxRunsPerWeek; runs++ {
			got := planner.ScheduleWeek(planner.WeekInput{
				WeekNumber:  tc.week,
				TotalWeeks:  12,
				Phase:       tc.phase,
				Deload:      tc.deload,
				WeekKm:      40,
				LongRunKm:   18,
				RunsPerWeek: runs,
			}, h)
			if len(got) != runs {
				t.Fatalf("%s/%d runs: got %d workouts", tc.name, runs, len(got))
			}
			if last := got[len(got)-1].Type; !last.IsLongRun() {
				t.Fatalf("%s/%d runs: last workout is %s, want a long run", tc.name, runs, last)
			}
			for _, p := range got[:len(got)-1] {
				if p.Type.IsLongRun() {
					t.Fatalf("%s/%d runs: long run before the end: %+v", tc.name, runs, got)
				}
			}
		}
	}
}

func TestScheduleWeekRaceWeekHasNoLongRun(t *testing.T) {
	t.Parallel()

	for runs := domain.MinRunsPerWeek; runs <= domain.MaxRunsPerWeek; runs++ {
		got := planner.ScheduleWeek(planner.WeekInput{
			WeekNumber:  12,
			TotalWeeks:  12,
			Phase:       domain.PhaseTaper,
			WeekKm:      17,
			LongRunKm:   9,
			RunsPerWeek: runs,
		}, planner.DefaultHeuristics())
		if len(got) != runs {
			t.Fatalf("race week with %d runs: got %d workouts", runs, len(got))
		}
		for _, p := range got {
			if p.Type.IsLongRun() {
				t.Fatalf("race week contains a long run: %+v", got)
			}
		}
	}
}

func TestScheduleWeekBuildAlternatesQualitySession(t *testing.T) {
	t.Parallel()

	in := planner.WeekInput{TotalWeeks: 12, Phase: domain.PhaseBuild, WeekKm: 40, LongRunKm: 20, RunsPerWeek: 3}

	in.WeekNumber = 4
	even := planner.ScheduleWeek(in, planner.DefaultHeuristics())
	if even[0].Type != domain.WorkoutIntervals || even[0].RepMeters != 1000 || even[0].Repeats != 5 {
		t.Fatalf("even build week Q1 = %+v, want 5x1000m intervals", even[0])
	}

	in.WeekNumber = 5
	odd := planner.ScheduleWeek(in, planner.DefaultHeuristics())
	if !odd[0].Cruise || odd[0].RepMeters != 1600 || odd[0].Repeats != 4 {
		t.Fatalf("odd build week Q1 = %+v, want 4x1600m cruise intervals", odd[0])
	}
	if long := odd[len(odd)-1]; long.Type != domain.WorkoutLongMP || long.QualityKm != 6 {
		t.Fatalf("build long run = %+v, want long_mp with 6 km at MP", long)
	}
}

func TestScheduleWeekDistances(t *testing.T) {
	t.Parallel()

	// 32 km week, 14 km long run, 3 runs: other days average 9 km.
	got := planner.ScheduleWeek(planner.WeekInput{
		WeekNumber: 1, TotalWeeks: 12, Phase: domain.PhaseBase,
		WeekKm: 32, LongRunKm: 14, RunsPerWeek: 3,
	}, planner.DefaultHeuristics())

	want := []planner.Prescription{
		{Type: domain.WorkoutTempo, DistanceKm: 10, QualityKm: 3},
		{Type: domain.WorkoutEasy, DistanceKm: 9},
		{Type: domain.WorkoutLong, DistanceKm: 14},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestScheduleWeekClampsLowVolume(t *testing.T) {
	t.Parallel()

	got := planner.ScheduleWeek(planner.WeekInput{
		WeekNumber: 3, TotalWeeks: 8, Phase: domain.PhaseBuild, Deload: true,
		WeekKm: 10, LongRunKm: 8, RunsPerWeek: 5,
	}, planner.DefaultHeuristics())
	for _, p := range got {
		if p.DistanceKm < 3 {
			t.Fatalf("deload prescription below minimum: %+v", p)
		}
	}
}
