package service_test

import (
	"testing"
	"time"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/planner"
	"alcyxob/marathon-trainer/internal/service"
)

func TestBuildExportIntervalSteps(t *testing.T) {
	zr, err := planner.CalculatePaceZones(50, 10)
	if err != nil {
		t.Fatalf("CalculatePaceZones: %v", err)
	}
	f := planner.NewFactory(zr.Zones)
	plan := &domain.TrainingPlan{
		ID:        "plan-1",
		PaceZones: zr.Zones,
		Weeks: []domain.TrainingWeek{{
			WeekNumber: 1,
			Workouts: []domain.Workout{
				f.IntervalSession(10, 1000, 5),
				f.CruiseIntervals(12, 1.6, 4),
				f.RepetitionSession(8, 400, 6),
				f.RestDay(),
			},
		}},
	}

	doc := service.BuildExport(plan, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	workouts := doc.Weeks[0].Workouts
	if len(workouts) != 3 {
		t.Fatalf("got %d exported workouts, want 3 (rest day skipped)", len(workouts))
	}

	repBand := zr.Zones.Repetition
	tests := []struct {
		name      string
		workout   service.ExportWorkout
		repeats   int
		distanceM float64
		restSec   int
	}{
		{"intervals", workouts[0], 5, 1000, 180},
		{"cruise", workouts[1], 4, 1600, 60},
		{"repetitions", workouts[2], 6, 400, int(0.4*float64(repBand.Max) + 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var block *service.ExportStep
			for i := range tt.workout.Steps {
				if tt.workout.Steps[i].Repeats > 0 {
					block = &tt.workout.Steps[i]
				}
			}
			if block == nil {
				t.Fatalf("no repeated block in %s", tt.workout.Title)
			}
			if block.Repeats != tt.repeats || block.DistanceM != tt.distanceM || block.RestSec != tt.restSec {
				t.Fatalf("block = %+v, want %dx%.0fm rest %ds", block, tt.repeats, tt.distanceM, tt.restSec)
			}
			if block.SpeedLowMps > block.SpeedHighMps {
				t.Fatalf("speed band inverted: %+v", block)
			}
		})
	}
}
