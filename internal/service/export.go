package service

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"time"

	"alcyxob/marathon-trainer/internal/domain"
)

// ExportDocument is the device-neutral structured form of a plan. Every step
// carries its target as a speed band in meters per second.
type ExportDocument struct {
	PlanID     string           `json:"planId"`
	RunnerID   string           `json:"runnerId"`
	ExportedAt time.Time        `json:"exportedAt"`
	RaceDate   time.Time        `json:"raceDate"`
	VDOT       float64          `json:"vdot"`
	PaceZones  domain.PaceZones `json:"paceZones"`
	Weeks      []ExportWeek     `json:"weeks"`
}

type ExportWeek struct {
	WeekNumber int             `json:"weekNumber"`
	Phase      domain.Phase    `json:"phase"`
	Workouts   []ExportWorkout `json:"workouts"`
}

type ExportWorkout struct {
	ID          string             `json:"id"`
	Date        time.Time          `json:"date"`
	Type        domain.WorkoutType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Steps       []ExportStep       `json:"steps"`
}

// ExportStep is one segment. For repeated blocks DistanceM is per repeat.
type ExportStep struct {
	Type         domain.SegmentType `json:"type"`
	Zone         domain.ZoneName    `json:"zone"`
	DistanceM    float64            `json:"distanceM,omitempty"`
	DurationSec  int                `json:"durationSec,omitempty"`
	Repeats      int                `json:"repeats,omitempty"`
	RestSec      int                `json:"restSec,omitempty"`
	SpeedLowMps  float64            `json:"speedLowMps"`
	SpeedHighMps float64            `json:"speedHighMps"`
}

var (
	restSecondsRe = regexp.MustCompile(`(\d+)s jog`)
	restMinutesRe = regexp.MustCompile(`(\d+) min jog`)
)

// BuildExport converts a plan into its export form. Rest days are skipped.
func BuildExport(plan *domain.TrainingPlan, at time.Time) ExportDocument {
	doc := ExportDocument{
		PlanID:     plan.ID,
		RunnerID:   plan.RunnerID,
		ExportedAt: at.UTC(),
		RaceDate:   plan.Profile.RaceDate,
		VDOT:       plan.VDOT,
		PaceZones:  plan.PaceZones,
		Weeks:      make([]ExportWeek, 0, len(plan.Weeks)),
	}
	for _, week := range plan.Weeks {
		ew := ExportWeek{WeekNumber: week.WeekNumber, Phase: week.Phase}
		for _, w := range week.Workouts {
			if w.Type == domain.WorkoutRest {
				continue
			}
			ew.Workouts = append(ew.Workouts, ExportWorkout{
				ID:          w.ID,
				Date:        w.Date,
				Type:        w.Type,
				Title:       w.Title,
				Description: w.Description,
				Steps:       exportSteps(w.Segments, plan.PaceZones),
			})
		}
		doc.Weeks = append(doc.Weeks, ew)
	}
	return doc
}

// MarshalExport encodes the document for upload.
func MarshalExport(doc ExportDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func exportSteps(segments []domain.WorkoutSegment, zones domain.PaceZones) []ExportStep {
	steps := make([]ExportStep, 0, len(segments))
	for _, seg := range segments {
		band := zones.Get(seg.Zone)
		low, high := band.SpeedBand()
		step := ExportStep{
			Type:         seg.Type,
			Zone:         seg.Zone,
			DurationSec:  int(math.Round(seg.DurationMin * 60)),
			SpeedLowMps:  round2(low),
			SpeedHighMps: round2(high),
		}
		distanceM := seg.DistanceKm * 1000
		if seg.Repeats > 1 {
			step.Repeats = seg.Repeats
			distanceM /= float64(seg.Repeats)
			step.RestSec = restSeconds(seg.Description, distanceM, band)
		}
		step.DistanceM = math.Round(distanceM)
		steps = append(steps, step)
	}
	return steps
}

// restSeconds reads the jog recovery out of a block description. "Jog = work
// time" recoveries take the duration of one repeat at the slow end of the band.
func restSeconds(desc string, repMeters float64, band domain.PaceRange) int {
	if m := restSecondsRe.FindStringSubmatch(desc); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	if m := restMinutesRe.FindStringSubmatch(desc); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 60
	}
	return int(math.Round(repMeters / 1000 * float64(band.Max)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
