// internal/planner/pace.go
package planner

import (
	"fmt"
	"math"

	"alcyxob/marathon-trainer/internal/domain"
)

// Numeric search parameters for the Daniels/Gilbert model.
const (
	NewtonInitialVelocity   = 200.0 // m/min
	NewtonTolerance         = 0.001 // m/min
	NewtonMaxIterations     = 50
	MinVelocityMPerMin      = 50.0
	MarathonInitialMinutes  = 240.0
	MarathonToleranceMeters = 1.0
	MarathonMaxIterations   = 100
	MarathonMeters          = 42195.0
)

// Nominal durations (minutes) at which each zone is evaluated.
const (
	zoneAerobicMinutes    = 30.0
	zoneTempoMinutes      = 60.0
	zoneIntervalMinutes   = 11.0
	zoneRepetitionMinutes = 3.5

	// ZoneBufferSec widens the point estimates of M, T, I and R into bands.
	ZoneBufferSec = 3.0
)

// OxygenCost is the VO2 (ml/kg/min) needed to run at velocity m/min.
func OxygenCost(velocity float64) float64 {
	return -4.60 + 0.182258*velocity + 0.000104*velocity*velocity
}

func oxygenCostSlope(velocity float64) float64 {
	return 0.182258 + 2*0.000104*velocity
}

// SustainableFraction is the share of VO2max that can be held for durationMin.
func SustainableFraction(durationMin float64) float64 {
	return 0.8 + 0.1894393*math.Exp(-0.012778*durationMin) +
		0.2989558*math.Exp(-0.1932605*durationMin)
}

// CalculateVDOT derives the VDOT index from a performance. Both arguments
// must be positive; callers validate.
func CalculateVDOT(distanceMeters, durationMin float64) float64 {
	velocity := distanceMeters / durationMin
	return OxygenCost(velocity) / SustainableFraction(durationMin)
}

// VelocityAtVDOT returns the velocity (m/min) a runner with the given VDOT can
// hold for durationMin.
func VelocityAtVDOT(vdot, durationMin float64) float64 {
	v, _ := SolveVelocity(vdot, durationMin, NewtonMaxIterations)
	return v
}

// SolveVelocity inverts the oxygen cost curve with Newton-Raphson. It stops
// after maxIter steps even without convergence and returns the last iterate,
// clamped to MinVelocityMPerMin.
func SolveVelocity(vdot, durationMin float64, maxIter int) (velocity float64, converged bool) {
	target := vdot * SustainableFraction(durationMin)
	v := NewtonInitialVelocity
	for i := 0; i < maxIter; i++ {
		delta := (OxygenCost(v) - target) / oxygenCostSlope(v)
		v -= delta
		if math.Abs(delta) < NewtonTolerance {
			converged = true
			break
		}
	}
	return math.Max(v, MinVelocityMPerMin), converged
}

// PredictMarathonMinutes estimates the marathon finishing time for a VDOT.
func PredictMarathonMinutes(vdot float64) float64 {
	t, _ := SolveMarathonMinutes(vdot, MarathonMaxIterations)
	return t
}

// SolveMarathonMinutes runs the duration fixed-point search: the duration is
// rescaled by target/implied distance until the error is under
// MarathonToleranceMeters or maxIter is reached.
func SolveMarathonMinutes(vdot float64, maxIter int) (minutes float64, converged bool) {
	t := MarathonInitialMinutes
	for i := 0; i < maxIter; i++ {
		implied := VelocityAtVDOT(vdot, t) * t
		if math.Abs(implied-MarathonMeters) < MarathonToleranceMeters {
			return t, true
		}
		t = t * MarathonMeters / implied
	}
	return t, false
}

// PaceFromVelocity converts m/min into seconds per kilometer.
func PaceFromVelocity(velocity float64) float64 {
	return 1000 / velocity * 60
}

func roundPace(secPerKm float64) int {
	return int(math.Round(secPerKm))
}

func bandAround(velocity float64) domain.PaceRange {
	pace := PaceFromVelocity(velocity)
	return domain.PaceRange{
		Min: roundPace(pace - ZoneBufferSec),
		Max: roundPace(pace + ZoneBufferSec),
	}
}

func bandBetween(vdot, fastFraction, slowFraction float64) domain.PaceRange {
	return domain.PaceRange{
		Min: roundPace(PaceFromVelocity(VelocityAtVDOT(vdot*fastFraction, zoneAerobicMinutes))),
		Max: roundPace(PaceFromVelocity(VelocityAtVDOT(vdot*slowFraction, zoneAerobicMinutes))),
	}
}

// ZoneResult is the output of the pace zone calculator.
type ZoneResult struct {
	Zones                domain.PaceZones
	VDOT                 float64 // rounded to one decimal
	PredictedMarathonMin float64
}

// CalculatePaceZones derives VDOT and the six training zones from a recent
// performance over distanceKm in recentMin minutes.
func CalculatePaceZones(recentMin, distanceKm float64) (ZoneResult, error) {
	if recentMin <= 0 || distanceKm <= 0 {
		return ZoneResult{}, fmt.Errorf("%w: performance needs positive duration and distance", domain.ErrInvalidProfile)
	}
	vdot := CalculateVDOT(distanceKm*1000, recentMin)
	if math.IsNaN(vdot) || vdot <= 0 {
		return ZoneResult{}, fmt.Errorf("%w: performance of %.2f km in %.1f min is too slow to model (VDOT %.1f)",
			domain.ErrInvalidProfile, distanceKm, recentMin, vdot)
	}
	marathonMin := PredictMarathonMinutes(vdot)

	zones := domain.PaceZones{
		Recovery:   bandBetween(vdot, 0.65, 0.58),
		Easy:       bandBetween(vdot, 0.79, 0.65),
		Marathon:   bandAround(VelocityAtVDOT(vdot, marathonMin)),
		Tempo:      bandAround(VelocityAtVDOT(vdot, zoneTempoMinutes)),
		Interval:   bandAround(VelocityAtVDOT(vdot, zoneIntervalMinutes)),
		Repetition: bandAround(VelocityAtVDOT(vdot, zoneRepetitionMinutes)),
	}

	// Velocities pinned at MinVelocityMPerMin collapse a band.
	for _, name := range domain.ZonesFastToSlow {
		if r := zones.Get(name); r.Min >= r.Max {
			return ZoneResult{}, fmt.Errorf("%w: %s zone collapses at VDOT %.1f", domain.ErrInvalidProfile, name, vdot)
		}
	}

	return ZoneResult{
		Zones:                zones,
		VDOT:                 math.Round(vdot*10) / 10,
		PredictedMarathonMin: math.Round(marathonMin*10) / 10,
	}, nil
}
