// internal/domain/pace.go
package domain

// ZoneName identifies one of the six training intensities.
type ZoneName string

const (
	ZoneRecovery   ZoneName = "recovery"
	ZoneEasy       ZoneName = "easy"
	ZoneMarathon   ZoneName = "marathon"
	ZoneTempo      ZoneName = "tempo"
	ZoneInterval   ZoneName = "interval"
	ZoneRepetition ZoneName = "repetition"
)

// ZonesFastToSlow lists the zones from the fastest to the slowest pace.
var ZonesFastToSlow = []ZoneName{
	ZoneRepetition, ZoneInterval, ZoneTempo, ZoneMarathon, ZoneEasy, ZoneRecovery,
}

// PaceRange is a band in seconds per kilometer. Min is the faster bound.
type PaceRange struct {
	Min int `bson:"min" json:"min"`
	Max int `bson:"max" json:"max"`
}

// SpeedBand converts the range to meters per second.
// low is the slower speed (from Max), high the faster one (from Min).
func (r PaceRange) SpeedBand() (low, high float64) {
	return paceToSpeed(r.Max), paceToSpeed(r.Min)
}

func paceToSpeed(secPerKm int) float64 {
	if secPerKm <= 0 {
		return 0
	}
	return 1000 / float64(secPerKm)
}

// PaceZones holds the pace bands derived from a runner's VDOT.
type PaceZones struct {
	Recovery   PaceRange `bson:"recovery" json:"recovery"`
	Easy       PaceRange `bson:"easy" json:"easy"`
	Marathon   PaceRange `bson:"marathon" json:"marathon"`
	Tempo      PaceRange `bson:"tempo" json:"tempo"`
	Interval   PaceRange `bson:"interval" json:"interval"`
	Repetition PaceRange `bson:"repetition" json:"repetition"`
}

// Get returns the band for a zone name. Unknown names yield the easy zone.
func (z PaceZones) Get(name ZoneName) PaceRange {
	switch name {
	case ZoneRecovery:
		return z.Recovery
	case ZoneMarathon:
		return z.Marathon
	case ZoneTempo:
		return z.Tempo
	case ZoneInterval:
		return z.Interval
	case ZoneRepetition:
		return z.Repetition
	default:
		return z.Easy
	}
}
