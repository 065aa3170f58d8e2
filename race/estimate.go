package race

import (
	"fmt"
	"math"

	"github.com/a-bouts/course-server/course"
	"github.com/a-bouts/course-server/latlon"
	"github.com/a-bouts/course-server/polar"
)

// Cosine floors guarding the sailing-distance division at extreme optimal
// angles.
const (
	upwindCosFloor   = 0.5
	downwindCosFloor = 0.7
)

// Distance sailed per tack upwind and per jibe downwind, in nautical miles.
const (
	distancePerTack = 0.2
	distancePerJibe = 0.3
)

type LegEstimate struct {
	FromName        string            `json:"fromName"`
	ToName          string            `json:"toName"`
	Distance        float64           `json:"distance"`
	SailingDistance float64           `json:"sailingDistance"`
	Bearing         float64           `json:"bearing"`
	Twa             float64           `json:"twa"`
	PointOfSail     polar.PointOfSail `json:"pointOfSail"`
	Band            polar.Band        `json:"band"`
	Vmg             float64           `json:"vmg"`
	BoatSpeed       float64           `json:"boatSpeed"`
	Tacks           int               `json:"tacks"`
	Jibes           int               `json:"jibes"`
	Seconds         float64           `json:"seconds"`
}

type Estimate struct {
	Legs                 []LegEstimate `json:"legs"`
	TotalDistance        float64       `json:"totalDistance"`
	TotalSailingDistance float64       `json:"totalSailingDistance"`
	TotalSeconds         float64       `json:"totalSeconds"`
	Formatted            string        `json:"formatted"`
}

// EstimateTime runs the VMG model over the legs of a course for a boat class
// and a single true wind direction/speed. Mark-rounding time is charged at
// the start of every leg but the first, plus once more for the finish.
func EstimateTime(legs []course.Leg, boat polar.BoatClass, windDirection, windSpeed float64) Estimate {
	est := Estimate{}

	band := polar.BandFor(windSpeed)

	for i, leg := range legs {
		le := estimateLeg(leg, boat, windDirection, band)
		if i > 0 && le.Seconds > 0 {
			le.Seconds += boat.RoundingSeconds
		}
		est.Legs = append(est.Legs, le)
		est.TotalDistance += le.Distance
		est.TotalSailingDistance += le.SailingDistance
		est.TotalSeconds += le.Seconds
	}

	if len(est.Legs) > 0 {
		// one last rounding for the finish
		est.TotalSeconds += boat.RoundingSeconds
	}
	est.Formatted = FormatDuration(est.TotalSeconds)

	return est
}

func estimateLeg(leg course.Leg, boat polar.BoatClass, windDirection float64, band polar.Band) LegEstimate {
	le := LegEstimate{
		FromName: leg.FromName,
		ToName:   leg.ToName,
		Distance: leg.Distance,
		Bearing:  leg.Bearing,
		Band:     band,
	}

	le.Twa = math.Abs(latlon.AngleDiff(leg.Bearing, windDirection))
	le.PointOfSail = boat.PointOfSailFor(le.Twa)
	le.Vmg = boat.Vmg(le.PointOfSail, band)

	if leg.Distance == 0 {
		return le
	}

	le.SailingDistance = leg.Distance
	maneuverSeconds := 0.0

	switch le.PointOfSail {
	case polar.Upwind:
		cosTwa := math.Max(math.Cos(boat.Upwind.Twa*math.Pi/180), upwindCosFloor)
		le.SailingDistance = leg.Distance / cosTwa
		le.BoatSpeed = le.Vmg / cosTwa
		le.Tacks = int(math.Max(2, math.Ceil(le.SailingDistance/distancePerTack)))
		maneuverSeconds = float64(le.Tacks) * boat.TackSeconds
	case polar.Downwind:
		cosTwa := math.Max(math.Cos(boat.Downwind.Twa*math.Pi/180), downwindCosFloor)
		le.SailingDistance = leg.Distance / cosTwa
		le.BoatSpeed = le.Vmg / cosTwa
		le.Jibes = int(math.Max(1, math.Ceil(le.SailingDistance/distancePerJibe)))
		maneuverSeconds = float64(le.Jibes) * boat.JibeSeconds
	default:
		le.BoatSpeed = le.Vmg
	}

	if le.BoatSpeed > 0 {
		le.Seconds = le.SailingDistance/le.BoatSpeed*3600 + maneuverSeconds
	}

	return le
}

// FormatDuration renders seconds as "1h 23m" above one hour, "23m 45s"
// below.
func FormatDuration(seconds float64) string {
	s := int(math.Round(seconds))
	if s >= 3600 {
		return fmt.Sprintf("%dh %dm", s/3600, (s%3600)/60)
	}
	return fmt.Sprintf("%dm %ds", s/60, s%60)
}
