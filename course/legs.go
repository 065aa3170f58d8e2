package course

import (
	"github.com/a-bouts/course-server/latlon"
)

// Leg is one point-to-point segment of the rounding sequence.
type Leg struct {
	FromName string        `json:"fromName"`
	ToName   string        `json:"toName"`
	From     latlon.LatLon `json:"from"`
	To       latlon.LatLon `json:"to"`
	Distance float64       `json:"distance"`
	Bearing  float64       `json:"bearing"`
}

const (
	StartToken  = "start"
	FinishToken = "finish"
)

type point struct {
	name   string
	latlon latlon.LatLon
}

// BuildLegs expands a rounding sequence into legs. Start and finish line
// centers may be supplied precomputed, otherwise they are derived from the
// marks flagged isStartLine/isFinishLine. Tokens that resolve to nothing are
// skipped. A sequence shorter than two resolved points yields no legs.
func BuildLegs(sequence []string, marks []Mark, startCenter, finishCenter *latlon.LatLon) []Leg {
	byId := make(map[string]Mark, len(marks))
	for _, m := range marks {
		byId[m.Id] = m
	}

	var points []point
	for _, token := range sequence {
		switch token {
		case StartToken:
			if startCenter != nil {
				points = append(points, point{StartToken, *startCenter})
			} else if c, ok := StartLineCenter(marks); ok {
				points = append(points, point{StartToken, c})
			}
		case FinishToken:
			if finishCenter != nil {
				points = append(points, point{FinishToken, *finishCenter})
			} else if c, ok := FinishLineCenter(marks); ok {
				points = append(points, point{FinishToken, c})
			}
		default:
			if m, ok := byId[token]; ok {
				points = append(points, point{token, m.Position})
			}
		}
	}

	if len(points) < 2 {
		return nil
	}

	legs := make([]Leg, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		from, to := points[i-1], points[i]
		d, b := latlon.DistanceAndBearing(from.latlon, to.latlon)
		legs = append(legs, Leg{
			FromName: from.name,
			ToName:   to.name,
			From:     from.latlon,
			To:       to.latlon,
			Distance: d,
			Bearing:  b,
		})
	}
	return legs
}
