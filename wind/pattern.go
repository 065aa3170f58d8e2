package wind

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/a-bouts/course-server/latlon"
)

type PatternType string

const (
	Stable                PatternType = "stable"
	Persistent            PatternType = "persistent"
	Oscillating           PatternType = "oscillating"
	OscillatingPersistent PatternType = "oscillating_persistent"
)

// Pattern is the tactical classification of a wind-direction history.
type Pattern struct {
	Type                PatternType `json:"type"`
	Confidence          float64     `json:"confidence"`
	MedianDirection     float64     `json:"medianDirection"`
	ShiftRange          float64     `json:"shiftRange"`
	PeriodMinutes       *float64    `json:"periodMinutes,omitempty"`
	TrendDegreesPerHour float64     `json:"trendDegreesPerHour"`
}

type ShiftEvent struct {
	Time      time.Time `json:"time"`
	Direction float64   `json:"direction"`
	Change    float64   `json:"change"`
	Type      string    `json:"type"`      // lift or header
	Magnitude string    `json:"magnitude"` // minor, moderate or major
}

type Prediction struct {
	Side         string  `json:"side"` // right or left
	DueInMinutes float64 `json:"dueInMinutes"`
	Magnitude    float64 `json:"magnitude"`
	Confidence   float64 `json:"confidence"`
}

type FavoredSide struct {
	Side       string  `json:"side"` // left, right or neutral
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// DefaultShiftThreshold is the direction change, in degrees, above which a
// shift event is recorded.
const DefaultShiftThreshold = 5.0

// minReadings is the history needed before a pattern can be classified.
const minReadings = 6

// readingCadenceMinutes is the assumed spacing of buoy readings, used for
// the oscillation period estimate.
const readingCadenceMinutes = 10.0

// DetectPattern classifies a wind-direction history. Fewer than six readings
// yield a zero-confidence stable pattern.
func DetectPattern(readings []Reading) Pattern {
	if len(readings) < minReadings {
		return Pattern{Type: Stable, Confidence: 0}
	}

	readings = sortByTime(readings)
	n := len(readings)

	dirs := make([]float64, n)
	for i, r := range readings {
		dirs[i] = r.Direction
	}

	sorted := make([]float64, n)
	copy(sorted, dirs)
	sort.Float64s(sorted)
	median := sorted[n/2]

	deltas := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		deltas = append(deltas, latlon.AngleDiff(dirs[i], dirs[i-1]))
	}

	signChanges := 0
	for i := 1; i < len(deltas); i++ {
		if deltas[i]*deltas[i-1] < 0 {
			signChanges++
		}
	}

	maxDeviation := 0.0
	for _, d := range dirs {
		dev := math.Abs(latlon.AngleDiff(d, median))
		if dev > maxDeviation {
			maxDeviation = dev
		}
	}
	shiftRange := 2 * maxDeviation

	totalDrift := latlon.AngleDiff(dirs[n-1], dirs[0])

	trend := 0.0
	span := readings[n-1].Time.Sub(readings[0].Time).Minutes()
	if span > 0 {
		trend = totalDrift / span * 60
	}

	p := Pattern{
		MedianDirection:     median,
		ShiftRange:          shiftRange,
		TrendDegreesPerHour: trend,
	}

	if float64(signChanges) >= float64(n)/3 && shiftRange > 6 {
		period := float64(n) * readingCadenceMinutes / math.Max(1, float64(signChanges)/2)
		p.PeriodMinutes = &period
		if math.Abs(trend) > 5 {
			p.Type = OscillatingPersistent
			p.Confidence = math.Min(0.85, float64(signChanges)/(float64(n)/2))
		} else {
			p.Type = Oscillating
			p.Confidence = math.Min(0.90, float64(signChanges)/(float64(n)/2))
			p.TrendDegreesPerHour = 0
		}
		return p
	}

	if math.Abs(totalDrift) > 10 {
		p.Type = Persistent
		p.Confidence = math.Min(0.9, math.Abs(totalDrift)/30)
		return p
	}

	p.Type = Stable
	p.Confidence = math.Max(0, 1-shiftRange/20)
	return p
}

// DetectShifts scans the history and records an event each time the
// direction moves more than threshold degrees away from the last recorded
// direction.
func DetectShifts(readings []Reading, threshold float64) []ShiftEvent {
	if len(readings) == 0 {
		return nil
	}

	readings = sortByTime(readings)

	var events []ShiftEvent
	reference := readings[0].Direction

	for _, r := range readings[1:] {
		change := latlon.AngleDiff(r.Direction, reference)
		if math.Abs(change) <= threshold {
			continue
		}
		events = append(events, ShiftEvent{
			Time:      r.Time,
			Direction: r.Direction,
			Change:    change,
			Type:      shiftType(change),
			Magnitude: shiftMagnitude(change),
		})
		reference = r.Direction
	}
	return events
}

func shiftType(change float64) string {
	if change > 0 {
		return "lift"
	}
	return "header"
}

func shiftMagnitude(change float64) string {
	a := math.Abs(change)
	switch {
	case a < 5:
		return "minor"
	case a < 10:
		return "moderate"
	default:
		return "major"
	}
}

// PredictShifts derives upcoming-shift predictions from the classified
// pattern. Oscillating winds swing back the other way in half a period;
// persistent winds keep drifting.
func PredictShifts(readings []Reading, p Pattern) []Prediction {
	var predictions []Prediction

	if (p.Type == Oscillating || p.Type == OscillatingPersistent) && p.PeriodMinutes != nil {
		shifts := DetectShifts(readings, DefaultShiftThreshold)
		if len(shifts) > 0 {
			last := shifts[len(shifts)-1]
			side := "right"
			if last.Change > 0 {
				side = "left"
			}
			predictions = append(predictions, Prediction{
				Side:         side,
				DueInMinutes: *p.PeriodMinutes / 2,
				Magnitude:    p.ShiftRange / 2,
				Confidence:   p.Confidence * 0.7,
			})
		}
	}

	if (p.Type == Persistent || p.Type == OscillatingPersistent) && math.Abs(p.TrendDegreesPerHour) > 3 {
		side := "right"
		if p.TrendDegreesPerHour < 0 {
			side = "left"
		}
		predictions = append(predictions, Prediction{
			Side:         side,
			DueInMinutes: 30,
			Magnitude:    math.Abs(p.TrendDegreesPerHour) / 2,
			Confidence:   p.Confidence * 0.6,
		})
	}

	return predictions
}

// CalculateFavoredSide picks the tactically favored side of the course. A
// persistent trend wins over predictions, predictions win over a stable
// default.
func CalculateFavoredSide(p Pattern, predictions []Prediction) FavoredSide {
	if (p.Type == Persistent || p.Type == OscillatingPersistent) && p.TrendDegreesPerHour != 0 {
		side := "right"
		verb := "veering"
		if p.TrendDegreesPerHour < 0 {
			side = "left"
			verb = "backing"
		}
		return FavoredSide{
			Side:       side,
			Confidence: p.Confidence * 0.8,
			Reason:     fmt.Sprintf("wind %s at %.1f°/hr, sail toward the %s side", verb, math.Abs(p.TrendDegreesPerHour), side),
		}
	}

	if len(predictions) > 0 {
		nearest := predictions[0]
		for _, pred := range predictions[1:] {
			if pred.DueInMinutes < nearest.DueInMinutes {
				nearest = pred
			}
		}
		return FavoredSide{
			Side:       nearest.Side,
			Confidence: nearest.Confidence,
			Reason:     fmt.Sprintf("next shift of ~%.0f° expected on the %s in ~%.0f minutes", nearest.Magnitude, nearest.Side, nearest.DueInMinutes),
		}
	}

	if p.Type == Stable {
		return FavoredSide{
			Side:       "neutral",
			Confidence: p.Confidence,
			Reason:     "wind is stable, neither side is favored",
		}
	}

	return FavoredSide{
		Side:       "neutral",
		Confidence: 0.3,
		Reason:     "no clear advantage detected",
	}
}
