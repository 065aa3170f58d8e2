package wind

import (
	"time"
)

// BuoyTrend compares a buoy's latest wind speed with the mean of its
// previous readings.
type BuoyTrend struct {
	BuoyId    string    `json:"buoyId"`
	Time      time.Time `json:"time"`
	Speed     float64   `json:"speed"`
	Direction float64   `json:"direction"`
	Trend     string    `json:"trend"` // increasing, decreasing or stable
}

type Analysis struct {
	Pattern     Pattern      `json:"pattern"`
	Shifts      []ShiftEvent `json:"shifts"`
	Predictions []Prediction `json:"predictions"`
	FavoredSide FavoredSide  `json:"favoredSide"`
	BuoyTrends  []BuoyTrend  `json:"buoyTrends"`
}

// speedTrendDeadband is the wind speed change, in knots, below which a buoy
// is reported stable.
const speedTrendDeadband = 1.0

// trendWindow is how many prior readings the per-buoy speed comparison
// averages over.
const trendWindow = 5

// Analyze runs the full wind-analytics pass over a reading window: pattern
// classification, shift detection, predictions, favored side and per-buoy
// speed trends.
func Analyze(readings []Reading) Analysis {
	readings = sortByTime(readings)

	pattern := DetectPattern(readings)
	shifts := DetectShifts(readings, DefaultShiftThreshold)
	predictions := PredictShifts(readings, pattern)

	return Analysis{
		Pattern:     pattern,
		Shifts:      shifts,
		Predictions: predictions,
		FavoredSide: CalculateFavoredSide(pattern, predictions),
		BuoyTrends:  buoyTrends(readings),
	}
}

func buoyTrends(readings []Reading) []BuoyTrend {
	byBuoy := make(map[string][]Reading)
	var order []string
	for _, r := range readings {
		if _, found := byBuoy[r.BuoyId]; !found {
			order = append(order, r.BuoyId)
		}
		byBuoy[r.BuoyId] = append(byBuoy[r.BuoyId], r)
	}

	var trends []BuoyTrend
	for _, id := range order {
		rs := byBuoy[id]
		latest := rs[len(rs)-1]

		t := BuoyTrend{
			BuoyId:    id,
			Time:      latest.Time,
			Speed:     latest.Speed,
			Direction: latest.Direction,
			Trend:     "stable",
		}

		prior := rs[:len(rs)-1]
		if len(prior) > trendWindow {
			prior = prior[len(prior)-trendWindow:]
		}
		if len(prior) > 0 {
			mean := 0.0
			for _, r := range prior {
				mean += r.Speed
			}
			mean /= float64(len(prior))

			if latest.Speed > mean+speedTrendDeadband {
				t.Trend = "increasing"
			} else if latest.Speed < mean-speedTrendDeadband {
				t.Trend = "decreasing"
			}
		}

		trends = append(trends, t)
	}
	return trends
}
