package wind

import (
	"sort"
	"time"
)

// Reading is one buoy wind measurement. Direction is the direction the wind
// blows from, in degrees.
type Reading struct {
	BuoyId    string    `json:"buoyId"`
	Time      time.Time `json:"time"`
	Direction float64   `json:"direction"`
	Speed     float64   `json:"speed"`
}

func sortByTime(readings []Reading) []Reading {
	out := make([]Reading, len(readings))
	copy(out, readings)
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}
