package wind

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readingsAt(start time.Time, step time.Duration, directions ...float64) []Reading {
	rs := make([]Reading, len(directions))
	for i, d := range directions {
		rs[i] = Reading{
			BuoyId:    "b1",
			Time:      start.Add(time.Duration(i) * step),
			Direction: d,
			Speed:     12,
		}
	}
	return rs
}

var base = time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC)

func TestDetectPatternTooFewReadings(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 220, 225, 215, 222, 218)

	p := DetectPattern(rs)

	assert.Equal(t, Stable, p.Type)
	assert.Zero(t, p.Confidence)
}

func TestDetectPatternOscillating(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 220, 228, 216, 226, 214, 224, 212, 222)

	p := DetectPattern(rs)

	assert.Equal(t, Oscillating, p.Type)
	assert.InDelta(t, 222, p.MedianDirection, 2)
	assert.Zero(t, p.TrendDegreesPerHour)
	assert.InDelta(t, 0.9, p.Confidence, 1e-9)
	require.NotNil(t, p.PeriodMinutes)
	// 8 readings at 10 minute cadence, 6 sign changes
	assert.Greater(t, *p.PeriodMinutes, 20.0)
	assert.Less(t, *p.PeriodMinutes, 45.0)
	assert.InDelta(t, 20, p.ShiftRange, 1e-9)
}

func TestDetectPatternPersistent(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 200, 204, 208, 212, 216, 220)

	p := DetectPattern(rs)

	assert.Equal(t, Persistent, p.Type)
	assert.InDelta(t, 24, p.TrendDegreesPerHour, 1e-9)
	assert.InDelta(t, 20.0/30.0, p.Confidence, 1e-9)
	assert.Nil(t, p.PeriodMinutes)
}

func TestDetectPatternStable(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 220, 221, 219, 220, 221, 220)

	p := DetectPattern(rs)

	assert.Equal(t, Stable, p.Type)
	assert.InDelta(t, 0.9, p.Confidence, 1e-9)
}

func TestDetectPatternUnsortedInput(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 200, 204, 208, 212, 216, 220)
	rs[0], rs[5] = rs[5], rs[0]

	p := DetectPattern(rs)

	assert.Equal(t, Persistent, p.Type)
	assert.InDelta(t, 24, p.TrendDegreesPerHour, 1e-9)
}

func TestDetectShifts(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 200, 200, 206, 206, 198)

	events := DetectShifts(rs, 5)

	require.Len(t, events, 2)

	assert.Equal(t, "lift", events[0].Type)
	assert.InDelta(t, 6, events[0].Change, 1e-9)
	assert.Equal(t, rs[2].Time, events[0].Time)

	assert.Equal(t, "header", events[1].Type)
	assert.InDelta(t, -8, events[1].Change, 1e-9)
	assert.Equal(t, "moderate", events[1].Magnitude)
}

func TestDetectShiftsMagnitudes(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 200, 207, 222)

	events := DetectShifts(rs, 5)

	require.Len(t, events, 2)
	assert.Equal(t, "moderate", events[0].Magnitude)
	assert.Equal(t, "major", events[1].Magnitude)
}

func TestPredictShiftsOscillating(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 220, 228, 216, 226, 214, 224, 212, 222)
	p := DetectPattern(rs)

	predictions := PredictShifts(rs, p)

	require.Len(t, predictions, 1)
	// last detected shift was a lift, expect the swing back
	assert.Equal(t, "left", predictions[0].Side)
	assert.InDelta(t, *p.PeriodMinutes/2, predictions[0].DueInMinutes, 1e-9)
	assert.InDelta(t, p.ShiftRange/2, predictions[0].Magnitude, 1e-9)
	assert.InDelta(t, p.Confidence*0.7, predictions[0].Confidence, 1e-9)
}

func TestPredictShiftsPersistent(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 200, 204, 208, 212, 216, 220)
	p := DetectPattern(rs)

	predictions := PredictShifts(rs, p)

	require.Len(t, predictions, 1)
	assert.Equal(t, "right", predictions[0].Side)
	assert.Equal(t, 30.0, predictions[0].DueInMinutes)
	assert.InDelta(t, 12, predictions[0].Magnitude, 1e-9)
	assert.InDelta(t, p.Confidence*0.6, predictions[0].Confidence, 1e-9)
}

func TestCalculateFavoredSidePersistentTrendWins(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 200, 204, 208, 212, 216, 220)
	p := DetectPattern(rs)
	predictions := PredictShifts(rs, p)

	f := CalculateFavoredSide(p, predictions)

	assert.Equal(t, "right", f.Side)
	assert.InDelta(t, p.Confidence*0.8, f.Confidence, 1e-9)
	assert.NotEmpty(t, f.Reason)
}

func TestCalculateFavoredSideFromPrediction(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 220, 228, 216, 226, 214, 224, 212, 222)
	p := DetectPattern(rs)
	predictions := PredictShifts(rs, p)

	f := CalculateFavoredSide(p, predictions)

	assert.Equal(t, "left", f.Side)
	assert.InDelta(t, predictions[0].Confidence, f.Confidence, 1e-9)
}

func TestCalculateFavoredSideStable(t *testing.T) {
	rs := readingsAt(base, 10*time.Minute, 220, 221, 219, 220, 221, 220)
	p := DetectPattern(rs)

	f := CalculateFavoredSide(p, nil)

	assert.Equal(t, "neutral", f.Side)
	assert.InDelta(t, p.Confidence, f.Confidence, 1e-9)
}

func TestCalculateFavoredSideNoSignal(t *testing.T) {
	p := Pattern{Type: Oscillating, Confidence: 0.5}

	f := CalculateFavoredSide(p, nil)

	assert.Equal(t, "neutral", f.Side)
	assert.Equal(t, 0.3, f.Confidence)
	assert.Equal(t, "no clear advantage detected", f.Reason)
}

func TestAnalyzeBuoyTrends(t *testing.T) {
	var rs []Reading
	for i, s := range []float64{10, 10, 11, 10, 10, 14} {
		rs = append(rs, Reading{BuoyId: "north", Time: base.Add(time.Duration(i) * 10 * time.Minute), Direction: 220, Speed: s})
	}
	for i, s := range []float64{12, 12, 12, 12, 12, 12.5} {
		rs = append(rs, Reading{BuoyId: "pin", Time: base.Add(time.Duration(i) * 10 * time.Minute), Direction: 221, Speed: s})
	}
	for i, s := range []float64{15, 14, 15, 14, 15, 12} {
		rs = append(rs, Reading{BuoyId: "boat", Time: base.Add(time.Duration(i) * 10 * time.Minute), Direction: 219, Speed: s})
	}

	a := Analyze(rs)

	trends := map[string]string{}
	for _, bt := range a.BuoyTrends {
		trends[bt.BuoyId] = bt.Trend
	}
	assert.Equal(t, "increasing", trends["north"])
	assert.Equal(t, "stable", trends["pin"])
	assert.Equal(t, "decreasing", trends["boat"])
}
