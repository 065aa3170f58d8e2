package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/course-server/course"
	"github.com/a-bouts/course-server/latlon"
	"github.com/a-bouts/course-server/polar"
	"github.com/a-bouts/course-server/race"
	"github.com/a-bouts/course-server/wind"
)

func timeAt(i int) time.Time {
	return time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC).Add(time.Duration(i) * 10 * time.Minute)
}

func testRouter() http.Handler {
	classes := map[string]polar.BoatClass{
		"ilca7": {
			Label:           "ILCA 7",
			Upwind:          polar.Performance{Twa: 45, Vmg: [3]float64{2.2, 3.0, 3.4}},
			Downwind:        polar.Performance{Twa: 140, Vmg: [3]float64{2.8, 3.8, 4.5}},
			ReachSpeed:      [3]float64{4.0, 5.5, 6.5},
			TackSeconds:     8,
			JibeSeconds:     6,
			RoundingSeconds: 15,
			NoGoAngle:       42,
		},
	}
	return InitServer(classes, wind.NewStore(30), "grib-data")
}

func post(t *testing.T, router http.Handler, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/course/-/healthz", nil)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Ok"}`, w.Body.String())
}

func TestTransformRotate(t *testing.T) {
	body := TransformRequest{
		Op:      "rotate",
		Degrees: 30,
		Marks: []course.Mark{
			{Id: "m1", Role: course.RoleWindward, Position: latlon.LatLon{Lat: 43.28, Lon: 5.35}},
		},
		Course: course.Course{Center: latlon.LatLon{Lat: 43.27, Lon: 5.35}, Scale: 1},
	}

	w := post(t, testRouter(), "/course/api/v1/transform", body)

	require.Equal(t, http.StatusOK, w.Code)

	var res TransformResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 30.0, res.Course.Rotation)
	assert.NotEqual(t, body.Marks[0].Position, res.Marks[0].Position)
}

func TestTransformUnknownOp(t *testing.T) {
	w := post(t, testRouter(), "/course/api/v1/transform", TransformRequest{Op: "shear"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEstimate(t *testing.T) {
	body := EstimateRequest{
		Sequence: []string{"start", "m1", "finish"},
		Marks: []course.Mark{
			{Id: "boat", Role: course.RoleStartBoat, Position: latlon.LatLon{Lat: 43.2700, Lon: 5.3500}, IsStartLine: true, IsFinishLine: true},
			{Id: "pin", Role: course.RolePin, Position: latlon.LatLon{Lat: 43.2700, Lon: 5.3530}, IsStartLine: true, IsFinishLine: true},
			{Id: "m1", Role: course.RoleWindward, Position: latlon.LatLon{Lat: 43.2850, Lon: 5.3515}},
		},
		Class:         "ilca7",
		WindDirection: 0,
		WindSpeed:     12,
	}

	w := post(t, testRouter(), "/course/api/v1/estimate", body)

	require.Equal(t, http.StatusOK, w.Code)

	var est race.Estimate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &est))
	assert.Len(t, est.Legs, 2)
	assert.Greater(t, est.TotalSeconds, 0.0)
	assert.NotEmpty(t, est.Formatted)
}

func TestEstimateRequiresWind(t *testing.T) {
	w := post(t, testRouter(), "/course/api/v1/estimate", EstimateRequest{Class: "ilca7"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEstimateUnknownClass(t *testing.T) {
	w := post(t, testRouter(), "/course/api/v1/estimate", EstimateRequest{Class: "imoca", WindSpeed: 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeWithReadings(t *testing.T) {
	var body AnalyzeRequest
	for i, d := range []float64{200, 204, 208, 212, 216, 220} {
		body.Readings = append(body.Readings, wind.Reading{
			BuoyId:    "b1",
			Time:      timeAt(i),
			Direction: d,
			Speed:     12,
		})
	}

	w := post(t, testRouter(), "/course/api/v1/analyze", body)

	require.Equal(t, http.StatusOK, w.Code)

	var analysis wind.Analysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Equal(t, wind.Persistent, analysis.Pattern.Type)
	assert.Equal(t, "right", analysis.FavoredSide.Side)
}
