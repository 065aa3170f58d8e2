package api

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/course-server/course"
	"github.com/a-bouts/course-server/latlon"
	"github.com/a-bouts/course-server/polar"
	"github.com/a-bouts/course-server/race"
	"github.com/a-bouts/course-server/wind"
)

// analysisWindow is the live-telemetry window analyzed when a request does
// not carry its own readings.
const analysisWindow = 60 * time.Minute

type server struct {
	classes map[string]polar.BoatClass
	store   *wind.Store
	gribDir string
}

func InitServer(classes map[string]polar.BoatClass, store *wind.Store, gribDir string) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	s := server{
		classes: classes,
		store:   store,
		gribDir: gribDir,
	}

	api := router.PathPrefix("/").Subrouter()
	api.HandleFunc("/course/-/healthz", s.healthz).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/course/api/v1").Subrouter()
	apiV1.HandleFunc("/transform", s.transform).Methods(http.MethodPost)
	apiV1.HandleFunc("/legs", s.legs).Methods(http.MethodPost)
	apiV1.HandleFunc("/estimate", s.estimate).Methods(http.MethodPost)
	apiV1.HandleFunc("/analyze", s.analyze).Methods(http.MethodPost)
	apiV1.HandleFunc("/classes", s.getClasses).Methods(http.MethodGet)
	apiV1.HandleFunc("/forecast/{file}/{lat}/{lon}", s.forecast).Methods(http.MethodGet)

	return router
}

func getIp(req *http.Request) (string, error) {
	if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.Split(fwd, ",")[0], nil
	}
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	return ip, err
}

func (s *server) requestLogger(req *http.Request, action string) *log.Entry {
	fields := log.Fields{
		"action":  action,
		"request": uuid.New().String(),
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	json.NewEncoder(w).Encode(health{Status: "Ok"})
}

type TransformRequest struct {
	Op            string              `json:"op"` // rotate, scale, translate or align
	Marks         []course.Mark       `json:"marks"`
	Course        course.Course       `json:"course"`
	Degrees       float64             `json:"degrees"`
	Factor        float64             `json:"factor"`
	Mode          course.ScaleMode    `json:"mode"`
	Bounds        *course.ScaleBounds `json:"bounds,omitempty"`
	DLat          float64             `json:"dLat"`
	DLon          float64             `json:"dLon"`
	WindDirection float64             `json:"windDirection"`
}

type TransformResponse struct {
	Marks  []course.Mark `json:"marks"`
	Course course.Course `json:"course"`
}

func (s *server) transform(w http.ResponseWriter, req *http.Request) {
	requestLogger := s.requestLogger(req, "transform")

	var r TransformRequest
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	requestLogger.Infof("Transform '%s' on %d marks", r.Op, len(r.Marks))

	var res TransformResponse
	switch r.Op {
	case "rotate":
		res.Marks, res.Course = course.Rotate(r.Marks, r.Course, r.Degrees)
	case "scale":
		bounds := course.DefaultScaleBounds()
		if r.Bounds != nil {
			bounds = *r.Bounds
		}
		mode := r.Mode
		if mode == "" {
			mode = course.ResizeAll
		}
		res.Marks, res.Course = course.Scale(r.Marks, r.Course, r.Factor, mode, bounds)
	case "translate":
		res.Marks, res.Course = course.Translate(r.Marks, r.Course, r.DLat, r.DLon)
	case "align":
		res.Marks, res.Course = course.AlignToWind(r.Marks, r.Course, r.WindDirection)
	default:
		http.Error(w, fmt.Sprintf("unknown op '%s'", r.Op), http.StatusBadRequest)
		return
	}

	json.NewEncoder(w).Encode(res)
}

type LegsRequest struct {
	Sequence     []string       `json:"sequence"`
	Marks        []course.Mark  `json:"marks"`
	StartCenter  *latlon.LatLon `json:"startCenter,omitempty"`
	FinishCenter *latlon.LatLon `json:"finishCenter,omitempty"`
}

func (s *server) legs(w http.ResponseWriter, req *http.Request) {
	requestLogger := s.requestLogger(req, "legs")

	var r LegsRequest
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	legs := course.BuildLegs(r.Sequence, r.Marks, r.StartCenter, r.FinishCenter)
	requestLogger.Infof("Built %d legs from %d tokens", len(legs), len(r.Sequence))

	json.NewEncoder(w).Encode(legs)
}

type EstimateRequest struct {
	Sequence      []string         `json:"sequence"`
	Marks         []course.Mark    `json:"marks"`
	Class         string           `json:"class,omitempty"`
	Profile       *polar.BoatClass `json:"profile,omitempty"`
	WindDirection float64          `json:"windDirection"`
	WindSpeed     float64          `json:"windSpeed"`
}

func (s *server) estimate(w http.ResponseWriter, req *http.Request) {
	requestLogger := s.requestLogger(req, "estimate")

	var r EstimateRequest
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.WindSpeed <= 0 {
		http.Error(w, "wind speed is required", http.StatusBadRequest)
		return
	}

	boat := r.Profile
	if boat == nil {
		b, found := s.classes[r.Class]
		if !found {
			http.Error(w, fmt.Sprintf("unknown boat class '%s'", r.Class), http.StatusBadRequest)
			return
		}
		boat = &b
	}

	start := time.Now()

	legs := course.BuildLegs(r.Sequence, r.Marks, nil, nil)
	est := race.EstimateTime(legs, *boat, r.WindDirection, r.WindSpeed)

	requestLogger.Infof("Estimate '%s' %.1f nm in %s took %s", boat.Label, est.TotalDistance, est.Formatted, time.Since(start))

	json.NewEncoder(w).Encode(est)
}

type AnalyzeRequest struct {
	Readings []wind.Reading `json:"readings"`
}

func (s *server) analyze(w http.ResponseWriter, req *http.Request) {
	requestLogger := s.requestLogger(req, "analyze")

	var r AnalyzeRequest
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&r)
	}

	readings := r.Readings
	if len(readings) == 0 && s.store != nil {
		readings = s.store.Recent(analysisWindow)
	}

	analysis := wind.Analyze(readings)
	requestLogger.Infof("Analyze %d readings : %s (%.2f)", len(readings), analysis.Pattern.Type, analysis.Pattern.Confidence)

	json.NewEncoder(w).Encode(analysis)
}

func (s *server) getClasses(w http.ResponseWriter, req *http.Request) {
	names := make([]string, 0, len(s.classes))
	for name := range s.classes {
		names = append(names, name)
	}
	json.NewEncoder(w).Encode(names)
}

func (s *server) forecast(w http.ResponseWriter, req *http.Request) {
	requestLogger := s.requestLogger(req, "forecast")

	file := mux.Vars(req)["file"]

	lat, err := strconv.ParseFloat(mux.Vars(req)["lat"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(mux.Vars(req)["lon"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f, err := wind.LoadForecast(filepath.Join(s.gribDir, filepath.Base(file)))
	if err != nil {
		requestLogger.WithError(err).Errorf("Error loading forecast '%s'", file)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	type windResult struct {
		Wind  float64 `json:"wind"`
		Speed float64 `json:"speed"`
	}

	var res windResult
	var ok bool
	res.Wind, res.Speed, ok = f.Sample(lat, lon)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	requestLogger.Infof("Forecast %s (%f,%f) : %.1f° %.1f kt", file, lat, lon, res.Wind, res.Speed)

	json.NewEncoder(w).Encode(res)
}
