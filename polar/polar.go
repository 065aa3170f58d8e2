package polar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Wind band indexes into the per-band VMG and reach tables.
type Band int

const (
	Light Band = iota
	Medium
	Heavy
)

func (b Band) String() string {
	switch b {
	case Light:
		return "light"
	case Medium:
		return "medium"
	default:
		return "heavy"
	}
}

// BandFor classifies a true wind speed in knots.
func BandFor(windSpeed float64) Band {
	if windSpeed <= 8 {
		return Light
	}
	if windSpeed <= 14 {
		return Medium
	}
	return Heavy
}

type PointOfSail string

const (
	Upwind     PointOfSail = "upwind"
	CloseReach PointOfSail = "close_reach"
	BeamReach  PointOfSail = "beam_reach"
	BroadReach PointOfSail = "broad_reach"
	Downwind   PointOfSail = "downwind"
)

func (p PointOfSail) IsReach() bool {
	return p == CloseReach || p == BeamReach || p == BroadReach
}

// Performance holds the optimal true wind angle and the VMG achieved at that
// angle per wind band, for one of the beating directions.
type Performance struct {
	Twa float64    `json:"twa"`
	Vmg [3]float64 `json:"vmg"`
}

// BoatClass is the per-class performance profile.
type BoatClass struct {
	Label           string      `json:"label"`
	Upwind          Performance `json:"upwind"`
	Downwind        Performance `json:"downwind"`
	ReachSpeed      [3]float64  `json:"reachSpeed"`
	TackSeconds     float64     `json:"tackSeconds"`
	JibeSeconds     float64     `json:"jibeSeconds"`
	RoundingSeconds float64     `json:"roundingSeconds"`
	NoGoAngle       float64     `json:"noGoAngle"`
}

// PointOfSailFor classifies a true wind angle in [0,180] against the class
// no-go zone.
func (b BoatClass) PointOfSailFor(twa float64) PointOfSail {
	switch {
	case twa < b.NoGoAngle:
		return Upwind
	case twa < 60:
		return CloseReach
	case twa < 110:
		return BeamReach
	case twa < 150:
		return BroadReach
	default:
		return Downwind
	}
}

// Vmg looks up the velocity made good for a point of sail and wind band. All
// reach points of sail share the reach table.
func (b BoatClass) Vmg(pos PointOfSail, band Band) float64 {
	switch pos {
	case Upwind:
		return b.Upwind.Vmg[band]
	case Downwind:
		return b.Downwind.Vmg[band]
	default:
		return b.ReachSpeed[band]
	}
}

func Load(file string) (BoatClass, error) {
	var b BoatClass

	data, err := os.ReadFile(file)
	if err != nil {
		return b, fmt.Errorf("read polar file '%s': %w", file, err)
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return b, fmt.Errorf("parse polar file '%s': %w", file, err)
	}
	return b, nil
}

// LoadAll loads every .json polar file of a directory, keyed by file base
// name.
func LoadAll(dir string) (map[string]BoatClass, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	classes := make(map[string]BoatClass, len(files))
	for _, f := range files {
		b, err := Load(f)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(f), ".json")
		classes[name] = b
	}
	return classes, nil
}
