package course

import (
	"github.com/a-bouts/course-server/latlon"
)

type Role string

const (
	RoleStartBoat   Role = "start_boat"
	RolePin         Role = "pin"
	RoleWindward    Role = "windward"
	RoleWing        Role = "wing"
	RoleLeeward     Role = "leeward"
	RoleGate        Role = "gate"
	RoleOffset      Role = "offset"
	RoleTurningMark Role = "turning_mark"
	RoleFinish      Role = "finish"
	RoleOther       Role = "other"
)

type Mark struct {
	Id             string        `json:"id"`
	Role           Role          `json:"role"`
	Position       latlon.LatLon `json:"position"`
	Order          int           `json:"order"`
	IsStartLine    bool          `json:"isStartLine"`
	IsFinishLine   bool          `json:"isFinishLine"`
	IsGate         bool          `json:"isGate"`
	AssignedBuoyId string        `json:"assignedBuoyId,omitempty"`
	// Port and starboard buoy slots, only meaningful when IsGate is set.
	GateBuoyIds []string `json:"gateBuoyIds,omitempty"`
}

type Course struct {
	Center           latlon.LatLon `json:"center"`
	Rotation         float64       `json:"rotation"`
	Scale            float64       `json:"scale"`
	RoundingSequence []string      `json:"roundingSequence"`
}

// ScaleMode governs how marks flagged isStartLine behave under Scale.
type ScaleMode string

const (
	ResizeAll         ScaleMode = "resize_all"
	KeepStartLine     ScaleMode = "keep_start_line"
	KeepCommitteeBoat ScaleMode = "keep_committee_boat"
)

// ScaleBounds are the caller-configured limits on the cumulative course
// scale. The data model allows [0.1,10], the UI typically narrows this.
type ScaleBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func DefaultScaleBounds() ScaleBounds {
	return ScaleBounds{Min: 0.1, Max: 10}
}

func findMark(marks []Mark, role Role) (Mark, bool) {
	for _, m := range marks {
		if m.Role == role {
			return m, true
		}
	}
	return Mark{}, false
}

// LineCenter returns the mean position of the marks selected by pick,
// and false when no mark matches.
func LineCenter(marks []Mark, pick func(Mark) bool) (latlon.LatLon, bool) {
	var sumLat, sumLon float64
	n := 0
	for _, m := range marks {
		if pick(m) {
			sumLat += m.Position.Lat
			sumLon += m.Position.Lon
			n++
		}
	}
	if n == 0 {
		return latlon.LatLon{}, false
	}
	return latlon.LatLon{Lat: sumLat / float64(n), Lon: sumLon / float64(n)}, true
}

func StartLineCenter(marks []Mark) (latlon.LatLon, bool) {
	return LineCenter(marks, func(m Mark) bool { return m.IsStartLine })
}

func FinishLineCenter(marks []Mark) (latlon.LatLon, bool) {
	return LineCenter(marks, func(m Mark) bool { return m.IsFinishLine })
}
