package course

import (
	"math"

	"github.com/a-bouts/course-server/latlon"
)

// Pivot returns the rotation/scale pivot: the middle of the start line when
// both its ends exist, the course center otherwise.
func Pivot(marks []Mark, c Course) latlon.LatLon {
	boat, hasBoat := findMark(marks, RoleStartBoat)
	pin, hasPin := findMark(marks, RolePin)
	if hasBoat && hasPin {
		return latlon.LatLon{
			Lat: (boat.Position.Lat + pin.Position.Lat) / 2,
			Lon: (boat.Position.Lon + pin.Position.Lon) / 2,
		}
	}
	return c.Center
}

// rotatePoint rotates p around pivot by delta degrees on the lat/lon plane.
// Positive delta turns the course clockwise, adding delta to bearings.
func rotatePoint(p, pivot latlon.LatLon, delta float64) latlon.LatLon {
	θ := delta * math.Pi / 180.0
	sin, cos := math.Sin(θ), math.Cos(θ)
	dLat := p.Lat - pivot.Lat
	dLon := p.Lon - pivot.Lon
	return latlon.LatLon{
		Lat: pivot.Lat + dLat*cos - dLon*sin,
		Lon: pivot.Lon + dLat*sin + dLon*cos,
	}
}

func scalePoint(p, pivot latlon.LatLon, factor float64) latlon.LatLon {
	return latlon.LatLon{
		Lat: pivot.Lat + (p.Lat-pivot.Lat)*factor,
		Lon: pivot.Lon + (p.Lon-pivot.Lon)*factor,
	}
}

// Rotate turns every mark around the pivot by delta degrees and advances the
// course rotation field. Flat-plane approximation, fine at course scale.
func Rotate(marks []Mark, c Course, delta float64) ([]Mark, Course) {
	pivot := Pivot(marks, c)
	out := make([]Mark, len(marks))
	for i, m := range marks {
		m.Position = rotatePoint(m.Position, pivot, delta)
		out[i] = m
	}
	c.Rotation = latlon.Wrap360(c.Rotation + delta)
	return out, c
}

// Scale resizes the course around the pivot. The mode selects what happens
// to the start line:
//   - ResizeAll: start-line marks scale like any other mark
//   - KeepStartLine: start-line marks are left untouched
//   - KeepCommitteeBoat: the committee boat is the anchor, the pin scales
//     from the boat instead of the pivot
//
// The cumulative course scale is clamped to bounds; when clamping bites,
// the applied factor is reduced accordingly.
func Scale(marks []Mark, c Course, factor float64, mode ScaleMode, bounds ScaleBounds) ([]Mark, Course) {
	oldScale := c.Scale
	if oldScale == 0 {
		oldScale = 1
	}
	newScale := oldScale * factor
	if newScale < bounds.Min {
		newScale = bounds.Min
	}
	if newScale > bounds.Max {
		newScale = bounds.Max
	}
	factor = newScale / oldScale

	pivot := Pivot(marks, c)
	boat, hasBoat := findMark(marks, RoleStartBoat)

	out := make([]Mark, len(marks))
	for i, m := range marks {
		switch {
		case m.IsStartLine && mode == KeepStartLine:
			// untouched
		case mode == KeepCommitteeBoat && m.Role == RoleStartBoat:
			// anchor
		case mode == KeepCommitteeBoat && m.Role == RolePin && hasBoat:
			m.Position = scalePoint(m.Position, boat.Position, factor)
		default:
			m.Position = scalePoint(m.Position, pivot, factor)
		}
		out[i] = m
	}
	c.Scale = newScale
	return out, c
}

// Translate shifts every mark and the course center by the given deltas.
func Translate(marks []Mark, c Course, dLat, dLon float64) ([]Mark, Course) {
	out := make([]Mark, len(marks))
	for i, m := range marks {
		m.Position.Lat += dLat
		m.Position.Lon += dLon
		out[i] = m
	}
	c.Center.Lat += dLat
	c.Center.Lon += dLon
	return out, c
}

// AlignToWind rotates the course so the start line lies perpendicular to the
// wind. Returns the input unchanged when either end of the start line is
// missing.
func AlignToWind(marks []Mark, c Course, windDirection float64) ([]Mark, Course) {
	boat, hasBoat := findMark(marks, RoleStartBoat)
	pin, hasPin := findMark(marks, RolePin)
	if !hasBoat || !hasPin {
		return marks, c
	}

	current := latlon.Bearing(boat.Position, pin.Position)
	desired := latlon.Wrap360(windDirection + 90)
	delta := latlon.AngleDiff(desired, current)

	return Rotate(marks, c, delta)
}
