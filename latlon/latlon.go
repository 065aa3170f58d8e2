package latlon

import "math"

const π = math.Pi

// Earth radius in nautical miles.
const R = 3440.065

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / π
}

func Wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d1 := math.Mod(d, 360.0)
	if d1 < 0 {
		d1 += 360.0
	}
	return d1
}

// AngleDiff returns the signed difference a-b folded into (-180,180].
func AngleDiff(a, b float64) float64 {
	d := Wrap360(a) - Wrap360(b)
	if d <= -180 {
		d += 360
	}
	if d > 180 {
		d -= 360
	}
	return d
}

// Distance returns the haversine great-circle distance in nautical miles.
func Distance(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1

	Δλ := toRadians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	δ := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * δ
}

// Bearing returns the initial bearing from from to to, in degrees [0,360).
func Bearing(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)

	Δλ := toRadians(to.Lon - from.Lon)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	y := math.Sin(Δλ) * math.Cos(φ2)
	θ := math.Atan2(y, x)

	return Wrap360(toDegrees(θ))
}

func DistanceAndBearing(from, to LatLon) (float64, float64) {
	return Distance(from, to), Bearing(from, to)
}
