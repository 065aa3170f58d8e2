package wind

import (
	"fmt"
	"math"
	"os"

	"github.com/nilsmagnus/grib/griblib"
)

const msToKnots = 1.9438444924406

// Forecast is a 10m wind field read from a GRIB2 file, used to supply race
// estimation wind where no live buoy telemetry exists.
type Forecast struct {
	File string
	lat0 float64
	lon0 float64
	ΔLat float64
	ΔLon float64
	nLat uint32
	nLon uint32
	u    [][]float64
	v    [][]float64
}

// LoadForecast reads the 10m u/v wind grids of a GRIB2 file.
func LoadForecast(file string) (*Forecast, error) {
	f := &Forecast{File: file}

	gribfile, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open grib file '%s': %w", file, err)
	}
	defer gribfile.Close()

	messages, err := griblib.ReadMessages(gribfile)
	if err != nil {
		return nil, fmt.Errorf("read grib file '%s': %w", file, err)
	}

	for _, message := range messages {
		if message.Section0.Discipline != 0 ||
			message.Section4.ProductDefinitionTemplate.ParameterCategory != 2 ||
			message.Section4.ProductDefinitionTemplate.FirstSurface.Type != 103 ||
			message.Section4.ProductDefinitionTemplate.FirstSurface.Value != 10 {
			continue
		}
		grid0, ok := message.Section3.Definition.(*griblib.Grid0)
		if !ok {
			continue
		}
		f.lat0 = float64(grid0.La1 / 1e6)
		f.lon0 = float64(grid0.Lo1 / 1e6)
		f.ΔLat = float64(grid0.Di / 1e6)
		f.ΔLon = float64(grid0.Dj / 1e6)
		f.nLat = grid0.Nj
		f.nLon = grid0.Ni
		if message.Section4.ProductDefinitionTemplate.ParameterNumber == 2 {
			f.u = f.buildGrid(message.Section7.Data)
		} else if message.Section4.ProductDefinitionTemplate.ParameterNumber == 3 {
			f.v = f.buildGrid(message.Section7.Data)
		}
	}

	if f.u == nil || f.v == nil {
		return nil, fmt.Errorf("no 10m wind data in grib file '%s'", file)
	}
	return f, nil
}

func (f *Forecast) buildGrid(data []float64) [][]float64 {
	isContinuous := math.Floor(float64(f.nLon)*f.ΔLon) >= 360

	nLon := f.nLon
	if isContinuous {
		nLon++
	}

	grid := make([][]float64, f.nLat)

	p := 0
	for j := uint32(0); j < f.nLat; j++ {
		grid[j] = make([]float64, nLon)
		for i := uint32(0); i < f.nLon; i++ {
			grid[j][i] = data[p]
			p++
		}
		if isContinuous {
			grid[j][f.nLon] = grid[j][0]
		}
	}
	return grid
}

func floorMod(a float64, n float64) float64 {
	return a - n*math.Floor(a/n)
}

// Sample bilinearly interpolates the field at a point and returns the wind
// direction (degrees, blowing from) and speed in knots. ok is false outside
// the grid.
func (f *Forecast) Sample(lat float64, lon float64) (direction float64, speed float64, ok bool) {
	i := math.Abs((lat - f.lat0) / f.ΔLat)
	j := floorMod(lon-f.lon0, 360.0) / f.ΔLon

	fi := uint32(i)
	fj := uint32(j)

	if fi+1 >= f.nLat || int(fj+1) >= len(f.u[0]) {
		return 0, 0, false
	}

	x := j - float64(fj)
	y := i - float64(fi)
	rx := 1 - x
	ry := 1 - y

	u := f.u[fi][fj]*rx*ry + f.u[fi][fj+1]*x*ry + f.u[fi+1][fj]*rx*y + f.u[fi+1][fj+1]*x*y
	v := f.v[fi][fj]*rx*ry + f.v[fi][fj+1]*x*ry + f.v[fi+1][fj]*rx*y + f.v[fi+1][fj+1]*x*y

	d := math.Sqrt(u*u + v*v)
	if d == 0 {
		return 0, 0, true
	}

	direction = math.Atan2(u/d, v/d)*180/math.Pi + 180
	return direction, d * msToKnots, true
}
