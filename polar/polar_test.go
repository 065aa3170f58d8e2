package polar

import "testing"

func testClass() BoatClass {
	return BoatClass{
		Label:           "ILCA 7",
		Upwind:          Performance{Twa: 45, Vmg: [3]float64{2.2, 3.0, 3.4}},
		Downwind:        Performance{Twa: 140, Vmg: [3]float64{2.8, 3.8, 4.5}},
		ReachSpeed:      [3]float64{4.0, 5.5, 6.5},
		TackSeconds:     8,
		JibeSeconds:     6,
		RoundingSeconds: 15,
		NoGoAngle:       40,
	}
}

func TestBandFor(t *testing.T) {
	if b := BandFor(5); b != Light {
		t.Errorf("BandFor(5) = %s; want light", b)
	}
	if b := BandFor(8); b != Light {
		t.Errorf("BandFor(8) = %s; want light", b)
	}
	if b := BandFor(8.1); b != Medium {
		t.Errorf("BandFor(8.1) = %s; want medium", b)
	}
	if b := BandFor(14); b != Medium {
		t.Errorf("BandFor(14) = %s; want medium", b)
	}
	if b := BandFor(18); b != Heavy {
		t.Errorf("BandFor(18) = %s; want heavy", b)
	}
}

func TestPointOfSailFor(t *testing.T) {
	b := testClass()

	cases := []struct {
		twa  float64
		want PointOfSail
	}{
		{0, Upwind},
		{39.9, Upwind},
		{40, CloseReach},
		{59.9, CloseReach},
		{60, BeamReach},
		{109, BeamReach},
		{110, BroadReach},
		{149, BroadReach},
		{150, Downwind},
		{180, Downwind},
	}
	for _, c := range cases {
		if got := b.PointOfSailFor(c.twa); got != c.want {
			t.Errorf("PointOfSailFor(%f) = %s; want %s", c.twa, got, c.want)
		}
	}
}

func TestVmg(t *testing.T) {
	b := testClass()

	if v := b.Vmg(Upwind, Medium); v != 3.0 {
		t.Errorf("Vmg(upwind, medium) = %f; want 3.0", v)
	}
	if v := b.Vmg(Downwind, Heavy); v != 4.5 {
		t.Errorf("Vmg(downwind, heavy) = %f; want 4.5", v)
	}
	// every reach shares the reach table
	for _, pos := range []PointOfSail{CloseReach, BeamReach, BroadReach} {
		if v := b.Vmg(pos, Light); v != 4.0 {
			t.Errorf("Vmg(%s, light) = %f; want 4.0", pos, v)
		}
	}
}
