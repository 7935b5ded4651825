/*
Copyright (C) 2026 the GLOW authors.
This file is part of GLOW.

GLOW is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GLOW is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GLOW.  If not, see <http://www.gnu.org/licenses/>.
*/

package glow

import (
	"math"
	"testing"
	"time"
)

func TestSolarZenithAngle(t *testing.T) {
	cases := []struct {
		t        time.Time
		lat, lon float64
		min, max float64 // expected SZA range [degrees]
	}{
		// Equinox noon on the Greenwich meridian at the equator: sun
		// nearly overhead.
		{time.Date(2015, 3, 20, 12, 0, 0, 0, time.UTC), 0, 0, 0, 10},
		// Equinox midnight: sun nearly at nadir.
		{time.Date(2015, 3, 20, 0, 0, 0, 0, time.UTC), 0, 0, 170, 180},
		// Summer solstice noon at the Tropic of Cancer.
		{time.Date(2015, 6, 21, 12, 0, 0, 0, time.UTC), 23.45, 0, 0, 8},
		// Polar night.
		{time.Date(2015, 12, 21, 10, 0, 0, 0, time.UTC), 65, -148, 110, 180},
	}
	for i, c := range cases {
		sza := SolarZenithAngle(c.t, c.lat, c.lon)
		if sza < c.min || sza > c.max {
			t.Errorf("case %d: sza = %g, want within [%g, %g]", i, sza, c.min, c.max)
		}
	}
}

// For sun high in the sky the Chapman grazing-incidence correction
// reduces to the plane-parallel secant.
func TestChapmanSecantLimit(t *testing.T) {
	const X = 1000 // typical (Re+z)/H
	for _, deg := range []float64{0, 30, 60} {
		chi := degToRad(deg)
		got := chapman(X, chi)
		want := 1 / math.Cos(chi)
		if different(got, want, 0.02) {
			t.Errorf("chi=%g°: Ch = %g, want ≈ sec = %g", deg, got, want)
		}
	}
}

// Past 90° the Chapman function must exceed any secant, and it must
// grow monotonically with zenith angle.
func TestChapmanMonotonic(t *testing.T) {
	const X = 1000
	prev := 0.
	for _, deg := range []float64{0, 30, 60, 80, 88, 90, 92} {
		ch := chapman(X, degToRad(deg))
		if ch <= prev {
			t.Fatalf("Ch(%g°) = %g not greater than Ch at previous angle %g", deg, ch, prev)
		}
		prev = ch
	}
}

func TestMagneticLatitude(t *testing.T) {
	// The dip pole itself maps to 90°.
	if m := MagneticLatitude(dipolePoleLat, dipolePoleLon); math.Abs(m-90) > 1.e-4 {
		t.Errorf("pole maps to %g°", m)
	}
	// Fairbanks sits in the auroral zone.
	if m := MagneticLatitude(65, -148); m < 60 || m > 80 {
		t.Errorf("got %g°, want auroral-zone magnetic latitude", m)
	}
}

func TestOpticalDepthColumns(t *testing.T) {
	grid, err := NewAltitudeGrid(GridConfig{})
	if err != nil {
		t.Fatal(err)
	}
	env := DefaultSyntheticEnvironment()
	atm, err := env.Atmosphere(Inputs{}, grid)
	if err != nil {
		t.Fatal(err)
	}

	// Slant columns grow monotonically with zenith angle.
	var prev *OpticalDepthTable
	for _, sza := range []float64{0, 30, 60, 80} {
		od := NewOpticalDepthTable(atm, grid, sza)
		top := grid.Len() - 1
		if od.Occluded[top] {
			t.Fatalf("sza=%g: top level occluded", sza)
		}
		if prev != nil {
			for _, s := range []string{"O", "O2", "N2"} {
				if od.SlantColumn[s][top] <= prev.SlantColumn[s][top] {
					t.Errorf("sza=%g: %s column %g not greater than %g at smaller angle",
						sza, s, od.SlantColumn[s][top], prev.SlantColumn[s][top])
				}
			}
		}
		prev = od
	}

	// Columns decrease with altitude for overhead sun.
	od := NewOpticalDepthTable(atm, grid, 0)
	for j := 1; j < grid.Len(); j++ {
		if od.SlantColumn["N2"][j] >= od.SlantColumn["N2"][j-1] {
			t.Fatalf("N2 column not decreasing with altitude at level %d", j)
		}
	}
}

func TestOpticalDepthOcclusion(t *testing.T) {
	grid, err := NewAltitudeGrid(GridConfig{})
	if err != nil {
		t.Fatal(err)
	}
	env := DefaultSyntheticEnvironment()
	atm, err := env.Atmosphere(Inputs{}, grid)
	if err != nil {
		t.Fatal(err)
	}

	// Just past the terminator: low levels shadowed, high levels still
	// sunlit.
	od := NewOpticalDepthTable(atm, grid, 95)
	if !od.Occluded[0] {
		t.Error("sza=95: bottom level should be occluded")
	}
	if od.Occluded[grid.Len()-1] {
		t.Error("sza=95: top level should still be sunlit")
	}
	if od.SlantColumn["N2"][0] != occludedColumn {
		t.Error("occluded level should carry the sentinel column")
	}

	// Deep night: the whole grid is in shadow.
	od = NewOpticalDepthTable(atm, grid, 150)
	for j := 0; j < grid.Len(); j++ {
		if !od.Occluded[j] {
			t.Fatalf("sza=150: level %d not occluded", j)
		}
	}
}
