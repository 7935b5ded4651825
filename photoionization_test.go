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
	"testing"
)

// testPhotoSetup builds the fixed grids, profiles, and spectra shared
// by the photoionization tests.
func testPhotoSetup(t *testing.T, sza float64) (*AtmosphereProfile, *AltitudeGrid, *EnergyGrid, *OpticalDepthTable, *SolarFlux, *CrossSectionTable) {
	t.Helper()
	grid, err := NewAltitudeGrid(GridConfig{})
	if err != nil {
		t.Fatal(err)
	}
	eg, err := NewEnergyGrid(GridConfig{})
	if err != nil {
		t.Fatal(err)
	}
	atm, err := DefaultSyntheticEnvironment().Atmosphere(Inputs{}, grid)
	if err != nil {
		t.Fatal(err)
	}
	xs, err := LoadCrossSections()
	if err != nil {
		t.Fatal(err)
	}
	od := NewOpticalDepthTable(atm, grid, sza)
	sun := NewSolarFlux(xs, 70, 70)
	return atm, grid, eg, od, sun, xs
}

// Every photoionization event must yield exactly one photoelectron:
// the energy-integrated photoelectron production equals the summed ion
// production at every level.
func TestPhotoionizationConservesElectronNumber(t *testing.T) {
	atm, grid, eg, od, sun, xs := testPhotoSetup(t, 30)
	p := Photoionize(atm, grid, eg, od, sun, xs)

	sunlit := 0
	for j := 0; j < grid.Len(); j++ {
		if p.Total[j] == 0 {
			continue
		}
		sunlit++
		if got := p.photoelectronTotal(eg, j); different(got, p.Total[j], 1.e-9) {
			t.Errorf("level %d: %g photoelectrons for %g ionizations", j, got, p.Total[j])
		}
	}
	if sunlit == 0 {
		t.Fatal("no production anywhere at sza=30")
	}
}

func TestPhotoionizationDark(t *testing.T) {
	atm, grid, eg, od, sun, xs := testPhotoSetup(t, 150)
	p := Photoionize(atm, grid, eg, od, sun, xs)
	for j := 0; j < grid.Len(); j++ {
		if p.Total[j] != 0 {
			t.Fatalf("level %d: production %g in full shadow", j, p.Total[j])
		}
	}
	for _, s := range photoSpecies {
		for j, r := range p.PhotoIon[s] {
			if r != 0 {
				t.Fatalf("%s: ion production %g at dark level %d", s, r, j)
			}
		}
	}
}

// The overhead-sun production profile should show a Chapman-layer
// shape: absorption kills it at the bottom, thin air at the top.
func TestPhotoionizationLayerShape(t *testing.T) {
	atm, grid, eg, od, sun, xs := testPhotoSetup(t, 0)
	p := Photoionize(atm, grid, eg, od, sun, xs)

	var jmax int
	for j := range p.Total {
		if p.Total[j] > p.Total[jmax] {
			jmax = j
		}
	}
	if jmax == 0 || jmax == grid.Len()-1 {
		t.Fatalf("production peaks at the grid boundary (level %d)", jmax)
	}
	if p.Total[jmax] <= 0 {
		t.Fatal("no production for overhead sun")
	}
	// Deep below the peak the column is optically thick.
	if p.Total[0] > 1e-3*p.Total[jmax] {
		t.Errorf("production at the grid bottom (%g) not attenuated relative to the peak (%g)",
			p.Total[0], p.Total[jmax])
	}
}
