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
	"errors"
	"math"
	"testing"
	"time"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// dayInputs puts the sun nearly overhead: equinox noon on the
// Greenwich meridian at the equator.
func dayInputs() Inputs {
	return Inputs{
		Time:  time.Date(2015, 3, 20, 12, 0, 0, 0, time.UTC),
		F107:  70,
		F107a: 70,
		F107p: 70,
		Ap:    4,
	}
}

// nightInputs puts the whole grid into the Earth's shadow.
func nightInputs() Inputs {
	in := dayInputs()
	in.Time = time.Date(2015, 3, 20, 0, 0, 0, 0, time.UTC)
	return in
}

// auroraInputs is a polar-night site with keV electron precipitation.
func auroraInputs(q float64) Inputs {
	return Inputs{
		Time:  time.Date(2015, 12, 21, 10, 0, 0, 0, time.UTC),
		Lat:   65,
		Lon:   -148,
		F107:  70,
		F107a: 70,
		F107p: 70,
		Ap:    4,
		Aurora: AuroralSpec{
			TotalEnergyFlux: q,
			CharEnergy:      1000,
		},
	}
}

func TestRunDayglow(t *testing.T) {
	r, err := Run(dayInputs())
	if err != nil {
		t.Fatal(err)
	}
	if r.SZA > 15 {
		t.Fatalf("sza = %g for equinox noon at the subsolar point", r.SZA)
	}

	var ionMax float64
	var jmax int
	for j, q := range r.IonizationRate {
		if q < 0 || math.IsNaN(q) {
			t.Fatalf("bad ionization rate %g at level %d", q, j)
		}
		if q > ionMax {
			ionMax, jmax = q, j
		}
	}
	if ionMax <= 0 {
		t.Fatal("no ionization under full sunlight")
	}
	if jmax == 0 || jmax == r.AltGrid.Len()-1 {
		t.Errorf("ionization peaks at the grid boundary (%g km)", r.AltGrid.Z[jmax])
	}

	// Photoelectrons must ionize too, but less than the photons do.
	sec := r.Flux.SecondaryTotal(jmax)
	if sec <= 0 {
		t.Error("no secondary ionization at the dayglow peak")
	}
	if sec >= r.IonizationRate[jmax] {
		t.Errorf("secondary ionization %g exceeds total %g at the peak",
			sec, r.IonizationRate[jmax])
	}

	for _, band := range []string{"5577", "6300", "4278"} {
		if b := r.Emissions.BrightnessFor(band); b <= 0 || math.IsNaN(b) {
			t.Errorf("band %s: brightness %g R under full sunlight", band, b)
		}
	}
	for i, band := range r.Emissions.Bands {
		if b := r.Emissions.Brightness[i]; b < 0 || math.IsNaN(b) {
			t.Errorf("band %s: bad brightness %g R", band, b)
		}
	}

	var neMax float64
	for j, ne := range r.Densities.Density["e"] {
		if ne < 0 {
			t.Fatalf("negative electron density at level %d", j)
		}
		neMax = math.Max(neMax, ne)
	}
	if neMax <= 0 {
		t.Error("no electrons produced under full sunlight")
	}
}

// Deep night with zero precipitation has no energy source anywhere, so
// every output must be exactly zero.
func TestRunNightQuiet(t *testing.T) {
	r, err := Run(nightInputs())
	if err != nil {
		t.Fatal(err)
	}
	if r.SZA < 120 {
		t.Fatalf("sza = %g, expected deep night", r.SZA)
	}
	for j, q := range r.IonizationRate {
		if q != 0 {
			t.Fatalf("ionization rate %g at level %d in darkness", q, j)
		}
	}
	for i, band := range r.Emissions.Bands {
		if b := r.Emissions.Brightness[i]; b != 0 {
			t.Fatalf("band %s: brightness %g R in darkness, want exactly zero", band, b)
		}
	}
	for j, ne := range r.Densities.Density["e"] {
		if ne != 0 {
			t.Fatalf("electron density %g at level %d in darkness", ne, j)
		}
	}
	// The background ionosphere still carries plasma at night, so the
	// conductivities must not collapse to zero with the local solution.
	var pedMax, neBgMax float64
	for j, p := range r.Conductivity.Pedersen {
		if p < 0 || math.IsNaN(p) {
			t.Fatalf("bad Pedersen conductivity %g at level %d", p, j)
		}
		pedMax = math.Max(pedMax, p)
		neBgMax = math.Max(neBgMax, r.Ionosphere.Ne[j])
	}
	if neBgMax <= 0 {
		t.Fatal("background electron density is zero")
	}
	if pedMax <= 0 {
		t.Errorf("Pedersen conductivity is zero in darkness with background Ne %g cm^-3", neBgMax)
	}
}

// Identical inputs must give bit-identical outputs, including through
// the concurrent chemistry stage.
func TestRunDeterministic(t *testing.T) {
	r1, err := Run(dayInputs())
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Run(dayInputs())
	if err != nil {
		t.Fatal(err)
	}
	for i, band := range r1.Emissions.Bands {
		if r1.Emissions.Brightness[i] != r2.Emissions.Brightness[i] {
			t.Errorf("band %s: brightness differs between identical runs", band)
		}
	}
	for j := range r1.Densities.Density["e"] {
		if r1.Densities.Density["e"][j] != r2.Densities.Density["e"][j] {
			t.Fatalf("electron density differs between identical runs at level %d", j)
		}
	}
	for j := range r1.IonizationRate {
		if r1.IonizationRate[j] != r2.IonizationRate[j] {
			t.Fatalf("ionization rate differs between identical runs at level %d", j)
		}
	}
}

func TestRunAuroraBrightens(t *testing.T) {
	r1, err := Run(auroraInputs(1))
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Run(auroraInputs(2))
	if err != nil {
		t.Fatal(err)
	}
	for _, band := range []string{"4278", "5577"} {
		b1, b2 := r1.Emissions.BrightnessFor(band), r2.Emissions.BrightnessFor(band)
		if b1 <= 0 {
			t.Fatalf("band %s: no emission from keV precipitation", band)
		}
		if b2 <= b1 {
			t.Errorf("band %s: brightness %g R at doubled energy flux not above %g R", band, b2, b1)
		}
	}
	// The 4278 Å first negative band is prompt, and transport is linear
	// in the precipitating flux: doubling the energy flux doubles it.
	ratio := r2.Emissions.BrightnessFor("4278") / r1.Emissions.BrightnessFor("4278")
	if different(ratio, 2, 1.e-6) {
		t.Errorf("4278 Å brightness ratio %g, want 2", ratio)
	}
}

// keV auroral electrons stop deeper in the atmosphere than solar EUV
// photons penetrate.
func TestAuroraDepositsBelowDayglow(t *testing.T) {
	day, err := Run(dayInputs())
	if err != nil {
		t.Fatal(err)
	}
	aur, err := Run(auroraInputs(1))
	if err != nil {
		t.Fatal(err)
	}
	peak := func(r *Results) float64 {
		var jmax int
		for j := range r.IonizationRate {
			if r.IonizationRate[j] > r.IonizationRate[jmax] {
				jmax = j
			}
		}
		return r.AltGrid.Z[jmax]
	}
	zDay, zAur := peak(day), peak(aur)
	if zAur >= zDay {
		t.Errorf("auroral ionization peaks at %g km, dayglow at %g km; want aurora below", zAur, zDay)
	}
}

func TestRunInputErrors(t *testing.T) {
	in := dayInputs()
	in.Grid = GridConfig{AltBottom: 200, AltTop: 100}
	_, err := Run(in)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("inverted grid: got %v, want *ConfigError", err)
	}

	in = dayInputs()
	in.Aurora = AuroralSpec{TotalEnergyFlux: -1, CharEnergy: 1000}
	_, err = Run(in)
	if !errors.As(err, &ce) {
		t.Errorf("negative energy flux: got %v, want *ConfigError", err)
	}

	in = dayInputs()
	in.F107 = 30
	_, err = Run(in)
	var de *DomainError
	if !errors.As(err, &de) {
		t.Errorf("out-of-range F10.7: got %v, want *DomainError", err)
	}
}

func TestModelStageOrder(t *testing.T) {
	m := New(auroraInputs(1))
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	// Grids, precipitation spectrum, and profiles exist before any
	// numerical stage runs.
	if m.AltGrid == nil || m.EnGrid == nil || m.TopFlux == nil || m.Atmosphere == nil || m.Ionosphere == nil {
		t.Fatal("initialization did not populate the model state")
	}
	if m.Flux != nil || m.Emissions != nil {
		t.Fatal("numerical outputs populated before Run")
	}
	if err := m.Run(); err != nil {
		t.Fatal(err)
	}
	if m.Flux == nil || m.Densities == nil || m.Emissions == nil || m.Conductivity == nil {
		t.Fatal("Run did not populate the model outputs")
	}
}
