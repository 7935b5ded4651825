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
	"testing"
)

// energyIntegral returns ∫φ·E·dE [eV cm⁻² s⁻¹].
func energyIntegral(phi []float64, eg *EnergyGrid) float64 {
	var sum float64
	for i := range phi {
		sum += phi[i] * eg.E[i] * eg.DE[i]
	}
	return sum
}

func TestTopFluxMaxwellian(t *testing.T) {
	eg, err := NewEnergyGrid(GridConfig{})
	if err != nil {
		t.Fatal(err)
	}
	const q = 1.5 // erg cm⁻² s⁻¹
	a := AuroralSpec{TotalEnergyFlux: q, CharEnergy: 3000}
	phi, err := a.TopFlux(eg)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range phi {
		if p < 0 {
			t.Fatalf("negative flux %g in bin %d", p, i)
		}
	}
	want := q * 1e-7 / electronVolt // eV cm⁻² s⁻¹
	if got := energyIntegral(phi, eg); different(got, want, 1.e-9) {
		t.Errorf("energy integral = %g, want %g", got, want)
	}
	// A Maxwellian with E0 = 3 keV should put its differential peak
	// near E0.
	var imax int
	for i := range phi {
		if phi[i] > phi[imax] {
			imax = i
		}
	}
	if e := eg.E[imax]; e < 1000 || e > 9000 {
		t.Errorf("spectrum peaks at %g eV, want near the characteristic energy", e)
	}
}

func TestTopFluxMonoenergetic(t *testing.T) {
	eg, err := NewEnergyGrid(GridConfig{})
	if err != nil {
		t.Fatal(err)
	}
	a := AuroralSpec{TotalEnergyFlux: 1, CharEnergy: 1000, Monoenergetic: true}
	phi, err := a.TopFlux(eg)
	if err != nil {
		t.Fatal(err)
	}
	nonzero := 0
	for i, p := range phi {
		if p > 0 {
			nonzero++
			if got := eg.Bin(1000); got != i {
				t.Errorf("flux in bin %d, want bin %d", i, got)
			}
		}
	}
	if nonzero != 1 {
		t.Fatalf("%d nonzero bins, want exactly 1", nonzero)
	}
	want := 1e-7 / electronVolt
	if got := energyIntegral(phi, eg); different(got, want, 1.e-9) {
		t.Errorf("energy integral = %g, want %g", got, want)
	}
}

func TestTopFluxExplicitSpectrum(t *testing.T) {
	eg, err := NewEnergyGrid(GridConfig{})
	if err != nil {
		t.Fatal(err)
	}
	spec := make([]float64, eg.Len())
	for i := range spec {
		spec[i] = 1
	}
	a := AuroralSpec{TotalEnergyFlux: 2, Spectrum: spec}
	phi, err := a.TopFlux(eg)
	if err != nil {
		t.Fatal(err)
	}
	want := 2 * 1e-7 / electronVolt
	if got := energyIntegral(phi, eg); different(got, want, 1.e-9) {
		t.Errorf("energy integral = %g, want %g", got, want)
	}
	// The flat shape must survive the renormalization.
	if different(phi[0], phi[eg.Len()-1], 1.e-12) {
		t.Errorf("shape not preserved: phi[0]=%g, phi[last]=%g", phi[0], phi[eg.Len()-1])
	}
}

func TestTopFluxZero(t *testing.T) {
	eg, err := NewEnergyGrid(GridConfig{})
	if err != nil {
		t.Fatal(err)
	}
	phi, err := AuroralSpec{}.TopFlux(eg)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range phi {
		if p != 0 {
			t.Fatalf("bin %d: flux %g, want exactly zero", i, p)
		}
	}
}

func TestTopFluxConfigErrors(t *testing.T) {
	eg, err := NewEnergyGrid(GridConfig{})
	if err != nil {
		t.Fatal(err)
	}
	cases := []AuroralSpec{
		{TotalEnergyFlux: -1, CharEnergy: 1000},
		{TotalEnergyFlux: 1, CharEnergy: 0},
		{TotalEnergyFlux: 1, CharEnergy: -5, Monoenergetic: true},
		{TotalEnergyFlux: 1, Spectrum: []float64{1, 2, 3}},
		{TotalEnergyFlux: 1, Spectrum: make([]float64, eg.Len())}, // all-zero shape
	}
	for i, a := range cases {
		_, err := a.TopFlux(eg)
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("case %d: got %v, want *ConfigError", i, err)
		}
	}
	neg := make([]float64, eg.Len())
	neg[3] = -1
	_, err = AuroralSpec{TotalEnergyFlux: 1, Spectrum: neg}.TopFlux(eg)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("negative spectrum value: got %v, want *ConfigError", err)
	}
}

func TestSolarFluxActivityScaling(t *testing.T) {
	xs, err := LoadCrossSections()
	if err != nil {
		t.Fatal(err)
	}
	quiet := NewSolarFlux(xs, 70, 70)
	active := NewSolarFlux(xs, 200, 200)
	for i := range quiet.Flux {
		if quiet.Flux[i] <= 0 {
			t.Fatalf("bin %d: non-positive quiet-sun flux", i)
		}
		if active.Flux[i] < quiet.Flux[i] {
			t.Errorf("bin %d: active-sun flux %g below quiet-sun %g",
				i, active.Flux[i], quiet.Flux[i])
		}
	}
}
