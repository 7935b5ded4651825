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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/integrate"
)

// EmissionBands are the spectral features reported by the model,
// labeled by wavelength in Å (LBH is the N2 Lyman-Birge-Hopfield band
// system).
var EmissionBands = []string{
	"3371", "4278", "5200", "5577", "6300", "7320", "10400",
	"3644", "7774", "8446", "3726", "LBH", "1356", "1493", "1304",
}

// Prompt-emission yields per ionization event for the O II features.
const (
	y7320  = 0.05
	y10400 = 0.06
	y3644  = 0.005
	y3726  = 0.01
	y4278  = 0.02 // N2+ first negative photons per N2 ionization
	y3371  = 0.25 // N2 second positive (0,0) branch of C-state excitation

	// O+ radiative recombination branch into the 7774 Å multiplet.
	f7774rec = 0.34
)

// EmissionProfile holds volume emission rates per altitude level and
// band, and the altitude-integrated column brightness per band.
type EmissionProfile struct {
	Bands      []string
	VER        *sparse.DenseArray // [level][band] [photons cm⁻³ s⁻¹]
	Brightness []float64          // per band [Rayleigh]
}

// VERAt returns the volume emission rate for the named band at level j.
func (e *EmissionProfile) VERAt(band string, j int) float64 {
	for i, b := range e.Bands {
		if b == band {
			return e.VER.Get(j, i)
		}
	}
	return 0
}

// BrightnessFor returns the column brightness of the named band
// [Rayleigh], or zero for an unknown band.
func (e *EmissionProfile) BrightnessFor(band string) float64 {
	for i, b := range e.Bands {
		if b == band {
			return e.Brightness[i]
		}
	}
	return 0
}

// EmissionRates converts the steady-state densities, the prompt
// excitation rates, and the ionization rates into volume emission
// rates, then integrates each band over altitude (trapezoidal rule)
// into a column brightness. 1 Rayleigh = 10⁶ photons cm⁻² s⁻¹ column.
func EmissionRates(dens *SpeciesStateDensities, exc map[string][]float64,
	prod *ProductionRates, f *ElectronFluxField, iono *IonosphereProfile,
	grid *AltitudeGrid) *EmissionProfile {

	nz := grid.Len()
	e := &EmissionProfile{
		Bands:      EmissionBands,
		VER:        sparse.ZerosDense(nz, len(EmissionBands)),
		Brightness: make([]float64, len(EmissionBands)),
	}

	for j := 0; j < nz; j++ {
		pO := prod.PhotoIon["O"][j] + f.SecondaryIonization["O"][j]
		pN2 := prod.PhotoIon["N2"][j] + f.SecondaryIonization["N2"][j]
		ne := dens.Density["e"][j]
		te := iono.Te[j]

		ver := map[string]float64{
			"3371":  y3371 * exc["N2C"][j],
			"4278":  y4278 * pN2,
			"5200":  aN2D * dens.Density["N2D"][j],
			"5577":  a5577 * dens.Density["O1S"][j],
			"6300":  a6300 * dens.Density["O1D"][j],
			"7320":  y7320 * pO,
			"10400": y10400 * pO,
			"3644":  y3644 * pO,
			"7774":  exc["OI7774"][j] + f7774rec*alphaOpRad(te)*dens.Density["O+"][j]*ne,
			"8446":  exc["OI8446"][j],
			"3726":  y3726 * pO,
			"LBH":   exc["LBH"][j],
			"1356":  exc["OI1356"][j],
			"1493":  exc["NI1493"][j],
			"1304":  exc["OI1304"][j],
		}
		for i, b := range EmissionBands {
			e.VER.Set(ver[b], j, i)
		}
	}

	// Column brightnesses.
	zCm := make([]float64, nz)
	for j, z := range grid.Z {
		zCm[j] = z * 1e5
	}
	col := make([]float64, nz)
	for i := range EmissionBands {
		for j := 0; j < nz; j++ {
			col[j] = e.VER.Get(j, i)
		}
		e.Brightness[i] = 1e-6 * integrate.Trapezoidal(zCm, col)
	}
	return e
}

// ConductivityProfile holds the Pedersen and Hall conductivities
// [S m⁻¹] per altitude level.
type ConductivityProfile struct {
	Pedersen []float64
	Hall     []float64
}

// Physical constants for the conductivity calculation (SI).
const (
	elemCharge   = 1.602176634e-19 // C
	electronMass = 9.1093837e-31   // kg
	amuKg        = 1.66053907e-27
	meanIonMass  = 30.0 // amu; NO+/O2+ dominate where conductivity matters
)

// Conductivities computes the Pedersen and Hall conductivity profiles
// from the electron density, neutral collision frequencies, and the
// dipole magnetic field at the given magnetic latitude.
func Conductivities(atm *AtmosphereProfile, grid *AltitudeGrid,
	ne []float64, te []float64, mlat float64) *ConductivityProfile {

	nz := grid.Len()
	c := &ConductivityProfile{
		Pedersen: make([]float64, nz),
		Hall:     make([]float64, nz),
	}
	mi := meanIonMass * amuKg
	for j := 0; j < nz; j++ {
		var nn float64
		for _, s := range NeutralSpecies {
			nn += atm.Density[s][j]
		}
		b, _ := magneticField(mlat, grid.Z[j])
		omegaE := elemCharge * b / electronMass
		omegaI := elemCharge * b / mi
		nuEn := 5.4e-10 * nn * math.Sqrt(te[j])
		nuIn := 2.6e-9 * nn / math.Sqrt(meanIonMass)

		neSI := ne[j] * 1e6 // m⁻³
		pre := neSI * elemCharge / b
		c.Pedersen[j] = pre * (nuEn*omegaE/(nuEn*nuEn+omegaE*omegaE) +
			nuIn*omegaI/(nuIn*nuIn+omegaI*omegaI))
		c.Hall[j] = pre * (omegaE*omegaE/(nuEn*nuEn+omegaE*omegaE) -
			omegaI*omegaI/(nuIn*nuIn+omegaI*omegaI))
	}
	return c
}
