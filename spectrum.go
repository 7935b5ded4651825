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

	"github.com/ctessum/unit"
)

// electronVolt is one eV in SI [J].
const electronVolt = 1.602176634e-19

// energyFluxDims are the dimensions of an energy flux [W m⁻²].
var energyFluxDims = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -3}

// ergPerCm2PerS wraps an energy flux given in erg cm⁻² s⁻¹ as an SI
// quantity.
func ergPerCm2PerS(v float64) *unit.Unit {
	// 1 erg cm⁻² s⁻¹ = 10⁻³ W m⁻²
	return unit.New(v*1e-3, energyFluxDims)
}

// eVPerCm2PerS extracts an energy flux in eV cm⁻² s⁻¹ from an SI
// quantity.
func eVPerCm2PerS(u *unit.Unit) (float64, error) {
	if err := u.Check(energyFluxDims); err != nil {
		return 0, err
	}
	return u.Value() * 1e-4 / electronVolt, nil
}

// SolarFlux is the solar photon flux at the top of the atmosphere on
// the wavelength bins of the cross-section table.
type SolarFlux struct {
	PhotonEnergy []float64 // bin center photon energy [eV]
	Flux         []float64 // [photons cm⁻² s⁻¹]
}

// NewSolarFlux scales the F74113 reference spectrum by the EUVAC
// solar-activity proxy P = (F10.7 + ⟨F10.7⟩)/2. The scaling is floored
// at 0.8 of the reference so very low proxies do not drive bins
// negative.
func NewSolarFlux(xs *CrossSectionTable, f107, f107a float64) *SolarFlux {
	p := (f107 + f107a) / 2
	f := &SolarFlux{
		PhotonEnergy: make([]float64, len(xs.Wavelength)),
		Flux:         make([]float64, len(xs.Wavelength)),
	}
	for i, w := range xs.Wavelength {
		f.PhotonEnergy[i] = w.CenterEV
		scale := 1 + w.EUVACA*(p-80)
		if scale < 0.8 {
			scale = 0.8
		}
		f.Flux[i] = w.F74113 * scale
	}
	return f
}

var (
	errNegativeFlux    = errors.New("total energy flux must be non-negative")
	errBadCharEnergy   = errors.New("characteristic energy must be positive")
	errSpectrumLength  = errors.New("explicit spectrum length must match the energy grid")
	errSpectrumValues  = errors.New("explicit spectrum must be non-negative with a positive integral")
	errMonoOutsideGrid = errors.New("monoenergetic beam energy is below the energy grid")
)

// AuroralSpec specifies the precipitating electron flux at the top of
// the grid: either a Maxwellian with the given characteristic energy,
// a monoenergetic beam, or an arbitrary user-supplied spectrum. In all
// cases the distribution is normalized so its energy integral equals
// TotalEnergyFlux.
type AuroralSpec struct {
	TotalEnergyFlux float64 // Q [erg cm⁻² s⁻¹]
	CharEnergy      float64 // E0 [eV]

	// Monoenergetic deposits the whole flux in the bin containing
	// CharEnergy instead of a Maxwellian.
	Monoenergetic bool

	// Spectrum, if non-nil, is an explicit differential number flux on
	// the energy grid. Its shape is kept and its magnitude rescaled to
	// TotalEnergyFlux.
	Spectrum []float64
}

// TopFlux returns the precipitating differential number flux
// [cm⁻² s⁻¹ eV⁻¹] on the energy grid. The energy integral of the
// result equals TotalEnergyFlux to within floating-point round-off.
func (a AuroralSpec) TopFlux(eg *EnergyGrid) ([]float64, error) {
	phi := make([]float64, eg.Len())
	if a.TotalEnergyFlux < 0 {
		return nil, &ConfigError{Field: "TotalEnergyFlux", Err: errNegativeFlux}
	}
	if a.TotalEnergyFlux == 0 {
		return phi, nil
	}
	q, err := eVPerCm2PerS(ergPerCm2PerS(a.TotalEnergyFlux))
	if err != nil {
		return nil, &ConfigError{Field: "TotalEnergyFlux", Err: err}
	}

	switch {
	case a.Spectrum != nil:
		if len(a.Spectrum) != eg.Len() {
			return nil, &ConfigError{Field: "Spectrum", Err: errSpectrumLength}
		}
		copy(phi, a.Spectrum)
	case a.Monoenergetic:
		if a.CharEnergy <= 0 {
			return nil, &ConfigError{Field: "CharEnergy", Err: errBadCharEnergy}
		}
		i := eg.Bin(a.CharEnergy)
		if i < 0 {
			return nil, &ConfigError{Field: "CharEnergy", Err: errMonoOutsideGrid}
		}
		phi[i] = 1
	default:
		if a.CharEnergy <= 0 {
			return nil, &ConfigError{Field: "CharEnergy", Err: errBadCharEnergy}
		}
		// Maxwellian: φ(E) ∝ E exp(−E/E0).
		for i, e := range eg.E {
			phi[i] = e * math.Exp(-e/a.CharEnergy)
		}
	}

	var total float64 // energy integral [eV cm⁻² s⁻¹]
	for i := range phi {
		if phi[i] < 0 {
			return nil, &ConfigError{Field: "Spectrum", Err: errSpectrumValues}
		}
		total += phi[i] * eg.E[i] * eg.DE[i]
	}
	if total <= 0 {
		return nil, &ConfigError{Field: "Spectrum", Err: errSpectrumValues}
	}
	scale := q / total
	for i := range phi {
		phi[i] *= scale
	}
	return phi, nil
}
