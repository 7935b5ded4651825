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
)

// Neutral species tracked by the model [cm⁻³].
var NeutralSpecies = []string{"O", "O2", "N2", "NO"}

// Molecular masses [amu].
var speciesMass = map[string]float64{
	"O": 16, "O2": 32, "N2": 28, "NO": 30,
}

// AtmosphereProfile holds neutral temperature and composition sampled
// on the altitude grid. It is read-only once produced.
type AtmosphereProfile struct {
	Tn      []float64            // neutral temperature [K]
	Density map[string][]float64 // species → number density [cm⁻³]
}

// IonosphereProfile holds the background electron density and ion
// composition sampled on the altitude grid. It is read-only once
// produced.
type IonosphereProfile struct {
	Ne      []float64            // electron density [cm⁻³]
	Te      []float64            // electron temperature [K]
	Ti      []float64            // ion temperature [K]
	IonFrac map[string][]float64 // ion species → fraction of Ne
}

// Environment provides the empirical neutral atmosphere and ionosphere.
// Implementations must behave as pure functions of their arguments.
// A call outside the empirical model's validity range returns a
// *DomainError.
type Environment interface {
	Atmosphere(in Inputs, grid *AltitudeGrid) (*AtmosphereProfile, error)
	Ionosphere(in Inputs, grid *AltitudeGrid) (*IonosphereProfile, error)
}

var (
	errLatRange  = errors.New("latitude must be within ±90°")
	errF107Range = errors.New("F10.7 index outside 40–400 sfu validity range")
	errApRange   = errors.New("Ap index outside 0–400 validity range")
)

// MSISE is a built-in analytic stand-in for the empirical MSIS neutral
// atmosphere and a Chapman-layer ionosphere, driven by the F10.7 and Ap
// proxies. It reproduces the gross structure (Bates temperature
// profile, diffusive equilibrium above the turbopause, mixed atmosphere
// below) that the transport and chemistry solvers need, without any
// external data files.
type MSISE struct{}

func (MSISE) checkDomain(in Inputs) error {
	if math.Abs(in.Lat) > 90 {
		return &DomainError{Quantity: "latitude", Value: in.Lat, Err: errLatRange}
	}
	for _, f := range []float64{in.F107, in.F107a, in.F107p} {
		if f < 40 || f > 400 {
			return &DomainError{Quantity: "F10.7", Value: f, Err: errF107Range}
		}
	}
	if in.Ap < 0 || in.Ap > 400 {
		return &DomainError{Quantity: "Ap", Value: in.Ap, Err: errApRange}
	}
	return nil
}

const (
	turbopauseKm = 100. // below here the atmosphere is well mixed
	gravSurface  = 9.81 // m s⁻²
)

// gravity at altitude z [km], in m s⁻².
func gravity(z float64) float64 {
	r := earthRadiusKm / (earthRadiusKm + z)
	return gravSurface * r * r
}

// scaleHeight returns the density scale height [km] for molecular mass
// m [amu] at temperature T [K] and altitude z [km].
func scaleHeight(m, T, z float64) float64 {
	return 8.314 * T / (m * gravity(z))
}

// exosphericTemperature follows the activity dependence of the Bates
// profile: hotter thermosphere for higher solar EUV and geomagnetic
// forcing.
func exosphericTemperature(f107a, ap float64) float64 {
	return 500 + 3.4*f107a + 1.2*ap
}

func (MSISE) temperature(z, texo float64) float64 {
	const (
		t100  = 200.   // K at the turbopause
		sigma = 0.018  // km⁻¹, Bates shape parameter
		tMeso = 186.   // mesopause floor
	)
	if z >= turbopauseKm {
		return texo - (texo-t100)*math.Exp(-sigma*(z-turbopauseKm))
	}
	t := t100 - 0.9*(turbopauseKm-z)
	return math.Max(t, tMeso)
}

// Atmosphere returns Bates/diffusive-equilibrium neutral profiles.
func (m MSISE) Atmosphere(in Inputs, grid *AltitudeGrid) (*AtmosphereProfile, error) {
	if err := m.checkDomain(in); err != nil {
		return nil, err
	}
	nz := grid.Len()
	texo := exosphericTemperature(in.F107a, in.Ap)

	// Reference densities at the turbopause [cm⁻³], weakly increasing
	// with solar activity through thermospheric expansion.
	act := 1 + 0.002*(in.F107a-70)
	ref := map[string]float64{
		"N2": 9.0e12 * act,
		"O2": 2.2e12 * act,
		"O":  4.5e11 * act,
	}

	p := &AtmosphereProfile{
		Tn:      make([]float64, nz),
		Density: make(map[string][]float64, len(NeutralSpecies)),
	}
	for _, s := range NeutralSpecies {
		p.Density[s] = make([]float64, nz)
	}
	for j := 0; j < nz; j++ {
		p.Tn[j] = m.temperature(grid.Z[j], texo)
	}

	for _, s := range []string{"N2", "O2", "O"} {
		mass := speciesMass[s]
		for j := 0; j < nz; j++ {
			z := grid.Z[j]
			T := p.Tn[j]
			var col float64
			if z >= turbopauseKm {
				// Diffusive equilibrium: integrate 1/H from the
				// turbopause up in 1 km steps.
				for zz := turbopauseKm; zz < z; zz++ {
					step := math.Min(1, z-zz)
					Tm := m.temperature(zz+0.5*step, texo)
					col += step / scaleHeight(mass, Tm, zz)
				}
				p.Density[s][j] = ref[s] * (200 / T) * math.Exp(-col)
			} else {
				// Well-mixed region: common mean-mass scale height.
				const meanMass = 28.6
				for zz := z; zz < turbopauseKm; zz++ {
					step := math.Min(1, turbopauseKm-zz)
					Tm := m.temperature(zz+0.5*step, texo)
					col += step / scaleHeight(meanMass, Tm, zz)
				}
				p.Density[s][j] = ref[s] * math.Exp(col)
				if s == "O" && z < 97 {
					// Atomic oxygen recombines rapidly below ~97 km.
					p.Density[s][j] *= math.Exp(-(97 - z) / 3)
				}
			}
		}
	}

	// Nitric oxide: a narrow layer near 105 km, enhanced by auroral
	// activity.
	noPeak := 4e7 * (1 + 0.05*in.Ap)
	for j := 0; j < nz; j++ {
		x := (grid.Z[j] - 105) / 15
		p.Density["NO"][j] = noPeak * math.Exp(-x*x)
	}
	return p, nil
}

// chapmanLayer is the classic α-Chapman layer shape.
func chapmanLayer(z, nm, hm, h float64) float64 {
	x := (z - hm) / h
	return nm * math.Exp(0.5*(1-x-math.Exp(-x)))
}

// Ionosphere returns a two-layer (E + F2) Chapman ionosphere.
func (m MSISE) Ionosphere(in Inputs, grid *AltitudeGrid) (*IonosphereProfile, error) {
	if err := m.checkDomain(in); err != nil {
		return nil, err
	}
	nz := grid.Len()
	p := &IonosphereProfile{
		Ne:      make([]float64, nz),
		Te:      make([]float64, nz),
		Ti:      make([]float64, nz),
		IonFrac: map[string][]float64{"O+": make([]float64, nz), "O2+": make([]float64, nz), "NO+": make([]float64, nz)},
	}
	nmF2 := 2.0e5 * (1 + 0.008*(in.F107a-70))
	nmE := 8.0e4 * in.F107a / 100
	texo := exosphericTemperature(in.F107a, in.Ap)
	for j := 0; j < nz; j++ {
		z := grid.Z[j]
		p.Ne[j] = chapmanLayer(z, nmF2, 300, 55) + chapmanLayer(z, nmE, 110, 8) + 1
		p.Te[j] = math.Min(m.temperature(z, texo)+math.Max(0, z-150)*6, 3000)
		p.Ti[j] = math.Min(m.temperature(z, texo)+math.Max(0, z-200)*2, 2000)
		// Molecular ions dominate the E region, O+ the F region.
		fOp := 1 / (1 + math.Exp(-(z-200)/25))
		p.IonFrac["O+"][j] = fOp
		p.IonFrac["NO+"][j] = 0.6 * (1 - fOp)
		p.IonFrac["O2+"][j] = 0.4 * (1 - fOp)
	}
	return p, nil
}

// SyntheticEnvironment is a deterministic test double: an isothermal
// atmosphere with exponential density profiles and a single-layer
// ionosphere. It never fails.
type SyntheticEnvironment struct {
	Tn          float64            // isothermal temperature [K]
	ScaleHeight float64            // common scale height [km]
	RefDensity  map[string]float64 // density at the grid bottom [cm⁻³]
	RefAlt      float64            // altitude of RefDensity [km]
	Ne          float64            // peak electron density [cm⁻³]
}

// DefaultSyntheticEnvironment returns the fixed profiles used by the
// deterministic solver tests.
func DefaultSyntheticEnvironment() *SyntheticEnvironment {
	return &SyntheticEnvironment{
		Tn:          600,
		ScaleHeight: 30,
		RefAlt:      100,
		RefDensity: map[string]float64{
			"N2": 1e13, "O2": 2e12, "O": 5e11, "NO": 1e7,
		},
		Ne: 1e5,
	}
}

func (s *SyntheticEnvironment) Atmosphere(in Inputs, grid *AltitudeGrid) (*AtmosphereProfile, error) {
	nz := grid.Len()
	p := &AtmosphereProfile{
		Tn:      make([]float64, nz),
		Density: make(map[string][]float64, len(NeutralSpecies)),
	}
	for _, sp := range NeutralSpecies {
		p.Density[sp] = make([]float64, nz)
	}
	for j := 0; j < nz; j++ {
		p.Tn[j] = s.Tn
		f := math.Exp(-(grid.Z[j] - s.RefAlt) / s.ScaleHeight)
		for _, sp := range NeutralSpecies {
			p.Density[sp][j] = s.RefDensity[sp] * f
		}
	}
	return p, nil
}

func (s *SyntheticEnvironment) Ionosphere(in Inputs, grid *AltitudeGrid) (*IonosphereProfile, error) {
	nz := grid.Len()
	p := &IonosphereProfile{
		Ne:      make([]float64, nz),
		Te:      make([]float64, nz),
		Ti:      make([]float64, nz),
		IonFrac: map[string][]float64{"O+": make([]float64, nz), "O2+": make([]float64, nz), "NO+": make([]float64, nz)},
	}
	for j := 0; j < nz; j++ {
		p.Ne[j] = chapmanLayer(grid.Z[j], s.Ne, 250, 50) + 1
		p.Te[j] = s.Tn * 2
		p.Ti[j] = s.Tn
		p.IonFrac["O+"][j] = 0.5
		p.IonFrac["NO+"][j] = 0.3
		p.IonFrac["O2+"][j] = 0.2
	}
	return p, nil
}
