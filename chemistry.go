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
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// StateSpecies are the excited and ionic species solved for by the
// chemistry stage, plus the electron density that closes the charge
// balance.
var StateSpecies = []string{"O+", "O2+", "N2+", "NO+", "N2D", "O1D", "O1S", "N2A", "e"}

// SpeciesStateDensities holds the steady-state densities per altitude
// level. Levels where the iteration did not converge are flagged; the
// densities there are the last iterate and should be treated as
// unreliable.
type SpeciesStateDensities struct {
	Density   map[string][]float64 // species → [cm⁻³]
	Converged []bool
}

// ElectronDensity merges the background ionosphere with the local
// chemistry solution, keeping the larger of the two at each level.
// The local steady state is zero wherever nothing ionizes, but the
// plasma there does not vanish; the background profile carries it.
func (d *SpeciesStateDensities) ElectronDensity(iono *IonosphereProfile) []float64 {
	ne := make([]float64, len(d.Density["e"]))
	for j := range ne {
		ne[j] = math.Max(d.Density["e"][j], iono.Ne[j])
	}
	return ne
}

// Reaction-rate coefficients [cm³ s⁻¹ unless noted]. Temperature
// dependences follow the usual laboratory fits.
const (
	kN2pO2 = 5.0e-11 // N2+ + O2 → N2 + O2+
	kN2pO  = 1.4e-10 // N2+ + O → NO+ + N(2D)
	kOpO2  = 2.0e-11 // O+ + O2 → O2+ + O
	kOpN2  = 1.2e-12 // O+ + N2 → NO+ + N
	kO2pNO = 4.4e-10 // O2+ + NO → NO+ + O2

	fN2DfromNOp = 0.76 // N(2D) yield per NO+ recombination
	fN2DfromN2p = 0.9  // N(2D) yield per N2+ recombination
	fO1DfromO2p = 1.2  // O(1D) yield per O2+ recombination
	fO1SfromO2p = 0.08 // O(1S) yield per O2+ recombination
	fO1SfromN2A = 0.37 // O(1S) yield per N2(A)+O transfer

	// Einstein coefficients [s⁻¹].
	aN2D  = 1.07e-5 // N(2D) → 5200 Å
	aO1D  = 9.3e-3  // O(1D) total
	aO1S  = 1.29    // O(1S) total (5577 + 2972 Å)
	aN2A  = 0.77    // N2(A) Vegard-Kaplan
	a5577 = 1.215
	a6300 = 5.63e-3

	// Quenching coefficients.
	kN2DO2 = 6.0e-12
	kN2DO  = 6.9e-13
	kN2De  = 5.5e-10
	kO1DN2 = 3.0e-11
	kO1DO2 = 3.3e-11
	kO1De  = 1.6e-12
	kO1SO  = 2.0e-14
	kN2AO  = 2.8e-11
	kN2AO2 = 4.0e-12
)

// Dissociative recombination coefficients, with the standard electron
// temperature dependence.
func alphaNOp(te float64) float64 { return 4.0e-7 * math.Sqrt(300/te) }
func alphaO2p(te float64) float64 { return 1.95e-7 * math.Pow(300/te, 0.7) }
func alphaN2p(te float64) float64 { return 1.8e-7 * math.Pow(300/te, 0.39) }
func alphaOpRad(te float64) float64 { return 3.7e-12 * math.Pow(250/te, 0.7) }

const (
	chemTolerance = 1e-5
	chemMaxIter   = 80
)

// ImpactExcitation computes volume excitation rates [cm⁻³ s⁻¹] per
// tabulated channel from the electron flux field.
func ImpactExcitation(atm *AtmosphereProfile, grid *AltitudeGrid, eg *EnergyGrid,
	f *ElectronFluxField, xs *CrossSectionTable) map[string][]float64 {

	nz := grid.Len()
	rates := make(map[string][]float64, len(xs.Excitation))
	for _, ch := range xs.Excitation {
		r := make([]float64, nz)
		n := atm.Density[ch.Species]
		// Channel cross section sampled once per bin.
		sig := make([]float64, eg.Len())
		for i, e := range eg.E {
			sig[i] = ch.SigmaAt(e)
		}
		for j := 0; j < nz; j++ {
			var sum float64
			for i := range eg.E {
				if sig[i] == 0 {
					continue
				}
				sum += sig[i] * f.Total(j, i) * eg.DE[i]
			}
			r[j] = n[j] * sum
		}
		rates[ch.Name] = r
	}
	return rates
}

// SteadyStateChemistry solves the local photochemical balance at every
// altitude level independently. Chemistry has no vertical transport
// term, so levels are mutually independent and are solved
// concurrently. Non-convergence at a level is logged and flagged but
// does not abort the run.
func SteadyStateChemistry(atm *AtmosphereProfile, iono *IonosphereProfile,
	grid *AltitudeGrid, prod *ProductionRates, f *ElectronFluxField,
	exc map[string][]float64, log *logrus.Logger) *SpeciesStateDensities {

	nz := grid.Len()
	d := &SpeciesStateDensities{
		Density:   make(map[string][]float64, len(StateSpecies)),
		Converged: make([]bool, nz),
	}
	for _, s := range StateSpecies {
		d.Density[s] = make([]float64, nz)
	}

	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for j := pp; j < nz; j += nprocs {
				solveLevel(d, j, atm, iono, prod, f, exc)
				if !d.Converged[j] {
					log.WithFields(logrus.Fields{
						"altitude_km": grid.Z[j],
						"level":       j,
					}).Warn("chemistry iteration did not converge; densities at this level are unreliable")
				}
			}
		}(pp)
	}
	wg.Wait()
	return d
}

func solveLevel(d *SpeciesStateDensities, j int, atm *AtmosphereProfile,
	iono *IonosphereProfile, prod *ProductionRates, f *ElectronFluxField,
	exc map[string][]float64) {

	nO := atm.Density["O"][j]
	nO2 := atm.Density["O2"][j]
	nN2 := atm.Density["N2"][j]
	nNO := atm.Density["NO"][j]
	te := iono.Te[j]

	pOp := prod.PhotoIon["O"][j] + f.SecondaryIonization["O"][j]
	pO2p := prod.PhotoIon["O2"][j] + f.SecondaryIonization["O2"][j]
	pN2p := prod.PhotoIon["N2"][j] + f.SecondaryIonization["N2"][j]

	a1, a2, a3 := alphaNOp(te), alphaO2p(te), alphaN2p(te)
	aRad := alphaOpRad(te)

	var nN2p, nOp, nO2p, nNOp, ne float64
	if pOp+pO2p+pN2p == 0 {
		// Nothing drives the local ionization balance; the ions stay
		// at the trivial state. Impact excitation can still populate
		// the excited neutrals below.
		d.Converged[j] = true
	} else {
		ne = math.Max(iono.Ne[j], 1)
		for it := 0; it < chemMaxIter; it++ {
			nN2p = pN2p / (kN2pO2*nO2 + kN2pO*nO + a3*ne)
			nOp = pOp / (kOpO2*nO2 + kOpN2*nN2 + aRad*ne)
			nO2p = (pO2p + kN2pO2*nO2*nN2p + kOpO2*nO2*nOp) / (kO2pNO*nNO + a2*ne)
			nNOp = (kN2pO*nO*nN2p + kOpN2*nN2*nOp + kO2pNO*nNO*nO2p) / (a1 * ne)
			neNew := nN2p + nOp + nO2p + nNOp
			// Geometric damping keeps the quadratic charge balance
			// from overshooting.
			next := math.Sqrt(ne * math.Max(neNew, 1e-3))
			if math.Abs(next-ne)/ne < chemTolerance {
				ne = next
				d.Converged[j] = true
				break
			}
			ne = next
		}
		d.Density["N2+"][j] = nN2p
		d.Density["O+"][j] = nOp
		d.Density["O2+"][j] = nO2p
		d.Density["NO+"][j] = nNOp
		d.Density["e"][j] = ne
	}

	// Excited neutrals follow algebraically from the converged ion
	// densities and the impact-excitation rates.
	nN2A := exc["N2A"][j] / (aN2A + kN2AO*nO + kN2AO2*nO2)
	d.Density["N2A"][j] = nN2A

	nN2D := (fN2DfromNOp*a1*nNOp*ne + fN2DfromN2p*a3*nN2p*ne + kN2pO*nO*nN2p) /
		(aN2D + kN2DO2*nO2 + kN2DO*nO + kN2De*ne)
	d.Density["N2D"][j] = nN2D

	nO1D := (exc["O1D"][j] + fO1DfromO2p*a2*nO2p*ne + kN2DO2*nN2D*nO2) /
		(aO1D + kO1DN2*nN2 + kO1DO2*nO2 + kO1De*ne)
	d.Density["O1D"][j] = nO1D

	nO1S := (exc["O1S"][j] + fO1SfromO2p*a2*nO2p*ne + fO1SfromN2A*kN2AO*nN2A*nO) /
		(aO1S + kO1SO*nO)
	d.Density["O1S"][j] = nO1S
}
