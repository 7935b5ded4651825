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
	"gonum.org/v1/gonum/mat"
)

// avgPitchCosine is the average pitch-angle cosine of the two-stream
// approximation.
const avgPitchCosine = 0.5

// ElectronFluxField is the solution of the two-stream transport
// equation: hemispherical electron fluxes per altitude level and
// energy bin, with the derived heating and impact-ionization rates.
type ElectronFluxField struct {
	// Up and Down are the upward and downward differential number
	// fluxes, indexed [level][energy bin] [cm⁻² s⁻¹ eV⁻¹].
	Up, Down *sparse.DenseArray

	// Heating is the thermal electron heating rate [eV cm⁻³ s⁻¹].
	Heating []float64

	// SecondaryIonization is the electron-impact ionization rate per
	// species [cm⁻³ s⁻¹].
	SecondaryIonization map[string][]float64
}

// Total returns the omnidirectional flux φ↑+φ↓ at level j, bin i.
func (f *ElectronFluxField) Total(j, i int) float64 {
	return f.Up.Get(j, i) + f.Down.Get(j, i)
}

// SecondaryTotal returns the summed impact-ionization rate at level j
// [cm⁻³ s⁻¹].
func (f *ElectronFluxField) SecondaryTotal(j int) float64 {
	// Iterate in the fixed photoSpecies order: map iteration order
	// varies between runs, and float addition is not associative, so
	// ranging the map would make identical runs bit-differ.
	var sum float64
	for _, s := range photoSpecies {
		sum += f.SecondaryIonization[s][j]
	}
	return sum
}

// TwoStreamTransport solves the two-stream Boltzmann transport
// equation for electron flux on the altitude-energy grid. Energy bins
// are processed strictly from highest to lowest: flux degraded out of
// a bin, and secondary electrons from impact ionization, enter the
// source terms of lower bins only, so each bin's tridiagonal altitude
// system is assembled from finalized higher-bin results.
//
// Boundary conditions: the downward flux at the top of the grid equals
// topFlux (the precipitating spectrum), and the bottom boundary is
// absorbing (zero re-entrant upward flux).
//
// A singular altitude system is a fatal *NumericalError; nothing is
// retried.
func TwoStreamTransport(atm *AtmosphereProfile, grid *AltitudeGrid, eg *EnergyGrid,
	prod *ProductionRates, topFlux []float64, xs *CrossSectionTable) (*ElectronFluxField, error) {

	nz, ne := grid.Len(), eg.Len()
	f := &ElectronFluxField{
		Up:                  sparse.ZerosDense(nz, ne),
		Down:                sparse.ZerosDense(nz, ne),
		Heating:             make([]float64, nz),
		SecondaryIonization: make(map[string][]float64, len(photoSpecies)),
	}
	for _, s := range photoSpecies {
		f.SecondaryIonization[s] = make([]float64, nz)
	}

	// Level spacings [cm].
	h := make([]float64, nz-1)
	for j := 0; j < nz-1; j++ {
		h[j] = (grid.Z[j+1] - grid.Z[j]) * 1e5
	}

	// cascade accumulates the degradation and secondary-electron
	// sources for bins not yet solved [cm⁻³ s⁻¹ eV⁻¹].
	cascade := sparse.ZerosDense(nz, ne)

	// Per-level work arrays reused across bins.
	var (
		a, b, c, d = make([]float64, nz), make([]float64, nz), make([]float64, nz), make([]float64, nz)
		eloss      = make([]float64, nz) // energy-loss rate per path [eV cm⁻¹]
		rhs        = make([]float64, nz)
		dl, dd, du = make([]float64, nz-1), make([]float64, nz), make([]float64, nz-1)
		phiTot     = make([]float64, nz)
	)
	x := mat.NewVecDense(nz, nil)

	for i := ne - 1; i >= 0; i-- {
		e := eg.E[i]
		// Energy lost when an electron leaves this bin downward.
		eDown := eg.DE[i]
		if i > 0 {
			eDown = e - eg.E[i-1]
		}

		hasSource := topFlux[i] > 0
		for j := 0; j < nz; j++ {
			var loss, back float64
			for _, s := range photoSpecies {
				n := atm.Density[s][j]
				ex := xs.Electron[s]
				loss += n * ex.LossAt(e)
				back += n * ex.ElasticAt(e) * ex.BackscatterAt(e)
			}
			eloss[j] = loss
			rInel := loss / eDown // bin removal rate [cm⁻¹]
			a[j] = (rInel + back) / avgPitchCosine
			b[j] = back / avgPitchCosine
			c[j] = a[j] + b[j]
			d[j] = a[j] - b[j]
			q := prod.Photoelectron.Get(j, i) + cascade.Get(j, i)
			rhs[j] = -2 * q / (2 * avgPitchCosine) * c[j]
			if q > 0 {
				hasSource = true
			}
		}
		if !hasSource {
			continue // flux at this bin is identically zero
		}

		// Assemble the tridiagonal system for G = φ↑+φ↓:
		//   G″ − (c′/c)G′ − c·d·G = −2(q/2μ)c,
		// with Robin rows encoding the stream boundary conditions.
		for j := 1; j < nz-1; j++ {
			hm, hp := h[j-1], h[j]
			al := 2 / (hm * (hm + hp))
			be := 2 / (hp * (hm + hp))
			cp := (c[j+1] - c[j-1]) / (hm + hp)
			adv := cp / c[j] / (hm + hp)
			dl[j-1] = al + adv
			dd[j] = -(al + be) - c[j]*d[j]
			du[j] = be - adv
		}
		// Bottom: φ↑ = 0 ⇒ G − G′/c = 0.
		dd[0] = 1 + 1/(c[0]*h[0])
		du[0] = -1 / (c[0] * h[0])
		rhs[0] = 0
		// Top: φ↓ = topFlux ⇒ G + G′/c = 2·topFlux.
		dd[nz-1] = 1 + 1/(c[nz-1]*h[nz-2])
		dl[nz-2] = -1 / (c[nz-1] * h[nz-2])
		rhs[nz-1] = 2 * topFlux[i]

		A := mat.NewTridiag(nz, dl, dd, du)
		if err := A.SolveVecTo(x, false, mat.NewVecDense(nz, rhs)); err != nil {
			return nil, &NumericalError{Op: "two-stream altitude solve", Level: -1, Bin: i, Err: err}
		}

		for j := 0; j < nz; j++ {
			g := x.AtVec(j)
			var fj float64
			switch j {
			case 0:
				fj = -(x.AtVec(1) - g) / (h[0] * c[0])
			case nz - 1:
				fj = -(g - x.AtVec(nz-2)) / (h[nz-2] * c[nz-1])
			default:
				fj = -(x.AtVec(j+1) - x.AtVec(j-1)) / ((h[j-1] + h[j]) * c[j])
			}
			up := math.Max(0, (g+fj)/2)
			down := math.Max(0, (g-fj)/2)
			f.Up.Set(up, j, i)
			f.Down.Set(down, j, i)
			phiTot[j] = up + down
		}

		// Degradation cascade: the energy removed from this bin
		// reappears as electron flux one bin down (or as thermal
		// heating below the lowest bin).
		for j := 0; j < nz; j++ {
			w := eloss[j] * phiTot[j] * eg.DE[i] // eV cm⁻³ s⁻¹
			if i > 0 {
				cascade.AddVal(w/eDown/eg.DE[i-1], j, i-1)
			} else {
				f.Heating[j] += w
			}
		}

		// Impact-ionization secondaries feed lower bins with an
		// exponential spectrum capped at half the available energy.
		for _, s := range photoSpecies {
			ex := xs.Electron[s]
			sig := ex.IonizationAt(e)
			if sig == 0 {
				continue
			}
			wts := secondaryWeights(eg, i, e-ex.IonThresholdEV, ex.SecondaryEV)
			for j := 0; j < nz; j++ {
				r := atm.Density[s][j] * sig * phiTot[j] * eg.DE[i]
				if r == 0 {
					continue
				}
				f.SecondaryIonization[s][j] += r
				for k, w := range wts {
					if w > 0 {
						cascade.AddVal(r*w/eg.DE[k], j, k)
					}
				}
			}
		}
	}
	return f, nil
}

// secondaryWeights distributes one secondary electron from an
// ionization by a primary in bin i over lower bins, proportional to
// exp(−E/es) and limited to half the energy left above threshold.
// The returned weights sum to one (or are all zero when no lower bin
// can receive the secondary).
func secondaryWeights(eg *EnergyGrid, i int, avail, es float64) []float64 {
	w := make([]float64, i)
	if avail <= 0 || i == 0 {
		return w
	}
	emax := avail / 2
	var sum float64
	for k := 0; k < i; k++ {
		if eg.E[k] > emax {
			break
		}
		w[k] = math.Exp(-eg.E[k]/es) * eg.DE[k]
		sum += w[k]
	}
	if sum == 0 {
		// The whole spectrum lies below the grid: fold it into the
		// lowest bin to conserve electron number.
		w[0] = 1
		return w
	}
	for k := range w {
		w[k] /= sum
	}
	return w
}
