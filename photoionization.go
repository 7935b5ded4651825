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
)

// Species whose photoionization is tracked.
var photoSpecies = []string{"O", "O2", "N2"}

// ProductionRates holds the primary photoelectron and photoion
// production from solar EUV absorption.
type ProductionRates struct {
	// Photoelectron is the differential photoelectron production,
	// indexed [level][energy bin] [cm⁻³ s⁻¹ eV⁻¹].
	Photoelectron *sparse.DenseArray

	// PhotoIon is the photoion production per species [cm⁻³ s⁻¹].
	PhotoIon map[string][]float64

	// Total is the summed photoionization rate per level [cm⁻³ s⁻¹].
	Total []float64
}

// Photoionize attenuates the solar spectrum along the slant path and
// converts the absorbed ionizing photons into photoion and
// photoelectron production. Each photoelectron carries the photon
// energy minus the species' ionization threshold; photons below
// threshold ionize nothing.
func Photoionize(atm *AtmosphereProfile, grid *AltitudeGrid, eg *EnergyGrid,
	od *OpticalDepthTable, sun *SolarFlux, xs *CrossSectionTable) *ProductionRates {

	nz := grid.Len()
	p := &ProductionRates{
		Photoelectron: sparse.ZerosDense(nz, eg.Len()),
		PhotoIon:      make(map[string][]float64, len(photoSpecies)),
		Total:         make([]float64, nz),
	}
	for _, s := range photoSpecies {
		p.PhotoIon[s] = make([]float64, nz)
	}

	for j := 0; j < nz; j++ {
		if od.Occluded[j] {
			continue
		}
		for w := range sun.Flux {
			// Beer-Lambert attenuation over all absorbers.
			var tau float64
			for _, s := range photoSpecies {
				tau += xs.Photo[s].Absorption[w] * od.SlantColumn[s][j]
			}
			if tau > 100 {
				continue
			}
			local := sun.Flux[w] * math.Exp(-tau)
			for _, s := range photoSpecies {
				ph := xs.Photo[s]
				if ph.Ionization[w] == 0 {
					continue
				}
				rate := atm.Density[s][j] * ph.Ionization[w] * local
				p.PhotoIon[s][j] += rate
				p.Total[j] += rate
				// The ejected electron carries the excess energy.
				// Near-threshold electrons land in the lowest bin so
				// that electron number is conserved.
				ee := sun.PhotonEnergy[w] - ph.ThresholdEV
				i := eg.Bin(ee)
				if i < 0 {
					i = 0
				}
				p.Photoelectron.AddVal(rate/eg.DE[i], j, i)
			}
		}
	}
	return p
}

// photoelectronTotal integrates the differential photoelectron
// production over energy at level j [cm⁻³ s⁻¹].
func (p *ProductionRates) photoelectronTotal(eg *EnergyGrid, j int) float64 {
	var sum float64
	for i := 0; i < eg.Len(); i++ {
		sum += p.Photoelectron.Get(j, i) * eg.DE[i]
	}
	return sum
}
