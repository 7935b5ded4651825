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
)

// GridConfig specifies the altitude and electron energy discretization
// for a model run.
type GridConfig struct {
	AltBottom float64 // bottom of the altitude grid [km]
	AltTop    float64 // top of the altitude grid [km]
	NAlt      int     // number of altitude levels

	EnergyMin float64 // lowest electron energy bin center [eV]
	EnergyMax float64 // highest electron energy bin center [eV]
	NEnergy   int     // number of energy bins

	// AltStretch controls how strongly level spacing grows with
	// altitude. Zero selects the default. Larger values concentrate
	// levels near the bottom of the grid where the neutral density
	// scale height is smallest.
	AltStretch float64
}

// Default grid dimensions, matching the reference model's 102-level
// altitude grid and 0.5 eV–50 keV energy range.
const (
	defaultAltBottom  = 60.  // km
	defaultAltTop     = 640. // km
	defaultNAlt       = 102
	defaultEnergyMin  = 0.5   // eV
	defaultEnergyMax  = 5.e4  // eV
	defaultNEnergy    = 100
	defaultAltStretch = 2.4
)

func (c *GridConfig) setDefaults() {
	if c.AltBottom == 0 && c.AltTop == 0 {
		c.AltBottom, c.AltTop = defaultAltBottom, defaultAltTop
	}
	if c.NAlt == 0 {
		c.NAlt = defaultNAlt
	}
	if c.EnergyMin == 0 && c.EnergyMax == 0 {
		c.EnergyMin, c.EnergyMax = defaultEnergyMin, defaultEnergyMax
	}
	if c.NEnergy == 0 {
		c.NEnergy = defaultNEnergy
	}
	if c.AltStretch == 0 {
		c.AltStretch = defaultAltStretch
	}
}

// AltitudeGrid is the common altitude discretization shared by every
// stage of the pipeline. Levels are strictly increasing. It is
// immutable once built.
type AltitudeGrid struct {
	Z  []float64 // level center altitudes [km]
	Dz []float64 // level thicknesses [km]
}

// Len returns the number of altitude levels.
func (g *AltitudeGrid) Len() int { return len(g.Z) }

// NewAltitudeGrid builds an altitude grid with exponentially stretched
// spacing: fine near the collision-dominated bottom boundary, coarse
// near the top where scale heights are large.
func NewAltitudeGrid(cfg GridConfig) (*AltitudeGrid, error) {
	cfg.setDefaults()
	if cfg.AltTop <= cfg.AltBottom {
		return nil, &ConfigError{
			Field: "AltTop",
			Err:   errTopBelowBottom,
		}
	}
	if cfg.NAlt < 2 {
		return nil, &ConfigError{
			Field: "NAlt",
			Err:   errTooFewLevels,
		}
	}
	n := cfg.NAlt
	span := cfg.AltTop - cfg.AltBottom
	s := cfg.AltStretch
	g := &AltitudeGrid{
		Z:  make([]float64, n),
		Dz: make([]float64, n),
	}
	// z(x) = bottom + span*(e^(s*x)-1)/(e^s-1), x in [0,1].
	den := math.Expm1(s)
	for j := 0; j < n; j++ {
		x := float64(j) / float64(n-1)
		g.Z[j] = cfg.AltBottom + span*math.Expm1(s*x)/den
	}
	// Thicknesses from interface midpoints; the end levels take the
	// half-interval on their open side doubled so the thicknesses sum
	// to the grid span.
	for j := 0; j < n; j++ {
		switch j {
		case 0:
			g.Dz[j] = g.Z[1] - g.Z[0]
		case n - 1:
			g.Dz[j] = g.Z[n-1] - g.Z[n-2]
		default:
			g.Dz[j] = 0.5 * (g.Z[j+1] - g.Z[j-1])
		}
	}
	return g, nil
}

// EnergyGrid is the electron energy discretization. Bin centers are
// strictly increasing and geometrically spaced. It is immutable once
// built.
type EnergyGrid struct {
	E  []float64 // bin center energies [eV]
	DE []float64 // bin widths [eV]
}

// Len returns the number of energy bins.
func (g *EnergyGrid) Len() int { return len(g.E) }

// Bin returns the index of the bin containing energy e [eV], or -1 if
// e is below the lowest bin edge. Energies above the top edge clamp to
// the highest bin.
func (g *EnergyGrid) Bin(e float64) int {
	if e < g.E[0]-0.5*g.DE[0] {
		return -1
	}
	for i := range g.E {
		if e <= g.E[i]+0.5*g.DE[i] {
			return i
		}
	}
	return len(g.E) - 1
}

// NewEnergyGrid builds a geometrically spaced electron energy grid.
func NewEnergyGrid(cfg GridConfig) (*EnergyGrid, error) {
	cfg.setDefaults()
	if cfg.EnergyMin <= 0 || cfg.EnergyMax <= cfg.EnergyMin {
		return nil, &ConfigError{
			Field: "EnergyMin",
			Err:   errBadEnergyRange,
		}
	}
	if cfg.NEnergy < 2 {
		return nil, &ConfigError{
			Field: "NEnergy",
			Err:   errTooFewBins,
		}
	}
	n := cfg.NEnergy
	g := &EnergyGrid{
		E:  make([]float64, n),
		DE: make([]float64, n),
	}
	// Bin edges log-spaced between the half-ratio extensions of the
	// requested center range so that the first and last centers land
	// on EnergyMin and EnergyMax.
	r := math.Pow(cfg.EnergyMax/cfg.EnergyMin, 1/float64(n-1))
	for i := 0; i < n; i++ {
		g.E[i] = cfg.EnergyMin * math.Pow(r, float64(i))
	}
	sqr := math.Sqrt(r)
	for i := 0; i < n; i++ {
		g.DE[i] = g.E[i] * (sqr - 1/sqr)
	}
	return g, nil
}
