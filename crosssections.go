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
	_ "embed"
	"fmt"
	"math"
	"sort"

	"github.com/BurntSushi/toml"
)

//go:embed data/xsect.toml
var xsectTOML []byte

// WavelengthBin is one bin of the solar EUV spectrum table.
type WavelengthBin struct {
	RangeA   [2]float64 `toml:"range_a"`   // wavelength range [Å]
	CenterEV float64    `toml:"center_ev"` // photon energy at bin center [eV]
	F74113   float64    `toml:"f74113"`    // reference flux [photons cm⁻² s⁻¹]
	EUVACA   float64    `toml:"euvac_a"`   // EUVAC solar-activity scaling slope
}

// PhotoXSect holds photoabsorption and photoionization cross sections
// for one species, one value per wavelength bin.
type PhotoXSect struct {
	ThresholdEV float64   `toml:"threshold_ev"` // ionization threshold [eV]
	Absorption  []float64 `toml:"absorption"`   // [cm²]
	Ionization  []float64 `toml:"ionization"`   // [cm²]
}

// ElectronXSect holds electron-impact cross sections for one species,
// tabulated on a common energy grid.
type ElectronXSect struct {
	EnergyEV       []float64 `toml:"energy_ev"`
	Elastic        []float64 `toml:"elastic"`     // [cm²]
	Backscatter    []float64 `toml:"backscatter"` // elastic backscatter probability
	Ionization     []float64 `toml:"ionization"`  // [cm²]
	LossEVCm2      []float64 `toml:"loss_ev_cm2"` // loss function L(E) [eV cm²]
	IonThresholdEV float64   `toml:"ion_threshold_ev"`
	SecondaryEV    float64   `toml:"secondary_ev"` // mean secondary electron energy [eV]
}

// ExcitationChannel is a tabulated electron-impact excitation cross
// section feeding a specific excited state or prompt emission.
type ExcitationChannel struct {
	Name        string    `toml:"name"`
	Species     string    `toml:"species"`
	ThresholdEV float64   `toml:"threshold_ev"`
	EnergyEV    []float64 `toml:"energy_ev"`
	Sigma       []float64 `toml:"sigma"` // [cm²]
}

// CrossSectionTable is the static cross-section reference data. It is
// loaded once and never mutated, so it is safe to share between
// concurrent invocations.
type CrossSectionTable struct {
	Wavelength []WavelengthBin          `toml:"wavelength"`
	Photo      map[string]PhotoXSect    `toml:"photo"`
	Electron   map[string]ElectronXSect `toml:"electron"`
	Excitation []ExcitationChannel      `toml:"excitation"`
}

// LoadCrossSections parses the embedded cross-section tables.
func LoadCrossSections() (*CrossSectionTable, error) {
	t := new(CrossSectionTable)
	if err := toml.Unmarshal(xsectTOML, t); err != nil {
		return nil, fmt.Errorf("glow: parsing cross-section table: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("glow: cross-section table: %w", err)
	}
	return t, nil
}

func (t *CrossSectionTable) validate() error {
	nw := len(t.Wavelength)
	if nw == 0 {
		return fmt.Errorf("no wavelength bins")
	}
	for s, p := range t.Photo {
		if len(p.Absorption) != nw || len(p.Ionization) != nw {
			return fmt.Errorf("species %s: photo cross sections do not span the %d wavelength bins", s, nw)
		}
	}
	for s, e := range t.Electron {
		n := len(e.EnergyEV)
		if !sort.Float64sAreSorted(e.EnergyEV) {
			return fmt.Errorf("species %s: electron energy grid is not sorted", s)
		}
		for name, v := range map[string][]float64{
			"elastic": e.Elastic, "backscatter": e.Backscatter,
			"ionization": e.Ionization, "loss_ev_cm2": e.LossEVCm2,
		} {
			if len(v) != n {
				return fmt.Errorf("species %s: %s does not span the %d-point energy grid", s, name, n)
			}
		}
	}
	for _, c := range t.Excitation {
		if len(c.Sigma) != len(c.EnergyEV) {
			return fmt.Errorf("excitation channel %s: sigma does not span its energy grid", c.Name)
		}
		if _, ok := t.Electron[c.Species]; !ok {
			return fmt.Errorf("excitation channel %s: unknown species %s", c.Name, c.Species)
		}
	}
	return nil
}

// interpLogE interpolates ys tabulated at xs, linearly in log(x),
// clamped at the table bounds. The tables may contain zeros (below
// threshold), so the ordinate is interpolated linearly.
func interpLogE(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	i := sort.SearchFloat64s(xs, x)
	lx, l0, l1 := math.Log(x), math.Log(xs[i-1]), math.Log(xs[i])
	f := (lx - l0) / (l1 - l0)
	return ys[i-1] + f*(ys[i]-ys[i-1])
}

// ElasticAt returns the elastic cross section [cm²] at energy e [eV].
func (x ElectronXSect) ElasticAt(e float64) float64 {
	return interpLogE(x.EnergyEV, x.Elastic, e)
}

// BackscatterAt returns the elastic backscatter probability at e [eV].
func (x ElectronXSect) BackscatterAt(e float64) float64 {
	return interpLogE(x.EnergyEV, x.Backscatter, e)
}

// IonizationAt returns the impact-ionization cross section [cm²] at
// e [eV]. It is zero below the ionization threshold.
func (x ElectronXSect) IonizationAt(e float64) float64 {
	if e < x.IonThresholdEV {
		return 0
	}
	return interpLogE(x.EnergyEV, x.Ionization, e)
}

// LossAt returns the loss function L(E) [eV cm²] at e [eV].
func (x ElectronXSect) LossAt(e float64) float64 {
	return interpLogE(x.EnergyEV, x.LossEVCm2, e)
}

// SigmaAt returns the excitation cross section [cm²] at e [eV], zero
// below threshold.
func (c ExcitationChannel) SigmaAt(e float64) float64 {
	if e < c.ThresholdEV {
		return 0
	}
	return interpLogE(c.EnergyEV, c.Sigma, e)
}
