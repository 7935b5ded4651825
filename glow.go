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

// Package glow computes steady-state ionospheric electron transport,
// photochemistry, and the resulting airglow and auroral optical
// emission as a function of altitude.
//
// The pipeline couples a set of numerical solvers on a shared
// altitude/energy grid: slant-path optical depth, photoionization,
// two-stream electron transport, local steady-state chemistry, and
// volume emission rates. Each invocation is a pure function of its
// inputs; independent invocations may run concurrently.
package glow

import (
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Version is the version of this software.
const Version = "0.2.0"

// Inputs is the full geophysical input set for one pipeline
// invocation.
type Inputs struct {
	Time time.Time // UTC
	Lat  float64   // geographic latitude [degrees]
	Lon  float64   // geographic longitude [degrees]

	F107  float64 // 10.7 cm solar radio flux, day of interest [sfu]
	F107a float64 // 81-day centered average F10.7 [sfu]
	F107p float64 // F10.7 for the previous day [sfu]
	Ap    float64 // daily geomagnetic index

	Aurora AuroralSpec
	Grid   GridConfig
}

// A StageFunc is one step of the pipeline, operating on the shared
// model state.
type StageFunc func(*Model) error

// Model holds the state of one pipeline invocation. Fields are
// populated in strict dependency order by the stage functions; no
// stage runs before its inputs are available, and nothing is shared
// between invocations except the read-only cross-section table.
type Model struct {
	Inputs Inputs

	// Env provides the empirical atmosphere and ionosphere. If nil,
	// the built-in analytic MSISE provider is used.
	Env Environment

	// XS is the cross-section table. If nil, the embedded tables are
	// loaded.
	XS *CrossSectionTable

	// Log receives stage progress and chemistry convergence warnings.
	// If nil, the logrus standard logger is used.
	Log *logrus.Logger

	// InitFuncs validate the configuration and build the grids and
	// environment profiles. RunFuncs are the numerical stages, run in
	// order after initialization.
	InitFuncs []StageFunc
	RunFuncs  []StageFunc

	SZA    float64 // solar zenith angle [degrees]
	MagLat float64 // dipole magnetic latitude [degrees]

	AltGrid      *AltitudeGrid
	EnGrid       *EnergyGrid
	Atmosphere   *AtmosphereProfile
	Ionosphere   *IonosphereProfile
	OpticalDepth *OpticalDepthTable
	Solar        *SolarFlux
	TopFlux      []float64 // precipitating flux [cm⁻² s⁻¹ eV⁻¹]
	Production   *ProductionRates
	Flux         *ElectronFluxField
	Excitation   map[string][]float64
	Densities    *SpeciesStateDensities
	Emissions    *EmissionProfile
	Conductivity *ConductivityProfile
}

// New creates a model for the given inputs with the default pipeline
// stages.
func New(in Inputs) *Model {
	return &Model{
		Inputs: in,
		InitFuncs: []StageFunc{
			BuildGrids(),
			PrecipitatingFlux(),
			SampleEnvironment(),
		},
		RunFuncs: []StageFunc{
			SolarGeometry(),
			SolarSpectrum(),
			Photoelectrons(),
			TransportElectrons(),
			LocalChemistry(),
			Airglow(),
			Conductances(),
		},
	}
}

// Init validates the configuration and prepares grids and environment
// profiles. Configuration and domain errors surface here, before any
// numerical computation.
func (m *Model) Init() error {
	if m.Env == nil {
		m.Env = MSISE{}
	}
	if m.Log == nil {
		m.Log = logrus.StandardLogger()
	}
	if m.XS == nil {
		xs, err := LoadCrossSections()
		if err != nil {
			return err
		}
		m.XS = xs
	}
	for _, f := range m.InitFuncs {
		if err := f(m); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the numerical stages in dependency order. It must be
// called after Init.
func (m *Model) Run() error {
	for _, f := range m.RunFuncs {
		start := time.Now()
		if err := f(m); err != nil {
			return err
		}
		m.Log.WithField("elapsed", time.Since(start)).Debug("pipeline stage complete")
	}
	return nil
}

// BuildGrids constructs the altitude and energy grids.
func BuildGrids() StageFunc {
	return func(m *Model) error {
		zg, err := NewAltitudeGrid(m.Inputs.Grid)
		if err != nil {
			return err
		}
		eg, err := NewEnergyGrid(m.Inputs.Grid)
		if err != nil {
			return err
		}
		m.AltGrid, m.EnGrid = zg, eg
		return nil
	}
}

// PrecipitatingFlux normalizes the auroral input spectrum onto the
// energy grid. A non-normalizable specification is a configuration
// error.
func PrecipitatingFlux() StageFunc {
	return func(m *Model) error {
		phi, err := m.Inputs.Aurora.TopFlux(m.EnGrid)
		if err != nil {
			return err
		}
		m.TopFlux = phi
		return nil
	}
}

// SampleEnvironment evaluates the empirical atmosphere and ionosphere
// on the altitude grid.
func SampleEnvironment() StageFunc {
	return func(m *Model) error {
		atm, err := m.Env.Atmosphere(m.Inputs, m.AltGrid)
		if err != nil {
			return err
		}
		iono, err := m.Env.Ionosphere(m.Inputs, m.AltGrid)
		if err != nil {
			return err
		}
		m.Atmosphere, m.Ionosphere = atm, iono
		return nil
	}
}

// SolarGeometry computes the solar zenith angle, the magnetic
// latitude, and the slant-path optical depth table.
func SolarGeometry() StageFunc {
	return func(m *Model) error {
		m.SZA = SolarZenithAngle(m.Inputs.Time, m.Inputs.Lat, m.Inputs.Lon)
		m.MagLat = MagneticLatitude(m.Inputs.Lat, m.Inputs.Lon)
		m.OpticalDepth = NewOpticalDepthTable(m.Atmosphere, m.AltGrid, m.SZA)
		return nil
	}
}

// SolarSpectrum scales the solar EUV reference spectrum by the
// previous-day F10.7 proxy.
func SolarSpectrum() StageFunc {
	return func(m *Model) error {
		m.Solar = NewSolarFlux(m.XS, m.Inputs.F107p, m.Inputs.F107a)
		return nil
	}
}

// Photoelectrons computes primary photoion and photoelectron
// production.
func Photoelectrons() StageFunc {
	return func(m *Model) error {
		m.Production = Photoionize(m.Atmosphere, m.AltGrid, m.EnGrid,
			m.OpticalDepth, m.Solar, m.XS)
		return nil
	}
}

// TransportElectrons runs the two-stream transport solver.
func TransportElectrons() StageFunc {
	return func(m *Model) error {
		f, err := TwoStreamTransport(m.Atmosphere, m.AltGrid, m.EnGrid,
			m.Production, m.TopFlux, m.XS)
		if err != nil {
			return err
		}
		m.Flux = f
		m.Excitation = ImpactExcitation(m.Atmosphere, m.AltGrid, m.EnGrid, f, m.XS)
		return nil
	}
}

// LocalChemistry solves the per-level steady-state chemical balance.
func LocalChemistry() StageFunc {
	return func(m *Model) error {
		m.Densities = SteadyStateChemistry(m.Atmosphere, m.Ionosphere,
			m.AltGrid, m.Production, m.Flux, m.Excitation, m.Log)
		return nil
	}
}

// Airglow computes volume emission rates and column brightnesses.
func Airglow() StageFunc {
	return func(m *Model) error {
		m.Emissions = EmissionRates(m.Densities, m.Excitation, m.Production,
			m.Flux, m.Ionosphere, m.AltGrid)
		return nil
	}
}

// Conductances computes the Pedersen and Hall conductivity profiles.
func Conductances() StageFunc {
	return func(m *Model) error {
		m.Conductivity = Conductivities(m.Atmosphere, m.AltGrid,
			m.Densities.ElectronDensity(m.Ionosphere), m.Ionosphere.Te, m.MagLat)
		return nil
	}
}

// IonizationRate returns the total (photo plus impact) ionization rate
// per level [cm⁻³ s⁻¹].
func (m *Model) IonizationRate() []float64 {
	nz := m.AltGrid.Len()
	total := make([]float64, nz)
	copy(total, m.Production.Total)
	sec := make([]float64, nz)
	for j := 0; j < nz; j++ {
		sec[j] = m.Flux.SecondaryTotal(j)
	}
	floats.Add(total, sec)
	return total
}

// Results is the output of one pipeline invocation.
type Results struct {
	Inputs Inputs
	SZA    float64

	AltGrid *AltitudeGrid
	EnGrid  *EnergyGrid

	Atmosphere     *AtmosphereProfile
	Ionosphere     *IonosphereProfile
	Flux           *ElectronFluxField
	IonizationRate []float64
	Densities      *SpeciesStateDensities
	Emissions      *EmissionProfile
	Conductivity   *ConductivityProfile
}

// Run executes the whole pipeline for the given inputs and returns the
// collected outputs, or the first error encountered.
func Run(in Inputs) (*Results, error) {
	m := New(in)
	if err := m.Init(); err != nil {
		return nil, err
	}
	if err := m.Run(); err != nil {
		return nil, err
	}
	return &Results{
		Inputs:         in,
		SZA:            m.SZA,
		AltGrid:        m.AltGrid,
		EnGrid:         m.EnGrid,
		Atmosphere:     m.Atmosphere,
		Ionosphere:     m.Ionosphere,
		Flux:           m.Flux,
		IonizationRate: m.IonizationRate(),
		Densities:      m.Densities,
		Emissions:      m.Emissions,
		Conductivity:   m.Conductivity,
	}, nil
}
