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

// Package glowutil provides the command-line interface and text output
// for the glow airglow model.
package glowutil

import (
	"fmt"
	"os"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/space-physics/glow"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to glow.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Time",
			usage: `
              Time is the universal time of the calculation in RFC 3339
              format, for example 2015-03-17T12:00:00Z.`,
			shorthand:  "t",
			defaultVal: "2015-03-17T12:00:00Z",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Lat",
			usage: `
              Lat is the geographic latitude in degrees, positive north.`,
			defaultVal: 65.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Lon",
			usage: `
              Lon is the geographic longitude in degrees, positive east.`,
			defaultVal: -148.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "F107",
			usage: `
              F107 is the 10.7 cm solar radio flux for the day of
              interest, in solar flux units.`,
			defaultVal: 70.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "F107a",
			usage: `
              F107a is the 81-day centered average of the 10.7 cm solar
              radio flux, in solar flux units.`,
			defaultVal: 70.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "F107p",
			usage: `
              F107p is the 10.7 cm solar radio flux for the day before
              the day of interest, in solar flux units.`,
			defaultVal: 70.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Ap",
			usage: `
              Ap is the daily geomagnetic activity index.`,
			defaultVal: 4.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aurora.EnergyFlux",
			usage: `
              Aurora.EnergyFlux is the total precipitating auroral energy
              flux at the top of the atmosphere in erg cm⁻² s⁻¹. Zero
              disables precipitation.`,
			shorthand:  "q",
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aurora.CharEnergy",
			usage: `
              Aurora.CharEnergy is the characteristic energy of the
              precipitating Maxwellian spectrum in eV.`,
			shorthand:  "e",
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aurora.Monoenergetic",
			usage: `
              Aurora.Monoenergetic deposits the whole auroral energy flux
              into the single energy bin containing the characteristic
              energy instead of a Maxwellian spectrum.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aurora.Spectrum",
			usage: `
              Aurora.Spectrum is an explicit precipitating differential
              number flux, one non-negative value per energy bin. When
              set it overrides the Maxwellian shape; the values are
              renormalized to Aurora.EnergyFlux.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.AltBottom",
			usage: `
              Grid.AltBottom is the altitude of the lowest grid level in km.`,
			defaultVal: 60.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.AltTop",
			usage: `
              Grid.AltTop is the altitude of the highest grid level in km.`,
			defaultVal: 640.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.NAlt",
			usage: `
              Grid.NAlt is the number of altitude levels.`,
			defaultVal: 102,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.NEnergy",
			usage: `
              Grid.NEnergy is the number of electron energy bins.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.EnergyMin",
			usage: `
              Grid.EnergyMin is the lowest electron energy bin center in eV.`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.EnergyMax",
			usage: `
              Grid.EnergyMax is the highest electron energy bin center in eV.`,
			defaultVal: 5.e4,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to write the results table to.
              If empty, results are written to standard output.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the logging verbosity: panic, fatal, error,
              warning, info, debug, or trace.`,
			defaultVal: "warning",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GLOW")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("glow: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "glow",
	Short: "An airglow and aurora emission model.",
	Long: `glow computes steady-state ionospheric electron transport, ion and
excited-species chemistry, and the resulting optical emission as a
function of altitude for a given location, time, and geophysical
conditions.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'GLOW_var'
where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of glow.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("glow v%s\n", glow.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run executes one steady-state calculation for the configured
location, time, and geophysical conditions and writes the altitude
profiles and column brightnesses as a text table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := InputsFromConfig(Cfg)
		if err != nil {
			return err
		}

		level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
		if err != nil {
			return fmt.Errorf("glow: invalid log level: %v", err)
		}
		log := logrus.New()
		log.SetLevel(level)

		m := glow.New(in)
		m.Log = log
		if err := m.Init(); err != nil {
			return err
		}
		if err := m.Run(); err != nil {
			return err
		}
		r := &glow.Results{
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
		}

		w := os.Stdout
		if path := Cfg.GetString("OutputFile"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("glow: creating output file: %v", err)
			}
			defer f.Close()
			w = f
		}
		return WriteResults(w, r)
	},
	DisableAutoGenTag: true,
}

// InputsFromConfig assembles the model inputs from the configuration.
func InputsFromConfig(cfg *viper.Viper) (glow.Inputs, error) {
	var in glow.Inputs

	t, err := time.Parse(time.RFC3339, cfg.GetString("Time"))
	if err != nil {
		return in, fmt.Errorf("glow: parsing Time: %v", err)
	}
	in.Time = t.UTC()
	in.Lat = cfg.GetFloat64("Lat")
	in.Lon = cfg.GetFloat64("Lon")
	in.F107 = cfg.GetFloat64("F107")
	in.F107a = cfg.GetFloat64("F107a")
	in.F107p = cfg.GetFloat64("F107p")
	in.Ap = cfg.GetFloat64("Ap")

	in.Aurora.TotalEnergyFlux = cfg.GetFloat64("Aurora.EnergyFlux")
	in.Aurora.CharEnergy = cfg.GetFloat64("Aurora.CharEnergy")
	in.Aurora.Monoenergetic = cfg.GetBool("Aurora.Monoenergetic")
	spectrum, err := toFloats(cfg.GetStringSlice("Aurora.Spectrum"))
	if err != nil {
		return in, fmt.Errorf("glow: parsing Aurora.Spectrum: %v", err)
	}
	in.Aurora.Spectrum = spectrum

	in.Grid.AltBottom = cfg.GetFloat64("Grid.AltBottom")
	in.Grid.AltTop = cfg.GetFloat64("Grid.AltTop")
	in.Grid.NAlt = cfg.GetInt("Grid.NAlt")
	in.Grid.NEnergy = cfg.GetInt("Grid.NEnergy")
	in.Grid.EnergyMin = cfg.GetFloat64("Grid.EnergyMin")
	in.Grid.EnergyMax = cfg.GetFloat64("Grid.EnergyMax")
	return in, nil
}

// toFloats converts configuration strings to numbers.
func toFloats(ss []string) ([]float64, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	out := make([]float64, len(ss))
	for i, s := range ss {
		v, err := cast.ToFloat64E(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
