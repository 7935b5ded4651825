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

package glowutil

import (
	"fmt"
	"io"

	"github.com/space-physics/glow"
)

// WriteResults writes the results as a fixed-width text table: a
// header echoing the inputs, a per-level profile table, and a volume
// emission rate table with column brightnesses.
func WriteResults(w io.Writer, r *glow.Results) error {
	in := r.Inputs
	_, err := fmt.Fprintf(w, "glow v%s  %s  lat %7.2f  lon %8.2f  sza %6.2f\n",
		glow.Version, in.Time.Format("2006-01-02 15:04:05"), in.Lat, in.Lon, r.SZA)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "f107a %6.1f  f107 %6.1f  f107p %6.1f  ap %5.1f  Q %8.2e  Echar %8.2e\n\n",
		in.F107a, in.F107, in.F107p, in.Ap,
		in.Aurora.TotalEnergyFlux, in.Aurora.CharEnergy)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%8s %9s %10s %10s %10s %10s %10s %10s %10s %10s %10s %10s %10s %10s\n",
		"Z", "Tn", "O", "N2", "NO", "NeIn", "NeOut", "Ionrate",
		"O+", "O2+", "NO+", "N(2D)", "Ped", "Hall"); err != nil {
		return err
	}
	d := r.Densities.Density
	neOut := r.Densities.ElectronDensity(r.Ionosphere)
	for j, z := range r.AltGrid.Z {
		_, err := fmt.Fprintf(w, "%8.1f %9.1f %10.3e %10.3e %10.3e %10.3e %10.3e %10.3e %10.3e %10.3e %10.3e %10.3e %10.3e %10.3e\n",
			z,
			r.Atmosphere.Tn[j],
			r.Atmosphere.Density["O"][j],
			r.Atmosphere.Density["N2"][j],
			r.Atmosphere.Density["NO"][j],
			r.Ionosphere.Ne[j],
			neOut[j],
			r.IonizationRate[j],
			d["O+"][j],
			d["O2+"][j],
			d["NO+"][j],
			d["N2D"][j],
			r.Conductivity.Pedersen[j],
			r.Conductivity.Hall[j])
		if err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nVolume emission rates [photons cm-3 s-1]:\n%8s", "Z"); err != nil {
		return err
	}
	for _, b := range r.Emissions.Bands {
		if _, err := fmt.Fprintf(w, " %10s", b); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for j, z := range r.AltGrid.Z {
		if _, err := fmt.Fprintf(w, "%8.1f", z); err != nil {
			return err
		}
		for i := range r.Emissions.Bands {
			if _, err := fmt.Fprintf(w, " %10.3e", r.Emissions.VER.Get(j, i)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%8s", "R"); err != nil {
		return err
	}
	for i := range r.Emissions.Bands {
		if _, err := fmt.Fprintf(w, " %10.3e", r.Emissions.Brightness[i]); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}
