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
	"time"
)

const earthRadiusKm = 6371.0

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

func fixAngle(angle float64) float64 { return math.Mod(angle+360, 360) }

// julianDay converts a UTC time to Julian Day.
func julianDay(t time.Time) float64 {
	return 2440587.5 + float64(t.Unix())/86400
}

// equationOfTime returns the difference between apparent and mean solar
// time [minutes].
func equationOfTime(t time.Time) float64 {
	T := (julianDay(t) - 2451545.0) / 36525
	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032)) // mean solar longitude
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))  // mean solar anomaly
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	y := math.Tan(degToRad(eps0) / 2)
	y *= y
	return radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4
}

// SolarZenithAngle returns the solar zenith angle [degrees] at the
// given UTC time and geographic location.
func SolarZenithAngle(t time.Time, lat, lon float64) float64 {
	t = t.UTC()
	N := t.YearDay()
	// Solar declination, sinusoidal approximation peaking at the
	// solstices.
	delta := 23.45 * math.Sin(degToRad(360.0/365.0*float64(N-81)))

	utcMin := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
	tst := utcMin + 4*lon + equationOfTime(t) // true solar time [minutes]
	H := tst/4 - 180                          // hour angle [degrees]

	cosThetaZ := math.Sin(degToRad(lat))*math.Sin(degToRad(delta)) +
		math.Cos(degToRad(lat))*math.Cos(degToRad(delta))*math.Cos(degToRad(H))
	return radToDeg(math.Acos(math.Max(-1, math.Min(1, cosThetaZ))))
}

// Centered dipole approximation of the geomagnetic field.
const (
	dipoleMoment  = 7.94e15 // T m³
	dipolePoleLat = 80.65   // geographic latitude of the north dip pole
	dipolePoleLon = -72.68
)

// MagneticLatitude returns the centered-dipole magnetic latitude
// [degrees] for the given geographic coordinates.
func MagneticLatitude(lat, lon float64) float64 {
	latR, lonR := degToRad(lat), degToRad(lon)
	pLatR, pLonR := degToRad(dipolePoleLat), degToRad(dipolePoleLon)
	sinMlat := math.Sin(latR)*math.Sin(pLatR) +
		math.Cos(latR)*math.Cos(pLatR)*math.Cos(lonR-pLonR)
	return radToDeg(math.Asin(sinMlat))
}

// magneticField returns the dipole field magnitude [T] and dip angle
// [radians] at magnetic latitude mlat [degrees] and altitude z [km].
func magneticField(mlat, z float64) (b, dip float64) {
	r := (earthRadiusKm + z) * 1e3 // m
	sinL := math.Sin(degToRad(mlat))
	b = dipoleMoment / (r * r * r) * math.Sqrt(1+3*sinL*sinL)
	dip = math.Atan2(2*sinL, math.Cos(degToRad(mlat)))
	return b, dip
}

// chapman evaluates the Smith & Smith (1972) grazing-incidence
// correction Ch(X, χ) to a vertical column, where X = (Re+z)/H is the
// curvature parameter and chi is the solar zenith angle [radians].
// For overhead sun it reduces to sec χ.
func chapman(X, chi float64) float64 {
	y := math.Sqrt(X/2) * math.Abs(math.Cos(chi))
	// erfc scaled by exp(y²); the direct product overflows for the
	// large X typical of thermospheric scale heights.
	ey := expErfc(y)
	if chi <= math.Pi/2 {
		return math.Sqrt(math.Pi*X/2) * ey
	}
	s := math.Sin(chi)
	return math.Sqrt(2*math.Pi*X) *
		(math.Sqrt(s)*math.Exp(X*(1-s)) - 0.5*ey)
}

// expErfc returns exp(y²)·erfc(y) without overflow, using the
// asymptotic continued-fraction form for large y.
func expErfc(y float64) float64 {
	if y < 8 {
		return math.Exp(y*y) * math.Erfc(y)
	}
	// erfc(y) ~ exp(-y²)/(y√π) · (1 - 1/(2y²) + 3/(4y⁴))
	y2 := y * y
	return (1 - 0.5/y2 + 0.75/(y2*y2)) / (y * math.SqrtPi)
}

// OpticalDepthTable holds, for each altitude level and absorbing
// species, the column density along the slant path toward the sun.
// Occluded levels (sun below the local geometric horizon) are flagged
// and receive an effectively infinite column.
type OpticalDepthTable struct {
	SZA         float64              // solar zenith angle [degrees]
	SlantColumn map[string][]float64 // species → column [cm⁻²]
	Occluded    []bool
}

// occludedColumn is large enough to suppress all transmission.
const occludedColumn = 1e30

// NewOpticalDepthTable integrates the slant-path column density of each
// absorbing species from every altitude level toward the sun. Columns
// are corrected for Earth curvature with the Chapman function; for
// zenith angles beyond 90° a level is occluded when its ray's tangent
// point dips below the shadow height at the bottom of the grid.
func NewOpticalDepthTable(atm *AtmosphereProfile, grid *AltitudeGrid, sza float64) *OpticalDepthTable {
	nz := grid.Len()
	t := &OpticalDepthTable{
		SZA:         sza,
		SlantColumn: make(map[string][]float64, 3),
		Occluded:    make([]bool, nz),
	}
	chi := degToRad(sza)

	// Vertical columns from each level to the top of the grid, plus an
	// exponential tail above the top level.
	vert := make(map[string][]float64, 3)
	for _, s := range []string{"O", "O2", "N2"} {
		n := atm.Density[s]
		col := make([]float64, nz)
		hTop := scaleHeight(speciesMass[s], atm.Tn[nz-1], grid.Z[nz-1])
		col[nz-1] = n[nz-1] * hTop * 1e5 // km→cm
		for j := nz - 2; j >= 0; j-- {
			col[j] = col[j+1] + 0.5*(n[j]+n[j+1])*(grid.Z[j+1]-grid.Z[j])*1e5
		}
		vert[s] = col
	}

	for _, s := range []string{"O", "O2", "N2"} {
		t.SlantColumn[s] = make([]float64, nz)
	}
	for j := 0; j < nz; j++ {
		z := grid.Z[j]
		if chi > math.Pi/2 {
			// Shadow height: the ray from this level grazes below the
			// bottom of the atmosphere.
			tangent := (earthRadiusKm+z)*math.Sin(chi) - earthRadiusKm
			if tangent < grid.Z[0] {
				t.Occluded[j] = true
				for _, s := range []string{"O", "O2", "N2"} {
					t.SlantColumn[s][j] = occludedColumn
				}
				continue
			}
		}
		for _, s := range []string{"O", "O2", "N2"} {
			h := scaleHeight(speciesMass[s], atm.Tn[j], z)
			X := (earthRadiusKm + z) / h
			t.SlantColumn[s][j] = vert[s][j] * chapman(X, chi)
		}
	}
	return t
}
