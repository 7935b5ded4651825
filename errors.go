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
	"fmt"
)

var (
	errTopBelowBottom = errors.New("grid top must be above grid bottom")
	errTooFewLevels   = errors.New("at least two altitude levels are required")
	errBadEnergyRange = errors.New("energy bounds must be positive and increasing")
	errTooFewBins     = errors.New("at least two energy bins are required")
)

// ConfigError indicates an invalid run configuration. It is returned
// before any computation is attempted.
type ConfigError struct {
	Field string // the offending configuration field
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("glow: invalid configuration field %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DomainError indicates that the requested geophysical inputs lie
// outside the validity range of the empirical environment models. No
// computation is attempted.
type DomainError struct {
	Quantity string
	Value    float64
	Err      error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("glow: %s=%g outside model domain: %v", e.Quantity, e.Value, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NumericalError indicates an unrecoverable failure in the transport
// solver, reported with the offending altitude level and energy bin.
// It is fatal for the whole invocation and is never retried.
type NumericalError struct {
	Op    string
	Level int // altitude level index, or -1 if not level-specific
	Bin   int // energy bin index, or -1 if not bin-specific
	Err   error
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("glow: %s failed at level %d, energy bin %d: %v",
		e.Op, e.Level, e.Bin, e.Err)
}

func (e *NumericalError) Unwrap() error { return e.Err }
