// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package bolo answers bolometric correction queries for the V band.
// It builds cubic spline interpolants over the calibration table for three
// interchangeable independent variables: effective temperature, log
// temperature and B-V color index.
package bolo

import (
	"errors"
	"fmt"
	"math"

	"github.com/mlnoga/bcutil/internal/spline"
	"github.com/mlnoga/bcutil/internal/table"
)

var (
	// Too few calibration points for cubic interpolation.
	ErrInsufficientData = errors.New("insufficient calibration data")
	// A query value is NaN or infinite.
	ErrInvalidQuery = errors.New("invalid query value")
)

// The independent variable of a bolometric correction query.
type Axis int

const (
	Temperature    Axis = iota // effective temperature in K
	LogTemperature             // log10 of effective temperature
	ColorIndex                 // B-V color index
)

// String returns the axis name as used in CLI commands and the REST API.
func (a Axis) String() string {
	switch a {
	case Temperature:
		return "temp"
	case LogTemperature:
		return "logt"
	case ColorIndex:
		return "bv"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// ParseAxis maps a command keyword to an axis, accepting the aliases
// understood by batch files and the interactive prompt.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "temp", "t", "temperature":
		return Temperature, nil
	case "logt", "log", "logtemp":
		return LogTemperature, nil
	case "bv", "color", "b-v":
		return ColorIndex, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// The outcome of a single bolometric correction query.
type Result struct {
	Value        float64 `json:"value"`        // the queried axis value
	BC           float64 `json:"bc"`           // bolometric correction in magnitudes
	Extrapolated bool    `json:"extrapolated"` // true if the value lies outside the tabulated range
}

type interpolant struct {
	spline   *spline.Spline
	min, max float64
}

func (ip *interpolant) query(v float64) (bc float64, extrapolated bool) {
	return ip.spline.Eval(v), v < ip.min || v > ip.max
}

// Engine answers bolometric correction queries against a calibration table.
// All interpolants are built at construction; afterwards the engine is
// immutable and safe for concurrent use without locking.
type Engine struct {
	tab          *table.Table
	interpolants [3]interpolant // indexed by Axis
}

// New builds the three axis interpolants from the given calibration table.
// Cubic interpolation needs at least 4 points.
func New(tab *table.Table) (*Engine, error) {
	if tab.Len() < 4 {
		return nil, fmt.Errorf("%w: need at least 4 points for cubic interpolation, got %d", ErrInsufficientData, tab.Len())
	}
	e := &Engine{tab: tab}
	bcs := tab.BCs()
	for _, axis := range []Axis{Temperature, LogTemperature, ColorIndex} {
		xs, ys := axisColumn(tab, axis), bcs
		if axis == ColorIndex {
			// the table ascends in temperature, so B-V descends; the spline
			// needs ascending knots
			xs, ys = reversed(xs), reversed(ys)
		}
		s, err := spline.Fit(xs, ys)
		if err != nil {
			return nil, err
		}
		min, max := s.Bounds()
		e.interpolants[axis] = interpolant{spline: s, min: min, max: max}
	}
	return e, nil
}

func axisColumn(tab *table.Table, axis Axis) []float64 {
	switch axis {
	case Temperature:
		return tab.Temperatures()
	case LogTemperature:
		return tab.LogTemperatures()
	default:
		return tab.ColorIndices()
	}
}

func reversed(xs []float64) []float64 {
	res := make([]float64, len(xs))
	for i, x := range xs {
		res[len(xs)-1-i] = x
	}
	return res
}

// BC evaluates the bolometric correction for the given axis value.
// Extrapolated reports whether the value lies outside the tabulated range;
// the numeric result is computed either way, from the boundary segment's
// polynomial when out of range.
func (e *Engine) BC(axis Axis, value float64) (bc float64, extrapolated bool, err error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false, fmt.Errorf("%w: %s=%v", ErrInvalidQuery, axis, value)
	}
	bc, extrapolated = e.interpolants[axis].query(value)
	return bc, extrapolated, nil
}

// BCAll evaluates a batch of axis values. Each result carries its own
// extrapolation flag; anyExtrapolated is true if at least one value lies
// outside the tabulated range.
func (e *Engine) BCAll(axis Axis, values []float64) (results []Result, anyExtrapolated bool, err error) {
	results = make([]Result, len(values))
	for i, v := range values {
		bc, extra, err := e.BC(axis, v)
		if err != nil {
			return nil, false, err
		}
		results[i] = Result{Value: v, BC: bc, Extrapolated: extra}
		anyExtrapolated = anyExtrapolated || extra
	}
	return results, anyExtrapolated, nil
}

// BCFromTemperature evaluates the bolometric correction for an effective
// temperature in K.
func (e *Engine) BCFromTemperature(t float64) (bc float64, extrapolated bool, err error) {
	return e.BC(Temperature, t)
}

// BCFromLogTemperature evaluates the bolometric correction for a log10
// effective temperature.
func (e *Engine) BCFromLogTemperature(logT float64) (bc float64, extrapolated bool, err error) {
	return e.BC(LogTemperature, logT)
}

// BCFromColorIndex evaluates the bolometric correction for a B-V color index.
func (e *Engine) BCFromColorIndex(bv float64) (bc float64, extrapolated bool, err error) {
	return e.BC(ColorIndex, bv)
}

// Bounds returns the tabulated range of the given axis.
func (e *Engine) Bounds(axis Axis) (min, max float64) {
	ip := &e.interpolants[axis]
	return ip.min, ip.max
}

// BCRange returns the smallest and largest tabulated bolometric correction.
func (e *Engine) BCRange() (min, max float64) { return e.tab.BCRange() }

// Points returns the number of calibration points behind the engine.
func (e *Engine) Points() int { return e.tab.Len() }

// Table returns the underlying calibration table.
func (e *Engine) Table() *table.Table { return e.tab }
