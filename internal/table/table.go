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

// Package table holds the bolometric correction calibration table for the
// V band, relating B-V color index, log temperature, bolometric correction
// and effective temperature along the main sequence.
package table

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Calibration data failed structural parsing or violates the table invariants.
var ErrMalformedData = errors.New("malformed calibration data")

//go:embed bc_v.txt
var embeddedFS embed.FS

// A single calibration point on the main sequence.
type CalibrationPoint struct {
	ColorIndex float64 // B-V color index, dimensionless
	LogT       float64 // log10 of effective temperature in K
	BC         float64 // bolometric correction in magnitudes
	T          float64 // effective temperature in K
}

// An immutable calibration table, sorted ascending by temperature.
// Temperature and log temperature increase strictly along the table,
// the B-V color index decreases strictly. BC is not monotonic.
type Table struct {
	points []CalibrationPoint
}

// Load parses the embedded calibration dataset.
func Load() (*Table, error) {
	f, err := embeddedFS.Open("bc_v.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads calibration points from r, one per line, with four
// whitespace-separated numeric fields in the order (B-V, logT, BC, T).
// Blank lines and lines starting with # are skipped. The result is sorted
// ascending by temperature and validated for strict monotonicity.
func Parse(r io.Reader) (*Table, error) {
	points := []CalibrationPoint{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: line %d: expected 4 fields, got %d", ErrMalformedData, lineNo, len(fields))
		}
		values := [4]float64{}
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: field %q is not numeric", ErrMalformedData, lineNo, field)
			}
			values[i] = v
		}
		points = append(points, CalibrationPoint{ColorIndex: values[0], LogT: values[1], BC: values[2], T: values[3]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrMalformedData, len(points))
	}

	sort.Slice(points, func(i, j int) bool { return points[i].T < points[j].T })

	// Sorting by temperature must also sort logT ascending and B-V descending,
	// else the per-axis interpolants are not well-defined.
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		if cur.T <= prev.T || cur.LogT <= prev.LogT || cur.ColorIndex >= prev.ColorIndex {
			return nil, fmt.Errorf("%w: axes not strictly monotonic at T=%g", ErrMalformedData, cur.T)
		}
	}
	return &Table{points: points}, nil
}

// Len returns the number of calibration points.
func (t *Table) Len() int { return len(t.points) }

// Point returns the i-th calibration point in ascending temperature order.
func (t *Table) Point(i int) CalibrationPoint { return t.points[i] }

// Temperatures returns a copy of the temperature column, ascending.
func (t *Table) Temperatures() []float64 {
	return t.column(func(p CalibrationPoint) float64 { return p.T })
}

// LogTemperatures returns a copy of the log temperature column, ascending.
func (t *Table) LogTemperatures() []float64 {
	return t.column(func(p CalibrationPoint) float64 { return p.LogT })
}

// ColorIndices returns a copy of the B-V column, descending.
func (t *Table) ColorIndices() []float64 {
	return t.column(func(p CalibrationPoint) float64 { return p.ColorIndex })
}

// BCs returns a copy of the bolometric correction column, in ascending
// temperature order.
func (t *Table) BCs() []float64 {
	return t.column(func(p CalibrationPoint) float64 { return p.BC })
}

func (t *Table) column(get func(CalibrationPoint) float64) []float64 {
	col := make([]float64, len(t.points))
	for i, p := range t.points {
		col[i] = get(p)
	}
	return col
}

// BCRange returns the smallest and largest tabulated bolometric correction.
func (t *Table) BCRange() (min, max float64) {
	bcs := t.BCs()
	return floats.Min(bcs), floats.Max(bcs)
}
