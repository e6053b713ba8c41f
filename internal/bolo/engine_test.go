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

package bolo

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/mlnoga/bcutil/internal/table"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	tab, err := table.Load()
	if err != nil {
		t.Fatalf("load: %s", err.Error())
	}
	eng, err := New(tab)
	if err != nil {
		t.Fatalf("new engine: %s", err.Error())
	}
	return eng
}

func TestInsufficientData(t *testing.T) {
	input := `0.65 3.7572 -0.091 5717
0.64 3.7598 -0.085 5751
0.63 3.7623 -0.079 5784
`
	tab, err := table.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %s", err.Error())
	}
	if _, err := New(tab); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("New with 3 points: error %v; want ErrInsufficientData", err)
	}
}

func TestExactReproduction(t *testing.T) {
	eng := testEngine(t)
	tab := eng.Table()
	for i := 0; i < tab.Len(); i++ {
		p := tab.Point(i)
		queries := []struct {
			axis  Axis
			value float64
		}{
			{Temperature, p.T},
			{LogTemperature, p.LogT},
			{ColorIndex, p.ColorIndex},
		}
		for _, q := range queries {
			bc, extrapolated, err := eng.BC(q.axis, q.value)
			if err != nil {
				t.Fatalf("%s=%g: %s", q.axis, q.value, err.Error())
			}
			if math.Abs(bc-p.BC) > 1e-9 {
				t.Errorf("%s=%g: BC=%g; want %g", q.axis, q.value, bc, p.BC)
			}
			if extrapolated {
				t.Errorf("%s=%g: flagged extrapolated for a tabulated value", q.axis, q.value)
			}
		}
	}
}

func TestCrossAxisConsistency(t *testing.T) {
	eng := testEngine(t)
	tab := eng.Table()
	for i := 0; i < tab.Len(); i++ {
		p := tab.Point(i)
		bcT, _, _ := eng.BCFromTemperature(p.T)
		bcLogT, _, _ := eng.BCFromLogTemperature(p.LogT)
		bcBV, _, _ := eng.BCFromColorIndex(p.ColorIndex)
		if math.Abs(bcT-bcLogT) > 1e-9 || math.Abs(bcT-bcBV) > 1e-9 {
			t.Errorf("row %d: inconsistent BC via T=%g logT=%g B-V=%g", i, bcT, bcLogT, bcBV)
		}
	}
}

func TestBoundaryClassification(t *testing.T) {
	eng := testEngine(t)
	for _, axis := range []Axis{Temperature, LogTemperature, ColorIndex} {
		min, max := eng.Bounds(axis)
		inRange := []float64{min, max, (min + max) / 2}
		for _, v := range inRange {
			if _, extrapolated, _ := eng.BC(axis, v); extrapolated {
				t.Errorf("%s=%g flagged extrapolated inside [%g, %g]", axis, v, min, max)
			}
		}
		span := max - min
		outOfRange := []float64{min - 1e-6*span, max + 1e-6*span, min - span, max + span}
		for _, v := range outOfRange {
			bc, extrapolated, err := eng.BC(axis, v)
			if err != nil {
				t.Fatalf("%s=%g: %s", axis, v, err.Error())
			}
			if !extrapolated {
				t.Errorf("%s=%g not flagged extrapolated outside [%g, %g]", axis, v, min, max)
			}
			if math.IsNaN(bc) || math.IsInf(bc, 0) {
				t.Errorf("%s=%g: extrapolated BC=%g; want finite", axis, v, bc)
			}
		}
	}
}

func TestContinuityAtKnots(t *testing.T) {
	eng := testEngine(t)
	tab := eng.Table()
	for i := 1; i < tab.Len()-1; i++ {
		p := tab.Point(i)
		eps := 1e-6
		left, _, _ := eng.BCFromTemperature(p.T - eps)
		right, _, _ := eng.BCFromTemperature(p.T + eps)
		if math.Abs(left-p.BC) > 1e-4 || math.Abs(right-p.BC) > 1e-4 {
			t.Errorf("discontinuity near T=%g: left=%g right=%g knot=%g", p.T, left, right, p.BC)
		}
	}
}

func TestSolarTemperature(t *testing.T) {
	eng := testEngine(t)
	// 5780 K lies between the tabulated rows at T=5751 (BC -0.085) and
	// T=5784 (BC -0.079)
	bc, extrapolated, err := eng.BCFromTemperature(5780)
	if err != nil {
		t.Fatalf("query: %s", err.Error())
	}
	if extrapolated {
		t.Errorf("5780 K flagged extrapolated")
	}
	if bc < -0.09 || bc > -0.07 {
		t.Errorf("BC(5780 K)=%g; want between -0.09 and -0.07", bc)
	}
}

func TestExtrapolatedQueryStillComputes(t *testing.T) {
	eng := testEngine(t)
	bc, extrapolated, err := eng.BCFromTemperature(100000)
	if err != nil {
		t.Fatalf("query: %s", err.Error())
	}
	if !extrapolated {
		t.Errorf("100000 K not flagged extrapolated")
	}
	if math.IsNaN(bc) || math.IsInf(bc, 0) {
		t.Errorf("BC(100000 K)=%g; want finite", bc)
	}
}

func TestNonFiniteRejection(t *testing.T) {
	eng := testEngine(t)
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, _, err := eng.BCFromTemperature(v); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("BCFromTemperature(%v): error %v; want ErrInvalidQuery", v, err)
		}
	}
	// a failed query must not affect later ones
	bc, extrapolated, err := eng.BCFromTemperature(5717)
	if err != nil || extrapolated || math.Abs(bc-(-0.091)) > 1e-9 {
		t.Errorf("query after rejection: bc=%g extrapolated=%v err=%v", bc, extrapolated, err)
	}
}

func TestBatchQueries(t *testing.T) {
	eng := testEngine(t)
	values := []float64{5717, 100000, 5784, 1000}
	results, anyExtrapolated, err := eng.BCAll(Temperature, values)
	if err != nil {
		t.Fatalf("batch: %s", err.Error())
	}
	if len(results) != len(values) {
		t.Fatalf("got %d results; want %d", len(results), len(values))
	}
	wantExtra := []bool{false, true, false, true}
	for i, r := range results {
		if r.Value != values[i] {
			t.Errorf("result %d: value %g; want %g", i, r.Value, values[i])
		}
		if r.Extrapolated != wantExtra[i] {
			t.Errorf("result %d: extrapolated=%v; want %v", i, r.Extrapolated, wantExtra[i])
		}
	}
	if !anyExtrapolated {
		t.Errorf("anyExtrapolated=false; want true")
	}

	// a fully in-range batch carries no warning flag
	_, anyExtrapolated, err = eng.BCAll(Temperature, []float64{5717, 5784})
	if err != nil || anyExtrapolated {
		t.Errorf("in-range batch: anyExtrapolated=%v err=%v", anyExtrapolated, err)
	}

	// a non-finite element fails the batch
	if _, _, err := eng.BCAll(Temperature, []float64{5717, math.NaN()}); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("batch with NaN: error %v; want ErrInvalidQuery", err)
	}
}

func TestBounds(t *testing.T) {
	eng := testEngine(t)
	if min, max := eng.Bounds(Temperature); min != 2936 || max != 56728 {
		t.Errorf("temperature bounds (%g, %g); want (2936, 56728)", min, max)
	}
	if min, max := eng.Bounds(LogTemperature); min != 3.4678 || max != 4.7538 {
		t.Errorf("log temperature bounds (%g, %g); want (3.4678, 4.7538)", min, max)
	}
	if min, max := eng.Bounds(ColorIndex); min != -0.35 || max != 1.80 {
		t.Errorf("color index bounds (%g, %g); want (-0.35, 1.80)", min, max)
	}
	if min, max := eng.BCRange(); min != -5.535 || max != 0.035 {
		t.Errorf("BC range (%g, %g); want (-5.535, 0.035)", min, max)
	}
	if eng.Points() != 216 {
		t.Errorf("Points()=%d; want 216", eng.Points())
	}
}

func TestParseAxis(t *testing.T) {
	cases := []struct {
		in   string
		want Axis
	}{
		{"temp", Temperature}, {"t", Temperature}, {"temperature", Temperature},
		{"logt", LogTemperature}, {"log", LogTemperature}, {"logtemp", LogTemperature},
		{"bv", ColorIndex}, {"color", ColorIndex}, {"b-v", ColorIndex},
	}
	for _, tc := range cases {
		axis, err := ParseAxis(tc.in)
		if err != nil || axis != tc.want {
			t.Errorf("ParseAxis(%q)=%v, %v; want %v", tc.in, axis, err, tc.want)
		}
	}
	if _, err := ParseAxis("kelvin"); err == nil {
		t.Errorf("ParseAxis(\"kelvin\"): expected error")
	}
}
