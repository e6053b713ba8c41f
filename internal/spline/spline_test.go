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

package spline

import (
	"math"
	"testing"

	"github.com/valyala/fastrand"
)

func TestKnotReproduction(t *testing.T) {
	xs := []float64{0, 1, 2.5, 4, 5, 7, 10}
	ys := []float64{3, -1, 0.5, 2, 2, -4, 8}
	s, err := Fit(xs, ys)
	if err != nil {
		t.Fatalf("fit: %s", err.Error())
	}
	for i, x := range xs {
		if got := s.Eval(x); got != ys[i] {
			t.Errorf("Eval(%g)=%g; want %g exactly", x, got, ys[i])
		}
	}
}

func TestLinearReproduction(t *testing.T) {
	// a natural spline through collinear knots is that straight line,
	// inside the knot range and beyond it
	xs := make([]float64, 10)
	ys := make([]float64, 10)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = 2*float64(i) + 1
	}
	s, err := Fit(xs, ys)
	if err != nil {
		t.Fatalf("fit: %s", err.Error())
	}

	rng := fastrand.RNG{}
	for i := 0; i < 1000; i++ {
		// random queries in [-5, 14], half of them extrapolating
		x := float64(rng.Uint32n(1900000))/100000.0 - 5
		want := 2*x + 1
		if got := s.Eval(x); math.Abs(got-want) > 1e-9 {
			t.Errorf("Eval(%g)=%g; want %g", x, got, want)
		}
	}
}

func TestContinuityAtKnots(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{0, 2, 1, 3, -1, 0}
	s, err := Fit(xs, ys)
	if err != nil {
		t.Fatalf("fit: %s", err.Error())
	}
	eps := 1e-9
	for i, x := range xs {
		left, right := s.Eval(x-eps), s.Eval(x+eps)
		if math.Abs(left-ys[i]) > 1e-6 {
			t.Errorf("Eval(%g-eps)=%g; want near %g", x, left, ys[i])
		}
		if math.Abs(right-ys[i]) > 1e-6 {
			t.Errorf("Eval(%g+eps)=%g; want near %g", x, right, ys[i])
		}
	}
}

func TestExtrapolationIsFinite(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 1, 4, 9}
	s, err := Fit(xs, ys)
	if err != nil {
		t.Fatalf("fit: %s", err.Error())
	}
	for _, x := range []float64{-100, -1, 4, 100} {
		got := s.Eval(x)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("Eval(%g)=%g; want finite", x, got)
		}
	}
}

func TestEvalAll(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 0, 2, 1}
	s, err := Fit(xs, ys)
	if err != nil {
		t.Fatalf("fit: %s", err.Error())
	}
	queries := []float64{-1, 0.5, 1, 2.5, 4}
	res := s.EvalAll(queries)
	if len(res) != len(queries) {
		t.Fatalf("EvalAll returned %d results; want %d", len(res), len(queries))
	}
	for i, q := range queries {
		if res[i] != s.Eval(q) {
			t.Errorf("EvalAll[%d]=%g; want %g", i, res[i], s.Eval(q))
		}
	}
	out := make([]float64, len(queries))
	res2 := s.EvalAll(queries, out)
	if &res2[0] != &out[0] {
		t.Errorf("EvalAll did not use the supplied output slice")
	}
}

func TestFitErrors(t *testing.T) {
	cases := []struct {
		name   string
		xs, ys []float64
	}{
		{"length mismatch", []float64{0, 1, 2}, []float64{0, 1}},
		{"too few knots", []float64{0}, []float64{0}},
		{"not increasing", []float64{0, 2, 1}, []float64{0, 1, 2}},
		{"duplicate knot", []float64{0, 1, 1}, []float64{0, 1, 2}},
	}
	for _, tc := range cases {
		if _, err := Fit(tc.xs, tc.ys); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}
