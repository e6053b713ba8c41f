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

// Package spline implements natural cubic spline interpolation over a
// strictly increasing set of knots.
package spline

import (
	"errors"
	"fmt"
	"sort"
)

// A natural cubic spline. Piecewise cubic polynomials through all knots,
// with continuous first and second derivatives at interior knots and zero
// second derivative at the outermost knots. Queries beyond the outermost
// knots evaluate the nearest boundary segment's polynomial unbounded.
// Immutable after Fit; safe for concurrent use.
type Spline struct {
	xs, ys  []float64
	b, c, d []float64 // per-segment coefficients relative to the left knot
}

// Fit computes a natural cubic spline through the given knots.
// xs must be strictly increasing and hold at least two knots.
func Fit(xs, ys []float64) (*Spline, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("spline: %d x values but %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, errors.New("spline: need at least 2 knots")
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("spline: knots not strictly increasing at index %d", i)
		}
	}

	n := len(xs)
	s := &Spline{
		xs: append([]float64{}, xs...),
		ys: append([]float64{}, ys...),
		b:  make([]float64, n),
		c:  make([]float64, n),
		d:  make([]float64, n),
	}

	h := make([]float64, n-1)
	for i := range h {
		h[i] = xs[i+1] - xs[i]
	}

	// Solve the tridiagonal system for the second derivative terms c,
	// with natural boundary conditions c[0]=c[n-1]=0.
	alpha := make([]float64, n)
	l := make([]float64, n)
	mu := make([]float64, n)
	z := make([]float64, n)
	l[0] = 1
	for i := 1; i < n-1; i++ {
		alpha[i] = 3*(ys[i+1]-ys[i])/h[i] - 3*(ys[i]-ys[i-1])/h[i-1]
		l[i] = 2*(xs[i+1]-xs[i-1]) - h[i-1]*mu[i-1]
		mu[i] = h[i] / l[i]
		z[i] = (alpha[i] - h[i-1]*z[i-1]) / l[i]
	}
	l[n-1] = 1
	for i := n - 2; i >= 0; i-- {
		s.c[i] = z[i] - mu[i]*s.c[i+1]
		s.b[i] = (ys[i+1]-ys[i])/h[i] - h[i]*(s.c[i+1]+2*s.c[i])/3
		s.d[i] = (s.c[i+1] - s.c[i]) / (3 * h[i])
	}
	return s, nil
}

// Bounds returns the first and last knot position.
func (s *Spline) Bounds() (min, max float64) {
	return s.xs[0], s.xs[len(s.xs)-1]
}

// Eval evaluates the spline at x. Knot positions reproduce their tabulated
// value exactly; positions outside the knot range are extrapolated with the
// boundary segment's polynomial.
func (s *Spline) Eval(x float64) float64 {
	idx := sort.SearchFloat64s(s.xs, x)
	if idx < len(s.xs) && s.xs[idx] == x {
		return s.ys[idx]
	}
	// idx is the first knot > x; use the segment to its left,
	// clamped so out-of-range queries extrapolate the boundary segment
	if idx > 0 {
		idx--
	}
	if idx > len(s.xs)-2 {
		idx = len(s.xs) - 2
	}
	dx := x - s.xs[idx]
	return s.ys[idx] + dx*(s.b[idx]+dx*(s.c[idx]+dx*s.d[idx]))
}

// EvalAll evaluates the spline at a sequence of positions. An optional
// output slice can be supplied to avoid allocation.
func (s *Spline) EvalAll(xs []float64, out ...[]float64) []float64 {
	var res []float64
	if len(out) > 0 {
		res = out[0]
	} else {
		res = make([]float64, len(xs))
	}
	for i, x := range xs {
		res[i] = s.Eval(x)
	}
	return res
}
