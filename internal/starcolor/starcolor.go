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

// Package starcolor approximates the visible color of a main sequence star
// from its B-V color index.
package starcolor

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color converts a star color index (blue mag minus visual mag, range
// -0.4 ... +2.0) to an sRGB color. Interpolating the table from
// http://www.vendian.org/mncharity/dir3/starcolor/details.html
func Color(bv float64) colorful.Color {
	if bv < -0.4 {
		bv = -0.4
	}
	if bv > 2.0 {
		bv = 2.0
	}

	index := (bv + 0.4) * 20
	floor := int(index)
	cFloor := bv2rgbTable[floor]

	ceil := floor + 1
	if ceil >= len(bv2rgbTable) {
		return cFloor
	}

	cCeil := bv2rgbTable[ceil]
	fraction := index - float64(floor)

	return colorful.Color{
		R: cFloor.R*(1-fraction) + cCeil.R*fraction,
		G: cFloor.G*(1-fraction) + cCeil.G*fraction,
		B: cFloor.B*(1-fraction) + cCeil.B*fraction,
	}
}

// Hex returns the approximate star color as an #rrggbb string.
func Hex(bv float64) string {
	return Color(bv).Hex()
}

var bv2rgbTable = []colorful.Color{
	{R: 0.60784, G: 0.69804, B: 1.00000}, // -0.40
	{R: 0.61961, G: 0.70980, B: 1.00000}, // -0.35
	{R: 0.63922, G: 0.72549, B: 1.00000}, // -0.30
	{R: 0.66667, G: 0.74902, B: 1.00000}, // -0.25
	{R: 0.69804, G: 0.77255, B: 1.00000}, // -0.20
	{R: 0.73333, G: 0.80000, B: 1.00000}, // -0.15
	{R: 0.76863, G: 0.82353, B: 1.00000}, // -0.10
	{R: 0.80000, G: 0.84706, B: 1.00000}, // -0.05
	{R: 0.82745, G: 0.86667, B: 1.00000}, // 0.00
	{R: 0.85490, G: 0.88627, B: 1.00000}, // 0.05
	{R: 0.87451, G: 0.89804, B: 1.00000}, // 0.10
	{R: 0.89412, G: 0.91373, B: 1.00000}, // 0.15
	{R: 0.91373, G: 0.92549, B: 1.00000}, // 0.20
	{R: 0.93333, G: 0.93725, B: 1.00000}, // 0.25
	{R: 0.95294, G: 0.94902, B: 1.00000}, // 0.30
	{R: 0.97255, G: 0.96471, B: 1.00000}, // 0.35
	{R: 0.99608, G: 0.97647, B: 1.00000}, // 0.40
	{R: 1.00000, G: 0.97647, B: 0.98431}, // 0.45
	{R: 1.00000, G: 0.96863, B: 0.96078}, // 0.50
	{R: 1.00000, G: 0.96078, B: 0.93725}, // 0.55
	{R: 1.00000, G: 0.95294, B: 0.91765}, // 0.60
	{R: 1.00000, G: 0.94510, B: 0.89804}, // 0.65
	{R: 1.00000, G: 0.93725, B: 0.87843}, // 0.70
	{R: 1.00000, G: 0.92941, B: 0.85882}, // 0.75
	{R: 1.00000, G: 0.92157, B: 0.83922}, // 0.80
	{R: 1.00000, G: 0.91373, B: 0.82353}, // 0.85
	{R: 1.00000, G: 0.90980, B: 0.80784}, // 0.90
	{R: 1.00000, G: 0.90196, B: 0.79216}, // 0.95
	{R: 1.00000, G: 0.89804, B: 0.77647}, // 1.00
	{R: 1.00000, G: 0.89020, B: 0.76471}, // 1.05
	{R: 1.00000, G: 0.88627, B: 0.74902}, // 1.10
	{R: 1.00000, G: 0.87843, B: 0.73333}, // 1.15
	{R: 1.00000, G: 0.87451, B: 0.72157}, // 1.20
	{R: 1.00000, G: 0.86667, B: 0.70588}, // 1.25
	{R: 1.00000, G: 0.85882, B: 0.69020}, // 1.30
	{R: 1.00000, G: 0.85490, B: 0.67843}, // 1.35
	{R: 1.00000, G: 0.84706, B: 0.66275}, // 1.40
	{R: 1.00000, G: 0.83922, B: 0.64706}, // 1.45
	{R: 1.00000, G: 0.83529, B: 0.63137}, // 1.50
	{R: 1.00000, G: 0.82353, B: 0.61176}, // 1.55
	{R: 1.00000, G: 0.81569, B: 0.58824}, // 1.60
	{R: 1.00000, G: 0.80000, B: 0.56078}, // 1.65
	{R: 1.00000, G: 0.78431, B: 0.52157}, // 1.70
	{R: 1.00000, G: 0.75686, B: 0.47059}, // 1.75
	{R: 1.00000, G: 0.71765, B: 0.39608}, // 1.80
	{R: 1.00000, G: 0.66275, B: 0.29412}, // 1.85
	{R: 1.00000, G: 0.58431, B: 0.13725}, // 1.90
	{R: 1.00000, G: 0.48235, B: 0.00000}, // 1.95
	{R: 1.00000, G: 0.32157, B: 0.00000}, // 2.00
}
