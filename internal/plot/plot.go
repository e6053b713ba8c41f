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

// Package plot renders bolometric correction curves to raster images.
package plot

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/floats"

	"github.com/mlnoga/bcutil/internal/bolo"
	"github.com/mlnoga/bcutil/internal/spline"
	"github.com/mlnoga/bcutil/internal/starcolor"
	"github.com/mlnoga/bcutil/internal/table"
)

var (
	background = color.RGBA{16, 16, 24, 255}
	gridColor  = color.RGBA{56, 56, 64, 255}
	knotColor  = color.RGBA{255, 255, 255, 255}
)

const margin = 8 // border pixels around the plot area

// A chart of bolometric correction versus one query axis. The curve is
// sampled across the tabulated range and colored by the approximate
// visible color of a star at that point of the main sequence.
type Chart struct {
	Axis   bolo.Axis
	Width  int
	Height int
}

// Render samples the engine across the chart axis and draws the curve.
func (c *Chart) Render(eng *bolo.Engine) (*image.RGBA, error) {
	width, height := c.Width, c.Height
	if width < 4*margin || height < 4*margin {
		return nil, fmt.Errorf("plot size %dx%d too small", width, height)
	}

	min, max := eng.Bounds(c.Axis)
	xs := floats.Span(make([]float64, width-2*margin), min, max)
	results, _, err := eng.BCAll(c.Axis, xs)
	if err != nil {
		return nil, err
	}

	bcs := make([]float64, len(results))
	for i, r := range results {
		bcs[i] = r.BC
	}
	bcMin, bcMax := floats.Min(bcs), floats.Max(bcs)
	if bcMax == bcMin {
		bcMax = bcMin + 1
	}

	// B-V along the sampled axis, for curve coloring
	bvs, err := colorIndices(eng, c.Axis, xs)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, background)
		}
	}
	drawGrid(img)

	yOf := func(bc float64) int {
		// BC grows upwards; image rows grow downwards
		f := (bc - bcMin) / (bcMax - bcMin)
		return height - margin - 1 - int(f*float64(height-2*margin-1))
	}

	// draw the curve as vertical spans between consecutive samples
	prevY := yOf(bcs[0])
	for i := range bcs {
		y := yOf(bcs[i])
		r, g, b := starcolor.Color(bvs[i]).RGB255()
		col := color.RGBA{r, g, b, 255}
		y0, y1 := prevY, y
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		for yy := y0; yy <= y1; yy++ {
			img.SetRGBA(margin+i, yy, col)
		}
		prevY = y
	}

	// overdraw the tabulated knots
	tab := eng.Table()
	scaleX := float64(width-2*margin-1) / (max - min)
	for i := 0; i < tab.Len(); i++ {
		p := tab.Point(i)
		v := axisValue(p, c.Axis)
		x := margin + int((v-min)*scaleX)
		img.SetRGBA(x, yOf(p.BC), knotColor)
	}
	return img, nil
}

// Write renders the chart and encodes it in the given format, one of
// "png", "jpg" or "tiff".
func (c *Chart) Write(w io.Writer, eng *bolo.Engine, format string) error {
	img, err := c.Render(eng)
	if err != nil {
		return err
	}
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	return fmt.Errorf("unknown plot format %q", format)
}

// WriteToFile renders the chart into the named file, choosing the encoding
// from the file suffix (.png, .jpg, .jpeg, .tif, .tiff).
func (c *Chart) WriteToFile(fileName string, eng *bolo.Engine) error {
	format := strings.TrimPrefix(strings.ToLower(fileNameExt(fileName)), ".")
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	return c.Write(writer, eng, format)
}

func fileNameExt(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		return fileName[i:]
	}
	return ""
}

func drawGrid(img *image.RGBA) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	for x := margin; x < width-margin; x += (width - 2*margin) / 10 {
		for y := margin; y < height-margin; y++ {
			img.SetRGBA(x, y, gridColor)
		}
	}
	for y := margin; y < height-margin; y += (height - 2*margin) / 10 {
		for x := margin; x < width-margin; x++ {
			img.SetRGBA(x, y, gridColor)
		}
	}
}

// colorIndices maps sampled axis values to B-V color indices. For the B-V
// axis this is the identity; for the temperature axes a helper spline over
// the table's own columns provides the mapping.
func colorIndices(eng *bolo.Engine, axis bolo.Axis, xs []float64) ([]float64, error) {
	if axis == bolo.ColorIndex {
		return xs, nil
	}
	tab := eng.Table()
	var knots []float64
	if axis == bolo.Temperature {
		knots = tab.Temperatures()
	} else {
		knots = tab.LogTemperatures()
	}
	s, err := spline.Fit(knots, tab.ColorIndices())
	if err != nil {
		return nil, err
	}
	return s.EvalAll(xs), nil
}

func axisValue(p table.CalibrationPoint, axis bolo.Axis) float64 {
	switch axis {
	case bolo.Temperature:
		return p.T
	case bolo.LogTemperature:
		return p.LogT
	default:
		return p.ColorIndex
	}
}
