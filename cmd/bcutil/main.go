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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"

	bc "github.com/mlnoga/bcutil/internal"
	"github.com/mlnoga/bcutil/internal/batch"
	"github.com/mlnoga/bcutil/internal/bolo"
	"github.com/mlnoga/bcutil/internal/plot"
	"github.com/mlnoga/bcutil/internal/rest"
	"github.com/mlnoga/bcutil/internal/starcolor"
	"github.com/mlnoga/bcutil/internal/table"
)

const version = "0.1.0"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var out = flag.String("out", "", "also save batch results to `file`")
var log = flag.String("log", "%auto", "save log output to `file`. `%auto` replaces suffix of the -out file with .log")
var plotFile = flag.String("plot", "bc_v.png", "save plot to `file`. The suffix selects png, jpg or tiff output")
var width = flag.Int("width", 800, "plot width in pixels")
var height = flag.Int("height", 600, "plot height in pixels")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stdout, `Bcutil Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Calculates bolometric corrections for stars in the V band.

Usage: %s [-flag value] (temp|logt|bv) value
       %s [-flag value] (info|batch|plot|serve|interactive|legal|version)

Commands:
  temp <kelvin>  Bolometric correction from effective temperature
  logt <logT>    Bolometric correction from log10 temperature
  bv <color>     Bolometric correction from B-V color index
  info           Show calibration data ranges
  batch <file>   Process a query file, one command and value per line
  plot [axis]    Render the BC curve for an axis (default temp) to -plot
  serve          Serve queries via REST API
  interactive    Start an interactive prompt
  legal          Show license and attribution information
  version        Show version information

Flags:
`, os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Initialize logging to file in addition to stdout, if selected
	if *log == "%auto" {
		if *out != "" {
			*log = strings.TrimSuffix(*out, filepath.Ext(*out)) + ".log"
		} else {
			*log = ""
		}
	}
	if *log != "" {
		if err := bc.LogAlsoToFile(*log); err != nil {
			bc.LogFatalf("Unable to open logfile '%s'\n", *log)
		}
	}

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			bc.LogFatalf("Could not create CPU profile: %s\n", err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			bc.LogFatalf("Could not start CPU profile: %s\n", err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	switch args[0] {
	case "temp", "logt", "bv":
		axis, _ := bolo.ParseAxis(args[0])
		cmdQuery(axis, args[1:])

	case "info":
		printInfo(bc.LogWriter(), newEngine())

	case "batch":
		cmdBatch(args[1:])

	case "plot":
		cmdPlot(args[1:])

	case "serve":
		if err := rest.Serve(newEngine()); err != nil {
			bc.LogFatalf("Serve: %s\n", err.Error())
		}

	case "interactive":
		interactiveMode(newEngine())

	case "legal":
		bc.LogPrintf("%s\n", legal)

	case "version":
		bc.LogPrintf("Version %s\n", version)

	case "help", "?":
		flag.Usage()

	default:
		bc.LogPrintf("Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}

	// Store memory profile if flagged
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			bc.LogFatalf("Could not create memory profile: %s\n", err.Error())
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			bc.LogFatalf("Could not write allocation profile: %s\n", err.Error())
		}
	}
	bc.LogSync()
}

// newEngine loads the embedded calibration table and builds the engine,
// exiting on failure.
func newEngine() *bolo.Engine {
	tab, err := table.Load()
	if err != nil {
		bc.LogFatalf("Error loading calibration data: %s\n", err.Error())
	}
	eng, err := bolo.New(tab)
	if err != nil {
		bc.LogFatalf("Error building interpolants: %s\n", err.Error())
	}
	return eng
}

// Perform a single query command
func cmdQuery(axis bolo.Axis, args []string) {
	if len(args) < 1 {
		bc.LogFatalf("Missing value for command '%s'\n", axis)
	}
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		bc.LogFatalf("Invalid value '%s' for command '%s'\n", args[0], axis)
	}
	eng := newEngine()
	result, err := query(bc.LogWriter(), eng, axis, value)
	if err != nil {
		bc.LogFatalf("%s\n", err.Error())
	}
	if axis == bolo.ColorIndex {
		bc.LogPrintf("Approximate star color: %s\n", starcolor.Hex(result.Value))
	}
}

// query evaluates one value, printing a range warning and the result
func query(w io.Writer, eng *bolo.Engine, axis bolo.Axis, value float64) (bolo.Result, error) {
	bcVal, extrapolated, err := eng.BC(axis, value)
	if err != nil {
		return bolo.Result{}, err
	}
	if extrapolated {
		min, max := eng.Bounds(axis)
		switch axis {
		case bolo.Temperature:
			fmt.Fprintf(w, "Warning: Temperature outside range [%.0f, %.0f] K\n", min, max)
		case bolo.LogTemperature:
			fmt.Fprintf(w, "Warning: log(T) outside range [%.3f, %.3f]\n", min, max)
		default:
			fmt.Fprintf(w, "Warning: B-V outside range [%.2f, %.2f]\n", min, max)
		}
		fmt.Fprintf(w, "Extrapolation will be used.\n")
	}
	result := bolo.Result{Value: value, BC: bcVal, Extrapolated: extrapolated}
	fmt.Fprintf(w, "%s\n", batch.FormatResult(axis, result))
	return result, nil
}

// Perform the batch command
func cmdBatch(args []string) {
	if len(args) < 1 {
		bc.LogFatalf("Missing input file for command 'batch'\n")
	}
	file, err := os.Open(args[0])
	if err != nil {
		bc.LogFatalf("Error: File '%s' not found\n", args[0])
	}
	defer file.Close()

	w := bc.LogWriter()
	if *out != "" {
		outFile, err := os.Create(*out)
		if err != nil {
			bc.LogFatalf("Error creating output file '%s': %s\n", *out, err.Error())
		}
		defer outFile.Close()
		w = io.MultiWriter(w, outFile)
	}

	fmt.Fprintf(w, "Processing batch file: %s\n", args[0])
	processed, err := batch.Process(file, newEngine(), w)
	if err != nil {
		bc.LogFatalf("Error processing file: %s\n", err.Error())
	}
	fmt.Fprintf(w, "%d queries processed\n", processed)
}

// Perform the plot command
func cmdPlot(args []string) {
	axis := bolo.Temperature
	if len(args) > 0 {
		var err error
		axis, err = bolo.ParseAxis(args[0])
		if err != nil {
			bc.LogFatalf("Invalid plot axis '%s'\n", args[0])
		}
	}
	chart := &plot.Chart{Axis: axis, Width: *width, Height: *height}
	if err := chart.WriteToFile(*plotFile, newEngine()); err != nil {
		bc.LogFatalf("Error writing plot: %s\n", err.Error())
	}
	bc.LogPrintf("BC vs %s plot saved to %s\n", axis, *plotFile)
}

// printInfo shows the calibration data ranges, for the info command and the
// interactive prompt
func printInfo(w io.Writer, eng *bolo.Engine) {
	tMin, tMax := eng.Bounds(bolo.Temperature)
	logTMin, logTMax := eng.Bounds(bolo.LogTemperature)
	bvMin, bvMax := eng.Bounds(bolo.ColorIndex)
	bcMin, bcMax := eng.BCRange()
	fmt.Fprintf(w, "Data ranges:\n")
	fmt.Fprintf(w, "  Temperature: %.0f - %.0f K\n", tMin, tMax)
	fmt.Fprintf(w, "  log(T):      %.3f - %.3f\n", logTMin, logTMax)
	fmt.Fprintf(w, "  B-V:         %.2f - %.2f\n", bvMin, bvMax)
	fmt.Fprintf(w, "  BC:          %.3f - %.3f\n", bcMin, bcMax)
	fmt.Fprintf(w, "  Data points: %d\n", eng.Points())
}
