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

// Package batch processes query files with one command per line.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mlnoga/bcutil/internal/bolo"
)

// Process reads query lines from r and writes one result line per query to
// w. Lines hold a command keyword (temp|t|temperature, logt|log|logtemp,
// bv|color|b-v) and a numeric value; blank lines and # comments are
// skipped. Malformed lines are reported to w with their line number and
// skipped, they never abort the run. Returns the number of successfully
// processed queries.
func Process(r io.Reader, eng *bolo.Engine, w io.Writer) (processed int, err error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			fmt.Fprintf(w, "Line %d: Invalid format - %s\n", lineNo, line)
			continue
		}
		axis, err := bolo.ParseAxis(strings.ToLower(parts[0]))
		if err != nil {
			fmt.Fprintf(w, "Line %d: Unknown command '%s' - %s\n", lineNo, parts[0], line)
			continue
		}
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			fmt.Fprintf(w, "Line %d: Invalid value '%s' - %s\n", lineNo, parts[1], line)
			continue
		}
		bc, extrapolated, err := eng.BC(axis, value)
		if err != nil {
			fmt.Fprintf(w, "Line %d: %s - %s\n", lineNo, err.Error(), line)
			continue
		}
		fmt.Fprintln(w, FormatResult(axis, bolo.Result{Value: value, BC: bc, Extrapolated: extrapolated}))
		processed++
	}
	return processed, scanner.Err()
}

// FormatResult renders one query result the way the CLI, the interactive
// prompt and batch output all print it. Out-of-range queries are annotated,
// never suppressed.
func FormatResult(axis bolo.Axis, r bolo.Result) string {
	var s string
	switch axis {
	case bolo.Temperature:
		s = fmt.Sprintf("T = %.0f K  ->  BC = %.3f", r.Value, r.BC)
	case bolo.LogTemperature:
		s = fmt.Sprintf("log(T) = %.3f  ->  BC = %.3f", r.Value, r.BC)
	default:
		s = fmt.Sprintf("B-V = %.2f  ->  BC = %.3f", r.Value, r.BC)
	}
	if r.Extrapolated {
		s += "  (extrapolated)"
	}
	return s
}
