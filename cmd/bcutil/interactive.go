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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	bc "github.com/mlnoga/bcutil/internal"
	"github.com/mlnoga/bcutil/internal/bolo"
)

const interactiveCommands = `Commands:
  temp <value>     - Get BC from temperature (K)
  logt <value>     - Get BC from log(temperature)
  bv <value>       - Get BC from B-V color
  info             - Show data range information
  help             - Show this help
  quit             - Exit
`

// Interactive prompt loop, reading commands from stdin until quit or EOF
func interactiveMode(eng *bolo.Engine) {
	w := bc.LogWriter()
	fmt.Fprintf(w, "Bolometric correction utility, interactive mode\n\n%s", interactiveCommands)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprintf(w, "\nBC> ")
		if !scanner.Scan() {
			fmt.Fprintf(w, "\nGoodbye!\n")
			return
		}
		line := strings.TrimSpace(strings.ToLower(scanner.Text()))
		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit" || line == "q":
			fmt.Fprintf(w, "Goodbye!\n")
			return
		case line == "help":
			fmt.Fprintf(w, "%s", interactiveCommands)
		case line == "info":
			printInfo(w, eng)
		default:
			interactiveQuery(w, eng, line)
		}
	}
}

func interactiveQuery(w io.Writer, eng *bolo.Engine, line string) {
	parts := strings.Fields(line)
	axis, err := bolo.ParseAxis(parts[0])
	if err != nil {
		fmt.Fprintf(w, "Unknown command: %s\nType 'help' for available commands\n", line)
		return
	}
	if len(parts) < 2 {
		fmt.Fprintf(w, "Error: Please provide a valid %s value\n", axis)
		return
	}
	value, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		fmt.Fprintf(w, "Error: Please provide a valid %s value\n", axis)
		return
	}
	if _, err := query(w, eng, axis, value); err != nil {
		fmt.Fprintf(w, "Error: %s\n", err.Error())
	}
}
