// Package ui prints the CLI's terminal output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	Brand  = color.New(color.FgHiMagenta, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Banner prints the program name and what it is doing.
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s - %s\n\n", Brand.Sprint("subgraph"), subtitle)
}

// Table prints an aligned table.
func Table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(w, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// StatusIcon returns a tick or a cross.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// Errorf prints a failure line.
func Errorf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", StatusIcon(false), Bad.Sprintf(format, args...))
}
