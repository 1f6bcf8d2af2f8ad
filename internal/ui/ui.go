// Package ui provides shared helpers for terminal output.
package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// Blue returns a blue-colored string.
func Blue(a ...any) string {
	return pterm.Blue(a...)
}

// Green returns a green-colored string.
func Green(a ...any) string {
	return pterm.Green(a...)
}

// PrintTable renders a boxed table with a header row to the writer.
func PrintTable(data [][]string, writer io.Writer) {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to output table: %s", err.Error())
		return
	}

	fmt.Fprintln(writer, str)
}
