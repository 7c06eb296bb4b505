// Package busscan interprets i2cdetect grids for presence detection.
package busscan

import (
	"fmt"
	"strings"

	"github.com/teknique/fatest/pkg/config"
)

// emptyCell is what i2cdetect prints for an address that did not acknowledge.
const emptyCell = "--"

// Expectation is the presence baseline for a single bus.
type Expectation struct {
	Bus        int
	MinDevices int
	GridCells  int
}

// FromConfig converts the configured bus list into expectations.
func FromConfig(buses []config.BusExpectation) []Expectation {
	expectations := make([]Expectation, 0, len(buses))
	for _, b := range buses {
		expectations = append(expectations, Expectation{
			Bus:        b.Bus,
			MinDevices: b.MinDevices,
			GridCells:  b.GridCells,
		})
	}
	return expectations
}

// DefaultExpectations returns the baseline of the Zeus carrier board.
func DefaultExpectations() []Expectation {
	return FromConfig(config.Defaults().BusScan.Buses)
}

// Command is the on-device command that prints the grid for the bus.
func (e Expectation) Command() string {
	return fmt.Sprintf("i2cdetect -y %d", e.Bus)
}

// Occupied returns the number of responding addresses in an i2cdetect grid.
// Reserved addresses print as blanks and responding ones as hex or "UU",
// so every cell that is not "--" out of the baseline is a device.
func Occupied(output string, gridCells int) int {
	return gridCells - strings.Count(output, emptyCell)
}

// Check reports the occupied count for the grid and whether it meets the minimum.
func (e Expectation) Check(output string) (int, bool) {
	found := Occupied(output, e.GridCells)
	return found, found >= e.MinDevices
}
