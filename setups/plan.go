// Package setups holds the per-board wiring and discovery defaults. The board
// compiled in as Selected is chosen by build tag.
package setups

import (
	"sort"

	"boardscan-go/types"
)

// ResourcePlan specifies wiring and operating parameters chosen by a setup.
type ResourcePlan struct {
	I2C  []I2CPlan
	UART []UARTPlan
}

type I2CPlan struct {
	ID  string // e.g. "i2c0"
	SDA int    // GPIO number
	SCL int    // GPIO number
	Hz  uint32 // bus frequency
}

type UARTPlan struct {
	ID   string
	TX   int
	RX   int
	Baud uint32
}

// Board is a named setup: how the buses are wired and how discovery runs on it.
type Board struct {
	Name string
	Plan ResourcePlan
	Scan types.ScanConfig
}

// I2C returns the plan for the bus discovery sweeps.
func (b Board) I2C() (I2CPlan, bool) {
	for _, p := range b.Plan.I2C {
		if p.ID == b.Scan.Bus {
			return p, true
		}
	}
	return I2CPlan{}, false
}

var boards = map[string]Board{
	Generic.Name:     Generic,
	PicoTracker.Name: PicoTracker,
}

// Lookup finds a board by name.
func Lookup(name string) (Board, bool) {
	b, ok := boards[name]
	return b, ok
}

// Names lists the known boards.
func Names() []string {
	out := make([]string, 0, len(boards))
	for n := range boards {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
