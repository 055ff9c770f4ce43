package layout

import (
	"fmt"

	"github.com/aeonclok/keycapgen/pkg/template"
)

// DefaultUnitCM is the physical size of one U (a 19 mm key pitch).
const DefaultUnitCM = 1.9

// Mode selects when copies are positioned.
type Mode string

const (
	TwoPhase    Mode = "two-phase"
	SinglePhase Mode = "single-phase"
)

// ParseMode validates a mode name. Empty means TwoPhase.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", TwoPhase:
		return TwoPhase, nil
	case SinglePhase:
		return SinglePhase, nil
	}
	return "", fmt.Errorf("invalid layout mode: %q (must be one of: two-phase, single-phase)", s)
}

// Grid tracks the cumulative offset of every row. The zero value is not
// usable; create one with NewGrid.
type Grid struct {
	unitCM  float64
	offsets map[int]float64
}

// NewGrid returns an empty grid with unitCM centimetres per U.
func NewGrid(unitCM float64) *Grid {
	return &Grid{unitCM: unitCM, offsets: make(map[int]float64)}
}

// UnitCM returns the grid's unit spacing.
func (g *Grid) UnitCM() float64 { return g.unitCM }

// Offset returns the packed width of row so far. Unseen rows are at 0.
func (g *Grid) Offset(row int) float64 { return g.offsets[row] }

// Peek returns the block the next copy of the given width would occupy in
// row, without reserving it.
func (g *Grid) Peek(row int, width float64) Block {
	o := g.offsets[row]
	return Block{Row: row, Left: o, Right: o + width}
}

// Reserve advances row by width.
func (g *Grid) Reserve(row int, width float64) {
	g.offsets[row] += width
}

// Place reserves the next block in row and returns it with its transform.
func (g *Grid) Place(row int, width float64) (Block, template.Transform) {
	b := g.Peek(row, width)
	g.Reserve(row, width)
	return b, b.Transform(g.unitCM)
}

// Offsets returns a copy of the per-row offsets.
func (g *Grid) Offsets() map[int]float64 {
	out := make(map[int]float64, len(g.offsets))
	for r, o := range g.offsets {
		out[r] = o
	}
	return out
}

// Item is something to be placed: a row and a width in U.
type Item struct {
	Row   int
	Width float64
}

// Assign places items in order on a fresh grid and returns one block and
// transform per item. This is the second phase of TwoPhase layout.
func Assign(unitCM float64, items []Item) ([]Block, []template.Transform) {
	g := NewGrid(unitCM)
	blocks := make([]Block, len(items))
	transforms := make([]template.Transform, len(items))
	for i, it := range items {
		blocks[i], transforms[i] = g.Place(it.Row, it.Width)
	}
	return blocks, transforms
}
