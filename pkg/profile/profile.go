// Package profile holds per-row keycap attributes.
//
// A row profile gives the height and top angle of every keycap in a row. Each
// attribute is a [units.Value], so a profile can pin a literal ("14 mm") or
// defer to a template expression ("row2Height") that the host evaluates.
package profile

import (
	"sort"

	"github.com/aeonclok/keycapgen/pkg/units"
)

// Profile describes one keyboard row.
type Profile struct {
	Row    int
	Height units.Value
	Angle  units.Value
}

// DefaultProfile is used for rows the table does not know.
var DefaultProfile = Profile{
	Height: units.Lit(10, units.MM),
	Angle:  units.Lit(6, units.DEG),
}

// Table maps row numbers to profiles.
type Table map[int]Profile

// DefaultTable returns the stock sculpted keycap rows.
func DefaultTable() Table {
	return Table{
		1: {Row: 1, Height: units.Lit(11, units.MM), Angle: units.Lit(2, units.DEG)},
		2: {Row: 2, Height: units.Lit(14, units.MM), Angle: units.Lit(9, units.DEG)},
		3: {Row: 3, Height: units.Lit(18, units.MM), Angle: units.Lit(15, units.DEG)},
		4: {Row: 4, Height: units.Lit(18, units.MM), Angle: units.Lit(15, units.DEG)},
	}
}

// Lookup returns the profile for row. It never fails: for an unknown row it
// returns DefaultProfile stamped with row and false.
func (t Table) Lookup(row int) (Profile, bool) {
	if p, ok := t[row]; ok {
		p.Row = row
		return p, true
	}
	p := DefaultProfile
	p.Row = row
	return p, false
}

// Rows returns the known row numbers in ascending order.
func (t Table) Rows() []int {
	rows := make([]int, 0, len(t))
	for r := range t {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}
