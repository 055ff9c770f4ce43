package profile

import (
	"testing"

	"github.com/aeonclok/keycapgen/pkg/units"
)

func TestLookupKnownRow(t *testing.T) {
	table := DefaultTable()

	p, ok := table.Lookup(2)
	if !ok {
		t.Fatal("row 2 should be known")
	}
	if !p.Height.Equal(units.Lit(14, units.MM)) {
		t.Errorf("Height = %v, want 14 mm", p.Height)
	}
	if !p.Angle.Equal(units.Lit(9, units.DEG)) {
		t.Errorf("Angle = %v, want 9 deg", p.Angle)
	}
}

func TestLookupUnknownRowUsesDefault(t *testing.T) {
	p, ok := DefaultTable().Lookup(5)
	if ok {
		t.Error("row 5 should be unknown")
	}
	if p.Row != 5 {
		t.Errorf("Row = %d, want 5", p.Row)
	}
	if !p.Height.Equal(units.Lit(10, units.MM)) || !p.Angle.Equal(units.Lit(6, units.DEG)) {
		t.Errorf("default profile = %v/%v, want 10 mm/6 deg", p.Height, p.Angle)
	}
}

func TestLookupNilTable(t *testing.T) {
	var table Table
	if _, ok := table.Lookup(1); ok {
		t.Error("nil table should know no rows")
	}
}

func TestSymbolicProfileForwardedVerbatim(t *testing.T) {
	table := Table{3: {Height: units.Expr("row3Height"), Angle: units.Expr("row3Angle")}}

	p, ok := table.Lookup(3)
	if !ok {
		t.Fatal("row 3 should be known")
	}
	if e, ok := p.Height.Expression(); !ok || e != "row3Height" {
		t.Errorf("Height = %v, want expression row3Height", p.Height)
	}
	if p.Row != 3 {
		t.Errorf("Row = %d, want 3", p.Row)
	}
}

func TestRows(t *testing.T) {
	got := Table{4: {}, 1: {}, 3: {}}.Rows()
	want := []int{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Rows() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Rows() = %v, want %v", got, want)
			break
		}
	}
}
