package layout

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/aeonclok/keycapgen/pkg/template"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestAssignWorkedExample(t *testing.T) {
	items := []Item{{1, 1}, {1, 1.25}, {2, 1}, {2, 1.25}}

	_, got := Assign(1.9, items)

	want := []template.Transform{
		template.Translate(0.95, 1.9, 0),
		template.Translate(3.0875, 1.9, 0),
		template.Translate(0.95, 3.8, 0),
		template.Translate(3.0875, 3.8, 0),
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Assign() mismatch (-want +got):\n%s", diff)
	}
}

func TestOffsetsAccumulatePerRow(t *testing.T) {
	g := NewGrid(DefaultUnitCM)
	widths := map[int][]float64{
		1: {1, 1.25, 2.25},
		3: {1.5, 1},
	}

	// Interleave rows to show they do not affect each other.
	seq := []Item{{1, 1}, {3, 1.5}, {1, 1.25}, {3, 1}, {1, 2.25}}
	seen := map[int]int{}
	for _, it := range seq {
		before := g.Offset(it.Row)
		var want float64
		for _, w := range widths[it.Row][:seen[it.Row]] {
			want += w
		}
		if math.Abs(before-want) > 1e-9 {
			t.Errorf("row %d offset before item %d = %v, want %v", it.Row, seen[it.Row], before, want)
		}

		b, _ := g.Place(it.Row, it.Width)
		if b.Left != before || math.Abs(g.Offset(it.Row)-(before+it.Width)) > 1e-9 {
			t.Errorf("row %d: block %+v, offset after %v", it.Row, b, g.Offset(it.Row))
		}
		seen[it.Row]++
	}

	if got := g.Offset(2); got != 0 {
		t.Errorf("untouched row offset = %v, want 0", got)
	}
}

func TestBlocksInRowAreDisjoint(t *testing.T) {
	blocks, _ := Assign(1.9, []Item{{1, 1}, {1, 1.5}, {1, 0.75}, {2, 2}})

	var prev *Block
	for i := range blocks {
		b := blocks[i]
		if b.Row != 1 {
			continue
		}
		if prev != nil && b.Left < prev.Right-1e-9 {
			t.Errorf("block %+v overlaps %+v", b, *prev)
		}
		prev = &blocks[i]
	}
}

func TestYDependsOnlyOnRow(t *testing.T) {
	_, a := Assign(1.9, []Item{{3, 1}, {1, 2}, {3, 1.25}})
	_, b := Assign(1.9, []Item{{1, 7}, {3, 0.5}})

	for _, tr := range []template.Transform{a[0], a[2], b[1]} {
		if math.Abs(tr.Translation.Y-5.7) > 1e-9 {
			t.Errorf("row 3 y = %v, want 5.7", tr.Translation.Y)
		}
		if tr.Translation.Z != 0 {
			t.Errorf("z = %v, want 0", tr.Translation.Z)
		}
	}
}

func TestPeekDoesNotReserve(t *testing.T) {
	g := NewGrid(2)
	b := g.Peek(1, 1.5)
	if b.Left != 0 || b.Right != 1.5 {
		t.Errorf("Peek = %+v", b)
	}
	if g.Offset(1) != 0 {
		t.Errorf("Peek reserved space: offset %v", g.Offset(1))
	}
	g.Reserve(1, 1.5)
	if tr := g.Peek(1, 1).Transform(g.UnitCM()); tr.Translation.X != 4 {
		t.Errorf("x after reserve = %v, want 4", tr.Translation.X)
	}
}

func TestOffsetsIsACopy(t *testing.T) {
	g := NewGrid(1)
	g.Reserve(1, 2)
	o := g.Offsets()
	o[1] = 99
	if g.Offset(1) != 2 {
		t.Error("Offsets() exposed internal state")
	}
}

func TestBlockGeometry(t *testing.T) {
	b := Block{Row: 2, Left: 1, Right: 2.25}
	if b.Width() != 1.25 {
		t.Errorf("Width() = %v", b.Width())
	}
	if b.CenterX() != 1.625 {
		t.Errorf("CenterX() = %v", b.CenterX())
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", TwoPhase, false},
		{"two-phase", TwoPhase, false},
		{"single-phase", SinglePhase, false},
		{"Two-Phase", "", true},
		{"both", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
