package units

import (
	"math"
	"testing"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		in      string
		want    Literal
		wantErr bool
	}{
		{"11 mm", Literal{11, MM}, false},
		{"11mm", Literal{11, MM}, false},
		{"  2 deg ", Literal{2, DEG}, false},
		{"1.25", Literal{1.25, ""}, false},
		{"-3.5 cm", Literal{-3.5, CM}, false},
		{"1e1 mm", Literal{10, MM}, false},
		{"2 DEG", Literal{2, DEG}, false},
		{"", Literal{}, true},
		{"mm", Literal{}, true},
		{"11 furlong", Literal{}, true},
		{"row1Height", Literal{}, true},
		{"2 * height", Literal{}, true},
	}

	for _, tt := range tests {
		got, err := ParseLiteral(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLiteral(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseLiteral(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestLiteralString(t *testing.T) {
	tests := []struct {
		lit  Literal
		want string
	}{
		{Literal{11, MM}, "11 mm"},
		{Literal{1.25, MM}, "1.25 mm"},
		{Literal{6, DEG}, "6 deg"},
		{Literal{3, ""}, "3"},
	}
	for _, tt := range tests {
		if got := tt.lit.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.lit, got, tt.want)
		}
	}
}

func TestLiteralConvert(t *testing.T) {
	got, err := Literal{1.9, CM}.Convert(MM)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if math.Abs(got-19) > 1e-9 {
		t.Errorf("1.9 cm in mm = %v, want 19", got)
	}

	got, err = Literal{7, ""}.Convert(DEG)
	if err != nil || got != 7 {
		t.Errorf("unitless Convert = %v, %v; want 7, nil", got, err)
	}

	if _, err := (Literal{11, MM}).Convert(DEG); err == nil {
		t.Error("mm to deg should fail")
	}
	if _, err := (Literal{11, "furlong"}).Convert(MM); err == nil {
		t.Error("unknown source unit should fail")
	}
}

func TestLiteralBase(t *testing.T) {
	got, err := Literal{math.Pi, RAD}.Base()
	if err != nil {
		t.Fatalf("Base: %v", err)
	}
	if math.Abs(got-180) > 1e-9 {
		t.Errorf("pi rad = %v deg, want 180", got)
	}
}

func TestValueCases(t *testing.T) {
	lit := Lit(11, MM)
	if lit.Kind() != KindLiteral {
		t.Errorf("Lit kind = %v", lit.Kind())
	}
	if l, ok := lit.Literal(); !ok || l != (Literal{11, MM}) {
		t.Errorf("Literal() = %+v, %v", l, ok)
	}
	if _, ok := lit.Expression(); ok {
		t.Error("literal reported an expression")
	}

	expr := Expr("row1Height")
	if e, ok := expr.Expression(); !ok || e != "row1Height" {
		t.Errorf("Expression() = %q, %v", e, ok)
	}
	if expr.String() != "row1Height" {
		t.Errorf("String() = %q", expr.String())
	}

	var zero Value
	if !zero.IsZero() || zero.String() != "" {
		t.Error("zero value should be empty")
	}
	if !Lit(1, MM).Equal(FromLiteral(Literal{1, MM})) {
		t.Error("equal literals compare unequal")
	}
	if Lit(1, MM).Equal(Expr("1 mm")) {
		t.Error("literal equals expression")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"11 mm", Lit(11, MM)},
		{"1.25", Lit(1.25, "")},
		{"row1Height", Expr("row1Height")},
		{"baseHeight * 1.2", Expr("baseHeight * 1.2")},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v (%v), want %v (%v)", tt.in, got, got.Kind(), tt.want, tt.want.Kind())
		}
	}

	if _, err := Parse("   "); err == nil {
		t.Error("Parse of blank text should fail")
	}
}
