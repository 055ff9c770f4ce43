// Package units models template parameter values.
//
// A value is either a literal number with an optional unit ("11 mm", "2 deg",
// "1.25") or a symbolic expression that the host re-evaluates on every
// recompute ("row1Height", "baseHeight * 1.2"). The two are distinct cases of
// [Value] and are chosen by the caller when the value is constructed; [Parse]
// exists for text inputs such as command-line flags.
package units

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Dimension groups units that convert into each other.
type Dimension int

const (
	Scalar Dimension = iota
	Length
	Angle
)

func (d Dimension) String() string {
	switch d {
	case Length:
		return "length"
	case Angle:
		return "angle"
	default:
		return "scalar"
	}
}

// Common units.
const (
	MM  = "mm"
	CM  = "cm"
	M   = "m"
	IN  = "in"
	DEG = "deg"
	RAD = "rad"
)

// known maps each unit to its dimension and its factor to the base unit of
// that dimension (mm for length, deg for angle).
var known = map[string]struct {
	dim    Dimension
	factor float64
}{
	"":  {Scalar, 1},
	MM:  {Length, 1},
	CM:  {Length, 10},
	M:   {Length, 1000},
	IN:  {Length, 25.4},
	DEG: {Angle, 1},
	RAD: {Angle, 57.29577951308232},
}

// Known reports whether unit is recognised.
func Known(unit string) bool {
	_, ok := known[unit]
	return ok
}

// DimensionOf returns the dimension of unit. Unknown units are Scalar.
func DimensionOf(unit string) Dimension {
	return known[unit].dim
}

// Literal is a number with an optional unit.
type Literal struct {
	Number float64
	Unit   string
}

// String formats the literal the way hosts accept it, e.g. "11 mm".
func (l Literal) String() string {
	n := strconv.FormatFloat(l.Number, 'f', -1, 64)
	if l.Unit == "" {
		return n
	}
	return n + " " + l.Unit
}

// Base returns the number expressed in the base unit of its dimension.
func (l Literal) Base() (float64, error) {
	u, ok := known[l.Unit]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", l.Unit)
	}
	return l.Number * u.factor, nil
}

// Convert expresses l in unit to. A unitless literal takes the target unit
// as-is; otherwise both units must share a dimension.
func (l Literal) Convert(to string) (float64, error) {
	from, ok := known[l.Unit]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", l.Unit)
	}
	target, ok := known[to]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", to)
	}
	if l.Unit == "" {
		return l.Number, nil
	}
	if from.dim != target.dim {
		return 0, fmt.Errorf("cannot convert %s to %s (%s vs %s)", l.Unit, to, from.dim, target.dim)
	}
	return l.Number * from.factor / target.factor, nil
}

// ParseLiteral parses a number followed by an optional unit.
// Accepted forms include "11 mm", "11mm", "-2.5 deg" and "1.25".
func ParseLiteral(s string) (Literal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Literal{}, fmt.Errorf("empty literal")
	}
	// 'e' and 'E' belong to the number (exponent); no known unit starts with them.
	i := strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) && r != 'e' && r != 'E'
	})
	num, unit := s, ""
	if i >= 0 {
		num, unit = strings.TrimSpace(s[:i]), strings.TrimSpace(s[i:])
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Literal{}, fmt.Errorf("invalid number in %q", s)
	}
	unit = strings.ToLower(unit)
	if !Known(unit) {
		return Literal{}, fmt.Errorf("unknown unit %q in %q", unit, s)
	}
	return Literal{Number: n, Unit: unit}, nil
}

// Kind discriminates the cases of a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindLiteral
	KindExpression
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindExpression:
		return "expression"
	default:
		return "none"
	}
}

// Value is either a Literal or an Expression. The zero Value is neither.
type Value struct {
	kind Kind
	lit  Literal
	expr string
}

// Lit returns a literal value.
func Lit(n float64, unit string) Value {
	return Value{kind: KindLiteral, lit: Literal{Number: n, Unit: unit}}
}

// FromLiteral wraps l as a Value.
func FromLiteral(l Literal) Value {
	return Value{kind: KindLiteral, lit: l}
}

// Expr returns a symbolic expression value. The reference is forwarded to
// the host verbatim.
func Expr(ref string) Value {
	return Value{kind: KindExpression, expr: ref}
}

// Kind returns which case v holds.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether v holds no value.
func (v Value) IsZero() bool { return v.kind == KindNone }

// Literal returns the literal case.
func (v Value) Literal() (Literal, bool) {
	return v.lit, v.kind == KindLiteral
}

// Expression returns the expression case.
func (v Value) Expression() (string, bool) {
	return v.expr, v.kind == KindExpression
}

// Equal reports whether v and o hold the same case and content.
func (v Value) Equal(o Value) bool {
	return v == o
}

func (v Value) String() string {
	switch v.kind {
	case KindLiteral:
		return v.lit.String()
	case KindExpression:
		return v.expr
	default:
		return ""
	}
}

// Parse reads text as a Literal when it is a number with an optional known
// unit and as an Expression otherwise. Empty text is an error.
func Parse(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("empty value")
	}
	if l, err := ParseLiteral(s); err == nil {
		return FromLiteral(l), nil
	}
	return Expr(s), nil
}
