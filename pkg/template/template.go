package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/aeonclok/keycapgen/pkg/units"
)

// ErrRejected marks a parameter value the host refused, e.g. a malformed
// expression or an incompatible unit.
var ErrRejected = errors.New("value rejected by host")

// Parameter is a named template parameter and its current value.
//
// Unit is the unit the host stores the parameter in. Hosts that do not
// report one leave it empty; a host seeded with an empty Unit derives it
// from the value.
type Parameter struct {
	Name  string
	Value units.Value
	Unit  string
}

// Vec3 is a point or translation in centimetres.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Transform places a copy in model space. Only translation is used.
type Transform struct {
	Translation Vec3
}

// Identity is the transform of a copy that has not been placed yet.
var Identity = Transform{}

// Translate returns a transform moving a copy to (x, y, z).
func Translate(x, y, z float64) Transform {
	return Transform{Translation: Vec3{X: x, Y: y, Z: z}}
}

// ParameterSetter is the part of Registry used to assign parameter values.
type ParameterSetter interface {
	// SetScalar assigns a literal directly, dropping any bound expression.
	SetScalar(ctx context.Context, name string, value units.Literal) error

	// SetExpression binds an expression the host re-evaluates on recompute.
	SetExpression(ctx context.Context, name string, expr string) error
}

// Registry is the host-side collaborator owning the master template.
type Registry interface {
	ParameterSetter

	// Parameters enumerates the master's parameters in host order.
	Parameters(ctx context.Context) ([]Parameter, error)

	// Recompute regenerates the master from its current parameter values and
	// blocks until it is done.
	Recompute(ctx context.Context) error

	// Copy creates an independent copy of the master's current state at the
	// given transform. ok is false when the host could not create it.
	Copy(ctx context.Context, at Transform) (id string, ok bool, err error)

	// Rename sets the display name of a copy.
	Rename(ctx context.Context, id, name string) error

	// Place moves an existing copy to a new transform.
	Place(ctx context.Context, id string, at Transform) error
}
