// Package param finds template parameters by name prefix and assigns values
// to them.
package param

import (
	"context"
	"errors"
	"strings"

	kerrors "github.com/aeonclok/keycapgen/pkg/errors"
	"github.com/aeonclok/keycapgen/pkg/template"
	"github.com/aeonclok/keycapgen/pkg/units"
)

// Resolve returns the first parameter whose name starts with prefix,
// ignoring case. Enumeration order decides between several matches.
func Resolve(params []template.Parameter, prefix string) (template.Parameter, error) {
	want := strings.ToLower(prefix)
	for _, p := range params {
		if strings.HasPrefix(strings.ToLower(p.Name), want) {
			return p, nil
		}
	}
	return template.Parameter{}, kerrors.New(kerrors.ErrCodeParameterNotFound,
		"no parameter starting with %q", prefix)
}

// Apply assigns value to p through s. Expressions are bound so the host
// re-derives them on recompute; literals are set as scalars.
//
// A host rejection becomes a PARAMETER_ASSIGN_ERROR. Other errors are
// returned unchanged.
func Apply(ctx context.Context, s template.ParameterSetter, p template.Parameter, value units.Value) error {
	var err error
	switch value.Kind() {
	case units.KindExpression:
		expr, _ := value.Expression()
		err = s.SetExpression(ctx, p.Name, expr)
	case units.KindLiteral:
		lit, _ := value.Literal()
		err = s.SetScalar(ctx, p.Name, lit)
	default:
		return kerrors.New(kerrors.ErrCodeParameterAssign, "no value given for %s", p.Name)
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, template.ErrRejected) {
		return kerrors.Wrap(kerrors.ErrCodeParameterAssign, err, "set %s to %q", p.Name, value.String())
	}
	return err
}
