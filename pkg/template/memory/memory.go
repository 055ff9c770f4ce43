// Package memory implements template.Registry in process.
//
// The registry keeps an ordered parameter set for one master template.
// Literal parameters hold a number in the parameter's unit; expression
// parameters are Starlark expressions over the other parameters' numeric
// values and are re-evaluated on every Recompute. Copies snapshot the
// evaluated values and are unaffected by later changes to the master.
//
// Failure injection (WithCopyFailures, Close) makes the registry usable as a
// test double for hosts that drop copies or connections.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/aeonclok/keycapgen/pkg/template"
	"github.com/aeonclok/keycapgen/pkg/units"
)

// ErrClosed is returned by every call after Close.
var ErrClosed = errors.New("registry connection closed")

// maxRecomputePasses bounds dependency propagation between expressions.
const maxRecomputePasses = 16

// Copy is a generated component held by the registry.
type Copy struct {
	ID         string
	Name       string
	Transform  template.Transform
	Parameters map[string]units.Literal
}

type entry struct {
	name     string
	unit     string
	value    units.Value
	resolved float64
}

// Option configures a Registry.
type Option func(*Registry)

// WithCopyFailures makes the attempt-th Copy call (0-based, counting every
// call) fail when fail returns true.
func WithCopyFailures(fail func(attempt int) bool) Option {
	return func(r *Registry) { r.failCopy = fail }
}

// Registry is an in-memory master template plus its copies.
type Registry struct {
	mu         sync.Mutex
	params     []*entry
	byName     map[string]*entry
	copies     []*Copy
	byID       map[string]*Copy
	attempts   int
	recomputes int
	closed     bool
	failCopy   func(attempt int) bool
}

// New creates a registry whose master has params, in order.
//
// A parameter's unit is its Unit field when set, otherwise the unit of its
// literal. An expression without a Unit takes the unit of the first
// parameter it refers to that has one, so "baseAngle + 2" is an angle when
// baseAngle is; expressions referring to no unit-carrying parameter fall
// back to units.MM.
func New(params []template.Parameter, opts ...Option) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*entry, len(params)),
		byID:   make(map[string]*Copy),
	}
	for _, opt := range opts {
		opt(r)
	}

	var derived []*entry
	for _, p := range params {
		if _, dup := r.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate parameter %q", p.Name)
		}
		if !units.Known(p.Unit) {
			return nil, fmt.Errorf("parameter %q: unknown unit %q", p.Name, p.Unit)
		}
		e := &entry{name: p.Name, unit: p.Unit, value: p.Value}
		if lit, ok := p.Value.Literal(); ok {
			if e.unit == "" {
				e.unit = lit.Unit
			}
			n, err := lit.Convert(e.unit)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
			}
			e.resolved = n
		}
		r.params = append(r.params, e)
		r.byName[p.Name] = e
		if _, ok := p.Value.Expression(); ok && p.Unit == "" {
			derived = append(derived, e)
		}
	}
	if err := r.deriveUnits(derived); err != nil {
		return nil, err
	}
	if err := r.recompute(); err != nil {
		return nil, err
	}
	return r, nil
}

// deriveUnits assigns units to expression parameters from the parameters
// they refer to. Chains of expressions resolve over several passes.
func (r *Registry) deriveUnits(pending []*entry) error {
	refs := make(map[*entry][]string, len(pending))
	for _, e := range pending {
		expr, _ := e.value.Expression()
		idents, err := identifiers(e.name, expr)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", e.name, err)
		}
		refs[e] = idents
	}

	for len(pending) > 0 {
		var next []*entry
		for _, e := range pending {
			for _, name := range refs[e] {
				if ref, ok := r.byName[name]; ok && ref != e && ref.unit != "" {
					e.unit = ref.unit
					break
				}
			}
			if e.unit == "" {
				next = append(next, e)
			}
		}
		if len(next) == len(pending) {
			for _, e := range next {
				e.unit = units.MM
			}
			return nil
		}
		pending = next
	}
	return nil
}

// identifiers lists the names expr refers to, in source order.
func identifiers(name, expr string) ([]string, error) {
	x, err := syntax.ParseExpr(name, expr, 0) //nolint:staticcheck // SA1019: will migrate to FileOptions.ParseExpr later
	if err != nil {
		return nil, err
	}
	var names []string
	syntax.Walk(x, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	return names, nil
}

// Parameters implements template.Registry.
func (r *Registry) Parameters(_ context.Context) ([]template.Parameter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	out := make([]template.Parameter, len(r.params))
	for i, e := range r.params {
		out[i] = template.Parameter{Name: e.name, Value: e.value, Unit: e.unit}
	}
	return out, nil
}

// SetScalar implements template.Registry. The literal is converted to the
// parameter's unit; a unit of another dimension is rejected.
func (r *Registry) SetScalar(_ context.Context, name string, value units.Literal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	e, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: no parameter %q", template.ErrRejected, name)
	}
	n, err := value.Convert(e.unit)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", template.ErrRejected, name, err)
	}
	e.value = units.FromLiteral(value)
	e.resolved = n
	return nil
}

// SetExpression implements template.Registry. The expression must evaluate
// against the current parameter values, and may not refer to itself.
func (r *Registry) SetExpression(_ context.Context, name string, expr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	e, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: no parameter %q", template.ErrRejected, name)
	}
	n, err := r.eval(e, expr)
	if err != nil {
		return fmt.Errorf("%w: %s = %s: %v", template.ErrRejected, name, expr, err)
	}
	e.value = units.Expr(expr)
	e.resolved = n
	return nil
}

// Recompute implements template.Registry.
func (r *Registry) Recompute(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if err := r.recompute(); err != nil {
		return err
	}
	r.recomputes++
	return nil
}

// Copy implements template.Registry.
func (r *Registry) Copy(_ context.Context, at template.Transform) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", false, ErrClosed
	}
	attempt := r.attempts
	r.attempts++
	if r.failCopy != nil && r.failCopy(attempt) {
		return "", false, nil
	}

	c := &Copy{
		ID:         fmt.Sprintf("copy-%d", len(r.copies)+1),
		Transform:  at,
		Parameters: make(map[string]units.Literal, len(r.params)),
	}
	for _, e := range r.params {
		c.Parameters[e.name] = units.Literal{Number: e.resolved, Unit: e.unit}
	}
	r.copies = append(r.copies, c)
	r.byID[c.ID] = c
	return c.ID, true, nil
}

// Rename implements template.Registry.
func (r *Registry) Rename(_ context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	c, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("no copy %q", id)
	}
	c.Name = name
	return nil
}

// Place implements template.Registry.
func (r *Registry) Place(_ context.Context, id string, at template.Transform) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	c, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("no copy %q", id)
	}
	c.Transform = at
	return nil
}

// Close drops the connection; every later call fails with ErrClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Copies returns the copies in creation order.
func (r *Registry) Copies() []Copy {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Copy, len(r.copies))
	for i, c := range r.copies {
		out[i] = *c
	}
	return out
}

// Lookup returns the copy with the given id.
func (r *Registry) Lookup(id string) (Copy, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Copy{}, false
	}
	return *c, true
}

// Resolved returns the evaluated value of a master parameter.
func (r *Registry) Resolved(name string) (units.Literal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byName[name]
	if !ok {
		return units.Literal{}, false
	}
	return units.Literal{Number: e.resolved, Unit: e.unit}, true
}

// Recomputes returns how many times Recompute succeeded.
func (r *Registry) Recomputes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recomputes
}

// recompute re-evaluates expression parameters until values settle.
func (r *Registry) recompute() error {
	for pass := 0; pass < maxRecomputePasses; pass++ {
		changed := false
		for _, e := range r.params {
			expr, ok := e.value.Expression()
			if !ok {
				continue
			}
			n, err := r.eval(e, expr)
			if err != nil {
				return fmt.Errorf("recompute %s = %s: %w", e.name, expr, err)
			}
			if n != e.resolved {
				e.resolved = n
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
	return fmt.Errorf("recompute: expressions did not settle after %d passes", maxRecomputePasses)
}

// eval evaluates expr with every other parameter bound to its number.
func (r *Registry) eval(self *entry, expr string) (float64, error) {
	env := make(starlark.StringDict, len(r.params))
	for _, e := range r.params {
		if e == self {
			continue
		}
		env[e.name] = starlark.Float(e.resolved)
	}
	thread := &starlark.Thread{Name: self.name}
	v, err := starlark.Eval(thread, self.name, expr, env) //nolint:staticcheck // SA1019: will migrate to EvalOptions later
	if err != nil {
		return 0, err
	}
	n, ok := starlark.AsFloat(v)
	if !ok {
		return 0, fmt.Errorf("expression yields %s, want a number", v.Type())
	}
	return n, nil
}
