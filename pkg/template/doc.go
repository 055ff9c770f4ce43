// Package template defines the contract between the variant generator and
// the host modeling environment that owns the master template.
//
// The host is reached only through [Registry]. Implementations translate these
// calls into the host's own API; [memory] provides an in-process registry
// used by the CLI and by tests.
//
// # Failure model
//
// Registry methods distinguish three outcomes:
//   - success
//   - a rejection the generator can recover from: SetScalar and SetExpression
//     return an error wrapping [ErrRejected]; Copy returns ok == false with a
//     nil error
//   - any other error, which the generator treats as a fault that ends the run
//     (for example a lost connection to the host)
//
// [memory]: github.com/aeonclok/keycapgen/pkg/template/memory
package template
