// Package observability carries generation events to whoever wants them.
//
// The generator never presents anything itself. For every lookup, resolve,
// apply, recompute, copy, rename and place step it emits an [Event]; a
// notification layer, a logger or a metrics backend subscribes by
// implementing [Hooks].
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define a hook interface for generation events
//   - Provide a no-op default implementation
//   - Allow registration of a custom implementation at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHooks(&myHooks{})
//	    // ... run application
//	}
//
// The generator uses the registered hooks unless its options carry their own:
//
//	observability.Current().OnEvent(ctx, observability.Event{
//	    Stage:   observability.StageCopy,
//	    Outcome: observability.OutcomeOK,
//	})
package observability

import (
	"context"
	"fmt"
	"sync"
)

// Stage names a step of variant generation.
type Stage string

const (
	StageLookup    Stage = "lookup"
	StageResolve   Stage = "resolve"
	StageApply     Stage = "apply"
	StageRecompute Stage = "recompute"
	StageCopy      Stage = "copy"
	StageRename    Stage = "rename"
	StagePlace     Stage = "place"
)

// Outcome is the result of a stage.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeWarning Outcome = "warning"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Descriptor identifies the variant an event belongs to.
type Descriptor struct {
	Position int     // position in the variant list, 0-based
	Row      int     // keyboard row
	Width    float64 // width in U
}

func (d Descriptor) String() string {
	return fmt.Sprintf("#%d r%d w%.2f", d.Position, d.Row, d.Width)
}

// Event is one structured diagnostic.
type Event struct {
	RunID      string
	Stage      Stage
	Descriptor Descriptor
	Outcome    Outcome
	Detail     string
}

// Hooks receives events from the generator.
type Hooks interface {
	OnEvent(ctx context.Context, e Event)
}

// HooksFunc adapts a function to Hooks.
type HooksFunc func(ctx context.Context, e Event)

// OnEvent calls f.
func (f HooksFunc) OnEvent(ctx context.Context, e Event) { f(ctx, e) }

// NoopHooks is a no-op implementation of Hooks.
type NoopHooks struct{}

func (NoopHooks) OnEvent(context.Context, Event) {}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// OnEvent implements Hooks.
func (r *Recorder) OnEvent(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Filter returns the recorded events matching stage and outcome. An empty
// stage or outcome matches anything.
func (r *Recorder) Filter(stage Stage, outcome Outcome) []Event {
	var out []Event
	for _, e := range r.Events() {
		if stage != "" && e.Stage != stage {
			continue
		}
		if outcome != "" && e.Outcome != outcome {
			continue
		}
		out = append(out, e)
	}
	return out
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	hooks   Hooks = NoopHooks{}
	hooksMu sync.RWMutex
)

// SetHooks registers custom hooks.
// This should be called once at application startup before any runs.
func SetHooks(h Hooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		hooks = h
	}
}

// Current returns the registered hooks.
func Current() Hooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return hooks
}

// Reset restores the no-op default.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	hooks = NoopHooks{}
}
