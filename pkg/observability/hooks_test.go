package observability

import (
	"context"
	"testing"
)

func TestDefaultIsNoop(t *testing.T) {
	Reset()
	if _, ok := Current().(NoopHooks); !ok {
		t.Errorf("Current() = %T, want NoopHooks", Current())
	}
	// Must not panic.
	Current().OnEvent(context.Background(), Event{Stage: StageCopy})
}

func TestSetHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &Recorder{}
	SetHooks(rec)
	Current().OnEvent(context.Background(), Event{Stage: StageRecompute, Outcome: OutcomeOK})

	if got := len(rec.Events()); got != 1 {
		t.Fatalf("recorded %d events, want 1", got)
	}
}

func TestSetHooksIgnoresNil(t *testing.T) {
	t.Cleanup(Reset)

	rec := &Recorder{}
	SetHooks(rec)
	SetHooks(nil)
	if Current() != Hooks(rec) {
		t.Error("SetHooks(nil) replaced the registered hooks")
	}
}

func TestHooksFunc(t *testing.T) {
	var got Event
	h := HooksFunc(func(_ context.Context, e Event) { got = e })
	h.OnEvent(context.Background(), Event{Stage: StagePlace, Detail: "x"})
	if got.Stage != StagePlace || got.Detail != "x" {
		t.Errorf("got %+v", got)
	}
}

func TestRecorderFilter(t *testing.T) {
	rec := &Recorder{}
	ctx := context.Background()
	rec.OnEvent(ctx, Event{Stage: StageCopy, Outcome: OutcomeOK})
	rec.OnEvent(ctx, Event{Stage: StageCopy, Outcome: OutcomeSkipped})
	rec.OnEvent(ctx, Event{Stage: StageApply, Outcome: OutcomeWarning})

	if n := len(rec.Filter(StageCopy, "")); n != 2 {
		t.Errorf("copy events = %d, want 2", n)
	}
	if n := len(rec.Filter("", OutcomeWarning)); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
	if n := len(rec.Filter(StageCopy, OutcomeSkipped)); n != 1 {
		t.Errorf("skipped copies = %d, want 1", n)
	}
}

func TestDescriptorString(t *testing.T) {
	d := Descriptor{Position: 3, Row: 2, Width: 1.25}
	if got := d.String(); got != "#3 r2 w1.25" {
		t.Errorf("String() = %q", got)
	}
}
