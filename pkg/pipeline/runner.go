package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	kerrors "github.com/aeonclok/keycapgen/pkg/errors"
	"github.com/aeonclok/keycapgen/pkg/layout"
	"github.com/aeonclok/keycapgen/pkg/naming"
	"github.com/aeonclok/keycapgen/pkg/observability"
	"github.com/aeonclok/keycapgen/pkg/param"
	"github.com/aeonclok/keycapgen/pkg/template"
	"github.com/aeonclok/keycapgen/pkg/units"
)

// Runner executes generation runs.
//
// The Runner is stateless except for the logger and hooks - everything a run
// mutates lives in a per-run state value. It must not be used for two runs
// against the same registry at once.
type Runner struct {
	Logger *log.Logger
	Hooks  observability.Hooks
}

// NewRunner creates a runner.
// If logger is nil, log output is discarded.
// If hooks is nil, the globally registered hooks are used.
func NewRunner(logger *log.Logger, hooks observability.Hooks) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if hooks == nil {
		hooks = observability.Current()
	}
	return &Runner{Logger: logger, Hooks: hooks}
}

// runState is everything a single run mutates. It is created fresh by
// Execute and discarded when the run ends.
type runState struct {
	runner *Runner
	opts   *Options
	reg    template.Registry
	runID  string
	grid   *layout.Grid
	index  *naming.Indexer
	namer  naming.Namer
	result *Result
}

// assignment is one parameter value applied to the master for a variant.
type assignment struct {
	prefix string
	value  units.Value
}

// Execute generates every variant in opts against reg and places the copies.
//
// Recoverable problems are recorded in the result and do not produce an
// error. When the run ends early, Execute returns the partial result together
// with the error.
func (r *Runner) Execute(ctx context.Context, reg template.Registry, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	s := &runState{
		runner: r,
		opts:   &opts,
		reg:    reg,
		runID:  uuid.NewString(),
		grid:   layout.NewGrid(opts.UnitCM),
		index:  naming.NewIndexer(opts.FirstIndex),
		namer:  naming.Namer{Prefix: opts.NamePrefix},
	}
	s.result = &Result{RunID: s.runID, Stats: Stats{Variants: len(opts.Variants)}}

	params, err := reg.Parameters(ctx)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeRegistryUnavailable, err, "enumerate template parameters")
	}
	if len(params) == 0 {
		return nil, kerrors.New(kerrors.ErrCodeInvalidInput, "template has no parameters")
	}

	r.Logger.Info("generating variants",
		"run", s.runID,
		"variants", len(opts.Variants),
		"mode", opts.Mode,
		"unit_cm", opts.UnitCM)

	// Stage 1: Generate
	genStart := time.Now()
	for i, v := range opts.Variants {
		if err := ctx.Err(); err != nil {
			s.result.Stats.GenerateTime = time.Since(genStart)
			return s.finish(), kerrors.Wrap(kerrors.ErrCodeInternal, err, "run interrupted before variant %d", i)
		}
		if err := s.generate(ctx, i, v); err != nil {
			s.result.Stats.GenerateTime = time.Since(genStart)
			return s.finish(), err
		}
	}
	s.result.Stats.GenerateTime = time.Since(genStart)

	// Stage 2: Place
	if opts.Mode == layout.TwoPhase {
		placeStart := time.Now()
		err := s.place(ctx)
		s.result.Stats.PlaceTime = time.Since(placeStart)
		if err != nil {
			return s.finish(), err
		}
	}

	res := s.finish()
	r.Logger.Info("generated variants",
		"run", s.runID,
		"created", res.Stats.Created,
		"skipped", res.Stats.Skipped,
		"warnings", res.Stats.Warnings,
		"duration", res.Stats.GenerateTime+res.Stats.PlaceTime)
	return res, nil
}

// generate runs lookup → apply → recompute → copy for one variant.
func (s *runState) generate(ctx context.Context, pos int, v Variant) error {
	d := observability.Descriptor{Position: pos, Row: v.Row, Width: v.Width}

	prof, known := s.opts.Profiles.Lookup(v.Row)
	if known {
		s.emit(ctx, observability.StageLookup, d, observability.OutcomeOK,
			fmt.Sprintf("height %s, angle %s", prof.Height, prof.Angle))
	} else {
		s.fail(ctx, d, observability.StageLookup, false,
			kerrors.New(kerrors.ErrCodeUnknownRow, "row %d has no profile, using height %s, angle %s", v.Row, prof.Height, prof.Angle))
	}

	// Single-phase layout reserves the slot before the master is touched and
	// keeps it even if the copy fails.
	at := template.Identity
	var block layout.Block
	if s.opts.Mode == layout.SinglePhase {
		block = s.grid.Peek(v.Row, v.Width)
		at = block.Transform(s.opts.UnitCM)
		s.grid.Reserve(v.Row, v.Width)
	}

	params, err := s.reg.Parameters(ctx)
	if err != nil {
		return s.fatal(ctx, d, observability.StageResolve, err)
	}

	applied := make(map[string]units.Value, 3)
	for _, a := range []assignment{
		{s.opts.Parameters.Width, units.Lit(v.Width, s.opts.Parameters.WidthUnit)},
		{s.opts.Parameters.Height, prof.Height},
		{s.opts.Parameters.Angle, prof.Angle},
	} {
		p, err := param.Resolve(params, a.prefix)
		if err != nil {
			if s.opts.OnMissing == AbortOnMissingParameter {
				s.record(d, observability.StageResolve, err, false, true)
				s.emit(ctx, observability.StageResolve, d, observability.OutcomeFailed, kerrors.UserMessage(err))
				return kerrors.Wrap(kerrors.ErrCodeParameterNotFound, err, "variant %s: aborting run", d)
			}
			s.fail(ctx, d, observability.StageResolve, false, err)
			continue
		}
		s.emit(ctx, observability.StageResolve, d, observability.OutcomeOK,
			fmt.Sprintf("%s -> %s", a.prefix, p.Name))

		if err := param.Apply(ctx, s.reg, p, a.value); err != nil {
			if !kerrors.Recoverable(err) {
				return s.fatal(ctx, d, observability.StageApply, err)
			}
			s.fail(ctx, d, observability.StageApply, false, err)
			continue
		}
		applied[p.Name] = a.value
		s.emit(ctx, observability.StageApply, d, observability.OutcomeOK,
			fmt.Sprintf("%s = %s (%s)", p.Name, a.value, a.value.Kind()))
	}

	if err := s.reg.Recompute(ctx); err != nil {
		return s.fatal(ctx, d, observability.StageRecompute, err)
	}
	s.emit(ctx, observability.StageRecompute, d, observability.OutcomeOK, "")

	id, ok, err := s.reg.Copy(ctx, at)
	if err != nil {
		return s.fatal(ctx, d, observability.StageCopy, err)
	}
	if !ok {
		s.fail(ctx, d, observability.StageCopy, true,
			kerrors.New(kerrors.ErrCodeCopyCreationFailed, "host created no copy at %s", at.Translation))
		return nil
	}

	index := s.index.Next()
	name := s.namer.Name(v.Row, v.Width, index)
	s.emit(ctx, observability.StageCopy, d, observability.OutcomeOK,
		fmt.Sprintf("%s at %s", name, at.Translation))

	if err := s.reg.Rename(ctx, id, name); err != nil {
		return s.fatal(ctx, d, observability.StageRename, err)
	}
	s.emit(ctx, observability.StageRename, d, observability.OutcomeOK, name)

	s.result.Instances = append(s.result.Instances, Instance{
		Index:      index,
		Name:       name,
		ID:         id,
		Variant:    pos,
		Row:        v.Row,
		Width:      v.Width,
		Block:      block,
		Position:   at.Translation,
		Parameters: applied,
	})
	return nil
}

// place lays out every created copy on a fresh grid, in creation order, and
// moves it there.
func (s *runState) place(ctx context.Context) error {
	s.grid = layout.NewGrid(s.opts.UnitCM)
	for i := range s.result.Instances {
		inst := &s.result.Instances[i]
		d := observability.Descriptor{Position: inst.Variant, Row: inst.Row, Width: inst.Width}

		block, at := s.grid.Place(inst.Row, inst.Width)
		if err := s.reg.Place(ctx, inst.ID, at); err != nil {
			return s.fatal(ctx, d, observability.StagePlace, err)
		}
		inst.Block = block
		inst.Position = at.Translation
		s.emit(ctx, observability.StagePlace, d, observability.OutcomeOK,
			fmt.Sprintf("%s at %s", inst.Name, at.Translation))
	}
	return nil
}

// finish fills in the derived parts of the result.
func (s *runState) finish() *Result {
	res := s.result
	res.Offsets = s.grid.Offsets()
	res.Stats.Created = len(res.Instances)
	res.Stats.Skipped, res.Stats.Warnings = 0, 0
	for _, f := range res.Failures {
		switch {
		case f.Fatal:
		case f.Skipped:
			res.Stats.Skipped++
		default:
			res.Stats.Warnings++
		}
	}
	return res
}

// fail records a recoverable problem and reports it.
func (s *runState) fail(ctx context.Context, d observability.Descriptor, stage observability.Stage, skipped bool, err error) {
	s.record(d, stage, err, skipped, false)
	outcome := observability.OutcomeWarning
	if skipped {
		outcome = observability.OutcomeSkipped
	}
	s.emit(ctx, stage, d, outcome, kerrors.UserMessage(err))
}

// record appends a failure to the result.
func (s *runState) record(d observability.Descriptor, stage observability.Stage, err error, skipped, fatal bool) {
	s.result.Failures = append(s.result.Failures, Failure{
		Descriptor: d,
		Stage:      stage,
		Code:       kerrors.GetCode(err),
		Err:        err,
		Skipped:    skipped,
		Fatal:      fatal,
	})
}

// fatal reports a fault and wraps it with the variant and stage.
func (s *runState) fatal(ctx context.Context, d observability.Descriptor, stage observability.Stage, err error) error {
	s.emit(ctx, stage, d, observability.OutcomeFailed, err.Error())
	return kerrors.Wrap(kerrors.ErrCodeRegistryUnavailable, err, "variant %s: %s", d, stage)
}

// emit sends an event to the hooks and mirrors it to the logger.
func (s *runState) emit(ctx context.Context, stage observability.Stage, d observability.Descriptor, outcome observability.Outcome, detail string) {
	s.runner.Hooks.OnEvent(ctx, observability.Event{
		RunID:      s.runID,
		Stage:      stage,
		Descriptor: d,
		Outcome:    outcome,
		Detail:     detail,
	})

	kv := []any{"variant", d.String(), "stage", stage, "detail", detail}
	switch outcome {
	case observability.OutcomeOK:
		s.runner.Logger.Debug(string(stage), kv...)
	case observability.OutcomeFailed:
		s.runner.Logger.Error(string(stage), kv...)
	default:
		s.runner.Logger.Warn(string(stage)+" "+string(outcome), kv...)
	}
}
