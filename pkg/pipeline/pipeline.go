// Package pipeline generates keycap variants from a master template.
//
// This package implements the mutate → recompute → copy loop that turns one
// parametric master into a family of independent copies, and places those
// copies on a grid. It is used by the CLI and can be driven by any host that
// implements [template.Registry].
//
// # Architecture
//
// A run has two stages:
//
//  1. Generate: for each variant in order, look up the row profile, assign
//     width, height and angle to the master, recompute it and ask the host
//     for a copy. Successful copies are named and indexed.
//  2. Place: in two-phase mode, lay out every copy that exists and move it to
//     its final position. In single-phase mode placement already happened
//     during generation.
//
// Variants are processed strictly one at a time; the master is a single
// shared resource and is never observed half-mutated.
//
// # Failures
//
// A missing parameter, a rejected value, an unknown row or a failed copy is
// reported through [observability.Hooks] and recorded in [Result.Failures];
// the run continues with the next step or variant. With
// [AbortOnMissingParameter] a missing parameter ends the run instead. Any
// other error from the host ends the run and is returned with the variant and
// stage it happened in, together with the partial result.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger, nil)
//	opts := pipeline.Options{
//	    Variants: []pipeline.Variant{{Row: 1, Width: 1}, {Row: 1, Width: 1.25}},
//	}
//	result, err := runner.Execute(ctx, registry, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, inst := range result.Instances {
//	    fmt.Println(inst.Name, inst.Position)
//	}
package pipeline

import (
	"fmt"
	"time"

	kerrors "github.com/aeonclok/keycapgen/pkg/errors"
	"github.com/aeonclok/keycapgen/pkg/layout"
	"github.com/aeonclok/keycapgen/pkg/naming"
	"github.com/aeonclok/keycapgen/pkg/observability"
	"github.com/aeonclok/keycapgen/pkg/profile"
	"github.com/aeonclok/keycapgen/pkg/template"
	"github.com/aeonclok/keycapgen/pkg/units"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidthParameter is the prefix of the template's width parameter.
	DefaultWidthParameter = "uWidth"

	// DefaultHeightParameter is the prefix of the template's height parameter.
	DefaultHeightParameter = "height"

	// DefaultAngleParameter is the prefix of the template's top angle parameter.
	DefaultAngleParameter = "topAngle"

	// DefaultWidthUnit is the unit the width literal is written with.
	DefaultWidthUnit = units.MM
)

// MissingParameterPolicy decides what a missing template parameter does to a run.
type MissingParameterPolicy string

const (
	// WarnOnMissingParameter reports the parameter and keeps processing the
	// variant with the remaining parameters.
	WarnOnMissingParameter MissingParameterPolicy = "warn"

	// AbortOnMissingParameter reports the parameter and ends the run.
	AbortOnMissingParameter MissingParameterPolicy = "abort"
)

// ParsePolicy validates a policy name. Empty means WarnOnMissingParameter.
func ParsePolicy(s string) (MissingParameterPolicy, error) {
	switch MissingParameterPolicy(s) {
	case "", WarnOnMissingParameter:
		return WarnOnMissingParameter, nil
	case AbortOnMissingParameter:
		return AbortOnMissingParameter, nil
	}
	return "", fmt.Errorf("invalid missing-parameter policy: %q (must be one of: warn, abort)", s)
}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Variant is one copy to generate: a row and a width in U.
type Variant struct {
	Row   int     `json:"row" toml:"row"`
	Width float64 `json:"width" toml:"width"`
}

// ParameterNames are the name prefixes of the template parameters driven by
// a run.
type ParameterNames struct {
	Width     string `json:"width,omitempty" toml:"width"`
	Height    string `json:"height,omitempty" toml:"height"`
	Angle     string `json:"angle,omitempty" toml:"angle"`
	WidthUnit string `json:"width_unit,omitempty" toml:"width_unit"`
}

// Options contains all configuration for a generation run.
type Options struct {
	Variants   []Variant              `json:"variants"`
	Profiles   profile.Table          `json:"-"`
	UnitCM     float64                `json:"unit_cm,omitempty"`
	Mode       layout.Mode            `json:"mode,omitempty"`
	OnMissing  MissingParameterPolicy `json:"on_missing,omitempty"`
	Parameters ParameterNames         `json:"parameters"`
	NamePrefix string                 `json:"name_prefix,omitempty"`
	FirstIndex int                    `json:"first_index,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Variants) == 0 {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "at least one variant is required")
	}
	for i, v := range o.Variants {
		if err := kerrors.ValidateWidth(v.Width); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "variant %d (row %d)", i, v.Row)
		}
	}

	if o.Profiles == nil {
		o.Profiles = profile.DefaultTable()
	}
	if o.UnitCM == 0 {
		o.UnitCM = layout.DefaultUnitCM
	}
	if err := kerrors.ValidateUnitSpacing(o.UnitCM); err != nil {
		return err
	}

	mode, err := layout.ParseMode(string(o.Mode))
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "layout mode")
	}
	o.Mode = mode

	policy, err := ParsePolicy(string(o.OnMissing))
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "missing-parameter policy")
	}
	o.OnMissing = policy

	o.SetParameterDefaults()
	if u := o.Parameters.WidthUnit; !units.Known(u) || units.DimensionOf(u) != units.Length {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "width unit %q is not a length unit", u)
	}

	if o.NamePrefix == "" {
		o.NamePrefix = naming.DefaultPrefix
	}
	if err := kerrors.ValidateNamePrefix(o.NamePrefix); err != nil {
		return err
	}
	if o.FirstIndex < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "first index must not be negative, got %d", o.FirstIndex)
	}

	o.validated = true
	return nil
}

// SetParameterDefaults fills in unset parameter prefixes.
func (o *Options) SetParameterDefaults() {
	if o.Parameters.Width == "" {
		o.Parameters.Width = DefaultWidthParameter
	}
	if o.Parameters.Height == "" {
		o.Parameters.Height = DefaultHeightParameter
	}
	if o.Parameters.Angle == "" {
		o.Parameters.Angle = DefaultAngleParameter
	}
	if o.Parameters.WidthUnit == "" {
		o.Parameters.WidthUnit = DefaultWidthUnit
	}
}

// Items converts the variants to layout items.
func (o *Options) Items() []layout.Item {
	items := make([]layout.Item, len(o.Variants))
	for i, v := range o.Variants {
		items[i] = layout.Item{Row: v.Row, Width: v.Width}
	}
	return items
}

// =============================================================================
// Result - Run Output
// =============================================================================

// Instance is a copy created by a run.
type Instance struct {
	Index      int                    `json:"index"`
	Name       string                 `json:"name"`
	ID         string                 `json:"id"`
	Variant    int                    `json:"variant"`
	Row        int                    `json:"row"`
	Width      float64                `json:"width"`
	Block      layout.Block           `json:"block"`
	Position   template.Vec3          `json:"position"`
	Parameters map[string]units.Value `json:"-"`
}

// Failure is a problem met while processing a variant.
type Failure struct {
	Descriptor observability.Descriptor `json:"descriptor"`
	Stage      observability.Stage      `json:"stage"`
	Code       kerrors.Code             `json:"code"`
	Err        error                    `json:"-"`

	// Skipped is true when the variant produced no copy.
	Skipped bool `json:"skipped"`

	// Fatal is true for the problem that ended the run.
	Fatal bool `json:"fatal,omitempty"`
}

// Result contains the outputs of a run.
type Result struct {
	// RunID identifies the run in events and reports.
	RunID string `json:"run_id"`

	// Instances lists the created copies in creation order.
	Instances []Instance `json:"instances"`

	// Failures lists problems in the order they happened. Only a missing
	// parameter under AbortOnMissingParameter is recorded as Fatal; host
	// faults are returned as errors.
	Failures []Failure `json:"failures,omitempty"`

	// Offsets is the final packed width of every row, in U.
	Offsets map[int]float64 `json:"offsets"`

	// Stats contains timing and count information.
	Stats Stats `json:"stats"`
}

// Stats contains run statistics.
type Stats struct {
	Variants     int           `json:"variants"`
	Created      int           `json:"created"`
	Skipped      int           `json:"skipped"`
	Warnings     int           `json:"warnings"`
	GenerateTime time.Duration `json:"generate_time"`
	PlaceTime    time.Duration `json:"place_time"`
}
