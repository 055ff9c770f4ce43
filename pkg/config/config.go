// Package config loads keycapgen job files.
//
// A job is a TOML document holding the run options, the variant list, row
// profile overrides and, for the in-memory registry, the master template's
// parameters:
//
//	unit_cm = 1.9
//	mode = "two-phase"
//
//	[[variants]]
//	row = 1
//	width = 1.25
//
//	[rows.1]
//	height = { value = 11, unit = "mm" }
//	angle = { expr = "row1Angle" }
//
//	[template]
//	uWidth = { value = 1, unit = "mm" }
//
// Values are written either as a literal table (value, unit) or as an
// expression table (expr). Parameters under [template] keep their document
// order, which decides prefix resolution.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"

	kerrors "github.com/aeonclok/keycapgen/pkg/errors"
	"github.com/aeonclok/keycapgen/pkg/layout"
	"github.com/aeonclok/keycapgen/pkg/pipeline"
	"github.com/aeonclok/keycapgen/pkg/profile"
	"github.com/aeonclok/keycapgen/pkg/template"
	"github.com/aeonclok/keycapgen/pkg/units"
)

// ValueEntry is a parameter value as written in a job file.
type ValueEntry struct {
	Number *float64 `toml:"value"`
	Unit   string   `toml:"unit"`
	Expr   string   `toml:"expr"`
}

// Value converts the entry to a tagged value.
func (s ValueEntry) Value() (units.Value, error) {
	if s.Unit != "" && !units.Known(s.Unit) {
		return units.Value{}, fmt.Errorf("unknown unit %q", s.Unit)
	}
	switch {
	case s.Number != nil && s.Expr != "":
		return units.Value{}, fmt.Errorf("both value and expr given")
	case s.Expr != "":
		return units.Expr(s.Expr), nil
	case s.Number != nil:
		return units.Lit(*s.Number, s.Unit), nil
	}
	return units.Value{}, fmt.Errorf("one of value or expr is required")
}

// Parameter converts the entry to a master parameter. The unit of an
// expression entry becomes the parameter's unit.
func (s ValueEntry) Parameter(name string) (template.Parameter, error) {
	v, err := s.Value()
	if err != nil {
		return template.Parameter{}, err
	}
	p := template.Parameter{Name: name, Value: v}
	if s.Expr != "" {
		p.Unit = s.Unit
	}
	return p, nil
}

// RowEntry overrides the profile of one row. Omitted fields keep the value
// from the default table, or the default profile for rows it lacks.
type RowEntry struct {
	Height *ValueEntry `toml:"height"`
	Angle  *ValueEntry `toml:"angle"`
}

// Job is a parsed job file.
type Job struct {
	UnitCM           float64                 `toml:"unit_cm"`
	Mode             string                  `toml:"mode"`
	MissingParameter string                  `toml:"missing_parameter"`
	NamePrefix       string                  `toml:"name_prefix"`
	FirstIndex       int                     `toml:"first_index"`
	Parameters       pipeline.ParameterNames `toml:"parameters"`
	Variants         []pipeline.Variant      `toml:"variants"`
	Rows             map[string]RowEntry     `toml:"rows"`
	Template         map[string]ValueEntry   `toml:"template"`

	profiles profile.Table
	params   []template.Parameter
}

// Load reads and parses the job file at path.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "read job file")
	}
	job, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// Parse decodes and validates a job document.
func Parse(data []byte) (*Job, error) {
	var job Job
	md, err := toml.Decode(string(data), &job)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "decode job")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, kerrors.New(kerrors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	if err := job.validate(); err != nil {
		return nil, err
	}
	if err := job.buildProfiles(); err != nil {
		return nil, err
	}
	if err := job.buildTemplate(md); err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *Job) validate() error {
	if j.UnitCM < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "unit_cm must be positive, got %v", j.UnitCM)
	}
	if _, err := layout.ParseMode(j.Mode); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "mode")
	}
	if _, err := pipeline.ParsePolicy(j.MissingParameter); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "missing_parameter")
	}
	if u := j.Parameters.WidthUnit; u != "" && (!units.Known(u) || units.DimensionOf(u) != units.Length) {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "parameters.width_unit: %q is not a length unit", u)
	}
	for i, v := range j.Variants {
		if err := kerrors.ValidateWidth(v.Width); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "variants[%d]", i)
		}
	}
	return nil
}

// buildProfiles layers the [rows] overrides on the default table.
func (j *Job) buildProfiles() error {
	if len(j.Rows) == 0 {
		return nil
	}
	keys := make([]string, 0, len(j.Rows))
	for key := range j.Rows {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	table := profile.DefaultTable()
	seen := make(map[int]string, len(keys))
	for _, key := range keys {
		row, err := strconv.Atoi(key)
		if err != nil {
			return kerrors.New(kerrors.ErrCodeInvalidConfig, "rows.%s: row must be an integer", key)
		}
		if prev, dup := seen[row]; dup {
			return kerrors.New(kerrors.ErrCodeInvalidConfig, "rows.%s: row %d already set by rows.%s", key, row, prev)
		}
		seen[row] = key

		p, _ := table.Lookup(row)
		entry := j.Rows[key]
		if p.Height, err = rowValue(entry.Height, p.Height); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "rows.%s.height", key)
		}
		if p.Angle, err = rowValue(entry.Angle, p.Angle); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "rows.%s.angle", key)
		}
		table[row] = p
	}
	j.profiles = table
	return nil
}

// rowValue returns the override in e, or def when e is absent. An
// expression is forwarded verbatim, so it cannot carry a unit here.
func rowValue(e *ValueEntry, def units.Value) (units.Value, error) {
	if e == nil {
		return def, nil
	}
	if e.Expr != "" && e.Unit != "" {
		return units.Value{}, fmt.Errorf("unit %q given with expr", e.Unit)
	}
	return e.Value()
}

// buildTemplate converts [template] in document order.
func (j *Job) buildTemplate(md toml.MetaData) error {
	seen := make(map[string]bool, len(j.Template))
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "template" || seen[key[1]] {
			continue
		}
		name := key[1]
		seen[name] = true
		p, err := j.Template[name].Parameter(name)
		if err != nil {
			return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "template.%s", name)
		}
		j.params = append(j.params, p)
	}
	return nil
}

// Options returns the run options described by the job.
func (j *Job) Options() pipeline.Options {
	return pipeline.Options{
		Variants:   append([]pipeline.Variant(nil), j.Variants...),
		Profiles:   j.profiles,
		UnitCM:     j.UnitCM,
		Mode:       layout.Mode(j.Mode),
		OnMissing:  pipeline.MissingParameterPolicy(j.MissingParameter),
		Parameters: j.Parameters,
		NamePrefix: j.NamePrefix,
		FirstIndex: j.FirstIndex,
	}
}

// Profiles returns the effective row profile table.
func (j *Job) Profiles() profile.Table {
	if j.profiles == nil {
		return profile.DefaultTable()
	}
	return j.profiles
}

// TemplateParameters returns the master parameters in document order.
func (j *Job) TemplateParameters() []template.Parameter {
	return append([]template.Parameter(nil), j.params...)
}

// RowKeys returns the rows overridden by the job, sorted.
func (j *Job) RowKeys() []int {
	rows := make([]int, 0, len(j.Rows))
	for key := range j.Rows {
		if row, err := strconv.Atoi(key); err == nil {
			rows = append(rows, row)
		}
	}
	sort.Ints(rows)
	return rows
}

// Default returns the built-in demo job: the four keycaps of the legacy
// script against a master with width, height and angle parameters.
func Default() *Job {
	return &Job{
		Variants: []pipeline.Variant{
			{Row: 1, Width: 1},
			{Row: 1, Width: 1.25},
			{Row: 2, Width: 1},
			{Row: 2, Width: 1.25},
		},
		params: []template.Parameter{
			{Name: "uWidth", Value: units.Lit(1, units.MM)},
			{Name: "height", Value: units.Lit(10, units.MM)},
			{Name: "topAngle", Value: units.Lit(6, units.DEG)},
		},
	}
}
