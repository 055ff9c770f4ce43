// Package report serializes generation results as JSON.
//
// A report is a flat, stable view of a [pipeline.Result]: every created copy
// with its name and position, every recoverable failure with its code and
// message, and the final row offsets. Parameter values are written in their
// textual form ("11 mm" or an expression).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	kerrors "github.com/aeonclok/keycapgen/pkg/errors"
	"github.com/aeonclok/keycapgen/pkg/pipeline"
)

// Report is the serialized outcome of a run.
type Report struct {
	RunID     string          `json:"run_id"`
	Version   string          `json:"version,omitempty"`
	UnitCM    float64         `json:"unit_cm"`
	Mode      string          `json:"mode"`
	Instances []Instance      `json:"instances"`
	Failures  []Failure       `json:"failures,omitempty"`
	Offsets   map[int]float64 `json:"offsets"`
	Stats     pipeline.Stats  `json:"stats"`
}

// Instance is one created copy. Coordinates are in cm.
type Instance struct {
	Index      int               `json:"index"`
	Name       string            `json:"name"`
	ID         string            `json:"id"`
	Row        int               `json:"row"`
	Width      float64           `json:"width"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Z          float64           `json:"z"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// Failure is one recoverable problem.
type Failure struct {
	Variant int     `json:"variant"`
	Row     int     `json:"row"`
	Width   float64 `json:"width"`
	Stage   string  `json:"stage"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Skipped bool    `json:"skipped,omitempty"`
	Fatal   bool    `json:"fatal,omitempty"`
}

// FromResult builds a report for res, produced with opts.
func FromResult(opts pipeline.Options, res *pipeline.Result, version string) Report {
	r := Report{
		RunID:     res.RunID,
		Version:   version,
		UnitCM:    opts.UnitCM,
		Mode:      string(opts.Mode),
		Instances: make([]Instance, 0, len(res.Instances)),
		Offsets:   res.Offsets,
		Stats:     res.Stats,
	}
	for _, inst := range res.Instances {
		params := make(map[string]string, len(inst.Parameters))
		for name, v := range inst.Parameters {
			params[name] = v.String()
		}
		r.Instances = append(r.Instances, Instance{
			Index:      inst.Index,
			Name:       inst.Name,
			ID:         inst.ID,
			Row:        inst.Row,
			Width:      inst.Width,
			X:          inst.Position.X,
			Y:          inst.Position.Y,
			Z:          inst.Position.Z,
			Parameters: params,
		})
	}
	for _, f := range res.Failures {
		msg := ""
		if f.Err != nil {
			msg = kerrors.UserMessage(f.Err)
		}
		r.Failures = append(r.Failures, Failure{
			Variant: f.Descriptor.Position,
			Row:     f.Descriptor.Row,
			Width:   f.Descriptor.Width,
			Stage:   string(f.Stage),
			Code:    string(f.Code),
			Message: msg,
			Skipped: f.Skipped,
			Fatal:   f.Fatal,
		})
	}
	return r
}

// WriteFile writes a report to a JSON file.
func WriteFile(r Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(r, f)
}

// Write writes a report as indented JSON to w.
func Write(r Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a report from r.
func Read(r io.Reader) (Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, fmt.Errorf("decode: %w", err)
	}
	return rep, nil
}

// ReadFile reads a report from a JSON file.
func ReadFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	rep, err := Read(f)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", path, err)
	}
	return rep, nil
}
