package pipeline

import (
	"testing"

	kerrors "github.com/aeonclok/keycapgen/pkg/errors"
	"github.com/aeonclok/keycapgen/pkg/layout"
	"github.com/aeonclok/keycapgen/pkg/naming"
	"github.com/aeonclok/keycapgen/pkg/profile"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    MissingParameterPolicy
		wantErr bool
	}{
		{"", WarnOnMissingParameter, false},
		{"warn", WarnOnMissingParameter, false},
		{"abort", AbortOnMissingParameter, false},
		{"ignore", "", true},
		{"WARN", "", true}, // case-sensitive
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, %v; want %q, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Variants: []Variant{{Row: 1, Width: 1}}}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.UnitCM != layout.DefaultUnitCM {
		t.Errorf("UnitCM = %v, want %v", opts.UnitCM, layout.DefaultUnitCM)
	}
	if opts.Mode != layout.TwoPhase {
		t.Errorf("Mode = %q, want %q", opts.Mode, layout.TwoPhase)
	}
	if opts.OnMissing != WarnOnMissingParameter {
		t.Errorf("OnMissing = %q, want %q", opts.OnMissing, WarnOnMissingParameter)
	}
	if opts.NamePrefix != naming.DefaultPrefix {
		t.Errorf("NamePrefix = %q, want %q", opts.NamePrefix, naming.DefaultPrefix)
	}
	want := ParameterNames{Width: "uWidth", Height: "height", Angle: "topAngle", WidthUnit: "mm"}
	if opts.Parameters != want {
		t.Errorf("Parameters = %+v, want %+v", opts.Parameters, want)
	}
	if len(opts.Profiles) != len(profile.DefaultTable()) {
		t.Errorf("Profiles has %d rows, want the default table", len(opts.Profiles))
	}
}

func TestOptionsKeepExplicitValues(t *testing.T) {
	opts := Options{
		Variants:   []Variant{{Row: 1, Width: 1}},
		UnitCM:     1.8,
		Mode:       layout.SinglePhase,
		OnMissing:  AbortOnMissingParameter,
		NamePrefix: "cap",
		Parameters: ParameterNames{Height: "keyHeight"},
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.UnitCM != 1.8 || opts.Mode != layout.SinglePhase || opts.OnMissing != AbortOnMissingParameter {
		t.Errorf("explicit values overwritten: %+v", opts)
	}
	if opts.Parameters.Height != "keyHeight" || opts.Parameters.Width != DefaultWidthParameter {
		t.Errorf("Parameters = %+v", opts.Parameters)
	}
}

func TestOptionsValidation(t *testing.T) {
	one := []Variant{{Row: 1, Width: 1}}
	tests := []struct {
		name string
		opts Options
	}{
		{"no variants", Options{}},
		{"zero width", Options{Variants: []Variant{{Row: 1, Width: 1}, {Row: 2, Width: 0}}}},
		{"negative width", Options{Variants: []Variant{{Row: 1, Width: -1}}}},
		{"negative unit", Options{Variants: one, UnitCM: -1.9}},
		{"bad mode", Options{Variants: one, Mode: "diagonal"}},
		{"bad policy", Options{Variants: one, OnMissing: "ignore"}},
		{"bad width unit", Options{Variants: one, Parameters: ParameterNames{WidthUnit: "furlong"}}},
		{"angle width unit", Options{Variants: one, Parameters: ParameterNames{WidthUnit: "deg"}}},
		{"bad prefix", Options{Variants: one, NamePrefix: "key cap"}},
		{"negative first index", Options{Variants: one, FirstIndex: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !kerrors.Is(err, kerrors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", kerrors.GetCode(err), kerrors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestOptionsIdempotent(t *testing.T) {
	opts := Options{Variants: []Variant{{Row: 1, Width: 1}}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.Parameters
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Parameters != first {
		t.Error("second call changed the options")
	}
}

func TestOptionsItems(t *testing.T) {
	opts := Options{Variants: []Variant{{Row: 1, Width: 1}, {Row: 2, Width: 1.5}}}
	items := opts.Items()
	if len(items) != 2 || items[1] != (layout.Item{Row: 2, Width: 1.5}) {
		t.Errorf("Items() = %+v", items)
	}
}
