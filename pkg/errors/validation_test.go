package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateWidth(t *testing.T) {
	tests := []struct {
		width   float64
		wantErr bool
	}{
		{1, false},
		{1.25, false},
		{0.01, false},
		{0, true},
		{-1, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}

	for _, tt := range tests {
		err := ValidateWidth(tt.width)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateWidth(%v) error = %v, wantErr %v", tt.width, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateWidth(%v) code = %v, want %v", tt.width, GetCode(err), ErrCodeInvalidInput)
		}
	}
}

func TestValidateUnitSpacing(t *testing.T) {
	if err := ValidateUnitSpacing(1.9); err != nil {
		t.Errorf("ValidateUnitSpacing(1.9) = %v, want nil", err)
	}
	for _, cm := range []float64{0, -1.9, math.NaN(), math.Inf(-1)} {
		if err := ValidateUnitSpacing(cm); err == nil {
			t.Errorf("ValidateUnitSpacing(%v) = nil, want error", cm)
		}
	}
}

func TestValidateNamePrefix(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantErr bool
	}{
		{"simple", "keycap", false},
		{"with underscore", "cap_set", false},
		{"empty", "", true},
		{"space", "key cap", true},
		{"slash", "key/cap", true},
		{"backslash", `key\cap`, true},
		{"control", "key\x00cap", true},
		{"too long", strings.Repeat("k", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNamePrefix(tt.prefix)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNamePrefix(%q) error = %v, wantErr %v", tt.prefix, err, tt.wantErr)
			}
		})
	}
}
