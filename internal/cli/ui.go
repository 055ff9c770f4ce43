package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aeonclok/keycapgen/pkg/layout"
	"github.com/aeonclok/keycapgen/pkg/pipeline"
	"github.com/aeonclok/keycapgen/pkg/profile"
	"github.com/aeonclok/keycapgen/pkg/template"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
	styleSkipped = lipgloss.NewStyle().Foreground(colorRed)
)

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader.Padding(0, 1)
			}
			return styleCell
		})
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatCM(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// instanceTable renders the created copies.
func instanceTable(insts []pipeline.Instance, names pipeline.ParameterNames) string {
	t := newTable("#", "Name", "Row", "Width", "x cm", "y cm", "Height", "Angle")
	for _, inst := range insts {
		t.Row(
			strconv.Itoa(inst.Index),
			inst.Name,
			strconv.Itoa(inst.Row),
			formatFloat(inst.Width),
			formatCM(inst.Position.X),
			formatCM(inst.Position.Y),
			appliedValue(inst, names.Height),
			appliedValue(inst, names.Angle),
		)
	}
	return t.Render()
}

// appliedValue finds the value applied to the parameter matching prefix.
func appliedValue(inst pipeline.Instance, prefix string) string {
	names := make([]string, 0, len(inst.Parameters))
	for name := range inst.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
			return inst.Parameters[name].String()
		}
	}
	return "—"
}

// failureTable renders run failures. Skipped variants and the failure that
// ended the run are highlighted.
func failureTable(failures []pipeline.Failure) string {
	t := newTable("Variant", "Stage", "Code", "Problem")
	for _, f := range failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		t.Row(f.Descriptor.String(), string(f.Stage), string(f.Code), msg)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == headerRow {
			return styleHeader.Padding(0, 1)
		}
		if row < len(failures) && (failures[row].Skipped || failures[row].Fatal) {
			return styleSkipped.Padding(0, 1)
		}
		return styleCell
	})
	return t.Render()
}

// planTable renders planned grid positions.
func planTable(blocks []layout.Block, at []template.Transform) string {
	t := newTable("Variant", "Row", "Width", "Left U", "Right U", "x cm", "y cm")
	for i, b := range blocks {
		t.Row(
			strconv.Itoa(i),
			strconv.Itoa(b.Row),
			formatFloat(b.Width()),
			formatFloat(b.Left),
			formatFloat(b.Right),
			formatCM(at[i].Translation.X),
			formatCM(at[i].Translation.Y),
		)
	}
	return t.Render()
}

// rowsTable renders a profile table. Rows in overridden are marked as coming
// from the job file.
func rowsTable(profiles profile.Table, overridden map[int]bool) string {
	t := newTable("Row", "Height", "Angle", "Source")
	for _, row := range profiles.Rows() {
		p, _ := profiles.Lookup(row)
		source := "default"
		if overridden[row] {
			source = "job"
		}
		t.Row(strconv.Itoa(row), p.Height.String(), p.Angle.String(), source)
	}
	d := profile.DefaultProfile
	t.Row("other", d.Height.String(), d.Angle.String(), "fallback")
	return t.Render()
}
