package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aeonclok/keycapgen/pkg/report"
)

// inspectCommand creates the inspect command, which prints a report written
// by generate -o.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <report.json>",
		Short: "Show a saved generation report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *CLI) runInspect(out io.Writer, path string) error {
	rep, err := report.ReadFile(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("read report", "path", path, "run", rep.RunID, "instances", len(rep.Instances))

	fmt.Fprintln(out, StyleTitle.Render("Run "+rep.RunID))
	printKeyValue(out, "version", valueOr(rep.Version, "unknown"))
	printKeyValue(out, "mode", rep.Mode)
	printKeyValue(out, "unit", formatFloat(rep.UnitCM)+" cm")
	printKeyValue(out, "created", fmt.Sprintf("%d of %d", rep.Stats.Created, rep.Stats.Variants))
	printKeyValue(out, "duration", (rep.Stats.GenerateTime + rep.Stats.PlaceTime).Round(time.Millisecond).String())

	if len(rep.Instances) > 0 {
		fmt.Fprintln(out, reportInstanceTable(rep.Instances))
	}
	if len(rep.Failures) > 0 {
		printWarning(out, "%d warnings, %d skipped", rep.Stats.Warnings, rep.Stats.Skipped)
		fmt.Fprintln(out, reportFailureTable(rep.Failures))
	}
	if len(rep.Offsets) > 0 {
		t := newTable("Row", "Packed U")
		for _, row := range sortedRows(rep.Offsets) {
			t.Row(strconv.Itoa(row), formatFloat(rep.Offsets[row]))
		}
		fmt.Fprintln(out, t.Render())
	}
	return nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// reportInstanceTable renders the copies of a saved report.
func reportInstanceTable(insts []report.Instance) string {
	t := newTable("#", "Name", "Row", "Width", "x cm", "y cm", "Parameters")
	for _, inst := range insts {
		t.Row(
			strconv.Itoa(inst.Index),
			inst.Name,
			strconv.Itoa(inst.Row),
			formatFloat(inst.Width),
			formatCM(inst.X),
			formatCM(inst.Y),
			joinParameters(inst.Parameters),
		)
	}
	return t.Render()
}

func joinParameters(params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + params[name]
	}
	return strings.Join(parts, ", ")
}

// reportFailureTable renders the failures of a saved report. Skipped variants
// and the failure that ended the run are highlighted.
func reportFailureTable(failures []report.Failure) string {
	t := newTable("Variant", "Stage", "Code", "Problem")
	for _, f := range failures {
		variant := fmt.Sprintf("#%d r%d w%.2f", f.Variant, f.Row, f.Width)
		t.Row(variant, f.Stage, f.Code, f.Message)
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
