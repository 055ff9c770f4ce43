package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aeonclok/keycapgen/pkg/layout"
)

// planCommand creates the plan command, which computes grid positions
// without touching a template.
func (c *CLI) planCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "plan [job.toml]",
		Short: "Show where each variant would be placed",
		Long: `Show where each variant would be placed, assuming every copy succeeds.

Blocks are packed left to right per row in job order; positions are block
centers in cm.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.OutOrStdout(), args, flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func (c *CLI) runPlan(out io.Writer, args []string, flags runFlags) error {
	job, err := loadJob(args)
	if err != nil {
		return err
	}
	opts := job.Options()
	flags.apply(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	blocks, at := layout.Assign(opts.UnitCM, opts.Items())
	c.Logger.Debug("planned layout", "variants", len(blocks), "unit_cm", opts.UnitCM)

	fmt.Fprintln(out, planTable(blocks, at))

	g := layout.NewGrid(opts.UnitCM)
	for _, b := range blocks {
		g.Reserve(b.Row, b.Width())
	}
	offsets := g.Offsets()
	for _, row := range sortedRows(offsets) {
		printKeyValue(out, fmt.Sprintf("row %d", row), fmt.Sprintf("%s U", formatFloat(offsets[row])))
	}
	return nil
}
