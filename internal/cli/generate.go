package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aeonclok/keycapgen/pkg/buildinfo"
	"github.com/aeonclok/keycapgen/pkg/pipeline"
	"github.com/aeonclok/keycapgen/pkg/report"
	"github.com/aeonclok/keycapgen/pkg/template/memory"
)

// generateCommand creates the generate command, which runs a job against the
// in-memory template registry.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags  runFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate [job.toml]",
		Short: "Generate keycap copies from a job file",
		Long: `Generate keycap copies from a job file.

The master template is built from the job's [template] section. Every variant
sets the width, height and angle parameters on the master, recomputes it and
copies it; the copies are then laid out row by row on a grid of --unit cm.

Without a job file the built-in demo job (four keycaps in rows 1 and 2) is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a JSON report to this file")

	return cmd
}

// runGenerate loads the job, runs it and prints the result.
func (c *CLI) runGenerate(ctx context.Context, out, errOut io.Writer, args []string, flags runFlags, output string) error {
	job, err := loadJob(args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		printInfo(out, "No job file given, using the demo job")
	}

	reg, err := memory.New(job.TemplateParameters())
	if err != nil {
		return fmt.Errorf("build template: %w", err)
	}
	defer reg.Close()

	opts := job.Options()
	flags.apply(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, errOut, len(opts.Variants))
	spinner.Start()

	res, err := pipeline.NewRunner(c.Logger, spinner).Execute(ctx, reg, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		if res != nil && output != "" {
			if werr := report.WriteFile(report.FromResult(opts, res, buildinfo.Version), output); werr != nil {
				c.Logger.Error("write partial report", "path", output, "error", werr)
			} else {
				printFile(out, output)
			}
		}
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Generated %d keycaps", res.Stats.Created))

	printSuccess(out, "Generated %d of %d variants", res.Stats.Created, res.Stats.Variants)
	fmt.Fprintln(out, instanceTable(res.Instances, opts.Parameters))
	if len(res.Failures) > 0 {
		printWarning(out, "%d warnings, %d skipped", res.Stats.Warnings, res.Stats.Skipped)
		fmt.Fprintln(out, failureTable(res.Failures))
	}
	printKeyValue(out, "run", res.RunID)
	printKeyValue(out, "mode", string(opts.Mode))

	if output != "" {
		if err := report.WriteFile(report.FromResult(opts, res, buildinfo.Version), output); err != nil {
			return fmt.Errorf("write report %s: %w", output, err)
		}
		printFile(out, output)
	}
	return nil
}
