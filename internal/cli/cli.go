// Package cli implements the keycapgen command-line interface.
//
// # Commands
//
//   - generate: run a job against the in-memory template registry
//   - plan: compute grid positions without generating anything
//   - rows: show the effective row profile table
//   - inspect: show a report saved by generate -o
//   - completion: generate shell completion scripts
//
// Every command takes an optional job file (TOML, see package config);
// without one the built-in four-keycap demo job is used.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes one line per generation event.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aeonclok/keycapgen/pkg/buildinfo"
	"github.com/aeonclok/keycapgen/pkg/config"
	"github.com/aeonclok/keycapgen/pkg/layout"
	"github.com/aeonclok/keycapgen/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "keycapgen",
		Short:        "keycapgen generates keycap variants from a parametric master",
		Long:         `keycapgen drives a parametric master template through a list of row/width variants, copies the master once per variant and lays the copies out on a non-overlapping grid.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.rowsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Job Loading
// =============================================================================

// loadJob reads the job file named by args, or returns the demo job.
func loadJob(args []string) (*config.Job, error) {
	if len(args) == 0 {
		return config.Default(), nil
	}
	return config.Load(args[0])
}

// runFlags are the command-line overrides of job file settings.
type runFlags struct {
	unitCM    float64
	mode      string
	onMissing string
	prefix    string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.unitCM, "unit", 0, "grid unit in cm (default: job file or 1.9)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "layout mode: two-phase (default), single-phase")
	cmd.Flags().StringVar(&f.onMissing, "on-missing", "", "missing parameter policy: warn (default), abort")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "name prefix for generated copies")
}

// apply overrides opts with every flag that was set.
func (f *runFlags) apply(opts *pipeline.Options) {
	if f.unitCM != 0 {
		opts.UnitCM = f.unitCM
	}
	if f.mode != "" {
		opts.Mode = layout.Mode(f.mode)
	}
	if f.onMissing != "" {
		opts.OnMissing = pipeline.MissingParameterPolicy(f.onMissing)
	}
	if f.prefix != "" {
		opts.NamePrefix = f.prefix
	}
}
