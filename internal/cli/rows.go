package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

// rowsCommand creates the rows command, which prints the effective row
// profile table of a job.
func (c *CLI) rowsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rows [job.toml]",
		Short: "Show the row profile table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRows(cmd.OutOrStdout(), args)
		},
	}
}

func (c *CLI) runRows(out io.Writer, args []string) error {
	job, err := loadJob(args)
	if err != nil {
		return err
	}
	overridden := make(map[int]bool)
	for _, row := range job.RowKeys() {
		overridden[row] = true
	}
	fmt.Fprintln(out, StyleTitle.Render("Row profiles"))
	fmt.Fprintln(out, rowsTable(job.Profiles(), overridden))
	return nil
}

func sortedRows(m map[int]float64) []int {
	rows := make([]int, 0, len(m))
	for r := range m {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}
