package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go-linkedin-applicants/internal/analytics"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load applicant CSV files into a table and optionally export Parquet",
	RunE:  runLoad,
}

var (
	loadGlob    string
	loadParquet string
)

func init() {
	loadCmd.Flags().StringVarP(&loadGlob, "glob", "g", "*.csv", "Glob of CSV files to load")
	loadCmd.Flags().StringVarP(&loadParquet, "parquet", "p", "", "Write the applicants table to this Parquet file")

	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	l, err := analytics.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open analytics db: %w", err)
	}
	defer l.Close()

	if _, err := l.LoadGlob(ctx, loadGlob); err != nil {
		return err
	}
	if err := report(cmd, l, cmd.OutOrStdout()); err != nil {
		return err
	}

	if loadParquet != "" {
		if _, err := l.ExportParquet(ctx, loadParquet); err != nil {
			return err
		}
	}
	return nil
}

// report prints the describe / count / null-check overview.
func report(cmd *cobra.Command, l *analytics.Loader, out io.Writer) error {
	ctx := cmd.Context()

	cols, err := l.Describe(ctx)
	if err != nil {
		return err
	}
	nulls, err := l.NullCounts(ctx)
	if err != nil {
		return err
	}
	count, err := l.Count(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "column\ttype\tnulls")
	for i, c := range cols {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Name, c.Type, nulls[i].Nulls)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nrows: %d\n", count)
	return nil
}
