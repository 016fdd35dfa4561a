package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aglabx/OantigenMiner/internal/ledger"
)

func newRunsCmd() *cobra.Command {
	var ledgerPath string

	cmd := &cobra.Command{
		Use:     "runs",
		Short:   "List cut runs stored in a ledger",
		Example: `  oantigenminer runs --ledger runs.duckdb`,
		Args:    argsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ledgerPath == "" {
				return &usageError{fmt.Errorf("--ledger is required")}
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			store, err := ledger.Open(ledgerPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSEQUENCE\tORIGINAL\tCLEANED\tINSERTIONS\tSOURCE\tCREATED")
			for _, r := range runs {
				state := r.Source.Path
				if r.Source.Changed() {
					state += " (changed)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					r.RunID, r.SeqID, r.OriginalLen, r.CleanedLen, r.Records,
					state, r.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "DuckDB ledger written by cut --ledger (required)")

	return cmd
}
