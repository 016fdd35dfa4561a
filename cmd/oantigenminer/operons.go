package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aglabx/OantigenMiner/internal/gff"
	"github.com/aglabx/OantigenMiner/internal/operon"
)

func newOperonsCmd() *cobra.Command {
	var (
		output     string
		minTargets int
	)

	cmd := &cobra.Command{
		Use:   "operons <annotation.gff> <targets.tsv>",
		Short: "Extract operons holding target genes",
		Long: `Write every operon of the annotation that holds at least --min-targets of
the genes listed in the first column of targets.tsv. Rows without an operon
attribute belong to the last operon above them.`,
		Example: `  oantigenminer operons rebuilt.gff o_antigen_genes.tsv -o operons.gff
  oantigenminer operons rebuilt.gff o_antigen_genes.tsv -o operons.gff --min-targets 3`,
		Args: argsWithUsage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return &usageError{fmt.Errorf("--output is required")}
			}
			if minTargets < 1 {
				return &usageError{fmt.Errorf("--min-targets must be at least 1, got %d", minTargets)}
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			annotation, err := gff.NewReader(args[0]).Load()
			if err != nil {
				return err
			}
			targets, err := operon.LoadTargets(args[1])
			if err != nil {
				return err
			}

			extracted := operon.Extract(annotation, targets, minTargets)
			logger.Info("extracted operons",
				zap.Int("targets", len(targets)),
				zap.Int("rows", extracted.Len()))

			return gff.WriteFile(output, extracted)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "GFF3 output (required)")
	cmd.Flags().IntVar(&minTargets, "min-targets", 1, "Minimum target genes per operon")

	return cmd
}
