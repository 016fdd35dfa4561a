package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aglabx/OantigenMiner/internal/genome"
	"github.com/aglabx/OantigenMiner/internal/gff"
	"github.com/aglabx/OantigenMiner/internal/ledger"
	"github.com/aglabx/OantigenMiner/internal/pipeline"
	"github.com/aglabx/OantigenMiner/internal/restorelog"
	"github.com/aglabx/OantigenMiner/internal/splice"
)

type rebuildOptions struct {
	cleanedPath    string
	restorePath    string
	gffPath        string
	validationPath string
	output         string
	fastaOut       string
	ledgerPath     string
	runID          string
}

func newRebuildCmd() *cobra.Command {
	var opts rebuildOptions

	cmd := &cobra.Command{
		Use:   "rebuild <clean.fna> [restore.csv]",
		Short: "Reinsert cut sequences and restore the annotation",
		Long: `Rebuild the original genome from a transposon-free sequence and its restore
log, check it against the validation genome base by base, and write the
annotation in original coordinates with the insertion sequences restored and
attached to their operons.

The restore log is read from the CSV argument, or from a ledger written by
"cut --ledger" when --ledger and --run-id are given instead.`,
		Example: `  oantigenminer rebuild clean.fna clean.fna_NC_000913.rebuild.csv \
      --gff clean.gff --validation genome.fna -o rebuilt.gff
  oantigenminer rebuild clean.fna --ledger runs.duckdb --run-id clean.fna \
      --gff clean.gff --validation genome.fna -o rebuilt.gff --fasta-out rebuilt.fna`,
		Args: argsWithUsage(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.cleanedPath = args[0]
			if len(args) == 2 {
				opts.restorePath = args[1]
			}
			if err := opts.check(); err != nil {
				return &usageError{err}
			}
			return runRebuild(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.gffPath, "gff", "", "Annotation of the transposon-free sequence (required)")
	cmd.Flags().StringVar(&opts.validationPath, "validation", "", "Original genome to check the rebuild against (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Annotation output in original coordinates (required)")
	cmd.Flags().StringVar(&opts.fastaOut, "fasta-out", "", "Also write the rebuilt sequence")
	cmd.Flags().StringVar(&opts.ledgerPath, "ledger", "", "Read the restore log from this DuckDB ledger")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Ledger run identifier (default: clean.fna file name)")

	return cmd
}

func (o *rebuildOptions) check() error {
	switch {
	case o.gffPath == "":
		return fmt.Errorf("--gff is required")
	case o.validationPath == "":
		return fmt.Errorf("--validation is required")
	case o.output == "":
		return fmt.Errorf("--output is required")
	case o.restorePath == "" && o.ledgerPath == "":
		return fmt.Errorf("a restore log file or --ledger is required")
	case o.restorePath != "" && o.ledgerPath != "":
		return fmt.Errorf("give either a restore log file or --ledger, not both")
	}
	return nil
}

func runRebuild(cmd *cobra.Command, opts rebuildOptions) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cleaned, err := genome.LoadOne(opts.cleanedPath)
	if err != nil {
		return err
	}
	original, err := genome.LoadOne(opts.validationPath)
	if err != nil {
		return err
	}
	annotation, err := gff.NewReader(opts.gffPath).Load()
	if err != nil {
		return err
	}

	log, err := loadRestoreLog(cmd.Context(), logger, opts, cleaned.ID)
	if err != nil {
		return err
	}

	splicer := pipeline.NewSplicer()
	splicer.SetLogger(logger)

	res, err := splicer.Rebuild(cleaned, log, annotation, original)
	if err != nil {
		return err
	}

	if err := gff.WriteFile(opts.output, res.Annotation); err != nil {
		return err
	}
	if opts.fastaOut != "" {
		if err := genome.WriteFile(opts.fastaOut, []*genome.Record{res.Sequence}, viper.GetInt("fasta.line_width")); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Rebuild successful!")
	return nil
}

func loadRestoreLog(ctx context.Context, logger *zap.Logger, opts rebuildOptions, seqID string) (splice.RestoreLog, error) {
	if opts.ledgerPath == "" {
		return restorelog.ReadFile(opts.restorePath)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	runID := opts.runID
	if runID == "" {
		runID = defaultRunID(opts.cleanedPath)
	}

	store, err := ledger.Open(opts.ledgerPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	run, err := store.LookupRun(ctx, runID, seqID)
	if err != nil {
		return nil, err
	}
	if run.Source.Changed() {
		logger.Warn("genome changed since it was cut",
			zap.String("path", run.Source.Path),
			zap.String("run_id", runID))
	}
	return store.LookupRestoreLog(ctx, runID, seqID)
}
