package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aglabx/OantigenMiner/internal/genome"
	"github.com/aglabx/OantigenMiner/internal/gff"
	"github.com/aglabx/OantigenMiner/internal/ledger"
	"github.com/aglabx/OantigenMiner/internal/pipeline"
	"github.com/aglabx/OantigenMiner/internal/restorelog"
)

type cutOptions struct {
	genomePath    string
	gffPath       string
	output        string
	annotationOut string
	ledgerPath    string
	runID         string
}

func newCutCmd() *cobra.Command {
	var opts cutOptions

	cmd := &cobra.Command{
		Use:   "cut <genome.fna> <annotation.gff>",
		Short: "Remove insertion sequences from a genome",
		Long: `Remove every insertion_sequence feature of the annotation from the genome.

Writes the transposon-free FASTA to --output and one restore log per sequence
to <output>_<seq_id>.rebuild.csv. Each sequence is rebuilt in memory and
compared with the input before anything is written.`,
		Example: `  oantigenminer cut genome.fna transposons.gff -o clean.fna
  oantigenminer cut genome.fna annot.gff -o clean.fna --annotation-out clean.gff
  oantigenminer cut genome.fna annot.gff -o clean.fna --ledger runs.duckdb`,
		Args: argsWithUsage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.genomePath, opts.gffPath = args[0], args[1]
			if opts.output == "" {
				return &usageError{fmt.Errorf("--output is required")}
			}
			return runCut(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Transposon-free FASTA output")
	cmd.Flags().StringVar(&opts.annotationOut, "annotation-out", "", "Write the remaining annotation in cleaned coordinates")
	cmd.Flags().StringVar(&opts.ledgerPath, "ledger", "", "Also store restore logs in this DuckDB ledger")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Ledger run identifier (default: output file name)")

	return cmd
}

func runCut(cmd *cobra.Command, opts cutOptions) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	records, err := genome.Load(opts.genomePath)
	if err != nil {
		return err
	}
	annotation, err := gff.NewReader(opts.gffPath).Load()
	if err != nil {
		return err
	}
	warnUnknownSequences(logger, records, annotation)

	splicer := pipeline.NewSplicer()
	splicer.SetLogger(logger)

	results, err := splicer.CutAll(records, annotation, opts.annotationOut != "", viper.GetInt("workers"))
	if err != nil {
		return err
	}

	cleaned := make([]*genome.Record, len(results))
	for i, res := range results {
		cleaned[i] = res.Cleaned
	}
	if err := genome.WriteFile(opts.output, cleaned, viper.GetInt("fasta.line_width")); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), opts.output)

	for _, res := range results {
		path := restorelog.FileName(opts.output, res.Cleaned.ID)
		if err := restorelog.WriteFile(path, res.Log); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}

	if opts.annotationOut != "" {
		tables := make([]*gff.Table, len(results))
		dropped := 0
		for i, res := range results {
			tables[i] = res.Features
			dropped += res.FeaturesDropped
		}
		if err := gff.WriteFile(opts.annotationOut, gff.Concat(tables...)); err != nil {
			return err
		}
		logger.Info("wrote cleaned annotation",
			zap.String("path", opts.annotationOut),
			zap.Int("dropped", dropped))
		fmt.Fprintln(cmd.OutOrStdout(), opts.annotationOut)
	}

	if opts.ledgerPath != "" {
		runID := opts.runID
		if runID == "" {
			runID = defaultRunID(opts.output)
		}
		if err := recordRuns(cmd.Context(), opts.ledgerPath, runID, opts.genomePath, records, results); err != nil {
			return err
		}
		logger.Info("stored restore logs", zap.String("ledger", opts.ledgerPath), zap.String("run_id", runID))
	}

	return nil
}

func recordRuns(ctx context.Context, path, runID, genomePath string, records []*genome.Record, results []*pipeline.CutResult) error {
	if ctx == nil {
		ctx = context.Background()
	}

	source, err := ledger.SourceOf(genomePath)
	if err != nil {
		return err
	}

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	for i, res := range results {
		run := ledger.Run{
			RunID:       runID,
			SeqID:       res.Cleaned.ID,
			Source:      source,
			OriginalLen: records[i].Len(),
			CleanedLen:  res.Cleaned.Len(),
		}
		if err := store.WriteRun(ctx, run, res.Log); err != nil {
			return fmt.Errorf("store run %s/%s: %w", runID, res.Cleaned.ID, err)
		}
	}
	return nil
}

// warnUnknownSequences reports insertion rows whose sequence is not in the genome.
func warnUnknownSequences(logger *zap.Logger, records []*genome.Record, annotation *gff.Table) {
	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.ID] = true
	}
	missing := make(map[string]int)
	for _, f := range annotation.Features() {
		if f.IsInsertion() && !known[f.SeqID] {
			missing[f.SeqID]++
		}
	}
	for id, n := range missing {
		logger.Warn("insertion sequences on unknown sequence", zap.String("seq_id", id), zap.Int("count", n))
	}
}

// defaultRunID names a ledger run after the cleaned FASTA file.
func defaultRunID(cleanedPath string) string {
	return filepath.Base(cleanedPath)
}
