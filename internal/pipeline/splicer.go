// Package pipeline runs the splice core end to end for each genome record.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aglabx/OantigenMiner/internal/genome"
	"github.com/aglabx/OantigenMiner/internal/gff"
	"github.com/aglabx/OantigenMiner/internal/operon"
	"github.com/aglabx/OantigenMiner/internal/splice"
)

// CleanedSuffix is appended to the description of cut records.
const CleanedSuffix = "transposon free"

// Splicer cuts insertion sequences from genome records and rebuilds them.
type Splicer struct {
	logger *zap.Logger
}

// NewSplicer creates a splicer that logs nothing.
func NewSplicer() *Splicer {
	return &Splicer{logger: zap.NewNop()}
}

// SetLogger sets the logger for warning and info messages.
func (s *Splicer) SetLogger(l *zap.Logger) {
	s.logger = l
}

// CutResult holds the outcome of cutting one record.
type CutResult struct {
	Cleaned *genome.Record
	Log     splice.RestoreLog
	// Features is the annotation moved to cleaned coordinates; nil when no annotation was given.
	Features *gff.Table

	Clamped         int
	Dropped         int
	FeaturesDropped int
}

// Cut excises the insertion_sequence rows of annotation that belong to rec,
// checks that the excision can be undone, and remaps the remaining rows of
// rec when remap is true. rec is never modified.
func (s *Splicer) Cut(rec *genome.Record, annotation *gff.Table, remap bool) (*CutResult, error) {
	contig := annotation.Filter(func(f *gff.Feature) bool { return f.SeqID == rec.ID })
	intervals := Intervals(contig)

	ex, err := splice.Excise(rec.Seq, intervals)
	if err != nil {
		return nil, fmt.Errorf("excise %s: %w", rec.ID, err)
	}
	if ex.Clamped > 0 || ex.Dropped > 0 {
		s.logger.Warn("overlapping insertion sequences",
			zap.String("seq_id", rec.ID),
			zap.Int("clamped", ex.Clamped),
			zap.Int("dropped", ex.Dropped))
	}

	rebuilt, err := splice.Rebuild(ex.Cleaned, ex.Log)
	if err != nil {
		return nil, fmt.Errorf("rebuild %s: %w", rec.ID, err)
	}
	if err := splice.Verify(rec.Seq, rebuilt, ex.Log); err != nil {
		return nil, fmt.Errorf("verify %s: %w", rec.ID, err)
	}

	res := &CutResult{
		Cleaned: &genome.Record{
			ID:   rec.ID,
			Desc: cleanedDesc(rec.Desc),
			Seq:  ex.Cleaned,
		},
		Log:     ex.Log,
		Clamped: ex.Clamped,
		Dropped: ex.Dropped,
	}

	if remap {
		m, err := splice.NewRemapper(ex.Log, len(ex.Cleaned))
		if err != nil {
			return nil, fmt.Errorf("remap %s: %w", rec.ID, err)
		}
		res.Features, res.FeaturesDropped, err = m.ToCleaned(contig)
		if err != nil {
			return nil, fmt.Errorf("remap %s: %w", rec.ID, err)
		}
	}

	s.logger.Info("cut sequence",
		zap.String("seq_id", rec.ID),
		zap.Int("insertions", len(ex.Log)),
		zap.Int("original_len", rec.Len()),
		zap.Int("cleaned_len", len(ex.Cleaned)))

	return res, nil
}

// RebuildResult holds the outcome of rebuilding one record.
type RebuildResult struct {
	Sequence   *genome.Record
	Annotation *gff.Table
	Attach     operon.AttachStats
}

// Rebuild reinserts log into cleaned, checks the result against original
// and moves annotation back to original coordinates with the insertion rows
// restored and attached to their operons.
func (s *Splicer) Rebuild(cleaned *genome.Record, log splice.RestoreLog, annotation *gff.Table, original *genome.Record) (*RebuildResult, error) {
	seq, err := splice.Rebuild(cleaned.Seq, log)
	if err != nil {
		return nil, fmt.Errorf("rebuild %s: %w", cleaned.ID, err)
	}
	if err := splice.Verify(original.Seq, seq, log); err != nil {
		return nil, fmt.Errorf("verify %s against %s: %w", cleaned.ID, original.ID, err)
	}

	contig, err := selectContig(annotation, cleaned.ID)
	if err != nil {
		return nil, err
	}

	m, err := splice.NewRemapper(log, len(cleaned.Seq))
	if err != nil {
		return nil, fmt.Errorf("remap %s: %w", cleaned.ID, err)
	}
	reinserted, err := m.Reinsert(contig, cleaned.ID)
	if err != nil {
		return nil, fmt.Errorf("reinsert %s: %w", cleaned.ID, err)
	}

	attached, stats := operon.Attach(reinserted)

	s.logger.Info("rebuilt sequence",
		zap.String("seq_id", cleaned.ID),
		zap.Int("insertions", len(log)),
		zap.Int("features", attached.Len()),
		zap.Int("operon_tagged", stats.Tagged),
		zap.Int("operon_untagged", stats.Untagged))

	return &RebuildResult{
		Sequence:   &genome.Record{ID: original.ID, Desc: original.Desc, Seq: seq},
		Annotation: attached,
		Attach:     stats,
	}, nil
}

// Intervals converts the insertion_sequence rows of t into excision
// intervals sorted by start.
func Intervals(t *gff.Table) []splice.Interval {
	var ivs []splice.Interval
	for _, f := range t.Features() {
		if !f.IsInsertion() {
			continue
		}
		ivs = append(ivs, splice.Interval{
			Start:  f.Start,
			End:    f.End,
			Score:  dotless(f.Score),
			Strand: dotless(f.Strand),
		})
	}
	splice.SortIntervals(ivs)
	return ivs
}

// selectContig picks the rows of seqID. An annotation naming a single
// sequence is taken whole, since annotation tools may rename contigs.
func selectContig(t *gff.Table, seqID string) (*gff.Table, error) {
	ids := t.SeqIDs()
	if len(ids) <= 1 {
		return t, nil
	}
	contig := t.Filter(func(f *gff.Feature) bool { return f.SeqID == seqID })
	if contig.Len() == 0 {
		return nil, fmt.Errorf("annotation has %d sequences, none named %s", len(ids), seqID)
	}
	return contig, nil
}

func cleanedDesc(desc string) string {
	if desc == "" {
		return CleanedSuffix
	}
	return desc + ", " + CleanedSuffix
}

func dotless(s string) string {
	if s == "." {
		return ""
	}
	return s
}
