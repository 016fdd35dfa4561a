package splice

import (
	"fmt"
	"sort"

	"github.com/aglabx/OantigenMiner/internal/gff"
)

// InsertionSource is the source column of materialized insertion rows.
const InsertionSource = "is-splice"

// Remapper translates feature coordinates between the original and the
// cleaned coordinate space of one sequence.
type Remapper struct {
	log        RestoreLog
	cleanedLen int
}

// NewRemapper creates a remapper for a cleaned sequence of length cleanedLen.
func NewRemapper(log RestoreLog, cleanedLen int) (*Remapper, error) {
	if err := log.Validate(cleanedLen); err != nil {
		return nil, err
	}
	return &Remapper{log: log, cleanedLen: cleanedLen}, nil
}

// CleanedLen returns the length of the cleaned coordinate space.
func (m *Remapper) CleanedLen() int { return m.cleanedLen }

// OriginalLen returns the length of the original coordinate space.
func (m *Remapper) OriginalLen() int { return m.cleanedLen + m.log.Excised() }

// OriginalPos maps a cleaned position to the original space. A position
// equal to a record's Index lands after the reinserted content.
func (m *Remapper) OriginalPos(p int) int {
	i := sort.Search(len(m.log), func(k int) bool {
		return m.log[k].Index > p
	})
	if i < len(m.log) {
		return p + m.log[i].Delta
	}
	return p + m.log.Excised()
}

// CleanedPos maps an original position to the cleaned space. Positions
// inside an excised interval collapse onto its Index.
func (m *Remapper) CleanedPos(p int) int {
	i := sort.Search(len(m.log), func(k int) bool {
		return m.log[k].OriginalStart() > p
	})
	if i == 0 {
		return p
	}
	r := m.log[i-1]
	if p < r.OriginalEnd() {
		return r.Index
	}
	return p - r.Delta - len(r.Content)
}

// ToOriginal returns a copy of t with cleaned coordinates moved to the
// original space. Ends are mapped through their last base so a feature
// ending at an insertion point never stretches across the insertion.
func (m *Remapper) ToOriginal(t *gff.Table) (*gff.Table, error) {
	out := t.Clone()
	for _, f := range out.Features() {
		if f.Start < 0 || f.End > m.cleanedLen || f.End < f.Start {
			return nil, &FeatureOutOfRangeError{Row: f.Row, Start: f.Start, End: f.End, SpaceLen: m.cleanedLen}
		}
		start := m.OriginalPos(f.Start)
		end := start
		if f.End > f.Start {
			end = m.OriginalPos(f.End-1) + 1
		}
		f.Start, f.End = start, end
	}
	return out, nil
}

// ToCleaned returns a copy of t with original coordinates moved to the
// cleaned space, and the number of features dropped. Insertion sequence
// rows and features lying entirely inside excised intervals are dropped.
func (m *Remapper) ToCleaned(t *gff.Table) (*gff.Table, int, error) {
	origLen := m.OriginalLen()
	out := gff.NewTable()
	dropped := 0

	for _, src := range t.Features() {
		if src.Start < 0 || src.End > origLen || src.End < src.Start {
			return nil, 0, &FeatureOutOfRangeError{Row: src.Row, Start: src.Start, End: src.End, SpaceLen: origLen}
		}
		if src.IsInsertion() {
			dropped++
			continue
		}

		start, end := m.CleanedPos(src.Start), m.CleanedPos(src.End)
		if end == start && src.End > src.Start {
			dropped++
			continue
		}

		f := src.Clone()
		f.Start, f.End = start, end
		out.Append(f)
	}
	return out, dropped, nil
}

// InsertionFeatures materializes one insertion_sequence row per restore
// record, in original coordinates. Identifiers depend only on coordinates.
func (m *Remapper) InsertionFeatures(seqID string) []*gff.Feature {
	feats := make([]*gff.Feature, 0, len(m.log))
	for _, r := range m.log {
		start := r.OriginalStart()
		id := InsertionID(start)

		strand := r.Strand
		if strand == "" {
			strand = "+"
		}
		score := r.Score
		if score == "" {
			score = "."
		}

		var attrs gff.Attributes
		attrs = attrs.Set(gff.AttrID, id)
		attrs = attrs.Set(gff.AttrGeneName, id)

		feats = append(feats, &gff.Feature{
			SeqID:      seqID,
			Source:     InsertionSource,
			Type:       gff.TypeInsertionSequence,
			Start:      start,
			End:        start + len(r.Content),
			Score:      score,
			Strand:     strand,
			Phase:      ".",
			Attributes: attrs,
		})
	}
	return feats
}

// Reinsert moves t to the original space, appends the insertion rows and
// sorts the result by start once.
func (m *Remapper) Reinsert(t *gff.Table, seqID string) (*gff.Table, error) {
	remapped, err := m.ToOriginal(t)
	if err != nil {
		return nil, fmt.Errorf("remap features: %w", err)
	}
	for _, f := range m.InsertionFeatures(seqID) {
		remapped.Append(f)
	}
	return remapped.SortByStart(), nil
}

// InsertionID returns the synthesized identifier of an insertion starting
// at the given original position.
func InsertionID(start int) string {
	return fmt.Sprintf("TRANSP_%05d", start)
}
