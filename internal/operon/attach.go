// Package operon resolves operon membership of annotation rows.
package operon

import "github.com/aglabx/OantigenMiner/internal/gff"

// FunctionTransposase is the function attribute given to insertion rows.
const FunctionTransposase = "transposase"

// AttachStats counts the outcome for insertion rows without an operon.
type AttachStats struct {
	Tagged   int
	Untagged int
}

type state int

const (
	noOperon state = iota
	inOperon
)

// resolver is the left-to-right state machine behind Attach.
type resolver struct {
	state   state
	current float64
	pending []*gff.Feature
	stats   AttachStats
}

// boundary handles a row carrying an operon value. Pending insertion rows
// are tagged only when the operon on both sides is the same.
func (r *resolver) boundary(op float64) {
	if len(r.pending) > 0 {
		if r.state == inOperon && op == r.current {
			for _, f := range r.pending {
				f.SetOperon(op)
			}
			r.stats.Tagged += len(r.pending)
		} else {
			r.stats.Untagged += len(r.pending)
		}
		r.pending = r.pending[:0]
	}
	r.state = inOperon
	r.current = op
}

// Attach returns a copy of t in which every insertion_sequence row lying
// between two rows of the same operon is tagged with that operon.
//
// t is scanned in table order and is expected to be sorted by start.
// Insertion rows not confirmed by a matching operon on the far side,
// including any still pending at the end of the table, stay untagged.
func Attach(t *gff.Table) (*gff.Table, AttachStats) {
	out := t.Clone()
	r := &resolver{}

	for _, f := range out.Features() {
		if f.IsInsertion() {
			f.Attributes = f.Attributes.Set(gff.AttrFunction, FunctionTransposase)
		}

		switch {
		case f.Operon != nil:
			r.boundary(*f.Operon)
		case f.IsInsertion():
			r.pending = append(r.pending, f)
		}
	}
	r.stats.Untagged += len(r.pending)

	return out, r.stats
}
