// Package splice excises insertion sequences from a genome and restores them.
//
// Coordinates are 0-based half-open throughout. Excise produces a cleaned
// sequence and a RestoreLog; Rebuild inverts it exactly, and a Remapper
// translates feature coordinates between the original and cleaned spaces.
package splice

import (
	"fmt"
	"sort"
)

// Interval is a half-open region [Start, End) to be excised.
// Score and Strand are carried through to the restore record; empty means unset.
type Interval struct {
	Start  int
	End    int
	Score  string
	Strand string
}

// Len returns the interval length.
func (iv Interval) Len() int { return iv.End - iv.Start }

// SortIntervals orders intervals by start, keeping input order for ties.
func SortIntervals(ivs []Interval) {
	sort.SliceStable(ivs, func(i, j int) bool {
		return ivs[i].Start < ivs[j].Start
	})
}

// RestoreRecord describes one excised interval.
type RestoreRecord struct {
	// Index is the position in the cleaned sequence where Content is spliced back.
	Index int
	// Content is the excised residues.
	Content []byte
	// Delta is the total length excised strictly before this record.
	Delta  int
	Score  string
	Strand string
}

// OriginalStart returns the record's start in original coordinates.
func (r RestoreRecord) OriginalStart() int { return r.Index + r.Delta }

// OriginalEnd returns the record's end in original coordinates.
func (r RestoreRecord) OriginalEnd() int { return r.Index + r.Delta + len(r.Content) }

// RestoreLog is the ordered list of records for one sequence.
type RestoreLog []RestoreRecord

// Excised returns the total number of residues removed.
func (l RestoreLog) Excised() int {
	if len(l) == 0 {
		return 0
	}
	last := l[len(l)-1]
	return last.Delta + len(last.Content)
}

// Validate checks that the log describes a valid excision from a cleaned
// sequence of length cleanedLen.
func (l RestoreLog) Validate(cleanedLen int) error {
	prev := 0
	delta := 0
	for i, r := range l {
		switch {
		case r.Index < prev:
			return &MalformedRestoreLogError{Record: i, Reason: fmt.Sprintf("index %d decreases from %d", r.Index, prev)}
		case r.Index > cleanedLen:
			return &MalformedRestoreLogError{Record: i, Reason: fmt.Sprintf("index %d beyond cleaned length %d", r.Index, cleanedLen)}
		case r.Delta != delta:
			return &MalformedRestoreLogError{Record: i, Reason: fmt.Sprintf("delta %d, expected %d", r.Delta, delta)}
		case len(r.Content) == 0:
			return &MalformedRestoreLogError{Record: i, Reason: "empty content"}
		}
		prev = r.Index
		delta += len(r.Content)
	}
	return nil
}
