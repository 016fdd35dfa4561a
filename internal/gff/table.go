package gff

import "sort"

// Table is an append-only ordered list of features.
type Table struct {
	features []*Feature
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Append adds f to the end of the table and stamps its row number.
func (t *Table) Append(f *Feature) {
	f.Row = len(t.features)
	t.features = append(t.features, f)
}

// Len returns the number of features.
func (t *Table) Len() int { return len(t.features) }

// Features returns the features in table order. The slice must not be modified.
func (t *Table) Features() []*Feature { return t.features }

// Clone returns a deep copy of the table. Row numbers are preserved.
func (t *Table) Clone() *Table {
	c := &Table{features: make([]*Feature, len(t.features))}
	for i, f := range t.features {
		c.features[i] = f.Clone()
	}
	return c
}

// Filter returns a new table holding copies of the features keep accepts.
func (t *Table) Filter(keep func(*Feature) bool) *Table {
	out := NewTable()
	for _, f := range t.features {
		if keep(f) {
			out.Append(f.Clone())
		}
	}
	return out
}

// SortByStart returns a copy of the table ordered by start. Ties keep
// table order. Row numbers are reassigned to the sorted order.
func (t *Table) SortByStart() *Table {
	sorted := make([]*Feature, len(t.features))
	for i, f := range t.features {
		sorted[i] = f.Clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	out := &Table{features: make([]*Feature, 0, len(sorted))}
	for _, f := range sorted {
		out.Append(f)
	}
	return out
}

// SeqIDs returns sequence identifiers in order of first appearance.
func (t *Table) SeqIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, f := range t.features {
		if !seen[f.SeqID] {
			seen[f.SeqID] = true
			ids = append(ids, f.SeqID)
		}
	}
	return ids
}

// BySeqID splits the table into one table per sequence identifier.
func (t *Table) BySeqID() map[string]*Table {
	out := make(map[string]*Table)
	for _, f := range t.features {
		sub, ok := out[f.SeqID]
		if !ok {
			sub = NewTable()
			out[f.SeqID] = sub
		}
		sub.Append(f.Clone())
	}
	return out
}

// Concat returns a new table holding copies of every feature of tables in order.
func Concat(tables ...*Table) *Table {
	out := NewTable()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, f := range t.features {
			out.Append(f.Clone())
		}
	}
	return out
}
