// Package gff reads and writes GFF3 annotation tables.
package gff

import (
	"math"
	"strconv"
	"strings"
)

// Well-known feature types and attribute keys.
const (
	TypeInsertionSequence = "insertion_sequence"

	AttrOperon   = "operon"
	AttrLocusTag = "locus_tag"
	AttrGeneName = "gene_name"
	AttrFunction = "function"
	AttrID       = "ID"
)

// Feature is one annotation row. Start and End are 0-based half-open.
type Feature struct {
	SeqID      string
	Source     string
	Type       string
	Start      int
	End        int
	Score      string
	Strand     string
	Phase      string
	Attributes Attributes

	// Operon is the numeric grouping key from the operon attribute, nil when absent.
	Operon *float64

	// Row is the position the feature was appended to its table at.
	Row int
}

// IsInsertion reports whether the feature is an insertion sequence.
func (f *Feature) IsInsertion() bool {
	return f.Type == TypeInsertionSequence
}

// Len returns the feature length.
func (f *Feature) Len() int { return f.End - f.Start }

// Clone returns a deep copy of f.
func (f *Feature) Clone() *Feature {
	c := *f
	c.Attributes = f.Attributes.Clone()
	if f.Operon != nil {
		op := *f.Operon
		c.Operon = &op
	}
	return &c
}

// SetOperon sets the operon attribute and the Operon field together.
func (f *Feature) SetOperon(op float64) {
	f.Operon = &op
	f.Attributes = f.Attributes.Set(AttrOperon, FormatOperon(op))
}

// FormatOperon formats an operon key the way annotation files carry it.
func FormatOperon(op float64) string {
	return strconv.FormatFloat(op, 'f', -1, 64)
}

// parseOperon reads the operon attribute; missing, unparsable or NaN values yield nil.
func parseOperon(attrs Attributes) *float64 {
	v, ok := attrs.Get(AttrOperon)
	if !ok || v == "" {
		return nil
	}
	op, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(op) {
		return nil
	}
	return &op
}

// Attribute is one key=value pair of the attributes column.
type Attribute struct {
	Key   string
	Value string

	bare bool // written without '='
}

// Attributes keeps the attribute pairs in file order so rows round-trip.
type Attributes []Attribute

// ParseAttributes parses a GFF3 attribute column.
// Format: key=value;key=value;...
func ParseAttributes(s string) Attributes {
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return nil
	}

	var attrs Attributes
	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		attrs = append(attrs, Attribute{Key: key, Value: value, bare: !ok})
	}
	return attrs
}

// Get returns the value of the first pair with the given key.
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces the first pair with the given key, or appends one.
func (a Attributes) Set(key, value string) Attributes {
	for i := range a {
		if a[i].Key == key {
			a[i].Value = value
			a[i].bare = false
			return a
		}
	}
	return append(a, Attribute{Key: key, Value: value})
}

// Clone returns a copy that shares no storage with a.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	return append(Attributes(nil), a...)
}

// String encodes the attributes as a GFF3 column value.
func (a Attributes) String() string {
	if len(a) == 0 {
		return "."
	}
	parts := make([]string, len(a))
	for i, attr := range a {
		if attr.bare {
			parts[i] = attr.Key
			continue
		}
		parts[i] = attr.Key + "=" + attr.Value
	}
	return strings.Join(parts, ";")
}
