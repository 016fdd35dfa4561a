package operon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aglabx/OantigenMiner/internal/gff"
)

// ForwardFill returns the effective operon of every row of t in table
// order: the row's own value, or the last value seen above it.
// Rows before the first defined value get nil.
func ForwardFill(t *gff.Table) []*float64 {
	filled := make([]*float64, t.Len())
	var last *float64
	for i, f := range t.Features() {
		if f.Operon != nil {
			op := *f.Operon
			last = &op
		}
		filled[i] = last
	}
	return filled
}

// Targets is a set of locus tags of genes of interest.
type Targets map[string]bool

// LoadTargets reads locus tags from the first column of a TSV file.
func LoadTargets(path string) (Targets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer f.Close()

	return parseTargets(f)
}

func parseTargets(reader io.Reader) (Targets, error) {
	targets := make(Targets)
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, _, _ := strings.Cut(line, "\t")
		targets[strings.TrimSpace(id)] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan targets: %w", err)
	}
	return targets, nil
}

// Extract returns the rows of every operon holding at least minTargets
// target genes. Operon membership is forward-filled in table order.
func Extract(t *gff.Table, targets Targets, minTargets int) *gff.Table {
	filled := ForwardFill(t)
	feats := t.Features()

	counts := make(map[float64]int)
	for i, f := range feats {
		if filled[i] == nil {
			continue
		}
		if tag, ok := f.Attributes.Get(gff.AttrLocusTag); ok && targets[tag] {
			counts[*filled[i]]++
		}
	}

	out := gff.NewTable()
	for i, f := range feats {
		if filled[i] == nil {
			continue
		}
		if counts[*filled[i]] >= minTargets && counts[*filled[i]] > 0 {
			out.Append(f.Clone())
		}
	}
	return out
}
