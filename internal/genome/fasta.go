// Package genome reads and writes assembled genome sequences.
package genome

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// DefaultLineWidth is the residue count per FASTA line on output.
const DefaultLineWidth = 60

// Record is one named sequence (contig, chromosome or plasmid).
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// Len returns the sequence length.
func (r *Record) Len() int { return len(r.Seq) }

// Load reads every record of a FASTA file. Gzipped files are detected by
// the .gz suffix; "-" reads stdin.
func Load(path string) ([]*Record, error) {
	if path == "-" {
		return Parse(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return Parse(reader)
}

// Parse reads FASTA records from reader in file order.
func Parse(reader io.Reader) ([]*Record, error) {
	t := linear.NewSeq("", nil, alphabet.DNA)
	sc := seqio.NewScanner(fasta.NewReader(reader, t))

	var records []*Record
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		records = append(records, &Record{
			ID:   s.ID,
			Desc: s.Desc,
			Seq:  append([]byte(nil), alphabet.LettersToBytes(s.Seq)...),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}

	return records, nil
}

// LoadOne reads a FASTA file that must hold exactly one record.
func LoadOne(path string) (*Record, error) {
	records, err := Load(path)
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, fmt.Errorf("%s: expected 1 sequence, found %d", path, len(records))
	}
	return records[0], nil
}

// Writer writes records as wrapped FASTA.
type Writer struct {
	w *fasta.Writer
}

// NewWriter creates a FASTA writer wrapping lines at width residues.
func NewWriter(w io.Writer, width int) *Writer {
	if width <= 0 {
		width = DefaultLineWidth
	}
	return &Writer{w: fasta.NewWriter(w, width)}
}

// Write writes a single record.
func (fw *Writer) Write(r *Record) error {
	s := linear.NewSeq(r.ID, alphabet.BytesToLetters(r.Seq), alphabet.DNA)
	s.Desc = r.Desc
	if _, err := fw.w.Write(s); err != nil {
		return fmt.Errorf("write sequence %s: %w", r.ID, err)
	}
	return nil
}

// WriteFile writes records to path.
func WriteFile(path string, records []*Record, width int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create FASTA file: %w", err)
	}

	w := NewWriter(f, width)
	for _, r := range records {
		if err := w.Write(r); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
