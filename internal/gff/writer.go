package gff

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Header is the directive written at the top of every table.
const Header = "##gff-version 3"

// Writer writes features as GFF3 rows.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new GFF3 writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the version directive.
func (gw *Writer) WriteHeader() error {
	_, err := gw.w.WriteString(Header + "\n")
	return err
}

// Write writes a single feature, converting back to 1-based inclusive coordinates.
func (gw *Writer) Write(f *Feature) error {
	values := []string{
		orDot(f.SeqID),
		orDot(f.Source),
		orDot(f.Type),
		strconv.Itoa(f.Start + 1),
		strconv.Itoa(f.End),
		orDot(f.Score),
		orDot(f.Strand),
		orDot(f.Phase),
		f.Attributes.String(),
	}

	_, err := gw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteTable writes the header followed by every feature of t.
func (gw *Writer) WriteTable(t *Table) error {
	if err := gw.WriteHeader(); err != nil {
		return err
	}
	for _, f := range t.Features() {
		if err := gw.Write(f); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (gw *Writer) Flush() error {
	return gw.w.Flush()
}

// WriteFile writes t to path as a complete GFF3 file.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create GFF file: %w", err)
	}

	w := NewWriter(f)
	if err := w.WriteTable(t); err != nil {
		f.Close()
		return fmt.Errorf("write GFF: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush GFF: %w", err)
	}
	return f.Close()
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
