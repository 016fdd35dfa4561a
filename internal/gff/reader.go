package gff

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseError reports a malformed annotation line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gff parse error at line %d: %s", e.Line, e.Message)
}

// Reader loads annotation tables from GFF3 files.
type Reader struct {
	path string
}

// NewReader creates a reader for the file at path. Gzipped files are
// detected by the .gz suffix; "-" reads stdin.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Load parses the whole file into a table in file order.
func (r *Reader) Load() (*Table, error) {
	if r.path == "-" {
		return Parse(os.Stdin)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open GFF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(r.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return Parse(reader)
}

// Parse reads GFF3 rows from reader. Comment and directive lines are
// skipped; a FASTA section (##FASTA) ends the table.
func Parse(reader io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long attribute columns
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	t := NewTable()
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.HasPrefix(line, "##FASTA") {
			break
		}
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		feat, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNum, Message: err.Error()}
		}
		t.Append(feat)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GFF: %w", err)
	}

	return t, nil
}

// parseLine parses a single GFF3 line, converting 1-based inclusive
// coordinates to 0-based half-open.
func parseLine(line string) (*Feature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(fields[4]))
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}
	if start < 1 {
		return nil, fmt.Errorf("start %d is not 1-based", start)
	}
	if end < start-1 {
		return nil, fmt.Errorf("end %d before start %d", end, start)
	}

	attrs := ParseAttributes(fields[8])
	return &Feature{
		SeqID:      fields[0],
		Source:     fields[1],
		Type:       fields[2],
		Start:      start - 1,
		End:        end,
		Score:      fields[5],
		Strand:     fields[6],
		Phase:      fields[7],
		Attributes: attrs,
		Operon:     parseOperon(attrs),
	}, nil
}
