// Package restorelog persists splice restore logs as CSV.
//
// Each line holds one record:
//
//	reinsertion_index,excised_content,cumulative_delta_before,score,strand
//
// An empty score or strand means the value was absent.
package restorelog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aglabx/OantigenMiner/internal/splice"
)

const numFields = 5

// FileName returns the restore log path for one sequence of a cut output.
func FileName(output, seqID string) string {
	return fmt.Sprintf("%s_%s.rebuild.csv", output, seqID)
}

// Write encodes log to w.
func Write(w io.Writer, log splice.RestoreLog) error {
	cw := csv.NewWriter(w)
	for i, r := range log {
		rec := []string{
			strconv.Itoa(r.Index),
			string(r.Content),
			strconv.Itoa(r.Delta),
			r.Score,
			r.Strand,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write restore record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read decodes a restore log from r.
func Read(r io.Reader) (splice.RestoreLog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.ReuseRecord = true

	var log splice.RestoreLog
	for line := 1; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read restore log: %w", err)
		}

		idx, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("restore log line %d: parse index: %w", line, err)
		}
		delta, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("restore log line %d: parse delta: %w", line, err)
		}

		log = append(log, splice.RestoreRecord{
			Index:   idx,
			Content: []byte(fields[1]),
			Delta:   delta,
			Score:   nullable(fields[3]),
			Strand:  nullable(fields[4]),
		})
	}
	return log, nil
}

// nullable maps the spellings of a missing value to "".
// Logs written by older tooling carry None or nan.
func nullable(s string) string {
	switch strings.TrimSpace(s) {
	case "", ".", "None", "nan", "NaN":
		return ""
	}
	return strings.TrimSpace(s)
}

// WriteFile writes log to path.
func WriteFile(path string, log splice.RestoreLog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create restore log: %w", err)
	}
	if err := Write(f, log); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a restore log from path.
func ReadFile(path string) (splice.RestoreLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open restore log: %w", err)
	}
	defer f.Close()

	return Read(f)
}
