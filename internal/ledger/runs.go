package ledger

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/aglabx/OantigenMiner/internal/splice"
)

// Run describes the cut of one sequence.
type Run struct {
	RunID       string
	SeqID       string
	Source      Source
	OriginalLen int
	CleanedLen  int
	Records     int
	CreatedAt   time.Time
}

// WriteRun stores a run and its restore log, replacing any earlier entry
// for the same run and sequence.
func (s *Store) WriteRun(ctx context.Context, run Run, log splice.RestoreLog) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Records = len(log)

	if err := s.DeleteRun(ctx, run.RunID, run.SeqID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO splice_runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SeqID, run.Source.Path, run.Source.Size, run.Source.ModTime.UTC(),
		run.OriginalLen, run.CleanedLen, run.Records, run.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(log) == 0 {
		return nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "restore_records")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for i, r := range log {
		if err := appender.AppendRow(
			run.RunID, run.SeqID, int32(i),
			int64(r.Index), string(r.Content), int64(r.Delta),
			r.Score, r.Strand,
		); err != nil {
			return fmt.Errorf("append restore record %d: %w", i, err)
		}
	}

	return appender.Flush()
}

// DeleteRun removes a run and its records.
func (s *Store) DeleteRun(ctx context.Context, runID, seqID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM restore_records WHERE run_id=? AND seq_id=?", runID, seqID); err != nil {
		return fmt.Errorf("delete restore records: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM splice_runs WHERE run_id=? AND seq_id=?", runID, seqID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// LookupRestoreLog returns the restore log of one sequence of a run, in record order.
// A run that was never stored yields an error; a stored run without records yields an empty log.
func (s *Store) LookupRestoreLog(ctx context.Context, runID, seqID string) (splice.RestoreLog, error) {
	run, err := s.LookupRun(ctx, runID, seqID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT reinsertion_index, content, delta, score, strand
		FROM restore_records
		WHERE run_id=? AND seq_id=?
		ORDER BY ordinal`, runID, seqID)
	if err != nil {
		return nil, fmt.Errorf("query restore records: %w", err)
	}
	defer rows.Close()

	log := make(splice.RestoreLog, 0, run.Records)
	for rows.Next() {
		var (
			r       splice.RestoreRecord
			idx     int64
			delta   int64
			content string
		)
		if err := rows.Scan(&idx, &content, &delta, &r.Score, &r.Strand); err != nil {
			return nil, fmt.Errorf("scan restore record: %w", err)
		}
		r.Index, r.Delta, r.Content = int(idx), int(delta), []byte(content)
		log = append(log, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restore records: %w", err)
	}

	if len(log) != run.Records {
		return nil, fmt.Errorf("run %s/%s: %d records stored, %d expected", runID, seqID, len(log), run.Records)
	}
	return log, nil
}

// LookupRun returns one stored run.
func (s *Store) LookupRun(ctx context.Context, runID, seqID string) (*Run, error) {
	runs, err := s.queryRuns(ctx, "WHERE run_id=? AND seq_id=?", runID, seqID)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("run %s/%s not found", runID, seqID)
	}
	return runs[0], nil
}

// Runs lists every stored run ordered by run and sequence.
func (s *Store) Runs(ctx context.Context) ([]*Run, error) {
	return s.queryRuns(ctx, "")
}

func (s *Store) queryRuns(ctx context.Context, where string, args ...any) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, seq_id, source_path, source_size, source_modtime,
		original_len, cleaned_len, record_count, created_at
		FROM splice_runs `+where+` ORDER BY run_id, seq_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var (
			run                 Run
			origLen, cleanedLen int64
			records             int32
		)
		if err := rows.Scan(&run.RunID, &run.SeqID, &run.Source.Path, &run.Source.Size, &run.Source.ModTime,
			&origLen, &cleanedLen, &records, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.OriginalLen, run.CleanedLen, run.Records = int(origLen), int(cleanedLen), int(records)
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
