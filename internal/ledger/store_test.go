package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aglabx/OantigenMiner/internal/splice"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testLog() splice.RestoreLog {
	return splice.RestoreLog{
		{Index: 2, Content: []byte("GT"), Delta: 0, Score: "0.9", Strand: "-"},
		{Index: 8, Content: []byte("GTA"), Delta: 2},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.duckdb")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteAndLookupRun(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	run := Run{
		RunID:       "clean.fna",
		SeqID:       "NC_1",
		Source:      Source{Path: "/data/genome.fna", Size: 20, ModTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		OriginalLen: 20,
		CleanedLen:  15,
	}
	require.NoError(t, s.WriteRun(ctx, run, testLog()))

	got, err := s.LookupRestoreLog(ctx, "clean.fna", "NC_1")
	require.NoError(t, err)
	assert.Equal(t, testLog(), got)

	stored, err := s.LookupRun(ctx, "clean.fna", "NC_1")
	require.NoError(t, err)
	assert.Equal(t, 20, stored.OriginalLen)
	assert.Equal(t, 15, stored.CleanedLen)
	assert.Equal(t, 2, stored.Records)
	assert.Equal(t, "/data/genome.fna", stored.Source.Path)
	assert.Equal(t, int64(20), stored.Source.Size)
	assert.True(t, run.Source.ModTime.Equal(stored.Source.ModTime))
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestWriteRunReplaces(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	run := Run{RunID: "r", SeqID: "c", OriginalLen: 20, CleanedLen: 15}
	require.NoError(t, s.WriteRun(ctx, run, testLog()))

	shorter := splice.RestoreLog{{Index: 1, Content: []byte("A")}}
	run.CleanedLen = 19
	require.NoError(t, s.WriteRun(ctx, run, shorter))

	got, err := s.LookupRestoreLog(ctx, "r", "c")
	require.NoError(t, err)
	assert.Equal(t, shorter, got)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 19, runs[0].CleanedLen)
}

func TestRunWithoutRecords(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, Run{RunID: "r", SeqID: "plasmid", OriginalLen: 10, CleanedLen: 10}, nil))

	got, err := s.LookupRestoreLog(ctx, "r", "plasmid")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLookupMissingRun(t *testing.T) {
	s := openInMemory(t)

	_, err := s.LookupRestoreLog(context.Background(), "nope", "c")
	assert.ErrorContains(t, err, "not found")
}

func TestRunsOrderAndDelete(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	for _, id := range []struct{ run, seq string }{{"b", "chr"}, {"a", "p2"}, {"a", "p1"}} {
		require.NoError(t, s.WriteRun(ctx, Run{RunID: id.run, SeqID: id.seq}, testLog()))
	}

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "a", runs[0].RunID)
	assert.Equal(t, "p1", runs[0].SeqID)
	assert.Equal(t, "p2", runs[1].SeqID)
	assert.Equal(t, "b", runs[2].RunID)

	require.NoError(t, s.DeleteRun(ctx, "a", "p1"))
	runs, err = s.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	var n int
	require.NoError(t, s.DB().QueryRow("SELECT count(*) FROM restore_records WHERE run_id='a' AND seq_id='p1'").Scan(&n))
	assert.Zero(t, n)
}

func TestSourceOf(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genome.fna")
	require.NoError(t, os.WriteFile(path, []byte(">c\nACGT\n"), 0644))

	src, err := SourceOf(path)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(src.Path))
	assert.Equal(t, int64(8), src.Size)
	assert.False(t, src.Changed())

	require.NoError(t, os.WriteFile(path, []byte(">c\nACGTACGT\n"), 0644))
	assert.True(t, src.Changed())

	missing := Source{Path: filepath.Join(dir, "gone")}
	assert.True(t, missing.Changed())

	_, err = SourceOf(filepath.Join(dir, "gone"))
	assert.ErrorContains(t, err, "stat genome")
}
