package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Source identifies the genome file a run was cut from by absolute path,
// size and modification time.
type Source struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// SourceOf stats path and returns its identity. The modification time is
// kept to the microsecond, the precision of a DuckDB TIMESTAMP.
func SourceOf(path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Source{}, fmt.Errorf("stat genome: %w", err)
	}
	return Source{
		Path:    abs,
		Size:    info.Size(),
		ModTime: info.ModTime().UTC().Truncate(time.Microsecond),
	}, nil
}

// Changed reports whether the file at s.Path was modified, resized or
// removed since s was taken.
func (s Source) Changed() bool {
	cur, err := SourceOf(s.Path)
	if err != nil {
		return true
	}
	return cur.Size != s.Size || !cur.ModTime.Equal(s.ModTime.Truncate(time.Microsecond))
}
