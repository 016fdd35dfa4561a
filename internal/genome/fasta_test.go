package genome

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFASTA = `>chr1 Escherichia coli chromosome
ACGTACGTAC
GTACGT
>plasmid1
NNNNacgt
`

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(testFASTA))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "chr1", records[0].ID)
	assert.Equal(t, "Escherichia coli chromosome", records[0].Desc)
	assert.Equal(t, "ACGTACGTACGTACGT", string(records[0].Seq))
	assert.Equal(t, 16, records[0].Len())

	assert.Equal(t, "plasmid1", records[1].ID)
	assert.Equal(t, "NNNNacgt", string(records[1].Seq), "case is preserved")
}

func TestWriterRoundTrip(t *testing.T) {
	records := []*Record{
		{ID: "chr1", Desc: "transposon free", Seq: []byte("ACGTACGTACGTACGTACGT")},
		{ID: "p1", Seq: []byte("GGCC")},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, 8)
	for _, r := range records {
		require.NoError(t, w.Write(r))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{">chr1 transposon free", "ACGTACGT", "ACGTACGT", "ACGT", ">p1", "GGCC"}, lines)

	again, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, again, 2)
	for i := range records {
		assert.Equal(t, records[i].ID, again[i].ID)
		assert.Equal(t, records[i].Desc, again[i].Desc)
		assert.Equal(t, records[i].Seq, again[i].Seq)
	}
}

func TestWriteDoesNotAliasRecord(t *testing.T) {
	r := &Record{ID: "x", Seq: []byte("ACGT")}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, 0).Write(r))
	assert.Equal(t, "ACGT", string(r.Seq))
}

func TestLoadAndLoadOne(t *testing.T) {
	dir := t.TempDir()

	multi := filepath.Join(dir, "genome.fna")
	require.NoError(t, os.WriteFile(multi, []byte(testFASTA), 0644))

	records, err := Load(multi)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = LoadOne(multi)
	assert.ErrorContains(t, err, "expected 1 sequence, found 2")

	gzPath := filepath.Join(dir, "single.fna.gz")
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write([]byte(">only\nACGT\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(gzPath, buf.Bytes(), 0644))

	one, err := LoadOne(gzPath)
	require.NoError(t, err)
	assert.Equal(t, "only", one.ID)
	assert.Equal(t, "ACGT", string(one.Seq))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fna")
	require.NoError(t, WriteFile(path, []*Record{{ID: "c", Seq: []byte("ACGT")}}, DefaultLineWidth))

	one, err := LoadOne(path)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", string(one.Seq))

	_, err = Load(filepath.Join(t.TempDir(), "missing.fna"))
	assert.Error(t, err)
}
