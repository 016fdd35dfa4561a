package restorelog

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aglabx/OantigenMiner/internal/splice"
)

func TestWriteRead(t *testing.T) {
	log := splice.RestoreLog{
		{Index: 2, Content: []byte("GT"), Delta: 0, Score: "0.95", Strand: "-"},
		{Index: 8, Content: []byte("GTA"), Delta: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, log))
	assert.Equal(t, "2,GT,0,0.95,-\n8,GTA,2,,\n", buf.String())

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, log, got)
}

func TestReadMissingValues(t *testing.T) {
	input := "3,CCC,0,None,nan\n10,AA,3,.,NaN\n12,T,5, 7 , + \n"

	got, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "", got[0].Score)
	assert.Equal(t, "", got[0].Strand)
	assert.Equal(t, "", got[1].Score)
	assert.Equal(t, "", got[1].Strand)
	assert.Equal(t, "7", got[2].Score)
	assert.Equal(t, "+", got[2].Strand)
	assert.NoError(t, got.Validate(20))
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"wrong field count", "3,CCC,0\n", "read restore log"},
		{"bad index", "x,CCC,0,,\n", "line 1: parse index"},
		{"bad delta", "3,CCC,0,,\n4,A,y,,\n", "line 2: parse delta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestReadEmpty(t *testing.T) {
	got, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := FileName(filepath.Join(dir, "clean.fna"), "NC_000913.3")
	assert.Equal(t, filepath.Join(dir, "clean.fna")+"_NC_000913.3.rebuild.csv", path)

	log := splice.RestoreLog{{Index: 0, Content: []byte("ACGT"), Delta: 0, Strand: "+"}}
	require.NoError(t, WriteFile(path, log))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, log, got)

	_, err = ReadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
