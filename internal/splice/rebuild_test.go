package splice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuild(t *testing.T) {
	log := RestoreLog{{Index: 3, Content: []byte("CCC"), Delta: 0}}

	got, err := Rebuild([]byte("AAATTTGGG"), log)
	require.NoError(t, err)
	assert.Equal(t, "AAACCCTTTGGG", string(got))
}

func TestRebuildAtEnds(t *testing.T) {
	log := RestoreLog{
		{Index: 0, Content: []byte("NN"), Delta: 0},
		{Index: 4, Content: []byte("XX"), Delta: 2},
	}

	got, err := Rebuild([]byte("ACGT"), log)
	require.NoError(t, err)
	assert.Equal(t, "NNACGTXX", string(got))
}

func TestRebuildEmptyLog(t *testing.T) {
	got, err := Rebuild([]byte("ACGT"), nil)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", string(got))
}

func TestRebuildDoesNotModifyInput(t *testing.T) {
	cleaned := []byte("AAATTTGGG")
	_, err := Rebuild(cleaned, RestoreLog{{Index: 3, Content: []byte("CCC")}})
	require.NoError(t, err)
	assert.Equal(t, "AAATTTGGG", string(cleaned))
}

func TestRebuildMalformedLog(t *testing.T) {
	tests := []struct {
		name   string
		log    RestoreLog
		record int
	}{
		{
			name: "decreasing index",
			log: RestoreLog{
				{Index: 5, Content: []byte("A"), Delta: 0},
				{Index: 2, Content: []byte("C"), Delta: 1},
			},
			record: 1,
		},
		{
			name:   "index beyond cleaned length",
			log:    RestoreLog{{Index: 10, Content: []byte("A")}},
			record: 0,
		},
		{
			name: "wrong delta",
			log: RestoreLog{
				{Index: 1, Content: []byte("AAA"), Delta: 0},
				{Index: 2, Content: []byte("C"), Delta: 2},
			},
			record: 1,
		},
		{
			name:   "empty content",
			log:    RestoreLog{{Index: 1, Content: nil}},
			record: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rebuild([]byte("ACGTACGT"), tt.log)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRestoreLog))

			var mre *MalformedRestoreLogError
			require.True(t, errors.As(err, &mre))
			assert.Equal(t, tt.record, mre.Record)
		})
	}
}

func TestVerify(t *testing.T) {
	log := RestoreLog{{Index: 3, Content: []byte("CCC"), Delta: 0}}
	original := []byte("AAACCCTTTGGG")

	t.Run("identical", func(t *testing.T) {
		assert.NoError(t, Verify(original, []byte("AAACCCTTTGGG"), log))
	})

	t.Run("difference inside record", func(t *testing.T) {
		err := Verify(original, []byte("AAACGCTTTGGG"), log)
		var rte *RoundTripMismatchError
		require.True(t, errors.As(err, &rte))
		assert.Equal(t, 4, rte.Offset)
		assert.Equal(t, 0, rte.Record)
		assert.True(t, errors.Is(err, ErrRoundTrip))
	})

	t.Run("difference outside records", func(t *testing.T) {
		err := Verify(original, []byte("AAACCCTTTGGA"), log)
		var rte *RoundTripMismatchError
		require.True(t, errors.As(err, &rte))
		assert.Equal(t, 11, rte.Offset)
		assert.Equal(t, -1, rte.Record)
		assert.Contains(t, err.Error(), "outside any restore record")
	})

	t.Run("length differs", func(t *testing.T) {
		err := Verify(original, []byte("AAACCCTTTGG"), log)
		var rte *RoundTripMismatchError
		require.True(t, errors.As(err, &rte))
		assert.Equal(t, 11, rte.Offset)
		assert.Equal(t, 12, rte.OriginalLen)
		assert.Equal(t, 11, rte.RebuiltLen)
	})
}

func TestRestoreRecordOriginalSpan(t *testing.T) {
	r := RestoreRecord{Index: 8, Content: []byte("GTA"), Delta: 2}
	assert.Equal(t, 10, r.OriginalStart())
	assert.Equal(t, 13, r.OriginalEnd())
}
