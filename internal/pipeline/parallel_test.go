package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aglabx/OantigenMiner/internal/genome"
	"github.com/aglabx/OantigenMiner/internal/gff"
	"github.com/aglabx/OantigenMiner/internal/splice"
)

// makeContigs builds n contigs of increasing length, each with one insertion at [2,4).
func makeContigs(n int) ([]*genome.Record, *gff.Table) {
	records := make([]*genome.Record, n)
	annot := gff.NewTable()
	for i := range n {
		id := fmt.Sprintf("contig_%d", i)
		seq := make([]byte, 10+i)
		for j := range seq {
			seq[j] = "ACGT"[j%4]
		}
		records[i] = &genome.Record{ID: id, Seq: seq}
		annot.Append(feature(id, gff.TypeInsertionSequence, 2, 4, ""))
	}
	return records, annot
}

func makeItems(records []*genome.Record, annot *gff.Table) <-chan CutItem {
	ch := make(chan CutItem, len(records))
	for i, rec := range records {
		ch <- CutItem{Seq: i, Record: rec, Annotation: annot}
	}
	close(ch)
	return ch
}

func TestParallelCut_OrderPreservation(t *testing.T) {
	records, annot := makeContigs(100)
	results := NewSplicer().ParallelCut(makeItems(records, annot), 8)

	var collected []int
	err := OrderedCollect(results, func(r CutOutput) error {
		require.NoError(t, r.Err)
		collected = append(collected, r.Seq)
		assert.Equal(t, r.Record.ID, r.Result.Cleaned.ID)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 100)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelCut_SingleWorker(t *testing.T) {
	records, annot := makeContigs(20)
	results := NewSplicer().ParallelCut(makeItems(records, annot), 1)

	var collected []int
	err := OrderedCollect(results, func(r CutOutput) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, collected, 20)
}

func TestParallelCut_DefaultWorkers(t *testing.T) {
	records, annot := makeContigs(5)
	results := NewSplicer().ParallelCut(makeItems(records, annot), 0)

	n := 0
	require.NoError(t, OrderedCollect(results, func(CutOutput) error {
		n++
		return nil
	}))
	assert.Equal(t, 5, n)
}

func TestOrderedCollect_StopsOnError(t *testing.T) {
	records, annot := makeContigs(50)
	results := NewSplicer().ParallelCut(makeItems(records, annot), 4)

	stop := errors.New("stop")
	calls := 0
	err := OrderedCollect(results, func(r CutOutput) error {
		calls++
		if r.Seq == 9 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 10, calls)
}

func TestCutAll(t *testing.T) {
	records, annot := makeContigs(12)

	results, err := NewSplicer().CutAll(records, annot, true, 4)
	require.NoError(t, err)
	require.Len(t, results, 12)

	for i, res := range results {
		assert.Equal(t, records[i].ID, res.Cleaned.ID)
		assert.Equal(t, records[i].Len()-2, res.Cleaned.Len())
		require.Len(t, res.Log, 1)
		assert.Equal(t, "GT", string(res.Log[0].Content))
		assert.Equal(t, 0, res.Features.Len())
		assert.Equal(t, 1, res.FeaturesDropped)
	}
}

func TestCutAll_FirstErrorWins(t *testing.T) {
	records, annot := makeContigs(6)
	annot.Append(feature("contig_3", gff.TypeInsertionSequence, 5, 500, ""))

	_, err := NewSplicer().CutAll(records, annot, false, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, splice.ErrMalformedInterval))
	assert.Contains(t, err.Error(), "contig_3")
}
