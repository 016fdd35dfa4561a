package pipeline

import (
	"runtime"
	"sync"

	"github.com/aglabx/OantigenMiner/internal/genome"
	"github.com/aglabx/OantigenMiner/internal/gff"
)

// CutItem holds one genome record ready to be cut.
type CutItem struct {
	Seq        int
	Record     *genome.Record
	Annotation *gff.Table
	Remap      bool
}

// CutOutput holds the cut output for a single record.
type CutOutput struct {
	Seq    int
	Record *genome.Record
	Result *CutResult
	Err    error
}

// ParallelCut cuts records using a pool of workers. Records share no
// mutable state, so each is processed end to end by one worker.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (s *Splicer) ParallelCut(items <-chan CutItem, workers int) <-chan CutOutput {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan CutOutput, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				res, err := s.Cut(item.Record, item.Annotation, item.Remap)
				results <- CutOutput{
					Seq:    item.Seq,
					Record: item.Record,
					Result: res,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan CutOutput, fn func(CutOutput) error) error {
	pending := make(map[int]CutOutput)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// CutAll cuts every record with a pool of workers and returns the results
// in record order. The first failing record stops collection.
func (s *Splicer) CutAll(records []*genome.Record, annotation *gff.Table, remap bool, workers int) ([]*CutResult, error) {
	items := make(chan CutItem, len(records))
	for i, rec := range records {
		items <- CutItem{Seq: i, Record: rec, Annotation: annotation, Remap: remap}
	}
	close(items)

	out := make([]*CutResult, 0, len(records))
	err := OrderedCollect(s.ParallelCut(items, workers), func(r CutOutput) error {
		if r.Err != nil {
			return r.Err
		}
		out = append(out, r.Result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
