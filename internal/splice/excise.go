package splice

import "fmt"

// Excision is the result of removing intervals from a sequence.
type Excision struct {
	Cleaned []byte
	Log     RestoreLog

	// Clamped counts intervals whose start was moved forward to the cursor.
	Clamped int
	// Dropped counts intervals left empty after clamping.
	Dropped int
}

// Excise removes intervals from seq and records how to undo it.
//
// Intervals are expected in ascending start order. An interval starting
// before the end of the previous one is clamped forward to it; one left
// empty by clamping is dropped. seq is never modified.
func Excise(seq []byte, intervals []Interval) (*Excision, error) {
	for i, iv := range intervals {
		if err := checkInterval(i, iv, len(seq)); err != nil {
			return nil, err
		}
	}

	ex := &Excision{}
	cleaned := make([]byte, 0, len(seq))
	pos, delta := 0, 0

	for _, iv := range intervals {
		start, end := iv.Start, iv.End
		if start < pos {
			start = pos
			ex.Clamped++
		}
		if start >= end {
			ex.Dropped++
			continue
		}

		cleaned = append(cleaned, seq[pos:start]...)
		content := append([]byte(nil), seq[start:end]...)

		ex.Log = append(ex.Log, RestoreRecord{
			Index:   start - delta,
			Content: content,
			Delta:   delta,
			Score:   iv.Score,
			Strand:  iv.Strand,
		})
		delta += len(content)
		pos = end
	}
	cleaned = append(cleaned, seq[pos:]...)

	if d := len(seq) - len(cleaned) - delta; d != 0 {
		return nil, fmt.Errorf("excise: length not conserved (off by %d)", d)
	}

	ex.Cleaned = cleaned
	return ex, nil
}

func checkInterval(i int, iv Interval, seqLen int) error {
	var reason string
	switch {
	case iv.Start < 0:
		reason = "negative start"
	case iv.End < iv.Start:
		reason = "end before start"
	case iv.End > seqLen:
		reason = "end beyond sequence"
	default:
		return nil
	}
	return &MalformedIntervalError{Index: i, Interval: iv, SeqLen: seqLen, Reason: reason}
}
