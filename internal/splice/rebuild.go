package splice

import "fmt"

// Rebuild splices every record of log back into cleaned and returns the
// original sequence. cleaned is never modified.
func Rebuild(cleaned []byte, log RestoreLog) ([]byte, error) {
	if err := log.Validate(len(cleaned)); err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}

	out := make([]byte, 0, len(cleaned)+log.Excised())
	pos := 0
	for _, r := range log {
		out = append(out, cleaned[pos:r.Index]...)
		out = append(out, r.Content...)
		pos = r.Index
	}
	out = append(out, cleaned[pos:]...)

	return out, nil
}

// Verify compares a rebuilt sequence with the original byte for byte.
// The returned *RoundTripMismatchError names the first differing offset and,
// when log is non-nil, the record whose reinserted span contains it.
func Verify(original, rebuilt []byte, log RestoreLog) error {
	n := min(len(original), len(rebuilt))
	offset := -1
	for i := 0; i < n; i++ {
		if original[i] != rebuilt[i] {
			offset = i
			break
		}
	}
	if offset < 0 {
		if len(original) == len(rebuilt) {
			return nil
		}
		offset = n
	}

	return &RoundTripMismatchError{
		Offset:      offset,
		Record:      recordAt(log, offset),
		OriginalLen: len(original),
		RebuiltLen:  len(rebuilt),
	}
}

// recordAt returns the index of the record covering original position pos, or -1.
func recordAt(log RestoreLog, pos int) int {
	for i, r := range log {
		if pos >= r.OriginalStart() && pos < r.OriginalEnd() {
			return i
		}
	}
	return -1
}
