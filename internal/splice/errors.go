package splice

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrMalformedInterval   = errors.New("malformed interval")
	ErrMalformedRestoreLog = errors.New("malformed restore log")
	ErrRoundTrip           = errors.New("round-trip mismatch")
	ErrFeatureOutOfRange   = errors.New("feature out of range")
)

// MalformedIntervalError reports an excision interval outside sequence bounds.
type MalformedIntervalError struct {
	Index    int // position of the interval in the input list
	Interval Interval
	SeqLen   int
	Reason   string
}

func (e *MalformedIntervalError) Error() string {
	return fmt.Sprintf("interval %d [%d,%d) on sequence of length %d: %s",
		e.Index, e.Interval.Start, e.Interval.End, e.SeqLen, e.Reason)
}

func (e *MalformedIntervalError) Unwrap() error { return ErrMalformedInterval }

// MalformedRestoreLogError reports a restore log that cannot describe a valid excision.
type MalformedRestoreLogError struct {
	Record int
	Reason string
}

func (e *MalformedRestoreLogError) Error() string {
	return fmt.Sprintf("restore record %d: %s", e.Record, e.Reason)
}

func (e *MalformedRestoreLogError) Unwrap() error { return ErrMalformedRestoreLog }

// RoundTripMismatchError reports a rebuilt sequence that differs from the original.
// Record is -1 when the mismatch is not inside a reinserted span.
type RoundTripMismatchError struct {
	Offset      int
	Record      int
	OriginalLen int
	RebuiltLen  int
}

func (e *RoundTripMismatchError) Error() string {
	if e.OriginalLen != e.RebuiltLen {
		return fmt.Sprintf("rebuilt length %d != original length %d (first difference at %d, record %d)",
			e.RebuiltLen, e.OriginalLen, e.Offset, e.Record)
	}
	if e.Record < 0 {
		return fmt.Sprintf("sequences differ at offset %d outside any restore record", e.Offset)
	}
	return fmt.Sprintf("sequences differ at offset %d inside restore record %d", e.Offset, e.Record)
}

func (e *RoundTripMismatchError) Unwrap() error { return ErrRoundTrip }

// FeatureOutOfRangeError reports a feature whose coordinates fall outside the
// coordinate space being remapped.
type FeatureOutOfRangeError struct {
	Row        int
	Start, End int
	SpaceLen   int
}

func (e *FeatureOutOfRangeError) Error() string {
	return fmt.Sprintf("feature row %d [%d,%d) outside coordinate space of length %d",
		e.Row, e.Start, e.End, e.SpaceLen)
}

func (e *FeatureOutOfRangeError) Unwrap() error { return ErrFeatureOutOfRange }
