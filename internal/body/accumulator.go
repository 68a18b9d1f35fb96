// internal/body/accumulator.go
//
// Bounded accumulator for inbound request payloads.
//
// Context
// -------
// Request bodies arrive as an ordered sequence of chunks.  The Accumulator
// appends each chunk, keeps a running total, and goes terminal the moment the
// total crosses MaxBodyBytes.  A failed accumulator admits nothing further;
// chunks that arrive after the breach are discarded, never buffered.  This is
// the flood defence for misbehaving or malicious clients.
//
// States: ACCUMULATING → {COMPLETED | FAILED}.  There is no transition out of
// a terminal state.
package body

import "errors"

// MaxBodyBytes is the hard ceiling on a single request payload.
const MaxBodyBytes = 1_000_000

var (
	// ErrPayloadTooLarge reports that the running total crossed MaxBodyBytes.
	ErrPayloadTooLarge = errors.New("body: payload exceeds size ceiling")

	// ErrFinalized reports a chunk offered after Finalize succeeded.
	ErrFinalized = errors.New("body: accumulator already finalized")
)

type accState int

const (
	accumulating accState = iota
	completed
	failed
)

// Accumulator collects ordered chunks up to MaxBodyBytes.  It is request
// scoped and not safe for concurrent use; one logical writer drives it.
type Accumulator struct {
	chunks [][]byte
	total  int
	state  accState
}

// NewAccumulator returns an empty accumulator in the ACCUMULATING state.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Accept appends one chunk.  The total is checked after every append, before
// any further chunk is admitted.  Once the ceiling is crossed the accumulator
// is FAILED for good: the offending chunk is dropped, buffered chunks are
// released, and every later call reports ErrPayloadTooLarge.
func (a *Accumulator) Accept(chunk []byte) error {
	switch a.state {
	case failed:
		return ErrPayloadTooLarge
	case completed:
		return ErrFinalized
	}

	a.total += len(chunk)
	if a.total > MaxBodyBytes {
		a.state = failed
		a.chunks = nil
		return ErrPayloadTooLarge
	}

	// The caller may reuse its slice between reads; keep our own copy.
	c := make([]byte, len(chunk))
	copy(c, chunk)
	a.chunks = append(a.chunks, c)
	return nil
}

// Finalize concatenates all accepted chunks in arrival order and moves the
// accumulator to COMPLETED.  On a FAILED accumulator it reports the size
// error instead; success is never reported for an instance that breached the
// ceiling.  COMPLETED is terminal too: a second Finalize reports
// ErrFinalized rather than a silent empty result.
func (a *Accumulator) Finalize() ([]byte, error) {
	switch a.state {
	case failed:
		return nil, ErrPayloadTooLarge
	case completed:
		return nil, ErrFinalized
	}
	a.state = completed

	buf := make([]byte, 0, a.total)
	for _, c := range a.chunks {
		buf = append(buf, c...)
	}
	a.chunks = nil
	return buf, nil
}

// Len reports the running total in bytes.
func (a *Accumulator) Len() int { return a.total }

// Failed reports whether the size ceiling was breached.
func (a *Accumulator) Failed() bool { return a.state == failed }
