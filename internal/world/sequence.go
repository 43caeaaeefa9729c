package world

import "sync/atomic"

// Sequence hands out increasing integers. Values are never reused for the
// lifetime of the process; there is no reset.
type Sequence struct {
	next atomic.Int64
}

// NewSequence creates a sequence whose first value is start.
func NewSequence(start int) *Sequence {
	s := &Sequence{}
	s.next.Store(int64(start))
	return s
}

// Next returns the next value in the sequence.
func (s *Sequence) Next() int {
	return int(s.next.Add(1) - 1)
}
