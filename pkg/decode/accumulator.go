package decode

// Accumulator is the byte cursor between the port reader and the decoder.
// The producer feeds raw chunks as they arrive; the decoder takes whole
// frames off the front. A partial frame simply waits for more bytes.
//
// It is owned by the single producer goroutine and needs no locking.
type Accumulator struct {
	buf []byte
	off int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Feed appends a chunk of raw bytes.
func (a *Accumulator) Feed(p []byte) {
	if a.off > 0 && a.off == len(a.buf) {
		a.buf = a.buf[:0]
		a.off = 0
	}
	a.buf = append(a.buf, p...)
}

// Available returns the number of unconsumed bytes.
func (a *Accumulator) Available() int {
	return len(a.buf) - a.off
}

// take returns the next n bytes and advances, or (nil, false) when fewer
// than n are buffered. The returned slice is only valid until the next Feed.
func (a *Accumulator) take(n int) ([]byte, bool) {
	if a.Available() < n {
		return nil, false
	}
	p := a.buf[a.off : a.off+n]
	a.off += n

	// Reclaim consumed space once the backlog is fully drained of frames
	// worth of data, so the buffer does not grow without bound.
	if a.off == len(a.buf) {
		a.buf = a.buf[:0]
		a.off = 0
	}
	return p, true
}
