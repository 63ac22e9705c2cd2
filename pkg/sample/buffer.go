package sample

import "sync"

// Buffer is a fixed-capacity, insertion-ordered store of samples. When
// full, each push evicts exactly one oldest entry (strict FIFO). This
// bounds memory independent of link rate or session length: a slow
// consumer never blocks the producer but may lose the oldest unread data.
//
// Push and Snapshot are safe to interleave from different goroutines.
// Snapshot returns a fully materialized copy, never a live view.
type Buffer struct {
	mu      sync.Mutex
	buf     []Sample
	head    int // index of the oldest entry
	n       int // entries stored
	evicted uint64
}

// NewBuffer creates a buffer holding at most capacity samples.
// Capacity must be at least 1.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{buf: make([]Sample, capacity)}
}

// Push appends s, evicting the oldest entry when the buffer is full.
// It is O(1) and never fails.
func (b *Buffer) Push(s Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.n == len(b.buf) {
		b.buf[b.head] = s
		b.head = (b.head + 1) % len(b.buf)
		b.evicted++
		return
	}
	b.buf[(b.head+b.n)%len(b.buf)] = s
	b.n++
}

// Snapshot returns a copy of the most recent n samples in arrival order,
// or all stored samples when fewer than n exist. n <= 0 returns everything.
func (b *Buffer) Snapshot(n int) []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n <= 0 || n > b.n {
		n = b.n
	}
	out := make([]Sample, n)
	start := (b.head + b.n - n) % len(b.buf)
	for i := 0; i < n; i++ {
		out[i] = b.buf[(start+i)%len(b.buf)]
	}
	return out
}

// Len returns the number of samples currently stored.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Evicted returns how many samples have been dropped to make room.
func (b *Buffer) Evicted() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.evicted
}
