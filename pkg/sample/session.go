package sample

import "sync"

// Session captures samples across a start/stop window for later export.
// It is either idle or recording; there is no paused state. While
// recording, every sample offered via Append is kept in an unbounded
// sequence; capture size is bounded by session duration, not capacity.
type Session struct {
	mu       sync.Mutex
	active   bool
	captured []Sample
}

// NewSession returns an idle session with no captured samples.
func NewSession() *Session {
	return &Session{}
}

// Start begins a fresh recording, discarding any prior capture.
// Calling Start while already recording is a no-op.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.captured = nil
}

// Stop freezes the captured sequence and returns to idle.
// Calling Stop while idle is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Append records the sample if the session is active; otherwise it is
// dropped. Returns whether the sample was captured.
func (s *Session) Append(smp Sample) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return false
	}
	s.captured = append(s.captured, smp)
	return true
}

// Active reports whether the session is currently recording.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Captured returns a copy of the captured sample sequence.
func (s *Session) Captured() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sample, len(s.captured))
	copy(out, s.captured)
	return out
}

// Len returns the number of captured samples.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.captured)
}
