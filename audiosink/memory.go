// Package audiosink implements the engine-facing audio backends: a
// real-time oto/v3 sink, an alternate gopxl/beep sink, and an
// in-memory sink for tests and offline rendering.
package audiosink

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("audiosink: write to closed sink")

// MemorySink accumulates packed periods in memory. It never blocks,
// making it useful for tests and for headless rendering to a file.
type MemorySink struct {
	mu      sync.Mutex
	periods [][]byte
	closed  bool
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write appends a copy of period.
func (s *MemorySink) Write(period []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	cp := make([]byte, len(period))
	copy(cp, period)
	s.periods = append(s.periods, cp)
	return nil
}

// Close marks the sink closed; further Writes return ErrClosed.
func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Periods returns every period written so far, in order.
func (s *MemorySink) Periods() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.periods))
	copy(out, s.periods)
	return out
}

// Flatten concatenates every period into one contiguous PCM buffer.
func (s *MemorySink) Flatten() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int
	for _, p := range s.periods {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range s.periods {
		out = append(out, p...)
	}
	return out
}
