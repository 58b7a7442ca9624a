//go:build !headless

package audiosink

import (
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoSink plays packed 16-bit LE PCM periods through oto/v3. Periods
// handed to Write are queued onto a bounded channel that the oto
// player's pull-based Read drains; this bridges the engine's push
// model onto oto's io.Reader contract the same way a ring buffer
// bridges a synthesis loop to a pull-based player.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player

	ch       chan []byte
	leftover []byte

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewOtoSink opens the default audio device at sampleRate/channels,
// signed 16-bit LE, and starts playback.
func NewOtoSink(sampleRate, channels int) (*OtoSink, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   0, // let oto pick a sensible default
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready

	s := &OtoSink{ch: make(chan []byte, 4)}
	s.ctx = ctx
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// Read implements io.Reader for oto.Player, pulling queued periods.
func (s *OtoSink) Read(p []byte) (int, error) {
	for len(s.leftover) == 0 {
		buf, ok := <-s.ch
		if !ok {
			return 0, io.EOF
		}
		s.leftover = buf
	}
	n := copy(p, s.leftover)
	s.leftover = s.leftover[n:]
	return n, nil
}

// Write enqueues a packed period, blocking if the internal queue is
// full (spec.md section 4.5's backpressure point, one layer down).
func (s *OtoSink) Write(period []byte) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	cp := make([]byte, len(period))
	copy(cp, period)
	s.ch <- cp
	return nil
}

// Close stops playback and releases the oto player.
func (s *OtoSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.ch) })
	if s.player != nil {
		return s.player.Close()
	}
	return nil
}
