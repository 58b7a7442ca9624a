package audiosink

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// BeepSink plays packed 16-bit LE PCM periods through gopxl/beep's
// speaker, an alternate backend to OtoSink (spec.md section 6 treats
// the sink as swappable). It bridges the engine's push-based Write
// onto beep's pull-based Streamer the same way OtoSink bridges onto
// oto's io.Reader.
type BeepSink struct {
	channels int

	ch       chan []byte
	leftover []byte

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewBeepSink initializes the beep speaker at sampleRate and starts
// streaming from a fresh BeepSink.
func NewBeepSink(sampleRate, channels int) (*BeepSink, error) {
	rate := beep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(time.Second/20)); err != nil {
		return nil, err
	}
	s := &BeepSink{channels: channels, ch: make(chan []byte, 4)}
	speaker.Play(s)
	return s, nil
}

// Write enqueues a packed period, blocking if the internal queue is
// full.
func (s *BeepSink) Write(period []byte) error {
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

// Stream implements beep.Streamer, decoding queued 16-bit LE PCM into
// beep's float64 stereo frames. Mono periods are replicated to both
// output channels.
func (s *BeepSink) Stream(samples [][2]float64) (n int, ok bool) {
	frameBytes := 2 * s.channels
	for i := range samples {
		for len(s.leftover) < frameBytes {
			buf, chOk := <-s.ch
			if !chOk {
				return i, i > 0
			}
			s.leftover = append(s.leftover, buf...)
		}
		left := decodeInt16LE(s.leftover)
		var right float64
		if s.channels >= 2 {
			right = decodeInt16LE(s.leftover[2:])
		} else {
			right = left
		}
		samples[i][0] = left
		samples[i][1] = right
		s.leftover = s.leftover[frameBytes:]
	}
	return len(samples), true
}

func decodeInt16LE(b []byte) float64 {
	v := int16(uint16(b[0]) | uint16(b[1])<<8)
	return float64(v) / 32768
}

// Err implements beep.Streamer; this sink never fails mid-stream.
func (s *BeepSink) Err() error { return nil }

// Close stops feeding the speaker; further Writes return ErrClosed.
func (s *BeepSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.ch) })
	return nil
}
