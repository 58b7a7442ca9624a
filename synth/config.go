// Package synth implements the core SF2 rendering engine: parameter
// resolution, envelope generation, modulator evaluation, per-voice
// sample rendering, and the fixed-period mix engine that feeds an
// audio sink (spec.md sections 3-5).
package synth

import "fmt"

// AudioConfig is fixed for the lifetime of an engine (spec.md section
// 3, "AudioConfig"): sample rate, channel count and period size.
type AudioConfig struct {
	SampleRate int // Hz
	Channels   int // power of 2, >= 1
	PeriodSize int // frames per period
}

// PeriodSeconds returns the period length used for queue sizing,
// PeriodSize / (Channels × SampleRate). With more than one channel
// this is shorter than the time PeriodSize frames take to play.
func (c AudioConfig) PeriodSeconds() float64 {
	return float64(c.PeriodSize) / (float64(c.Channels) * float64(c.SampleRate))
}

// Validate checks the invariants AudioConfig must hold.
func (c AudioConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("synth: sample rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 || c.Channels&(c.Channels-1) != 0 {
		return fmt.Errorf("synth: channel count must be a power of 2 >= 1, got %d", c.Channels)
	}
	if c.PeriodSize <= 0 {
		return fmt.Errorf("synth: period size must be positive, got %d", c.PeriodSize)
	}
	return nil
}

// EngineConfig holds engine-level (not per-period) tuning: the
// backpressure queue's target latency, and master output gain.
type EngineConfig struct {
	MaxLatency   float64 // seconds
	MasterVolume float64 // 0..1
}

// QueueCapacity returns the number of periods the bounded queue must
// hold to realize MaxLatency at the given AudioConfig (spec.md
// section 3: "Queue capacity = ceil(max_latency / period_length)").
func (e EngineConfig) QueueCapacity(cfg AudioConfig) int {
	periodLen := cfg.PeriodSeconds()
	if periodLen <= 0 {
		return 1
	}
	n := int(e.MaxLatency/periodLen + 0.999999)
	if n < 1 {
		n = 1
	}
	return n
}

// DefaultEngineConfig matches the values the original Python
// synthesizer hardcodes (wiske/synthesizer.py: period_size=128,
// max_latency=0.0025) scaled to a more forgiving default latency
// for a general-purpose Go engine.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{MaxLatency: 0.05, MasterVolume: 1.0}
}

// DefaultAudioConfig is a conventional CD-quality mono-voice, stereo
// output configuration.
func DefaultAudioConfig() AudioConfig {
	return AudioConfig{SampleRate: 44100, Channels: 2, PeriodSize: 256}
}
