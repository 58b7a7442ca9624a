package synth

import "math"

// PeriodWriter is the sink-facing side of the mix engine: one
// interleaved, signed-16-bit little-endian packed period per call
// (spec.md section 4.5 step 5). The audiosink backends and Sink
// implement this.
type PeriodWriter interface {
	Write(period []byte) error
}

// Mixer owns the fixed-period render loop: accumulate every live
// registry entry, apply master volume, clamp, pack to 16-bit PCM, and
// return the period to the caller, which queues it for the sink
// (spec.md section 4.5). It is
// driven from a single dedicated mix thread; Registry is the only
// state it shares with the control thread.
type Mixer struct {
	audio    AudioConfig
	engine   EngineConfig
	registry *Registry

	acc    []float64
	period []byte
}

// NewMixer builds a Mixer for the given configuration and registry.
func NewMixer(audio AudioConfig, engine EngineConfig, registry *Registry) *Mixer {
	return &Mixer{
		audio:    audio,
		engine:   engine,
		registry: registry,
		acc:      make([]float64, audio.PeriodSize*audio.Channels),
		period:   make([]byte, audio.PeriodSize*audio.Channels*2),
	}
}

// RenderPeriod produces one packed period: accumulate, apply master
// volume, clamp to the 16-bit range, and pack little-endian (spec.md
// section 4.5 steps 2-4). The returned slice aliases the Mixer's
// internal buffer and is only valid until the next RenderPeriod call.
func (m *Mixer) RenderPeriod() []byte {
	for i := range m.acc {
		m.acc[i] = 0
	}

	m.registry.Collect(m.acc, m.audio.PeriodSize, m.audio.Channels)

	const maxSample = 32767
	const minSample = -32767
	for i, v := range m.acc {
		v *= m.engine.MasterVolume
		if v > maxSample {
			v = maxSample
		} else if v < minSample {
			v = minSample
		}
		s := int16(math.Round(v))
		m.period[2*i] = byte(uint16(s))
		m.period[2*i+1] = byte(uint16(s) >> 8)
	}

	return m.period
}

// MaybeGC runs the registry's bounded GC at most once per period,
// preferring to do so only when the sink queue is nearly saturated so
// GC work is amortized against otherwise-idle backpressure stalls
// (spec.md section 4.5 step 1).
func (m *Mixer) MaybeGC(queueLen, queueCap int) {
	if queueCap <= 0 {
		return
	}
	nearFull := queueLen*10 >= queueCap*9
	if nearFull {
		m.registry.GC()
	}
}
