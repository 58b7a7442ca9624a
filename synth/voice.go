package synth

import (
	"math"

	"github.com/intuitionamiga/sfsynth/sf2"
)

// Voice renders one playing note from a resolved sample, generator
// map and modulator list (spec.md section 4.4). Its internal state
// (position, envelope, filter) is mutated only by the mix thread;
// Release is the sole entry point safe to call from the control
// thread concurrently with Collect.
type Voice struct {
	key, velocity  int
	exclusiveClass int16

	data               []int16 // the generator-windowed slice of the sample's PCM
	loopStart, loopEnd int     // relative to data[0]
	looping            bool

	totalRatio float64
	position   float64

	envelope    *Envelope
	attenuation float64 // linear gain from initialAttenuation

	filterAlpha float64
	filterLast  float64

	finished bool
}

// NewVoice builds a Voice from a resolved note, applying the
// generator windowing, tuning and envelope/filter setup described in
// spec.md section 4.4's note-on initialization.
func NewVoice(rn *ResolvedNote, key, velocity int, cfg AudioConfig) *Voice {
	gens := rn.Generators
	sample := rn.Sample

	dataStart := int(gens.Short(sf2.GenStartAddrsOffset, 0)) + int(gens.Short(sf2.GenStartAddrsCoarseOffset, 0))*32768
	dataEnd := len(sample.Data) + int(gens.Short(sf2.GenEndAddrsOffset, 0)) + int(gens.Short(sf2.GenEndAddrsCoarseOffset, 0))*32768
	if dataStart < 0 {
		dataStart = 0
	}
	if dataEnd > len(sample.Data) {
		dataEnd = len(sample.Data)
	}
	if dataEnd < dataStart {
		dataEnd = dataStart
	}
	data := sample.Data[dataStart:dataEnd]

	loopStartOffset := int(gens.Short(sf2.GenStartloopAddrsOffset, 0)) + int(gens.Short(sf2.GenStartloopAddrsCoarseOffset, 0))*32768
	loopEndOffset := int(gens.Short(sf2.GenEndloopAddrsOffset, 0)) + int(gens.Short(sf2.GenEndloopAddrsCoarseOffset, 0))*32768
	loopStart := sample.LoopStart + loopStartOffset - dataStart
	loopEnd := sample.LoopEnd + loopEndOffset - dataStart

	sampleModes := gens.Short(sf2.GenSampleModes, 0)
	looping := sampleModes == 1 || sampleModes == 3

	effectiveRootKey := gens.Short(sf2.GenOverridingRootKey, -1)
	if effectiveRootKey < 0 {
		effectiveRootKey = int16(sample.OriginalPitch)
	}
	scaleTuning := float64(gens.Short(sf2.GenScaleTuning, 100))
	hardPitchDiff := float64(key-int(effectiveRootKey))*scaleTuning +
		float64(sample.PitchCorrection) +
		float64(gens.Short(sf2.GenCoarseTune, 0))*100 +
		float64(gens.Short(sf2.GenFineTune, 0))
	totalRatio := float64(sample.SampleRate) / float64(cfg.SampleRate) * math.Pow(2, hardPitchDiff/1200)

	envParams := EnvelopeParams{
		Delay:   timecentsToSeconds(gens.Short(sf2.GenDelayVolEnv, -12000)),
		Attack:  timecentsToSeconds(gens.Short(sf2.GenAttackVolEnv, -12000)),
		Hold:    timecentsToSeconds(gens.Short(sf2.GenHoldVolEnv, -12000)),
		Decay:   timecentsToSeconds(gens.Short(sf2.GenDecayVolEnv, -12000)),
		Release: timecentsToSeconds(gens.Short(sf2.GenReleaseVolEnv, -12000)),
		Sustain: centibelsToLinear(gens.Short(sf2.GenSustainVolEnv, 0)),
	}

	fc := gens.Short(sf2.GenInitialFilterFc, 13500)
	cutoffHz := math.Pow(2, float64(fc)/1200) * 8.176
	tau := 1 / (2 * math.Pi * cutoffHz)
	ts := 1 / float64(cfg.SampleRate)

	return &Voice{
		key:            key,
		velocity:       velocity,
		exclusiveClass: rn.ExclusiveClass,
		data:           data,
		loopStart:      loopStart,
		loopEnd:        loopEnd,
		looping:        looping,
		totalRatio:     totalRatio,
		envelope:       NewEnvelope(envParams, float64(cfg.SampleRate)),
		attenuation:    centibelsToLinear(gens.Short(sf2.GenInitialAttenuation, 0)),
		filterAlpha:    ts / (ts + tau),
	}
}

func timecentsToSeconds(tc int16) float64 { return math.Pow(2, float64(tc)/1200) }

func centibelsToLinear(cb int16) float64 { return math.Pow(10, -float64(cb)/200) }

// Key returns the MIDI key this voice was triggered with, for
// note-off matching (spec.md section 4.7).
func (v *Voice) Key() int { return v.key }

// ExclusiveClass returns the resolved exclusiveClass generator value;
// zero means "no exclusive group" (spec.md section 5.4 supplement).
func (v *Voice) ExclusiveClass() int16 { return v.exclusiveClass }

// Finished reports whether this voice has nothing left to render: its
// envelope completed, or a non-looping sample ran out.
func (v *Voice) Finished() bool { return v.finished }

// Release triggers the volume envelope's release stage. Safe to call
// from the control thread while Collect runs on the mix thread.
func (v *Voice) Release() { v.envelope.Release() }

// EndLoop disables wraparound: the voice will play through its
// current tail and become Finished without looping further (spec.md
// section 4.6, "end_loop"). Instrument's note-off path does not call
// it, so a sampleModes 3 voice keeps looping through its release just
// like a sampleModes 1 voice.
func (v *Voice) EndLoop() { v.looping = false }

// Collect renders up to frames samples into acc (length frames*
// channels, accumulated in place — spec.md section 4.5 step 3), mono
// replicated to every output channel. It advances position, envelope
// and filter state, and stops early once the envelope finishes or (for
// a non-looping voice) the sample data runs out.
func (v *Voice) Collect(acc []float64, frames, channels int) {
	if v.finished || v.envelope.Finished() {
		v.finished = true
		return
	}

	for i := 0; i < frames; i++ {
		if !v.looping && v.position >= float64(len(v.data))-math.Ceil(v.totalRatio) {
			v.finished = true
			break
		}

		idx := int(v.position)
		if idx < 0 || idx >= len(v.data) {
			v.finished = true
			break
		}
		frac := v.position - float64(idx)

		nextIdx := idx + 1
		if v.looping && nextIdx >= v.loopEnd {
			nextIdx = v.loopStart + (nextIdx - v.loopEnd)
		}
		var s1 float64
		if nextIdx >= 0 && nextIdx < len(v.data) {
			s1 = float64(v.data[nextIdx])
		}

		sample := float64(v.data[idx]) + (s1-float64(v.data[idx]))*frac
		sample *= v.envelope.Value() * v.attenuation

		y := v.filterAlpha*sample + (1-v.filterAlpha)*v.filterLast
		v.filterLast = y

		base := i * channels
		for c := 0; c < channels; c++ {
			acc[base+c] += y
		}

		v.position += v.totalRatio
		if v.looping && v.position > float64(v.loopEnd) {
			v.position = float64(v.loopStart) + (v.position - float64(v.loopEnd))
		}

		v.envelope.Advance()
		if v.envelope.Finished() {
			v.finished = true
			break
		}
	}
}
