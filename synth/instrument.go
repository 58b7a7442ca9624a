package synth

import (
	"log"

	"github.com/intuitionamiga/sfsynth/sf2"
)

// NoteOn is a note-on event (spec.md section 4.7).
type NoteOn struct {
	Key, Velocity int
}

// NoteOff is a note-off event (spec.md section 4.7).
type NoteOff struct {
	Key int
}

// activeVoice tracks one voice the instrument's front-end still holds
// after a note-on, alongside its registry id.
type activeVoice struct {
	id    uint64
	voice *Voice
}

// Instrument is the event-facing front-end bound to one preset: it
// resolves note-on events into voices, registers them with the mix
// engine's registry, and matches note-off events back to their voices
// (spec.md section 4.7).
type Instrument struct {
	font   *sf2.SoundFont
	preset *sf2.Preset
	audio  AudioConfig
	ctrl   ControllerState

	registry *Registry

	active []activeVoice
}

// NewInstrument binds a preset from font to a registry. bank/preset
// lookup failures are the caller's responsibility (spec.md section 6
// names PresetNotFoundError for that step).
func NewInstrument(font *sf2.SoundFont, preset *sf2.Preset, audio AudioConfig, registry *Registry) *Instrument {
	return &Instrument{font: font, preset: preset, audio: audio, registry: registry}
}

// SendEvent dispatches a NoteOn or NoteOff (spec.md section 4.7).
func (inst *Instrument) SendEvent(event any) {
	switch e := event.(type) {
	case NoteOn:
		inst.noteOn(e.Key, e.Velocity)
	case NoteOff:
		inst.noteOff(e.Key)
	}
}

func (inst *Instrument) noteOn(key, velocity int) {
	rn, err := ResolveNote(inst.font, inst.preset, key, velocity)
	if err != nil {
		log.Printf("synth: note-on key=%d velocity=%d: %v", key, velocity, err)
		return
	}

	inst.pruneFinished()
	inst.killExclusiveClass(rn.ExclusiveClass)

	inst.ctrl.NoteOnVelocity = velocity
	inst.ctrl.NoteOnKeyNum = key
	rn.Generators = ApplyModulators(rn.Generators, rn.Modulators, inst.ctrl)

	v := NewVoice(rn, key, velocity, inst.audio)
	id := inst.registry.AddCustom(
		func(acc []float64, frames, channels int) { v.Collect(acc, frames, channels) },
		v.Finished,
	)
	inst.active = append(inst.active, activeVoice{id: id, voice: v})
}

// pruneFinished drops voices that have finished rendering (envelope
// complete or sample exhausted) from the active list, so a note held
// open by the registry for its release tail doesn't also keep the
// front-end's bookkeeping growing forever (e.g. a percussive one-shot
// whose envelope completes before note-off).
func (inst *Instrument) pruneFinished() {
	kept := inst.active[:0]
	for _, av := range inst.active {
		if !av.voice.Finished() {
			kept = append(kept, av)
		}
	}
	inst.active = kept
}

// killExclusiveClass force-releases every currently active voice
// sharing class (when class != 0), per SF2's exclusiveClass semantics
// (SPEC_FULL.md section 5.4, supplemented from the generator's
// original_source usage): a new note in the same exclusive group cuts
// off the previous one instead of layering over it.
func (inst *Instrument) killExclusiveClass(class int16) {
	if class == 0 {
		return
	}
	for _, av := range inst.active {
		if av.voice.ExclusiveClass() == class {
			av.voice.Release()
		}
	}
}

// noteOff walks the active voice list in reverse, releasing and
// detaching every voice whose key matches (spec.md section 4.7). The
// mix engine still holds detached voices via the registry until their
// envelopes finish.
func (inst *Instrument) noteOff(key int) {
	kept := make([]activeVoice, 0, len(inst.active))
	for i := len(inst.active) - 1; i >= 0; i-- {
		av := inst.active[i]
		if av.voice.Key() == key {
			av.voice.Release()
		} else {
			kept = append(kept, av)
		}
	}
	inst.active = kept
}
