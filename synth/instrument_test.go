package synth

import (
	"testing"

	"github.com/intuitionamiga/sfsynth/sf2"
)

func testFontForInstrument(exclusiveClass int16) (*sf2.SoundFont, *sf2.Preset) {
	sample := sf2.Sample{Name: "s", Data: make([]int16, 1000), SampleRate: 1000, OriginalPitch: 60}
	gens := sf2.GeneratorMap{
		sf2.GenKeyRange:    {Range: sf2.FullRange},
		sf2.GenVelRange:    {Range: sf2.FullRange},
		sf2.GenSampleID:    {Short: 0},
		sf2.GenSampleModes: {Short: 1},
	}
	if exclusiveClass != 0 {
		gens[sf2.GenExclusiveClass] = sf2.Amount{Short: exclusiveClass}
	}
	inst := sf2.Instrument{Name: "i", Zones: []sf2.Zone{{Generators: gens, InstrumentIndex: -1, SampleIndex: 0}}}
	presetZone := sf2.Zone{
		Generators:      sf2.GeneratorMap{sf2.GenKeyRange: {Range: sf2.FullRange}, sf2.GenVelRange: {Range: sf2.FullRange}, sf2.GenInstrument: {Short: 0}},
		InstrumentIndex: 0,
		SampleIndex:     -1,
	}
	preset := sf2.Preset{Name: "p", Zones: []sf2.Zone{presetZone}}
	font := &sf2.SoundFont{Presets: []sf2.Preset{preset}, Instruments: []sf2.Instrument{inst}, Samples: []sf2.Sample{sample}}
	return font, &font.Presets[0]
}

func TestInstrumentNoteOnRegistersAVoice(t *testing.T) {
	font, preset := testFontForInstrument(0)
	reg := NewRegistry()
	inst := NewInstrument(font, preset, AudioConfig{SampleRate: 1000, Channels: 1, PeriodSize: 32}, reg)

	inst.SendEvent(NoteOn{Key: 60, Velocity: 100})
	if reg.Len() != 1 {
		t.Fatalf("expected one registered voice after note-on, got %d", reg.Len())
	}
	if len(inst.active) != 1 {
		t.Fatalf("expected one active voice tracked, got %d", len(inst.active))
	}
}

func TestInstrumentNoteOffDetachesMatchingVoices(t *testing.T) {
	font, preset := testFontForInstrument(0)
	reg := NewRegistry()
	inst := NewInstrument(font, preset, AudioConfig{SampleRate: 1000, Channels: 1, PeriodSize: 32}, reg)

	inst.SendEvent(NoteOn{Key: 60, Velocity: 100})
	inst.SendEvent(NoteOn{Key: 64, Velocity: 100})
	inst.SendEvent(NoteOff{Key: 60})

	if len(inst.active) != 1 || inst.active[0].voice.Key() != 64 {
		t.Fatalf("expected only key 64 to remain active, got %+v", inst.active)
	}
	// The mix engine still holds the released voice via the registry.
	if reg.Len() != 2 {
		t.Fatalf("expected the released voice to remain registered until its envelope finishes, got %d", reg.Len())
	}
}

func TestInstrumentExclusiveClassCutsOffPreviousVoice(t *testing.T) {
	font, preset := testFontForInstrument(5)
	reg := NewRegistry()
	inst := NewInstrument(font, preset, AudioConfig{SampleRate: 1000, Channels: 1, PeriodSize: 32}, reg)

	inst.SendEvent(NoteOn{Key: 60, Velocity: 100})
	first := inst.active[0].voice
	inst.SendEvent(NoteOn{Key: 64, Velocity: 100})

	acc := make([]float64, 32)
	first.Collect(acc, 32, 1)
	// The default release (-12000 timecents, about 1 ms) is shorter than
	// one sample at 1 kHz, so the force-released voice passes through
	// RELEASE and reaches FINISHED on its first rendered sample; without
	// the cut-off it would be in SUSTAIN.
	if first.envelope.Stage() != StageFinished {
		t.Fatalf("expected the first voice in the exclusive class to be force-released through to FINISHED by the second note-on, stage=%v", first.envelope.Stage())
	}
}
