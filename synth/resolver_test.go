package synth

import (
	"testing"

	"github.com/intuitionamiga/sfsynth/sf2"
)

func fullRangeGens(extra sf2.GeneratorMap) sf2.GeneratorMap {
	m := sf2.GeneratorMap{
		sf2.GenKeyRange: {Range: sf2.FullRange},
		sf2.GenVelRange: {Range: sf2.FullRange},
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func buildFont(t *testing.T) (*sf2.SoundFont, *sf2.Preset) {
	t.Helper()
	sample := sf2.Sample{Name: "s", Data: []int16{0, 100, 200, 300, 0}, SampleRate: 44100, OriginalPitch: 60}
	instZone := sf2.Zone{
		Generators:      fullRangeGens(sf2.GeneratorMap{sf2.GenSampleID: {Short: 0}, sf2.GenCoarseTune: {Short: 2}}),
		InstrumentIndex: -1,
		SampleIndex:     0,
	}
	inst := sf2.Instrument{Name: "inst", Zones: []sf2.Zone{instZone}}
	presetZone := sf2.Zone{
		Generators:      fullRangeGens(sf2.GeneratorMap{sf2.GenInstrument: {Short: 0}, sf2.GenCoarseTune: {Short: 3}}),
		InstrumentIndex: 0,
		SampleIndex:     -1,
	}
	preset := sf2.Preset{Name: "preset", Bank: 0, PresetNum: 0, Zones: []sf2.Zone{presetZone}}
	font := &sf2.SoundFont{
		Presets:     []sf2.Preset{preset},
		Instruments: []sf2.Instrument{inst},
		Samples:     []sf2.Sample{sample},
	}
	return font, &font.Presets[0]
}

func TestResolveNoteComposesGeneratorsAdditively(t *testing.T) {
	font, preset := buildFont(t)
	rn, err := ResolveNote(font, preset, 60, 100)
	if err != nil {
		t.Fatalf("ResolveNote: %v", err)
	}
	if got := rn.Generators.Short(sf2.GenCoarseTune, 0); got != 5 {
		t.Fatalf("coarseTune = %d, want 5 (2 instrument + 3 preset)", got)
	}
	if rn.Sample.Name != "s" {
		t.Fatalf("resolved wrong sample: %q", rn.Sample.Name)
	}
}

func TestResolveNoteNoMatchReturnsErrNoSample(t *testing.T) {
	font, preset := buildFont(t)
	// key range excludes everything once we replace the zone's range.
	preset.Zones[0].Generators[sf2.GenKeyRange] = sf2.Amount{Range: sf2.Range{Lo: 10, Hi: 20}}
	_, err := ResolveNote(font, preset, 60, 100)
	if err != ErrNoSample {
		t.Fatalf("err = %v, want ErrNoSample", err)
	}
}

func TestResolveNoteDefaultsFillOmittedGenerators(t *testing.T) {
	font, preset := buildFont(t)
	rn, err := ResolveNote(font, preset, 60, 100)
	if err != nil {
		t.Fatalf("ResolveNote: %v", err)
	}
	if got := rn.Generators.Short(sf2.GenInitialFilterFc, 0); got != 13500 {
		t.Fatalf("initialFilterFc should fall back to the SF2 default, got %d", got)
	}
}
