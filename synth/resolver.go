package synth

import (
	"github.com/intuitionamiga/sfsynth/sf2"
)

// ResolvedNote is the output of the Parameter Resolver (spec.md
// section 4.1): the effective generator map, modulator list, and the
// sample a note-on should render from.
type ResolvedNote struct {
	Sample     *sf2.Sample
	Generators sf2.GeneratorMap
	Modulators []sf2.Modulator
	// ExclusiveClass is the resolved exclusiveClass generator (SF2
	// spec 8.1.3 #57; original definitions.py). Zero means "no
	// exclusive group" (spec.md section 5.4 supplement).
	ExclusiveClass int16
}

// ResolveNote implements spec.md section 4.1 steps 1-6: select the
// matching preset zone, then the matching instrument zone it names,
// compose generators (instrument overlay + preset additive overlay on
// top of SF2 defaults), and union the zones' modulators.
func ResolveNote(font *sf2.SoundFont, preset *sf2.Preset, key, velocity int) (*ResolvedNote, error) {
	presetZone, ok := sf2.MatchZone(preset.Zones, preset.GlobalZone, key, velocity)
	if !ok {
		return nil, ErrNoSample
	}

	instIdx := presetZone.InstrumentIndex
	if instIdx < 0 && preset.GlobalZone != nil {
		instIdx = preset.GlobalZone.InstrumentIndex
	}
	if instIdx < 0 || instIdx >= len(font.Instruments) {
		return nil, ErrNoSample
	}
	instrument := &font.Instruments[instIdx]

	instZone, ok := sf2.MatchZone(instrument.Zones, instrument.GlobalZone, key, velocity)
	if !ok {
		return nil, ErrNoSample
	}

	sampleIdx := instZone.SampleIndex
	if sampleIdx < 0 {
		return nil, ErrNoSample
	}
	if sampleIdx >= len(font.Samples) {
		return nil, ErrNoSample
	}
	sample := &font.Samples[sampleIdx]

	gens := sf2.Defaults()
	// Overlay instrument-zone values (and its global zone, underneath
	// the specific zone).
	if instrument.GlobalZone != nil {
		overlay(gens, instrument.GlobalZone.Generators)
	}
	overlay(gens, instZone.Generators)

	// Preset-zone generators add additively on top (spec.md section
	// 4.1 step 4; non-additive generators are restricted by the SF2
	// spec to the zone defining them, so they never appear here).
	if preset.GlobalZone != nil {
		addAll(gens, preset.GlobalZone.Generators)
	}
	addAll(gens, presetZone.Generators)

	var instMods []sf2.Modulator
	if instrument.GlobalZone != nil {
		instMods = append(instMods, instrument.GlobalZone.Modulators...)
	}
	instMods = append(instMods, instZone.Modulators...)
	instMods = append(sf2.DefaultModulators(), instMods...)

	var presetMods []sf2.Modulator
	if preset.GlobalZone != nil {
		presetMods = append(presetMods, preset.GlobalZone.Modulators...)
	}
	presetMods = append(presetMods, presetZone.Modulators...)

	mods := UnionModulators(instMods, presetMods)

	return &ResolvedNote{
		Sample:         sample,
		Generators:     gens,
		Modulators:     mods,
		ExclusiveClass: gens.Short(sf2.GenExclusiveClass, 0),
	}, nil
}

// overlay copies every generator present in src into dst, replacing
// whatever dst held (used for the instrument-zone layer, which
// overrides rather than adds on top of the SF2 defaults).
func overlay(dst, src sf2.GeneratorMap) {
	for g, a := range src {
		dst[g] = a
	}
}

// addAll adds every (additive) generator in src onto dst, or replaces
// it when the generator is in the non-additive set.
func addAll(dst, src sf2.GeneratorMap) {
	for g, a := range src {
		if g.IsAdditive() {
			cur := dst[g]
			cur.Short += a.Short
			dst[g] = cur
		} else {
			dst[g] = a
		}
	}
}
