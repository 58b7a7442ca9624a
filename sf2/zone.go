package sf2

// Zone is a (key-range, velocity-range)-gated bundle of generators and
// modulators within a preset or instrument (spec.md GLOSSARY).
type Zone struct {
	Generators GeneratorMap
	Modulators []Modulator

	// Instrument index (preset zones) or Sample index (instrument
	// zones); -1 when the zone carries no such generator (a global
	// zone).
	InstrumentIndex int
	SampleIndex     int
}

// KeyRange returns the zone's key range, defaulting to full range.
func (z Zone) KeyRange() Range { return z.Generators.RangeOf(GenKeyRange) }

// VelRange returns the zone's velocity range, defaulting to full range.
func (z Zone) VelRange() Range { return z.Generators.RangeOf(GenVelRange) }

// Matches reports whether the zone's key/velocity ranges contain
// (key, velocity).
func (z Zone) Matches(key, velocity int) bool {
	return z.KeyRange().Contains(key) && z.VelRange().Contains(velocity)
}

// IsGlobal reports whether the zone carries no instrument/sample
// reference (a preset or instrument "global zone", SF2 spec 7.3/7.6).
func (z Zone) IsGlobal() bool {
	return z.InstrumentIndex < 0 && z.SampleIndex < 0
}

// Preset is a user-selectable sound; its zones reference instruments.
type Preset struct {
	Name       string
	Bank       int
	PresetNum  int
	Zones      []Zone // non-global zones only
	GlobalZone *Zone  // nil if the preset has no global zone
}

// Instrument is a layer whose zones reference samples.
type Instrument struct {
	Name       string
	Zones      []Zone // non-global zones only
	GlobalZone *Zone  // nil if the instrument has no global zone
}

// SoundFont is the fully parsed contents of an SF2 file: presets,
// instruments and samples, index-addressable the way generators
// reference them (sampleID/instrument indices).
type SoundFont struct {
	Presets     []Preset
	Instruments []Instrument
	Samples     []Sample
}

// FindPreset returns the preset matching (bank, presetNum), or false.
func (s *SoundFont) FindPreset(bank, presetNum int) (*Preset, bool) {
	for i := range s.Presets {
		if s.Presets[i].Bank == bank && s.Presets[i].PresetNum == presetNum {
			return &s.Presets[i], true
		}
	}
	return nil, false
}

// MatchZone selects the zone among zones whose key/velocity range
// contains (key, velocity), falling back to global if given and no
// specific zone matches. This implements the matching rule shared by
// spec.md 4.1 steps 1 and 2.
func MatchZone(zones []Zone, global *Zone, key, velocity int) (Zone, bool) {
	for _, z := range zones {
		if z.Matches(key, velocity) {
			return z, true
		}
	}
	if global != nil {
		return *global, true
	}
	return Zone{}, false
}
