// Package sf2 implements the SoundFont 2.01 data model and a RIFF-based
// file parser: presets, instruments, zones, generators, modulators and
// sample metadata as defined in the SF2 2.01 specification.
package sf2

// Generator identifies one of the SF2 2.01 generator parameters (SF2
// spec, section 8.1.3). The numeric values match the on-disk `pgen`/
// `igen` generator operator id.
type Generator uint16

const (
	GenStartAddrsOffset           Generator = 0
	GenEndAddrsOffset             Generator = 1
	GenStartloopAddrsOffset       Generator = 2
	GenEndloopAddrsOffset         Generator = 3
	GenStartAddrsCoarseOffset     Generator = 4
	GenModLfoToPitch              Generator = 5
	GenVibLfoToPitch              Generator = 6
	GenModEnvToPitch              Generator = 7
	GenInitialFilterFc            Generator = 8
	GenInitialFilterQ             Generator = 9
	GenModLfoToFilterFc           Generator = 10
	GenModEnvToFilterFc           Generator = 11
	GenEndAddrsCoarseOffset       Generator = 12
	GenModLfoToVolume             Generator = 13
	GenChorusEffectsSend          Generator = 15
	GenReverbEffectsSend          Generator = 16
	GenPan                        Generator = 17
	GenDelayModLFO                Generator = 21
	GenFreqModLFO                 Generator = 22
	GenDelayVibLFO                Generator = 23
	GenFreqVibLFO                 Generator = 24
	GenDelayModEnv                Generator = 25
	GenAttackModEnv               Generator = 26
	GenHoldModEnv                 Generator = 27
	GenDecayModEnv                Generator = 28
	GenSustainModEnv              Generator = 29
	GenReleaseModEnv              Generator = 30
	GenKeynumToModEnvHold         Generator = 31
	GenKeynumToModEnvDecay        Generator = 32
	GenDelayVolEnv                Generator = 33
	GenAttackVolEnv               Generator = 34
	GenHoldVolEnv                 Generator = 35
	GenDecayVolEnv                Generator = 36
	GenSustainVolEnv              Generator = 37
	GenReleaseVolEnv              Generator = 38
	GenKeynumToVolEnvHold         Generator = 39
	GenKeynumToVolEnvDecay        Generator = 40
	GenInstrument                 Generator = 41
	GenKeyRange                   Generator = 43
	GenVelRange                   Generator = 44
	GenStartloopAddrsCoarseOffset Generator = 45
	GenKeynum                     Generator = 46
	GenVelocity                   Generator = 47
	GenInitialAttenuation         Generator = 48
	GenEndloopAddrsCoarseOffset   Generator = 50
	GenCoarseTune                 Generator = 51
	GenFineTune                   Generator = 52
	GenSampleID                   Generator = 53
	GenSampleModes                Generator = 54
	GenScaleTuning                Generator = 56
	GenExclusiveClass             Generator = 57
	GenOverridingRootKey          Generator = 58
)

// nonAdditive is the set of generators that replace rather than sum
// across zones: a later zone's value overwrites the earlier one
// instead of adding to it (the SF2 spec restricts these to the zone
// that defines them).
var nonAdditive = map[Generator]bool{
	GenKeyRange:   true,
	GenVelRange:   true,
	GenSampleID:   true,
	GenInstrument: true,
}

// IsAdditive reports whether g sums across instrument and preset zones.
func (g Generator) IsAdditive() bool {
	return !nonAdditive[g]
}

// Range is a byte-pair range amount (keyRange/velRange), SF2 spec 7.5.
type Range struct {
	Lo, Hi uint8
}

// Contains reports whether v falls within [Lo, Hi] inclusive.
func (r Range) Contains(v int) bool {
	return v >= int(r.Lo) && v <= int(r.Hi)
}

// FullRange is the default range (0-127) used when a zone carries no
// explicit keyRange/velRange generator.
var FullRange = Range{Lo: 0, Hi: 127}

// Amount is a generator's value: either a signed 16-bit amount or a
// byte-pair range, depending on the generator (SF2 spec 7.5/8.1.3).
type Amount struct {
	Short int16
	Range Range
}

// AsRange interprets the amount as a Range (valid for keyRange/velRange).
func (a Amount) AsRange() Range { return a.Range }

// GeneratorMap is the resolved (or zone-local) set of generator values.
// Missing keys mean "not set"; defaults are overlaid explicitly by the
// resolver, never implicitly by a zero value, since 0 is a valid
// generator amount.
type GeneratorMap map[Generator]Amount

// Clone returns an independent copy suitable for modulator-engine
// scratch mutation (spec.md 4.3: "a scratch copy of the effective
// generator map").
func (m GeneratorMap) Clone() GeneratorMap {
	out := make(GeneratorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Short returns the short amount for g, or def if absent.
func (m GeneratorMap) Short(g Generator, def int16) int16 {
	if a, ok := m[g]; ok {
		return a.Short
	}
	return def
}

// RangeOf returns the range amount for g, or FullRange if absent.
func (m GeneratorMap) RangeOf(g Generator) Range {
	if a, ok := m[g]; ok {
		return a.Range
	}
	return FullRange
}

// AddShort adds (or sets, for non-additive generators) delta to the
// value held for g.
func (m GeneratorMap) AddShort(g Generator, delta int16) {
	if !g.IsAdditive() {
		m[g] = Amount{Short: delta}
		return
	}
	a := m[g]
	a.Short += delta
	m[g] = a
}

// Defaults returns the SF2 2.01 default generator map (section 8.1.3,
// "default value" column). Only generators with a non-zero default are
// listed; all others default to 0, which GeneratorMap.Short already
// returns via its `def` argument at call sites that care.
func Defaults() GeneratorMap {
	return GeneratorMap{
		GenInitialFilterFc:   {Short: 13500},
		GenDelayModLFO:       {Short: -12000},
		GenDelayVibLFO:       {Short: -12000},
		GenDelayModEnv:       {Short: -12000},
		GenAttackModEnv:      {Short: -12000},
		GenHoldModEnv:        {Short: -12000},
		GenDecayModEnv:       {Short: -12000},
		GenReleaseModEnv:     {Short: -12000},
		GenDelayVolEnv:       {Short: -12000},
		GenAttackVolEnv:      {Short: -12000},
		GenHoldVolEnv:        {Short: -12000},
		GenDecayVolEnv:       {Short: -12000},
		GenReleaseVolEnv:     {Short: -12000},
		GenKeyRange:          {Range: FullRange},
		GenVelRange:          {Range: FullRange},
		GenKeynum:            {Short: -1},
		GenVelocity:          {Short: -1},
		GenScaleTuning:       {Short: 100},
		GenOverridingRootKey: {Short: -1},
	}
}
