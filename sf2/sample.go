package sf2

// SampleLink identifies whether a sample is mono, part of a stereo
// pair, or sourced from ROM (SF2 spec 7.10 / original definitions.py
// SFSampleLink). ROM variants carry the 0x8000 bit.
type SampleLink uint16

const (
	LinkMono      SampleLink = 1
	LinkRight     SampleLink = 2
	LinkLeft      SampleLink = 4
	LinkLinked    SampleLink = 8
	LinkRomMono   SampleLink = 0x8001
	LinkRomRight  SampleLink = 0x8002
	LinkRomLeft   SampleLink = 0x8004
	LinkRomLinked SampleLink = 0x8008
)

// IsROM reports whether the link type names a ROM-resident sample,
// which this engine (no ROM device backing it) cannot play.
func (l SampleLink) IsROM() bool { return l&0x8000 != 0 }

// Sample is an immutable loaded SF2 sample: mono, signed 16-bit PCM at
// a native sample rate, with loop points and pitch metadata (spec.md
// section 3, "Sample (from SoundFont)").
type Sample struct {
	Name            string
	Data            []int16 // decoded signed 16-bit PCM, mono
	SampleRate      int
	OriginalPitch   uint8 // MIDI key the sample was recorded at
	PitchCorrection int8  // cents
	LoopStart       int   // sample index, relative to Data[0]
	LoopEnd         int   // sample index, exclusive
	SampleLink      SampleLink
	LinkedSampleID  int // index of the paired L/R sample, if linked
}
