package sf2

// Controller identifies a modulator source controller (SF2 spec 8.2.1).
type Controller uint8

const (
	CtrlNoController    Controller = 0
	CtrlNoteOnVelocity  Controller = 2
	CtrlNoteOnKeyNum    Controller = 3
	CtrlPolyPressure    Controller = 10
	CtrlChannelPressure Controller = 13
	CtrlPitchWheel      Controller = 14
	CtrlPitchWheelSens  Controller = 16
	CtrlLink            Controller = 127
)

// Direction is the sign applied to a mapped controller value.
type Direction uint8

const (
	DirPositive Direction = 0
	DirNegative Direction = 1
)

// Polarity selects unipolar (0..1) or bipolar (-1..1) mapping.
type Polarity uint8

const (
	PolarityUnipolar Polarity = 0
	PolarityBipolar  Polarity = 1
)

// CurveType selects the response curve applied to a normalized input.
type CurveType uint8

const (
	CurveLinear  CurveType = 0
	CurveConcave CurveType = 1
	CurveConvex  CurveType = 2
	CurveSwitch  CurveType = 3
)

// Transform is applied to the product of mapped source values and the
// modulator amount, before it is added to the destination generator.
type Transform uint8

const (
	TransformLinear        Transform = 0
	TransformAbsoluteValue Transform = 2
)

// Source is one modulator input: a controller plus how its raw value
// (0-127, or a MIDI 14-bit pitch wheel value pre-scaled to 0-127) maps
// to a signed contribution.
type Source struct {
	Controller Controller
	Direction  Direction
	Polarity   Polarity
	Curve      CurveType
}

// Modulator is a single SF2 modulator rule (SF2 spec 8.2): it routes a
// primary source and an optional amount-source through amount and
// transform into a destination generator.
type Modulator struct {
	Src         Source
	AmountSrc   Source
	Destination Generator
	Amount      int16
	Transform   Transform
}

// Key identifies a modulator for the "replace on duplicate key" union
// rule in spec.md 4.1 step 5.
type ModulatorKey struct {
	Src         Source
	AmountSrc   Source
	Destination Generator
	Transform   Transform
}

func (m Modulator) Key() ModulatorKey {
	return ModulatorKey{Src: m.Src, AmountSrc: m.AmountSrc, Destination: m.Destination, Transform: m.Transform}
}

// DefaultModulators returns the SF2 2.01 "default modulators" that
// apply to every preset unless explicitly overridden (SF2 spec 8.4.1).
// A conformant synth always includes these alongside a preset's own
// modulators; we model them as the seed of the instrument-zone
// modulator map before the union rule in spec.md 4.1 step 5 runs.
func DefaultModulators() []Modulator {
	return []Modulator{
		{
			Src:         Source{Controller: CtrlNoteOnVelocity, Direction: DirNegative, Polarity: PolarityUnipolar, Curve: CurveConcave},
			AmountSrc:   Source{Controller: CtrlNoController},
			Destination: GenInitialAttenuation,
			Amount:      960,
			Transform:   TransformLinear,
		},
		{
			Src:         Source{Controller: CtrlChannelPressure, Direction: DirPositive, Polarity: PolarityUnipolar, Curve: CurveLinear},
			AmountSrc:   Source{Controller: CtrlNoController},
			Destination: GenVibLfoToPitch,
			Amount:      50,
			Transform:   TransformLinear,
		},
		{
			Src:         Source{Controller: CtrlPitchWheel, Direction: DirPositive, Polarity: PolarityBipolar, Curve: CurveLinear},
			AmountSrc:   Source{Controller: CtrlPitchWheelSens, Direction: DirPositive, Polarity: PolarityUnipolar, Curve: CurveLinear},
			Destination: GenFineTune,
			Amount:      12700,
			Transform:   TransformLinear,
		},
	}
}
