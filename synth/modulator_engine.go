package synth

import (
	"math"

	"github.com/intuitionamiga/sfsynth/sf2"
)

// ControllerState holds the latest MIDI-style controller values
// driving modulator evaluation (spec.md section 4.3). Raw values are
// 0-127 except PitchWheel, which is the standard 14-bit MIDI range
// re-centered so 8192 is "no bend".
type ControllerState struct {
	NoteOnVelocity  int
	NoteOnKeyNum    int
	PolyPressure    int
	ChannelPressure int
	PitchWheel      int // 0-16383, center 8192
	PitchWheelSens  int // semitones, mapped 0-127 via *1 (already 0-127 range)
}

func (c ControllerState) valueFor(ctrl sf2.Controller) int {
	switch ctrl {
	case sf2.CtrlNoController:
		return 0
	case sf2.CtrlNoteOnVelocity:
		return c.NoteOnVelocity
	case sf2.CtrlNoteOnKeyNum:
		return c.NoteOnKeyNum
	case sf2.CtrlPolyPressure:
		return c.PolyPressure
	case sf2.CtrlChannelPressure:
		return c.ChannelPressure
	case sf2.CtrlPitchWheel:
		return c.PitchWheel >> 7 // 14-bit -> 7-bit for the shared curve math
	case sf2.CtrlPitchWheelSens:
		return c.PitchWheelSens
	default:
		return 0
	}
}

// curve evaluates the normalized response for x in [0,1] (spec.md
// section 4.3 curve definitions).
func curve(t sf2.CurveType, x float64) float64 {
	switch t {
	case sf2.CurveConvex:
		return math.Log10(9*x+1)
	case sf2.CurveConcave:
		return 1 - curve(sf2.CurveConvex, 1-x)
	case sf2.CurveSwitch:
		if x < 0.5 {
			return 0
		}
		return 1
	default: // CurveLinear
		return x
	}
}

// mapSource normalizes a raw 0-127 controller reading through a
// source's polarity/direction/curve (spec.md section 4.3 step 1/2).
// When src's controller is noController, the amount-source mapping
// defaults to 1 per spec.md: "if the amount-source controller is
// noController, the mapped value is 1."
func mapSource(src sf2.Source, raw int, isAmountSource bool) float64 {
	if isAmountSource && src.Controller == sf2.CtrlNoController {
		return 1
	}
	v := float64(raw)
	switch src.Polarity {
	case sf2.PolarityBipolar:
		var mapped float64
		if v <= 64 {
			mapped = -curve(src.Curve, (64-v)/64)
		} else {
			mapped = curve(src.Curve, (v-64)/64)
		}
		if src.Direction == sf2.DirNegative {
			mapped = -mapped
		}
		return mapped
	default: // unipolar
		x := v / 128
		mapped := curve(src.Curve, x)
		if src.Direction == sf2.DirNegative {
			mapped = curve(src.Curve, 1-x)
		}
		return mapped
	}
}

// transform applies the modulator's post-multiply transform (spec.md
// section 4.3 step 4).
func applyTransform(t sf2.Transform, x float64) float64 {
	if t == sf2.TransformAbsoluteValue {
		return math.Abs(x)
	}
	return x
}

// ApplyModulators evaluates every modulator against ctrl and sums
// their contributions into a cloned copy of base (spec.md section
// 4.3: "The result is added to its destination generator in a
// scratch copy of the effective generator map"). base is never
// mutated.
func ApplyModulators(base sf2.GeneratorMap, mods []sf2.Modulator, ctrl ControllerState) sf2.GeneratorMap {
	out := base.Clone()
	for _, m := range mods {
		primary := mapSource(m.Src, ctrl.valueFor(m.Src.Controller), false)
		secondary := mapSource(m.AmountSrc, ctrl.valueFor(m.AmountSrc.Controller), true)
		value := primary * secondary * float64(m.Amount)
		value = applyTransform(m.Transform, value)
		out.AddShort(m.Destination, int16(value))
	}
	return out
}

// UnionModulators merges instrument-zone and preset-zone modulator
// lists per spec.md section 4.1 step 5: the union keyed by (source,
// amount-source, destination, transform); a duplicate key in the
// instrument zone is replaced by the preset zone's amount.
func UnionModulators(instrumentMods, presetMods []sf2.Modulator) []sf2.Modulator {
	byKey := make(map[sf2.ModulatorKey]sf2.Modulator, len(instrumentMods)+len(presetMods))
	var order []sf2.ModulatorKey
	for _, m := range instrumentMods {
		k := m.Key()
		if _, exists := byKey[k]; !exists {
			order = append(order, k)
		}
		byKey[k] = m
	}
	for _, m := range presetMods {
		k := m.Key()
		if _, exists := byKey[k]; !exists {
			order = append(order, k)
		}
		byKey[k] = m
	}
	out := make([]sf2.Modulator, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}
