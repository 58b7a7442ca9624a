package synth

import (
	"errors"
	"fmt"
)

// ErrNoSample is returned by the resolver when no preset/instrument
// zone matches a note-on's (key, velocity) pair (spec.md section 7:
// "NoSampleFound(key, vel)"). The event front-end logs this at
// warning level and silently drops the note-on.
var ErrNoSample = errors.New("synth: no sample found for key/velocity")

// PresetNotFoundError is returned by NewInstrument when (bank,
// presetNum) names no loaded preset.
type PresetNotFoundError struct {
	Bank, PresetNum int
}

func (e *PresetNotFoundError) Error() string {
	return fmt.Sprintf("synth: no preset at bank=%d preset=%d", e.Bank, e.PresetNum)
}

// SinkError wraps a fatal error from the audio sink. It halts the mix
// thread; the engine surfaces it via Engine.Halted().
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string { return fmt.Sprintf("synth: sink error: %v", e.Err) }
func (e *SinkError) Unwrap() error { return e.Err }
