package synth

import "sync/atomic"

// Stage is one state of the six-stage DAHDSR envelope (spec.md
// section 3, "Envelope").
type Stage int

const (
	StageDelay Stage = iota
	StageAttack
	StageHold
	StageDecay
	StageSustain
	StageRelease
	StageFinished
)

// sentinelDuration marks a stage with no time-out (SUSTAIN and
// FINISHED hold indefinitely, spec.md section 4.2).
const sentinelDuration = -1

// EnvelopeParams are the six DAHDSR timings/levels resolved from the
// volEnv generators (spec.md section 4.4): delay/attack/hold/decay/
// release in seconds, sustain as a linear level in [0,1].
type EnvelopeParams struct {
	Delay, Attack, Hold, Decay, Release float64
	Sustain                             float64
}

// Envelope is a per-sample DAHDSR state machine. It is owned
// exclusively by the mix thread during Advance; Release is the single
// entry point safe to call from a control thread concurrently with
// rendering (spec.md section 5, "Release-during-render race").
type Envelope struct {
	params     EnvelopeParams
	sampleRate float64

	stage    Stage
	position float64 // seconds elapsed in the current stage
	start    float64
	target   float64
	duration float64

	current float64

	// forceRelease is set by Release() and consumed by Advance, so the
	// stage change itself always happens on the mix thread.
	// Atomic because Release() may be called from a control thread
	// concurrently with Advance() running on the mix thread.
	forceRelease atomic.Bool
}

// NewEnvelope builds an envelope in the DELAY stage, matching the
// DAHDSR table's first row (spec.md section 4.2).
func NewEnvelope(params EnvelopeParams, sampleRate float64) *Envelope {
	e := &Envelope{params: params, sampleRate: sampleRate}
	e.enterStage(StageDelay)
	return e
}

func (e *Envelope) enterStage(s Stage) {
	e.stage = s
	e.position = 0
	switch s {
	case StageDelay:
		e.start, e.target, e.duration = 0, 0, e.params.Delay
	case StageAttack:
		e.start, e.target, e.duration = 0, 1, e.params.Attack
	case StageHold:
		e.start, e.target, e.duration = 1, 1, e.params.Hold
	case StageDecay:
		e.start, e.target, e.duration = 1, e.params.Sustain, e.params.Decay
	case StageSustain:
		e.start, e.target, e.duration = e.params.Sustain, e.params.Sustain, sentinelDuration
	case StageRelease:
		e.start, e.target, e.duration = e.current, 0, e.params.Release
	case StageFinished:
		e.start, e.target, e.duration = 0, 0, sentinelDuration
	}
	if e.duration <= 0 && s != StageSustain && s != StageFinished {
		// A zero or negative configured duration lands on the stage's
		// target value; the next Advance leaves the stage.
		e.current = e.target
	} else {
		e.current = e.start
	}
}

// Stage returns the envelope's current stage.
func (e *Envelope) Stage() Stage { return e.stage }

// Value returns the current scalar output without advancing state.
func (e *Envelope) Value() float64 { return e.current }

// Finished reports whether the envelope has reached FINISHED.
func (e *Envelope) Finished() bool { return e.stage == StageFinished }

// Advance moves the envelope forward by one sample period
// (1/sampleRate seconds), applying the stage transition table from
// spec.md section 4.2, and returns the new current value. It is
// called only from the mix thread, once per rendered sample.
func (e *Envelope) Advance() float64 {
	if e.forceRelease.Load() && e.stage != StageRelease && e.stage != StageFinished {
		e.enterStage(StageRelease)
		e.forceRelease.Store(false)
	}

	switch e.stage {
	case StageSustain:
		return e.current
	case StageFinished:
		return e.current
	}

	e.position += 1.0 / e.sampleRate
	if e.duration >= 0 && e.position >= e.duration {
		e.current = e.target
		e.transitionFromCompletedStage()
		return e.current
	}

	if e.duration > 0 {
		frac := e.position / e.duration
		e.current = e.start + (e.target-e.start)*frac
	} else {
		e.current = e.target
	}
	return e.current
}

func (e *Envelope) transitionFromCompletedStage() {
	switch e.stage {
	case StageDelay:
		e.enterStage(StageAttack)
	case StageAttack:
		e.enterStage(StageHold)
	case StageHold:
		e.enterStage(StageDecay)
	case StageDecay:
		e.enterStage(StageSustain)
	case StageRelease:
		e.enterStage(StageFinished)
	}
}

// Release moves the envelope into RELEASE from any non-FINISHED
// stage, starting from the current value (spec.md section 4.2/4 of
// section 8: "release() is idempotent... must land in RELEASE
// regardless of prior stage"). It is safe to call concurrently with
// Advance: it only sets a latch that Advance consumes at the top of
// its next call, entering RELEASE there before advancing one sample.
func (e *Envelope) Release() {
	e.forceRelease.Store(true)
}
