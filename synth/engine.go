package synth

import (
	"log"
	"sync"

	"github.com/intuitionamiga/sfsynth/sf2"
)

// Sink is the minimal surface the engine needs from an audio backend:
// write one packed period, blocking as needed for real-time playback
// (spec.md section 6). github.com/intuitionamiga/sfsynth/audiosink
// implements it against oto/v3, gopxl/beep, and an in-memory backend
// for tests.
type Sink interface {
	Write(period []byte) error
	Close() error
}

// Engine is the synthesizer's composition root: it owns the loaded
// SoundFont, the registry, the mixer, and the mix/sink threads (spec.md
// section 6, "Synthesizer"/"Engine").
type Engine struct {
	audio  AudioConfig
	config EngineConfig
	font   *sf2.SoundFont
	sink   Sink

	registry *Registry
	mixer    *Mixer
	queue    *PeriodQueue

	mu         sync.Mutex
	halted     bool
	haltErr    error
	instrument map[*Instrument]struct{}

	stop chan struct{}
	done chan struct{}
}

// NewSynthesizer constructs an Engine bound to font and sink, with the
// given audio/engine configuration (spec.md section 6). It does not
// start the mix/sink threads; call Start.
func NewSynthesizer(font *sf2.SoundFont, sink Sink, audio AudioConfig, cfg EngineConfig) (*Engine, error) {
	if err := audio.Validate(); err != nil {
		return nil, err
	}
	registry := NewRegistry()
	e := &Engine{
		audio:      audio,
		config:     cfg,
		font:       font,
		sink:       sink,
		registry:   registry,
		mixer:      NewMixer(audio, cfg, registry),
		queue:      NewPeriodQueue(cfg.QueueCapacity(audio)),
		instrument: make(map[*Instrument]struct{}),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	return e, nil
}

// LoadSoundFont loads an SF2 file from disk and returns an Engine
// ready to Start, using the given sink and audio/engine configuration.
func LoadSoundFont(path string, sink Sink, audio AudioConfig, cfg EngineConfig) (*Engine, error) {
	font, err := sf2.LoadSoundFont(path)
	if err != nil {
		return nil, err
	}
	return NewSynthesizer(font, sink, audio, cfg)
}

// NewInstrument resolves (bank, presetNum) against the loaded
// SoundFont and returns an Instrument front-end bound to this engine's
// registry (spec.md section 6).
func (e *Engine) NewInstrument(bank, presetNum int) (*Instrument, error) {
	preset, ok := e.font.FindPreset(bank, presetNum)
	if !ok {
		return nil, &PresetNotFoundError{Bank: bank, PresetNum: presetNum}
	}
	inst := NewInstrument(e.font, preset, e.audio, e.registry)
	e.mu.Lock()
	e.instrument[inst] = struct{}{}
	e.mu.Unlock()
	return inst, nil
}

// Start primes the sink queue with silence (spec.md section 4.5,
// "Priming") and launches the mix and sink threads. Priming runs the
// blank samples through the registry as an ordinary static buffer
// (original_source/wiske/interface/interface.py's `self.play(blank, 1)`
// on startup), rather than bypassing the mix engine, so the registry's
// static-buffer path is exercised the same way a real sample is.
func (e *Engine) Start() {
	go e.sinkLoop()

	primeFrames := e.audio.SampleRate // ~1 second
	e.registry.AddStatic(make([]int16, primeFrames), 0, 0, false, false)
	primePeriods := primeFrames / e.audio.PeriodSize
	for i := 0; i < primePeriods; i++ {
		e.queue.Push(e.mixer.RenderPeriod())
	}

	go e.mixLoop()
}

func (e *Engine) mixLoop() {
	for {
		select {
		case <-e.stop:
			e.queue.Close()
			return
		default:
		}
		e.mixer.MaybeGC(e.queue.Len(), e.queue.Cap())
		period := e.mixer.RenderPeriod()
		e.queue.Push(period)
	}
}

func (e *Engine) sinkLoop() {
	defer close(e.done)
	for {
		period, ok := e.queue.Pop()
		if !ok {
			return
		}
		if err := e.sink.Write(period); err != nil {
			e.fail(&SinkError{Err: err})
			return
		}
	}
}

func (e *Engine) fail(err error) {
	e.mu.Lock()
	e.halted = true
	e.haltErr = err
	e.mu.Unlock()
	log.Printf("synth: %v", err)
	close(e.stop)
}

// Halt stops the mix and sink threads and closes the sink.
func (e *Engine) Halt() error {
	select {
	case <-e.stop:
	default:
		close(e.stop)
	}
	<-e.done
	return e.sink.Close()
}

// Halted reports whether the engine has stopped due to a sink error,
// and the error if so (spec.md section 7).
func (e *Engine) Halted() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.halted, e.haltErr
}

// VoiceCount reports the number of entries currently live in the mix
// registry, for monitoring UIs.
func (e *Engine) VoiceCount() int { return e.registry.Len() }

// QueueDepth reports the bounded period queue's current length and
// capacity, for monitoring UIs.
func (e *Engine) QueueDepth() (length, capacity int) {
	return e.queue.Len(), e.queue.Cap()
}
