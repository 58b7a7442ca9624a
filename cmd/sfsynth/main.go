// Command sfsynth loads a SoundFont and plays a single note through a
// chosen audio backend, as a minimal harness for the synth engine.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/intuitionamiga/sfsynth/audiosink"
	"github.com/intuitionamiga/sfsynth/synth"
)

func main() {
	soundfont := flag.String("soundfont", "", "path to an SF2 file (required)")
	bank := flag.Int("bank", 0, "preset bank")
	preset := flag.Int("preset", 0, "preset number")
	key := flag.Int("key", 60, "MIDI key (0-127)")
	velocity := flag.Int("velocity", 100, "MIDI velocity (0-127)")
	hold := flag.Duration("hold", 1*time.Second, "how long to hold the note before note-off")
	tail := flag.Duration("tail", 1*time.Second, "how long to let the release tail play out")
	backend := flag.String("backend", "oto", "audio backend: oto, beep, or memory")
	sampleRate := flag.Int("rate", 44100, "output sample rate")
	periodSize := flag.Int("period", 256, "frames per period")
	flag.Parse()

	if *soundfont == "" {
		fmt.Fprintln(os.Stderr, "sfsynth: -soundfont is required")
		os.Exit(1)
	}

	audio := synth.AudioConfig{SampleRate: *sampleRate, Channels: 2, PeriodSize: *periodSize}
	cfg := synth.DefaultEngineConfig()

	sink, err := openSink(*backend, *sampleRate, audio.Channels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sfsynth: opening %s backend: %v\n", *backend, err)
		os.Exit(1)
	}

	eng, err := synth.LoadSoundFont(*soundfont, sink, audio, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sfsynth: loading %s: %v\n", *soundfont, err)
		os.Exit(1)
	}

	inst, err := eng.NewInstrument(*bank, *preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sfsynth: %v\n", err)
		os.Exit(1)
	}

	eng.Start()
	inst.SendEvent(synth.NoteOn{Key: *key, Velocity: *velocity})
	time.Sleep(*hold)
	inst.SendEvent(synth.NoteOff{Key: *key})
	time.Sleep(*tail)

	if err := eng.Halt(); err != nil {
		fmt.Fprintf(os.Stderr, "sfsynth: %v\n", err)
		os.Exit(1)
	}
}

func openSink(backend string, sampleRate, channels int) (synth.Sink, error) {
	switch backend {
	case "oto":
		return audiosink.NewOtoSink(sampleRate, channels)
	case "beep":
		return audiosink.NewBeepSink(sampleRate, channels)
	case "memory":
		return audiosink.NewMemorySink(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want oto, beep, or memory)", backend)
	}
}
