// Command sfsynth-tui is a terminal monitor for a running synth
// engine: it loads a SoundFont, lets you trigger notes from the
// keyboard, and shows live voice-count and queue-depth telemetry.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/intuitionamiga/sfsynth/audiosink"
	"github.com/intuitionamiga/sfsynth/cmd/sfsynth-tui/monitor"
	"github.com/intuitionamiga/sfsynth/synth"
)

func main() {
	soundfont := flag.String("soundfont", "", "path to an SF2 file (required)")
	bank := flag.Int("bank", 0, "preset bank")
	preset := flag.Int("preset", 0, "preset number")
	backend := flag.String("backend", "oto", "audio backend: oto, beep, or memory")
	flag.Parse()

	if *soundfont == "" {
		fmt.Fprintln(os.Stderr, "sfsynth-tui: -soundfont is required")
		os.Exit(1)
	}

	audio := synth.DefaultAudioConfig()
	cfg := synth.DefaultEngineConfig()

	var sink synth.Sink
	var err error
	switch *backend {
	case "oto":
		sink, err = audiosink.NewOtoSink(audio.SampleRate, audio.Channels)
	case "beep":
		sink, err = audiosink.NewBeepSink(audio.SampleRate, audio.Channels)
	case "memory":
		sink = audiosink.NewMemorySink()
	default:
		err = fmt.Errorf("unknown backend %q", *backend)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "sfsynth-tui: opening %s backend: %v\n", *backend, err)
		os.Exit(1)
	}

	eng, err := synth.LoadSoundFont(*soundfont, sink, audio, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sfsynth-tui: loading %s: %v\n", *soundfont, err)
		os.Exit(1)
	}

	inst, err := eng.NewInstrument(*bank, *preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sfsynth-tui: %v\n", err)
		os.Exit(1)
	}

	eng.Start()
	defer eng.Halt()

	model := monitor.NewModel(eng, inst, *soundfont)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "sfsynth-tui: %v\n", err)
		os.Exit(1)
	}
}
