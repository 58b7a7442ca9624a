// Package monitor implements the terminal UI for sfsynth-tui: a voice
// count and queue-depth meter driven from a live synth.Engine.
package monitor

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/intuitionamiga/sfsynth/synth"
)

// Model is the bubbletea model for the engine monitor.
type Model struct {
	eng  *synth.Engine
	inst *synth.Instrument
	path string

	width, height int

	voiceCount         int
	queueLen, queueCap int

	octave    int
	statusMsg string
}

// NewModel builds a monitor bound to a running engine and instrument.
func NewModel(eng *synth.Engine, inst *synth.Instrument, path string) Model {
	return Model{eng: eng, inst: inst, path: path, octave: 4, width: 100, height: 24}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tickCmd())
}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(_ time.Time) tea.Msg { return tickMsg{} })
}

// keyForRune maps a subset of a QWERTY row to MIDI keys within the
// current octave, piano-style (same idea as a tracker's note-entry
// keymap, adapted to a single held octave rather than a full pattern
// grid).
var keyForRune = map[rune]int{
	'z': 0, 's': 1, 'x': 2, 'd': 3, 'c': 4, 'v': 5, 'g': 6,
	'b': 7, 'h': 8, 'n': 9, 'j': 10, 'm': 11,
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		m.voiceCount = m.eng.VoiceCount()
		m.queueLen, m.queueCap = m.eng.QueueDepth()
		if halted, err := m.eng.Halted(); halted {
			m.statusMsg = fmt.Sprintf("sink halted: %v", err)
		}
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "+", "=":
		if m.octave < 9 {
			m.octave++
		}
		return m, nil
	case "-":
		if m.octave > 0 {
			m.octave--
		}
		return m, nil
	}

	r := []rune(msg.String())
	if len(r) == 1 {
		if offset, ok := keyForRune[r[0]]; ok {
			key := 12*m.octave + offset
			m.inst.SendEvent(synth.NoteOn{Key: key, Velocity: 100})
			m.statusMsg = fmt.Sprintf("note-on key=%d", key)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("sfsynth monitor")
	path := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.path)

	var meter strings.Builder
	filled := 0
	if m.queueCap > 0 {
		filled = m.queueLen * 20 / m.queueCap
	}
	for i := 0; i < 20; i++ {
		if i < filled {
			meter.WriteByte('#')
		} else {
			meter.WriteByte('-')
		}
	}
	meterStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	body := fmt.Sprintf(
		"%s  %s\n\nvoices: %d\nqueue:  [%s] %d/%d\noctave: %d\n\n%s\n\n%s",
		title, path,
		m.voiceCount,
		meterStyle.Render(meter.String()), m.queueLen, m.queueCap,
		m.octave,
		"keys z s x d c v g b h n j m play a chromatic octave, +/- changes octave",
		lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render(m.statusMsg),
	)
	return body
}
