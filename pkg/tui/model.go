// Package tui renders the status bar with Bubbletea. The model is a pure
// consumer: it reads display-state snapshots on its own schedule and never
// writes a field. Redraws are driven by coalesced state-change
// notifications plus a periodic tick that keeps the clock zone honest.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/waypulse/pkg/state"
)

// DefaultRedrawInterval is the periodic repaint cadence.
const DefaultRedrawInterval = 500 * time.Millisecond

// KeyMap holds the bar's key bindings.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap binds q, Q, and ctrl+c to quit.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// stateChangedMsg reports that some producer wrote a field.
type stateChangedMsg struct{}

// tickMsg drives the periodic repaint.
type tickMsg time.Time

// Model is the Bubbletea model for the bar.
type Model struct {
	bar    *state.Bar
	styles Styles
	keys   KeyMap
	redraw time.Duration

	width    int
	quitting bool
}

// New creates a bar model reading from bar. A non-positive redraw interval
// uses DefaultRedrawInterval.
func New(bar *state.Bar, redraw time.Duration) Model {
	if redraw <= 0 {
		redraw = DefaultRedrawInterval
	}
	return Model{
		bar:    bar,
		styles: DefaultStyles(),
		keys:   DefaultKeyMap(),
		redraw: redraw,
	}
}

// Init starts the change listener and the repaint ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.tick())
}

// waitForChange blocks on the bar's coalesced notification channel and
// converts a signal into a message. Re-armed after every receipt.
func (m Model) waitForChange() tea.Cmd {
	changed := m.bar.Changed()
	return func() tea.Msg {
		<-changed
		return stateChangedMsg{}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.redraw, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles input, resizes, and redraw triggers.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateChangedMsg:
		// The snapshot is read in View; just re-arm the listener.
		return m, m.waitForChange()

	case tickMsg:
		return m, m.tick()
	}

	return m, nil
}

// View renders the current snapshot as a single three-zone line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return renderBar(m.bar.Snapshot(), m.width, m.styles)
}
