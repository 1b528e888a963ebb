package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the bar's lipgloss styles. The palette matches the
// reference bar: white on black, with the active workspace styled by
// pkg/niri's markup.
type Styles struct {
	// Bar wraps the whole rendered line.
	Bar lipgloss.Style

	// Title styles the center window-title zone.
	Title lipgloss.Style
}

// DefaultStyles returns the standard bar palette.
func DefaultStyles() Styles {
	return Styles{
		Bar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("0")),
		Title: lipgloss.NewStyle(),
	}
}
