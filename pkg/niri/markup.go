package niri

import "github.com/charmbracelet/lipgloss"

// MarkupStyle controls how the workspace zone is rendered. Active and
// Inactive wrap a single workspace label; tests inject plain wrappers,
// production uses DefaultMarkupStyle.
type MarkupStyle struct {
	// Marker is the fixed glyph preceding the workspace labels.
	Marker string

	// NoWorkspaces is shown for an empty workspace list, in default style.
	NoWorkspaces string

	// WarnGlyph prefixes error and not-running messages.
	WarnGlyph string

	Active   func(string) string
	Inactive func(string) string
}

// DefaultMarkupStyle renders active workspaces bold bright green, matching
// the reference bar's palette.
func DefaultMarkupStyle() MarkupStyle {
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	return MarkupStyle{
		Marker:       "⬚",
		NoWorkspaces: "No workspaces",
		WarnGlyph:    "⚠",
		Active:       func(s string) string { return active.Render(s) },
		Inactive:     func(s string) string { return s },
	}
}

// Render builds the workspace zone markup: the marker, then one label per
// workspace separated by single spaces, active labels in the active style.
// An empty list renders the NoWorkspaces placeholder, never an empty string.
func (s MarkupStyle) Render(workspaces []Workspace) string {
	out := s.Inactive(s.Marker) + " "
	if len(workspaces) == 0 {
		return out + s.Inactive(s.NoWorkspaces)
	}
	for i, ws := range workspaces {
		if i > 0 {
			out += " "
		}
		if ws.IsActive {
			out += s.Active(ws.Name)
		} else {
			out += s.Inactive(ws.Name)
		}
	}
	return out
}

// Warn renders a warning message for the workspace zone.
func (s MarkupStyle) Warn(msg string) string {
	return s.Inactive(s.WarnGlyph + " " + msg)
}
