package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/waypulse/pkg/state"
)

// zoneSeparator sits between the sensor strings in the right zone.
const zoneSeparator = "  "

// renderBar lays out one snapshot: workspaces left, window title centered,
// sensors right. With no known width (before the first WindowSizeMsg) the
// zones are joined without padding.
func renderBar(s state.Snapshot, width int, styles Styles) string {
	left := s.Workspaces
	right := strings.Join([]string{s.Bluetooth, s.Network, s.Audio, s.Clock}, zoneSeparator)

	if width <= 0 {
		return styles.Bar.Render(left + zoneSeparator + s.WindowTitle + zoneSeparator + right)
	}

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)

	// One space of breathing room on each side of the center zone.
	avail := width - leftW - rightW - 2
	center := ""
	if avail > 0 {
		title := ansi.Truncate(styles.Title.Render(s.WindowTitle), avail, "…")
		center = lipgloss.PlaceHorizontal(avail, lipgloss.Center, title)
	}

	line := left + " " + center + " " + right
	// Pad or clip to the exact terminal width.
	if lineW := lipgloss.Width(line); lineW < width {
		line += strings.Repeat(" ", width-lineW)
	} else if lineW > width {
		line = ansi.Truncate(line, width, "")
	}

	return styles.Bar.Render(line)
}
