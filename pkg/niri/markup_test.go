package niri

import (
	"strings"
	"testing"
)

// plainStyle wraps active labels in brackets so tests can assert on styling
// without ANSI escapes.
func plainStyle() MarkupStyle {
	return MarkupStyle{
		Marker:       "⬚",
		NoWorkspaces: "No workspaces",
		WarnGlyph:    "⚠",
		Active:       func(s string) string { return "[" + s + "]" },
		Inactive:     func(s string) string { return s },
	}
}

func TestRenderMarksOnlyActiveWorkspaces(t *testing.T) {
	style := plainStyle()

	tests := []struct {
		name       string
		workspaces []Workspace
		want       string
	}{
		{
			name: "one active one default",
			workspaces: []Workspace{
				{Name: "1", IsActive: true},
				{Name: "2", IsActive: false},
			},
			want: "⬚ [1] 2",
		},
		{
			name: "active in the middle",
			workspaces: []Workspace{
				{Name: "web", IsActive: false},
				{Name: "code", IsActive: true},
				{Name: "chat", IsActive: false},
			},
			want: "⬚ web [code] chat",
		},
		{
			name:       "single workspace active",
			workspaces: []Workspace{{Name: "1", IsActive: true}},
			want:       "⬚ [1]",
		},
		{
			name:       "none active",
			workspaces: []Workspace{{Name: "1"}, {Name: "2"}},
			want:       "⬚ 1 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := style.Render(tt.workspaces)
			if got != tt.want {
				t.Errorf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderOneEntryPerWorkspace(t *testing.T) {
	style := plainStyle()
	workspaces := []Workspace{
		{Name: "a"}, {Name: "b", IsActive: true}, {Name: "c"}, {Name: "d"},
	}

	got := style.Render(workspaces)
	fields := strings.Fields(got)
	// Leading marker plus one label per workspace.
	if len(fields) != len(workspaces)+1 {
		t.Fatalf("rendered %d fields %v, want %d", len(fields), fields, len(workspaces)+1)
	}
	if fields[0] != "⬚" {
		t.Errorf("first field = %q, want marker", fields[0])
	}
	active := 0
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "[") {
			active++
		}
	}
	if active != 1 {
		t.Errorf("active labels = %d, want exactly 1", active)
	}
}

func TestRenderEmptyListNeverEmptyString(t *testing.T) {
	style := plainStyle()
	got := style.Render(nil)
	if got != "⬚ No workspaces" {
		t.Errorf("Render(nil) = %q, want %q", got, "⬚ No workspaces")
	}

	got = style.Render([]Workspace{})
	if got != "⬚ No workspaces" {
		t.Errorf("Render(empty) = %q, want %q", got, "⬚ No workspaces")
	}
}

func TestWarn(t *testing.T) {
	style := plainStyle()
	if got := style.Warn("Niri not running"); got != "⚠ Niri not running" {
		t.Errorf("Warn = %q", got)
	}
}

func TestDefaultMarkupStyleActiveContainsLabel(t *testing.T) {
	style := DefaultMarkupStyle()
	got := style.Render([]Workspace{{Name: "3", IsActive: true}})
	// The active label survives whatever escape sequences styling adds.
	if !strings.Contains(got, "3") {
		t.Errorf("rendered markup %q lost the label", got)
	}
	if !strings.HasPrefix(got, "⬚ ") {
		t.Errorf("rendered markup %q missing the marker prefix", got)
	}
}
