// Package niri talks to the niri compositor over its unix-socket IPC. The
// protocol is newline-delimited JSON: one-shot request/response queries for
// workspace and window state, and a long-lived event feed entered with an
// EventStream request. The client feeds workspace markup and the focused
// window title into the shared display state.
package niri

import "encoding/json"

// Request payloads. Each request is a single JSON line; the reply is a
// single JSON line as well.
const (
	reqWorkspaces    = `{"Workspaces": null}` + "\n"
	reqFocusedWindow = `{"FocusedWindow": null}` + "\n"
	reqEventStream   = `{"EventStream": null}` + "\n"
)

// Workspace is one compositor workspace in compositor-reported order.
type Workspace struct {
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// workspacesReply is the response to a Workspaces request.
type workspacesReply struct {
	Workspaces []Workspace `json:"Workspaces"`
}

// focusedWindowReply is the response to a FocusedWindow request. The
// FocusedWindow field is null when no window has focus.
type focusedWindowReply struct {
	FocusedWindow *struct {
		Title string `json:"title"`
	} `json:"FocusedWindow"`
}

// Event tags on the stream that invalidate workspace state.
var workspaceEvents = map[string]bool{
	"WorkspacesChanged":  true,
	"WorkspaceActivated": true,
}

// Event tags on the stream that invalidate focused-window state.
var windowEvents = map[string]bool{
	"WindowFocusChanged":    true,
	"WindowClosed":          true,
	"WindowOpenedOrChanged": true,
}

// classifyEvent inspects one event record and reports which refreshes it
// calls for. Malformed records and unknown tags trigger nothing.
func classifyEvent(line []byte) (workspace, window bool) {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(line, &record); err != nil {
		return false, false
	}
	for tag := range record {
		if workspaceEvents[tag] {
			workspace = true
		}
		if windowEvents[tag] {
			window = true
		}
	}
	return workspace, window
}
