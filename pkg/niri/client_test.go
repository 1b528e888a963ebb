package niri

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeCompositor serves the niri IPC protocol on a real unix socket:
// one-shot query connections and long-lived event-stream connections.
type fakeCompositor struct {
	t  *testing.T
	ln net.Listener

	mu         sync.Mutex
	workspaces []Workspace
	title      string // empty = no focused window

	// streams receives each accepted event-stream connection so the test
	// can push events or kill the stream.
	streams chan net.Conn
}

func newFakeCompositor(t *testing.T) (*fakeCompositor, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "niri.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	f := &fakeCompositor{
		t:       t,
		ln:      ln,
		streams: make(chan net.Conn, 4),
	}
	go f.acceptLoop()
	t.Cleanup(func() { ln.Close() })
	return f, path
}

func (f *fakeCompositor) setWorkspaces(ws []Workspace) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workspaces = ws
}

func (f *fakeCompositor) setTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
}

func (f *fakeCompositor) acceptLoop() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeCompositor) handle(conn net.Conn) {
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		conn.Close()
		return
	}

	var request map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &request); err != nil {
		conn.Close()
		return
	}

	switch {
	case hasKey(request, "Workspaces"):
		f.mu.Lock()
		reply, _ := json.Marshal(map[string]interface{}{"Workspaces": f.workspaces})
		f.mu.Unlock()
		conn.Write(append(reply, '\n'))
		conn.Close()

	case hasKey(request, "FocusedWindow"):
		f.mu.Lock()
		var payload interface{}
		if f.title != "" {
			payload = map[string]string{"title": f.title}
		}
		f.mu.Unlock()
		reply, _ := json.Marshal(map[string]interface{}{"FocusedWindow": payload})
		conn.Write(append(reply, '\n'))
		conn.Close()

	case hasKey(request, "EventStream"):
		io.WriteString(conn, `{"Ok":"Handled"}`+"\n")
		f.streams <- conn

	default:
		conn.Close()
	}
}

func hasKey(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}

// sinkRecorder captures client output with condition waiting.
type sinkRecorder struct {
	mu         sync.Mutex
	workspaces string
	title      string
}

func (s *sinkRecorder) SetWorkspaces(markup string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces = markup
}

func (s *sinkRecorder) SetWindowTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

func (s *sinkRecorder) get() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspaces, s.title
}

func (s *sinkRecorder) wait(t *testing.T, desc string, cond func(workspaces, title string) bool) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		ws, title := s.get()
		if cond(ws, title) {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s; workspaces=%q title=%q", desc, ws, title)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func testClient(t *testing.T, path string, sink Sink) *Client {
	t.Helper()
	style := plainStyle()
	return New(Config{
		SocketPath: path,
		BackoffMin: 10 * time.Millisecond,
		BackoffMax: 50 * time.Millisecond,
		Style:      &style,
	}, sink)
}

func TestClientNoSocketPublishesNotRunning(t *testing.T) {
	sink := &sinkRecorder{}
	c := New(Config{Style: stylePtr(plainStyle())}, sink)

	err := c.Run(context.Background())
	if !errors.Is(err, ErrSocketUnset) {
		t.Fatalf("Run = %v, want ErrSocketUnset", err)
	}

	ws, _ := sink.get()
	if ws != "⚠ Niri not running" {
		t.Errorf("workspaces = %q, want not-running placeholder", ws)
	}
}

func stylePtr(s MarkupStyle) *MarkupStyle { return &s }

func TestClientEagerFetchOnSubscribe(t *testing.T) {
	f, path := newFakeCompositor(t)
	f.setWorkspaces([]Workspace{{Name: "1", IsActive: true}, {Name: "2"}})
	f.setTitle("editor")

	sink := &sinkRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		testClient(t, path, sink).Run(ctx)
	}()

	sink.wait(t, "eager fetch", func(ws, title string) bool {
		return ws == "⬚ [1] 2" && title == "editor"
	})

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("client did not stop after cancel")
	}
}

func TestClientRefreshesOnEvents(t *testing.T) {
	f, path := newFakeCompositor(t)
	f.setWorkspaces([]Workspace{{Name: "1", IsActive: true}})
	f.setTitle("shell")

	sink := &sinkRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go testClient(t, path, sink).Run(ctx)

	stream := <-f.streams
	defer stream.Close()
	sink.wait(t, "initial state", func(ws, title string) bool {
		return ws == "⬚ [1]" && title == "shell"
	})

	// A workspace event triggers a workspace refresh.
	f.setWorkspaces([]Workspace{{Name: "1"}, {Name: "2", IsActive: true}})
	io.WriteString(stream, `{"WorkspaceActivated": {"id": 2}}`+"\n")
	sink.wait(t, "workspace refresh", func(ws, _ string) bool {
		return ws == "⬚ 1 [2]"
	})

	// A window event triggers a title refresh.
	f.setTitle("browser")
	io.WriteString(stream, `{"WindowFocusChanged": {"id": 9}}`+"\n")
	sink.wait(t, "window refresh", func(_, title string) bool {
		return title == "browser"
	})

	// Focus loss maps to the placeholder, not an empty string.
	f.setTitle("")
	io.WriteString(stream, `{"WindowClosed": {"id": 9}}`+"\n")
	sink.wait(t, "placeholder title", func(_, title string) bool {
		return title == "—"
	})
}

func TestClientSkipsMalformedEventLines(t *testing.T) {
	f, path := newFakeCompositor(t)
	f.setWorkspaces([]Workspace{{Name: "1", IsActive: true}})

	sink := &sinkRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go testClient(t, path, sink).Run(ctx)

	stream := <-f.streams
	defer stream.Close()
	sink.wait(t, "initial state", func(ws, _ string) bool { return ws == "⬚ [1]" })

	// Garbage must not break the stream; the next real event still lands.
	io.WriteString(stream, "this is not json\n")
	io.WriteString(stream, `{"UnknownTag": {}}`+"\n")
	f.setWorkspaces([]Workspace{{Name: "2", IsActive: true}})
	io.WriteString(stream, `{"WorkspacesChanged": {}}`+"\n")

	sink.wait(t, "refresh after garbage", func(ws, _ string) bool {
		return ws == "⬚ [2]"
	})
}

func TestClientReconnectsAfterStreamLoss(t *testing.T) {
	f, path := newFakeCompositor(t)
	f.setWorkspaces([]Workspace{{Name: "1", IsActive: true}})

	sink := &sinkRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go testClient(t, path, sink).Run(ctx)

	stream := <-f.streams
	sink.wait(t, "initial state", func(ws, _ string) bool { return ws == "⬚ [1]" })

	// Kill the stream: the client surfaces the error, then reconnects.
	stream.Close()
	sink.wait(t, "error placeholder", func(ws, _ string) bool {
		return strings.HasPrefix(ws, "⚠ Error:")
	})

	next := <-f.streams
	defer next.Close()
	sink.wait(t, "state restored after reconnect", func(ws, _ string) bool {
		return ws == "⬚ [1]"
	})
}
