package niri

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"
)

// ErrSocketUnset is returned by Run when no socket address is known. The
// compositor integration is simply not applicable on this machine; the
// client publishes a "not running" placeholder and does not retry.
var ErrSocketUnset = errors.New("niri socket address not set")

// windowPlaceholder is shown when no window has focus.
const windowPlaceholder = "—"

// DialFunc opens a connection to the compositor socket. Tests inject one;
// production dials the unix socket from Config.SocketPath.
type DialFunc func(ctx context.Context) (net.Conn, error)

// Sink receives the client's two display fields. *state.Bar satisfies it.
type Sink interface {
	SetWorkspaces(markup string)
	SetWindowTitle(title string)
}

// Default backoff bounds for stream reconnects.
const (
	DefaultBackoffMin = 1 * time.Second
	DefaultBackoffMax = 30 * time.Second
)

// dialTimeout bounds a single connection attempt.
const dialTimeout = 2 * time.Second

// Config holds the event client configuration.
type Config struct {
	// SocketPath is the niri IPC socket, normally taken from NIRI_SOCKET.
	// Empty means the compositor is not running (see ErrSocketUnset).
	SocketPath string

	// BackoffMin/BackoffMax bound the reconnect backoff. Zero values use
	// the defaults.
	BackoffMin time.Duration
	BackoffMax time.Duration

	// Style controls workspace markup. Nil uses DefaultMarkupStyle.
	Style *MarkupStyle

	// Dial overrides socket dialing; for tests.
	Dial DialFunc

	// Logger may be nil.
	Logger *slog.Logger
}

// Client consumes the niri event stream and refreshes workspace and
// focused-window state on relevant events.
type Client struct {
	dial       DialFunc
	sink       Sink
	style      MarkupStyle
	logger     *slog.Logger
	backoffMin time.Duration
	backoffMax time.Duration
}

// New creates an event client writing into sink.
func New(cfg Config, sink Sink) *Client {
	style := DefaultMarkupStyle()
	if cfg.Style != nil {
		style = *cfg.Style
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backoffMin := cfg.BackoffMin
	if backoffMin <= 0 {
		backoffMin = DefaultBackoffMin
	}
	backoffMax := cfg.BackoffMax
	if backoffMax < backoffMin {
		backoffMax = DefaultBackoffMax
	}

	dial := cfg.Dial
	if dial == nil && cfg.SocketPath != "" {
		path := cfg.SocketPath
		dial = func(ctx context.Context) (net.Conn, error) {
			d := net.Dialer{Timeout: dialTimeout}
			return d.DialContext(ctx, "unix", path)
		}
	}

	return &Client{
		dial:       dial,
		sink:       sink,
		style:      style,
		logger:     logger.With("component", "niri"),
		backoffMin: backoffMin,
		backoffMax: backoffMax,
	}
}

// Run connects to the compositor and consumes its event stream until ctx is
// cancelled, reconnecting with exponential backoff after stream failures.
// With no socket address it publishes the "not running" placeholder and
// returns ErrSocketUnset immediately; the other producers keep running.
func (c *Client) Run(ctx context.Context) error {
	if c.dial == nil {
		c.logger.Info("no socket address, compositor integration disabled")
		c.sink.SetWorkspaces(c.style.Warn("Niri not running"))
		return ErrSocketUnset
	}

	backoff := c.backoffMin
	for {
		subscribed, err := c.stream(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if subscribed {
			// The stream was up; start the backoff ladder over.
			backoff = c.backoffMin
		}

		c.sink.SetWorkspaces(c.style.Warn("Error: " + err.Error()))
		c.logger.Warn("event stream ended", "error", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > c.backoffMax {
			backoff = c.backoffMax
		}
	}
}

// stream holds one event-stream connection: subscribe, eager refresh, then
// consume events until the connection breaks. The subscribed return value
// reports whether the subscription handshake completed.
func (c *Client) stream(ctx context.Context) (subscribed bool, err error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	// Unblock the reader when the context is cancelled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if _, err := io.WriteString(conn, reqEventStream); err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}

	r := bufio.NewReader(conn)
	// The immediate acknowledgement line carries nothing we need.
	if _, err := r.ReadBytes('\n'); err != nil {
		return false, fmt.Errorf("subscribe ack: %w", err)
	}
	c.logger.Info("subscribed to event stream")

	c.refreshWorkspaces(ctx)
	c.refreshWindow(ctx)

	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return true, fmt.Errorf("event stream: %w", err)
		}
		workspace, window := classifyEvent(line)
		if !workspace && !window {
			if len(bytes.TrimSpace(line)) > 0 {
				c.logger.Debug("ignoring event", "line", string(bytes.TrimSpace(line)))
			}
			continue
		}
		if workspace {
			c.refreshWorkspaces(ctx)
		}
		if window {
			c.refreshWindow(ctx)
		}
	}
}

// refreshWorkspaces queries current workspaces and publishes their markup.
// On failure the last good value stays on the bar; the broken connection
// also surfaces through the event stream, which owns error reporting.
func (c *Client) refreshWorkspaces(ctx context.Context) {
	reply, err := c.query(ctx, reqWorkspaces)
	if err != nil {
		c.logger.Warn("workspace query failed", "error", err)
		return
	}
	var wr workspacesReply
	if err := json.Unmarshal(reply, &wr); err != nil {
		c.logger.Warn("workspace reply malformed", "error", err)
		return
	}
	c.sink.SetWorkspaces(c.style.Render(wr.Workspaces))
}

// refreshWindow queries the focused window and publishes its title.
func (c *Client) refreshWindow(ctx context.Context) {
	reply, err := c.query(ctx, reqFocusedWindow)
	if err != nil {
		c.logger.Warn("focused window query failed", "error", err)
		return
	}
	var wr focusedWindowReply
	if err := json.Unmarshal(reply, &wr); err != nil {
		c.logger.Warn("focused window reply malformed", "error", err)
		return
	}
	if wr.FocusedWindow == nil || wr.FocusedWindow.Title == "" {
		c.sink.SetWindowTitle(windowPlaceholder)
		return
	}
	c.sink.SetWindowTitle(wr.FocusedWindow.Title)
}

// query performs one request/response exchange on a short-lived connection,
// keeping the event-stream connection dedicated to events.
func (c *Client) query(ctx context.Context, request string) ([]byte, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if _, err := io.WriteString(conn, request); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	reply, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}
