// Package sensors reads system status (network, bluetooth, audio) by
// executing external probe tools and parsing their textual output into short
// icon-prefixed status strings. Readers are stateless and synchronous; the
// pollers in pkg/poller drive them on a schedule.
package sensors

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Kind identifies one sensor class.
type Kind int

const (
	Network Kind = iota
	Bluetooth
	Audio
)

// String returns the sensor name for logging.
func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case Bluetooth:
		return "bluetooth"
	case Audio:
		return "audio"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reading is one formatted sensor result. Text is the complete
// icon-prefixed human string written to the bar.
type Reading struct {
	Kind Kind
	Text string
}

// ProbeError reports a failed external probe invocation: tool missing,
// non-zero exit, or timeout.
type ProbeError struct {
	Kind Kind
	Cmd  string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s probe %q: %v", e.Kind, e.Cmd, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ParseError reports probe output that did not match the expected shape.
type ParseError struct {
	Kind   Kind
	Output string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s probe: unparsable output %q", e.Kind, truncate(e.Output, 80))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Prober executes an external probe and returns its stdout. The production
// implementation is ExecProber; tests inject fakes.
type Prober interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// DefaultProbeTimeout bounds probe execution so a hung tool cannot stall a
// poller.
const DefaultProbeTimeout = 1 * time.Second

// ExecProber runs probes via os/exec with a bounded timeout.
type ExecProber struct {
	// Timeout per invocation. Zero uses DefaultProbeTimeout.
	Timeout time.Duration
}

// Output runs the command and returns its stdout as a string.
func (p ExecProber) Output(ctx context.Context, name string, args ...string) (string, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DefaultRouteTarget is the well-known address used to resolve the outbound
// route.
const DefaultRouteTarget = "1.1.1.1"

// Reader reads sensor values. It is a pure function of current machine
// state and safe to call repeatedly from one goroutine per kind.
type Reader struct {
	probe       Prober
	icons       Icons
	routeTarget string
}

// NewReader creates a Reader. A nil prober uses ExecProber with the default
// timeout; an empty routeTarget uses DefaultRouteTarget.
func NewReader(probe Prober, routeTarget string) *Reader {
	if probe == nil {
		probe = ExecProber{}
	}
	if routeTarget == "" {
		routeTarget = DefaultRouteTarget
	}
	return &Reader{
		probe:       probe,
		icons:       DefaultIcons(),
		routeTarget: routeTarget,
	}
}

// SetIcons overrides the glyph set. Used by tests and dumb terminals.
func (r *Reader) SetIcons(icons Icons) { r.icons = icons }

// Read performs one probe cycle for the given kind. On failure it returns a
// typed error; the caller decides the fallback text (see Placeholder).
func (r *Reader) Read(ctx context.Context, kind Kind) (Reading, error) {
	switch kind {
	case Network:
		return r.readNetwork(ctx)
	case Bluetooth:
		return r.readBluetooth(ctx)
	case Audio:
		return r.readAudio(ctx)
	default:
		return Reading{}, fmt.Errorf("unknown sensor kind %d", int(kind))
	}
}

// Placeholder returns the error text shown for a kind when a read fails.
func (r *Reader) Placeholder(kind Kind) string {
	switch kind {
	case Network:
		return r.icons.Wireless + " " + placeholderText
	case Bluetooth:
		return r.icons.BluetoothOn + " " + placeholderText
	case Audio:
		return r.icons.VolHigh + " " + placeholderText
	default:
		return placeholderText
	}
}

const placeholderText = "—"

// probeOutput wraps the prober call, mapping failures to *ProbeError.
func (r *Reader) probeOutput(ctx context.Context, kind Kind, name string, args ...string) (string, error) {
	out, err := r.probe.Output(ctx, name, args...)
	if err != nil {
		return "", &ProbeError{Kind: kind, Cmd: name + " " + strings.Join(args, " "), Err: err}
	}
	return out, nil
}
