package poller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// AudioWatcher re-probes the audio sensor when the audio server reports a
// change, instead of polling on a timer. It holds a long-lived `pactl
// subscribe` stream and filters its event lines for sink- or server-level
// changes.
type AudioWatcher struct {
	// Probe reads the current audio status string.
	Probe func(ctx context.Context) (string, error)

	// OpenStream opens the long-lived notification stream. Nil uses
	// `pactl subscribe`.
	OpenStream func(ctx context.Context) (io.ReadCloser, error)

	// Fallback is published when a probe or the stream fails.
	Fallback string

	// Publish writes the result into the display state.
	Publish func(text string)

	// Logger may be nil.
	Logger *slog.Logger
}

// Run probes once eagerly, then re-probes on every relevant subscription
// line until the stream ends or ctx is cancelled. A failed stream open or a
// stream EOF publishes Fallback and returns: the audio producer stops, the
// rest of the bar keeps running.
func (w *AudioWatcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("poller", "audio")

	w.probe(ctx, logger)

	open := w.OpenStream
	if open == nil {
		open = openPactlSubscribe
	}

	stream, err := open(ctx)
	if err != nil {
		logger.Warn("audio subscription unavailable", "error", err)
		w.Publish(w.Fallback)
		return fmt.Errorf("open audio subscription: %w", err)
	}
	defer stream.Close()

	scanner := bufio.NewScanner(stream)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !relevantAudioEvent(scanner.Text()) {
			continue
		}
		w.probe(ctx, logger)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	err = scanner.Err()
	logger.Warn("audio subscription ended", "error", err)
	w.Publish(w.Fallback)
	if err != nil {
		return fmt.Errorf("audio subscription: %w", err)
	}
	return fmt.Errorf("audio subscription closed")
}

func (w *AudioWatcher) probe(ctx context.Context, logger *slog.Logger) {
	text, err := w.Probe(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Debug("audio probe failed", "error", err)
		w.Publish(w.Fallback)
		return
	}
	w.Publish(text)
}

// relevantAudioEvent reports whether a subscription line should trigger a
// re-probe. pactl prints lines like
//
//	Event 'change' on sink #56
//	Event 'change' on server #0
//
// Client churn is ignored. The substring match also catches sink-input
// events, which at worst cause a redundant probe.
func relevantAudioEvent(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "sink") || strings.Contains(l, "server")
}

// openPactlSubscribe starts the long-lived `pactl subscribe` process. The
// process dies with the context; its stdout pipe is the stream.
func openPactlSubscribe(ctx context.Context) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, "pactl", "subscribe")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	// Reap the process once the pipe consumer is done with it.
	go func() { _ = cmd.Wait() }()
	return stdout, nil
}
