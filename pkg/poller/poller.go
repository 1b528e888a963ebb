// Package poller drives the sensor readers on their schedules and publishes
// each result into the shared display state. Every poller runs as one
// long-lived goroutine; failures update the owned field to a fallback string
// and never terminate the loop or leak into another producer.
package poller

import (
	"context"
	"log/slog"
	"time"
)

// Poller runs one read function on a fixed interval and publishes the
// result. An error from Read publishes Fallback instead; the loop only ends
// when the context is cancelled.
type Poller struct {
	// Name identifies the poller in logs.
	Name string

	// Interval is the polling period. Must be positive.
	Interval time.Duration

	// Read produces the next status string.
	Read func(ctx context.Context) (string, error)

	// Fallback is published when Read fails.
	Fallback string

	// Publish writes the result into the display state.
	Publish func(text string)

	// Logger may be nil.
	Logger *slog.Logger
}

// Run polls until ctx is cancelled. The first read happens immediately so
// the bar does not show placeholders for a full interval after startup.
func (p *Poller) Run(ctx context.Context) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("poller", p.Name)

	p.poll(ctx, logger)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("poller stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			p.poll(ctx, logger)
		}
	}
}

func (p *Poller) poll(ctx context.Context, logger *slog.Logger) {
	text, err := p.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Debug("read failed", "error", err)
		p.Publish(p.Fallback)
		return
	}
	p.Publish(text)
}
