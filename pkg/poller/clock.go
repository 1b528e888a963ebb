package poller

import (
	"context"
	"log/slog"
	"time"
)

// clockFormat matches the reference bar's timestamp layout.
const clockFormat = "2006-01-02 15:04:05"

// NewClock returns a poller that formats the current local time. The icon
// prefixes the timestamp; now is injectable for tests and defaults to
// time.Now.
func NewClock(icon string, interval time.Duration, publish func(string), now func() time.Time, logger *slog.Logger) *Poller {
	if now == nil {
		now = time.Now
	}
	return &Poller{
		Name:     "clock",
		Interval: interval,
		Read: func(context.Context) (string, error) {
			return icon + " " + now().Format(clockFormat), nil
		},
		// The clock cannot fail, but Poller requires a fallback.
		Fallback: icon + " —",
		Publish:  publish,
		Logger:   logger,
	}
}
