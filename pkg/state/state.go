// Package state holds the shared display state for waypulse. Producers (the
// niri event client and the sensor pollers) each own one field and write it
// through a setter; the render loop reads consistent snapshots. It is the
// only mutable state shared between goroutines.
package state

import "sync"

// Placeholder is shown for a field before its first successful read.
const Placeholder = "—"

// Snapshot is a self-consistent copy of all bar fields at one point in
// time. Fields may be relatively stale with respect to each other; each
// individual field is always a complete value, never torn.
type Snapshot struct {
	Workspaces  string
	WindowTitle string
	Network     string
	Bluetooth   string
	Audio       string
	Clock       string
}

// Bar is the aggregate display state. Every field holds the last
// successfully produced value for its source, or a placeholder if no
// successful read has occurred yet. A failed read never clears a field back
// to empty; the producer writes an explicit error placeholder instead.
//
// Each field has exactly one writing goroutine, so writes to a single field
// are linearized by construction. The mutex makes single-writer/multi-reader
// access race-free.
type Bar struct {
	mu   sync.RWMutex
	snap Snapshot

	// changed carries a coalesced "something was written" signal to the
	// render loop. Buffered size 1: redundant notifications collapse.
	changed chan struct{}
}

// New returns a Bar with every field set to its placeholder.
func New() *Bar {
	return &Bar{
		snap: Snapshot{
			Workspaces:  Placeholder,
			WindowTitle: Placeholder,
			Network:     Placeholder,
			Bluetooth:   Placeholder,
			Audio:       Placeholder,
			Clock:       Placeholder,
		},
		changed: make(chan struct{}, 1),
	}
}

// Snapshot returns a copy of all fields suitable for rendering.
func (b *Bar) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// Changed returns a channel that receives a signal after any field write.
// Signals are coalesced; a single receive may cover several writes. The
// renderer re-arms its receive after every redraw.
func (b *Bar) Changed() <-chan struct{} {
	return b.changed
}

// SetWorkspaces replaces the workspaces markup.
func (b *Bar) SetWorkspaces(markup string) { b.set(func(s *Snapshot) { s.Workspaces = markup }) }

// SetWindowTitle replaces the focused window title.
func (b *Bar) SetWindowTitle(title string) { b.set(func(s *Snapshot) { s.WindowTitle = title }) }

// SetNetwork replaces the network status string.
func (b *Bar) SetNetwork(text string) { b.set(func(s *Snapshot) { s.Network = text }) }

// SetBluetooth replaces the bluetooth status string.
func (b *Bar) SetBluetooth(text string) { b.set(func(s *Snapshot) { s.Bluetooth = text }) }

// SetAudio replaces the audio status string.
func (b *Bar) SetAudio(text string) { b.set(func(s *Snapshot) { s.Audio = text }) }

// SetClock replaces the clock string.
func (b *Bar) SetClock(text string) { b.set(func(s *Snapshot) { s.Clock = text }) }

func (b *Bar) set(fn func(*Snapshot)) {
	b.mu.Lock()
	fn(&b.snap)
	b.mu.Unlock()
	b.notify()
}

// notify performs a non-blocking send on the changed channel.
func (b *Bar) notify() {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}
