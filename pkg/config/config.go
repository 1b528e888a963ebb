// Package config provides TOML-based configuration for waypulse.
//
// A config file looks like:
//
//	[compositor]
//	socket = ""            # override NIRI_SOCKET discovery
//	reconnect_min = "1s"
//	reconnect_max = "30s"
//
//	[sensors]
//	network_interval = "5s"
//	bluetooth_interval = "5s"
//	clock_interval = "1s"
//	probe_timeout = "1s"
//	route_target = "1.1.1.1"
//
//	[display]
//	redraw_interval = "500ms"
//
//	[log]
//	file = ""              # default: $XDG_STATE_HOME/waypulse/waypulse.log
//	level = "info"
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for waypulse.
type Config struct {
	Compositor CompositorConfig `toml:"compositor"`
	Sensors    SensorsConfig    `toml:"sensors"`
	Display    DisplayConfig    `toml:"display"`
	Log        LogConfig        `toml:"log"`
}

// CompositorConfig controls the niri event client.
type CompositorConfig struct {
	// Socket overrides the NIRI_SOCKET environment variable when non-empty.
	Socket string `toml:"socket"`

	// ReconnectMin is the initial reconnect backoff after a stream failure.
	ReconnectMin Duration `toml:"reconnect_min"`

	// ReconnectMax caps the reconnect backoff.
	ReconnectMax Duration `toml:"reconnect_max"`
}

// SensorsConfig controls the sensor pollers.
type SensorsConfig struct {
	NetworkInterval   Duration `toml:"network_interval"`
	BluetoothInterval Duration `toml:"bluetooth_interval"`
	ClockInterval     Duration `toml:"clock_interval"`

	// ProbeTimeout bounds every external probe invocation so a hung tool
	// cannot stall its poller.
	ProbeTimeout Duration `toml:"probe_timeout"`

	// RouteTarget is the address handed to `ip route get` to resolve the
	// outbound interface.
	RouteTarget string `toml:"route_target"`
}

// DisplayConfig controls the render loop.
type DisplayConfig struct {
	// RedrawInterval is the periodic repaint cadence. State-change
	// notifications repaint sooner; this is the floor for the clock zone.
	RedrawInterval Duration `toml:"redraw_interval"`
}

// LogConfig controls slog output. The TUI owns the terminal, so logs go to
// a file rather than stderr.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Compositor: CompositorConfig{
			ReconnectMin: Duration{1 * time.Second},
			ReconnectMax: Duration{30 * time.Second},
		},
		Sensors: SensorsConfig{
			NetworkInterval:   Duration{5 * time.Second},
			BluetoothInterval: Duration{5 * time.Second},
			ClockInterval:     Duration{1 * time.Second},
			ProbeTimeout:      Duration{1 * time.Second},
			RouteTarget:       "1.1.1.1",
		},
		Display: DisplayConfig{
			RedrawInterval: Duration{500 * time.Millisecond},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Sensors.NetworkInterval.Duration <= 0 {
		return fmt.Errorf("sensors.network_interval must be positive")
	}
	if c.Sensors.BluetoothInterval.Duration <= 0 {
		return fmt.Errorf("sensors.bluetooth_interval must be positive")
	}
	if c.Sensors.ClockInterval.Duration <= 0 {
		return fmt.Errorf("sensors.clock_interval must be positive")
	}
	if c.Sensors.ProbeTimeout.Duration <= 0 {
		return fmt.Errorf("sensors.probe_timeout must be positive")
	}
	if c.Sensors.RouteTarget == "" {
		return fmt.Errorf("sensors.route_target must not be empty")
	}
	if c.Display.RedrawInterval.Duration <= 0 {
		return fmt.Errorf("display.redraw_interval must be positive")
	}
	if c.Compositor.ReconnectMin.Duration <= 0 {
		return fmt.Errorf("compositor.reconnect_min must be positive")
	}
	if c.Compositor.ReconnectMax.Duration < c.Compositor.ReconnectMin.Duration {
		return fmt.Errorf("compositor.reconnect_max must be >= reconnect_min")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
