// waypulse is a live terminal status bar for the niri compositor.
//
// It aggregates workspace and focused-window state from niri's IPC event
// stream with network, bluetooth, audio, and clock sensors into one
// three-zone bar: workspaces on the left, window title centered, system
// status on the right.
//
// Usage:
//
//	waypulse [flags]
//
// Flags:
//
//	-config string  Path to configuration file (default: ~/.config/waypulse/config.toml)
//	-socket string  niri IPC socket path (default: $NIRI_SOCKET)
//	-probe          Run every sensor once, print the readings, and exit
//	-verbose        Enable verbose logging
//	-version        Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/waypulse/pkg/config"
	"gitlab.com/tinyland/lab/waypulse/pkg/niri"
	"gitlab.com/tinyland/lab/waypulse/pkg/poller"
	"gitlab.com/tinyland/lab/waypulse/pkg/sensors"
	"gitlab.com/tinyland/lab/waypulse/pkg/state"
	"gitlab.com/tinyland/lab/waypulse/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		socketPath  = flag.String("socket", "", "niri IPC socket path (default: $NIRI_SOCKET)")
		runProbe    = flag.Bool("probe", false, "Run every sensor once, print the readings, and exit")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("waypulse %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	// Load configuration.
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *socketPath != "" {
		cfg.Compositor.Socket = *socketPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	reader := sensors.NewReader(
		sensors.ExecProber{Timeout: cfg.Sensors.ProbeTimeout.Duration},
		cfg.Sensors.RouteTarget,
	)

	if *runProbe {
		runSensorProbe(reader)
		os.Exit(0)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "waypulse: stdout is not a terminal")
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logger, closeLog, err := setupLogging(cfg, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// Root context: cancelled on signal or when the render loop quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	bar := state.New()
	startProducers(ctx, cfg, bar, reader, logger)

	logger.Info("starting waypulse",
		"version", version,
		"socket", cfg.Compositor.Socket,
	)

	p := tea.NewProgram(
		tui.New(bar, cfg.Display.RedrawInterval.Duration),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		logger.Error("render loop error", "error", err)
		cancel()
		os.Exit(1)
	}

	// Producers are daemon-style; cancelling the context is all the drain
	// they need.
	cancel()
	logger.Info("waypulse stopped")
}

// startProducers launches one goroutine per producer. Each owns exactly one
// display-state field (the niri client owns two) and isolates its own
// failures.
func startProducers(ctx context.Context, cfg *config.Config, bar *state.Bar, reader *sensors.Reader, logger *slog.Logger) {
	client := niri.New(niri.Config{
		SocketPath: cfg.Compositor.Socket,
		BackoffMin: cfg.Compositor.ReconnectMin.Duration,
		BackoffMax: cfg.Compositor.ReconnectMax.Duration,
		Logger:     logger,
	}, bar)
	go func() {
		if err := client.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("niri client stopped", "error", err)
		}
	}()

	network := &poller.Poller{
		Name:     "network",
		Interval: cfg.Sensors.NetworkInterval.Duration,
		Read: func(ctx context.Context) (string, error) {
			r, err := reader.Read(ctx, sensors.Network)
			return r.Text, err
		},
		Fallback: reader.Placeholder(sensors.Network),
		Publish:  bar.SetNetwork,
		Logger:   logger,
	}
	go network.Run(ctx)

	bluetooth := &poller.Poller{
		Name:     "bluetooth",
		Interval: cfg.Sensors.BluetoothInterval.Duration,
		Read: func(ctx context.Context) (string, error) {
			r, err := reader.Read(ctx, sensors.Bluetooth)
			return r.Text, err
		},
		Fallback: reader.Placeholder(sensors.Bluetooth),
		Publish:  bar.SetBluetooth,
		Logger:   logger,
	}
	go bluetooth.Run(ctx)

	clock := poller.NewClock(
		sensors.DefaultIcons().Clock,
		cfg.Sensors.ClockInterval.Duration,
		bar.SetClock,
		nil,
		logger,
	)
	go clock.Run(ctx)

	audio := &poller.AudioWatcher{
		Probe: func(ctx context.Context) (string, error) {
			r, err := reader.Read(ctx, sensors.Audio)
			return r.Text, err
		},
		Fallback: reader.Placeholder(sensors.Audio),
		Publish:  bar.SetAudio,
		Logger:   logger,
	}
	go func() {
		if err := audio.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("audio watcher stopped", "error", err)
		}
	}()
}

// runSensorProbe reads every sensor once and prints the outcome. Useful for
// checking that the probe tools work on this machine before blaming the bar.
func runSensorProbe(reader *sensors.Reader) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, kind := range []sensors.Kind{sensors.Network, sensors.Bluetooth, sensors.Audio} {
		r, err := reader.Read(ctx, kind)
		if err != nil {
			fmt.Printf("%-10s %s (%v)\n", kind.String()+":", reader.Placeholder(kind), err)
			continue
		}
		fmt.Printf("%-10s %s\n", kind.String()+":", r.Text)
	}

	if socket := os.Getenv("NIRI_SOCKET"); socket != "" {
		fmt.Printf("%-10s %s\n", "niri:", socket)
	} else {
		fmt.Printf("%-10s not running (NIRI_SOCKET unset)\n", "niri:")
	}
}

// setupLogging opens the log file and builds the slog logger. The returned
// func closes the file.
func setupLogging(cfg *config.Config, verbose bool) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := parseLogLevel(cfg.Log.Level)
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, func() { logFile.Close() }, nil
}

// parseLogLevel maps the config string to a slog level, defaulting to Info.
func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
