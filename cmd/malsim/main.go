package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-malsim/pkg/config"
	"github.com/dd0wney/cluso-malsim/pkg/logging"
	"github.com/dd0wney/cluso-malsim/pkg/metrics"
	"github.com/dd0wney/cluso-malsim/pkg/simulation"
)

// defaultLogFile is used when the config names none; the TUI owns the terminal.
const defaultLogFile = "malsim.log"

func main() {
	if err := run(); err != nil {
		log.Fatalf("malsim: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Config file (default: $MALSIM_CONFIG, ./malsim.yaml, ~/.config/malsim/config.yaml)")
	mode := flag.String("mode", "", "Interaction mode: worms, trojan or virus")
	nodes := flag.Int("nodes", 0, "Network size")
	interval := flag.Duration("interval", 0, "Tick interval, e.g. 600ms")
	seed := flag.Int64("seed", 0, "Random seed (0 = non-deterministic)")
	logFile := flag.String("log-file", "", "Log file (default "+defaultLogFile+")")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	layout := flag.String("layout", "", "Node layout: circular or force")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address while the TUI runs")
	flag.Parse()

	cfg, cfgPath, err := config.LoadWithOverrides(*configPath, config.Overrides{
		Mode:          *mode,
		Nodes:         *nodes,
		TickInterval:  *interval,
		Layout:        *layout,
		LogLevel:      *logLevel,
		LogFile:       *logFile,
		MetricsListen: *metricsAddr,
	})
	if err != nil {
		return err
	}

	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = defaultLogFile
	}
	logger, closer, err := logging.OpenFileLogger(logPath, cfg.LogLevel())
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("malsim starting", logging.String("config", cfgPath), logging.Int("nodes", cfg.Simulation.Nodes))

	startMode, err := cfg.Mode()
	if err != nil {
		return err
	}

	nodeLayout, err := cfg.Layout()
	if err != nil {
		return err
	}

	panel := cfg.Panel()
	registry := metrics.NewRegistry()
	ctrl := simulation.NewController(panel,
		simulation.WithMode(startMode),
		simulation.WithLayout(nodeLayout),
		simulation.WithRandom(simulation.NewRandomSource(*seed)),
		simulation.WithLogger(logger),
		simulation.WithRecorder(registry),
		// A new session always opens with one infected node.
		simulation.WithInitialSeed(1),
	)
	defer ctrl.Close()

	if cfg.Metrics.Listen != "" {
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: registry.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", logging.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info("serving metrics", logging.String("addr", cfg.Metrics.Listen))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := ctrl.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to simulation events: %w", err)
	}

	p := tea.NewProgram(newModel(ctrl, panel, sub, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	state := ctrl.State()
	logger.Info("malsim exiting", logging.RunID(state.RunID), logging.Tick(state.TickCounter))
	fmt.Fprintf(os.Stdout, "run %s ended after %d ticks\n", state.RunID, state.TickCounter)
	return nil
}
