package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-malsim/pkg/config"
	"github.com/dd0wney/cluso-malsim/pkg/health"
	"github.com/dd0wney/cluso-malsim/pkg/logging"
	"github.com/dd0wney/cluso-malsim/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: $MALSIM_CONFIG, ./malsim.yaml, ~/.config/malsim/config.yaml)")
	ticks := flag.Int("ticks", 100, "Ticks to simulate")
	mode := flag.String("mode", "", "Interaction mode: worms, trojan or virus")
	nodes := flag.Int("nodes", 0, "Network size")
	interval := flag.Duration("interval", 0, "Tick interval for -realtime runs")
	seed := flag.Int64("seed", 0, "Random seed (0 = non-deterministic)")
	trojans := flag.Int("trojans", 0, "Trojans to plant before the first tick")
	trials := flag.Int("trials", 1, "Independent trials; more than one prints the per-tick mean")
	workers := flag.Int("workers", 0, "Worker goroutines for trials (0 = one per CPU)")
	realtime := flag.Bool("realtime", false, "Drive a single trial from the clock instead of stepping")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	layout := flag.String("layout", "", "Node layout: circular or force")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	linger := flag.Duration("linger", 0, "Keep serving metrics this long after the run")
	flag.Parse()

	cfg, cfgPath, err := config.LoadWithOverrides(*configPath, config.Overrides{
		Mode:          *mode,
		Nodes:         *nodes,
		TickInterval:  *interval,
		Layout:        *layout,
		LogLevel:      *logLevel,
		MetricsListen: *metricsAddr,
	})
	if err != nil {
		log.Fatalf("malsim-run: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel())
	if cfg.Logging.File != "" {
		fileLogger, closer, err := logging.OpenFileLogger(cfg.Logging.File, cfg.LogLevel())
		if err != nil {
			log.Fatalf("malsim-run: %v", err)
		}
		defer closer.Close()
		logger = fileLogger
	}
	logger.Info("malsim-run starting", logging.String("config", cfgPath))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := metrics.NewRegistry()
	prog := &progress{}
	if cfg.Metrics.Listen != "" {
		srv := newMetricsServer(cfg.Metrics.Listen, registry, newChecker(prog))
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", logging.Error(err))
				cancel()
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info("serving metrics", logging.String("addr", cfg.Metrics.Listen))
	}

	opts := runOptions{
		Ticks:    *ticks,
		Trials:   *trials,
		Workers:  *workers,
		Seed:     *seed,
		Trojans:  *trojans,
		Realtime: *realtime,
		Progress: prog,
	}
	if err := run(ctx, cfg, opts, registry, logger, os.Stdout); err != nil {
		logger.Error("run failed", logging.Error(err))
		os.Exit(1)
	}

	if cfg.Metrics.Listen != "" && *linger > 0 {
		logger.Info("lingering for metrics scrape", logging.Duration("linger", *linger))
		select {
		case <-ctx.Done():
		case <-time.After(*linger):
		}
	}
}

func newChecker(prog *progress) *health.Checker {
	checker := health.NewChecker()
	checker.RegisterLiveness("process", health.SimpleCheck("process"))
	checker.RegisterReadiness("run", health.ProgressCheck(prog.snapshot))
	checker.Register("run", health.ProgressCheck(prog.snapshot))
	checker.Register("memory", health.MemoryCheck(health.RuntimeMemory))
	return checker
}

func newMetricsServer(addr string, registry *metrics.Registry, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	metricsHandler := registry.Handler()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		registry.UpdateSystemMetrics()
		metricsHandler.ServeHTTP(w, r)
	})
	mux.HandleFunc("/healthz", checker.HTTPHandler())
	mux.HandleFunc("/readyz", checker.ReadinessHandler())
	mux.HandleFunc("/livez", checker.LivenessHandler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
