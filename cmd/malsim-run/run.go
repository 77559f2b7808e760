package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dd0wney/cluso-malsim/pkg/config"
	"github.com/dd0wney/cluso-malsim/pkg/ensemble"
	"github.com/dd0wney/cluso-malsim/pkg/logging"
	"github.com/dd0wney/cluso-malsim/pkg/simulation"
)

type runOptions struct {
	Ticks    int
	Trials   int
	Workers  int
	Seed     int64
	Trojans  int
	Realtime bool
	Progress *progress
}

// progress is read by the readiness probe while a run is in flight.
type progress struct {
	started atomic.Bool
	done    atomic.Int64
	total   atomic.Int64
}

func (p *progress) begin(total int) {
	if p == nil {
		return
	}
	p.total.Store(int64(total))
	p.started.Store(true)
}

func (p *progress) advance(done int) {
	if p != nil {
		p.done.Store(int64(done))
	}
}

func (p *progress) snapshot() (done, total int, started bool) {
	return int(p.done.Load()), int(p.total.Load()), p.started.Load()
}

// tickLine is one JSON line of single-trial output.
type tickLine struct {
	RunID string `json:"run_id"`
	Tick  int    `json:"tick"`
	simulation.Sample
}

// run dispatches to a single trial or an ensemble and writes JSON to out.
func run(ctx context.Context, cfg *config.Config, opts runOptions, rec simulation.Recorder, logger logging.Logger, out io.Writer) error {
	if opts.Trials > 1 {
		return runEnsemble(ctx, cfg, opts, logger, out)
	}
	return runSingle(ctx, cfg, opts, rec, logger, out)
}

func runSingle(ctx context.Context, cfg *config.Config, opts runOptions, rec simulation.Recorder, logger logging.Logger, out io.Writer) error {
	mode, err := cfg.Mode()
	if err != nil {
		return err
	}

	nodeLayout, err := cfg.Layout()
	if err != nil {
		return err
	}

	panel := cfg.Panel()
	ctrl := simulation.NewController(panel,
		simulation.WithMode(mode),
		simulation.WithLayout(nodeLayout),
		simulation.WithRandom(simulation.NewRandomSource(opts.Seed)),
		simulation.WithLogger(logger),
		simulation.WithRecorder(rec),
		simulation.WithInitialSeed(1),
	)
	defer ctrl.Close()

	for i := 0; i < opts.Trojans; i++ {
		if _, ok := ctrl.SpawnTrojan(); !ok {
			break
		}
	}

	enc := json.NewEncoder(out)
	runID := ctrl.State().RunID
	emit := func(tick int, s simulation.Sample) error {
		opts.Progress.advance(tick)
		return enc.Encode(tickLine{RunID: runID, Tick: tick, Sample: s})
	}
	opts.Progress.begin(opts.Ticks)
	if err := emit(0, ctrl.Sample()); err != nil {
		return err
	}

	timer := logging.StartTimer(logger, "run completed", logging.RunID(runID), logging.Int("ticks", opts.Ticks))
	if opts.Realtime {
		err = driveByClock(ctx, ctrl, opts.Ticks, logger, emit)
	} else {
		err = driveBySteps(ctx, ctrl, opts.Ticks, emit)
	}
	if err != nil {
		timer.EndError(err)
		return err
	}

	final := ctrl.Sample()
	timer.End(logging.Int("infected", final.Infected), logging.Int("patched", final.Patched))
	return nil
}

func driveBySteps(ctx context.Context, ctrl *simulation.Controller, ticks int, emit func(int, simulation.Sample) error) error {
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ctrl.Step()
		if err := emit(ctrl.State().TickCounter, ctrl.Sample()); err != nil {
			return err
		}
	}
	return nil
}

// driveByClock starts the controller's clock and follows its tick events.
func driveByClock(ctx context.Context, ctrl *simulation.Controller, ticks int, logger logging.Logger, emit func(int, simulation.Sample) error) error {
	if ticks <= 0 {
		return nil
	}
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	sub, err := ctrl.Subscribe(subCtx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	ctrl.Start()
	defer ctrl.Stop()

	if err := followTicks(ctx, sub.C(), ticks, logger, emit); err != nil {
		if errors.Is(err, errStreamClosed) {
			return fmt.Errorf("%w after %d ticks", err, ctrl.State().TickCounter)
		}
		return err
	}
	return nil
}

var errStreamClosed = errors.New("event stream closed")

// followTicks emits one line per tick event until the tick counter reaches
// ticks. Delivery is lossy when the subscriber falls behind; each gap in
// the tick sequence is logged with the number of ticks missed.
func followTicks(ctx context.Context, events <-chan simulation.Event, ticks int, logger logging.Logger, emit func(int, simulation.Sample) error) error {
	last := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return errStreamClosed
			}
			if ev.Type != simulation.EventTick {
				continue
			}
			tick := ev.State.TickCounter
			if missed := tick - last - 1; missed > 0 {
				logger.Warn("tick events dropped",
					logging.Tick(tick),
					logging.Int("missed", missed),
				)
			}
			last = tick
			if err := emit(tick, ev.Sample); err != nil {
				return err
			}
			if tick >= ticks {
				return nil
			}
		}
	}
}

func runEnsemble(ctx context.Context, cfg *config.Config, opts runOptions, logger logging.Logger, out io.Writer) error {
	seeded := 1
	opts.Progress.begin(opts.Trials)
	result, err := ensemble.Run(ctx, ensemble.Options{
		Trials:  opts.Trials,
		Ticks:   opts.Ticks,
		Nodes:   cfg.Simulation.Nodes,
		Rates:   cfg.RateConfig(),
		Seeded:  seeded,
		Trojans: opts.Trojans,
		Workers: opts.Workers,
		Seed:    opts.Seed,
	}, logger)
	if err != nil {
		return fmt.Errorf("ensemble: %w", err)
	}
	opts.Progress.advance(opts.Trials)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
