// Package ensemble runs many independent headless simulations and averages
// their counts tick by tick.
package ensemble

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-malsim/pkg/logging"
	"github.com/dd0wney/cluso-malsim/pkg/parallel"
	"github.com/dd0wney/cluso-malsim/pkg/simulation"
)

// ErrNoTrials is returned when Options asks for zero trials.
var ErrNoTrials = errors.New("ensemble: at least one trial is required")

// ErrTrialFailed is returned when one or more trials did not finish.
var ErrTrialFailed = errors.New("ensemble: trial failed")

// trial runs one simulation. Tests replace it to inject failures.
var trial = runTrial

// Options describes one ensemble run.
type Options struct {
	Trials  int
	Ticks   int
	Nodes   int
	Rates   simulation.RateConfig
	Seeded  int // nodes infected before the first tick
	Trojans int // trojans planted before the first tick
	Workers int // zero means one per CPU

	// Seed makes trial i use source Seed+i. Zero uses the shared
	// non-deterministic source.
	Seed int64
}

// MeanSample is the per-tick average across trials.
type MeanSample struct {
	Tick        int     `json:"tick"`
	Healthy     float64 `json:"healthy"`
	Infected    float64 `json:"infected"`
	Compromised float64 `json:"compromised"`
	Patched     float64 `json:"patched"`
}

// Result holds the averaged series. Series[0] is the state before the
// first tick.
type Result struct {
	Trials int          `json:"trials"`
	Nodes  int          `json:"nodes"`
	Series []MeanSample `json:"series"`
}

// Final returns the last averaged sample
func (r *Result) Final() MeanSample {
	if len(r.Series) == 0 {
		return MeanSample{}
	}
	return r.Series[len(r.Series)-1]
}

// Run executes opts.Trials simulations on a worker pool.
func Run(ctx context.Context, opts Options, logger logging.Logger) (*Result, error) {
	if opts.Trials <= 0 {
		return nil, ErrNoTrials
	}
	if opts.Ticks < 0 {
		opts.Ticks = 0
	}
	if opts.Nodes < simulation.MinNodes {
		opts.Nodes = simulation.MinNodes
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	pool, err := parallel.NewWorkerPool(opts.Workers, logger)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Close()

	timer := logging.StartTimer(logger, "ensemble completed",
		logging.Count(opts.Trials),
		logging.Int("ticks", opts.Ticks),
		logging.Int("workers", pool.Workers()),
	)

	// Each trial writes only its own row.
	runs := make([][]simulation.Sample, opts.Trials)
	err = pool.ForEach(ctx, opts.Trials, func(i int) {
		runs[i] = trial(ctx, opts, trialSource(opts.Seed, i))
	})
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	// The pool recovers a panicking trial and leaves its row nil.
	if failed := countNil(runs); failed > 0 {
		err = fmt.Errorf("%w: %d of %d trials did not complete", ErrTrialFailed, failed, opts.Trials)
		timer.EndError(err)
		return nil, err
	}

	result := &Result{
		Trials: opts.Trials,
		Nodes:  opts.Nodes,
		Series: average(runs, opts.Ticks+1),
	}
	final := result.Final()
	timer.End(
		logging.Float64("mean_infected", final.Infected),
		logging.Float64("mean_patched", final.Patched),
	)
	return result, nil
}

func trialSource(seed int64, i int) simulation.RandomSource {
	if seed == 0 {
		return simulation.NewRandomSource(0)
	}
	return simulation.NewRandomSource(seed + int64(i))
}

// runTrial returns ticks+1 samples, or fewer if ctx is cancelled.
func runTrial(ctx context.Context, opts Options, rng simulation.RandomSource) []simulation.Sample {
	g := simulation.BuildRandomGraph(opts.Nodes, rng)
	simulation.InfectRandom(g, opts.Seeded, rng)
	for i := 0; i < opts.Trojans; i++ {
		if _, ok := simulation.SpawnTrojan(g, rng); !ok {
			break
		}
	}

	samples := make([]simulation.Sample, 0, opts.Ticks+1)
	samples = append(samples, simulation.SampleGraph(g))
	for t := 0; t < opts.Ticks; t++ {
		if ctx.Err() != nil {
			break
		}
		simulation.ApplyTick(g, opts.Rates, rng)
		samples = append(samples, simulation.SampleGraph(g))
	}
	return samples
}

func countNil(runs [][]simulation.Sample) int {
	n := 0
	for _, run := range runs {
		if run == nil {
			n++
		}
	}
	return n
}

// average folds the runs into length means. A cut-short run contributes
// only to the ticks it reached.
func average(runs [][]simulation.Sample, length int) []MeanSample {
	series := make([]MeanSample, length)
	counts := make([]int, length)
	for _, run := range runs {
		for t, s := range run {
			if t >= length {
				break
			}
			series[t].Healthy += float64(s.Healthy)
			series[t].Infected += float64(s.Infected)
			series[t].Compromised += float64(s.Compromised)
			series[t].Patched += float64(s.Patched)
			counts[t]++
		}
	}
	for t := range series {
		series[t].Tick = t
		if n := float64(counts[t]); n > 0 {
			series[t].Healthy /= n
			series[t].Infected /= n
			series[t].Compromised /= n
			series[t].Patched /= n
		}
	}
	return series
}
