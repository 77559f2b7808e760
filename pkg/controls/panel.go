// Package controls holds the live values a user tunes while a simulation
// runs: rates, speed, network size and the auto-seed toggle.
package controls

import (
	"math"
	"sync"
	"time"

	"github.com/dd0wney/cluso-malsim/pkg/simulation"
)

// Bounds applied by the setters.
const (
	MinTickInterval = time.Millisecond
	MinNodeCount    = simulation.MinNodes
)

// Panel is a concurrency-safe simulation.Settings. Setters clamp their
// input, so the controller only ever reads in-range values.
type Panel struct {
	mu       sync.RWMutex
	rates    simulation.RateConfig
	interval time.Duration
	nodes    int
	autoSeed bool
}

var _ simulation.Settings = (*Panel)(nil)

// NewPanel creates a panel with the given starting values, clamped.
func NewPanel(rates simulation.RateConfig, interval time.Duration, nodes int, autoSeed bool) *Panel {
	p := &Panel{}
	p.SetRates(rates)
	p.SetTickInterval(interval)
	p.SetNodeCount(nodes)
	p.SetAutoSeed(autoSeed)
	return p
}

func (p *Panel) Rates() simulation.RateConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rates
}

func (p *Panel) TickInterval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interval
}

func (p *Panel) NodeCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.nodes
}

func (p *Panel) AutoSeed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.autoSeed
}

// SetRates replaces all three rates
func (p *Panel) SetRates(r simulation.RateConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates = simulation.RateConfig{
		WormRate:   Clamp01(r.WormRate),
		TrojanRate: Clamp01(r.TrojanRate),
		PatchRate:  Clamp01(r.PatchRate),
	}
}

func (p *Panel) SetWormRate(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates.WormRate = Clamp01(v)
}

func (p *Panel) SetTrojanRate(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates.TrojanRate = Clamp01(v)
}

func (p *Panel) SetPatchRate(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates.PatchRate = Clamp01(v)
}

// SetTickInterval sets the clock interval; it applies from the next Start
func (p *Panel) SetTickInterval(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interval = max(d, MinTickInterval)
}

// SetNodeCount sets the size of the next rebuilt network
func (p *Panel) SetNodeCount(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes = max(n, MinNodeCount)
}

func (p *Panel) SetAutoSeed(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoSeed = on
}

// ToggleAutoSeed flips the auto-seed switch and returns the new value
func (p *Panel) ToggleAutoSeed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoSeed = !p.autoSeed
	return p.autoSeed
}

// Clamp01 limits v to [0,1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
