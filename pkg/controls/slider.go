package controls

import (
	"fmt"
	"math"
	"time"
)

// Slider names one adjustable panel value.
type Slider int

const (
	SliderWormRate Slider = iota
	SliderTrojanRate
	SliderPatchRate
	SliderSpeed
	SliderNetSize
)

// Sliders lists every slider in display order.
var Sliders = []Slider{SliderWormRate, SliderTrojanRate, SliderPatchRate, SliderSpeed, SliderNetSize}

// Step sizes of one slider nudge.
const (
	RateStep     = 0.01
	SpeedStep    = 50 * time.Millisecond
	NetSizeStep  = 1
	MaxSpeed     = 5 * time.Second
	MaxNetSize   = 200
	rateDecimals = 100
)

func (s Slider) String() string {
	switch s {
	case SliderWormRate:
		return "Worm rate"
	case SliderTrojanRate:
		return "Trojan rate"
	case SliderPatchRate:
		return "Patch rate"
	case SliderSpeed:
		return "Speed (ms)"
	case SliderNetSize:
		return "Network size"
	default:
		return "?"
	}
}

// Nudge moves slider s by steps increments (negative to decrease).
func (p *Panel) Nudge(s Slider, steps int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delta := float64(steps) * RateStep
	switch s {
	case SliderWormRate:
		p.rates.WormRate = Clamp01(roundRate(p.rates.WormRate + delta))
	case SliderTrojanRate:
		p.rates.TrojanRate = Clamp01(roundRate(p.rates.TrojanRate + delta))
	case SliderPatchRate:
		p.rates.PatchRate = Clamp01(roundRate(p.rates.PatchRate + delta))
	case SliderSpeed:
		p.interval = min(max(p.interval+time.Duration(steps)*SpeedStep, MinTickInterval), MaxSpeed)
	case SliderNetSize:
		p.nodes = min(max(p.nodes+steps*NetSizeStep, MinNodeCount), MaxNetSize)
	}
}

// Label formats the slider's current value the way the panel shows it:
// rates with two decimals, speed in whole milliseconds.
func (p *Panel) Label(s Slider) string {
	switch s {
	case SliderWormRate:
		return fmt.Sprintf("%.2f", p.Rates().WormRate)
	case SliderTrojanRate:
		return fmt.Sprintf("%.2f", p.Rates().TrojanRate)
	case SliderPatchRate:
		return fmt.Sprintf("%.2f", p.Rates().PatchRate)
	case SliderSpeed:
		return fmt.Sprintf("%d", p.TickInterval().Milliseconds())
	case SliderNetSize:
		return fmt.Sprintf("%d", p.NodeCount())
	default:
		return ""
	}
}

func roundRate(v float64) float64 {
	return math.Round(v*rateDecimals) / rateDecimals
}
