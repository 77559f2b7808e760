package visualization

import (
	"math"
)

// CircularLayout arranges nodes around the canvas centre. Each node gets
// its own radius drawn from [MinRadius, MaxRadius) and a jitter offset on
// both axes, so the ring looks hand-drawn rather than regular.
type CircularLayout struct {
	config LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config LayoutConfig) *CircularLayout {
	if config.Width == 0 || config.Height == 0 {
		def := DefaultLayoutConfig()
		config.Width, config.Height = def.Width, def.Height
	}
	if config.MaxRadius < config.MinRadius {
		config.MinRadius, config.MaxRadius = config.MaxRadius, config.MinRadius
	}
	if config.MaxRadius == 0 {
		config.MaxRadius = math.Min(config.Width, config.Height) / 2
		config.MinRadius = config.MaxRadius
	}
	return &CircularLayout{config: config}
}

// Place computes positions for n nodes. Node i sits at angle 2πi/n and
// edges are ignored. Draws are taken per node in order: radius, then x
// jitter, then y jitter.
func (cl *CircularLayout) Place(n int, _ [][2]int, rand func() float64) []Position {
	positions := make([]Position, 0, max(n, 0))
	if n <= 0 {
		return positions
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	angleStep := 2 * math.Pi / float64(n)

	for i := 0; i < n; i++ {
		angle := float64(i) * angleStep
		radius := between(rand, cl.config.MinRadius, cl.config.MaxRadius)
		positions = append(positions, Position{
			X: centerX + radius*math.Cos(angle) + between(rand, -cl.config.Jitter, cl.config.Jitter),
			Y: centerY + radius*math.Sin(angle) + between(rand, -cl.config.Jitter, cl.config.Jitter),
		})
	}

	return positions
}

func between(rand func() float64, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rand()*(hi-lo)
}
