package visualization

import (
	"math"
)

// ForceLayout relaxes a circular placement with a Fruchterman-Reingold
// pass: every pair repels, linked pairs attract, and the step size cools
// each iteration. It draws exactly as many random values as the circular
// layout it starts from.
type ForceLayout struct {
	config LayoutConfig
	seed   *CircularLayout
}

// NewForceLayout creates a force-directed layout
func NewForceLayout(config LayoutConfig) *ForceLayout {
	if config.Iterations <= 0 {
		config.Iterations = DefaultIterations
	}
	seed := NewCircularLayout(config)
	return &ForceLayout{config: seed.config, seed: seed}
}

// Place computes positions for n nodes linked by edges. Edges naming
// nodes outside [0,n) are ignored.
func (fl *ForceLayout) Place(n int, edges [][2]int, rand func() float64) []Position {
	positions := fl.seed.Place(n, edges, rand)
	if n < 2 {
		return positions
	}

	width, height := fl.config.Width, fl.config.Height
	k := math.Sqrt(width * height / float64(n)) // ideal edge length
	temperature := width / 10.0
	forces := make([]Position, n)

	for iter := 0; iter < fl.config.Iterations; iter++ {
		clear(forces)

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx, dy, dist := separation(positions[i], positions[j])
				force := k * k / dist
				fx, fy := dx/dist*force, dy/dist*force
				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		for _, e := range edges {
			a, b := e[0], e[1]
			if a == b || a < 0 || b < 0 || a >= n || b >= n {
				continue
			}
			dx, dy, dist := separation(positions[a], positions[b])
			force := dist * dist / k
			fx, fy := dx/dist*force, dy/dist*force
			forces[a].X -= fx
			forces[a].Y -= fy
			forces[b].X += fx
			forces[b].Y += fy
		}

		cool := 1.0 - float64(iter)/float64(fl.config.Iterations)
		for i := range positions {
			f := math.Hypot(forces[i].X, forces[i].Y)
			if f == 0 {
				continue
			}
			step := math.Min(f, temperature) * cool
			positions[i].X += forces[i].X / f * step
			positions[i].Y += forces[i].Y / f * step
		}
		temperature *= 0.95
	}

	return FitUniform(positions, width, height, fl.config.Padding)
}

// separation returns the offset from b to a and its length, floored so
// coincident nodes still push apart.
func separation(a, b Position) (dx, dy, dist float64) {
	dx = a.X - b.X
	dy = a.Y - b.Y
	dist = math.Hypot(dx, dy)
	if dist < 0.01 {
		dist = 0.01
	}
	return dx, dy, dist
}
