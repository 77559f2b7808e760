package visualization

import (
	"math"
	"testing"
)

// sequence returns a rand func cycling through vals
func sequence(vals ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := vals[i%len(vals)]
		i++
		return v
	}
}

func distance(p1, p2 Position) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// TestCircularLayout tests that nodes without jitter share one radius
func TestCircularLayout(t *testing.T) {
	layout := NewCircularLayout(LayoutConfig{
		Width:     400,
		Height:    400,
		MinRadius: 150,
		MaxRadius: 150,
	})

	positions := layout.Place(5, nil, sequence(0.5))
	if len(positions) != 5 {
		t.Fatalf("Expected 5 positions, got %d", len(positions))
	}

	center := Position{X: 200, Y: 200}
	for i, pos := range positions {
		if d := distance(pos, center); math.Abs(d-150) > 1e-9 {
			t.Errorf("Node %d at distance %f, want 150", i, d)
		}
	}

	// Node 0 sits on the positive x axis
	if math.Abs(positions[0].X-350) > 1e-9 || math.Abs(positions[0].Y-200) > 1e-9 {
		t.Errorf("Node 0 at %+v, want {350 200}", positions[0])
	}
}

// TestCircularLayoutJitterBounds tests the ring and jitter limits
func TestCircularLayoutJitterBounds(t *testing.T) {
	cfg := DefaultLayoutConfig()
	layout := NewCircularLayout(cfg)

	tests := []struct {
		name string
		draw float64
	}{
		{"low", 0},
		{"mid", 0.5},
		{"high", 0.999999},
	}

	center := Position{X: cfg.Width / 2, Y: cfg.Height / 2}
	maxReach := cfg.MaxRadius + cfg.Jitter*math.Sqrt2
	minReach := cfg.MinRadius - cfg.Jitter*math.Sqrt2

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, pos := range layout.Place(20, nil, sequence(tt.draw)) {
				d := distance(pos, center)
				if d > maxReach || d < minReach {
					t.Errorf("Node %d at distance %f outside [%f, %f]", i, d, minReach, maxReach)
				}
			}
		})
	}
}

func TestCircularLayoutEmpty(t *testing.T) {
	layout := NewCircularLayout(DefaultLayoutConfig())
	if got := layout.Place(0, nil, sequence(0.3)); len(got) != 0 {
		t.Errorf("Expected no positions, got %d", len(got))
	}
}

// TestFitToCanvas tests that coordinates are normalized to bounds
func TestFitToCanvas(t *testing.T) {
	positions := []Position{
		{X: -100, Y: -50},
		{X: 300, Y: 150},
		{X: 100, Y: 50},
	}

	fitted := FitToCanvas(positions, 80, 24, 1)

	for i, pos := range fitted {
		if pos.X < 1 || pos.X > 79 {
			t.Errorf("Position %d X=%f out of bounds", i, pos.X)
		}
		if pos.Y < 1 || pos.Y > 23 {
			t.Errorf("Position %d Y=%f out of bounds", i, pos.Y)
		}
	}

	if fitted[0].X != 1 || fitted[1].X != 79 {
		t.Errorf("Extremes not stretched to padding: %+v", fitted)
	}
	if math.Abs(fitted[2].X-40) > 1e-9 {
		t.Errorf("Midpoint X=%f, want 40", fitted[2].X)
	}
}

func TestFitToCanvasSinglePoint(t *testing.T) {
	fitted := FitToCanvas([]Position{{X: 5, Y: 5}}, 100, 50, 0)
	if fitted[0].X != 50 || fitted[0].Y != 25 {
		t.Errorf("Single point should be centred, got %+v", fitted[0])
	}
}

func TestForceLayoutStaysOnCanvas(t *testing.T) {
	cfg := DefaultLayoutConfig()
	layout := NewForceLayout(cfg)
	edges := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}}

	positions := layout.Place(6, edges, sequence(0.1, 0.7, 0.4))
	if len(positions) != 6 {
		t.Fatalf("Expected 6 positions, got %d", len(positions))
	}
	for i, pos := range positions {
		if pos.X < cfg.Padding-1e-9 || pos.X > cfg.Width-cfg.Padding+1e-9 {
			t.Errorf("Node %d X=%f off canvas", i, pos.X)
		}
		if pos.Y < cfg.Padding-1e-9 || pos.Y > cfg.Height-cfg.Padding+1e-9 {
			t.Errorf("Node %d Y=%f off canvas", i, pos.Y)
		}
	}
}

// TestForceLayoutPullsLinkedNodesTogether tests that an edge shortens
// the distance between its endpoints relative to an unlinked pair.
func TestForceLayoutPullsLinkedNodesTogether(t *testing.T) {
	layout := NewForceLayout(DefaultLayoutConfig())
	rand := sequence(0.5)

	positions := layout.Place(4, [][2]int{{0, 2}}, rand)
	linked := distance(positions[0], positions[2])
	unlinked := distance(positions[1], positions[3])
	if linked >= unlinked {
		t.Errorf("Linked pair %f apart, unlinked pair %f apart", linked, unlinked)
	}
}

// TestForceLayoutDrawCount tests that the force layout consumes the same
// random values as the circular layout it starts from.
func TestForceLayoutDrawCount(t *testing.T) {
	count := func(l Layout) int {
		n := 0
		l.Place(7, [][2]int{{0, 1}}, func() float64 { n++; return 0.5 })
		return n
	}
	cfg := DefaultLayoutConfig()
	if c, f := count(NewCircularLayout(cfg)), count(NewForceLayout(cfg)); c != f {
		t.Errorf("Circular drew %d values, force drew %d", c, f)
	}
}

func TestForceLayoutIgnoresBadEdges(t *testing.T) {
	layout := NewForceLayout(DefaultLayoutConfig())
	positions := layout.Place(3, [][2]int{{0, 9}, {-1, 2}, {1, 1}}, sequence(0.2))
	for i, pos := range positions {
		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
			t.Errorf("Node %d has NaN position", i)
		}
	}
}

func TestForceLayoutSmall(t *testing.T) {
	layout := NewForceLayout(DefaultLayoutConfig())
	if got := layout.Place(0, nil, sequence(0.5)); len(got) != 0 {
		t.Errorf("Expected no positions, got %d", len(got))
	}
	if got := layout.Place(1, nil, sequence(0.5)); len(got) != 1 {
		t.Errorf("Expected one position, got %d", len(got))
	}
}

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{LayoutCircular, false},
		{LayoutForce, false},
		{"spiral", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLayout(tt.name, DefaultLayoutConfig())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLayout(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && l == nil {
				t.Error("expected a layout")
			}
		})
	}
}

func TestFitUniformKeepsAspect(t *testing.T) {
	positions := []Position{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 5}}

	fitted := FitUniform(positions, 100, 100, 10)

	// 80 units of room for a 10-wide spread: scale 8 on both axes.
	if d := distance(fitted[0], fitted[1]); math.Abs(d-80) > 1e-9 {
		t.Errorf("Horizontal span %f, want 80", d)
	}
	if d := distance(fitted[0], fitted[2]); math.Abs(d-40) > 1e-9 {
		t.Errorf("Vertical span %f, want 40", d)
	}
	if math.Abs(fitted[0].Y-30) > 1e-9 {
		t.Errorf("Not vertically centred: %+v", fitted)
	}
}

func TestFitUniformSinglePoint(t *testing.T) {
	fitted := FitUniform([]Position{{X: -3, Y: 7}}, 100, 50, 5)
	if fitted[0].X != 50 || fitted[0].Y != 25 {
		t.Errorf("Single point should be centred, got %+v", fitted[0])
	}
}
