package visualization

import "fmt"

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DefaultIterations is the relaxation count used by the force layout.
const DefaultIterations = 50

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	MinRadius  float64 // Inner bound of the ring
	MaxRadius  float64 // Outer bound of the ring
	Jitter     float64 // Maximum random offset on each axis
	Iterations int     // Force layout relaxation steps
	Padding    float64 // Force layout margin
}

// DefaultLayoutConfig returns the 900x540 canvas used by the simulator
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Width:      900,
		Height:     540,
		MinRadius:  140,
		MaxRadius:  240,
		Jitter:     30,
		Iterations: DefaultIterations,
		Padding:    40,
	}
}

// Layout places n nodes, indexed by position in the returned slice.
// rand must return floats in [0,1).
type Layout interface {
	Place(n int, edges [][2]int, rand func() float64) []Position
}

// Layout names accepted by NewLayout.
const (
	LayoutCircular = "circular"
	LayoutForce    = "force"
)

// NewLayout returns the layout registered under name.
func NewLayout(name string, config LayoutConfig) (Layout, error) {
	switch name {
	case "", LayoutCircular:
		return NewCircularLayout(config), nil
	case LayoutForce:
		return NewForceLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}
