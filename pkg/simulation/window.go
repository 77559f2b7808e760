package simulation

// WindowCapacity is the number of samples kept for the chart.
const WindowCapacity = 50

// Sample is a count of nodes by state at one instant. Patched nodes are
// excluded from Healthy but still count toward Infected or Compromised,
// so the four values can sum to more than the node count.
type Sample struct {
	Healthy     int `json:"healthy"`
	Infected    int `json:"infected"`
	Compromised int `json:"compromised"`
	Patched     int `json:"patched"`
}

// SampleGraph counts the nodes of g by state.
func SampleGraph(g *Graph) Sample {
	var s Sample
	for _, n := range g.Nodes {
		switch n.Status {
		case StatusHealthy:
			if !n.Patched {
				s.Healthy++
			}
		case StatusInfected:
			s.Infected++
		case StatusCompromised:
			s.Compromised++
		}
		if n.Patched {
			s.Patched++
		}
	}
	return s
}

// Max returns the largest of the four counts
func (s Sample) Max() int {
	return max(s.Healthy, s.Infected, s.Compromised, s.Patched)
}

// Window is a fixed-capacity FIFO of recent samples.
type Window struct {
	samples  []Sample
	capacity int
}

// NewWindow creates an empty window holding at most capacity samples.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = WindowCapacity
	}
	return &Window{
		samples:  make([]Sample, 0, capacity),
		capacity: capacity,
	}
}

// Append pushes s, evicting the oldest sample once the window is full
func (w *Window) Append(s Sample) {
	if len(w.samples) == w.capacity {
		copy(w.samples, w.samples[1:])
		w.samples = w.samples[:len(w.samples)-1]
	}
	w.samples = append(w.samples, s)
}

// Samples returns a copy of the window, oldest first
func (w *Window) Samples() []Sample {
	out := make([]Sample, len(w.samples))
	copy(out, w.samples)
	return out
}

// Latest returns the newest sample.
func (w *Window) Latest() (Sample, bool) {
	if len(w.samples) == 0 {
		return Sample{}, false
	}
	return w.samples[len(w.samples)-1], true
}

func (w *Window) Len() int      { return len(w.samples) }
func (w *Window) Capacity() int { return w.capacity }

// Reset discards every sample
func (w *Window) Reset() {
	w.samples = w.samples[:0]
}
