package simulation

import (
	"testing"
)

func TestSampleGraph(t *testing.T) {
	g := NewGraph(6, nil)
	g.Nodes[0].Status = StatusInfected
	g.Nodes[1].Status = StatusCompromised
	g.Nodes[2].Patched = true
	g.Nodes[3].Status = StatusInfected
	g.Nodes[3].Patched = true

	got := SampleGraph(g)
	want := Sample{Healthy: 2, Infected: 2, Compromised: 1, Patched: 2}
	if got != want {
		t.Errorf("SampleGraph() = %+v, want %+v", got, want)
	}
	if got.Max() != 2 {
		t.Errorf("Max() = %d, want 2", got.Max())
	}
}

func TestWindowAppendEvicts(t *testing.T) {
	w := NewWindow(3)
	for i := 1; i <= 5; i++ {
		w.Append(Sample{Infected: i})
	}

	samples := w.Samples()
	if len(samples) != 3 {
		t.Fatalf("Len = %d, want 3", len(samples))
	}
	for i, want := range []int{3, 4, 5} {
		if samples[i].Infected != want {
			t.Errorf("samples[%d].Infected = %d, want %d", i, samples[i].Infected, want)
		}
	}

	latest, ok := w.Latest()
	if !ok || latest.Infected != 5 {
		t.Errorf("Latest() = %+v, %v", latest, ok)
	}
}

func TestWindowSamplesIsCopy(t *testing.T) {
	w := NewWindow(0)
	if w.Capacity() != WindowCapacity {
		t.Errorf("Capacity() = %d, want %d", w.Capacity(), WindowCapacity)
	}
	w.Append(Sample{Healthy: 1})

	s := w.Samples()
	s[0].Healthy = 42
	if latest, _ := w.Latest(); latest.Healthy != 1 {
		t.Error("Samples() must not alias the window")
	}
}

func TestWindowReset(t *testing.T) {
	w := NewWindow(5)
	w.Append(Sample{})
	w.Append(Sample{})
	w.Reset()

	if w.Len() != 0 {
		t.Errorf("Len() = %d after Reset", w.Len())
	}
	if _, ok := w.Latest(); ok {
		t.Error("Latest() on empty window should report false")
	}
}
