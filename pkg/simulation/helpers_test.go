package simulation

// constSource always returns v.
func constSource(v float64) RandomSource {
	return func() float64 { return v }
}

// seqSource returns vals in order, then repeats the last one.
func seqSource(vals ...float64) RandomSource {
	i := 0
	return func() float64 {
		v := vals[min(i, len(vals)-1)]
		i++
		return v
	}
}

// lineGraph is 0 - 1 - 2.
func lineGraph() *Graph {
	return NewGraph(3, []Edge{{A: 0, B: 1}, {A: 1, B: 2}})
}

func statuses(g *Graph) []Status {
	out := make([]Status, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n.Status
	}
	return out
}
