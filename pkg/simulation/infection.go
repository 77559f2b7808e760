package simulation

// TickResult lists the transitions applied by one tick, each in ascending ID order.
type TickResult struct {
	Spread    []int // healthy -> infected through a worm edge
	Escalated []int // compromised -> infected
	Patched   []int // newly patched
}

// Changed reports whether the tick altered any node
func (r TickResult) Changed() bool {
	return len(r.Spread) > 0 || len(r.Escalated) > 0 || len(r.Patched) > 0
}

// ApplyTick runs the worm, escalation and patch rules once over every node.
//
// All rules read the graph as it was when the tick began and their effects
// are applied together afterwards, so a node infected during this tick does
// not spread until the next one. Patched nodes are skipped entirely. Random
// draws happen in ascending node ID order: neighbour spreads, then
// escalation, then the patch roll.
func ApplyTick(g *Graph, rates RateConfig, rng RandomSource) TickResult {
	n := len(g.Nodes)
	start := make([]Node, n)
	copy(start, g.Nodes)

	infect := make([]bool, n)
	escalate := make([]bool, n)
	patch := make([]bool, n)

	for i, node := range start {
		if node.Patched {
			continue
		}

		switch node.Status {
		case StatusInfected:
			for _, nb := range g.adjacency[i] {
				target := start[nb]
				if target.Patched || target.Status != StatusHealthy {
					continue
				}
				if rng() < rates.WormRate {
					infect[nb] = true
				}
			}
		case StatusCompromised:
			if rng() < CompromiseEscalation {
				escalate[i] = true
			}
		}

		if rng() < rates.PatchRate {
			patch[i] = true
		}
	}

	var result TickResult
	for i := range g.Nodes {
		if infect[i] {
			g.Nodes[i].Status = StatusInfected
			result.Spread = append(result.Spread, i)
		}
		if escalate[i] {
			g.Nodes[i].Status = StatusInfected
			result.Escalated = append(result.Escalated, i)
		}
		if patch[i] {
			g.Nodes[i].Patched = true
			result.Patched = append(result.Patched, i)
		}
	}
	return result
}

// Branch identifies which interaction rule fired for a click.
type Branch int

const (
	// BranchNone means no rule matched the clicked node
	BranchNone Branch = iota
	// BranchTrojan means a present trojan was triggered and consumed
	BranchTrojan
	// BranchEscalate means a compromised node was pushed to infected
	BranchEscalate
	// BranchWormClick means the worms-mode direct infection roll was made
	BranchWormClick
	// BranchVirusClick means the virus-mode direct infection roll was made
	BranchVirusClick
)

func (b Branch) String() string {
	switch b {
	case BranchTrojan:
		return "trojan"
	case BranchEscalate:
		return "escalate"
	case BranchWormClick:
		return "worm_click"
	case BranchVirusClick:
		return "virus_click"
	default:
		return "none"
	}
}

// InteractionResult describes the outcome of a click on one node.
type InteractionResult struct {
	Branch  Branch
	Node    Node // node state after the interaction
	Changed bool
}

// Interact applies the click rule of the given mode to node id. Only the
// first matching branch fires. Unknown IDs and patched nodes are left alone.
func Interact(g *Graph, id int, mode Mode, rates RateConfig, rng RandomSource) InteractionResult {
	if !g.valid(id) {
		return InteractionResult{Branch: BranchNone}
	}

	node := &g.Nodes[id]
	before := *node
	branch := BranchNone

	switch {
	case node.Patched:
	case mode == ModeTrojan || mode == ModeVirus:
		switch {
		case node.TrojanPresent && node.Status == StatusHealthy:
			branch = BranchTrojan
			if rng() < rates.TrojanRate {
				node.Status = StatusCompromised
			}
			node.TrojanPresent = false
		case node.Status == StatusCompromised:
			branch = BranchEscalate
			node.Status = StatusInfected
		case mode == ModeVirus && node.Status == StatusHealthy && !node.TrojanPresent:
			branch = BranchVirusClick
			if rng() < VirusClickChance {
				node.Status = StatusInfected
			}
		}
	case mode == ModeWorms:
		if node.Status == StatusHealthy {
			branch = BranchWormClick
			if rng() < WormClickChance {
				node.Status = StatusInfected
			}
		}
	}

	return InteractionResult{
		Branch:  branch,
		Node:    *node,
		Changed: *node != before,
	}
}

// InfectRandom infects up to k distinct healthy, unpatched nodes chosen
// uniformly without replacement. It returns the infected IDs in pick order;
// fewer than k are returned when not enough nodes are eligible.
func InfectRandom(g *Graph, k int, rng RandomSource) []int {
	eligible := make([]int, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Status == StatusHealthy && !n.Patched {
			eligible = append(eligible, n.ID)
		}
	}

	picked := make([]int, 0, min(k, len(eligible)))
	for i := 0; i < k && len(eligible) > 0; i++ {
		idx := pickIndex(rng, len(eligible))
		id := eligible[idx]
		eligible = append(eligible[:idx], eligible[idx+1:]...)

		g.Nodes[id].Status = StatusInfected
		picked = append(picked, id)
	}
	return picked
}

// SpawnTrojan plants a trojan on one healthy node that has none yet.
// It returns false when no node is eligible.
func SpawnTrojan(g *Graph, rng RandomSource) (int, bool) {
	free := make([]int, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Status == StatusHealthy && !n.TrojanPresent {
			free = append(free, n.ID)
		}
	}
	if len(free) == 0 {
		return -1, false
	}

	id := free[pickIndex(rng, len(free))]
	g.Nodes[id].TrojanPresent = true
	return id, true
}

// pickIndex maps a draw in [0,1) onto [0,n).
func pickIndex(rng RandomSource, n int) int {
	idx := int(rng() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
