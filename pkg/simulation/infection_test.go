package simulation

import (
	"reflect"
	"testing"
)

func TestApplyTickWormSpread(t *testing.T) {
	g := lineGraph()
	g.Nodes[1].Status = StatusInfected

	result := ApplyTick(g, RateConfig{WormRate: 1.0, PatchRate: 0}, constSource(0.5))

	want := []Status{StatusInfected, StatusInfected, StatusInfected}
	if got := statuses(g); !reflect.DeepEqual(got, want) {
		t.Errorf("statuses = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(result.Spread, []int{0, 2}) {
		t.Errorf("Spread = %v, want [0 2]", result.Spread)
	}
	if !result.Changed() {
		t.Error("Changed() = false")
	}
}

func TestApplyTickEscalation(t *testing.T) {
	g := lineGraph()
	g.Nodes[1].Status = StatusCompromised

	result := ApplyTick(g, RateConfig{WormRate: 0}, constSource(0.1))

	if g.Nodes[1].Status != StatusInfected {
		t.Errorf("node 1 = %v, want infected", g.Nodes[1].Status)
	}
	if !reflect.DeepEqual(result.Escalated, []int{1}) {
		t.Errorf("Escalated = %v", result.Escalated)
	}
	if g.Nodes[0].Status != StatusHealthy || g.Nodes[2].Status != StatusHealthy {
		t.Error("escalation must not touch neighbours in the same tick")
	}
}

func TestApplyTickEscalationMiss(t *testing.T) {
	g := lineGraph()
	g.Nodes[1].Status = StatusCompromised

	ApplyTick(g, RateConfig{}, constSource(CompromiseEscalation))

	if g.Nodes[1].Status != StatusCompromised {
		t.Errorf("draw equal to %v must not escalate", CompromiseEscalation)
	}
}

func TestApplyTickUsesStartOfTickState(t *testing.T) {
	g := lineGraph()
	g.Nodes[0].Status = StatusInfected

	ApplyTick(g, RateConfig{WormRate: 1.0}, constSource(0))

	if g.Nodes[1].Status != StatusInfected {
		t.Fatal("node 1 should be infected by node 0")
	}
	if g.Nodes[2].Status != StatusHealthy {
		t.Error("node 2 was infected by a node that only became infected this tick")
	}
}

func TestApplyTickPatchedNodes(t *testing.T) {
	g := lineGraph()
	g.Nodes[0].Status = StatusInfected
	g.Nodes[0].Patched = true
	g.Nodes[1].Patched = true
	g.Nodes[2].Status = StatusCompromised
	g.Nodes[2].Patched = true

	result := ApplyTick(g, RateConfig{WormRate: 1, PatchRate: 1}, constSource(0))

	want := []Status{StatusInfected, StatusHealthy, StatusCompromised}
	if got := statuses(g); !reflect.DeepEqual(got, want) {
		t.Errorf("statuses = %v, want %v", got, want)
	}
	if result.Changed() {
		t.Errorf("tick over a fully patched graph changed something: %+v", result)
	}
}

func TestApplyTickPatchRoll(t *testing.T) {
	g := lineGraph()
	g.Nodes[1].Status = StatusInfected

	// Draws: node 0 patch roll, node 1 spread to 0, spread to 2, patch roll, node 2 patch roll.
	rng := seqSource(0.9, 0.9, 0.9, 0.01, 0.9)
	result := ApplyTick(g, RateConfig{WormRate: 0.5, PatchRate: 0.05}, rng)

	if !reflect.DeepEqual(result.Patched, []int{1}) {
		t.Errorf("Patched = %v, want [1]", result.Patched)
	}
	if !g.Nodes[1].Patched || g.Nodes[1].Status != StatusInfected {
		t.Errorf("node 1 = %+v, want patched and still infected", g.Nodes[1])
	}
	if len(result.Spread) != 0 {
		t.Errorf("Spread = %v, want none", result.Spread)
	}
}

func TestApplyTickDrawOrder(t *testing.T) {
	g := lineGraph()
	g.Nodes[1].Status = StatusInfected
	g.Nodes[2].Status = StatusCompromised

	var draws int
	rng := func() float64 {
		draws++
		return 0.99
	}
	ApplyTick(g, RateConfig{WormRate: 0.5, PatchRate: 0.5}, rng)

	// node 0: patch; node 1: spread to 0 (node 2 not healthy), patch; node 2: escalate, patch
	if draws != 5 {
		t.Errorf("draws = %d, want 5", draws)
	}
}

func TestInteractWorms(t *testing.T) {
	tests := []struct {
		name    string
		draw    float64
		want    Status
		changed bool
	}{
		{"draw below chance", 0.2, StatusInfected, true},
		{"draw above chance", 0.3, StatusHealthy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := lineGraph()
			res := Interact(g, 0, ModeWorms, RateConfig{}, constSource(tt.draw))

			if res.Branch != BranchWormClick {
				t.Errorf("Branch = %v, want worm_click", res.Branch)
			}
			if g.Nodes[0].Status != tt.want || res.Node.Status != tt.want {
				t.Errorf("status = %v, want %v", g.Nodes[0].Status, tt.want)
			}
			if res.Changed != tt.changed {
				t.Errorf("Changed = %v, want %v", res.Changed, tt.changed)
			}
		})
	}
}

func TestInteractTrojanLifecycle(t *testing.T) {
	g := lineGraph()
	g.Nodes[0].TrojanPresent = true
	rates := RateConfig{TrojanRate: 1.0}

	first := Interact(g, 0, ModeTrojan, rates, constSource(0.5))
	if first.Branch != BranchTrojan {
		t.Fatalf("first Branch = %v, want trojan", first.Branch)
	}
	if g.Nodes[0].Status != StatusCompromised || g.Nodes[0].TrojanPresent {
		t.Fatalf("after first click: %+v", g.Nodes[0])
	}

	second := Interact(g, 0, ModeTrojan, rates, constSource(0.5))
	if second.Branch != BranchEscalate || g.Nodes[0].Status != StatusInfected {
		t.Errorf("after second click: branch %v, node %+v", second.Branch, g.Nodes[0])
	}
}

func TestInteractTrojanConsumedOnMiss(t *testing.T) {
	for _, mode := range []Mode{ModeTrojan, ModeVirus} {
		t.Run(mode.String(), func(t *testing.T) {
			g := lineGraph()
			g.Nodes[2].TrojanPresent = true

			res := Interact(g, 2, mode, RateConfig{TrojanRate: 0}, constSource(0))

			if g.Nodes[2].TrojanPresent {
				t.Error("trojan must be cleared even when the roll misses")
			}
			if g.Nodes[2].Status != StatusHealthy {
				t.Errorf("status = %v, want healthy", g.Nodes[2].Status)
			}
			if !res.Changed {
				t.Error("clearing the trojan is a change")
			}
		})
	}
}

func TestInteractBranches(t *testing.T) {
	tests := []struct {
		name   string
		node   Node
		mode   Mode
		draw   float64
		branch Branch
		want   Status
	}{
		{"trojan mode plain healthy", Node{Status: StatusHealthy}, ModeTrojan, 0, BranchNone, StatusHealthy},
		{"trojan mode infected", Node{Status: StatusInfected}, ModeTrojan, 0, BranchNone, StatusInfected},
		{"worms mode compromised", Node{Status: StatusCompromised}, ModeWorms, 0, BranchNone, StatusCompromised},
		{"worms ignores trojan flag", Node{Status: StatusHealthy, TrojanPresent: true}, ModeWorms, 0.1, BranchWormClick, StatusInfected},
		{"virus compromised", Node{Status: StatusCompromised}, ModeVirus, 0.9, BranchEscalate, StatusInfected},
		{"virus direct hit", Node{Status: StatusHealthy}, ModeVirus, 0.05, BranchVirusClick, StatusInfected},
		{"virus direct miss", Node{Status: StatusHealthy}, ModeVirus, 0.06, BranchVirusClick, StatusHealthy},
		{"patched compromised", Node{Status: StatusCompromised, Patched: true}, ModeVirus, 0, BranchNone, StatusCompromised},
		{"patched healthy worms", Node{Status: StatusHealthy, Patched: true}, ModeWorms, 0, BranchNone, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph(1, nil)
			tt.node.ID = 0
			g.Nodes[0] = tt.node

			res := Interact(g, 0, tt.mode, RateConfig{TrojanRate: 1}, constSource(tt.draw))
			if res.Branch != tt.branch {
				t.Errorf("Branch = %v, want %v", res.Branch, tt.branch)
			}
			if g.Nodes[0].Status != tt.want {
				t.Errorf("Status = %v, want %v", g.Nodes[0].Status, tt.want)
			}
		})
	}
}

func TestInteractUnknownNode(t *testing.T) {
	g := lineGraph()
	for _, id := range []int{-1, 3, 100} {
		res := Interact(g, id, ModeWorms, RateConfig{}, constSource(0))
		if res.Branch != BranchNone || res.Changed {
			t.Errorf("Interact(%d) = %+v, want no-op", id, res)
		}
	}
}

func TestInfectRandomPartialFill(t *testing.T) {
	g := NewGraph(5, nil)
	g.Nodes[0].Status = StatusInfected
	g.Nodes[1].Status = StatusCompromised
	g.Nodes[2].Patched = true

	ids := InfectRandom(g, 5, constSource(0.5))

	if len(ids) != 2 {
		t.Fatalf("InfectRandom returned %v, want 2 IDs", ids)
	}
	for _, id := range []int{3, 4} {
		if g.Nodes[id].Status != StatusInfected {
			t.Errorf("node %d = %v, want infected", id, g.Nodes[id].Status)
		}
	}
	if g.Nodes[2].Status != StatusHealthy {
		t.Error("patched node was seeded")
	}
}

func TestInfectRandomDistinct(t *testing.T) {
	g := NewGraph(10, nil)
	ids := InfectRandom(g, 4, constSource(0))

	seen := map[int]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate pick %d in %v", id, ids)
		}
		seen[id] = true
	}
	if len(ids) != 4 || SampleGraph(g).Infected != 4 {
		t.Errorf("ids = %v, infected = %d", ids, SampleGraph(g).Infected)
	}
}

func TestInfectRandomNothingEligible(t *testing.T) {
	g := NewGraph(2, nil)
	g.Nodes[0].Patched = true
	g.Nodes[1].Status = StatusInfected

	if ids := InfectRandom(g, 3, constSource(0)); len(ids) != 0 {
		t.Errorf("ids = %v, want none", ids)
	}
	if ids := InfectRandom(NewGraph(3, nil), 0, constSource(0)); len(ids) != 0 {
		t.Errorf("k=0 returned %v", ids)
	}
}

func TestSpawnTrojan(t *testing.T) {
	g := NewGraph(3, nil)
	g.Nodes[0].Status = StatusInfected
	g.Nodes[1].TrojanPresent = true

	id, ok := SpawnTrojan(g, constSource(0.99))
	if !ok || id != 2 {
		t.Fatalf("SpawnTrojan() = %d, %v; want 2, true", id, ok)
	}
	if !g.Nodes[2].TrojanPresent {
		t.Error("trojan not planted")
	}

	if id, ok := SpawnTrojan(g, constSource(0)); ok || id != -1 {
		t.Errorf("SpawnTrojan() on full graph = %d, %v; want -1, false", id, ok)
	}
}

func TestPickIndexBounds(t *testing.T) {
	tests := []struct {
		draw float64
		n    int
		want int
	}{
		{0, 4, 0},
		{0.999999, 4, 3},
		{1, 4, 3},
		{-0.5, 4, 0},
		{0.5, 1, 0},
	}
	for _, tt := range tests {
		if got := pickIndex(constSource(tt.draw), tt.n); got != tt.want {
			t.Errorf("pickIndex(%v, %d) = %d, want %d", tt.draw, tt.n, got, tt.want)
		}
	}
}

func TestBranchString(t *testing.T) {
	want := map[Branch]string{
		BranchNone:       "none",
		BranchTrojan:     "trojan",
		BranchEscalate:   "escalate",
		BranchWormClick:  "worm_click",
		BranchVirusClick: "virus_click",
	}
	for b, s := range want {
		if b.String() != s {
			t.Errorf("%d.String() = %q, want %q", b, b.String(), s)
		}
	}
}
