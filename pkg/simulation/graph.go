package simulation

// Graph holds the nodes and undirected edges of one simulation run.
// Nodes are indexed by ID.
type Graph struct {
	Nodes     []Node
	Edges     []Edge
	adjacency [][]int
}

// NewGraph builds a graph of nodeCount healthy nodes joined by edges.
// Edges referencing unknown nodes or looping onto themselves are dropped.
func NewGraph(nodeCount int, edges []Edge) *Graph {
	if nodeCount < 0 {
		nodeCount = 0
	}

	g := &Graph{
		Nodes:     make([]Node, nodeCount),
		Edges:     make([]Edge, 0, len(edges)),
		adjacency: make([][]int, nodeCount),
	}
	for i := range g.Nodes {
		g.Nodes[i] = Node{ID: i, Status: StatusHealthy}
	}
	for _, e := range edges {
		g.addEdge(e)
	}
	return g
}

// BuildRandomGraph creates nodeCount nodes and links every unordered pair
// with probability EdgeProbability. If no edge is drawn the nodes are
// joined into a path so the network is never fully disconnected.
func BuildRandomGraph(nodeCount int, rng RandomSource) *Graph {
	if nodeCount < MinNodes {
		nodeCount = MinNodes
	}

	edges := make([]Edge, 0)
	for i := 0; i < nodeCount; i++ {
		for j := i + 1; j < nodeCount; j++ {
			if rng() < EdgeProbability {
				edges = append(edges, Edge{A: i, B: j})
			}
		}
	}

	if len(edges) == 0 {
		for i := 0; i < nodeCount-1; i++ {
			edges = append(edges, Edge{A: i, B: i + 1})
		}
	}

	return NewGraph(nodeCount, edges)
}

func (g *Graph) addEdge(e Edge) {
	if e.A == e.B || !g.valid(e.A) || !g.valid(e.B) {
		return
	}
	g.Edges = append(g.Edges, e)
	g.adjacency[e.A] = append(g.adjacency[e.A], e.B)
	g.adjacency[e.B] = append(g.adjacency[e.B], e.A)
}

func (g *Graph) valid(id int) bool {
	return id >= 0 && id < len(g.Nodes)
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Node returns a copy of the node with the given ID.
func (g *Graph) Node(id int) (Node, bool) {
	if !g.valid(id) {
		return Node{}, false
	}
	return g.Nodes[id], true
}

// Neighbors returns the IDs one edge away from id, in edge order.
// A neighbour joined by duplicate edges appears once per edge.
func (g *Graph) Neighbors(id int) []int {
	if !g.valid(id) {
		return nil
	}
	out := make([]int, len(g.adjacency[id]))
	copy(out, g.adjacency[id])
	return out
}

// Degree returns the number of edge endpoints at id
func (g *Graph) Degree(id int) int {
	if !g.valid(id) {
		return 0
	}
	return len(g.adjacency[id])
}

// Links returns the edges as index pairs, in edge order.
func (g *Graph) Links() [][2]int {
	links := make([][2]int, len(g.Edges))
	for i, e := range g.Edges {
		links[i] = [2]int{e.A, e.B}
	}
	return links
}

// Clone returns a deep copy that shares nothing with g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes:     make([]Node, len(g.Nodes)),
		Edges:     make([]Edge, len(g.Edges)),
		adjacency: make([][]int, len(g.adjacency)),
	}
	copy(c.Nodes, g.Nodes)
	copy(c.Edges, g.Edges)
	for i, adj := range g.adjacency {
		c.adjacency[i] = append([]int(nil), adj...)
	}
	return c
}
