package dag

import "sort"

// Edge is a dependency: From must be computed before To.
type Edge struct {
	From string
	To   string
}

type edgeIndex struct {
	from int
	to   int
}

// Graph is an immutable, validated DAG over node IDs.
//
// Canonical node order is the order nodes were supplied in, so results are
// stable for a given input. It is safe for concurrent read access.
type Graph struct {
	index map[string]int
	nodes []string

	edges []edgeIndex // sorted

	outgoing [][]int // by canonical index, sorted ascending
	incoming [][]int // by canonical index, sorted ascending
	indeg    []int
	depth    []int
}

// New builds and validates a Graph.
//
// Validation rejects empty or duplicate node IDs, edges that reference an
// unknown node, self-loops and any cycle. Duplicate edges are collapsed;
// listing the same input twice is harmless for an explainability graph.
func New(nodes []string, edges []Edge) (*Graph, error) {
	index := make(map[string]int, len(nodes))
	ordered := make([]string, 0, len(nodes))
	for _, id := range nodes {
		if id == "" {
			return nil, invalidf("node id is required")
		}
		if _, exists := index[id]; exists {
			return nil, invalidf("duplicate node id: %q", id)
		}
		index[id] = len(ordered)
		ordered = append(ordered, id)
	}

	mapped := make([]edgeIndex, 0, len(edges))
	seen := make(map[edgeIndex]struct{}, len(edges))
	for _, e := range edges {
		from, okFrom := index[e.From]
		to, okTo := index[e.To]
		if !okFrom || !okTo {
			return nil, danglingf(e.From, e.To)
		}
		if from == to {
			return nil, cycleError([]string{e.From, e.To})
		}
		pair := edgeIndex{from: from, to: to}
		if _, exists := seen[pair]; exists {
			continue
		}
		seen[pair] = struct{}{}
		mapped = append(mapped, pair)
	}

	sort.Slice(mapped, func(i, j int) bool {
		a, b := mapped[i], mapped[j]
		if a.from != b.from {
			return a.from < b.from
		}
		return a.to < b.to
	})

	outgoing := make([][]int, len(ordered))
	incoming := make([][]int, len(ordered))
	indeg := make([]int, len(ordered))
	for _, e := range mapped {
		outgoing[e.from] = append(outgoing[e.from], e.to)
		incoming[e.to] = append(incoming[e.to], e.from)
		indeg[e.to]++
	}

	g := &Graph{
		index:    index,
		nodes:    ordered,
		edges:    mapped,
		outgoing: outgoing,
		incoming: incoming,
		indeg:    indeg,
	}
	if err := g.validateAcyclic(); err != nil {
		return nil, err
	}
	g.depth = g.computeDepth()
	return g, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Has reports whether id is a node of g.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Edges returns the dependency edges in canonical order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, Edge{From: g.nodes[e.from], To: g.nodes[e.to]})
	}
	return out
}

// Upstream returns the direct dependencies of id in canonical order.
func (g *Graph) Upstream(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.incoming[i]))
	for _, p := range g.incoming[i] {
		out = append(out, g.nodes[p])
	}
	return out
}

// Depth returns the length of the longest path from any root to id.
func (g *Graph) Depth(id string) (int, bool) {
	i, ok := g.index[id]
	if !ok {
		return 0, false
	}
	return g.depth[i], true
}

// TopologicalOrder returns a deterministic topological ordering of node IDs.
//
// Since the graph is validated on construction, this method must not fail.
func (g *Graph) TopologicalOrder() []string {
	order := g.topoOrderIndices()
	out := make([]string, 0, len(order))
	for _, idx := range order {
		out = append(out, g.nodes[idx])
	}
	return out
}

// Ancestors returns every node id transitively depends on, in topological
// order. It answers "which lines feed this number".
func (g *Graph) Ancestors(id string) []string {
	start, ok := g.index[id]
	if !ok {
		return nil
	}
	mark := make([]bool, len(g.nodes))
	stack := append([]int(nil), g.incoming[start]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if mark[n] {
			continue
		}
		mark[n] = true
		stack = append(stack, g.incoming[n]...)
	}
	var out []string
	for _, idx := range g.topoOrderIndices() {
		if mark[idx] {
			out = append(out, g.nodes[idx])
		}
	}
	return out
}

func (g *Graph) computeDepth() []int {
	depth := make([]int, len(g.nodes))
	for _, u := range g.topoOrderIndices() {
		maxParent := 0
		for _, p := range g.incoming[u] {
			if cand := depth[p] + 1; cand > maxParent {
				maxParent = cand
			}
		}
		depth[u] = maxParent
	}
	return depth
}
