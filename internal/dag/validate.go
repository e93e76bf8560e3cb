package dag

import "container/heap"

// validateAcyclic runs Kahn's algorithm; any node left with unmet
// dependencies sits on or behind a cycle.
func (g *Graph) validateAcyclic() error {
	order, remaining := g.kahn()
	if len(order) == len(g.nodes) {
		return nil
	}
	return cycleError(g.cycleWitness(remaining))
}

type readyQueue []int

func (q readyQueue) Len() int           { return len(q) }
func (q readyQueue) Less(i, j int) bool { return q[i] < q[j] }
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *readyQueue) Push(x any)        { *q = append(*q, x.(int)) }
func (q *readyQueue) Pop() any {
	old := *q
	x := old[len(old)-1]
	*q = old[:len(old)-1]
	return x
}

func (g *Graph) topoOrderIndices() []int {
	order, _ := g.kahn()
	return order
}

// kahn returns the topological order (lowest canonical index first among
// ready nodes) and the in-degrees left over once no node is ready.
func (g *Graph) kahn() ([]int, []int) {
	indeg := append([]int(nil), g.indeg...)
	ready := &readyQueue{}
	for i, d := range indeg {
		if d == 0 {
			*ready = append(*ready, i)
		}
	}
	heap.Init(ready)

	order := make([]int, 0, len(indeg))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		order = append(order, n)
		for _, m := range g.outgoing[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	return order, indeg
}

// cycleWitness extracts one cycle from the nodes Kahn could not order.
//
// Every such node has an unordered predecessor, so following the lowest such
// predecessor from the lowest stuck node must revisit a node. The loop from
// the first revisit is the witness, reported in dependency order and closed
// on its first node.
func (g *Graph) cycleWitness(remaining []int) []string {
	start := -1
	for i, d := range remaining {
		if d > 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	pos := map[int]int{}
	var walk []int
	cur := start
	for {
		if at, seen := pos[cur]; seen {
			walk = walk[at:]
			break
		}
		pos[cur] = len(walk)
		walk = append(walk, cur)
		next := -1
		for _, p := range g.incoming[cur] {
			if remaining[p] > 0 {
				next = p
				break
			}
		}
		if next < 0 {
			return nil
		}
		cur = next
	}

	// walk follows edges backwards; reverse it into dependency order.
	out := make([]string, 0, len(walk)+1)
	for i := len(walk) - 1; i >= 0; i-- {
		out = append(out, g.nodes[walk[i]])
	}
	return append(out, out[0])
}
