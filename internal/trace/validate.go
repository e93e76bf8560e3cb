package trace

import (
	"fmt"

	"taxengine/internal/dag"
)

// Graph proves vs is a valid trace graph and returns its dependency graph.
//
// Every input must name a node that appears earlier in vs. The acyclicity
// proof then runs through dag, which also yields a deterministic order and
// ancestry queries.
func Graph(vs *Values) (*dag.Graph, error) {
	pos := make(map[string]int, vs.Len())
	var edges []dag.Edge
	for i, v := range vs.All() {
		pos[v.NodeID] = i
		for _, in := range v.Inputs {
			at, ok := pos[in]
			switch {
			case ok && at < i:
				edges = append(edges, dag.Edge{From: in, To: v.NodeID})
			case vs.Has(in):
				return nil, fmt.Errorf("%w: %q lists %q", ErrForwardReference, v.NodeID, in)
			default:
				return nil, fmt.Errorf("trace node %q: %w", v.NodeID, &dag.GraphError{Kind: dag.ErrDanglingReference, Msg: in})
			}
		}
	}
	return dag.New(vs.Keys(), edges)
}

// Validate reports whether vs is a valid trace graph.
func Validate(vs *Values) error {
	_, err := Graph(vs)
	return err
}

// Explain returns the nodes id was computed from, in computation order,
// followed by id itself.
func Explain(vs *Values, id string) ([]TracedValue, error) {
	g, err := Graph(vs)
	if err != nil {
		return nil, err
	}
	if !g.Has(id) {
		return nil, fmt.Errorf("trace node %q not found", id)
	}
	var out []TracedValue
	for _, a := range append(g.Ancestors(id), id) {
		v, _ := vs.Get(a)
		out = append(out, v)
	}
	return out, nil
}
