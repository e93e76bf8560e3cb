// Package trace is the explainability graph attached to every computation.
//
// A TracedValue is one computed line: its amount, a unique node ID, the IDs of
// the lines it was computed from and a human label. Values keeps them in the
// order they were computed, which is also a topological order: inputs always
// precede the nodes that use them.
//
// Nodes are emitted conditionally (most optional lines only when non-zero), so
// consumers must tolerate absent nodes. The Builder enforces the graph rules
// while a result is being assembled; Validate re-proves them for graphs that
// were decoded from elsewhere.
package trace

import (
	"errors"
	"fmt"

	"taxengine/internal/core"
)

var (
	// ErrForwardReference means a node lists an input that was only computed
	// after it.
	ErrForwardReference = errors.New("forward reference in trace graph")
	// ErrDuplicateNode means two nodes share an ID within one pass.
	ErrDuplicateNode = errors.New("duplicate trace node")
)

// TracedValue is a computed amount with its provenance.
type TracedValue struct {
	Amount core.Cents `json:"amount"`
	NodeID string     `json:"nodeId"`
	Inputs []string   `json:"inputs"`
	Label  string     `json:"label"`
}

// FromComputation wraps a computed amount. inputIDs is copied; a nil list
// becomes empty so the wire form is always an array.
func FromComputation(amount core.Cents, nodeID string, inputIDs []string, label string) TracedValue {
	in := make([]string, len(inputIDs))
	copy(in, inputIDs)
	return TracedValue{Amount: amount, NodeID: nodeID, Inputs: in, Label: label}
}

// String renders "label (id) = $x".
func (v TracedValue) String() string {
	return fmt.Sprintf("%s (%s) = %s", v.Label, v.NodeID, v.Amount)
}
