package trace

import (
	"fmt"

	"taxengine/internal/core"
)

// Builder assembles one computation pass.
//
// Inputs that name a node not (yet) in the pass are dropped: the usual cause
// is an optional line that was skipped because it was zero. If a dropped ID is
// later added, the earlier node referenced forward and the pass is rejected.
// Together with "inputs must already exist" this keeps the graph acyclic.
type Builder struct {
	vals    *Values
	dropped map[string]string // missing input -> first node that named it
	err     error
}

// NewBuilder starts an empty pass.
func NewBuilder() *Builder {
	return &Builder{vals: NewValues(), dropped: map[string]string{}}
}

// Add records a node. Inputs absent from the pass are dropped.
func (b *Builder) Add(amount core.Cents, id, label string, inputs ...string) {
	if b.err != nil {
		return
	}
	if by, ok := b.dropped[id]; ok {
		b.err = fmt.Errorf("%w: %q referenced by earlier node %q", ErrForwardReference, id, by)
		return
	}
	kept := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in]; dup {
			continue
		}
		seen[in] = struct{}{}
		if !b.vals.Has(in) {
			if _, ok := b.dropped[in]; !ok {
				b.dropped[in] = id
			}
			continue
		}
		kept = append(kept, in)
	}
	if err := b.vals.put(TracedValue{Amount: amount, NodeID: id, Inputs: kept, Label: label}); err != nil {
		b.err = err
	}
}

// AddNonZero records the node only when amount != 0.
func (b *Builder) AddNonZero(amount core.Cents, id, label string, inputs ...string) {
	if amount == 0 {
		return
	}
	b.Add(amount, id, label, inputs...)
}

// AddIf records the node only when cond holds.
func (b *Builder) AddIf(cond bool, amount core.Cents, id, label string, inputs ...string) {
	if cond {
		b.Add(amount, id, label, inputs...)
	}
}

// Import copies a node computed by an earlier pass as a root of this one,
// so later nodes can reference it. Merging the passes keeps the original.
func (b *Builder) Import(from *Values, ids ...string) {
	for _, id := range ids {
		v, ok := from.Get(id)
		if !ok || b.vals.Has(id) {
			continue
		}
		b.Add(v.Amount, v.NodeID, v.Label)
	}
}

// Has reports whether id was emitted in this pass.
func (b *Builder) Has(id string) bool { return b.vals.Has(id) }

// Values returns the finished pass, or the first rule violation.
func (b *Builder) Values() (*Values, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.vals, nil
}
