package trace

import (
	"bytes"
	"encoding/json"
	"fmt"

	"taxengine/internal/core"
)

// Values is an insertion-ordered map of node ID to TracedValue.
//
// The zero value is ready to use. Values is not safe for concurrent mutation;
// a finished graph is read-only by convention.
type Values struct {
	order []string
	byID  map[string]TracedValue
}

// NewValues returns an empty graph.
func NewValues() *Values { return &Values{byID: map[string]TracedValue{}} }

func (vs *Values) put(v TracedValue) error {
	if v.NodeID == "" {
		return fmt.Errorf("trace node id is required")
	}
	if vs.byID == nil {
		vs.byID = map[string]TracedValue{}
	}
	if _, exists := vs.byID[v.NodeID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, v.NodeID)
	}
	vs.byID[v.NodeID] = v
	vs.order = append(vs.order, v.NodeID)
	return nil
}

// Len returns the number of nodes.
func (vs *Values) Len() int {
	if vs == nil {
		return 0
	}
	return len(vs.order)
}

// Get looks up a node.
func (vs *Values) Get(id string) (TracedValue, bool) {
	if vs == nil {
		return TracedValue{}, false
	}
	v, ok := vs.byID[id]
	return v, ok
}

// Has reports whether id is present.
func (vs *Values) Has(id string) bool {
	_, ok := vs.Get(id)
	return ok
}

// Amount returns the amount at id, or 0 when the node was not emitted.
func (vs *Values) Amount(id string) core.Cents {
	v, _ := vs.Get(id)
	return v.Amount
}

// Keys returns node IDs in insertion order.
func (vs *Values) Keys() []string {
	if vs == nil {
		return []string{}
	}
	out := make([]string, len(vs.order))
	copy(out, vs.order)
	return out
}

// All returns the nodes in insertion order.
func (vs *Values) All() []TracedValue {
	if vs == nil {
		return []TracedValue{}
	}
	out := make([]TracedValue, 0, len(vs.order))
	for _, id := range vs.order {
		out = append(out, vs.byID[id])
	}
	return out
}

// Merge appends other's nodes after vs's.
//
// A node already present is kept when the incoming copy has the same amount;
// this is how a downstream pass imports the upstream lines it references. A
// conflicting amount is an error.
func (vs *Values) Merge(other *Values) error {
	for _, v := range other.All() {
		if have, ok := vs.Get(v.NodeID); ok {
			if have.Amount != v.Amount {
				return fmt.Errorf("%w: %q has %s and %s", ErrDuplicateNode, v.NodeID, have.Amount, v.Amount)
			}
			continue
		}
		if err := vs.put(v); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON writes a JSON object keyed by node ID in insertion order.
func (vs *Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range vs.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(v.NodeID)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		if v.Inputs == nil {
			v.Inputs = []string{}
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form, keeping key order. A value without a
// nodeId takes its key; a mismatched nodeId is rejected.
func (vs *Values) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*vs = Values{byID: map[string]TracedValue{}}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("trace values: expected object, got %v", tok)
	}

	out := Values{byID: map[string]TracedValue{}}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var v TracedValue
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("trace values: %q: %w", key, err)
		}
		if v.NodeID == "" {
			v.NodeID = key
		}
		if v.NodeID != key {
			return fmt.Errorf("trace values: key %q holds node %q", key, v.NodeID)
		}
		if v.Inputs == nil {
			v.Inputs = []string{}
		}
		if err := out.put(v); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*vs = out
	return nil
}
