package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxengine/internal/core"
	"taxengine/internal/dag"
)

func sample(t *testing.T) *Values {
	t.Helper()
	b := NewBuilder()
	b.Add(core.Dollars(75_000), "f1040.line1z", "Wages")
	b.AddNonZero(0, "f1040.line2b", "Taxable interest")
	b.Add(core.Dollars(75_000), "f1040.line9", "Total income", "f1040.line1z", "f1040.line2b")
	b.Add(core.Dollars(75_000), "f1040.line11", "Adjusted gross income", "f1040.line9")
	b.Add(core.Dollars(15_000), "f1040.line12", "Standard deduction")
	b.Add(core.Dollars(60_000), "f1040.line15", "Taxable income", "f1040.line11", "f1040.line12")
	vs, err := b.Values()
	require.NoError(t, err)
	return vs
}

func TestFromComputation_CopiesInputs(t *testing.T) {
	in := []string{"a", "b"}
	v := FromComputation(100, "c", in, "sum")
	in[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, v.Inputs)
	assert.Equal(t, []string{}, FromComputation(0, "x", nil, "").Inputs)
}

func TestBuilder_DropsSkippedOptionalInputs(t *testing.T) {
	vs := sample(t)

	assert.False(t, vs.Has("f1040.line2b"))
	v, ok := vs.Get("f1040.line9")
	require.True(t, ok)
	assert.Equal(t, []string{"f1040.line1z"}, v.Inputs)
	assert.Equal(t, []string{"f1040.line1z", "f1040.line9", "f1040.line11", "f1040.line12", "f1040.line15"}, vs.Keys())
	assert.NoError(t, Validate(vs))
}

func TestBuilder_RejectsForwardReference(t *testing.T) {
	b := NewBuilder()
	b.Add(10, "total", "Total", "part")
	b.Add(10, "part", "Part")

	_, err := b.Values()
	assert.True(t, errors.Is(err, ErrForwardReference), "got %v", err)
}

func TestBuilder_RejectsDuplicateNode(t *testing.T) {
	b := NewBuilder()
	b.Add(1, "a", "A")
	b.Add(2, "a", "A again")

	_, err := b.Values()
	assert.True(t, errors.Is(err, ErrDuplicateNode), "got %v", err)
}

func TestBuilder_ImportLetsLaterPassReferenceUpstream(t *testing.T) {
	fed := sample(t)

	b := NewBuilder()
	b.Import(fed, "f1040.line11", "missing.node")
	b.Add(core.Dollars(70_000), "ca.agi", "CA AGI", "f1040.line11")
	state, err := b.Values()
	require.NoError(t, err)

	v, _ := state.Get("ca.agi")
	assert.Equal(t, []string{"f1040.line11"}, v.Inputs)
	imported, _ := state.Get("f1040.line11")
	assert.Empty(t, imported.Inputs)

	merged := NewValues()
	require.NoError(t, merged.Merge(fed))
	require.NoError(t, merged.Merge(state))
	assert.Equal(t, fed.Len()+1, merged.Len())
	assert.NoError(t, Validate(merged))

	chain, err := Explain(merged, "ca.agi")
	require.NoError(t, err)
	ids := make([]string, 0, len(chain))
	for _, c := range chain {
		ids = append(ids, c.NodeID)
	}
	assert.Equal(t, []string{"f1040.line1z", "f1040.line9", "f1040.line11", "ca.agi"}, ids)
}

func TestMerge_ConflictingAmount(t *testing.T) {
	a := NewValues()
	require.NoError(t, a.put(FromComputation(1, "x", nil, "X")))
	b := NewValues()
	require.NoError(t, b.put(FromComputation(2, "x", nil, "X")))

	assert.ErrorIs(t, a.Merge(b), ErrDuplicateNode)
}

func TestValuesJSON_RoundTrip(t *testing.T) {
	vs := sample(t)

	raw, err := json.Marshal(vs)
	require.NoError(t, err)

	var back Values
	require.NoError(t, json.Unmarshal(raw, &back))

	if diff := cmp.Diff(vs.All(), back.All()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, vs.Keys(), back.Keys())

	again, err := json.Marshal(&back)
	require.NoError(t, err)
	if !bytes.Equal(raw, again) {
		t.Fatalf("expected identical bytes\n1=%s\n2=%s", raw, again)
	}
}

func TestValuesJSON_IsKeyedObject(t *testing.T) {
	b := NewBuilder()
	b.Add(150, "b", "B")
	b.Add(250, "a", "A", "b")
	vs, err := b.Values()
	require.NoError(t, err)

	raw, err := json.Marshal(vs)
	require.NoError(t, err)
	assert.Equal(t,
		`{"b":{"amount":150,"nodeId":"b","inputs":[],"label":"B"},"a":{"amount":250,"nodeId":"a","inputs":["b"],"label":"A"}}`,
		string(raw))
}

func TestValuesJSON_RejectsMismatchedKey(t *testing.T) {
	var vs Values
	err := json.Unmarshal([]byte(`{"a":{"amount":1,"nodeId":"b","inputs":[],"label":""}}`), &vs)
	assert.Error(t, err)
}

func TestValidate_DecodedGraphs(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		kind error
	}{
		{
			name: "forward reference",
			raw:  `{"a":{"amount":1,"inputs":["b"]},"b":{"amount":1,"inputs":[]}}`,
			kind: ErrForwardReference,
		},
		{
			name: "self reference",
			raw:  `{"a":{"amount":1,"inputs":["a"]}}`,
			kind: ErrForwardReference,
		},
		{
			name: "dangling",
			raw:  `{"a":{"amount":1,"inputs":["ghost"]}}`,
			kind: dag.ErrDanglingReference,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var vs Values
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &vs))
			err := Validate(&vs)
			assert.True(t, errors.Is(err, tc.kind), "got %v", err)
		})
	}
}

func TestFingerprint_StableAndSensitive(t *testing.T) {
	f1, err := Fingerprint(sample(t))
	require.NoError(t, err)
	f2, err := Fingerprint(sample(t))
	require.NoError(t, err)
	assert.Equal(t, f1, f2)
	assert.Len(t, f1, 64)

	b := NewBuilder()
	b.Add(1, "x", "X")
	vs, _ := b.Values()
	f3, err := Fingerprint(vs)
	require.NoError(t, err)
	assert.NotEqual(t, f1, f3)
}

func TestExplain_UpstreamThenNode(t *testing.T) {
	vs := sample(t)

	chain, err := Explain(vs, "f1040.line11")
	require.NoError(t, err)
	ids := make([]string, len(chain))
	for i, v := range chain {
		ids[i] = v.NodeID
	}
	assert.Equal(t, []string{"f1040.line1z", "f1040.line9", "f1040.line11"}, ids)
	assert.Equal(t, "Adjusted gross income (f1040.line11) = $75,000.00", chain[2].String())

	chain, err = Explain(vs, "f1040.line12")
	require.NoError(t, err)
	assert.Len(t, chain, 1)

	_, err = Explain(vs, "f1040.line99")
	assert.Error(t, err)
}
