package state

import (
	"taxengine/internal/core"
	"taxengine/internal/federal"
	"taxengine/internal/trace"
)

// NoTax is a state without a broad personal income tax. Any state
// withholding on the documents is refunded in full.
type NoTax struct {
	code Code
}

// NewNoTax returns the module for code.
func NewNoTax(code Code) *NoTax { return &NoTax{code: code} }

func (n *NoTax) Code() Code   { return n.code }
func (n *NoTax) Name() string { return n.code.Name() }

func (n *NoTax) Compute(tr *core.TaxReturn, fed *federal.Form1040Result, cfg core.StateConfig) Result {
	var f core.Findings
	r := begin(n.code, tr, fed, cfg)
	r.Detail = NoTaxDetail{}
	finish(&r, &f)
	return r
}

func (n *NoTax) CollectTracedValues(r Result, _ *trace.Values) (*trace.Values, error) {
	b := trace.NewBuilder()
	b.Add(0, n.code.Node(LineTax), n.code.Name()+" tax")
	collectPayments(b, r)
	return b.Values()
}
