package state

import (
	"taxengine/internal/core"
	"taxengine/internal/federal"
	"taxengine/internal/trace"
)

// Envelope lines every state emits into its trace pass.
const (
	LineAGI             = "agi"
	LineTaxableIncome   = "taxableIncome"
	LineTax             = "tax"
	LineCredits         = "credits"
	LineTaxAfterCredits = "taxAfterCredits"
	LineWithholding     = "withholding"
	LineEstimated       = "estimatedPayments"
	LineOverpaid        = "overpaid"
	LineAmountOwed      = "amountOwed"
)

// Node is the trace node ID of a state line, e.g. "ca.tax".
func (c Code) Node(line string) string { return c.prefix() + "." + line }

// Withholding sums state income tax withheld for code: W-2 state lines plus
// the state boxes of every 1099.
func Withholding(tr *core.TaxReturn, code Code) core.Cents {
	is := func(raw string) bool {
		c, err := ParseCode(raw)
		return err == nil && c == code
	}
	var w core.Cents
	for _, w2 := range tr.W2s {
		for _, s := range w2.States {
			if is(s.State) {
				w += s.Withheld
			}
		}
	}
	for _, f := range tr.Interest {
		if is(f.State) {
			w += f.StateWithheld
		}
	}
	for _, f := range tr.Dividends {
		if is(f.State) {
			w += f.StateWithheld
		}
	}
	for _, f := range tr.Nonemployee {
		if is(f.State) {
			w += f.StateWithheld
		}
	}
	for _, f := range tr.Government {
		if is(f.State) {
			w += f.StateWithheld
		}
	}
	for _, f := range tr.Retirement {
		if is(f.State) {
			w += f.StateWithheld
		}
	}
	return w
}

// begin opens the envelope shared by every module: identity, residency
// share, and payments.
func begin(code Code, tr *core.TaxReturn, fed *federal.Form1040Result, cfg core.StateConfig) Result {
	res := cfg.Residency
	if res == "" {
		res = core.ResidencyFullYear
	}
	ratio := ApportionmentRatio(cfg, fed.TaxYear)
	return Result{
		StateCode:          code,
		StateName:          code.Name(),
		Residency:          res,
		Ratio:              ratio,
		ApportionmentRatio: ratio.Float(),
		StateWithholding:   Withholding(tr, code),
		EstimatedPayments:  cfg.EstimatedPayments,
	}
}

// noteNonresident records that a taxing state's nonresident computation is
// zero because source income is not modeled.
func noteNonresident(r Result, f *core.Findings) {
	if r.Residency != core.ResidencyNonresident {
		return
	}
	f.Info(core.CodeNonresidentSourceIncome, "states."+string(r.StateCode),
		"%s source income of nonresidents is not modeled; no %s tax is computed", r.StateName, r.StateCode)
}

// finish caps credits at tax, settles payments, and attaches findings.
func finish(r *Result, f *core.Findings) {
	r.StateCredits = core.MinCents(r.StateCredits, r.StateTax)
	r.settle()
	r.Findings = f.List()
	if r.Findings == nil {
		r.Findings = []core.Finding{}
	}
}

// collectPayments emits the envelope lines after tax: credits, payments and
// the balance. The module has already emitted c.Node(LineTax).
func collectPayments(b *trace.Builder, r Result, creditInputs ...string) {
	c := r.StateCode
	name := c.Name()
	b.AddNonZero(r.StateCredits, c.Node(LineCredits), name+" nonrefundable credits", creditInputs...)
	b.Add(r.TaxAfterCredits, c.Node(LineTaxAfterCredits), name+" tax after credits", c.Node(LineTax), c.Node(LineCredits))
	b.AddNonZero(r.StateWithholding, c.Node(LineWithholding), name+" income tax withheld")
	b.AddNonZero(r.EstimatedPayments, c.Node(LineEstimated), name+" estimated payments")
	b.AddNonZero(r.Overpaid, c.Node(LineOverpaid), name+" overpayment",
		c.Node(LineWithholding), c.Node(LineEstimated), c.Node(LineTaxAfterCredits))
	b.AddNonZero(r.AmountOwed, c.Node(LineAmountOwed), name+" amount owed",
		c.Node(LineTaxAfterCredits), c.Node(LineWithholding), c.Node(LineEstimated))
}

// perFiler is a per-person amount as a status table: joint returns count
// two people.
func perFiler(amount core.Cents) core.ByStatus[core.Cents] {
	return core.ByStatus[core.Cents]{Single: amount, MFJ: 2 * amount, MFS: amount, HOH: amount, QW: amount}
}

func dollarsPerFiler(d int64) core.ByStatus[core.Cents] { return perFiler(core.Dollars(d)) }

// countDependents is the number of dependents as a multiplier.
func countDependents(tr *core.TaxReturn) core.Cents { return core.Cents(len(tr.Dependents)) }
