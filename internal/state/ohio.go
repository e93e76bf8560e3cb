package state

import (
	"taxengine/internal/core"
	"taxengine/internal/federal"
	"taxengine/internal/trace"
)

// notch is one row of a "base plus rate over" schedule: income above Over
// pays Base plus Rate on the excess.
type notch struct {
	Over core.Cents
	Base core.Cents
	Rate core.Rate
}

// exemptionTier grants Amount per person when Ohio AGI is at most UpTo.
type exemptionTier struct {
	UpTo   core.Cents
	Amount core.Cents
}

// Ohio is the IT 1040 module: a notched schedule and personal exemptions
// that step down with income.
type Ohio struct {
	notches []notch
	tiers   []exemptionTier
}

// newOhio returns the module for one year. notches must be ordered by Over
// and tiers by UpTo; income above the last tier gets no exemption.
func newOhio(notches []notch, tiers []exemptionTier) *Ohio {
	return &Ohio{notches: notches, tiers: tiers}
}

func (o *Ohio) Code() Code   { return OH }
func (o *Ohio) Name() string { return OH.Name() }

func (o *Ohio) tax(income core.Cents) core.Cents {
	var tax core.Cents
	for _, n := range o.notches {
		if income <= n.Over {
			break
		}
		tax = n.Base + (income - n.Over).MulRate(n.Rate)
	}
	return tax
}

func (o *Ohio) exemptionPerPerson(agi core.Cents) core.Cents {
	for _, t := range o.tiers {
		if agi <= t.UpTo {
			return t.Amount
		}
	}
	return 0
}

// Compute runs the Ohio worksheet and prorates the full-year tax.
func (o *Ohio) Compute(tr *core.TaxReturn, fed *federal.Form1040Result, cfg core.StateConfig) Result {
	var f core.Findings
	r := begin(OH, tr, fed, cfg)
	noteNonresident(r, &f)

	d := OhioDetail{FederalAGI: fed.AGI, SocialSecurity: fed.TaxableSocialSec}
	r.StateAGI = fed.AGI - d.SocialSecurity
	d.ExemptionPerPerson = o.exemptionPerPerson(r.StateAGI)
	d.Exemptions = d.ExemptionPerPerson * (core.Cents(tr.Exemptions()) + countDependents(tr))
	r.StateTaxableIncome = (r.StateAGI - d.Exemptions).NonNegative()
	d.FullYearTax = o.tax(r.StateTaxableIncome)
	r.StateTax = Apportion(d.FullYearTax, r.Ratio)

	r.Detail = d
	finish(&r, &f)
	return r
}

// CollectTracedValues explains an Ohio result.
func (o *Ohio) CollectTracedValues(r Result, fed *trace.Values) (*trace.Values, error) {
	b := trace.NewBuilder()
	d, _ := r.Detail.(OhioDetail)
	b.Import(fed, federal.NodeAGI)
	b.AddNonZero(d.SocialSecurity, OH.Node("subtractions"), "Ohio Social Security subtraction")
	b.Add(r.StateAGI, OH.Node(LineAGI), "Ohio adjusted gross income", federal.NodeAGI, OH.Node("subtractions"))
	b.AddNonZero(d.Exemptions, OH.Node("exemptions"), "Ohio personal exemptions", OH.Node(LineAGI))
	b.Add(r.StateTaxableIncome, OH.Node(LineTaxableIncome), "Ohio taxable income", OH.Node(LineAGI), OH.Node("exemptions"))
	b.Add(r.StateTax, OH.Node(LineTax), "Ohio tax", OH.Node(LineTaxableIncome))
	collectPayments(b, r)
	return b.Values()
}
