package state

import (
	"taxengine/internal/core"
	"taxengine/internal/federal"
	"taxengine/internal/trace"
)

// InterestDividends is New Hampshire's tax on interest and dividends. Wages
// and other income are not taxed.
type InterestDividends struct {
	rate      core.Rate
	exemption core.ByStatus[core.Cents]
}

// NewInterestDividends returns the module for a year the tax applies.
func NewInterestDividends(rate core.Rate, exemption core.ByStatus[core.Cents]) *InterestDividends {
	return &InterestDividends{rate: rate, exemption: exemption}
}

func (m *InterestDividends) Code() Code   { return NH }
func (m *InterestDividends) Name() string { return NH.Name() }

// Compute taxes interest (less US obligations) and dividends above the
// exemption, on the resident share of the year.
func (m *InterestDividends) Compute(tr *core.TaxReturn, fed *federal.Form1040Result, cfg core.StateConfig) Result {
	var f core.Findings
	r := begin(NH, tr, fed, cfg)
	noteNonresident(r, &f)

	d := InterestDividendDetail{
		Interest:  (fed.TaxableInterest - fed.ScheduleB.USBondInterest).NonNegative(),
		Dividends: fed.OrdinaryDividends,
		Exemption: m.exemption.Get(fed.FilingStatus),
	}
	r.StateAGI = d.Interest + d.Dividends
	r.StateTaxableIncome = ApportionIncome((r.StateAGI - d.Exemption).NonNegative(), r.Ratio)
	r.StateTax = r.StateTaxableIncome.MulRate(m.rate)

	r.Detail = d
	finish(&r, &f)
	return r
}

// CollectTracedValues explains an interest and dividends result.
func (m *InterestDividends) CollectTracedValues(r Result, fed *trace.Values) (*trace.Values, error) {
	b := trace.NewBuilder()
	b.Import(fed, federal.NodeTaxableInterest, federal.NodeDividends)
	b.Add(r.StateAGI, NH.Node(LineAGI), "New Hampshire interest and dividends",
		federal.NodeTaxableInterest, federal.NodeDividends)
	b.Add(r.StateTaxableIncome, NH.Node(LineTaxableIncome), "New Hampshire taxable interest and dividends", NH.Node(LineAGI))
	b.Add(r.StateTax, NH.Node(LineTax), "New Hampshire interest and dividends tax", NH.Node(LineTaxableIncome))
	collectPayments(b, r)
	return b.Values()
}
