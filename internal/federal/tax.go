package federal

import "taxengine/internal/core"

const (
	rate15 core.Rate = 150_000
	rate20 core.Rate = 200_000
)

func (p *pass) tax() {
	ti := p.r.TaxableIncome
	var ncg core.Cents
	if p.r.ScheduleD != nil {
		ncg = p.r.ScheduleD.NetCapitalGain
	}
	schedule := p.y.Ordinary.Get(p.fs)

	tc := TaxComputation{OrdinaryIncome: ti}
	if pref := p.r.QualifiedDividends + ncg; pref > 0 && ti > 0 {
		p.exec(StageQDCG)
		tc = qdcgWorksheet(ti, pref, p.y.ZeroRateTop.Get(p.fs), p.y.FifteenRateTop.Get(p.fs), schedule.Tax)
	} else {
		tc.OrdinaryTax = schedule.Tax(ti)
		tc.RegularTax = tc.OrdinaryTax
		tc.Tax = tc.OrdinaryTax
	}
	p.r.TaxComputation = tc
	p.r.Tax = tc.Tax
	// Schedule 2 Part I (AMT, excess APTC) is not modeled.
	p.r.TaxPlusSchedule2 = p.r.Tax
}

// qdcgWorksheet is the Qualified Dividends and Capital Gain Tax Worksheet.
// Preferential income sits on top of ordinary income: the 0% and 15% bands
// are whatever room the ordinary slice leaves under each threshold.
func qdcgWorksheet(ti, pref, zeroTop, fifteenTop core.Cents, tax func(core.Cents) core.Cents) TaxComputation {
	l4 := pref
	l5 := (ti - l4).NonNegative()
	l7 := core.MinCents(ti, zeroTop)
	l8 := core.MinCents(l5, l7)
	l9 := l7 - l8
	l10 := core.MinCents(ti, l4)
	l12 := l10 - l9
	l14 := core.MinCents(ti, fifteenTop)
	l16 := (l14 - (l5 + l9)).NonNegative()
	l17 := core.MinCents(l12, l16)
	l18 := l17.MulRate(rate15)
	l20 := l10 - (l9 + l17)
	l21 := l20.MulRate(rate20)
	l22 := tax(l5)
	l23 := l18 + l21 + l22
	l24 := tax(ti)

	return TaxComputation{
		UsedQDCG:        true,
		OrdinaryIncome:  l5,
		ZeroRateAmount:  l9,
		FifteenAmount:   l17,
		TwentyAmount:    l20,
		OrdinaryTax:     l22,
		PreferentialTax: l18 + l21,
		RegularTax:      l24,
		Tax:             core.MinCents(l23, l24),
	}
}
