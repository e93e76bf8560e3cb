package federal

import (
	"fmt"

	"taxengine/internal/core"
	"taxengine/internal/k1"
)

// scheduleBThreshold is the interest or dividend total above which Schedule B
// must be filed.
var scheduleBThreshold = core.Dollars(1_500)

func (p *pass) wages() {
	if len(p.tr.W2s) == 0 {
		return
	}
	p.exec(StageW2)
	for _, w := range p.tr.W2s {
		o := ownerOf(w.Owner)
		p.r.Wages += w.Wages
		p.r.W2Withholding += w.FederalWithheld
		p.wagesBy[o] += w.Wages

		// Boxes 3 and 5 left blank mean they equal box 1.
		ss, med := w.SocialSecurityWages, w.MedicareWages
		if ss == 0 {
			ss = w.Wages
		}
		if med == 0 {
			med = w.Wages
		}
		p.ssWagesBy[o] += ss
		p.medicareWages += med
		p.medicareWithheld += w.MedicareTaxWithheld
		p.depCareBenefits += w.DependentCareBenefits
		p.deferralsBy[o] += w.RetirementContributions
	}
}

func payerName(name, form string, i int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s #%d", form, i+1)
}

func buildScheduleB(tr *core.TaxReturn, f *core.Findings) ScheduleB {
	b := ScheduleB{Interest: []Payer{}, Dividends: []Payer{}}
	for i, in := range tr.Interest {
		amt := in.Interest + in.USBondInterest
		if amt != 0 {
			b.Interest = append(b.Interest, Payer{Name: payerName(in.Payer, "1099-INT", i), Amount: amt})
		}
		b.TotalInterest += amt
		b.TaxExemptInterest += in.TaxExemptInterest
		b.USBondInterest += in.USBondInterest
	}
	for i, k := range tr.K1s {
		if k.InterestIncome != 0 {
			b.Interest = append(b.Interest, Payer{Name: payerName(k.EntityName, "K-1", i), Amount: k.InterestIncome})
			b.TotalInterest += k.InterestIncome
		}
	}

	for i, d := range tr.Dividends {
		if d.OrdinaryDividends != 0 {
			b.Dividends = append(b.Dividends, Payer{Name: payerName(d.Payer, "1099-DIV", i), Amount: d.OrdinaryDividends})
		}
		b.TotalDividends += d.OrdinaryDividends
		q := d.QualifiedDividends
		if q > d.OrdinaryDividends {
			f.Warn(core.CodeQualifiedExceedsTotal, fmt.Sprintf("form1099Div[%d].qualifiedDividends", i),
				"%s: qualified dividends %s exceed ordinary dividends %s; qualified amount limited to ordinary",
				payerName(d.Payer, "1099-DIV", i), q, d.OrdinaryDividends)
			q = d.OrdinaryDividends
		}
		b.QualifiedDividends += q.NonNegative()
	}
	for i, k := range tr.K1s {
		if k.DividendIncome != 0 {
			b.Dividends = append(b.Dividends, Payer{Name: payerName(k.EntityName, "K-1", i), Amount: k.DividendIncome})
			b.TotalDividends += k.DividendIncome
		}
		// k1.Validate reports the mismatch.
		b.QualifiedDividends += core.MinCents(k.QualifiedDividends, k.DividendIncome).NonNegative()
	}

	b.Required = b.TotalInterest > scheduleBThreshold || b.TotalDividends > scheduleBThreshold
	return b
}

func (p *pass) scheduleB() {
	has := len(p.tr.Interest) > 0 || len(p.tr.Dividends) > 0
	for _, k := range p.tr.K1s {
		has = has || k.InterestIncome != 0 || k.DividendIncome != 0
	}
	if !has {
		return
	}
	p.exec(StageScheduleB)
	b := buildScheduleB(p.tr, &p.f)
	p.r.ScheduleB = b
	p.r.TaxableInterest = b.TotalInterest
	p.r.TaxExemptInterest = b.TaxExemptInterest
	p.r.OrdinaryDividends = b.TotalDividends
	p.r.QualifiedDividends = b.QualifiedDividends
}

func (p *pass) k1() {
	if len(p.tr.K1s) == 0 {
		return
	}
	p.exec(StageK1)
	p.r.K1 = k1.Aggregate(p.tr.K1s)
	p.f.Append(k1.Validate(p.tr.K1s)...)
	p.k1Nonpassive = p.r.K1.Totals.OrdinaryIncome + p.r.K1.Totals.GuaranteedPayments
	// K-1 SE income belongs to the taxpayer; the form carries no owner.
	p.seBaseBy[core.OwnerTaxpayer] += p.r.K1.Totals.SEBase
}

func (p *pass) scheduleC() {
	tr := p.tr
	var results []ScheduleCResult
	for i, b := range tr.Businesses {
		gross := b.GrossReceipts - b.Returns
		profit := gross - b.CostOfGoods
		results = append(results, ScheduleCResult{
			Name:        payerName(b.Name, "Schedule C", i),
			Owner:       ownerOf(b.Owner),
			GrossIncome: gross,
			GrossProfit: profit,
			NetProfit:   profit - b.Expenses - b.HomeOffice,
		})
	}

	if len(tr.Businesses) == 0 && len(tr.Nonemployee) > 0 {
		necBy := map[core.Owner]core.Cents{}
		for _, n := range tr.Nonemployee {
			necBy[ownerOf(n.Owner)] += n.Compensation
		}
		for _, o := range []core.Owner{core.OwnerTaxpayer, core.OwnerSpouse} {
			amt := necBy[o]
			if amt == 0 {
				continue
			}
			results = append(results, ScheduleCResult{
				Name:        "Nonemployee compensation",
				Owner:       o,
				GrossIncome: amt,
				GrossProfit: amt,
				NetProfit:   amt,
				FromNEC:     true,
			})
		}
		p.f.Warn(core.CodeNECWithoutScheduleC, "form1099Nec",
			"1099-NEC income reported without a Schedule C; reported as business income with no expenses")
	}

	if len(results) == 0 {
		return
	}
	p.exec(StageScheduleC)
	p.r.ScheduleC = results
	for _, c := range results {
		p.scheduleCNet += c.NetProfit
		p.seBaseBy[c.Owner] += c.NetProfit
	}
}

func (p *pass) scheduleSE() {
	has := false
	for _, o := range []core.Owner{core.OwnerTaxpayer, core.OwnerSpouse} {
		has = has || p.seBaseBy[o] != 0
	}
	if !has {
		return
	}
	p.exec(StageScheduleSE)

	se := p.y.SE
	var out ScheduleSE
	for _, o := range []core.Owner{core.OwnerTaxpayer, core.OwnerSpouse} {
		base := p.seBaseBy[o]
		if base <= 0 {
			continue
		}
		net := base.MulRate(se.NetEarningsFactor)
		if net < se.Minimum {
			continue
		}
		room := (se.WageBase - p.ssWagesBy[o]).NonNegative()
		ss := core.MinCents(net, room).MulRate(se.SocialSecurity)
		med := net.MulRate(se.Medicare)
		tax := ss + med
		ded := tax.MulDiv(1, 2)
		p.seDeductionBy[o] = ded

		out.Persons = append(out.Persons, SEPerson{
			Owner:             o,
			Base:              base,
			NetEarnings:       net,
			SocialSecurityTax: ss,
			MedicareTax:       med,
			Tax:               tax,
			Deduction:         ded,
		})
		out.NetEarnings += net
		out.Tax += tax
		out.Deduction += ded
	}
	p.r.ScheduleSE = out
}

// holdingTerm returns the holding period of a sale: long when sold after the
// one-year anniversary of acquisition.
func holdingTerm(t core.CapitalTransaction) (core.Term, bool) {
	if t.Term != "" {
		return t.Term, true
	}
	acquired, ok1 := core.ParseDate(t.DateAcquired)
	sold, ok2 := core.ParseDate(t.DateSold)
	if !ok1 || !ok2 {
		return core.TermShort, false
	}
	if sold.After(acquired.AddDate(1, 0, 0)) {
		return core.TermLong, true
	}
	return core.TermShort, true
}

func (p *pass) scheduleD() {
	tr := p.tr
	var cgd core.Cents
	for _, d := range tr.Dividends {
		cgd += d.CapitalGainDistributions
	}
	kt := p.r.K1.Totals
	carry := tr.CapitalLossCarryover
	if len(tr.CapitalTransactions) == 0 && kt.ShortTermCapitalGain == 0 && kt.LongTermCapitalGain == 0 &&
		cgd == 0 && carry.ShortTerm == 0 && carry.LongTerm == 0 {
		return
	}
	p.exec(StageScheduleD)

	d := &ScheduleD{
		ShortTermK1:              kt.ShortTermCapitalGain,
		LongTermK1:               kt.LongTermCapitalGain,
		CapitalGainDistributions: cgd,
		ShortTermCarryoverIn:     carry.ShortTerm,
		LongTermCarryoverIn:      carry.LongTerm,
	}
	for i, t := range tr.CapitalTransactions {
		gain := t.Proceeds - t.CostBasis + t.Adjustment
		term, known := holdingTerm(t)
		if !known {
			p.f.Info(core.CodeHoldingPeriodUnknown, fmt.Sprintf("capitalTransactions[%d]", i),
				"%s: holding period unknown (missing dates); treated as short-term",
				payerName(t.Description, "transaction", i))
		}
		if term == core.TermLong {
			d.LongTermTransactions += gain
		} else {
			d.ShortTermTransactions += gain
		}
	}

	d.NetShortTerm = d.ShortTermTransactions + d.ShortTermK1 - d.ShortTermCarryoverIn
	d.NetLongTerm = d.LongTermTransactions + d.LongTermK1 + d.CapitalGainDistributions - d.LongTermCarryoverIn
	d.Net = d.NetShortTerm + d.NetLongTerm

	if d.Net >= 0 {
		d.Allowed = d.Net
	} else {
		d.Allowed = -core.MinCents(-d.Net, p.y.CapitalLossLimit.Get(p.fs))
	}
	if d.NetLongTerm > 0 && d.Net > 0 {
		d.NetCapitalGain = core.MinCents(d.NetLongTerm, d.Net)
	}

	// Capital Loss Carryover Worksheet, lines 2-13.
	used := (-d.Allowed).NonNegative()
	stLoss, stGain := (-d.NetShortTerm).NonNegative(), d.NetShortTerm.NonNegative()
	ltLoss, ltGain := (-d.NetLongTerm).NonNegative(), d.NetLongTerm.NonNegative()
	d.ShortTermCarryoverOut = (stLoss - (used + ltGain)).NonNegative()
	d.LongTermCarryoverOut = (ltLoss - (stGain + (used - stLoss).NonNegative())).NonNegative()
	if d.ShortTermCarryoverOut > 0 || d.LongTermCarryoverOut > 0 {
		p.f.Info(core.CodeCapitalLossCarryover, "capitalLossCarryover",
			"capital loss limited to %s; carryover to next year: short-term %s, long-term %s",
			-d.Allowed, d.ShortTermCarryoverOut, d.LongTermCarryoverOut)
	}

	p.r.ScheduleD = d
	p.r.CapitalGain = d.Allowed
}

func (p *pass) retirementAndGovernment() {
	for _, r := range p.tr.Retirement {
		if r.IRA {
			p.r.IRADistributions += r.GrossDistribution
			p.r.TaxableIRA += r.TaxableAmount
			continue
		}
		p.r.Pensions += r.GrossDistribution
		p.r.TaxablePensions += r.TaxableAmount
	}
	for _, g := range p.tr.Government {
		p.unemployment += g.Unemployment
	}
}

// incomeExceptRentalAndSS is every income line known before Schedule E.
func (p *pass) incomeExceptRentalAndSS() core.Cents {
	r := &p.r
	return r.Wages + r.TaxableInterest + r.OrdinaryDividends + r.TaxableIRA + r.TaxablePensions +
		r.CapitalGain + p.scheduleCNet + p.unemployment + p.k1Nonpassive
}

func (p *pass) scheduleE() {
	tr := p.tr
	var sources []RentalSource
	for i, prop := range tr.Rentals {
		sources = append(sources, RentalSource{
			Name: payerName(prop.Address, "property", i),
			Net:  prop.Rents - prop.Expenses - prop.Depreciation,
		})
	}
	for _, ent := range p.r.K1.Entities {
		if ent.Totals.RentalIncome != 0 {
			sources = append(sources, RentalSource{
				Name:   payerName(ent.EntityName, "K-1", ent.Index),
				FromK1: true,
				Net:    ent.Totals.RentalIncome,
			})
		}
	}
	if len(sources) == 0 && p.k1Nonpassive == 0 {
		return
	}
	p.exec(StageScheduleE)

	e := &ScheduleE{K1Nonpassive: p.k1Nonpassive}
	e.PreliminaryAGI = p.incomeExceptRentalAndSS() - p.fixedAdjustments()
	e.Allowance = k1.Allowance(e.PreliminaryAGI, p.fs)

	// Passive income offsets passive losses before the special allowance is
	// touched; what remains draws on one allowance shared by every source.
	var income core.Cents
	for _, s := range sources {
		if s.Net > 0 {
			income += s.Net
		}
	}
	for i := range sources {
		s := &sources[i]
		if s.Net >= 0 {
			s.Allowed = s.Net
		} else {
			absorbed := core.MinCents(-s.Net, income)
			income -= absorbed
			pal := k1.RentalPAL(s.Net+absorbed, e.PreliminaryAGI, p.fs, e.AllowanceUsed)
			e.AllowanceUsed += pal.AllowanceUsed
			e.PALApplied = e.PALApplied || pal.PALApplied
			s.Allowed = -absorbed + pal.AllowedRentalIncome
			s.Disallowed = pal.DisallowedLoss
		}
		e.RentalNet += s.Net
		e.RentalAllowed += s.Allowed
		e.SuspendedLoss += s.Disallowed
	}
	e.Sources = sources
	if e.Sources == nil {
		e.Sources = []RentalSource{}
	}
	e.Total = e.RentalAllowed + e.K1Nonpassive

	if e.SuspendedLoss < 0 {
		p.f.Warn(core.CodeSuspendedPassiveLoss, "scheduleE",
			"passive rental loss of %s suspended (allowance %s at preliminary AGI %s); carried forward to future years",
			-e.SuspendedLoss, e.Allowance, e.PreliminaryAGI)
	}
	p.r.ScheduleE = e
}

func (p *pass) rentalTotal() core.Cents {
	if p.r.ScheduleE == nil {
		return 0
	}
	return p.r.ScheduleE.Total
}

func (p *pass) socialSecurity() {
	if len(p.tr.SocialSecurity) == 0 {
		return
	}
	p.exec(StageSocialSecurity)

	var benefits core.Cents
	for _, s := range p.tr.SocialSecurity {
		benefits += s.NetBenefits
	}
	p.r.SocialSecurity = benefits

	other := p.incomeExceptRentalAndSS() - p.k1Nonpassive + p.rentalTotal()
	provisional := benefits.NonNegative().MulDiv(1, 2) + other + p.r.TaxExemptInterest -
		(p.fixedAdjustments() + p.tr.Adjustments.IRADeduction)

	ws := &SocialSecurityWorksheet{Benefits: benefits, Provisional: provisional}
	ws.Taxable = taxableBenefits(benefits, provisional,
		p.y.SocialSecurityBase1.Get(p.fs), p.y.SocialSecurityBase2.Get(p.fs))
	p.r.SocialSecurityWorksheet = ws
	p.r.TaxableSocialSec = ws.Taxable
}

// taxableBenefits is the Social Security Benefits Worksheet, lines 7-18.
// Married filing separately uses zero base amounts.
func taxableBenefits(benefits, provisional, base1, base2 core.Cents) core.Cents {
	if benefits <= 0 || provisional <= base1 || provisional <= 0 {
		return 0
	}
	l9 := provisional - base1
	l10 := base2 - base1
	l11 := (l9 - l10).NonNegative()
	l12 := core.MinCents(l9, l10)
	l13 := l12.MulDiv(1, 2)
	l14 := core.MinCents(benefits.MulDiv(1, 2), l13)
	l15 := l11.MulRate(850_000)
	l16 := l14 + l15
	l17 := benefits.MulRate(850_000)
	return core.MinCents(l16, l17)
}
