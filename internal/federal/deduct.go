package federal

import (
	"fmt"

	"taxengine/internal/core"
)

func (p *pass) standardDeduction() core.Cents {
	y, tr := p.y, p.tr
	std := y.StandardDeduction.Get(p.fs)
	if tr.Taxpayer.CanBeClaimedAsDependent {
		std = core.MinCents(std, core.MaxCents(y.DependentFilerMinimum, p.earnedTotal() + y.DependentFilerEarnedAdd))
	}

	conditions := 0
	for _, o := range p.persons() {
		who := p.person(o)
		if who == nil {
			continue
		}
		if age, ok := core.AgeAtYearEnd(who.DateOfBirth, y.Year); ok && age >= 65 {
			conditions++
		}
		if who.Blind {
			conditions++
		}
	}
	return std + y.AdditionalAgedBlind.Get(p.fs)*core.Cents(conditions)
}

// saltCap is the SALT limit after the MAGI phase-down, never below the
// floor.
func (p *pass) saltCap(magi core.Cents) core.Cents {
	s := p.y.SALT
	limit := s.Cap.Get(p.fs)
	threshold := s.PhaseOutThreshold.Get(p.fs)
	if threshold <= 0 || magi <= threshold {
		return limit
	}
	return core.MaxCents(s.Floor.Get(p.fs), limit - (magi-threshold).MulRate(s.PhaseOutRate))
}

// mortgageInterest limits deductible interest in proportion to the share of
// acquisition debt under the limits. Grandfathered debt is applied first and
// reduces the room left for post-2017 debt.
func (p *pass) mortgageInterest(loans []core.Mortgage) (core.Cents, bool) {
	cutoff, _ := core.ParseDate(p.y.Mortgage.EraCutoff)
	var interest, grandfathered, post core.Cents
	for i, m := range loans {
		interest += m.Interest + m.Points
		orig, ok := core.ParseDate(m.OriginationDate)
		if !ok {
			p.f.Warn(core.CodeMortgageDateMissing, fmt.Sprintf("deductions.itemized.mortgages[%d].originationDate", i),
				"%s: origination date missing; post-2017 debt limit applied",
				payerName(m.Lender, "mortgage", i))
			post += m.OutstandingPrincipal
			continue
		}
		if orig.Before(cutoff) {
			grandfathered += m.OutstandingPrincipal
		} else {
			post += m.OutstandingPrincipal
		}
	}

	allowedOld := core.MinCents(grandfathered, p.y.Mortgage.GrandfatheredLimit.Get(p.fs))
	allowedNew := core.MinCents(post, (p.y.Mortgage.PostTCJALimit.Get(p.fs) - allowedOld).NonNegative())
	total, allowed := grandfathered+post, allowedOld+allowedNew
	if total <= allowed {
		return interest, false
	}
	return interest.MulDiv(int64(allowed), int64(total)), true
}

func (p *pass) scheduleA(d *core.ItemizedDetail) *ScheduleA {
	y := p.y
	agi := p.r.AGI.NonNegative()
	a := &ScheduleA{
		Medical:           (d.MedicalExpenses - agi.MulRate(y.MedicalFloor)).NonNegative(),
		SALTPaid:          core.MaxCents(d.StateLocalIncomeTax, d.StateLocalSalesTax) + d.RealEstateTax + d.PersonalPropertyTax,
		SALTCap:           p.saltCap(p.r.AGI),
		CharitableCash:    d.CharitableCash,
		CharitableNonCash: d.CharitableNonCash,
		Other:             d.Other,
	}
	a.SALT = core.MinCents(a.SALTPaid, a.SALTCap)
	a.MortgageInterest, a.MortgageLimited = p.mortgageInterest(d.Mortgages)

	cashCeiling := agi.MulRate(y.CharityCashCeiling)
	cash := core.MinCents(d.CharitableCash, cashCeiling)
	nonCash := core.MinCents(d.CharitableNonCash, agi.MulRate(y.CharityNonCashCeiling), (cashCeiling - cash).NonNegative())
	a.Charitable = cash + nonCash
	a.CharityCarryover = d.CharitableCash + d.CharitableNonCash - a.Charitable
	if a.CharityCarryover > 0 {
		p.f.Info(core.CodeCharitableCarryover, "deductions.itemized",
			"charitable contributions of %s exceed the AGI ceilings; carried forward up to five years", a.CharityCarryover)
	}

	a.Total = a.Medical + a.SALT + a.MortgageInterest + a.Charitable + a.Other
	return a
}

func (p *pass) deduction() {
	std := p.standardDeduction()
	p.r.StandardDeduction = std

	method := p.tr.Deductions.Method
	if method == "" {
		method = core.DeductionAuto
	}
	detail := p.tr.Deductions.Itemized
	if method == core.DeductionItemized && detail == nil {
		p.f.Warn(core.CodeInvalidField, "deductions.itemized",
			"itemized deduction selected without itemized detail; standard deduction used")
		method = core.DeductionStandard
	}

	var a *ScheduleA
	if method != core.DeductionStandard && detail != nil {
		a = p.scheduleA(detail)
	}
	switch {
	case method == core.DeductionItemized, method == core.DeductionAuto && a != nil && a.Total > std:
		p.exec(StageScheduleA)
		p.r.ScheduleA = a
		p.r.DeductionMethod = core.DeductionItemized
		p.r.Deduction = a.Total
	default:
		p.r.DeductionMethod = core.DeductionStandard
		p.r.Deduction = std
	}
}

// qbiScheduleC is Schedule C profit less the part of each owner's SE-tax
// deduction attributable to it.
func (p *pass) qbiScheduleC() core.Cents {
	netBy := map[core.Owner]core.Cents{}
	for _, c := range p.r.ScheduleC {
		netBy[c.Owner] += c.NetProfit
	}
	var total core.Cents
	for _, o := range []core.Owner{core.OwnerTaxpayer, core.OwnerSpouse} {
		net := netBy[o]
		total += net
		if base := p.seBaseBy[o]; net > 0 && base > 0 {
			total -= p.seDeductionBy[o].MulDiv(int64(core.MinCents(net, base)), int64(base))
		}
	}
	return total
}

func (p *pass) qbi() {
	var reit core.Cents
	for _, d := range p.tr.Dividends {
		reit += d.Section199ADividends
	}
	q := p.qbiScheduleC() + p.r.K1.Totals.Section199AQBI
	if q == 0 && reit == 0 {
		return
	}
	p.exec(StageForm8995)

	cfg := p.y.QBI
	res := QBIResult{QBI: q, REITDividends: reit}
	var fromQBI core.Cents
	if q < 0 {
		res.LossCarryforward = -q
		p.f.Info(core.CodeQBILossCarryforward, "qbi",
			"qualified business loss of %s carried forward to next year", -q)
	} else {
		fromQBI = q.MulRate(cfg.Rate)
	}

	res.IncomeBeforeQBI = (p.r.AGI - p.r.Deduction).NonNegative()
	var ncg core.Cents
	if p.r.ScheduleD != nil {
		ncg = p.r.ScheduleD.NetCapitalGain
	}
	res.IncomeLimit = (res.IncomeBeforeQBI - (p.r.QualifiedDividends + ncg)).NonNegative().MulRate(cfg.Rate)

	threshold, span := cfg.Threshold.Get(p.fs), cfg.PhaseInRange.Get(p.fs)
	if over := res.IncomeBeforeQBI - threshold; over > 0 && fromQBI > 0 {
		res.PhaseInApplied = true
		if over >= span {
			fromQBI = 0
		} else {
			fromQBI -= fromQBI.MulDiv(int64(over), int64(span))
		}
		p.f.Warn(core.CodeQBIWageLimitAssumed, "qbi",
			"taxable income %s is over the QBI threshold %s; W-2 wage and property limits assumed zero",
			res.IncomeBeforeQBI, threshold)
	}

	res.Component = fromQBI + reit.MulRate(cfg.Rate)
	res.Deduction = core.MinCents(res.Component, res.IncomeLimit)
	p.r.QBI = res
	p.r.QBIDeduction = res.Deduction
}

func (p *pass) taxableIncome() {
	p.r.TotalDeductions = p.r.Deduction + p.r.QBIDeduction
	p.r.TaxableIncome = (p.r.AGI - p.r.TotalDeductions).NonNegative()
}
