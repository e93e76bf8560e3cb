package federal

import (
	"fmt"

	"taxengine/internal/core"
	"taxengine/internal/taxtable"
)

// credits applies the nonrefundable credits against line 18 in Schedule 3
// order (dependent care, education, retirement savings) and then the child
// tax credit, mirroring the Credit Limit Worksheet. Refundable credits are
// computed last.
func (p *pass) credits() {
	c := &p.r.Credits
	remaining := p.r.TaxPlusSchedule2

	c.DependentCare, c.DependentCareRate = p.dependentCare()
	c.DependentCare = core.MinCents(c.DependentCare, remaining)
	remaining -= c.DependentCare

	nonref, refundable := p.education()
	c.EducationNonrefundable = core.MinCents(nonref, remaining)
	c.EducationRefundable = refundable
	remaining -= c.EducationNonrefundable

	c.Savers, c.SaversRate = p.savers()
	c.Savers = core.MinCents(c.Savers, remaining)
	remaining -= c.Savers

	p.childTaxCredit(remaining)
	p.earnedIncomeCredit()

	r := &p.r
	r.ChildTaxCredit = c.ChildCredit
	r.OtherCredits = c.DependentCare + c.EducationNonrefundable + c.Savers
	if r.OtherCredits > 0 {
		p.exec(StageSchedule3)
	}
	r.TotalCredits = r.ChildTaxCredit + r.OtherCredits
	r.TaxAfterCredits = (r.TaxPlusSchedule2 - r.TotalCredits).NonNegative()

	r.EarnedIncomeCredit = c.EIC
	r.AdditionalChildCredit = c.AdditionalChildCredit
	r.RefundableEducation = c.EducationRefundable
}

func (p *pass) dependentCare() (core.Cents, core.Rate) {
	expenses := p.tr.Credits.DependentCareExpenses
	if expenses <= 0 || p.fs == core.MarriedFilingSeparately {
		return 0, 0
	}
	dc := p.y.DependentCare
	persons := 0
	for _, d := range p.tr.Dependents {
		age, ok := core.AgeAtYearEnd(d.DateOfBirth, p.y.Year)
		if d.Disabled || (ok && age <= dc.MaxChildAge) {
			persons++
		}
	}
	if persons == 0 {
		return 0, 0
	}
	p.exec(StageForm2441)

	limit := dc.OnePersonCap
	if persons > 1 {
		limit = dc.TwoPersonCap
	}
	limit = (limit - p.depCareBenefits).NonNegative()

	earned := p.earnedTotal()
	if p.fs.Joint() {
		earned = core.MinCents(p.earnedBy(core.OwnerTaxpayer), p.earnedBy(core.OwnerSpouse))
	}
	qualified := core.MinCents(expenses, limit, earned.NonNegative())

	rate := dc.MaxRate
	if over := p.r.AGI - dc.AGIFloor; over > 0 {
		rate -= core.Rate(core.CeilDiv(over, dc.AGIStep)) * dc.StepRate
		if rate < dc.MinRate {
			rate = dc.MinRate
		}
	}
	return qualified.MulRate(rate), rate
}

// phaseOutFraction is Form 8863 line 6: the share of the credit left by the
// MAGI phase-out, rounded to three decimal places and returned in thousandths.
func phaseOutFraction(magi, lower, upper core.Cents) int64 {
	switch {
	case upper <= lower || magi >= upper:
		return 0
	case magi <= lower:
		return 1_000
	}
	return core.RoundHalfAwayFromZero(int64(upper-magi)*1_000, int64(upper-lower))
}

// education returns the nonrefundable and refundable parts of Form 8863.
func (p *pass) education() (core.Cents, core.Cents) {
	students := p.tr.Credits.EducationStudents
	if len(students) == 0 {
		return 0, 0
	}
	if p.fs == core.MarriedFilingSeparately || p.tr.Taxpayer.CanBeClaimedAsDependent {
		p.f.Info(core.CodeInvalidField, "credits.educationStudents",
			"education credits are not available to married filing separately returns or dependents")
		return 0, 0
	}
	p.exec(StageForm8863)

	ed := p.y.Education
	var aotc, llcExpenses core.Cents
	for _, s := range students {
		switch s.CreditType {
		case core.CreditAOTC:
			first := core.MinCents(s.QualifiedExpenses, ed.AOTCFirstTier)
			second := core.MinCents((s.QualifiedExpenses - ed.AOTCFirstTier).NonNegative(), ed.AOTCSecondTier)
			aotc += first + second.MulRate(ed.AOTCSecondRate)
		case core.CreditLLC:
			llcExpenses += s.QualifiedExpenses
		}
	}
	llc := core.MinCents(llcExpenses, ed.LLCExpenseCap).MulRate(ed.LLCRate)

	frac := phaseOutFraction(p.r.AGI, ed.PhaseOutLower.Get(p.fs), ed.PhaseOutUpper.Get(p.fs))
	aotc = aotc.MulDiv(frac, 1_000)
	llc = llc.MulDiv(frac, 1_000)

	refundable := aotc.MulRate(ed.AOTCRefundable)
	return aotc - refundable + llc, refundable
}

func (p *pass) savers() (core.Cents, core.Rate) {
	if p.tr.Taxpayer.CanBeClaimedAsDependent {
		return 0, 0
	}
	sv := p.y.Savers
	contribBy := map[core.Owner]core.Cents{}
	for _, o := range p.persons() {
		contribBy[o] = p.deferralsBy[o]
	}
	for _, rc := range p.tr.Credits.RetirementContributions {
		o := ownerOf(rc.Owner)
		if _, ok := contribBy[o]; ok {
			contribBy[o] += rc.Contributions - rc.Distributions
		}
	}

	var eligible core.Cents
	for _, o := range p.persons() {
		if who := p.person(o); who != nil {
			if age, ok := core.AgeAtYearEnd(who.DateOfBirth, p.y.Year); ok && age < 18 {
				continue
			}
		}
		eligible += core.ClampCents(contribBy[o], 0, sv.ContributionCap)
	}
	if eligible <= 0 {
		return 0, 0
	}

	tiers := sv.Tiers.Get(p.fs)
	var rate core.Rate
	switch agi := p.r.AGI; {
	case agi <= tiers[0]:
		rate = 500_000
	case agi <= tiers[1]:
		rate = 200_000
	case agi <= tiers[2]:
		rate = 100_000
	default:
		return 0, 0
	}
	p.exec(StageForm8880)
	return eligible.MulRate(rate), rate
}

func (p *pass) childTaxCredit(remaining core.Cents) {
	ctc := p.y.CTC
	c := &p.r.Credits
	for i, d := range p.tr.Dependents {
		age, ok := core.AgeAtYearEnd(d.DateOfBirth, p.y.Year)
		if !ok || age > ctc.MaxChildAge {
			c.OtherDependents++
			continue
		}
		if d.SSN == "" {
			p.f.Warn(core.CodeDependentMissingSSN, fmt.Sprintf("dependents[%d].ssn", i),
				"%s %s has no SSN; claimed for the $500 credit for other dependents instead of the child tax credit",
				d.FirstName, d.LastName)
			c.OtherDependents++
			continue
		}
		c.QualifyingChildren++
	}
	if c.QualifyingChildren == 0 && c.OtherDependents == 0 {
		return
	}
	p.exec(StageSchedule8812)

	before := ctc.PerChild*core.Cents(c.QualifyingChildren) + ctc.PerOtherDependent*core.Cents(c.OtherDependents)
	reduction := core.Cents(core.CeilDiv(p.r.AGI-ctc.PhaseOutThreshold.Get(p.fs), ctc.PhaseOutStep)) * ctc.PhaseOutPerStep
	c.ChildCreditBeforeLimit = (before - reduction).NonNegative()
	c.ChildCredit = core.MinCents(c.ChildCreditBeforeLimit, remaining.NonNegative())

	if c.QualifyingChildren == 0 {
		return
	}
	unused := c.ChildCreditBeforeLimit - c.ChildCredit
	earnedPart := (p.earnedTotal() - ctc.EarnedFloor).NonNegative().MulRate(ctc.EarnedRate)
	c.AdditionalChildCredit = core.MinCents(unused, ctc.RefundablePerChild*core.Cents(c.QualifyingChildren), earnedPart)
}

// eicAt evaluates the EIC formula for one income measure: the phase-in
// credit capped at the maximum, less the phase-out over start.
func eicAt(b taxtable.EICBand, x, start core.Cents) core.Cents {
	if x <= 0 {
		return 0
	}
	credit := core.MinCents(core.MinCents(x, b.EarnedAmount).MulRate(b.PhaseInRate), b.MaxCredit)
	if x > start {
		credit -= (x - start).MulRate(b.PhaseOutRate)
	}
	return credit.NonNegative()
}

func (p *pass) eicChildren() int {
	n := 0
	for i, d := range p.tr.Dependents {
		age, ok := core.AgeAtYearEnd(d.DateOfBirth, p.y.Year)
		if !ok && !d.Disabled {
			p.f.Warn(core.CodeEICAgeUnknown, fmt.Sprintf("dependents[%d].dateOfBirth", i),
				"%s %s has no date of birth; not counted as an EIC qualifying child", d.FirstName, d.LastName)
			continue
		}
		young := ok && (age < 19 || (d.Student && age < 24))
		if (young || d.Disabled) && d.MonthsLivedWithTaxpayer > 6 && d.SSN != "" {
			n++
		}
	}
	return n
}

// childlessAgeOK applies the 25-64 test to the taxpayer or, on a joint
// return, either spouse. An unknown age passes with a warning.
func (p *pass) childlessAgeOK() bool {
	eic := p.y.EIC
	unknown := false
	for _, o := range p.persons() {
		who := p.person(o)
		if who == nil {
			continue
		}
		age, ok := core.AgeAtYearEnd(who.DateOfBirth, p.y.Year)
		if !ok {
			unknown = true
			continue
		}
		if age >= eic.MinAgeChildless && age <= eic.MaxAgeChildless {
			return true
		}
	}
	if unknown {
		p.f.Warn(core.CodeEICAgeUnknown, "taxpayer.dateOfBirth",
			"date of birth missing; the EIC age test (%d-%d) for filers without qualifying children was assumed met",
			eic.MinAgeChildless, eic.MaxAgeChildless)
	}
	return unknown
}

func (p *pass) earnedIncomeCredit() {
	if p.fs == core.MarriedFilingSeparately || p.tr.Taxpayer.CanBeClaimedAsDependent {
		return
	}
	earned := p.earnedTotal()
	if earned <= 0 {
		return
	}
	eic := p.y.EIC
	r := &p.r
	investment := r.TaxableInterest + r.TaxExemptInterest + r.OrdinaryDividends + r.CapitalGain.NonNegative()
	if investment > eic.InvestmentLimit {
		p.f.Info(core.CodeEICInvestmentIncome, "eic",
			"investment income %s exceeds the EIC limit %s", investment, eic.InvestmentLimit)
		return
	}

	kids := p.eicChildren()
	if kids > 3 {
		kids = 3
	}
	band := eic.Bands[kids]
	start := band.PhaseOutStart
	if p.fs.Joint() {
		start = band.PhaseOutJoint
	}

	credit := eicAt(band, earned, start)
	if r.AGI > start && r.AGI != earned {
		credit = core.MinCents(credit, eicAt(band, r.AGI, start))
	}
	if credit == 0 || (kids == 0 && !p.childlessAgeOK()) {
		return
	}

	c := &r.Credits
	c.EICChildren = kids
	c.EarnedIncome = earned
	c.EIC = credit
	p.exec(StageScheduleEIC)
}
