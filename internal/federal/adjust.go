package federal

import "taxengine/internal/core"

// educatorCap is the per-educator limit on Schedule 1 line 11.
var educatorCap = core.Dollars(300)

func (p *pass) earlyWithdrawalPenalty() core.Cents {
	var total core.Cents
	for _, in := range p.tr.Interest {
		total += in.EarlyWithdrawalPenalty
	}
	return total
}

func (p *pass) educatorExpenses() core.Cents {
	limit := educatorCap * core.Cents(p.tr.Exemptions())
	return core.MinCents(p.tr.Adjustments.EducatorExpenses, limit)
}

// fixedAdjustments are the Schedule 1 adjustments that do not depend on
// MAGI. They are subtracted when computing the preliminary AGI for the
// passive-loss allowance and the provisional income for Social Security.
func (p *pass) fixedAdjustments() core.Cents {
	return p.educatorExpenses() + p.tr.Adjustments.HSADeduction +
		p.r.ScheduleSE.Deduction + p.earlyWithdrawalPenalty()
}

func (p *pass) schedule1() {
	s := &p.r.Schedule1
	s.BusinessIncome = p.scheduleCNet
	s.RentalIncome = p.rentalTotal()
	s.Unemployment = p.unemployment
	s.AdditionalIncome = s.BusinessIncome + s.RentalIncome + s.Unemployment

	r := &p.r
	r.AdditionalIncome = s.AdditionalIncome
	r.TotalIncome = r.Wages + r.TaxableInterest + r.OrdinaryDividends + r.TaxableIRA + r.TaxablePensions +
		r.TaxableSocialSec + r.CapitalGain + r.AdditionalIncome

	s.EducatorExpenses = p.educatorExpenses()
	s.HSADeduction = p.tr.Adjustments.HSADeduction
	s.SETaxDeduction = r.ScheduleSE.Deduction
	s.EarlyWithdrawal = p.earlyWithdrawalPenalty()
	s.IRADeduction = p.tr.Adjustments.IRADeduction

	magi := r.TotalIncome - (p.fixedAdjustments() + s.IRADeduction)
	s.StudentLoanInterest = p.studentLoanInterest(magi)

	s.Adjustments = s.EducatorExpenses + s.HSADeduction + s.SETaxDeduction + s.EarlyWithdrawal +
		s.IRADeduction + s.StudentLoanInterest
	r.Adjustments = s.Adjustments
	r.AGI = r.TotalIncome - r.Adjustments

	if s.AdditionalIncome != 0 || s.Adjustments != 0 {
		p.exec(StageSchedule1)
	}
}

// studentLoanInterest applies the $2,500 cap and the linear MAGI phase-out.
// A zero phase-out range (married filing separately) disallows the deduction.
func (p *pass) studentLoanInterest(magi core.Cents) core.Cents {
	paid := p.tr.Adjustments.StudentLoanInterest
	if paid <= 0 {
		return 0
	}
	if p.tr.Taxpayer.CanBeClaimedAsDependent {
		p.f.Info(core.CodeInvalidField, "adjustments.studentLoanInterest",
			"student loan interest is not deductible by someone who can be claimed as a dependent")
		return 0
	}
	sl := p.y.StudentLoan
	span := sl.PhaseOutRange.Get(p.fs)
	if span <= 0 {
		return 0
	}
	allowed := core.MinCents(paid, sl.Cap)
	over := (magi - sl.PhaseOutStart.Get(p.fs)).NonNegative()
	if over >= span {
		return 0
	}
	return allowed - allowed.MulDiv(int64(over), int64(span))
}
