package federal

import "taxengine/internal/core"

// additionalMedicare is Form 8959 Parts I, II and V: 0.9% on wages and SE
// earnings over the threshold, plus the Medicare tax withheld beyond the
// regular 1.45% that line 25c credits back.
func (p *pass) additionalMedicare() (tax, extraWithheld core.Cents) {
	m := p.y.Medicare
	threshold := m.AdditionalThreshold.Get(p.fs)

	wagesOver := (p.medicareWages - threshold).NonNegative()
	seOver := (p.r.ScheduleSE.NetEarnings - (threshold - p.medicareWages).NonNegative()).NonNegative()
	tax = wagesOver.MulRate(m.AdditionalRate) + seOver.MulRate(m.AdditionalRate)

	extraWithheld = (p.medicareWithheld - p.medicareWages.MulRate(m.EmployeeRate)).NonNegative()
	return tax, extraWithheld
}

// niit is Form 8960 on the simplified path: investment income is interest,
// dividends, capital gain and allowed passive rental income.
func (p *pass) niit() (nii, tax core.Cents) {
	r := &p.r
	nii = r.TaxableInterest + r.OrdinaryDividends + r.CapitalGain
	if r.ScheduleE != nil {
		nii += r.ScheduleE.RentalAllowed
	}
	nii = nii.NonNegative()
	over := (r.AGI - p.y.NIIT.Threshold.Get(p.fs)).NonNegative()
	return nii, core.MinCents(nii, over).MulRate(p.y.NIIT.Rate)
}

func (p *pass) schedule2() {
	s := &p.r.Schedule2
	s.SelfEmploymentTax = p.r.ScheduleSE.Tax

	s.AdditionalMedicare, s.MedicareWithheldExtra = p.additionalMedicare()
	if s.AdditionalMedicare > 0 || s.MedicareWithheldExtra > 0 {
		p.exec(StageForm8959)
	}
	s.NetInvestmentIncome, s.NIIT = p.niit()
	if s.NIIT > 0 {
		p.exec(StageForm8960)
	}

	s.Total = s.SelfEmploymentTax + s.AdditionalMedicare + s.NIIT
	if s.Total > 0 {
		p.exec(StageSchedule2)
	}
	p.r.OtherTaxes = s.Total
	p.r.TotalTax = p.r.TaxAfterCredits + p.r.OtherTaxes
}
