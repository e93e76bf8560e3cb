// Package federal computes the individual federal return (Form 1040 and its
// schedules) for one tax year.
//
// A compute call runs a fixed sequence of stages over an immutable TaxReturn.
// Each stage reads the lines produced by earlier stages, writes its own
// lines, and is skipped when the data it needs is absent. Stages never fail:
// missing optional data counts as zero and data-shape problems become
// findings on the result.
package federal

import (
	"taxengine/internal/core"
	"taxengine/internal/taxtable"
)

// Engine computes Form 1040 for the tax year of its constant table.
type Engine struct {
	year taxtable.Year
}

// New returns an engine for one year's constants.
func New(year taxtable.Year) *Engine { return &Engine{year: year} }

// TaxYear is the year this engine computes.
func (e *Engine) TaxYear() int { return e.year.Year }

// Constants exposes the year's table, for state modules that conform to
// federal amounts.
func (e *Engine) Constants() taxtable.Year { return e.year }

// StandardDeduction is the basic standard deduction for fs.
func (e *Engine) StandardDeduction(fs core.FilingStatus) core.Cents {
	return e.year.StandardDeduction.Get(fs)
}

// ComputeForm1040 computes the full federal return.
func (e *Engine) ComputeForm1040(tr *core.TaxReturn) Form1040Result {
	p := newPass(e.year, tr)
	p.run()
	return p.r
}

// ComputeScheduleB computes interest and dividends on their own.
func (e *Engine) ComputeScheduleB(tr *core.TaxReturn) ScheduleB {
	var f core.Findings
	return buildScheduleB(tr, &f)
}

// pass is the mutable state of one compute call. It never outlives
// ComputeForm1040.
type pass struct {
	y  taxtable.Year
	tr *core.TaxReturn
	fs core.FilingStatus
	r  Form1040Result
	f  core.Findings

	wagesBy          map[core.Owner]core.Cents
	ssWagesBy        map[core.Owner]core.Cents
	deferralsBy      map[core.Owner]core.Cents
	seBaseBy         map[core.Owner]core.Cents
	seDeductionBy    map[core.Owner]core.Cents
	medicareWages    core.Cents
	medicareWithheld core.Cents
	depCareBenefits  core.Cents
	scheduleCNet     core.Cents
	unemployment     core.Cents
	k1Nonpassive     core.Cents
}

func newPass(y taxtable.Year, tr *core.TaxReturn) *pass {
	return &pass{
		y:             y,
		tr:            tr,
		fs:            tr.FilingStatus,
		wagesBy:       map[core.Owner]core.Cents{},
		ssWagesBy:     map[core.Owner]core.Cents{},
		deferralsBy:   map[core.Owner]core.Cents{},
		seBaseBy:      map[core.Owner]core.Cents{},
		seDeductionBy: map[core.Owner]core.Cents{},
	}
}

func (p *pass) run() {
	p.r.TaxYear = p.y.Year
	p.r.FilingStatus = p.fs

	p.wages()
	p.scheduleB()
	p.k1()
	p.scheduleC()
	p.scheduleSE()
	p.scheduleD()
	p.retirementAndGovernment()
	p.scheduleE()
	p.socialSecurity()
	p.schedule1()
	p.deduction()
	p.qbi()
	p.taxableIncome()
	p.tax()
	p.credits()
	p.schedule2()
	p.payments()
	p.exec(StageForm1040)

	if p.r.ExecutedSchedules == nil {
		p.r.ExecutedSchedules = []string{}
	}
	p.r.Findings = p.f.List()
}

func (p *pass) exec(stage string) {
	for _, s := range p.r.ExecutedSchedules {
		if s == stage {
			return
		}
	}
	p.r.ExecutedSchedules = append(p.r.ExecutedSchedules, stage)
}

// ownerOf maps an unset owner to the taxpayer.
func ownerOf(o core.Owner) core.Owner {
	if o == core.OwnerSpouse {
		return core.OwnerSpouse
	}
	return core.OwnerTaxpayer
}

func (p *pass) persons() []core.Owner {
	if p.fs.Joint() {
		return []core.Owner{core.OwnerTaxpayer, core.OwnerSpouse}
	}
	return []core.Owner{core.OwnerTaxpayer}
}

func (p *pass) person(o core.Owner) *core.Person {
	if o == core.OwnerSpouse {
		return p.tr.Spouse
	}
	return &p.tr.Taxpayer
}

// earnedBy is wages plus net self-employment profit less the deductible half
// of SE tax, the earned-income definition shared by EIC, ACTC and Form 2441.
func (p *pass) earnedBy(o core.Owner) core.Cents {
	return p.wagesBy[o] + p.seBaseBy[o] - p.seDeductionBy[o]
}

func (p *pass) earnedTotal() core.Cents {
	var total core.Cents
	for _, o := range []core.Owner{core.OwnerTaxpayer, core.OwnerSpouse} {
		total += p.earnedBy(o)
	}
	return total
}

func (p *pass) payments() {
	tr := p.tr
	var w core.Cents
	for _, f := range tr.Interest {
		w += f.FederalWithheld
	}
	for _, f := range tr.Dividends {
		w += f.FederalWithheld
	}
	for _, f := range tr.Nonemployee {
		w += f.FederalWithheld
	}
	for _, f := range tr.Government {
		w += f.FederalWithheld
	}
	for _, f := range tr.Retirement {
		w += f.FederalWithheld
	}
	for _, f := range tr.SocialSecurity {
		w += f.FederalWithheld
	}
	p.r.Form1099Withholding = w
	p.r.OtherWithholding = p.r.Schedule2.MedicareWithheldExtra
	p.r.TotalWithholding = p.r.W2Withholding + p.r.Form1099Withholding + p.r.OtherWithholding

	for _, ep := range tr.EstimatedPayments {
		p.r.EstimatedPayments += ep.Amount
	}

	p.r.RefundableCredits = p.r.EarnedIncomeCredit + p.r.AdditionalChildCredit + p.r.RefundableEducation
	p.r.TotalPayments = p.r.TotalWithholding + p.r.EstimatedPayments + p.r.RefundableCredits

	if diff := p.r.TotalPayments - p.r.TotalTax; diff > 0 {
		p.r.Overpaid = diff
		p.r.Refund = diff
	} else {
		p.r.AmountOwed = -diff
	}
}
