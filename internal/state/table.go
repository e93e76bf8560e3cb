package state

import (
	"taxengine/internal/core"
	"taxengine/internal/federal"
	"taxengine/internal/taxtable"
	"taxengine/internal/trace"
)

// Base is the federal starting point of a table state.
type Base int

const (
	// BaseFederalAGI starts from federal AGI less the state's subtractions.
	BaseFederalAGI Base = iota
	// BaseFederalTaxable starts from federal taxable income.
	BaseFederalTaxable
	// BaseIncomeClasses sums separately netted income classes.
	BaseIncomeClasses
)

// Surtax is an extra rate on taxable income above a threshold.
type Surtax struct {
	Threshold core.ByStatus[core.Cents]
	Rate      core.Rate
}

// CreditPhaseOut reduces each personal and dependent credit by PerStep for
// every Step (or part of one) of federal AGI over Threshold.
type CreditPhaseOut struct {
	Threshold core.ByStatus[core.Cents]
	Step      core.ByStatus[core.Cents]
	PerStep   core.Cents
}

// Params is one state's table for one year. Zero fields switch the
// corresponding step off.
type Params struct {
	Code Code
	Base Base

	ExcludeSocialSecurity bool
	ExcludeUSBondInterest bool
	// SocialSecurityExemptUpTo subtracts taxable benefits only when federal
	// AGI is at or below the status amount.
	SocialSecurityExemptUpTo *core.ByStatus[core.Cents]

	Schedules core.ByStatus[taxtable.Schedule]
	Surtax    *Surtax

	StandardDeduction core.ByStatus[core.Cents]
	// FederalStandardDeduction conforms to the federal standard deduction,
	// including the aged, blind and dependent-filer adjustments.
	FederalStandardDeduction bool
	// Itemized, when set, returns the state's itemized total; the larger of
	// it and the standard deduction is taken.
	Itemized func(tr *core.TaxReturn, fed *federal.Form1040Result) core.Cents

	PersonalExemption  core.ByStatus[core.Cents]
	DependentExemption core.Cents
	// ExemptionAGILimit removes all exemptions above the status amount.
	ExemptionAGILimit *core.ByStatus[core.Cents]

	PersonalCredit  core.ByStatus[core.Cents]
	DependentCredit core.Cents
	CreditPhaseOut  *CreditPhaseOut

	Apportion ApportionMethod
	// SupplementalAbove notes an unmodeled recapture tax above this state AGI.
	SupplementalAbove core.Cents
}

// Table is a module for a bracket or flat-rate state.
type Table struct {
	p Params
}

// NewTable returns the module for p. A zero Apportion means ScaleIncome.
func NewTable(p Params) *Table {
	if p.Apportion == "" {
		p.Apportion = ScaleIncome
	}
	return &Table{p: p}
}

func (t *Table) Code() Code   { return t.p.Code }
func (t *Table) Name() string { return t.p.Code.Name() }

// Compute runs the table worksheet.
func (t *Table) Compute(tr *core.TaxReturn, fed *federal.Form1040Result, cfg core.StateConfig) Result {
	var f core.Findings
	r := begin(t.p.Code, tr, fed, cfg)
	noteNonresident(r, &f)
	fs := fed.FilingStatus
	d := TableDetail{
		FederalAGI:        fed.AGI,
		ApportionedBy:     t.p.Apportion,
		FullYearResidency: r.Ratio.IsFull(),
	}

	switch t.p.Base {
	case BaseFederalTaxable:
		r.StateAGI = fed.TaxableIncome
	case BaseIncomeClasses:
		d.IncomeClasses = incomeClasses(fed)
		for _, c := range d.IncomeClasses {
			r.StateAGI += c.Taxable
		}
	default:
		d.SocialSecurity = t.socialSecuritySubtraction(fed)
		if t.p.ExcludeUSBondInterest {
			d.USBondInterest = core.MinCents(fed.ScheduleB.USBondInterest, fed.TaxableInterest).NonNegative()
		}
		d.Subtractions = d.SocialSecurity + d.USBondInterest
		r.StateAGI = fed.AGI - d.Subtractions
	}

	d.Deduction, d.Itemized = t.deduction(tr, fed)
	d.Exemptions = t.exemptions(tr, fs, r.StateAGI)
	d.FullYearTaxable = (r.StateAGI - d.Deduction - d.Exemptions).NonNegative()

	sched := t.p.Schedules.Get(fs)
	d.FullYearTax = sched.Tax(d.FullYearTaxable) + t.surtax(fs, d.FullYearTaxable)

	taxable := d.FullYearTaxable
	if t.p.Apportion == ScaleIncome {
		taxable = ApportionIncome(taxable, r.Ratio)
	}
	r.StateTaxableIncome = taxable
	d.ScheduleTax = sched.Tax(taxable)
	d.Surtax = t.surtax(fs, taxable)
	d.MarginalRate = sched.MarginalRate(taxable)
	if t.p.Apportion == ScaleTax {
		r.StateTax = Apportion(d.FullYearTax, r.Ratio)
	} else {
		r.StateTax = d.ScheduleTax + d.Surtax
	}

	d.PersonalCredits, d.DependentCredits, d.CreditPhaseOut = t.credits(tr, fs, fed.AGI)
	r.StateCredits = Apportion(d.PersonalCredits+d.DependentCredits, r.Ratio)

	if t.p.SupplementalAbove > 0 && r.StateAGI > t.p.SupplementalAbove {
		f.Warn(core.CodeStateSupplementalSkipped, "states."+string(t.p.Code),
			"%s supplemental tax applies above AGI of %s and is not computed", t.p.Code.Name(), t.p.SupplementalAbove)
	}

	r.Detail = d
	finish(&r, &f)
	return r
}

func (t *Table) socialSecuritySubtraction(fed *federal.Form1040Result) core.Cents {
	if t.p.ExcludeSocialSecurity {
		return fed.TaxableSocialSec
	}
	if limit := t.p.SocialSecurityExemptUpTo; limit != nil && fed.AGI <= limit.Get(fed.FilingStatus) {
		return fed.TaxableSocialSec
	}
	return 0
}

func (t *Table) deduction(tr *core.TaxReturn, fed *federal.Form1040Result) (core.Cents, bool) {
	std := t.p.StandardDeduction.Get(fed.FilingStatus)
	if t.p.FederalStandardDeduction {
		std = fed.StandardDeduction
	}
	if t.p.Itemized != nil {
		if it := t.p.Itemized(tr, fed); it > std {
			return it, true
		}
	}
	return std, false
}

func (t *Table) exemptions(tr *core.TaxReturn, fs core.FilingStatus, agi core.Cents) core.Cents {
	if limit := t.p.ExemptionAGILimit; limit != nil && agi > limit.Get(fs) {
		return 0
	}
	return t.p.PersonalExemption.Get(fs) + t.p.DependentExemption*countDependents(tr)
}

func (t *Table) surtax(fs core.FilingStatus, taxable core.Cents) core.Cents {
	if t.p.Surtax == nil {
		return 0
	}
	return (taxable - t.p.Surtax.Threshold.Get(fs)).NonNegative().MulRate(t.p.Surtax.Rate)
}

// credits returns the personal and dependent credits after the AGI
// phase-out, and the amount the phase-out removed.
func (t *Table) credits(tr *core.TaxReturn, fs core.FilingStatus, agi core.Cents) (personal, dependent, phasedOut core.Cents) {
	personal = t.p.PersonalCredit.Get(fs)
	perDependent := t.p.DependentCredit
	deps := countDependents(tr)
	before := personal + perDependent*deps

	if po := t.p.CreditPhaseOut; po != nil {
		if over := agi - po.Threshold.Get(fs); over > 0 {
			cut := po.PerStep * core.Cents(core.CeilDiv(over, po.Step.Get(fs)))
			people := core.Cents(tr.Exemptions())
			perPerson := (personal / people) - cut
			personal = perPerson.NonNegative() * people
			perDependent = (perDependent - cut).NonNegative()
		}
	}
	dependent = perDependent * deps
	return personal, dependent, before - personal - dependent
}

// incomeClasses nets each class on its own and drops class losses.
func incomeClasses(fed *federal.Form1040Result) []IncomeClass {
	var profits core.Cents
	for _, c := range fed.ScheduleC {
		profits += c.NetProfit
	}
	var gains, rents core.Cents
	if fed.ScheduleD != nil {
		gains = fed.ScheduleD.Net
	}
	if fed.ScheduleE != nil {
		rents = fed.ScheduleE.RentalNet
	}
	classes := []IncomeClass{
		{Name: "compensation", Net: fed.Wages},
		{Name: "interest", Net: fed.TaxableInterest},
		{Name: "dividends", Net: fed.OrdinaryDividends},
		{Name: "net_profits", Net: profits},
		{Name: "net_gains", Net: gains},
		{Name: "rents", Net: rents},
	}
	for i := range classes {
		classes[i].Taxable = classes[i].Net.NonNegative()
	}
	return classes
}

// CollectTracedValues explains a table-state result.
func (t *Table) CollectTracedValues(r Result, fed *trace.Values) (*trace.Values, error) {
	b := trace.NewBuilder()
	c := r.StateCode
	name := c.Name()
	d, _ := r.Detail.(TableDetail)

	switch t.p.Base {
	case BaseFederalTaxable:
		b.Import(fed, federal.NodeTaxableIncome)
		b.Add(r.StateAGI, c.Node(LineAGI), name+" income before modifications", federal.NodeTaxableIncome)
	case BaseIncomeClasses:
		b.Import(fed, federal.NodeWages, federal.NodeTaxableInterest, federal.NodeDividends, federal.NodeCapitalGain)
		from := map[string]string{
			"compensation": federal.NodeWages,
			"interest":     federal.NodeTaxableInterest,
			"dividends":    federal.NodeDividends,
			"net_gains":    federal.NodeCapitalGain,
		}
		var ids []string
		for _, ic := range d.IncomeClasses {
			id := c.Node("class." + ic.Name)
			var in []string
			if src, ok := from[ic.Name]; ok {
				in = append(in, src)
			}
			b.AddNonZero(ic.Taxable, id, name+" "+ic.Name+" income", in...)
			ids = append(ids, id)
		}
		b.Add(r.StateAGI, c.Node(LineAGI), name+" taxable income classes", ids...)
	default:
		b.Import(fed, federal.NodeAGI)
		b.AddNonZero(d.Subtractions, c.Node("subtractions"), name+" subtractions from federal AGI")
		b.Add(r.StateAGI, c.Node(LineAGI), name+" adjusted gross income", federal.NodeAGI, c.Node("subtractions"))
	}

	b.AddNonZero(d.Deduction, c.Node("deduction"), name+" deduction")
	b.AddNonZero(d.Exemptions, c.Node("exemptions"), name+" exemptions", c.Node(LineAGI))
	b.Add(r.StateTaxableIncome, c.Node(LineTaxableIncome), name+" taxable income",
		c.Node(LineAGI), c.Node("deduction"), c.Node("exemptions"))
	b.AddNonZero(d.Surtax, c.Node("surtax"), name+" surtax", c.Node(LineTaxableIncome))
	b.Add(r.StateTax, c.Node(LineTax), name+" tax", c.Node(LineTaxableIncome), c.Node("surtax"))

	collectPayments(b, r, federal.NodeAGI)
	return b.Values()
}
