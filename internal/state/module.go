// Package state computes state income tax from a completed federal return.
//
// Every state module consumes the same inputs (the TaxReturn, the federal
// Form1040Result and the per-state residency config) and returns the same
// Result envelope. State-specific intermediate lines live in Result.Detail.
package state

import (
	"taxengine/internal/core"
	"taxengine/internal/federal"
	"taxengine/internal/trace"
)

// Module is one state's rules for one tax year.
type Module interface {
	Code() Code
	Name() string
	// Compute never fails. Data problems become findings on the result.
	Compute(tr *core.TaxReturn, fed *federal.Form1040Result, cfg core.StateConfig) Result
	// CollectTracedValues explains r. fed is the federal pass the state lines
	// reference; the referenced federal nodes are imported as roots.
	CollectTracedValues(r Result, fed *trace.Values) (*trace.Values, error)
}

// Result is the common state envelope.
type Result struct {
	StateCode          Code           `json:"stateCode"`
	StateName          string         `json:"stateName"`
	Residency          core.Residency `json:"residency"`
	StateAGI           core.Cents     `json:"stateAgi"`
	StateTaxableIncome core.Cents     `json:"stateTaxableIncome"`
	StateTax           core.Cents     `json:"stateTax"`
	StateCredits       core.Cents     `json:"stateCredits"`
	TaxAfterCredits    core.Cents     `json:"taxAfterCredits"`
	StateWithholding   core.Cents     `json:"stateWithholding"`
	EstimatedPayments  core.Cents     `json:"estimatedPayments"`
	Overpaid           core.Cents     `json:"overpaid"`
	AmountOwed         core.Cents     `json:"amountOwed"`
	ApportionmentRatio float64        `json:"apportionmentRatio"`
	Ratio              Ratio          `json:"ratio"`
	Detail             Detail         `json:"detail"`
	Findings           []core.Finding `json:"findings"`
}

// settle fills the payment lines from withholding and estimates.
func (r *Result) settle() {
	r.TaxAfterCredits = (r.StateTax - r.StateCredits).NonNegative()
	paid := r.StateWithholding + r.EstimatedPayments
	if diff := paid - r.TaxAfterCredits; diff > 0 {
		r.Overpaid = diff
	} else {
		r.AmountOwed = -diff
	}
}

// Detail is the state-specific part of a Result. The set of implementations
// is closed.
type Detail interface {
	detailKind() string
}

// ApportionMethod says what a part-year ratio scales.
type ApportionMethod string

const (
	// ScaleTax prorates the full-year tax.
	ScaleTax ApportionMethod = "tax"
	// ScaleIncome prorates full-year taxable income before the schedule.
	ScaleIncome ApportionMethod = "income"
)

// TableDetail is the worksheet of a bracket or flat-rate state.
type TableDetail struct {
	FederalAGI        core.Cents      `json:"federalAgi"`
	Subtractions      core.Cents      `json:"subtractions"`
	SocialSecurity    core.Cents      `json:"socialSecuritySubtraction,omitempty"`
	USBondInterest    core.Cents      `json:"usBondInterestSubtraction,omitempty"`
	Deduction         core.Cents      `json:"deduction"`
	Itemized          bool            `json:"itemized,omitempty"`
	Exemptions        core.Cents      `json:"exemptions"`
	FullYearTaxable   core.Cents      `json:"fullYearTaxableIncome"`
	ScheduleTax       core.Cents      `json:"scheduleTax"`
	Surtax            core.Cents      `json:"surtax,omitempty"`
	FullYearTax       core.Cents      `json:"fullYearTax"`
	PersonalCredits   core.Cents      `json:"personalCredits,omitempty"`
	DependentCredits  core.Cents      `json:"dependentCredits,omitempty"`
	CreditPhaseOut    core.Cents      `json:"creditPhaseOut,omitempty"`
	ApportionedBy     ApportionMethod `json:"apportionedBy"`
	IncomeClasses     []IncomeClass   `json:"incomeClasses,omitempty"`
	MarginalRate      core.Rate       `json:"marginalRate"`
	FullYearResidency bool            `json:"fullYearResidency"`
}

// IncomeClass is one separately netted class for states that do not let a
// loss in one class offset income in another.
type IncomeClass struct {
	Name    string     `json:"name"`
	Net     core.Cents `json:"net"`
	Taxable core.Cents `json:"taxable"`
}

// OhioDetail is the Ohio IT 1040 worksheet.
type OhioDetail struct {
	FederalAGI         core.Cents `json:"federalAgi"`
	SocialSecurity     core.Cents `json:"socialSecuritySubtraction"`
	ExemptionPerPerson core.Cents `json:"exemptionPerPerson"`
	Exemptions         core.Cents `json:"exemptions"`
	FullYearTax        core.Cents `json:"fullYearTax"`
}

// InterestDividendDetail is New Hampshire's interest and dividends tax.
type InterestDividendDetail struct {
	Interest  core.Cents `json:"interest"`
	Dividends core.Cents `json:"dividends"`
	Exemption core.Cents `json:"exemption"`
}

// NoTaxDetail marks a state without a broad income tax.
type NoTaxDetail struct{}

func (TableDetail) detailKind() string            { return "table" }
func (OhioDetail) detailKind() string             { return "ohio" }
func (InterestDividendDetail) detailKind() string { return "interest_dividends" }
func (NoTaxDetail) detailKind() string            { return "no_tax" }

// DetailKind names the Detail variant of r, for logs and clients that
// dispatch on it.
func (r Result) DetailKind() string {
	if r.Detail == nil {
		return ""
	}
	return r.Detail.detailKind()
}
