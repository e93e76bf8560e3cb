package federal

import (
	"taxengine/internal/core"
	"taxengine/internal/k1"
)

// Schedule names recorded in ExecutedSchedules, in stage order.
const (
	StageW2             = "W-2"
	StageScheduleB      = "Schedule B"
	StageK1             = "Schedule K-1"
	StageScheduleC      = "Schedule C"
	StageScheduleSE     = "Schedule SE"
	StageScheduleD      = "Schedule D"
	StageScheduleE      = "Schedule E"
	StageSocialSecurity = "Social Security Benefits Worksheet"
	StageSchedule1      = "Schedule 1"
	StageScheduleA      = "Schedule A"
	StageForm8995       = "Form 8995"
	StageQDCG           = "Qualified Dividends and Capital Gain Tax Worksheet"
	StageForm2441       = "Form 2441"
	StageForm8863       = "Form 8863"
	StageForm8880       = "Form 8880"
	StageSchedule8812   = "Schedule 8812"
	StageScheduleEIC    = "Schedule EIC"
	StageForm8959       = "Form 8959"
	StageForm8960       = "Form 8960"
	StageSchedule2      = "Schedule 2"
	StageSchedule3      = "Schedule 3"
	StageForm1040       = "Form 1040"
)

// Form1040Result is the completed federal return.
//
// Amount fields carry the Form 1040 line they report. Attached schedules are
// nil (or zero) when their stage did not run.
type Form1040Result struct {
	TaxYear      int               `json:"taxYear"`
	FilingStatus core.FilingStatus `json:"filingStatus"`

	Wages                 core.Cents `json:"wages"`                     // 1z
	TaxExemptInterest     core.Cents `json:"taxExemptInterest"`         // 2a
	TaxableInterest       core.Cents `json:"taxableInterest"`           // 2b
	QualifiedDividends    core.Cents `json:"qualifiedDividends"`        // 3a
	OrdinaryDividends     core.Cents `json:"ordinaryDividends"`         // 3b
	IRADistributions      core.Cents `json:"iraDistributions"`          // 4a
	TaxableIRA            core.Cents `json:"taxableIra"`                // 4b
	Pensions              core.Cents `json:"pensions"`                  // 5a
	TaxablePensions       core.Cents `json:"taxablePensions"`           // 5b
	SocialSecurity        core.Cents `json:"socialSecurity"`            // 6a
	TaxableSocialSec      core.Cents `json:"taxableSocialSecurity"`     // 6b
	CapitalGain           core.Cents `json:"capitalGain"`               // 7
	AdditionalIncome      core.Cents `json:"additionalIncome"`          // 8
	TotalIncome           core.Cents `json:"totalIncome"`               // 9
	Adjustments           core.Cents `json:"adjustments"`               // 10
	AGI                   core.Cents `json:"agi"`                       // 11
	Deduction             core.Cents `json:"deduction"`                 // 12
	QBIDeduction          core.Cents `json:"qbiDeduction"`              // 13
	TotalDeductions       core.Cents `json:"totalDeductions"`           // 14
	TaxableIncome         core.Cents `json:"taxableIncome"`             // 15
	Tax                   core.Cents `json:"tax"`                       // 16
	TaxPlusSchedule2      core.Cents `json:"taxPlusSchedule2"`          // 18
	ChildTaxCredit        core.Cents `json:"childTaxCredit"`            // 19
	OtherCredits          core.Cents `json:"otherCredits"`              // 20
	TotalCredits          core.Cents `json:"totalCredits"`              // 21
	TaxAfterCredits       core.Cents `json:"taxAfterCredits"`           // 22
	OtherTaxes            core.Cents `json:"otherTaxes"`                // 23
	TotalTax              core.Cents `json:"totalTax"`                  // 24
	W2Withholding         core.Cents `json:"w2Withholding"`             // 25a
	Form1099Withholding   core.Cents `json:"form1099Withholding"`       // 25b
	OtherWithholding      core.Cents `json:"otherWithholding"`          // 25c
	TotalWithholding      core.Cents `json:"totalWithholding"`          // 25d
	EstimatedPayments     core.Cents `json:"estimatedPayments"`         // 26
	EarnedIncomeCredit    core.Cents `json:"earnedIncomeCredit"`        // 27
	AdditionalChildCredit core.Cents `json:"additionalChildTaxCredit"`  // 28
	RefundableEducation   core.Cents `json:"refundableEducationCredit"` // 29
	RefundableCredits     core.Cents `json:"refundableCredits"`         // 32
	TotalPayments         core.Cents `json:"totalPayments"`             // 33
	Overpaid              core.Cents `json:"overpaid"`                  // 34
	Refund                core.Cents `json:"refund"`                    // 35a
	AmountOwed            core.Cents `json:"amountOwed"`                // 37

	DeductionMethod   core.DeductionMethod `json:"deductionMethod"`
	StandardDeduction core.Cents           `json:"standardDeduction"`

	ScheduleB               ScheduleB                `json:"scheduleB"`
	K1                      k1.AggregateResult       `json:"k1"`
	ScheduleC               []ScheduleCResult        `json:"scheduleC,omitempty"`
	ScheduleSE              ScheduleSE               `json:"scheduleSE"`
	ScheduleD               *ScheduleD               `json:"scheduleD,omitempty"`
	ScheduleE               *ScheduleE               `json:"scheduleE,omitempty"`
	SocialSecurityWorksheet *SocialSecurityWorksheet `json:"socialSecurityWorksheet,omitempty"`
	Schedule1               Schedule1                `json:"schedule1"`
	ScheduleA               *ScheduleA               `json:"scheduleA,omitempty"`
	QBI                     QBIResult                `json:"qbi"`
	TaxComputation          TaxComputation           `json:"taxComputation"`
	Credits                 Credits                  `json:"credits"`
	Schedule2               Schedule2                `json:"schedule2"`

	ExecutedSchedules []string       `json:"executedSchedules"`
	Findings          []core.Finding `json:"findings"`
}

// Payer is one Schedule B line.
type Payer struct {
	Name   string     `json:"name"`
	Amount core.Cents `json:"amount"`
}

// ScheduleB is interest and ordinary dividends.
type ScheduleB struct {
	Interest           []Payer    `json:"interest"`
	TotalInterest      core.Cents `json:"totalInterest"`
	Dividends          []Payer    `json:"dividends"`
	TotalDividends     core.Cents `json:"totalDividends"`
	QualifiedDividends core.Cents `json:"qualifiedDividends"`
	TaxExemptInterest  core.Cents `json:"taxExemptInterest"`
	USBondInterest     core.Cents `json:"usBondInterest"`
	// Required is true when either total exceeds $1,500.
	Required bool `json:"required"`
}

// ScheduleCResult is one business's profit or loss.
type ScheduleCResult struct {
	Name        string     `json:"name"`
	Owner       core.Owner `json:"owner"`
	GrossIncome core.Cents `json:"grossIncome"`
	GrossProfit core.Cents `json:"grossProfit"`
	NetProfit   core.Cents `json:"netProfit"`
	// FromNEC marks a business synthesized from 1099-NEC forms.
	FromNEC bool `json:"fromNec,omitempty"`
}

// SEPerson is one person's Schedule SE.
type SEPerson struct {
	Owner             core.Owner `json:"owner"`
	Base              core.Cents `json:"base"`
	NetEarnings       core.Cents `json:"netEarnings"`
	SocialSecurityTax core.Cents `json:"socialSecurityTax"`
	MedicareTax       core.Cents `json:"medicareTax"`
	Tax               core.Cents `json:"tax"`
	Deduction         core.Cents `json:"deduction"`
}

// ScheduleSE is self-employment tax for everyone on the return.
type ScheduleSE struct {
	Persons     []SEPerson `json:"persons,omitempty"`
	NetEarnings core.Cents `json:"netEarnings"`
	Tax         core.Cents `json:"tax"`
	Deduction   core.Cents `json:"deduction"`
}

// ScheduleD is capital gains and losses.
type ScheduleD struct {
	ShortTermTransactions    core.Cents `json:"shortTermTransactions"`
	LongTermTransactions     core.Cents `json:"longTermTransactions"`
	ShortTermK1              core.Cents `json:"shortTermK1"`
	LongTermK1               core.Cents `json:"longTermK1"`
	CapitalGainDistributions core.Cents `json:"capitalGainDistributions"`
	ShortTermCarryoverIn     core.Cents `json:"shortTermCarryoverIn"`
	LongTermCarryoverIn      core.Cents `json:"longTermCarryoverIn"`
	NetShortTerm             core.Cents `json:"netShortTerm"` // line 7
	NetLongTerm              core.Cents `json:"netLongTerm"`  // line 15
	Net                      core.Cents `json:"net"`          // line 16
	Allowed                  core.Cents `json:"allowed"`      // line 21 or 16
	NetCapitalGain           core.Cents `json:"netCapitalGain"`
	ShortTermCarryoverOut    core.Cents `json:"shortTermCarryoverOut"`
	LongTermCarryoverOut     core.Cents `json:"longTermCarryoverOut"`
}

// RentalSource is one Schedule E property or K-1 rental after PAL.
type RentalSource struct {
	Name       string     `json:"name"`
	FromK1     bool       `json:"fromK1"`
	Net        core.Cents `json:"net"`
	Allowed    core.Cents `json:"allowed"`
	Disallowed core.Cents `json:"disallowed"`
}

// ScheduleE is rental real estate plus K-1 nonpassive income.
type ScheduleE struct {
	Sources        []RentalSource `json:"sources"`
	PreliminaryAGI core.Cents     `json:"preliminaryAgi"`
	Allowance      core.Cents     `json:"allowance"`
	AllowanceUsed  core.Cents     `json:"allowanceUsed"`
	RentalNet      core.Cents     `json:"rentalNet"`
	RentalAllowed  core.Cents     `json:"rentalAllowed"`
	SuspendedLoss  core.Cents     `json:"suspendedLoss"`
	K1Nonpassive   core.Cents     `json:"k1Nonpassive"`
	Total          core.Cents     `json:"total"`
	PALApplied     bool           `json:"palApplied"`
}

// SocialSecurityWorksheet is the taxable-benefits worksheet.
type SocialSecurityWorksheet struct {
	Benefits    core.Cents `json:"benefits"`
	Provisional core.Cents `json:"provisional"`
	Taxable     core.Cents `json:"taxable"`
}

// Schedule1 is additional income and adjustments.
type Schedule1 struct {
	BusinessIncome      core.Cents `json:"businessIncome"`         // 3
	RentalIncome        core.Cents `json:"rentalIncome"`           // 5
	Unemployment        core.Cents `json:"unemployment"`           // 7
	AdditionalIncome    core.Cents `json:"additionalIncome"`       // 10
	EducatorExpenses    core.Cents `json:"educatorExpenses"`       // 11
	HSADeduction        core.Cents `json:"hsaDeduction"`           // 13
	SETaxDeduction      core.Cents `json:"seTaxDeduction"`         // 15
	EarlyWithdrawal     core.Cents `json:"earlyWithdrawalPenalty"` // 18
	IRADeduction        core.Cents `json:"iraDeduction"`           // 20
	StudentLoanInterest core.Cents `json:"studentLoanInterest"`    // 21
	Adjustments         core.Cents `json:"adjustments"`            // 26
}

// ScheduleA is itemized deductions.
type ScheduleA struct {
	Medical           core.Cents `json:"medical"`
	SALTPaid          core.Cents `json:"saltPaid"`
	SALTCap           core.Cents `json:"saltCap"`
	SALT              core.Cents `json:"salt"`
	MortgageInterest  core.Cents `json:"mortgageInterest"`
	MortgageLimited   bool       `json:"mortgageLimited"`
	CharitableCash    core.Cents `json:"charitableCash"`
	CharitableNonCash core.Cents `json:"charitableNonCash"`
	Charitable        core.Cents `json:"charitable"`
	CharityCarryover  core.Cents `json:"charityCarryover"`
	Other             core.Cents `json:"other"`
	Total             core.Cents `json:"total"`
}

// QBIResult is Form 8995.
type QBIResult struct {
	QBI              core.Cents `json:"qbi"`
	REITDividends    core.Cents `json:"reitDividends"`
	Component        core.Cents `json:"component"`
	IncomeBeforeQBI  core.Cents `json:"incomeBeforeQbi"`
	IncomeLimit      core.Cents `json:"incomeLimit"`
	Deduction        core.Cents `json:"deduction"`
	LossCarryforward core.Cents `json:"lossCarryforward"`
	PhaseInApplied   bool       `json:"phaseInApplied"`
}

// TaxComputation records how line 16 was computed.
type TaxComputation struct {
	UsedQDCG        bool       `json:"usedQdcg"`
	OrdinaryIncome  core.Cents `json:"ordinaryIncome"`
	ZeroRateAmount  core.Cents `json:"zeroRateAmount"`
	FifteenAmount   core.Cents `json:"fifteenAmount"`
	TwentyAmount    core.Cents `json:"twentyAmount"`
	OrdinaryTax     core.Cents `json:"ordinaryTax"`
	PreferentialTax core.Cents `json:"preferentialTax"`
	RegularTax      core.Cents `json:"regularTax"`
	Tax             core.Cents `json:"tax"`
}

// Credits holds every credit form.
type Credits struct {
	DependentCare          core.Cents `json:"dependentCare"`
	DependentCareRate      core.Rate  `json:"dependentCareRate"`
	EducationNonrefundable core.Cents `json:"educationNonrefundable"`
	EducationRefundable    core.Cents `json:"educationRefundable"`
	Savers                 core.Cents `json:"savers"`
	SaversRate             core.Rate  `json:"saversRate"`
	QualifyingChildren     int        `json:"qualifyingChildren"`
	OtherDependents        int        `json:"otherDependents"`
	ChildCreditBeforeLimit core.Cents `json:"childCreditBeforeLimit"`
	ChildCredit            core.Cents `json:"childCredit"`
	AdditionalChildCredit  core.Cents `json:"additionalChildCredit"`
	EICChildren            int        `json:"eicChildren"`
	EarnedIncome           core.Cents `json:"earnedIncome"`
	EIC                    core.Cents `json:"eic"`
}

// Schedule2 is other taxes.
type Schedule2 struct {
	SelfEmploymentTax     core.Cents `json:"selfEmploymentTax"`
	AdditionalMedicare    core.Cents `json:"additionalMedicare"`
	NetInvestmentIncome   core.Cents `json:"netInvestmentIncome"`
	NIIT                  core.Cents `json:"niit"`
	MedicareWithheldExtra core.Cents `json:"medicareWithheldExtra"`
	Total                 core.Cents `json:"total"`
}
