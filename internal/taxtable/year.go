package taxtable

import "taxengine/internal/core"

// Year is every federal constant for one tax year. Adding a year means adding a
// constructor like Y2025 and registering it; nothing is loaded at runtime.
type Year struct {
	Year int

	Ordinary core.ByStatus[Schedule]

	StandardDeduction core.ByStatus[core.Cents]
	// AdditionalAgedBlind is added per condition (65+ or blind) per person.
	AdditionalAgedBlind core.ByStatus[core.Cents]
	// DependentFilerMinimum and DependentFilerEarnedAdd bound the standard
	// deduction of someone who can be claimed as a dependent.
	DependentFilerMinimum   core.Cents
	DependentFilerEarnedAdd core.Cents

	// Capital gains: income up to ZeroRateTop is taxed at 0%, up to
	// FifteenRateTop at 15%, the rest at 20%.
	ZeroRateTop      core.ByStatus[core.Cents]
	FifteenRateTop   core.ByStatus[core.Cents]
	CapitalLossLimit core.ByStatus[core.Cents]

	SE       SelfEmployment
	Medicare Medicare
	NIIT     Surtax

	QBI QBI
	CTC ChildCredit
	EIC EarnedIncomeCredit

	Education     Education
	DependentCare DependentCare
	Savers        Savers

	SALT     SALT
	Mortgage Mortgage

	MedicalFloor          core.Rate
	CharityCashCeiling    core.Rate
	CharityNonCashCeiling core.Rate

	StudentLoan StudentLoan

	// SocialSecurity base amounts for the taxable-benefits worksheet.
	SocialSecurityBase1 core.ByStatus[core.Cents]
	SocialSecurityBase2 core.ByStatus[core.Cents]
}

// SelfEmployment holds the Schedule SE constants.
type SelfEmployment struct {
	WageBase          core.Cents
	NetEarningsFactor core.Rate
	SocialSecurity    core.Rate
	Medicare          core.Rate
	Minimum           core.Cents
}

// Medicare holds Form 8959 constants.
type Medicare struct {
	EmployeeRate        core.Rate
	AdditionalRate      core.Rate
	AdditionalThreshold core.ByStatus[core.Cents]
}

// Surtax is a flat rate over a filing-status threshold.
type Surtax struct {
	Rate      core.Rate
	Threshold core.ByStatus[core.Cents]
}

// QBI holds Form 8995 constants.
type QBI struct {
	Rate         core.Rate
	Threshold    core.ByStatus[core.Cents]
	PhaseInRange core.ByStatus[core.Cents]
}

// ChildCredit holds Schedule 8812 constants.
type ChildCredit struct {
	PerChild           core.Cents
	PerOtherDependent  core.Cents
	RefundablePerChild core.Cents
	PhaseOutThreshold  core.ByStatus[core.Cents]
	PhaseOutStep       core.Cents
	PhaseOutPerStep    core.Cents
	EarnedFloor        core.Cents
	EarnedRate         core.Rate
	MaxChildAge        int
}

// EICBand is one qualifying-child column of the EIC table.
type EICBand struct {
	EarnedAmount  core.Cents
	MaxCredit     core.Cents
	PhaseInRate   core.Rate
	PhaseOutRate  core.Rate
	PhaseOutStart core.Cents
	PhaseOutJoint core.Cents
}

// EarnedIncomeCredit holds the EIC table for 0, 1, 2 and 3+ children.
type EarnedIncomeCredit struct {
	Bands           [4]EICBand
	InvestmentLimit core.Cents
	MinAgeChildless int
	MaxAgeChildless int
}

// Education holds Form 8863 constants.
type Education struct {
	PhaseOutLower  core.ByStatus[core.Cents]
	PhaseOutUpper  core.ByStatus[core.Cents]
	AOTCFirstTier  core.Cents
	AOTCSecondTier core.Cents
	AOTCSecondRate core.Rate
	AOTCRefundable core.Rate
	LLCExpenseCap  core.Cents
	LLCRate        core.Rate
}

// DependentCare holds Form 2441 constants.
type DependentCare struct {
	OnePersonCap core.Cents
	TwoPersonCap core.Cents
	MaxRate      core.Rate
	MinRate      core.Rate
	StepRate     core.Rate
	AGIFloor     core.Cents
	AGIStep      core.Cents
	MaxChildAge  int
}

// Savers holds Form 8880 constants; Tiers are AGI ceilings for 50/20/10%.
type Savers struct {
	Tiers           core.ByStatus[[3]core.Cents]
	ContributionCap core.Cents
}

// SALT holds the state-and-local-tax cap. PhaseOutThreshold == 0 disables
// the MAGI phase-out.
type SALT struct {
	Cap               core.ByStatus[core.Cents]
	PhaseOutThreshold core.ByStatus[core.Cents]
	PhaseOutRate      core.Rate
	Floor             core.ByStatus[core.Cents]
}

// Mortgage holds the acquisition-debt limits by loan era.
type Mortgage struct {
	PostTCJALimit      core.ByStatus[core.Cents]
	GrandfatheredLimit core.ByStatus[core.Cents]
	// EraCutoff is the first origination date subject to PostTCJALimit.
	EraCutoff string
}

// StudentLoan holds the student-loan-interest deduction constants.
type StudentLoan struct {
	Cap           core.Cents
	PhaseOutStart core.ByStatus[core.Cents]
	PhaseOutRange core.ByStatus[core.Cents]
}

func dollarsByStatus(single, mfj, mfs, hoh, qw int64) core.ByStatus[core.Cents] {
	return core.ByStatus[core.Cents]{
		Single: core.Dollars(single),
		MFJ:    core.Dollars(mfj),
		MFS:    core.Dollars(mfs),
		HOH:    core.Dollars(hoh),
		QW:     core.Dollars(qw),
	}
}
