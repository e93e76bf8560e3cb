package core

// TaxReturn is the externally supplied root record for one tax year.
//
// The engine treats a TaxReturn as an immutable snapshot: every compute call
// reads it and produces a fresh result. Optional collections may be nil; a
// missing optional field degrades to zero rather than failing.
type TaxReturn struct {
	TaxYear               int          `json:"taxYear" validate:"required,gte=2000,lte=2100"`
	FilingStatus          FilingStatus `json:"filingStatus" validate:"required,oneof=single mfj mfs hoh qw"`
	FilingStatusConfirmed bool         `json:"filingStatusConfirmed"`

	Taxpayer   Person      `json:"taxpayer"`
	Spouse     *Person     `json:"spouse,omitempty"`
	Dependents []Dependent `json:"dependents,omitempty" validate:"dive"`

	W2s            []W2          `json:"w2s,omitempty" validate:"dive"`
	Interest       []Form1099INT `json:"form1099Int,omitempty" validate:"dive"`
	Dividends      []Form1099DIV `json:"form1099Div,omitempty" validate:"dive"`
	Nonemployee    []Form1099NEC `json:"form1099Nec,omitempty" validate:"dive"`
	Government     []Form1099G   `json:"form1099G,omitempty" validate:"dive"`
	Retirement     []Form1099R   `json:"form1099R,omitempty" validate:"dive"`
	SocialSecurity []SSA1099     `json:"ssa1099,omitempty" validate:"dive"`
	K1s            []ScheduleK1  `json:"k1s,omitempty" validate:"dive"`

	CapitalTransactions  []CapitalTransaction `json:"capitalTransactions,omitempty" validate:"dive"`
	CapitalLossCarryover CapitalLossCarryover `json:"capitalLossCarryover"`

	Businesses []ScheduleCBusiness `json:"scheduleC,omitempty" validate:"dive"`
	Rentals    []RentalProperty    `json:"scheduleE,omitempty" validate:"dive"`

	Adjustments Adjustments  `json:"adjustments"`
	Deductions  Deductions   `json:"deductions"`
	Credits     CreditInputs `json:"credits"`

	EstimatedPayments []EstimatedPayment `json:"estimatedPayments,omitempty" validate:"dive"`

	States []StateConfig `json:"states,omitempty" validate:"dive"`
}

// Owner identifies which taxpayer on a joint return a document belongs to.
type Owner string

const (
	OwnerTaxpayer Owner = "taxpayer"
	OwnerSpouse   Owner = "spouse"
)

// Person is a taxpayer or spouse.
type Person struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	SSN         string  `json:"ssn" validate:"omitempty,ssn"`
	DateOfBirth string  `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Occupation  string  `json:"occupation,omitempty"`
	Blind       bool    `json:"blind,omitempty"`
	Address     Address `json:"address"`

	// CanBeClaimedAsDependent limits the standard deduction.
	CanBeClaimedAsDependent bool `json:"canBeClaimedAsDependent,omitempty"`
}

// Address is a US mailing address.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state" validate:"omitempty,usps"`
	Zip    string `json:"zip" validate:"omitempty,zip"`
}

// Dependent is a person claimed on the return.
type Dependent struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	SSN          string `json:"ssn,omitempty" validate:"omitempty,ssn"`
	Relationship string `json:"relationship,omitempty"`
	DateOfBirth  string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	// MonthsLivedWithTaxpayer drives the EIC residency test (more than half the year).
	MonthsLivedWithTaxpayer int  `json:"monthsLivedWithTaxpayer,omitempty" validate:"gte=0,lte=12"`
	Student                 bool `json:"student,omitempty"`
	Disabled                bool `json:"disabled,omitempty"`
}

// W2 is a wage statement.
type W2 struct {
	Employer                  string    `json:"employer"`
	EIN                       string    `json:"ein,omitempty"`
	Owner                     Owner     `json:"owner,omitempty" validate:"omitempty,oneof=taxpayer spouse"`
	Wages                     Cents     `json:"wages" validate:"gte=0"`
	FederalWithheld           Cents     `json:"federalWithheld" validate:"gte=0"`
	SocialSecurityWages       Cents     `json:"socialSecurityWages" validate:"gte=0"`
	SocialSecurityTaxWithheld Cents     `json:"socialSecurityTaxWithheld" validate:"gte=0"`
	MedicareWages             Cents     `json:"medicareWages" validate:"gte=0"`
	MedicareTaxWithheld       Cents     `json:"medicareTaxWithheld" validate:"gte=0"`
	DependentCareBenefits     Cents     `json:"dependentCareBenefits,omitempty" validate:"gte=0"`
	RetirementContributions   Cents     `json:"retirementContributions,omitempty" validate:"gte=0"`
	States                    []W2State `json:"states,omitempty" validate:"dive"`
}

// W2State is one state line (boxes 15-17) of a W-2.
type W2State struct {
	State    string `json:"state" validate:"usps"`
	Wages    Cents  `json:"wages" validate:"gte=0"`
	Withheld Cents  `json:"withheld" validate:"gte=0"`
}

// Form1099INT reports interest income.
type Form1099INT struct {
	Payer                  string `json:"payer"`
	Interest               Cents  `json:"interest" validate:"gte=0"`
	USBondInterest         Cents  `json:"usBondInterest,omitempty" validate:"gte=0"`
	TaxExemptInterest      Cents  `json:"taxExemptInterest,omitempty" validate:"gte=0"`
	EarlyWithdrawalPenalty Cents  `json:"earlyWithdrawalPenalty,omitempty" validate:"gte=0"`
	FederalWithheld        Cents  `json:"federalWithheld,omitempty" validate:"gte=0"`
	State                  string `json:"state,omitempty" validate:"omitempty,usps"`
	StateWithheld          Cents  `json:"stateWithheld,omitempty" validate:"gte=0"`
}

// Form1099DIV reports dividends and capital-gain distributions.
type Form1099DIV struct {
	Payer                    string `json:"payer"`
	OrdinaryDividends        Cents  `json:"ordinaryDividends" validate:"gte=0"`
	QualifiedDividends       Cents  `json:"qualifiedDividends" validate:"gte=0"`
	CapitalGainDistributions Cents  `json:"capitalGainDistributions,omitempty" validate:"gte=0"`
	Section199ADividends     Cents  `json:"section199aDividends,omitempty" validate:"gte=0"`
	FederalWithheld          Cents  `json:"federalWithheld,omitempty" validate:"gte=0"`
	State                    string `json:"state,omitempty" validate:"omitempty,usps"`
	StateWithheld            Cents  `json:"stateWithheld,omitempty" validate:"gte=0"`
}

// Form1099NEC reports nonemployee compensation.
type Form1099NEC struct {
	Payer           string `json:"payer"`
	Owner           Owner  `json:"owner,omitempty" validate:"omitempty,oneof=taxpayer spouse"`
	Compensation    Cents  `json:"compensation" validate:"gte=0"`
	FederalWithheld Cents  `json:"federalWithheld,omitempty" validate:"gte=0"`
	State           string `json:"state,omitempty" validate:"omitempty,usps"`
	StateWithheld   Cents  `json:"stateWithheld,omitempty" validate:"gte=0"`
}

// Form1099G reports government payments.
type Form1099G struct {
	Payer           string `json:"payer"`
	Unemployment    Cents  `json:"unemployment" validate:"gte=0"`
	FederalWithheld Cents  `json:"federalWithheld,omitempty" validate:"gte=0"`
	State           string `json:"state,omitempty" validate:"omitempty,usps"`
	StateWithheld   Cents  `json:"stateWithheld,omitempty" validate:"gte=0"`
}

// Form1099R reports retirement distributions.
type Form1099R struct {
	Payer             string `json:"payer"`
	GrossDistribution Cents  `json:"grossDistribution" validate:"gte=0"`
	TaxableAmount     Cents  `json:"taxableAmount" validate:"gte=0"`
	IRA               bool   `json:"ira,omitempty"`
	FederalWithheld   Cents  `json:"federalWithheld,omitempty" validate:"gte=0"`
	State             string `json:"state,omitempty" validate:"omitempty,usps"`
	StateWithheld     Cents  `json:"stateWithheld,omitempty" validate:"gte=0"`
}

// SSA1099 reports Social Security benefits.
type SSA1099 struct {
	Owner           Owner `json:"owner,omitempty" validate:"omitempty,oneof=taxpayer spouse"`
	NetBenefits     Cents `json:"netBenefits"`
	FederalWithheld Cents `json:"federalWithheld,omitempty" validate:"gte=0"`
}

// EntityType is the closed set of passthrough entity kinds.
type EntityType string

const (
	EntityPartnership EntityType = "partnership"
	EntitySCorp       EntityType = "s-corp"
	EntityTrustEstate EntityType = "trust-estate"
)

// ScheduleK1 is a passthrough-entity income allocation.
//
// Open invariants (reported as findings, not enforced): QualifiedDividends ≤
// DividendIncome; GuaranteedPayments only for partnerships.
type ScheduleK1 struct {
	EntityName             string     `json:"entityName"`
	EntityType             EntityType `json:"entityType" validate:"required,oneof=partnership s-corp trust-estate"`
	OrdinaryIncome         Cents      `json:"ordinaryIncome"`
	RentalIncome           Cents      `json:"rentalIncome"`
	InterestIncome         Cents      `json:"interestIncome"`
	DividendIncome         Cents      `json:"dividendIncome"`
	QualifiedDividends     Cents      `json:"qualifiedDividends"`
	ShortTermCapitalGain   Cents      `json:"shortTermCapitalGain"`
	LongTermCapitalGain    Cents      `json:"longTermCapitalGain"`
	Section199AQBI         Cents      `json:"section199AQBI"`
	GuaranteedPayments     Cents      `json:"guaranteedPayments"`
	SelfEmploymentEarnings Cents      `json:"selfEmploymentEarnings"`
	// OtherBoxes lists box codes present on the paper K-1 that are not modeled.
	OtherBoxes []string `json:"otherBoxes,omitempty"`
}

// Term is a capital holding period.
type Term string

const (
	TermShort Term = "short"
	TermLong  Term = "long"
)

// CapitalTransaction is one Form 8949 row.
type CapitalTransaction struct {
	Description  string `json:"description"`
	DateAcquired string `json:"dateAcquired,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateSold     string `json:"dateSold,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Proceeds     Cents  `json:"proceeds" validate:"gte=0"`
	CostBasis    Cents  `json:"costBasis" validate:"gte=0"`
	Adjustment   Cents  `json:"adjustment,omitempty"`
	// Term overrides the date-derived holding period when set.
	Term Term `json:"term,omitempty" validate:"omitempty,oneof=short long"`
}

// CapitalLossCarryover is the prior-year unused capital loss (positive amounts).
type CapitalLossCarryover struct {
	ShortTerm Cents `json:"shortTerm" validate:"gte=0"`
	LongTerm  Cents `json:"longTerm" validate:"gte=0"`
}

// ScheduleCBusiness is a sole proprietorship.
type ScheduleCBusiness struct {
	Name          string `json:"name"`
	Owner         Owner  `json:"owner,omitempty" validate:"omitempty,oneof=taxpayer spouse"`
	GrossReceipts Cents  `json:"grossReceipts" validate:"gte=0"`
	Returns       Cents  `json:"returns,omitempty" validate:"gte=0"`
	CostOfGoods   Cents  `json:"costOfGoods,omitempty" validate:"gte=0"`
	Expenses      Cents  `json:"expenses" validate:"gte=0"`
	HomeOffice    Cents  `json:"homeOffice,omitempty" validate:"gte=0"`
}

// RentalProperty is a Schedule E property with active participation assumed.
type RentalProperty struct {
	Address      string `json:"address"`
	Rents        Cents  `json:"rents" validate:"gte=0"`
	Expenses     Cents  `json:"expenses" validate:"gte=0"`
	Depreciation Cents  `json:"depreciation,omitempty" validate:"gte=0"`
}

// Adjustments are the Schedule 1 Part II inputs the engine models.
type Adjustments struct {
	StudentLoanInterest Cents `json:"studentLoanInterest,omitempty" validate:"gte=0"`
	HSADeduction        Cents `json:"hsaDeduction,omitempty" validate:"gte=0"`
	IRADeduction        Cents `json:"iraDeduction,omitempty" validate:"gte=0"`
	EducatorExpenses    Cents `json:"educatorExpenses,omitempty" validate:"gte=0"`
}

// DeductionMethod selects standard vs itemized.
type DeductionMethod string

const (
	DeductionStandard DeductionMethod = "standard"
	DeductionItemized DeductionMethod = "itemized"
	DeductionAuto     DeductionMethod = "auto"
)

// Deductions is the deduction election plus itemized detail.
type Deductions struct {
	Method   DeductionMethod `json:"method,omitempty" validate:"omitempty,oneof=standard itemized auto"`
	Itemized *ItemizedDetail `json:"itemized,omitempty"`
}

// ItemizedDetail is the Schedule A input.
type ItemizedDetail struct {
	MedicalExpenses     Cents      `json:"medicalExpenses,omitempty" validate:"gte=0"`
	StateLocalIncomeTax Cents      `json:"stateLocalIncomeTax,omitempty" validate:"gte=0"`
	StateLocalSalesTax  Cents      `json:"stateLocalSalesTax,omitempty" validate:"gte=0"`
	RealEstateTax       Cents      `json:"realEstateTax,omitempty" validate:"gte=0"`
	PersonalPropertyTax Cents      `json:"personalPropertyTax,omitempty" validate:"gte=0"`
	Mortgages           []Mortgage `json:"mortgages,omitempty" validate:"dive"`
	CharitableCash      Cents      `json:"charitableCash,omitempty" validate:"gte=0"`
	CharitableNonCash   Cents      `json:"charitableNonCash,omitempty" validate:"gte=0"`
	Other               Cents      `json:"other,omitempty" validate:"gte=0"`
}

// Mortgage is one home-acquisition loan (Form 1098).
type Mortgage struct {
	Lender               string `json:"lender"`
	Interest             Cents  `json:"interest" validate:"gte=0"`
	Points               Cents  `json:"points,omitempty" validate:"gte=0"`
	OutstandingPrincipal Cents  `json:"outstandingPrincipal" validate:"gte=0"`
	OriginationDate      string `json:"originationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CreditInputs hold the expense data behind the credit forms.
type CreditInputs struct {
	DependentCareExpenses   Cents                    `json:"dependentCareExpenses,omitempty" validate:"gte=0"`
	EducationStudents       []EducationStudent       `json:"educationStudents,omitempty" validate:"dive"`
	RetirementContributions []RetirementContribution `json:"retirementContributions,omitempty" validate:"dive"`
}

// EducationCreditType selects AOTC or LLC for a student.
type EducationCreditType string

const (
	CreditAOTC EducationCreditType = "aotc"
	CreditLLC  EducationCreditType = "llc"
)

// EducationStudent is one Form 8863 student.
type EducationStudent struct {
	Name              string              `json:"name"`
	QualifiedExpenses Cents               `json:"qualifiedExpenses" validate:"gte=0"`
	CreditType        EducationCreditType `json:"creditType" validate:"required,oneof=aotc llc"`
}

// RetirementContribution feeds the Saver's Credit (Form 8880).
type RetirementContribution struct {
	Owner         Owner `json:"owner,omitempty" validate:"omitempty,oneof=taxpayer spouse"`
	Contributions Cents `json:"contributions" validate:"gte=0"`
	Distributions Cents `json:"distributions,omitempty" validate:"gte=0"`
}

// EstimatedPayment is a federal 1040-ES payment.
type EstimatedPayment struct {
	Date   string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Amount Cents  `json:"amount" validate:"gte=0"`
}

// Residency is the state residency class.
type Residency string

const (
	ResidencyFullYear    Residency = "full_year"
	ResidencyPartYear    Residency = "part_year"
	ResidencyNonresident Residency = "nonresident"
)

// StateConfig is the per-state filing configuration.
type StateConfig struct {
	StateCode         string    `json:"stateCode" validate:"required,usps"`
	Residency         Residency `json:"residency" validate:"required,oneof=full_year part_year nonresident"`
	MoveInDate        string    `json:"moveInDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MoveOutDate       string    `json:"moveOutDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EstimatedPayments Cents     `json:"estimatedPayments,omitempty" validate:"gte=0"`
	// Required turns a missing state module into a fatal error instead of a warning.
	Required bool `json:"required,omitempty"`
}

// HasIncomeDocuments reports whether any income source is present.
func (t *TaxReturn) HasIncomeDocuments() bool {
	return len(t.W2s) > 0 || len(t.Interest) > 0 || len(t.Dividends) > 0 ||
		len(t.Nonemployee) > 0 || len(t.Government) > 0 || len(t.Retirement) > 0 ||
		len(t.SocialSecurity) > 0 || len(t.K1s) > 0 || len(t.CapitalTransactions) > 0 ||
		len(t.Businesses) > 0 || len(t.Rentals) > 0
}

// Exemptions returns the count of taxpayer + spouse (joint returns only).
func (t *TaxReturn) Exemptions() int {
	if t.FilingStatus.Joint() {
		return 2
	}
	return 1
}
