package federal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxengine/internal/core"
	"taxengine/internal/taxtable"
	"taxengine/internal/trace"
)

func compute2025(t *testing.T, tr *core.TaxReturn) Form1040Result {
	t.Helper()
	if tr.TaxYear == 0 {
		tr.TaxYear = 2025
	}
	r := New(taxtable.Y2025()).ComputeForm1040(tr)

	vs, err := CollectTracedValues(&r)
	require.NoError(t, err)
	require.NoError(t, trace.Validate(vs))
	return r
}

func wages(amount int64) core.W2 {
	return core.W2{Employer: "Acme", Wages: core.Dollars(amount)}
}

func TestSingleWagesOnly2025(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{{Employer: "Acme", Wages: core.Dollars(75_000), FederalWithheld: core.Dollars(9_000)}},
	})

	assert.Equal(t, core.Dollars(75_000), r.AGI)
	assert.Equal(t, core.Dollars(15_000), r.Deduction)
	assert.Equal(t, core.DeductionStandard, r.DeductionMethod)
	assert.Equal(t, core.Dollars(60_000), r.TaxableIncome)
	assert.Equal(t, core.Cents(811_400), r.Tax)
	assert.Equal(t, core.Cents(811_400), r.TotalTax)
	assert.Equal(t, core.Cents(88_600), r.Refund)
	assert.Zero(t, r.AmountOwed)
	assert.Equal(t, []string{StageW2, StageForm1040}, r.ExecutedSchedules)
	assert.Empty(t, r.Findings)
}

func TestTracedValuesForWageReturn(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{FilingStatus: core.Single, W2s: []core.W2{wages(75_000)}})

	vs, err := CollectTracedValues(&r)
	require.NoError(t, err)

	assert.False(t, vs.Has(NodeTaxableInterest), "zero optional line must be skipped")
	agi, ok := vs.Get(NodeAGI)
	require.True(t, ok)
	assert.Equal(t, []string{NodeTotalIncome}, agi.Inputs)
	assert.Equal(t, core.Dollars(60_000), vs.Amount(NodeTaxableIncome))

	chain, err := trace.Explain(vs, NodeTax)
	require.NoError(t, err)
	assert.Equal(t, NodeTax, chain[len(chain)-1].NodeID)
}

func TestQualifiedDividendsUseZeroRateBand(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(40_000)},
		Dividends: []core.Form1099DIV{{
			Payer:              "Index Fund",
			OrdinaryDividends:  core.Dollars(10_000),
			QualifiedDividends: core.Dollars(10_000),
		}},
	})

	assert.True(t, r.ScheduleB.Required)
	assert.Equal(t, core.Dollars(35_000), r.TaxableIncome)
	assert.True(t, r.TaxComputation.UsedQDCG)
	assert.Equal(t, core.Dollars(10_000), r.TaxComputation.ZeroRateAmount)
	// Only the $25,000 ordinary slice is taxed.
	assert.Equal(t, core.Cents(276_150), r.Tax)
	assert.Equal(t, core.Cents(396_150), r.TaxComputation.RegularTax)
	assert.Contains(t, r.ExecutedSchedules, StageQDCG)
}

func TestQualifiedDividendsOverTotalAreClamped(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		Dividends: []core.Form1099DIV{{
			OrdinaryDividends:  core.Dollars(100),
			QualifiedDividends: core.Dollars(150),
		}},
	})

	assert.Equal(t, core.Dollars(100), r.QualifiedDividends)
	assert.True(t, core.HasCode(r.Findings, core.CodeQualifiedExceedsTotal))
}

func TestScheduleCSelfEmploymentAndQBI(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		Businesses: []core.ScheduleCBusiness{{
			Name:          "Consulting",
			GrossReceipts: core.Dollars(50_000),
			Expenses:      core.Dollars(10_000),
		}},
	})

	se := r.ScheduleSE
	assert.Equal(t, core.Dollars(36_940), se.NetEarnings)
	assert.Equal(t, core.Cents(565_182), se.Tax)
	assert.Equal(t, core.Cents(282_591), se.Deduction)
	assert.Equal(t, core.Cents(3_717_409), r.AGI)

	assert.Equal(t, core.Cents(3_717_409), r.QBI.QBI)
	assert.Equal(t, core.Cents(443_482), r.QBIDeduction)
	assert.Equal(t, core.Cents(1_773_927), r.TaxableIncome)
	assert.Equal(t, core.Cents(565_182), r.Schedule2.SelfEmploymentTax)
	assert.Equal(t, []string{StageScheduleC, StageScheduleSE, StageSchedule1, StageForm8995, StageSchedule2, StageForm1040},
		r.ExecutedSchedules)
}

func TestSmallSelfEmploymentBelowMinimum(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		Businesses:   []core.ScheduleCBusiness{{Name: "Side", GrossReceipts: core.Dollars(400)}},
	})
	assert.Zero(t, r.ScheduleSE.Tax)
	assert.Zero(t, r.Schedule2.SelfEmploymentTax)
}

func TestNECWithoutScheduleC(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		Nonemployee:  []core.Form1099NEC{{Payer: "Client", Compensation: core.Dollars(10_000)}},
	})

	require.Len(t, r.ScheduleC, 1)
	assert.True(t, r.ScheduleC[0].FromNEC)
	assert.Equal(t, core.Dollars(10_000), r.Schedule1.BusinessIncome)
	assert.True(t, core.HasCode(r.Findings, core.CodeNECWithoutScheduleC))
	assert.Positive(t, r.ScheduleSE.Tax)
}

func TestCapitalLossLimitAndCarryover(t *testing.T) {
	tx := []core.CapitalTransaction{{
		Description:  "XYZ",
		DateAcquired: "2025-01-10",
		DateSold:     "2025-06-10",
		Proceeds:     core.Dollars(5_000),
		CostBasis:    core.Dollars(15_000),
	}}

	for _, tc := range []struct {
		fs      core.FilingStatus
		allowed core.Cents
		carry   core.Cents
	}{
		{core.Single, -core.Dollars(3_000), core.Dollars(7_000)},
		{core.MarriedFilingSeparately, -core.Dollars(1_500), core.Dollars(8_500)},
	} {
		t.Run(string(tc.fs), func(t *testing.T) {
			r := compute2025(t, &core.TaxReturn{FilingStatus: tc.fs, W2s: []core.W2{wages(50_000)}, CapitalTransactions: tx})

			require.NotNil(t, r.ScheduleD)
			assert.Equal(t, -core.Dollars(10_000), r.ScheduleD.NetShortTerm)
			assert.Equal(t, tc.allowed, r.CapitalGain)
			assert.Equal(t, tc.carry, r.ScheduleD.ShortTermCarryoverOut)
			assert.Zero(t, r.ScheduleD.LongTermCarryoverOut)
			assert.True(t, core.HasCode(r.Findings, core.CodeCapitalLossCarryover))
		})
	}
}

func TestHoldingPeriodFromDates(t *testing.T) {
	long := core.CapitalTransaction{DateAcquired: "2024-03-01", DateSold: "2025-03-02"}
	short := core.CapitalTransaction{DateAcquired: "2024-03-01", DateSold: "2025-03-01"}
	override := core.CapitalTransaction{Term: core.TermLong}

	term, ok := holdingTerm(long)
	assert.True(t, ok)
	assert.Equal(t, core.TermLong, term)
	term, _ = holdingTerm(short)
	assert.Equal(t, core.TermShort, term)
	term, _ = holdingTerm(override)
	assert.Equal(t, core.TermLong, term)
	_, ok = holdingTerm(core.CapitalTransaction{})
	assert.False(t, ok)
}

func TestRentalLossLimitedByAllowance(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(80_000)},
		Rentals: []core.RentalProperty{{
			Address:  "12 Elm St",
			Rents:    core.Dollars(10_000),
			Expenses: core.Dollars(50_000),
		}},
	})

	e := r.ScheduleE
	require.NotNil(t, e)
	assert.Equal(t, core.Dollars(80_000), e.PreliminaryAGI)
	assert.Equal(t, -core.Dollars(25_000), e.RentalAllowed)
	assert.Equal(t, -core.Dollars(15_000), e.SuspendedLoss)
	assert.Equal(t, core.Dollars(55_000), r.AGI)
	assert.True(t, core.HasCode(r.Findings, core.CodeSuspendedPassiveLoss))
}

func TestRentalAllowanceSharedWithK1(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(80_000)},
		Rentals:      []core.RentalProperty{{Address: "A", Expenses: core.Dollars(20_000)}},
		K1s: []core.ScheduleK1{{
			EntityName:   "Fund LP",
			EntityType:   core.EntityPartnership,
			RentalIncome: -core.Dollars(20_000),
		}},
	})

	e := r.ScheduleE
	require.NotNil(t, e)
	require.Len(t, e.Sources, 2)
	assert.Equal(t, -core.Dollars(20_000), e.Sources[0].Allowed)
	assert.Equal(t, -core.Dollars(5_000), e.Sources[1].Allowed)
	assert.Equal(t, -core.Dollars(15_000), e.Sources[1].Disallowed)
	assert.Equal(t, core.Dollars(25_000), e.AllowanceUsed)
}

func TestPassiveIncomeAbsorbsLossBeforeAllowance(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(200_000)},
		Rentals: []core.RentalProperty{
			{Address: "A", Rents: core.Dollars(10_000)},
			{Address: "B", Expenses: core.Dollars(15_000)},
		},
	})

	e := r.ScheduleE
	require.NotNil(t, e)
	assert.Zero(t, e.Allowance)
	assert.Equal(t, -core.Dollars(10_000), e.Sources[1].Allowed)
	assert.Equal(t, -core.Dollars(5_000), e.SuspendedLoss)
	assert.Zero(t, e.RentalAllowed)
}

func TestTaxableSocialSecurity(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus:   core.Single,
		Retirement:     []core.Form1099R{{Payer: "Pension", GrossDistribution: core.Dollars(30_000), TaxableAmount: core.Dollars(30_000)}},
		SocialSecurity: []core.SSA1099{{NetBenefits: core.Dollars(20_000)}},
	})

	ws := r.SocialSecurityWorksheet
	require.NotNil(t, ws)
	assert.Equal(t, core.Dollars(40_000), ws.Provisional)
	assert.Equal(t, core.Dollars(9_600), r.TaxableSocialSec)
	assert.Equal(t, core.Dollars(39_600), r.TotalIncome)
}

func TestTaxableBenefitsBelowBase(t *testing.T) {
	assert.Zero(t, taxableBenefits(core.Dollars(20_000), core.Dollars(24_000), core.Dollars(25_000), core.Dollars(34_000)))
	// MFS bases are zero: 85% of provisional income, capped at 85% of benefits.
	assert.Equal(t, core.Dollars(8_500), taxableBenefits(core.Dollars(10_000), core.Dollars(30_000), 0, 0))
}

func TestChildTaxCreditAndOtherDependents(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.MarriedFilingJointly,
		W2s:          []core.W2{wages(100_000)},
		Dependents: []core.Dependent{
			{FirstName: "A", SSN: "123-45-6789", DateOfBirth: "2015-04-01"},
			{FirstName: "B", SSN: "123-45-6780", DateOfBirth: "2017-04-01"},
			{FirstName: "C", DateOfBirth: "2019-04-01"},
		},
	})

	c := r.Credits
	assert.Equal(t, 2, c.QualifyingChildren)
	assert.Equal(t, 1, c.OtherDependents)
	assert.Equal(t, core.Dollars(70_000), r.TaxableIncome)
	assert.Equal(t, core.Cents(792_300), r.Tax)
	assert.Equal(t, core.Dollars(4_500), r.ChildTaxCredit)
	assert.Equal(t, core.Cents(342_300), r.TaxAfterCredits)
	assert.True(t, core.HasCode(r.Findings, core.CodeDependentMissingSSN))
}

func TestChildTaxCreditPhaseOutPerThousandOrFraction(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(210_500)},
		Dependents:   []core.Dependent{{SSN: "123-45-6789", DateOfBirth: "2015-04-01"}},
	})
	// $10,500 over → 11 steps of $50.
	assert.Equal(t, core.Dollars(1_450), r.Credits.ChildCreditBeforeLimit)
}

func TestLowIncomeHeadOfHouseholdCredits(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.HeadOfHousehold,
		W2s:          []core.W2{wages(30_000)},
		Dependents: []core.Dependent{{
			FirstName:               "Kid",
			SSN:                     "123-45-6789",
			DateOfBirth:             "2020-03-01",
			MonthsLivedWithTaxpayer: 12,
		}},
		Credits: core.CreditInputs{DependentCareExpenses: core.Dollars(5_000)},
	})

	assert.Equal(t, core.Dollars(7_500), r.TaxableIncome)
	assert.Equal(t, core.Dollars(750), r.Tax)

	c := r.Credits
	assert.Equal(t, core.Rate(270_000), c.DependentCareRate)
	assert.Equal(t, core.Dollars(750), c.DependentCare)
	assert.Zero(t, c.ChildCredit)
	assert.Equal(t, core.Dollars(1_700), c.AdditionalChildCredit)
	assert.Equal(t, 1, c.EICChildren)
	assert.Equal(t, core.Cents(326_533), c.EIC)

	assert.Zero(t, r.TotalTax)
	assert.Equal(t, core.Cents(496_533), r.TotalPayments)
	assert.Equal(t, core.Cents(496_533), r.Refund)
}

func TestEICInvestmentIncomeLimit(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		Taxpayer:     core.Person{DateOfBirth: "1990-01-01"},
		W2s:          []core.W2{wages(10_000)},
		Interest:     []core.Form1099INT{{Payer: "Bank", Interest: core.Dollars(12_000)}},
	})
	assert.Zero(t, r.EarnedIncomeCredit)
	assert.True(t, core.HasCode(r.Findings, core.CodeEICInvestmentIncome))
}

func TestEICChildlessAgeTest(t *testing.T) {
	young := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		Taxpayer:     core.Person{DateOfBirth: "2003-01-01"},
		W2s:          []core.W2{wages(8_000)},
	})
	assert.Zero(t, young.EarnedIncomeCredit)

	eligible := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		Taxpayer:     core.Person{DateOfBirth: "1990-01-01"},
		W2s:          []core.W2{wages(8_000)},
	})
	assert.Equal(t, core.Cents(61_200), eligible.EarnedIncomeCredit)
}

func TestEducationCreditPhaseOut(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(85_000)},
		Credits: core.CreditInputs{EducationStudents: []core.EducationStudent{{
			Name:              "Me",
			QualifiedExpenses: core.Dollars(4_000),
			CreditType:        core.CreditAOTC,
		}}},
	})

	assert.Equal(t, core.Dollars(750), r.Credits.EducationNonrefundable)
	assert.Equal(t, core.Dollars(500), r.RefundableEducation)
}

func TestEducationCreditMFSIneligible(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.MarriedFilingSeparately,
		W2s:          []core.W2{wages(40_000)},
		Credits: core.CreditInputs{EducationStudents: []core.EducationStudent{{
			QualifiedExpenses: core.Dollars(4_000),
			CreditType:        core.CreditAOTC,
		}}},
	})
	assert.Zero(t, r.Credits.EducationNonrefundable)
	assert.Zero(t, r.RefundableEducation)
}

func TestPhaseOutFraction(t *testing.T) {
	lower, upper := core.Dollars(80_000), core.Dollars(90_000)
	assert.Equal(t, int64(1_000), phaseOutFraction(core.Dollars(70_000), lower, upper))
	assert.Equal(t, int64(500), phaseOutFraction(core.Dollars(85_000), lower, upper))
	assert.Equal(t, int64(333), phaseOutFraction(core.Cents(8_666_667), lower, upper))
	assert.Zero(t, phaseOutFraction(core.Dollars(90_000), lower, upper))
	assert.Zero(t, phaseOutFraction(core.Dollars(1), 0, 0))
}

func TestSaversCreditTiers(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.MarriedFilingJointly,
		W2s:          []core.W2{{Employer: "Acme", Wages: core.Dollars(45_000), RetirementContributions: core.Dollars(3_000)}},
	})
	// $2,000 cap per person; tax of $1,500 covers the credit.
	assert.Equal(t, core.Dollars(1_500), r.Tax)
	assert.Equal(t, core.Rate(500_000), r.Credits.SaversRate)
	assert.Equal(t, core.Dollars(1_000), r.Credits.Savers)
}

func TestItemizedSALTPhaseDownAndMortgageLimit(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(520_000)},
		Deductions: core.Deductions{
			Method: core.DeductionItemized,
			Itemized: &core.ItemizedDetail{
				StateLocalIncomeTax: core.Dollars(50_000),
				Mortgages: []core.Mortgage{{
					Lender:               "Bank",
					Interest:             core.Dollars(30_000),
					OutstandingPrincipal: core.Dollars(1_000_000),
					OriginationDate:      "2020-05-01",
				}},
			},
		},
	})

	a := r.ScheduleA
	require.NotNil(t, a)
	assert.Equal(t, core.Dollars(34_000), a.SALTCap)
	assert.Equal(t, core.Dollars(34_000), a.SALT)
	assert.Equal(t, core.Dollars(22_500), a.MortgageInterest)
	assert.True(t, a.MortgageLimited)
	assert.Equal(t, core.Dollars(56_500), r.Deduction)
	assert.Equal(t, core.DeductionItemized, r.DeductionMethod)
}

func TestSALTCapFloor(t *testing.T) {
	p := newPass(taxtable.Y2025(), &core.TaxReturn{FilingStatus: core.Single})
	assert.Equal(t, core.Dollars(10_000), p.saltCap(core.Dollars(900_000)))
	assert.Equal(t, core.Dollars(40_000), p.saltCap(core.Dollars(500_000)))
}

func TestGrandfatheredMortgageUsesMillionLimit(t *testing.T) {
	p := newPass(taxtable.Y2025(), &core.TaxReturn{FilingStatus: core.Single})
	interest, limited := p.mortgageInterest([]core.Mortgage{{
		Interest:             core.Dollars(40_000),
		OutstandingPrincipal: core.Dollars(1_000_000),
		OriginationDate:      "2015-01-01",
	}})
	assert.False(t, limited)
	assert.Equal(t, core.Dollars(40_000), interest)

	_, limited = p.mortgageInterest([]core.Mortgage{{Interest: core.Dollars(40_000), OutstandingPrincipal: core.Dollars(1_000_000)}})
	assert.True(t, limited)
	assert.True(t, core.HasCode(p.f.List(), core.CodeMortgageDateMissing))
}

func TestCharitableCeilings(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(100_000)},
		Deductions: core.Deductions{
			Method: core.DeductionItemized,
			Itemized: &core.ItemizedDetail{
				CharitableCash:    core.Dollars(50_000),
				CharitableNonCash: core.Dollars(40_000),
			},
		},
	})

	a := r.ScheduleA
	require.NotNil(t, a)
	assert.Equal(t, core.Dollars(60_000), a.Charitable)
	assert.Equal(t, core.Dollars(30_000), a.CharityCarryover)
	assert.True(t, core.HasCode(r.Findings, core.CodeCharitableCarryover))
}

func TestAutoDeductionPicksLarger(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(75_000)},
		Deductions:   core.Deductions{Itemized: &core.ItemizedDetail{StateLocalIncomeTax: core.Dollars(5_000)}},
	})
	assert.Equal(t, core.DeductionStandard, r.DeductionMethod)
	assert.Nil(t, r.ScheduleA)

	missing := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(75_000)},
		Deductions:   core.Deductions{Method: core.DeductionItemized},
	})
	assert.Equal(t, core.DeductionStandard, missing.DeductionMethod)
	assert.True(t, core.HasCode(missing.Findings, core.CodeInvalidField))
}

func TestStandardDeductionAgedAndDependentFiler(t *testing.T) {
	aged := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		Taxpayer:     core.Person{DateOfBirth: "1955-06-01", Blind: true},
	})
	assert.Equal(t, core.Dollars(19_000), aged.StandardDeduction)

	dependent := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		Taxpayer:     core.Person{CanBeClaimedAsDependent: true},
		W2s:          []core.W2{wages(3_000)},
	})
	assert.Equal(t, core.Dollars(3_450), dependent.StandardDeduction)
}

func TestAdditionalMedicareAndNIIT(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s: []core.W2{{
			Employer:            "BigCo",
			Wages:               core.Dollars(250_000),
			MedicareTaxWithheld: core.Dollars(4_075),
		}},
		Interest: []core.Form1099INT{{Payer: "Bank", Interest: core.Dollars(20_000)}},
	})

	s2 := r.Schedule2
	assert.Equal(t, core.Dollars(450), s2.AdditionalMedicare)
	assert.Equal(t, core.Dollars(450), s2.MedicareWithheldExtra)
	assert.Equal(t, core.Dollars(20_000), s2.NetInvestmentIncome)
	assert.Equal(t, core.Dollars(760), s2.NIIT)
	assert.Equal(t, core.Dollars(1_210), r.OtherTaxes)
	assert.Equal(t, core.Dollars(450), r.OtherWithholding)
	assert.Contains(t, r.ExecutedSchedules, StageForm8959)
	assert.Contains(t, r.ExecutedSchedules, StageForm8960)
}

func TestStudentLoanInterestPhaseOut(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		W2s:          []core.W2{wages(92_500)},
		Adjustments:  core.Adjustments{StudentLoanInterest: core.Dollars(3_000)},
	})
	assert.Equal(t, core.Dollars(1_250), r.Schedule1.StudentLoanInterest)

	mfs := compute2025(t, &core.TaxReturn{
		FilingStatus: core.MarriedFilingSeparately,
		W2s:          []core.W2{wages(40_000)},
		Adjustments:  core.Adjustments{StudentLoanInterest: core.Dollars(1_000)},
	})
	assert.Zero(t, mfs.Schedule1.StudentLoanInterest)
}

func TestK1GuaranteedPaymentsDriveSE(t *testing.T) {
	r := compute2025(t, &core.TaxReturn{
		FilingStatus: core.Single,
		K1s: []core.ScheduleK1{
			{EntityName: "Law LLP", EntityType: core.EntityPartnership, GuaranteedPayments: core.Dollars(20_000)},
			{EntityName: "S Co", EntityType: core.EntitySCorp, OrdinaryIncome: core.Dollars(30_000), GuaranteedPayments: core.Dollars(5_000)},
		},
	})

	assert.Equal(t, core.Dollars(20_000), r.K1.Totals.SEBase)
	assert.Equal(t, core.Dollars(18_470), r.ScheduleSE.NetEarnings)
	assert.True(t, core.HasCode(r.Findings, core.CodeGuaranteedPaymentsEntity))
	require.NotNil(t, r.ScheduleE)
	assert.Equal(t, core.Dollars(55_000), r.ScheduleE.K1Nonpassive)
}

func TestComputeScheduleBStandalone(t *testing.T) {
	b := New(taxtable.Y2025()).ComputeScheduleB(&core.TaxReturn{
		Interest: []core.Form1099INT{{Interest: core.Dollars(1_000), USBondInterest: core.Dollars(600)}},
		K1s:      []core.ScheduleK1{{EntityName: "Fund", EntityType: core.EntityPartnership, InterestIncome: core.Dollars(10)}},
	})

	assert.Equal(t, core.Dollars(1_610), b.TotalInterest)
	assert.True(t, b.Required)
	require.Len(t, b.Interest, 2)
	assert.Equal(t, "1099-INT #1", b.Interest[0].Name)
	assert.Equal(t, "Fund", b.Interest[1].Name)
}

func TestComputeIsDeterministic(t *testing.T) {
	tr := &core.TaxReturn{
		TaxYear:      2025,
		FilingStatus: core.MarriedFilingJointly,
		W2s:          []core.W2{wages(120_000), {Owner: core.OwnerSpouse, Wages: core.Dollars(40_000)}},
		Businesses:   []core.ScheduleCBusiness{{Name: "Shop", Owner: core.OwnerSpouse, GrossReceipts: core.Dollars(20_000)}},
	}
	e := New(taxtable.Y2025())
	assert.Equal(t, e.ComputeForm1040(tr), e.ComputeForm1040(tr))
}
