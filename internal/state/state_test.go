package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxengine/internal/core"
	"taxengine/internal/federal"
	"taxengine/internal/trace"
)

func module(t *testing.T, year int, code Code) Module {
	t.Helper()
	mods, ok := ForYear(year)
	require.True(t, ok)
	for _, m := range mods {
		if m.Code() == code {
			return m
		}
	}
	t.Fatalf("no %s module for %d", code, year)
	return nil
}

func wageReturn(fs core.FilingStatus, wages int64) (*core.TaxReturn, *federal.Form1040Result) {
	tr := &core.TaxReturn{TaxYear: 2025, FilingStatus: fs}
	fed := &federal.Form1040Result{
		TaxYear:       2025,
		FilingStatus:  fs,
		Wages:         core.Dollars(wages),
		TotalIncome:   core.Dollars(wages),
		AGI:           core.Dollars(wages),
		TaxableIncome: core.Dollars(wages),
	}
	return tr, fed
}

func fullYear(code Code) core.StateConfig {
	return core.StateConfig{StateCode: string(code), Residency: core.ResidencyFullYear}
}

func TestParseCode(t *testing.T) {
	c, err := ParseCode(" ca ")
	require.NoError(t, err)
	assert.Equal(t, CA, c)
	assert.Equal(t, "California", c.Name())

	_, err = ParseCode("XX")
	assert.Error(t, err)
	_, err = ParseCode("")
	assert.Error(t, err)
}

func TestApportionmentRatio(t *testing.T) {
	cases := []struct {
		name string
		cfg  core.StateConfig
		year int
		want Ratio
	}{
		{"full year", core.StateConfig{Residency: core.ResidencyFullYear}, 2025, FullYear},
		{"unset residency", core.StateConfig{}, 2025, FullYear},
		{"nonresident", core.StateConfig{Residency: core.ResidencyNonresident}, 2025, NoDays},
		{"moved in July", core.StateConfig{Residency: core.ResidencyPartYear, MoveInDate: "2025-07-01"}, 2025, Ratio{184, 365}},
		{"moved out June, leap year", core.StateConfig{Residency: core.ResidencyPartYear, MoveOutDate: "2024-06-30"}, 2024, Ratio{182, 366}},
		{"dates outside year clamp", core.StateConfig{Residency: core.ResidencyPartYear, MoveInDate: "2023-03-01", MoveOutDate: "2026-01-15"}, 2025, Ratio{365, 365}},
		{"moved in after year end", core.StateConfig{Residency: core.ResidencyPartYear, MoveInDate: "2026-02-01"}, 2025, Ratio{0, 365}},
		{"single day", core.StateConfig{Residency: core.ResidencyPartYear, MoveInDate: "2025-12-31"}, 2025, Ratio{1, 365}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ApportionmentRatio(tc.cfg, tc.year)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got.Float(), 0.0)
			assert.LessOrEqual(t, got.Float(), 1.0)
		})
	}
}

func TestApportion_RoundsOnce(t *testing.T) {
	assert.Equal(t, core.Cents(147_582), Apportion(292_757, Ratio{184, 365}))
	assert.Equal(t, core.Cents(292_757), Apportion(292_757, FullYear))
	assert.Equal(t, core.Cents(0), Apportion(292_757, NoDays))
	assert.Equal(t, core.Cents(0), Apportion(292_757, Ratio{}))
}

func TestCalifornia_FullYearSingle(t *testing.T) {
	tr, fed := wageReturn(core.Single, 75_000)
	tr.W2s = []core.W2{{Wages: core.Dollars(75_000), States: []core.W2State{{State: "CA", Wages: core.Dollars(75_000), Withheld: core.Dollars(3_000)}}}}

	r := module(t, 2025, CA).Compute(tr, fed, fullYear(CA))

	assert.Equal(t, core.Dollars(75_000), r.StateAGI)
	assert.Equal(t, core.Dollars(69_294), r.StateTaxableIncome)
	assert.Equal(t, core.Cents(292_757), r.StateTax)
	assert.Equal(t, core.Dollars(153), r.StateCredits)
	assert.Equal(t, core.Cents(277_457), r.TaxAfterCredits)
	assert.Equal(t, core.Dollars(3_000), r.StateWithholding)
	assert.Equal(t, core.Cents(22_543), r.Overpaid)
	assert.Zero(t, r.AmountOwed)
	assert.Equal(t, 1.0, r.ApportionmentRatio)
	assert.Equal(t, "table", r.DetailKind())
	assert.Empty(t, r.Findings)
}

func TestCalifornia_PartYearScalesTax(t *testing.T) {
	tr, fed := wageReturn(core.Single, 75_000)
	cfg := core.StateConfig{StateCode: "CA", Residency: core.ResidencyPartYear, MoveInDate: "2025-07-01"}

	r := module(t, 2025, CA).Compute(tr, fed, cfg)

	assert.Equal(t, Ratio{184, 365}, r.Ratio)
	assert.InDelta(t, 184.0/365.0, r.ApportionmentRatio, 1e-12)
	d := r.Detail.(TableDetail)
	assert.Equal(t, core.Cents(292_757), d.FullYearTax)
	assert.Equal(t, core.Cents(147_582), r.StateTax)
	assert.Equal(t, core.Cents(7_713), r.StateCredits)
	assert.Equal(t, core.Cents(139_869), r.TaxAfterCredits)
	assert.Equal(t, core.Cents(139_869), r.AmountOwed)
}

func TestCalifornia_ExemptionCreditPhaseOut(t *testing.T) {
	tr, fed := wageReturn(core.Single, 260_000)

	r := module(t, 2025, CA).Compute(tr, fed, fullYear(CA))

	d := r.Detail.(TableDetail)
	// $7,797 over the threshold is four $2,500 steps: $24 off the $153 credit.
	assert.Equal(t, core.Dollars(129), d.PersonalCredits)
	assert.Equal(t, core.Dollars(24), d.CreditPhaseOut)
}

func TestCalifornia_SocialSecurityAndBondInterestSubtracted(t *testing.T) {
	tr, fed := wageReturn(core.Single, 40_000)
	fed.TaxableSocialSec = core.Dollars(6_000)
	fed.TaxableInterest = core.Dollars(1_000)
	fed.ScheduleB.USBondInterest = core.Dollars(400)
	fed.AGI = core.Dollars(47_000)

	r := module(t, 2025, CA).Compute(tr, fed, fullYear(CA))

	d := r.Detail.(TableDetail)
	assert.Equal(t, core.Dollars(6_000), d.SocialSecurity)
	assert.Equal(t, core.Dollars(400), d.USBondInterest)
	assert.Equal(t, core.Dollars(40_600), r.StateAGI)
}

func TestPennsylvania_LossesDoNotCrossClasses(t *testing.T) {
	tr, fed := wageReturn(core.Single, 50_000)
	fed.ScheduleC = []federal.ScheduleCResult{{Name: "shop", NetProfit: core.Dollars(-10_000)}}
	fed.AGI = core.Dollars(40_000)

	r := module(t, 2025, PA).Compute(tr, fed, fullYear(PA))

	assert.Equal(t, core.Dollars(50_000), r.StateAGI)
	assert.Equal(t, core.Dollars(1_535), r.StateTax)
	d := r.Detail.(TableDetail)
	require.Len(t, d.IncomeClasses, 6)
	assert.Equal(t, core.Dollars(-10_000), d.IncomeClasses[3].Net)
	assert.Zero(t, d.IncomeClasses[3].Taxable)
}

func TestOhio_NotchedScheduleAndExemption(t *testing.T) {
	tr, fed := wageReturn(core.Single, 60_000)

	r := module(t, 2025, OH).Compute(tr, fed, fullYear(OH))

	d := r.Detail.(OhioDetail)
	assert.Equal(t, core.Dollars(2_150), d.ExemptionPerPerson)
	assert.Equal(t, core.Dollars(57_850), r.StateTaxableIncome)
	assert.Equal(t, core.Cents(120_721), r.StateTax)
	assert.Equal(t, "ohio", r.DetailKind())
}

func TestOhio_NoTaxUnderFirstNotch(t *testing.T) {
	tr, fed := wageReturn(core.Single, 25_000)
	r := module(t, 2024, OH).Compute(tr, fed, fullYear(OH))
	assert.Zero(t, r.StateTax)
}

func TestNewHampshire_InterestAndDividends2024(t *testing.T) {
	tr, fed := wageReturn(core.Single, 80_000)
	fed.TaxYear = 2024
	fed.TaxableInterest = core.Dollars(5_000)
	fed.OrdinaryDividends = core.Dollars(2_000)

	r := module(t, 2024, NH).Compute(tr, fed, fullYear(NH))

	assert.Equal(t, core.Dollars(7_000), r.StateAGI)
	assert.Equal(t, core.Dollars(4_600), r.StateTaxableIncome)
	assert.Equal(t, core.Dollars(138), r.StateTax)
	assert.Equal(t, "interest_dividends", r.DetailKind())

	r2025 := module(t, 2025, NH).Compute(tr, fed, fullYear(NH))
	assert.Zero(t, r2025.StateTax)
	assert.Equal(t, "no_tax", r2025.DetailKind())
}

func TestNoTax_RefundsStateWithholding(t *testing.T) {
	tr, fed := wageReturn(core.Single, 90_000)
	tr.W2s = []core.W2{{States: []core.W2State{{State: "tx", Withheld: core.Dollars(50)}}}}
	tr.Interest = []core.Form1099INT{{Interest: core.Dollars(10), State: "TX", StateWithheld: core.Dollars(1)}}

	r := module(t, 2025, TX).Compute(tr, fed, fullYear(TX))

	assert.Zero(t, r.StateTax)
	assert.Equal(t, core.Dollars(51), r.StateWithholding)
	assert.Equal(t, core.Dollars(51), r.Overpaid)
}

func TestNonresident_ZeroTaxWithFinding(t *testing.T) {
	tr, fed := wageReturn(core.Single, 90_000)
	cfg := core.StateConfig{StateCode: "NY", Residency: core.ResidencyNonresident}

	r := module(t, 2025, NY).Compute(tr, fed, cfg)

	assert.Zero(t, r.StateTax)
	assert.Zero(t, r.StateCredits)
	assert.True(t, core.HasCode(r.Findings, core.CodeNonresidentSourceIncome))
}

func TestNewYork_SupplementalTaxNoted(t *testing.T) {
	tr, fed := wageReturn(core.Single, 200_000)
	r := module(t, 2025, NY).Compute(tr, fed, fullYear(NY))
	assert.True(t, core.HasCode(r.Findings, core.CodeStateSupplementalSkipped))

	tr, fed = wageReturn(core.Single, 60_000)
	r = module(t, 2025, NY).Compute(tr, fed, fullYear(NY))
	assert.Empty(t, r.Findings)
}

func TestIllinois_ExemptionsLostAboveLimit(t *testing.T) {
	tr, fed := wageReturn(core.Single, 100_000)
	r := module(t, 2025, IL).Compute(tr, fed, fullYear(IL))
	assert.Equal(t, core.Dollars(2_850), r.Detail.(TableDetail).Exemptions)

	tr, fed = wageReturn(core.Single, 300_000)
	r = module(t, 2025, IL).Compute(tr, fed, fullYear(IL))
	assert.Zero(t, r.Detail.(TableDetail).Exemptions)
	assert.Equal(t, core.Dollars(14_850), r.StateTax)
}

func TestMassachusetts_Surtax(t *testing.T) {
	tr, fed := wageReturn(core.Single, 2_000_000)
	r := module(t, 2025, MA).Compute(tr, fed, fullYear(MA))
	d := r.Detail.(TableDetail)
	taxable := core.Dollars(2_000_000 - 4_400)
	assert.Equal(t, taxable, r.StateTaxableIncome)
	assert.Equal(t, (taxable - core.Dollars(1_083_150)).MulRate(40_000), d.Surtax)
}

func TestScaleIncomeStates_ProrateIncome(t *testing.T) {
	tr, fed := wageReturn(core.Single, 100_000)
	cfg := core.StateConfig{StateCode: "IL", Residency: core.ResidencyPartYear, MoveOutDate: "2025-07-02"}

	r := module(t, 2025, IL).Compute(tr, fed, cfg)

	assert.Equal(t, Ratio{183, 365}, r.Ratio)
	full := core.Dollars(100_000 - 2_850)
	assert.Equal(t, ApportionIncome(full, r.Ratio), r.StateTaxableIncome)
	assert.Equal(t, ScaleIncome, r.Detail.(TableDetail).ApportionedBy)
}

func TestAllModules_TaxMonotoneInIncome(t *testing.T) {
	for _, year := range []int{2024, 2025} {
		mods, ok := ForYear(year)
		require.True(t, ok)
		for _, m := range mods {
			prev := core.Cents(-1)
			for wages := int64(0); wages <= 1_500_000; wages += 7_500 {
				tr, fed := wageReturn(core.MarriedFilingJointly, wages)
				fed.TaxYear = year
				r := m.Compute(tr, fed, fullYear(m.Code()))
				require.GreaterOrEqual(t, r.TaxAfterCredits, prev, "%s %d at %d", m.Code(), year, wages)
				require.GreaterOrEqual(t, r.StateTax, r.StateCredits)
				prev = r.TaxAfterCredits
			}
		}
	}
}

func TestForYear(t *testing.T) {
	_, ok := ForYear(2023)
	assert.False(t, ok)

	mods, ok := ForYear(2025)
	require.True(t, ok)
	seen := map[Code]bool{}
	for i, m := range mods {
		assert.False(t, seen[m.Code()], "duplicate %s", m.Code())
		seen[m.Code()] = true
		assert.True(t, m.Code().Valid())
		if i > 0 {
			assert.Less(t, mods[i-1].Code(), m.Code())
		}
	}
	assert.Len(t, mods, 27)
}

func TestCollectTracedValues_EveryModuleValidates(t *testing.T) {
	fb := trace.NewBuilder()
	fb.Add(core.Dollars(120_000), federal.NodeWages, "Wages")
	fb.Add(core.Dollars(120_000), federal.NodeAGI, "Adjusted gross income", federal.NodeWages)
	fb.Add(core.Dollars(90_000), federal.NodeTaxableIncome, "Taxable income", federal.NodeAGI)
	fedValues, err := fb.Values()
	require.NoError(t, err)

	mods, _ := ForYear(2024)
	for _, m := range mods {
		tr, fed := wageReturn(core.Single, 120_000)
		fed.TaxableIncome = core.Dollars(90_000)
		r := m.Compute(tr, fed, fullYear(m.Code()))

		vs, err := m.CollectTracedValues(r, fedValues)
		require.NoError(t, err, m.Code())
		require.NoError(t, trace.Validate(vs), m.Code())
		assert.Equal(t, r.StateTax, vs.Amount(m.Code().Node(LineTax)), m.Code())
		require.NoError(t, fedValues.Merge(vs), m.Code())
	}
	require.NoError(t, trace.Validate(fedValues))

	agi, ok := fedValues.Get(CA.Node(LineAGI))
	require.True(t, ok)
	assert.Contains(t, agi.Inputs, federal.NodeAGI)
}
