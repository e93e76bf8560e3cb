package k1

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taxengine/internal/core"
)

func TestRentalPAL_LossBelowPhaseOut(t *testing.T) {
	got := RentalPAL(core.Dollars(-40_000), core.Dollars(80_000), core.Single, 0)

	assert.True(t, got.PALApplied)
	assert.Equal(t, core.Dollars(-25_000), got.AllowedRentalIncome)
	assert.Equal(t, core.Dollars(-15_000), got.DisallowedLoss)
	assert.Equal(t, core.Dollars(25_000), got.AllowanceUsed)
}

func TestRentalPAL_MidpointOfPhaseOut(t *testing.T) {
	assert.Equal(t, core.Dollars(12_500), Allowance(core.Dollars(125_000), core.Single))

	got := RentalPAL(core.Dollars(-20_000), core.Dollars(125_000), core.Single, 0)
	assert.Equal(t, core.Dollars(-12_500), got.AllowedRentalIncome)
	assert.Equal(t, core.Dollars(-7_500), got.DisallowedLoss)
}

func TestRentalPAL_IncomeIsNeverLimited(t *testing.T) {
	for _, fs := range core.FilingStatuses() {
		for _, agi := range []core.Cents{0, core.Dollars(120_000), core.Dollars(500_000)} {
			got := RentalPAL(core.Dollars(3_000), agi, fs, core.Dollars(25_000))
			assert.False(t, got.PALApplied)
			assert.Equal(t, core.Dollars(3_000), got.AllowedRentalIncome)
			assert.Equal(t, core.Cents(0), got.DisallowedLoss)
		}
	}
	assert.Equal(t, PALResult{}, RentalPAL(0, 0, core.Single, 0))
}

func TestRentalPAL_MarriedSeparateAllowsNothing(t *testing.T) {
	for _, agi := range []core.Cents{0, core.Dollars(50_000), core.Dollars(200_000)} {
		got := RentalPAL(core.Dollars(-10_000), agi, core.MarriedFilingSeparately, 0)
		assert.Equal(t, core.Cents(0), got.AllowedRentalIncome)
		assert.Equal(t, core.Dollars(-10_000), got.DisallowedLoss)
	}
}

func TestAllowance_MonotonicAcrossPhaseOut(t *testing.T) {
	for _, fs := range []core.FilingStatus{core.Single, core.MarriedFilingJointly, core.HeadOfHousehold, core.QualifyingSurvivor} {
		prev := Allowance(core.Dollars(100_000), fs)
		assert.Equal(t, SpecialAllowance, prev)
		for agi := core.Dollars(100_000); agi <= core.Dollars(150_000); agi += core.Dollars(777) {
			got := Allowance(agi, fs)
			assert.LessOrEqual(t, got, prev, "agi %s", agi)
			prev = got
		}
		assert.Equal(t, core.Cents(0), Allowance(core.Dollars(150_000), fs))
		assert.Equal(t, core.Cents(0), Allowance(core.Dollars(900_000), fs))
	}
}

func TestRentalPAL_SharedPoolIsDecremented(t *testing.T) {
	agi := core.Dollars(60_000)
	first := RentalPAL(core.Dollars(-18_000), agi, core.MarriedFilingJointly, 0)
	second := RentalPAL(core.Dollars(-18_000), agi, core.MarriedFilingJointly, first.AllowanceUsed)

	assert.Equal(t, core.Dollars(-18_000), first.AllowedRentalIncome)
	assert.Equal(t, core.Dollars(-7_000), second.AllowedRentalIncome)
	assert.Equal(t, core.Dollars(-11_000), second.DisallowedLoss)
	assert.Equal(t, SpecialAllowance, first.AllowanceUsed+second.AllowanceUsed)
}

func TestRentalPAL_ExhaustedPool(t *testing.T) {
	got := RentalPAL(core.Dollars(-5_000), core.Dollars(50_000), core.Single, core.Dollars(30_000))
	assert.Equal(t, core.Cents(0), got.AllowedRentalIncome)
	assert.Equal(t, core.Dollars(-5_000), got.DisallowedLoss)
}
