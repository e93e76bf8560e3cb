package taxtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxengine/internal/core"
)

func TestScheduleTax_Single2025At60000(t *testing.T) {
	y := Y2025()
	// 11,925 × 10% + 36,550 × 12% + 11,525 × 22% = 1,192.50 + 4,386.00 + 2,535.50
	got := y.Ordinary.Get(core.Single).Tax(core.Dollars(60_000))
	assert.Equal(t, core.Cents(811_400), got)
}

func TestScheduleTax_EqualsSumOfTraversedBrackets(t *testing.T) {
	for _, y := range []Year{Y2024(), Y2025()} {
		for _, fs := range core.FilingStatuses() {
			s := y.Ordinary.Get(fs)
			income := core.Dollars(1_000_000)

			var want int64
			var lower core.Cents
			for _, b := range s {
				upper := b.UpTo
				if upper > income {
					upper = income
				}
				if upper > lower {
					want += int64(upper-lower) * int64(b.Rate)
				}
				if b.UpTo >= income {
					break
				}
				lower = b.UpTo
			}
			assert.Equal(t, core.Cents(core.RoundHalfAwayFromZero(want, 1_000_000)), s.Tax(income), "year %d status %s", y.Year, fs)
		}
	}
}

func TestScheduleTax_MonotonicNonDecreasing(t *testing.T) {
	for _, y := range []Year{Y2024(), Y2025()} {
		for _, fs := range core.FilingStatuses() {
			s := y.Ordinary.Get(fs)
			prev := core.Cents(0)
			for income := core.Cents(0); income <= core.Dollars(800_000); income += 123_457 {
				got := s.Tax(income)
				require.GreaterOrEqual(t, got, prev, "year %d status %s income %s", y.Year, fs, income)
				prev = got
			}
		}
	}
}

func TestScheduleTax_NonPositiveIncome(t *testing.T) {
	s := Y2024().Ordinary.Get(core.Single)
	assert.Equal(t, core.Cents(0), s.Tax(0))
	assert.Equal(t, core.Cents(0), s.Tax(-5_000))
}

func TestScheduleTax_RoundsOncePerCall(t *testing.T) {
	// 0.05 cents per bracket would round up twice if rounded per bracket.
	s := Schedule{{UpTo: 1, Rate: 500_000}, {UpTo: Unbounded, Rate: 500_000}}
	assert.Equal(t, core.Cents(1), s.Tax(2))
	assert.Equal(t, core.Cents(1), s.Tax(1))
}

func TestMarginalRate(t *testing.T) {
	s := Y2025().Ordinary.Get(core.MarriedFilingJointly)
	assert.Equal(t, rate12, s.MarginalRate(core.Dollars(50_000)))
	assert.Equal(t, rate37, s.MarginalRate(core.Dollars(5_000_000)))
}

func TestFlat(t *testing.T) {
	s := Flat(49_500)
	assert.Equal(t, core.Dollars(4_950), s.Tax(core.Dollars(100_000)))
}
