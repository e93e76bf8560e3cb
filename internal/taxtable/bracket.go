// Package taxtable holds the per-year constant tables: bracket schedules,
// deduction amounts, thresholds and phase-out ranges. It is pure data plus
// the bracket arithmetic every engine shares.
package taxtable

import (
	"math"

	"taxengine/internal/core"
)

// Unbounded marks the top bracket.
const Unbounded core.Cents = math.MaxInt64

// Bracket taxes income up to UpTo at Rate. Brackets in a Schedule are ordered
// by ascending UpTo; the last one must be Unbounded.
type Bracket struct {
	UpTo core.Cents
	Rate core.Rate
}

// Schedule is a progressive rate schedule.
type Schedule []Bracket

// Tax applies the schedule to income.
//
// The sum of width × rate is accumulated exactly in cent-ppm units and
// rounded once, so the result equals the documented bracket formula to the
// cent and is monotonically non-decreasing in income.
func (s Schedule) Tax(income core.Cents) core.Cents {
	if income <= 0 {
		return 0
	}
	var acc int64
	var lower core.Cents
	for _, b := range s {
		if income <= lower {
			break
		}
		upper := b.UpTo
		if income < upper {
			upper = income
		}
		acc += int64(upper-lower) * int64(b.Rate)
		lower = b.UpTo
	}
	return core.Cents(core.RoundHalfAwayFromZero(acc, 1_000_000))
}

// MarginalRate returns the rate applied to the last cent of income.
func (s Schedule) MarginalRate(income core.Cents) core.Rate {
	for _, b := range s {
		if income <= b.UpTo {
			return b.Rate
		}
	}
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Rate
}

// Flat is a single-rate schedule.
func Flat(rate core.Rate) Schedule { return Schedule{{UpTo: Unbounded, Rate: rate}} }

// Dollars builds a schedule from whole-dollar breakpoints and ppm rates:
// breaks[i] is the top of bracket i, and rates has one more entry than breaks.
func Dollars(breaks []int64, rates ...core.Rate) Schedule {
	out := make(Schedule, 0, len(rates))
	for i, r := range rates {
		upTo := Unbounded
		if i < len(breaks) {
			upTo = core.Dollars(breaks[i])
		}
		out = append(out, Bracket{UpTo: upTo, Rate: r})
	}
	return out
}
