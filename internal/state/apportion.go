package state

import (
	"time"

	"taxengine/internal/core"
)

// Ratio is an exact day fraction: the share of the tax year the filer was a
// resident. It is kept as a fraction so scaling a cent amount rounds once.
type Ratio struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// FullYear and NoDays are the residency extremes.
var (
	FullYear = Ratio{Num: 1, Den: 1}
	NoDays   = Ratio{Num: 0, Den: 1}
)

// Float is the ratio as a number in [0, 1].
func (r Ratio) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// IsFull reports whether the ratio is exactly one.
func (r Ratio) IsFull() bool { return r.Den != 0 && r.Num == r.Den }

// ApportionmentRatio is the residency share for cfg in taxYear.
//
// Full-year residents get 1 and nonresidents 0. Part-year residents get the
// days from move-in through move-out inclusive over the days in the year;
// dates outside the year are clamped to its first or last day, and a missing
// date means the residency covers that end of the year.
func ApportionmentRatio(cfg core.StateConfig, taxYear int) Ratio {
	switch cfg.Residency {
	case core.ResidencyFullYear:
		return FullYear
	case core.ResidencyNonresident:
		return NoDays
	case core.ResidencyPartYear:
	default:
		return FullYear
	}

	first, last := core.YearStart(taxYear), core.YearEnd(taxYear)
	start, end := first, last
	if d, ok := core.ParseDate(cfg.MoveInDate); ok && d.After(first) {
		start = d
	}
	if d, ok := core.ParseDate(cfg.MoveOutDate); ok && d.Before(last) {
		end = d
	}

	den := int64(core.DaysInYear(taxYear))
	days := int64(end.Sub(start)/(24*time.Hour)) + 1
	switch {
	case days <= 0:
		return Ratio{Num: 0, Den: den}
	case days > den:
		days = den
	}
	return Ratio{Num: days, Den: den}
}

// Apportion scales an already-computed full-year tax by the residency
// ratio. States that prorate tax rather than income all go through here.
func Apportion(fullYearTax core.Cents, r Ratio) core.Cents {
	if r.Den == 0 {
		return 0
	}
	return fullYearTax.MulDiv(r.Num, r.Den)
}

// ApportionIncome scales full-year income for states that tax the resident
// share of income.
func ApportionIncome(income core.Cents, r Ratio) core.Cents {
	return Apportion(income, r)
}
