package k1

import "taxengine/internal/core"

// Passive-activity allowance constants (IRC §469(i)).
var (
	SpecialAllowance = core.Dollars(25_000)
	PhaseOutStart    = core.Dollars(100_000)
	PhaseOutRange    = core.Dollars(50_000)
)

// PALResult is the outcome of limiting one rental amount.
type PALResult struct {
	// PALApplied is true when a loss was limited (even if fully allowed).
	PALApplied bool `json:"palApplied"`
	// AllowedRentalIncome is the amount that flows to income; negative for an
	// allowed loss.
	AllowedRentalIncome core.Cents `json:"allowedRentalIncome"`
	// DisallowedLoss is the suspended portion, as a non-positive amount.
	DisallowedLoss core.Cents `json:"disallowedLoss"`
	// AllowanceUsed is the part of the shared pool this call consumed.
	AllowanceUsed core.Cents `json:"allowanceUsed"`
}

// Allowance returns the special allowance available at prelimAGI before any
// of it is consumed. It is always zero for married filing separately.
func Allowance(prelimAGI core.Cents, fs core.FilingStatus) core.Cents {
	var base core.Cents
	switch fs {
	case core.MarriedFilingSeparately:
		return 0
	case core.Single, core.MarriedFilingJointly, core.HeadOfHousehold, core.QualifyingSurvivor:
		base = SpecialAllowance
	default:
		base = SpecialAllowance
	}
	if prelimAGI <= PhaseOutStart {
		return base
	}
	reduction := core.MinCents(base, (prelimAGI - PhaseOutStart).MulDiv(int64(base), int64(PhaseOutRange)))
	return base - reduction
}

// RentalPAL limits a rental loss to the remaining shared allowance.
//
// Non-negative rental income passes through. alreadyUsed is the allowance
// consumed by earlier rental sources in the same return, so several calls
// against one pool never allow more than the allowance in total.
func RentalPAL(rental, prelimAGI core.Cents, fs core.FilingStatus, alreadyUsed core.Cents) PALResult {
	if rental >= 0 {
		return PALResult{AllowedRentalIncome: rental}
	}
	remaining := (Allowance(prelimAGI, fs) - alreadyUsed.NonNegative()).NonNegative()
	loss := rental.Abs()
	allowed := core.MinCents(loss, remaining)
	return PALResult{
		PALApplied:          true,
		AllowedRentalIncome: -allowed,
		DisallowedLoss:      -(loss - allowed),
		AllowanceUsed:       allowed,
	}
}
