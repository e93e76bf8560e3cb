package taxtable

import "taxengine/internal/core"

// Federal rates (ppm).
const (
	rate10 core.Rate = 100_000
	rate12 core.Rate = 120_000
	rate22 core.Rate = 220_000
	rate24 core.Rate = 240_000
	rate32 core.Rate = 320_000
	rate35 core.Rate = 350_000
	rate37 core.Rate = 370_000
)

// ordinary builds the seven-bracket federal schedule from its six breakpoints.
func ordinary(b1, b2, b3, b4, b5, b6 int64) Schedule {
	return Dollars([]int64{b1, b2, b3, b4, b5, b6}, rate10, rate12, rate22, rate24, rate32, rate35, rate37)
}

// base returns the constants that are not inflation indexed. Year
// constructors start from it and fill in the indexed tables.
func base(year int) Year {
	return Year{
		Year: year,

		CapitalLossLimit: dollarsByStatus(3_000, 3_000, 1_500, 3_000, 3_000),

		SE: SelfEmployment{
			NetEarningsFactor: 923_500,
			SocialSecurity:    124_000,
			Medicare:          29_000,
			Minimum:           core.Dollars(400),
		},
		Medicare: Medicare{
			EmployeeRate:        14_500,
			AdditionalRate:      9_000,
			AdditionalThreshold: dollarsByStatus(200_000, 250_000, 125_000, 200_000, 200_000),
		},
		NIIT: Surtax{
			Rate:      38_000,
			Threshold: dollarsByStatus(200_000, 250_000, 125_000, 200_000, 250_000),
		},

		CTC: ChildCredit{
			PerChild:           core.Dollars(2_000),
			PerOtherDependent:  core.Dollars(500),
			RefundablePerChild: core.Dollars(1_700),
			PhaseOutThreshold:  dollarsByStatus(200_000, 400_000, 200_000, 200_000, 200_000),
			PhaseOutStep:       core.Dollars(1_000),
			PhaseOutPerStep:    core.Dollars(50),
			EarnedFloor:        core.Dollars(2_500),
			EarnedRate:         150_000,
			MaxChildAge:        16,
		},

		Education: Education{
			PhaseOutLower:  dollarsByStatus(80_000, 160_000, 0, 80_000, 80_000),
			PhaseOutUpper:  dollarsByStatus(90_000, 180_000, 0, 90_000, 90_000),
			AOTCFirstTier:  core.Dollars(2_000),
			AOTCSecondTier: core.Dollars(2_000),
			AOTCSecondRate: 250_000,
			AOTCRefundable: 400_000,
			LLCExpenseCap:  core.Dollars(10_000),
			LLCRate:        200_000,
		},

		DependentCare: DependentCare{
			OnePersonCap: core.Dollars(3_000),
			TwoPersonCap: core.Dollars(6_000),
			MaxRate:      350_000,
			MinRate:      200_000,
			StepRate:     10_000,
			AGIFloor:     core.Dollars(15_000),
			AGIStep:      core.Dollars(2_000),
			MaxChildAge:  12,
		},

		Mortgage: Mortgage{
			PostTCJALimit:      dollarsByStatus(750_000, 750_000, 375_000, 750_000, 750_000),
			GrandfatheredLimit: dollarsByStatus(1_000_000, 1_000_000, 500_000, 1_000_000, 1_000_000),
			EraCutoff:          "2017-12-16",
		},

		MedicalFloor:          75_000,
		CharityCashCeiling:    600_000,
		CharityNonCashCeiling: 300_000,

		SocialSecurityBase1: dollarsByStatus(25_000, 32_000, 0, 25_000, 25_000),
		SocialSecurityBase2: dollarsByStatus(34_000, 44_000, 0, 34_000, 34_000),
	}
}

func eicChildless(earned, maxCredit, start, joint int64) EICBand {
	return EICBand{
		EarnedAmount:  core.Dollars(earned),
		MaxCredit:     core.Dollars(maxCredit),
		PhaseInRate:   76_500,
		PhaseOutRate:  76_500,
		PhaseOutStart: core.Dollars(start),
		PhaseOutJoint: core.Dollars(joint),
	}
}

func eicWithChildren(earned, maxCredit int64, in, out core.Rate, start, joint int64) EICBand {
	return EICBand{
		EarnedAmount:  core.Dollars(earned),
		MaxCredit:     core.Dollars(maxCredit),
		PhaseInRate:   in,
		PhaseOutRate:  out,
		PhaseOutStart: core.Dollars(start),
		PhaseOutJoint: core.Dollars(joint),
	}
}

func saversTiers(joint, hoh, other [3]int64) core.ByStatus[[3]core.Cents] {
	conv := func(v [3]int64) [3]core.Cents {
		return [3]core.Cents{core.Dollars(v[0]), core.Dollars(v[1]), core.Dollars(v[2])}
	}
	return core.ByStatus[[3]core.Cents]{
		Single: conv(other),
		MFJ:    conv(joint),
		MFS:    conv(other),
		HOH:    conv(hoh),
		QW:     conv(other),
	}
}
