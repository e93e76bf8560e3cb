package taxtable

import "taxengine/internal/core"

// Y2024 returns the 2024 federal constants (Rev. Proc. 2023-34).
func Y2024() Year {
	y := base(2024)

	y.Ordinary = core.ByStatus[Schedule]{
		Single: ordinary(11_600, 47_150, 100_525, 191_950, 243_725, 609_350),
		MFJ:    ordinary(23_200, 94_300, 201_050, 383_900, 487_450, 731_200),
		MFS:    ordinary(11_600, 47_150, 100_525, 191_950, 243_725, 365_600),
		HOH:    ordinary(16_550, 63_100, 100_500, 191_950, 243_700, 609_350),
		QW:     ordinary(23_200, 94_300, 201_050, 383_900, 487_450, 731_200),
	}

	y.StandardDeduction = dollarsByStatus(14_600, 29_200, 14_600, 21_900, 29_200)
	y.AdditionalAgedBlind = dollarsByStatus(1_950, 1_550, 1_550, 1_950, 1_550)
	y.DependentFilerMinimum = core.Dollars(1_300)
	y.DependentFilerEarnedAdd = core.Dollars(450)

	y.ZeroRateTop = dollarsByStatus(47_025, 94_050, 47_025, 63_000, 94_050)
	y.FifteenRateTop = dollarsByStatus(518_900, 583_750, 291_850, 551_350, 583_750)

	y.SE.WageBase = core.Dollars(168_600)

	y.QBI = QBI{
		Rate:         200_000,
		Threshold:    dollarsByStatus(191_950, 383_900, 191_950, 191_950, 191_950),
		PhaseInRange: dollarsByStatus(50_000, 100_000, 50_000, 50_000, 50_000),
	}

	y.EIC = EarnedIncomeCredit{
		Bands: [4]EICBand{
			eicChildless(8_260, 632, 10_330, 17_250),
			eicWithChildren(12_390, 4_213, 340_000, 159_800, 22_720, 29_640),
			eicWithChildren(17_400, 6_960, 400_000, 210_600, 22_720, 29_640),
			eicWithChildren(17_400, 7_830, 450_000, 210_600, 22_720, 29_640),
		},
		InvestmentLimit: core.Dollars(11_600),
		MinAgeChildless: 25,
		MaxAgeChildless: 64,
	}

	y.Savers = Savers{
		Tiers: saversTiers(
			[3]int64{46_000, 50_000, 76_500},
			[3]int64{34_500, 37_500, 57_375},
			[3]int64{23_000, 25_000, 38_250},
		),
		ContributionCap: core.Dollars(2_000),
	}

	y.SALT = SALT{
		Cap: dollarsByStatus(10_000, 10_000, 5_000, 10_000, 10_000),
	}

	y.StudentLoan = StudentLoan{
		Cap:           core.Dollars(2_500),
		PhaseOutStart: dollarsByStatus(80_000, 165_000, 0, 80_000, 80_000),
		PhaseOutRange: dollarsByStatus(15_000, 30_000, 0, 15_000, 15_000),
	}
	return y
}
