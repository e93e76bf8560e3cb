package taxtable

import "taxengine/internal/core"

// Y2025 returns the 2025 federal constants (Rev. Proc. 2024-40), with the
// $40,000 SALT cap that phases down by 30% of MAGI over $500,000 to a $10,000
// floor.
func Y2025() Year {
	y := base(2025)

	y.Ordinary = core.ByStatus[Schedule]{
		Single: ordinary(11_925, 48_475, 103_350, 197_300, 250_525, 626_350),
		MFJ:    ordinary(23_850, 96_950, 206_700, 394_600, 501_050, 751_600),
		MFS:    ordinary(11_925, 48_475, 103_350, 197_300, 250_525, 375_800),
		HOH:    ordinary(17_000, 64_850, 103_350, 197_300, 250_500, 626_350),
		QW:     ordinary(23_850, 96_950, 206_700, 394_600, 501_050, 751_600),
	}

	y.StandardDeduction = dollarsByStatus(15_000, 30_000, 15_000, 22_500, 30_000)
	y.AdditionalAgedBlind = dollarsByStatus(2_000, 1_600, 1_600, 2_000, 1_600)
	y.DependentFilerMinimum = core.Dollars(1_350)
	y.DependentFilerEarnedAdd = core.Dollars(450)

	y.ZeroRateTop = dollarsByStatus(48_350, 96_700, 48_350, 64_750, 96_700)
	y.FifteenRateTop = dollarsByStatus(533_400, 600_050, 300_000, 566_700, 600_050)

	y.SE.WageBase = core.Dollars(176_100)

	y.QBI = QBI{
		Rate:         200_000,
		Threshold:    dollarsByStatus(197_300, 394_600, 197_300, 197_300, 197_300),
		PhaseInRange: dollarsByStatus(50_000, 100_000, 50_000, 50_000, 50_000),
	}

	y.EIC = EarnedIncomeCredit{
		Bands: [4]EICBand{
			eicChildless(8_490, 649, 10_620, 17_730),
			eicWithChildren(12_730, 4_328, 340_000, 159_800, 23_350, 30_470),
			eicWithChildren(17_880, 7_152, 400_000, 210_600, 23_350, 30_470),
			eicWithChildren(17_880, 8_046, 450_000, 210_600, 23_350, 30_470),
		},
		InvestmentLimit: core.Dollars(11_950),
		MinAgeChildless: 25,
		MaxAgeChildless: 64,
	}

	y.Savers = Savers{
		Tiers: saversTiers(
			[3]int64{47_500, 51_000, 79_000},
			[3]int64{35_625, 38_250, 59_250},
			[3]int64{23_750, 25_500, 39_500},
		),
		ContributionCap: core.Dollars(2_000),
	}

	y.SALT = SALT{
		Cap:               dollarsByStatus(40_000, 40_000, 20_000, 40_000, 40_000),
		PhaseOutThreshold: dollarsByStatus(500_000, 500_000, 250_000, 500_000, 500_000),
		PhaseOutRate:      300_000,
		Floor:             dollarsByStatus(10_000, 10_000, 5_000, 10_000, 10_000),
	}

	y.StudentLoan = StudentLoan{
		Cap:           core.Dollars(2_500),
		PhaseOutStart: dollarsByStatus(85_000, 170_000, 0, 85_000, 85_000),
		PhaseOutRange: dollarsByStatus(15_000, 30_000, 0, 15_000, 15_000),
	}
	return y
}
