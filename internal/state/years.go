package state

import (
	"sort"

	"taxengine/internal/core"
	"taxengine/internal/federal"
	"taxengine/internal/taxtable"
)

// ForYear returns every state module for year, or false when the year has
// no state tables.
func ForYear(year int) ([]Module, bool) {
	if year != 2024 && year != 2025 {
		return nil, false
	}
	mods := append([]Module{},
		california(year), newYork(year), maine(year), newMexico(year), delaware(year),
		illinois(year), pennsylvania(), michigan(year), indiana(year), colorado(year),
		northCarolina(year), utah(year), arizona(), georgia(year), kentucky(year),
		massachusetts(year), idaho(year), ohio(year),
	)
	for _, c := range []Code{AK, FL, NV, SD, TN, TX, WA, WY} {
		mods = append(mods, NewNoTax(c))
	}
	if year == 2024 {
		mods = append(mods, NewInterestDividends(30_000, core.JointSplit(core.Dollars(4_800), core.Dollars(2_400))))
	} else {
		mods = append(mods, NewNoTax(NH))
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Code() < mods[j].Code() })
	return mods, true
}

func pick[T any](year int, y2024, y2025 T) T {
	if year == 2024 {
		return y2024
	}
	return y2025
}

func flat(rate core.Rate) core.ByStatus[taxtable.Schedule] { return core.Uniform(taxtable.Flat(rate)) }

func dollarsByStatus(single, mfj, mfs, hoh, qw int64) core.ByStatus[core.Cents] {
	return core.ByStatus[core.Cents]{
		Single: core.Dollars(single), MFJ: core.Dollars(mfj), MFS: core.Dollars(mfs),
		HOH:    core.Dollars(hoh), QW: core.Dollars(qw),
	}
}

func doubled(breaks []int64) []int64 {
	out := make([]int64, len(breaks))
	for i, b := range breaks {
		out[i] = 2 * b
	}
	return out
}

func california(year int) Module {
	rates := []core.Rate{10_000, 20_000, 40_000, 60_000, 80_000, 93_000, 103_000, 113_000, 123_000}
	single := pick(year,
		[]int64{10_756, 25_499, 40_245, 55_866, 70_606, 360_659, 432_787, 721_314},
		[]int64{11_079, 26_264, 41_452, 57_542, 72_724, 371_479, 445_771, 742_953})
	hoh := pick(year,
		[]int64{21_527, 51_000, 65_744, 81_364, 96_107, 490_493, 588_593, 980_987},
		[]int64{22_173, 52_530, 67_716, 83_805, 98_990, 505_208, 606_251, 1_010_417})
	joint := taxtable.Dollars(doubled(single), rates...)
	std := pick(year, [2]int64{5_540, 11_080}, [2]int64{5_706, 11_412})
	credit := core.Dollars(pick[int64](year, 149, 153))
	threshold := pick(year, [3]int64{244_857, 367_291, 489_719}, [3]int64{252_203, 378_310, 504_411})

	return NewTable(Params{
		Code:                  CA,
		ExcludeSocialSecurity: true,
		ExcludeUSBondInterest: true,
		Schedules: core.ByStatus[taxtable.Schedule]{
			Single: taxtable.Dollars(single, rates...),
			MFJ:    joint,
			MFS:    taxtable.Dollars(single, rates...),
			HOH:    taxtable.Dollars(hoh, rates...),
			QW:     joint,
		},
		Surtax:            &Surtax{Threshold: core.Uniform(core.Dollars(1_000_000)), Rate: 10_000},
		StandardDeduction: dollarsByStatus(std[0], std[1], std[0], std[1], std[1]),
		Itemized:          californiaItemized,
		PersonalCredit:    core.ByStatus[core.Cents]{Single: credit, MFJ: 2 * credit, MFS: credit, HOH: credit, QW: 2 * credit},
		DependentCredit:   core.Dollars(pick[int64](year, 461, 475)),
		CreditPhaseOut: &CreditPhaseOut{
			Threshold: dollarsByStatus(threshold[0], threshold[2], threshold[0], threshold[1], threshold[2]),
			Step:      dollarsByStatus(2_500, 2_500, 1_250, 2_500, 2_500),
			PerStep:   core.Dollars(6),
		},
		Apportion: ScaleTax,
	})
}

// californiaItemized follows federal Schedule A without the SALT cap and
// without state income or sales taxes.
func californiaItemized(tr *core.TaxReturn, fed *federal.Form1040Result) core.Cents {
	a, in := fed.ScheduleA, tr.Deductions.Itemized
	if a == nil || in == nil {
		return 0
	}
	return a.Medical + in.RealEstateTax + in.PersonalPropertyTax + a.MortgageInterest + a.Charitable + a.Other
}

func newYork(int) Module {
	rates := []core.Rate{40_000, 45_000, 52_500, 55_000, 60_000, 68_500, 96_500, 103_000, 109_000}
	single := taxtable.Dollars([]int64{8_500, 11_700, 13_900, 80_650, 215_400, 1_077_550, 5_000_000, 25_000_000}, rates...)
	joint := taxtable.Dollars([]int64{17_150, 23_600, 27_900, 161_550, 323_200, 2_155_350, 5_000_000, 25_000_000}, rates...)
	hoh := taxtable.Dollars([]int64{12_800, 17_650, 20_900, 107_650, 269_300, 1_616_450, 5_000_000, 25_000_000}, rates...)
	return NewTable(Params{
		Code:                  NY,
		ExcludeSocialSecurity: true,
		ExcludeUSBondInterest: true,
		Schedules:             core.ByStatus[taxtable.Schedule]{Single: single, MFJ: joint, MFS: single, HOH: hoh, QW: joint},
		StandardDeduction:     dollarsByStatus(8_000, 16_050, 8_000, 11_200, 16_050),
		DependentExemption:    core.Dollars(1_000),
		Apportion:             ScaleTax,
		SupplementalAbove:     core.Dollars(107_650),
	})
}

func maine(year int) Module {
	rates := []core.Rate{58_000, 67_500, 71_500}
	single := pick(year, []int64{26_050, 61_600}, []int64{26_800, 63_450})
	joint := pick(year, []int64{52_100, 123_250}, []int64{53_600, 126_900})
	hoh := pick(year, []int64{39_050, 92_450}, []int64{40_200, 95_150})
	return NewTable(Params{
		Code:                  ME,
		ExcludeSocialSecurity: true,
		Schedules: core.ByStatus[taxtable.Schedule]{
			Single: taxtable.Dollars(single, rates...),
			MFJ:    taxtable.Dollars(joint, rates...),
			MFS:    taxtable.Dollars(single, rates...),
			HOH:    taxtable.Dollars(hoh, rates...),
			QW:     taxtable.Dollars(joint, rates...),
		},
		FederalStandardDeduction: true,
		PersonalExemption:        dollarsPerFiler(pick[int64](year, 5_000, 5_150)),
		DependentCredit:          core.Dollars(300),
		Apportion:                ScaleTax,
	})
}

func newMexico(year int) Module {
	var single, joint, separate taxtable.Schedule
	if year == 2024 {
		rates := []core.Rate{17_000, 32_000, 47_000, 49_000, 59_000}
		single = taxtable.Dollars([]int64{5_500, 11_000, 16_000, 210_000}, rates...)
		joint = taxtable.Dollars([]int64{8_000, 16_000, 24_000, 315_000}, rates...)
		separate = taxtable.Dollars([]int64{4_000, 8_000, 12_000, 157_500}, rates...)
	} else {
		rates := []core.Rate{15_000, 32_000, 43_000, 47_000, 49_000, 59_000}
		single = taxtable.Dollars([]int64{5_500, 16_500, 33_500, 66_500, 210_000}, rates...)
		joint = taxtable.Dollars([]int64{8_000, 25_000, 50_000, 100_000, 315_000}, rates...)
		separate = taxtable.Dollars([]int64{4_000, 12_500, 25_000, 50_000, 157_500}, rates...)
	}
	ssLimit := dollarsByStatus(100_000, 150_000, 75_000, 150_000, 150_000)
	return NewTable(Params{
		Code:                     NM,
		SocialSecurityExemptUpTo: &ssLimit,
		Schedules: core.ByStatus[taxtable.Schedule]{
			Single: single, MFJ: joint, MFS: separate, HOH: joint, QW: joint,
		},
		FederalStandardDeduction: true,
		Apportion:                ScaleTax,
	})
}

func delaware(int) Module {
	sched := taxtable.Dollars([]int64{2_000, 5_000, 10_000, 20_000, 25_000, 60_000},
		0, 22_000, 39_000, 48_000, 52_000, 55_500, 66_000)
	return NewTable(Params{
		Code:                  DE,
		ExcludeSocialSecurity: true,
		Schedules:             core.Uniform(sched),
		StandardDeduction:     dollarsByStatus(3_250, 6_500, 3_250, 3_250, 6_500),
		PersonalCredit:        dollarsPerFiler(110),
		DependentCredit:       core.Dollars(110),
		Apportion:             ScaleTax,
	})
}

func illinois(year int) Module {
	exemption := pick[int64](year, 2_775, 2_850)
	limit := dollarsByStatus(250_000, 500_000, 250_000, 250_000, 250_000)
	return NewTable(Params{
		Code:                  IL,
		ExcludeSocialSecurity: true,
		Schedules:             flat(49_500),
		PersonalExemption:     dollarsPerFiler(exemption),
		DependentExemption:    core.Dollars(exemption),
		ExemptionAGILimit:     &limit,
	})
}

func pennsylvania() Module {
	return NewTable(Params{Code: PA, Base: BaseIncomeClasses, Schedules: flat(30_700)})
}

func michigan(year int) Module {
	exemption := pick[int64](year, 5_600, 5_800)
	return NewTable(Params{
		Code:                  MI,
		ExcludeSocialSecurity: true,
		Schedules:             flat(42_500),
		PersonalExemption:     dollarsPerFiler(exemption),
		DependentExemption:    core.Dollars(exemption),
	})
}

func indiana(year int) Module {
	return NewTable(Params{
		Code:                  IN,
		ExcludeSocialSecurity: true,
		Schedules:             flat(pick[core.Rate](year, 30_500, 30_000)),
		PersonalExemption:     dollarsPerFiler(1_000),
		DependentExemption:    core.Dollars(1_000),
	})
}

func colorado(year int) Module {
	return NewTable(Params{Code: CO, Base: BaseFederalTaxable, Schedules: flat(pick[core.Rate](year, 42_500, 44_000))})
}

func northCarolina(year int) Module {
	return NewTable(Params{
		Code:                  NC,
		ExcludeSocialSecurity: true,
		Schedules:             flat(pick[core.Rate](year, 45_000, 42_500)),
		StandardDeduction:     dollarsByStatus(12_750, 25_500, 12_750, 19_125, 25_500),
	})
}

func utah(year int) Module {
	return NewTable(Params{Code: UT, Schedules: flat(pick[core.Rate](year, 45_500, 45_000))})
}

func arizona() Module {
	return NewTable(Params{
		Code:                     AZ,
		ExcludeSocialSecurity:    true,
		Schedules:                flat(25_000),
		FederalStandardDeduction: true,
	})
}

func georgia(year int) Module {
	return NewTable(Params{
		Code:                  GA,
		ExcludeSocialSecurity: true,
		Schedules:             flat(pick[core.Rate](year, 53_900, 51_900)),
		StandardDeduction:     dollarsByStatus(12_000, 24_000, 12_000, 12_000, 24_000),
		DependentExemption:    core.Dollars(4_000),
	})
}

func kentucky(year int) Module {
	return NewTable(Params{
		Code:                  KY,
		ExcludeSocialSecurity: true,
		Schedules:             flat(pick[core.Rate](year, 40_000, 35_000)),
		StandardDeduction:     core.Uniform(core.Dollars(pick[int64](year, 3_160, 3_270))),
	})
}

func massachusetts(year int) Module {
	return NewTable(Params{
		Code:                  MA,
		ExcludeSocialSecurity: true,
		ExcludeUSBondInterest: true,
		Schedules:             flat(50_000),
		Surtax: &Surtax{
			Threshold: core.Uniform(core.Dollars(pick[int64](year, 1_053_750, 1_083_150))),
			Rate:      40_000,
		},
		PersonalExemption:  dollarsByStatus(4_400, 8_800, 4_400, 6_800, 8_800),
		DependentExemption: core.Dollars(1_000),
	})
}

func idaho(year int) Module {
	zero := pick[int64](year, 4_673, 4_811)
	rate := pick[core.Rate](year, 56_950, 53_000)
	single := taxtable.Dollars([]int64{zero}, 0, rate)
	joint := taxtable.Dollars([]int64{2 * zero}, 0, rate)
	return NewTable(Params{
		Code:                     ID,
		ExcludeSocialSecurity:    true,
		Schedules:                core.ByStatus[taxtable.Schedule]{Single: single, MFJ: joint, MFS: single, HOH: joint, QW: joint},
		FederalStandardDeduction: true,
	})
}

func ohio(year int) Module {
	top := pick[core.Rate](year, 35_000, 31_250)
	first := core.Cents(pick[int64](year, 36_069, 33_271))
	second := core.Cents(pick[int64](year, 239_432, 236_634))
	return newOhio(
		[]notch{
			{Over: 0},
			{Over: core.Dollars(26_050), Base: first, Rate: 27_500},
			{Over: core.Dollars(100_000), Base: second, Rate: top},
		},
		[]exemptionTier{
			{UpTo: core.Dollars(40_000), Amount: core.Dollars(2_400)},
			{UpTo: core.Dollars(80_000), Amount: core.Dollars(2_150)},
			{UpTo: core.Dollars(750_000), Amount: core.Dollars(1_900)},
		},
	)
}
