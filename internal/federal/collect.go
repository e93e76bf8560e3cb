package federal

import (
	"fmt"

	"taxengine/internal/trace"
)

// Trace node IDs for the Form 1040 lines other packages reference.
const (
	NodeWages           = "f1040.line1z"
	NodeTaxableInterest = "f1040.line2b"
	NodeDividends       = "f1040.line3b"
	NodeCapitalGain     = "f1040.line7"
	NodeTotalIncome     = "f1040.line9"
	NodeAdjustments     = "f1040.line10"
	NodeAGI             = "f1040.line11"
	NodeDeduction       = "f1040.line12"
	NodeQBIDeduction    = "f1040.line13"
	NodeTaxableIncome   = "f1040.line15"
	NodeTax             = "f1040.line16"
	NodeTotalCredits    = "f1040.line21"
	NodeTotalTax        = "f1040.line24"
	NodeWithholding     = "f1040.line25d"
	NodeTotalPayments   = "f1040.line33"
	NodeRefund          = "f1040.line35a"
	NodeAmountOwed      = "f1040.line37"
)

// CollectTracedValues builds the explanation graph of one result. Optional
// lines appear only when non-zero; inputs naming a skipped line are dropped.
func CollectTracedValues(r *Form1040Result) (*trace.Values, error) {
	b := trace.NewBuilder()

	b.AddNonZero(r.Wages, NodeWages, "Wages, salaries, tips")

	sb := r.ScheduleB
	b.AddNonZero(sb.TotalInterest, "schB.line4", "Schedule B taxable interest")
	b.AddNonZero(sb.TotalDividends, "schB.line6", "Schedule B ordinary dividends")
	b.AddNonZero(r.TaxExemptInterest, "f1040.line2a", "Tax-exempt interest")
	b.AddNonZero(r.TaxableInterest, NodeTaxableInterest, "Taxable interest", "schB.line4")
	b.AddNonZero(r.QualifiedDividends, "f1040.line3a", "Qualified dividends", "schB.line6")
	b.AddNonZero(r.OrdinaryDividends, NodeDividends, "Ordinary dividends", "schB.line6")

	for i, c := range r.ScheduleC {
		b.Add(c.NetProfit, fmt.Sprintf("schC[%d].line31", i), "Schedule C net profit: "+c.Name)
	}
	var cIDs []string
	for i := range r.ScheduleC {
		cIDs = append(cIDs, fmt.Sprintf("schC[%d].line31", i))
	}
	b.AddIf(len(r.ScheduleC) > 0, r.Schedule1.BusinessIncome, "sch1.line3", "Business income", cIDs...)
	b.AddNonZero(r.K1.Totals.SEBase, "k1.seBase", "K-1 self-employment earnings")
	b.AddNonZero(r.ScheduleSE.NetEarnings, "schSE.line6", "Net earnings from self-employment", "sch1.line3", "k1.seBase")
	b.AddNonZero(r.ScheduleSE.Tax, "schSE.line12", "Self-employment tax", "schSE.line6")
	b.AddNonZero(r.ScheduleSE.Deduction, "schSE.line13", "Deductible part of SE tax", "schSE.line12")

	if d := r.ScheduleD; d != nil {
		b.Add(d.NetShortTerm, "schD.line7", "Net short-term capital gain or loss")
		b.Add(d.NetLongTerm, "schD.line15", "Net long-term capital gain or loss")
		b.Add(d.Net, "schD.line16", "Net capital gain or loss", "schD.line7", "schD.line15")
		b.AddIf(d.Allowed != d.Net, d.Allowed, "schD.line21", "Allowed capital loss", "schD.line16")
		b.AddNonZero(r.CapitalGain, NodeCapitalGain, "Capital gain or loss", "schD.line16", "schD.line21")
	}
	b.AddNonZero(r.TaxableIRA, "f1040.line4b", "Taxable IRA distributions")
	b.AddNonZero(r.TaxablePensions, "f1040.line5b", "Taxable pensions and annuities")
	b.AddNonZero(r.Schedule1.Unemployment, "sch1.line7", "Unemployment compensation")

	if e := r.ScheduleE; e != nil {
		b.Add(e.PreliminaryAGI, "schE.prelimAGI", "Preliminary AGI for passive-loss allowance",
			NodeWages, NodeTaxableInterest, NodeDividends, "f1040.line4b", "f1040.line5b", NodeCapitalGain,
			"sch1.line3", "sch1.line7", "schSE.line13")
		b.Add(e.Allowance, "schE.allowance", "Rental loss special allowance", "schE.prelimAGI")
		b.Add(e.RentalNet, "schE.rentalNet", "Net rental income or loss")
		b.AddNonZero(e.SuspendedLoss, "schE.suspended", "Suspended passive loss", "schE.rentalNet", "schE.allowance")
		b.Add(e.RentalAllowed, "schE.rentalAllowed", "Allowed rental income or loss",
			"schE.rentalNet", "schE.allowance", "schE.suspended")
		b.AddNonZero(e.K1Nonpassive, "schE.k1Nonpassive", "K-1 nonpassive income")
		b.Add(e.Total, "schE.line41", "Schedule E total", "schE.rentalAllowed", "schE.k1Nonpassive")
		b.AddNonZero(r.Schedule1.RentalIncome, "sch1.line5", "Rental, partnership, S corporation income", "schE.line41")
	}

	if ws := r.SocialSecurityWorksheet; ws != nil {
		b.Add(ws.Benefits, "f1040.line6a", "Social Security benefits")
		b.Add(ws.Provisional, "ssws.provisional", "Provisional income", "f1040.line6a", "f1040.line2a")
		b.AddNonZero(r.TaxableSocialSec, "f1040.line6b", "Taxable Social Security benefits",
			"f1040.line6a", "ssws.provisional")
	}

	b.AddNonZero(r.AdditionalIncome, "sch1.line10", "Additional income", "sch1.line3", "sch1.line5", "sch1.line7")
	b.Add(r.TotalIncome, NodeTotalIncome, "Total income",
		NodeWages, NodeTaxableInterest, NodeDividends, "f1040.line4b", "f1040.line5b", "f1040.line6b",
		NodeCapitalGain, "sch1.line10")

	s1 := r.Schedule1
	b.AddNonZero(s1.StudentLoanInterest, "sch1.line21", "Student loan interest deduction", NodeTotalIncome)
	b.AddNonZero(r.Adjustments, NodeAdjustments, "Adjustments to income", "schSE.line13", "sch1.line21")
	b.Add(r.AGI, NodeAGI, "Adjusted gross income", NodeTotalIncome, NodeAdjustments)

	if a := r.ScheduleA; a != nil {
		b.AddNonZero(a.Medical, "schA.line4", "Medical and dental expenses", NodeAGI)
		b.AddNonZero(a.SALT, "schA.line5e", "State and local taxes", NodeAGI)
		b.AddNonZero(a.MortgageInterest, "schA.line8", "Home mortgage interest")
		b.AddNonZero(a.Charitable, "schA.line14", "Gifts to charity", NodeAGI)
		b.Add(a.Total, "schA.line17", "Total itemized deductions", "schA.line4", "schA.line5e", "schA.line8", "schA.line14")
		b.Add(r.Deduction, NodeDeduction, "Itemized deductions", "schA.line17")
	} else {
		b.Add(r.Deduction, NodeDeduction, "Standard deduction")
	}

	if r.QBIDeduction != 0 || r.QBI.QBI != 0 {
		b.Add(r.QBI.QBI, "f8995.qbi", "Qualified business income", "sch1.line3")
		b.Add(r.QBI.IncomeLimit, "f8995.incomeLimit", "QBI income limitation", NodeAGI, NodeDeduction)
		b.Add(r.QBIDeduction, NodeQBIDeduction, "Qualified business income deduction", "f8995.qbi", "f8995.incomeLimit")
	}
	b.AddNonZero(r.TotalDeductions, "f1040.line14", "Total deductions", NodeDeduction, NodeQBIDeduction)
	b.Add(r.TaxableIncome, NodeTaxableIncome, "Taxable income", NodeAGI, "f1040.line14")

	tc := r.TaxComputation
	if tc.UsedQDCG {
		b.Add(tc.OrdinaryTax, "qdcg.line22", "Tax on ordinary income", NodeTaxableIncome)
		b.Add(tc.PreferentialTax, "qdcg.preferential", "Tax on qualified dividends and capital gain",
			NodeTaxableIncome, "f1040.line3a", NodeCapitalGain)
		b.Add(r.Tax, NodeTax, "Tax", "qdcg.line22", "qdcg.preferential")
	} else {
		b.Add(r.Tax, NodeTax, "Tax", NodeTaxableIncome)
	}

	c := r.Credits
	b.AddNonZero(c.DependentCare, "f2441.line11", "Child and dependent care credit", NodeAGI, NodeTax)
	b.AddNonZero(c.EducationNonrefundable, "f8863.line19", "Nonrefundable education credits", NodeAGI, NodeTax)
	b.AddNonZero(c.Savers, "f8880.line12", "Retirement savings contributions credit", NodeAGI, NodeTax)
	b.AddNonZero(r.ChildTaxCredit, "f1040.line19", "Child tax credit and credit for other dependents", NodeAGI, NodeTax)
	b.AddNonZero(r.OtherCredits, "sch3.line8", "Nonrefundable credits from Schedule 3",
		"f2441.line11", "f8863.line19", "f8880.line12")
	b.AddNonZero(r.TotalCredits, NodeTotalCredits, "Total credits", "f1040.line19", "sch3.line8")
	b.Add(r.TaxAfterCredits, "f1040.line22", "Tax after credits", NodeTax, NodeTotalCredits)

	s2 := r.Schedule2
	b.AddNonZero(s2.AdditionalMedicare, "f8959.line18", "Additional Medicare tax", NodeWages, "schSE.line6")
	b.AddNonZero(s2.NIIT, "f8960.line17", "Net investment income tax", NodeAGI)
	b.AddNonZero(r.OtherTaxes, "sch2.line21", "Other taxes", "schSE.line12", "f8959.line18", "f8960.line17")
	b.Add(r.TotalTax, NodeTotalTax, "Total tax", "f1040.line22", "sch2.line21")

	b.AddNonZero(r.TotalWithholding, NodeWithholding, "Federal income tax withheld")
	b.AddNonZero(r.EstimatedPayments, "f1040.line26", "Estimated tax payments")
	b.AddNonZero(r.EarnedIncomeCredit, "f1040.line27", "Earned income credit", NodeAGI)
	b.AddNonZero(r.AdditionalChildCredit, "f1040.line28", "Additional child tax credit", "f1040.line19")
	b.AddNonZero(r.RefundableEducation, "f1040.line29", "American opportunity credit", NodeAGI)
	b.Add(r.TotalPayments, NodeTotalPayments, "Total payments",
		NodeWithholding, "f1040.line26", "f1040.line27", "f1040.line28", "f1040.line29")
	b.AddNonZero(r.Refund, NodeRefund, "Refund", NodeTotalPayments, NodeTotalTax)
	b.AddNonZero(r.AmountOwed, NodeAmountOwed, "Amount you owe", NodeTotalTax, NodeTotalPayments)

	return b.Values()
}
