// Package gap scores how ready a return is to file.
//
// Analyze is a pure function of the return and its computed result. It
// lists what is still missing, weights required and recommended slots into a
// completion percentage, and suggests the next thing to fill in.
package gap

import (
	"fmt"
	"strings"

	"taxengine/internal/core"
	"taxengine/internal/engine"
)

// Priority ranks a checklist item.
type Priority string

const (
	Required    Priority = "required"
	Recommended Priority = "recommended"
	// Optional items are listed but never affect the score.
	Optional Priority = "optional"
)

// Categories.
const (
	CategoryTaxpayer     = "taxpayer"
	CategorySpouse       = "spouse"
	CategoryFilingStatus = "filing_status"
	CategoryIncome       = "income"
	CategoryPayments     = "payments"
	CategoryDeductions   = "deductions"
	CategoryDependents   = "dependents"
)

const (
	requiredWeight    = 10
	recommendedWeight = 3
	maxRecommended    = 2
)

var nextActions = map[string]string{
	CategoryTaxpayer:     "Complete your personal information",
	CategorySpouse:       "Add your spouse's name and SSN",
	CategoryFilingStatus: "Confirm your filing status",
	CategoryIncome:       "Add your income documents (W-2, 1099, K-1)",
	CategoryPayments:     "Add federal withholding or estimated payments",
	CategoryDeductions:   "Complete your itemized deduction details",
	CategoryDependents:   "Add missing dependent information",
}

// ReadyMessage is the suggested action once nothing required or
// recommended is outstanding.
const ReadyMessage = "Your return is ready to review"

// Item is one outstanding checklist entry.
type Item struct {
	Category string   `json:"category"`
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	Priority Priority `json:"priority"`
}

// Result is the readiness report.
type Result struct {
	Items               []Item         `json:"items"`
	CompletionPercent   int            `json:"completionPercent"`
	ReadyToFile         bool           `json:"readyToFile"`
	Warnings            []core.Finding `json:"warnings"`
	NextSuggestedAction string         `json:"nextSuggestedAction"`
	RequiredTotal       int            `json:"requiredTotal"`
	RequiredComplete    int            `json:"requiredComplete"`
	RecommendedTotal    int            `json:"recommendedTotal"`
	RecommendedComplete int            `json:"recommendedComplete"`
}

type checklist struct {
	items       []Item
	required    int
	requiredOK  int
	recommended int
	recomOK     int
}

func (c *checklist) check(ok bool, p Priority, category, field, label string) {
	switch p {
	case Required:
		c.required++
		if ok {
			c.requiredOK++
		}
	case Recommended:
		c.recommended++
		if ok {
			c.recomOK++
		}
	}
	if !ok {
		c.items = append(c.items, Item{Category: category, Field: field, Label: label, Priority: p})
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Analyze scores tr. res may be nil when the return has not been computed;
// the withholding check then treats nothing as owed.
func Analyze(tr *core.TaxReturn, res *engine.ComputeResult) Result {
	if tr == nil {
		tr = &core.TaxReturn{}
	}
	var c checklist

	p := tr.Taxpayer
	c.check(!blank(p.FirstName) && !blank(p.LastName), Required, CategoryTaxpayer, "taxpayer.name", "Taxpayer name")
	c.check(!blank(p.SSN), Required, CategoryTaxpayer, "taxpayer.ssn", "Taxpayer SSN")
	c.check(!blank(p.Address.Street), Required, CategoryTaxpayer, "taxpayer.address.street", "Street address")
	c.check(!blank(p.Address.City), Required, CategoryTaxpayer, "taxpayer.address.city", "City")
	c.check(!blank(p.Address.State), Required, CategoryTaxpayer, "taxpayer.address.state", "State")
	c.check(!blank(p.Address.Zip), Required, CategoryTaxpayer, "taxpayer.address.zip", "ZIP code")
	c.check(tr.FilingStatusConfirmed, Required, CategoryFilingStatus, "filingStatusConfirmed", "Confirm filing status")
	c.check(tr.HasIncomeDocuments(), Required, CategoryIncome, "income", "At least one income document")

	if tr.FilingStatus.Joint() {
		var s core.Person
		if tr.Spouse != nil {
			s = *tr.Spouse
		}
		c.check(!blank(s.FirstName), Required, CategorySpouse, "spouse.firstName", "Spouse first name")
		c.check(!blank(s.LastName), Required, CategorySpouse, "spouse.lastName", "Spouse last name")
		c.check(!blank(s.SSN), Required, CategorySpouse, "spouse.ssn", "Spouse SSN")
	}

	c.check(withholdingCovered(tr, res), Recommended, CategoryPayments, "w2s.federalWithheld",
		"Withholding or estimated payments toward the balance due")
	c.check(itemizedComplete(tr, res), Recommended, CategoryDeductions, "deductions.itemized",
		"Itemized deduction details, including mortgage principal")

	c.check(!blank(p.DateOfBirth), Optional, CategoryTaxpayer, "taxpayer.dateOfBirth", "Taxpayer date of birth")
	c.check(!blank(p.Occupation), Optional, CategoryTaxpayer, "taxpayer.occupation", "Taxpayer occupation")
	for i, d := range tr.Dependents {
		c.check(!blank(d.SSN), Optional, CategoryDependents, fmt.Sprintf("dependents[%d].ssn", i), "Dependent SSN")
	}

	out := Result{
		Items:               c.items,
		ReadyToFile:         c.requiredOK == c.required,
		Warnings:            warnings(res),
		RequiredTotal:       c.required,
		RequiredComplete:    c.requiredOK,
		RecommendedTotal:    c.recommended,
		RecommendedComplete: c.recomOK,
	}
	if out.Items == nil {
		out.Items = []Item{}
	}
	total := int64(requiredWeight*c.required + recommendedWeight*maxRecommended)
	done := int64(requiredWeight*c.requiredOK + recommendedWeight*c.recomOK)
	out.CompletionPercent = int(core.RoundHalfAwayFromZero(100*done, total))
	out.NextSuggestedAction = nextAction(c.items)
	return out
}

// withholdingCovered holds unless the result shows a balance due with no
// withholding and no estimated payments toward it.
func withholdingCovered(tr *core.TaxReturn, res *engine.ComputeResult) bool {
	if res == nil || res.Form1040.AmountOwed <= 0 {
		return true
	}
	return res.Form1040.TotalWithholding > 0 || len(tr.EstimatedPayments) > 0
}

// itemizedComplete holds for non-itemizers, and for itemizers whose detail
// is present with principal on every mortgage.
func itemizedComplete(tr *core.TaxReturn, res *engine.ComputeResult) bool {
	itemizing := tr.Deductions.Method == core.DeductionItemized
	if res != nil && res.Form1040.DeductionMethod == core.DeductionItemized {
		itemizing = true
	}
	if !itemizing {
		return true
	}
	in := tr.Deductions.Itemized
	if in == nil {
		return false
	}
	for _, m := range in.Mortgages {
		if m.OutstandingPrincipal <= 0 {
			return false
		}
	}
	return true
}

func warnings(res *engine.ComputeResult) []core.Finding {
	out := []core.Finding{}
	if res == nil {
		return out
	}
	return append(out, res.Warnings()...)
}

func nextAction(items []Item) string {
	for _, p := range []Priority{Required, Recommended} {
		for _, it := range items {
			if it.Priority == p {
				return nextActions[it.Category]
			}
		}
	}
	return ReadyMessage
}
