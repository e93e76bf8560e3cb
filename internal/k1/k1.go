// Package k1 consolidates Schedule K-1 passthrough allocations into federal
// line buckets and applies the passive-activity rental-loss allowance.
//
// Everything here is a pure function of its inputs; the aggregate is rebuilt
// on every compute and never persisted.
package k1

import (
	"fmt"

	"taxengine/internal/core"
)

// Totals are the income fields summed across entities.
type Totals struct {
	OrdinaryIncome         core.Cents `json:"ordinaryIncome"`
	RentalIncome           core.Cents `json:"rentalIncome"`
	InterestIncome         core.Cents `json:"interestIncome"`
	DividendIncome         core.Cents `json:"dividendIncome"`
	QualifiedDividends     core.Cents `json:"qualifiedDividends"`
	ShortTermCapitalGain   core.Cents `json:"shortTermCapitalGain"`
	LongTermCapitalGain    core.Cents `json:"longTermCapitalGain"`
	Section199AQBI         core.Cents `json:"section199AQBI"`
	GuaranteedPayments     core.Cents `json:"guaranteedPayments"`
	SelfEmploymentEarnings core.Cents `json:"selfEmploymentEarnings"`
	// SEBase is the sum of per-entity SE bases (see SEBase).
	SEBase core.Cents `json:"seBase"`
}

func (t *Totals) add(k core.ScheduleK1) {
	t.OrdinaryIncome += k.OrdinaryIncome
	t.RentalIncome += k.RentalIncome
	t.InterestIncome += k.InterestIncome
	t.DividendIncome += k.DividendIncome
	t.QualifiedDividends += k.QualifiedDividends
	t.ShortTermCapitalGain += k.ShortTermCapitalGain
	t.LongTermCapitalGain += k.LongTermCapitalGain
	t.Section199AQBI += k.Section199AQBI
	t.GuaranteedPayments += k.GuaranteedPayments
	t.SelfEmploymentEarnings += k.SelfEmploymentEarnings
	t.SEBase += SEBase(k)
}

// Entity is one K-1 in the per-entity breakdown.
type Entity struct {
	Index      int             `json:"index"`
	EntityName string          `json:"entityName"`
	EntityType core.EntityType `json:"entityType"`
	// SubjectToSE is false for entities that report neither guaranteed
	// payments nor Box-14 SE earnings.
	SubjectToSE bool       `json:"subjectToSE"`
	SEBase      core.Cents `json:"seBase"`
	Totals      Totals     `json:"totals"`
}

// AggregateResult is the per-entity breakdown plus the aggregate totals.
type AggregateResult struct {
	Entities []Entity `json:"entities"`
	Totals   Totals   `json:"totals"`
}

// HasActivity reports whether any entity contributed.
func (r AggregateResult) HasActivity() bool { return len(r.Entities) > 0 }

// Aggregate sums each income field across k1s, keeping input order in the
// breakdown.
func Aggregate(k1s []core.ScheduleK1) AggregateResult {
	res := AggregateResult{Entities: make([]Entity, 0, len(k1s))}
	for i, k := range k1s {
		var own Totals
		own.add(k)
		base := SEBase(k)
		res.Entities = append(res.Entities, Entity{
			Index:       i,
			EntityName:  k.EntityName,
			EntityType:  k.EntityType,
			SubjectToSE: base != 0,
			SEBase:      base,
			Totals:      own,
		})
		res.Totals.add(k)
	}
	return res
}

// SEBase returns the amount a K-1 contributes to Schedule SE.
//
// Box-14 SE earnings already include guaranteed payments when the entity
// reports them, so guaranteed payments are used only as the fallback. Only
// partnerships generate SE income; S-corp and trust allocations never do.
func SEBase(k core.ScheduleK1) core.Cents {
	switch k.EntityType {
	case core.EntityPartnership:
		if k.SelfEmploymentEarnings != 0 {
			return k.SelfEmploymentEarnings
		}
		return k.GuaranteedPayments
	case core.EntitySCorp, core.EntityTrustEstate:
		return 0
	default:
		return 0
	}
}

// Validate reports the data-shape problems Aggregate tolerates.
func Validate(k1s []core.ScheduleK1) []core.Finding {
	var f core.Findings
	for i, k := range k1s {
		field := fmt.Sprintf("k1s[%d]", i)
		name := k.EntityName
		if name == "" {
			name = field
		}
		if k.QualifiedDividends > k.DividendIncome {
			f.Warn(core.CodeQualifiedExceedsTotal, field+".qualifiedDividends",
				"%s: qualified dividends %s exceed total dividends %s; qualified amount limited to total",
				name, k.QualifiedDividends, k.DividendIncome)
		}
		if k.GuaranteedPayments != 0 && k.EntityType != core.EntityPartnership {
			f.Warn(core.CodeGuaranteedPaymentsEntity, field+".guaranteedPayments",
				"%s: guaranteed payments reported by a %s; excluded from self-employment tax",
				name, k.EntityType)
		}
		for _, box := range k.OtherBoxes {
			f.Info(core.CodeUnmodeledK1Box, field+".otherBoxes",
				"%s: box %s is not modeled and was ignored", name, box)
		}
	}
	return f.List()
}
