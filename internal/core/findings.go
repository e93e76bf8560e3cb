package core

import "fmt"

// Severity classifies a Finding. Findings never abort a computation; the caller
// decides whether a warning blocks filing.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Finding is a non-fatal observation about the input data or a statutory
// limit that was applied.
type Finding struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Field    string   `json:"field,omitempty"`
}

// Finding codes. The string values are part of the wire contract; do not rename.
const (
	CodeInvalidField             = "invalid_field"
	CodeQualifiedExceedsTotal    = "qualified_dividends_exceed_total"
	CodeGuaranteedPaymentsEntity = "guaranteed_payments_non_partnership"
	CodeUnmodeledK1Box           = "k1_unmodeled_box"
	CodeSuspendedPassiveLoss     = "passive_loss_suspended"
	CodeCapitalLossCarryover     = "capital_loss_carryover"
	CodeCharitableCarryover      = "charitable_carryover"
	CodeQBILossCarryforward      = "qbi_loss_carryforward"
	CodeQBIWageLimitAssumed      = "qbi_wage_limit_assumed_zero"
	CodeMortgageDateMissing      = "mortgage_origination_missing"
	CodeNECWithoutScheduleC      = "nec_without_schedule_c"
	CodeEICInvestmentIncome      = "eic_investment_income_limit"
	CodeEICAgeUnknown            = "eic_age_unknown"
	CodeDependentMissingSSN      = "dependent_missing_ssn"
	CodeStateModuleMissing       = "state_module_missing"
	CodeNonresidentSourceIncome  = "nonresident_source_income_not_modeled"
	CodeStateSupplementalSkipped = "state_supplemental_tax_not_modeled"
	CodeTraceGraphInvalid        = "trace_graph_invalid"
	CodeHoldingPeriodUnknown     = "holding_period_unknown"
)

// Findings accumulates findings in emission order.
type Findings struct {
	items []Finding
}

// Add appends a finding.
func (f *Findings) Add(code string, sev Severity, field, format string, args ...any) {
	f.items = append(f.items, Finding{Code: code, Severity: sev, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Info appends an info finding.
func (f *Findings) Info(code, field, format string, args ...any) {
	f.Add(code, SeverityInfo, field, format, args...)
}

// Warn appends a warning finding.
func (f *Findings) Warn(code, field, format string, args ...any) {
	f.Add(code, SeverityWarning, field, format, args...)
}

// Append merges already-built findings.
func (f *Findings) Append(items ...Finding) { f.items = append(f.items, items...) }

// List returns a copy of the accumulated findings; never nil.
func (f *Findings) List() []Finding {
	out := make([]Finding, len(f.items))
	copy(out, f.items)
	return out
}

// Len returns the number of accumulated findings.
func (f *Findings) Len() int { return len(f.items) }

// HasCode reports whether any finding in list carries code.
func HasCode(list []Finding, code string) bool {
	for _, it := range list {
		if it.Code == code {
			return true
		}
	}
	return false
}
