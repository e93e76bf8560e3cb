// Package validation checks a TaxReturn before computation.
//
// Nothing here rejects a return. Every struct-tag violation and every
// cross-field inconsistency becomes a warning Finding; the engine computes
// with whatever data it was given.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"taxengine/internal/core"
	"taxengine/internal/state"
)

var (
	ssnPattern = regexp.MustCompile(`^\d{3}-?\d{2}-?\d{4}$`)
	zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

var (
	once     sync.Once
	validate *validator.Validate
)

// instance builds the shared validator with the custom tags registered.
// validator.Validate caches struct metadata and is safe for concurrent use.
func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("ssn", validateSSN)
		_ = v.RegisterValidation("usps", validateUSPS)
		_ = v.RegisterValidation("zip", validateZip)
		validate = v
	})
	return validate
}

// validateSSN accepts nine digits, with or without the usual dashes, and
// rejects the never-issued 000, 666 and 9xx areas.
func validateSSN(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !ssnPattern.MatchString(s) {
		return false
	}
	digits := strings.ReplaceAll(s, "-", "")
	area := digits[:3]
	return area != "000" && area != "666" && area[0] != '9' && digits[3:5] != "00" && digits[5:] != "0000"
}

func validateUSPS(fl validator.FieldLevel) bool {
	_, err := state.ParseCode(fl.Field().String())
	return err == nil
}

func validateZip(fl validator.FieldLevel) bool {
	return zipPattern.MatchString(fl.Field().String())
}

// Check validates tr and returns its findings in a stable order: tag
// violations first, then cross-field checks.
func Check(tr *core.TaxReturn) []core.Finding {
	var f core.Findings
	if tr == nil {
		f.Warn(core.CodeInvalidField, "", "no tax return supplied")
		return f.List()
	}

	if err := instance().Struct(tr); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				f.Warn(core.CodeInvalidField, fieldPath(fe), "%s", describe(fe))
			}
		} else {
			f.Warn(core.CodeInvalidField, "", "validation failed: %v", err)
		}
	}
	crossField(tr, &f)
	return f.List()
}

// fieldPath turns "TaxReturn.w2s[0].wages" into "w2s[0].wages".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must not be negative"
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	case "ssn":
		return "is not a valid SSN"
	case "usps":
		return "is not a USPS state code"
	case "zip":
		return "is not a ZIP or ZIP+4 code"
	default:
		return fmt.Sprintf("fails the %s rule", fe.Tag())
	}
}

func crossField(tr *core.TaxReturn, f *core.Findings) {
	if tr.FilingStatus.Joint() && tr.Spouse == nil {
		f.Warn(core.CodeInvalidField, "spouse", "joint return has no spouse")
	}
	for i, s := range tr.States {
		field := fmt.Sprintf("states[%d]", i)
		if s.Residency != core.ResidencyPartYear {
			continue
		}
		in, okIn := core.ParseDate(s.MoveInDate)
		out, okOut := core.ParseDate(s.MoveOutDate)
		switch {
		case !okIn && !okOut:
			f.Warn(core.CodeInvalidField, field, "part-year residency has neither a move-in nor a move-out date; treated as full year")
		case okIn && okOut && out.Before(in):
			f.Warn(core.CodeInvalidField, field+".moveOutDate", "move-out date precedes move-in date")
		}
	}
	for i, tx := range tr.CapitalTransactions {
		acq, okA := core.ParseDate(tx.DateAcquired)
		sold, okS := core.ParseDate(tx.DateSold)
		if okA && okS && sold.Before(acq) {
			f.Warn(core.CodeInvalidField, fmt.Sprintf("capitalTransactions[%d].dateSold", i), "sale date precedes acquisition date")
		}
	}
}
