package estimate

import (
	"fmt"
	"math"
	"strings"
)

// Violation is one field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string { return v.Field + ": " + v.Message }

var validStatuses = map[string]bool{
	StatusSingle:          true,
	StatusMarriedJoint:    true,
	StatusMarriedSeparate: true,
	StatusHeadOfHousehold: true,
}

// Validate checks an untyped request body against the payload schema and
// returns either a fully-defaulted Request or the ordered list of every
// violation found. It never partially accepts: any violation means the
// Request must not be used.
func Validate(body map[string]any) (Request, []Violation) {
	req := Request{TaxYear: DefaultTaxYear}
	var violations []Violation
	fail := func(field, format string, args ...any) {
		violations = append(violations, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if raw, ok := body["tax_year"]; ok {
		year, isInt := asInt(raw)
		switch {
		case !isInt:
			fail("tax_year", "must be an integer")
		case year < MinTaxYear || year > MaxTaxYear:
			fail("tax_year", "must be between %d and %d", MinTaxYear, MaxTaxYear)
		default:
			req.TaxYear = year
		}
	}

	if raw, ok := body["filing_status"]; ok {
		s, isStr := raw.(string)
		if !isStr || !validStatuses[s] {
			fail("filing_status", "must be one of %s", strings.Join([]string{
				StatusSingle, StatusMarriedJoint, StatusMarriedSeparate, StatusHeadOfHousehold,
			}, ", "))
		} else {
			req.FilingStatus = s
		}
	} else {
		fail("filing_status", "is required")
	}

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"w2_wages", &req.W2Wages},
		{"self_employment_net", &req.SelfEmploymentNet},
		{"federal_withholding", &req.FederalWithholding},
		{"unemployment", &req.Unemployment},
		{"student_loan_interest", &req.StudentLoanInterest},
	} {
		raw, ok := body[f.name]
		if !ok {
			continue
		}
		n, isNum := raw.(float64)
		switch {
		case !isNum:
			fail(f.name, "must be a number")
		case n < 0:
			fail(f.name, "must be >= 0")
		default:
			*f.dst = n
		}
	}

	if raw, ok := body["self_employed"]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			fail("self_employed", "must be a boolean")
		} else {
			req.SelfEmployed = b
		}
	}

	if raw, ok := body["dependents"]; ok {
		n, isInt := asInt(raw)
		switch {
		case !isInt:
			fail("dependents", "must be an integer")
		case n < 0:
			fail("dependents", "must be >= 0")
		default:
			req.Dependents = n
		}
	}

	if len(violations) > 0 {
		return Request{}, violations
	}
	return req, nil
}

// ResolveLanguage picks the narrative language: an explicit supported value
// from the body wins, otherwise Accept-Language decides, defaulting to
// English unless it starts with "es".
func ResolveLanguage(bodyLang, acceptLang string) string {
	if bodyLang == LangEnglish || bodyLang == LangSpanish {
		return bodyLang
	}
	if strings.HasPrefix(acceptLang, "es") {
		return LangSpanish
	}
	return LangEnglish
}

// asInt accepts the float64 that encoding/json produces for any number,
// but only when it carries a whole value.
func asInt(raw any) (int, bool) {
	n, ok := raw.(float64)
	if !ok || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}
