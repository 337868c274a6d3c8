// Package sanitize turns untrusted model text into a typed estimate result.
//
// The model is instructed to return bare JSON but in practice wraps it in
// code fences, leaves trailing commas, or quotes with single quotes. The
// repair chain here runs a fixed sequence of total text transforms before
// parsing; only well-formedness failures are fatal, missing numeric detail
// is zero-filled.
package sanitize

import (
	"encoding/json"
	"regexp"
	"strings"

	"tax-moguls/api/internal/estimate"
)

// ExtractionError means no JSON-shaped substring was found at all.
// Raw keeps the unrepaired model text for operator diagnosis.
type ExtractionError struct {
	Raw string
}

func (e *ExtractionError) Error() string { return "no JSON object found in model output" }

// ParseError means a JSON-shaped substring was found but did not parse
// even after repair.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string { return "model output parse failed: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

var (
	trailingObjectComma = regexp.MustCompile(`,\s*}`)
	trailingArrayComma  = regexp.MustCompile(`,\s*]`)
)

// Extract runs the textual repair chain and parses the result into a
// generic tree. The chain, in order: strip code fences, cut from the first
// "{" to the last "}", drop trailing commas, swap single quotes for double
// quotes, parse.
//
// The brace cut deliberately takes the outermost span rather than a
// balanced pair, so prose around one object is survivable at the cost of
// mis-extracting when multiple objects appear. The quote swap is equally
// blunt and can mangle apostrophes inside narrative strings; both behaviors
// are pinned by tests and must not be quietly tightened.
func Extract(raw string) (map[string]any, error) {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end < start {
		return nil, &ExtractionError{Raw: raw}
	}
	clean = clean[start : end+1]

	clean = trailingObjectComma.ReplaceAllString(clean, "}")
	clean = trailingArrayComma.ReplaceAllString(clean, "]")
	clean = strings.ReplaceAll(clean, "'", `"`)

	var tree map[string]any
	if err := json.Unmarshal([]byte(clean), &tree); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return tree, nil
}

// Result extracts and projects model text into a typed estimate.Result.
// Field presence in the tree is never trusted: every numeric breakdown
// field missing from the parsed object becomes zero. Inputs are reattached
// from the validated request rather than the model's echo.
func Result(raw string, inputs estimate.Request) (estimate.Result, error) {
	tree, err := Extract(raw)
	if err != nil {
		return estimate.Result{}, err
	}

	jr := child(tree, "json_result")
	est := child(jr, "estimate")
	bd := child(est, "breakdown")
	cr := child(bd, "credits")

	return estimate.Result{
		JSONResult: estimate.JSONResult{
			Estimate: estimate.Estimate{
				RefundLow:  num(est, "refund_low"),
				RefundHigh: num(est, "refund_high"),
				Breakdown: estimate.Breakdown{
					AGI:               num(bd, "agi"),
					StandardDeduction: num(bd, "standard_deduction"),
					TaxableIncome:     num(bd, "taxable_income"),
					TentativeTax:      num(bd, "tentative_tax"),
					SETax:             num(bd, "se_tax"),
					Credits: estimate.Credits{
						CTCNonRefundable: num(cr, "ctc_nonrefundable"),
						CTCRefundable:    num(cr, "ctc_refundable"),
						ODC:              num(cr, "odc"),
						EITC:             num(cr, "eitc"),
					},
					TotalCredits:      num(bd, "total_credits"),
					TotalTax:          num(bd, "total_tax"),
					RefundableCredits: num(bd, "refundable_credits"),
					Withholding:       num(bd, "withholding"),
				},
			},
			Inputs: inputs,
		},
		Summary: str(tree, "summary"),
	}, nil
}

func child(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]any)
	return sub
}

func num(m map[string]any, key string) float64 {
	if m == nil {
		return 0
	}
	n, _ := m[key].(float64)
	return n
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
