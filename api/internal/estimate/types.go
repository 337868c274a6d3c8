package estimate

import "encoding/json"

// Filing statuses accepted on the wire.
const (
	StatusSingle          = "single"
	StatusMarriedJoint    = "married_joint"
	StatusMarriedSeparate = "married_separate"
	StatusHeadOfHousehold = "hoh"
)

const (
	LangEnglish = "en"
	LangSpanish = "es"
)

// Tax years the model is prompted for.
const (
	MinTaxYear     = 2020
	MaxTaxYear     = 2030
	DefaultTaxYear = 2025
)

// Request is the validated /estimate payload. Every field is populated
// after validation; nothing downstream deals with absent values.
type Request struct {
	TaxYear             int     `json:"tax_year"`
	FilingStatus        string  `json:"filing_status"`
	W2Wages             float64 `json:"w2_wages"`
	SelfEmploymentNet   float64 `json:"self_employment_net"`
	SelfEmployed        bool    `json:"self_employed"`
	Dependents          int     `json:"dependents"`
	FederalWithholding  float64 `json:"federal_withholding"`
	Unemployment        float64 `json:"unemployment"`
	StudentLoanInterest float64 `json:"student_loan_interest"`
}

// Credits mirrors the credits block the model is asked to return.
type Credits struct {
	CTCNonRefundable float64 `json:"ctc_nonrefundable"`
	CTCRefundable    float64 `json:"ctc_refundable"`
	ODC              float64 `json:"odc"`
	EITC             float64 `json:"eitc"`
}

// Breakdown is the structured decomposition behind the headline range.
type Breakdown struct {
	AGI               float64 `json:"agi"`
	StandardDeduction float64 `json:"standard_deduction"`
	TaxableIncome     float64 `json:"taxable_income"`
	TentativeTax      float64 `json:"tentative_tax"`
	SETax             float64 `json:"se_tax"`
	Credits           Credits `json:"credits"`
	TotalCredits      float64 `json:"total_credits"`
	TotalTax          float64 `json:"total_tax"`
	RefundableCredits float64 `json:"refundable_credits"`
	Withholding       float64 `json:"withholding"`
}

// Estimate is the refund range plus its breakdown.
type Estimate struct {
	RefundLow  float64   `json:"refund_low"`
	RefundHigh float64   `json:"refund_high"`
	Breakdown  Breakdown `json:"breakdown"`
}

// JSONResult is the machine-readable half of the response.
type JSONResult struct {
	Estimate Estimate `json:"estimate"`
	Inputs   Request  `json:"inputs"`
}

// Result is the full /estimate response body.
type Result struct {
	JSONResult JSONResult `json:"json_result"`
	Summary    string     `json:"summary"`
}

// CacheKey derives a stable key from the validated request and resolved
// language. Struct marshaling fixes the field order, so two logically
// identical requests always hash the same.
func CacheKey(req Request, lang string) string {
	b, _ := json.Marshal(struct {
		Request
		Lang string `json:"lang"`
	}{req, lang})
	return string(b)
}
