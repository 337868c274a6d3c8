package client

import (
	"strings"

	"tax-moguls/api/internal/estimate"
)

// FormState is the full wizard state collected on the device. It is richer
// than the wire payload: the wizard asks for gross/expense pairs and split
// dependent counts that the mapper reduces before anything leaves the
// device.
type FormState struct {
	TaxYear      int    `json:"tax_year"`
	FilingStatus string `json:"filing_status"`

	AgePrimary int `json:"age_primary"`
	AgeSpouse  int `json:"age_spouse"`

	U17Dependents   int `json:"u17_dependents"`
	OtherDependents int `json:"other_dependents"`

	W2Wages            float64 `json:"w2_wages"`
	FederalWithholding float64 `json:"federal_withholding"`
	// Older embeds persisted the withholding answer under this name.
	FederalWithheld float64 `json:"federal_withheld"`

	SelfEmploymentGross    float64 `json:"self_employment_gross"`
	SelfEmploymentExpenses float64 `json:"self_employment_expenses"`

	Unemployment        float64 `json:"unemployment"`
	StudentLoanInterest float64 `json:"student_loan_interest"`
	ChildcareExpenses   float64 `json:"childcare_expenses"`
}

// Payload is the minimal wire body for POST /estimate.
type Payload struct {
	TaxYear             int     `json:"tax_year"`
	FilingStatus        string  `json:"filing_status"`
	W2Wages             float64 `json:"w2_wages"`
	Unemployment        float64 `json:"unemployment"`
	StudentLoanInterest float64 `json:"student_loan_interest"`
	Dependents          int     `json:"dependents"`
	SelfEmploymentNet   float64 `json:"self_employment_net"`
	SelfEmployed        bool    `json:"self_employed"`
	FederalWithholding  float64 `json:"federal_withholding"`
	Language            string  `json:"language"`
}

// MapPayload reduces the form state to the wire payload: net
// self-employment income is max(0, gross-expenses) and implies the
// self-employed flag, the dependent counts merge, and the language comes
// from the device locale, never from the form.
func MapPayload(form FormState, locale string) Payload {
	net := form.SelfEmploymentGross - form.SelfEmploymentExpenses
	if net < 0 {
		net = 0
	}

	withholding := form.FederalWithholding
	if withholding == 0 {
		withholding = form.FederalWithheld
	}

	lang := estimate.LangEnglish
	if strings.HasPrefix(locale, "es") {
		lang = estimate.LangSpanish
	}

	return Payload{
		TaxYear:             form.TaxYear,
		FilingStatus:        form.FilingStatus,
		W2Wages:             form.W2Wages,
		Unemployment:        form.Unemployment,
		StudentLoanInterest: form.StudentLoanInterest,
		Dependents:          form.U17Dependents + form.OtherDependents,
		SelfEmploymentNet:   net,
		SelfEmployed:        net > 0,
		FederalWithholding:  withholding,
		Language:            lang,
	}
}
