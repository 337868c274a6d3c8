package estimate

import (
	"encoding/json"
	"fmt"
)

const promptTemplate = `
You are "Tax Moguls - U.S. Federal Refund Engine," a precise IRS-accurate AI.
You ALWAYS return ONLY JSON. Never return markdown, comments, or code blocks.

Return *strictly* this EXACT JSON shape:

{
  "json_result": {
    "estimate": {
      "refund_low": number,
      "refund_high": number,
      "breakdown": {
        "agi": number,
        "standard_deduction": number,
        "taxable_income": number,
        "tentative_tax": number,
        "se_tax": number,
        "credits": {
          "ctc_nonrefundable": number,
          "ctc_refundable": number,
          "odc": number,
          "eitc": number
        },
        "total_credits": number,
        "total_tax": number,
        "refundable_credits": number,
        "withholding": number
      }
    },
    "inputs": %s
  },
  "summary": "Write a 3-5 sentence paragraph in %s explaining the estimate in simple terms."
}

ONLY return JSON. Do not wrap in backticks.
INPUT: %s
`

// BuildPrompt renders the instruction text for one validated request.
// Identical (request, language) pairs produce byte-identical output:
// struct marshaling keeps the embedded input serialization stable.
func BuildPrompt(req Request, lang string) string {
	input, _ := json.Marshal(req)
	narrative := "English"
	if lang == LangSpanish {
		narrative = "Spanish"
	}
	return fmt.Sprintf(promptTemplate, input, narrative, input)
}
