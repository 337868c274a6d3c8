package estimate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPromptDeterministic(t *testing.T) {
	req := Request{TaxYear: 2025, FilingStatus: StatusSingle, W2Wages: 50000, FederalWithholding: 6000}

	a := BuildPrompt(req, LangEnglish)
	b := BuildPrompt(req, LangEnglish)
	require.Equal(t, a, b, "identical (request, language) pairs must render byte-identical prompts")
}

func TestBuildPromptEmbedsInput(t *testing.T) {
	req := Request{TaxYear: 2024, FilingStatus: StatusHeadOfHousehold, W2Wages: 41000}
	p := BuildPrompt(req, LangEnglish)

	require.Contains(t, p, `"tax_year":2024`)
	require.Contains(t, p, `"filing_status":"hoh"`)
	require.Contains(t, p, "English")
	require.Contains(t, p, "refund_low")
	require.Contains(t, p, "ctc_refundable")
}

func TestBuildPromptLanguage(t *testing.T) {
	req := Request{TaxYear: 2025, FilingStatus: StatusSingle}
	require.Contains(t, BuildPrompt(req, LangSpanish), "Spanish")
	require.NotContains(t, BuildPrompt(req, LangSpanish), "in English")
}

func TestCacheKeyStable(t *testing.T) {
	req := Request{TaxYear: 2025, FilingStatus: StatusSingle, W2Wages: 50000}
	require.Equal(t, CacheKey(req, LangEnglish), CacheKey(req, LangEnglish))
	require.NotEqual(t, CacheKey(req, LangEnglish), CacheKey(req, LangSpanish))

	other := req
	other.W2Wages = 50001
	require.NotEqual(t, CacheKey(req, LangEnglish), CacheKey(other, LangEnglish))
}

func TestCacheKeyCarriesLanguage(t *testing.T) {
	key := CacheKey(Request{TaxYear: 2025, FilingStatus: StatusSingle}, LangSpanish)
	require.True(t, strings.Contains(key, `"lang":"es"`))
}
