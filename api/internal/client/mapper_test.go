package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapPayloadSelfEmploymentNet(t *testing.T) {
	tests := []struct {
		name       string
		gross, exp float64
		wantNet    float64
		wantFlag   bool
	}{
		{"expenses exceed gross", 1000, 1500, 0, false},
		{"profitable", 1000, 400, 600, true},
		{"no activity", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MapPayload(FormState{
				SelfEmploymentGross:    tt.gross,
				SelfEmploymentExpenses: tt.exp,
			}, "en-US")
			require.Equal(t, tt.wantNet, p.SelfEmploymentNet)
			require.Equal(t, tt.wantFlag, p.SelfEmployed)
		})
	}
}

func TestMapPayloadMergesDependents(t *testing.T) {
	p := MapPayload(FormState{U17Dependents: 2, OtherDependents: 1}, "en-US")
	require.Equal(t, 3, p.Dependents)
}

func TestMapPayloadWithholdingAlias(t *testing.T) {
	p := MapPayload(FormState{FederalWithholding: 6000, FederalWithheld: 100}, "en-US")
	require.Equal(t, 6000.0, p.FederalWithholding)

	p = MapPayload(FormState{FederalWithheld: 100}, "en-US")
	require.Equal(t, 100.0, p.FederalWithholding)
}

func TestMapPayloadLanguageFromLocale(t *testing.T) {
	require.Equal(t, "es", MapPayload(FormState{}, "es-MX").Language)
	require.Equal(t, "en", MapPayload(FormState{}, "en-US").Language)
	require.Equal(t, "en", MapPayload(FormState{}, "").Language)
}
