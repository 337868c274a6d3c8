package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tax-moguls/api/internal/estimate"
)

func estimateHandler(t *testing.T, hits *int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		*hits++
		require.Equal(t, "/estimate", r.URL.Path)

		var p Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(estimate.Result{
			JSONResult: estimate.JSONResult{
				Estimate: estimate.Estimate{RefundLow: 900, RefundHigh: 1100},
				Inputs: estimate.Request{
					TaxYear:      p.TaxYear,
					FilingStatus: p.FilingStatus,
				},
			},
			Summary: "all good",
		})
	}
}

func TestClientEstimate(t *testing.T) {
	var hits int
	srv := httptest.NewServer(estimateHandler(t, &hits))
	defer srv.Close()

	c := New(srv.URL, "tok", "en-US", t.TempDir())
	form := FormState{TaxYear: 2025, FilingStatus: "single", W2Wages: 50000}

	res, err := c.Estimate(context.Background(), form)
	require.NoError(t, err)
	require.Equal(t, 900.0, res.JSONResult.Estimate.RefundLow)
	require.Equal(t, "all good", res.Summary)
	require.Equal(t, 1, hits)
}

func TestClientCacheHitSkipsNetwork(t *testing.T) {
	var hits int
	srv := httptest.NewServer(estimateHandler(t, &hits))
	defer srv.Close()

	c := New(srv.URL, "", "en-US", t.TempDir())
	form := FormState{TaxYear: 2025, FilingStatus: "single"}

	_, err := c.Estimate(context.Background(), form)
	require.NoError(t, err)
	_, err = c.Estimate(context.Background(), form)
	require.NoError(t, err)
	require.Equal(t, 1, hits)
}

func TestClientRateLimitGatesCacheHits(t *testing.T) {
	var hits int
	srv := httptest.NewServer(estimateHandler(t, &hits))
	defer srv.Close()

	c := New(srv.URL, "", "en-US", t.TempDir())
	form := FormState{TaxYear: 2025, FilingStatus: "single"}

	// Five attempts spend the budget even though four are cache hits.
	for i := 0; i < 5; i++ {
		_, err := c.Estimate(context.Background(), form)
		require.NoError(t, err)
	}
	require.Equal(t, 1, hits)

	_, err := c.Estimate(context.Background(), form)
	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
}

func TestClientServerErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "Upstream error", "detail": "model unavailable"})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "en-US", t.TempDir())
	_, err := c.Estimate(context.Background(), FormState{FilingStatus: "single"})

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	require.Equal(t, http.StatusInternalServerError, srvErr.Status)
	require.Equal(t, "Upstream error", srvErr.Message)
}

func TestClientErrorBodyWithOKStatusStillFails(t *testing.T) {
	// The frontend contract: any body carrying "error" is a failure,
	// whatever the status code says.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "AI returned no valid JSON"})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "en-US", t.TempDir())
	_, err := c.Estimate(context.Background(), FormState{FilingStatus: "single"})

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect and
		// cancels r.Context(); otherwise the deferred Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL, "", "en-US", t.TempDir())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Estimate(ctx, FormState{FilingStatus: "single"})
	var toErr *TimeoutError
	require.True(t, errors.As(err, &toErr), "got %v", err)
}
