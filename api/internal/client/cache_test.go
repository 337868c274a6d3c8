package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tax-moguls/api/internal/estimate"
)

func newTestCache(t *testing.T) (*ResultCache, *time.Time) {
	t.Helper()
	c := NewResultCache(NewStorage(t.TempDir()))
	now := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func sampleResult(low, high float64) estimate.Result {
	return estimate.Result{
		JSONResult: estimate.JSONResult{
			Estimate: estimate.Estimate{RefundLow: low, RefundHigh: high},
		},
		Summary: "test",
	}
}

func TestResultCachePutGet(t *testing.T) {
	c, _ := newTestCache(t)
	c.Put("k", sampleResult(100, 200))

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, 100.0, got.JSONResult.Estimate.RefundLow)
}

func TestResultCacheExpiry(t *testing.T) {
	c, now := newTestCache(t)
	c.Put("k", sampleResult(100, 200))

	*now = now.Add(61 * time.Second)
	_, ok := c.Get("k")
	require.False(t, ok)
}

func TestResultCacheCorruptFileReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, resultCacheFile), []byte("]]]"), 0o644))

	c := NewResultCache(NewStorage(dir))
	_, ok := c.Get("k")
	require.False(t, ok)

	// And the next Put repairs the file.
	c.Put("k", sampleResult(1, 2))
	_, ok = c.Get("k")
	require.True(t, ok)
}

func TestResultCachePutOverwrites(t *testing.T) {
	c, _ := newTestCache(t)
	c.Put("k", sampleResult(1, 2))
	c.Put("k", sampleResult(3, 4))

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, 3.0, got.JSONResult.Estimate.RefundLow)
}
