// Package client is the device-side half of the estimate pipeline:
// form-state mapping, the per-device rate limiter, the persisted result
// cache, and the HTTP call itself.
package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tax-moguls/api/internal/estimate"
)

// requestTimeout aborts the network call; a reply arriving after the
// deadline is discarded by the transport.
const requestTimeout = 60 * time.Second

// TimeoutError means the network deadline elapsed before a reply.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string { return "request timed out, please try again" }
func (e *TimeoutError) Unwrap() error { return e.Err }

// ServerError is any non-success reply from the estimate server. Message
// is the server's short error string, safe to show operators but already
// stripped of raw model text.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("estimate server error (status %d): %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	token   string
	locale  string
	httpc   *http.Client
	limiter *RateLimiter
	cache   *ResultCache
}

// New builds a client persisting device state under stateDir. locale is
// the device locale string (e.g. "es-MX") used for language resolution.
func New(baseURL, embedToken, locale, stateDir string) *Client {
	store := NewStorage(stateDir)
	return &Client{
		baseURL: baseURL,
		token:   embedToken,
		locale:  locale,
		httpc:   &http.Client{},
		limiter: NewRateLimiter(store),
		cache:   NewResultCache(store),
	}
}

// Estimate runs the device pipeline: rate-limit gate first (cache hits
// still consume budget), then the persisted cache, then the network call
// under a 60 second deadline.
func (c *Client) Estimate(ctx context.Context, form FormState) (estimate.Result, error) {
	if err := c.limiter.CheckAndRecord(); err != nil {
		return estimate.Result{}, err
	}

	payload := MapPayload(form, c.locale)
	key := payloadKey(payload)
	if res, ok := c.cache.Get(key); ok {
		return res, nil
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return estimate.Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/estimate", bytes.NewReader(body))
	if err != nil {
		return estimate.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("x-embed-token", c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return estimate.Result{}, &TimeoutError{Err: err}
		}
		return estimate.Result{}, err
	}
	defer resp.Body.Close()

	var wire struct {
		estimate.Result
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return estimate.Result{}, &ServerError{Status: resp.StatusCode, Message: "unreadable response body"}
	}
	if wire.Error != "" || resp.StatusCode != http.StatusOK {
		msg := wire.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return estimate.Result{}, &ServerError{Status: resp.StatusCode, Message: msg}
	}

	res := wire.Result
	c.cache.Put(key, res)
	return res, nil
}

// payloadKey hashes the canonical payload serialization; the payload
// already carries the resolved language, so identical normalized requests
// collapse to one key.
func payloadKey(p Payload) string {
	b, _ := json.Marshal(p)
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
