// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch dereferences resolved citation URLs. It attaches the
// winning strategy's auth headers (with secret placeholders expanded)
// and retries rate-limited requests with exponential backoff. The
// resolver itself never touches the network; this is the fetch
// mechanism callers hand a CitationResult to.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/sourcelink/internal/secrets"
	"github.com/pdiddy/sourcelink/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// Fetcher retrieves resolved documents over HTTP.
type Fetcher struct {
	// Client is the HTTP client to use; http.DefaultClient when nil.
	Client *http.Client

	// MaxRetries bounds 429 retries; 0 means the default (5).
	MaxRetries int

	// Secrets supplies values for ${name} placeholders in auth header
	// values.
	Secrets map[string]string
}

// Fetch issues a GET for the result's URL. When the result requires
// authentication, the auth headers are attached after secret expansion.
// The caller owns the returned response body.
func (f *Fetcher) Fetch(ctx context.Context, result types.CitationResult) (*http.Response, error) {
	if result.URL == "" {
		return nil, fmt.Errorf("citation result has no URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", result.URL, err)
	}

	if result.RequiresAuth {
		for k, v := range secrets.Expand(result.AuthHeaders, f.Secrets) {
			req.Header.Set(k, v)
		}
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	return doWithRetry(ctx, client, req, f.MaxRetries)
}

// doWithRetry executes an HTTP request and retries on HTTP 429 with
// exponential backoff: RetryBaseDelay, doubled each attempt. On each
// 429 the response body is drained and closed before sleeping. If the
// context is cancelled during a backoff wait the context error is
// returned. After exhausting retries the last 429 response is returned
// so the caller can inspect it.
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Exhausted retries — return the 429 response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
