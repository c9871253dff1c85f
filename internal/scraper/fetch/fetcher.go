// Package fetch issues rate-limited page requests with retry on transient
// HTTP failures. Two implementations exist: a plain HTTP client and a
// headless-browser client for JavaScript-rendered pages.
package fetch

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// Fetcher loads one results page at a time. Implementations own the
// request-rate delay and retry policy; exhausting retries surfaces a
// *Error and the caller skips the page.
type Fetcher interface {
	// Fetch returns the page body and HTTP status. The delay before the
	// request and any retry backoff happen inside the call; ctx cancels
	// both waits and the request itself.
	Fetch(ctx context.Context, url string) (content string, status int, err error)

	Close() error
}

// Error is a fetch failure. Retryable failures (HTTP 429/5xx, transport
// errors) were already retried before this surfaces.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// retryableStatus reports whether an HTTP status is worth retrying.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Backoff computes the wait before retry attempt n (1-based):
// min(300s, 2^n + jitter), jitter uniform in [0, 1s).
func Backoff(attempt int) time.Duration {
	base := math.Pow(2, float64(attempt))
	if base > 300 {
		base = 300
	}
	wait := time.Duration(base * float64(time.Second))
	jitter := time.Duration(rand.Int63n(int64(time.Second)))
	if wait+jitter > 300*time.Second {
		return 300 * time.Second
	}
	return wait + jitter
}

// Delay sleeps a random duration within [min, max], honoring ctx. Used
// for the intra-page (2-4s) and inter-season (10-15s) pacing delays.
func Delay(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
