package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTTPOptions configures the plain HTTP fetcher.
type HTTPOptions struct {
	Timeout      time.Duration // per-request timeout
	RetryCount   int           // retry ceiling for 429/5xx
	MinPageDelay time.Duration // pacing delay bounds applied before each request
	MaxPageDelay time.Duration
	UserAgent    string
}

// HTTPFetcher fetches pages over plain HTTP. Retries with exponential
// backoff are handled by the underlying client; the pacing delay runs
// before every request to bound the rate against the host.
type HTTPFetcher struct {
	client *resty.Client
	opts   HTTPOptions
}

// NewHTTPFetcher builds the client with retry-on-429/5xx semantics.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryCount <= 0 {
		opts.RetryCount = 3
	}
	if opts.MinPageDelay <= 0 {
		opts.MinPageDelay = 2 * time.Second
	}
	if opts.MaxPageDelay < opts.MinPageDelay {
		opts.MaxPageDelay = opts.MinPageDelay + 2*time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetRetryCount(opts.RetryCount).
		SetRetryMaxWaitTime(300 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return retryableStatus(r.StatusCode())
		}).
		SetRetryAfter(retryAfter)

	return &HTTPFetcher{client: client, opts: opts}
}

// retryAfter computes the wait before the next retry attempt. The response
// can be nil on transport-level failures, so every field access is guarded.
func retryAfter(_ *resty.Client, r *resty.Response) (time.Duration, error) {
	attempt := 1
	url := ""
	status := 0
	if r != nil {
		status = r.StatusCode()
		if r.Request != nil {
			attempt = r.Request.Attempt
			url = r.Request.URL
		}
	}
	wait := Backoff(attempt)
	slog.Warn("Retrying fetch after backoff",
		"url", url, "status", status, "attempt", attempt, "wait", wait)
	return wait, nil
}

// Fetch applies the pacing delay, then requests the page. A failure here
// has already exhausted the retry budget.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, int, error) {
	if err := Delay(ctx, f.opts.MinPageDelay, f.opts.MaxPageDelay); err != nil {
		return "", 0, err
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", 0, &Error{URL: url, Err: err}
	}
	if resp.StatusCode() != 200 {
		return "", resp.StatusCode(), &Error{URL: url, StatusCode: resp.StatusCode()}
	}
	return string(resp.Body()), resp.StatusCode(), nil
}

func (f *HTTPFetcher) Close() error { return nil }
