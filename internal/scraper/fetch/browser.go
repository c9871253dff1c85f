package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserOptions configures the headless-browser fetcher.
type BrowserOptions struct {
	Headless     bool
	Timeout      time.Duration // per-page load timeout
	RetryCount   int
	MinPageDelay time.Duration
	MaxPageDelay time.Duration
	WaitSelector string // element that signals the page has rendered
	UserAgent    string
}

// BrowserFetcher loads pages through headless Chrome so JavaScript-rendered
// results tables are present in the returned HTML. One browser tab is
// shared across all pages of a run, so Fetch serializes page loads:
// concurrent callers (parallel season workers) take turns rather than
// interleaving navigations in the same tab and reading each other's DOM.
type BrowserFetcher struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	opts        BrowserOptions

	mu       sync.Mutex // guards the tab: one navigation at a time
	navigate func(ctx context.Context, url string) (string, error)
	backoff  func(attempt int) time.Duration
}

// NewBrowserFetcher starts the Chrome allocator. The browser itself
// launches lazily on the first navigation.
func NewBrowserFetcher(opts BrowserOptions) *BrowserFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
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

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(opts.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	f := &BrowserFetcher{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		browserCtx:  browserCtx,
		cancel:      cancel,
		opts:        opts,
	}
	f.navigate = f.loadPage
	f.backoff = Backoff
	return f
}

// Fetch navigates to the URL, waits for the results rows to render, and
// returns the post-JavaScript DOM. Navigation failures retry with the
// same backoff schedule as the HTTP fetcher.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, int, error) {
	if err := Delay(ctx, f.opts.MinPageDelay, f.opts.MaxPageDelay); err != nil {
		return "", 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= f.opts.RetryCount; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}

		html, err := f.navigate(ctx, url)
		if err == nil {
			return html, 200, nil
		}
		lastErr = err

		if attempt < f.opts.RetryCount {
			wait := f.backoff(attempt)
			slog.Warn("Browser navigation failed, retrying",
				"url", url, "attempt", attempt, "wait", wait, "error", err)
			if err := sleepCtx(ctx, wait); err != nil {
				return "", 0, err
			}
		}
	}
	return "", 0, &Error{URL: url, Err: lastErr}
}

func (f *BrowserFetcher) loadPage(ctx context.Context, url string) (string, error) {
	loadCtx, cancel := context.WithTimeout(f.browserCtx, f.opts.Timeout)
	defer cancel()

	// Tie the page load to the caller's cancellation as well.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-loadCtx.Done():
		}
	}()

	actions := []chromedp.Action{chromedp.Navigate(url)}
	if f.opts.WaitSelector != "" {
		actions = append(actions, chromedp.WaitVisible(f.opts.WaitSelector, chromedp.ByQuery))
	}
	// Grace period for late-rendering odds cells.
	actions = append(actions, chromedp.Sleep(time.Second))

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(loadCtx, actions...); err != nil {
		return "", fmt.Errorf("chromedp navigation: %w", err)
	}
	return html, nil
}

// Close shuts down the browser process.
func (f *BrowserFetcher) Close() error {
	f.cancel()
	f.allocCancel()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
