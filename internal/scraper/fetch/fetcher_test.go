package fetch

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestBackoffBounds(t *testing.T) {
	for attempt := 1; attempt <= 20; attempt++ {
		wait := Backoff(attempt)
		if wait <= 0 {
			t.Errorf("Backoff(%d) = %v, want > 0", attempt, wait)
		}
		if wait > 300*time.Second {
			t.Errorf("Backoff(%d) = %v exceeds 300s cap", attempt, wait)
		}
	}
}

func TestBackoffGrows(t *testing.T) {
	// Jitter is under a second, so attempt 5 (32s base) always waits
	// longer than attempt 1 (2s base).
	if a, b := Backoff(1), Backoff(5); b <= a {
		t.Errorf("Backoff(5) = %v not above Backoff(1) = %v", b, a)
	}
}

func TestRetryableStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusOK, false},
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
	}
	for _, tt := range tests {
		if got := retryableStatus(tt.code); got != tt.want {
			t.Errorf("retryableStatus(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestDelayHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Delay(ctx, time.Minute, 2*time.Minute)
	if err == nil {
		t.Fatal("Delay returned nil on cancelled context")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Delay blocked %v on cancelled context", elapsed)
	}
}

func TestDelayWithinRange(t *testing.T) {
	start := time.Now()
	if err := Delay(context.Background(), 10*time.Millisecond, 30*time.Millisecond); err != nil {
		t.Fatalf("Delay error: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < 10*time.Millisecond {
		t.Errorf("Delay returned after %v, want at least 10ms", elapsed)
	}
}

func TestErrorFormat(t *testing.T) {
	e := &Error{URL: "https://example.com/x", StatusCode: 503}
	if got := e.Error(); got != "fetch https://example.com/x: HTTP 503" {
		t.Errorf("Error() = %q", got)
	}
}
