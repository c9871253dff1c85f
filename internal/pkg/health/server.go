// Package health serves liveness and run-status endpoints for operators
// and schedulers monitoring a scrape.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

// Run starts the health server on addr and shuts it down when ctx ends.
func Run(ctx context.Context, addr, service string, readHeaderTimeout time.Duration) {
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", handlePing)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/runs", handleRuns)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("Health server listening", "service", service, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "service", service, "error", err)
		}
	}()
}

// AddrFor renders the listen address for a port.
func AddrFor(port int) string {
	return fmt.Sprintf(":%d", port)
}

func handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// handleHealth reports 200 while no run has failed; a failed run returns
// 503 so schedulers notice without parsing the body.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	run, _ := Snapshot()

	status := http.StatusOK
	body := map[string]any{"status": "ok"}
	if run != nil {
		body["run_status"] = run.Status
		if run.Status == models.RunStatusFailed {
			status = http.StatusServiceUnavailable
			body["status"] = "failing"
			body["error"] = run.ErrorMessage
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func handleRuns(w http.ResponseWriter, _ *http.Request) {
	run, progress := Snapshot()
	sort.Slice(progress, func(i, j int) bool { return progress[i].Season < progress[j].Season })

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"run":     run,
		"seasons": progress,
	})
}
