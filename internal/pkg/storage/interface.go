// Package storage provides the sinks a scraped batch can be persisted to.
package storage

import (
	"context"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

// PersistResult reports the outcome of persisting one batch.
type PersistResult struct {
	Inserted int
	Updated  int
	Failed   int
}

// Add folds another result into this one.
func (r *PersistResult) Add(other PersistResult) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Failed += other.Failed
}

// Store persists validated, deduplicated game batches. Implementations
// must tolerate concurrent callers: season workers share one sink.
type Store interface {
	// Persist writes the batch. Re-persisting a game_id overwrites its
	// mutable fields rather than duplicating the record.
	Persist(ctx context.Context, games []models.GameRecord) (PersistResult, error)

	// Name identifies the sink in logs and run summaries.
	Name() string

	Close() error
}

// RunRecorder is implemented by sinks that track scrape run metadata.
type RunRecorder interface {
	StartRun(ctx context.Context, run *models.ScrapeRun) error
	FinishRun(ctx context.Context, run *models.ScrapeRun) error
}
