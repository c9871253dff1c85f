package models

import (
	"time"

	"github.com/google/uuid"
)

// Scrape run lifecycle states, mirrored in the scrape_runs table.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ScrapeRun is the bookkeeping record for one scraper invocation. It is
// created at run start and finalized on completion or failure; the health
// endpoints and incremental-update decisions read from it.
type ScrapeRun struct {
	ID            string     `json:"id"`
	ScraperName   string     `json:"scraper_name"`
	Seasons       []string   `json:"seasons"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	GamesScraped  int        `json:"games_scraped"`
	GamesInserted int        `json:"games_inserted"`
	GamesUpdated  int        `json:"games_updated"`
	GamesFailed   int        `json:"games_failed"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}

// NewScrapeRun creates a run record in the running state.
func NewScrapeRun(scraperName string, seasons []string) *ScrapeRun {
	return &ScrapeRun{
		ID:          uuid.NewString(),
		ScraperName: scraperName,
		Seasons:     seasons,
		StartedAt:   time.Now().UTC(),
		Status:      RunStatusRunning,
	}
}

// Complete finalizes the run with its counters.
func (r *ScrapeRun) Complete(scraped, inserted, updated, failed int) {
	now := time.Now().UTC()
	r.CompletedAt = &now
	r.GamesScraped = scraped
	r.GamesInserted = inserted
	r.GamesUpdated = updated
	r.GamesFailed = failed
	r.Status = RunStatusCompleted
}

// Fail finalizes the run with an error message.
func (r *ScrapeRun) Fail(errMsg string) {
	now := time.Now().UTC()
	r.CompletedAt = &now
	r.Status = RunStatusFailed
	r.ErrorMessage = errMsg
}
