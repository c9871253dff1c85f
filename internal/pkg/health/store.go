package health

import (
	"sync"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

// Global run registry backing the health endpoints. The scraper registers
// its run at start and updates progress as seasons finish.
var (
	mu          sync.RWMutex
	currentRun  *models.ScrapeRun
	seasonState = map[string]SeasonProgress{}
)

// SeasonProgress is one season's live progress, exposed on /runs.
type SeasonProgress struct {
	Season     string `json:"season"`
	Page       int    `json:"page"`
	GamesFound int    `json:"games_found"`
	Done       bool   `json:"done"`
}

// SetRun registers the active run and resets per-season progress.
func SetRun(run *models.ScrapeRun) {
	mu.Lock()
	defer mu.Unlock()
	currentRun = run
	seasonState = map[string]SeasonProgress{}
}

// UpdateSeason records one season's progress after each page.
func UpdateSeason(p SeasonProgress) {
	mu.Lock()
	defer mu.Unlock()
	seasonState[p.Season] = p
}

// Snapshot returns a copy of the current run and season progress.
func Snapshot() (*models.ScrapeRun, []SeasonProgress) {
	mu.RLock()
	defer mu.RUnlock()

	var run *models.ScrapeRun
	if currentRun != nil {
		copied := *currentRun
		run = &copied
	}
	progress := make([]SeasonProgress, 0, len(seasonState))
	for _, p := range seasonState {
		progress = append(progress, p)
	}
	return run, progress
}
