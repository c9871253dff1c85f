package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/checkpoint"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/config"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/health"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
	"github.com/courtsidedata/nba-odds-scraper/internal/scraper/fetch"
	"github.com/courtsidedata/nba-odds-scraper/internal/scraper/normalize"
	"github.com/courtsidedata/nba-odds-scraper/internal/scraper/page"
)

// maxConsecutivePageFailures bounds how many pages in a row may fail
// (fetch or parse) before the season is declared unreachable. Pagination
// is hasNext-driven, so after a failed page there is no signal left to
// continue on once this many pages yield nothing.
const maxConsecutivePageFailures = 3

// seasonRunner pages through one season's results strictly sequentially:
// the next page is only requested after the current one reported a next
// page, and rate limiting is per-host.
type seasonRunner struct {
	cfg     *config.ScraperConfig
	fetcher fetch.Fetcher
	ckpt    *checkpoint.Store
}

// run scrapes one season and returns every normalized record, resuming
// from the season's checkpoint when enabled. stopDate, when non-empty,
// ends pagination early once a whole page is on or before that date
// (incremental update against already-stored results).
func (r *seasonRunner) run(ctx context.Context, season config.SeasonConfig, stopDate string) ([]models.GameRecord, error) {
	games := []models.GameRecord{}
	startPage := 1

	if r.cfg.Resume {
		cp, err := r.ckpt.Load(season.Label)
		if err != nil {
			return nil, fmt.Errorf("load checkpoint for %s: %w", season.Label, err)
		}
		if cp != nil {
			startPage = cp.Page + 1
			games = cp.Games
			slog.Info("Resuming season from checkpoint",
				"season", season.Label, "page", startPage, "games", len(games))
		}
	}

	baseURL := r.resolveURL(season.URL)
	consecutiveFailures := 0

	seen := make(map[string]bool, len(games))
	for i := range games {
		seen[games[i].GameID] = true
	}

	for pageNum := startPage; ; pageNum++ {
		if r.cfg.MaxPages > 0 && pageNum > r.cfg.MaxPages {
			slog.Info("Page ceiling reached", "season", season.Label, "pages", r.cfg.MaxPages)
			break
		}
		if err := ctx.Err(); err != nil {
			// Cancellation is run-granular: everything scraped so far is
			// already checkpointed, so just stop issuing fetches.
			slog.Warn("Season interrupted", "season", season.Label, "page", pageNum)
			return games, err
		}

		content, _, err := r.fetcher.Fetch(ctx, pageURL(baseURL, pageNum))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return games, err
			}
			consecutiveFailures++
			slog.Warn("Failed to fetch page, skipping",
				"season", season.Label, "page", pageNum,
				"consecutive_failures", consecutiveFailures, "error", err)
			if consecutiveFailures >= maxConsecutivePageFailures {
				return games, fmt.Errorf("season %s unreachable: %d consecutive page failures: %w",
					season.Label, consecutiveFailures, err)
			}
			continue
		}

		rawGames, hasNext, err := page.Parse(content)
		if err != nil {
			consecutiveFailures++
			slog.Warn("Failed to parse page, skipping",
				"season", season.Label, "page", pageNum,
				"consecutive_failures", consecutiveFailures, "error", err)
			if consecutiveFailures >= maxConsecutivePageFailures {
				return games, fmt.Errorf("season %s: %d consecutive unparsable pages: %w",
					season.Label, consecutiveFailures, err)
			}
			continue
		}
		consecutiveFailures = 0

		pageRecords := r.normalizePage(rawGames, season.Label)
		games = append(games, pageRecords...)

		newGames := 0
		for i := range pageRecords {
			if !seen[pageRecords[i].GameID] {
				seen[pageRecords[i].GameID] = true
				newGames++
			}
		}

		if err := r.ckpt.Save(season.Label, pageNum, games); err != nil {
			slog.Warn("Failed to save checkpoint", "season", season.Label, "error", err)
		}
		health.UpdateSeason(health.SeasonProgress{
			Season: season.Label, Page: pageNum, GamesFound: len(games),
		})

		slog.Info("Page scraped", "season", season.Label, "page", pageNum,
			"page_games", len(pageRecords), "total_games", len(games))

		if stopDate != "" && caughtUp(pageRecords, stopDate) {
			slog.Info("Reached already-stored results, stopping season early",
				"season", season.Label, "stop_date", stopDate)
			break
		}
		if !hasNext {
			break
		}
		// Pagination must make progress. A page with only already-seen
		// games means the source is serving the same listing again (plain
		// HTTP cannot transmit the fragment the deeper pages hang off of),
		// so the next-page signal cannot be trusted.
		if newGames == 0 && pageNum > startPage {
			slog.Warn("Pagination made no progress, stopping season",
				"season", season.Label, "page", pageNum, "games", len(games))
			break
		}
	}

	health.UpdateSeason(health.SeasonProgress{
		Season: season.Label, GamesFound: len(games), Done: true,
	})
	return games, nil
}

// normalizePage converts raw rows to records; failures are dropped and
// logged with their reason, never aborting the page.
func (r *seasonRunner) normalizePage(rawGames []models.RawGame, season string) []models.GameRecord {
	records := make([]models.GameRecord, 0, len(rawGames))
	for _, raw := range rawGames {
		rec, err := normalize.Normalize(raw, season)
		if err != nil {
			slog.Warn("Dropping unnormalizable game row",
				"season", season, "error", err,
				"away", raw.AwayTeamText, "home", raw.HomeTeamText)
			continue
		}
		records = append(records, *rec)
	}
	return records
}

func (r *seasonRunner) resolveURL(seasonURL string) string {
	if strings.HasPrefix(seasonURL, "http://") || strings.HasPrefix(seasonURL, "https://") {
		return seasonURL
	}
	return strings.TrimSuffix(r.cfg.BaseURL, "/") + seasonURL
}

// pageURL builds the listing URL for a page. Page one is the bare season
// URL; deeper pages use the site's fragment pagination.
func pageURL(baseURL string, pageNum int) string {
	if pageNum <= 1 {
		return baseURL
	}
	return fmt.Sprintf("%s#/page/%d/", baseURL, pageNum)
}

// caughtUp reports whether every scored game on the page is on or before
// stopDate, meaning the store already has everything from here back.
func caughtUp(records []models.GameRecord, stopDate string) bool {
	if len(records) == 0 {
		return false
	}
	for i := range records {
		if !records[i].Scored() {
			return false
		}
		if records[i].GameDate > stopDate {
			return false
		}
	}
	return true
}
