// Package scraper orchestrates season scraping runs: one sequential
// pagination loop per season, seasons sequential or parallel, shared
// sinks, checkpointed progress, and run-level bookkeeping.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/checkpoint"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/config"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/health"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/notify"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/storage"
	"github.com/courtsidedata/nba-odds-scraper/internal/scraper/fetch"
	"github.com/courtsidedata/nba-odds-scraper/internal/scraper/validate"
)

// Scraper runs the whole pipeline for a configured set of seasons.
type Scraper struct {
	cfg      *config.ScraperConfig
	fetcher  fetch.Fetcher
	ckpt     *checkpoint.Store
	sinks    []storage.Store
	pg       *storage.PostgresStore // nil in csv-only mode
	notifier *notify.TelegramNotifier
}

// Options wires the scraper's collaborators.
type Options struct {
	Config   *config.ScraperConfig
	Fetcher  fetch.Fetcher
	Sinks    []storage.Store
	Postgres *storage.PostgresStore
	Notifier *notify.TelegramNotifier
}

// New builds a Scraper. The checkpoint store is created here since its
// location is part of the scraper config.
func New(opts Options) (*Scraper, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("scraper config is required")
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if len(opts.Sinks) == 0 {
		return nil, fmt.Errorf("at least one sink is required")
	}

	ckpt, err := checkpoint.NewStore(opts.Config.CheckpointDir)
	if err != nil {
		return nil, err
	}

	return &Scraper{
		cfg:      opts.Config,
		fetcher:  opts.Fetcher,
		ckpt:     ckpt,
		sinks:    opts.Sinks,
		pg:       opts.Postgres,
		notifier: opts.Notifier,
	}, nil
}

// NewFetcher picks the fetcher implementation from config: headless
// Chrome when browser mode is on, plain HTTP otherwise.
func NewFetcher(cfg *config.ScraperConfig) fetch.Fetcher {
	if cfg.Browser {
		return fetch.NewBrowserFetcher(fetch.BrowserOptions{
			Headless:     true,
			Timeout:      cfg.Timeout,
			RetryCount:   cfg.RetryCount,
			MinPageDelay: cfg.MinPageDelay,
			MaxPageDelay: cfg.MaxPageDelay,
			WaitSelector: cfg.WaitSelector,
			UserAgent:    cfg.UserAgent,
		})
	}
	return fetch.NewHTTPFetcher(fetch.HTTPOptions{
		Timeout:      cfg.Timeout,
		RetryCount:   cfg.RetryCount,
		MinPageDelay: cfg.MinPageDelay,
		MaxPageDelay: cfg.MaxPageDelay,
		UserAgent:    cfg.UserAgent,
	})
}

// seasonResult carries one season's outcome to the run accumulator.
type seasonResult struct {
	season  string
	scraped int
	persist storage.PersistResult
	err     error
}

// Run executes the configured seasons and finalizes the run record.
// Per-record and per-page problems never fail the run; it is marked
// failed only on systemic errors (season unreachable, sink down, persist
// failures past the threshold).
func (s *Scraper) Run(ctx context.Context) (*models.ScrapeRun, error) {
	labels := make([]string, len(s.cfg.Seasons))
	for i, season := range s.cfg.Seasons {
		labels[i] = season.Label
	}

	run := models.NewScrapeRun(s.cfg.Name, labels)
	health.SetRun(run)
	s.startRunRecords(ctx, run)

	slog.Info("Scrape run starting", "run_id", run.ID,
		"seasons", labels, "output", s.cfg.Output, "resume", s.cfg.Resume)

	results := s.runSeasons(ctx)

	var scraped int
	var persist storage.PersistResult
	var systemic []error
	for _, res := range results {
		scraped += res.scraped
		persist.Add(res.persist)
		if res.err != nil && !errors.Is(res.err, context.Canceled) {
			systemic = append(systemic, fmt.Errorf("season %s: %w", res.season, res.err))
		}
	}

	if len(systemic) > 0 {
		run.Fail(errors.Join(systemic...).Error())
	} else {
		run.Complete(scraped, persist.Inserted, persist.Updated, persist.Failed)
	}

	health.SetRun(run)
	s.finishRunRecords(ctx, run)

	if run.Status == models.RunStatusFailed {
		slog.Error("Scrape run failed", "run_id", run.ID, "error", run.ErrorMessage)
		s.notifier.RunFailed(run)
		return run, errors.New(run.ErrorMessage)
	}

	slog.Info("Scrape run completed", "run_id", run.ID,
		"scraped", run.GamesScraped, "inserted", run.GamesInserted,
		"updated", run.GamesUpdated, "failed", run.GamesFailed)
	s.notifier.RunCompleted(run)
	return run, nil
}

func (s *Scraper) runSeasons(ctx context.Context) []seasonResult {
	results := make([]seasonResult, len(s.cfg.Seasons))

	if s.cfg.ParallelSeasons {
		var wg sync.WaitGroup
		for i, season := range s.cfg.Seasons {
			wg.Add(1)
			go func(i int, season config.SeasonConfig) {
				defer wg.Done()
				results[i] = s.runSeason(ctx, season)
			}(i, season)
		}
		wg.Wait()
		return results
	}

	for i, season := range s.cfg.Seasons {
		results[i] = s.runSeason(ctx, season)
		if ctx.Err() != nil {
			break
		}
		if i < len(s.cfg.Seasons)-1 {
			if err := fetch.Delay(ctx, s.cfg.MinSeasonDelay, s.cfg.MaxSeasonDelay); err != nil {
				break
			}
		}
	}
	return results
}

// runSeason scrapes, validates, dedupes, and persists one season.
func (s *Scraper) runSeason(ctx context.Context, season config.SeasonConfig) seasonResult {
	res := seasonResult{season: season.Label}

	stopDate := s.incrementalStopDate(ctx, season.Label)

	runner := &seasonRunner{cfg: s.cfg, fetcher: s.fetcher, ckpt: s.ckpt}
	games, err := runner.run(ctx, season, stopDate)
	res.scraped = len(games)
	if err != nil && !errors.Is(err, context.Canceled) {
		res.err = err
		// Fall through: whatever was scraped before the failure still
		// gets validated and persisted.
	}

	if len(games) == 0 {
		return res
	}

	summary := validate.ValidateBatch(games)
	slog.Info("Season validation", "season", season.Label,
		"valid", summary.Valid, "total", summary.Total,
		"with_warnings", summary.WithWarnings)
	for _, e := range summary.Errors {
		slog.Warn("Validation failure, excluding from persistence", "season", season.Label, "reason", e)
	}
	for _, w := range summary.Warnings {
		slog.Debug("Validation warning", "season", season.Label, "reason", w)
	}

	valid := games[:0:0]
	for i := range games {
		if validate.Validate(&games[i]).Valid {
			valid = append(valid, games[i])
		}
	}
	valid = Dedupe(valid)

	persistCtx := ctx
	if ctx.Err() != nil {
		// Interrupted run: still flush what the checkpoint holds.
		var cancel context.CancelFunc
		persistCtx, cancel = context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()
	}

	for _, sink := range s.sinks {
		result, err := sink.Persist(persistCtx, valid)
		res.persist.Add(result)
		if err != nil {
			res.err = errors.Join(res.err, fmt.Errorf("sink %s: %w", sink.Name(), err))
			continue
		}
		if result.Failed >= s.cfg.PersistFailThreshold {
			res.err = errors.Join(res.err, fmt.Errorf(
				"sink %s: %d persist failures exceeds threshold %d",
				sink.Name(), result.Failed, s.cfg.PersistFailThreshold))
		}
	}

	if res.err == nil && ctx.Err() == nil {
		if err := s.ckpt.Clear(season.Label); err != nil {
			slog.Warn("Failed to clear checkpoint", "season", season.Label, "error", err)
		}
	}
	return res
}

// incrementalStopDate asks the relational store for the newest stored
// result so a resume run stops paging once it reaches known games.
func (s *Scraper) incrementalStopDate(ctx context.Context, season string) string {
	if s.pg == nil || !s.cfg.Resume {
		return ""
	}
	date, err := s.pg.LatestCompletedDate(ctx, season)
	if err != nil {
		slog.Warn("Could not determine incremental resume point", "season", season, "error", err)
		return ""
	}
	return date
}

func (s *Scraper) startRunRecords(ctx context.Context, run *models.ScrapeRun) {
	for _, sink := range s.sinks {
		if rec, ok := sink.(storage.RunRecorder); ok {
			if err := rec.StartRun(ctx, run); err != nil {
				slog.Warn("Failed to record run start", "sink", sink.Name(), "error", err)
			}
		}
	}
}

func (s *Scraper) finishRunRecords(ctx context.Context, run *models.ScrapeRun) {
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()
	}
	for _, sink := range s.sinks {
		if rec, ok := sink.(storage.RunRecorder); ok {
			if err := rec.FinishRun(ctx, run); err != nil {
				slog.Warn("Failed to record run finish", "sink", sink.Name(), "error", err)
			}
		}
	}
}
