package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

// Ensure PostgresStore implements Store and RunRecorder.
var (
	_ Store       = (*PostgresStore)(nil)
	_ RunRecorder = (*PostgresStore)(nil)
)

// PostgresStore upserts game records keyed on game_id and tracks scrape
// runs. The upsert is the only sanctioned mutation path for a game after
// creation: mutable fields are overwritten wholesale, never merged.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the connection, verifies it, and creates the
// schema if missing.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL games storage initialized")
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS games (
		game_id VARCHAR(50) PRIMARY KEY,
		game_date DATE NOT NULL,
		season VARCHAR(20) NOT NULL,
		home_team VARCHAR(5) NOT NULL,
		away_team VARCHAR(5) NOT NULL,
		home_score INT,
		away_score INT,
		closing_spread DECIMAL(5, 1),
		closing_over_under DECIMAL(5, 1),
		closing_moneyline_home INT,
		closing_moneyline_away INT,
		scraped_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_games_game_date ON games(game_date);
	CREATE INDEX IF NOT EXISTS idx_games_season ON games(season);

	CREATE TABLE IF NOT EXISTS scrape_runs (
		id VARCHAR(36) PRIMARY KEY,
		scraper_name VARCHAR(100) NOT NULL,
		seasons VARCHAR(200),
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		games_scraped INT NOT NULL DEFAULT 0,
		games_inserted INT NOT NULL DEFAULT 0,
		games_updated INT NOT NULL DEFAULT 0,
		games_failed INT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL,
		error_message TEXT
	);

	CREATE OR REPLACE VIEW game_results AS
	SELECT
		game_id,
		game_date,
		season,
		home_team,
		away_team,
		home_score,
		away_score,
		CASE
			WHEN home_score IS NULL OR away_score IS NULL THEN NULL
			WHEN home_score > away_score THEN home_team
			WHEN away_score > home_score THEN away_team
		END AS winner,
		CASE
			WHEN home_score IS NULL OR away_score IS NULL OR closing_over_under IS NULL THEN NULL
			WHEN home_score + away_score > closing_over_under THEN 'OVER'
			WHEN home_score + away_score < closing_over_under THEN 'UNDER'
			ELSE 'PUSH'
		END AS total_outcome
	FROM games;
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresStore) Name() string { return "postgres" }

// Persist upserts the batch one row at a time inside a transaction.
// Per-record failures are counted, logged, and do not abort the batch.
func (s *PostgresStore) Persist(ctx context.Context, games []models.GameRecord) (PersistResult, error) {
	var res PersistResult
	if len(games) == 0 {
		return res, nil
	}

	query := `
	INSERT INTO games (
		game_id, game_date, season, home_team, away_team,
		home_score, away_score, closing_spread, closing_over_under,
		closing_moneyline_home, closing_moneyline_away, scraped_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (game_id) DO UPDATE SET
		home_score = EXCLUDED.home_score,
		away_score = EXCLUDED.away_score,
		closing_spread = EXCLUDED.closing_spread,
		closing_over_under = EXCLUDED.closing_over_under,
		closing_moneyline_home = EXCLUDED.closing_moneyline_home,
		closing_moneyline_away = EXCLUDED.closing_moneyline_away,
		scraped_at = EXCLUDED.scraped_at,
		updated_at = NOW()
	RETURNING (xmax = 0) AS inserted
	`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PersistResult{Failed: len(games)}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return PersistResult{Failed: len(games)}, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range games {
		g := &games[i]
		var inserted bool
		err := stmt.QueryRowContext(ctx,
			g.GameID, g.GameDate, g.Season, g.HomeTeam, g.AwayTeam,
			g.HomeScore, g.AwayScore, g.ClosingSpread, g.ClosingOverUnder,
			g.ClosingMoneylineHome, g.ClosingMoneylineAway, g.ScrapedAt,
		).Scan(&inserted)
		if err != nil {
			slog.Warn("Failed to upsert game",
				"game_id", g.GameID, "unique_violation", IsUniqueViolation(err), "error", err)
			res.Failed++
			continue
		}
		if inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return PersistResult{Failed: len(games)}, fmt.Errorf("commit batch: %w", err)
	}

	slog.Info("Batch upsert complete",
		"inserted", res.Inserted, "updated", res.Updated, "failed", res.Failed)
	return res, nil
}

// StartRun records a new scrape run in the running state.
func (s *PostgresStore) StartRun(ctx context.Context, run *models.ScrapeRun) error {
	query := `
	INSERT INTO scrape_runs (id, scraper_name, seasons, started_at, status)
	VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.ScraperName, strings.Join(run.Seasons, ","), run.StartedAt, run.Status)
	if err != nil {
		return fmt.Errorf("start scrape run: %w", err)
	}
	return nil
}

// FinishRun records completion or failure of a run.
func (s *PostgresStore) FinishRun(ctx context.Context, run *models.ScrapeRun) error {
	query := `
	UPDATE scrape_runs SET
		completed_at = $2,
		games_scraped = $3,
		games_inserted = $4,
		games_updated = $5,
		games_failed = $6,
		status = $7,
		error_message = $8
	WHERE id = $1
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.CompletedAt, run.GamesScraped, run.GamesInserted,
		run.GamesUpdated, run.GamesFailed, run.Status, nullable(run.ErrorMessage))
	if err != nil {
		return fmt.Errorf("finish scrape run: %w", err)
	}
	return nil
}

// LatestCompletedDate returns the most recent game date with a recorded
// score, optionally scoped to one season. Incremental runs use it to stop
// paging once they reach already-stored results. Empty when no scored
// games exist yet.
func (s *PostgresStore) LatestCompletedDate(ctx context.Context, season string) (string, error) {
	query := `SELECT MAX(game_date) FROM games WHERE home_score IS NOT NULL`
	args := []any{}
	if season != "" {
		query += ` AND season = $1`
		args = append(args, season)
	}

	var latest sql.NullTime
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&latest); err != nil {
		return "", fmt.Errorf("latest completed date: %w", err)
	}
	if !latest.Valid {
		return "", nil
	}
	return latest.Time.Format("2006-01-02"), nil
}

// GameCount returns the number of stored games, optionally per season.
func (s *PostgresStore) GameCount(ctx context.Context, season string) (int, error) {
	query := `SELECT COUNT(*) FROM games`
	args := []any{}
	if season != "" {
		query += ` WHERE season = $1`
		args = append(args, season)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("game count: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, used by callers deciding whether a persist failure is
// systemic or per-record.
func IsUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}
