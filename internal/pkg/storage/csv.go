package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

// Columns is the fixed CSV column order.
var Columns = []string{
	"game_id", "game_date", "season", "home_team", "away_team",
	"home_score", "away_score", "closing_spread", "closing_over_under",
	"closing_moneyline_home", "closing_moneyline_away", "scraped_at",
}

// CSVStore writes each run's games to a new timestamped file under one
// output directory, sorted by game date. A mutex serializes writers:
// season workers running in parallel share this sink.
type CSVStore struct {
	mu   sync.Mutex
	path string
	rows map[string]models.GameRecord // keyed by game_id, latest wins
}

// NewCSVStore picks the output file name for this run:
// <dir>/<base>_<YYYYMMDD_HHMMSS>.csv.
func NewCSVStore(dir, base string) (*CSVStore, error) {
	if base == "" {
		base = "nba_odds"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.csv", base, time.Now().Format("20060102_150405"))
	return &CSVStore{
		path: filepath.Join(dir, name),
		rows: make(map[string]models.GameRecord),
	}, nil
}

func (s *CSVStore) Name() string { return "csv" }

// Path returns the run's output file.
func (s *CSVStore) Path() string { return s.path }

// Persist merges the batch into the run's row set and rewrites the file.
// Within a run the file is rewritten per batch; the key set keeps one row
// per game_id with the most recent persist winning.
func (s *CSVStore) Persist(ctx context.Context, games []models.GameRecord) (PersistResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res PersistResult
	for _, g := range games {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, exists := s.rows[g.GameID]; exists {
			res.Updated++
		} else {
			res.Inserted++
		}
		s.rows[g.GameID] = g
	}

	if err := s.writeFile(); err != nil {
		return PersistResult{Failed: len(games)}, err
	}
	slog.Info("CSV batch written", "file", s.path, "rows", len(s.rows),
		"inserted", res.Inserted, "updated", res.Updated)
	return res, nil
}

func (s *CSVStore) writeFile() error {
	records := make([]models.GameRecord, 0, len(s.rows))
	for _, g := range s.rows {
		records = append(records, g)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].GameDate != records[j].GameDate {
			return records[i].GameDate < records[j].GameDate
		}
		return records[i].GameID < records[j].GameID
	})

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		if err := w.Write(Row(&records[i])); err != nil {
			return fmt.Errorf("write row %s: %w", records[i].GameID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Row renders one record in the fixed column order. Absent optional
// fields become empty cells.
func Row(g *models.GameRecord) []string {
	return []string{
		g.GameID,
		g.GameDate,
		g.Season,
		g.HomeTeam,
		g.AwayTeam,
		intCell(g.HomeScore),
		intCell(g.AwayScore),
		floatCell(g.ClosingSpread),
		floatCell(g.ClosingOverUnder),
		intCell(g.ClosingMoneylineHome),
		intCell(g.ClosingMoneylineAway),
		g.ScrapedAt.UTC().Format(time.RFC3339),
	}
}

// FromRow parses one CSV row back into a record. It is the inverse of
// Row and rejects rows with the wrong column count.
func FromRow(row []string) (*models.GameRecord, error) {
	if len(row) != len(Columns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(Columns), len(row))
	}

	g := &models.GameRecord{
		GameID:   row[0],
		GameDate: row[1],
		Season:   row[2],
		HomeTeam: row[3],
		AwayTeam: row[4],
	}

	var err error
	if g.HomeScore, err = parseIntCell(row[5]); err != nil {
		return nil, fmt.Errorf("home_score: %w", err)
	}
	if g.AwayScore, err = parseIntCell(row[6]); err != nil {
		return nil, fmt.Errorf("away_score: %w", err)
	}
	if g.ClosingSpread, err = parseFloatCell(row[7]); err != nil {
		return nil, fmt.Errorf("closing_spread: %w", err)
	}
	if g.ClosingOverUnder, err = parseFloatCell(row[8]); err != nil {
		return nil, fmt.Errorf("closing_over_under: %w", err)
	}
	if g.ClosingMoneylineHome, err = parseIntCell(row[9]); err != nil {
		return nil, fmt.Errorf("closing_moneyline_home: %w", err)
	}
	if g.ClosingMoneylineAway, err = parseIntCell(row[10]); err != nil {
		return nil, fmt.Errorf("closing_moneyline_away: %w", err)
	}
	if row[11] != "" {
		if g.ScrapedAt, err = time.Parse(time.RFC3339, row[11]); err != nil {
			return nil, fmt.Errorf("scraped_at: %w", err)
		}
	}
	return g, nil
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseIntCell(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloatCell(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *CSVStore) Close() error { return nil }
