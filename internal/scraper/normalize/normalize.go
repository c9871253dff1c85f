// Package normalize converts raw page text into typed GameRecords.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/teams"
)

// Reason codes for normalization failures.
const (
	ReasonInvalidDate = "invalid_date"
	ReasonUnknownTeam = "unknown_team"
	ReasonInvalidOdds = "invalid_odds"
)

// Error reports why a raw game could not be normalized. Records failing
// normalization are dropped and logged; they never abort a page or season.
type Error struct {
	Reason string
	Field  string
	Value  string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize %s (%s=%q): %v", e.Reason, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("normalize %s (%s=%q)", e.Reason, e.Field, e.Value)
}

func (e *Error) Unwrap() error { return e.Err }

// Normalize converts one raw game row into a GameRecord for the given
// season. Unknown team names and unparsable dates or present-but-garbled
// odds fail loud; missing scores and missing odds cells are legitimate
// (future games) and produce nil fields.
func Normalize(raw models.RawGame, season string) (*models.GameRecord, error) {
	refYear, err := models.SeasonStartYear(season)
	if err != nil {
		refYear = 0
	}

	gameDate, err := ParseDate(raw.DateText, refYear)
	if err != nil {
		return nil, &Error{Reason: ReasonInvalidDate, Field: "game_date", Value: raw.DateText, Err: err}
	}

	awayTeam, ok := teams.Standardize(raw.AwayTeamText)
	if !ok {
		return nil, &Error{Reason: ReasonUnknownTeam, Field: "away_team", Value: raw.AwayTeamText}
	}
	homeTeam, ok := teams.Standardize(raw.HomeTeamText)
	if !ok {
		return nil, &Error{Reason: ReasonUnknownTeam, Field: "home_team", Value: raw.HomeTeamText}
	}

	rec := &models.GameRecord{
		GameID:    models.GameID(gameDate, awayTeam, homeTeam),
		GameDate:  gameDate,
		Season:    season,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		ScrapedAt: time.Now().UTC(),
	}

	rec.AwayScore, rec.HomeScore = parseScore(raw.ScoreText)

	if rec.ClosingSpread, err = parseDecimal(raw.SpreadText); err != nil {
		return nil, &Error{Reason: ReasonInvalidOdds, Field: "closing_spread", Value: raw.SpreadText, Err: err}
	}
	if rec.ClosingOverUnder, err = parseDecimal(raw.OverUnderText); err != nil {
		return nil, &Error{Reason: ReasonInvalidOdds, Field: "closing_over_under", Value: raw.OverUnderText, Err: err}
	}
	if rec.ClosingMoneylineHome, err = parseMoneyline(raw.MoneylineHomeText); err != nil {
		return nil, &Error{Reason: ReasonInvalidOdds, Field: "closing_moneyline_home", Value: raw.MoneylineHomeText, Err: err}
	}
	if rec.ClosingMoneylineAway, err = parseMoneyline(raw.MoneylineAwayText); err != nil {
		return nil, &Error{Reason: ReasonInvalidOdds, Field: "closing_moneyline_away", Value: raw.MoneylineAwayText, Err: err}
	}

	return rec, nil
}

// parseScore splits a composite "away:home" score string. Any side that is
// missing or non-numeric means the game has not been played: both fields
// come back nil rather than erroring the record.
func parseScore(scoreText string) (away, home *int) {
	s := strings.TrimSpace(scoreText)
	if s == "" {
		return nil, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		parts = strings.SplitN(s, "–", 2)
	}
	if len(parts) != 2 {
		return nil, nil
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errH != nil || a < 0 || h < 0 {
		return nil, nil
	}
	return &a, &h
}

// empty reports whether an odds cell carried no value. Result pages render
// unposted lines as blanks or a bare dash.
func empty(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "-"
}

func parseDecimal(text string) (*float64, error) {
	if empty(text) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(text), "+"), 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseMoneyline(text string) (*int, error) {
	if empty(text) {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(text), "+"))
	if err != nil {
		return nil, err
	}
	return &v, nil
}
