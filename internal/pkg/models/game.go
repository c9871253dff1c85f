package models

import (
	"strings"
	"time"
)

// GameRecord is one NBA game's result and closing-line snapshot.
// Optional fields are pointers: nil means the source page had no value
// (future games carry no scores and usually no odds).
type GameRecord struct {
	GameID               string    `json:"game_id"`
	GameDate             string    `json:"game_date"` // YYYY-MM-DD
	Season               string    `json:"season"`    // e.g. "2024-2025"
	HomeTeam             string    `json:"home_team"` // canonical code, e.g. "LAL"
	AwayTeam             string    `json:"away_team"`
	HomeScore            *int      `json:"home_score,omitempty"`
	AwayScore            *int      `json:"away_score,omitempty"`
	ClosingSpread        *float64  `json:"closing_spread,omitempty"`     // negative = home favored
	ClosingOverUnder     *float64  `json:"closing_over_under,omitempty"` // combined points line
	ClosingMoneylineHome *int      `json:"closing_moneyline_home,omitempty"`
	ClosingMoneylineAway *int      `json:"closing_moneyline_away,omitempty"`
	ScrapedAt            time.Time `json:"scraped_at"`
}

// GameID builds the natural key for a game: YYYYMMDD_AWAY_HOME.
// It is a pure function of the record's own content, so the same game
// scraped twice (or from different pages) always yields the same key.
func GameID(gameDate, awayTeam, homeTeam string) string {
	datePart := strings.ReplaceAll(gameDate, "-", "")
	return datePart + "_" + awayTeam + "_" + homeTeam
}

// Scored reports whether the game has a final result. Records are either
// fully scored or fully unscored; partial scoring fails validation upstream.
func (g *GameRecord) Scored() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Winner returns the canonical code of the winning team, or "" for
// unscored games and ties.
func (g *GameRecord) Winner() string {
	if !g.Scored() {
		return ""
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return g.HomeTeam
	case *g.AwayScore > *g.HomeScore:
		return g.AwayTeam
	}
	return ""
}

// Total outcomes against the closing over/under line.
const (
	TotalOver  = "OVER"
	TotalUnder = "UNDER"
	TotalPush  = "PUSH"
)

// TotalOutcome compares the combined final score to the closing over/under
// line. Returns "" when the game is unscored or no line was posted.
func (g *GameRecord) TotalOutcome() string {
	if !g.Scored() || g.ClosingOverUnder == nil {
		return ""
	}
	total := float64(*g.HomeScore + *g.AwayScore)
	switch {
	case total > *g.ClosingOverUnder:
		return TotalOver
	case total < *g.ClosingOverUnder:
		return TotalUnder
	}
	return TotalPush
}

// RawGame carries the unparsed cell text for one game row, in source order.
// Missing odds cells are empty strings, not errors: future games have no line.
type RawGame struct {
	DateText          string `json:"date_text"`
	AwayTeamText      string `json:"away_team_text"`
	HomeTeamText      string `json:"home_team_text"`
	ScoreText         string `json:"score_text"` // composite "away:home", e.g. "110:105"
	SpreadText        string `json:"spread_text"`
	OverUnderText     string `json:"over_under_text"`
	MoneylineHomeText string `json:"moneyline_home_text"`
	MoneylineAwayText string `json:"moneyline_away_text"`
}
