// Package validate checks normalized game records against required-field
// and range rules before persistence.
package validate

import (
	"fmt"
	"regexp"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/teams"
)

// Range bounds for scraped values. Scores and moneylines outside their
// bounds are suspicious but not disqualifying; spread and total bounds are
// hard rules.
const (
	MinScore     = 50
	MaxScore     = 200
	MaxSpreadAbs = 50.0
	MinTotal     = 150.0
	MaxTotal     = 300.0
	MaxMoneyline = 10000
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Result is the verdict for one record. Errors exclude the record from
// persistence; warnings are logged but let it through.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validate checks every rule independently and reports all failures, not
// just the first. It never returns a Go error: a bad record is a decision,
// not a fault.
func Validate(g *models.GameRecord) Result {
	var errs, warns []string

	if g.GameID == "" {
		errs = append(errs, "missing required field: game_id")
	}
	if g.GameDate == "" {
		errs = append(errs, "missing required field: game_date")
	} else if !isoDate.MatchString(g.GameDate) {
		errs = append(errs, fmt.Sprintf("invalid date format: %s", g.GameDate))
	} else if g.Season != "" {
		if derived, err := models.SeasonFromDate(g.GameDate); err == nil && derived != g.Season {
			warns = append(warns, fmt.Sprintf("game date %s falls in season %s, not %s", g.GameDate, derived, g.Season))
		}
	}
	if g.HomeTeam == "" {
		errs = append(errs, "missing required field: home_team")
	} else if !teams.Valid(g.HomeTeam) {
		warns = append(warns, fmt.Sprintf("unrecognized home team: %s", g.HomeTeam))
	}
	if g.AwayTeam == "" {
		errs = append(errs, "missing required field: away_team")
	} else if !teams.Valid(g.AwayTeam) {
		warns = append(warns, fmt.Sprintf("unrecognized away team: %s", g.AwayTeam))
	}
	if g.HomeTeam != "" && g.HomeTeam == g.AwayTeam {
		errs = append(errs, fmt.Sprintf("home and away team are the same: %s", g.HomeTeam))
	}

	// Scores come in pairs: a game is fully scored or not scored at all.
	switch {
	case (g.HomeScore == nil) != (g.AwayScore == nil):
		errs = append(errs, "partial score: both scores must be present or both absent")
	case g.Scored():
		if *g.HomeScore < 0 || *g.AwayScore < 0 {
			errs = append(errs, fmt.Sprintf("negative score: %d:%d", *g.AwayScore, *g.HomeScore))
		} else {
			if *g.HomeScore < MinScore || *g.HomeScore > MaxScore {
				warns = append(warns, fmt.Sprintf("suspicious home score: %d", *g.HomeScore))
			}
			if *g.AwayScore < MinScore || *g.AwayScore > MaxScore {
				warns = append(warns, fmt.Sprintf("suspicious away score: %d", *g.AwayScore))
			}
		}
	}

	if g.ClosingSpread != nil {
		if s := *g.ClosingSpread; s < -MaxSpreadAbs || s > MaxSpreadAbs {
			errs = append(errs, fmt.Sprintf("spread out of range: %.1f", s))
		}
	}
	if g.ClosingOverUnder != nil {
		if t := *g.ClosingOverUnder; t < MinTotal || t > MaxTotal {
			errs = append(errs, fmt.Sprintf("over/under out of range: %.1f", t))
		}
	}
	if ml := g.ClosingMoneylineHome; ml != nil && (*ml < -MaxMoneyline || *ml > MaxMoneyline) {
		warns = append(warns, fmt.Sprintf("suspicious home moneyline: %d", *ml))
	}
	if ml := g.ClosingMoneylineAway; ml != nil && (*ml < -MaxMoneyline || *ml > MaxMoneyline) {
		warns = append(warns, fmt.Sprintf("suspicious away moneyline: %d", *ml))
	}

	return Result{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}

// BatchSummary aggregates validation over a batch of records.
type BatchSummary struct {
	Total        int
	Valid        int
	WithErrors   int
	WithWarnings int
	Errors       []string
	Warnings     []string
}

// ValidateBatch validates every record and collects per-record failures,
// prefixed with the game ID for operator logs.
func ValidateBatch(games []models.GameRecord) BatchSummary {
	sum := BatchSummary{Total: len(games)}
	for i := range games {
		r := Validate(&games[i])
		if r.Valid {
			sum.Valid++
		} else {
			sum.WithErrors++
			for _, e := range r.Errors {
				sum.Errors = append(sum.Errors, fmt.Sprintf("%s: %s", games[i].GameID, e))
			}
		}
		if len(r.Warnings) > 0 {
			sum.WithWarnings++
			for _, w := range r.Warnings {
				sum.Warnings = append(sum.Warnings, fmt.Sprintf("%s: %s", games[i].GameID, w))
			}
		}
	}
	return sum
}

// Duplicates returns game IDs appearing more than once, in first-repeat order.
func Duplicates(games []models.GameRecord) []string {
	seen := make(map[string]bool, len(games))
	var dups []string
	for i := range games {
		id := games[i].GameID
		if id == "" {
			continue
		}
		if seen[id] {
			dups = append(dups, id)
		} else {
			seen[id] = true
		}
	}
	return dups
}
