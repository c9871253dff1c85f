package validate

import (
	"strings"
	"testing"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func validGame() models.GameRecord {
	return models.GameRecord{
		GameID:               "20240114_BOS_LAL",
		GameDate:             "2024-01-14",
		Season:               "2023-2024",
		HomeTeam:             "LAL",
		AwayTeam:             "BOS",
		HomeScore:            intp(110),
		AwayScore:            intp(105),
		ClosingSpread:        floatp(-3.5),
		ClosingOverUnder:     floatp(224.5),
		ClosingMoneylineHome: intp(-150),
		ClosingMoneylineAway: intp(130),
	}
}

func TestValidateAccepts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.GameRecord)
	}{
		{"complete game", func(g *models.GameRecord) {}},
		{"future game without scores or odds", func(g *models.GameRecord) {
			g.HomeScore, g.AwayScore = nil, nil
			g.ClosingSpread, g.ClosingOverUnder = nil, nil
			g.ClosingMoneylineHome, g.ClosingMoneylineAway = nil, nil
		}},
		{"total at lower bound", func(g *models.GameRecord) { g.ClosingOverUnder = floatp(MinTotal) }},
		{"total at upper bound", func(g *models.GameRecord) { g.ClosingOverUnder = floatp(MaxTotal) }},
		{"spread at bound", func(g *models.GameRecord) { g.ClosingSpread = floatp(-MaxSpreadAbs) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGame()
			tt.mutate(&g)
			r := Validate(&g)
			if !r.Valid {
				t.Errorf("record rejected: %v", r.Errors)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.GameRecord)
		wantErr string
	}{
		{"missing game_id", func(g *models.GameRecord) { g.GameID = "" }, "game_id"},
		{"missing date", func(g *models.GameRecord) { g.GameDate = "" }, "game_date"},
		{"bad date format", func(g *models.GameRecord) { g.GameDate = "14/01/2024" }, "invalid date format"},
		{"same teams", func(g *models.GameRecord) { g.AwayTeam = "LAL" }, "same"},
		{"partial score", func(g *models.GameRecord) { g.AwayScore = nil }, "partial score"},
		{"negative score", func(g *models.GameRecord) { g.HomeScore = intp(-5) }, "negative score"},
		{"spread out of range", func(g *models.GameRecord) { g.ClosingSpread = floatp(60) }, "spread out of range"},
		{"total too high", func(g *models.GameRecord) { g.ClosingOverUnder = floatp(310) }, "over/under out of range"},
		{"total too low", func(g *models.GameRecord) { g.ClosingOverUnder = floatp(120) }, "over/under out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGame()
			tt.mutate(&g)
			r := Validate(&g)
			if r.Valid {
				t.Fatal("record accepted")
			}
			found := false
			for _, e := range r.Errors {
				if strings.Contains(e, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", r.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidateWarns(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.GameRecord)
		wantWarn string
	}{
		{"low score", func(g *models.GameRecord) { g.AwayScore = intp(40) }, "suspicious away score"},
		{"high score", func(g *models.GameRecord) { g.HomeScore = intp(210) }, "suspicious home score"},
		{"extreme moneyline", func(g *models.GameRecord) { g.ClosingMoneylineHome = intp(-25000) }, "suspicious home moneyline"},
		{"unknown team code", func(g *models.GameRecord) { g.HomeTeam = "SEA" }, "unrecognized home team"},
		{"season mismatch", func(g *models.GameRecord) { g.Season = "2021-2022" }, "falls in season"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGame()
			tt.mutate(&g)
			r := Validate(&g)
			if !r.Valid {
				t.Fatalf("warning case rejected: %v", r.Errors)
			}
			found := false
			for _, w := range r.Warnings {
				if strings.Contains(w, tt.wantWarn) {
					found = true
				}
			}
			if !found {
				t.Errorf("warnings %v do not mention %q", r.Warnings, tt.wantWarn)
			}
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	g := validGame()
	g.GameID = ""
	g.GameDate = "bad"
	g.ClosingOverUnder = floatp(500)
	r := Validate(&g)
	if len(r.Errors) < 3 {
		t.Errorf("expected all rule failures reported, got %v", r.Errors)
	}
}

func TestValidateBatch(t *testing.T) {
	good := validGame()
	warned := validGame()
	warned.GameID = "20240115_GSW_BKN"
	warned.HomeScore = intp(210)
	bad := validGame()
	bad.GameID = "20240116_MIA_NYK"
	bad.ClosingOverUnder = floatp(310)

	sum := ValidateBatch([]models.GameRecord{good, warned, bad})
	if sum.Total != 3 || sum.Valid != 2 || sum.WithErrors != 1 || sum.WithWarnings != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if len(sum.Errors) != 1 || !strings.HasPrefix(sum.Errors[0], "20240116_MIA_NYK:") {
		t.Errorf("batch errors = %v", sum.Errors)
	}
}

func TestDuplicates(t *testing.T) {
	a := validGame()
	b := validGame()
	b.GameID = "20240115_GSW_BKN"
	c := validGame() // same ID as a

	dups := Duplicates([]models.GameRecord{a, b, c})
	if len(dups) != 1 || dups[0] != a.GameID {
		t.Errorf("Duplicates = %v", dups)
	}
	if got := Duplicates([]models.GameRecord{a, b}); len(got) != 0 {
		t.Errorf("Duplicates on unique batch = %v", got)
	}
}
