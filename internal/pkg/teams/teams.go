// Package teams holds the canonical NBA franchise vocabulary and the
// lookup from scraped team names to short codes. The tables are built once
// at init and never mutated afterwards.
package teams

import "strings"

// Codes is the fixed vocabulary of the 30 NBA franchises.
var Codes = map[string]bool{
	"ATL": true, "BOS": true, "BKN": true, "CHA": true, "CHI": true,
	"CLE": true, "DAL": true, "DEN": true, "DET": true, "GSW": true,
	"HOU": true, "IND": true, "LAC": true, "LAL": true, "MEM": true,
	"MIA": true, "MIL": true, "MIN": true, "NOP": true, "NYK": true,
	"OKC": true, "ORL": true, "PHI": true, "PHX": true, "POR": true,
	"SAC": true, "SAS": true, "TOR": true, "UTA": true, "WAS": true,
}

// variants maps lowercased scraped names to canonical codes. Results
// pages use full names, city-only names, and nickname-only names
// interchangeably, so all three spellings are listed per franchise.
var variants = map[string]string{
	"atlanta hawks": "ATL", "atlanta": "ATL", "hawks": "ATL",
	"boston celtics": "BOS", "boston": "BOS", "celtics": "BOS",
	"brooklyn nets": "BKN", "brooklyn": "BKN", "nets": "BKN",
	"charlotte hornets": "CHA", "charlotte": "CHA", "hornets": "CHA",
	"chicago bulls": "CHI", "chicago": "CHI", "bulls": "CHI",
	"cleveland cavaliers": "CLE", "cleveland": "CLE", "cavaliers": "CLE", "cavs": "CLE",
	"dallas mavericks": "DAL", "dallas": "DAL", "mavericks": "DAL", "mavs": "DAL",
	"denver nuggets": "DEN", "denver": "DEN", "nuggets": "DEN",
	"detroit pistons": "DET", "detroit": "DET", "pistons": "DET",
	"golden state warriors": "GSW", "golden state": "GSW", "warriors": "GSW",
	"houston rockets": "HOU", "houston": "HOU", "rockets": "HOU",
	"indiana pacers": "IND", "indiana": "IND", "pacers": "IND",
	"los angeles clippers": "LAC", "la clippers": "LAC", "clippers": "LAC",
	"los angeles lakers": "LAL", "la lakers": "LAL", "lakers": "LAL",
	"memphis grizzlies": "MEM", "memphis": "MEM", "grizzlies": "MEM",
	"miami heat": "MIA", "miami": "MIA", "heat": "MIA",
	"milwaukee bucks": "MIL", "milwaukee": "MIL", "bucks": "MIL",
	"minnesota timberwolves": "MIN", "minnesota": "MIN", "timberwolves": "MIN", "wolves": "MIN",
	"new orleans pelicans": "NOP", "new orleans": "NOP", "pelicans": "NOP",
	"new york knicks": "NYK", "new york": "NYK", "knicks": "NYK",
	"oklahoma city thunder": "OKC", "oklahoma city": "OKC", "thunder": "OKC",
	"orlando magic": "ORL", "orlando": "ORL", "magic": "ORL",
	"philadelphia 76ers": "PHI", "philadelphia": "PHI", "76ers": "PHI", "sixers": "PHI",
	"phoenix suns": "PHX", "phoenix": "PHX", "suns": "PHX",
	"portland trail blazers": "POR", "portland": "POR", "trail blazers": "POR", "blazers": "POR",
	"sacramento kings": "SAC", "sacramento": "SAC", "kings": "SAC",
	"san antonio spurs": "SAS", "san antonio": "SAS", "spurs": "SAS",
	"toronto raptors": "TOR", "toronto": "TOR", "raptors": "TOR",
	"utah jazz": "UTA", "utah": "UTA", "jazz": "UTA",
	"washington wizards": "WAS", "washington": "WAS", "wizards": "WAS",
}

// Standardize maps a scraped team name to its canonical code. The lookup
// is case and whitespace insensitive; an already-canonical code passes
// through. ok is false for names outside the vocabulary; callers must
// treat that as an error rather than letting raw text flow downstream.
func Standardize(name string) (code string, ok bool) {
	cleaned := strings.Join(strings.Fields(strings.TrimSpace(name)), " ")
	if cleaned == "" {
		return "", false
	}
	if upper := strings.ToUpper(cleaned); Codes[upper] {
		return upper, true
	}
	code, ok = variants[strings.ToLower(cleaned)]
	return code, ok
}

// Valid reports whether code belongs to the canonical vocabulary.
func Valid(code string) bool {
	return Codes[code]
}
