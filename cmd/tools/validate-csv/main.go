// validate-csv re-runs the persistence validation rules over an already
// exported CSV file and prints a report: per-record errors, warnings,
// duplicate game IDs, and season totals.
package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/storage"
	"github.com/courtsidedata/nba-odds-scraper/internal/scraper/validate"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: validate-csv <games.csv>")
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(rows) == 0 {
		log.Fatal("Empty file")
	}

	// Tolerate files with or without the header row.
	if rows[0][0] == storage.Columns[0] {
		rows = rows[1:]
	}

	var games []models.GameRecord
	badRows := 0
	for i, row := range rows {
		g, err := storage.FromRow(row)
		if err != nil {
			log.Printf("Warning: row %d unreadable: %v", i+1, err)
			badRows++
			continue
		}
		games = append(games, *g)
	}

	summary := validate.ValidateBatch(games)
	dups := validate.Duplicates(games)

	bySeason := make(map[string]int)
	for i := range games {
		bySeason[games[i].Season]++
	}
	seasons := make([]string, 0, len(bySeason))
	for s := range bySeason {
		seasons = append(seasons, s)
	}
	sort.Strings(seasons)

	fmt.Printf("=== Validation Results ===\n\n")
	fmt.Printf("Total rows: %d (unreadable: %d)\n", len(rows), badRows)
	fmt.Printf("Valid records: %d\n", summary.Valid)
	fmt.Printf("Records with errors: %d\n", summary.WithErrors)
	fmt.Printf("Records with warnings: %d\n", summary.WithWarnings)
	fmt.Printf("Duplicate game IDs: %d\n\n", len(dups))

	if len(seasons) > 0 {
		fmt.Printf("=== Games per Season ===\n\n")
		for _, s := range seasons {
			fmt.Printf("  %s: %d\n", s, bySeason[s])
		}
		fmt.Println()
	}

	if len(summary.Errors) > 0 {
		fmt.Printf("=== Errors ===\n\n")
		for _, e := range summary.Errors {
			fmt.Printf("  %s\n", e)
		}
		fmt.Println()
	}

	if len(summary.Warnings) > 0 {
		fmt.Printf("=== Warnings ===\n\n")
		for _, w := range summary.Warnings {
			fmt.Printf("  %s\n", w)
		}
		fmt.Println()
	}

	if len(dups) > 0 {
		fmt.Printf("=== Duplicates ===\n\n")
		for _, id := range dups {
			fmt.Printf("  %s\n", id)
		}
		fmt.Println()
	}

	if summary.WithErrors > 0 || len(dups) > 0 {
		os.Exit(1)
	}
	fmt.Println("OK")
}
