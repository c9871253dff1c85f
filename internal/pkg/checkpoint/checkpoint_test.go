package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

func testGames() []models.GameRecord {
	return []models.GameRecord{
		{GameID: "20240114_BOS_LAL", GameDate: "2024-01-14", Season: "2023-2024", HomeTeam: "LAL", AwayTeam: "BOS"},
		{GameID: "20240115_GSW_BKN", GameDate: "2024-01-15", Season: "2023-2024", HomeTeam: "BKN", AwayTeam: "GSW"},
	}
}

func TestSaveLoadClear(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := store.Save("2023-2024", 3, testGames()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cp, err := store.Load("2023-2024")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cp == nil {
		t.Fatal("Load returned nil after Save")
	}
	if cp.Season != "2023-2024" || cp.Page != 3 || cp.GamesCount != 2 {
		t.Errorf("checkpoint = %+v", cp)
	}
	if cp.LastGameID != "20240115_GSW_BKN" {
		t.Errorf("LastGameID = %q", cp.LastGameID)
	}
	if len(cp.Games) != 2 || cp.Games[0].GameID != "20240114_BOS_LAL" {
		t.Errorf("games not round-tripped: %+v", cp.Games)
	}
	if cp.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	if err := store.Clear("2023-2024"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	cp, err = store.Load("2023-2024")
	if err != nil || cp != nil {
		t.Errorf("after Clear: cp=%v err=%v", cp, err)
	}
}

func TestLoadMissing(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	cp, err := store.Load("2019-2020")
	if err != nil {
		t.Fatalf("Load of missing checkpoint errored: %v", err)
	}
	if cp != nil {
		t.Errorf("Load of missing checkpoint = %+v, want nil", cp)
	}
}

func TestLoadCorrupted(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewStore(dir)

	path := filepath.Join(dir, "checkpoint_2023-2024.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	cp, err := store.Load("2023-2024")
	if err != nil {
		t.Fatalf("corrupted checkpoint must not error: %v", err)
	}
	if cp != nil {
		t.Errorf("corrupted checkpoint returned %+v, want nil", cp)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	if err := store.Save("2023-2024", 1, testGames()[:1]); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("2023-2024", 2, testGames()); err != nil {
		t.Fatal(err)
	}

	cp, err := store.Load("2023-2024")
	if err != nil || cp == nil {
		t.Fatalf("Load: cp=%v err=%v", cp, err)
	}
	if cp.Page != 2 || cp.GamesCount != 2 {
		t.Errorf("latest save not reflected: %+v", cp)
	}
}

func TestClearMissingIsNoop(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	if err := store.Clear("2019-2020"); err != nil {
		t.Errorf("Clear of missing checkpoint errored: %v", err)
	}
}
