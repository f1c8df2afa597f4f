package db

import (
	"path/filepath"
	"testing"
	"time"
)

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bikepark.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='stays'").Scan(&count); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if count != 1 {
		t.Errorf("expected stays table, got count %d", count)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bikepark.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := first.Exec("INSERT INTO stays (first_name, last_name, bike_color, box, checked_in_at) VALUES ('Ana', 'Silva', 'red', 12, '2024-05-10 08:15')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	var count int
	if err := second.QueryRow("SELECT COUNT(*) FROM stays").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 stay after reopen, got %d", count)
	}
}

func TestSeedFixtures(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	now := time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC)
	if err := SeedFixtures(database, now); err != nil {
		t.Fatalf("SeedFixtures failed: %v", err)
	}

	var open int
	if err := database.QueryRow("SELECT COUNT(*) FROM stays WHERE checked_out_at IS NULL").Scan(&open); err != nil {
		t.Fatalf("count open: %v", err)
	}
	if open != 2 {
		t.Errorf("expected 2 open stays, got %d", open)
	}

	var first string
	if err := database.QueryRow("SELECT checked_in_at FROM stays ORDER BY id LIMIT 1").Scan(&first); err != nil {
		t.Fatalf("first stay: %v", err)
	}
	if first != "2024-05-10 08:15" {
		t.Errorf("expected first check-in 2024-05-10 08:15, got %s", first)
	}
}

func TestFoldCollation(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	tests := []struct {
		a, b string
		want bool
	}{
		{"Ana", "ANA", true},
		{"Ágata", "ágata", true},
		{"João", "JOÃO", true},
		{"ΟΔΥΣΣΕΥΣ", "οδυσσευς", true},
		{"Strauß", "STRAUSS", true},
		{"Ana", "Anabela", false},
	}

	for _, tt := range tests {
		var equal bool
		if err := database.QueryRow("SELECT ? = ? COLLATE "+Fold, tt.a, tt.b).Scan(&equal); err != nil {
			t.Fatalf("compare %q/%q: %v", tt.a, tt.b, err)
		}
		if equal != tt.want {
			t.Errorf("%q = %q COLLATE FOLD: got %v, want %v", tt.a, tt.b, equal, tt.want)
		}
	}
}
