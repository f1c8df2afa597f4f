// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where test databases are created. Every
// setup goes through db.Open, which applies db.SchemaSQL, so tests run
// against the authoritative schema and the same FOLD collation as production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	"github.com/example/bikepark/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// setupBareDB creates an in-memory database with no tables, as a restore target.
func setupBareDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.OpenBare(":memory:")
	if err != nil {
		t.Fatalf("failed to open bare test db: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedStay inserts a stay directly and returns its id.
// An empty checkedOutAt leaves the stay open.
func seedStay(t *testing.T, db *sql.DB, first, last, color string, box int, checkedInAt, checkedOutAt string) int64 {
	t.Helper()

	var out sql.NullString
	if checkedOutAt != "" {
		out = sql.NullString{String: checkedOutAt, Valid: true}
	}

	result, err := db.Exec(
		"INSERT INTO stays (first_name, last_name, bike_color, box, checked_in_at, checked_out_at) VALUES (?, ?, ?, ?, ?, ?)",
		first, last, color, box, checkedInAt, out,
	)
	if err != nil {
		t.Fatalf("failed to seed stay: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded id: %v", err)
	}
	return id
}

// countStays returns the number of rows in stays.
func countStays(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM stays").Scan(&n); err != nil {
		t.Fatalf("failed to count stays: %v", err)
	}
	return n
}
