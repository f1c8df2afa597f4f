package db

import "database/sql"

// SchemaSQL is the complete schema for a bikepark ledger.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests
// open their databases through Open instead of declaring their own tables, so
// a query that references a missing column fails at test time.
//
// The archive dump (adapters/sqlite) copies the CREATE statement from
// sqlite_master, so an artifact always carries the schema it was taken from.
//
// checked_in_at and checked_out_at hold "YYYY-MM-DD HH:MM" in the ledger's
// configured location. The date is therefore the first ten characters.
// AUTOINCREMENT keeps ids unique across purges and restarts.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS stays (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	bike_color TEXT NOT NULL,
	box INTEGER NOT NULL,
	checked_in_at TEXT NOT NULL,
	checked_out_at TEXT
);
`

// InitSchema creates the ledger tables if they do not exist yet.
// There are no migrations: the layout has a single version.
func InitSchema(database *sql.DB) error {
	_, err := database.Exec(SchemaSQL)
	return err
}
