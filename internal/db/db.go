// Package db opens the SQLite file that backs the stay ledger.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
)

// DefaultFileName is the ledger file created next to the executable.
const DefaultFileName = "bikepark.db"

// DriverName is the database/sql driver registered by this package. It is
// go-sqlite3 with the Fold collation installed on every connection.
const DriverName = "sqlite3_bikepark"

// Fold is a collation that compares strings after Unicode case folding.
// SQLite's built-in NOCASE only folds ASCII, which misses names like "Ágata";
// plain lower-casing also misses pairs like final sigma and "ß"/"SS".
const Fold = "FOLD"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterCollation(Fold, foldCompare)
		},
	})
}

// folder is stateless, so one instance serves every connection.
var folder = cases.Fold()

func foldCompare(a, b string) int {
	return strings.Compare(folder.String(a), folder.String(b))
}

// Open opens (creating if needed) the ledger database at path and applies the schema.
//
// Transactions take the write lock on BEGIN (_txlock=immediate) and the pool is
// capped at one connection, so mutations are serialized and a reader never sees
// a half-applied purge. Use ":memory:" for a throwaway database.
func Open(path string) (*sql.DB, error) {
	database, err := OpenBare(path)
	if err != nil {
		return nil, err
	}

	if err := InitSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// OpenBare opens the database at path without applying the schema.
// Restoring an archive starts from a bare database, since the archive carries
// its own CREATE statements.
func OpenBare(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open(DriverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	database.SetMaxOpenConns(1)

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return database, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return "file::memory:?_txlock=immediate"
	}
	return fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000", path)
}

// DefaultPath returns the ledger path inside the application's install directory.
func DefaultPath() (string, error) {
	dir, err := InstallDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultFileName), nil
}

// InstallDir returns the directory holding the running executable.
func InstallDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return filepath.Dir(resolved), nil
}
