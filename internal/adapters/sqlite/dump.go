package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-sqlite3"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type schemaObject struct {
	kind string
	name string
	sql  string
}

// Dump renders the whole database as a SQL script: every user table's CREATE
// statement and rows, the AUTOINCREMENT counters, then indexes, triggers and
// views. Replaying the script into an empty database reproduces the source,
// including which ids have already been issued.
func Dump(ctx context.Context, q queryer) ([]byte, error) {
	objects, err := loadSchema(ctx, q)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("PRAGMA foreign_keys=OFF;\n")
	buf.WriteString("BEGIN TRANSACTION;\n")

	hasSequence := false
	for _, obj := range objects {
		if obj.kind != "table" {
			continue
		}
		if obj.name == "sqlite_sequence" {
			hasSequence = true
			continue
		}
		buf.WriteString(obj.sql)
		buf.WriteString(";\n")
		if err := dumpRows(ctx, q, &buf, obj.name); err != nil {
			return nil, err
		}
	}

	if hasSequence {
		buf.WriteString("DELETE FROM sqlite_sequence;\n")
		if err := dumpRows(ctx, q, &buf, "sqlite_sequence"); err != nil {
			return nil, err
		}
	}

	for _, obj := range objects {
		if obj.kind == "table" {
			continue
		}
		buf.WriteString(obj.sql)
		buf.WriteString(";\n")
	}

	buf.WriteString("COMMIT;\n")
	return buf.Bytes(), nil
}

func loadSchema(ctx context.Context, q queryer) ([]schemaObject, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT type, name, sql FROM sqlite_master
		 WHERE sql IS NOT NULL AND (name NOT LIKE 'sqlite_%' OR name = 'sqlite_sequence')
		 ORDER BY CASE type WHEN 'table' THEN 0 WHEN 'index' THEN 1 WHEN 'trigger' THEN 2 ELSE 3 END, rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	defer rows.Close()

	var objects []schemaObject
	for rows.Next() {
		var obj schemaObject
		if err := rows.Scan(&obj.kind, &obj.name, &obj.sql); err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		objects = append(objects, obj)
	}
	return objects, rows.Err()
}

func dumpRows(ctx context.Context, q queryer, w io.Writer, table string) error {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", quoteIdent(table)))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.ColumnTypes()
	if err != nil {
		return fmt.Errorf("failed to read %s columns: %w", table, err)
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		literals := make([]string, len(values))
		for i, v := range values {
			literals[i] = quoteValue(v, columns[i].DatabaseTypeName())
		}
		if _, err := fmt.Fprintf(w, "INSERT INTO %s VALUES(%s);\n", quoteIdent(table), strings.Join(literals, ",")); err != nil {
			return err
		}
	}
	return rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteValue renders v as a SQL literal. Bytes become a blob literal only for
// BLOB columns; anything else is text the driver handed back as bytes.
func quoteValue(v any, declType string) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case []byte:
		if strings.Contains(strings.ToUpper(declType), "BLOB") || !utf8.Valid(val) {
			return "X'" + hex.EncodeToString(val) + "'"
		}
		return quoteString(string(val))
	case string:
		return quoteString(val)
	case time.Time:
		return quoteString(val.Format(sqlite3.SQLiteTimestampFormats[0]))
	default:
		return quoteString(fmt.Sprint(val))
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Restore replays a dump produced by Dump into database, which must hold no
// user tables yet. Returns the number of stays restored.
func Restore(ctx context.Context, database *sql.DB, script io.Reader) (int, error) {
	var existing int
	if err := database.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
	).Scan(&existing); err != nil {
		return 0, fmt.Errorf("failed to inspect target database: %w", err)
	}
	if existing > 0 {
		return 0, fmt.Errorf("target database already has %d table(s); restore needs an empty database", existing)
	}

	data, err := io.ReadAll(script)
	if err != nil {
		return 0, fmt.Errorf("failed to read archive: %w", err)
	}

	if _, err := database.ExecContext(ctx, string(data)); err != nil {
		return 0, fmt.Errorf("failed to replay archive: %w", err)
	}

	var restored int
	if err := database.QueryRowContext(ctx, "SELECT COUNT(*) FROM stays").Scan(&restored); err != nil {
		return 0, fmt.Errorf("failed to count restored stays: %w", err)
	}

	return restored, nil
}
