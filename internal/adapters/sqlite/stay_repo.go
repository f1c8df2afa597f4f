// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/bikepark/internal/db"
	"github.com/example/bikepark/internal/errs"
	"github.com/example/bikepark/internal/ports/secondary"
)

const stayColumns = "id, first_name, last_name, bike_color, box, checked_in_at, checked_out_at"

// StayRepository implements secondary.StayRepository with SQLite.
type StayRepository struct {
	db *sql.DB
}

// NewStayRepository creates a new SQLite stay repository.
func NewStayRepository(db *sql.DB) *StayRepository {
	return &StayRepository{db: db}
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Create persists a new open stay.
func (r *StayRepository) Create(ctx context.Context, record *secondary.StayRecord) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO stays (first_name, last_name, bike_color, box, checked_in_at, checked_out_at) VALUES (?, ?, ?, ?, ?, NULL)",
		record.FirstName, record.LastName, record.BikeColor, record.Box, record.CheckedInAt,
	)
	if err != nil {
		return errs.Storage(err, "failed to create stay")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errs.Storage(err, "failed to read assigned stay id")
	}

	record.ID = id
	record.CheckedOutAt = ""
	return nil
}

// GetByID retrieves a stay by its ID.
func (r *StayRepository) GetByID(ctx context.Context, id int64) (*secondary.StayRecord, error) {
	record, err := getStay(ctx, r.db, id)
	if err != nil {
		return nil, errs.Storage(err, "failed to get stay")
	}
	return record, nil
}

// List retrieves stays matching the given filters, oldest first.
func (r *StayRepository) List(ctx context.Context, filters secondary.StayFilters) ([]*secondary.StayRecord, error) {
	query := "SELECT " + stayColumns + " FROM stays WHERE 1=1"
	args := []any{}

	if filters.FirstName != "" || filters.LastName != "" {
		query += " AND first_name = ? COLLATE " + db.Fold + " AND last_name = ? COLLATE " + db.Fold
		args = append(args, filters.FirstName, filters.LastName)
	}

	if filters.CheckedInOn != "" {
		query += " AND substr(checked_in_at, 1, 10) = ?"
		args = append(args, filters.CheckedInOn)
	}

	if filters.OpenOnly {
		query += " AND checked_out_at IS NULL"
	}

	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Storage(err, "failed to list stays")
	}
	defer rows.Close()

	stays := []*secondary.StayRecord{}
	for rows.Next() {
		record, err := scanStay(rows)
		if err != nil {
			return nil, errs.Storage(err, "failed to scan stay")
		}
		stays = append(stays, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage(err, "failed to list stays")
	}

	return stays, nil
}

// CheckOut records the checkout time of an open stay.
// The IS NULL guard makes a second checkout a no-op rather than an overwrite.
func (r *StayRepository) CheckOut(ctx context.Context, id int64, checkedOutAt string) (*secondary.StayRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.Storage(err, "failed to begin checkout")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE stays SET checked_out_at = ? WHERE id = ? AND checked_out_at IS NULL",
		checkedOutAt, id,
	); err != nil {
		return nil, errs.Storage(err, fmt.Sprintf("failed to check out stay %d", id))
	}

	record, err := getStay(ctx, tx, id)
	if err != nil {
		return nil, errs.Storage(err, "failed to get stay")
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.Storage(err, "failed to commit checkout")
	}

	return record, nil
}

// ExportAndPurge dumps the ledger, passes the dump to export, and deletes
// every stay only when export returned nil. An export error is returned as is
// and the transaction is rolled back.
func (r *StayRepository) ExportAndPurge(ctx context.Context, export func(dump []byte) error) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.Storage(err, "failed to begin purge")
	}
	defer tx.Rollback()

	dump, err := Dump(ctx, tx)
	if err != nil {
		return 0, errs.Mark(errs.Wrap(err, "failed to dump ledger"), errs.ErrArchive)
	}

	if err := export(dump); err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM stays")
	if err != nil {
		return 0, errs.Storage(err, "failed to purge stays")
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, errs.Storage(err, "failed to count purged stays")
	}

	if err := tx.Commit(); err != nil {
		return 0, errs.Storage(err, "failed to commit purge")
	}

	return int(purged), nil
}

func getStay(ctx context.Context, q rowQuerier, id int64) (*secondary.StayRecord, error) {
	record, err := scanStay(q.QueryRowContext(ctx, "SELECT "+stayColumns+" FROM stays WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func scanStay(s rowScanner) (*secondary.StayRecord, error) {
	var checkedOutAt sql.NullString

	record := &secondary.StayRecord{}
	if err := s.Scan(&record.ID, &record.FirstName, &record.LastName, &record.BikeColor, &record.Box, &record.CheckedInAt, &checkedOutAt); err != nil {
		return nil, err
	}
	record.CheckedOutAt = checkedOutAt.String

	return record, nil
}

// Ensure StayRepository implements the interface
var _ secondary.StayRepository = (*StayRepository)(nil)
