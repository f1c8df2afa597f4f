// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// StayRepository defines the secondary port for stay persistence.
type StayRepository interface {
	// Create persists a new open stay and sets record.ID to the assigned id.
	Create(ctx context.Context, record *StayRecord) error

	// GetByID retrieves a stay by its ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id int64) (*StayRecord, error)

	// List retrieves stays matching the given filters, in insertion order.
	List(ctx context.Context, filters StayFilters) ([]*StayRecord, error)

	// CheckOut sets checked_out_at on an open stay and returns the row as it
	// stands afterwards. Closed rows come back unchanged; missing rows as nil, nil.
	CheckOut(ctx context.Context, id int64, checkedOutAt string) (*StayRecord, error)

	// ExportAndPurge hands a full dump of the ledger to export and, only if
	// export succeeds, deletes every stay. Both happen under one write
	// transaction. Returns the number of stays deleted.
	ExportAndPurge(ctx context.Context, export func(dump []byte) error) (int, error)
}

// StayRecord represents a stay as stored in persistence.
// Timestamps use the stored layout; empty CheckedOutAt means open.
type StayRecord struct {
	ID           int64
	FirstName    string
	LastName     string
	BikeColor    string
	Box          int
	CheckedInAt  string
	CheckedOutAt string
}

// StayFilters contains filter options for querying stays.
// FirstName and LastName match exactly, ignoring case, and must be set together.
type StayFilters struct {
	FirstName   string
	LastName    string
	CheckedInOn string // date portion, YYYY-MM-DD
	OpenOnly    bool
}
