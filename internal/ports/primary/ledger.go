package primary

import (
	"context"
	"time"
)

// LedgerService defines the primary port for stay ledger operations.
type LedgerService interface {
	// CheckIn records a new open stay.
	CheckIn(ctx context.Context, req CheckInRequest) (*Stay, error)

	// FindByIdentity returns every stay for a first/last name pair, ignoring case.
	FindByIdentity(ctx context.Context, firstName, lastName string) ([]*Stay, error)

	// FindByID returns the stay with the given id, or nil when absent.
	FindByID(ctx context.Context, id int64) (*Stay, error)

	// CheckOut closes an open stay. Closed stays are returned unchanged,
	// missing ones as nil.
	CheckOut(ctx context.Context, id int64) (*Stay, error)

	// ListAll returns every stay in creation order.
	ListAll(ctx context.Context) ([]*Stay, error)

	// ListByDate returns stays checked in on the calendar day of date.
	ListByDate(ctx context.Context, date time.Time) ([]*Stay, error)

	// OpenStays returns stays still waiting for checkout.
	OpenStays(ctx context.Context) ([]*Stay, error)

	// ArchiveAndPurge exports the whole ledger and then empties it.
	ArchiveAndPurge(ctx context.Context, secret string) (*ArchiveResult, error)
}

// CheckInRequest contains parameters for checking a bike in.
// A zero CheckedInAt means now.
type CheckInRequest struct {
	FirstName   string
	LastName    string
	BikeColor   string
	Box         int
	CheckedInAt time.Time
}

// Stay is one bicycle's visit as seen by callers.
type Stay struct {
	ID           int64
	FirstName    string
	LastName     string
	BikeColor    string
	Box          int
	CheckedInAt  time.Time
	CheckedOutAt *time.Time
}

// Open reports whether the bike has not been retrieved yet.
func (s *Stay) Open() bool {
	return s.CheckedOutAt == nil
}

// ArchiveResult contains the outcome of an archive-and-purge.
type ArchiveResult struct {
	Path   string
	Purged int
}
