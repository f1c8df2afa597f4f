// Package stay contains the pure business logic for bicycle stays.
// Guards are pure functions that evaluate preconditions without side effects.
package stay

import (
	"fmt"
	"strconv"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CheckInContext provides context for check-in guards.
type CheckInContext struct {
	FirstName string
	LastName  string
	BikeColor string
	Box       int
}

// CheckOutContext provides context for check-out guards.
type CheckOutContext struct {
	StayID     int64
	Exists     bool
	CheckedOut bool
}

// PurgeContext provides context for the archive-and-purge gate.
type PurgeContext struct {
	Supplied string
	Expected string
}

// CanCheckIn evaluates whether a stay can be recorded.
// Rules:
// - First name, last name and bike colour must not be blank
// - Box must be a positive number
func CanCheckIn(ctx CheckInContext) GuardResult {
	// Rule 1: required text fields
	fields := []struct{ name, value string }{
		{"first name", ctx.FirstName},
		{"last name", ctx.LastName},
		{"bike color", ctx.BikeColor},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("%s cannot be empty", f.name),
			}
		}
	}

	// Rule 2: box must identify a physical slot
	if ctx.Box <= 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("box must be a positive number (got %d)", ctx.Box),
		}
	}

	return GuardResult{Allowed: true}
}

// CanCheckOut evaluates whether a checkout would change the stay.
// A refusal here is not an error: the caller returns the stay as it is.
// Rules:
// - Stay must exist
// - Stay must still be open
func CanCheckOut(ctx CheckOutContext) GuardResult {
	if !ctx.Exists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("stay %d not found", ctx.StayID),
		}
	}

	if ctx.CheckedOut {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("stay %d is already checked out", ctx.StayID),
		}
	}

	return GuardResult{Allowed: true}
}

// CanPurge evaluates the administrative secret for archive-and-purge.
// The comparison is exact and case-sensitive. An unset expected secret
// refuses every caller.
func CanPurge(ctx PurgeContext) GuardResult {
	if ctx.Expected == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "archive secret is not configured",
		}
	}

	if ctx.Supplied != ctx.Expected {
		return GuardResult{
			Allowed: false,
			Reason:  "wrong archive secret",
		}
	}

	return GuardResult{Allowed: true}
}

// ParseBox converts a box number typed by staff into an int.
func ParseBox(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("box cannot be empty")
	}
	box, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("box must be a whole number (got %q)", raw)
	}
	return box, nil
}
