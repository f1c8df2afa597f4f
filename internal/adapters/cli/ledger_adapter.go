// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	corestay "github.com/example/bikepark/internal/core/stay"
	"github.com/example/bikepark/internal/errs"
	"github.com/example/bikepark/internal/ports/primary"
)

// LedgerAdapter is a thin adapter that translates CLI operations to LedgerService calls.
// It depends only on the LedgerService interface, enabling easy testing with mocks.
type LedgerAdapter struct {
	service primary.LedgerService
	out     io.Writer
	in      *bufio.Reader
	loc     *time.Location
}

// NewLedgerAdapter creates a new LedgerAdapter. in answers confirmation
// prompts; loc interprets dates typed by staff.
func NewLedgerAdapter(service primary.LedgerService, out io.Writer, in io.Reader, loc *time.Location) *LedgerAdapter {
	if loc == nil {
		loc = time.Local
	}
	return &LedgerAdapter{
		service: service,
		out:     out,
		in:      bufio.NewReader(in),
		loc:     loc,
	}
}

// ParseStayID parses a stay id typed on the command line.
func ParseStayID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation("stay id must be a positive whole number (got %q)", raw)
	}
	return id, nil
}

// CheckIn records a bike arriving now.
func (a *LedgerAdapter) CheckIn(ctx context.Context, firstName, lastName, bikeColor, rawBox string) error {
	box, err := corestay.ParseBox(rawBox)
	if err != nil {
		return errs.Mark(err, errs.ErrValidation)
	}

	stay, err := a.service.CheckIn(ctx, primary.CheckInRequest{
		FirstName: firstName,
		LastName:  lastName,
		BikeColor: bikeColor,
		Box:       box,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Checked in stay %d: %s %s, %s bike in box %d at %s\n",
		stay.ID, stay.FirstName, stay.LastName, stay.BikeColor, stay.Box, displayTime(stay.CheckedInAt))
	return nil
}

// CheckOut records a bike leaving. Repeating it on a closed stay reports the
// original checkout time.
func (a *LedgerAdapter) CheckOut(ctx context.Context, rawID string) error {
	id, err := ParseStayID(rawID)
	if err != nil {
		return err
	}

	before, err := a.service.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if before == nil {
		return fmt.Errorf("stay %d not found", id)
	}

	stay, err := a.service.CheckOut(ctx, id)
	if err != nil {
		return err
	}
	if stay == nil {
		return fmt.Errorf("stay %d not found", id)
	}

	if !before.Open() {
		fmt.Fprintf(a.out, "Stay %d was already checked out at %s\n", stay.ID, displayTime(*stay.CheckedOutAt))
		return nil
	}
	fmt.Fprintf(a.out, "✓ Checked out stay %d (box %d) at %s\n", stay.ID, stay.Box, displayTime(*stay.CheckedOutAt))
	return nil
}

// Show displays details for a single stay.
func (a *LedgerAdapter) Show(ctx context.Context, rawID string) (*primary.Stay, error) {
	id, err := ParseStayID(rawID)
	if err != nil {
		return nil, err
	}

	stay, err := a.service.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get stay: %w", err)
	}
	if stay == nil {
		return nil, fmt.Errorf("stay %d not found", id)
	}

	fmt.Fprintf(a.out, "\nStay:        %d\n", stay.ID)
	fmt.Fprintf(a.out, "Name:        %s %s\n", stay.FirstName, stay.LastName)
	fmt.Fprintf(a.out, "Bike color:  %s\n", stay.BikeColor)
	fmt.Fprintf(a.out, "Box:         %d\n", stay.Box)
	fmt.Fprintf(a.out, "Checked in:  %s\n", displayTime(stay.CheckedInAt))
	fmt.Fprintf(a.out, "Checked out: %s\n", checkoutCell(stay))
	fmt.Fprintln(a.out)

	return stay, nil
}

// Find lists every stay for a person, ignoring case.
func (a *LedgerAdapter) Find(ctx context.Context, firstName, lastName string) error {
	stays, err := a.service.FindByIdentity(ctx, firstName, lastName)
	if err != nil {
		return fmt.Errorf("failed to find stays: %w", err)
	}

	if len(stays) == 0 {
		fmt.Fprintf(a.out, "No stays found for %s %s\n", firstName, lastName)
		return nil
	}
	a.renderStays(stays)
	return nil
}

// Resolve looks a person up and, for each of their open stays, asks whether
// the bike has been collected. Confirmed stays are checked out, then the
// refreshed stays are listed.
func (a *LedgerAdapter) Resolve(ctx context.Context, firstName, lastName string) error {
	stays, err := a.service.FindByIdentity(ctx, firstName, lastName)
	if err != nil {
		return fmt.Errorf("failed to find stays: %w", err)
	}

	if len(stays) == 0 {
		fmt.Fprintf(a.out, "No stays found for %s %s\n", firstName, lastName)
		return nil
	}

	for i, stay := range stays {
		if !stay.Open() {
			continue
		}
		question := fmt.Sprintf("Record checkout for stay %d (%s bike, box %d, in since %s)?",
			stay.ID, stay.BikeColor, stay.Box, displayTime(stay.CheckedInAt))
		if !a.confirm(question) {
			continue
		}
		closed, err := a.service.CheckOut(ctx, stay.ID)
		if err != nil {
			return err
		}
		if closed != nil {
			stays[i] = closed
		}
	}

	a.renderStays(stays)
	return nil
}

// List lists every stay in the ledger.
func (a *LedgerAdapter) List(ctx context.Context) error {
	stays, err := a.service.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stays: %w", err)
	}

	if len(stays) == 0 {
		fmt.Fprintln(a.out, "No stays found")
		return nil
	}
	a.renderStays(stays)
	return nil
}

// ListByDate lists stays checked in on the given day (YYYY-MM-DD or DD-MM-YYYY).
func (a *LedgerAdapter) ListByDate(ctx context.Context, rawDate string) error {
	date, err := corestay.ParseDate(rawDate, a.loc)
	if err != nil {
		return errs.Mark(err, errs.ErrValidation)
	}

	stays, err := a.service.ListByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to list stays: %w", err)
	}

	if len(stays) == 0 {
		fmt.Fprintf(a.out, "No stays checked in on %s\n", date.Format(corestay.DisplayDateLayout))
		return nil
	}
	a.renderStays(stays)
	return nil
}

// Pending lists stays whose bikes are still in the rack.
func (a *LedgerAdapter) Pending(ctx context.Context) error {
	stays, err := a.service.OpenStays(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending stays: %w", err)
	}

	if len(stays) == 0 {
		fmt.Fprintln(a.out, "No bikes pending checkout")
		return nil
	}
	a.renderStays(stays)
	fmt.Fprintf(a.out, "%d bike(s) pending checkout\n", len(stays))
	return nil
}

// Archive exports the ledger and empties it.
func (a *LedgerAdapter) Archive(ctx context.Context, secret string) error {
	result, err := a.service.ArchiveAndPurge(ctx, secret)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Archived %d stay(s) to %s\n", result.Purged, result.Path)
	fmt.Fprintln(a.out, "  Ledger is now empty")
	return nil
}

func (a *LedgerAdapter) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", question)
	answer, err := a.in.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(a.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "sim":
		return true
	default:
		return false
	}
}

func (a *LedgerAdapter) renderStays(stays []*primary.Stay) {
	fmt.Fprintf(a.out, "\n%-6s %-5s %-10s %-28s %-18s %s\n", "ID", "BOX", "COLOR", "NAME", "CHECKED IN", "CHECKED OUT")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────────")
	for _, s := range stays {
		name := s.FirstName + " " + s.LastName
		fmt.Fprintf(a.out, "%-6d %-5d %-10s %-28s %-18s %s\n",
			s.ID, s.Box, s.BikeColor, name, displayTime(s.CheckedInAt), checkoutCell(s))
	}
	fmt.Fprintln(a.out)
}

func checkoutCell(s *primary.Stay) string {
	if s.Open() {
		return color.New(color.FgYellow).Sprint("PENDING")
	}
	return color.New(color.FgGreen).Sprint(displayTime(*s.CheckedOutAt))
}

func displayTime(t time.Time) string {
	return t.Format(corestay.DisplayLayout)
}
