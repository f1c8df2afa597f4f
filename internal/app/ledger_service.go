package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	corestay "github.com/example/bikepark/internal/core/stay"
	"github.com/example/bikepark/internal/errs"
	"github.com/example/bikepark/internal/ports/primary"
	"github.com/example/bikepark/internal/ports/secondary"
)

// LedgerServiceImpl implements the LedgerService interface.
type LedgerServiceImpl struct {
	stayRepo secondary.StayRepository
	archives secondary.ArchiveStore
	secret   string
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger

	// mu serializes check-in, checkout and purge.
	mu sync.Mutex
}

// LedgerOption customizes a LedgerServiceImpl.
type LedgerOption func(*LedgerServiceImpl)

// WithLocation sets the time zone stays are recorded in. Defaults to time.Local.
func WithLocation(loc *time.Location) LedgerOption {
	return func(s *LedgerServiceImpl) {
		s.loc = loc
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *LedgerServiceImpl) {
		s.now = now
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) LedgerOption {
	return func(s *LedgerServiceImpl) {
		s.logger = logger
	}
}

// NewLedgerService creates a new LedgerService with injected dependencies.
// secret gates ArchiveAndPurge; an empty secret disables it.
func NewLedgerService(stayRepo secondary.StayRepository, archives secondary.ArchiveStore, secret string, opts ...LedgerOption) *LedgerServiceImpl {
	s := &LedgerServiceImpl{
		stayRepo: stayRepo,
		archives: archives,
		secret:   secret,
		loc:      time.Local,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckIn records a new open stay.
func (s *LedgerServiceImpl) CheckIn(ctx context.Context, req primary.CheckInRequest) (*primary.Stay, error) {
	guard := corestay.CanCheckIn(corestay.CheckInContext{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BikeColor: req.BikeColor,
		Box:       req.Box,
	})
	if !guard.Allowed {
		return nil, errs.Validation("%s", guard.Reason)
	}

	checkedInAt := req.CheckedInAt
	if checkedInAt.IsZero() {
		checkedInAt = s.now()
	}

	record := &secondary.StayRecord{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BikeColor:   req.BikeColor,
		Box:         req.Box,
		CheckedInAt: corestay.FormatStored(corestay.Minute(checkedInAt, s.loc), s.loc),
	}

	s.mu.Lock()
	err := s.stayRepo.Create(ctx, record)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("check-in failed", zap.Int("box", req.Box), zap.Error(err))
		return nil, err
	}

	s.logger.Info("stay checked in", zap.Int64("stay_id", record.ID), zap.Int("box", record.Box))
	return s.recordToStay(record)
}

// FindByIdentity returns every stay for a first/last name pair, ignoring case.
// Blank names match nothing.
func (s *LedgerServiceImpl) FindByIdentity(ctx context.Context, firstName, lastName string) ([]*primary.Stay, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return []*primary.Stay{}, nil
	}

	return s.list(ctx, secondary.StayFilters{
		FirstName: firstName,
		LastName:  lastName,
	})
}

// FindByID returns the stay with the given id, or nil when absent.
func (s *LedgerServiceImpl) FindByID(ctx context.Context, id int64) (*primary.Stay, error) {
	record, err := s.stayRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return s.recordToStay(record)
}

// CheckOut closes an open stay. A missing stay returns nil and a closed one is
// returned unchanged: checkout is safe to repeat.
func (s *LedgerServiceImpl) CheckOut(ctx context.Context, id int64) (*primary.Stay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.stayRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	guard := corestay.CanCheckOut(corestay.CheckOutContext{
		StayID:     id,
		Exists:     current != nil,
		CheckedOut: current != nil && current.CheckedOutAt != "",
	})
	if !guard.Allowed {
		s.logger.Debug("checkout skipped", zap.Int64("stay_id", id), zap.String("reason", guard.Reason))
		if current == nil {
			return nil, nil
		}
		return s.recordToStay(current)
	}

	checkedOutAt := corestay.FormatStored(corestay.Minute(s.now(), s.loc), s.loc)
	record, err := s.stayRepo.CheckOut(ctx, id, checkedOutAt)
	if err != nil {
		s.logger.Error("checkout failed", zap.Int64("stay_id", id), zap.Error(err))
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	s.logger.Info("stay checked out", zap.Int64("stay_id", id), zap.Int("box", record.Box))
	return s.recordToStay(record)
}

// ListAll returns every stay in creation order.
func (s *LedgerServiceImpl) ListAll(ctx context.Context) ([]*primary.Stay, error) {
	return s.list(ctx, secondary.StayFilters{})
}

// ListByDate returns stays checked in on the calendar day of date.
func (s *LedgerServiceImpl) ListByDate(ctx context.Context, date time.Time) ([]*primary.Stay, error) {
	return s.list(ctx, secondary.StayFilters{
		CheckedInOn: corestay.DateKey(date),
	})
}

// OpenStays returns stays still waiting for checkout.
func (s *LedgerServiceImpl) OpenStays(ctx context.Context) ([]*primary.Stay, error) {
	return s.list(ctx, secondary.StayFilters{OpenOnly: true})
}

// ArchiveAndPurge writes the whole ledger to today's archive artifact and
// then deletes every stay. A wrong secret, or any failure before the
// artifact is in place, leaves the ledger untouched.
func (s *LedgerServiceImpl) ArchiveAndPurge(ctx context.Context, secret string) (*primary.ArchiveResult, error) {
	guard := corestay.CanPurge(corestay.PurgeContext{
		Supplied: secret,
		Expected: s.secret,
	})
	if !guard.Allowed {
		s.logger.Warn("archive refused", zap.String("reason", guard.Reason))
		return nil, errs.Mark(guard.Error(), errs.ErrPermissionDenied)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := corestay.ArchiveFileName(s.now(), s.loc)

	var path string
	purged, err := s.stayRepo.ExportAndPurge(ctx, func(dump []byte) error {
		written, err := s.archives.Write(ctx, name, dump)
		if err != nil {
			return errs.Mark(errs.Wrap(err, "failed to write archive"), errs.ErrArchive)
		}
		path = written
		return nil
	})
	if err != nil {
		s.logger.Error("archive and purge failed", zap.String("archive", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("ledger archived and purged", zap.String("archive", path), zap.Int("purged", purged))
	return &primary.ArchiveResult{
		Path:   path,
		Purged: purged,
	}, nil
}

func (s *LedgerServiceImpl) list(ctx context.Context, filters secondary.StayFilters) ([]*primary.Stay, error) {
	records, err := s.stayRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	stays := make([]*primary.Stay, len(records))
	for i, r := range records {
		stay, err := s.recordToStay(r)
		if err != nil {
			return nil, err
		}
		stays[i] = stay
	}
	return stays, nil
}

func (s *LedgerServiceImpl) recordToStay(r *secondary.StayRecord) (*primary.Stay, error) {
	checkedInAt, err := corestay.ParseStored(r.CheckedInAt, s.loc)
	if err != nil {
		return nil, errs.Storage(err, "corrupt check-in time")
	}

	stay := &primary.Stay{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		BikeColor:   r.BikeColor,
		Box:         r.Box,
		CheckedInAt: checkedInAt,
	}

	if r.CheckedOutAt != "" {
		checkedOutAt, err := corestay.ParseStored(r.CheckedOutAt, s.loc)
		if err != nil {
			return nil, errs.Storage(err, "corrupt checkout time")
		}
		stay.CheckedOutAt = &checkedOutAt
	}

	return stay, nil
}

// Ensure LedgerServiceImpl implements the interface
var _ primary.LedgerService = (*LedgerServiceImpl)(nil)
