package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/academy-console/internal/catalog"
	"github.com/nekogravitycat/academy-console/internal/lock"
	"github.com/nekogravitycat/academy-console/internal/pkg/apperror"
	"github.com/nekogravitycat/academy-console/internal/timeslot"
	"go.uber.org/zap"
)

type BookRequest struct {
	StudentID    string
	InstructorID string
	ServiceID    string
	LocationID   string
	Date         string // YYYY-MM-DD
	StartTime    string // HH:MM
	Notes        string
}

type BookingService struct {
	repo         Repository
	catalog      catalog.Reader
	availability *AvailabilityService
	locker       lock.Locker
	publisher    Publisher
	logger       *zap.Logger
	timeout      time.Duration
}

func NewBookingService(
	repo Repository,
	catalogReader catalog.Reader,
	availability *AvailabilityService,
	locker lock.Locker,
	publisher Publisher,
	logger *zap.Logger,
	timeout time.Duration,
) *BookingService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &BookingService{
		repo:         repo,
		catalog:      catalogReader,
		availability: availability,
		locker:       locker,
		publisher:    publisher,
		logger:       logger,
		timeout:      timeout,
	}
}

// Book creates a pending appointment for the requested slot. The availability
// check and the insert run under a lock on (location, date), so two overlapping
// requests for the same branch can never both succeed.
func (s *BookingService) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	// 1. Validate input
	if strings.TrimSpace(req.StudentID) == "" || strings.TrimSpace(req.InstructorID) == "" ||
		strings.TrimSpace(req.ServiceID) == "" || strings.TrimSpace(req.LocationID) == "" {
		return nil, ErrInvalidInput
	}
	if _, err := timeslot.ParseDate(req.Date); err != nil {
		return nil, apperror.WrapAs(err, ErrInvalidTimeRange)
	}
	start, err := timeslot.ParseClock(req.StartTime)
	if err != nil {
		return nil, apperror.WrapAs(err, ErrInvalidTimeRange)
	}

	// 2. Resolve service duration
	svc, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	duration, err := svc.Duration()
	if err != nil {
		return nil, apperror.WrapAs(err, ErrInvalidService)
	}

	// 3. Compute end time, same day only
	end, ok := start.Add(duration)
	if !ok {
		return nil, ErrInvalidTimeRange
	}

	// 4. Resolve location
	loc, err := s.lookupLocation(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	// 5. Check and insert under the slot lock
	a := &Appointment{
		StudentID:       req.StudentID,
		InstructorID:    req.InstructorID,
		ServiceID:       svc.ID,
		LocationID:      loc.ID,
		Date:            req.Date,
		StartTime:       start,
		EndTime:         end,
		Status:          StatusPending,
		Notes:           strings.TrimSpace(req.Notes),
		ServiceName:     svc.Name,
		LocationName:    loc.Name,
		LocationAddress: loc.Address,
		LocationPhone:   loc.Phone,
	}
	if err := s.reserve(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("appointment booked",
		zap.String("appointment_id", a.ID),
		zap.String("location_id", a.LocationID),
		zap.String("date", a.Date),
		zap.Stringer("start", a.StartTime),
		zap.Stringer("end", a.EndTime),
	)

	// 6. Announce outside the lock; the booking stands even if the broker is down
	pubCtx, cancelPub := context.WithTimeout(ctx, s.timeout)
	defer cancelPub()
	if err := s.publisher.Booked(pubCtx, a); err != nil {
		s.logger.Warn("publish booked event failed",
			zap.String("appointment_id", a.ID),
			zap.Error(err),
		)
	}

	return a, nil
}

// reserve inserts a if its slot is still free. The lock on (location, date)
// is held only across the availability read and the insert.
func (s *BookingService) reserve(ctx context.Context, a *Appointment) error {
	lockCtx, cancelLock := context.WithTimeout(ctx, s.timeout)
	release, err := s.locker.Acquire(lockCtx, slotKey(a.LocationID, a.Date))
	cancelLock()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperror.WrapAs(err, ErrTimeout)
		}
		return apperror.WrapAs(err, ErrStoreUnavailable)
	}
	defer release()

	free, err := s.availability.IsAvailable(ctx, Query{
		Date:       a.Date,
		Start:      a.StartTime,
		End:        a.EndTime,
		LocationID: a.LocationID,
	})
	if err != nil {
		return err
	}
	if !free {
		s.logger.Info("slot conflict",
			zap.String("location_id", a.LocationID),
			zap.String("date", a.Date),
			zap.Stringer("start", a.StartTime),
			zap.Stringer("end", a.EndTime),
		)
		return ErrSlotConflict
	}

	createCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Create(createCtx, a); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *BookingService) lookupService(ctx context.Context, id string) (*catalog.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	svc, err := s.catalog.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return nil, apperror.WrapAs(err, ErrInvalidService)
		}
		return nil, storeError(err)
	}
	return svc, nil
}

func (s *BookingService) lookupLocation(ctx context.Context, id string) (*catalog.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	loc, err := s.catalog.GetLocation(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrLocationNotFound) {
			return nil, apperror.WrapAs(err, ErrLocationNotFound)
		}
		return nil, storeError(err)
	}
	return loc, nil
}

func slotKey(locationID, date string) string {
	return locationID + "|" + date
}
