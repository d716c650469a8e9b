package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/nekogravitycat/academy-console/internal/pkg/apperror"
	"github.com/nekogravitycat/academy-console/internal/timeslot"
)

// DefaultStoreTimeout bounds a single round trip to the store.
const DefaultStoreTimeout = 3 * time.Second

// Query asks whether [Start, End) is free at a location on Date.
// LocationID is preferred when set; otherwise the location is matched by name.
type Query struct {
	Date         string
	Start        timeslot.Clock
	End          timeslot.Clock
	LocationID   string
	LocationName string
}

func (q Query) validate() error {
	if q.LocationID == "" && q.LocationName == "" {
		return ErrInvalidInput
	}
	if _, err := timeslot.ParseDate(q.Date); err != nil {
		return apperror.WrapAs(err, ErrInvalidTimeRange)
	}
	if !(timeslot.Interval{Start: q.Start, End: q.End}).Valid() {
		return ErrInvalidTimeRange
	}
	return nil
}

type AvailabilityService struct {
	repo    Repository
	timeout time.Duration
}

func NewAvailabilityService(repo Repository, timeout time.Duration) *AvailabilityService {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &AvailabilityService{repo: repo, timeout: timeout}
}

// IsAvailable reports whether no active appointment overlaps the queried slot.
// A store failure is returned as an error, never as "available".
func (s *AvailabilityService) IsAvailable(ctx context.Context, q Query) (bool, error) {
	conflicts, err := s.Conflicts(ctx, q)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// Conflicts returns the active appointments that overlap the queried slot.
func (s *AvailabilityService) Conflicts(ctx context.Context, q Query) ([]*Appointment, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	filter := Filter{Date: q.Date, Statuses: ActiveStatuses}
	if q.LocationID != "" {
		filter.LocationID = q.LocationID
	} else {
		filter.LocationName = q.LocationName
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	existing, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}

	proposed := timeslot.Interval{Start: q.Start, End: q.End}
	var conflicts []*Appointment
	for _, a := range existing {
		if a.Interval().Overlaps(proposed) {
			conflicts = append(conflicts, a)
		}
	}
	return conflicts, nil
}

// storeError classifies a failed store round trip. Domain errors pass through;
// a deadline becomes ErrTimeout and anything else ErrStoreUnavailable.
func storeError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.WrapAs(err, ErrTimeout)
	}
	return apperror.WrapAs(err, ErrStoreUnavailable)
}
