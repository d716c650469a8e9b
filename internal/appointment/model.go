package appointment

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/academy-console/internal/pkg/apperror"
	"github.com/nekogravitycat/academy-console/internal/timeslot"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "appointment not found")
	ErrLocationNotFound = apperror.New(http.StatusNotFound, "location not found")
	ErrSlotConflict     = apperror.New(http.StatusConflict, "time slot already booked at this location")
	ErrInvalidService   = apperror.New(http.StatusUnprocessableEntity, "service is unknown or has no valid duration")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time on the same day")
	ErrInvalidInput     = apperror.New(http.StatusBadRequest, "invalid input parameters")
	ErrStoreUnavailable = apperror.New(http.StatusServiceUnavailable, "appointment store unavailable, try again")
	ErrTimeout          = apperror.New(http.StatusGatewayTimeout, "appointment store timed out, try again")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ActiveStatuses are the statuses that occupy a slot.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether an appointment in this status blocks its slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Appointment is one booked session of a student at a location.
// Date, StartTime and EndTime are wall-clock values in the academy's timezone.
type Appointment struct {
	ID           string
	StudentID    string
	InstructorID string
	ServiceID    string
	LocationID   string
	Date         string // YYYY-MM-DD
	StartTime    timeslot.Clock
	EndTime      timeslot.Clock
	Status       Status
	Notes        string
	CreatedAt    time.Time

	// Display fields filled by read queries.
	StudentName     string
	InstructorName  string
	ServiceName     string
	LocationName    string
	LocationAddress string
	LocationPhone   string
}

// Interval returns the [StartTime, EndTime) range of the appointment.
func (a *Appointment) Interval() timeslot.Interval {
	return timeslot.Interval{Start: a.StartTime, End: a.EndTime}
}

// Filter selects appointments. Zero-valued fields are ignored.
type Filter struct {
	Date         string // Exact date, YYYY-MM-DD
	DateFrom     string // Inclusive
	DateTo       string // Inclusive
	LocationID   string
	LocationName string
	StudentID    string
	Statuses     []Status
}

func (f Filter) matches(a *Appointment) bool {
	if f.Date != "" && a.Date != f.Date {
		return false
	}
	if f.DateFrom != "" && a.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && a.Date > f.DateTo {
		return false
	}
	if f.LocationID != "" && a.LocationID != f.LocationID {
		return false
	}
	if f.LocationName != "" && a.LocationName != f.LocationName {
		return false
	}
	if f.StudentID != "" && a.StudentID != f.StudentID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if a.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
