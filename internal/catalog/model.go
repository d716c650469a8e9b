package catalog

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/academy-console/internal/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	ErrServiceNotFound  = apperror.New(http.StatusNotFound, "service not found")
	ErrLocationNotFound = apperror.New(http.StatusNotFound, "location not found")
	ErrInvalidCategory  = apperror.New(http.StatusBadRequest, "invalid service category")
	ErrInvalidDuration  = apperror.New(http.StatusUnprocessableEntity, "service duration is not a valid length of time")
)

type Category string

const (
	CategoryCourse       Category = "course"
	CategoryService      Category = "service"
	CategoryConsultation Category = "consultation"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCourse, CategoryService, CategoryConsultation:
		return true
	}
	return false
}

// Service is a bookable catalog entry: a certification course, a beauty
// treatment or a consultation.
type Service struct {
	ID            string
	Name          string
	DurationHours float64 // Authoritative when positive
	DurationLabel string  // Free text shown in the console, e.g. "30 minutes"
	Price         decimal.Decimal
	Category      Category
	Description   string
	CreatedAt     time.Time
}

// Duration returns how long one appointment for the service lasts.
// The numeric field wins; the display label is parsed only when no number is stored.
func (s *Service) Duration() (time.Duration, error) {
	if s.DurationHours > 0 {
		if s.DurationHours >= MaxDuration.Hours() {
			return 0, fmt.Errorf("%w: %g hours", ErrInvalidDuration, s.DurationHours)
		}
		return hoursToDuration(s.DurationHours), nil
	}
	return ParseDurationLabel(s.DurationLabel)
}

// Location is one of the academy's branches.
type Location struct {
	ID              string
	Name            string
	Address         string
	Phone           string
	InstructorID    string
	InstructorName  string
	InstructorPhone string
	CreatedAt       time.Time
}

// ServiceFilter defines parameters for listing services.
type ServiceFilter struct {
	Category Category
}
