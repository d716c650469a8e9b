package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/nekogravitycat/academy-console/internal/timeslot"
)

// MaxWindowDays caps how far ahead a calendar window may reach.
const MaxWindowDays = 366

// Calendar is the upcoming agenda grouped for display.
type Calendar struct {
	From         string
	To           string
	Appointments []*Appointment
	Days         []Day
	Summary      Summary
}

// Day holds the appointments of one date, grouped by branch.
type Day struct {
	Date      string
	Count     int
	Locations []LocationGroup
}

type LocationGroup struct {
	Name         string
	Address      string
	Phone        string
	Appointments []*Appointment
}

type Summary struct {
	Total      int
	ByStatus   map[Status]int
	ByLocation map[string]int
}

// CalendarService is the read side of the agenda.
type CalendarService struct {
	repo    Repository
	loc     *time.Location
	timeout time.Duration
	now     func() time.Time
}

type CalendarOption func(*CalendarService)

// WithClock replaces the wall clock used to decide what "today" is.
func WithClock(now func() time.Time) CalendarOption {
	return func(s *CalendarService) {
		s.now = now
	}
}

func NewCalendarService(repo Repository, loc *time.Location, timeout time.Duration, opts ...CalendarOption) *CalendarService {
	if loc == nil {
		loc = time.UTC
	}
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	s := &CalendarService{repo: repo, loc: loc, timeout: timeout, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the timezone dates are evaluated in.
func (s *CalendarService) Location() *time.Location {
	return s.loc
}

func (s *CalendarService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// ListWindow returns every appointment dated from today through today+days,
// both ends included.
func (s *CalendarService) ListWindow(ctx context.Context, days int) (*Calendar, error) {
	if days < 0 || days > MaxWindowDays {
		return nil, ErrInvalidInput
	}

	from := s.today()
	to := from.AddDate(0, 0, days)

	appointments, err := s.List(ctx, Filter{
		DateFrom: from.Format(timeslot.DateLayout),
		DateTo:   to.Format(timeslot.DateLayout),
	})
	if err != nil {
		return nil, err
	}

	return buildCalendar(from.Format(timeslot.DateLayout), to.Format(timeslot.DateLayout), appointments), nil
}

// Today returns today's pending and confirmed appointments.
func (s *CalendarService) Today(ctx context.Context) ([]*Appointment, error) {
	return s.List(ctx, Filter{
		Date:     s.today().Format(timeslot.DateLayout),
		Statuses: ActiveStatuses,
	})
}

func (s *CalendarService) List(ctx context.Context, filter Filter) ([]*Appointment, error) {
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, ErrInvalidInput
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return appointments, nil
}

func (s *CalendarService) GetByID(ctx context.Context, id string) (*Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return a, nil
}

// buildCalendar groups appointments, which must already be ordered by date
// and start time, into days and branches.
func buildCalendar(from, to string, appointments []*Appointment) *Calendar {
	cal := &Calendar{
		From:         from,
		To:           to,
		Appointments: appointments,
		Summary: Summary{
			Total:      len(appointments),
			ByStatus:   make(map[Status]int),
			ByLocation: make(map[string]int),
		},
	}
	if cal.Appointments == nil {
		cal.Appointments = []*Appointment{}
	}

	dayIndex := make(map[string]int)
	for _, a := range appointments {
		cal.Summary.ByStatus[a.Status]++
		cal.Summary.ByLocation[a.LocationName]++

		i, ok := dayIndex[a.Date]
		if !ok {
			cal.Days = append(cal.Days, Day{Date: a.Date})
			i = len(cal.Days) - 1
			dayIndex[a.Date] = i
		}
		day := &cal.Days[i]
		day.Count++
		day.addToLocation(a)
	}

	for i := range cal.Days {
		sort.SliceStable(cal.Days[i].Locations, func(x, y int) bool {
			return cal.Days[i].Locations[x].Name < cal.Days[i].Locations[y].Name
		})
	}
	return cal
}

func (d *Day) addToLocation(a *Appointment) {
	for i := range d.Locations {
		if d.Locations[i].Name == a.LocationName {
			d.Locations[i].Appointments = append(d.Locations[i].Appointments, a)
			return
		}
	}
	d.Locations = append(d.Locations, LocationGroup{
		Name:         a.LocationName,
		Address:      a.LocationAddress,
		Phone:        a.LocationPhone,
		Appointments: []*Appointment{a},
	})
}
