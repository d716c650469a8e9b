package appointment_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nekogravitycat/academy-console/internal/appointment"
	"github.com/nekogravitycat/academy-console/internal/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mexicoCity = time.FixedZone("CST", -6*60*60)

func fixtureCalendar(now time.Time) *appointment.CalendarService {
	repo := appointment.NewMemoryRepository(fixture.Appointments())
	return appointment.NewCalendarService(repo, mexicoCity, time.Second,
		appointment.WithClock(func() time.Time { return now }))
}

func TestListWindow_WeekFromFixtureToday(t *testing.T) {
	svc := fixtureCalendar(time.Date(2025, time.June, 24, 8, 30, 0, 0, mexicoCity))

	cal, err := svc.ListWindow(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-24", cal.From)
	assert.Equal(t, "2025-07-01", cal.To)
	assert.Equal(t, 8, cal.Summary.Total)
	assert.Len(t, cal.Appointments, 8)

	for i, a := range cal.Appointments {
		assert.GreaterOrEqual(t, a.Date, cal.From)
		assert.LessOrEqual(t, a.Date, cal.To)
		if i > 0 {
			prev := cal.Appointments[i-1]
			ordered := prev.Date < a.Date || (prev.Date == a.Date && prev.StartTime <= a.StartTime)
			assert.True(t, ordered, "appointments out of order at %d", i)
		}
	}

	require.NotEmpty(t, cal.Days)
	first := cal.Days[0]
	assert.Equal(t, "2025-06-24", first.Date)
	assert.Equal(t, 2, first.Count)
	require.Len(t, first.Locations, 1)
	assert.Equal(t, "Polanco", first.Locations[0].Name)
	assert.Len(t, first.Locations[0].Appointments, 2)

	dates := make([]string, 0, len(cal.Days))
	for _, d := range cal.Days {
		dates = append(dates, d.Date)
	}
	assert.Equal(t, []string{"2025-06-24", "2025-06-25", "2025-06-26", "2025-06-27", "2025-06-30"}, dates)

	june25 := cal.Days[1]
	require.Len(t, june25.Locations, 2)
	assert.Equal(t, "Ciudad Brisas", june25.Locations[0].Name)
	assert.Equal(t, "Perisur", june25.Locations[1].Name)

	assert.Equal(t, 4, cal.Summary.ByLocation["Polanco"])
	assert.Equal(t, 3, cal.Summary.ByStatus[appointment.StatusPending])
	assert.Equal(t, 5, cal.Summary.ByStatus[appointment.StatusConfirmed])
}

func TestListWindow_OneDay(t *testing.T) {
	svc := fixtureCalendar(time.Date(2025, time.June, 24, 23, 0, 0, 0, mexicoCity))

	cal, err := svc.ListWindow(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-25", cal.To)
	assert.Equal(t, 4, cal.Summary.Total)
}

func TestListWindow_TodayFollowsTimezone(t *testing.T) {
	// 03:00 UTC on the 25th is still the evening of the 24th in Mexico City.
	svc := fixtureCalendar(time.Date(2025, time.June, 25, 3, 0, 0, 0, time.UTC))

	cal, err := svc.ListWindow(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-24", cal.From)
	assert.Equal(t, "2025-06-24", cal.To)
	assert.Equal(t, 2, cal.Summary.Total)
}

func TestListWindow_EmptyWindow(t *testing.T) {
	svc := fixtureCalendar(time.Date(2026, time.January, 10, 12, 0, 0, 0, mexicoCity))

	cal, err := svc.ListWindow(context.Background(), 7)
	require.NoError(t, err)

	assert.NotNil(t, cal.Appointments)
	assert.Empty(t, cal.Appointments)
	assert.Empty(t, cal.Days)
	assert.Equal(t, 0, cal.Summary.Total)
}

func TestListWindow_RejectsBadWindow(t *testing.T) {
	svc := fixtureCalendar(time.Now())

	for _, days := range []int{-1, appointment.MaxWindowDays + 1} {
		_, err := svc.ListWindow(context.Background(), days)
		assert.ErrorIs(t, err, appointment.ErrInvalidInput)
	}
}

type failingRepository struct {
	err error
}

func (r failingRepository) List(context.Context, appointment.Filter) ([]*appointment.Appointment, error) {
	return nil, r.err
}

func (r failingRepository) Create(context.Context, *appointment.Appointment) error {
	return r.err
}

func (r failingRepository) GetByID(context.Context, string) (*appointment.Appointment, error) {
	return nil, r.err
}

func TestListWindow_StoreErrorIsSurfaced(t *testing.T) {
	svc := appointment.NewCalendarService(failingRepository{err: errors.New("no route to host")}, mexicoCity, time.Second)

	cal, err := svc.ListWindow(context.Background(), 7)

	assert.Nil(t, cal)
	assert.ErrorIs(t, err, appointment.ErrStoreUnavailable)
}

func TestToday_OnlyActiveAppointments(t *testing.T) {
	seed := fixture.Appointments()
	seed[1].Status = appointment.StatusCancelled
	repo := appointment.NewMemoryRepository(seed)
	svc := appointment.NewCalendarService(repo, mexicoCity, time.Second,
		appointment.WithClock(func() time.Time { return time.Date(2025, time.June, 24, 9, 0, 0, 0, mexicoCity) }))

	today, err := svc.Today(context.Background())
	require.NoError(t, err)

	require.Len(t, today, 1)
	assert.Equal(t, "1", today[0].ID)
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	svc := fixtureCalendar(time.Now())

	_, err := svc.List(context.Background(), appointment.Filter{Statuses: []appointment.Status{"archived"}})

	assert.ErrorIs(t, err, appointment.ErrInvalidInput)
}

func TestGetByID(t *testing.T) {
	svc := fixtureCalendar(time.Now())

	a, err := svc.GetByID(context.Background(), "8")
	require.NoError(t, err)
	assert.Equal(t, "Microblading Touch-up", a.ServiceName)

	_, err = svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, appointment.ErrNotFound)
}

func TestCalendarICS(t *testing.T) {
	svc := fixtureCalendar(time.Date(2025, time.June, 24, 8, 0, 0, 0, mexicoCity))
	cal, err := svc.ListWindow(context.Background(), 7)
	require.NoError(t, err)

	feed := cal.ICS(mexicoCity, "Academy agenda")

	assert.True(t, strings.HasPrefix(feed, "BEGIN:VCALENDAR"))
	assert.Equal(t, 8, strings.Count(feed, "BEGIN:VEVENT"))
	assert.Contains(t, feed, "SUMMARY:Microblading Certification - Emma Rodriguez Sanchez")
	// 10:00 in Mexico City is 16:00 UTC.
	assert.Contains(t, feed, "DTSTART:20250624T160000Z")
	assert.Contains(t, feed, "DTEND:20250624T190000Z")
	assert.Contains(t, feed, "STATUS:TENTATIVE")
}
