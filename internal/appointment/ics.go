package appointment

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/nekogravitycat/academy-console/internal/timeslot"
)

const icsProductID = "-//Academy Console//Agenda//ES"

// ICS renders the calendar as an iCalendar feed. Wall-clock times are
// interpreted in loc.
func (c *Calendar) ICS(loc *time.Location, name string) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, a := range c.Appointments {
		date, err := timeslot.ParseDate(a.Date)
		if err != nil {
			continue
		}

		evt := cal.AddEvent(a.ID + "@academy-console")
		evt.SetDtStampTime(a.CreatedAt)
		evt.SetStartAt(a.StartTime.On(date, loc))
		evt.SetEndAt(a.EndTime.On(date, loc))
		evt.SetSummary(eventSummary(a))
		if where := eventLocation(a); where != "" {
			evt.SetLocation(where)
		}
		if a.Notes != "" {
			evt.SetDescription(a.Notes)
		}
		switch a.Status {
		case StatusConfirmed, StatusCompleted:
			evt.SetStatus(ics.ObjectStatusConfirmed)
		case StatusCancelled:
			evt.SetStatus(ics.ObjectStatusCancelled)
		default:
			evt.SetStatus(ics.ObjectStatusTentative)
		}
	}

	return cal.Serialize()
}

func eventSummary(a *Appointment) string {
	title := a.ServiceName
	if title == "" {
		title = "Appointment"
	}
	if a.StudentName != "" {
		return fmt.Sprintf("%s - %s", title, a.StudentName)
	}
	return title
}

func eventLocation(a *Appointment) string {
	parts := make([]string, 0, 2)
	if a.LocationName != "" {
		parts = append(parts, a.LocationName)
	}
	if a.LocationAddress != "" {
		parts = append(parts, a.LocationAddress)
	}
	return strings.Join(parts, ", ")
}
