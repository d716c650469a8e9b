package http

import (
	"time"

	"github.com/nekogravitycat/academy-console/internal/appointment"
	"github.com/nekogravitycat/academy-console/internal/pkg/request"
)

type CreateAppointmentRequest struct {
	StudentID    string `json:"student_id" binding:"required,max=64"`
	InstructorID string `json:"instructor_id" binding:"required,max=64"`
	ServiceID    string `json:"service_id" binding:"required,max=64"`
	LocationID   string `json:"location_id" binding:"required,max=64"`
	Date         string `json:"date" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	Notes        string `json:"notes" binding:"max=500"`
}

// ListAppointmentsRequest defines query parameters for listing appointments.
type ListAppointmentsRequest struct {
	request.DateRangeParams
	Date       string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	LocationID string `form:"location_id" binding:"omitempty,max=64"`
	Location   string `form:"location" binding:"omitempty,max=100"`
	StudentID  string `form:"student_id" binding:"omitempty,max=64"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
}

func (r *ListAppointmentsRequest) Filter() appointment.Filter {
	f := appointment.Filter{
		Date:         r.Date,
		DateFrom:     r.DateFrom,
		DateTo:       r.DateTo,
		LocationID:   r.LocationID,
		LocationName: r.Location,
		StudentID:    r.StudentID,
	}
	if r.Status != "" {
		f.Statuses = []appointment.Status{appointment.Status(r.Status)}
	}
	return f
}

// AvailabilityRequest asks whether [start, end) is free. Either location_id or
// location (the branch name) must be given.
type AvailabilityRequest struct {
	Date       string `form:"date" binding:"required"`
	Start      string `form:"start" binding:"required"`
	End        string `form:"end" binding:"required"`
	LocationID string `form:"location_id" binding:"omitempty,max=64"`
	Location   string `form:"location" binding:"omitempty,max=100"`
}

type CalendarRequest struct {
	Days *int `form:"days" binding:"omitempty,min=0,max=366"`
}

// DefaultWindowDays is the window used when the caller does not ask for one.
const DefaultWindowDays = 7

func (r *CalendarRequest) WindowDays() int {
	if r.Days == nil {
		return DefaultWindowDays
	}
	return *r.Days
}

// Tag is a reference to a related record with its display name.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LocationTag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type AppointmentResponse struct {
	ID         string      `json:"id"`
	Date       string      `json:"date"`
	StartTime  string      `json:"start_time"`
	EndTime    string      `json:"end_time"`
	Status     string      `json:"status"`
	Notes      string      `json:"notes,omitempty"`
	Student    Tag         `json:"student"`
	Instructor Tag         `json:"instructor"`
	Service    Tag         `json:"service"`
	Location   LocationTag `json:"location"`
	CreatedAt  time.Time   `json:"created_at"`
}

func NewAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:         a.ID,
		Date:       a.Date,
		StartTime:  a.StartTime.String(),
		EndTime:    a.EndTime.String(),
		Status:     string(a.Status),
		Notes:      a.Notes,
		Student:    Tag{ID: a.StudentID, Name: a.StudentName},
		Instructor: Tag{ID: a.InstructorID, Name: a.InstructorName},
		Service:    Tag{ID: a.ServiceID, Name: a.ServiceName},
		Location: LocationTag{
			ID:      a.LocationID,
			Name:    a.LocationName,
			Address: a.LocationAddress,
			Phone:   a.LocationPhone,
		},
		CreatedAt: a.CreatedAt,
	}
}

func newAppointmentResponses(appointments []*appointment.Appointment) []AppointmentResponse {
	items := make([]AppointmentResponse, len(appointments))
	for i, a := range appointments {
		items[i] = NewAppointmentResponse(a)
	}
	return items
}

type AvailabilityResponse struct {
	Date       string                `json:"date"`
	StartTime  string                `json:"start_time"`
	EndTime    string                `json:"end_time"`
	LocationID string                `json:"location_id,omitempty"`
	Location   string                `json:"location,omitempty"`
	Available  bool                  `json:"available"`
	Conflicts  []AppointmentResponse `json:"conflicts"`
}

type LocationGroupResponse struct {
	Name         string                `json:"name"`
	Address      string                `json:"address"`
	Phone        string                `json:"phone"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type DayResponse struct {
	Date      string                  `json:"date"`
	Count     int                     `json:"count"`
	Locations []LocationGroupResponse `json:"locations"`
}

type SummaryResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByLocation map[string]int `json:"by_location"`
}

type CalendarResponse struct {
	From         string                `json:"from"`
	To           string                `json:"to"`
	Appointments []AppointmentResponse `json:"appointments"`
	Days         []DayResponse         `json:"days"`
	Summary      SummaryResponse       `json:"summary"`
}

func NewCalendarResponse(cal *appointment.Calendar) CalendarResponse {
	resp := CalendarResponse{
		From:         cal.From,
		To:           cal.To,
		Appointments: newAppointmentResponses(cal.Appointments),
		Days:         make([]DayResponse, len(cal.Days)),
		Summary: SummaryResponse{
			Total:      cal.Summary.Total,
			ByStatus:   make(map[string]int, len(cal.Summary.ByStatus)),
			ByLocation: cal.Summary.ByLocation,
		},
	}
	for st, n := range cal.Summary.ByStatus {
		resp.Summary.ByStatus[string(st)] = n
	}

	for i, d := range cal.Days {
		day := DayResponse{
			Date:      d.Date,
			Count:     d.Count,
			Locations: make([]LocationGroupResponse, len(d.Locations)),
		}
		for j, g := range d.Locations {
			day.Locations[j] = LocationGroupResponse{
				Name:         g.Name,
				Address:      g.Address,
				Phone:        g.Phone,
				Appointments: newAppointmentResponses(g.Appointments),
			}
		}
		resp.Days[i] = day
	}
	return resp
}
