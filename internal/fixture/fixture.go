// Package fixture holds the static dataset served in demo mode, when no
// database is configured. Every call returns fresh copies so callers may
// mutate what they receive.
package fixture

import (
	"time"

	"github.com/nekogravitycat/academy-console/internal/appointment"
	"github.com/nekogravitycat/academy-console/internal/catalog"
	"github.com/nekogravitycat/academy-console/internal/timeslot"
	"github.com/shopspring/decimal"
)

// Today is the date the demo agenda is centred on.
const Today = "2025-06-24"

var seededAt = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

type student struct {
	id, name string
}

type instructor struct {
	id, name, phone string
}

var (
	students = []student{
		{"1", "Emma Rodriguez Sanchez"},
		{"2", "Sophia Kim Lee"},
		{"3", "Isabella Chen Wang"},
		{"4", "Maria Garcia Lopez"},
		{"5", "Ana Gutierrez Morales"},
		{"6", "Carmen Flores Ruiz"},
		{"7", "Lucia Mendoza Torres"},
		{"8", "Valentina Castro Jimenez"},
	}

	instructors = []instructor{
		{"1", "Carlos Rivera", "+52 55 3333 4444"},
		{"2", "Sofia Mendez", "+52 55 1111 2222"},
		{"3", "Diana Herrera", "+52 55 5555 6666"},
		{"4", "Fernando Ruiz", ""},
		{"5", "Maggy Acosta", ""},
		{"6", "Pao Pao", ""},
		{"7", "Rosi R", ""},
	}
)

func Services() []*catalog.Service {
	svc := func(id, name string, hours float64, label string, price int64, cat catalog.Category, desc string) *catalog.Service {
		return &catalog.Service{
			ID:            id,
			Name:          name,
			DurationHours: hours,
			DurationLabel: label,
			Price:         decimal.NewFromInt(price),
			Category:      cat,
			Description:   desc,
			CreatedAt:     seededAt,
		}
	}

	return []*catalog.Service{
		svc("1", "Advanced Microblading", 3, "3 hours", 4200, catalog.CategoryCourse, "Advanced techniques for experienced microblading artists"),
		svc("2", "Volume Lashes Course", 3, "3 hours", 2800, catalog.CategoryCourse, "Professional volume lash extension certification program"),
		svc("3", "Microblading Certification", 3, "3 hours", 3500, catalog.CategoryCourse, "Complete microblading certification course with hands-on practice"),
		svc("4", "Classic Lashes Course", 2.5, "2.5 hours", 2200, catalog.CategoryCourse, "Foundation course for classic eyelash extensions"),
		svc("5", "Henna Specialist Certification", 2, "2 hours", 1800, catalog.CategoryCourse, "Natural henna brow styling and application techniques"),
		svc("6", "Permanent Makeup Course", 4, "4 hours", 5500, catalog.CategoryCourse, "Comprehensive permanent makeup artistry program"),
		svc("7", "Ombre Brows Technique", 2.5, "2.5 hours", 3200, catalog.CategoryCourse, "Modern ombre and powder brow techniques"),
		svc("8", "Microblading Touch-up", 1, "1 hour", 800, catalog.CategoryService, "Professional microblading touch-up and refresh service"),
		svc("9", "Eyelash Application", 1.5, "1.5 hours", 600, catalog.CategoryService, "Professional eyelash extension application"),
		svc("10", "Eyebrow Shaping", 0.5, "30 minutes", 300, catalog.CategoryService, "Precision eyebrow shaping and styling"),
		svc("11", "Henna Brow Treatment", 1, "1 hour", 450, catalog.CategoryService, "Natural henna eyebrow tinting and shaping"),
		svc("12", "Lash Lifting", 1, "1 hour", 550, catalog.CategoryService, "Natural lash lifting and curling treatment"),
		svc("13", "Eyebrow Lamination", 1, "1 hour", 650, catalog.CategoryService, "Eyebrow lamination for fuller, styled brows"),
		svc("14", "Initial Consultation", 0.5, "30 minutes", 200, catalog.CategoryConsultation, "Comprehensive beauty consultation and treatment planning"),
		svc("15", "Career Information Session", 1, "1 hour", 0, catalog.CategoryConsultation, "Information about career opportunities in beauty industry"),
		svc("16", "Course Overview", 0.75, "45 minutes", 0, catalog.CategoryConsultation, "Detailed overview of available certification courses"),
		svc("17", "Academy Tour", 0.5, "30 minutes", 0, catalog.CategoryConsultation, "Guided tour of academy facilities and equipment"),
	}
}

func Locations() []*catalog.Location {
	loc := func(id, name, address, phone string, manager instructor) *catalog.Location {
		return &catalog.Location{
			ID:              id,
			Name:            name,
			Address:         address,
			Phone:           phone,
			InstructorID:    manager.id,
			InstructorName:  manager.name,
			InstructorPhone: manager.phone,
			CreatedAt:       seededAt,
		}
	}

	return []*catalog.Location{
		loc("1", "Polanco", "Presidente Masaryk 456, Polanco, Miguel Hidalgo, 11560 Ciudad de México, CDMX", "+52 55 3333 4444", instructors[0]),
		loc("2", "Ciudad Brisas", "Av. Insurgentes Sur 123, Ciudad Brisas, Cuauhtémoc, 06700 Ciudad de México, CDMX", "+52 55 1111 2222", instructors[1]),
		loc("3", "Perisur", "Periférico Sur 789, Jardines del Pedregal, Tlalpan, 14200 Ciudad de México, CDMX", "+52 55 5555 6666", instructors[2]),
	}
}

// Appointments returns the demo agenda for the week of June 24, 2025.
// The two Polanco sessions on the 24th are group classes sharing a room and
// were entered by the back office, not through booking.
func Appointments() []*appointment.Appointment {
	services := index(Services(), func(s *catalog.Service) string { return s.ID })
	locations := index(Locations(), func(l *catalog.Location) string { return l.ID })

	seq := 0
	appt := func(id, date, start, end string, status appointment.Status, studentID, serviceID, instructorID, locationID string) *appointment.Appointment {
		svc := services[serviceID]
		loc := locations[locationID]
		seq++
		return &appointment.Appointment{
			ID:              id,
			StudentID:       studentID,
			InstructorID:    instructorID,
			ServiceID:       serviceID,
			LocationID:      locationID,
			Date:            date,
			StartTime:       timeslot.MustClock(start),
			EndTime:         timeslot.MustClock(end),
			Status:          status,
			CreatedAt:       seededAt.Add(time.Duration(seq) * time.Minute),
			StudentName:     studentName(studentID),
			InstructorName:  instructorName(instructorID),
			ServiceName:     svc.Name,
			LocationName:    loc.Name,
			LocationAddress: loc.Address,
			LocationPhone:   loc.Phone,
		}
	}

	return []*appointment.Appointment{
		appt("1", "2025-06-24", "10:00", "13:00", appointment.StatusConfirmed, "1", "3", "4", "1"),
		appt("2", "2025-06-24", "10:00", "13:00", appointment.StatusConfirmed, "5", "2", "5", "1"),
		appt("3", "2025-06-25", "09:00", "12:00", appointment.StatusConfirmed, "3", "5", "6", "2"),
		appt("4", "2025-06-25", "14:00", "17:00", appointment.StatusPending, "2", "2", "5", "3"),
		appt("5", "2025-06-26", "10:00", "13:00", appointment.StatusConfirmed, "6", "4", "4", "1"),
		appt("6", "2025-06-26", "15:00", "19:00", appointment.StatusConfirmed, "7", "6", "7", "2"),
		appt("7", "2025-06-27", "11:00", "13:30", appointment.StatusPending, "8", "7", "7", "3"),
		appt("8", "2025-06-30", "14:00", "15:00", appointment.StatusPending, "1", "8", "4", "1"),
	}
}

func studentName(id string) string {
	for _, s := range students {
		if s.id == id {
			return s.name
		}
	}
	return ""
}

func instructorName(id string) string {
	for _, i := range instructors {
		if i.id == id {
			return i.name
		}
	}
	return ""
}

func index[T any](items []T, key func(T) string) map[string]T {
	m := make(map[string]T, len(items))
	for _, it := range items {
		m[key(it)] = it
	}
	return m
}
