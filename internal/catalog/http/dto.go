package http

import (
	"github.com/nekogravitycat/academy-console/internal/catalog"
)

// ListServicesRequest defines query parameters for listing services.
type ListServicesRequest struct {
	Category string `form:"category" binding:"omitempty,oneof=course service consultation"`
}

type ServiceResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	DurationHours float64 `json:"duration_hours"`
	Duration      string  `json:"duration"`
	Price         string  `json:"price"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
}

func NewServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:            s.ID,
		Name:          s.Name,
		DurationHours: s.DurationHours,
		Duration:      s.DurationLabel,
		Price:         s.Price.StringFixed(2),
		Category:      string(s.Category),
		Description:   s.Description,
	}
}

// InstructorTag is the instructor in charge of a location.
type InstructorTag struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type LocationResponse struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Address    string        `json:"address"`
	Phone      string        `json:"phone"`
	Instructor InstructorTag `json:"instructor"`
}

func NewLocationResponse(l *catalog.Location) LocationResponse {
	return LocationResponse{
		ID:      l.ID,
		Name:    l.Name,
		Address: l.Address,
		Phone:   l.Phone,
		Instructor: InstructorTag{
			ID:    l.InstructorID,
			Name:  l.InstructorName,
			Phone: l.InstructorPhone,
		},
	}
}
