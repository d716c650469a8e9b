package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps appointments in process memory. It backs demo mode
// and is safe for concurrent use.
type MemoryRepository struct {
	mu           sync.RWMutex
	appointments []*Appointment
	now          func() time.Time
}

// NewMemoryRepository seeds the store with copies of the given appointments.
func NewMemoryRepository(seed []*Appointment) *MemoryRepository {
	r := &MemoryRepository{now: time.Now}
	for _, a := range seed {
		cp := *a
		r.appointments = append(r.appointments, &cp)
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context, filter Filter) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Appointment
	for _, a := range r.appointments {
		if !filter.matches(a) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}

	SortByDateAndTime(out)
	return out, nil
}

func (r *MemoryRepository) Create(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = uuid.NewString()
	a.CreatedAt = r.now().UTC()

	cp := *a
	r.appointments = append(r.appointments, &cp)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appointments {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// SortByDateAndTime orders appointments by date, then start time, then creation.
func SortByDateAndTime(appointments []*Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		a, b := appointments[i], appointments[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
