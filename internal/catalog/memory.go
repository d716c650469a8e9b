package catalog

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository serves a fixed catalog from memory. It backs demo mode.
type MemoryRepository struct {
	mu        sync.RWMutex
	services  []*Service
	locations []*Location
}

func NewMemoryRepository(services []*Service, locations []*Location) *MemoryRepository {
	return &MemoryRepository{services: services, locations: locations}
}

func (r *MemoryRepository) GetServiceByID(_ context.Context, id string) (*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.services {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrServiceNotFound
}

func (r *MemoryRepository) ListServices(_ context.Context, filter ServiceFilter) ([]*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Service
	for _, s := range r.services {
		if filter.Category != "" && s.Category != filter.Category {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Price.GreaterThan(out[j].Price)
	})
	return out, nil
}

func (r *MemoryRepository) GetLocationByID(_ context.Context, id string) (*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.locations {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, ErrLocationNotFound
}

func (r *MemoryRepository) ListLocations(_ context.Context) ([]*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Location, 0, len(r.locations))
	for _, l := range r.locations {
		cp := *l
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
