package catalog

import (
	"context"
)

// Reader exposes the catalog. It is read-only: entries are owned by the back office.
type Reader interface {
	GetService(ctx context.Context, id string) (*Service, error)
	ListServices(ctx context.Context, filter ServiceFilter) ([]*Service, error)
	GetLocation(ctx context.Context, id string) (*Location, error)
	ListLocations(ctx context.Context) ([]*Location, error)
}

type reader struct {
	repo Repository
}

func NewReader(repo Repository) Reader {
	return &reader{repo: repo}
}

func (s *reader) GetService(ctx context.Context, id string) (*Service, error) {
	return s.repo.GetServiceByID(ctx, id)
}

func (s *reader) ListServices(ctx context.Context, filter ServiceFilter) ([]*Service, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	return s.repo.ListServices(ctx, filter)
}

func (s *reader) GetLocation(ctx context.Context, id string) (*Location, error) {
	return s.repo.GetLocationByID(ctx, id)
}

func (s *reader) ListLocations(ctx context.Context) ([]*Location, error) {
	return s.repo.ListLocations(ctx)
}
