package appointment

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nekogravitycat/academy-console/internal/catalog"
	"github.com/nekogravitycat/academy-console/internal/timeslot"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) List(ctx context.Context, filter Filter) ([]*Appointment, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, a *Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

// blockingRepository never answers until the caller gives up.
type blockingRepository struct{}

func (blockingRepository) List(ctx context.Context, _ Filter) ([]*Appointment, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingRepository) Create(ctx context.Context, _ *Appointment) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingRepository) GetByID(ctx context.Context, _ string) (*Appointment, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// slowRepository widens the gap between the availability read and the insert.
type slowRepository struct {
	*MemoryRepository
	delay time.Duration
}

func (r slowRepository) List(ctx context.Context, filter Filter) ([]*Appointment, error) {
	time.Sleep(r.delay)
	return r.MemoryRepository.List(ctx, filter)
}

type recordingPublisher struct {
	mu     sync.Mutex
	booked []*Appointment
	err    error
}

func (p *recordingPublisher) Booked(_ context.Context, a *Appointment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.booked = append(p.booked, a)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// stallingPublisher hangs like an unreachable broker until the caller gives up.
type stallingPublisher struct {
	entered     chan struct{}
	once        sync.Once
	stall       time.Duration
	hadDeadline atomic.Bool
}

func newStallingPublisher(stall time.Duration) *stallingPublisher {
	return &stallingPublisher{entered: make(chan struct{}), stall: stall}
}

func (p *stallingPublisher) Booked(ctx context.Context, _ *Appointment) error {
	p.once.Do(func() { close(p.entered) })
	if _, ok := ctx.Deadline(); ok {
		p.hadDeadline.Store(true)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.stall):
		return nil
	}
}

func (p *stallingPublisher) Close() error { return nil }

const (
	testDate       = "2025-06-24"
	polancoID      = "loc-polanco"
	perisurID      = "loc-perisur"
	browShapingID  = "svc-brow"
	certificateID  = "svc-cert"
	brokenDuration = "svc-broken"
	endlessID      = "svc-endless"
)

func testCatalog() catalog.Reader {
	services := []*catalog.Service{
		{ID: browShapingID, Name: "Eyebrow Shaping", DurationLabel: "30 minutes", Price: decimal.NewFromInt(300), Category: catalog.CategoryService},
		{ID: certificateID, Name: "Microblading Certification", DurationHours: 3, DurationLabel: "3 hours", Price: decimal.NewFromInt(3500), Category: catalog.CategoryCourse},
		{ID: brokenDuration, Name: "Mystery Treatment", DurationLabel: "", Price: decimal.NewFromInt(100), Category: catalog.CategoryService},
		{ID: endlessID, Name: "Endless Course", DurationLabel: "99999999999 hours", Price: decimal.NewFromInt(100), Category: catalog.CategoryCourse},
	}
	locations := []*catalog.Location{
		{ID: polancoID, Name: "Polanco", Address: "Presidente Masaryk 456, Polanco", Phone: "+52 55 3333 4444"},
		{ID: perisurID, Name: "Perisur", Address: "Periférico Sur 789, Jardines del Pedregal", Phone: "+52 55 5555 6666"},
	}
	return catalog.NewReader(catalog.NewMemoryRepository(services, locations))
}

func polancoAppointment(id, start, end string, status Status) *Appointment {
	return &Appointment{
		ID:           id,
		StudentID:    "student-" + id,
		InstructorID: "instructor-1",
		ServiceID:    certificateID,
		LocationID:   polancoID,
		LocationName: "Polanco",
		Date:         testDate,
		StartTime:    timeslot.MustClock(start),
		EndTime:      timeslot.MustClock(end),
		Status:       status,
	}
}
