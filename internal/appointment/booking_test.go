package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nekogravitycat/academy-console/internal/lock"
	"github.com/nekogravitycat/academy-console/internal/timeslot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBookingService(repo Repository, pub Publisher) *BookingService {
	return NewBookingService(
		repo,
		testCatalog(),
		NewAvailabilityService(repo, time.Second),
		lock.NewMemoryLocker(),
		pub,
		zap.NewNop(),
		time.Second,
	)
}

func bookRequest(serviceID, start string) BookRequest {
	return BookRequest{
		StudentID:    "student-1",
		InstructorID: "instructor-1",
		ServiceID:    serviceID,
		LocationID:   polancoID,
		Date:         testDate,
		StartTime:    start,
	}
}

func TestBook_EndTimeFromServiceDuration(t *testing.T) {
	repo := NewMemoryRepository(nil)
	pub := &recordingPublisher{}
	svc := newTestBookingService(repo, pub)

	a, err := svc.Book(context.Background(), bookRequest(browShapingID, "14:00"))

	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "14:00", a.StartTime.String())
	assert.Equal(t, "14:30", a.EndTime.String())
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, polancoID, a.LocationID)
	assert.Equal(t, "Eyebrow Shaping", a.ServiceName)
	assert.False(t, a.CreatedAt.IsZero())

	stored, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.EndTime, stored.EndTime)

	require.Len(t, pub.booked, 1)
	assert.Equal(t, a.ID, pub.booked[0].ID)
}

func TestBook_MalformedDurationNeverInserts(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestBookingService(repo, nil)

	_, err := svc.Book(context.Background(), bookRequest(brokenDuration, "14:00"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidService)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestBook_OversizedDurationIsInvalidService(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestBookingService(repo, nil)

	_, err := svc.Book(context.Background(), bookRequest(endlessID, "09:00"))

	assert.ErrorIs(t, err, ErrInvalidService)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBook_UnknownServiceIsInvalid(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestBookingService(repo, nil)

	_, err := svc.Book(context.Background(), bookRequest("svc-missing", "14:00"))

	assert.ErrorIs(t, err, ErrInvalidService)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBook_UnknownLocation(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestBookingService(repo, nil)

	req := bookRequest(browShapingID, "14:00")
	req.LocationID = "loc-missing"
	_, err := svc.Book(context.Background(), req)

	assert.ErrorIs(t, err, ErrLocationNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBook_ConflictNeverInserts(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f Filter) bool {
		return f.Date == testDate && f.LocationID == polancoID
	})).Return([]*Appointment{polancoAppointment("1", "10:00", "13:00", StatusConfirmed)}, nil)
	svc := newTestBookingService(repo, nil)

	_, err := svc.Book(context.Background(), bookRequest(certificateID, "12:00"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestBook_TouchingSlotIsAccepted(t *testing.T) {
	repo := NewMemoryRepository([]*Appointment{
		polancoAppointment("1", "10:00", "13:00", StatusConfirmed),
	})
	svc := newTestBookingService(repo, nil)

	a, err := svc.Book(context.Background(), bookRequest(certificateID, "13:00"))

	require.NoError(t, err)
	assert.Equal(t, "16:00", a.EndTime.String())
}

func TestBook_OccupiesTheSlot(t *testing.T) {
	repo := NewMemoryRepository(nil)
	svc := newTestBookingService(repo, nil)
	ctx := context.Background()

	a, err := svc.Book(ctx, bookRequest(certificateID, "09:00"))
	require.NoError(t, err)

	free, err := NewAvailabilityService(repo, time.Second).IsAvailable(ctx, Query{
		Date:       a.Date,
		Start:      a.StartTime,
		End:        a.EndTime,
		LocationID: a.LocationID,
	})
	require.NoError(t, err)
	assert.False(t, free)

	_, err = svc.Book(ctx, bookRequest(browShapingID, "11:30"))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestBook_RejectsMidnightCrossing(t *testing.T) {
	svc := newTestBookingService(NewMemoryRepository(nil), nil)

	for _, start := range []string{"22:00", "21:00"} {
		t.Run(start, func(t *testing.T) {
			_, err := svc.Book(context.Background(), bookRequest(certificateID, start))
			assert.ErrorIs(t, err, ErrInvalidTimeRange)
		})
	}

	a, err := svc.Book(context.Background(), bookRequest(certificateID, "20:59"))
	require.NoError(t, err)
	assert.Equal(t, "23:59", a.EndTime.String())
}

func TestBook_RejectsBadInput(t *testing.T) {
	svc := newTestBookingService(new(mockRepository), nil)

	tests := []struct {
		name   string
		mutate func(*BookRequest)
		want   error
	}{
		{"missing student", func(r *BookRequest) { r.StudentID = "" }, ErrInvalidInput},
		{"missing instructor", func(r *BookRequest) { r.InstructorID = "  " }, ErrInvalidInput},
		{"missing service", func(r *BookRequest) { r.ServiceID = "" }, ErrInvalidInput},
		{"missing location", func(r *BookRequest) { r.LocationID = "" }, ErrInvalidInput},
		{"malformed date", func(r *BookRequest) { r.Date = "2025-13-01" }, ErrInvalidTimeRange},
		{"malformed start", func(r *BookRequest) { r.StartTime = "25:00" }, ErrInvalidTimeRange},
		{"empty start", func(r *BookRequest) { r.StartTime = "" }, ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bookRequest(browShapingID, "14:00")
			tt.mutate(&req)
			_, err := svc.Book(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBook_ConcurrentRequestsForSameSlot(t *testing.T) {
	repo := slowRepository{MemoryRepository: NewMemoryRepository(nil), delay: 5 * time.Millisecond}
	svc := newTestBookingService(repo, nil)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Book(context.Background(), bookRequest(certificateID, "10:00"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	stored, err := repo.List(context.Background(), Filter{Date: testDate, LocationID: polancoID})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestBook_ConcurrentOverlappingIntervals(t *testing.T) {
	repo := slowRepository{MemoryRepository: NewMemoryRepository(nil), delay: 5 * time.Millisecond}
	svc := newTestBookingService(repo, nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, start := range []string{"10:00", "12:00"} {
		wg.Add(1)
		go func(i int, start string) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), bookRequest(certificateID, start))
		}(i, start)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrSlotConflict)
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestBook_StoreFailureOnInsert(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", mock.Anything, mock.Anything).Return([]*Appointment{}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*appointment.Appointment")).Return(errors.New("connection reset by peer"))
	pub := &recordingPublisher{}
	svc := newTestBookingService(repo, pub)

	_, err := svc.Book(context.Background(), bookRequest(browShapingID, "14:00"))

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Empty(t, pub.booked)
	repo.AssertExpectations(t)
}

func TestBook_StoreConflictOnInsertPassesThrough(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", mock.Anything, mock.Anything).Return([]*Appointment{}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(ErrSlotConflict)
	svc := newTestBookingService(repo, nil)

	_, err := svc.Book(context.Background(), bookRequest(browShapingID, "14:00"))

	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestBook_AvailabilityTimeout(t *testing.T) {
	svc := NewBookingService(
		blockingRepository{},
		testCatalog(),
		NewAvailabilityService(blockingRepository{}, 20*time.Millisecond),
		lock.NewMemoryLocker(),
		nil,
		zap.NewNop(),
		20*time.Millisecond,
	)

	_, err := svc.Book(context.Background(), bookRequest(browShapingID, "14:00"))

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestBook_LockWaitTimesOut(t *testing.T) {
	locker := lock.NewMemoryLocker()
	release, err := locker.Acquire(context.Background(), slotKey(polancoID, testDate))
	require.NoError(t, err)
	defer release()

	repo := new(mockRepository)
	svc := NewBookingService(repo, testCatalog(), NewAvailabilityService(repo, time.Second), locker, nil, zap.NewNop(), 20*time.Millisecond)

	_, err = svc.Book(context.Background(), bookRequest(browShapingID, "14:00"))

	assert.ErrorIs(t, err, ErrTimeout)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestBook_SlowBrokerDoesNotHoldTheSlotLock(t *testing.T) {
	const timeout = 200 * time.Millisecond
	repo := NewMemoryRepository(nil)
	pub := newStallingPublisher(600 * time.Millisecond)
	svc := NewBookingService(repo, testCatalog(), NewAvailabilityService(repo, timeout), lock.NewMemoryLocker(), pub, zap.NewNop(), timeout)

	firstErr := make(chan error, 1)
	started := time.Now()
	go func() {
		_, err := svc.Book(context.Background(), bookRequest(browShapingID, "09:00"))
		firstErr <- err
	}()

	// The first booking is committed and now stuck announcing it.
	<-pub.entered

	second, err := svc.Book(context.Background(), bookRequest(browShapingID, "15:00"))
	require.NoError(t, err)
	assert.Equal(t, "15:30", second.EndTime.String())

	require.NoError(t, <-firstErr)
	assert.Less(t, time.Since(started), 600*time.Millisecond)
	assert.True(t, pub.hadDeadline.Load())

	stored, err := repo.List(context.Background(), Filter{Date: testDate, LocationID: polancoID})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestBook_PublishFailureKeepsBooking(t *testing.T) {
	repo := NewMemoryRepository(nil)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestBookingService(repo, pub)

	a, err := svc.Book(context.Background(), bookRequest(browShapingID, "14:00"))

	require.NoError(t, err)
	assert.Len(t, pub.booked, 1)

	free, err := NewAvailabilityService(repo, time.Second).IsAvailable(context.Background(), Query{
		Date: testDate, Start: a.StartTime, End: timeslot.MustClock("15:00"), LocationID: polancoID,
	})
	require.NoError(t, err)
	assert.False(t, free)
}
