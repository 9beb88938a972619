package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/allocation"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
)

type fakeBookingRepo struct {
	booking       *domain.Booking
	items         []domain.BookingLineItem
	transitionErr error
	transitions   []domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) ListLineItems(ctx context.Context, bookingID int64) ([]domain.BookingLineItem, error) {
	return f.items, nil
}

func (f *fakeBookingRepo) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	if f.booking == nil {
		return nil, nil
	}
	return []*domain.Booking{f.booking}, nil
}

func (f *fakeBookingRepo) TransitionStatus(ctx context.Context, id int64, allowedFrom []domain.BookingStatus, to domain.BookingStatus) error {
	if f.transitionErr != nil {
		return f.transitionErr
	}
	f.transitions = append(f.transitions, to)
	f.booking.Status = to
	return nil
}

func (f *fakeBookingRepo) GetStats(ctx context.Context, now time.Time) (*bookingRepo.Stats, error) {
	return &bookingRepo.Stats{Total: 10, Pending: 2, Upcoming: 3, Active: 1, Past: 4}, nil
}

type fakeAllocationRepo struct {
	allocations   []domain.ResourceAllocation
	transitionErr map[int64]error
	cancelled     []int64
	reasons       map[int64]string
}

func (f *fakeAllocationRepo) ListByLineItems(ctx context.Context, lineItemIDs []int64) ([]domain.ResourceAllocation, error) {
	return f.allocations, nil
}

func (f *fakeAllocationRepo) TransitionStatus(ctx context.Context, id int64, allowedFrom []domain.AllocationStatus, to domain.AllocationStatus, cancellationReason *string) error {
	if err, ok := f.transitionErr[id]; ok {
		return err
	}
	f.cancelled = append(f.cancelled, id)
	if cancellationReason != nil {
		if f.reasons == nil {
			f.reasons = make(map[int64]string)
		}
		f.reasons[id] = *cancellationReason
	}
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		BookingNumber: "BK-AAAA111122",
		OrderID:       "order-77",
		Status:        domain.BookingConfirmed,
	}
}

func newService(b *fakeBookingRepo, a *fakeAllocationRepo) *Service {
	return NewService(b, a, fakeTxManager{}, nopLogger{})
}

func TestConfirm_PendingBooking(t *testing.T) {
	b := &fakeBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingPending}}
	svc := newService(b, &fakeAllocationRepo{})

	resp, err := svc.Confirm(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingConfirmed), resp.Status)
	assert.Equal(t, []domain.BookingStatus{domain.BookingConfirmed}, b.transitions)
}

func TestConfirm_InvalidTransition(t *testing.T) {
	b := &fakeBookingRepo{booking: confirmedBooking(), transitionErr: bookingRepo.ErrStaleTransition}
	svc := newService(b, &fakeAllocationRepo{})

	_, err := svc.Confirm(context.Background(), 1)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestComplete_ConfirmedBooking(t *testing.T) {
	b := &fakeBookingRepo{booking: confirmedBooking()}
	svc := newService(b, &fakeAllocationRepo{})

	resp, err := svc.Complete(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingCompleted), resp.Status)
}

func TestCancel_CascadesToAllocations(t *testing.T) {
	b := &fakeBookingRepo{
		booking: confirmedBooking(),
		items: []domain.BookingLineItem{
			{ID: 11, BookingID: 1, AllocationID: 100},
			{ID: 12, BookingID: 1, AllocationID: 101},
		},
	}
	a := &fakeAllocationRepo{
		allocations: []domain.ResourceAllocation{
			{ID: 100, Status: domain.AllocationConfirmed},
			{ID: 101, Status: domain.AllocationConfirmed},
		},
	}
	svc := newService(b, a)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CancellationReason: "customer refund"})

	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingCancelled), resp.Status)
	assert.Equal(t, []int64{100, 101}, a.cancelled)
	assert.Equal(t, "customer refund", a.reasons[100])
}

func TestCancel_SkipsCancelledAllocations(t *testing.T) {
	b := &fakeBookingRepo{
		booking: confirmedBooking(),
		items:   []domain.BookingLineItem{{ID: 11, BookingID: 1, AllocationID: 100}},
	}
	a := &fakeAllocationRepo{
		allocations: []domain.ResourceAllocation{
			{ID: 100, Status: domain.AllocationCancelled},
		},
	}
	svc := newService(b, a)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})

	require.NoError(t, err)
	assert.Empty(t, a.cancelled)
}

func TestCancel_ToleratesConcurrentAllocationChange(t *testing.T) {
	b := &fakeBookingRepo{
		booking: confirmedBooking(),
		items:   []domain.BookingLineItem{{ID: 11, BookingID: 1, AllocationID: 100}},
	}
	a := &fakeAllocationRepo{
		allocations:   []domain.ResourceAllocation{{ID: 100, Status: domain.AllocationConfirmed}},
		transitionErr: map[int64]error{100: allocationRepo.ErrStaleTransition},
	}
	svc := newService(b, a)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})

	require.NoError(t, err)
}

func TestCancel_NotFound(t *testing.T) {
	b := &fakeBookingRepo{booking: confirmedBooking(), transitionErr: bookingRepo.ErrBookingNotFound}
	svc := newService(b, &fakeAllocationRepo{})

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetStats(t *testing.T) {
	svc := newService(&fakeBookingRepo{booking: confirmedBooking()}, &fakeAllocationRepo{})

	stats, err := svc.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(4), stats.Past)
}
