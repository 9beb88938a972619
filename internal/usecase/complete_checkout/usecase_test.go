package complete_checkout

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/locks"
	allocationRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/allocation"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeAllocationRepo struct {
	allocations []domain.ResourceAllocation

	// transitionErr maps allocation id to the error TransitionStatus returns
	transitionErr map[int64]error
	confirmed     []int64
	linked        map[int64]int64
}

func (f *fakeAllocationRepo) ListByCart(ctx context.Context, cartID string) ([]domain.ResourceAllocation, error) {
	return f.allocations, nil
}

func (f *fakeAllocationRepo) TransitionStatus(ctx context.Context, id int64, allowedFrom []domain.AllocationStatus, to domain.AllocationStatus, cancellationReason *string) error {
	if err, ok := f.transitionErr[id]; ok {
		return err
	}
	f.confirmed = append(f.confirmed, id)
	return nil
}

func (f *fakeAllocationRepo) LinkLineItem(ctx context.Context, id int64, lineItemID int64) error {
	if f.linked == nil {
		f.linked = make(map[int64]int64)
	}
	f.linked[id] = lineItemID
	return nil
}

type fakeBookingRepo struct {
	created    *domain.Booking
	nextItemID int64
	items      []domain.BookingLineItem
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	out := *b
	out.ID = 500
	out.CreatedAt = testNow
	f.created = &out
	return &out, nil
}

func (f *fakeBookingRepo) CreateLineItem(ctx context.Context, item *domain.BookingLineItem) (*domain.BookingLineItem, error) {
	f.nextItemID++
	out := *item
	out.ID = f.nextItemID
	f.items = append(f.items, out)
	return &out, nil
}

type fakePolicyResolver struct {
	policy domain.ResolvedRules
}

func (f *fakePolicyResolver) ResolveAt(ctx context.Context, resourceID *int64, at time.Time) (*domain.ResolvedRules, error) {
	p := f.policy
	return &p, nil
}

type fakeLockProvider struct {
	acquireErr error
	acquired   []string
	released   []string
}

func (f *fakeLockProvider) Acquire(ctx context.Context, key string, ttl, timeout time.Duration) error {
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.acquired = append(f.acquired, key)
	return nil
}

func (f *fakeLockProvider) Release(ctx context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct{ lockTimeouts int }

func (f *fakeMetrics) ObserveLockTimeout() { f.lockTimeouts++ }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	uc      *UseCase
	alloc   *fakeAllocationRepo
	booking *fakeBookingRepo
	policy  *fakePolicyResolver
	lock    *fakeLockProvider
	metrics *fakeMetrics
}

func newFixture() *fixture {
	f := &fixture{
		alloc:   &fakeAllocationRepo{},
		booking: &fakeBookingRepo{},
		policy:  &fakePolicyResolver{policy: domain.ResolvedRules{RequirePayment: true, ReservationTTLSeconds: 3600}},
		lock:    &fakeLockProvider{},
		metrics: &fakeMetrics{},
	}
	f.uc = NewUseCase(
		f.alloc,
		f.booking,
		f.policy,
		f.lock,
		fakeTxManager{},
		f.metrics,
		nopLogger{},
	)
	f.uc.timeProvider = fixedClock{now: testNow}
	return f
}

func cartHold(id, resourceID int64, startHour, endHour int) domain.ResourceAllocation {
	return domain.ResourceAllocation{
		ID:         id,
		ResourceID: resourceID,
		CartID:     ptr.Ptr("cart-1"),
		Status:     domain.AllocationHold,
		StartTime:  testNow.Add(time.Duration(startHour) * time.Hour),
		EndTime:    testNow.Add(time.Duration(endHour) * time.Hour),
		ExpiresAt:  ptr.Ptr(testNow.Add(30 * time.Minute)),
	}
}

func validRequest() *Request {
	return &Request{CartID: "cart-1", OrderID: "order-77"}
}

func TestExecute_CreatesConfirmedBooking(t *testing.T) {
	f := newFixture()
	f.alloc.allocations = []domain.ResourceAllocation{
		cartHold(1, 10, 24, 26),
		cartHold(2, 11, 30, 32),
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.ID)
	assert.Equal(t, "order-77", resp.OrderID)
	assert.Equal(t, string(domain.BookingConfirmed), resp.Status)
	require.NotNil(t, resp.ConfirmedAt)
	assert.Equal(t, testNow, *resp.ConfirmedAt)

	// Окно бронирования покрывает все позиции
	assert.Equal(t, testNow.Add(24*time.Hour), resp.StartTime)
	assert.Equal(t, testNow.Add(32*time.Hour), resp.EndTime)

	// Все холды подтверждены и привязаны к позициям
	assert.Equal(t, []int64{1, 2}, f.alloc.confirmed)
	require.Len(t, resp.LineItems, 2)
	assert.Equal(t, resp.LineItems[0].ID, f.alloc.linked[1])
	assert.Equal(t, resp.LineItems[1].ID, f.alloc.linked[2])

	assert.True(t, strings.HasPrefix(resp.BookingNumber, "BK-"))
	assert.Len(t, resp.BookingNumber, 13)

	assert.Equal(t, []string{"cart:cart-1"}, f.lock.acquired)
	assert.Equal(t, []string{"cart:cart-1"}, f.lock.released)
}

func TestExecute_PendingWhenConfirmationRequired(t *testing.T) {
	f := newFixture()
	f.policy.policy.RequireConfirmation = true
	f.alloc.allocations = []domain.ResourceAllocation{cartHold(1, 10, 24, 26)}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingPending), resp.Status)
	assert.Nil(t, resp.ConfirmedAt)
}

func TestExecute_NoAllocations(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrNoAllocations)
}

func TestExecute_AlreadyProcessed(t *testing.T) {
	f := newFixture()
	confirmed := cartHold(1, 10, 24, 26)
	confirmed.Status = domain.AllocationConfirmed
	f.alloc.allocations = []domain.ResourceAllocation{confirmed}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Nil(t, f.booking.created)
}

func TestExecute_HoldExpired(t *testing.T) {
	f := newFixture()
	expired := cartHold(1, 10, 24, 26)
	expired.ExpiresAt = ptr.Ptr(testNow.Add(-time.Minute))
	f.alloc.allocations = []domain.ResourceAllocation{expired}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrHoldExpired)
	assert.Empty(t, f.alloc.confirmed)
}

func TestExecute_ConcurrentSweepWins(t *testing.T) {
	// Sweep отменил холд между выборкой и условным переходом
	f := newFixture()
	f.alloc.allocations = []domain.ResourceAllocation{cartHold(1, 10, 24, 26)}
	f.alloc.transitionErr = map[int64]error{1: allocationRepo.ErrStaleTransition}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Nil(t, f.booking.created)
}

func TestExecute_LockTimeout(t *testing.T) {
	f := newFixture()
	f.lock.acquireErr = locks.ErrLockTimeout

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.Equal(t, 1, f.metrics.lockTimeouts)
}

func TestExecute_ValidatesInput(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{OrderID: "order-77"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{CartID: "cart-1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
