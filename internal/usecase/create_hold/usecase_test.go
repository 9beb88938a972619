package create_hold

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/locks"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeResourceRepo struct {
	resource *domain.Resource
	getErr   error
	configs  []domain.PricingConfig
}

func (f *fakeResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.resource, nil
}

func (f *fakeResourceRepo) ListPricingConfigs(ctx context.Context, resourceID int64) ([]domain.PricingConfig, error) {
	return f.configs, nil
}

type fakeRuleRepo struct {
	rules []domain.AvailabilityRule
}

func (f *fakeRuleRepo) ListByResource(ctx context.Context, resourceID int64) ([]domain.AvailabilityRule, error) {
	return f.rules, nil
}

type fakeAllocationRepo struct {
	existing []domain.ResourceAllocation
	created  *domain.ResourceAllocation
}

func (f *fakeAllocationRepo) Create(ctx context.Context, alloc *domain.ResourceAllocation) (*domain.ResourceAllocation, error) {
	out := *alloc
	out.ID = 101
	out.CreatedAt = testNow
	f.created = &out
	return &out, nil
}

func (f *fakeAllocationRepo) ListByResource(ctx context.Context, resourceID int64, activeOnly bool) ([]domain.ResourceAllocation, error) {
	return f.existing, nil
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
	uc       *UseCase
	resource *fakeResourceRepo
	alloc    *fakeAllocationRepo
	lock     *fakeLockProvider
	metrics  *fakeMetrics
}

func newFixture() *fixture {
	f := &fixture{
		resource: &fakeResourceRepo{
			resource: &domain.Resource{ID: 1, Title: "Meeting Room A", IsBookable: true},
		},
		alloc:   &fakeAllocationRepo{},
		lock:    &fakeLockProvider{},
		metrics: &fakeMetrics{},
	}
	f.uc = NewUseCase(
		f.resource,
		&fakeRuleRepo{},
		f.alloc,
		&fakePolicyResolver{policy: domain.ResolvedRules{ReservationTTLSeconds: 1800, RequirePayment: true}},
		f.lock,
		fakeTxManager{},
		f.metrics,
		nopLogger{},
	)
	f.uc.timeProvider = fixedClock{now: testNow}
	return f
}

func validRequest() *Request {
	return &Request{
		ResourceID: 1,
		StartTime:  testNow.Add(24 * time.Hour),
		EndTime:    testNow.Add(26 * time.Hour),
		CartID:     ptr.Ptr("cart-1"),
	}
}

func TestExecute_CreatesHold(t *testing.T) {
	f := newFixture()
	req := validRequest()

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, string(domain.AllocationHold), resp.Status)
	assert.Equal(t, req.StartTime, resp.StartTime)
	assert.Equal(t, req.EndTime, resp.EndTime)

	// TTL приходит из эффективной политики
	require.NotNil(t, resp.ExpiresAt)
	assert.Equal(t, testNow.Add(1800*time.Second), *resp.ExpiresAt)

	// Блокировка захвачена и освобождена
	assert.Equal(t, []string{"resource:1"}, f.lock.acquired)
	assert.Equal(t, []string{"resource:1"}, f.lock.released)
}

func TestExecute_DayBasedWindowNormalized(t *testing.T) {
	f := newFixture()
	f.resource.configs = []domain.PricingConfig{
		{ID: 1, ResourceID: 1, ProductVariantID: "var-1", Unit: domain.UnitDay, UnitValue: 1},
	}
	req := validRequest()

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), resp.StartTime)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), resp.EndTime)
}

func TestExecute_WindowInPast(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.StartTime = testNow.Add(-time.Hour)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrWindowInPast)
	assert.Empty(t, f.lock.acquired)
}

func TestExecute_InvalidWindow(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.EndTime = req.StartTime

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestExecute_ResourceNotFound(t *testing.T) {
	f := newFixture()
	f.resource.getErr = resourceRepo.ErrResourceNotFound

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_ResourceNotBookable(t *testing.T) {
	f := newFixture()
	f.resource.resource.IsBookable = false

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrResourceNotBookable)
}

func TestExecute_LockTimeout(t *testing.T) {
	f := newFixture()
	f.lock.acquireErr = locks.ErrLockTimeout

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.Equal(t, 1, f.metrics.lockTimeouts)
	assert.Nil(t, f.alloc.created)
}

func TestExecute_WindowNotAvailable(t *testing.T) {
	f := newFixture()
	req := validRequest()

	// Активная аллокация перекрывает середину запрошенного окна
	f.alloc.existing = []domain.ResourceAllocation{
		{
			ID:         50,
			ResourceID: 1,
			Status:     domain.AllocationReserved,
			StartTime:  req.StartTime.Add(30 * time.Minute),
			EndTime:    req.StartTime.Add(90 * time.Minute),
		},
	}

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrWindowNotAvailable)
	assert.Nil(t, f.alloc.created)

	// Блокировка освобождается и при неуспехе
	assert.Equal(t, []string{"resource:1"}, f.lock.released)
}
