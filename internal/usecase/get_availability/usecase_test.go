package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
)

var from = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type fakeResourceRepo struct {
	resource *domain.Resource
	getErr   error
}

func (f *fakeResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.resource, nil
}

func (f *fakeResourceRepo) ListPricingConfigs(ctx context.Context, resourceID int64) ([]domain.PricingConfig, error) {
	return nil, nil
}

type fakeRuleRepo struct {
	rules []domain.AvailabilityRule
}

func (f *fakeRuleRepo) ListByResource(ctx context.Context, resourceID int64) ([]domain.AvailabilityRule, error) {
	return f.rules, nil
}

type fakeAllocationRepo struct {
	allocations []domain.ResourceAllocation
}

func (f *fakeAllocationRepo) ListByResource(ctx context.Context, resourceID int64, activeOnly bool) ([]domain.ResourceAllocation, error) {
	return f.allocations, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	uc       *UseCase
	resource *fakeResourceRepo
	rules    *fakeRuleRepo
	alloc    *fakeAllocationRepo
}

func newFixture() *fixture {
	f := &fixture{
		resource: &fakeResourceRepo{resource: &domain.Resource{ID: 1, Title: "Meeting Room A", IsBookable: true}},
		rules:    &fakeRuleRepo{},
		alloc:    &fakeAllocationRepo{},
	}
	f.uc = NewUseCase(f.resource, f.rules, f.alloc, nopLogger{})
	return f
}

func monthRequest() *Request {
	return &Request{
		ResourceID: 1,
		From:       from,
		To:         from.AddDate(0, 0, 7),
		View:       "month",
	}
}

func TestExecute_MonthView(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), monthRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ResourceID)
	assert.Equal(t, "month", resp.View)

	// Месячный вид включает обе границы периода
	require.Len(t, resp.Days, 8)

	// Без правил и аллокаций весь период доступен
	for _, day := range resp.Days {
		assert.True(t, day.IsAvailable)
		assert.Empty(t, day.Slots)
	}
	assert.Equal(t, "2024-06-01", resp.Days[0].Date)
	assert.Equal(t, "2024-06-08", resp.Days[7].Date)
}

func TestExecute_AllocationBlocksDay(t *testing.T) {
	f := newFixture()
	f.alloc.allocations = []domain.ResourceAllocation{
		{
			ID:         42,
			ResourceID: 1,
			Status:     domain.AllocationReserved,
			StartTime:  from.AddDate(0, 0, 2),
			EndTime:    from.AddDate(0, 0, 3),
		},
	}

	resp, err := f.uc.Execute(context.Background(), monthRequest())

	require.NoError(t, err)
	require.Len(t, resp.Days, 8)

	blocked := resp.Days[2]
	assert.False(t, blocked.IsAvailable)
	require.NotNil(t, blocked.EffectiveLayer)
	assert.Equal(t, string(domain.LayerSourceAllocation), blocked.EffectiveLayer.SourceType)
	assert.Equal(t, int64(42), *blocked.EffectiveLayer.SourceID)

	assert.True(t, resp.Days[1].IsAvailable)
	assert.True(t, resp.Days[3].IsAvailable)
}

func TestExecute_DayViewHasSlots(t *testing.T) {
	f := newFixture()
	req := monthRequest()
	req.View = "day"
	req.To = from.AddDate(0, 0, 1)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.NotEmpty(t, resp.Days[0].Slots)
}

func TestExecute_ResourceNotFound(t *testing.T) {
	f := newFixture()
	f.resource.getErr = resourceRepo.ErrResourceNotFound

	_, err := f.uc.Execute(context.Background(), monthRequest())

	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_InvalidView(t *testing.T) {
	f := newFixture()
	req := monthRequest()
	req.View = "year"

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidView)
}

func TestExecute_RangeValidation(t *testing.T) {
	f := newFixture()

	req := monthRequest()
	req.To = req.From
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRange)

	req = monthRequest()
	req.To = req.From.AddDate(2, 0, 0)
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrRangeTooWide)
}
