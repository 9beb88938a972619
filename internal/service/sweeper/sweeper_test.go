package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/allocation"
)

type fakeAllocationRepo struct {
	holds   []domain.ResourceAllocation
	listErr error

	// transitionErr maps allocation id to the error TransitionStatus returns
	transitionErr map[int64]error
	transitioned  []int64
}

func (f *fakeAllocationRepo) ListExpiredHolds(ctx context.Context, now time.Time) ([]domain.ResourceAllocation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.holds, nil
}

func (f *fakeAllocationRepo) TransitionStatus(ctx context.Context, id int64, allowedFrom []domain.AllocationStatus, to domain.AllocationStatus, cancellationReason *string) error {
	if err, ok := f.transitionErr[id]; ok {
		return err
	}
	f.transitioned = append(f.transitioned, id)
	return nil
}

type fakeMetrics struct {
	expired int
	failed  int
	err     error
	calls   int
}

func (f *fakeMetrics) ObserveSweepRun(expired, failed int, err error) {
	f.expired = expired
	f.failed = failed
	f.err = err
	f.calls++
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func hold(id int64) domain.ResourceAllocation {
	return domain.ResourceAllocation{ID: id, Status: domain.AllocationHold}
}

func TestSweepExpiredHolds_Empty(t *testing.T) {
	repo := &fakeAllocationRepo{}
	m := &fakeMetrics{}
	s := New(repo, m, time.Minute, nopLogger{})

	expired, err := s.SweepExpiredHolds(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, expired)
	assert.Equal(t, 1, m.calls)
	assert.NoError(t, m.err)
}

func TestSweepExpiredHolds_CancelsAllHolds(t *testing.T) {
	repo := &fakeAllocationRepo{holds: []domain.ResourceAllocation{hold(1), hold(2), hold(3)}}
	m := &fakeMetrics{}
	s := New(repo, m, time.Minute, nopLogger{})

	expired, err := s.SweepExpiredHolds(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, expired)
	assert.Equal(t, []int64{1, 2, 3}, repo.transitioned)
	assert.Equal(t, 3, m.expired)
	assert.Equal(t, 0, m.failed)
}

func TestSweepExpiredHolds_SkipsConcurrentlyChangedHolds(t *testing.T) {
	// Holds 2 and 3 were confirmed or removed between the select and the
	// update; the sweep must not count them as failures.
	repo := &fakeAllocationRepo{
		holds: []domain.ResourceAllocation{hold(1), hold(2), hold(3)},
		transitionErr: map[int64]error{
			2: allocationRepo.ErrStaleTransition,
			3: allocationRepo.ErrAllocationNotFound,
		},
	}
	m := &fakeMetrics{}
	s := New(repo, m, time.Minute, nopLogger{})

	expired, err := s.SweepExpiredHolds(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, []int64{1}, repo.transitioned)
	assert.Equal(t, 0, m.failed)
}

func TestSweepExpiredHolds_CountsFailures(t *testing.T) {
	repo := &fakeAllocationRepo{
		holds: []domain.ResourceAllocation{hold(1), hold(2)},
		transitionErr: map[int64]error{
			2: errors.New("connection reset"),
		},
	}
	m := &fakeMetrics{}
	s := New(repo, m, time.Minute, nopLogger{})

	expired, err := s.SweepExpiredHolds(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, 1, m.failed)
}

func TestSweepExpiredHolds_ListFailure(t *testing.T) {
	repo := &fakeAllocationRepo{listErr: errors.New("db down")}
	m := &fakeMetrics{}
	s := New(repo, m, time.Minute, nopLogger{})

	_, err := s.SweepExpiredHolds(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSweepFailed)
	assert.Error(t, m.err)
}
