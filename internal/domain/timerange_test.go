package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tr(startHour, endHour int) TimeRange {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return TimeRange{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestIntersectRanges(t *testing.T) {
	tests := []struct {
		name     string
		base     []TimeRange
		overlays []TimeRange
		want     []TimeRange
	}{
		{
			name:     "partial overlap",
			base:     []TimeRange{tr(0, 10)},
			overlays: []TimeRange{tr(5, 15)},
			want:     []TimeRange{tr(5, 10)},
		},
		{
			name:     "no overlap",
			base:     []TimeRange{tr(0, 5)},
			overlays: []TimeRange{tr(5, 10)},
			want:     []TimeRange{},
		},
		{
			name:     "overlay inside base",
			base:     []TimeRange{tr(0, 24)},
			overlays: []TimeRange{tr(9, 17)},
			want:     []TimeRange{tr(9, 17)},
		},
		{
			name:     "empty overlays",
			base:     []TimeRange{tr(0, 10)},
			overlays: []TimeRange{},
			want:     []TimeRange{},
		},
		{
			name:     "multiple pairs keep overlapping output",
			base:     []TimeRange{tr(0, 10), tr(5, 15)},
			overlays: []TimeRange{tr(4, 12)},
			want:     []TimeRange{tr(4, 10), tr(5, 12)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntersectRanges(tt.base, tt.overlays)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubtractRanges(t *testing.T) {
	tests := []struct {
		name     string
		base     []TimeRange
		blockers []TimeRange
		want     []TimeRange
	}{
		{
			name:     "blocker misses range",
			base:     []TimeRange{tr(0, 5)},
			blockers: []TimeRange{tr(6, 8)},
			want:     []TimeRange{tr(0, 5)},
		},
		{
			name:     "blocker covers range",
			base:     []TimeRange{tr(2, 4)},
			blockers: []TimeRange{tr(0, 10)},
			want:     []TimeRange{},
		},
		{
			name:     "blocker splits range",
			base:     []TimeRange{tr(0, 10)},
			blockers: []TimeRange{tr(4, 6)},
			want:     []TimeRange{tr(0, 4), tr(6, 10)},
		},
		{
			name:     "blocker trims left edge",
			base:     []TimeRange{tr(0, 10)},
			blockers: []TimeRange{tr(0, 3)},
			want:     []TimeRange{tr(3, 10)},
		},
		{
			name:     "blocker trims right edge",
			base:     []TimeRange{tr(0, 10)},
			blockers: []TimeRange{tr(8, 12)},
			want:     []TimeRange{tr(0, 8)},
		},
		{
			name:     "touching boundary is not overlap",
			base:     []TimeRange{tr(0, 5)},
			blockers: []TimeRange{tr(5, 10)},
			want:     []TimeRange{tr(0, 5)},
		},
		{
			name:     "sequential blockers narrow further",
			base:     []TimeRange{tr(0, 12)},
			blockers: []TimeRange{tr(2, 4), tr(3, 6)},
			want:     []TimeRange{tr(0, 2), tr(6, 12)},
		},
		{
			name:     "self-overlapping blockers are safe",
			base:     []TimeRange{tr(0, 10)},
			blockers: []TimeRange{tr(4, 6), tr(4, 6)},
			want:     []TimeRange{tr(0, 4), tr(6, 10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubtractRanges(tt.base, tt.blockers)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeRangeCovers(t *testing.T) {
	r := tr(9, 17)

	assert.True(t, r.Covers(r.Start, r.End))
	assert.True(t, r.Covers(tr(10, 12).Start, tr(10, 12).End))
	assert.False(t, r.Covers(tr(8, 12).Start, tr(8, 12).End))
	assert.False(t, r.Covers(tr(16, 18).Start, tr(16, 18).End))
}

func TestStartOfUTCDay(t *testing.T) {
	instant := time.Date(2024, 3, 15, 18, 42, 11, 500, time.UTC)

	start := StartOfUTCDay(instant)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), start)

	end := EndOfUTCDayExclusive(instant)
	require.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), end)
}

func TestDeriveBookingWindow(t *testing.T) {
	_, ok := DeriveBookingWindow(nil)
	assert.False(t, ok)

	window, ok := DeriveBookingWindow([]TimeRange{tr(10, 12), tr(8, 9), tr(14, 16)})
	require.True(t, ok)
	assert.Equal(t, tr(8, 16), window)
}

func TestAllocationStateMachine(t *testing.T) {
	tests := []struct {
		from    AllocationStatus
		to      AllocationStatus
		allowed bool
	}{
		{AllocationHold, AllocationConfirmed, true},
		{AllocationHold, AllocationCancelled, true},
		{AllocationReserved, AllocationConfirmed, true},
		{AllocationReserved, AllocationCancelled, true},
		{AllocationConfirmed, AllocationCancelled, true},
		{AllocationConfirmed, AllocationHold, false},
		{AllocationCancelled, AllocationConfirmed, false},
		{AllocationCancelled, AllocationHold, false},
	}

	for _, tt := range tests {
		a := &ResourceAllocation{Status: tt.from}
		assert.Equal(t, tt.allowed, a.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestBookingStateMachine(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingConfirmed, false},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.from}
		assert.Equal(t, tt.allowed, b.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
