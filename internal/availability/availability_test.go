package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

var day = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func snapshot(rules []domain.AvailabilityRule, allocations []domain.ResourceAllocation) *domain.ResourceSnapshot {
	return &domain.ResourceSnapshot{
		Resource:    domain.Resource{ID: 1, Title: "Meeting Room A", IsBookable: true},
		Rules:       rules,
		Allocations: allocations,
	}
}

func TestCompileLayers_BaseOnly(t *testing.T) {
	layers := CompileLayers(snapshot(nil, nil), at(10, 0), at(14, 0))

	require.Len(t, layers, 1)
	assert.Equal(t, domain.LayerSourceBase, layers[0].SourceType)
	assert.Equal(t, domain.EffectGrant, layers[0].Effect)
	assert.Equal(t, 0, layers[0].Priority)
	// Base spans whole UTC days around the window
	assert.Equal(t, day, layers[0].Range.Start)
	assert.Equal(t, day.AddDate(0, 0, 1), layers[0].Range.End)
}

func TestCompileLayers_SkipsInactiveAndDeletedRules(t *testing.T) {
	now := time.Now()
	rules := []domain.AvailabilityRule{
		{ID: 1, Name: "active", Effect: domain.RuleEffectAvailable, Priority: 10, IsActive: true},
		{ID: 2, Name: "inactive", Effect: domain.RuleEffectUnavailable, Priority: 20, IsActive: false},
		{ID: 3, Name: "deleted", Effect: domain.RuleEffectUnavailable, Priority: 30, IsActive: true, DeletedAt: &now},
	}

	layers := CompileLayers(snapshot(rules, nil), at(0, 0), at(23, 0))

	require.Len(t, layers, 2) // base + active rule
	assert.Equal(t, domain.LayerSourceRule, layers[1].SourceType)
	assert.Equal(t, int64(1), *layers[1].SourceID)
}

func TestCompileLayers_SkipsCancelledAllocations(t *testing.T) {
	allocations := []domain.ResourceAllocation{
		{ID: 1, Status: domain.AllocationHold, StartTime: at(10, 0), EndTime: at(12, 0)},
		{ID: 2, Status: domain.AllocationCancelled, StartTime: at(14, 0), EndTime: at(16, 0)},
	}

	layers := CompileLayers(snapshot(nil, allocations), at(0, 0), at(23, 0))

	require.Len(t, layers, 2) // base + hold
	alloc := layers[1]
	assert.Equal(t, domain.LayerSourceAllocation, alloc.SourceType)
	assert.Equal(t, domain.EffectBlock, alloc.Effect)
	assert.Equal(t, domain.AllocationLayerPriority, alloc.Priority)
	require.NotNil(t, alloc.Metadata)
	assert.Equal(t, domain.AllocationKindHold, alloc.Metadata.AllocationType)
}

func TestComputeAvailability_GrantIntersectionMonotonicity(t *testing.T) {
	base := domain.AvailabilityLayer{
		SourceType: domain.LayerSourceBase,
		Effect:     domain.EffectGrant,
		Priority:   0,
		Range:      domain.TimeRange{Start: at(0, 0), End: at(24, 0)},
	}
	grantA := domain.AvailabilityLayer{
		SourceType: domain.LayerSourceRule,
		Effect:     domain.EffectGrant,
		Priority:   10,
		Range:      domain.TimeRange{Start: at(8, 0), End: at(18, 0)},
	}
	grantB := domain.AvailabilityLayer{
		SourceType: domain.LayerSourceRule,
		Effect:     domain.EffectGrant,
		Priority:   20,
		Range:      domain.TimeRange{Start: at(12, 0), End: at(22, 0)},
	}

	withA := ComputeAvailability([]domain.AvailabilityLayer{base, grantA})
	withBoth := ComputeAvailability([]domain.AvailabilityLayer{base, grantA, grantB})

	// Adding a grant can only shrink the available set
	require.Equal(t, []domain.TimeRange{{Start: at(8, 0), End: at(18, 0)}}, withA)
	require.Equal(t, []domain.TimeRange{{Start: at(12, 0), End: at(18, 0)}}, withBoth)

	for _, r := range withBoth {
		assert.True(t, domain.AnyRangeCovers(withA, r.Start, r.End))
	}
}

func TestComputeAvailability_BlockDominance(t *testing.T) {
	layers := []domain.AvailabilityLayer{
		{Effect: domain.EffectGrant, Priority: 0, Range: domain.TimeRange{Start: at(0, 0), End: at(24, 0)}},
		{Effect: domain.EffectGrant, Priority: 10, Range: domain.TimeRange{Start: at(9, 0), End: at(17, 0)}},
		{Effect: domain.EffectGrant, Priority: 20, Range: domain.TimeRange{Start: at(9, 0), End: at(17, 0)}},
		{Effect: domain.EffectBlock, Priority: 5, Range: domain.TimeRange{Start: at(12, 0), End: at(13, 0)}},
	}

	available := ComputeAvailability(layers)

	// No amount of grant layers re-opens a blocked instant
	assert.False(t, IsWindowAvailable(available, at(12, 0), at(12, 30)))
	assert.True(t, IsWindowAvailable(available, at(9, 0), at(12, 0)))
	assert.True(t, IsWindowAvailable(available, at(13, 0), at(17, 0)))
}

func TestComputeAvailability_AllocationPrioritySupremacy(t *testing.T) {
	// The sentinel must stay above any operator-settable rule priority
	require.Greater(t, domain.AllocationLayerPriority, domain.MaxRulePriority)

	maxRule := domain.AvailabilityRule{
		ID:       7,
		Name:     "always open",
		Effect:   domain.RuleEffectAvailable,
		Priority: domain.MaxRulePriority,
		IsActive: true,
	}
	hold := domain.ResourceAllocation{
		ID:        8,
		Status:    domain.AllocationHold,
		StartTime: at(10, 0),
		EndTime:   at(12, 0),
	}

	snap := snapshot([]domain.AvailabilityRule{maxRule}, []domain.ResourceAllocation{hold})
	assert.False(t, WindowAvailable(snap, at(10, 0), at(11, 0)))
	assert.True(t, WindowAvailable(snap, at(13, 0), at(14, 0)))
}

func TestProjectSlots_CoverageStrictness(t *testing.T) {
	// A range covering only half the slot must mark it unavailable
	ranges := []domain.TimeRange{{Start: at(10, 0), End: at(10, 15)}}
	layers := []domain.AvailabilityLayer{
		{Effect: domain.EffectGrant, Priority: 0, Range: domain.TimeRange{Start: at(0, 0), End: at(24, 0)}},
	}

	days := ProjectSlots(ranges, layers, at(10, 0), at(11, 0), ViewDay, Resolution{Unit: UnitMinute, Value: 30})

	require.Len(t, days, 1)
	require.Len(t, days[0].Slots, 2)
	assert.False(t, days[0].Slots[0].Available)
	assert.False(t, days[0].Slots[1].Available)
}

func TestProjectSlots_EmptyAndInvertedWindows(t *testing.T) {
	ranges := []domain.TimeRange{{Start: at(0, 0), End: at(24, 0)}}

	assert.Empty(t, ProjectSlots(ranges, nil, at(10, 0), at(10, 0), ViewDay, DayResolution))
	assert.Empty(t, ProjectSlots(ranges, nil, at(12, 0), at(10, 0), ViewDay, DayResolution))
}

func TestProject_ScenarioA_MonthViewBareResource(t *testing.T) {
	// Resource with no rules and no allocations, window = one full day
	days := Project(snapshot(nil, nil), day, day.Add(23*time.Hour+59*time.Minute), ViewMonth)

	require.Len(t, days, 1)
	assert.True(t, days[0].IsAvailable)
	assert.Equal(t, day, days[0].Date)
	assert.Empty(t, days[0].Slots)
	require.NotNil(t, days[0].EffectiveLayer)
	assert.Equal(t, domain.LayerSourceBase, days[0].EffectiveLayer.SourceType)
}

func TestProject_ScenarioB_DayViewWithHold(t *testing.T) {
	hold := domain.ResourceAllocation{
		ID:        42,
		Status:    domain.AllocationHold,
		StartTime: at(10, 0),
		EndTime:   at(12, 0),
		ExpiresAt: ptr.Ptr(at(13, 0)),
	}

	days := Project(snapshot(nil, []domain.ResourceAllocation{hold}), day, day.AddDate(0, 0, 1), ViewDay)

	require.NotEmpty(t, days)
	bucket := days[0]
	require.Equal(t, day, bucket.Date)
	assert.True(t, bucket.IsAvailable)

	for _, slot := range bucket.Slots {
		inHold := !slot.Start.Before(at(10, 0)) && !slot.End.After(at(12, 0))
		if inHold {
			assert.False(t, slot.Available, "slot %v should be blocked", slot.Start)
			require.NotNil(t, slot.EffectiveLayer)
			assert.Equal(t, domain.LayerSourceAllocation, slot.EffectiveLayer.SourceType)
			require.NotNil(t, slot.EffectiveLayer.Metadata)
			assert.Equal(t, domain.AllocationKindHold, slot.EffectiveLayer.Metadata.AllocationType)
		} else {
			assert.True(t, slot.Available, "slot %v should be free", slot.Start)
			require.NotNil(t, slot.EffectiveLayer)
			assert.Equal(t, domain.EffectGrant, slot.EffectiveLayer.Effect)
		}
	}

	// 15-minute slots over one day
	assert.Len(t, bucket.Slots, 96)
}

func TestProject_ScenarioC_UnboundedBlockCarvesOutGrant(t *testing.T) {
	ruleX := domain.AvailabilityRule{
		ID:       1,
		Name:     "maintenance",
		Effect:   domain.RuleEffectUnavailable,
		Priority: 10,
		IsActive: true,
		// no bounds: applies to the whole queried window
	}
	ruleY := domain.AvailabilityRule{
		ID:         2,
		Name:       "open day",
		Effect:     domain.RuleEffectAvailable,
		Priority:   20,
		IsActive:   true,
		ValidFrom:  ptr.Ptr(day),
		ValidUntil: ptr.Ptr(day.AddDate(0, 0, 1)),
	}

	snap := snapshot([]domain.AvailabilityRule{ruleX, ruleY}, nil)

	// Hand-computed fold: base grant seeds the whole window; X's unbounded
	// block (priority 10) empties it; Y's grant (priority 20) intersects with
	// the empty set. Nothing is available.
	layers := CompileLayers(snap, day, day.AddDate(0, 0, 1))
	available := ComputeAvailability(layers)
	assert.Empty(t, available)

	days := Project(snap, day, day, ViewMonth)
	require.Len(t, days, 1)
	assert.False(t, days[0].IsAvailable)
}

func TestProjectMonth_EmptyRanges(t *testing.T) {
	days := ProjectMonth(nil, nil, day, day.AddDate(0, 0, 2))

	require.Len(t, days, 3)
	for _, d := range days {
		assert.False(t, d.IsAvailable)
		assert.Nil(t, d.EffectiveLayer)
	}
}

func TestProjectSlots_GroupsAcrossDays(t *testing.T) {
	ranges := []domain.TimeRange{{Start: day, End: day.AddDate(0, 0, 2)}}
	layers := []domain.AvailabilityLayer{
		{Effect: domain.EffectGrant, Priority: 0, Range: domain.TimeRange{Start: day, End: day.AddDate(0, 0, 2)}},
	}

	days := ProjectSlots(ranges, layers, day, day.AddDate(0, 0, 2), ViewWeek, WeekResolution)

	require.Len(t, days, 2)
	assert.Equal(t, day, days[0].Date)
	assert.Equal(t, day.AddDate(0, 0, 1), days[1].Date)
	assert.Len(t, days[0].Slots, 48)
	assert.True(t, days[0].IsAvailable)
}
