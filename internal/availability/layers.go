package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// CompileLayers builds the ordered availability layer list for a resource
// snapshot and query window [from, to):
//
//  1. one base grant at priority 0 spanning whole UTC days around the window,
//  2. one layer per in-force rule, sorted ascending by priority, with absent
//     validity bounds defaulting to the base window (an unbounded rule applies
//     to the whole queried window, not literally forever),
//  3. one block layer per non-cancelled allocation at the fixed sentinel
//     priority, carrying hold/booked metadata.
//
// The output is the flat ordered layer list; no further processing happens here.
func CompileLayers(snapshot *domain.ResourceSnapshot, from, to time.Time) []domain.AvailabilityLayer {
	baseStart := domain.StartOfUTCDay(from)
	baseEnd := domain.EndOfUTCDayExclusive(to)

	layers := make([]domain.AvailabilityLayer, 0, 1+len(snapshot.Rules)+len(snapshot.Allocations))

	layers = append(layers, domain.AvailabilityLayer{
		SourceType: domain.LayerSourceBase,
		Effect:     domain.EffectGrant,
		Priority:   0,
		Range:      domain.TimeRange{Start: baseStart, End: baseEnd},
	})

	for _, rule := range sortRulesByPriority(snapshot.Rules) {
		if !rule.IsInForce() {
			continue
		}

		start := baseStart
		if rule.ValidFrom != nil {
			start = *rule.ValidFrom
		}
		end := baseEnd
		if rule.ValidUntil != nil {
			end = *rule.ValidUntil
		}

		id := rule.ID
		name := rule.Name
		layers = append(layers, domain.AvailabilityLayer{
			SourceType: domain.LayerSourceRule,
			SourceID:   &id,
			SourceName: &name,
			Effect:     rule.LayerEffect(),
			Priority:   rule.Priority,
			Range:      domain.TimeRange{Start: start, End: end},
		})
	}

	for _, alloc := range snapshot.Allocations {
		if !alloc.IsActive() {
			continue
		}

		id := alloc.ID
		name := fmt.Sprintf("Allocation %d", alloc.ID)
		layers = append(layers, domain.AvailabilityLayer{
			SourceType: domain.LayerSourceAllocation,
			SourceID:   &id,
			SourceName: &name,
			Effect:     domain.EffectBlock,
			Priority:   domain.AllocationLayerPriority,
			Range:      alloc.Range(),
			Metadata: &domain.AllocationMetadata{
				AllocationType: alloc.Kind(),
				ExpiresAt:      alloc.ExpiresAt,
			},
		})
	}

	return layers
}

func sortRulesByPriority(rules []domain.AvailabilityRule) []domain.AvailabilityRule {
	sorted := make([]domain.AvailabilityRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}
