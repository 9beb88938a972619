package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// ComputeAvailability folds the layer list into the set of available ranges.
//
// Layers are applied in ascending priority. The first grant seeds the
// accumulator, every later grant intersects with it, and every block subtracts
// from it. Grants therefore compose with AND semantics (each successive grant
// can only shrink availability) while blocks are unconditional carve-outs
// regardless of their order relative to other blocks.
func ComputeAvailability(layers []domain.AvailabilityLayer) []domain.TimeRange {
	sorted := make([]domain.AvailabilityLayer, len(layers))
	copy(sorted, layers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	available := make([]domain.TimeRange, 0)
	seeded := false

	for _, layer := range sorted {
		if !layer.Range.IsValid() {
			continue
		}

		switch layer.Effect {
		case domain.EffectGrant:
			if !seeded {
				available = []domain.TimeRange{layer.Range}
				seeded = true
			} else {
				available = domain.IntersectRanges(available, []domain.TimeRange{layer.Range})
			}
		case domain.EffectBlock:
			available = domain.SubtractRanges(available, []domain.TimeRange{layer.Range})
		}
	}

	return available
}

// IsWindowAvailable reports whether some computed range fully covers
// [start, end]. Partial coverage does not count.
func IsWindowAvailable(ranges []domain.TimeRange, start, end time.Time) bool {
	return domain.AnyRangeCovers(ranges, start, end)
}
