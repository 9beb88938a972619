package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// ProjectMonth projects computed ranges to month granularity: one record per
// UTC calendar day in [from, to], available iff any range overlaps the day.
// The effective layer is the highest-priority layer affecting the day; no
// per-slot detail is returned.
func ProjectMonth(ranges []domain.TimeRange, layers []domain.AvailabilityLayer, from, to time.Time) []DayAvailability {
	days := make([]DayAvailability, 0)

	for cursor := domain.StartOfUTCDay(from); !cursor.After(to); cursor = cursor.AddDate(0, 0, 1) {
		dayStart := cursor
		dayEnd := cursor.AddDate(0, 0, 1)

		affecting := layersOverlapping(layers, dayStart, dayEnd)

		day := DayAvailability{
			Date:        dayStart,
			IsAvailable: domain.AnyRangeOverlaps(ranges, dayStart, dayEnd),
			View:        ViewMonth,
			Layers:      affecting,
			Slots:       []Slot{},
		}
		if len(affecting) > 0 {
			day.EffectiveLayer = &affecting[0]
		}

		days = append(days, day)
	}

	return days
}

// ProjectSlots walks [from, to) in fixed-size steps and returns per-UTC-day
// buckets of slots. A slot is available iff some computed range fully covers
// it - partial coverage marks it unavailable, a deliberately conservative
// policy. Attribution picks the highest-priority overlapping grant layer for
// available slots and the highest-priority overlapping block layer otherwise.
//
// Zero-length or inverted windows, and non-positive resolutions, produce no
// output.
func ProjectSlots(ranges []domain.TimeRange, layers []domain.AvailabilityLayer, from, to time.Time, view View, res Resolution) []DayAvailability {
	step := res.Duration()
	if step <= 0 || !from.Before(to) {
		return []DayAvailability{}
	}

	slots := make([]Slot, 0)

	for cursor := from; !cursor.Add(step).After(to); cursor = cursor.Add(step) {
		slotStart := cursor
		slotEnd := cursor.Add(step)

		affecting := layersOverlapping(layers, slotStart, slotEnd)
		isAvailable := domain.AnyRangeCovers(ranges, slotStart, slotEnd)

		slot := Slot{
			Start:     slotStart,
			End:       slotEnd,
			Available: isAvailable,
			Layers:    affecting,
		}

		wantEffect := domain.EffectBlock
		if isAvailable {
			wantEffect = domain.EffectGrant
		}
		for i := range affecting {
			if affecting[i].Effect == wantEffect {
				slot.EffectiveLayer = &affecting[i]
				break
			}
		}

		slots = append(slots, slot)
	}

	return groupSlotsByDay(slots, view)
}

// ResolutionForView returns the default resolution of a fine-grained view
func ResolutionForView(view View) Resolution {
	if view == ViewWeek {
		return WeekResolution
	}
	return DayResolution
}

// layersOverlapping returns the layers temporally overlapping [start, end),
// descending by priority so the first entry is the attribution winner
func layersOverlapping(layers []domain.AvailabilityLayer, start, end time.Time) []domain.AvailabilityLayer {
	probe := domain.TimeRange{Start: start, End: end}

	affecting := make([]domain.AvailabilityLayer, 0)
	for _, layer := range layers {
		if layer.Range.Overlaps(probe) {
			affecting = append(affecting, layer)
		}
	}

	sort.SliceStable(affecting, func(i, j int) bool {
		return affecting[i].Priority > affecting[j].Priority
	})

	return affecting
}

// groupSlotsByDay buckets slots into per-UTC-day records; a day is available
// if any of its slots is
func groupSlotsByDay(slots []Slot, view View) []DayAvailability {
	byDay := make(map[time.Time]*DayAvailability)
	order := make([]time.Time, 0)

	for _, slot := range slots {
		dayStart := domain.StartOfUTCDay(slot.Start)

		day, ok := byDay[dayStart]
		if !ok {
			day = &DayAvailability{
				Date:  dayStart,
				View:  view,
				Slots: make([]Slot, 0),
			}
			byDay[dayStart] = day
			order = append(order, dayStart)
		}

		day.Slots = append(day.Slots, slot)
		if slot.Available {
			day.IsAvailable = true
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	days := make([]DayAvailability, 0, len(order))
	for _, key := range order {
		days = append(days, *byDay[key])
	}

	return days
}

// Project runs the full projection for a resource snapshot: compile layers,
// compute ranges and project to the requested view.
func Project(snapshot *domain.ResourceSnapshot, from, to time.Time, view View) []DayAvailability {
	layers := CompileLayers(snapshot, from, to)
	ranges := ComputeAvailability(layers)

	if view == ViewMonth {
		return ProjectMonth(ranges, layers, from, to)
	}
	return ProjectSlots(ranges, layers, from, to, view, ResolutionForView(view))
}

// WindowAvailable reports whether the whole [start, end] window of a resource
// is bookable. Used by hold creation.
func WindowAvailable(snapshot *domain.ResourceSnapshot, start, end time.Time) bool {
	layers := CompileLayers(snapshot, start, end)
	ranges := ComputeAvailability(layers)
	return IsWindowAvailable(ranges, start, end)
}
