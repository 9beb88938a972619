package domain

import "time"

// TimeRange represents a half-open time interval [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange creates a time range; callers are expected to check IsValid
func NewTimeRange(start, end time.Time) TimeRange {
	return TimeRange{Start: start, End: end}
}

// IsValid returns true if the range has positive length
func (r TimeRange) IsValid() bool {
	return r.Start.Before(r.End)
}

// Duration returns the length of the range
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps returns true if the two ranges share any instant
// Touching boundaries ([a,b) and [b,c)) do not overlap
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Covers returns true if the range fully contains [start, end]
func (r TimeRange) Covers(start, end time.Time) bool {
	return !r.Start.After(start) && !r.End.Before(end)
}

// IntersectRanges intersects every base range with every overlay range.
// Output ranges with zero or negative length are dropped. The result is not
// merged or deduplicated - consumers must tolerate overlapping output ranges.
func IntersectRanges(base, overlays []TimeRange) []TimeRange {
	result := make([]TimeRange, 0)

	for _, b := range base {
		for _, o := range overlays {
			start := maxTime(b.Start, o.Start)
			end := minTime(b.End, o.End)

			if start.Before(end) {
				result = append(result, TimeRange{Start: start, End: end})
			}
		}
	}

	return result
}

// SubtractRanges removes blocker ranges from base ranges.
// Blockers are applied sequentially against the accumulated result: a blocker
// that misses a range keeps it, one that covers it drops it, and a partial
// overlap leaves the non-empty left and/or right remainders. Self-overlapping
// blockers are safe - later blockers can only narrow the result further.
func SubtractRanges(base, blockers []TimeRange) []TimeRange {
	result := make([]TimeRange, len(base))
	copy(result, base)

	for _, block := range blockers {
		next := make([]TimeRange, 0, len(result))

		for _, r := range result {
			// No overlap
			if !block.End.After(r.Start) || !block.Start.Before(r.End) {
				next = append(next, r)
				continue
			}

			// Left remainder
			if block.Start.After(r.Start) {
				next = append(next, TimeRange{Start: r.Start, End: block.Start})
			}

			// Right remainder
			if block.End.Before(r.End) {
				next = append(next, TimeRange{Start: block.End, End: r.End})
			}
		}

		result = next
	}

	return result
}

// AnyRangeCovers returns true if some range fully contains [start, end]
func AnyRangeCovers(ranges []TimeRange, start, end time.Time) bool {
	for _, r := range ranges {
		if r.Covers(start, end) {
			return true
		}
	}
	return false
}

// AnyRangeOverlaps returns true if some range overlaps [start, end)
func AnyRangeOverlaps(ranges []TimeRange, start, end time.Time) bool {
	probe := TimeRange{Start: start, End: end}
	for _, r := range ranges {
		if r.Overlaps(probe) {
			return true
		}
	}
	return false
}

// StartOfUTCDay truncates the instant to midnight UTC
func StartOfUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfUTCDayExclusive returns midnight UTC of the following day
func EndOfUTCDayExclusive(t time.Time) time.Time {
	return StartOfUTCDay(t).AddDate(0, 0, 1)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
