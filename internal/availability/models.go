package availability

import (
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// View selects the calendar projection granularity
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// ParseView validates a view string
func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewMonth, ViewWeek, ViewDay:
		return View(s), true
	default:
		return "", false
	}
}

// ResolutionUnit is the unit of a slot resolution
type ResolutionUnit string

const (
	UnitMinute ResolutionUnit = "minute"
	UnitHour   ResolutionUnit = "hour"
	UnitDay    ResolutionUnit = "day"
)

// Resolution is the fixed slot size used by fine-grained projections
type Resolution struct {
	Unit  ResolutionUnit
	Value int
}

// Default resolutions per view
var (
	WeekResolution = Resolution{Unit: UnitMinute, Value: 30}
	DayResolution  = Resolution{Unit: UnitMinute, Value: 15}
)

// Duration converts the resolution to a time.Duration
func (r Resolution) Duration() time.Duration {
	switch r.Unit {
	case UnitMinute:
		return time.Duration(r.Value) * time.Minute
	case UnitHour:
		return time.Duration(r.Value) * time.Hour
	case UnitDay:
		return time.Duration(r.Value) * 24 * time.Hour
	default:
		return 0
	}
}

// Slot is one fixed-size interval of a fine-grained projection with full
// attribution: every layer overlapping the slot, plus the single layer that
// decided its state.
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool

	// Layers overlapping the slot, descending by priority
	Layers []domain.AvailabilityLayer

	// EffectiveLayer is the highest-priority grant layer when the slot is
	// available, else the highest-priority block layer
	EffectiveLayer *domain.AvailabilityLayer
}

// DayAvailability is the per-day calendar record consumed by presentation
// layers. Month view leaves Slots empty; week/day views bucket slots by UTC
// day with IsAvailable = OR over the bucket.
type DayAvailability struct {
	Date        time.Time
	IsAvailable bool
	View        View
	Slots       []Slot

	Layers         []domain.AvailabilityLayer
	EffectiveLayer *domain.AvailabilityLayer
}
