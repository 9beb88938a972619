package domain

import "time"

// AllocationStatus represents the lifecycle state of a resource allocation
type AllocationStatus string

const (
	AllocationHold      AllocationStatus = "hold"
	AllocationReserved  AllocationStatus = "reserved"
	AllocationConfirmed AllocationStatus = "confirmed"
	AllocationCancelled AllocationStatus = "cancelled"
)

// CancellationReasonExpired is set by the expiry sweep
const CancellationReasonExpired = "expired"

// ResourceAllocation reserves a window of a resource's time.
// Created as hold (expiring) or reserved when a customer selects a window,
// confirmed when checkout completes, cancelled by expiry or booking
// cancellation. Only non-cancelled allocations produce block layers.
type ResourceAllocation struct {
	ID         int64
	ResourceID int64

	// CartID links the allocation to an external cart while checkout is in
	// flight; LineItemID is set once the allocation belongs to a booking.
	// At most one of each.
	CartID     *string
	LineItemID *int64

	StartTime time.Time
	EndTime   time.Time

	// ExpiresAt governs the expiry sweep for hold status only
	ExpiresAt *time.Time

	Status             AllocationStatus
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the allocation still blocks availability
func (a *ResourceAllocation) IsActive() bool {
	return a.Status != AllocationCancelled
}

// IsTerminal returns true if no further transition is allowed
func (a *ResourceAllocation) IsTerminal() bool {
	return a.Status == AllocationCancelled
}

// CanTransitionTo validates the allocation state machine:
// hold/reserved -> confirmed or cancelled, confirmed -> cancelled
func (a *ResourceAllocation) CanTransitionTo(next AllocationStatus) bool {
	switch a.Status {
	case AllocationHold, AllocationReserved:
		return next == AllocationConfirmed || next == AllocationCancelled
	case AllocationConfirmed:
		return next == AllocationCancelled
	default:
		return false
	}
}

// Kind returns how the allocation is rendered on the calendar
func (a *ResourceAllocation) Kind() AllocationKind {
	if a.Status == AllocationHold {
		return AllocationKindHold
	}
	return AllocationKindBooked
}

// IsExpired returns true if a hold's expiry deadline has passed
func (a *ResourceAllocation) IsExpired(now time.Time) bool {
	return a.Status == AllocationHold && a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

// Range returns the allocation's time range
func (a *ResourceAllocation) Range() TimeRange {
	return TimeRange{Start: a.StartTime, End: a.EndTime}
}
