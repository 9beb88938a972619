package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is an aggregate of line items created when a checkout completes.
// StartTime/EndTime are derived as min(start)/max(end) across line items at
// creation time and are not an independently mutable source of truth.
type Booking struct {
	ID            int64
	BookingNumber string
	OrderID       string

	StartTime time.Time
	EndTime   time.Time

	Status BookingStatus

	// Transition timestamps, each set exactly once
	ConfirmedAt *time.Time
	CancelledAt *time.Time
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingLineItem ties a booking to exactly one resource allocation
type BookingLineItem struct {
	ID           int64
	BookingID    int64
	AllocationID int64
	StartTime    time.Time
	EndTime      time.Time
	CreatedAt    time.Time
}

// IsTerminal returns true if the booking reached a final state
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled
}

// CanTransitionTo validates the booking state machine:
// pending -> confirmed -> completed, cancelled reachable from any
// non-terminal state
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	default:
		return false
	}
}

// DeriveBookingWindow computes the booking's time window from its line item
// ranges: min start, max end. ok is false for an empty input.
func DeriveBookingWindow(ranges []TimeRange) (window TimeRange, ok bool) {
	if len(ranges) == 0 {
		return TimeRange{}, false
	}

	window = ranges[0]
	for _, r := range ranges[1:] {
		if r.Start.Before(window.Start) {
			window.Start = r.Start
		}
		if r.End.After(window.End) {
			window.End = r.End
		}
	}

	return window, true
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	Status    *BookingStatus // Фильтр по статусу (опционально)
	StartFrom *time.Time     // Бронирования, начинающиеся не раньше (опционально)
	StartTo   *time.Time     // Бронирования, начинающиеся не позже (опционально)
	OrderID   *string        // Фильтр по заказу (опционально)
}
