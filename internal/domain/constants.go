package domain

// Business validation constants
const (
	// MaxRulePriority caps operator-settable availability rule priorities so
	// the allocation sentinel priority always stays above them
	MaxRulePriority = 500
	MinRulePriority = 1

	MaxRuleNameLength           = 120
	MaxDescriptionLength        = 500
	MaxCancellationReasonLength = 500
	MaxBookingRulePriority      = 10000
	MinReservationTTLSeconds    = 60
	MaxReservationTTLSeconds    = 86400
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveAllocationStatuses список статусов аллокаций, блокирующих доступность
var ActiveAllocationStatuses = []AllocationStatus{
	AllocationHold,
	AllocationReserved,
	AllocationConfirmed,
}
