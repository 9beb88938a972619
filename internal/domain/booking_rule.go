package domain

import (
	"encoding/json"
	"time"
)

// RuleScope describes whether a booking rule applies to all resources or to
// an explicit list of them
type RuleScope string

const (
	ScopeGlobal   RuleScope = "global"
	ScopeResource RuleScope = "resource"
)

// BookingRule is a global checkout-policy rule, independent of availability
// rules: it governs payment/confirmation requirements and reservation TTL,
// not time availability.
type BookingRule struct {
	ID          int64
	Name        string
	Description *string

	Scope RuleScope

	// ResourceIDs is only meaningful when Scope == ScopeResource
	ResourceIDs []int64

	RequirePayment        bool
	RequireConfirmation   bool
	ReservationTTLSeconds int

	Configuration json.RawMessage

	Priority   int
	IsActive   bool
	ValidFrom  *time.Time
	ValidUntil *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScopeRank orders scopes for rule resolution: global rules are considered
// first so resource rules always layer on top regardless of numeric priority
func (r *BookingRule) ScopeRank() int {
	if r.Scope == ScopeGlobal {
		return 0
	}
	return 1
}

// AppliesToResource returns true if a resource-scoped rule names the resource
func (r *BookingRule) AppliesToResource(resourceID int64) bool {
	for _, id := range r.ResourceIDs {
		if id == resourceID {
			return true
		}
	}
	return false
}

// ResolvedRules is the single effective policy merged from all applicable
// rules at a point in time. Derived, never persisted.
type ResolvedRules struct {
	RequirePayment        bool            `json:"require_payment"`
	ReservationTTLSeconds int             `json:"reservation_ttl_seconds"`
	RequireConfirmation   bool            `json:"require_confirmation"`
	CustomConfig          json.RawMessage `json:"custom_config"`

	// ResolvedFrom lists the scopes actually applied, in application order
	ResolvedFrom []RuleScope `json:"_resolved_from"`

	// Priority is the max priority seen, or DefaultRulesPriority if none applied
	Priority int `json:"_priority"`
}

// Defaults of the resolved policy when no rules are applicable
const (
	DefaultRequirePayment        = true
	DefaultRequireConfirmation   = false
	DefaultReservationTTLSeconds = 3600
	DefaultRulesPriority         = -1
)

// DefaultResolvedRules returns the fixed fallback policy
func DefaultResolvedRules() ResolvedRules {
	return ResolvedRules{
		RequirePayment:        DefaultRequirePayment,
		ReservationTTLSeconds: DefaultReservationTTLSeconds,
		RequireConfirmation:   DefaultRequireConfirmation,
		CustomConfig:          nil,
		ResolvedFrom:          []RuleScope{},
		Priority:              DefaultRulesPriority,
	}
}

// ReservationTTL returns the reservation TTL as a duration
func (r ResolvedRules) ReservationTTL() time.Duration {
	return time.Duration(r.ReservationTTLSeconds) * time.Second
}
