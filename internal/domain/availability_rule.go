package domain

import (
	"encoding/json"
	"time"
)

// RuleEffect describes how an availability rule contributes to the layer stack
type RuleEffect string

const (
	RuleEffectAvailable   RuleEffect = "available"
	RuleEffectUnavailable RuleEffect = "unavailable"
)

// AvailabilityRule is an operator-managed rule owned by a resource.
// Only active, non-deleted rules within their validity window participate in
// availability computation.
type AvailabilityRule struct {
	ID          int64
	ResourceID  int64
	RuleType    string
	Name        string
	Description *string
	Effect      RuleEffect
	Priority    int
	ValidFrom   *time.Time
	ValidUntil  *time.Time

	// Configuration is opaque to the availability engine; it is stored and
	// returned as-is for the consuming UI
	Configuration json.RawMessage

	IsActive  bool
	DeletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LayerEffect maps the rule effect to a layer effect
func (r *AvailabilityRule) LayerEffect() LayerEffect {
	if r.Effect == RuleEffectAvailable {
		return EffectGrant
	}
	return EffectBlock
}

// IsInForce returns true if the rule participates in layer compilation:
// active, not soft-deleted
func (r *AvailabilityRule) IsInForce() bool {
	return r.IsActive && r.DeletedAt == nil
}
