package domain

import "time"

// LayerSourceType identifies what produced an availability layer
type LayerSourceType string

const (
	LayerSourceBase       LayerSourceType = "base"
	LayerSourceRule       LayerSourceType = "rule"
	LayerSourceAllocation LayerSourceType = "allocation"
)

// LayerEffect describes whether a layer permits or forbids time in its range
type LayerEffect string

const (
	EffectGrant LayerEffect = "grant"
	EffectBlock LayerEffect = "block"
)

// AllocationKind distinguishes a temporary hold from a confirmed reservation
// when rendering allocation-sourced layers
type AllocationKind string

const (
	AllocationKindHold   AllocationKind = "hold"
	AllocationKindBooked AllocationKind = "booked"
)

// AllocationLayerPriority is the fixed priority of allocation-sourced block
// layers. It must stay above MaxRulePriority so an allocation always dominates
// any rule grant at the same instant.
const AllocationLayerPriority = 999

// AllocationMetadata carries allocation-specific layer details.
// Only meaningful on layers with SourceType == LayerSourceAllocation.
type AllocationMetadata struct {
	AllocationType AllocationKind `json:"allocation_type"`
	ExpiresAt      *time.Time     `json:"allocation_expires_at,omitempty"`
}

// AvailabilityLayer is one grant/block contribution to availability.
// Layers are evaluated in ascending priority when computing available ranges,
// and in descending priority when picking the single effective layer that
// explains an instant's state.
type AvailabilityLayer struct {
	SourceType LayerSourceType
	SourceID   *int64
	SourceName *string
	Effect     LayerEffect
	Priority   int
	Range      TimeRange
	Metadata   *AllocationMetadata
}

// IsGrant returns true if the layer permits time within its range
func (l *AvailabilityLayer) IsGrant() bool {
	return l.Effect == EffectGrant
}

// IsBlock returns true if the layer forbids time within its range
func (l *AvailabilityLayer) IsBlock() bool {
	return l.Effect == EffectBlock
}
