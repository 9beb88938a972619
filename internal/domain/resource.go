package domain

import "time"

// ResourceStatus controls storefront visibility of a resource
type ResourceStatus string

const (
	ResourceDraft     ResourceStatus = "draft"
	ResourcePublished ResourceStatus = "published"
)

// PricingUnit is the unit a resource is priced and booked in
type PricingUnit string

const (
	UnitSecond PricingUnit = "second"
	UnitMinute PricingUnit = "minute"
	UnitHour   PricingUnit = "hour"
	UnitDay    PricingUnit = "day"
	UnitCustom PricingUnit = "custom"
)

// Resource is a bookable entity (room, equipment, service) owning its
// availability rules, allocations and pricing configs. Deleting a resource
// cascades to all of them; deleting an allocation never cascades upward.
type Resource struct {
	ID           int64
	ProductID    string
	Title        string
	Subtitle     *string
	Description  *string
	ResourceType string
	Status       ResourceStatus
	IsBookable   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResourceSnapshot is a resource with its rules and allocations preloaded -
// the immutable input of the availability engine. Active-only filtering of
// rules is the engine's responsibility, not the loader's.
type ResourceSnapshot struct {
	Resource       Resource
	Rules          []AvailabilityRule
	Allocations    []ResourceAllocation
	PricingConfigs []PricingConfig
}

// PricingConfig links a resource to a product variant and defines the
// booking granularity (e.g. per-hour vs per-day)
type PricingConfig struct {
	ID                  int64
	ResourceID          int64
	ProductVariantID    string
	ProductVariantTitle *string
	Unit                PricingUnit
	UnitValue           int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsDayBased returns true if the resource books whole days: hold windows are
// normalized to UTC day boundaries before allocation
func (s *ResourceSnapshot) IsDayBased() bool {
	for _, pc := range s.PricingConfigs {
		if pc.Unit == UnitDay {
			return true
		}
	}
	return false
}
