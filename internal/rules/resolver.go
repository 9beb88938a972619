// Package rules merges global and resource-scoped booking policy rules into
// one effective policy for an evaluation time and optional resource.
package rules

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// ResolutionContext selects which rules apply
type ResolutionContext struct {
	// ResourceID enables resource-scoped rules when set
	ResourceID *int64

	// EvaluationTime is the instant the validity windows are checked against
	EvaluationTime time.Time
}

// FilterApplicable returns the rules that apply to the context:
//   - inactive rules are dropped,
//   - rules whose [valid_from, valid_until] window (either bound optional)
//     excludes the evaluation time are dropped,
//   - global rules always apply,
//   - resource rules apply only when a resource id is supplied and is a member
//     of the rule's resource list.
func FilterApplicable(allRules []domain.BookingRule, ctx ResolutionContext) []domain.BookingRule {
	applicable := make([]domain.BookingRule, 0, len(allRules))

	for _, rule := range allRules {
		if !rule.IsActive {
			continue
		}
		if rule.ValidFrom != nil && rule.ValidFrom.After(ctx.EvaluationTime) {
			continue
		}
		if rule.ValidUntil != nil && rule.ValidUntil.Before(ctx.EvaluationTime) {
			continue
		}

		switch rule.Scope {
		case domain.ScopeGlobal:
			applicable = append(applicable, rule)
		case domain.ScopeResource:
			if ctx.ResourceID != nil && rule.AppliesToResource(*ctx.ResourceID) {
				applicable = append(applicable, rule)
			}
		}
	}

	return applicable
}

// Resolve filters and merges rules into the single effective policy.
//
// Applicable rules are sorted by (scope rank, priority) ascending: global
// before resource regardless of numeric priority, then ascending priority
// within each scope group so the group's highest-priority rule is applied
// last and wins. The fold is last-write-wins for require_payment,
// reservation_ttl_seconds and require_confirmation; custom_config is replaced
// only by rules carrying a non-null configuration.
//
// With no applicable rules the fixed default policy is returned.
func Resolve(allRules []domain.BookingRule, ctx ResolutionContext) domain.ResolvedRules {
	applicable := FilterApplicable(allRules, ctx)
	if len(applicable) == 0 {
		return domain.DefaultResolvedRules()
	}
	return merge(applicable)
}

func merge(applicable []domain.BookingRule) domain.ResolvedRules {
	sorted := make([]domain.BookingRule, len(applicable))
	copy(sorted, applicable)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ScopeRank() != sorted[j].ScopeRank() {
			return sorted[i].ScopeRank() < sorted[j].ScopeRank()
		}
		return sorted[i].Priority < sorted[j].Priority
	})

	result := domain.DefaultResolvedRules()

	for _, rule := range sorted {
		result.RequirePayment = rule.RequirePayment
		result.ReservationTTLSeconds = rule.ReservationTTLSeconds
		result.RequireConfirmation = rule.RequireConfirmation
		if rule.Configuration != nil {
			result.CustomConfig = rule.Configuration
		}

		result.ResolvedFrom = append(result.ResolvedFrom, rule.Scope)
		if rule.Priority > result.Priority {
			result.Priority = rule.Priority
		}
	}

	return result
}
