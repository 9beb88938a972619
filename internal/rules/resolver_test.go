package rules

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

var evalTime = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func ctxFor(resourceID *int64) ResolutionContext {
	return ResolutionContext{ResourceID: resourceID, EvaluationTime: evalTime}
}

func globalRule(id int64, priority, ttl int, requirePayment bool) domain.BookingRule {
	return domain.BookingRule{
		ID:                    id,
		Name:                  "global",
		Scope:                 domain.ScopeGlobal,
		RequirePayment:        requirePayment,
		ReservationTTLSeconds: ttl,
		Priority:              priority,
		IsActive:              true,
	}
}

func resourceRule(id int64, priority, ttl int, resourceIDs ...int64) domain.BookingRule {
	return domain.BookingRule{
		ID:                    id,
		Name:                  "resource",
		Scope:                 domain.ScopeResource,
		ResourceIDs:           resourceIDs,
		RequirePayment:        true,
		ReservationTTLSeconds: ttl,
		Priority:              priority,
		IsActive:              true,
	}
}

func TestResolve_NoRules_ReturnsDefaults(t *testing.T) {
	result := Resolve(nil, ctxFor(nil))

	assert.True(t, result.RequirePayment)
	assert.Equal(t, domain.DefaultReservationTTLSeconds, result.ReservationTTLSeconds)
	assert.False(t, result.RequireConfirmation)
	assert.Nil(t, result.CustomConfig)
	assert.Empty(t, result.ResolvedFrom)
	assert.Equal(t, domain.DefaultRulesPriority, result.Priority)
}

func TestResolve_ResourceScopeOverridesGlobal(t *testing.T) {
	// The global rule carries a higher numeric priority, but scope wins:
	// resource rules are applied after global ones.
	allRules := []domain.BookingRule{
		globalRule(1, 5, 100, false),
		resourceRule(2, 1, 200, 42),
	}

	result := Resolve(allRules, ctxFor(ptr.Ptr(int64(42))))

	assert.Equal(t, 200, result.ReservationTTLSeconds)
	assert.True(t, result.RequirePayment)
	assert.Equal(t, []domain.RuleScope{domain.ScopeGlobal, domain.ScopeResource}, result.ResolvedFrom)
	assert.Equal(t, 5, result.Priority)
}

func TestResolve_HigherPriorityWinsWithinScope(t *testing.T) {
	allRules := []domain.BookingRule{
		globalRule(1, 10, 100, false),
		globalRule(2, 20, 500, true),
	}

	result := Resolve(allRules, ctxFor(nil))

	assert.Equal(t, 500, result.ReservationTTLSeconds)
	assert.True(t, result.RequirePayment)
	assert.Equal(t, 20, result.Priority)
}

func TestResolve_CustomConfigKeptUnlessReplaced(t *testing.T) {
	withConfig := globalRule(1, 1, 100, true)
	withConfig.Configuration = json.RawMessage(`{"deposit_pct": 20}`)
	withoutConfig := resourceRule(2, 1, 200, 42)

	result := Resolve([]domain.BookingRule{withConfig, withoutConfig}, ctxFor(ptr.Ptr(int64(42))))

	// The resource rule overrides scalar fields but carries no configuration,
	// so the global rule's config survives.
	assert.Equal(t, 200, result.ReservationTTLSeconds)
	assert.JSONEq(t, `{"deposit_pct": 20}`, string(result.CustomConfig))
}

func TestFilterApplicable_DropsInactive(t *testing.T) {
	inactive := globalRule(1, 1, 100, true)
	inactive.IsActive = false

	applicable := FilterApplicable([]domain.BookingRule{inactive}, ctxFor(nil))

	assert.Empty(t, applicable)
}

func TestFilterApplicable_ValidityWindow(t *testing.T) {
	expired := globalRule(1, 1, 100, true)
	expired.ValidUntil = ptr.Ptr(evalTime.Add(-time.Hour))

	notYet := globalRule(2, 1, 100, true)
	notYet.ValidFrom = ptr.Ptr(evalTime.Add(time.Hour))

	current := globalRule(3, 1, 100, true)
	current.ValidFrom = ptr.Ptr(evalTime.Add(-time.Hour))
	current.ValidUntil = ptr.Ptr(evalTime.Add(time.Hour))

	applicable := FilterApplicable([]domain.BookingRule{expired, notYet, current}, ctxFor(nil))

	require.Len(t, applicable, 1)
	assert.Equal(t, int64(3), applicable[0].ID)
}

func TestFilterApplicable_ResourceScopeRequiresMatchingResource(t *testing.T) {
	rule := resourceRule(1, 1, 100, 42, 43)

	// No resource in context: resource-scoped rules never apply.
	assert.Empty(t, FilterApplicable([]domain.BookingRule{rule}, ctxFor(nil)))

	// Resource outside the rule's list.
	assert.Empty(t, FilterApplicable([]domain.BookingRule{rule}, ctxFor(ptr.Ptr(int64(7)))))

	// Member of the rule's list.
	applicable := FilterApplicable([]domain.BookingRule{rule}, ctxFor(ptr.Ptr(int64(43))))
	require.Len(t, applicable, 1)
	assert.Equal(t, int64(1), applicable[0].ID)
}
