package rules

import (
	"fmt"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/rules/models"
)

// validateCreateRule проверяет запрос на создание правила бронирования
func validateCreateRule(req *models.CreateRuleRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(req.Name) > domain.MaxRuleNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, domain.MaxRuleNameLength)
	}
	if req.Priority < 0 || req.Priority > domain.MaxBookingRulePriority {
		return fmt.Errorf("%w: priority must be between 0 and %d", ErrInvalidInput, domain.MaxBookingRulePriority)
	}
	if domain.RuleScope(req.Scope) == domain.ScopeResource && len(req.ResourceIDs) == 0 {
		return fmt.Errorf("%w: resource-scoped rule requires resourceIds", ErrInvalidInput)
	}
	if req.ReservationTTLSeconds != nil {
		if err := validateTTL(*req.ReservationTTLSeconds); err != nil {
			return err
		}
	}
	if req.ValidFrom != nil && req.ValidUntil != nil && !req.ValidFrom.Before(*req.ValidUntil) {
		return fmt.Errorf("%w: validFrom must be before validUntil", ErrInvalidInput)
	}
	return nil
}

// validateTTL проверяет TTL резервации
func validateTTL(seconds int) error {
	if seconds < domain.MinReservationTTLSeconds || seconds > domain.MaxReservationTTLSeconds {
		return fmt.Errorf("%w: reservationTtlSeconds must be between %d and %d",
			ErrInvalidInput, domain.MinReservationTTLSeconds, domain.MaxReservationTTLSeconds)
	}
	return nil
}

// applyUpdate накладывает частичное обновление на правило с валидацией
func applyUpdate(rule *domain.BookingRule, req *models.UpdateRuleRequest) error {
	if req.Name != nil {
		if *req.Name == "" {
			return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		if len(*req.Name) > domain.MaxRuleNameLength {
			return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, domain.MaxRuleNameLength)
		}
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = req.Description
	}
	if req.Scope != nil {
		scope, err := models.ToDomainScope(*req.Scope)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		rule.Scope = scope
	}
	if req.ResourceIDs != nil {
		rule.ResourceIDs = req.ResourceIDs
	}
	if rule.Scope == domain.ScopeResource && len(rule.ResourceIDs) == 0 {
		return fmt.Errorf("%w: resource-scoped rule requires resourceIds", ErrInvalidInput)
	}
	if req.RequirePayment != nil {
		rule.RequirePayment = *req.RequirePayment
	}
	if req.RequireConfirmation != nil {
		rule.RequireConfirmation = *req.RequireConfirmation
	}
	if req.ReservationTTLSeconds != nil {
		if err := validateTTL(*req.ReservationTTLSeconds); err != nil {
			return err
		}
		rule.ReservationTTLSeconds = *req.ReservationTTLSeconds
	}
	if req.Configuration != nil {
		rule.Configuration = req.Configuration
	}
	if req.Priority != nil {
		if *req.Priority < 0 || *req.Priority > domain.MaxBookingRulePriority {
			return fmt.Errorf("%w: priority must be between 0 and %d", ErrInvalidInput, domain.MaxBookingRulePriority)
		}
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.ValidFrom != nil {
		rule.ValidFrom = req.ValidFrom
	}
	if req.ValidUntil != nil {
		rule.ValidUntil = req.ValidUntil
	}
	if rule.ValidFrom != nil && rule.ValidUntil != nil && !rule.ValidFrom.Before(*rule.ValidUntil) {
		return fmt.Errorf("%w: validFrom must be before validUntil", ErrInvalidInput)
	}
	return nil
}
