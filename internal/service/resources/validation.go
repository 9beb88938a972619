package resources

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources/models"
)

// validateCreateResource проверяет запрос на создание ресурса
func validateCreateResource(req *models.CreateResourceRequest) error {
	if req.ProductID == "" {
		return fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}
	if req.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if req.ResourceType == "" {
		return fmt.Errorf("%w: resourceType is required", ErrInvalidInput)
	}
	if req.Description != nil && len(*req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	return nil
}

// validateRuleName проверяет имя правила доступности
func validateRuleName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: rule name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxRuleNameLength {
		return fmt.Errorf("%w: rule name exceeds %d characters", ErrInvalidInput, domain.MaxRuleNameLength)
	}
	return nil
}

// validateRulePriority проверяет приоритет правила доступности.
// Верхняя граница гарантирует, что слой аллокаций всегда старше любого правила
func validateRulePriority(priority int) error {
	if priority < domain.MinRulePriority || priority > domain.MaxRulePriority {
		return fmt.Errorf("%w: rule priority must be between %d and %d",
			ErrInvalidInput, domain.MinRulePriority, domain.MaxRulePriority)
	}
	return nil
}

// validateValidityWindow проверяет окно действия правила
func validateValidityWindow(from, until *time.Time) error {
	if from != nil && until != nil && !from.Before(*until) {
		return fmt.Errorf("%w: validFrom must be before validUntil", ErrInvalidInput)
	}
	return nil
}

// validateCreateRule проверяет запрос на создание правила доступности
func validateCreateRule(req *models.CreateRuleRequest) error {
	if req.RuleType == "" {
		return fmt.Errorf("%w: ruleType is required", ErrInvalidInput)
	}
	if err := validateRuleName(req.Name); err != nil {
		return err
	}
	if err := validateRulePriority(req.Priority); err != nil {
		return err
	}
	if err := validateValidityWindow(req.ValidFrom, req.ValidUntil); err != nil {
		return err
	}
	if req.Description != nil && len(*req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	return nil
}

// validateCreatePricingConfig проверяет запрос на создание конфигурации цены
func validateCreatePricingConfig(req *models.CreatePricingConfigRequest) error {
	if req.ProductVariantID == "" {
		return fmt.Errorf("%w: productVariantId is required", ErrInvalidInput)
	}
	if req.UnitValue <= 0 {
		return fmt.Errorf("%w: unitValue must be positive", ErrInvalidInput)
	}
	return nil
}
