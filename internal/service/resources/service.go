package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/availabilityrule"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources/models"
)

// Service сервис управления ресурсами, их правилами доступности
// и конфигурациями цен
type Service struct {
	resourceRepo ResourceRepository
	ruleRepo     RuleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса ресурсов
func NewService(resourceRepo ResourceRepository, ruleRepo RuleRepository, logger Logger) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		ruleRepo:     ruleRepo,
		logger:       logger,
	}
}

// CreateResource создает новый бронируемый ресурс
func (s *Service) CreateResource(ctx context.Context, req *models.CreateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("CreateResource: product=%s, title=%s", req.ProductID, req.Title)

	if err := validateCreateResource(req); err != nil {
		s.logger.Warn("CreateResource: validation failed: %v", err)
		return nil, err
	}

	status := domain.ResourceDraft
	if req.Status != nil {
		parsed, err := models.ToDomainResourceStatus(*req.Status)
		if err != nil {
			s.logger.Warn("CreateResource: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = parsed
	}

	isBookable := true
	if req.IsBookable != nil {
		isBookable = *req.IsBookable
	}

	res := &domain.Resource{
		ProductID:    req.ProductID,
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		Description:  req.Description,
		ResourceType: req.ResourceType,
		Status:       status,
		IsBookable:   isBookable,
	}

	created, err := s.resourceRepo.Create(ctx, res)
	if err != nil {
		s.logger.Error("CreateResource: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateResource - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateResource: created resource id=%d", created.ID)
	return models.FromDomainResource(created), nil
}

// GetResource получает ресурс по ID
func (s *Service) GetResource(ctx context.Context, id int64) (*models.ResourceResponse, error) {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("GetResource: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("GetResource: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetResource - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainResource(res), nil
}

// ListResources получает список ресурсов, опционально по статусу
func (s *Service) ListResources(ctx context.Context, status *string) (*models.ResourceListResponse, error) {
	var domainStatus *domain.ResourceStatus
	if status != nil {
		parsed, err := models.ToDomainResourceStatus(*status)
		if err != nil {
			s.logger.Warn("ListResources: invalid status=%s", *status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		domainStatus = &parsed
	}

	list, err := s.resourceRepo.List(ctx, domainStatus)
	if err != nil {
		s.logger.Error("ListResources: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListResources - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainResourceList(list), nil
}

// UpdateResource частично обновляет ресурс, nil поля запроса не меняются
func (s *Service) UpdateResource(ctx context.Context, id int64, req *models.UpdateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("UpdateResource: resource id=%d", id)

	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("UpdateResource: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("UpdateResource: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateResource - repository error: %v", ErrInternal, err)
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		res.Title = *req.Title
	}
	if req.Subtitle != nil {
		res.Subtitle = req.Subtitle
	}
	if req.Description != nil {
		if len(*req.Description) > domain.MaxDescriptionLength {
			return nil, fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
		}
		res.Description = req.Description
	}
	if req.ResourceType != nil {
		res.ResourceType = *req.ResourceType
	}
	if req.Status != nil {
		parsed, err := models.ToDomainResourceStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		res.Status = parsed
	}
	if req.IsBookable != nil {
		res.IsBookable = *req.IsBookable
	}

	if err := s.resourceRepo.Update(ctx, res); err != nil {
		s.logger.Error("UpdateResource: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateResource - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateResource: updated resource id=%d", id)
	return models.FromDomainResource(res), nil
}

// DeleteResource удаляет ресурс каскадно вместе с правилами, аллокациями
// и конфигурациями цен
func (s *Service) DeleteResource(ctx context.Context, id int64) error {
	s.logger.Info("DeleteResource: resource id=%d", id)

	if err := s.resourceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("DeleteResource: resource id=%d not found", id)
			return ErrResourceNotFound
		}
		s.logger.Error("DeleteResource: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteResource - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteResource: deleted resource id=%d", id)
	return nil
}

// CreateRule создает правило доступности для ресурса
func (s *Service) CreateRule(ctx context.Context, resourceID int64, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("CreateRule: resource=%d, name=%s, priority=%d", resourceID, req.Name, req.Priority)

	if err := validateCreateRule(req); err != nil {
		s.logger.Warn("CreateRule: validation failed: %v", err)
		return nil, err
	}

	effect, err := models.ToDomainRuleEffect(req.Effect)
	if err != nil {
		s.logger.Warn("CreateRule: invalid effect=%s", req.Effect)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Проверяем существование ресурса, чтобы отличить 404 от нарушения FK
	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("CreateRule: resource id=%d not found", resourceID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("CreateRule: repository error for resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: CreateRule - repository error: %v", ErrInternal, err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	rule := &domain.AvailabilityRule{
		ResourceID:    resourceID,
		RuleType:      req.RuleType,
		Name:          req.Name,
		Description:   req.Description,
		Effect:        effect,
		Priority:      req.Priority,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		Configuration: req.Configuration,
		IsActive:      isActive,
	}

	created, err := s.ruleRepo.Create(ctx, rule)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrDuplicateNameOrPriority) {
			s.logger.Warn("CreateRule: name or priority conflict for resource=%d", resourceID)
			return nil, ErrRuleConflict
		}
		s.logger.Error("CreateRule: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateRule: created rule id=%d for resource=%d", created.ID, resourceID)
	return models.FromDomainRule(created), nil
}

// ListRules получает правила доступности ресурса, без удаленных
func (s *Service) ListRules(ctx context.Context, resourceID int64) (*models.RuleListResponse, error) {
	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("%w: ListRules - repository error: %v", ErrInternal, err)
	}

	rules, err := s.ruleRepo.ListByResource(ctx, resourceID)
	if err != nil {
		s.logger.Error("ListRules: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: ListRules - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRuleList(rules), nil
}

// UpdateRule частично обновляет правило доступности
func (s *Service) UpdateRule(ctx context.Context, resourceID, ruleID int64, req *models.UpdateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("UpdateRule: resource=%d, rule=%d", resourceID, ruleID)

	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("UpdateRule: rule id=%d not found", ruleID)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpdateRule: repository error for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: UpdateRule - repository error: %v", ErrInternal, err)
	}
	if rule.ResourceID != resourceID || rule.DeletedAt != nil {
		s.logger.Warn("UpdateRule: rule id=%d does not belong to resource=%d", ruleID, resourceID)
		return nil, ErrRuleNotFound
	}

	if req.Name != nil {
		if err := validateRuleName(*req.Name); err != nil {
			return nil, err
		}
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = req.Description
	}
	if req.Effect != nil {
		effect, err := models.ToDomainRuleEffect(*req.Effect)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		rule.Effect = effect
	}
	if req.Priority != nil {
		if err := validateRulePriority(*req.Priority); err != nil {
			return nil, err
		}
		rule.Priority = *req.Priority
	}
	if req.ValidFrom != nil {
		rule.ValidFrom = req.ValidFrom
	}
	if req.ValidUntil != nil {
		rule.ValidUntil = req.ValidUntil
	}
	if err := validateValidityWindow(rule.ValidFrom, rule.ValidUntil); err != nil {
		return nil, err
	}
	if req.Configuration != nil {
		rule.Configuration = req.Configuration
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		if errors.Is(err, ruleRepo.ErrDuplicateNameOrPriority) {
			s.logger.Warn("UpdateRule: name or priority conflict for rule=%d", ruleID)
			return nil, ErrRuleConflict
		}
		s.logger.Error("UpdateRule: repository error for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: UpdateRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateRule: updated rule id=%d", ruleID)
	return models.FromDomainRule(rule), nil
}

// DeleteRule мягко удаляет правило доступности: правило перестает
// участвовать в расчете доступности, но остается в истории
func (s *Service) DeleteRule(ctx context.Context, resourceID, ruleID int64) error {
	s.logger.Info("DeleteRule: resource=%d, rule=%d", resourceID, ruleID)

	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			return ErrRuleNotFound
		}
		return fmt.Errorf("%w: DeleteRule - repository error: %v", ErrInternal, err)
	}
	if rule.ResourceID != resourceID || rule.DeletedAt != nil {
		return ErrRuleNotFound
	}

	if err := s.ruleRepo.SoftDelete(ctx, ruleID); err != nil {
		s.logger.Error("DeleteRule: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: DeleteRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteRule: soft-deleted rule id=%d", ruleID)
	return nil
}

// CreatePricingConfig создает конфигурацию цены для ресурса
func (s *Service) CreatePricingConfig(ctx context.Context, resourceID int64, req *models.CreatePricingConfigRequest) (*models.PricingConfigResponse, error) {
	s.logger.Info("CreatePricingConfig: resource=%d, variant=%s", resourceID, req.ProductVariantID)

	if err := validateCreatePricingConfig(req); err != nil {
		s.logger.Warn("CreatePricingConfig: validation failed: %v", err)
		return nil, err
	}

	unit, err := models.ToDomainPricingUnit(req.Unit)
	if err != nil {
		s.logger.Warn("CreatePricingConfig: invalid unit=%s", req.Unit)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("%w: CreatePricingConfig - repository error: %v", ErrInternal, err)
	}

	pc := &domain.PricingConfig{
		ResourceID:          resourceID,
		ProductVariantID:    req.ProductVariantID,
		ProductVariantTitle: req.ProductVariantTitle,
		Unit:                unit,
		UnitValue:           req.UnitValue,
	}

	created, err := s.resourceRepo.CreatePricingConfig(ctx, pc)
	if err != nil {
		s.logger.Error("CreatePricingConfig: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreatePricingConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreatePricingConfig: created config id=%d for resource=%d", created.ID, resourceID)
	return models.FromDomainPricingConfig(created), nil
}

// ListPricingConfigs получает конфигурации цен ресурса
func (s *Service) ListPricingConfigs(ctx context.Context, resourceID int64) (*models.PricingConfigListResponse, error) {
	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("%w: ListPricingConfigs - repository error: %v", ErrInternal, err)
	}

	configs, err := s.resourceRepo.ListPricingConfigs(ctx, resourceID)
	if err != nil {
		s.logger.Error("ListPricingConfigs: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: ListPricingConfigs - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPricingConfigList(configs), nil
}

// DeletePricingConfig удаляет конфигурацию цены
func (s *Service) DeletePricingConfig(ctx context.Context, resourceID, configID int64) error {
	s.logger.Info("DeletePricingConfig: resource=%d, config=%d", resourceID, configID)

	configs, err := s.resourceRepo.ListPricingConfigs(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("%w: DeletePricingConfig - repository error: %v", ErrInternal, err)
	}

	found := false
	for _, pc := range configs {
		if pc.ID == configID {
			found = true
			break
		}
	}
	if !found {
		s.logger.Warn("DeletePricingConfig: config id=%d not found for resource=%d", configID, resourceID)
		return ErrPricingConfigNotFound
	}

	if err := s.resourceRepo.DeletePricingConfig(ctx, configID); err != nil {
		if errors.Is(err, resourceRepo.ErrPricingConfigNotFound) {
			return ErrPricingConfigNotFound
		}
		s.logger.Error("DeletePricingConfig: repository error for config id=%d: %v", configID, err)
		return fmt.Errorf("%w: DeletePricingConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeletePricingConfig: deleted config id=%d", configID)
	return nil
}
