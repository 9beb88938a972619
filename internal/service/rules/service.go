package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/bookingrule"
	"github.com/m04kA/SMC-ResourceBookingService/internal/rules"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/rules/models"
)

// Service сервис управления правилами бронирования и вычисления
// эффективной политики
type Service struct {
	ruleRepo RuleRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса правил бронирования
func NewService(ruleRepo RuleRepository, logger Logger) *Service {
	return &Service{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// Create создает правило бронирования
func (s *Service) Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: name=%s, scope=%s, priority=%d", req.Name, req.Scope, req.Priority)

	if err := validateCreateRule(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	scope, err := models.ToDomainScope(req.Scope)
	if err != nil {
		s.logger.Warn("Create: invalid scope=%s", req.Scope)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rule := &domain.BookingRule{
		Name:                  req.Name,
		Description:           req.Description,
		Scope:                 scope,
		ResourceIDs:           req.ResourceIDs,
		RequirePayment:        domain.DefaultRequirePayment,
		RequireConfirmation:   domain.DefaultRequireConfirmation,
		ReservationTTLSeconds: domain.DefaultReservationTTLSeconds,
		Configuration:         req.Configuration,
		Priority:              req.Priority,
		IsActive:              true,
		ValidFrom:             req.ValidFrom,
		ValidUntil:            req.ValidUntil,
	}
	if req.RequirePayment != nil {
		rule.RequirePayment = *req.RequirePayment
	}
	if req.RequireConfirmation != nil {
		rule.RequireConfirmation = *req.RequireConfirmation
	}
	if req.ReservationTTLSeconds != nil {
		rule.ReservationTTLSeconds = *req.ReservationTTLSeconds
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	created, err := s.ruleRepo.Create(ctx, rule)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created booking rule id=%d", created.ID)
	return models.FromDomainRule(created), nil
}

// Get получает правило бронирования по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.RuleResponse, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Get: booking rule id=%d not found", id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("Get: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRule(rule), nil
}

// List получает все правила бронирования
func (s *Service) List(ctx context.Context) (*models.RuleListResponse, error) {
	list, err := s.ruleRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRuleList(list), nil
}

// Update частично обновляет правило бронирования
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Update: booking rule id=%d", id)

	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Update: booking rule id=%d not found", id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("Update: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if err := applyUpdate(rule, req); err != nil {
		s.logger.Warn("Update: validation failed for id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.ruleRepo.Update(ctx, rule)
	if err != nil {
		s.logger.Error("Update: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: updated booking rule id=%d", id)
	return models.FromDomainRule(updated), nil
}

// Delete удаляет правило бронирования
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: booking rule id=%d", id)

	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Delete: booking rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: deleted booking rule id=%d", id)
	return nil
}

// Evaluate вычисляет эффективную политику бронирования на момент времени:
// глобальные правила применяются раньше ресурсных, внутри области - по
// возрастанию приоритета, поздние перекрывают ранние
func (s *Service) Evaluate(ctx context.Context, req *models.EvaluateRequest) (*models.EvaluateResponse, error) {
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	resolved, err := s.ResolveAt(ctx, req.ResourceID, at)
	if err != nil {
		return nil, err
	}

	return models.FromResolvedRules(*resolved), nil
}

// ResolveAt вычисляет политику в domain представлении, для использования
// другими сервисами (TTL холда, требование подтверждения на чекауте)
func (s *Service) ResolveAt(ctx context.Context, resourceID *int64, at time.Time) (*domain.ResolvedRules, error) {
	list, err := s.ruleRepo.List(ctx)
	if err != nil {
		s.logger.Error("ResolveAt: repository error: %v", err)
		return nil, fmt.Errorf("%w: ResolveAt - repository error: %v", ErrInternal, err)
	}

	allRules := make([]domain.BookingRule, 0, len(list))
	for _, r := range list {
		allRules = append(allRules, *r)
	}

	resolved := rules.Resolve(allRules, rules.ResolutionContext{
		ResourceID:     resourceID,
		EvaluationTime: at,
	})

	return &resolved, nil
}
