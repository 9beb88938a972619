package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ResourceBookingService/internal/availability"
	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
)

// UseCase use case расчета календаря доступности ресурса
type UseCase struct {
	resourceRepo   ResourceRepository
	ruleRepo       RuleRepository
	allocationRepo AllocationRepository
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	ruleRepo RuleRepository,
	allocationRepo AllocationRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo:   resourceRepo,
		ruleRepo:       ruleRepo,
		allocationRepo: allocationRepo,
		logger:         logger,
	}
}

// Execute строит календарь доступности: собирает снапшот ресурса,
// компилирует слои и проецирует их в запрошенный вид
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: resource=%d, view=%s, from=%s, to=%s",
		req.ResourceID, req.View, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	view, ok := availability.ParseView(req.View)
	if !ok {
		uc.logger.Warn("GetAvailability: invalid view=%s", req.View)
		return nil, ErrInvalidView
	}

	snapshot, err := uc.loadSnapshot(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	days := availability.Project(snapshot, req.From, req.To, view)

	uc.logger.Info("GetAvailability: computed %d days for resource=%d", len(days), req.ResourceID)

	return &Response{
		ResourceID: req.ResourceID,
		View:       string(view),
		From:       req.From,
		To:         req.To,
		Days:       fromDays(days),
	}, nil
}

// loadSnapshot собирает неизменяемый снапшот ресурса для движка доступности
func (uc *UseCase) loadSnapshot(ctx context.Context, resourceID int64) (*domain.ResourceSnapshot, error) {
	res, err := uc.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailability: resource id=%d not found", resourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	rules, err := uc.ruleRepo.ListByResource(ctx, resourceID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list rules for resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: failed to list rules: %v", ErrInternal, err)
	}

	allocations, err := uc.allocationRepo.ListByResource(ctx, resourceID, true)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list allocations for resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: failed to list allocations: %v", ErrInternal, err)
	}

	configs, err := uc.resourceRepo.ListPricingConfigs(ctx, resourceID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list pricing configs for resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: failed to list pricing configs: %v", ErrInternal, err)
	}

	return &domain.ResourceSnapshot{
		Resource:       *res,
		Rules:          rules,
		Allocations:    allocations,
		PricingConfigs: configs,
	}, nil
}
