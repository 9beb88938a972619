package create_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/availability"
	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/locks"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

// Параметры блокировки ресурса на время проверки и создания холда
const (
	lockTTL            = 10 * time.Second
	lockAcquireTimeout = 5 * time.Second
)

// UseCase use case создания холда: временной аллокации, резервирующей
// окно ресурса до завершения чекаута
type UseCase struct {
	resourceRepo   ResourceRepository
	ruleRepo       RuleRepository
	allocationRepo AllocationRepository
	policyResolver PolicyResolver
	lockProvider   LockProvider
	txManager      TransactionManager
	timeProvider   TimeProvider
	metrics        MetricsObserver
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	ruleRepo RuleRepository,
	allocationRepo AllocationRepository,
	policyResolver PolicyResolver,
	lockProvider LockProvider,
	txManager TransactionManager,
	metrics MetricsObserver,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo:   resourceRepo,
		ruleRepo:       ruleRepo,
		allocationRepo: allocationRepo,
		policyResolver: policyResolver,
		lockProvider:   lockProvider,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		metrics:        metrics,
		logger:         logger,
	}
}

// Execute выполняет use case создания холда.
// Конкурирующие холды на один ресурс сериализуются консультативной
// блокировкой, проверка доступности и вставка выполняются в сериализуемой
// транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: resource=%d, window=[%s, %s)",
		req.ResourceID, req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if req.StartTime.Before(now) {
		uc.logger.Warn("CreateHold: window starts in the past for resource=%d", req.ResourceID)
		return nil, ErrWindowInPast
	}

	// 2. Проверяем ресурс до захвата блокировки
	res, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateHold: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateHold: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !res.IsBookable {
		uc.logger.Warn("CreateHold: resource id=%d is not bookable", req.ResourceID)
		return nil, ErrResourceNotBookable
	}

	// 3. Вычисляем эффективную политику - из нее берется TTL холда
	policy, err := uc.policyResolver.ResolveAt(ctx, ptr.Ptr(req.ResourceID), now)
	if err != nil {
		uc.logger.Error("CreateHold: failed to resolve booking policy: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve booking policy: %v", ErrInternal, err)
	}

	// 4. Захватываем блокировку ресурса
	lockKey := fmt.Sprintf("resource:%d", req.ResourceID)
	if err := uc.lockProvider.Acquire(ctx, lockKey, lockTTL, lockAcquireTimeout); err != nil {
		if errors.Is(err, locks.ErrLockTimeout) {
			uc.metrics.ObserveLockTimeout()
			uc.logger.Warn("CreateHold: lock timeout for resource=%d", req.ResourceID)
			return nil, ErrLockTimeout
		}
		uc.logger.Error("CreateHold: failed to acquire lock for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
	}
	defer func() {
		if err := uc.lockProvider.Release(ctx, lockKey); err != nil {
			uc.logger.Error("CreateHold: failed to release lock %s: %v", lockKey, err)
		}
	}()

	var result *domain.ResourceAllocation

	// 5. Проверка доступности и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		rules, err := uc.ruleRepo.ListByResource(txCtx, req.ResourceID)
		if err != nil {
			uc.logger.Error("CreateHold: failed to list rules for resource=%d: %v", req.ResourceID, err)
			return fmt.Errorf("%w: failed to list rules: %v", ErrInternal, err)
		}

		// В транзакции чтение аллокаций выполняется с FOR UPDATE
		allocations, err := uc.allocationRepo.ListByResource(txCtx, req.ResourceID, true)
		if err != nil {
			uc.logger.Error("CreateHold: failed to list allocations for resource=%d: %v", req.ResourceID, err)
			return fmt.Errorf("%w: failed to list allocations: %v", ErrInternal, err)
		}

		configs, err := uc.resourceRepo.ListPricingConfigs(txCtx, req.ResourceID)
		if err != nil {
			uc.logger.Error("CreateHold: failed to list pricing configs for resource=%d: %v", req.ResourceID, err)
			return fmt.Errorf("%w: failed to list pricing configs: %v", ErrInternal, err)
		}

		snapshot := &domain.ResourceSnapshot{
			Resource:       *res,
			Rules:          rules,
			Allocations:    allocations,
			PricingConfigs: configs,
		}

		// Ресурсы с посуточной тарификацией бронируются целыми UTC сутками
		start, end := req.StartTime, req.EndTime
		if snapshot.IsDayBased() {
			start, end = normalizeDayWindow(start, end)
			uc.logger.Info("CreateHold: normalized day-based window to [%s, %s)",
				start.Format(time.RFC3339), end.Format(time.RFC3339))
		}

		if !availability.WindowAvailable(snapshot, start, end) {
			uc.logger.Warn("CreateHold: window not available for resource=%d", req.ResourceID)
			return ErrWindowNotAvailable
		}

		expiresAt := now.Add(policy.ReservationTTL())
		hold := &domain.ResourceAllocation{
			ResourceID: req.ResourceID,
			CartID:     req.CartID,
			StartTime:  start,
			EndTime:    end,
			ExpiresAt:  &expiresAt,
			Status:     domain.AllocationHold,
		}

		created, err := uc.allocationRepo.Create(txCtx, hold)
		if err != nil {
			uc.logger.Error("CreateHold: failed to create allocation: %v", err)
			return fmt.Errorf("%w: failed to create allocation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateHold: created hold id=%d for resource=%d, expires at %s",
		result.ID, req.ResourceID, result.ExpiresAt.Format(time.RFC3339))

	return fromDomain(result), nil
}

// normalizeDayWindow расширяет окно до границ UTC суток: начало вниз,
// конец вверх. Конец ровно на полуночи не расширяется
func normalizeDayWindow(start, end time.Time) (time.Time, time.Time) {
	normalizedStart := domain.StartOfUTCDay(start)
	normalizedEnd := domain.StartOfUTCDay(end)
	if normalizedEnd.Before(end) {
		normalizedEnd = normalizedEnd.Add(24 * time.Hour)
	}
	return normalizedStart, normalizedEnd
}
