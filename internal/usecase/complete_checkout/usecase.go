package complete_checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/locks"
	allocationRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/allocation"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

// Параметры блокировки корзины на время завершения чекаута
const (
	lockTTL            = 15 * time.Second
	lockAcquireTimeout = 5 * time.Second
)

// UseCase use case завершения чекаута: подтверждает холды корзины и
// создает бронирование с позициями
type UseCase struct {
	allocationRepo AllocationRepository
	bookingRepo    BookingRepository
	policyResolver PolicyResolver
	lockProvider   LockProvider
	txManager      TransactionManager
	timeProvider   TimeProvider
	metrics        MetricsObserver
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	allocationRepo AllocationRepository,
	bookingRepo BookingRepository,
	policyResolver PolicyResolver,
	lockProvider LockProvider,
	txManager TransactionManager,
	metrics MetricsObserver,
	logger Logger,
) *UseCase {
	return &UseCase{
		allocationRepo: allocationRepo,
		bookingRepo:    bookingRepo,
		policyResolver: policyResolver,
		lockProvider:   lockProvider,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		metrics:        metrics,
		logger:         logger,
	}
}

// Execute выполняет use case завершения чекаута.
// Гонка с sweep'ом протухших холдов закрывается условными переходами
// статусов: либо чекаут успевает подтвердить холд, либо sweep его отменяет,
// но не оба сразу
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteCheckout: cart=%s, order=%s", req.CartID, req.OrderID)

	// 1. Валидация входных данных
	if req.CartID == "" {
		return nil, fmt.Errorf("%w: cartId is required", ErrInvalidInput)
	}
	if req.OrderID == "" {
		return nil, fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 2. Захватываем блокировку корзины
	lockKey := fmt.Sprintf("cart:%s", req.CartID)
	if err := uc.lockProvider.Acquire(ctx, lockKey, lockTTL, lockAcquireTimeout); err != nil {
		if errors.Is(err, locks.ErrLockTimeout) {
			uc.metrics.ObserveLockTimeout()
			uc.logger.Warn("CompleteCheckout: lock timeout for cart=%s", req.CartID)
			return nil, ErrLockTimeout
		}
		uc.logger.Error("CompleteCheckout: failed to acquire lock for cart=%s: %v", req.CartID, err)
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
	}
	defer func() {
		if err := uc.lockProvider.Release(ctx, lockKey); err != nil {
			uc.logger.Error("CompleteCheckout: failed to release lock %s: %v", lockKey, err)
		}
	}()

	var (
		booking *domain.Booking
		items   []domain.BookingLineItem
	)

	// 3. Подтверждение холдов и создание бронирования в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		allocations, err := uc.allocationRepo.ListByCart(txCtx, req.CartID)
		if err != nil {
			uc.logger.Error("CompleteCheckout: failed to list allocations for cart=%s: %v", req.CartID, err)
			return fmt.Errorf("%w: failed to list allocations: %v", ErrInternal, err)
		}

		pending := make([]domain.ResourceAllocation, 0, len(allocations))
		for _, alloc := range allocations {
			if alloc.Status == domain.AllocationHold || alloc.Status == domain.AllocationReserved {
				pending = append(pending, alloc)
			}
		}
		if len(pending) == 0 {
			if len(allocations) > 0 {
				uc.logger.Warn("CompleteCheckout: cart=%s allocations already processed", req.CartID)
				return ErrAlreadyProcessed
			}
			uc.logger.Warn("CompleteCheckout: cart=%s has no allocations", req.CartID)
			return ErrNoAllocations
		}

		// Протухший холд не подтверждаем, даже если sweep до него еще не дошел
		for _, alloc := range pending {
			if alloc.IsExpired(now) {
				uc.logger.Warn("CompleteCheckout: allocation id=%d expired at %s", alloc.ID, alloc.ExpiresAt.Format(time.RFC3339))
				return ErrHoldExpired
			}
		}

		// 3.1. Подтверждаем каждый холд условным переходом
		for _, alloc := range pending {
			err := uc.allocationRepo.TransitionStatus(txCtx, alloc.ID,
				[]domain.AllocationStatus{domain.AllocationHold, domain.AllocationReserved},
				domain.AllocationConfirmed, nil)
			if err != nil {
				if errors.Is(err, allocationRepo.ErrStaleTransition) {
					uc.logger.Warn("CompleteCheckout: allocation id=%d changed status concurrently", alloc.ID)
					return ErrAlreadyProcessed
				}
				uc.logger.Error("CompleteCheckout: failed to confirm allocation id=%d: %v", alloc.ID, err)
				return fmt.Errorf("%w: failed to confirm allocation: %v", ErrInternal, err)
			}
		}

		// 3.2. Политика решает, требуется ли ручное подтверждение бронирования
		policy, err := uc.policyResolver.ResolveAt(txCtx, ptr.Ptr(pending[0].ResourceID), now)
		if err != nil {
			uc.logger.Error("CompleteCheckout: failed to resolve booking policy: %v", err)
			return fmt.Errorf("%w: failed to resolve booking policy: %v", ErrInternal, err)
		}

		ranges := make([]domain.TimeRange, 0, len(pending))
		for _, alloc := range pending {
			ranges = append(ranges, alloc.Range())
		}
		window, _ := domain.DeriveBookingWindow(ranges)

		status := domain.BookingConfirmed
		var confirmedAt *time.Time
		if policy.RequireConfirmation {
			status = domain.BookingPending
		} else {
			confirmedAt = &now
		}

		// 3.3. Создаем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			BookingNumber: newBookingNumber(),
			OrderID:       req.OrderID,
			StartTime:     window.Start,
			EndTime:       window.End,
			Status:        status,
			ConfirmedAt:   confirmedAt,
		})
		if err != nil {
			uc.logger.Error("CompleteCheckout: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		booking = created

		// 3.4. Создаем позиции и привязываем их к аллокациям
		for _, alloc := range pending {
			item, err := uc.bookingRepo.CreateLineItem(txCtx, &domain.BookingLineItem{
				BookingID:    created.ID,
				AllocationID: alloc.ID,
				StartTime:    alloc.StartTime,
				EndTime:      alloc.EndTime,
			})
			if err != nil {
				uc.logger.Error("CompleteCheckout: failed to create line item for allocation id=%d: %v", alloc.ID, err)
				return fmt.Errorf("%w: failed to create line item: %v", ErrInternal, err)
			}
			if err := uc.allocationRepo.LinkLineItem(txCtx, alloc.ID, item.ID); err != nil {
				uc.logger.Error("CompleteCheckout: failed to link allocation id=%d to line item id=%d: %v", alloc.ID, item.ID, err)
				return fmt.Errorf("%w: failed to link line item: %v", ErrInternal, err)
			}
			items = append(items, *item)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CompleteCheckout: created booking id=%d number=%s with %d line items",
		booking.ID, booking.BookingNumber, len(items))

	return fromDomain(booking, items), nil
}

// newBookingNumber генерирует человекочитаемый номер бронирования
func newBookingNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return "BK-" + suffix
}
