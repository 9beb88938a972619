package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/allocation"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

// Service сервис жизненного цикла бронирований после чекаута:
// запросы, подтверждение, завершение, отмена с каскадом на аллокации
type Service struct {
	bookingRepo    BookingRepository
	allocationRepo AllocationRepository
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	allocationRepo AllocationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		allocationRepo: allocationRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// GetByID получает бронирование с позициями
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	items, err := s.bookingRepo.ListLineItems(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to list line items for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - failed to list line items: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking, items), nil
}

// List получает бронирования с фильтрацией по статусу, периоду и заказу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(list), nil
}

// Confirm подтверждает ожидающее бронирование (например, после оффлайн
// согласования, когда политика требует подтверждения)
func (s *Service) Confirm(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: booking id=%d", id)

	err := s.bookingRepo.TransitionStatus(ctx, id, []domain.BookingStatus{domain.BookingPending}, domain.BookingConfirmed)
	if err != nil {
		return nil, s.mapTransitionError("Confirm", id, err)
	}

	s.logger.Info("Confirm: booking id=%d confirmed", id)
	return s.GetByID(ctx, id)
}

// Complete помечает подтвержденное бронирование завершенным
func (s *Service) Complete(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: booking id=%d", id)

	err := s.bookingRepo.TransitionStatus(ctx, id, []domain.BookingStatus{domain.BookingConfirmed}, domain.BookingCompleted)
	if err != nil {
		return nil, s.mapTransitionError("Complete", id, err)
	}

	s.logger.Info("Complete: booking id=%d completed", id)
	return s.GetByID(ctx, id)
}

// Cancel отменяет бронирование и каскадно отменяет его аллокации,
// освобождая занятые окна ресурсов. Выполняется в одной транзакции
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: booking id=%d, reason=%s", id, req.CancellationReason)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		err := s.bookingRepo.TransitionStatus(txCtx, id,
			[]domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed},
			domain.BookingCancelled)
		if err != nil {
			return s.mapTransitionError("Cancel", id, err)
		}

		items, err := s.bookingRepo.ListLineItems(txCtx, id)
		if err != nil {
			s.logger.Error("Cancel: failed to list line items for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - failed to list line items: %v", ErrInternal, err)
		}

		itemIDs := make([]int64, 0, len(items))
		for _, item := range items {
			itemIDs = append(itemIDs, item.ID)
		}

		allocations, err := s.allocationRepo.ListByLineItems(txCtx, itemIDs)
		if err != nil {
			s.logger.Error("Cancel: failed to list allocations for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - failed to list allocations: %v", ErrInternal, err)
		}

		reason := req.CancellationReason
		if reason == "" {
			reason = "booking cancelled"
		}

		for _, alloc := range allocations {
			if !alloc.IsActive() {
				continue
			}
			err := s.allocationRepo.TransitionStatus(txCtx, alloc.ID,
				domain.ActiveAllocationStatuses, domain.AllocationCancelled, ptr.Ptr(reason))
			if err != nil && !errors.Is(err, allocationRepo.ErrStaleTransition) {
				s.logger.Error("Cancel: failed to cancel allocation id=%d: %v", alloc.ID, err)
				return fmt.Errorf("%w: Cancel - failed to cancel allocation: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: booking id=%d cancelled", id)
	return s.GetByID(ctx, id)
}

// GetStats возвращает агрегаты бронирований для дашборда
func (s *Service) GetStats(ctx context.Context) (*models.StatsResponse, error) {
	stats, err := s.bookingRepo.GetStats(ctx, time.Now())
	if err != nil {
		s.logger.Error("GetStats: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetStats - repository error: %v", ErrInternal, err)
	}

	return models.FromStats(stats), nil
}

// mapTransitionError переводит ошибки репозитория в ошибки сервиса
func (s *Service) mapTransitionError(op string, id int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return ErrBookingNotFound
	}
	if errors.Is(err, bookingRepo.ErrStaleTransition) {
		s.logger.Warn("%s: booking id=%d is not in an allowed status", op, id)
		return ErrInvalidTransition
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
