package allocations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/allocation"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

// Service сервис запросов и ручного управления аллокациями.
// Создание холдов и подтверждение на чекауте живут в соответствующих
// usecase, здесь только чтение и досрочное освобождение
type Service struct {
	allocationRepo AllocationRepository
	logger         Logger
}

// NewService создает новый экземпляр сервиса аллокаций
func NewService(allocationRepo AllocationRepository, logger Logger) *Service {
	return &Service{
		allocationRepo: allocationRepo,
		logger:         logger,
	}
}

// AllocationResponse аллокация в ответе API
type AllocationResponse struct {
	ID                 int64      `json:"id"`
	ResourceID         int64      `json:"resourceId"`
	CartID             *string    `json:"cartId,omitempty"`
	LineItemID         *int64     `json:"lineItemId,omitempty"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            time.Time  `json:"endTime"`
	Status             string     `json:"status"`
	ExpiresAt          *time.Time `json:"expiresAt,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// AllocationListResponse список аллокаций
type AllocationListResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
}

// GetByID получает аллокацию по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*AllocationResponse, error) {
	alloc, err := s.allocationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, allocationRepo.ErrAllocationNotFound) {
			s.logger.Warn("GetByID: allocation id=%d not found", id)
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("GetByID: repository error for allocation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return fromDomain(alloc), nil
}

// ListByCart получает аллокации корзины
func (s *Service) ListByCart(ctx context.Context, cartID string) (*AllocationListResponse, error) {
	if cartID == "" {
		return nil, fmt.Errorf("%w: cartId is required", ErrInvalidInput)
	}

	list, err := s.allocationRepo.ListByCart(ctx, cartID)
	if err != nil {
		s.logger.Error("ListByCart: repository error for cart=%s: %v", cartID, err)
		return nil, fmt.Errorf("%w: ListByCart - repository error: %v", ErrInternal, err)
	}

	resp := &AllocationListResponse{Allocations: make([]AllocationResponse, 0, len(list))}
	for i := range list {
		resp.Allocations = append(resp.Allocations, *fromDomain(&list[i]))
	}
	return resp, nil
}

// Release досрочно отменяет холд, освобождая окно ресурса.
// Подтвержденные аллокации так не отменяются - они живут и умирают
// вместе со своим бронированием
func (s *Service) Release(ctx context.Context, id int64, reason string) error {
	s.logger.Info("Release: allocation id=%d, reason=%s", id, reason)

	if len(reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason exceeds %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	if reason == "" {
		reason = "released"
	}

	err := s.allocationRepo.TransitionStatus(ctx, id,
		[]domain.AllocationStatus{domain.AllocationHold, domain.AllocationReserved},
		domain.AllocationCancelled, ptr.Ptr(reason))
	if err != nil {
		if errors.Is(err, allocationRepo.ErrAllocationNotFound) {
			s.logger.Warn("Release: allocation id=%d not found", id)
			return ErrAllocationNotFound
		}
		if errors.Is(err, allocationRepo.ErrStaleTransition) {
			s.logger.Warn("Release: allocation id=%d is not releasable", id)
			return ErrInvalidTransition
		}
		s.logger.Error("Release: repository error for allocation id=%d: %v", id, err)
		return fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Release: allocation id=%d released", id)
	return nil
}

// fromDomain конвертирует аллокацию в response
func fromDomain(a *domain.ResourceAllocation) *AllocationResponse {
	return &AllocationResponse{
		ID:                 a.ID,
		ResourceID:         a.ResourceID,
		CartID:             a.CartID,
		LineItemID:         a.LineItemID,
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		Status:             string(a.Status),
		ExpiresAt:          a.ExpiresAt,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
