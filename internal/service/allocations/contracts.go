package allocations

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ResourceAllocation, error)
	ListByCart(ctx context.Context, cartID string) ([]domain.ResourceAllocation, error)
	TransitionStatus(ctx context.Context, id int64, allowedFrom []domain.AllocationStatus, to domain.AllocationStatus, cancellationReason *string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
