package complete_checkout

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	ListByCart(ctx context.Context, cartID string) ([]domain.ResourceAllocation, error)
	TransitionStatus(ctx context.Context, id int64, allowedFrom []domain.AllocationStatus, to domain.AllocationStatus, cancellationReason *string) error
	LinkLineItem(ctx context.Context, id int64, lineItemID int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	CreateLineItem(ctx context.Context, item *domain.BookingLineItem) (*domain.BookingLineItem, error)
}

// PolicyResolver интерфейс резолвера политики бронирования
type PolicyResolver interface {
	ResolveAt(ctx context.Context, resourceID *int64, at time.Time) (*domain.ResolvedRules, error)
}

// LockProvider интерфейс провайдера консультативных блокировок
type LockProvider interface {
	Acquire(ctx context.Context, key string, ttl, timeout time.Duration) error
	Release(ctx context.Context, key string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// MetricsObserver интерфейс для метрик блокировок
type MetricsObserver interface {
	ObserveLockTimeout()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
