package create_hold

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	ListPricingConfigs(ctx context.Context, resourceID int64) ([]domain.PricingConfig, error)
}

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	ListByResource(ctx context.Context, resourceID int64) ([]domain.AvailabilityRule, error)
}

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	Create(ctx context.Context, alloc *domain.ResourceAllocation) (*domain.ResourceAllocation, error)
	ListByResource(ctx context.Context, resourceID int64, activeOnly bool) ([]domain.ResourceAllocation, error)
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
