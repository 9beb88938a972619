package get_availability

import (
	"context"

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
	ListByResource(ctx context.Context, resourceID int64, activeOnly bool) ([]domain.ResourceAllocation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
