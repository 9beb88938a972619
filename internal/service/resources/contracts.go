package resources

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, status *domain.ResourceStatus) ([]*domain.Resource, error)
	Update(ctx context.Context, res *domain.Resource) error
	Delete(ctx context.Context, id int64) error
	CreatePricingConfig(ctx context.Context, pc *domain.PricingConfig) (*domain.PricingConfig, error)
	ListPricingConfigs(ctx context.Context, resourceID int64) ([]domain.PricingConfig, error)
	DeletePricingConfig(ctx context.Context, id int64) error
}

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error)
	ListByResource(ctx context.Context, resourceID int64) ([]domain.AvailabilityRule, error)
	Update(ctx context.Context, rule *domain.AvailabilityRule) error
	SoftDelete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
