package rules

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// RuleRepository интерфейс репозитория правил бронирования
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.BookingRule) (*domain.BookingRule, error)
	GetByID(ctx context.Context, id int64) (*domain.BookingRule, error)
	List(ctx context.Context) ([]*domain.BookingRule, error)
	Update(ctx context.Context, rule *domain.BookingRule) (*domain.BookingRule, error)
	Delete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
