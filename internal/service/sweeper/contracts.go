package sweeper

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	ListExpiredHolds(ctx context.Context, now time.Time) ([]domain.ResourceAllocation, error)
	TransitionStatus(ctx context.Context, id int64, allowedFrom []domain.AllocationStatus, to domain.AllocationStatus, cancellationReason *string) error
}

// MetricsObserver интерфейс для метрик sweep прохода
type MetricsObserver interface {
	ObserveSweepRun(expired, failed int, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
