package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListLineItems(ctx context.Context, bookingID int64) ([]domain.BookingLineItem, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, allowedFrom []domain.BookingStatus, to domain.BookingStatus) error
	GetStats(ctx context.Context, now time.Time) (*bookingRepo.Stats, error)
}

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	ListByLineItems(ctx context.Context, lineItemIDs []int64) ([]domain.ResourceAllocation, error)
	TransitionStatus(ctx context.Context, id int64, allowedFrom []domain.AllocationStatus, to domain.AllocationStatus, cancellationReason *string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
