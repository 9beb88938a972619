package bookings

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, id int64) (*models.BookingResponse, error)
	List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error)
	Confirm(ctx context.Context, id int64) (*models.BookingResponse, error)
	Complete(ctx context.Context, id int64) (*models.BookingResponse, error)
	Cancel(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error)
	GetStats(ctx context.Context) (*models.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
