package holds

import (
	"context"

	allocationsService "github.com/m04kA/SMC-ResourceBookingService/internal/service/allocations"
	uc "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/create_hold"
)

type CreateHoldUseCase interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type AllocationService interface {
	GetByID(ctx context.Context, id int64) (*allocationsService.AllocationResponse, error)
	ListByCart(ctx context.Context, cartID string) (*allocationsService.AllocationListResponse, error)
	Release(ctx context.Context, id int64, reason string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
