package complete_checkout

import (
	"context"

	uc "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/complete_checkout"
)

type CompleteCheckoutUseCase interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
